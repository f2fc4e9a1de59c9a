package match

import (
	"fmt"
	"strings"
)

// buildMatchPrompt describes the task and the roster. The biometric
// description is listed separately from the reported attire so the
// model does not anchor on clothing from a possibly old reference
// photo.
func buildMatchPrompt(candidates []Candidate) string {
	var b strings.Builder

	b.WriteString(`You are assisting a missing-person search. Compare the query frame against every candidate below and decide whether any one of them appears in the frame.

Respond with a single JSON object and nothing else:
{
  "found": boolean,
  "person_id": string or null,      // the matching candidate's id
  "confidence": number,             // 0-100
  "explanation": string,            // one or two short sentences
  "box_2d": [ymin, xmin, ymax, xmax] or null   // location of the person, 0-1000 normalized scale
}

Match on facial features and build from the biometric description and the reference photo. The reported attire is what the person wore when last seen; treat it as a weak hint only, since the reference photo may be old.

Candidates:
`)

	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. id: %s\n   name: %s\n", i+1, c.ID, c.Name)
		if c.Description != "" {
			fmt.Fprintf(&b, "   biometric description: %s\n", c.Description)
		}
		if c.Attire != "" {
			fmt.Fprintf(&b, "   reported attire: %s\n", c.Attire)
		}
	}

	return b.String()
}
