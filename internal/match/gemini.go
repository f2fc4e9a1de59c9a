package match

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Gemini checks a frame against the roster with a single multimodal
// generation call: the query frame plus one labelled reference photo
// per candidate, answered as strict JSON.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return g.model }

// MatchBatch submits the frame and the full roster in one call. Any
// transport or parse failure is returned as an error; the caller
// degrades it to a negative verdict.
func (g *Gemini) MatchBatch(ctx context.Context, candidates []Candidate, frame []byte) (*Verdict, error) {
	if len(candidates) == 0 {
		return nil, errors.New("empty candidate roster")
	}

	parts := []*genai.Part{
		{Text: buildMatchPrompt(candidates)},
		{Text: "Query frame:"},
		{InlineData: &genai.Blob{Data: frame, MIMEType: "image/jpeg"}},
	}
	for i, c := range candidates {
		parts = append(parts,
			&genai.Part{Text: fmt.Sprintf("Reference photo for candidate %d (id %s):", i+1, c.ID)},
			&genai.Part{InlineData: &genai.Blob{Data: c.Photo, MIMEType: "image/jpeg"}},
		)
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	content := result.Text()
	if content == "" {
		return nil, errors.New("empty response from gemini")
	}

	verdict, err := parseVerdict([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("%w (response: %s)", err, content)
	}
	return verdict, nil
}
