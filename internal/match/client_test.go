package match

import (
	"strings"
	"testing"
)

func TestParseVerdictFound(t *testing.T) {
	data := []byte(`{
		"found": true,
		"person_id": "0b9f8f6a-7d9a-4c38-a2f1-1d6f9c2e4b11",
		"confidence": 87.5,
		"explanation": "facial features match the reference photo",
		"box_2d": [120, 340, 560, 780]
	}`)

	v, err := parseVerdict(data)
	if err != nil {
		t.Fatalf("parseVerdict() error = %v", err)
	}
	if !v.Found {
		t.Error("Found = false, want true")
	}
	if v.Confidence != 87.5 {
		t.Errorf("Confidence = %v, want 87.5", v.Confidence)
	}
	if v.Box == nil || *v.Box != [4]int{120, 340, 560, 780} {
		t.Errorf("Box = %v, want [120 340 560 780]", v.Box)
	}
}

func TestParseVerdictClampsConfidence(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`{"found": true, "person_id": "x", "confidence": 120}`, 100},
		{`{"found": true, "person_id": "x", "confidence": -5}`, 0},
	}
	for _, tc := range cases {
		v, err := parseVerdict([]byte(tc.raw))
		if err != nil {
			t.Fatalf("parseVerdict(%s) error = %v", tc.raw, err)
		}
		if v.Confidence != tc.want {
			t.Errorf("Confidence = %v, want %v", v.Confidence, tc.want)
		}
	}
}

func TestParseVerdictNotFoundDropsIdentity(t *testing.T) {
	data := []byte(`{
		"found": false,
		"person_id": "stale-id",
		"confidence": 30,
		"box_2d": [0, 0, 10, 10]
	}`)

	v, err := parseVerdict(data)
	if err != nil {
		t.Fatalf("parseVerdict() error = %v", err)
	}
	if v.PersonID != "" {
		t.Errorf("PersonID = %q, want empty on a negative verdict", v.PersonID)
	}
	if v.Box != nil {
		t.Error("Box should be nil on a negative verdict")
	}
}

func TestParseVerdictMalformed(t *testing.T) {
	if _, err := parseVerdict([]byte("not json at all")); err == nil {
		t.Error("expected parse error for malformed response")
	}
}

func TestNegativeVerdict(t *testing.T) {
	v := NegativeVerdict("service unavailable")
	if v.Found || v.Confidence != 0 {
		t.Errorf("NegativeVerdict = %+v, want not-found with zero confidence", v)
	}
	if v.Explanation != "service unavailable" {
		t.Errorf("Explanation = %q", v.Explanation)
	}
}

func TestBuildMatchPrompt(t *testing.T) {
	prompt := buildMatchPrompt([]Candidate{
		{ID: "id-1", Name: "Alex Doe", Description: "tall, short hair", Attire: "red jacket"},
		{ID: "id-2", Name: "Sam Roe"},
	})

	for _, want := range []string{
		"box_2d",
		"0-1000",
		"id: id-1",
		"biometric description: tall, short hair",
		"reported attire: red jacket",
		"weak hint",
		"2. id: id-2",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// No attire or description lines for candidates that lack them.
	if strings.Count(prompt, "reported attire:") != 1 {
		t.Error("attire line should appear only for candidates that have one")
	}
}
