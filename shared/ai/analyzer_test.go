package ai

import (
	"context"
	"strings"
	"testing"

	"vidscope/internal/models"
	"vidscope/shared/config"
	"vidscope/shared/logger"
)

func TestParseReply(t *testing.T) {
	reply := `Summary: A relaxed walkthrough of making pasta from scratch.
The host covers kneading and resting the dough.

Keywords: pasta, dough, "semolina", hand-rolling

Topics:
1. Italian cooking
2. Kitchen basics

Recommendations: shorten the intro, add chapter markers`

	analysis := parseReply(reply)

	if !strings.HasPrefix(analysis.Summary, "A relaxed walkthrough") {
		t.Errorf("Summary = %q", analysis.Summary)
	}
	if !strings.Contains(analysis.Summary, "resting the dough") {
		t.Errorf("Summary should span lines up to the next label, got %q", analysis.Summary)
	}

	wantKeywords := []string{"pasta", "dough", "semolina", "hand-rolling"}
	if len(analysis.Keywords) != len(wantKeywords) {
		t.Fatalf("Keywords = %v, want %v", analysis.Keywords, wantKeywords)
	}
	for i, kw := range wantKeywords {
		if analysis.Keywords[i] != kw {
			t.Errorf("Keywords[%d] = %q, want %q", i, analysis.Keywords[i], kw)
		}
	}

	// Ordinal markers must be stripped.
	if len(analysis.Topics) != 2 || analysis.Topics[0] != "Italian cooking" {
		t.Errorf("Topics = %v", analysis.Topics)
	}

	if len(analysis.Recommendations) != 2 {
		t.Errorf("Recommendations = %v", analysis.Recommendations)
	}
}

func TestParseReplyMissingSections(t *testing.T) {
	analysis := parseReply("The model rambled and produced nothing labeled.")

	if analysis.Summary != noResult {
		t.Errorf("Summary = %q, want %q", analysis.Summary, noResult)
	}
	if len(analysis.Keywords) != 0 || len(analysis.Topics) != 0 || len(analysis.Recommendations) != 0 {
		t.Errorf("lists should be empty: %v %v %v", analysis.Keywords, analysis.Topics, analysis.Recommendations)
	}
	if analysis.Keywords == nil {
		t.Error("Keywords must be an empty slice, not nil")
	}
}

func TestParseReplyCaseInsensitiveLabels(t *testing.T) {
	analysis := parseReply("summary: Short one.\nkeywords: a, b")
	if analysis.Summary != "Short one." {
		t.Errorf("Summary = %q", analysis.Summary)
	}
	if len(analysis.Keywords) != 2 {
		t.Errorf("Keywords = %v", analysis.Keywords)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		expected []string
	}{
		{"Commas", "a, b, c", []string{"a", "b", "c"}},
		{"Newlines with ordinals", "1. first\n2. second\n3) third", []string{"first", "second", "third"}},
		{"Quotes stripped", `"quoted", 'single'`, []string{"quoted", "single"}},
		{"Empties dropped", "a,,  ,b", []string{"a", "b"}},
		{"Empty section", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.section)
			if len(got) != len(tt.expected) {
				t.Fatalf("splitList(%q) = %v, want %v", tt.section, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("splitList(%q)[%d] = %q, want %q", tt.section, i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestAnalyzeWithoutCredentialDegrades(t *testing.T) {
	a := NewAnalyzer(context.Background(), &config.AIConfig{Model: "gemini-2.5-flash"}, logger.NewNop())

	result := a.Analyze(context.Background(), Input{Title: "Anything"})

	if result.Outcome != models.OutcomeDegraded {
		t.Errorf("Outcome = %s, want %s", result.Outcome, models.OutcomeDegraded)
	}
	if result.Analysis.Summary == "" {
		t.Error("fallback summary must be non-empty")
	}
	if len(result.Analysis.Keywords) != 3 {
		t.Errorf("fallback keywords = %d entries, want 3", len(result.Analysis.Keywords))
	}
	if len(result.Analysis.Topics) != 3 {
		t.Errorf("fallback topics = %d entries, want 3", len(result.Analysis.Topics))
	}
	if len(result.Analysis.Recommendations) != 3 {
		t.Errorf("fallback recommendations = %d entries, want 3", len(result.Analysis.Recommendations))
	}
}

func TestBuildPromptPrefersTranscript(t *testing.T) {
	in := Input{
		Title:       "T",
		Channel:     "C",
		Tags:        []string{"x", "y"},
		Transcript:  "the transcript text",
		Description: "the description text",
	}

	prompt := buildPrompt(in)
	if !strings.Contains(prompt, "the transcript text") {
		t.Error("prompt should embed the transcript")
	}
	if strings.Contains(prompt, "the description text") {
		t.Error("description should be ignored when a transcript exists")
	}

	in.Transcript = ""
	prompt = buildPrompt(in)
	if !strings.Contains(prompt, "the description text") {
		t.Error("prompt should fall back to the description")
	}
}
