// Package ai turns a video's context into a structured narrative analysis
// via a single-turn text-generation call, degrading to canned content when
// the service is unconfigured or failing.
package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"vidscope/internal/models"
	"vidscope/shared/config"
	"vidscope/shared/logger"

	"google.golang.org/genai"
)

const noResult = "no result found"

// sectionLabels in prompt/reply order. Extraction runs label through next
// label or end of text.
var sectionLabels = []string{"Summary", "Keywords", "Topics", "Recommendations"}

// Input is the assembled context for one video. Transcript takes precedence
// over Description when both are present.
type Input struct {
	Title       string
	Channel     string
	Tags        []string
	Transcript  string
	Description string
}

// Result is a tagged analysis: Degraded means the canned fallback was
// substituted and the narrative service was never consulted successfully.
type Result struct {
	Outcome  models.Outcome           `json:"outcome"`
	Analysis models.NarrativeAnalysis `json:"analysis"`
}

// Analyzer holds the text-generation client. A nil client means the service
// is unconfigured and every call degrades.
type Analyzer struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// NewAnalyzer never fails on a missing credential: the analyzer then serves
// fallback content with success status.
func NewAnalyzer(ctx context.Context, cfg *config.AIConfig, log *logger.Logger) *Analyzer {
	a := &Analyzer{model: cfg.Model, log: log.With("component", "narrative")}

	if cfg.GeminiAPIKey == "" {
		a.log.Warn("narrative service unconfigured, serving fallback analyses")
		return a
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey})
	if err != nil {
		a.log.Warn("failed to create narrative client, serving fallback analyses", "error", err)
		return a
	}
	a.client = client
	return a
}

// Analyze runs one completion and extracts the four sections. It never
// returns an error; any failure yields the fallback result instead.
func (a *Analyzer) Analyze(ctx context.Context, in Input) *Result {
	if a.client == nil {
		return fallbackResult()
	}

	prompt := buildPrompt(in)
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	reply, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		a.log.Warn("narrative call failed, serving fallback", "title", in.Title, "error", err)
		return fallbackResult()
	}

	text := reply.Text()
	if text == "" {
		a.log.Warn("empty narrative reply, serving fallback", "title", in.Title)
		return fallbackResult()
	}

	return &Result{
		Outcome:  models.OutcomeOK,
		Analysis: parseReply(text),
	}
}

func buildPrompt(in Input) string {
	content := in.Transcript
	contentKind := "transcript"
	if content == "" {
		content = in.Description
		contentKind = "description"
	}

	return fmt.Sprintf(`You are an assistant that analyzes YouTube videos for a content dashboard.

VIDEO CONTEXT:
Title: %s
Channel: %s
Tags: %s
The following is the video's %s:
%s

Reply in English with exactly these four labeled sections and nothing else:
Summary: a 2-3 sentence summary of the video.
Keywords: a comma-separated list of the most important keywords.
Topics: a comma-separated list of the broader topics covered.
Recommendations: a comma-separated list of concrete suggestions for improving this video's reach.`,
		in.Title,
		in.Channel,
		strings.Join(in.Tags, ", "),
		contentKind,
		truncate(content, 6000),
	)
}

// parseReply extracts each labeled section from the freeform reply. Missing
// sections fall back to a "no result found" summary and empty lists rather
// than failing.
func parseReply(reply string) models.NarrativeAnalysis {
	analysis := models.NarrativeAnalysis{
		Summary:         noResult,
		Keywords:        []string{},
		Topics:          []string{},
		Recommendations: []string{},
	}

	if s := extractSection(reply, "Summary"); s != "" {
		analysis.Summary = s
	}
	analysis.Keywords = splitList(extractSection(reply, "Keywords"))
	analysis.Topics = splitList(extractSection(reply, "Topics"))
	analysis.Recommendations = splitList(extractSection(reply, "Recommendations"))
	return analysis
}

func extractSection(reply, label string) string {
	var others []string
	for _, l := range sectionLabels {
		if l != label {
			others = append(others, l)
		}
	}

	re := regexp.MustCompile(`(?is)` + label + `\s*:\s*(.*?)(?:\n\s*(?:` + strings.Join(others, "|") + `)\s*:|$)`)
	m := re.FindStringSubmatch(reply)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

var ordinalRe = regexp.MustCompile(`^\s*\d+\s*[.)]\s*`)

// splitList breaks a section into entries on commas or newlines, dropping
// ordinal markers ("1."), surrounding quotes and empty results.
func splitList(section string) []string {
	entries := []string{}
	for _, part := range strings.FieldsFunc(section, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		part = ordinalRe.ReplaceAllString(part, "")
		part = strings.Trim(part, ` "'“”-`)
		if part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}

// fallbackResult is the canned analysis served whenever the narrative
// service is unavailable. Always 3 keywords, 3 topics, 3 recommendations.
func fallbackResult() *Result {
	return &Result{
		Outcome: models.OutcomeDegraded,
		Analysis: models.NarrativeAnalysis{
			Summary:         "Narrative analysis is currently unavailable for this video. The metrics and grades above are unaffected.",
			Keywords:        []string{"video", "content", "analysis"},
			Topics:          []string{"general", "media", "engagement"},
			Recommendations: []string{"add captions", "refine the title", "post on a regular schedule"},
		},
	}
}

func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
