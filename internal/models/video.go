package models

import "time"

// Grade is one of the four discrete quality buckets a video is classified
// into, on both the performance and contribution axes.
type Grade string

const (
	GradeGood   Grade = "good"
	GradeNormal Grade = "normal"
	GradeBad    Grade = "bad"
	GradeWorst  Grade = "worst"
)

// Outcome tags an enrichment result so callers can tell real upstream data
// from a placeholder substituted after a degraded sub-fetch.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeDegraded Outcome = "degraded"
)

// RawVideoSignal holds the platform-supplied facts for one video, fetched
// fresh per request and never persisted as-is.
type RawVideoSignal struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Thumbnail       string    `json:"thumbnail"`
	Duration        string    `json:"duration"` // ISO-8601, e.g. "PT4M13S"
	DurationSeconds int       `json:"duration_seconds"`
	ViewCount       int64     `json:"view_count"`
	ChannelID       string    `json:"channel_id"`
	ChannelTitle    string    `json:"channel_title"`
	PublishedAt     time.Time `json:"published_at"`
	Tags            []string  `json:"tags,omitempty"`
	Description     string    `json:"description,omitempty"`
}

// RawChannelSignal holds the per-channel counters used to derive ratios.
type RawChannelSignal struct {
	ChannelID   string `json:"channel_id"`
	Subscribers int64  `json:"subscribers"`
	TotalViews  int64  `json:"total_views"`
	VideoCount  int64  `json:"video_count"`
}

// Comment is one top-level comment from the platform's comment threads.
type Comment struct {
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	LikeCount   int64     `json:"like_count"`
	PublishedAt time.Time `json:"published_at"`
}

// TranscriptSegment is one time-coded piece of a caption track, ordered by
// Start. Start and End are fractional seconds.
type TranscriptSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// NarrativeAnalysis is the structured form of the narrative model's reply.
// All four fields are always populated, falling back to placeholders when a
// section cannot be extracted.
type NarrativeAnalysis struct {
	Summary         string   `json:"summary"`
	Keywords        []string `json:"keywords"`
	Topics          []string `json:"topics"`
	Recommendations []string `json:"recommendations"`
}

// OwnerDirectoryEntry is the minimal user projection used to label a batch
// of videos. Never mutated by the pipeline.
type OwnerDirectoryEntry struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
