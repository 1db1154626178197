package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"vidscope/internal/join"
	"vidscope/internal/models"
	"vidscope/shared/ai"
	"vidscope/shared/transcript"
)

const (
	commentSampleSize = 20
	bestCommentCount  = 3

	transcriptUnavailable = "captions are unavailable for this video"
)

// Detail is a single stored video plus its fresh channel signal and a
// bounded comment sample. Comments are optional enrichment: when their
// fetch fails the outcome is tagged degraded and the lists stay empty.
type Detail struct {
	Video           models.AnnotatedVideo   `json:"video"`
	Channel         models.RawChannelSignal `json:"channel"`
	Comments        []models.Comment        `json:"comments"`
	BestComments    []models.Comment        `json:"best_comments"`
	CommentsOutcome models.Outcome          `json:"comments_outcome"`
}

// TranscriptResult is a tagged transcript: Degraded carries the fixed
// explanation and no segments, and still reports success to the caller.
type TranscriptResult struct {
	Outcome  models.Outcome             `json:"outcome"`
	Language string                     `json:"language"`
	Segments []models.TranscriptSegment `json:"segments"`
	Note     string                     `json:"note,omitempty"`
}

// VideoDetail assembles the detail view. The channel lookup is primary:
// its failure aborts the response. The comment sub-fetch is isolated and
// degrades silently.
func (s *Service) VideoDetail(ctx context.Context, id uint) (*Detail, error) {
	video, err := s.records.VideoByID(id)
	if err != nil {
		return nil, err
	}

	channels, err := s.platform.Channels(ctx, []string{video.ChannelID})
	if err != nil {
		return nil, fmt.Errorf("channel lookup for video %d failed: %w", id, err)
	}
	channel := channels[video.ChannelID]

	detail := &Detail{
		Channel:         channel,
		Comments:        []models.Comment{},
		BestComments:    []models.Comment{},
		CommentsOutcome: models.OutcomeOK,
	}

	comments, err := s.platform.Comments(ctx, video.PlatformID, commentSampleSize)
	if err != nil {
		s.log.Warn("comment fetch degraded", "video", video.PlatformID, "error", err)
		detail.CommentsOutcome = models.OutcomeDegraded
	} else {
		detail.Comments = comments
		detail.BestComments = bestByLikes(comments, bestCommentCount)
	}

	ix, err := join.Build(s.records, []models.Video{*video})
	if err != nil {
		return nil, err
	}
	detail.Video = ix.Annotate(*video)

	return detail, nil
}

// Transcript fetches and parses the captions of a stored video. Every
// failure mode (no track, no access, download error) degrades to the fixed
// explanation with an empty segment list.
func (s *Service) Transcript(ctx context.Context, id uint) (*TranscriptResult, error) {
	video, err := s.records.VideoByID(id)
	if err != nil {
		return nil, err
	}

	degraded := &TranscriptResult{
		Outcome:  models.OutcomeDegraded,
		Language: "unknown",
		Segments: []models.TranscriptSegment{},
		Note:     transcriptUnavailable,
	}

	tracks, err := s.platform.CaptionTracks(ctx, video.PlatformID)
	if err != nil || len(tracks) == 0 {
		if err != nil {
			s.log.Warn("caption track listing degraded", "video", video.PlatformID, "error", err)
		}
		return degraded, nil
	}

	track := tracks[0]
	payload, err := s.platform.DownloadCaption(ctx, track.ID)
	if err != nil {
		s.log.Warn("caption download degraded", "video", video.PlatformID, "error", err)
		return degraded, nil
	}

	segments := transcript.Parse(payload)
	if len(segments) == 0 {
		return degraded, nil
	}

	language := track.Language
	if language == "" {
		language = "unknown"
	}
	return &TranscriptResult{
		Outcome:  models.OutcomeOK,
		Language: language,
		Segments: segments,
	}, nil
}

// Narrative runs the narrative analyzer over a stored video. A fresh
// platform fetch supplies tags and description; when it fails the stored
// fields stand in. The analyzer itself never errors, it degrades.
func (s *Service) Narrative(ctx context.Context, id uint) (*ai.Result, error) {
	video, err := s.records.VideoByID(id)
	if err != nil {
		return nil, err
	}

	in := ai.Input{
		Title:   video.Title,
		Channel: video.ChannelTitle,
	}

	if raws, err := s.platform.Videos(ctx, []string{video.PlatformID}); err == nil && len(raws) > 0 {
		in.Tags = raws[0].Tags
		in.Description = raws[0].Description
	} else if err != nil {
		s.log.Warn("fresh video fetch degraded, using stored fields", "video", video.PlatformID, "error", err)
	}

	if tr, err := s.Transcript(ctx, id); err == nil && tr.Outcome == models.OutcomeOK {
		var lines []string
		for _, seg := range tr.Segments {
			lines = append(lines, seg.Text)
		}
		in.Transcript = strings.Join(lines, " ")
	}

	return s.narrator.Analyze(ctx, in), nil
}

// bestByLikes returns the top n comments by like count without disturbing
// the relevance ordering of the original sample.
func bestByLikes(comments []models.Comment, n int) []models.Comment {
	best := make([]models.Comment, len(comments))
	copy(best, comments)
	sort.SliceStable(best, func(i, j int) bool { return best[i].LikeCount > best[j].LikeCount })
	if len(best) > n {
		best = best[:n]
	}
	return best
}
