// Package service orchestrates the enrichment pipeline: platform fetches,
// grading, join annotation and the per-video transcript/narrative features.
package service

import (
	"context"

	"vidscope/internal/join"
	"vidscope/internal/models"
	"vidscope/shared/ai"
	"vidscope/shared/logger"
	"vidscope/shared/platform"
)

// Platform is the subset of the video-platform client the pipeline uses.
type Platform interface {
	Search(ctx context.Context, query string, maxResults int64, pageToken string) (*platform.SearchResult, error)
	Videos(ctx context.Context, ids []string) ([]models.RawVideoSignal, error)
	Channels(ctx context.Context, ids []string) (map[string]models.RawChannelSignal, error)
	CaptionTracks(ctx context.Context, videoID string) ([]platform.CaptionTrack, error)
	DownloadCaption(ctx context.Context, captionID string) (string, error)
	Comments(ctx context.Context, videoID string, maxResults int64) ([]models.Comment, error)
}

// Records is the internal store the pipeline reads and writes. Includes the
// two directory queries the join indexer needs.
type Records interface {
	join.Directory

	CreateRound(round *models.SearchRound) error
	NextRoundNo(ownerID string) (int, error)
	UpdateRoundStatus(id, status string) error
	RoundsByOwner(ownerID string, skip, limit int) ([]models.SearchRound, int64, error)

	SaveVideos(videos []models.Video) error
	VideoByID(id uint) (*models.Video, error)
	VideosByOwner(ownerID string, skip, limit int) ([]models.Video, int64, error)
	AllVideos(skip, limit int) ([]models.Video, int64, error)
}

// Narrator produces narrative analyses; satisfied by *ai.Analyzer.
type Narrator interface {
	Analyze(ctx context.Context, in ai.Input) *ai.Result
}

type Service struct {
	platform Platform
	records  Records
	narrator Narrator
	log      *logger.Logger
}

func New(p Platform, r Records, n Narrator, log *logger.Logger) *Service {
	return &Service{
		platform: p,
		records:  r,
		narrator: n,
		log:      log.With("component", "service"),
	}
}
