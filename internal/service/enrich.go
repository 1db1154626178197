package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"vidscope/internal/join"
	"vidscope/internal/models"
	"vidscope/shared/metrics"
	"vidscope/shared/pagination"
)

const defaultSearchSize = 20

// RunRound executes one keyword-search session for an owner: search the
// platform, grade every result against its channel, persist the round and
// its enriched videos, and return them. Channel ids are deduplicated and
// fetched in one batched call.
func (s *Service) RunRound(ctx context.Context, ownerID, keyword string, limit int64) (*models.SearchRound, []models.Video, error) {
	if limit < 1 {
		limit = defaultSearchSize
	}

	result, err := s.platform.Search(ctx, keyword, limit, "")
	if err != nil {
		return nil, nil, fmt.Errorf("search for %q failed: %w", keyword, err)
	}

	var raws []models.RawVideoSignal
	if len(result.VideoIDs) > 0 {
		raws, err = s.platform.Videos(ctx, result.VideoIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("video detail fetch failed: %w", err)
		}
	}

	channels, err := s.fetchChannels(ctx, raws)
	if err != nil {
		return nil, nil, err
	}

	roundNo, err := s.records.NextRoundNo(ownerID)
	if err != nil {
		return nil, nil, err
	}

	round := &models.SearchRound{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		RoundNo:   roundNo,
		Keyword:   keyword,
		Status:    models.RoundPending,
		Level:     difficultyLevel(raws, channels),
		CreatedAt: time.Now(),
	}
	if err := s.records.CreateRound(round); err != nil {
		return nil, nil, err
	}

	videos := make([]models.Video, 0, len(raws))
	for _, raw := range raws {
		videos = append(videos, Grade(raw, channels[raw.ChannelID], keyword, roundNo, ownerID))
	}
	if err := s.records.SaveVideos(videos); err != nil {
		return nil, nil, err
	}

	if err := s.records.UpdateRoundStatus(round.ID, models.RoundDone); err != nil {
		return nil, nil, err
	}
	round.Status = models.RoundDone

	s.log.Info("round completed",
		"owner", ownerID, "round", roundNo, "keyword", keyword, "videos", len(videos))
	return round, videos, nil
}

// fetchChannels resolves the distinct channel ids of a batch in one call.
func (s *Service) fetchChannels(ctx context.Context, raws []models.RawVideoSignal) (map[string]models.RawChannelSignal, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, raw := range raws {
		if raw.ChannelID == "" {
			continue
		}
		if _, ok := seen[raw.ChannelID]; ok {
			continue
		}
		seen[raw.ChannelID] = struct{}{}
		ids = append(ids, raw.ChannelID)
	}
	if len(ids) == 0 {
		return map[string]models.RawChannelSignal{}, nil
	}

	channels, err := s.platform.Channels(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("channel detail fetch failed: %w", err)
	}
	return channels, nil
}

// Grade derives the performance/contribution grades and exposure
// probability for one raw video against its channel counters. A missing
// channel signal grades against zeros, which lands in the Worst buckets.
func Grade(raw models.RawVideoSignal, channel models.RawChannelSignal, keyword string, roundNo int, ownerID string) models.Video {
	perf := metrics.PerformanceRatio(raw.ViewCount, channel.Subscribers)

	return models.Video{
		PlatformID:          raw.ID,
		Title:               raw.Title,
		Thumbnail:           raw.Thumbnail,
		Duration:            raw.Duration,
		DurationSeconds:     raw.DurationSeconds,
		ViewCount:           raw.ViewCount,
		ChannelID:           raw.ChannelID,
		ChannelTitle:        raw.ChannelTitle,
		PublishedAt:         raw.PublishedAt,
		Keyword:             keyword,
		RoundNo:             roundNo,
		OwnerID:             ownerID,
		PerformanceGrade:    metrics.PerformanceGrade(perf),
		ContributionGrade:   metrics.ContributionGradeFor(raw.ViewCount, channel.TotalViews, channel.VideoCount),
		ExposureProbability: metrics.ExposureProbability(raw.ViewCount, channel.Subscribers),
	}
}

// difficultyLevel estimates how contested a keyword is (1-5) from the
// median subscriber count of the channels competing on it.
func difficultyLevel(raws []models.RawVideoSignal, channels map[string]models.RawChannelSignal) int {
	var subs []int64
	for _, raw := range raws {
		if ch, ok := channels[raw.ChannelID]; ok {
			subs = append(subs, ch.Subscribers)
		}
	}
	if len(subs) == 0 {
		return 1
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i] < subs[j] })
	median := subs[len(subs)/2]

	switch {
	case median >= 1_000_000:
		return 5
	case median >= 100_000:
		return 4
	case median >= 10_000:
		return 3
	case median >= 1_000:
		return 2
	default:
		return 1
	}
}

// AnnotatedVideos lists stored videos (one owner's, or everyone's for
// admins) labeled with owner and round metadata via the join index.
func (s *Service) AnnotatedVideos(ownerID string, all bool, page, limit int) ([]models.AnnotatedVideo, pagination.Page, error) {
	var (
		videos []models.Video
		total  int64
		err    error
	)
	window := pagination.Resolve(page, limit, 0)
	if all {
		videos, total, err = s.records.AllVideos(window.Skip, window.Limit)
	} else {
		videos, total, err = s.records.VideosByOwner(ownerID, window.Skip, window.Limit)
	}
	if err != nil {
		return nil, pagination.Page{}, err
	}

	ix, err := join.Build(s.records, videos)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	return ix.AnnotateAll(videos), pagination.Resolve(page, limit, total), nil
}

// Rounds lists an owner's search rounds with pagination metadata.
func (s *Service) Rounds(ownerID string, page, limit int) ([]models.SearchRound, pagination.Page, error) {
	window := pagination.Resolve(page, limit, 0)
	rounds, total, err := s.records.RoundsByOwner(ownerID, window.Skip, window.Limit)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return rounds, pagination.Resolve(page, limit, total), nil
}
