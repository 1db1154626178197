// Package refresher periodically re-fetches statistics for the videos of
// completed rounds and re-scores their grades, so stored results do not go
// stale.
package refresher

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"vidscope/internal/models"
	"vidscope/shared/logger"
	"vidscope/shared/metrics"
	"vidscope/shared/monitoring"
)

// Records is the store slice the refresher needs.
type Records interface {
	DoneRounds(limit int) ([]models.SearchRound, error)
	VideosByRound(ownerID string, roundNo int) ([]models.Video, error)
	UpdateVideoGrades(video *models.Video) error
}

// Platform is the platform-client slice the refresher needs.
type Platform interface {
	Videos(ctx context.Context, ids []string) ([]models.RawVideoSignal, error)
	Channels(ctx context.Context, ids []string) (map[string]models.RawChannelSignal, error)
}

type Refresher struct {
	records      Records
	platform     Platform
	tracker      *Tracker
	monitor      *monitoring.Monitor
	log          *logger.Logger
	schedule     string
	videosPerRun int
	cron         *cron.Cron
}

func New(records Records, platform Platform, tracker *Tracker, monitor *monitoring.Monitor, schedule string, videosPerRun int, log *logger.Logger) *Refresher {
	return &Refresher{
		records:      records,
		platform:     platform,
		tracker:      tracker,
		monitor:      monitor,
		log:          log.With("component", "refresher"),
		schedule:     schedule,
		videosPerRun: videosPerRun,
		// Overlapping runs are skipped, not queued.
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start runs the cron loop until the context is cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RunOnce(ctx); err != nil {
			r.log.Error("scheduled refresh failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.log.Info("refresher started", "schedule", r.schedule)
	r.cron.Start()

	<-ctx.Done()
	r.log.Info("refresher stopped")
	r.cron.Stop()
	return ctx.Err()
}

// RunOnce re-scores every stale completed round, bounded by videosPerRun.
// Per-round failures are partial: they are recorded and the run moves on.
func (r *Refresher) RunOnce(ctx context.Context) error {
	start := time.Now()

	rounds, err := r.records.DoneRounds(1000)
	if err != nil {
		r.monitor.RecordCriticalFailure(fmt.Errorf("round listing failed: %w", err), time.Since(start))
		return err
	}

	var refreshed, skipped, failed, budget int
	for _, round := range rounds {
		if budget >= r.videosPerRun {
			break
		}
		if r.tracker.IsFresh(round.ID) {
			skipped++
			continue
		}

		n, err := r.refreshRound(ctx, round)
		budget += n
		if err != nil {
			failed++
			r.monitor.RecordPartialFailure(fmt.Errorf("round %s: %w", round.ID, err), time.Since(start))
			continue
		}

		refreshed++
		if err := r.tracker.MarkRefreshed(round.ID); err != nil {
			r.log.Warn("failed to persist refresh mark", "round", round.ID, "error", err)
		}
	}

	summary := fmt.Sprintf("refreshed %d rounds, skipped %d fresh, %d failed, %d videos", refreshed, skipped, failed, budget)
	r.monitor.RecordSuccess(summary, time.Since(start))
	return nil
}

// refreshRound re-fetches stats for one round's videos and rewrites their
// derived fields. Returns how many videos were touched.
func (r *Refresher) refreshRound(ctx context.Context, round models.SearchRound) (int, error) {
	videos, err := r.records.VideosByRound(round.OwnerID, round.RoundNo)
	if err != nil {
		return 0, err
	}
	if len(videos) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.PlatformID)
	}
	raws, err := r.platform.Videos(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("video stats fetch failed: %w", err)
	}
	rawByID := make(map[string]models.RawVideoSignal, len(raws))
	for _, raw := range raws {
		rawByID[raw.ID] = raw
	}

	channelSet := make(map[string]struct{})
	var channelIDs []string
	for _, v := range videos {
		if _, ok := channelSet[v.ChannelID]; !ok {
			channelSet[v.ChannelID] = struct{}{}
			channelIDs = append(channelIDs, v.ChannelID)
		}
	}
	channels, err := r.platform.Channels(ctx, channelIDs)
	if err != nil {
		return 0, fmt.Errorf("channel stats fetch failed: %w", err)
	}

	var touched int
	for i := range videos {
		raw, ok := rawByID[videos[i].PlatformID]
		if !ok {
			// Deleted or private upstream; keep the stored grades.
			continue
		}
		channel := channels[videos[i].ChannelID]

		perf := metrics.PerformanceRatio(raw.ViewCount, channel.Subscribers)
		videos[i].ViewCount = raw.ViewCount
		videos[i].PerformanceGrade = metrics.PerformanceGrade(perf)
		videos[i].ContributionGrade = metrics.ContributionGradeFor(raw.ViewCount, channel.TotalViews, channel.VideoCount)
		videos[i].ExposureProbability = metrics.ExposureProbability(raw.ViewCount, channel.Subscribers)

		if err := r.records.UpdateVideoGrades(&videos[i]); err != nil {
			return touched, err
		}
		touched++
	}
	return touched, nil
}
