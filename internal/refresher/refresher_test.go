package refresher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidscope/internal/models"
	"vidscope/shared/logger"
	"vidscope/shared/monitoring"
)

func TestTrackerRoundTrip(t *testing.T) {
	dir := t.TempDir()

	tracker, err := NewTracker(dir, time.Hour)
	require.NoError(t, err)

	assert.False(t, tracker.IsFresh("r1"))
	require.NoError(t, tracker.MarkRefreshed("r1"))
	assert.True(t, tracker.IsFresh("r1"))

	// A second tracker over the same directory sees the persisted state.
	reloaded, err := NewTracker(dir, time.Hour)
	require.NoError(t, err)
	assert.True(t, reloaded.IsFresh("r1"))
	assert.Equal(t, 1, reloaded.Count())
}

func TestTrackerExpiry(t *testing.T) {
	tracker, err := NewTracker(t.TempDir(), time.Nanosecond)
	require.NoError(t, err)

	require.NoError(t, tracker.MarkRefreshed("r1"))
	time.Sleep(time.Millisecond)
	assert.False(t, tracker.IsFresh("r1"))
}

type fakeRecords struct {
	rounds  []models.SearchRound
	videos  map[models.RoundKey][]models.Video
	updated []models.Video
}

func (f *fakeRecords) DoneRounds(limit int) ([]models.SearchRound, error) {
	return f.rounds, nil
}

func (f *fakeRecords) VideosByRound(ownerID string, roundNo int) ([]models.Video, error) {
	return f.videos[models.RoundKey{OwnerID: ownerID, RoundNo: roundNo}], nil
}

func (f *fakeRecords) UpdateVideoGrades(video *models.Video) error {
	f.updated = append(f.updated, *video)
	return nil
}

type fakePlatform struct {
	videos   map[string]models.RawVideoSignal
	channels map[string]models.RawChannelSignal
	videoErr error
}

func (f *fakePlatform) Videos(ctx context.Context, ids []string) ([]models.RawVideoSignal, error) {
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	var out []models.RawVideoSignal
	for _, id := range ids {
		if v, ok := f.videos[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakePlatform) Channels(ctx context.Context, ids []string) (map[string]models.RawChannelSignal, error) {
	return f.channels, nil
}

func newTestRefresher(t *testing.T, records Records, platform Platform) *Refresher {
	t.Helper()
	tracker, err := NewTracker(t.TempDir(), time.Hour)
	require.NoError(t, err)
	log := logger.NewNop()
	return New(records, platform, tracker, monitoring.NewMonitor(log), "@daily", 100, log)
}

func TestRunOnceRescoresStaleRounds(t *testing.T) {
	records := &fakeRecords{
		rounds: []models.SearchRound{
			{ID: "r1", OwnerID: "u1", RoundNo: 1, Status: models.RoundDone},
		},
		videos: map[models.RoundKey][]models.Video{
			{OwnerID: "u1", RoundNo: 1}: {
				{ID: 1, PlatformID: "v1", ChannelID: "c1", ViewCount: 10, PerformanceGrade: models.GradeWorst},
			},
		},
	}
	platform := &fakePlatform{
		videos: map[string]models.RawVideoSignal{
			"v1": {ID: "v1", ViewCount: 600},
		},
		channels: map[string]models.RawChannelSignal{
			"c1": {ChannelID: "c1", Subscribers: 1000, TotalViews: 10000, VideoCount: 100},
		},
	}

	r := newTestRefresher(t, records, platform)
	require.NoError(t, r.RunOnce(context.Background()))

	require.Len(t, records.updated, 1)
	assert.Equal(t, int64(600), records.updated[0].ViewCount)
	assert.Equal(t, models.GradeGood, records.updated[0].PerformanceGrade)
	assert.True(t, r.tracker.IsFresh("r1"))

	// A second run skips the freshly refreshed round.
	records.updated = nil
	require.NoError(t, r.RunOnce(context.Background()))
	assert.Empty(t, records.updated)
}

func TestRunOnceToleratesPerRoundFailure(t *testing.T) {
	records := &fakeRecords{
		rounds: []models.SearchRound{
			{ID: "r1", OwnerID: "u1", RoundNo: 1, Status: models.RoundDone},
		},
		videos: map[models.RoundKey][]models.Video{
			{OwnerID: "u1", RoundNo: 1}: {{ID: 1, PlatformID: "v1", ChannelID: "c1"}},
		},
	}
	platform := &fakePlatform{videoErr: errors.New("quota exceeded")}

	r := newTestRefresher(t, records, platform)
	// Partial failures do not fail the run.
	require.NoError(t, r.RunOnce(context.Background()))
	assert.Empty(t, records.updated)
	assert.False(t, r.tracker.IsFresh("r1"))
}
