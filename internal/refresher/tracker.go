package refresher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Tracker remembers when each round was last re-scored so a run can skip
// rounds refreshed within maxAge. State survives restarts via a JSON file.
type Tracker struct {
	filePath  string
	refreshed map[string]time.Time
	mu        sync.RWMutex
	maxAge    time.Duration
}

type trackedRound struct {
	RoundID     string    `json:"round_id"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

func NewTracker(dataDir string, maxAge time.Duration) (*Tracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	t := &Tracker{
		filePath:  filepath.Join(dataDir, "refreshed_rounds.json"),
		refreshed: make(map[string]time.Time),
		maxAge:    maxAge,
	}
	if err := t.load(); err != nil {
		return nil, fmt.Errorf("failed to load refresh tracker: %w", err)
	}
	t.cleanup()
	return t, nil
}

// IsFresh reports whether the round was refreshed within maxAge.
func (t *Tracker) IsFresh(roundID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	refreshedAt, ok := t.refreshed[roundID]
	if !ok {
		return false
	}
	return time.Since(refreshedAt) < t.maxAge
}

func (t *Tracker) MarkRefreshed(roundID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refreshed[roundID] = time.Now()
	return t.save()
}

func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.refreshed)
}

func (t *Tracker) cleanup() {
	cutoff := time.Now().Add(-t.maxAge)
	for roundID, refreshedAt := range t.refreshed {
		if refreshedAt.Before(cutoff) {
			delete(t.refreshed, roundID)
		}
	}
}

func (t *Tracker) load() error {
	file, err := os.Open(t.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open tracker file: %w", err)
	}
	defer file.Close()

	var tracked []trackedRound
	if err := json.NewDecoder(file).Decode(&tracked); err != nil {
		return fmt.Errorf("failed to decode tracker data: %w", err)
	}
	for _, tr := range tracked {
		t.refreshed[tr.RoundID] = tr.RefreshedAt
	}
	return nil
}

func (t *Tracker) save() error {
	tracked := make([]trackedRound, 0, len(t.refreshed))
	for roundID, refreshedAt := range t.refreshed {
		tracked = append(tracked, trackedRound{RoundID: roundID, RefreshedAt: refreshedAt})
	}

	file, err := os.Create(t.filePath)
	if err != nil {
		return fmt.Errorf("failed to create tracker file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tracked)
}
