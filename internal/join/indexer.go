// Package join annotates batches of videos with owner and round metadata
// using exactly one directory query per axis, never one per record.
package join

import (
	"fmt"

	"vidscope/internal/models"
)

// Unknown is the sentinel used when an owner or round cannot be resolved.
// Lookups degrade to it instead of failing.
const Unknown = "unknown"

// Directory is the internal owner/round store the indexer queries. Each
// method takes the exact distinct key set, never paginated.
type Directory interface {
	UsersByIDs(ids []string) ([]models.User, error)
	RoundsByKeys(keys []models.RoundKey) ([]models.SearchRound, error)
}

// RoundInfo is the round projection attached to a video.
type RoundInfo struct {
	Keyword string `json:"keyword"`
	Status  string `json:"status"`
	Level   int    `json:"level"`
}

// Index holds the two lookup maps for one batch. It is built fresh per
// request and never shared.
type Index struct {
	owners map[string]models.OwnerDirectoryEntry
	rounds map[models.RoundKey]RoundInfo
}

// Build deduplicates the owner ids and (owner, round) keys present in the
// batch, issues the two directory queries, and builds both maps in one pass
// over each result set.
func Build(dir Directory, videos []models.Video) (*Index, error) {
	ownerSet := make(map[string]struct{})
	keySet := make(map[models.RoundKey]struct{})
	for _, v := range videos {
		if v.OwnerID != "" {
			ownerSet[v.OwnerID] = struct{}{}
		}
		if v.OwnerID != "" && v.RoundNo > 0 {
			keySet[models.RoundKey{OwnerID: v.OwnerID, RoundNo: v.RoundNo}] = struct{}{}
		}
	}

	ownerIDs := make([]string, 0, len(ownerSet))
	for id := range ownerSet {
		ownerIDs = append(ownerIDs, id)
	}
	keys := make([]models.RoundKey, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}

	users, err := dir.UsersByIDs(ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("owner directory query failed: %w", err)
	}
	rounds, err := dir.RoundsByKeys(keys)
	if err != nil {
		return nil, fmt.Errorf("round directory query failed: %w", err)
	}

	ix := &Index{
		owners: make(map[string]models.OwnerDirectoryEntry, len(users)),
		rounds: make(map[models.RoundKey]RoundInfo, len(rounds)),
	}
	for _, u := range users {
		ix.owners[u.ID] = models.OwnerDirectoryEntry{ID: u.ID, Email: u.Email, Name: u.Name}
	}
	for _, r := range rounds {
		ix.rounds[models.RoundKey{OwnerID: r.OwnerID, RoundNo: r.RoundNo}] = RoundInfo{
			Keyword: r.Keyword,
			Status:  r.Status,
			Level:   r.Level,
		}
	}
	return ix, nil
}

// Owner resolves an owner id, falling back to the unknown sentinel.
func (ix *Index) Owner(id string) models.OwnerDirectoryEntry {
	if entry, ok := ix.owners[id]; ok {
		return entry
	}
	return models.OwnerDirectoryEntry{ID: id, Email: Unknown, Name: Unknown}
}

// Round resolves a round key, falling back to the unknown sentinel.
func (ix *Index) Round(key models.RoundKey) RoundInfo {
	if info, ok := ix.rounds[key]; ok {
		return info
	}
	return RoundInfo{Keyword: Unknown, Status: Unknown}
}

// Annotate labels one video with its resolved owner and round metadata.
func (ix *Index) Annotate(v models.Video) models.AnnotatedVideo {
	owner := ix.Owner(v.OwnerID)
	round := ix.Round(models.RoundKey{OwnerID: v.OwnerID, RoundNo: v.RoundNo})
	return models.AnnotatedVideo{
		Video:        v,
		OwnerEmail:   owner.Email,
		OwnerName:    owner.Name,
		RoundKeyword: round.Keyword,
		RoundStatus:  round.Status,
		RoundLevel:   round.Level,
	}
}

// AnnotateAll labels a whole batch in input order.
func (ix *Index) AnnotateAll(videos []models.Video) []models.AnnotatedVideo {
	annotated := make([]models.AnnotatedVideo, 0, len(videos))
	for _, v := range videos {
		annotated = append(annotated, ix.Annotate(v))
	}
	return annotated
}
