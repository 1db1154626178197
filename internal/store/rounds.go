package store

import (
	"fmt"

	"vidscope/internal/models"
)

func (s *Store) CreateRound(round *models.SearchRound) error {
	if err := s.db.Create(round).Error; err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// NextRoundNo allocates the next per-owner round number.
func (s *Store) NextRoundNo(ownerID string) (int, error) {
	var maxNo int
	err := s.db.Model(&models.SearchRound{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(MAX(round_no), 0)").
		Scan(&maxNo).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate round number: %w", err)
	}
	return maxNo + 1, nil
}

func (s *Store) UpdateRoundStatus(id, status string) error {
	if err := s.db.Model(&models.SearchRound{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update round status: %w", err)
	}
	return nil
}

func (s *Store) RoundsByOwner(ownerID string, skip, limit int) ([]models.SearchRound, int64, error) {
	var total int64
	if err := s.db.Model(&models.SearchRound{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rounds: %w", err)
	}

	var rounds []models.SearchRound
	err := s.db.Where("owner_id = ?", ownerID).
		Order("round_no DESC").
		Offset(skip).Limit(limit).
		Find(&rounds).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, total, nil
}

// RoundsByKeys is the round-directory query: one call covering every
// distinct (owner, round) pair. The superset pulled by the two IN clauses
// is fine; the join index maps exact pairs.
func (s *Store) RoundsByKeys(keys []models.RoundKey) ([]models.SearchRound, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	ownerIDs := make([]string, 0, len(keys))
	roundNos := make([]int, 0, len(keys))
	for _, key := range keys {
		ownerIDs = append(ownerIDs, key.OwnerID)
		roundNos = append(roundNos, key.RoundNo)
	}

	var rounds []models.SearchRound
	err := s.db.Where("owner_id IN ? AND round_no IN ?", ownerIDs, roundNos).Find(&rounds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}
	return rounds, nil
}

// DoneRounds lists completed rounds, oldest first, for the refresher.
func (s *Store) DoneRounds(limit int) ([]models.SearchRound, error) {
	var rounds []models.SearchRound
	err := s.db.Where("status = ?", models.RoundDone).
		Order("created_at ASC").
		Limit(limit).
		Find(&rounds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list done rounds: %w", err)
	}
	return rounds, nil
}
