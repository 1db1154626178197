package store

import (
	"errors"
	"fmt"

	"vidscope/internal/models"

	"gorm.io/gorm"
)

func (s *Store) SaveVideos(videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}
	if err := s.db.Create(&videos).Error; err != nil {
		return fmt.Errorf("failed to save videos: %w", err)
	}
	return nil
}

func (s *Store) VideoByID(id uint) (*models.Video, error) {
	var video models.Video
	err := s.db.First(&video, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}
	return &video, nil
}

func (s *Store) VideosByOwner(ownerID string, skip, limit int) ([]models.Video, int64, error) {
	var total int64
	if err := s.db.Model(&models.Video{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	var videos []models.Video
	err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, total, nil
}

// AllVideos lists every owner's videos; admin listing only.
func (s *Store) AllVideos(skip, limit int) ([]models.Video, int64, error) {
	var total int64
	if err := s.db.Model(&models.Video{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	var videos []models.Video
	err := s.db.Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, total, nil
}

func (s *Store) VideosByRound(ownerID string, roundNo int) ([]models.Video, error) {
	var videos []models.Video
	err := s.db.Where("owner_id = ? AND round_no = ?", ownerID, roundNo).Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load round videos: %w", err)
	}
	return videos, nil
}

// UpdateVideoGrades rewrites the derived fields after a refresh re-score.
func (s *Store) UpdateVideoGrades(video *models.Video) error {
	err := s.db.Model(video).Updates(map[string]any{
		"view_count":           video.ViewCount,
		"performance_grade":    video.PerformanceGrade,
		"contribution_grade":   video.ContributionGrade,
		"exposure_probability": video.ExposureProbability,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update video grades: %w", err)
	}
	return nil
}
