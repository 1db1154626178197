package models

import "time"

// User roles and round lifecycle states.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	RoundPending = "pending"
	RoundDone    = "done"
)

// User is a stored account. Only the projection in OwnerDirectoryEntry is
// visible to the enrichment pipeline.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role" gorm:"size:16;default:user"`
	Tier         string    `json:"tier" gorm:"size:16;default:free"`
	CreatedAt    time.Time `json:"created_at"`
}

// SearchRound records one keyword-search session. RoundNo is unique per
// owner; videos reference a round by (OwnerID, RoundNo).
type SearchRound struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	OwnerID   string    `json:"owner_id" gorm:"size:36;index:idx_rounds_owner_no,priority:1"`
	RoundNo   int       `json:"round_no" gorm:"index:idx_rounds_owner_no,priority:2"`
	Keyword   string    `json:"keyword" gorm:"size:255"`
	Status    string    `json:"status" gorm:"size:16;default:pending"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// RoundKey is the composite key videos use to reference a round.
type RoundKey struct {
	OwnerID string
	RoundNo int
}

// Video is the persisted form of an enriched video: the raw platform signal
// plus the derived grading fields and its round/owner association.
type Video struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	PlatformID          string    `json:"platform_id" gorm:"size:32;index"`
	Title               string    `json:"title"`
	Thumbnail           string    `json:"thumbnail"`
	Duration            string    `json:"duration" gorm:"size:32"`
	DurationSeconds     int       `json:"duration_seconds"`
	ViewCount           int64     `json:"view_count"`
	ChannelID           string    `json:"channel_id" gorm:"size:32"`
	ChannelTitle        string    `json:"channel_title"`
	PublishedAt         time.Time `json:"published_at"`
	Keyword             string    `json:"keyword" gorm:"size:255"`
	RoundNo             int       `json:"round_no"`
	OwnerID             string    `json:"owner_id" gorm:"size:36;index"`
	PerformanceGrade    Grade     `json:"performance_grade" gorm:"size:8"`
	ContributionGrade   Grade     `json:"contribution_grade" gorm:"size:8"`
	ExposureProbability float64   `json:"exposure_probability"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// AnnotatedVideo is a Video labeled with its resolved owner and round
// metadata for listing screens. Unresolvable references carry the "unknown"
// sentinels instead of failing.
type AnnotatedVideo struct {
	Video
	OwnerEmail   string `json:"owner_email"`
	OwnerName    string `json:"owner_name"`
	RoundKeyword string `json:"round_keyword"`
	RoundStatus  string `json:"round_status"`
	RoundLevel   int    `json:"round_level"`
}
