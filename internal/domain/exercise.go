package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ExerciseDefinition is a static catalog entry, not user data.
type ExerciseDefinition struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Difficulty  string   `json:"difficulty"`
	Benefits    []string `json:"benefits"`
	Steps       []string `json:"steps"`
}

// ExerciseCompletion is one completed-exercise log record. Records are
// append-only and never deleted in-app.
type ExerciseCompletion struct {
	// RecordID is the storage key. ID is exerciseID + "_" + completedAt
	// millis, the value the dashboard displays; it is only unique within
	// one user's log, so it cannot key the table.
	RecordID    uuid.UUID `gorm:"type:uuid;primaryKey;column:record_id" json:"-"`
	ID          string    `gorm:"index;not null;column:id" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	ExerciseID  string    `gorm:"index;not null;column:exercise_id" json:"exercise_id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Difficulty  string    `gorm:"column:difficulty" json:"difficulty"`
	CompletedAt int64     `gorm:"not null;column:completed_at" json:"completed_at"` // epoch millis

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ExerciseCompletion) TableName() string { return "exercise_completion" }

// ExerciseStreak is the per-user day-resolution streak state.
// Invariant: LongestStreak >= CurrentStreak.
type ExerciseStreak struct {
	UserID            uuid.UUID      `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	CurrentStreak     int            `gorm:"not null;default:0;column:current_streak" json:"current_streak"`
	LongestStreak     int            `gorm:"not null;default:0;column:longest_streak" json:"longest_streak"`
	LastCompletedDate string         `gorm:"column:last_completed_date" json:"last_completed_date"` // "2006-01-02", UTC
	History           datatypes.JSON `gorm:"column:history" json:"history"`                         // JSON array of day strings

	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ExerciseStreak) TableName() string { return "exercise_streak" }
