package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ProgressStatusNotStarted = "not_started"
	ProgressStatusInProgress = "in_progress"
	ProgressStatusCompleted  = "completed"
)

// LessonProgress is a learner's record against one lesson. Only Status matters to
// availability; the rest is carried for reporting.
type LessonProgress struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_lesson,priority:1" json:"user_id"`
	LessonID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_lesson,priority:2;index" json:"lesson_id"`
	Lesson        *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Status        string         `gorm:"column:status;not null;default:'not_started'" json:"status"`
	ScoreValue    float64        `gorm:"column:score_value;not null;default:0" json:"score_value"`
	ScoreMax      float64        `gorm:"column:score_max;not null;default:0" json:"score_max"`
	AttemptCount  int            `gorm:"column:attempt_count;not null;default:0" json:"attempt_count"`
	LastAttemptAt *time.Time     `gorm:"column:last_attempt_at" json:"last_attempt_at,omitempty"`
	CompletedAt   *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Metadata      datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) IsCompleted() bool {
	return p != nil && p.Status == ProgressStatusCompleted
}
