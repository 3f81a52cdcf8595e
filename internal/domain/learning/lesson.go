package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	LessonStatusDraft     = "draft"
	LessonStatusPublished = "published"
	LessonStatusArchived  = "archived"
)

func IsValidLessonStatus(s string) bool {
	switch s {
	case LessonStatusDraft, LessonStatusPublished, LessonStatusArchived:
		return true
	}
	return false
}

type Lesson struct {
	ID       uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_module_sequence,priority:1" json:"module_id"`
	Module   *CourseModule `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Sequence int           `gorm:"column:sequence;not null;uniqueIndex:idx_lesson_module_sequence,priority:2" json:"sequence"`

	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description" json:"description"`
	Kind        string `gorm:"column:kind;not null;default:'theory'" json:"kind"`
	Level       string `gorm:"column:level" json:"level"`
	Status      string `gorm:"column:status;not null;default:'draft';index" json:"status"`

	MinRequiredScore           int    `gorm:"column:min_required_score;not null;default:0" json:"min_required_score"`
	RecommendedDurationMinutes int    `gorm:"column:recommended_duration_minutes;not null;default:0" json:"recommended_duration_minutes"`
	TheoryContent              string `gorm:"column:theory_content;type:text" json:"theory_content"`

	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`

	// Hydrated from lesson_prerequisite by the repos, never persisted on this row.
	PrerequisiteIDs []uuid.UUID `gorm:"-" json:"prerequisite_ids"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) LessonNodeID() uuid.UUID          { return l.ID }
func (l *Lesson) LessonSequence() int              { return l.Sequence }
func (l *Lesson) LessonPrerequisites() []uuid.UUID { return l.PrerequisiteIDs }

// LessonPrerequisite is one edge of the prerequisite graph: LessonID cannot be started
// before PrerequisiteID is completed. The dependent lesson owns the edge.
type LessonPrerequisite struct {
	LessonID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"lesson_id"`
	Lesson         *Lesson   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"-"`
	PrerequisiteID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"prerequisite_id"`
	Prerequisite   *Lesson   `gorm:"constraint:OnDelete:RESTRICT;foreignKey:PrerequisiteID;references:ID" json:"-"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (LessonPrerequisite) TableName() string { return "lesson_prerequisite" }
