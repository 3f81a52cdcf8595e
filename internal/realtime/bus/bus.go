package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLessonCreated       EventType = "lesson.created"
	EventLessonUpdated       EventType = "lesson.updated"
	EventLessonStatusChanged EventType = "lesson.status_changed"
	EventLessonDeleted       EventType = "lesson.deleted"
	EventPrerequisiteAdded   EventType = "lesson.prerequisite_added"
	EventPrerequisiteRemoved EventType = "lesson.prerequisite_removed"
	EventLessonsReordered    EventType = "module.lessons_reordered"
)

// LessonGraphEvent announces a committed change to a module's lesson graph.
// LessonID and PrerequisiteID are uuid.Nil when the event type does not carry them.
type LessonGraphEvent struct {
	Type           EventType         `json:"type"`
	ModuleID       uuid.UUID         `json:"module_id"`
	LessonID       uuid.UUID         `json:"lesson_id"`
	PrerequisiteID uuid.UUID         `json:"prerequisite_id"`
	Status         string            `json:"status,omitempty"`
	Sequences      map[uuid.UUID]int `json:"sequences,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

type Bus interface {
	Publish(ctx context.Context, ev LessonGraphEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev LessonGraphEvent)) error
	Close() error
}
