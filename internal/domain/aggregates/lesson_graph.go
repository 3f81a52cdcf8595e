package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/lingualeap-backend/internal/domain/learning"
)

var LessonGraphAggregateContract = Contract{
	Name:             "Learning.LessonGraphAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	LockTable:        "course_module",
	Notes:            "Owns lesson prerequisite acyclicity and per-module sequence uniqueness.",
}

// LessonGraphAggregate owns the lesson prerequisite graph and module lesson ordering.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeSelfReference, CodeCircularDependency,
// CodeDuplicateSequence, CodeHasDependents, CodeConflict, CodeRetryable, CodeInternal.
type LessonGraphAggregate interface {
	Aggregate

	// CreateLesson inserts a lesson and its prerequisite edges after validating sequence and acyclicity.
	CreateLesson(ctx context.Context, in CreateLessonInput) (CreateLessonResult, error)

	// UpdateLesson patches lesson attributes, and optionally its sequence and prerequisite set.
	UpdateLesson(ctx context.Context, in UpdateLessonInput) (UpdateLessonResult, error)

	// UpdateLessonStatus moves a lesson between draft/published/archived with compare-and-set.
	UpdateLessonStatus(ctx context.Context, in UpdateLessonStatusInput) (UpdateLessonStatusResult, error)

	// AddPrerequisite adds one edge; adding an existing edge succeeds without writing.
	AddPrerequisite(ctx context.Context, in PrerequisiteEdgeInput) (PrerequisiteEdgeResult, error)

	// RemovePrerequisite removes one edge; removing an absent edge succeeds without writing.
	RemovePrerequisite(ctx context.Context, in PrerequisiteEdgeInput) (PrerequisiteEdgeResult, error)

	// DeleteLesson deletes a lesson nothing depends on, with its edges and progress rows.
	DeleteLesson(ctx context.Context, in DeleteLessonInput) (DeleteLessonResult, error)

	// ReorderLessons reassigns sequences of lessons in one module atomically.
	ReorderLessons(ctx context.Context, in ReorderLessonsInput) (ReorderLessonsResult, error)
}

type CreateLessonInput struct {
	ModuleID uuid.UUID
	// Nil appends the lesson after the module's current last sequence.
	Sequence        *int
	PrerequisiteIDs []uuid.UUID

	Title                      string
	Description                string
	Kind                       string
	Level                      string
	Status                     string
	MinRequiredScore           int
	RecommendedDurationMinutes int
	TheoryContent              string
	Metadata                   map[string]any
}

type CreateLessonResult struct {
	Lesson *learning.Lesson
}

type UpdateLessonInput struct {
	LessonID uuid.UUID

	Title                      *string
	Description                *string
	Kind                       *string
	Level                      *string
	Status                     *string
	MinRequiredScore           *int
	RecommendedDurationMinutes *int
	TheoryContent              *string
	Metadata                   map[string]any
	Sequence                   *int

	// When ReplacePrerequisites is set the lesson's edges become exactly PrerequisiteIDs.
	ReplacePrerequisites bool
	PrerequisiteIDs      []uuid.UUID
}

type UpdateLessonResult struct {
	Lesson *learning.Lesson
	// PreviousStatus is the status before the update; it differs from Lesson.Status
	// only when the patch moved the status.
	PreviousStatus string
}

type UpdateLessonStatusInput struct {
	LessonID uuid.UUID
	Status   string
	// Optional; when empty the status observed inside the transaction is used.
	ExpectedStatus string
}

type UpdateLessonStatusResult struct {
	LessonID       uuid.UUID
	PreviousStatus string
	Status         string
}

type PrerequisiteEdgeInput struct {
	LessonID       uuid.UUID
	PrerequisiteID uuid.UUID
}

type PrerequisiteEdgeResult struct {
	LessonID       uuid.UUID
	PrerequisiteID uuid.UUID
	// Changed is false when the call was a no-op.
	Changed bool
}

type DeleteLessonInput struct {
	LessonID uuid.UUID
}

type DeleteLessonResult struct {
	LessonID        uuid.UUID
	ModuleID        uuid.UUID
	DeletedEdges    int64
	DeletedProgress int64
}

type ReorderLessonsInput struct {
	ModuleID  uuid.UUID
	Sequences map[uuid.UUID]int
}

type ReorderLessonsResult struct {
	ModuleID uuid.UUID
	Lessons  []*learning.Lesson
}
