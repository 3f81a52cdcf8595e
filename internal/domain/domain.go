package domain

import "github.com/yungbote/lingualeap-backend/internal/domain/learning"

type (
	Course             = learning.Course
	CourseModule       = learning.CourseModule
	Lesson             = learning.Lesson
	LessonPrerequisite = learning.LessonPrerequisite
	LessonProgress     = learning.LessonProgress
)

const (
	LessonStatusDraft     = learning.LessonStatusDraft
	LessonStatusPublished = learning.LessonStatusPublished
	LessonStatusArchived  = learning.LessonStatusArchived

	ProgressStatusNotStarted = learning.ProgressStatusNotStarted
	ProgressStatusInProgress = learning.ProgressStatusInProgress
	ProgressStatusCompleted  = learning.ProgressStatusCompleted
)

// Models lists every table the service owns, in dependency order for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&Course{},
		&CourseModule{},
		&Lesson{},
		&LessonPrerequisite{},
		&LessonProgress{},
	}
}

func IsValidLessonStatus(s string) bool { return learning.IsValidLessonStatus(s) }
