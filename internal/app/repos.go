package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lingualeap-backend/internal/data/repos"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

type Repos struct {
	CourseModule       repos.CourseModuleRepo
	Lesson             repos.LessonRepo
	LessonPrerequisite repos.LessonPrerequisiteRepo
	LessonProgress     repos.LessonProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		CourseModule:       repos.NewCourseModuleRepo(db, log),
		Lesson:             repos.NewLessonRepo(db, log),
		LessonPrerequisite: repos.NewLessonPrerequisiteRepo(db, log),
		LessonProgress:     repos.NewLessonProgressRepo(db, log),
	}
}
