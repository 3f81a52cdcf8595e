package repos

import (
	"github.com/yungbote/lingualeap-backend/internal/data/repos/learning"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CourseModuleRepo = learning.CourseModuleRepo
type LessonRepo = learning.LessonRepo
type LessonPrerequisiteRepo = learning.LessonPrerequisiteRepo
type LessonProgressRepo = learning.LessonProgressRepo

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return learning.NewCourseModuleRepo(db, baseLog)
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewLessonPrerequisiteRepo(db *gorm.DB, baseLog *logger.Logger) LessonPrerequisiteRepo {
	return learning.NewLessonPrerequisiteRepo(db, baseLog)
}
func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return learning.NewLessonProgressRepo(db, baseLog)
}
