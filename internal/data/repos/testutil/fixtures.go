package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:       uuid.New(),
		Title:    "course",
		Status:   "draft",
		Metadata: datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedCourseModule(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, index int) *types.CourseModule {
	tb.Helper()
	m := &types.CourseModule{
		ID:       uuid.New(),
		CourseID: courseID,
		Index:    index,
		Title:    "module",
		Metadata: datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed course module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, sequence int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:       uuid.New(),
		ModuleID: moduleID,
		Sequence: sequence,
		Title:    "lesson",
		Kind:     "theory",
		Status:   types.LessonStatusDraft,
		Metadata: datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedPrerequisite(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID, prerequisiteID uuid.UUID) {
	tb.Helper()
	e := &types.LessonPrerequisite{LessonID: lessonID, PrerequisiteID: prerequisiteID, CreatedAt: time.Now().UTC()}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed prerequisite: %v", err)
	}
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, status string) *types.LessonProgress {
	tb.Helper()
	p := &types.LessonProgress{
		ID:       uuid.New(),
		UserID:   userID,
		LessonID: lessonID,
		Status:   status,
		Metadata: datatypes.JSON([]byte("{}")),
	}
	if status == types.ProgressStatusCompleted {
		p.CompletedAt = PtrTime(time.Now().UTC())
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
