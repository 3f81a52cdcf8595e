package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/lingualeap-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

func TestLessonProgressRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLessonProgressRepo(db, testutil.Logger(t))

	course := testutil.SeedCourse(t, ctx, tx)
	module := testutil.SeedCourseModule(t, ctx, tx, course.ID, 0)
	a := testutil.SeedLesson(t, ctx, tx, module.ID, 1)
	b := testutil.SeedLesson(t, ctx, tx, module.ID, 2)
	userID := uuid.New()

	if got, err := repo.GetByUserAndLesson(dbc, userID, a.ID); err != nil || got != nil {
		t.Fatalf("GetByUserAndLesson absent: want nil,nil got=%v,%v", got, err)
	}

	testutil.SeedProgress(t, ctx, tx, userID, a.ID, types.ProgressStatusCompleted)
	testutil.SeedProgress(t, ctx, tx, userID, b.ID, types.ProgressStatusInProgress)
	testutil.SeedProgress(t, ctx, tx, uuid.New(), b.ID, types.ProgressStatusCompleted)

	ids, err := repo.GetCompletedLessonIDs(dbc, userID)
	if err != nil || len(ids) != 1 || ids[0] != a.ID {
		t.Fatalf("GetCompletedLessonIDs: err=%v ids=%v", err, ids)
	}

	if err := repo.Upsert(dbc, &types.LessonProgress{
		UserID:       userID,
		LessonID:     b.ID,
		Status:       types.ProgressStatusCompleted,
		ScoreValue:   8,
		ScoreMax:     10,
		AttemptCount: 2,
		Metadata:     datatypes.JSON([]byte("{}")),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := repo.GetByUserAndLesson(dbc, userID, b.ID)
	if err != nil || !got.IsCompleted() || got.CompletedAt == nil || got.AttemptCount != 2 {
		t.Fatalf("after Upsert: err=%v got=%+v", err, got)
	}
	if ids, err := repo.GetCompletedLessonIDs(dbc, userID); err != nil || len(ids) != 2 {
		t.Fatalf("GetCompletedLessonIDs after upsert: err=%v ids=%v", err, ids)
	}

	if n, err := repo.DeleteByLessonIDs(dbc, []uuid.UUID{b.ID}); err != nil || n != 2 {
		t.Fatalf("DeleteByLessonIDs: err=%v n=%d", err, n)
	}
}
