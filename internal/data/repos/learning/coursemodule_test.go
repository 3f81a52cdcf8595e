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

func TestCourseModuleRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCourseModuleRepo(db, testutil.Logger(t))

	course := testutil.SeedCourse(t, ctx, tx)

	m1 := &types.CourseModule{
		ID:       uuid.New(),
		CourseID: course.ID,
		Index:    1,
		Title:    "m1",
		Metadata: datatypes.JSON([]byte("{}")),
	}
	m0 := &types.CourseModule{
		ID:       uuid.New(),
		CourseID: course.ID,
		Index:    0,
		Title:    "m0",
		Metadata: datatypes.JSON([]byte("{}")),
	}
	if _, err := repo.Create(dbc, []*types.CourseModule{m1, m0}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, err := repo.GetByID(dbc, m1.ID); err != nil || got.Title != "m1" {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if got, err := repo.LockByID(dbc, m0.ID); err != nil || got.ID != m0.ID {
		t.Fatalf("LockByID: err=%v got=%v", err, got)
	}
	if _, err := repo.LockByID(dbctx.Context{Ctx: ctx}, m0.ID); err == nil {
		t.Fatalf("LockByID without tx should fail")
	}
	if _, err := repo.LockByID(dbc, uuid.New()); err == nil {
		t.Fatalf("LockByID missing row should fail")
	}
}
