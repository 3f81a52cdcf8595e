package aggregates

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireCASSuccess(false, "stale"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

type recordingLocker struct {
	locked  []uuid.UUID
	missing uuid.UUID
}

func (l *recordingLocker) LockByID(_ dbctx.Context, id uuid.UUID) (*types.CourseModule, error) {
	if id == l.missing {
		return nil, gorm.ErrRecordNotFound
	}
	l.locked = append(l.locked, id)
	return &types.CourseModule{ID: id}, nil
}

func TestLockModulesOrdersAndDedupes(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	l := &recordingLocker{}
	if err := lockModules(dbctx.Background(), l, b, a, b, uuid.Nil); err != nil {
		t.Fatalf("lockModules: %v", err)
	}
	if len(l.locked) != 2 || l.locked[0] != a || l.locked[1] != b {
		t.Fatalf("lock order: want=[%s %s] got=%v", a, b, l.locked)
	}

	l = &recordingLocker{missing: b}
	if err := lockModules(dbctx.Background(), l, a, b); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing module: want not found got %v", err)
	}
}
