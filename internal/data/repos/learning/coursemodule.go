package learning

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

type CourseModuleRepo interface {
	Create(dbc dbctx.Context, modules []*types.CourseModule) ([]*types.CourseModule, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error)
	// LockByID takes a row lock on the module for the rest of dbc.Tx.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error)
}

type courseModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	repoLog := baseLog.With("repo", "CourseModuleRepo")
	return &courseModuleRepo{db: db, log: repoLog}
}

func (r *courseModuleRepo) Create(dbc dbctx.Context, modules []*types.CourseModule) ([]*types.CourseModule, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if len(modules) == 0 {
		return []*types.CourseModule{}, nil
	}
	if err := txx.WithContext(dbc.Ctx).Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *courseModuleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.CourseModule
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *courseModuleRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID required dbc.Tx")
	}
	var out types.CourseModule
	q := dbc.Tx.WithContext(dbc.Ctx)
	// sqlite has no row locks; its single writer already serializes transactions.
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
