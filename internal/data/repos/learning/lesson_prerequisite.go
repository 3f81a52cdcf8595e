package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/learning/lessongraph"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

type LessonPrerequisiteRepo interface {
	// Add inserts edges, skipping any that already exist. Returns the number inserted.
	Add(dbc dbctx.Context, edges []*types.LessonPrerequisite) (int64, error)
	Remove(dbc dbctx.Context, lessonID, prerequisiteID uuid.UUID) (int64, error)
	ReplaceForLesson(dbc dbctx.Context, lessonID uuid.UUID, prerequisiteIDs []uuid.UUID) error
	// ReachableFrom returns every edge reachable from startID by following prerequisites.
	ReachableFrom(dbc dbctx.Context, startID uuid.UUID) ([]lessongraph.Edge, error)
	DeleteForLesson(dbc dbctx.Context, lessonID uuid.UUID) (int64, error)
}

type lessonPrerequisiteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonPrerequisiteRepo(db *gorm.DB, baseLog *logger.Logger) LessonPrerequisiteRepo {
	repoLog := baseLog.With("repo", "LessonPrerequisiteRepo")
	return &lessonPrerequisiteRepo{db: db, log: repoLog}
}

func (r *lessonPrerequisiteRepo) Add(dbc dbctx.Context, edges []*types.LessonPrerequisite) (int64, error) {
	if len(edges) == 0 {
		return 0, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now().UTC()
	for _, e := range edges {
		if e != nil && e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
	}
	res := txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lesson_id"}, {Name: "prerequisite_id"}},
			DoNothing: true,
		}).
		Create(&edges)
	return res.RowsAffected, res.Error
}

func (r *lessonPrerequisiteRepo) Remove(dbc dbctx.Context, lessonID, prerequisiteID uuid.UUID) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("lesson_id = ? AND prerequisite_id = ?", lessonID, prerequisiteID).
		Delete(&types.LessonPrerequisite{})
	return res.RowsAffected, res.Error
}

func (r *lessonPrerequisiteRepo) ReplaceForLesson(dbc dbctx.Context, lessonID uuid.UUID, prerequisiteIDs []uuid.UUID) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("lesson_id = ?", lessonID).
		Delete(&types.LessonPrerequisite{}).Error; err != nil {
		return err
	}
	if len(prerequisiteIDs) == 0 {
		return nil
	}
	edges := make([]*types.LessonPrerequisite, 0, len(prerequisiteIDs))
	for _, p := range prerequisiteIDs {
		edges = append(edges, &types.LessonPrerequisite{LessonID: lessonID, PrerequisiteID: p})
	}
	_, err := r.Add(dbctx.Context{Ctx: dbc.Ctx, Tx: txx}, edges)
	return err
}

// UNION (not UNION ALL) drops repeated rows, so diamonds and any pre-existing cycle
// still terminate.
const reachableFromSQL = `
WITH RECURSIVE reach(lesson_id, prerequisite_id) AS (
	SELECT lesson_id, prerequisite_id FROM lesson_prerequisite WHERE lesson_id = ?
	UNION
	SELECT e.lesson_id, e.prerequisite_id
	FROM lesson_prerequisite e
	JOIN reach r ON e.lesson_id = r.prerequisite_id
)
SELECT lesson_id, prerequisite_id FROM reach`

func (r *lessonPrerequisiteRepo) ReachableFrom(dbc dbctx.Context, startID uuid.UUID) ([]lessongraph.Edge, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []struct {
		LessonID       uuid.UUID
		PrerequisiteID uuid.UUID
	}
	if err := txx.WithContext(dbc.Ctx).Raw(reachableFromSQL, startID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]lessongraph.Edge, 0, len(rows))
	for _, row := range rows {
		out = append(out, lessongraph.Edge{LessonID: row.LessonID, PrerequisiteID: row.PrerequisiteID})
	}
	return out, nil
}

func (r *lessonPrerequisiteRepo) DeleteForLesson(dbc dbctx.Context, lessonID uuid.UUID) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("lesson_id = ?", lessonID).
		Delete(&types.LessonPrerequisite{})
	return res.RowsAffected, res.Error
}
