package learning

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

type LessonProgressRepo interface {
	GetCompletedLessonIDs(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// GetByUserAndLesson returns nil, nil when the user has no record for the lesson.
	GetByUserAndLesson(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	Upsert(dbc dbctx.Context, row *types.LessonProgress) error
	DeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) (int64, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	repoLog := baseLog.With("repo", "LessonProgressRepo")
	return &lessonProgressRepo{db: db, log: repoLog}
}

func (r *lessonProgressRepo) GetCompletedLessonIDs(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var ids []uuid.UUID
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND status = ?", userID, types.ProgressStatusCompleted).
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *lessonProgressRepo) GetByUserAndLesson(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.LessonProgress
	err := txx.WithContext(dbc.Ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *lessonProgressRepo) Upsert(dbc dbctx.Context, row *types.LessonProgress) error {
	if row == nil {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.Status == "" {
		row.Status = types.ProgressStatusNotStarted
	}
	if row.Status == types.ProgressStatusCompleted && row.CompletedAt == nil {
		now := time.Now().UTC()
		row.CompletedAt = &now
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status",
				"score_value",
				"score_max",
				"attempt_count",
				"last_attempt_at",
				"completed_at",
				"metadata",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *lessonProgressRepo) DeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) (int64, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("lesson_id IN ?", lessonIDs).
		Delete(&types.LessonProgress{})
	return res.RowsAffected, res.Error
}
