package learning

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/learning/lessongraph"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error)
	ListByModule(dbc dbctx.Context, moduleID uuid.UUID) ([]*types.Lesson, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdateSequences(dbc dbctx.Context, moduleID uuid.UUID, sequences map[uuid.UUID]int) error
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
	FindReferencing(dbc dbctx.Context, prerequisiteID uuid.UUID) ([]*types.Lesson, error)
	ExistsInModuleWithSequence(dbc dbctx.Context, moduleID uuid.UUID, sequence int, excludeID uuid.UUID) (bool, error)
	ListSequences(dbc dbctx.Context, moduleID uuid.UUID) ([]lessongraph.SequenceSlot, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := txx.WithContext(dbc.Ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

// GetByID returns gorm.ErrRecordNotFound when the lesson does not exist.
func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Lesson
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	rows := []*types.Lesson{&out}
	if err := hydratePrerequisites(txx.WithContext(dbc.Ctx), rows); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *lessonRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var results []*types.Lesson
	if len(ids) == 0 {
		return results, nil
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Order("sequence ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	if err := hydratePrerequisites(txx.WithContext(dbc.Ctx), results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) ListByModule(dbc dbctx.Context, moduleID uuid.UUID) ([]*types.Lesson, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var results []*types.Lesson
	if err := txx.WithContext(dbc.Ctx).
		Where("module_id = ?", moduleID).
		Order("sequence ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	if err := hydratePrerequisites(txx.WithContext(dbc.Ctx), results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if len(updates) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Lesson{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateSequences moves every lesson in sequences to its new value in two passes: first
// to a negative placeholder, then to the target, so the (module_id, sequence) unique index
// never sees two rows sharing a value mid-batch. Requires dbc.Tx.
func (r *lessonRepo) UpdateSequences(dbc dbctx.Context, moduleID uuid.UUID, sequences map[uuid.UUID]int) error {
	if len(sequences) == 0 {
		return nil
	}
	if dbc.Tx == nil {
		return fmt.Errorf("UpdateSequences required dbc.Tx")
	}
	ids := make([]uuid.UUID, 0, len(sequences))
	for id := range sequences {
		ids = append(ids, id)
	}
	txx := dbc.Tx.WithContext(dbc.Ctx)

	for i, id := range ids {
		res := txx.Model(&types.Lesson{}).
			Where("id = ? AND module_id = ?", id, moduleID).
			Update("sequence", -(i + 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("lesson %s not in module %s: %w", id, moduleID, gorm.ErrRecordNotFound)
		}
	}
	for _, id := range ids {
		if err := txx.Model(&types.Lesson{}).
			Where("id = ?", id).
			Update("sequence", sequences[id]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *lessonRepo) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.Lesson{})
	return res.RowsAffected, res.Error
}

// FindReferencing returns the lessons that list prerequisiteID as a prerequisite.
func (r *lessonRepo) FindReferencing(dbc dbctx.Context, prerequisiteID uuid.UUID) ([]*types.Lesson, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var results []*types.Lesson
	if err := txx.WithContext(dbc.Ctx).
		Where("id IN (?)", txx.Model(&types.LessonPrerequisite{}).
			Select("lesson_id").
			Where("prerequisite_id = ?", prerequisiteID)).
		Order("sequence ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	if err := hydratePrerequisites(txx.WithContext(dbc.Ctx), results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) ExistsInModuleWithSequence(dbc dbctx.Context, moduleID uuid.UUID, sequence int, excludeID uuid.UUID) (bool, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Lesson{}).
		Where("module_id = ? AND sequence = ?", moduleID, sequence)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *lessonRepo) ListSequences(dbc dbctx.Context, moduleID uuid.UUID) ([]lessongraph.SequenceSlot, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []struct {
		ID       uuid.UUID
		Sequence int
	}
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Lesson{}).
		Select("id, sequence").
		Where("module_id = ?", moduleID).
		Order("sequence ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]lessongraph.SequenceSlot, 0, len(rows))
	for _, row := range rows {
		out = append(out, lessongraph.SequenceSlot{LessonID: row.ID, Sequence: row.Sequence})
	}
	return out, nil
}

func hydratePrerequisites(db *gorm.DB, lessons []*types.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(lessons))
	byID := make(map[uuid.UUID]*types.Lesson, len(lessons))
	for _, l := range lessons {
		if l == nil {
			continue
		}
		l.PrerequisiteIDs = []uuid.UUID{}
		ids = append(ids, l.ID)
		byID[l.ID] = l
	}
	var edges []*types.LessonPrerequisite
	if err := db.
		Where("lesson_id IN ?", ids).
		Order("lesson_id, prerequisite_id").
		Find(&edges).Error; err != nil {
		return err
	}
	for _, e := range edges {
		if l := byID[e.LessonID]; l != nil {
			l.PrerequisiteIDs = append(l.PrerequisiteIDs, e.PrerequisiteID)
		}
	}
	return nil
}
