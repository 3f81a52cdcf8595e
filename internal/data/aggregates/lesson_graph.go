package aggregates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lingualeap-backend/internal/data/repos"
	types "github.com/yungbote/lingualeap-backend/internal/domain"
	domainagg "github.com/yungbote/lingualeap-backend/internal/domain/aggregates"
	"github.com/yungbote/lingualeap-backend/internal/learning/lessongraph"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
)

const (
	opCreateLesson       = "Learning.LessonGraph.CreateLesson"
	opUpdateLesson       = "Learning.LessonGraph.UpdateLesson"
	opUpdateLessonStatus = "Learning.LessonGraph.UpdateLessonStatus"
	opAddPrerequisite    = "Learning.LessonGraph.AddPrerequisite"
	opRemovePrerequisite = "Learning.LessonGraph.RemovePrerequisite"
	opDeleteLesson       = "Learning.LessonGraph.DeleteLesson"
	opReorderLessons     = "Learning.LessonGraph.ReorderLessons"

	lessonTable = "lesson"
)

// StatusGuard is the compare-and-set primitive UpdateLessonStatus writes through.
// CASGuard satisfies it.
type StatusGuard interface {
	UpdateByStatus(dbc dbctx.Context, table string, id uuid.UUID, allowedStatuses []string, updates map[string]any) (bool, error)
}

type LessonGraphAggregateDeps struct {
	Base BaseDeps

	Modules  repos.CourseModuleRepo
	Lessons  repos.LessonRepo
	Edges    repos.LessonPrerequisiteRepo
	Progress repos.LessonProgressRepo

	// Defaults to Base.CASGuard.
	StatusGuard StatusGuard
}

type lessonGraphAggregate struct {
	deps LessonGraphAggregateDeps
}

func NewLessonGraphAggregate(deps LessonGraphAggregateDeps) domainagg.LessonGraphAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.StatusGuard == nil {
		deps.StatusGuard = deps.Base.CASGuard
	}
	return &lessonGraphAggregate{deps: deps}
}

func (a *lessonGraphAggregate) Contract() domainagg.Contract {
	return domainagg.LessonGraphAggregateContract
}

func (a *lessonGraphAggregate) configured() bool {
	return a.deps.Modules != nil && a.deps.Lessons != nil && a.deps.Edges != nil && a.deps.Progress != nil
}

func (a *lessonGraphAggregate) CreateLesson(ctx context.Context, in domainagg.CreateLessonInput) (domainagg.CreateLessonResult, error) {
	const op = opCreateLesson
	var out domainagg.CreateLessonResult
	if in.ModuleID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing module_id", nil)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing title", nil)
	}
	if in.Sequence != nil && *in.Sequence <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "sequence must be positive", nil)
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = types.LessonStatusDraft
	}
	if !types.IsValidLessonStatus(status) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("invalid status %q", status), nil)
	}
	prereqIDs, err := normalizeIDs(in.PrerequisiteIDs)
	if err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), nil)
	}
	metadata, err := metadataJSON(in.Metadata)
	if err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "lesson graph aggregate repos not configured", nil)
	}

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		prereqs, held, err := a.lockAround(dbc, []uuid.UUID{in.ModuleID}, prereqIDs)
		if err != nil {
			return err
		}

		slots, err := a.deps.Lessons.ListSequences(dbc, in.ModuleID)
		if err != nil {
			return err
		}
		sequence := lessongraph.NextSequence(slots)
		if in.Sequence != nil {
			sequence = *in.Sequence
			if err := lessongraph.ValidateSequenceAssignment(uuid.Nil, sequence, slots); err != nil {
				return err
			}
		}

		lessonID := uuid.New()
		g, err := a.lockReachable(dbc, held, prereqIDs...)
		if err != nil {
			return err
		}
		if err := lessongraph.ValidateEdgeSet(lessonID, prereqIDs, g); err != nil {
			return err
		}

		now := time.Now().UTC()
		lesson := &types.Lesson{
			ID:                         lessonID,
			ModuleID:                   in.ModuleID,
			Sequence:                   sequence,
			Title:                      title,
			Description:                strings.TrimSpace(in.Description),
			Kind:                       defaultString(in.Kind, "theory"),
			Level:                      strings.TrimSpace(in.Level),
			Status:                     status,
			MinRequiredScore:           in.MinRequiredScore,
			RecommendedDurationMinutes: in.RecommendedDurationMinutes,
			TheoryContent:              in.TheoryContent,
			Metadata:                   metadata,
			CreatedAt:                  now,
			UpdatedAt:                  now,
		}
		if _, err := a.deps.Lessons.Create(dbc, []*types.Lesson{lesson}); err != nil {
			return err
		}
		if len(prereqs) > 0 {
			edges := make([]*types.LessonPrerequisite, 0, len(prereqIDs))
			for _, p := range prereqIDs {
				edges = append(edges, &types.LessonPrerequisite{LessonID: lessonID, PrerequisiteID: p, CreatedAt: now})
			}
			if _, err := a.deps.Edges.Add(dbc, edges); err != nil {
				return err
			}
		}
		lesson.PrerequisiteIDs = prereqIDs
		out.Lesson = lesson
		return nil
	})
	return out, err
}

func (a *lessonGraphAggregate) UpdateLesson(ctx context.Context, in domainagg.UpdateLessonInput) (domainagg.UpdateLessonResult, error) {
	const op = opUpdateLesson
	var out domainagg.UpdateLessonResult
	if in.LessonID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing lesson_id", nil)
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "title cannot be empty", nil)
	}
	if in.Sequence != nil && *in.Sequence <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "sequence must be positive", nil)
	}
	if in.Status != nil && !types.IsValidLessonStatus(strings.TrimSpace(*in.Status)) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("invalid status %q", *in.Status), nil)
	}
	var prereqIDs []uuid.UUID
	if in.ReplacePrerequisites {
		ids, err := normalizeIDs(in.PrerequisiteIDs)
		if err != nil {
			return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), nil)
		}
		prereqIDs = ids
		if err := lessongraph.ValidateEdgeSet(in.LessonID, prereqIDs, nil); lessongraph.IsKind(err, lessongraph.KindSelfReference) {
			return out, MapError(op, err)
		}
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "lesson graph aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		current, err := a.loadLesson(dbc, in.LessonID)
		if err != nil {
			return err
		}
		_, held, err := a.lockAround(dbc, []uuid.UUID{current.ModuleID}, prereqIDs)
		if err != nil {
			return err
		}
		if current, err = a.loadLesson(dbc, in.LessonID); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		setString(updates, "title", in.Title)
		setString(updates, "description", in.Description)
		setString(updates, "kind", in.Kind)
		setString(updates, "level", in.Level)
		if in.TheoryContent != nil {
			updates["theory_content"] = *in.TheoryContent
		}
		if in.MinRequiredScore != nil {
			updates["min_required_score"] = *in.MinRequiredScore
		}
		if in.RecommendedDurationMinutes != nil {
			updates["recommended_duration_minutes"] = *in.RecommendedDurationMinutes
		}
		if in.Metadata != nil {
			metadata, err := metadataJSON(in.Metadata)
			if err != nil {
				return ValidationError(err.Error())
			}
			updates["metadata"] = metadata
		}
		if in.Sequence != nil && *in.Sequence != current.Sequence {
			taken, err := a.deps.Lessons.ExistsInModuleWithSequence(dbc, current.ModuleID, *in.Sequence, current.ID)
			if err != nil {
				return err
			}
			if taken {
				return &lessongraph.Violation{Kind: lessongraph.KindDuplicateSequence, LessonID: current.ID, Sequence: *in.Sequence}
			}
			updates["sequence"] = *in.Sequence
		}
		out.PreviousStatus = current.Status
		status := current.Status
		if in.Status != nil {
			status = strings.TrimSpace(*in.Status)
		}

		if in.ReplacePrerequisites {
			g, err := a.lockReachable(dbc, held, prereqIDs...)
			if err != nil {
				return err
			}
			g.SetPrerequisites(current.ID, nil)
			if err := lessongraph.ValidateEdgeSet(current.ID, prereqIDs, g); err != nil {
				return err
			}
		}

		// every check has passed; writes start here
		now := time.Now().UTC()
		if status != current.Status {
			ok, err := a.deps.StatusGuard.UpdateByStatus(dbc, lessonTable, current.ID, []string{current.Status}, map[string]any{
				"status":     status,
				"updated_at": now,
			})
			if err != nil {
				return err
			}
			if err := RequireCASSuccess(ok, "lesson status changed concurrently"); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			updates["updated_at"] = now
			if err := a.deps.Lessons.UpdateFields(dbc, current.ID, updates); err != nil {
				return err
			}
		}
		if in.ReplacePrerequisites {
			if err := a.deps.Edges.ReplaceForLesson(dbc, current.ID, prereqIDs); err != nil {
				return err
			}
		}
		updated, err := a.loadLesson(dbc, current.ID)
		if err != nil {
			return err
		}
		out.Lesson = updated
		return nil
	})
	return out, err
}

func (a *lessonGraphAggregate) UpdateLessonStatus(ctx context.Context, in domainagg.UpdateLessonStatusInput) (domainagg.UpdateLessonStatusResult, error) {
	const op = opUpdateLessonStatus
	var out domainagg.UpdateLessonStatusResult
	if in.LessonID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing lesson_id", nil)
	}
	status := strings.TrimSpace(in.Status)
	if !types.IsValidLessonStatus(status) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("invalid status %q", in.Status), nil)
	}
	expected := strings.TrimSpace(in.ExpectedStatus)
	if expected != "" && !types.IsValidLessonStatus(expected) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("invalid expected status %q", in.ExpectedStatus), nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "lesson graph aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		current, err := a.loadLesson(dbc, in.LessonID)
		if err != nil {
			return err
		}
		observed := current.Status
		if expected == "" {
			expected = observed
		}
		out.LessonID = current.ID
		out.PreviousStatus = observed
		out.Status = status
		if expected != observed {
			return ConflictError(fmt.Sprintf("lesson status is %q, expected %q", observed, expected))
		}
		if observed == status {
			return nil
		}
		ok, err := a.deps.StatusGuard.UpdateByStatus(dbc, lessonTable, current.ID, []string{expected}, map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		return RequireCASSuccess(ok, "lesson status changed concurrently")
	})
	return out, err
}

func (a *lessonGraphAggregate) AddPrerequisite(ctx context.Context, in domainagg.PrerequisiteEdgeInput) (domainagg.PrerequisiteEdgeResult, error) {
	const op = opAddPrerequisite
	out := domainagg.PrerequisiteEdgeResult{LessonID: in.LessonID, PrerequisiteID: in.PrerequisiteID}
	if in.LessonID == uuid.Nil || in.PrerequisiteID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing lesson_id or prerequisite_id", nil)
	}
	if err := lessongraph.ValidateNewEdge(in.LessonID, in.PrerequisiteID, nil); err != nil {
		return out, MapError(op, err)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "lesson graph aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		lesson, err := a.loadLesson(dbc, in.LessonID)
		if err != nil {
			return err
		}
		_, held, err := a.lockAround(dbc, []uuid.UUID{lesson.ModuleID}, []uuid.UUID{in.PrerequisiteID})
		if err != nil {
			return err
		}
		if lesson, err = a.loadLesson(dbc, in.LessonID); err != nil {
			return err
		}
		for _, p := range lesson.PrerequisiteIDs {
			if p == in.PrerequisiteID {
				return nil
			}
		}

		g, err := a.lockReachable(dbc, held, in.PrerequisiteID)
		if err != nil {
			return err
		}
		if err := lessongraph.ValidateNewEdge(in.LessonID, in.PrerequisiteID, g); err != nil {
			return err
		}
		n, err := a.deps.Edges.Add(dbc, []*types.LessonPrerequisite{{
			LessonID:       in.LessonID,
			PrerequisiteID: in.PrerequisiteID,
			CreatedAt:      time.Now().UTC(),
		}})
		if err != nil {
			return err
		}
		out.Changed = n > 0
		return nil
	})
	return out, err
}

func (a *lessonGraphAggregate) RemovePrerequisite(ctx context.Context, in domainagg.PrerequisiteEdgeInput) (domainagg.PrerequisiteEdgeResult, error) {
	const op = opRemovePrerequisite
	out := domainagg.PrerequisiteEdgeResult{LessonID: in.LessonID, PrerequisiteID: in.PrerequisiteID}
	if in.LessonID == uuid.Nil || in.PrerequisiteID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing lesson_id or prerequisite_id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "lesson graph aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		lesson, err := a.loadLesson(dbc, in.LessonID)
		if err != nil {
			return err
		}
		own := lessongraph.NewGraph()
		own.SetPrerequisites(lesson.ID, lesson.PrerequisiteIDs)
		if !lessongraph.ValidateRemoval(lesson.ID, in.PrerequisiteID, own) {
			return nil
		}
		n, err := a.deps.Edges.Remove(dbc, in.LessonID, in.PrerequisiteID)
		if err != nil {
			return err
		}
		out.Changed = n > 0
		return nil
	})
	return out, err
}

func (a *lessonGraphAggregate) DeleteLesson(ctx context.Context, in domainagg.DeleteLessonInput) (domainagg.DeleteLessonResult, error) {
	const op = opDeleteLesson
	out := domainagg.DeleteLessonResult{LessonID: in.LessonID}
	if in.LessonID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing lesson_id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "lesson graph aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		lesson, err := a.loadLesson(dbc, in.LessonID)
		if err != nil {
			return err
		}
		if err := a.lockModules(dbc, lesson.ModuleID); err != nil {
			return err
		}
		if lesson, err = a.loadLesson(dbc, in.LessonID); err != nil {
			return err
		}
		out.ModuleID = lesson.ModuleID

		referencing, err := a.deps.Lessons.FindReferencing(dbc, lesson.ID)
		if err != nil {
			return err
		}
		if lessongraph.HasDependents(lesson.ID, referencing) {
			return HasDependentsError(fmt.Sprintf("lesson %s is a prerequisite of %d other lesson(s)", lesson.ID, len(referencing)))
		}

		if out.DeletedEdges, err = a.deps.Edges.DeleteForLesson(dbc, lesson.ID); err != nil {
			return err
		}
		if out.DeletedProgress, err = a.deps.Progress.DeleteByLessonIDs(dbc, []uuid.UUID{lesson.ID}); err != nil {
			return err
		}
		n, err := a.deps.Lessons.Delete(dbc, lesson.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return NotFoundError(fmt.Sprintf("lesson not found: %s", lesson.ID))
		}
		return nil
	})
	return out, err
}

func (a *lessonGraphAggregate) ReorderLessons(ctx context.Context, in domainagg.ReorderLessonsInput) (domainagg.ReorderLessonsResult, error) {
	const op = opReorderLessons
	out := domainagg.ReorderLessonsResult{ModuleID: in.ModuleID}
	if in.ModuleID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing module_id", nil)
	}
	for id, seq := range in.Sequences {
		if id == uuid.Nil {
			return out, domainagg.NewError(domainagg.CodeValidation, op, "nil lesson id in reorder batch", nil)
		}
		if seq <= 0 {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("sequence for lesson %s must be positive", id), nil)
		}
	}
	if err := lessongraph.ValidateReorderBatch(in.Sequences); err != nil {
		return out, MapError(op, err)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "lesson graph aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.lockModules(dbc, in.ModuleID); err != nil {
			return err
		}
		slots, err := a.deps.Lessons.ListSequences(dbc, in.ModuleID)
		if err != nil {
			return err
		}
		inModule := make(map[uuid.UUID]int, len(slots))
		for _, s := range slots {
			inModule[s.LessonID] = s.Sequence
		}
		changed := make(map[uuid.UUID]int, len(in.Sequences))
		for id, seq := range in.Sequences {
			current, ok := inModule[id]
			if !ok {
				return NotFoundError(fmt.Sprintf("lesson %s not found in module %s", id, in.ModuleID))
			}
			if current != seq {
				changed[id] = seq
			}
		}
		if err := lessongraph.ValidateReorderedModule(slots, in.Sequences); err != nil {
			return err
		}
		if err := a.deps.Lessons.UpdateSequences(dbc, in.ModuleID, changed); err != nil {
			return err
		}
		lessons, err := a.deps.Lessons.ListByModule(dbc, in.ModuleID)
		if err != nil {
			return err
		}
		out.Lessons = lessons
		return nil
	})
	return out, err
}

// lockAround resolves every prerequisite, then locks the given modules together with
// the prerequisites' modules. Prerequisites are re-read under the locks and returned
// along with the locked module ids.
func (a *lessonGraphAggregate) lockAround(dbc dbctx.Context, moduleIDs []uuid.UUID, prereqIDs []uuid.UUID) ([]*types.Lesson, []uuid.UUID, error) {
	prereqs, err := a.loadLessons(dbc, prereqIDs)
	if err != nil {
		return nil, nil, err
	}
	ids := append([]uuid.UUID{}, moduleIDs...)
	for _, p := range prereqs {
		ids = append(ids, p.ModuleID)
	}
	if err := a.lockModules(dbc, ids...); err != nil {
		return nil, nil, err
	}
	prereqs, err = a.loadLessons(dbc, prereqIDs)
	if err != nil {
		return nil, nil, err
	}
	return prereqs, ids, nil
}

// lockReachable locks the module of every lesson reachable from starts and returns the
// graph read after the last lock was taken. A new edge can only extend that graph from
// a lesson inside it, and every structural write locks its dependent lesson's module,
// so once the module set stops growing no other transaction can change what the cycle
// check sees. Two writers that would close a cycle between them always share a module.
//
// Modules discovered late are locked after the ones already held, out of global order.
// Postgres breaks the resulting deadlocks with 40P01, which surfaces as retryable.
func (a *lessonGraphAggregate) lockReachable(dbc dbctx.Context, held []uuid.UUID, starts ...uuid.UUID) (*lessongraph.Graph, error) {
	held = append([]uuid.UUID{}, held...)
	for {
		g, err := a.reachableGraph(dbc, starts...)
		if err != nil {
			return nil, err
		}
		nodes := g.Nodes()
		if len(nodes) == 0 {
			return g, nil
		}
		lessons, err := a.deps.Lessons.GetByIDs(dbc, nodes)
		if err != nil {
			return nil, err
		}
		var missing []uuid.UUID
		for _, l := range lessons {
			if !slices.Contains(held, l.ModuleID) && !slices.Contains(missing, l.ModuleID) {
				missing = append(missing, l.ModuleID)
			}
		}
		if len(missing) == 0 {
			return g, nil
		}
		if err := a.lockModules(dbc, missing...); err != nil {
			return nil, err
		}
		held = append(held, missing...)
	}
}

func (a *lessonGraphAggregate) lockModules(dbc dbctx.Context, ids ...uuid.UUID) error {
	err := lockModules(dbc, a.deps.Modules, ids...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError("module not found")
	}
	return err
}

func (a *lessonGraphAggregate) loadLesson(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	lesson, err := a.deps.Lessons.GetByID(dbc, id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && lesson == nil) {
		return nil, NotFoundError(fmt.Sprintf("lesson not found: %s", id))
	}
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

func (a *lessonGraphAggregate) loadLessons(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := a.deps.Lessons.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		found[r.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, NotFoundError(fmt.Sprintf("prerequisite lesson not found: %s", id))
		}
	}
	return rows, nil
}

// reachableGraph loads every edge reachable from starts. That is all a cycle check for
// new edges pointing at starts needs to see.
func (a *lessonGraphAggregate) reachableGraph(dbc dbctx.Context, starts ...uuid.UUID) (*lessongraph.Graph, error) {
	var edges []lessongraph.Edge
	for _, s := range starts {
		reached, err := a.deps.Edges.ReachableFrom(dbc, s)
		if err != nil {
			return nil, err
		}
		edges = append(edges, reached...)
	}
	g := lessongraph.FromEdges(edges)
	for _, s := range starts {
		g.AddNode(s)
	}
	return g, nil
}

func normalizeIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, fmt.Errorf("nil prerequisite id")
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func metadataJSON(m map[string]any) (datatypes.JSON, error) {
	if len(m) == 0 {
		return datatypes.JSON([]byte("{}")), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	return datatypes.JSON(b), nil
}

func defaultString(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func setString(updates map[string]interface{}, column string, v *string) {
	if v != nil {
		updates[column] = strings.TrimSpace(*v)
	}
}
