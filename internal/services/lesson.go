package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/lingualeap-backend/internal/data/repos"
	types "github.com/yungbote/lingualeap-backend/internal/domain"
	domainagg "github.com/yungbote/lingualeap-backend/internal/domain/aggregates"
	"github.com/yungbote/lingualeap-backend/internal/learning/lessongraph"
	"github.com/yungbote/lingualeap-backend/internal/platform/ctxutil"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
	"github.com/yungbote/lingualeap-backend/internal/realtime/bus"
)

const (
	opGetLesson         = "Learning.LessonService.GetLesson"
	opListModuleLessons = "Learning.LessonService.ListModuleLessons"
	opAvailableLessons  = "Learning.LessonService.GetAvailableLessonsForUser"
	opLessonCompleted   = "Learning.LessonService.IsLessonCompletedByUser"

	publishTimeout = 3 * time.Second
)

// GraphEventMetrics counts post-commit fan-out attempts. *observability.Metrics satisfies it.
type GraphEventMetrics interface {
	IncGraphEvent(kind, sink, status string)
}

type LessonService interface {
	CreateLesson(ctx context.Context, in domainagg.CreateLessonInput) (*types.Lesson, error)
	UpdateLesson(ctx context.Context, in domainagg.UpdateLessonInput) (*types.Lesson, error)
	UpdateLessonStatus(ctx context.Context, in domainagg.UpdateLessonStatusInput) (domainagg.UpdateLessonStatusResult, error)
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) (domainagg.DeleteLessonResult, error)
	AddPrerequisite(ctx context.Context, lessonID, prerequisiteID uuid.UUID) (*types.Lesson, error)
	RemovePrerequisite(ctx context.Context, lessonID, prerequisiteID uuid.UUID) (*types.Lesson, error)
	ReorderLessons(ctx context.Context, moduleID uuid.UUID, sequences map[uuid.UUID]int) ([]*types.Lesson, error)

	GetLesson(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error)
	ListModuleLessons(ctx context.Context, moduleID uuid.UUID) ([]*types.Lesson, error)
	GetAvailableLessonsForUser(ctx context.Context, userID, moduleID uuid.UUID) ([]*types.Lesson, error)
	IsLessonCompletedByUser(ctx context.Context, lessonID, userID uuid.UUID) (bool, error)
}

type lessonService struct {
	log      *logger.Logger
	graph    domainagg.LessonGraphAggregate
	modules  repos.CourseModuleRepo
	lessons  repos.LessonRepo
	progress repos.LessonProgressRepo
	events   bus.Bus
	metrics  GraphEventMetrics
}

// NewLessonService wires writes through the lesson graph aggregate and reads through the
// table repos. events and metrics may be nil.
func NewLessonService(
	baseLog *logger.Logger,
	graph domainagg.LessonGraphAggregate,
	modules repos.CourseModuleRepo,
	lessons repos.LessonRepo,
	progress repos.LessonProgressRepo,
	events bus.Bus,
	metrics GraphEventMetrics,
) LessonService {
	return &lessonService{
		log:      baseLog.With("service", "LessonService"),
		graph:    graph,
		modules:  modules,
		lessons:  lessons,
		progress: progress,
		events:   events,
		metrics:  metrics,
	}
}

func (s *lessonService) CreateLesson(ctx context.Context, in domainagg.CreateLessonInput) (*types.Lesson, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("lesson graph aggregate not configured")
	}
	res, err := s.graph.CreateLesson(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, bus.LessonGraphEvent{
		Type:     bus.EventLessonCreated,
		ModuleID: res.Lesson.ModuleID,
		LessonID: res.Lesson.ID,
		Status:   res.Lesson.Status,
	})
	return res.Lesson, nil
}

func (s *lessonService) UpdateLesson(ctx context.Context, in domainagg.UpdateLessonInput) (*types.Lesson, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("lesson graph aggregate not configured")
	}
	res, err := s.graph.UpdateLesson(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, bus.LessonGraphEvent{
		Type:     bus.EventLessonUpdated,
		ModuleID: res.Lesson.ModuleID,
		LessonID: res.Lesson.ID,
		Status:   res.Lesson.Status,
	})
	if res.PreviousStatus != "" && res.PreviousStatus != res.Lesson.Status {
		s.publish(ctx, bus.LessonGraphEvent{
			Type:     bus.EventLessonStatusChanged,
			ModuleID: res.Lesson.ModuleID,
			LessonID: res.Lesson.ID,
			Status:   res.Lesson.Status,
		})
	}
	return res.Lesson, nil
}

func (s *lessonService) UpdateLessonStatus(ctx context.Context, in domainagg.UpdateLessonStatusInput) (domainagg.UpdateLessonStatusResult, error) {
	if s.graph == nil {
		return domainagg.UpdateLessonStatusResult{}, fmt.Errorf("lesson graph aggregate not configured")
	}
	res, err := s.graph.UpdateLessonStatus(ctx, in)
	if err != nil {
		return res, err
	}
	if res.PreviousStatus != res.Status {
		if lesson, err := s.lessons.GetByID(dbctx.Context{Ctx: ctx}, res.LessonID); err == nil {
			s.publish(ctx, bus.LessonGraphEvent{
				Type:     bus.EventLessonStatusChanged,
				ModuleID: lesson.ModuleID,
				LessonID: lesson.ID,
				Status:   res.Status,
			})
		} else {
			s.log.Warn("UpdateLessonStatus: reload for event failed", "error", err, "lesson_id", res.LessonID)
		}
	}
	return res, nil
}

func (s *lessonService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) (domainagg.DeleteLessonResult, error) {
	if s.graph == nil {
		return domainagg.DeleteLessonResult{}, fmt.Errorf("lesson graph aggregate not configured")
	}
	res, err := s.graph.DeleteLesson(ctx, domainagg.DeleteLessonInput{LessonID: lessonID})
	if err != nil {
		return res, err
	}
	s.publish(ctx, bus.LessonGraphEvent{
		Type:     bus.EventLessonDeleted,
		ModuleID: res.ModuleID,
		LessonID: res.LessonID,
	})
	return res, nil
}

func (s *lessonService) AddPrerequisite(ctx context.Context, lessonID, prerequisiteID uuid.UUID) (*types.Lesson, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("lesson graph aggregate not configured")
	}
	res, err := s.graph.AddPrerequisite(ctx, domainagg.PrerequisiteEdgeInput{LessonID: lessonID, PrerequisiteID: prerequisiteID})
	if err != nil {
		return nil, err
	}
	return s.afterEdgeChange(ctx, bus.EventPrerequisiteAdded, res)
}

func (s *lessonService) RemovePrerequisite(ctx context.Context, lessonID, prerequisiteID uuid.UUID) (*types.Lesson, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("lesson graph aggregate not configured")
	}
	res, err := s.graph.RemovePrerequisite(ctx, domainagg.PrerequisiteEdgeInput{LessonID: lessonID, PrerequisiteID: prerequisiteID})
	if err != nil {
		return nil, err
	}
	return s.afterEdgeChange(ctx, bus.EventPrerequisiteRemoved, res)
}

func (s *lessonService) afterEdgeChange(ctx context.Context, kind bus.EventType, res domainagg.PrerequisiteEdgeResult) (*types.Lesson, error) {
	lesson, err := s.GetLesson(ctx, res.LessonID)
	if err != nil {
		return nil, err
	}
	if res.Changed {
		s.publish(ctx, bus.LessonGraphEvent{
			Type:           kind,
			ModuleID:       lesson.ModuleID,
			LessonID:       res.LessonID,
			PrerequisiteID: res.PrerequisiteID,
		})
	}
	return lesson, nil
}

func (s *lessonService) ReorderLessons(ctx context.Context, moduleID uuid.UUID, sequences map[uuid.UUID]int) ([]*types.Lesson, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("lesson graph aggregate not configured")
	}
	res, err := s.graph.ReorderLessons(ctx, domainagg.ReorderLessonsInput{ModuleID: moduleID, Sequences: sequences})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, bus.LessonGraphEvent{
		Type:      bus.EventLessonsReordered,
		ModuleID:  moduleID,
		Sequences: sequences,
	})
	return res.Lessons, nil
}

func (s *lessonService) GetLesson(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error) {
	if lessonID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, opGetLesson, "missing lesson_id", nil)
	}
	lesson, err := s.lessons.GetByID(dbctx.Context{Ctx: ctx}, lessonID)
	if err != nil {
		return nil, readError(opGetLesson, fmt.Sprintf("lesson not found: %s", lessonID), err)
	}
	return lesson, nil
}

func (s *lessonService) ListModuleLessons(ctx context.Context, moduleID uuid.UUID) ([]*types.Lesson, error) {
	if moduleID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, opListModuleLessons, "missing module_id", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.modules.GetByID(dbc, moduleID); err != nil {
		return nil, readError(opListModuleLessons, fmt.Sprintf("module not found: %s", moduleID), err)
	}
	lessons, err := s.lessons.ListByModule(dbc, moduleID)
	if err != nil {
		s.log.Warn("ListModuleLessons: load lessons failed", "error", err, "module_id", moduleID)
		return nil, readError(opListModuleLessons, "", err)
	}
	return lessons, nil
}

// GetAvailableLessonsForUser returns the module's lessons, in sequence order, whose
// prerequisites the user has all completed. Lesson status is not consulted.
func (s *lessonService) GetAvailableLessonsForUser(ctx context.Context, userID, moduleID uuid.UUID) ([]*types.Lesson, error) {
	if userID == uuid.Nil || moduleID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, opAvailableLessons, "missing user_id or module_id", nil)
	}
	if _, err := s.modules.GetByID(dbctx.Context{Ctx: ctx}, moduleID); err != nil {
		return nil, readError(opAvailableLessons, fmt.Sprintf("module not found: %s", moduleID), err)
	}

	var (
		lessons   []*types.Lesson
		completed []uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lessons, err = s.lessons.ListByModule(dbctx.Context{Ctx: gctx}, moduleID)
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = s.progress.GetCompletedLessonIDs(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("GetAvailableLessonsForUser: load failed", "error", err, "module_id", moduleID, "user_id", userID)
		return nil, readError(opAvailableLessons, "", err)
	}
	return lessongraph.AvailableLessons(lessons, lessongraph.NewIDSet(completed...)), nil
}

// IsLessonCompletedByUser reports false, without error, when the user has no progress
// record for the lesson.
func (s *lessonService) IsLessonCompletedByUser(ctx context.Context, lessonID, userID uuid.UUID) (bool, error) {
	if lessonID == uuid.Nil || userID == uuid.Nil {
		return false, domainagg.NewError(domainagg.CodeValidation, opLessonCompleted, "missing lesson_id or user_id", nil)
	}
	row, err := s.progress.GetByUserAndLesson(dbctx.Context{Ctx: ctx}, userID, lessonID)
	if err != nil {
		return false, readError(opLessonCompleted, "", err)
	}
	return row.IsCompleted(), nil
}

// publish fans a committed change out to the bus. Failures are logged and counted, never
// returned: the write has already committed.
func (s *lessonService) publish(ctx context.Context, ev bus.LessonGraphEvent) {
	if s.events == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	status := "ok"
	if err := s.events.Publish(pctx, ev); err != nil {
		status = "error"
		fields := append([]interface{}{"error", err, "type", ev.Type, "module_id", ev.ModuleID, "lesson_id", ev.LessonID}, ctxutil.LogFields(ctx)...)
		s.log.Warn("lesson graph event publish failed", fields...)
	}
	if s.metrics != nil {
		s.metrics.IncGraphEvent(string(ev.Type), "bus", status)
	}
}

func readError(op, notFoundMsg string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notFoundMsg == "" {
			notFoundMsg = "not found"
		}
		return domainagg.NewError(domainagg.CodeNotFound, op, notFoundMsg, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}
	return domainagg.Wrap(domainagg.CodeInternal, op, err)
}
