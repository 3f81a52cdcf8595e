package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
	"github.com/yungbote/lingualeap-backend/internal/realtime/bus"
)

type recordingProjector struct {
	projected map[uuid.UUID][]*types.Lesson
	deleted   []uuid.UUID
	err       error
}

func (p *recordingProjector) ProjectModule(_ context.Context, moduleID uuid.UUID, lessons []*types.Lesson) error {
	if p.err != nil {
		return p.err
	}
	p.projected[moduleID] = lessons
	return nil
}

func (p *recordingProjector) DeleteLesson(_ context.Context, lessonID uuid.UUID) error {
	p.deleted = append(p.deleted, lessonID)
	return nil
}

func TestLessonGraphProjectionProjectsModuleFromBus(t *testing.T) {
	lessons := &fakeLessonRepo{lessons: map[uuid.UUID]*types.Lesson{}}
	mod := uuid.New()
	a := uuid.New()
	lessons.lessons[a] = &types.Lesson{ID: a, ModuleID: mod, Sequence: 1}
	proj := &recordingProjector{projected: map[uuid.UUID][]*types.Lesson{}}
	metrics := &recordingMetrics{notify: make(chan string, 1)}
	p := NewLessonGraphProjection(logger.NewNop(), lessons, proj, metrics)

	events := bus.NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Start(ctx, events); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := events.Publish(ctx, bus.LessonGraphEvent{Type: bus.EventLessonCreated, ModuleID: mod, LessonID: a}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case <-metrics.notify:
	case <-time.After(time.Second):
		t.Fatalf("event was not projected")
	}
	if got := proj.projected[mod]; len(got) != 1 || got[0].ID != a {
		t.Fatalf("projected: got=%v", got)
	}
	if len(metrics.calls) != 1 || metrics.calls[0] != "lesson.created|neo4j|ok" {
		t.Fatalf("metrics: got=%v", metrics.calls)
	}
}

func TestLessonGraphProjectionDeletesNode(t *testing.T) {
	lessons := &fakeLessonRepo{lessons: map[uuid.UUID]*types.Lesson{}}
	proj := &recordingProjector{projected: map[uuid.UUID][]*types.Lesson{}}
	p := NewLessonGraphProjection(logger.NewNop(), lessons, proj, nil)

	gone := uuid.New()
	mod := uuid.New()
	if err := p.Handle(context.Background(), bus.LessonGraphEvent{Type: bus.EventLessonDeleted, ModuleID: mod, LessonID: gone}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(proj.deleted) != 1 || proj.deleted[0] != gone {
		t.Fatalf("deleted: got=%v", proj.deleted)
	}
	if _, ok := proj.projected[mod]; !ok {
		t.Fatalf("module should be re-projected after delete")
	}
}

func TestLessonGraphProjectionReportsFailure(t *testing.T) {
	lessons := &fakeLessonRepo{lessons: map[uuid.UUID]*types.Lesson{}}
	proj := &recordingProjector{projected: map[uuid.UUID][]*types.Lesson{}, err: errors.New("neo4j unavailable")}
	metrics := &recordingMetrics{}
	p := NewLessonGraphProjection(logger.NewNop(), lessons, proj, metrics)

	if err := p.Handle(context.Background(), bus.LessonGraphEvent{Type: bus.EventLessonsReordered, ModuleID: uuid.New()}); err == nil {
		t.Fatalf("expected projection error")
	}
	if len(metrics.calls) != 1 || metrics.calls[0] != "module.lessons_reordered|neo4j|error" {
		t.Fatalf("metrics: got=%v", metrics.calls)
	}
}
