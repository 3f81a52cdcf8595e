package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lingualeap-backend/internal/data/graph"
	"github.com/yungbote/lingualeap-backend/internal/data/repos"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
	"github.com/yungbote/lingualeap-backend/internal/realtime/bus"
)

const projectionTimeout = 10 * time.Second

// LessonGraphProjection consumes lesson graph events and re-projects the affected module
// into the graph store. Projection is idempotent, so duplicate delivery is harmless.
type LessonGraphProjection struct {
	log       *logger.Logger
	lessons   repos.LessonRepo
	projector graph.LessonProjector
	metrics   GraphEventMetrics
}

func NewLessonGraphProjection(baseLog *logger.Logger, lessons repos.LessonRepo, projector graph.LessonProjector, metrics GraphEventMetrics) *LessonGraphProjection {
	return &LessonGraphProjection{
		log:       baseLog.With("service", "LessonGraphProjection"),
		lessons:   lessons,
		projector: projector,
		metrics:   metrics,
	}
}

// Start subscribes to events until ctx is cancelled.
func (p *LessonGraphProjection) Start(ctx context.Context, events bus.Bus) error {
	if events == nil || p.projector == nil {
		return nil
	}
	return events.StartForwarder(ctx, func(ev bus.LessonGraphEvent) {
		hctx, cancel := context.WithTimeout(ctx, projectionTimeout)
		defer cancel()
		if err := p.Handle(hctx, ev); err != nil {
			p.log.Warn("lesson graph projection failed", "error", err, "type", ev.Type, "module_id", ev.ModuleID)
		}
	})
}

func (p *LessonGraphProjection) Handle(ctx context.Context, ev bus.LessonGraphEvent) (err error) {
	defer func() {
		if p.metrics == nil {
			return
		}
		status := "ok"
		if err != nil {
			status = "error"
		}
		p.metrics.IncGraphEvent(string(ev.Type), "neo4j", status)
	}()

	if ev.Type == bus.EventLessonDeleted && ev.LessonID != uuid.Nil {
		if err := p.projector.DeleteLesson(ctx, ev.LessonID); err != nil {
			return fmt.Errorf("delete lesson node: %w", err)
		}
	}
	if ev.ModuleID == uuid.Nil {
		return nil
	}
	lessons, err := p.lessons.ListByModule(dbctx.Context{Ctx: ctx}, ev.ModuleID)
	if err != nil {
		return fmt.Errorf("load module lessons: %w", err)
	}
	if err := p.projector.ProjectModule(ctx, ev.ModuleID, lessons); err != nil {
		return fmt.Errorf("project module: %w", err)
	}
	return nil
}
