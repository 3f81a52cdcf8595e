package graph

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
	"github.com/yungbote/lingualeap-backend/internal/platform/neo4jdb"
)

// LessonProjector keeps the Neo4j copy of the prerequisite graph in step with Postgres.
type LessonProjector interface {
	ProjectModule(ctx context.Context, moduleID uuid.UUID, lessons []*types.Lesson) error
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error
}

type neo4jLessonProjector struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

// NewLessonProjector returns a projector writing through client. A nil client yields a
// projector that does nothing.
func NewLessonProjector(client *neo4jdb.Client, baseLog *logger.Logger) LessonProjector {
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	return &neo4jLessonProjector{client: client, log: baseLog.With("projector", "Neo4jLessonProjector")}
}

func (p *neo4jLessonProjector) ProjectModule(ctx context.Context, moduleID uuid.UUID, lessons []*types.Lesson) error {
	return UpsertModuleLessonGraph(ctx, p.client, p.log, moduleID, lessons)
}

func (p *neo4jLessonProjector) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	return DeleteLessonNode(ctx, p.client, lessonID)
}
