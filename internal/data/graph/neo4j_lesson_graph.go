package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/learning/lessongraph"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
	"github.com/yungbote/lingualeap-backend/internal/platform/neo4jdb"
)

// UpsertModuleLessonGraph mirrors a module's lessons and their prerequisite edges into
// Neo4j. Each lesson's outgoing REQUIRES edges are replaced, so edges removed in Postgres
// disappear from the projection too. Prerequisites in other modules are matched by id
// and must already be projected for their edge to appear.
func UpsertModuleLessonGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, moduleID uuid.UUID, lessons []*types.Lesson) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if moduleID == uuid.Nil {
		return fmt.Errorf("neo4j lesson graph sync: missing moduleID")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	nodes := lessonNodeRecords(moduleID, lessons, now)
	rels := prerequisiteRecords(lessons, now)
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n["id"].(string))
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Create schema helpers (best-effort; may fail for restricted users).
	for _, stmt := range []string{
		`CREATE CONSTRAINT lesson_id_unique IF NOT EXISTS FOR (l:Lesson) REQUIRE l.id IS UNIQUE`,
		`CREATE INDEX lesson_module_idx IF NOT EXISTS FOR (l:Lesson) ON (l.module_id)`,
	} {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
		} else {
			_, _ = res.Consume(ctx)
		}
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// lessons that left the module
		res, err := tx.Run(ctx, `
MATCH (l:Lesson {module_id: $module_id})
WHERE NOT l.id IN $ids
DETACH DELETE l
`, map[string]any{"module_id": moduleID.String(), "ids": ids})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(nodes) == 0 {
			return nil, nil
		}
		res, err = tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (l:Lesson {id: n.id})
SET l += n
`, map[string]any{"nodes": nodes})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		res, err = tx.Run(ctx, `
MATCH (l:Lesson)-[e:REQUIRES]->()
WHERE l.id IN $ids
DELETE e
`, map[string]any{"ids": ids})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(rels) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (a:Lesson {id: r.lesson_id})
MATCH (b:Lesson {id: r.prerequisite_id})
MERGE (a)-[e:REQUIRES]->(b)
SET e.synced_at = r.synced_at
`, map[string]any{"rels": rels})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// DeleteLessonNode removes a hard-deleted lesson and every edge touching it.
func DeleteLessonNode(ctx context.Context, client *neo4jdb.Client, lessonID uuid.UUID) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if lessonID == uuid.Nil {
		return fmt.Errorf("neo4j lesson graph delete: missing lessonID")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (l:Lesson {id: $id}) DETACH DELETE l`, map[string]any{"id": lessonID.String()})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

func lessonNodeRecords(moduleID uuid.UUID, lessons []*types.Lesson, now string) []map[string]any {
	out := make([]map[string]any, 0, len(lessons))
	for _, l := range lessons {
		if l == nil || l.ID == uuid.Nil {
			continue
		}
		out = append(out, map[string]any{
			"id":        l.ID.String(),
			"module_id": moduleID.String(),
			"sequence":  int64(l.Sequence),
			"title":     l.Title,
			"kind":      l.Kind,
			"level":     l.Level,
			"status":    l.Status,
			"synced_at": now,
		})
	}
	return out
}

func prerequisiteRecords(lessons []*types.Lesson, now string) []map[string]any {
	g := lessongraph.NewGraph()
	for _, l := range lessons {
		if l == nil || l.ID == uuid.Nil {
			continue
		}
		for _, p := range l.PrerequisiteIDs {
			if p == uuid.Nil || p == l.ID {
				continue
			}
			g.AddEdge(l.ID, p)
		}
	}
	edges := g.Edges()
	out := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		out = append(out, map[string]any{
			"lesson_id":       e.LessonID.String(),
			"prerequisite_id": e.PrerequisiteID.String(),
			"synced_at":       now,
		})
	}
	return out
}
