package aggregates_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lingualeap-backend/internal/data/aggregates"
	"github.com/yungbote/lingualeap-backend/internal/data/repos"
	repotest "github.com/yungbote/lingualeap-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lingualeap-backend/internal/domain"
	domainagg "github.com/yungbote/lingualeap-backend/internal/domain/aggregates"
)

// Two writers that would jointly close a loop through two modules must never both commit.
func TestLessonGraphIntegration_ConcurrentCrossModuleEdgesNeverFormCycle(t *testing.T) {
	db := repotest.DB(t)
	log := repotest.Logger(t)
	ctx := context.Background()

	agg := aggregates.NewLessonGraphAggregate(aggregates.LessonGraphAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Runner: aggregates.NewGormTxRunnerWithLockTimeout(db, 2*time.Second),
		},
		Modules:  repos.NewCourseModuleRepo(db, log),
		Lessons:  repos.NewLessonRepo(db, log),
		Edges:    repos.NewLessonPrerequisiteRepo(db, log),
		Progress: repos.NewLessonProgressRepo(db, log),
	})

	for round := 0; round < 8; round++ {
		course := repotest.SeedCourse(t, ctx, db)
		modA := repotest.SeedCourseModule(t, ctx, db, course.ID, 1)
		modC := repotest.SeedCourseModule(t, ctx, db, course.ID, 2)
		u := repotest.SeedLesson(t, ctx, db, modA.ID, 1)
		v := repotest.SeedLesson(t, ctx, db, modA.ID, 2)
		x := repotest.SeedLesson(t, ctx, db, modC.ID, 1)
		y := repotest.SeedLesson(t, ctx, db, modC.ID, 2)
		repotest.SeedPrerequisite(t, ctx, db, v.ID, x.ID)
		repotest.SeedPrerequisite(t, ctx, db, y.ID, u.ID)
		lessonIDs := []uuid.UUID{u.ID, v.ID, x.ID, y.ID}
		t.Cleanup(func() {
			db.Where("lesson_id IN ?", lessonIDs).Delete(&types.LessonPrerequisite{})
			db.Delete(&types.Course{}, "id = ?", course.ID)
		})

		edges := []domainagg.PrerequisiteEdgeInput{
			{LessonID: u.ID, PrerequisiteID: v.ID},
			{LessonID: x.ID, PrerequisiteID: y.ID},
		}
		errs := make([]error, len(edges))
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i, in := range edges {
			wg.Add(1)
			go func(i int, in domainagg.PrerequisiteEdgeInput) {
				defer wg.Done()
				<-start
				_, errs[i] = agg.AddPrerequisite(ctx, in)
			}(i, in)
		}
		close(start)
		wg.Wait()

		if errs[0] == nil && errs[1] == nil {
			t.Fatalf("round %d: both edges committed, graph now has a cycle", round)
		}
		for i, err := range errs {
			if err == nil {
				continue
			}
			code := domainagg.CodeOf(err)
			if code != domainagg.CodeCircularDependency && code != domainagg.CodeRetryable {
				t.Fatalf("round %d edge %d: want=circular_dependency|retryable got=%s (err=%v)", round, i, code, err)
			}
		}

		var stored int64
		if err := db.Model(&types.LessonPrerequisite{}).
			Where("(lesson_id = ? AND prerequisite_id = ?) OR (lesson_id = ? AND prerequisite_id = ?)", u.ID, v.ID, x.ID, y.ID).
			Count(&stored).Error; err != nil {
			t.Fatalf("count stored edges: %v", err)
		}
		if stored > 1 {
			t.Fatalf("round %d stored closing edges: want<=1 got=%d", round, stored)
		}
	}
}
