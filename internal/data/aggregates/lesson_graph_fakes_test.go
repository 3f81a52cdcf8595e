package aggregates_test

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lingualeap-backend/internal/domain"
	"github.com/yungbote/lingualeap-backend/internal/learning/lessongraph"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
)

type edgeKey struct {
	lesson, prereq uuid.UUID
}

// memStore backs every lesson graph repo in memory. Snapshot/restore is wired to the
// injected tx runner so a failed write leaves no trace, like a rolled back transaction.
type memStore struct {
	modules  map[uuid.UUID]types.CourseModule
	lessons  map[uuid.UUID]types.Lesson
	edges    map[edgeKey]bool
	progress map[uuid.UUID]types.LessonProgress

	locked    []uuid.UUID
	beforeCAS func()
	snap      *memStore
}

func newMemStore() *memStore {
	return &memStore{
		modules:  map[uuid.UUID]types.CourseModule{},
		lessons:  map[uuid.UUID]types.Lesson{},
		edges:    map[edgeKey]bool{},
		progress: map[uuid.UUID]types.LessonProgress{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.modules {
		c.modules[k] = v
	}
	for k, v := range s.lessons {
		c.lessons[k] = v
	}
	for k, v := range s.edges {
		c.edges[k] = v
	}
	for k, v := range s.progress {
		c.progress[k] = v
	}
	return c
}

func (s *memStore) begin() {
	s.snap = s.clone()
	s.locked = nil
}

func (s *memStore) rollback() {
	if s.snap == nil {
		return
	}
	s.modules, s.lessons, s.edges, s.progress = s.snap.modules, s.snap.lessons, s.snap.edges, s.snap.progress
	s.snap = nil
}

func (s *memStore) addModule() uuid.UUID {
	id := uuid.New()
	s.modules[id] = types.CourseModule{ID: id, CourseID: uuid.New(), Title: "module"}
	return id
}

func (s *memStore) addLesson(moduleID uuid.UUID, seq int, prereqs ...uuid.UUID) uuid.UUID {
	id := uuid.New()
	s.lessons[id] = types.Lesson{ID: id, ModuleID: moduleID, Sequence: seq, Title: fmt.Sprintf("lesson %d", seq), Status: types.LessonStatusDraft}
	for _, p := range prereqs {
		s.edges[edgeKey{id, p}] = true
	}
	return id
}

func (s *memStore) prereqsOf(id uuid.UUID) []uuid.UUID {
	out := []uuid.UUID{}
	for k := range s.edges {
		if k.lesson == id {
			out = append(out, k.prereq)
		}
	}
	slices.SortFunc(out, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return out
}

func (s *memStore) hydrated(id uuid.UUID) *types.Lesson {
	l := s.lessons[id]
	l.PrerequisiteIDs = s.prereqsOf(id)
	return &l
}

func (s *memStore) edgeCount() int { return len(s.edges) }

func (s *memStore) sequences(moduleID uuid.UUID) map[uuid.UUID]int {
	out := map[uuid.UUID]int{}
	for id, l := range s.lessons {
		if l.ModuleID == moduleID {
			out[id] = l.Sequence
		}
	}
	return out
}

func (s *memStore) sequenceTaken(moduleID uuid.UUID, seq int, exclude uuid.UUID) bool {
	for id, l := range s.lessons {
		if id != exclude && l.ModuleID == moduleID && l.Sequence == seq {
			return true
		}
	}
	return false
}

type memModules struct{ s *memStore }

func (m memModules) Create(_ dbctx.Context, rows []*types.CourseModule) ([]*types.CourseModule, error) {
	for _, r := range rows {
		m.s.modules[r.ID] = *r
	}
	return rows, nil
}

func (m memModules) GetByID(_ dbctx.Context, id uuid.UUID) (*types.CourseModule, error) {
	mod, ok := m.s.modules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &mod, nil
}

func (m memModules) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error) {
	mod, err := m.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	m.s.locked = append(m.s.locked, id)
	return mod, nil
}

type memLessons struct{ s *memStore }

func (m memLessons) Create(_ dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error) {
	for _, r := range rows {
		if m.s.sequenceTaken(r.ModuleID, r.Sequence, r.ID) {
			return nil, errors.New("duplicate key value violates unique constraint idx_lesson_module_sequence")
		}
		row := *r
		row.PrerequisiteIDs = nil
		m.s.lessons[r.ID] = row
	}
	return rows, nil
}

func (m memLessons) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if _, ok := m.s.lessons[id]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.s.hydrated(id), nil
}

func (m memLessons) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	for _, id := range ids {
		if _, ok := m.s.lessons[id]; ok {
			out = append(out, m.s.hydrated(id))
		}
	}
	return out, nil
}

func (m memLessons) ListByModule(_ dbctx.Context, moduleID uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	for id, l := range m.s.lessons {
		if l.ModuleID == moduleID {
			out = append(out, m.s.hydrated(id))
		}
	}
	slices.SortFunc(out, func(a, b *types.Lesson) int { return a.Sequence - b.Sequence })
	return out, nil
}

func (m memLessons) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	l, ok := m.s.lessons[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			l.Title = v.(string)
		case "description":
			l.Description = v.(string)
		case "kind":
			l.Kind = v.(string)
		case "level":
			l.Level = v.(string)
		case "status":
			l.Status = v.(string)
		case "theory_content":
			l.TheoryContent = v.(string)
		case "min_required_score":
			l.MinRequiredScore = v.(int)
		case "recommended_duration_minutes":
			l.RecommendedDurationMinutes = v.(int)
		case "sequence":
			seq := v.(int)
			if m.s.sequenceTaken(l.ModuleID, seq, id) {
				return errors.New("duplicate key value violates unique constraint idx_lesson_module_sequence")
			}
			l.Sequence = seq
		case "updated_at":
			l.UpdatedAt = v.(time.Time)
		}
	}
	m.s.lessons[id] = l
	return nil
}

func (m memLessons) UpdateSequences(_ dbctx.Context, moduleID uuid.UUID, sequences map[uuid.UUID]int) error {
	for id := range sequences {
		if l, ok := m.s.lessons[id]; !ok || l.ModuleID != moduleID {
			return gorm.ErrRecordNotFound
		}
	}
	for id, seq := range sequences {
		l := m.s.lessons[id]
		l.Sequence = seq
		m.s.lessons[id] = l
	}
	seen := map[int]bool{}
	for _, seq := range m.s.sequences(moduleID) {
		if seen[seq] {
			return errors.New("duplicate key value violates unique constraint idx_lesson_module_sequence")
		}
		seen[seq] = true
	}
	return nil
}

func (m memLessons) Delete(_ dbctx.Context, id uuid.UUID) (int64, error) {
	if _, ok := m.s.lessons[id]; !ok {
		return 0, nil
	}
	for k := range m.s.edges {
		if k.prereq == id {
			return 0, errors.New("FOREIGN KEY constraint failed")
		}
	}
	delete(m.s.lessons, id)
	return 1, nil
}

func (m memLessons) FindReferencing(_ dbctx.Context, prerequisiteID uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	for k := range m.s.edges {
		if k.prereq == prerequisiteID {
			out = append(out, m.s.hydrated(k.lesson))
		}
	}
	return out, nil
}

func (m memLessons) ExistsInModuleWithSequence(_ dbctx.Context, moduleID uuid.UUID, sequence int, excludeID uuid.UUID) (bool, error) {
	return m.s.sequenceTaken(moduleID, sequence, excludeID), nil
}

func (m memLessons) ListSequences(_ dbctx.Context, moduleID uuid.UUID) ([]lessongraph.SequenceSlot, error) {
	var out []lessongraph.SequenceSlot
	for id, seq := range m.s.sequences(moduleID) {
		out = append(out, lessongraph.SequenceSlot{LessonID: id, Sequence: seq})
	}
	slices.SortFunc(out, func(a, b lessongraph.SequenceSlot) int { return a.Sequence - b.Sequence })
	return out, nil
}

type memEdges struct{ s *memStore }

func (m memEdges) Add(_ dbctx.Context, edges []*types.LessonPrerequisite) (int64, error) {
	var n int64
	for _, e := range edges {
		k := edgeKey{e.LessonID, e.PrerequisiteID}
		if m.s.edges[k] {
			continue
		}
		m.s.edges[k] = true
		n++
	}
	return n, nil
}

func (m memEdges) Remove(_ dbctx.Context, lessonID, prerequisiteID uuid.UUID) (int64, error) {
	k := edgeKey{lessonID, prerequisiteID}
	if !m.s.edges[k] {
		return 0, nil
	}
	delete(m.s.edges, k)
	return 1, nil
}

func (m memEdges) ReplaceForLesson(dbc dbctx.Context, lessonID uuid.UUID, prerequisiteIDs []uuid.UUID) error {
	if _, err := m.DeleteForLesson(dbc, lessonID); err != nil {
		return err
	}
	for _, p := range prerequisiteIDs {
		m.s.edges[edgeKey{lessonID, p}] = true
	}
	return nil
}

func (m memEdges) ReachableFrom(_ dbctx.Context, startID uuid.UUID) ([]lessongraph.Edge, error) {
	var out []lessongraph.Edge
	seen := map[uuid.UUID]bool{startID: true}
	queue := []uuid.UUID{startID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range m.s.prereqsOf(cur) {
			out = append(out, lessongraph.Edge{LessonID: cur, PrerequisiteID: p})
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return out, nil
}

func (m memEdges) DeleteForLesson(_ dbctx.Context, lessonID uuid.UUID) (int64, error) {
	var n int64
	for k := range m.s.edges {
		if k.lesson == lessonID {
			delete(m.s.edges, k)
			n++
		}
	}
	return n, nil
}

type memProgress struct{ s *memStore }

func (m memProgress) GetCompletedLessonIDs(_ dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, p := range m.s.progress {
		if p.UserID == userID && p.Status == types.ProgressStatusCompleted {
			out = append(out, p.LessonID)
		}
	}
	return out, nil
}

func (m memProgress) GetByUserAndLesson(_ dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	for _, p := range m.s.progress {
		if p.UserID == userID && p.LessonID == lessonID {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (m memProgress) Upsert(_ dbctx.Context, row *types.LessonProgress) error {
	for id, p := range m.s.progress {
		if p.UserID == row.UserID && p.LessonID == row.LessonID {
			row.ID = id
		}
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	m.s.progress[row.ID] = *row
	return nil
}

func (m memProgress) DeleteByLessonIDs(_ dbctx.Context, lessonIDs []uuid.UUID) (int64, error) {
	var n int64
	for id, p := range m.s.progress {
		if slices.Contains(lessonIDs, p.LessonID) {
			delete(m.s.progress, id)
			n++
		}
	}
	return n, nil
}

type memStatusGuard struct{ s *memStore }

func (m memStatusGuard) UpdateByStatus(_ dbctx.Context, table string, id uuid.UUID, allowed []string, updates map[string]any) (bool, error) {
	if table != "lesson" {
		return false, fmt.Errorf("unexpected table %q", table)
	}
	if m.s.beforeCAS != nil {
		m.s.beforeCAS()
	}
	l, ok := m.s.lessons[id]
	if !ok || !slices.Contains(allowed, l.Status) {
		return false, nil
	}
	l.Status = updates["status"].(string)
	m.s.lessons[id] = l
	return true, nil
}
