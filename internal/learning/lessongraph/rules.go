package lessongraph

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// ValidateNewEdge checks whether dependent may take candidate as a prerequisite.
//
// g must contain every edge reachable from candidate; edges elsewhere are ignored.
// Returns nil, or a *Violation of KindSelfReference or KindCircularDependency.
func ValidateNewEdge(dependent, candidate uuid.UUID, g *Graph) error {
	if dependent == candidate {
		return &Violation{Kind: KindSelfReference, LessonID: dependent, OtherID: candidate}
	}
	if g == nil {
		return nil
	}
	path := g.pathTo(candidate, dependent)
	if path == nil {
		return nil
	}
	return &Violation{
		Kind:     KindCircularDependency,
		LessonID: dependent,
		OtherID:  candidate,
		Path:     append([]uuid.UUID{dependent}, path...),
	}
}

// ValidateRemoval reports whether lesson currently lists prerequisite. Dropping an edge
// cannot close a cycle, so a missing edge is the only outcome callers act on.
func ValidateRemoval(lesson, prerequisite uuid.UUID, g *Graph) bool {
	if g == nil {
		return false
	}
	return g.HasEdge(lesson, prerequisite)
}

// ValidateEdgeSet validates prerequisites for lesson one edge at a time, adding each
// accepted edge to a copy of g so later edges see earlier ones. g must already exclude
// any edges of lesson that are being replaced. It returns the first violation found.
func ValidateEdgeSet(lesson uuid.UUID, prerequisites []uuid.UUID, g *Graph) error {
	work := NewGraph()
	if g != nil {
		work = g.Clone()
	}
	work.AddNode(lesson)
	for _, p := range prerequisites {
		if err := ValidateNewEdge(lesson, p, work); err != nil {
			return err
		}
		work.AddEdge(lesson, p)
	}
	return nil
}

// Node is what availability and dependents checks need to know about a lesson.
type Node interface {
	LessonNodeID() uuid.UUID
	LessonSequence() int
	LessonPrerequisites() []uuid.UUID
}

// IDSet is a set of lesson ids.
type IDSet map[uuid.UUID]struct{}

func NewIDSet(ids ...uuid.UUID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// IsAvailable reports whether every prerequisite of n is in completed.
func IsAvailable[L Node](n L, completed IDSet) bool {
	for _, p := range n.LessonPrerequisites() {
		if !completed.Has(p) {
			return false
		}
	}
	return true
}

// AvailableLessons returns the lessons whose prerequisites are all completed, ordered by
// sequence ascending. Each lesson is judged on its own: completion is the only input,
// availability of a prerequisite does not count.
func AvailableLessons[L Node](lessons []L, completed IDSet) []L {
	out := make([]L, 0, len(lessons))
	for _, l := range lessons {
		if IsAvailable(l, completed) {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b L) int { return cmp.Compare(a.LessonSequence(), b.LessonSequence()) })
	return out
}

// HasDependents reports whether any lesson in lessons lists id as a prerequisite.
func HasDependents[L Node](id uuid.UUID, lessons []L) bool {
	for _, l := range lessons {
		if l.LessonNodeID() == id {
			continue
		}
		if slices.Contains(l.LessonPrerequisites(), id) {
			return true
		}
	}
	return false
}

// SequenceSlot is the sequence currently held by a lesson in a module.
type SequenceSlot struct {
	LessonID uuid.UUID
	Sequence int
}

// ValidateSequenceAssignment checks that lessonID may take proposed within a module whose
// current sequences are existing. The lesson's own slot is ignored, so pass uuid.Nil
// for a lesson that does not exist yet.
func ValidateSequenceAssignment(lessonID uuid.UUID, proposed int, existing []SequenceSlot) error {
	for _, s := range existing {
		if s.LessonID == lessonID {
			continue
		}
		if s.Sequence == proposed {
			return &Violation{Kind: KindDuplicateSequence, LessonID: lessonID, OtherID: s.LessonID, Sequence: proposed}
		}
	}
	return nil
}

// ValidateReorderBatch checks that the proposed sequences are pairwise distinct.
func ValidateReorderBatch(proposed map[uuid.UUID]int) error {
	ids := make([]uuid.UUID, 0, len(proposed))
	for id := range proposed {
		ids = append(ids, id)
	}
	sortIDs(ids)
	seen := make(map[int]uuid.UUID, len(ids))
	for _, id := range ids {
		seq := proposed[id]
		if first, ok := seen[seq]; ok {
			return &Violation{Kind: KindDuplicateSequence, LessonID: id, OtherID: first, Sequence: seq}
		}
		seen[seq] = id
	}
	return nil
}

// ValidateReorderedModule applies proposed over current and checks the resulting module
// ordering has no repeated sequence, including lessons the batch does not touch.
func ValidateReorderedModule(current []SequenceSlot, proposed map[uuid.UUID]int) error {
	if err := ValidateReorderBatch(proposed); err != nil {
		return err
	}
	final := make([]SequenceSlot, 0, len(current))
	for _, s := range current {
		if seq, ok := proposed[s.LessonID]; ok {
			s.Sequence = seq
		}
		final = append(final, s)
	}
	// batch members first so the violation names the lesson being moved
	slices.SortStableFunc(final, func(a, b SequenceSlot) int {
		_, am := proposed[a.LessonID]
		_, bm := proposed[b.LessonID]
		switch {
		case am && !bm:
			return -1
		case bm && !am:
			return 1
		}
		return 0
	})
	for i, s := range final {
		if err := ValidateSequenceAssignment(s.LessonID, s.Sequence, final[i+1:]); err != nil {
			return err
		}
	}
	return nil
}

// NextSequence returns the sequence to give a lesson appended to the module.
func NextSequence(existing []SequenceSlot) int {
	next := 1
	for _, s := range existing {
		if s.Sequence >= next {
			next = s.Sequence + 1
		}
	}
	return next
}
