package lessongraph

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGraphEdgesAndDependents(t *testing.T) {
	l := ids(3)
	g := NewGraph()
	g.AddEdge(l[1], l[0])
	g.AddEdge(l[2], l[0])

	deps := g.Dependents(l[0])
	want := []uuid.UUID{l[1], l[2]}
	sortIDs(want)
	if !slices.Equal(deps, want) {
		t.Fatalf("dependents: want=%v got=%v", want, deps)
	}
	if !g.HasEdge(l[1], l[0]) || g.HasEdge(l[0], l[1]) {
		t.Fatalf("edge direction wrong")
	}
	if len(g.Nodes()) != 3 {
		t.Fatalf("nodes: want=3 got=%d", len(g.Nodes()))
	}

	g.RemoveEdge(l[1], l[0])
	g.RemoveEdge(l[1], l[0])
	if g.HasEdge(l[1], l[0]) {
		t.Fatalf("edge not removed")
	}
}

func TestGraphCloneIsIndependent(t *testing.T) {
	l := ids(2)
	g := NewGraph()
	g.AddEdge(l[1], l[0])
	c := g.Clone()
	c.RemoveEdge(l[1], l[0])
	if !g.HasEdge(l[1], l[0]) {
		t.Fatalf("clone shares edge sets with original")
	}
}

func TestGraphSetPrerequisitesReplaces(t *testing.T) {
	l := ids(3)
	g := NewGraph()
	g.AddEdge(l[2], l[0])
	g.SetPrerequisites(l[2], []uuid.UUID{l[1]})
	if g.HasEdge(l[2], l[0]) || !g.HasEdge(l[2], l[1]) {
		t.Fatalf("prerequisites not replaced: %v", g.Prerequisites(l[2]))
	}
}

func TestViolationMessages(t *testing.T) {
	l := ids(2)
	cases := []*Violation{
		{Kind: KindSelfReference, LessonID: l[0], OtherID: l[0]},
		{Kind: KindCircularDependency, LessonID: l[0], OtherID: l[1], Path: []uuid.UUID{l[0], l[1], l[0]}},
		{Kind: KindDuplicateSequence, LessonID: l[0], OtherID: l[1], Sequence: 2},
		{Kind: KindDuplicateSequence, LessonID: l[0], Sequence: 2},
	}
	for _, v := range cases {
		if v.Error() == "" {
			t.Fatalf("%s: empty message", v.Kind)
		}
	}
	msg := cases[1].Error()
	if !containsAll(msg, l[0].String(), l[1].String()) {
		t.Fatalf("circular message must name both lessons: %s", msg)
	}
	if KindOf(nil) != "" {
		t.Fatalf("KindOf(nil) should be empty")
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
