package lessongraph

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
)

// Graph is the prerequisite relation: lesson id -> ids the lesson depends on.
// The zero value is not usable; use NewGraph.
type Graph struct {
	edges map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewGraph() *Graph {
	return &Graph{edges: map[uuid.UUID]map[uuid.UUID]struct{}{}}
}

// Edge is a single dependency: LessonID requires PrerequisiteID.
type Edge struct {
	LessonID       uuid.UUID
	PrerequisiteID uuid.UUID
}

// FromEdges builds a graph from a flat edge list.
func FromEdges(edges []Edge) *Graph {
	g := NewGraph()
	for _, e := range edges {
		g.AddEdge(e.LessonID, e.PrerequisiteID)
	}
	return g
}

// AddNode registers a lesson with no edges. Adding an existing node is a no-op.
func (g *Graph) AddNode(id uuid.UUID) {
	if _, ok := g.edges[id]; !ok {
		g.edges[id] = map[uuid.UUID]struct{}{}
	}
}

// AddEdge records that lesson depends on prerequisite. It does not validate.
func (g *Graph) AddEdge(lesson, prerequisite uuid.UUID) {
	g.AddNode(lesson)
	g.AddNode(prerequisite)
	g.edges[lesson][prerequisite] = struct{}{}
}

// RemoveEdge drops the edge if present.
func (g *Graph) RemoveEdge(lesson, prerequisite uuid.UUID) {
	if set, ok := g.edges[lesson]; ok {
		delete(set, prerequisite)
	}
}

// SetPrerequisites replaces the outgoing edges of lesson.
func (g *Graph) SetPrerequisites(lesson uuid.UUID, prerequisites []uuid.UUID) {
	set := make(map[uuid.UUID]struct{}, len(prerequisites))
	for _, p := range prerequisites {
		g.AddNode(p)
		set[p] = struct{}{}
	}
	g.edges[lesson] = set
}

func (g *Graph) HasEdge(lesson, prerequisite uuid.UUID) bool {
	_, ok := g.edges[lesson][prerequisite]
	return ok
}

// Prerequisites returns the direct prerequisites of id in ascending id order.
func (g *Graph) Prerequisites(id uuid.UUID) []uuid.UUID {
	set := g.edges[id]
	out := make([]uuid.UUID, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sortIDs(out)
	return out
}

// Dependents returns the lessons that list id as a direct prerequisite, ascending.
func (g *Graph) Dependents(id uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	for lesson, set := range g.edges {
		if _, ok := set[id]; ok {
			out = append(out, lesson)
		}
	}
	sortIDs(out)
	return out
}

// Nodes returns every lesson id known to the graph, ascending.
func (g *Graph) Nodes() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(g.edges))
	for id := range g.edges {
		out = append(out, id)
	}
	sortIDs(out)
	return out
}

// Edges returns every edge, ordered by lesson then prerequisite.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, lesson := range g.Nodes() {
		for _, p := range g.Prerequisites(lesson) {
			out = append(out, Edge{LessonID: lesson, PrerequisiteID: p})
		}
	}
	return out
}

func (g *Graph) Clone() *Graph {
	c := &Graph{edges: make(map[uuid.UUID]map[uuid.UUID]struct{}, len(g.edges))}
	for id, set := range g.edges {
		cp := make(map[uuid.UUID]struct{}, len(set))
		for p := range set {
			cp[p] = struct{}{}
		}
		c.edges[id] = cp
	}
	return c
}

// pathTo walks prerequisite edges from start and returns the first path found to
// target (inclusive of both ends), or nil when target is unreachable.
//
// Iterative DFS with a visited set: each node is expanded at most once, so shared
// sub-prerequisites (diamonds) are walked once and never reported as cycles.
func (g *Graph) pathTo(start, target uuid.UUID) []uuid.UUID {
	if start == target {
		return []uuid.UUID{start}
	}
	parent := map[uuid.UUID]uuid.UUID{}
	visited := map[uuid.UUID]struct{}{start: {}}
	stack := []uuid.UUID{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		next := g.Prerequisites(cur)
		// push in reverse so the smallest id is expanded first
		for i := len(next) - 1; i >= 0; i-- {
			n := next[i]
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = struct{}{}
			parent[n] = cur
			if n == target {
				return unwind(parent, start, target)
			}
			stack = append(stack, n)
		}
	}
	return nil
}

func unwind(parent map[uuid.UUID]uuid.UUID, start, target uuid.UUID) []uuid.UUID {
	path := []uuid.UUID{target}
	for cur := target; cur != start; {
		cur = parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

func sortIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
}
