package core

import (
	"fmt"
	"strings"
)

// CycleError reports vertices that could not be ordered because they are on,
// or depend on, a dependency cycle.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// DependencyGraph orders vertices so that every vertex comes after the
// vertices it depends on. Vertices are string keys; output is deterministic
// and follows insertion order among independent vertices.
type DependencyGraph struct {
	// dependents maps a vertex to the vertices that depend on it.
	dependents map[string][]string
	vertices   []string
	vertexSet  map[string]bool
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependents: make(map[string][]string),
		vertexSet:  make(map[string]bool),
	}
}

// AddVertex adds a vertex. Adding an existing vertex is a no-op.
func (g *DependencyGraph) AddVertex(name string) {
	if g.vertexSet[name] {
		return
	}
	g.vertexSet[name] = true
	g.vertices = append(g.vertices, name)
}

// AddEdge records that dependent needs dependency to come first.
func (g *DependencyGraph) AddEdge(dependent, dependency string) {
	g.AddVertex(dependent)
	g.AddVertex(dependency)
	g.dependents[dependency] = append(g.dependents[dependency], dependent)
}

// OrderedList returns every vertex with dependencies before dependents,
// using Kahn's algorithm. A cycle yields a *CycleError.
func (g *DependencyGraph) OrderedList() ([]string, error) {
	if len(g.vertices) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.vertices))
	for _, vertex := range g.vertices {
		inDegree[vertex] = 0
	}
	for _, dependents := range g.dependents {
		for _, dependent := range dependents {
			inDegree[dependent]++
		}
	}

	queue := make([]string, 0, len(g.vertices))
	for _, vertex := range g.vertices {
		if inDegree[vertex] == 0 {
			queue = append(queue, vertex)
		}
	}

	result := make([]string, 0, len(g.vertices))
	for len(queue) > 0 {
		vertex := queue[0]
		queue = queue[1:]
		result = append(result, vertex)
		for _, dependent := range g.dependents[vertex] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.vertices) {
		var cycle []string
		for _, vertex := range g.vertices {
			if inDegree[vertex] > 0 {
				cycle = append(cycle, vertex)
			}
		}
		return nil, &CycleError{Cycle: cycle}
	}
	return result, nil
}
