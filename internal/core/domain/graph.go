// Package domain contains the core domain models of the configuration cache.
package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of tasks.
type Graph struct {
	tasks          map[InternedString]*Task
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[InternedString]*Task),
	}
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(zerr.Wrap(ErrTaskAlreadyExists, "cannot add task"), "task_name", t.Name.String())
	}
	g.tasks[t.Name] = t
	return nil
}

// Task returns the task registered under name.
func (g *Graph) Task(name string) (*Task, error) {
	t, ok := g.tasks[NewInternedString(name)]
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrTaskNotFound, "cannot look up task"), "task_name", name)
	}
	return t, nil
}

// Len returns the number of tasks.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Validate checks for cycles in the graph using a topological sort.
// It populates the execution order if successful.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.tasks))
	visited := make(map[*Task]int) // 0: unvisited, 1: visiting, 2: visited
	var path []*Task

	var visit func(u *Task) error
	visit = func(u *Task) error {
		if registered, ok := g.tasks[u.Name]; !ok || registered != u {
			return zerr.With(zerr.Wrap(ErrMissingDependency, "invalid task graph"), "dependency", u.Name.String())
		}
		visited[u] = 1
		path = append(path, u)

		for _, dep := range u.Dependencies {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u.Name)
		return nil
	}

	names := make([]InternedString, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.SortFunc(names, InternedString.Compare)

	for _, name := range names {
		if t := g.tasks[name]; visited[t] == 0 {
			if err := visit(t); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []*Task, dep *Task) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].Name.String() + " -> "
	}
	cyclePath += dep.Name.String()
	return zerr.With(zerr.Wrap(ErrCycleDetected, "invalid task graph"), "cycle", cyclePath)
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[*Task] {
	return func(yield func(*Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}
