package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned by ParseAlgorithm for unrecognised names.
var ErrUnknownAlgorithm = errors.New("unknown search algorithm")

// Algorithm names one of the traversals in this package.
type Algorithm string

const (
	AlgorithmDFS   Algorithm = "dfs"
	AlgorithmBFS   Algorithm = "bfs"
	AlgorithmAStar Algorithm = "astar"
)

// AllAlgorithms returns every algorithm in the order they are usually run.
func AllAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmDFS, AlgorithmBFS, AlgorithmAStar}
}

// ParseAlgorithm resolves a case-insensitive algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(name))); alg {
	case AlgorithmDFS, AlgorithmBFS, AlgorithmAStar:
		return alg, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Problem bundles everything a search needs to know about a state space.
// Heuristic is only consulted by A*; when nil, A* degrades to uniform-cost
// search.
type Problem[S comparable] struct {
	Initial    S
	GoalTest   GoalTest[S]
	Successors Successors[S]
	Heuristic  Heuristic[S]
}

func (p Problem[S]) heuristic() Heuristic[S] {
	if p.Heuristic != nil {
		return p.Heuristic
	}
	return func(S) float64 { return 0 }
}

// Solve runs alg over p and returns the goal node, or nil when no goal is
// reachable.
func Solve[S comparable](alg Algorithm, p Problem[S]) (*Node[S], error) {
	switch alg {
	case AlgorithmDFS:
		return DepthFirst(p.Initial, p.GoalTest, p.Successors), nil
	case AlgorithmBFS:
		return BreadthFirst(p.Initial, p.GoalTest, p.Successors), nil
	case AlgorithmAStar:
		return AStar(p.Initial, p.GoalTest, p.Successors, p.heuristic()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}
}

// SolveInstrumented is Solve with the expansion trace.
func SolveInstrumented[S comparable](alg Algorithm, p Problem[S]) (*Node[S], Paths[S], error) {
	switch alg {
	case AlgorithmDFS:
		node, paths := DepthFirstInstrumented(p.Initial, p.GoalTest, p.Successors)
		return node, paths, nil
	case AlgorithmBFS:
		node, paths := BreadthFirstInstrumented(p.Initial, p.GoalTest, p.Successors)
		return node, paths, nil
	case AlgorithmAStar:
		node, paths := AStarInstrumented(p.Initial, p.GoalTest, p.Successors, p.heuristic())
		return node, paths, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}
}
