// Package search implements generic state-space search over an abstract
// problem: a start state, a goal predicate, and a successor function.
//
// Three traversals are provided, each returning the goal Node (or nil when
// the frontier empties without reaching a goal):
//
//   - DepthFirst: LIFO frontier, no optimality guarantee.
//   - BreadthFirst: FIFO frontier, shortest path in edge count.
//   - AStar: priority frontier ordered by cost + heuristic, unit edge cost.
//
// Each traversal has an Instrumented counterpart that also returns the path
// of every node taken off the frontier, in dequeue order. An instrumented
// search returns the same goal node as its plain counterpart.
//
// The package is single-threaded and synchronous. Every call owns its own
// frontier, explored set, and node tree; the only thing that outlives a call
// is the returned goal node and its chain of parents.
package search
