// Package config loads the run configuration: the maze to generate, which
// searches to run, where trace logs go, and an optional trace viewer to
// publish to.
//
// Configuration is written in HCL. Every block and attribute is optional;
// anything left out keeps the value from Default. Expressions may refer to
// the process environment through the `env` map and call a small set of
// helper functions:
//
//	maze {
//	  rows = 40
//	  seed = env.MAZE_SEED
//	}
//
//	search {
//	  algorithms = ["bfs", "astar"]
//	  heuristic  = lower("Manhattan")
//	}
//
// The decoded Model is format-agnostic; the CLI layers its flag overrides on
// top of it.
package config
