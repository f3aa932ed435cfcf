package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/specialistvlad/mazesearch/internal/maze"
	"github.com/specialistvlad/mazesearch/internal/publish"
	"github.com/specialistvlad/mazesearch/internal/search"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Heuristics lists the heuristic names the maze understands.
var Heuristics = []string{"manhattan", "euclidean", "zero"}

// Model is the resolved configuration for one run.
type Model struct {
	Maze maze.Options
	// Seed fixes the maze layout. Nil means pick one at random.
	Seed *uint64

	Algorithms []search.Algorithm
	Heuristic  string
	Instrument bool

	LogDir string

	// Publish is nil when no viewer is configured.
	Publish *publish.Options
}

// Default returns the configuration used when nothing else is specified.
func Default() *Model {
	return &Model{
		Maze:       maze.DefaultOptions(),
		Algorithms: search.AllAlgorithms(),
		Heuristic:  "manhattan",
		LogDir:     os.TempDir(),
	}
}

// Validate checks the model for values no run could use.
func (m *Model) Validate() error {
	if err := m.Maze.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(m.Algorithms) == 0 {
		return fmt.Errorf("%w: at least one algorithm is required", ErrInvalidConfig)
	}
	for _, alg := range m.Algorithms {
		if _, err := search.ParseAlgorithm(string(alg)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if !slices.Contains(Heuristics, m.Heuristic) {
		return fmt.Errorf("%w: unknown heuristic %q, expected one of %s", ErrInvalidConfig, m.Heuristic, strings.Join(Heuristics, ", "))
	}
	if m.LogDir == "" {
		return fmt.Errorf("%w: log directory cannot be empty", ErrInvalidConfig)
	}
	if m.Publish != nil && m.Publish.URL == "" {
		return fmt.Errorf("%w: publish block requires a url", ErrInvalidConfig)
	}
	return nil
}

// ParseAlgorithms resolves a list of algorithm names, rejecting duplicates.
func ParseAlgorithms(names []string) ([]search.Algorithm, error) {
	algs := make([]search.Algorithm, 0, len(names))
	seen := make(map[search.Algorithm]struct{}, len(names))
	for _, name := range names {
		alg, err := search.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[alg]; dup {
			return nil, fmt.Errorf("algorithm %q listed more than once", alg)
		}
		seen[alg] = struct{}{}
		algs = append(algs, alg)
	}
	return algs, nil
}
