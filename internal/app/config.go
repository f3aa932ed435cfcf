package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/mazesearch/internal/config"
	"github.com/specialistvlad/mazesearch/internal/maze"
	"github.com/specialistvlad/mazesearch/internal/publish"
)

// Command selects what the App does when run.
type Command string

const (
	CommandRun    Command = "run"
	CommandReplay Command = "replay"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command Command

	// ConfigPath is an optional HCL file. Empty means built-in defaults.
	ConfigPath string
	Overrides  Overrides

	ReplayPath  string
	ReplayDelay time.Duration
	ClearScreen bool

	LogFormat string
	LogLevel  string
}

// Overrides are values given on the command line. A nil field leaves the
// loaded configuration alone.
type Overrides struct {
	Instrument *bool
	Algorithms []string
	Heuristic  *string
	Rows       *int
	Cols       *int
	Sparseness *float64
	Seed       *uint64
	LogDir     *string
	PublishURL *string
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case "":
		cfg.Command = CommandRun
	case CommandRun:
	case CommandReplay:
		if cfg.ReplayPath == "" {
			return nil, errors.New("replay requires a trace log path")
		}
		if cfg.ReplayDelay < 0 {
			return nil, fmt.Errorf("replay delay cannot be negative, got %s", cfg.ReplayDelay)
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	return &cfg, nil
}

// apply layers the overrides onto m and revalidates it. When only the
// dimensions change and the goal would fall outside the grid, the goal moves
// to the bottom-right corner.
func (o Overrides) apply(m *config.Model) error {
	if o.Algorithms != nil {
		algs, err := config.ParseAlgorithms(o.Algorithms)
		if err != nil {
			return err
		}
		m.Algorithms = algs
	}
	set(&m.Instrument, o.Instrument)
	if o.Heuristic != nil {
		m.Heuristic = strings.ToLower(strings.TrimSpace(*o.Heuristic))
	}
	set(&m.Maze.Sparseness, o.Sparseness)
	set(&m.LogDir, o.LogDir)
	if o.Seed != nil {
		seed := *o.Seed
		m.Seed = &seed
	}

	if o.Rows != nil || o.Cols != nil {
		set(&m.Maze.Rows, o.Rows)
		set(&m.Maze.Cols, o.Cols)
		if m.Maze.Goal.Row >= m.Maze.Rows || m.Maze.Goal.Col >= m.Maze.Cols {
			m.Maze.Goal = maze.Loc{Row: m.Maze.Rows - 1, Col: m.Maze.Cols - 1}
		}
	}

	if o.PublishURL != nil {
		if m.Publish == nil {
			m.Publish = &publish.Options{Event: publish.DefaultEvent}
		}
		m.Publish.URL = *o.PublishURL
	}

	return m.Validate()
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
