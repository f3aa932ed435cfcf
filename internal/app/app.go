package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/mazesearch/internal/config"
	"github.com/specialistvlad/mazesearch/internal/ctxlog"
	"github.com/specialistvlad/mazesearch/internal/publish"
)

// dialFunc opens a publisher for a configured viewer.
type dialFunc func(ctx context.Context, opts publish.Options) (publish.Publisher, error)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
	dial   dialFunc
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. For the run command it loads the HCL configuration
// and applies the command-line overrides on top of it.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		dial:   dialSocketIO,
	}
	if cfg.Command == CommandReplay {
		return a, nil
	}

	model, err := config.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Overrides.apply(model); err != nil {
		return nil, fmt.Errorf("invalid command-line options: %w", err)
	}
	logger.Debug("Configuration resolved.",
		"rows", model.Maze.Rows,
		"cols", model.Maze.Cols,
		"algorithms", model.Algorithms,
		"heuristic", model.Heuristic,
		"instrument", model.Instrument,
		"log_dir", model.LogDir,
	)
	a.model = model
	return a, nil
}

// Model returns the resolved run configuration. It is nil for replay.
func (a *App) Model() *config.Model {
	return a.model
}

func dialSocketIO(ctx context.Context, opts publish.Options) (publish.Publisher, error) {
	client, err := publish.Dial(ctx, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}
