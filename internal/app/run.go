package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/specialistvlad/mazesearch/internal/ctxlog"
	"github.com/specialistvlad/mazesearch/internal/fsutil"
	"github.com/specialistvlad/mazesearch/internal/maze"
	"github.com/specialistvlad/mazesearch/internal/publish"
	"github.com/specialistvlad/mazesearch/internal/replay"
	"github.com/specialistvlad/mazesearch/internal/search"
	"github.com/specialistvlad/mazesearch/internal/tracelog"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	if a.config.Command == CommandReplay {
		return a.Replay(ctx, a.config.ReplayPath)
	}

	seed := rand.Uint64()
	if a.model.Seed != nil {
		seed = *a.model.Seed
	}
	a.logger.Info("Generating maze.",
		"seed", seed,
		"rows", a.model.Maze.Rows,
		"cols", a.model.Maze.Cols,
		"sparseness", a.model.Maze.Sparseness,
	)
	m, err := maze.New(a.model.Maze, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		return fmt.Errorf("failed to generate maze: %w", err)
	}
	heuristic, err := m.Heuristic(a.model.Heuristic)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.model.LogDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	pub, err := a.publisher(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			a.logger.Warn("Failed to close publisher.", "error", err)
		}
	}()

	for _, alg := range a.model.Algorithms {
		if err := a.runSearch(ctx, m, alg, heuristic, pub); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) publisher(ctx context.Context) (publish.Publisher, error) {
	if a.model.Publish == nil {
		return publish.Nop{}, nil
	}
	a.logger.Info("Connecting to trace viewer.", "url", a.model.Publish.URL)
	pub, err := a.dial(ctx, *a.model.Publish)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to trace viewer: %w", err)
	}
	return pub, nil
}

func (a *App) runSearch(ctx context.Context, m *maze.Maze, alg search.Algorithm, heuristic search.Heuristic[maze.Loc], pub publish.Publisher) error {
	ctx, logger := ctxlog.With(ctx, "algorithm", string(alg))
	logger.Debug("Search starting.", "instrument", a.model.Instrument)

	problem := m.Problem(heuristic)
	started := time.Now()
	var (
		goal  *search.Node[maze.Loc]
		trace search.Paths[maze.Loc]
		err   error
	)
	if a.model.Instrument {
		goal, trace, err = search.SolveInstrumented(alg, problem)
	} else {
		goal, err = search.Solve(alg, problem)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	var path []maze.Loc
	if goal != nil {
		path = search.ToPath(goal)
		fmt.Fprintf(a.outW, "%s search:\n%s\n", alg, m.Render(path))
	} else {
		fmt.Fprintf(a.outW, "No solution found using %s search!\n%s\n", alg, m)
	}
	logger.Info("Search finished.",
		"solved", goal != nil,
		"path_length", len(path),
		"expansions", len(trace),
		"elapsed", elapsed,
	)

	if err := a.writeTraceLog(ctx, m, alg, path, trace); err != nil {
		return err
	}

	frames := framesFor(alg, path, trace, goal != nil)
	for _, frame := range frames {
		if err := pub.Publish(ctx, frame); err != nil {
			return fmt.Errorf("failed to publish frame %d of %s search: %w", frame.Index, alg, err)
		}
	}
	if len(frames) > 0 {
		logger.Debug("Frames published.", "count", len(frames))
	}
	return nil
}

// writeTraceLog records the run under the log directory. A plain run without
// a solution has nothing to replay, so no log is written and any log left by
// an earlier run under the same name is removed.
func (a *App) writeTraceLog(ctx context.Context, m *maze.Maze, alg search.Algorithm, path []maze.Loc, trace search.Paths[maze.Loc]) error {
	logger := ctxlog.FromContext(ctx)
	file := tracelog.FileName(a.model.LogDir, alg, a.model.Instrument)

	if !a.model.Instrument && len(path) == 0 {
		if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale trace log: %w", err)
		}
		logger.Debug("No solution, trace log skipped.", "file", file)
		return nil
	}

	rec := tracelog.FromSolution(m, path)
	if a.model.Instrument {
		rec = tracelog.FromTrace(m, trace)
	}
	if err := tracelog.WriteFile(file, rec); err != nil {
		return err
	}
	logger.Debug("Trace log written.", "file", file)
	return nil
}

// framesFor turns a finished search into viewer frames: one per expansion
// for an instrumented run, or the solution alone for a plain run.
func framesFor(alg search.Algorithm, path []maze.Loc, trace search.Paths[maze.Loc], solved bool) []publish.Frame {
	if trace == nil {
		if !solved {
			return nil
		}
		return []publish.Frame{{Algorithm: string(alg), Index: 0, Total: 1, Path: path, Solved: true}}
	}

	frames := make([]publish.Frame, len(trace))
	for i, p := range trace {
		frames[i] = publish.Frame{
			Algorithm: string(alg),
			Index:     i,
			Total:     len(trace),
			Path:      p,
			Solved:    solved && i == len(trace)-1,
		}
	}
	return frames
}

// traceLogPattern matches the file names written by Run.
const traceLogPattern = "graph-*.log"

// Replay plays back the trace log at path. When path is a directory every
// trace log directly inside it is played in name order.
func (a *App) Replay(ctx context.Context, path string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	files, err := fsutil.FindFiles(path, traceLogPattern)
	if err != nil {
		return fmt.Errorf("failed to find trace logs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no trace logs matching %s in %s", traceLogPattern, path)
	}

	player := &replay.Player{
		Out:         a.outW,
		Delay:       a.config.ReplayDelay,
		ClearScreen: a.config.ClearScreen,
	}
	for _, file := range files {
		rec, err := tracelog.ReadFile(file)
		if err != nil {
			return err
		}
		a.logger.Info("Replaying trace log.", "file", file, "frames", len(rec.Paths))
		if len(files) > 1 {
			fmt.Fprintf(a.outW, "== %s ==\n", filepath.Base(file))
		}
		err = player.Play(ctx, rec)
		if errors.Is(err, replay.ErrNothingToPlay) && len(files) > 1 {
			a.logger.Warn("Skipping trace log without paths.", "file", file)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to replay %s: %w", file, err)
		}
	}
	return nil
}
