package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/mazesearch/internal/maze"
	"github.com/specialistvlad/mazesearch/internal/publish"
	"github.com/specialistvlad/mazesearch/internal/search"
	"github.com/specialistvlad/mazesearch/internal/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// openMaze configures a small maze with no blocked cells so every search
// succeeds.
func openMaze(logDir string) Overrides {
	return Overrides{
		Rows:       ptr(3),
		Cols:       ptr(4),
		Sparseness: ptr(0.0),
		Seed:       ptr(uint64(1)),
		LogDir:     ptr(logDir),
	}
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     Config
		want    Command
		wantErr string
	}{
		{name: "defaults to run", cfg: Config{}, want: CommandRun},
		{name: "replay", cfg: Config{Command: CommandReplay, ReplayPath: "x.log"}, want: CommandReplay},
		{name: "replay without path", cfg: Config{Command: CommandReplay}, wantErr: "requires a trace log path"},
		{name: "negative delay", cfg: Config{Command: CommandReplay, ReplayPath: "x.log", ReplayDelay: -time.Second}, wantErr: "cannot be negative"},
		{name: "unknown command", cfg: Config{Command: "serve"}, wantErr: "unknown command"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := NewConfig(tc.cfg)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.Command)
		})
	}
}

func TestNewApp_AppliesOverrides(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	overrides := openMaze(t.TempDir())
	overrides.Algorithms = []string{"astar", "bfs"}
	overrides.Heuristic = ptr(" Euclidean")
	overrides.Instrument = ptr(true)
	overrides.PublishURL = ptr("http://localhost:3000")

	// --- Act ---
	a, _, _ := SetupAppTest(t, &Config{Command: CommandRun, Overrides: overrides})

	// --- Assert ---
	model := a.Model()
	assert.Equal(t, 3, model.Maze.Rows)
	assert.Equal(t, 4, model.Maze.Cols)
	// The default goal no longer fits, so it moves to the corner.
	assert.Equal(t, maze.Loc{Row: 2, Col: 3}, model.Maze.Goal)
	assert.Equal(t, []search.Algorithm{search.AlgorithmAStar, search.AlgorithmBFS}, model.Algorithms)
	assert.Equal(t, "euclidean", model.Heuristic)
	assert.True(t, model.Instrument)
	require.NotNil(t, model.Publish)
	assert.Equal(t, "http://localhost:3000", model.Publish.URL)
	assert.Equal(t, publish.DefaultEvent, model.Publish.Event)
	require.NotNil(t, model.Seed)
	assert.Equal(t, uint64(1), *model.Seed)
}

func TestNewApp_InvalidOverrides(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		overrides Overrides
		wantErr   string
	}{
		{name: "unknown algorithm", overrides: Overrides{Algorithms: []string{"ucs"}}, wantErr: "unknown search algorithm"},
		{name: "unknown heuristic", overrides: Overrides{Heuristic: ptr("chebyshev")}, wantErr: "unknown heuristic"},
		{name: "bad sparseness", overrides: Overrides{Sparseness: ptr(1.5)}, wantErr: "sparseness"},
		{name: "zero rows", overrides: Overrides{Rows: ptr(0)}, wantErr: "dimensions must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewApp(&SafeBuffer{}, &SafeBuffer{}, &Config{Command: CommandRun, Overrides: tc.overrides})

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid command-line options")
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewApp_ConfigFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	path := filepath.Join(dir, "run.hcl")
	src := "maze {\n  rows = 5\n  cols = 5\n  goal {\n    row = 4\n    col = 4\n  }\n}\nsearch {\n  algorithms = [\"bfs\"]\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	// --- Act ---
	a, _, _ := SetupAppTest(t, &Config{Command: CommandRun, ConfigPath: path, Overrides: Overrides{Cols: ptr(8)}})

	// --- Assert ---
	model := a.Model()
	assert.Equal(t, 5, model.Maze.Rows)
	assert.Equal(t, 8, model.Maze.Cols)
	assert.Equal(t, maze.Loc{Row: 4, Col: 4}, model.Maze.Goal, "a goal that still fits is kept")
	assert.Equal(t, []search.Algorithm{search.AlgorithmBFS}, model.Algorithms)
}

func TestNewApp_MissingConfigFile(t *testing.T) {
	t.Parallel()

	_, err := NewApp(&SafeBuffer{}, &SafeBuffer{}, &Config{Command: CommandRun, ConfigPath: filepath.Join(t.TempDir(), "missing.hcl")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRun_PlainSearches(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	logDir := t.TempDir()
	a, out, logs := SetupAppTest(t, &Config{Command: CommandRun, Overrides: openMaze(logDir)})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	got := out.String()
	assert.Contains(t, got, "dfs search:\n")
	assert.Contains(t, got, "bfs search:\n")
	assert.Contains(t, got, "astar search:\n")
	assert.NotContains(t, got, "No solution")
	assert.Contains(t, logs.String(), "seed=1")

	for _, alg := range search.AllAlgorithms() {
		rec, err := tracelog.ReadFile(tracelog.FileName(logDir, alg, false))
		require.NoError(t, err, "trace log for %s", alg)
		assert.Nil(t, rec.Paths)
		require.NotEmpty(t, rec.Path)
		assert.Equal(t, maze.Loc{Row: 0, Col: 0}, rec.Path[0])
		assert.Equal(t, maze.Loc{Row: 2, Col: 3}, rec.Path[len(rec.Path)-1])
	}

	// On an open grid BFS and A* both find a shortest path.
	bfs, err := tracelog.ReadFile(tracelog.FileName(logDir, search.AlgorithmBFS, false))
	require.NoError(t, err)
	assert.Len(t, bfs.Path, 6)
	astar, err := tracelog.ReadFile(tracelog.FileName(logDir, search.AlgorithmAStar, false))
	require.NoError(t, err)
	assert.Len(t, astar.Path, 6)
}

func TestRun_InstrumentedPublishesFrames(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	logDir := t.TempDir()
	overrides := openMaze(logDir)
	overrides.Algorithms = []string{"bfs"}
	overrides.Instrument = ptr(true)
	overrides.PublishURL = ptr("http://viewer.invalid")
	a, out, _ := SetupAppTest(t, &Config{Command: CommandRun, Overrides: overrides})

	recorder := &publish.Recorder{}
	var dialed publish.Options
	a.dial = func(_ context.Context, opts publish.Options) (publish.Publisher, error) {
		dialed = opts
		return recorder, nil
	}

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "http://viewer.invalid", dialed.URL)
	assert.True(t, recorder.Closed())
	assert.Contains(t, out.String(), "bfs search:\n")

	rec, err := tracelog.ReadFile(tracelog.FileName(logDir, search.AlgorithmBFS, true))
	require.NoError(t, err)
	require.NotEmpty(t, rec.Paths)

	frames := recorder.Frames()
	require.Len(t, frames, len(rec.Paths))
	for i, frame := range frames {
		assert.Equal(t, "bfs", frame.Algorithm)
		assert.Equal(t, i, frame.Index)
		assert.Equal(t, len(rec.Paths), frame.Total)
		assert.Equal(t, rec.Paths[i], frame.Path)
		assert.Equal(t, i == len(frames)-1, frame.Solved)
	}
	assert.Equal(t, []maze.Loc{{Row: 0, Col: 0}}, frames[0].Path)
}

func TestRun_NoSolution(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Every cell except start and goal is blocked.
	logDir := t.TempDir()
	overrides := openMaze(logDir)
	overrides.Sparseness = ptr(1.0)
	overrides.Algorithms = []string{"dfs", "astar"}
	a, out, logs := SetupAppTest(t, &Config{Command: CommandRun, Overrides: overrides})
	staleLog := tracelog.FileName(logDir, search.AlgorithmDFS, false)
	require.NoError(t, os.WriteFile(staleLog, []byte("left over from an earlier run"), 0o644))
	recorder := &publish.Recorder{}
	a.model.Publish = &publish.Options{URL: "http://viewer.invalid"}
	a.dial = func(context.Context, publish.Options) (publish.Publisher, error) { return recorder, nil }

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	got := out.String()
	assert.Contains(t, got, "No solution found using dfs search!\nSXXX\nXXXX\nXXXG\n")
	assert.Contains(t, got, "No solution found using astar search!\n")
	assert.Contains(t, logs.String(), "solved=false")
	assert.Empty(t, recorder.Frames())
	assert.NoFileExists(t, staleLog, "an unsolved plain run must not leave a trace log behind")
	assert.NoFileExists(t, tracelog.FileName(logDir, search.AlgorithmAStar, false))
}

func TestRun_InstrumentedNoSolutionKeepsTrace(t *testing.T) {
	t.Parallel()

	logDir := t.TempDir()
	overrides := openMaze(logDir)
	overrides.Sparseness = ptr(1.0)
	overrides.Algorithms = []string{"bfs"}
	overrides.Instrument = ptr(true)
	a, _, _ := SetupAppTest(t, &Config{Command: CommandRun, Overrides: overrides})

	require.NoError(t, a.Run(context.Background()))

	rec, err := tracelog.ReadFile(tracelog.FileName(logDir, search.AlgorithmBFS, true))
	require.NoError(t, err)
	assert.Equal(t, [][]maze.Loc{{{Row: 0, Col: 0}}}, rec.Paths)
}

func TestReplay_DirectoryAfterUnsolvedRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// One solved run and one unsolved run share the log directory.
	logDir := t.TempDir()
	solved := openMaze(logDir)
	solved.Algorithms = []string{"bfs"}
	runner, _, _ := SetupAppTest(t, &Config{Command: CommandRun, Overrides: solved})
	require.NoError(t, runner.Run(context.Background()))

	unsolved := openMaze(logDir)
	unsolved.Algorithms = []string{"dfs"}
	unsolved.Sparseness = ptr(1.0)
	runner, _, _ = SetupAppTest(t, &Config{Command: CommandRun, Overrides: unsolved})
	require.NoError(t, runner.Run(context.Background()))

	a, out, _ := SetupAppTest(t, &Config{Command: CommandReplay, ReplayPath: logDir})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "frame 1/1\n"))
}

func TestReplay_DirectorySkipsLogWithoutPaths(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	logDir := t.TempDir()
	runner, _, _ := SetupAppTest(t, &Config{Command: CommandRun, Overrides: openMaze(logDir)})
	require.NoError(t, runner.Run(context.Background()))
	empty := "rows: 3\ncols: 4\nini: (0,0)\nend: (2,3)\nblocked: \npath: \n"
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "graph-zzz.log"), []byte(empty), 0o644))

	a, out, logs := SetupAppTest(t, &Config{Command: CommandReplay, ReplayPath: logDir})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out.String(), "frame 1/1\n"))
	assert.Contains(t, logs.String(), "Skipping trace log without paths.")
}

func TestRun_DialFailure(t *testing.T) {
	t.Parallel()

	overrides := openMaze(t.TempDir())
	overrides.PublishURL = ptr("http://viewer.invalid")
	a, out, _ := SetupAppTest(t, &Config{Command: CommandRun, Overrides: overrides})
	a.dial = func(context.Context, publish.Options) (publish.Publisher, error) {
		return nil, errors.New("connection refused")
	}

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to trace viewer")
	assert.Empty(t, out.String())
}

func TestRun_SeedIsReproducible(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	render := func() string {
		overrides := Overrides{
			Rows:       ptr(12),
			Cols:       ptr(20),
			Sparseness: ptr(0.3),
			Seed:       ptr(uint64(99)),
			LogDir:     ptr(t.TempDir()),
			Algorithms: []string{"bfs"},
		}
		a, out, _ := SetupAppTest(t, &Config{Command: CommandRun, Overrides: overrides})
		require.NoError(t, a.Run(context.Background()))
		return out.String()
	}

	// --- Act ---
	first, second := render(), render()

	// --- Assert ---
	assert.Equal(t, first, second)
	assert.Contains(t, first, "X", "sparseness 0.3 should block some cells")
}

func TestReplay(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	m, err := maze.FromBlocked(2, 2, maze.Loc{Row: 0, Col: 0}, maze.Loc{Row: 1, Col: 1}, nil)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "graph-instrumented-bfs.log")
	trace := search.Paths[maze.Loc]{
		{{Row: 0, Col: 0}},
		{{Row: 0, Col: 0}, {Row: 1, Col: 0}},
		{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 1, Col: 1}},
	}
	require.NoError(t, tracelog.WriteFile(path, tracelog.FromTrace(m, trace)))

	cfg, err := NewConfig(Config{Command: CommandReplay, ReplayPath: path})
	require.NoError(t, err)
	a, out, _ := SetupAppTest(t, cfg)

	// --- Act ---
	err = a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Nil(t, a.Model())
	assert.Equal(t, 3, strings.Count(out.String(), "Legend\n"))
	assert.Contains(t, out.String(), "frame 3/3\nS.\n*G\n")
}

func TestReplay_MissingFile(t *testing.T) {
	t.Parallel()

	a, _, _ := SetupAppTest(t, &Config{Command: CommandReplay, ReplayPath: "unused"})

	err := a.Replay(context.Background(), filepath.Join(t.TempDir(), "missing.log"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReplay_Directory(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	logDir := t.TempDir()
	runner, _, _ := SetupAppTest(t, &Config{Command: CommandRun, Overrides: openMaze(logDir)})
	require.NoError(t, runner.Run(context.Background()))
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "notes.txt"), []byte("not a trace"), 0o644))

	a, out, _ := SetupAppTest(t, &Config{Command: CommandReplay, ReplayPath: logDir})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	got := out.String()
	assert.Equal(t, 3, strings.Count(got, "frame 1/1\n"))
	astar := strings.Index(got, "== graph-astar.log ==")
	bfs := strings.Index(got, "== graph-bfs.log ==")
	dfs := strings.Index(got, "== graph-dfs.log ==")
	require.True(t, astar >= 0 && bfs >= 0 && dfs >= 0, "every trace log should be announced")
	assert.True(t, astar < bfs && bfs < dfs, "trace logs should play in name order")
}

func TestReplay_EmptyDirectory(t *testing.T) {
	t.Parallel()

	a, _, _ := SetupAppTest(t, &Config{Command: CommandReplay, ReplayPath: "unused"})

	err := a.Replay(context.Background(), t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no trace logs matching")
}
