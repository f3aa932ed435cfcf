package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/mazesearch/internal/maze"
	"github.com/specialistvlad/mazesearch/internal/publish"
	"github.com/specialistvlad/mazesearch/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	model, err := Load(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, Default(), model)
}

func TestParse_FullFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
maze {
  rows       = 10
  cols       = 12
  sparseness = 0.25
  seed       = 42
  start {
    row = 1
    col = 2
  }
  goal {
    row = 9
    col = 11
  }
}

search {
  algorithms = ["BFS", "astar"]
  heuristic  = upper("euclidean")
  instrument = true
}

output {
  log_dir = "/var/tmp/traces"
}

publish {
  url             = "http://localhost:3000"
  namespace       = "/viewer"
  connect_timeout = "2s"
}
`

	// --- Act ---
	model, err := Parse(context.Background(), []byte(src), "run.hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, maze.Options{
		Rows:       10,
		Cols:       12,
		Start:      maze.Loc{Row: 1, Col: 2},
		Goal:       maze.Loc{Row: 9, Col: 11},
		Sparseness: 0.25,
	}, model.Maze)
	require.NotNil(t, model.Seed)
	assert.Equal(t, uint64(42), *model.Seed)
	assert.Equal(t, []search.Algorithm{search.AlgorithmBFS, search.AlgorithmAStar}, model.Algorithms)
	assert.Equal(t, "euclidean", model.Heuristic)
	assert.True(t, model.Instrument)
	assert.Equal(t, "/var/tmp/traces", model.LogDir)
	assert.Equal(t, &publish.Options{
		URL:            "http://localhost:3000",
		Namespace:      "/viewer",
		Event:          publish.DefaultEvent,
		ConnectTimeout: 2 * time.Second,
	}, model.Publish)
}

func TestParse_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	model, err := Parse(context.Background(), []byte("maze {\n  rows = 40\n  goal {\n    row = 39\n    col = 63\n  }\n}\n"), "partial.hcl")

	require.NoError(t, err)
	want := Default()
	want.Maze.Rows = 40
	want.Maze.Goal = maze.Loc{Row: 39, Col: 63}
	assert.Equal(t, want, model)
	assert.Nil(t, model.Seed)
	assert.Nil(t, model.Publish)
}

func TestParse_EnvironmentVariables(t *testing.T) {
	// t.Setenv forbids t.Parallel.
	t.Setenv("MAZESEARCH_TEST_SEED", "7")
	t.Setenv("MAZESEARCH_TEST_ALG", "DFS")

	model, err := Parse(context.Background(), []byte(`
maze {
  seed = env.MAZESEARCH_TEST_SEED
}
search {
  algorithms = [lower(env.MAZESEARCH_TEST_ALG)]
}
`), "env.hcl")

	require.NoError(t, err)
	require.NotNil(t, model.Seed)
	assert.Equal(t, uint64(7), *model.Seed)
	assert.Equal(t, []search.Algorithm{search.AlgorithmDFS}, model.Algorithms)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     "maze {",
			wantErr: "failed to parse HCL file bad.hcl",
		},
		{
			name:    "unknown attribute",
			src:     "maze {\n  depth = 3\n}\n",
			wantErr: "failed to decode HCL file bad.hcl",
		},
		{
			name:    "wrong type",
			src:     "maze {\n  rows = \"many\"\n}\n",
			wantErr: "failed to decode HCL file bad.hcl",
		},
		{
			name:    "missing environment variable",
			src:     "maze {\n  seed = env.MAZESEARCH_TEST_NEVER_SET\n}\n",
			wantErr: "failed to decode HCL file bad.hcl",
		},
		{
			name:    "negative seed",
			src:     "maze {\n  seed = -1\n}\n",
			wantErr: "seed must not be negative",
		},
		{
			name:    "unknown algorithm",
			src:     "search {\n  algorithms = [\"dijkstra\"]\n}\n",
			wantErr: "unknown algorithm",
		},
		{
			name:    "duplicate algorithm",
			src:     "search {\n  algorithms = [\"bfs\", \"BFS\"]\n}\n",
			wantErr: "listed more than once",
		},
		{
			name:    "unknown heuristic",
			src:     "search {\n  heuristic = \"chebyshev\"\n}\n",
			wantErr: "unknown heuristic",
		},
		{
			name:    "goal outside grid",
			src:     "maze {\n  rows = 5\n}\n",
			wantErr: "invalid configuration in bad.hcl",
		},
		{
			name:    "bad timeout",
			src:     "publish {\n  url = \"http://localhost\"\n  connect_timeout = \"soon\"\n}\n",
			wantErr: "publish.connect_timeout",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(context.Background(), []byte(tc.src), "bad.hcl")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "run.hcl")
	require.NoError(t, os.WriteFile(path, []byte("search {\n  instrument = true\n}\n"), 0o644))

	// --- Act ---
	model, err := Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, model.Instrument)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(*Model)
	}{
		{name: "no algorithms", mutate: func(m *Model) { m.Algorithms = nil }},
		{name: "bad algorithm", mutate: func(m *Model) { m.Algorithms = []search.Algorithm{"ucs"} }},
		{name: "bad heuristic", mutate: func(m *Model) { m.Heuristic = "" }},
		{name: "empty log dir", mutate: func(m *Model) { m.LogDir = "" }},
		{name: "publish without url", mutate: func(m *Model) { m.Publish = &publish.Options{} }},
		{name: "bad maze", mutate: func(m *Model) { m.Maze.Rows = 0 }},
	}

	require.NoError(t, Default().Validate())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := Default()
			tc.mutate(m)

			assert.ErrorIs(t, m.Validate(), ErrInvalidConfig)
		})
	}
}
