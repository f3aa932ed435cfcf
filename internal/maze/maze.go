// Package maze provides the grid maze the search engine is demonstrated on:
// random generation, the goal test, successor enumeration, distance
// heuristics, and text rendering.
package maze

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/specialistvlad/mazesearch/internal/search"
)

// ErrInvalidOptions is returned when a maze cannot be built from its options.
var ErrInvalidOptions = errors.New("invalid maze options")

// Loc is a (row, column) position in the grid.
type Loc struct {
	Row int
	Col int
}

// String renders the location as "(row,col)".
func (l Loc) String() string {
	return fmt.Sprintf("(%d,%d)", l.Row, l.Col)
}

// Cell is the content of one grid square.
type Cell int

const (
	Empty Cell = iota
	Blocked
	Start
	Goal
	Path
)

// String returns the single character used to draw the cell.
func (c Cell) String() string {
	switch c {
	case Blocked:
		return "X"
	case Start:
		return "S"
	case Goal:
		return "G"
	case Path:
		return "*"
	default:
		return "."
	}
}

// Options describes the maze to generate.
type Options struct {
	Rows       int
	Cols       int
	Start      Loc
	Goal       Loc
	Sparseness float64 // probability that a cell is blocked
}

// DefaultOptions returns a 32x64 maze from the top-left to the bottom-right
// corner with 10% of the cells blocked.
func DefaultOptions() Options {
	return Options{
		Rows:       32,
		Cols:       64,
		Start:      Loc{Row: 0, Col: 0},
		Goal:       Loc{Row: 31, Col: 63},
		Sparseness: 0.1,
	}
}

// Validate checks dimensions, sparseness, and the start and goal positions.
func (o Options) Validate() error {
	if o.Rows <= 0 || o.Cols <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidOptions, o.Rows, o.Cols)
	}
	if o.Sparseness < 0 || o.Sparseness > 1 || math.IsNaN(o.Sparseness) {
		return fmt.Errorf("%w: sparseness must be within [0, 1], got %v", ErrInvalidOptions, o.Sparseness)
	}
	if !o.contains(o.Start) {
		return fmt.Errorf("%w: start %s is outside the %dx%d grid", ErrInvalidOptions, o.Start, o.Rows, o.Cols)
	}
	if !o.contains(o.Goal) {
		return fmt.Errorf("%w: goal %s is outside the %dx%d grid", ErrInvalidOptions, o.Goal, o.Rows, o.Cols)
	}
	if o.Start == o.Goal {
		return fmt.Errorf("%w: start and goal are both %s", ErrInvalidOptions, o.Start)
	}
	return nil
}

func (o Options) contains(l Loc) bool {
	return l.Row >= 0 && l.Row < o.Rows && l.Col >= 0 && l.Col < o.Cols
}

// Maze is a rectangular grid with a start and a goal. Its layout is fixed
// once built.
type Maze struct {
	Options
	grid [][]Cell
}

// New generates a maze, blocking each cell with probability
// opts.Sparseness. The start and goal cells are always open. rng may be nil
// when Sparseness is zero.
func New(opts Options, rng *rand.Rand) (*Maze, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m := &Maze{Options: opts, grid: make([][]Cell, opts.Rows)}
	for r := range m.grid {
		m.grid[r] = make([]Cell, opts.Cols)
		for c := range m.grid[r] {
			if opts.Sparseness > 0 && rng.Float64() < opts.Sparseness {
				m.grid[r][c] = Blocked
			}
		}
	}
	m.grid[opts.Start.Row][opts.Start.Col] = Start
	m.grid[opts.Goal.Row][opts.Goal.Col] = Goal
	return m, nil
}

// FromBlocked rebuilds a maze with an explicit set of blocked cells.
// Blocked entries outside the grid are rejected; entries on the start or
// goal are ignored.
func FromBlocked(rows, cols int, start, goal Loc, blocked []Loc) (*Maze, error) {
	opts := Options{Rows: rows, Cols: cols, Start: start, Goal: goal}
	m, err := New(opts, nil)
	if err != nil {
		return nil, err
	}
	for _, l := range blocked {
		if !opts.contains(l) {
			return nil, fmt.Errorf("%w: blocked cell %s is outside the %dx%d grid", ErrInvalidOptions, l, rows, cols)
		}
		if l == start || l == goal {
			continue
		}
		m.grid[l.Row][l.Col] = Blocked
	}
	return m, nil
}

// At returns the content of the cell at l.
func (m *Maze) At(l Loc) Cell {
	return m.grid[l.Row][l.Col]
}

// GoalTest reports whether l is the goal.
func (m *Maze) GoalTest(l Loc) bool {
	return l == m.Goal
}

// Successors lists the open neighbours of l in the order bottom, top,
// right, left.
func (m *Maze) Successors(l Loc) []Loc {
	locs := make([]Loc, 0, 4)
	for _, next := range []Loc{
		{Row: l.Row + 1, Col: l.Col},
		{Row: l.Row - 1, Col: l.Col},
		{Row: l.Row, Col: l.Col + 1},
		{Row: l.Row, Col: l.Col - 1},
	} {
		if m.contains(next) && m.grid[next.Row][next.Col] != Blocked {
			locs = append(locs, next)
		}
	}
	return locs
}

// ManhattanDistance is the grid distance from l to the goal. It is
// admissible for 4-connected movement.
func (m *Maze) ManhattanDistance(l Loc) float64 {
	return math.Abs(float64(l.Col-m.Goal.Col)) + math.Abs(float64(l.Row-m.Goal.Row))
}

// EuclideanDistance is the straight-line distance from l to the goal.
func (m *Maze) EuclideanDistance(l Loc) float64 {
	dx := float64(l.Col - m.Goal.Col)
	dy := float64(l.Row - m.Goal.Row)
	return math.Sqrt(dx*dx + dy*dy)
}

// Heuristic resolves a heuristic by name: "manhattan", "euclidean" or
// "zero".
func (m *Maze) Heuristic(name string) (search.Heuristic[Loc], error) {
	switch strings.ToLower(name) {
	case "", "manhattan":
		return m.ManhattanDistance, nil
	case "euclidean":
		return m.EuclideanDistance, nil
	case "zero":
		return func(Loc) float64 { return 0 }, nil
	default:
		return nil, fmt.Errorf("unknown heuristic %q", name)
	}
}

// Problem adapts the maze to the search engine.
func (m *Maze) Problem(heuristic search.Heuristic[Loc]) search.Problem[Loc] {
	return search.Problem[Loc]{
		Initial:    m.Start,
		GoalTest:   m.GoalTest,
		Successors: m.Successors,
		Heuristic:  heuristic,
	}
}

// Blocked lists every blocked cell in row-major order.
func (m *Maze) Blocked() []Loc {
	var blocked []Loc
	for r, row := range m.grid {
		for c, cell := range row {
			if cell == Blocked {
				blocked = append(blocked, Loc{Row: r, Col: c})
			}
		}
	}
	return blocked
}

// Render draws the maze with path marked, one line per row. The start and
// goal are always drawn as themselves.
func (m *Maze) Render(path []Loc) string {
	onPath := make(map[Loc]struct{}, len(path))
	for _, l := range path {
		onPath[l] = struct{}{}
	}

	var sb strings.Builder
	sb.Grow(m.Rows * (m.Cols + 1))
	for r, row := range m.grid {
		for c, cell := range row {
			if _, ok := onPath[Loc{Row: r, Col: c}]; ok && cell == Empty {
				cell = Path
			}
			sb.WriteString(cell.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String draws the maze without a path.
func (m *Maze) String() string {
	return m.Render(nil)
}
