// Package tracelog reads and writes the plain-text log a search run leaves
// behind: the maze layout plus either the solution path or, for
// instrumented runs, every path the search expanded.
//
// The format is one "key: value" pair per line:
//
//	rows: 32
//	cols: 64
//	ini: (0,0)
//	end: (31,63)
//	blocked: (0,5) (1,2)
//	path: (0,0) (1,0) (2,0)
//	paths: [(0,0)][(0,0)(1,0)]
package tracelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/specialistvlad/mazesearch/internal/maze"
	"github.com/specialistvlad/mazesearch/internal/search"
)

var (
	// ErrMalformed is returned when a log line cannot be parsed.
	ErrMalformed = errors.New("malformed trace log")

	// ErrInvalidRecord is returned when a parsed log does not describe a
	// usable maze.
	ErrInvalidRecord = errors.New("invalid trace record")
)

// Record is the content of one trace log.
type Record struct {
	Rows    int
	Cols    int
	Start   maze.Loc
	Goal    maze.Loc
	Blocked []maze.Loc
	Path    []maze.Loc   // solution of a plain run
	Paths   [][]maze.Loc // expansion trace of an instrumented run
}

// FromSolution builds the record of a plain run.
func FromSolution(m *maze.Maze, path []maze.Loc) *Record {
	rec := fromMaze(m)
	rec.Path = path
	return rec
}

// FromTrace builds the record of an instrumented run.
func FromTrace(m *maze.Maze, paths search.Paths[maze.Loc]) *Record {
	rec := fromMaze(m)
	rec.Paths = paths
	return rec
}

func fromMaze(m *maze.Maze) *Record {
	return &Record{
		Rows:    m.Rows,
		Cols:    m.Cols,
		Start:   m.Start,
		Goal:    m.Goal,
		Blocked: m.Blocked(),
	}
}

// Maze rebuilds the maze layout described by the record.
func (r *Record) Maze() (*maze.Maze, error) {
	return maze.FromBlocked(r.Rows, r.Cols, r.Start, r.Goal, r.Blocked)
}

// Validate checks that the record describes a non-empty maze with distinct
// endpoints.
func (r *Record) Validate() error {
	if r.Rows <= 0 || r.Cols <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidRecord, r.Rows, r.Cols)
	}
	if r.Start == r.Goal {
		return fmt.Errorf("%w: ini and end are both %s", ErrInvalidRecord, r.Start)
	}
	return nil
}

// Write serialises rec. Paths is written when present, otherwise Path.
func Write(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "rows: %d\n", rec.Rows)
	fmt.Fprintf(bw, "cols: %d\n", rec.Cols)
	fmt.Fprintf(bw, "ini: %s\n", rec.Start)
	fmt.Fprintf(bw, "end: %s\n", rec.Goal)
	fmt.Fprintf(bw, "blocked: %s\n", joinLocs(rec.Blocked, " "))

	if rec.Paths != nil {
		bw.WriteString("paths: ")
		for _, p := range rec.Paths {
			bw.WriteString("[" + joinLocs(p, "") + "]")
		}
		bw.WriteString("\n")
	} else {
		fmt.Fprintf(bw, "path: %s\n", joinLocs(rec.Path, " "))
	}
	return bw.Flush()
}

func joinLocs(locs []maze.Loc, sep string) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.String()
	}
	return strings.Join(parts, sep)
}

// FileName returns the log path for one algorithm's run under dir.
func FileName(dir string, alg search.Algorithm, instrumented bool) string {
	if instrumented {
		return filepath.Join(dir, fmt.Sprintf("graph-instrumented-%s.log", alg))
	}
	return filepath.Join(dir, fmt.Sprintf("graph-%s.log", alg))
}

// WriteFile writes rec to path, replacing any previous content.
func WriteFile(path string, rec *Record) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open trace log %s: %w", path, err)
	}
	if err := Write(f, rec); err != nil {
		f.Close()
		return fmt.Errorf("failed to write trace log %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile parses the trace log at path.
func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace log %s: %w", path, err)
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trace log %s: %w", path, err)
	}
	return rec, nil
}

// Parse reads a trace log and validates the result. Blank lines are
// ignored; unknown keys are an error.
func Parse(r io.Reader) (*Record, error) {
	rec := &Record{}
	scanner := bufio.NewScanner(r)
	// Instrumented traces put every expansion on one line.
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := parseLine(line, rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func parseLine(line string, rec *Record) error {
	key, val, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("%w: expected \"key: value\", got %q", ErrMalformed, line)
	}
	key = strings.TrimSpace(key)
	p := &parser{src: strings.TrimSpace(val)}

	var err error
	switch key {
	case "rows":
		rec.Rows, err = p.number()
	case "cols":
		rec.Cols, err = p.number()
	case "ini":
		rec.Start, err = p.point()
	case "end":
		rec.Goal, err = p.point()
	case "blocked":
		rec.Blocked, err = p.points()
	case "path":
		rec.Path, err = p.points()
	case "paths":
		rec.Paths, err = p.paths()
	default:
		return fmt.Errorf("%w: unknown key %q", ErrMalformed, key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return p.end()
}

// parser is a cursor over one value. Whitespace between tokens is ignored.
type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() (byte, bool) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) expect(c byte) error {
	got, ok := p.peek()
	if !ok {
		return fmt.Errorf("%w: expected %q but reached end of %q", ErrMalformed, c, p.src)
	}
	if got != c {
		return fmt.Errorf("%w: expected %q but got %q at offset %d of %q", ErrMalformed, c, got, p.pos, p.src)
	}
	p.pos++
	return nil
}

func (p *parser) end() error {
	if _, ok := p.peek(); ok {
		return fmt.Errorf("%w: unexpected characters %q", ErrMalformed, p.src[p.pos:])
	}
	return nil
}

func (p *parser) number() (int, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, fmt.Errorf("%w: bad number at offset %d of %q", ErrMalformed, start, p.src)
	}
	return n, nil
}

// point parses "(row,col)".
func (p *parser) point() (maze.Loc, error) {
	var l maze.Loc
	var err error
	if err = p.expect('('); err != nil {
		return l, err
	}
	if l.Row, err = p.number(); err != nil {
		return l, err
	}
	if err = p.expect(','); err != nil {
		return l, err
	}
	if l.Col, err = p.number(); err != nil {
		return l, err
	}
	return l, p.expect(')')
}

// points parses zero or more points, optionally separated by whitespace.
func (p *parser) points() ([]maze.Loc, error) {
	var locs []maze.Loc
	for {
		c, ok := p.peek()
		if !ok || c != '(' {
			return locs, nil
		}
		l, err := p.point()
		if err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
}

// paths parses "[points][points]...".
func (p *parser) paths() ([][]maze.Loc, error) {
	paths := [][]maze.Loc{}
	for {
		c, ok := p.peek()
		if !ok || c != '[' {
			return paths, nil
		}
		p.pos++
		locs, err := p.points()
		if err != nil {
			return nil, err
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		paths = append(paths, locs)
	}
}
