// Package replay animates a recorded trace log in the terminal, one frame
// per expanded path, so a search can be watched after the fact.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/specialistvlad/mazesearch/internal/ctxlog"
	"github.com/specialistvlad/mazesearch/internal/maze"
	"github.com/specialistvlad/mazesearch/internal/tracelog"
)

// DefaultDelay is the pause between frames.
const DefaultDelay = 50 * time.Millisecond

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// ErrNothingToPlay is returned for a record with neither a trace nor a
// solution path.
var ErrNothingToPlay = errors.New("trace log has no paths to replay")

// Player writes frames to Out.
type Player struct {
	Out   io.Writer
	Delay time.Duration
	// ClearScreen emits an ANSI clear before every frame.
	ClearScreen bool
}

// Play renders every path in rec. A plain-run record is shown as a single
// frame of its solution path. Play stops early with ctx.Err() when ctx is
// cancelled.
func (p *Player) Play(ctx context.Context, rec *tracelog.Record) error {
	logger := ctxlog.FromContext(ctx)

	frames := rec.Paths
	if len(frames) == 0 {
		if len(rec.Path) == 0 {
			return ErrNothingToPlay
		}
		frames = [][]maze.Loc{rec.Path}
	}

	m, err := rec.Maze()
	if err != nil {
		return fmt.Errorf("failed to rebuild maze from trace: %w", err)
	}
	logger.Debug("Replaying trace.", "frames", len(frames), "rows", rec.Rows, "cols", rec.Cols)

	for i, path := range frames {
		if i > 0 && p.Delay > 0 {
			timer := time.NewTimer(p.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := p.frame(m, i, len(frames), path); err != nil {
			return err
		}
	}
	logger.Debug("Replay finished.")
	return nil
}

func (p *Player) frame(m *maze.Maze, idx, total int, path []maze.Loc) error {
	prefix := ""
	if p.ClearScreen {
		prefix = clearScreen
	}
	_, err := fmt.Fprintf(p.Out, "%sframe %d/%d\n%s\n%s", prefix, idx+1, total, m.Render(path), legend)
	return err
}

var legend = fmt.Sprintf("Legend\n%s starting point\n%s goal\n%s unexplored\n%s path\n%s blocked\n",
	maze.Start, maze.Goal, maze.Empty, maze.Path, maze.Blocked)
