// Package publish streams search frames to an external viewer while a run
// is in progress. Publishing is strictly an application-layer concern: the
// search engine never knows a publisher exists.
package publish

import (
	"context"
	"sync"

	"github.com/specialistvlad/mazesearch/internal/maze"
)

// Frame is one step of a search as seen by a viewer: the path to the node
// being expanded (instrumented runs) or the final solution (plain runs).
type Frame struct {
	Algorithm string
	Index     int // position of this frame in the run, from 0
	Total     int // number of frames in the run
	Path      []maze.Loc
	Solved    bool // set on the last frame of a run that reached the goal
}

// Payload converts the frame into plain maps and slices that any JSON-style
// transport can encode.
func (f Frame) Payload() map[string]any {
	path := make([][2]int, len(f.Path))
	for i, l := range f.Path {
		path[i] = [2]int{l.Row, l.Col}
	}
	return map[string]any{
		"algorithm": f.Algorithm,
		"index":     f.Index,
		"total":     f.Total,
		"path":      path,
		"solved":    f.Solved,
	}
}

// Publisher delivers frames to a viewer.
type Publisher interface {
	Publish(ctx context.Context, frame Frame) error
	Close() error
}

// Nop discards every frame.
type Nop struct{}

func (Nop) Publish(context.Context, Frame) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps every published frame in memory.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
	closed bool
}

// Publish appends frame unless ctx is already done.
func (r *Recorder) Publish(ctx context.Context, frame Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return nil
}

// Close marks the recorder closed. Frames stay readable.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Closed reports whether Close has been called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
