package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

// ReplaySource plays back a file of JSON frame lines, pacing delivery by the
// recorded timestamps. Each frame is re-stamped with the playback time so
// dwell timers behave as they did live.
type ReplaySource struct {
	mu       sync.Mutex
	f        io.Closer
	sc       *bufio.Scanner
	closed   bool
	realtime bool

	first   time.Time // first recorded timestamp
	started time.Time // wall clock at first delivery
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// ReplayOption configures a ReplaySource.
type ReplayOption func(*ReplaySource)

// WithoutPacing delivers frames as fast as they are read while keeping the
// recorded timestamps.
func WithoutPacing() ReplayOption {
	return func(r *ReplaySource) { r.realtime = false }
}

// OpenReplay opens a recording written by Recorder or captured from the
// bridge.
func OpenReplay(path string, opts ...ReplayOption) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	r := NewReplay(f, opts...)
	r.f = f
	return r, nil
}

// NewReplay plays frames read from rd.
func NewReplay(rd io.Reader, opts ...ReplayOption) *ReplaySource {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	r := &ReplaySource{
		sc:       sc,
		realtime: true,
		now:      time.Now,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next recorded frame, waiting until its offset from the
// first frame has elapsed. It returns io.EOF at the end of the recording.
func (r *ReplaySource) Next(ctx context.Context) (*Capture, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrSourceClosed
	}
	f, err := r.scan()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if !r.realtime || f.Timestamp.IsZero() {
		return &Capture{Skeleton: f}, nil
	}

	if r.first.IsZero() {
		r.first = f.Timestamp
		r.started = r.now()
	}
	offset := f.Timestamp.Sub(r.first)
	if wait := r.started.Add(offset).Sub(r.now()); wait > 0 {
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	f.Timestamp = r.started.Add(offset)
	return &Capture{Skeleton: f}, nil
}

func (r *ReplaySource) scan() (skeleton.Frame, error) {
	for r.sc.Scan() {
		line := r.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		return DecodeFrame(line)
	}
	if err := r.sc.Err(); err != nil {
		return skeleton.Frame{}, fmt.Errorf("read replay: %w", err)
	}
	return skeleton.Frame{}, io.EOF
}

// Projector returns the depth camera projection.
func (r *ReplaySource) Projector() cue.Projector {
	return cue.DefaultPinhole
}

// Close closes the underlying file, if any.
func (r *ReplaySource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Recorder writes frames in the replay line format.
type Recorder struct {
	mu sync.Mutex
	w  *bufio.Writer
	c  io.Closer
}

// CreateRecording creates path and returns a Recorder writing to it.
func CreateRecording(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	return &Recorder{w: bufio.NewWriter(f), c: f}, nil
}

// NewRecorder writes frames to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: bufio.NewWriter(w)}
}

// Write appends one frame.
func (r *Recorder) Write(f skeleton.Frame) error {
	line, err := EncodeFrame(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.w.Write(line); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Close flushes buffered frames and closes the file created by
// CreateRecording.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.w.Flush(); err != nil {
		return err
	}
	if r.c != nil {
		return r.c.Close()
	}
	return nil
}
