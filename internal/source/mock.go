package source

import (
	"context"
	"io"
	"sync"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/skeleton"
)

// MockSource is a test implementation of the Source interface. It plays the
// configured frames in order and then reports io.EOF.
type MockSource struct {
	mu     sync.Mutex
	frames []skeleton.Frame
	next   int
	err    error
	closed bool
}

// NewMockSource creates a MockSource that yields frames.
func NewMockSource(frames ...skeleton.Frame) *MockSource {
	return &MockSource{frames: frames}
}

// SetFrames replaces the remaining frames.
func (m *MockSource) SetFrames(frames []skeleton.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = frames
	m.next = 0
}

// SetError sets the error that will be returned by Next.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Next returns the next configured frame.
func (m *MockSource) Next(ctx context.Context) (*Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrSourceClosed
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.next >= len(m.frames) {
		return nil, io.EOF
	}
	f := m.frames[m.next]
	m.next++
	return &Capture{Skeleton: f}, nil
}

// Projector returns the default pinhole projection.
func (m *MockSource) Projector() cue.Projector {
	return cue.DefaultPinhole
}

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
