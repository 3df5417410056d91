package capture

import (
	"image/color"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera serves solid-color frames for tests and for running without a
// color device.
type MockCamera struct {
	mu    sync.Mutex
	fill  color.RGBA
	open  bool
	reads int
}

// NewMockCamera creates a camera that produces frames filled with c.
func NewMockCamera(c color.RGBA) *MockCamera {
	return &MockCamera{fill: c}
}

func (m *MockCamera) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	return nil
}

func (m *MockCamera) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

// ReadFrame returns a new Width x Height BGR frame.
func (m *MockCamera) ReadFrame() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return nil, ErrCameraNotOpen
	}
	m.reads++
	s := gocv.NewScalar(float64(m.fill.B), float64(m.fill.G), float64(m.fill.R), 0)
	mat := gocv.NewMatWithSizeFromScalar(s, Height, Width, gocv.MatTypeCV8UC3)
	return &mat, nil
}

func (m *MockCamera) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Reads returns how many frames were served.
func (m *MockCamera) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}
