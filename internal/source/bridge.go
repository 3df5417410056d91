package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/log"
)

// maxLine bounds one JSON frame from the bridge.
const maxLine = 64 * 1024

// BridgeConfig configures the sensor bridge subprocess.
type BridgeConfig struct {
	Command   string
	Args      []string
	Smoothing Smoothing
}

// ProcessSource runs a sensor bridge executable and reads one JSON frame per
// line from its stdout. The process is started lazily on the first Next.
type ProcessSource struct {
	config BridgeConfig

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	lines   chan []byte
	done    chan struct{}
	quit    chan struct{}
	readErr error
	started bool
	closed  bool
}

// NewProcessSource validates the configuration and returns an idle source.
func NewProcessSource(config BridgeConfig) (*ProcessSource, error) {
	if config.Command == "" {
		return nil, fmt.Errorf("bridge command is empty")
	}
	if _, err := exec.LookPath(config.Command); err != nil {
		return nil, fmt.Errorf("bridge %q not found: %w", config.Command, err)
	}
	if err := config.Smoothing.Validate(); err != nil {
		return nil, fmt.Errorf("bridge smoothing: %w", err)
	}
	return &ProcessSource{config: config, quit: make(chan struct{})}, nil
}

// Next returns the next frame written by the bridge.
func (p *ProcessSource) Next(ctx context.Context) (*Capture, error) {
	lines, done, err := p.ensureStarted()
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case line, ok := <-lines:
		if !ok {
			<-done
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.closed {
				return nil, ErrSourceClosed
			}
			if p.readErr != nil {
				return nil, p.readErr
			}
			return nil, io.EOF
		}
		f, err := DecodeFrame(line)
		if err != nil {
			return nil, err
		}
		return &Capture{Skeleton: f}, nil
	}
}

// Projector returns the depth camera projection.
func (p *ProcessSource) Projector() cue.Projector {
	return cue.DefaultPinhole
}

// Close stops the bridge process.
func (p *ProcessSource) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.quit)
	return p.shutdown()
}

func (p *ProcessSource) ensureStarted() (<-chan []byte, <-chan struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, nil, ErrSourceClosed
	}
	if p.started {
		return p.lines, p.done, nil
	}

	args := append(append([]string{}, p.config.Args...), p.config.Smoothing.Args()...)
	p.cmd = exec.Command(p.config.Command, args...)

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	p.cmd.Stderr = os.Stderr

	if err := p.cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("start bridge: %w", err)
	}
	log.Info("bridge started", "command", p.config.Command, "pid", p.cmd.Process.Pid)

	p.stdout = stdout
	p.lines = make(chan []byte)
	p.done = make(chan struct{})
	p.started = true
	go p.read(stdout, p.lines, p.done)

	return p.lines, p.done, nil
}

func (p *ProcessSource) read(r io.Reader, lines chan<- []byte, done chan<- struct{}) {
	defer close(done)
	defer close(lines)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	for sc.Scan() {
		line := append([]byte(nil), sc.Bytes()...)
		if len(line) == 0 {
			continue
		}
		select {
		case lines <- line:
		case <-p.quit:
			return
		}
	}
	if err := sc.Err(); err != nil {
		p.mu.Lock()
		p.readErr = fmt.Errorf("read bridge output: %w", err)
		p.mu.Unlock()
	}
}

func (p *ProcessSource) shutdown() error {
	if !p.started {
		return nil
	}
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	err := p.cmd.Wait()
	p.started = false
	p.cmd = nil
	p.stdout = nil
	if _, ok := err.(*exec.ExitError); ok {
		// killed on purpose
		return nil
	}
	return err
}
