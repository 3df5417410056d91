package plugin

import (
	"context"
	"sync"

	"github.com/ayusman/abhyasa/internal/log"
)

// DefaultQueueSize bounds the number of pending notifications.
const DefaultQueueSize = 32

// Dispatcher delivers requests to subscribed hooks from a background
// goroutine. Notify never blocks: when the queue is full the request is
// dropped and logged.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	queue    chan Request

	wg     sync.WaitGroup
	cancel context.CancelFunc

	// OnResult, if set, is called after every invocation.
	OnResult func(p *Plugin, req Request, resp *Response, err error)
}

// NewDispatcher creates a dispatcher; call Start before Notify.
func NewDispatcher(m *Manager, e *Executor, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		manager:  m,
		executor: e,
		queue:    make(chan Request, queueSize),
	}
}

// Start launches the delivery goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.wg.Add(1)
	go d.run(ctx)
}

// Stop cancels in-flight hooks and waits for the delivery goroutine.
// Pending requests are discarded.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

// Notify queues req for every subscriber of req.Event. It reports whether
// the request was queued.
func (d *Dispatcher) Notify(req Request) bool {
	if len(d.manager.Subscribers(req.Event)) == 0 {
		return false
	}
	select {
	case d.queue <- req:
		return true
	default:
		log.Warn("hook queue full, dropping event", "event", req.Event)
		return false
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-d.queue:
			for _, p := range d.manager.Subscribers(req.Event) {
				resp, err := d.executor.Execute(ctx, p, req)
				switch {
				case err != nil:
					log.Warn("hook failed", "plugin", p.Manifest.Name, "event", req.Event, "err", err)
				case !resp.Success:
					log.Warn("hook reported failure", "plugin", p.Manifest.Name, "event", req.Event, "error", resp.Error)
				default:
					log.Debug("hook done", "plugin", p.Manifest.Name, "event", req.Event)
				}
				if d.OnResult != nil {
					d.OnResult(p, req, resp, err)
				}
			}
		}
	}
}
