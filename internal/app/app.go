// Package app wires the frame source, the navigation controller and the
// output sinks into the running exercise pipeline.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ayusman/abhyasa/internal/capture"
	"github.com/ayusman/abhyasa/internal/config"
	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/log"
	"github.com/ayusman/abhyasa/internal/navigation"
	"github.com/ayusman/abhyasa/internal/plugin"
	"github.com/ayusman/abhyasa/internal/source"
	"github.com/ayusman/abhyasa/internal/store"
)

// DefaultHookTimeout bounds a single hook invocation.
const DefaultHookTimeout = 5 * time.Second

// CueSink receives the cue frame produced by every tick. Broadcast must not
// block.
type CueSink interface {
	Broadcast(f cue.Frame)
}

// Config holds configuration options for the application.
type Config struct {
	Source  source.Source
	Session *config.Live

	// Settings, if set, holds persisted parameters applied by LoadSettings.
	Settings *store.SettingsRepository

	// PluginDir enables hooks when not empty.
	PluginDir   string
	HookTimeout time.Duration
	Lang        string

	// Optional sinks.
	Overlay *capture.Overlay
	Camera  capture.Camera
	Cues    CueSink
}

// App is the main application that turns skeleton frames into navigation
// ticks, cues and hook notifications.
type App struct {
	config     Config
	controller *navigation.Controller
	pluginMgr  *plugin.Manager
	dispatcher *plugin.Dispatcher
	now        func() time.Time

	mu      sync.RWMutex
	enabled bool
	resumed bool
	state   navigation.State
	cancel  context.CancelFunc
	done    chan struct{}
	err     error

	onTick  func(navigation.State)
	onEvent func(navigation.Event)
}

// New creates a new App. The session defaults are used when config.Session
// is nil.
func New(cfg Config) *App {
	if cfg.Session == nil {
		cfg.Session = config.NewLive(config.DefaultSession())
	}
	if cfg.HookTimeout <= 0 {
		cfg.HookTimeout = DefaultHookTimeout
	}
	if cfg.Lang == "" {
		cfg.Lang = cue.DefaultLang
	}

	a := &App{
		config:     cfg,
		controller: navigation.New(cfg.Source.Projector()),
		enabled:    true,
		now:        time.Now,
	}
	a.state = a.controller.State()

	if cfg.PluginDir != "" {
		a.pluginMgr = plugin.NewManager(cfg.PluginDir)
		a.dispatcher = plugin.NewDispatcher(a.pluginMgr, plugin.NewExecutor(cfg.HookTimeout), plugin.DefaultQueueSize)
	}
	return a
}

// LoadSettings applies the persisted parameters to the live session.
// Entries that no longer parse are skipped.
func (a *App) LoadSettings() error {
	if a.config.Settings == nil {
		return nil
	}
	values, err := a.config.Settings.All()
	if err != nil {
		return err
	}
	for key, value := range values {
		if _, err := a.config.Session.Set(key, value); err != nil {
			log.Warn("ignoring stored setting", "key", key, "value", value, "err", err)
			continue
		}
		log.Debug("stored setting applied", "key", key, "value", value)
	}
	return nil
}

// DiscoverPlugins scans the plugin directory and loads available hooks.
func (a *App) DiscoverPlugins() error {
	if a.pluginMgr == nil {
		return nil
	}
	if err := a.pluginMgr.Discover(); err != nil {
		return err
	}
	log.Info("hooks discovered", "count", len(a.pluginMgr.List()), "dir", a.pluginMgr.PluginDir())
	return nil
}

// Start begins the pipeline. It returns immediately; use Done to wait for
// the source to be exhausted.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.cancel != nil {
		return nil
	}

	if a.config.Camera != nil {
		if err := a.config.Camera.Open(); err != nil {
			return err
		}
	}

	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})
	a.err = nil

	if a.dispatcher != nil {
		a.dispatcher.Start(ctx)
	}
	go a.run(ctx, a.done)

	log.Info("pipeline started")
	return nil
}

// Stop halts the pipeline and releases the source, the camera and pending
// hooks. It is safe to call more than once.
func (a *App) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel = nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}
	if a.config.Camera != nil {
		if err := a.config.Camera.Close(); err != nil {
			log.Warn("error closing camera", "err", err)
		}
	}
	if err := a.config.Source.Close(); err != nil && !errors.Is(err, source.ErrSourceClosed) {
		log.Warn("error closing source", "err", err)
	}
	log.Info("pipeline stopped")
}

// Done is closed when the pipeline exits, either because the source is
// exhausted or because Stop was called. It is nil before Start.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.done
}

// Err returns the error that ended the pipeline, if any. End of input is
// not an error.
func (a *App) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

// SetEnabled pauses or resumes the pipeline. Paused frames are read and
// dropped. On resume any dwell hover is restarted before the next tick.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled != enabled {
		log.Info("pipeline enabled changed", "enabled", enabled)
		if enabled {
			a.resumed = true
		}
	}
	a.enabled = enabled
}

// IsEnabled returns whether frames are being processed.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Paused is the inverse of IsEnabled.
func (a *App) Paused() bool {
	return !a.IsEnabled()
}

// State returns the navigation snapshot taken after the last tick.
func (a *App) State() navigation.State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Session returns the live session parameters.
func (a *App) Session() *config.Live {
	return a.config.Session
}

// PluginManager returns the hook manager, or nil when hooks are disabled.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// OnTick sets a callback run after every processed frame, from the pipeline
// goroutine. It must return quickly.
func (a *App) OnTick(fn func(navigation.State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onTick = fn
}

// OnEvent sets a callback run for every navigation event, from the pipeline
// goroutine. It must return quickly.
func (a *App) OnEvent(fn func(navigation.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = fn
}
