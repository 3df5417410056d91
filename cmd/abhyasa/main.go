// Package main provides the CLI entrypoint for abhyasa.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/abhyasa/internal/app"
	"github.com/ayusman/abhyasa/internal/capture"
	"github.com/ayusman/abhyasa/internal/config"
	"github.com/ayusman/abhyasa/internal/cue"
	"github.com/ayusman/abhyasa/internal/log"
	"github.com/ayusman/abhyasa/internal/navigation"
	"github.com/ayusman/abhyasa/internal/server"
	"github.com/ayusman/abhyasa/internal/source"
	"github.com/ayusman/abhyasa/internal/store"
	"github.com/ayusman/abhyasa/internal/tray"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	defaultLogLevel = "info"
	noCamera        = -1
)

// options holds every flag of the run command.
type options struct {
	configPath string
	dbPath     string
	pluginDir  string
	noHooks    bool

	addr      string
	staticDir string

	bridge     string
	bridgeArgs []string
	replay     string
	noPacing   bool
	record     string
	camera     int
	mirror     bool
	smoothing  source.Smoothing

	errorMargin float64
	difficulty  float64
	repetitions int
	dwell       time.Duration

	lang     string
	tray     bool
	logLevel string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{smoothing: source.DefaultSmoothing()}
	defaults := config.DefaultSession()

	rootCmd := &cobra.Command{
		Use:          "abhyasa",
		Short:        "Guided exercises driven by skeleton tracking",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "TOML config file")
	pf.StringVar(&opts.dbPath, "db", config.DefaultDBPath(), "settings database")
	pf.StringVar(&opts.lang, "lang", cue.DefaultLang, "instruction language (es, en)")
	pf.StringVar(&opts.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	f := rootCmd.Flags()
	f.StringVar(&opts.addr, "addr", defaultAddr, "dashboard listen address")
	f.StringVar(&opts.staticDir, "static-dir", "", "dashboard static files (default: search ./web)")
	f.StringVar(&opts.pluginDir, "plugins", config.DefaultPluginDir(), "hook plugin directory")
	f.BoolVar(&opts.noHooks, "no-hooks", false, "disable hook plugins")

	f.StringVar(&opts.bridge, "bridge", "", "sensor bridge executable emitting JSON frames")
	f.StringSliceVar(&opts.bridgeArgs, "bridge-arg", nil, "extra bridge argument (repeatable)")
	f.StringVar(&opts.replay, "replay", "", "play a recorded session instead of the bridge")
	f.BoolVar(&opts.noPacing, "no-pacing", false, "replay as fast as possible")
	f.StringVar(&opts.record, "record", "", "record received frames to this file")
	f.IntVar(&opts.camera, "camera", noCamera, "color camera device for the overlay (-1 disables)")
	f.BoolVar(&opts.mirror, "mirror", true, "mirror the color camera")
	f.Float64Var(&opts.smoothing.Smoothing, "smoothing", opts.smoothing.Smoothing, "skeleton smoothing")
	f.Float64Var(&opts.smoothing.Correction, "correction", opts.smoothing.Correction, "skeleton correction")
	f.Float64Var(&opts.smoothing.Prediction, "prediction", opts.smoothing.Prediction, "skeleton prediction")
	f.Float64Var(&opts.smoothing.JitterRadius, "jitter-radius", opts.smoothing.JitterRadius, "jitter radius in meters")
	f.Float64Var(&opts.smoothing.MaxDeviationRadius, "max-deviation-radius", opts.smoothing.MaxDeviationRadius, "max deviation radius in meters")

	f.Float64Var(&opts.errorMargin, config.KeyErrorMargin, defaults.ErrorMargin, "pose error margin (0.1-0.9)")
	f.Float64Var(&opts.difficulty, config.KeyDifficulty, defaults.DifficultyFactor, "gesture difficulty factor (1.0-2.0)")
	f.IntVar(&opts.repetitions, config.KeyRepetitions, defaults.TargetRepetitions, "repetitions per exercise (3-20)")
	f.DurationVar(&opts.dwell, "dwell", defaults.DwellDuration, "dwell time to confirm a selection")

	f.BoolVar(&opts.tray, "tray", false, "show the system tray menu")

	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newMessagesCmd(opts))

	return rootCmd
}

func runApp(cmd *cobra.Command, opts *options) error {
	fileCfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, opts, fileCfg)
	log.Init(opts.logLevel)

	if err := opts.smoothing.Validate(); err != nil {
		return err
	}

	st, err := store.New(opts.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer st.Close()

	src, err := openSource(opts)
	if err != nil {
		return err
	}

	session := config.DefaultSession()
	if err := fileCfg.Session.Apply(&session); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	live := config.NewLive(session)

	overlay := capture.NewOverlay(opts.lang)
	hub := server.NewCueHub(opts.lang)
	appCfg := app.Config{
		Source:   src,
		Session:  live,
		Settings: st.Settings(),
		Lang:     opts.lang,
		Overlay:  overlay,
		Cues:     hub,
	}
	if !opts.noHooks {
		appCfg.PluginDir = opts.pluginDir
	}
	if opts.camera != noCamera {
		appCfg.Camera = capture.NewCamera(opts.camera, opts.mirror)
	}

	a := app.New(appCfg)
	if err := a.LoadSettings(); err != nil {
		log.Warn("failed to load stored settings", "err", err)
	}
	// flags given on the command line win over stored values
	applySessionFlags(cmd, opts, live)
	if err := a.DiscoverPlugins(); err != nil {
		log.Warn("failed to discover hooks", "err", err)
	}

	staticDir := opts.staticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	srv := server.New(server.Config{
		StaticDir: staticDir,
		Session:   live,
		Settings:  st.Settings(),
		State:     a,
		Cues:      hub,
		Stream:    overlay,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe(opts.addr) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("dashboard shutdown", "err", err)
		}
	}()

	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}
	defer a.Stop()

	if opts.tray {
		runTray(ctx, a, live, dashboardURL(opts.addr))
		return a.Err()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case <-a.Done():
	case err := <-srvErr:
		if err != nil {
			return fmt.Errorf("dashboard failed: %w", err)
		}
	}
	return a.Err()
}

// runTray blocks on the tray loop, which must own the main thread on macOS.
func runTray(ctx context.Context, a *app.App, live *config.Live, url string) {
	tr := tray.New()
	tr.OnToggle(a.SetEnabled)
	tr.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			log.Warn("failed to open dashboard", "url", url, "err", err)
		}
	})
	a.OnTick(func(st navigation.State) {
		tr.SetStatus(st, live.Snapshot().TargetRepetitions)
	})

	go func() {
		select {
		case <-ctx.Done():
		case <-a.Done():
		}
		tr.Quit()
	}()
	tr.Run()
}

// openSource picks the replay file when given, otherwise the bridge.
func openSource(opts *options) (source.Source, error) {
	var (
		src source.Source
		err error
	)
	switch {
	case opts.replay != "":
		var ropts []source.ReplayOption
		if opts.noPacing {
			ropts = append(ropts, source.WithoutPacing())
		}
		src, err = source.OpenReplay(opts.replay, ropts...)
	case opts.bridge != "":
		src, err = source.NewProcessSource(source.BridgeConfig{
			Command:   opts.bridge,
			Args:      opts.bridgeArgs,
			Smoothing: opts.smoothing,
		})
	default:
		return nil, errors.New("no frame source: set --bridge or --replay")
	}
	if err != nil {
		return nil, err
	}

	if opts.record == "" {
		return src, nil
	}
	rec, err := source.CreateRecording(opts.record)
	if err != nil {
		src.Close()
		return nil, err
	}
	log.Info("recording frames", "path", opts.record)
	return &recordingSource{Source: src, rec: rec}, nil
}

// recordingSource writes every delivered skeleton to a recording.
type recordingSource struct {
	source.Source
	rec *source.Recorder
}

func (r *recordingSource) Next(ctx context.Context) (*source.Capture, error) {
	c, err := r.Source.Next(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.rec.Write(c.Skeleton); err != nil {
		log.Warn("failed to record frame", "err", err)
	}
	return c, nil
}

func (r *recordingSource) Close() error {
	err := r.Source.Close()
	if cerr := r.rec.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func applyFileConfig(cmd *cobra.Command, opts *options, c config.FileConfig) {
	applyString(cmd, "addr", &opts.addr, c.Server.Addr)
	applyString(cmd, "static-dir", &opts.staticDir, c.Server.StaticDir)
	applyString(cmd, "bridge", &opts.bridge, c.Source.Bridge)
	if len(c.Source.BridgeArgs) > 0 && !cmd.Flags().Changed("bridge-arg") {
		opts.bridgeArgs = c.Source.BridgeArgs
	}
	applyString(cmd, "replay", &opts.replay, c.Source.Replay)
	applyInt(cmd, "camera", &opts.camera, c.Source.Camera)
	applyFloat(cmd, "smoothing", &opts.smoothing.Smoothing, c.Source.Smoothing)
	applyFloat(cmd, "correction", &opts.smoothing.Correction, c.Source.Correction)
	applyFloat(cmd, "prediction", &opts.smoothing.Prediction, c.Source.Prediction)
	applyFloat(cmd, "jitter-radius", &opts.smoothing.JitterRadius, c.Source.JitterRadius)
	applyFloat(cmd, "max-deviation-radius", &opts.smoothing.MaxDeviationRadius, c.Source.MaxDeviationRadius)
	applyString(cmd, "lang", &opts.lang, c.UI.Lang)
	applyBool(cmd, "tray", &opts.tray, c.UI.Tray)
	applyString(cmd, "log-level", &opts.logLevel, c.UI.LogLevel)
}

// applySessionFlags overrides the live session with explicitly set flags.
func applySessionFlags(cmd *cobra.Command, opts *options, live *config.Live) {
	s := live.Snapshot()
	flags := cmd.Flags()
	if flags.Changed(config.KeyErrorMargin) {
		s.SetErrorMargin(opts.errorMargin)
	}
	if flags.Changed(config.KeyDifficulty) {
		s.SetDifficultyFactor(opts.difficulty)
	}
	if flags.Changed(config.KeyRepetitions) {
		s.SetTargetRepetitions(opts.repetitions)
	}
	if flags.Changed("dwell") && opts.dwell > 0 {
		s.DwellDuration = opts.dwell
	}
	live.Replace(s)
}

func applyString(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloat(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBool(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// findWebDir searches for the dashboard directory next to the working
// directory and under the data home. It returns "" when none exists.
func findWebDir() string {
	candidates := []string{"web", "../web", filepath.Join(config.XDGDataHome(), "abhyasa", "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func dashboardURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	return exec.Command(name, url).Start()
}
