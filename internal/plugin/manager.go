package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ayusman/abhyasa/internal/log"
)

// ManifestFile is the manifest name inside each plugin directory.
const ManifestFile = "plugin.json"

var (
	// ErrPluginNotFound is returned when a requested plugin cannot be found.
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrInvalidManifest is returned by LoadPlugin for unusable manifests.
	ErrInvalidManifest = errors.New("invalid plugin manifest")
)

// Manager keeps the hooks found in one directory, one per subdirectory.
type Manager struct {
	pluginDir string
	plugins   map[string]*Plugin
	mu        sync.RWMutex
}

// NewManager creates a Manager for pluginDir. Call Discover to load it.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// LoadPlugin reads dir/plugin.json and checks that the manifest names an
// executable inside dir and at least one event.
func LoadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	switch {
	case manifest.Name == "":
		return nil, fmt.Errorf("%w: missing name", ErrInvalidManifest)
	case manifest.Executable == "":
		return nil, fmt.Errorf("%w: missing executable", ErrInvalidManifest)
	case len(manifest.Events) == 0:
		return nil, fmt.Errorf("%w: %s subscribes to no events", ErrInvalidManifest, manifest.Name)
	}

	exe := filepath.Join(dir, manifest.Executable)
	info, err := os.Stat(exe)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidManifest, exe)
	}
	return &Plugin{Manifest: manifest, Path: dir, Executable: exe}, nil
}

// Discover replaces the loaded hooks with the valid plugins under the
// plugin directory. A missing directory yields no hooks; directories
// without a manifest are ignored and invalid ones are logged.
func (m *Manager) Discover() error {
	entries, err := os.ReadDir(m.pluginDir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read plugin dir: %w", err)
	}

	found := make(map[string]*Plugin, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.pluginDir, entry.Name())
		p, err := LoadPlugin(dir)
		switch {
		case err == nil:
			if prev, dup := found[p.Manifest.Name]; dup {
				log.Warn("duplicate plugin name, keeping first", "name", p.Manifest.Name, "kept", prev.Path, "skipped", dir)
				continue
			}
			found[p.Manifest.Name] = p
		case errors.Is(err, fs.ErrNotExist):
		default:
			log.Warn("skipping plugin", "dir", dir, "err", err)
		}
	}

	m.mu.Lock()
	m.plugins = found
	m.mu.Unlock()
	return nil
}

// Get returns a plugin by name.
// Returns ErrPluginNotFound if the plugin does not exist.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return plugin, nil
}

// List returns all discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, p := range m.plugins {
		plugins = append(plugins, p)
	}
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].Manifest.Name < plugins[j].Manifest.Name })
	return plugins
}

// Subscribers returns the plugins subscribed to event, sorted by name.
func (m *Manager) Subscribers(event string) []*Plugin {
	var out []*Plugin
	for _, p := range m.List() {
		if p.Manifest.Subscribes(event) {
			out = append(out, p)
		}
	}
	return out
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
