// Package plugin discovers hook executables and notifies them of exercise
// events.
package plugin

import (
	"encoding/json"
	"time"
)

// Manifest describes a hook and the events it subscribes to.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Subscribes reports whether the manifest lists event. "*" matches every
// event.
func (m Manifest) Subscribes(event string) bool {
	for _, e := range m.Events {
		if e == event || e == "*" {
			return true
		}
	}
	return false
}

// Request is written to the hook's stdin as JSON.
type Request struct {
	Event       string          `json:"event"`
	Exercise    string          `json:"exercise,omitempty"`
	Run         string          `json:"run,omitempty"`
	Repetitions int             `json:"repetitions"`
	Target      int             `json:"target"`
	Lang        string          `json:"lang,omitempty"`
	Time        time.Time       `json:"time"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Response is read from the hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered hook with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
