// Package main provides a hook that speaks exercise progress on macOS.
// It uses `say` for spoken counts and `afplay` for system sounds.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Request represents the input from the hook executor.
type Request struct {
	Event       string          `json:"event"`
	Exercise    string          `json:"exercise"`
	Run         string          `json:"run"`
	Repetitions int             `json:"repetitions"`
	Target      int             `json:"target"`
	Lang        string          `json:"lang"`
	Time        time.Time       `json:"time"`
	Config      json.RawMessage `json:"config"`
}

// Response represents the output to the hook executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config is the "config" block of plugin.json.
type Config struct {
	Voice  string `json:"voice"`
	Sounds bool   `json:"sounds"`
}

const soundDir = "/System/Library/Sounds/"

var phrases = map[string]map[string]string{
	"es": {
		"repetition":         "%d de %d",
		"exercise-completed": "Ejercicio completado",
		"exercise-started":   "Empezamos",
	},
	"en": {
		"repetition":         "%d of %d",
		"exercise-completed": "Exercise complete",
		"exercise-started":   "Let's begin",
	},
}

var sounds = map[string]string{
	"repetition-broken":  "Basso.aiff",
	"exercise-cancelled": "Funk.aiff",
	"tracking-lost":      "Tink.aiff",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	cfg := Config{Sounds: true}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	if err := handle(req, cfg); err != nil {
		writeErrorResponse(fmt.Sprintf("event %s failed: %v", req.Event, err))
		return
	}
	writeSuccessResponse()
}

func handle(req Request, cfg Config) error {
	if name, ok := sounds[req.Event]; ok {
		if !cfg.Sounds {
			return nil
		}
		return run("afplay", soundDir+name)
	}

	byLang, ok := phrases[req.Lang]
	if !ok {
		byLang = phrases["es"]
	}
	phrase, ok := byLang[req.Event]
	if !ok {
		return fmt.Errorf("unsupported event")
	}
	if req.Event == "repetition" {
		phrase = fmt.Sprintf(phrase, req.Repetitions, req.Target)
	}

	args := []string{phrase}
	if cfg.Voice != "" {
		args = append([]string{"-v", cfg.Voice}, args...)
	}
	return run("say", args...)
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}
