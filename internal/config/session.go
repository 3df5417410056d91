// Package config holds the session parameters, the TOML file config and XDG paths.
package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Parameter keys accepted by Session.Set.
const (
	KeyErrorMargin = "error-margin"
	KeyDifficulty  = "difficulty"
	KeyRepetitions = "repetitions"
)

// Parameter ranges and defaults.
const (
	MinErrorMargin     = 0.1
	MaxErrorMargin     = 0.9
	DefaultErrorMargin = 0.2

	MinDifficulty     = 1.0
	MaxDifficulty     = 2.0
	DefaultDifficulty = 1.6

	MinRepetitions     = 3
	MaxRepetitions     = 20
	DefaultRepetitions = 10

	DefaultDwell = 3 * time.Second
)

var (
	// ErrMalformedValue is returned when a parameter value is not a finite number.
	ErrMalformedValue = errors.New("malformed parameter value")
	// ErrUnknownParameter is returned for keys other than the Key* constants.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// Session holds the tunable parameters read by every detector.
type Session struct {
	ErrorMargin       float64       `json:"error_margin"`
	DifficultyFactor  float64       `json:"difficulty_factor"`
	TargetRepetitions int           `json:"target_repetitions"`
	DwellDuration     time.Duration `json:"dwell_duration"`
}

// DefaultSession returns the parameters used when nothing is configured.
func DefaultSession() Session {
	return Session{
		ErrorMargin:       DefaultErrorMargin,
		DifficultyFactor:  DefaultDifficulty,
		TargetRepetitions: DefaultRepetitions,
		DwellDuration:     DefaultDwell,
	}
}

// SetErrorMargin stores v clamped to [MinErrorMargin, MaxErrorMargin].
func (s *Session) SetErrorMargin(v float64) {
	s.ErrorMargin = clamp(v, MinErrorMargin, MaxErrorMargin)
}

// SetDifficultyFactor stores v clamped to [MinDifficulty, MaxDifficulty].
func (s *Session) SetDifficultyFactor(v float64) {
	s.DifficultyFactor = clamp(v, MinDifficulty, MaxDifficulty)
}

// SetTargetRepetitions stores n clamped to [MinRepetitions, MaxRepetitions].
func (s *Session) SetTargetRepetitions(n int) {
	switch {
	case n < MinRepetitions:
		n = MinRepetitions
	case n > MaxRepetitions:
		n = MaxRepetitions
	}
	s.TargetRepetitions = n
}

// Set parses raw and applies it to the parameter named key.
// Out-of-range values are clamped; non-numeric values are rejected with
// ErrMalformedValue and leave s unchanged.
func (s *Session) Set(key, raw string) error {
	switch key {
	case KeyErrorMargin, KeyDifficulty, KeyRepetitions:
	default:
		return fmt.Errorf("%q: %w", key, ErrUnknownParameter)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s=%q: %w", key, raw, ErrMalformedValue)
	}

	switch key {
	case KeyErrorMargin:
		s.SetErrorMargin(v)
	case KeyDifficulty:
		s.SetDifficultyFactor(v)
	case KeyRepetitions:
		s.SetTargetRepetitions(int(math.Round(clamp(v, MinRepetitions, MaxRepetitions))))
	}
	return nil
}

// Get returns the canonical string form of the parameter named key.
func (s Session) Get(key string) (string, error) {
	switch key {
	case KeyErrorMargin:
		return strconv.FormatFloat(s.ErrorMargin, 'f', -1, 64), nil
	case KeyDifficulty:
		return strconv.FormatFloat(s.DifficultyFactor, 'f', -1, 64), nil
	case KeyRepetitions:
		return strconv.Itoa(s.TargetRepetitions), nil
	}
	return "", fmt.Errorf("%q: %w", key, ErrUnknownParameter)
}

// Values returns every parameter in canonical string form.
func (s Session) Values() map[string]string {
	values := make(map[string]string, 3)
	for _, key := range Keys() {
		v, _ := s.Get(key)
		values[key] = v
	}
	return values
}

// Keys returns the parameter keys in sorted order.
func Keys() []string {
	keys := []string{KeyErrorMargin, KeyDifficulty, KeyRepetitions}
	sort.Strings(keys)
	return keys
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Live is a Session shared between the tick loop and parameter editors.
// Updates take effect on the next Snapshot.
type Live struct {
	mu sync.RWMutex
	s  Session
}

// NewLive wraps s.
func NewLive(s Session) *Live {
	return &Live{s: s}
}

// Snapshot returns a copy of the current parameters.
func (l *Live) Snapshot() Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.s
}

// Set applies a single parameter update and returns the resulting parameters.
func (l *Live) Set(key, raw string) (Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.s
	if err := next.Set(key, raw); err != nil {
		return l.s, err
	}
	l.s = next
	return next, nil
}

// Replace swaps in a whole Session.
func (l *Live) Replace(s Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.s = s
}
