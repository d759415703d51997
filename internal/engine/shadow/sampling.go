package shadow

import (
	"fmt"
	"strings"
	"sync"
)

// SamplingMode selects how the lit pass filters shadow-map lookups. The
// numeric values are what the shader receives in the samplingType uniform.
type SamplingMode int32

const (
	SamplingManual SamplingMode = iota
	SamplingHardwarePCF
	SamplingManual4x
	SamplingManualNx

	samplingModeCount
)

var samplingNames = [samplingModeCount]string{
	SamplingManual:      "Manual",
	SamplingHardwarePCF: "Free HW PCF",
	SamplingManual4x:    "Manual 4x PCF",
	SamplingManualNx:    "Manual NxN PCF",
}

// samplingKeys are the names used in configuration files.
var samplingKeys = [samplingModeCount]string{
	SamplingManual:      "manual",
	SamplingHardwarePCF: "hardware",
	SamplingManual4x:    "manual4x",
	SamplingManualNx:    "manualnx",
}

func (m SamplingMode) String() string {
	if m < 0 || m >= samplingModeCount {
		return fmt.Sprintf("SamplingMode(%d)", int32(m))
	}
	return samplingNames[m]
}

// Key returns the configuration name of the mode.
func (m SamplingMode) Key() string {
	if m < 0 || m >= samplingModeCount {
		return ""
	}
	return samplingKeys[m]
}

// Next returns the mode after m, wrapping after the last one.
func (m SamplingMode) Next() SamplingMode {
	return (m + 1) % samplingModeCount
}

// ParseSamplingMode maps a configuration name to its mode.
func ParseSamplingMode(s string) (SamplingMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, key := range samplingKeys {
		if key == s {
			return SamplingMode(i), nil
		}
	}
	return SamplingManual, fmt.Errorf("unknown sampling mode %q", s)
}

// Selector holds the active sampling mode. It only changes through Toggle.
type Selector struct {
	mu   sync.Mutex
	mode SamplingMode
}

// NewSelector creates a selector starting at initial.
func NewSelector(initial SamplingMode) *Selector {
	if initial < 0 || initial >= samplingModeCount {
		initial = SamplingManual
	}
	return &Selector{mode: initial}
}

// Mode returns the active mode.
func (s *Selector) Mode() SamplingMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Toggle advances to the next mode and returns it.
func (s *Selector) Toggle() SamplingMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = s.mode.Next()
	return s.mode
}
