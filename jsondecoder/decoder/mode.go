package decoder

import (
	"log"
	"sync/atomic"
)

const (
	menuLabelEnable  = "Turn JSON active detection on"
	menuLabelDisable = "Turn JSON active detection off"
)

// Mode holds the force-detection switch shared by every tab of a Factory.
// It starts disabled and is never persisted.
type Mode struct {
	force atomic.Bool
}

// NewMode returns a Mode with force detection disabled.
func NewMode() *Mode {
	return &Mode{}
}

// Enabled reports whether body sniffing takes priority over the Content-Type header.
func (m *Mode) Enabled() bool {
	return m.force.Load()
}

// Set enables or disables force detection.
func (m *Mode) Set(enabled bool) {
	m.force.Store(enabled)
	log.Printf("decoder/mode: force JSON detection %s", stateName(enabled))
}

// Toggle flips force detection and returns the new state.
func (m *Mode) Toggle() bool {
	for {
		old := m.force.Load()
		if m.force.CompareAndSwap(old, !old) {
			log.Printf("decoder/mode: force JSON detection %s", stateName(!old))
			return !old
		}
	}
}

// MenuLabel is the label of the menu action that would flip the current state.
func (m *Mode) MenuLabel() string {
	if m.Enabled() {
		return menuLabelDisable
	}
	return menuLabelEnable
}

func stateName(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
