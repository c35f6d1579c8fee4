// Package nav tracks an independent back/forward navigation history per
// tab. Tabs are identified by opaque handles; each handle owns an ordered
// path history and an index into it with browser-style semantics: pushing
// a path discards any forward history past the current position.
package nav

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/benju66/fileexplorer/internal/debug"
)

// maxHistorySize bounds per-tab history to prevent unbounded memory growth.
const maxHistorySize = 100

var (
	ErrInvalidHandle = errors.New("nav: empty tab handle")
	ErrEmptyPath     = errors.New("nav: empty path")
)

// Handle identifies one logical tab for the lifetime of that tab.
type Handle string

// NewHandle returns a fresh unique tab handle.
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

// tabState is the history of a single tab. The index is always a valid
// position in history, and history is never empty once the state exists.
type tabState struct {
	history []string
	index   int
}

// Manager holds the per-tab histories.
type Manager struct {
	tabs map[Handle]*tabState
}

// NewManager returns a manager with no tab histories.
func NewManager() *Manager {
	return &Manager{tabs: make(map[Handle]*tabState)}
}

// Init creates a brand new history for the handle, replacing any existing
// one, with initialPath as its only entry.
func (m *Manager) Init(h Handle, initialPath string) error {
	if h == "" {
		return ErrInvalidHandle
	}
	if initialPath == "" {
		return ErrEmptyPath
	}
	m.tabs[h] = &tabState{history: []string{initialPath}, index: 0}
	debug.Log(debug.NAV, "Init tab %s at %s", h, initialPath)
	return nil
}

// Push navigates the tab to a new path, truncating any forward history
// first. An uninitialized handle is initialized with the path instead.
func (m *Manager) Push(h Handle, path string) error {
	if h == "" {
		return ErrInvalidHandle
	}
	if path == "" {
		return ErrEmptyPath
	}
	state, ok := m.tabs[h]
	if !ok {
		return m.Init(h, path)
	}

	// Drop forward entries left over from a previous GoBack
	state.history = state.history[:state.index+1]
	state.history = append(state.history, path)
	state.index++

	// Trim oldest entries past the cap, keeping the index on the same path
	if len(state.history) > maxHistorySize {
		excess := len(state.history) - maxHistorySize
		state.history = state.history[excess:]
		state.index -= excess
		if state.index < 0 {
			state.index = 0
		}
	}

	debug.Log(debug.NAV, "Push tab %s -> %s (index %d)", h, path, state.index)
	return nil
}

// GoBack moves one step back and returns the new current path. Returns ""
// when the handle is unknown or the tab is already at its oldest entry.
func (m *Manager) GoBack(h Handle) string {
	state, ok := m.tabs[h]
	if !ok {
		return ""
	}
	if state.index == 0 {
		return ""
	}
	state.index--
	return state.history[state.index]
}

// GoForward moves one step forward and returns the new current path.
// Returns "" when the handle is unknown or there is no forward entry.
func (m *Manager) GoForward(h Handle) string {
	state, ok := m.tabs[h]
	if !ok {
		return ""
	}
	if state.index >= len(state.history)-1 {
		return ""
	}
	state.index++
	return state.history[state.index]
}

// GoUp pushes the parent of the current path and returns it, provided the
// parent exists on disk and differs from the current path. Returns ""
// without mutating state otherwise.
func (m *Manager) GoUp(h Handle) string {
	current := m.CurrentPath(h)
	if current == "" {
		return ""
	}
	parent := filepath.Dir(current)
	if parent == current {
		return "" // Already at root
	}
	if _, err := os.Stat(parent); err != nil {
		return ""
	}
	if err := m.Push(h, parent); err != nil {
		return ""
	}
	return parent
}

// CurrentPath returns the path the tab is currently on, or "" for an
// unknown handle.
func (m *Manager) CurrentPath(h Handle) string {
	state, ok := m.tabs[h]
	if !ok {
		return ""
	}
	return state.history[state.index]
}

// CanGoBack reports whether GoBack would move.
func (m *Manager) CanGoBack(h Handle) bool {
	state, ok := m.tabs[h]
	return ok && state.index > 0
}

// CanGoForward reports whether GoForward would move.
func (m *Manager) CanGoForward(h Handle) bool {
	state, ok := m.tabs[h]
	return ok && state.index < len(state.history)-1
}

// Remove deletes the tab's history entirely. No-op for unknown handles.
func (m *Manager) Remove(h Handle) {
	delete(m.tabs, h)
	debug.Log(debug.NAV, "Removed tab %s", h)
}

// Migrate moves a tab's entire history from src to dst, deep-copying the
// entries and preserving the index, then removes the src entry. Used when
// a tab's underlying identity changes without losing its history.
func (m *Manager) Migrate(src, dst Handle) error {
	if src == "" || dst == "" {
		return ErrInvalidHandle
	}
	state, ok := m.tabs[src]
	if !ok {
		return nil
	}
	history := make([]string, len(state.history))
	copy(history, state.history)
	m.tabs[dst] = &tabState{history: history, index: state.index}
	delete(m.tabs, src)
	debug.Log(debug.NAV, "Migrated tab %s -> %s", src, dst)
	return nil
}
