// Package pinned manages the user's pinned items and favorites. Pinned
// paths persist across sessions; favorites are pinned items additionally
// surfaced in a flat favorites view. Favoriting auto-pins; unpinning
// cascades favorite removal.
package pinned

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/benju66/fileexplorer/internal/debug"
	"github.com/benju66/fileexplorer/internal/fileops"
)

// persistedState is the on-disk shape. A legacy file holding a bare JSON
// array is read as pinned-only with no favorites.
type persistedState struct {
	Pinned    []string `json:"pinned"`
	Favorites []string `json:"favorites"`
}

// Manager holds the pinned and favorite path sets. It persists to a JSON
// file after every mutation and notifies registered observers.
//
// Paths are cleaned with filepath.Clean before any set membership check so
// trailing separators do not produce duplicate entries.
type Manager struct {
	filePath  string
	pinned    map[string]bool
	favorites map[string]bool
	observers []func()
}

// NewManager creates a manager persisting to filePath and loads any
// existing state from it.
func NewManager(filePath string) *Manager {
	m := &Manager{
		filePath:  filePath,
		pinned:    make(map[string]bool),
		favorites: make(map[string]bool),
	}
	m.load()
	return m
}

// OnChange registers a callback invoked after every successful mutation.
func (m *Manager) OnChange(fn func()) {
	m.observers = append(m.observers, fn)
}

func (m *Manager) notify() {
	for _, fn := range m.observers {
		fn()
	}
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Pinned items load error: %v", err)
		}
		return
	}

	// Current format: {"pinned": [...], "favorites": [...]}
	var state persistedState
	if err := json.Unmarshal(data, &state); err == nil {
		for _, p := range state.Pinned {
			m.pinned[filepath.Clean(p)] = true
		}
		for _, p := range state.Favorites {
			m.favorites[filepath.Clean(p)] = true
		}
		debug.Log(debug.PIN, "Loaded %d pinned, %d favorites", len(m.pinned), len(m.favorites))
		return
	}

	// Legacy format: a bare array of pinned paths, no favorites
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err == nil {
		for _, p := range legacy {
			m.pinned[filepath.Clean(p)] = true
		}
		debug.Log(debug.PIN, "Migrated legacy pinned list: %d items", len(m.pinned))
		return
	}

	log.Printf("Pinned items file has unexpected format, ignoring: %s", m.filePath)
}

// save persists the current state. Failures are logged; the in-memory
// state stays authoritative for the session.
func (m *Manager) save() {
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0o755); err != nil {
		log.Printf("Pinned items save error: %v", err)
		return
	}
	state := persistedState{
		Pinned:    setToSorted(m.pinned),
		Favorites: setToSorted(m.favorites),
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("Pinned items save error: %v", err)
		return
	}
	if err := os.WriteFile(m.filePath, data, 0o644); err != nil {
		log.Printf("Pinned items save error: %v", err)
	}
}

// Pin adds a path to the pinned set. No-op when the path does not exist on
// disk or is already pinned.
func (m *Manager) Pin(path string) {
	path = filepath.Clean(path)
	if !fileops.Exists(path) {
		log.Printf("Cannot pin non-existent path: %s", path)
		return
	}
	if m.pinned[path] {
		debug.Log(debug.PIN, "Already pinned: %s", path)
		return
	}
	m.pinned[path] = true
	m.save()
	m.notify()
	debug.Log(debug.PIN, "Pinned: %s", path)
}

// Unpin removes a path from the pinned set. A pinned favorite loses its
// favorite status too. No-op when the path is not pinned.
func (m *Manager) Unpin(path string) {
	path = filepath.Clean(path)
	if !m.pinned[path] {
		debug.Log(debug.PIN, "Cannot unpin, not pinned: %s", path)
		return
	}
	delete(m.pinned, path)
	delete(m.favorites, path)
	m.save()
	m.notify()
	debug.Log(debug.PIN, "Unpinned: %s", path)
}

// Favorite marks a path as a favorite, pinning it first if needed. No-op
// when the path does not exist on disk.
func (m *Manager) Favorite(path string) {
	path = filepath.Clean(path)
	if !fileops.Exists(path) {
		log.Printf("Cannot favorite non-existent path: %s", path)
		return
	}
	if !m.pinned[path] {
		m.Pin(path)
	}
	if m.favorites[path] {
		debug.Log(debug.PIN, "Already a favorite: %s", path)
		return
	}
	m.favorites[path] = true
	m.save()
	m.notify()
	debug.Log(debug.PIN, "Favorited: %s", path)
}

// Unfavorite removes a path from the favorites only; it stays pinned.
// No-op when the path is not a favorite.
func (m *Manager) Unfavorite(path string) {
	path = filepath.Clean(path)
	if !m.favorites[path] {
		debug.Log(debug.PIN, "Cannot unfavorite, not a favorite: %s", path)
		return
	}
	delete(m.favorites, path)
	m.save()
	m.notify()
	debug.Log(debug.PIN, "Unfavorited: %s", path)
}

// IsPinned checks if a path is pinned.
func (m *Manager) IsPinned(path string) bool {
	return m.pinned[filepath.Clean(path)]
}

// IsFavorite checks if a path is a favorite.
func (m *Manager) IsFavorite(path string) bool {
	return m.favorites[filepath.Clean(path)]
}

// PinnedItems returns the pinned paths sorted for deterministic output.
func (m *Manager) PinnedItems() []string {
	return setToSorted(m.pinned)
}

// FavoriteItems returns the favorite paths sorted for deterministic output.
func (m *Manager) FavoriteItems() []string {
	return setToSorted(m.favorites)
}

func setToSorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
