// Package config handles loading, saving, and accessing user settings.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	Behavior BehaviorConfig `json:"behavior"`
	Tabs     TabsConfig     `json:"tabs"`
	Search   SearchConfig   `json:"search"`
	Data     DataConfig     `json:"data"`
}

// BehaviorConfig holds behavior settings
type BehaviorConfig struct {
	ConfirmDelete   bool `json:"confirmDelete"`
	UseTrash        bool `json:"useTrash"`        // Deletes go to the trash bin instead of disk removal
	RestoreLastPath bool `json:"restoreLastPath"` // Start where the last session ended
}

// TabsConfig holds tab-related settings
type TabsConfig struct {
	NewTabLocation string `json:"newTabLocation"` // "current" | "home" | custom path
}

// SearchConfig holds search-related settings
type SearchConfig struct {
	DefaultDepth   int  `json:"defaultDepth"`   // 0 means unlimited
	IncludeFolders bool `json:"includeFolders"`
	Fuzzy          bool `json:"fuzzy"`
	FuzzyThreshold int  `json:"fuzzyThreshold"` // Minimum score 0-100 for a fuzzy match
}

// DataConfig holds the locations of per-user data files
type DataConfig struct {
	PinnedFile string `json:"pinnedFile"` // JSON file for pinned items and favorites
	MetadataDB string `json:"metadataDb"` // SQLite database for recents and tags
	TrashDir   string `json:"trashDir"`   // Directory backing the trash bin
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config: DefaultConfig(),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		Behavior: BehaviorConfig{
			ConfirmDelete:   true,
			UseTrash:        true,
			RestoreLastPath: true,
		},
		Tabs: TabsConfig{
			NewTabLocation: "current",
		},
		Search: SearchConfig{
			DefaultDepth:   2,
			IncludeFolders: true,
			Fuzzy:          false,
			FuzzyThreshold: 60,
		},
		Data: DataConfig{
			PinnedFile: filepath.Join(dataDir, "pinned_items.json"),
			MetadataDB: filepath.Join(dataDir, "metadata.db"),
			TrashDir:   filepath.Join(dataDir, "trash"),
		},
	}
}

// DefaultDataDir returns the per-user data directory for the application.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = home
	}
	return filepath.Join(base, "fileexplorer")
}

// DefaultConfigPath returns the default location of config.json.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.json")
}

// Load reads configuration from the given path. A missing file keeps the
// defaults silently; a malformed file keeps the defaults and records the
// parse error.
func (m *Manager) Load(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.path = path
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Config read error: %v", err)
		}
		return
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		m.parseErr = fmt.Errorf("parsing %s: %w", path, err)
		log.Printf("Config parse error, using defaults: %v", err)
		return
	}
	m.config = cfg
}

// Save writes the current configuration back to the path it was loaded
// from, creating parent directories as needed.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.path == "" {
		return fmt.Errorf("config: no path set, call Load first")
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// ParseError returns the error from the last Load, if parsing failed.
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// GetBehavior returns the behavior settings.
func (m *Manager) GetBehavior() BehaviorConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Behavior
}

// GetTabs returns the tab settings.
func (m *Manager) GetTabs() TabsConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Tabs
}

// GetSearch returns the search settings.
func (m *Manager) GetSearch() SearchConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Search
}

// GetData returns the data file locations.
func (m *Manager) GetData() DataConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Data
}
