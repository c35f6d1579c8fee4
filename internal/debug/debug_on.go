//go:build debug

// Package debug provides a centralized, categorized debug logging system.
// Build with -tags debug to enable logging.
package debug

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Enabled indicates whether debug logging is active
const Enabled = true

// Category represents a debug logging category
type Category string

const (
	SHELL  Category = "SHELL"  // Console front end, command dispatch
	FS     Category = "FS"     // Filesystem operations and listing
	NAV    Category = "NAV"    // Tab navigation history
	PIN    Category = "PIN"    // Pinned items and favorites
	UNDO   Category = "UNDO"   // Undo/redo stack
	STORE  Category = "STORE"  // Metadata database
	SEARCH Category = "SEARCH" // Name search, matching
	WATCH  Category = "WATCH"  // Directory watcher events
	TRASH  Category = "TRASH"  // Trash moves and restores
)

var (
	// enabledCategories controls which categories are active
	enabledCategories = map[Category]bool{
		SHELL:  true,
		FS:     true,
		NAV:    true,
		PIN:    true,
		UNDO:   true,
		STORE:  true,
		SEARCH: true,
		WATCH:  true,
		TRASH:  true,
	}
	categoryMu sync.RWMutex

	logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
)

func init() {
	// Check environment variable for category overrides
	// Format: FILEEXPLORER_DEBUG=NAV,PIN or FILEEXPLORER_DEBUG=all or FILEEXPLORER_DEBUG=none
	if env := os.Getenv("FILEEXPLORER_DEBUG"); env != "" {
		categoryMu.Lock()
		defer categoryMu.Unlock()

		env = strings.ToUpper(env)
		switch env {
		case "ALL":
			for cat := range enabledCategories {
				enabledCategories[cat] = true
			}
		case "NONE":
			for cat := range enabledCategories {
				enabledCategories[cat] = false
			}
		default:
			// Disable all first, then enable specified
			for cat := range enabledCategories {
				enabledCategories[cat] = false
			}
			for _, cat := range strings.Split(env, ",") {
				cat = strings.TrimSpace(cat)
				enabledCategories[Category(cat)] = true
			}
		}
	}
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	categoryMu.RLock()
	enabled := enabledCategories[cat]
	categoryMu.RUnlock()

	if !enabled {
		return
	}

	msg := fmt.Sprintf(format, args...)
	logger.Printf("[%s] %s", cat, msg)
}

// Enable enables a debug category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// Disable disables a debug category
func Disable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = false
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}

// EnableAll enables all debug categories
func EnableAll() {
	categoryMu.Lock()
	for cat := range enabledCategories {
		enabledCategories[cat] = true
	}
	categoryMu.Unlock()
}

// DisableAll disables all debug categories
func DisableAll() {
	categoryMu.Lock()
	for cat := range enabledCategories {
		enabledCategories[cat] = false
	}
	categoryMu.Unlock()
}
