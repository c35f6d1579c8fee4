// Package fs reads directory contents for display.
package fs

import (
	iofs "io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/benju66/fileexplorer/internal/debug"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// List returns the direct children of path, directories first, each group
// sorted by name. Entries that cannot be stat'ed are skipped.
func List(path string) ([]Entry, error) {
	var result []Entry
	var mu sync.Mutex

	// Follow symlinks so entries report their target's info
	conf := &fastwalk.Config{Follow: true}
	pathLen := len(path)

	err := fastwalk.Walk(conf, path, func(fullPath string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // Skip errors, continue walking
		}
		if fullPath == path {
			return nil
		}

		// Only direct children: anything deeper has a separator in the
		// remainder after the root prefix
		relStart := pathLen
		if relStart < len(fullPath) && (fullPath[relStart] == '/' || fullPath[relStart] == '\\') {
			relStart++
		}
		if strings.ContainsAny(fullPath[relStart:], "/\\") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			// Broken symlink: fall back to lstat
			info, err = os.Lstat(fullPath)
			if err != nil {
				return nil
			}
		}

		mu.Lock()
		result = append(result, Entry{
			Name:    d.Name(),
			Path:    fullPath,
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].IsDir != result[j].IsDir {
			return result[i].IsDir
		}
		return result[i].Name < result[j].Name
	})

	debug.Log(debug.FS, "Listed %d entries in %s", len(result), path)
	return result, nil
}
