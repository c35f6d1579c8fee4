// Package search finds files and folders by name under a directory tree.
// It supports case-insensitive substring matching, fuzzy matching, and
// metadata filters (extension, size, modification time).
package search

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/sahilm/fuzzy"

	"github.com/benju66/fileexplorer/internal/debug"
)

// maxResults caps result sets to keep huge trees responsive.
const maxResults = 1000

// Options controls how a name search walks and matches.
type Options struct {
	Depth          int  // Maximum directory depth below root; 0 means unlimited
	IncludeFolders bool // Match directory names as well as file names
	Fuzzy          bool // Fuzzy-match instead of substring
	Threshold      int  // Minimum fuzzy score; <= 0 keeps every fuzzy match
}

// Filters narrows results by file metadata. Zero values are inactive.
type Filters struct {
	Ext            string // Extension including the dot, e.g. ".pdf"
	MinSize        int64
	MaxSize        int64
	ModifiedAfter  time.Time
	ModifiedBefore time.Time
}

// candidate is one walked entry considered for matching.
type candidate struct {
	path string
	name string
}

// ByName returns the paths under root whose base names match query,
// sorted by path. Inaccessible entries are skipped.
func ByName(root, query string, opts Options) ([]string, error) {
	candidates, err := collect(root, opts, Filters{})
	if err != nil {
		return nil, err
	}
	return match(query, candidates, opts), nil
}

// WithFilters is ByName with additional metadata filters applied during
// the walk.
func WithFilters(root, query string, opts Options, filters Filters) ([]string, error) {
	candidates, err := collect(root, opts, filters)
	if err != nil {
		return nil, err
	}
	return match(query, candidates, opts), nil
}

// collect walks the tree gathering entries that pass the structural and
// metadata filters. Matching against the query happens afterwards.
func collect(root string, opts Options, filters Filters) ([]candidate, error) {
	var out []candidate
	var mu sync.Mutex

	// Don't follow symlinks to avoid cycles on recursive walks
	conf := &fastwalk.Config{Follow: false}

	err := fastwalk.Walk(conf, root, func(fullPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			debug.Log(debug.SEARCH, "Walk error at %q: %v", fullPath, walkErr)
			return nil // Skip errors, continue walking
		}
		if fullPath == root {
			return nil
		}

		if opts.Depth > 0 && fastwalk.DirEntryDepth(d) > opts.Depth {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		isDir := d.IsDir()
		if isDir && !opts.IncludeFolders {
			return nil
		}
		if filters.active() {
			info, err := fastwalk.StatDirEntry(fullPath, d)
			if err != nil {
				return nil
			}
			if !filters.matches(d.Name(), info, isDir) {
				return nil
			}
		}

		mu.Lock()
		if len(out) < maxResults {
			out = append(out, candidate{path: fullPath, name: d.Name()})
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	// The walk is concurrent; order candidates so results are deterministic
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out, nil
}

// match filters candidates against the query and returns sorted paths.
func match(query string, candidates []candidate, opts Options) []string {
	if query == "" {
		return nil
	}

	var results []string
	if opts.Fuzzy {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.name
		}
		// fuzzy.Find returns matches best-score-first; keep that order
		for _, m := range fuzzy.Find(query, names) {
			if opts.Threshold > 0 && m.Score < opts.Threshold {
				continue
			}
			results = append(results, candidates[m.Index].path)
		}
	} else {
		lowerQuery := strings.ToLower(query)
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c.name), lowerQuery) {
				results = append(results, c.path)
			}
		}
		sort.Strings(results)
	}
	debug.Log(debug.SEARCH, "Query %q matched %d of %d candidates", query, len(results), len(candidates))
	return results
}

func (f Filters) active() bool {
	return f.Ext != "" || f.MinSize > 0 || f.MaxSize > 0 ||
		!f.ModifiedAfter.IsZero() || !f.ModifiedBefore.IsZero()
}

func (f Filters) matches(name string, info fs.FileInfo, isDir bool) bool {
	if f.Ext != "" {
		if isDir || !strings.EqualFold(filepath.Ext(name), f.Ext) {
			return false
		}
	}
	if f.MinSize > 0 && (isDir || info.Size() < f.MinSize) {
		return false
	}
	if f.MaxSize > 0 && (isDir || info.Size() > f.MaxSize) {
		return false
	}
	if !f.ModifiedAfter.IsZero() && info.ModTime().Before(f.ModifiedAfter) {
		return false
	}
	if !f.ModifiedBefore.IsZero() && info.ModTime().After(f.ModifiedBefore) {
		return false
	}
	return true
}

