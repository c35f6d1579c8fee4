// Package trash provides an application-private trash directory so deletes
// can be restored. Items are moved (not deleted) into the trash directory
// and tracked in a JSON manifest holding their original locations.
package trash

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benju66/fileexplorer/internal/debug"
	"github.com/benju66/fileexplorer/internal/fileops"
)

// Item represents a file or directory in the trash
type Item struct {
	Name         string    `json:"name"`          // Original base name
	OriginalPath string    `json:"original_path"` // Full path the item was deleted from
	TrashPath    string    `json:"trash_path"`    // Current path inside the trash directory
	DeletedAt    time.Time `json:"deleted_at"`    // When the item was trashed
	IsDir        bool      `json:"is_dir"`
}

// Bin is a trash directory with a manifest of trashed items.
type Bin struct {
	dir      string
	manifest string
	items    []Item
}

// Open opens (creating if needed) the trash directory at dir and loads its
// manifest. A missing or unreadable manifest starts an empty bin.
func Open(dir string) (*Bin, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("trash: cannot create directory: %w", err)
	}
	b := &Bin{
		dir:      dir,
		manifest: filepath.Join(dir, "manifest.json"),
	}
	data, err := os.ReadFile(b.manifest)
	if err == nil {
		if err := json.Unmarshal(data, &b.items); err != nil {
			debug.Log(debug.TRASH, "Manifest unreadable, starting empty: %v", err)
			b.items = nil
		}
	}
	return b, nil
}

// Dir returns the path of the trash directory.
func (b *Bin) Dir() string {
	return b.dir
}

func (b *Bin) saveManifest() error {
	data, err := json.MarshalIndent(b.items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(b.manifest, data, 0o600)
}

// uniqueTrashName picks a free name inside the trash directory, appending a
// timestamp on collision.
func (b *Bin) uniqueTrashName(baseName string) string {
	dest := filepath.Join(b.dir, baseName)
	if !fileops.Exists(dest) {
		return dest
	}
	ext := filepath.Ext(baseName)
	stem := strings.TrimSuffix(baseName, ext)
	stamp := time.Now().Format("2006-01-02-150405.000000000")
	return filepath.Join(b.dir, fmt.Sprintf("%s %s%s", stem, stamp, ext))
}

// Put moves a file or directory into the trash and records it in the
// manifest. Returns the item so callers can later Restore it.
func (b *Bin) Put(path string) (Item, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Item{}, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return Item{}, fmt.Errorf("trash: %w", err)
	}

	dest := b.uniqueTrashName(filepath.Base(absPath))
	if err := fileops.Move(absPath, dest); err != nil {
		return Item{}, fmt.Errorf("trash: cannot move to trash: %w", err)
	}

	item := Item{
		Name:         filepath.Base(absPath),
		OriginalPath: absPath,
		TrashPath:    dest,
		DeletedAt:    time.Now(),
		IsDir:        info.IsDir(),
	}
	b.items = append(b.items, item)
	if err := b.saveManifest(); err != nil {
		debug.Log(debug.TRASH, "Manifest save failed: %v", err)
	}

	debug.Log(debug.TRASH, "Trashed %s -> %s", absPath, dest)
	return item, nil
}

// Restore moves a trashed item back to its original location. It fails if
// the original location is occupied again.
func (b *Bin) Restore(item Item) error {
	if fileops.Exists(item.OriginalPath) {
		return fmt.Errorf("trash: original location occupied: %s", item.OriginalPath)
	}
	if err := os.MkdirAll(filepath.Dir(item.OriginalPath), 0o755); err != nil {
		return fmt.Errorf("trash: cannot recreate parent: %w", err)
	}
	if err := fileops.Move(item.TrashPath, item.OriginalPath); err != nil {
		return fmt.Errorf("trash: cannot restore: %w", err)
	}

	b.remove(item.TrashPath)
	if err := b.saveManifest(); err != nil {
		debug.Log(debug.TRASH, "Manifest save failed: %v", err)
	}

	debug.Log(debug.TRASH, "Restored %s -> %s", item.TrashPath, item.OriginalPath)
	return nil
}

// List returns the items currently in the trash, most recently trashed last.
func (b *Bin) List() []Item {
	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

// Delete permanently removes a single item from the trash.
func (b *Bin) Delete(item Item) error {
	if err := fileops.Delete(item.TrashPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	b.remove(item.TrashPath)
	return b.saveManifest()
}

// Empty permanently deletes everything in the trash.
func (b *Bin) Empty() error {
	var lastErr error
	for _, item := range b.items {
		if err := fileops.Delete(item.TrashPath); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	b.items = nil
	if err := b.saveManifest(); err != nil {
		lastErr = err
	}
	return lastErr
}

func (b *Bin) remove(trashPath string) {
	for i, it := range b.items {
		if it.TrashPath == trashPath {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}
