// Package fileops implements the filesystem mutations the explorer performs:
// create, rename, delete, copy, and move, with unique-name collision handling.
package fileops

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/benju66/fileexplorer/internal/debug"
)

// Common file permission modes
const (
	DirPermission  = 0o755 // Standard directory permissions
	FilePermission = 0o644 // Standard file permissions
)

// Characters rejected in new names to keep results portable to Windows.
const invalidNameChars = `<>:"/\|?*`

var (
	ErrEmptyName     = errors.New("fileops: empty name")
	ErrInvalidName   = errors.New("fileops: name contains invalid characters")
	ErrNotADirectory = errors.New("fileops: parent is not a directory")
)

// Exists checks if a path exists on the filesystem.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// uniquePath returns path if it is free, otherwise the first
// "name (N).ext" variant under the same directory that is.
func uniquePath(path string) string {
	if !Exists(path) {
		return path
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !Exists(candidate) {
			return candidate
		}
	}
}

// validateName rejects empty names and names with characters that are
// invalid on at least one supported platform.
func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, invalidNameChars) {
		return ErrInvalidName
	}
	return nil
}

// CreateFile creates a new empty file under parentDir. If a file with the
// requested name already exists, a " (N)" suffix is applied. Returns the
// path of the created file.
func CreateFile(parentDir, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	info, err := os.Stat(parentDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, parentDir)
	}

	path := uniquePath(filepath.Join(parentDir, name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePermission)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	f.Close()

	debug.Log(debug.FS, "Created file: %s", path)
	return path, nil
}

// CreateFolder creates a new folder under parentDir, applying the same
// unique-name suffixing as CreateFile. Returns the path of the created folder.
func CreateFolder(parentDir, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	info, err := os.Stat(parentDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, parentDir)
	}

	path := uniquePath(filepath.Join(parentDir, name))
	if err := os.Mkdir(path, DirPermission); err != nil {
		return "", fmt.Errorf("creating folder: %w", err)
	}

	debug.Log(debug.FS, "Created folder: %s", path)
	return path, nil
}

// Rename renames a file or folder within its parent directory and returns
// the resulting path. The destination must not already exist.
func Rename(itemPath, newName string) (string, error) {
	if err := validateName(newName); err != nil {
		return "", err
	}
	if !Exists(itemPath) {
		return "", fmt.Errorf("rename: %q does not exist", itemPath)
	}

	newPath := filepath.Join(filepath.Dir(itemPath), newName)
	if Exists(newPath) {
		return "", fmt.Errorf("rename: destination already exists: %s", newPath)
	}
	if err := os.Rename(itemPath, newPath); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}

	debug.Log(debug.FS, "Renamed %s to %s", itemPath, newPath)
	return newPath, nil
}

// Delete removes a file or directory (recursively for directories).
func Delete(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err == nil {
		debug.Log(debug.FS, "Deleted: %s", path)
	}
	return err
}

// Copy copies a file or directory into dstDir, picking a unique destination
// name on collision. Returns the destination path.
func Copy(src, dstDir string) (string, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}

	dst := uniquePath(filepath.Join(dstDir, filepath.Base(src)))
	if srcInfo.IsDir() {
		err = copyDir(src, dst)
	} else {
		err = copyFile(src, dst)
	}
	if err != nil {
		return "", err
	}

	debug.Log(debug.FS, "Copied %s to %s", src, dst)
	return dst, nil
}

// Move moves a file or directory to dst. Rename is tried first; on failure
// (typically a cross-device move) it falls back to copy and delete.
func Move(src, dst string) error {
	if !Exists(src) {
		return fmt.Errorf("move: %q does not exist", src)
	}
	if err := os.Rename(src, dst); err == nil {
		debug.Log(debug.FS, "Moved %s to %s", src, dst)
		return nil
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if srcInfo.IsDir() {
		if err := copyDir(src, dst); err != nil {
			return err
		}
		err = os.RemoveAll(src)
	} else {
		if err := copyFile(src, dst); err != nil {
			return err
		}
		err = os.Remove(src)
	}
	if err == nil {
		debug.Log(debug.FS, "Moved %s to %s (copy+delete)", src, dst)
	}
	return err
}

// copyFile copies a single file, preserving its mode.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	return os.Chmod(dst, info.Mode())
}

// copyDir copies a directory recursively. A single fastwalk pass collects
// the items; directories are created shortest-path-first so parents exist
// before their children.
func copyDir(src, dst string) error {
	type copyItem struct {
		srcPath string
		dstPath string
		isDir   bool
		mode    iofs.FileMode
	}
	var items []copyItem
	var itemsMu sync.Mutex

	conf := &fastwalk.Config{Follow: true}
	srcLen := len(src)

	err := fastwalk.Walk(conf, src, func(fullPath string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // Skip errors, continue walking
		}

		relPath := fullPath[srcLen:]
		if len(relPath) > 0 && (relPath[0] == '/' || relPath[0] == '\\') {
			relPath = relPath[1:]
		}
		if relPath == "" {
			return nil // Skip source root itself
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			return nil // Skip files we can't stat
		}

		itemsMu.Lock()
		items = append(items, copyItem{
			srcPath: fullPath,
			dstPath: filepath.Join(dst, relPath),
			isDir:   info.IsDir(),
			mode:    info.Mode(),
		})
		itemsMu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, DirPermission); err != nil {
		return err
	}

	// Directories before files, parents before children
	sort.Slice(items, func(i, j int) bool {
		if items[i].isDir != items[j].isDir {
			return items[i].isDir
		}
		return len(items[i].dstPath) < len(items[j].dstPath)
	})

	for _, item := range items {
		if item.isDir {
			if err := os.MkdirAll(item.dstPath, item.mode); err != nil {
				return err
			}
		} else {
			if err := copyFile(item.srcPath, item.dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}
