// Package shell is a line-oriented console front end for the explorer
// engine. It owns the open tabs and dispatches typed commands to the
// navigation, pinning, undo, search, and metadata components.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/benju66/fileexplorer/internal/config"
	"github.com/benju66/fileexplorer/internal/debug"
	"github.com/benju66/fileexplorer/internal/nav"
	"github.com/benju66/fileexplorer/internal/pinned"
	"github.com/benju66/fileexplorer/internal/store"
	"github.com/benju66/fileexplorer/internal/trash"
	"github.com/benju66/fileexplorer/internal/undo"
	"github.com/benju66/fileexplorer/internal/watch"
)

// tab pairs a navigation handle with a display name.
type tab struct {
	handle nav.Handle
	name   string
}

// Shell wires the engine components behind a command loop.
type Shell struct {
	cfg     *config.Manager
	nav     *nav.Manager
	pins    *pinned.Manager
	undo    *undo.Stack
	db      *store.DB
	bin     *trash.Bin
	watcher *watch.Watcher

	tabs   []tab
	active int
	out    io.Writer
}

// New builds a shell with one tab open at startPath. The metadata store
// and watcher are optional: failures to open them are logged and the
// affected commands degrade gracefully.
func New(cfg *config.Manager, startPath string, out io.Writer) (*Shell, error) {
	data := cfg.GetData()

	s := &Shell{
		cfg:  cfg,
		nav:  nav.NewManager(),
		pins: pinned.NewManager(data.PinnedFile),
		undo: undo.NewStack(),
		out:  out,
	}

	bin, err := trash.Open(data.TrashDir)
	if err != nil {
		return nil, fmt.Errorf("opening trash: %w", err)
	}
	s.bin = bin

	if db, err := store.Open(data.MetadataDB); err != nil {
		log.Printf("Metadata store unavailable: %v", err)
	} else {
		s.db = db
	}

	if w, err := watch.New(0); err != nil {
		log.Printf("Directory watcher unavailable: %v", err)
	} else {
		s.watcher = w
		s.pins.OnChange(s.watchPinnedParents)
	}

	if err := s.openTab(startPath); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the store and watcher. The last session path is saved so
// the next session can restore it.
func (s *Shell) Close() {
	if s.db != nil {
		if path := s.currentPath(); path != "" {
			s.db.SaveSetting("last_path", path)
		}
		s.db.Close()
	}
	if s.watcher != nil {
		s.watcher.Close()
	}
}

// Run reads commands from r until EOF or an exit command.
func (s *Shell) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	s.printf("fileexplorer - type 'help' for commands\n")
	s.prompt()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		s.drainNotifications()
		if line != "" {
			if quit := s.dispatch(line); quit {
				return nil
			}
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *Shell) prompt() {
	s.printf("%s> ", s.currentPath())
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// drainNotifications reports pending directory-change notices from the
// watcher without blocking.
func (s *Shell) drainNotifications() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case dir := <-s.watcher.Notify():
			s.printf("[changed] %s\n", dir)
		default:
			return
		}
	}
}

// currentPath returns the active tab's path, or "" with no tabs.
func (s *Shell) currentPath() string {
	if s.active < 0 || s.active >= len(s.tabs) {
		return ""
	}
	return s.nav.CurrentPath(s.tabs[s.active].handle)
}

// openTab creates a new tab at path and makes it active.
func (s *Shell) openTab(path string) error {
	h := nav.NewHandle()
	if err := s.nav.Init(h, path); err != nil {
		return err
	}
	s.tabs = append(s.tabs, tab{handle: h, name: tabName(path)})
	s.active = len(s.tabs) - 1
	s.watchDir(path)
	debug.Log(debug.SHELL, "Opened tab %s at %s", h, path)
	return nil
}

// navigate moves the active tab to path and records the visit.
func (s *Shell) navigate(path string) {
	t := &s.tabs[s.active]
	if err := s.nav.Push(t.handle, path); err != nil {
		s.printf("error: %v\n", err)
		return
	}
	t.name = tabName(path)
	s.watchDir(path)
	if s.db != nil {
		if err := s.db.AddRecent(path); err == nil {
			s.db.Touch(path)
		}
	}
}

func (s *Shell) watchDir(path string) {
	if s.watcher != nil {
		if err := s.watcher.Watch(path); err != nil {
			debug.Log(debug.SHELL, "Cannot watch %s: %v", path, err)
		}
	}
}

// watchPinnedParents keeps the parent directories of all pinned items
// watched so pinned entries disappearing from disk get noticed.
func (s *Shell) watchPinnedParents() {
	for _, p := range s.pins.PinnedItems() {
		s.watchDir(filepath.Dir(p))
	}
}

// expandPath expands and normalizes a path argument: ~ for the home
// directory, relative paths against the current directory, absolute
// paths cleaned as-is.
func (s *Shell) expandPath(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return s.currentPath()
	}

	if strings.HasPrefix(input, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			if input == "~" {
				return home
			}
			if strings.HasPrefix(input, "~/") || strings.HasPrefix(input, `~\`) {
				return filepath.Clean(filepath.Join(home, input[2:]))
			}
		}
	}

	if filepath.IsAbs(input) {
		return filepath.Clean(input)
	}
	return filepath.Clean(filepath.Join(s.currentPath(), input))
}

func tabName(path string) string {
	name := filepath.Base(path)
	if name == "" || name == "/" || name == "." {
		return path
	}
	return name
}
