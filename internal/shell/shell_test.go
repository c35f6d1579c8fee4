package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benju66/fileexplorer/internal/config"
)

// newTestShell builds a shell whose data files all live under a temp dir.
func newTestShell(t *testing.T, startPath string) (*Shell, *bytes.Buffer) {
	t.Helper()
	dataDir := t.TempDir()
	cfgPath := filepath.Join(dataDir, "config.json")
	content := `{
		"data": {
			"pinnedFile": "` + filepath.ToSlash(filepath.Join(dataDir, "pins.json")) + `",
			"metadataDb": "` + filepath.ToSlash(filepath.Join(dataDir, "meta.db")) + `",
			"trashDir": "` + filepath.ToSlash(filepath.Join(dataDir, "trash")) + `"
		}
	}`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.NewManager()
	cfg.Load(cfgPath)
	if err := cfg.ParseError(); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	s, err := New(cfg, startPath, &out)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s, &out
}

func TestRunSession(t *testing.T) {
	root := t.TempDir()
	s, out := newTestShell(t, root)

	script := strings.Join([]string{
		"mkdir docs",
		"cd docs",
		"touch readme.txt",
		"ls",
		"back",
		"forward",
		"quit",
	}, "\n")

	if err := s.Run(strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "docs", "readme.txt")); err != nil {
		t.Errorf("scripted session should have created the file: %v", err)
	}
	if !strings.Contains(out.String(), "readme.txt") {
		t.Error("ls output should list the created file")
	}
	if got := s.currentPath(); got != filepath.Join(root, "docs") {
		t.Errorf("forward should land back in docs, got %q", got)
	}
}

func TestDispatchUndoRedo(t *testing.T) {
	root := t.TempDir()
	s, _ := newTestShell(t, root)

	s.dispatch("mkdir project")
	created := filepath.Join(root, "project")
	if _, err := os.Stat(created); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	s.dispatch("undo")
	if _, err := os.Stat(created); !os.IsNotExist(err) {
		t.Error("undo should remove the created folder")
	}

	s.dispatch("redo")
	if _, err := os.Stat(created); err != nil {
		t.Error("redo should recreate the folder")
	}
}

func TestDispatchTrashAndRestore(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "victim.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := newTestShell(t, root)

	// Default config trashes instead of deleting permanently
	s.dispatch("rm victim.txt")
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("rm should move the file away")
	}
	if len(s.bin.List()) != 1 {
		t.Fatalf("expected 1 trash item, got %d", len(s.bin.List()))
	}

	s.dispatch("restore 1")
	if _, err := os.Stat(target); err != nil {
		t.Errorf("restore should bring the file back: %v", err)
	}
}

func TestDispatchPermanentRemove(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "perm.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := newTestShell(t, root)

	// Default config requires confirmation for permanent deletes
	s.dispatch("rm -p perm.txt")
	if _, err := os.Stat(target); err != nil {
		t.Fatal("unconfirmed rm -p must not delete")
	}

	s.dispatch("rm -p -f perm.txt")
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("rm -p -f should delete the file")
	}
	if len(s.bin.List()) != 0 {
		t.Error("permanent removal must not touch the trash")
	}
}

func TestDispatchTabs(t *testing.T) {
	root := t.TempDir()
	other := filepath.Join(root, "other")
	if err := os.Mkdir(other, 0o755); err != nil {
		t.Fatal(err)
	}
	s, _ := newTestShell(t, root)

	s.dispatch("newtab other")
	if len(s.tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(s.tabs))
	}
	if got := s.currentPath(); got != other {
		t.Errorf("new tab should be active at %q, got %q", other, got)
	}

	s.dispatch("tab 1")
	if got := s.currentPath(); got != root {
		t.Errorf("tab 1 should be at %q, got %q", root, got)
	}

	s.dispatch("tab 2")
	s.dispatch("closetab")
	if len(s.tabs) != 1 {
		t.Errorf("expected 1 tab after closetab, got %d", len(s.tabs))
	}
	s.dispatch("closetab")
	if len(s.tabs) != 1 {
		t.Error("last tab must not close")
	}
}

func TestDispatchPins(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "keepme")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	s, out := newTestShell(t, root)

	s.dispatch("pin keepme")
	if !s.pins.IsPinned(sub) {
		t.Fatal("pin command should pin the resolved path")
	}
	s.dispatch("fav keepme")
	if !s.pins.IsFavorite(sub) {
		t.Fatal("fav command should favorite the resolved path")
	}

	out.Reset()
	s.dispatch("pins")
	text := out.String()
	if !strings.Contains(text, "keepme") {
		t.Errorf("pins output should mention the pinned dir:\n%s", text)
	}
}

func TestExpandPath(t *testing.T) {
	root := t.TempDir()
	s, _ := newTestShell(t, root)

	testCases := []struct {
		input    string
		expected string
	}{
		{"sub", filepath.Join(root, "sub")},
		{"./sub", filepath.Join(root, "sub")},
		{"..", filepath.Dir(root)},
		{"", root},
		{root, root},
	}
	for _, tc := range testCases {
		if got := s.expandPath(tc.input); got != tc.expected {
			t.Errorf("expandPath(%q): expected %q, got %q", tc.input, tc.expected, got)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if got := s.expandPath("~"); got != home {
			t.Errorf("expandPath(~): expected %q, got %q", home, got)
		}
	}
}
