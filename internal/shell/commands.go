package shell

import (
	"os"
	"strconv"
	"strings"

	"github.com/benju66/fileexplorer/internal/fileops"
	"github.com/benju66/fileexplorer/internal/fs"
	"github.com/benju66/fileexplorer/internal/pinned"
	"github.com/benju66/fileexplorer/internal/search"
	"github.com/benju66/fileexplorer/internal/undo"
)

// dispatch runs one command line. Returns true when the shell should exit.
func (s *Shell) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		s.cmdHelp()
	case "pwd":
		s.printf("%s\n", s.currentPath())
	case "ls":
		s.cmdList(args)
	case "cd":
		s.cmdChangeDir(args)
	case "back":
		s.cmdBack()
	case "forward":
		s.cmdForward()
	case "up":
		s.cmdUp()
	case "newtab":
		s.cmdNewTab(args)
	case "closetab":
		s.cmdCloseTab()
	case "tabs":
		s.cmdTabs()
	case "tab":
		s.cmdSwitchTab(args)
	case "pin":
		s.pins.Pin(s.expandPath(strings.Join(args, " ")))
	case "unpin":
		s.pins.Unpin(s.expandPath(strings.Join(args, " ")))
	case "fav":
		s.pins.Favorite(s.expandPath(strings.Join(args, " ")))
	case "unfav":
		s.pins.Unfavorite(s.expandPath(strings.Join(args, " ")))
	case "pins":
		s.cmdPins()
	case "mkdir":
		s.cmdCreate(args, false)
	case "touch":
		s.cmdCreate(args, true)
	case "rename":
		s.cmdRename(args)
	case "rm":
		s.cmdRemove(args)
	case "cp":
		s.cmdCopy(args)
	case "mv":
		s.cmdMove(args)
	case "undo":
		s.cmdUndo()
	case "redo":
		s.cmdRedo()
	case "trash":
		s.cmdTrash(args)
	case "restore":
		s.cmdRestore(args)
	case "search":
		s.cmdSearch(args)
	case "recents":
		s.cmdRecents()
	case "tag":
		s.cmdTag(args)
	case "tags":
		s.cmdTags(args)
	default:
		s.printf("unknown command %q, type 'help'\n", cmd)
	}
	return false
}

func (s *Shell) cmdHelp() {
	s.printf(`navigation:  cd <path> | back | forward | up | pwd | ls [path]
tabs:        newtab [path] | closetab | tabs | tab <n>
pinning:     pin | unpin | fav | unfav [path]  (default: current dir)
             pins  (show pinned/favorites tree)
files:       mkdir <name> | touch <name> | rename <name> <new>
             rm [-p [-f]] <path> | cp <src> [dstdir] | mv <src> <dst>
history:     undo | redo
trash:       trash [empty] | restore <n>
search:      search [-f] [-d depth] [-ext .go] <query>
metadata:    recents | tag <path> <tag> | tags <path>
exit:        quit
`)
}

func (s *Shell) cmdList(args []string) {
	path := s.currentPath()
	if len(args) > 0 {
		path = s.expandPath(strings.Join(args, " "))
	}
	entries, err := fs.List(path)
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	for _, e := range entries {
		marker := " "
		if e.IsDir {
			marker = "/"
		}
		pin := ""
		if s.pins.IsFavorite(e.Path) {
			pin = " *"
		} else if s.pins.IsPinned(e.Path) {
			pin = " +"
		}
		s.printf("  %s%s%s\n", e.Name, marker, pin)
	}
}

func (s *Shell) cmdChangeDir(args []string) {
	if len(args) == 0 {
		s.printf("usage: cd <path>\n")
		return
	}
	path := s.expandPath(strings.Join(args, " "))
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		s.printf("not a directory: %s\n", path)
		return
	}
	s.navigate(path)
}

func (s *Shell) cmdBack() {
	if path := s.nav.GoBack(s.tabs[s.active].handle); path != "" {
		s.tabs[s.active].name = tabName(path)
		s.watchDir(path)
	} else {
		s.printf("nothing to go back to\n")
	}
}

func (s *Shell) cmdForward() {
	if path := s.nav.GoForward(s.tabs[s.active].handle); path != "" {
		s.tabs[s.active].name = tabName(path)
		s.watchDir(path)
	} else {
		s.printf("nothing to go forward to\n")
	}
}

func (s *Shell) cmdUp() {
	if path := s.nav.GoUp(s.tabs[s.active].handle); path != "" {
		s.tabs[s.active].name = tabName(path)
		s.watchDir(path)
	} else {
		s.printf("already at the top\n")
	}
}

func (s *Shell) cmdNewTab(args []string) {
	path := s.currentPath()
	if len(args) > 0 {
		path = s.expandPath(strings.Join(args, " "))
	} else if loc := s.cfg.GetTabs().NewTabLocation; loc == "home" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	if err := s.openTab(path); err != nil {
		s.printf("error: %v\n", err)
	}
}

func (s *Shell) cmdCloseTab() {
	if len(s.tabs) <= 1 {
		s.printf("cannot close the last tab\n")
		return
	}
	t := s.tabs[s.active]
	s.nav.Remove(t.handle)
	s.tabs = append(s.tabs[:s.active], s.tabs[s.active+1:]...)
	if s.active >= len(s.tabs) {
		s.active = len(s.tabs) - 1
	}
}

func (s *Shell) cmdTabs() {
	for i, t := range s.tabs {
		marker := " "
		if i == s.active {
			marker = "*"
		}
		s.printf("%s %d: %s (%s)\n", marker, i+1, t.name, s.nav.CurrentPath(t.handle))
	}
}

func (s *Shell) cmdSwitchTab(args []string) {
	if len(args) != 1 {
		s.printf("usage: tab <n>\n")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(s.tabs) {
		s.printf("no such tab: %s\n", args[0])
		return
	}
	s.active = n - 1
}

func (s *Shell) cmdPins() {
	tree := s.pins.BuildTree()
	s.printf("Favorites\n")
	for _, n := range tree.Favorites {
		s.printf("  %s\n", n.Path)
	}
	s.printf("Pinned Items\n")
	for _, n := range tree.Pinned {
		s.printNode(n, 1)
	}
}

func (s *Shell) printNode(n *pinned.Node, depth int) {
	marker := ""
	if n.IsDir {
		marker = "/"
	}
	s.printf("%s%s%s\n", strings.Repeat("  ", depth), n.Name, marker)
	for _, c := range n.Children {
		s.printNode(c, depth+1)
	}
}

func (s *Shell) cmdCreate(args []string, isFile bool) {
	if len(args) == 0 {
		s.printf("usage: mkdir|touch <name>\n")
		return
	}
	name := strings.Join(args, " ")
	var cmd undo.Command
	if isFile {
		cmd = undo.NewCreateFileCommand(s.currentPath(), name)
	} else {
		cmd = undo.NewCreateFolderCommand(s.currentPath(), name)
	}
	if err := s.undo.Push(cmd); err != nil {
		s.printf("error: %v\n", err)
	}
}

func (s *Shell) cmdRename(args []string) {
	if len(args) != 2 {
		s.printf("usage: rename <name> <newname>\n")
		return
	}
	cmd := undo.NewRenameCommand(s.expandPath(args[0]), args[1])
	if err := s.undo.Push(cmd); err != nil {
		s.printf("error: %v\n", err)
	}
}

func (s *Shell) cmdRemove(args []string) {
	permanent, forced := false, false
	for len(args) > 0 {
		if args[0] == "-p" {
			permanent = true
		} else if args[0] == "-f" {
			forced = true
		} else {
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		s.printf("usage: rm [-p] [-f] <path>\n")
		return
	}
	path := s.expandPath(strings.Join(args, " "))

	var cmd undo.Command
	if permanent || !s.cfg.GetBehavior().UseTrash {
		// Permanent removal cannot be undone; honor the confirmation
		// setting by requiring an explicit -f
		if s.cfg.GetBehavior().ConfirmDelete && !forced {
			s.printf("permanent delete cannot be undone; repeat with -f to confirm\n")
			return
		}
		cmd = undo.NewDeleteCommand(path)
	} else {
		cmd = undo.NewTrashCommand(s.bin, path)
	}
	if err := s.undo.Push(cmd); err != nil {
		s.printf("error: %v\n", err)
	}
}

func (s *Shell) cmdCopy(args []string) {
	if len(args) == 0 || len(args) > 2 {
		s.printf("usage: cp <src> [dstdir]\n")
		return
	}
	src := s.expandPath(args[0])
	dstDir := s.currentPath()
	if len(args) == 2 {
		dstDir = s.expandPath(args[1])
	}
	dst, err := fileops.Copy(src, dstDir)
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	s.printf("copied to %s\n", dst)
}

func (s *Shell) cmdMove(args []string) {
	if len(args) != 2 {
		s.printf("usage: mv <src> <dst>\n")
		return
	}
	if err := fileops.Move(s.expandPath(args[0]), s.expandPath(args[1])); err != nil {
		s.printf("error: %v\n", err)
	}
}

func (s *Shell) cmdUndo() {
	if !s.undo.CanUndo() {
		s.printf("nothing to undo\n")
		return
	}
	if err := s.undo.Undo(); err != nil {
		s.printf("undo error: %v\n", err)
	}
}

func (s *Shell) cmdRedo() {
	if !s.undo.CanRedo() {
		s.printf("nothing to redo\n")
		return
	}
	if err := s.undo.Redo(); err != nil {
		s.printf("redo error: %v\n", err)
	}
}

func (s *Shell) cmdTrash(args []string) {
	if len(args) == 1 && args[0] == "empty" {
		if err := s.bin.Empty(); err != nil {
			s.printf("error: %v\n", err)
		}
		return
	}
	for i, item := range s.bin.List() {
		s.printf("%d: %s (from %s, %s)\n", i+1, item.Name, item.OriginalPath,
			item.DeletedAt.Format("2006-01-02 15:04"))
	}
}

func (s *Shell) cmdRestore(args []string) {
	if len(args) != 1 {
		s.printf("usage: restore <n>\n")
		return
	}
	items := s.bin.List()
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(items) {
		s.printf("no such trash item: %s\n", args[0])
		return
	}
	if err := s.bin.Restore(items[n-1]); err != nil {
		s.printf("error: %v\n", err)
	}
}

func (s *Shell) cmdSearch(args []string) {
	searchCfg := s.cfg.GetSearch()
	opts := search.Options{
		Depth:          searchCfg.DefaultDepth,
		IncludeFolders: searchCfg.IncludeFolders,
		Fuzzy:          searchCfg.Fuzzy,
		Threshold:      searchCfg.FuzzyThreshold,
	}
	var filters search.Filters
	var queryParts []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-f":
			opts.Fuzzy = true
		case args[i] == "-d" && i+1 < len(args):
			i++
			if d, err := strconv.Atoi(args[i]); err == nil {
				opts.Depth = d
			}
		case args[i] == "-ext" && i+1 < len(args):
			i++
			filters.Ext = args[i]
		default:
			queryParts = append(queryParts, args[i])
		}
	}

	query := strings.Join(queryParts, " ")
	if query == "" {
		s.printf("usage: search [-f] [-d depth] [-ext .go] <query>\n")
		return
	}

	results, err := search.WithFilters(s.currentPath(), query, opts, filters)
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	for _, r := range results {
		s.printf("  %s\n", r)
	}
	s.printf("%d result(s)\n", len(results))
}

func (s *Shell) cmdRecents() {
	if s.db == nil {
		s.printf("metadata store unavailable\n")
		return
	}
	recents, err := s.db.Recents(10)
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	for _, r := range recents {
		s.printf("  %s\n", r)
	}
}

func (s *Shell) cmdTag(args []string) {
	if s.db == nil {
		s.printf("metadata store unavailable\n")
		return
	}
	if len(args) != 2 {
		s.printf("usage: tag <path> <tag>\n")
		return
	}
	if err := s.db.SetTag(s.expandPath(args[0]), args[1]); err != nil {
		s.printf("error: %v\n", err)
	}
}

func (s *Shell) cmdTags(args []string) {
	if s.db == nil {
		s.printf("metadata store unavailable\n")
		return
	}
	if len(args) != 1 {
		s.printf("usage: tags <path>\n")
		return
	}
	tags, err := s.db.Tags(s.expandPath(args[0]))
	if err != nil {
		s.printf("error: %v\n", err)
		return
	}
	s.printf("%s\n", strings.Join(tags, ", "))
}
