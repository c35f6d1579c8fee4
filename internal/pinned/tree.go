package pinned

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/benju66/fileexplorer/internal/debug"
)

// Node is one entry in the display tree.
type Node struct {
	Path     string
	Name     string
	IsDir    bool
	Children []*Node
}

// Tree is the derived display grouping: a flat favorites list and the
// pinned items nested under their nearest pinned ancestors. A path can
// appear both as a favorite and inside the pinned tree; the two views are
// independent.
type Tree struct {
	Favorites []*Node
	Pinned    []*Node
}

// BuildTree derives the display tree from the current pinned and favorite
// sets. Each pinned path hangs under its nearest currently-pinned ancestor
// directory, or at the top level when it has none. Ancestors are inserted
// before their descendants, so the shape does not depend on pin order.
// Paths that no longer exist on disk are skipped.
func (m *Manager) BuildTree() *Tree {
	t := &Tree{}

	for _, fav := range m.FavoriteItems() {
		if n := newNode(fav); n != nil {
			t.Favorites = append(t.Favorites, n)
		}
	}

	nodes := make(map[string]*Node)
	for _, path := range m.PinnedItems() {
		m.insertPinned(t, nodes, path)
	}

	sortChildren(t.Pinned)
	return t
}

// insertPinned places path into the tree, inserting its nearest pinned
// ancestor first when that ancestor is not present yet. Returns the node,
// or nil when the path was skipped.
func (m *Manager) insertPinned(t *Tree, nodes map[string]*Node, path string) *Node {
	if n, ok := nodes[path]; ok {
		return n
	}

	n := newNode(path)
	if n == nil {
		return nil
	}
	nodes[path] = n

	if anc := m.nearestPinnedAncestor(path); anc != "" {
		if parent := m.insertPinned(t, nodes, anc); parent != nil {
			parent.Children = append(parent.Children, n)
			return n
		}
	}
	t.Pinned = append(t.Pinned, n)
	return n
}

// nearestPinnedAncestor walks parent directories until one is found in the
// pinned set. Returns "" when no pinned ancestor exists.
func (m *Manager) nearestPinnedAncestor(path string) string {
	cur := filepath.Dir(path)
	for {
		if m.pinned[cur] {
			return cur
		}
		next := filepath.Dir(cur)
		if next == cur {
			return ""
		}
		cur = next
	}
}

// newNode stats the path and builds a node for it, or nil when the path is
// gone from disk.
func newNode(path string) *Node {
	info, err := os.Stat(path)
	if err != nil {
		debug.Log(debug.PIN, "Skipping missing path in tree: %s", path)
		return nil
	}
	return &Node{
		Path:  path,
		Name:  filepath.Base(path),
		IsDir: info.IsDir(),
	}
}

func sortChildren(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	for _, n := range nodes {
		sortChildren(n.Children)
	}
}
