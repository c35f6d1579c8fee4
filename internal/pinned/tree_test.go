package pinned

import (
	"os"
	"path/filepath"
	"testing"
)

func findNode(nodes []*Node, path string) *Node {
	for _, n := range nodes {
		if n.Path == path {
			return n
		}
	}
	return nil
}

func TestBuildTreeNestsUnderPinnedAncestor(t *testing.T) {
	m, dir := newTestManager(t)
	parent := mkdir(t, dir, "projects")
	child := mkdir(t, parent, "alpha")

	m.Pin(parent)
	m.Pin(child)

	tree := m.BuildTree()
	if len(tree.Pinned) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(tree.Pinned))
	}
	top := tree.Pinned[0]
	if top.Path != parent {
		t.Errorf("top-level node: expected %q, got %q", parent, top.Path)
	}
	if findNode(top.Children, child) == nil {
		t.Errorf("child should nest under pinned parent, children: %v", top.Children)
	}
}

func TestBuildTreeNearestAncestorWins(t *testing.T) {
	m, dir := newTestManager(t)
	grand := mkdir(t, dir, "g")
	mid := mkdir(t, grand, "m")
	leaf := mkdir(t, mid, "l")

	m.Pin(grand)
	m.Pin(mid)
	m.Pin(leaf)

	tree := m.BuildTree()
	g := findNode(tree.Pinned, grand)
	if g == nil {
		t.Fatal("grandparent missing at top level")
	}
	mNode := findNode(g.Children, mid)
	if mNode == nil {
		t.Fatal("mid should nest under grandparent")
	}
	if findNode(mNode.Children, leaf) == nil {
		t.Error("leaf should nest under its nearest pinned ancestor, not the grandparent")
	}
	if findNode(g.Children, leaf) != nil {
		t.Error("leaf must not also appear under the grandparent")
	}
}

func TestBuildTreeOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	parent := mkdir(t, dir, "p")
	child := mkdir(t, parent, "c")

	// Child pinned before its ancestor: the shape must match pinning the
	// ancestor first.
	m := NewManager(filepath.Join(dir, "pins.json"))
	m.Pin(child)
	m.Pin(parent)

	tree := m.BuildTree()
	if len(tree.Pinned) != 1 || tree.Pinned[0].Path != parent {
		t.Fatalf("expected only the parent at top level, got %d nodes", len(tree.Pinned))
	}
	if findNode(tree.Pinned[0].Children, child) == nil {
		t.Error("child should nest under the later-pinned ancestor")
	}
}

func TestBuildTreeSkipsUnpinnedIntermediates(t *testing.T) {
	m, dir := newTestManager(t)
	top := mkdir(t, dir, "top")
	deep := mkdir(t, filepath.Join(top, "skip", "skip2"), "deep")

	m.Pin(top)
	m.Pin(deep)

	tree := m.BuildTree()
	topNode := findNode(tree.Pinned, top)
	if topNode == nil {
		t.Fatal("top missing")
	}
	if findNode(topNode.Children, deep) == nil {
		t.Error("deep item should attach directly to its nearest pinned ancestor")
	}
}

func TestBuildTreeNoAncestorGoesTopLevel(t *testing.T) {
	m, dir := newTestManager(t)
	a := mkdir(t, dir, "standalone-a")
	b := mkdir(t, dir, "standalone-b")
	m.Pin(a)
	m.Pin(b)

	tree := m.BuildTree()
	if len(tree.Pinned) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(tree.Pinned))
	}
	// Deterministic order
	if tree.Pinned[0].Path != a || tree.Pinned[1].Path != b {
		t.Errorf("top-level nodes not sorted: %q, %q", tree.Pinned[0].Path, tree.Pinned[1].Path)
	}
}

func TestBuildTreeSkipsMissingPaths(t *testing.T) {
	m, dir := newTestManager(t)
	keep := mkdir(t, dir, "keep")
	gone := mkdir(t, dir, "gone")
	m.Pin(keep)
	m.Pin(gone)

	if err := os.RemoveAll(gone); err != nil {
		t.Fatal(err)
	}

	tree := m.BuildTree()
	if findNode(tree.Pinned, gone) != nil {
		t.Error("deleted path should not appear in the tree")
	}
	if findNode(tree.Pinned, keep) == nil {
		t.Error("surviving path should still appear")
	}
	// The pin itself stays; only the view omits it
	if !m.IsPinned(gone) {
		t.Error("building the tree must not mutate the pinned set")
	}
}

func TestBuildTreeFavoritesAreFlat(t *testing.T) {
	m, dir := newTestManager(t)
	parent := mkdir(t, dir, "p")
	child := mkdir(t, parent, "c")
	m.Favorite(parent)
	m.Favorite(child)

	tree := m.BuildTree()
	if len(tree.Favorites) != 2 {
		t.Fatalf("favorites must stay flat, got %d entries", len(tree.Favorites))
	}
	for _, n := range tree.Favorites {
		if len(n.Children) != 0 {
			t.Errorf("favorite %s should have no children", n.Path)
		}
	}
	// Both also appear nested in the pinned view
	p := findNode(tree.Pinned, parent)
	if p == nil || findNode(p.Children, child) == nil {
		t.Error("favorited paths should still nest in the pinned tree")
	}
}

func TestBuildTreeNodeMetadata(t *testing.T) {
	m, dir := newTestManager(t)
	sub := mkdir(t, dir, "docs")
	file := filepath.Join(sub, "readme.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	m.Pin(sub)
	m.Pin(file)

	tree := m.BuildTree()
	d := findNode(tree.Pinned, sub)
	if d == nil {
		t.Fatal("dir node missing")
	}
	if !d.IsDir || d.Name != "docs" {
		t.Errorf("dir node metadata wrong: IsDir=%v Name=%q", d.IsDir, d.Name)
	}
	f := findNode(d.Children, file)
	if f == nil {
		t.Fatal("file node missing")
	}
	if f.IsDir || f.Name != "readme.txt" {
		t.Errorf("file node metadata wrong: IsDir=%v Name=%q", f.IsDir, f.Name)
	}
}
