// tree.go - Hierarchical tree view over an itemmodel.ItemModel
package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/rowtree/pkg/itemmodel"
	"github.com/vanderheijden86/rowtree/pkg/tree"
)

// DefaultColumnWidth is the cell width used until SetColumnWidth is called.
const DefaultColumnWidth = 16

// RowNode is one visible line of the tree view. Nodes are rebuilt from the
// model after every change; only Node is stable across rebuilds.
type RowNode struct {
	Index    itemmodel.Index // first-column index of the row
	Node     tree.NodeID     // stable handle used to restore selection
	Depth    int             // nesting level (0 = top level)
	Children int             // row count under this row
	Parent   *RowNode        // back-reference for navigation
	last     bool            // last child of its parent
}

// TreeModel renders an ItemModel as an expandable tree with a column header.
// It subscribes to the model and keeps its flat list in sync: the selected
// row is remembered when a change begins and restored when it ends.
type TreeModel struct {
	source      itemmodel.ItemModel
	unsubscribe func()

	roots    []*RowNode
	flatList []*RowNode // visible nodes in display order
	nodes    map[tree.NodeID]*RowNode
	expanded map[tree.NodeID]bool // explicit user choices; default is depth < 2

	cursor         int
	viewportOffset int // index of first visible node
	theme          Theme
	width          int
	height         int
	columnWidth    int

	pending  tree.NodeID // selection captured on a Begin event
	changing bool
}

// NewTreeModel creates a tree view bound to source.
func NewTreeModel(source itemmodel.ItemModel, theme Theme) *TreeModel {
	t := &TreeModel{
		source:      source,
		theme:       theme,
		nodes:       make(map[tree.NodeID]*RowNode),
		expanded:    make(map[tree.NodeID]bool),
		columnWidth: DefaultColumnWidth,
	}
	t.unsubscribe = source.Subscribe(t)
	t.Build()
	return t
}

// Close stops listening to the model.
func (t *TreeModel) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}

// ModelChanged implements itemmodel.Observer.
func (t *TreeModel) ModelChanged(e itemmodel.Event) {
	if e.Kind == itemmodel.DataChanged {
		// cells only; the structure is unchanged
		return
	}
	if e.Phase == itemmodel.Begin {
		t.changing = true
		t.pending = t.SelectedNodeID()
		return
	}

	t.changing = false
	if e.Kind == itemmodel.ModelReset {
		t.expanded = make(map[tree.NodeID]bool)
		t.pending = tree.NodeID{}
	}
	if e.Kind == itemmodel.RowsInserted && e.Parent.IsValid() {
		// make new children visible
		t.expanded[e.Parent.Node()] = true
	}
	cursor := t.cursor
	t.Build()
	if t.pending.IsZero() || !t.SelectNode(t.pending) {
		t.cursor = min(cursor, len(t.flatList)-1)
		t.clampCursor()
	}
	t.pending = tree.NodeID{}
}

// SetSize updates the available dimensions. The header row takes one line.
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// SetColumnWidth changes the width of every cell.
func (t *TreeModel) SetColumnWidth(w int) {
	if w < 4 {
		w = 4
	}
	t.columnWidth = w
}

// ColumnWidth returns the cell width.
func (t *TreeModel) ColumnWidth() int {
	return t.columnWidth
}

// Build rebuilds the node list from the model.
func (t *TreeModel) Build() {
	t.roots = nil
	t.nodes = make(map[tree.NodeID]*RowNode)
	t.roots = t.buildChildren(itemmodel.Index{}, nil, 0)

	// forget choices about rows that no longer exist
	for id := range t.expanded {
		if _, ok := t.nodes[id]; !ok {
			delete(t.expanded, id)
		}
	}
	t.rebuildFlatList()
}

func (t *TreeModel) buildChildren(parent itemmodel.Index, parentNode *RowNode, depth int) []*RowNode {
	n := t.source.RowCount(parent)
	out := make([]*RowNode, 0, n)
	for row := 0; row < n; row++ {
		idx := t.source.Index(row, 0, parent)
		if !idx.IsValid() {
			continue
		}
		node := &RowNode{
			Index:    idx,
			Node:     idx.Node(),
			Depth:    depth,
			Children: t.source.RowCount(idx),
			Parent:   parentNode,
			last:     row == n-1,
		}
		t.nodes[node.Node] = node
		out = append(out, node)
	}
	for _, node := range out {
		if node.Children > 0 {
			t.buildChildren(node.Index, node, depth+1)
		}
	}
	return out
}

// children returns the direct children of node in row order.
func (t *TreeModel) children(node *RowNode) []*RowNode {
	var out []*RowNode
	for r := 0; r < node.Children; r++ {
		idx := t.source.Index(r, 0, node.Index)
		if c, ok := t.nodes[idx.Node()]; ok {
			out = append(out, c)
		}
	}
	return out
}

// IsExpanded reports whether node shows its children.
func (t *TreeModel) IsExpanded(node *RowNode) bool {
	if node == nil {
		return false
	}
	if v, ok := t.expanded[node.Node]; ok {
		return v
	}
	return node.Depth < 2
}

func (t *TreeModel) setExpanded(node *RowNode, v bool) {
	t.expanded[node.Node] = v
}

// rebuildFlatList rebuilds the flattened list of visible nodes.
func (t *TreeModel) rebuildFlatList() {
	t.flatList = t.flatList[:0]
	for _, root := range t.roots {
		t.appendVisible(root)
	}
	t.clampCursor()
}

func (t *TreeModel) appendVisible(node *RowNode) {
	t.flatList = append(t.flatList, node)
	if node.Children > 0 && t.IsExpanded(node) {
		for _, child := range t.children(node) {
			t.appendVisible(child)
		}
	}
}

func (t *TreeModel) clampCursor() {
	if t.cursor >= len(t.flatList) {
		t.cursor = len(t.flatList) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// View renders the header row and the visible part of the tree.
func (t *TreeModel) View() string {
	var sb strings.Builder
	sb.WriteString(t.renderHeader())
	sb.WriteString("\n")

	if len(t.flatList) == 0 {
		sb.WriteString(t.renderEmptyState())
		return sb.String()
	}

	start, end := t.visibleRange()
	for i := start; i < end; i++ {
		line := t.renderNode(t.flatList[i])
		if i == t.cursor {
			line = t.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (t *TreeModel) renderHeader() string {
	headers := itemmodel.Headers(t.source)
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = t.fitCell(h)
	}
	return t.theme.Header.Render(strings.Join(cells, " "))
}

func (t *TreeModel) renderEmptyState() string {
	muted := t.theme.Renderer.NewStyle().Foreground(t.theme.Muted)
	return muted.Render("No rows. Press a to add one.")
}

// renderNode renders one row: tree prefix and indicator in the first cell,
// then one fixed-width cell per column.
func (t *TreeModel) renderNode(node *RowNode) string {
	r := t.theme.Renderer
	values := itemmodel.RowValues(t.source, node.Index)

	prefix := t.buildTreePrefix(node)
	indicator := t.getExpandIndicator(node)
	lead := prefix + indicator + " "

	var sb strings.Builder
	sb.WriteString(r.NewStyle().Foreground(t.theme.Muted).Render(prefix))
	sb.WriteString(r.NewStyle().Foreground(t.theme.Secondary).Render(indicator))
	sb.WriteString(" ")

	first := ""
	if len(values) > 0 {
		first = values[0]
	}
	// indentation eats into the first cell so later columns line up with the
	// header
	firstWidth := t.columnWidth - runewidth.StringWidth(lead)
	if firstWidth < 1 {
		firstWidth = 1
	}
	sb.WriteString(fitWidth(first, firstWidth))
	for _, v := range values[min(1, len(values)):] {
		sb.WriteString(" ")
		sb.WriteString(t.fitCell(v))
	}
	return sb.String()
}

func (t *TreeModel) fitCell(s string) string {
	return fitWidth(s, t.columnWidth)
}

// fitWidth truncates or pads s to exactly w display columns.
func fitWidth(s string, w int) string {
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

// buildTreePrefix builds the indentation and branch characters for a node.
func (t *TreeModel) buildTreePrefix(node *RowNode) string {
	if node.Depth == 0 {
		return ""
	}

	var parts []string
	for a := node.Parent; a != nil && a.Depth > 0; a = a.Parent {
		if a.last {
			parts = append(parts, "    ")
		} else {
			parts = append(parts, "│   ")
		}
	}
	// collected child-to-root
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	if node.last {
		parts = append(parts, "└── ")
	} else {
		parts = append(parts, "├── ")
	}
	return strings.Join(parts, "")
}

// getExpandIndicator returns the expand/collapse indicator for a node.
func (t *TreeModel) getExpandIndicator(node *RowNode) string {
	if node.Children == 0 {
		return "•"
	}
	if t.IsExpanded(node) {
		return "▾"
	}
	return "▸"
}

// SelectedNode returns the selected row, or nil when the tree is empty.
func (t *TreeModel) SelectedNode() *RowNode {
	if t.cursor >= 0 && t.cursor < len(t.flatList) {
		return t.flatList[t.cursor]
	}
	return nil
}

// SelectedIndex returns the first-column index of the selected row, or an
// invalid Index when nothing is selected.
func (t *TreeModel) SelectedIndex() itemmodel.Index {
	if node := t.SelectedNode(); node != nil {
		return node.Index
	}
	return itemmodel.Index{}
}

// SelectedNodeID returns the handle of the selected row.
func (t *TreeModel) SelectedNodeID() tree.NodeID {
	if node := t.SelectedNode(); node != nil {
		return node.Node
	}
	return tree.NodeID{}
}

// SelectNode moves the cursor to the row with the given handle, expanding
// its ancestors when needed. Returns false if the row does not exist.
func (t *TreeModel) SelectNode(id tree.NodeID) bool {
	node, ok := t.nodes[id]
	if !ok {
		return false
	}
	reveal := false
	for a := node.Parent; a != nil; a = a.Parent {
		if !t.IsExpanded(a) {
			t.setExpanded(a, true)
			reveal = true
		}
	}
	if reveal {
		t.rebuildFlatList()
	}
	for i, n := range t.flatList {
		if n == node {
			t.cursor = i
			t.ensureCursorVisible()
			return true
		}
	}
	return false
}

// MoveDown moves the cursor down in the flat list.
func (t *TreeModel) MoveDown() {
	if t.cursor < len(t.flatList)-1 {
		t.cursor++
		t.ensureCursorVisible()
	}
}

// MoveUp moves the cursor up in the flat list.
func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureCursorVisible()
	}
}

// ToggleExpand expands or collapses the selected node.
func (t *TreeModel) ToggleExpand() {
	node := t.SelectedNode()
	if node != nil && node.Children > 0 {
		t.setExpanded(node, !t.IsExpanded(node))
		t.rebuildFlatList()
	}
}

// ExpandAll expands all nodes in the tree.
func (t *TreeModel) ExpandAll() {
	t.setAll(true)
}

// CollapseAll collapses all nodes in the tree.
func (t *TreeModel) CollapseAll() {
	t.setAll(false)
}

func (t *TreeModel) setAll(v bool) {
	selected := t.SelectedNode()
	for _, node := range t.nodes {
		if node.Children > 0 {
			t.setExpanded(node, v)
		}
	}
	t.rebuildFlatList()
	if selected == nil {
		return
	}
	// land on the nearest visible ancestor
	for n := selected; n != nil; n = n.Parent {
		if t.isVisible(n) {
			t.SelectNode(n.Node)
			return
		}
	}
}

func (t *TreeModel) isVisible(node *RowNode) bool {
	for a := node.Parent; a != nil; a = a.Parent {
		if !t.IsExpanded(a) {
			return false
		}
	}
	return true
}

// JumpToTop moves cursor to the first node.
func (t *TreeModel) JumpToTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

// JumpToBottom moves cursor to the last node.
func (t *TreeModel) JumpToBottom() {
	if len(t.flatList) > 0 {
		t.cursor = len(t.flatList) - 1
		t.ensureCursorVisible()
	}
}

// JumpToParent moves cursor to the parent of the selected node.
func (t *TreeModel) JumpToParent() {
	node := t.SelectedNode()
	if node == nil || node.Parent == nil {
		return
	}
	t.SelectNode(node.Parent.Node)
}

// ExpandOrMoveToChild handles the → / l key:
//   - collapsed node with children: expand it
//   - expanded node: move to first child
//   - leaf: do nothing
func (t *TreeModel) ExpandOrMoveToChild() {
	node := t.SelectedNode()
	if node == nil || node.Children == 0 {
		return
	}
	if !t.IsExpanded(node) {
		t.setExpanded(node, true)
		t.rebuildFlatList()
		return
	}
	if kids := t.children(node); len(kids) > 0 {
		t.SelectNode(kids[0].Node)
	}
}

// CollapseOrJumpToParent handles the ← / h key:
//   - expanded node with children: collapse it
//   - otherwise: jump to parent
func (t *TreeModel) CollapseOrJumpToParent() {
	node := t.SelectedNode()
	if node == nil {
		return
	}
	if node.Children > 0 && t.IsExpanded(node) {
		t.setExpanded(node, false)
		t.rebuildFlatList()
		return
	}
	t.JumpToParent()
}

func (t *TreeModel) pageSize() int {
	p := t.rowsHeight() / 2
	if p < 1 {
		p = 5
	}
	return p
}

// PageDown moves cursor down by half a viewport.
func (t *TreeModel) PageDown() {
	t.cursor += t.pageSize()
	t.clampCursor()
}

// PageUp moves cursor up by half a viewport.
func (t *TreeModel) PageUp() {
	t.cursor -= t.pageSize()
	t.clampCursor()
}

// rowsHeight is the number of tree lines that fit below the header.
func (t *TreeModel) rowsHeight() int {
	h := t.height - 1
	if t.height <= 0 {
		h = 20
	}
	if h < 1 {
		h = 1
	}
	return h
}

// ensureCursorVisible scrolls so the cursor is inside the viewport.
func (t *TreeModel) ensureCursorVisible() {
	h := t.rowsHeight()
	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	}
	if t.cursor >= t.viewportOffset+h {
		t.viewportOffset = t.cursor - h + 1
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}

// visibleRange returns the [start, end) range of nodes to render.
func (t *TreeModel) visibleRange() (start, end int) {
	if len(t.flatList) == 0 {
		return 0, 0
	}
	visible := t.rowsHeight()

	start = t.viewportOffset
	end = start + visible
	if end > len(t.flatList) {
		end = len(t.flatList)
		start = max(end-visible, 0)
	}
	return start, end
}

// Cursor returns the cursor position in the visible list.
func (t *TreeModel) Cursor() int {
	return t.cursor
}

// NodeCount returns the number of visible nodes.
func (t *TreeModel) NodeCount() int {
	return len(t.flatList)
}

// RootCount returns the number of top-level rows.
func (t *TreeModel) RootCount() int {
	return len(t.roots)
}

// Changing reports whether the model is between a Begin and End event.
func (t *TreeModel) Changing() bool {
	return t.changing
}
