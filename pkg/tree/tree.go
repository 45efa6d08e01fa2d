// Package tree provides an arena-backed n-ary tree of owned nodes.
//
// Nodes live in a slice of slots and are addressed by NodeID handles. Each
// slot records its parent and an ordered list of children; the parent link is
// only used for navigation, never for lifetime. Destroyed slots are recycled
// with a bumped generation so that handles to them go stale instead of
// silently pointing at a new node.
package tree

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

var (
	// ErrInvalidNode is returned for the zero NodeID or a handle to a destroyed node.
	ErrInvalidNode = errors.New("invalid node")
	// ErrHasParent is returned when attaching a node that is still attached elsewhere.
	ErrHasParent = errors.New("node already has a parent")
	// ErrNotChild is returned when removing a node that is not a direct child.
	ErrNotChild = errors.New("node is not a child")
	// ErrNoParent is returned when reordering a node that has no parent.
	ErrNoParent = errors.New("node has no parent")
	// ErrRowOutOfRange is returned for a row outside the parent's child list.
	ErrRowOutOfRange = errors.New("row out of range")
	// ErrCycle is returned when an attach would make a node its own ancestor.
	ErrCycle = errors.New("attach would create a cycle")
)

// NodeID is an opaque handle to a node in a Tree. The zero value refers to
// no node.
type NodeID struct {
	index int32
	gen   uint32
}

// IsZero reports whether id is the zero handle.
func (id NodeID) IsZero() bool {
	return id.gen == 0
}

func (id NodeID) String() string {
	if id.IsZero() {
		return "#nil"
	}
	return fmt.Sprintf("#%d.%d", id.index, id.gen)
}

type slot[T any] struct {
	value    T
	parent   NodeID
	children []NodeID
	gen      uint32
	live     bool
}

// Tree is an arena of nodes carrying values of type T. A Tree is not safe
// for concurrent use.
type Tree[T any] struct {
	slots []slot[T]
	free  []int32
	count int

	cloneValue func(T) T
}

// Option configures a Tree.
type Option[T any] func(*Tree[T])

// WithCloneFunc sets the function used by Clone to copy node values. Without
// it values are copied by assignment.
func WithCloneFunc[T any](fn func(T) T) Option[T] {
	return func(t *Tree[T]) {
		t.cloneValue = fn
	}
}

// New creates an empty tree.
func New[T any](opts ...Option[T]) *Tree[T] {
	t := &Tree[T]{}
	for _, opt := range opts {
		opt(t)
	}
	if t.cloneValue == nil {
		t.cloneValue = func(v T) T { return v }
	}
	return t
}

// Len returns the number of live nodes.
func (t *Tree[T]) Len() int {
	return t.count
}

// Contains reports whether id refers to a live node.
func (t *Tree[T]) Contains(id NodeID) bool {
	return t.lookup(id) != nil
}

func (t *Tree[T]) lookup(id NodeID) *slot[T] {
	if id.IsZero() || id.index < 0 || int(id.index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[id.index]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return s
}

func (t *Tree[T]) mustLookup(id NodeID) (*slot[T], error) {
	s := t.lookup(id)
	if s == nil {
		return nil, fmt.Errorf("node %v: %w", id, ErrInvalidNode)
	}
	return s, nil
}

func (t *Tree[T]) alloc(value T) NodeID {
	var idx int32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot[T]{})
		idx = int32(len(t.slots) - 1)
	}
	s := &t.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.value = value
	s.parent = NodeID{}
	s.children = nil
	s.live = true
	t.count++
	return NodeID{index: idx, gen: s.gen}
}

// Create adds a node holding value. When parent is non-zero the node is
// appended as the parent's last child.
func (t *Tree[T]) Create(value T, parent NodeID) (NodeID, error) {
	if !parent.IsZero() {
		if _, err := t.mustLookup(parent); err != nil {
			return NodeID{}, fmt.Errorf("create: %w", err)
		}
	}
	id := t.alloc(value)
	if !parent.IsZero() {
		p := &t.slots[parent.index]
		p.children = append(p.children, id)
		t.slots[id.index].parent = parent
	}
	return id, nil
}

// Value returns the value stored at id.
func (t *Tree[T]) Value(id NodeID) (T, bool) {
	s := t.lookup(id)
	if s == nil {
		var zero T
		return zero, false
	}
	return s.value, true
}

// SetValue replaces the value stored at id.
func (t *Tree[T]) SetValue(id NodeID, value T) error {
	s, err := t.mustLookup(id)
	if err != nil {
		return err
	}
	s.value = value
	return nil
}

// Update calls fn with a pointer to the value stored at id. The pointer must
// not be retained past the call.
func (t *Tree[T]) Update(id NodeID, fn func(*T)) error {
	s, err := t.mustLookup(id)
	if err != nil {
		return err
	}
	fn(&s.value)
	return nil
}

// Parent returns the parent of id, or the zero NodeID.
func (t *Tree[T]) Parent(id NodeID) NodeID {
	s := t.lookup(id)
	if s == nil {
		return NodeID{}
	}
	return s.parent
}

// Row returns the position of id within its parent's children, or 0 when
// id has no parent.
func (t *Tree[T]) Row(id NodeID) int {
	s := t.lookup(id)
	if s == nil || s.parent.IsZero() {
		return 0
	}
	return slices.Index(t.slots[s.parent.index].children, id)
}

// Child returns the child of id at row, or the zero NodeID when row is out
// of range.
func (t *Tree[T]) Child(id NodeID, row int) NodeID {
	s := t.lookup(id)
	if s == nil || row < 0 || row >= len(s.children) {
		return NodeID{}
	}
	return s.children[row]
}

// ChildCount returns the number of children of id.
func (t *Tree[T]) ChildCount(id NodeID) int {
	s := t.lookup(id)
	if s == nil {
		return 0
	}
	return len(s.children)
}

// Children returns a copy of the ordered children of id.
func (t *Tree[T]) Children(id NodeID) []NodeID {
	s := t.lookup(id)
	if s == nil {
		return nil
	}
	return slices.Clone(s.children)
}

// IsAncestor reports whether ancestor is id itself or one of its ancestors.
func (t *Tree[T]) IsAncestor(ancestor, id NodeID) bool {
	for cur := id; !cur.IsZero(); cur = t.Parent(cur) {
		if cur == ancestor {
			return true
		}
	}
	return false
}

func (t *Tree[T]) detach(id NodeID) {
	s := &t.slots[id.index]
	if s.parent.IsZero() {
		return
	}
	p := &t.slots[s.parent.index]
	if i := slices.Index(p.children, id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	s.parent = NodeID{}
}

// SetParent moves id under newParent as its last child. A zero newParent
// only detaches. Attaching a node beneath itself returns ErrCycle.
func (t *Tree[T]) SetParent(id, newParent NodeID) error {
	if _, err := t.mustLookup(id); err != nil {
		return fmt.Errorf("set parent: %w", err)
	}
	if newParent.IsZero() {
		t.detach(id)
		return nil
	}
	if _, err := t.mustLookup(newParent); err != nil {
		return fmt.Errorf("set parent: %w", err)
	}
	if t.IsAncestor(id, newParent) {
		return fmt.Errorf("set parent of %v under %v: %w", id, newParent, ErrCycle)
	}
	t.detach(id)
	p := &t.slots[newParent.index]
	p.children = append(p.children, id)
	t.slots[id.index].parent = newParent
	return nil
}

// InsertChild inserts child into parent's children at row. The child must
// not already have a parent.
func (t *Tree[T]) InsertChild(parent NodeID, row int, child NodeID) error {
	p, err := t.mustLookup(parent)
	if err != nil {
		return fmt.Errorf("insert child: %w", err)
	}
	c, err := t.mustLookup(child)
	if err != nil {
		return fmt.Errorf("insert child: %w", err)
	}
	if !c.parent.IsZero() {
		return fmt.Errorf("insert child %v: %w", child, ErrHasParent)
	}
	if row < 0 || row > len(p.children) {
		return fmt.Errorf("insert child at %d of %d: %w", row, len(p.children), ErrRowOutOfRange)
	}
	if t.IsAncestor(child, parent) {
		return fmt.Errorf("insert child %v under %v: %w", child, parent, ErrCycle)
	}
	p.children = slices.Insert(p.children, row, child)
	c.parent = parent
	return nil
}

// AppendChild appends child as the last child of parent. The child must not
// already have a parent.
func (t *Tree[T]) AppendChild(parent, child NodeID) error {
	return t.InsertChild(parent, t.ChildCount(parent), child)
}

// RemoveChild detaches child from parent without destroying it. Ownership of
// the detached subtree passes to the caller.
func (t *Tree[T]) RemoveChild(parent, child NodeID) error {
	if _, err := t.mustLookup(parent); err != nil {
		return fmt.Errorf("remove child: %w", err)
	}
	c, err := t.mustLookup(child)
	if err != nil {
		return fmt.Errorf("remove child: %w", err)
	}
	if c.parent != parent {
		return fmt.Errorf("remove %v from %v: %w", child, parent, ErrNotChild)
	}
	t.detach(child)
	return nil
}

// SetRow moves id to row within its parent's children.
func (t *Tree[T]) SetRow(id NodeID, row int) error {
	s, err := t.mustLookup(id)
	if err != nil {
		return fmt.Errorf("set row: %w", err)
	}
	if s.parent.IsZero() {
		return fmt.Errorf("set row of %v: %w", id, ErrNoParent)
	}
	p := &t.slots[s.parent.index]
	if row < 0 || row >= len(p.children) {
		return fmt.Errorf("set row %d of %d: %w", row, len(p.children), ErrRowOutOfRange)
	}
	from := slices.Index(p.children, id)
	if from == row {
		return nil
	}
	p.children = slices.Delete(p.children, from, from+1)
	p.children = slices.Insert(p.children, row, id)
	return nil
}

// Clone deep-copies the subtree rooted at id. The copy is parentless and
// shares no nodes with the source.
func (t *Tree[T]) Clone(id NodeID) (NodeID, error) {
	if _, err := t.mustLookup(id); err != nil {
		return NodeID{}, fmt.Errorf("clone: %w", err)
	}
	return t.cloneInto(id, NodeID{}), nil
}

func (t *Tree[T]) cloneInto(src, parent NodeID) NodeID {
	// alloc may grow t.slots, so read the source through its index each time.
	value := t.cloneValue(t.slots[src.index].value)
	children := slices.Clone(t.slots[src.index].children)

	dst := t.alloc(value)
	if !parent.IsZero() {
		p := &t.slots[parent.index]
		p.children = append(p.children, dst)
		t.slots[dst.index].parent = parent
	}
	for _, child := range children {
		t.cloneInto(child, dst)
	}
	return dst
}

// Destroy removes id and all of its descendants, unlinking id from its
// parent. Every destroyed handle becomes stale.
func (t *Tree[T]) Destroy(id NodeID) error {
	if _, err := t.mustLookup(id); err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	t.detach(id)
	t.release(id)
	return nil
}

func (t *Tree[T]) release(id NodeID) {
	s := &t.slots[id.index]
	for _, child := range s.children {
		t.release(child)
	}
	var zero T
	s.value = zero
	s.children = nil
	s.parent = NodeID{}
	s.live = false
	t.free = append(t.free, id.index)
	t.count--
}

// Walk visits id and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (t *Tree[T]) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	if t.lookup(id) == nil {
		return
	}
	t.walk(id, 0, fn)
}

func (t *Tree[T]) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, child := range t.Children(id) {
		t.walk(child, depth+1, fn)
	}
}

// Dump writes a diagnostic description of the subtree rooted at id.
func (t *Tree[T]) Dump(w io.Writer, id NodeID) error {
	var err error
	t.Walk(id, func(n NodeID, depth int) bool {
		if err != nil {
			return false
		}
		s := &t.slots[n.index]
		fill := strings.Repeat("  ", depth)
		_, err = fmt.Fprintf(w, "%s%v %v parent=%v children=%v\n", fill, n, s.value, s.parent, s.children)
		return err == nil
	})
	return err
}
