// Package template expands a flat, section-3 unexpanded descriptor id
// sequence into a tree of nodes against a loaded table bundle, and
// provides a depth-first Visitor protocol over the result (spec.md §4.5).
//
// The tree is represented as an arena of nodes addressed by integer
// handle rather than the shared/weak-pointer cycle the original Rust
// source uses (spec.md §9's redesign guidance): each node stores its
// parent handle (-1 for the root) and an ordered slice of child handles,
// both owned by the Template that built them.
package template

import (
	"fmt"

	"github.com/rob-gra/go-bufr/bufr"
	"github.com/rob-gra/go-bufr/descriptor"
)

// Node is one arena entry: a resolved descriptor plus its tree position.
type Node struct {
	Parent     int // -1 for the root
	Descriptor interface{}
	Children   []int
}

// Template is the tree obtained by expanding one unexpanded-descriptor
// list against one TableGroup. The root is a synthetic sequence node
// named "ROOT" whose children are the top-level expansion result.
type Template struct {
	nodes []Node
	root  int
}

// Root returns the handle of the synthetic root node.
func (t *Template) Root() int { return t.root }

// Node returns the node stored at handle.
func (t *Template) Node(handle int) Node { return t.nodes[handle] }

// tableGroup is the subset of *table.TableGroup the expander needs;
// declared locally so this package does not import table (which would
// create no cycle here, but keeps expansion testable against a fake).
type tableGroup interface {
	Element(id descriptor.ID) (descriptor.Element, error)
	Operator(id descriptor.ID) (descriptor.Operator, error)
	Sequence(id descriptor.ID) (descriptor.Sequence, error)
}

// idSupplier is a forward-only cursor over a descriptor id slice,
// mirroring spec.md §4.5's "id supplier" abstraction. It offers next()
// only; there is no peek.
type idSupplier struct {
	ids []descriptor.ID
	pos int
}

func (s *idSupplier) next() (descriptor.ID, bool) {
	if s.pos >= len(s.ids) {
		return 0, false
	}
	id := s.ids[s.pos]
	s.pos++
	return id, true
}

// Expand builds a template from ids against tg. A single left-to-right
// pass expands each top-level id as if it were a member of the synthetic
// root sequence.
func Expand(tg tableGroup, ids []descriptor.ID) (*Template, error) {
	t := &Template{}
	rootIdx := t.newNode(-1, descriptor.Sequence{Name: "ROOT"})

	sup := &idSupplier{ids: ids}
	for {
		id, ok := sup.next()
		if !ok {
			break
		}
		childIdx, err := t.expandOne(rootIdx, id, sup, tg)
		if err != nil {
			return nil, err
		}
		t.nodes[rootIdx].Children = append(t.nodes[rootIdx].Children, childIdx)
	}
	t.root = rootIdx
	return t, nil
}

func (t *Template) newNode(parent int, d interface{}) int {
	t.nodes = append(t.nodes, Node{Parent: parent, Descriptor: d})
	return len(t.nodes) - 1
}

// expandOne consumes no id itself (the caller already did); it resolves
// id's kind, creates its node under parent, and recursively fills its
// children per spec.md §4.5's per-kind rule.
func (t *Template) expandOne(parent int, id descriptor.ID, sup *idSupplier, tg tableGroup) (int, error) {
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %s", bufr.ErrMalformedID, id)
	}
	switch descriptor.KindOf(id) {
	case descriptor.KindElement:
		e, err := tg.Element(id)
		if err != nil {
			return 0, err
		}
		return t.newNode(parent, e), nil

	case descriptor.KindOperator:
		o, err := tg.Operator(id)
		if err != nil {
			return 0, err
		}
		return t.newNode(parent, o), nil

	case descriptor.KindSequence:
		s, err := tg.Sequence(id)
		if err != nil {
			return 0, err
		}
		idx := t.newNode(parent, s)
		fresh := &idSupplier{ids: s.Members}
		for {
			mid, ok := fresh.next()
			if !ok {
				break
			}
			childIdx, err := t.expandOne(idx, mid, fresh, tg)
			if err != nil {
				return 0, err
			}
			t.nodes[idx].Children = append(t.nodes[idx].Children, childIdx)
		}
		return idx, nil

	case descriptor.KindReplication:
		r := descriptor.Replication{ID: id}
		idx := t.newNode(parent, r)
		n := r.NMembers()
		if r.Delayed() {
			n++
		}
		for i := 0; i < n; i++ {
			mid, ok := sup.next()
			if !ok {
				return 0, fmt.Errorf("%w: replication %s needs %d members, found %d", bufr.ErrInsufficientIDs, id, n, i)
			}
			childIdx, err := t.expandOne(idx, mid, sup, tg)
			if err != nil {
				return 0, err
			}
			t.nodes[idx].Children = append(t.nodes[idx].Children, childIdx)
		}
		return idx, nil

	default:
		return 0, fmt.Errorf("%w: %s", bufr.ErrMalformedID, id)
	}
}
