package template

import (
	"fmt"

	"github.com/rob-gra/go-bufr/descriptor"
)

// Visitor is the depth-first traversal protocol over a Template, per
// spec.md §4.5. Exposing a replication node's children as a slice lets a
// payload decoder read the delayed count off VisitReplicationFactor and
// then replay the remaining children that many times; Walk itself does
// not replay anything, it visits each child node exactly once in order.
type Visitor interface {
	VisitElement(e descriptor.Element) error
	VisitOperator(o descriptor.Operator) error
	VisitSequenceEnter(s descriptor.Sequence) error
	VisitSequenceExit(s descriptor.Sequence) error
	VisitReplicationEnter(r descriptor.Replication, children []int) error
	VisitReplicationFactor(e descriptor.Element) error
	VisitReplicationExit(r descriptor.Replication) error
}

// Walk traverses t depth-first from its root, dispatching each node to
// the matching Visitor callback.
func (t *Template) Walk(v Visitor) error {
	return t.walk(t.root, v)
}

func (t *Template) walk(handle int, v Visitor) error {
	n := t.nodes[handle]
	switch d := n.Descriptor.(type) {
	case descriptor.Element:
		return v.VisitElement(d)

	case descriptor.Operator:
		return v.VisitOperator(d)

	case descriptor.Sequence:
		if err := v.VisitSequenceEnter(d); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := t.walk(c, v); err != nil {
				return err
			}
		}
		return v.VisitSequenceExit(d)

	case descriptor.Replication:
		if err := v.VisitReplicationEnter(d, n.Children); err != nil {
			return err
		}
		for i, c := range n.Children {
			if d.Delayed() && i == 0 {
				factorNode := t.nodes[c]
				elem, ok := factorNode.Descriptor.(descriptor.Element)
				if !ok {
					return fmt.Errorf("template: replication %s's first member is not an element descriptor", d.ID)
				}
				if err := v.VisitReplicationFactor(elem); err != nil {
					return err
				}
				continue
			}
			if err := t.walk(c, v); err != nil {
				return err
			}
		}
		return v.VisitReplicationExit(d)

	default:
		return fmt.Errorf("template: node %d has unrecognized descriptor type %T", handle, n.Descriptor)
	}
}
