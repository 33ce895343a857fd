// Package descriptor implements the BUFR descriptor id taxonomy: the
// FXXYYY decomposition and the four disjoint descriptor kinds (element,
// replication, operator, sequence) that a descriptor id resolves to based
// on its F field. See WMO Manual on Codes, FM 94 BUFR.
package descriptor

import (
	"fmt"
)

// ID is a descriptor id, a non-negative six-digit decimal FXXYYY.
type ID int

// F returns the descriptor kind selector, F in {0,1,2,3} for valid ids.
func (id ID) F() int { return int(id) / 100000 }

// X returns the middle field, X in [0,99].
func (id ID) X() int { return (int(id) / 1000) % 100 }

// Y returns the low field, Y in [0,255].
func (id ID) Y() int { return int(id) % 1000 }

// FX returns the F and X fields combined, id/1000.
func (id ID) FX() int { return int(id) / 1000 }

// String formats id zero-padded to six digits.
func (id ID) String() string {
	return fmt.Sprintf("%06d", int(id))
}

// Valid reports whether id's F field is one of the four defined kinds.
func (id ID) Valid() bool {
	f := id.F()
	return id >= 0 && f >= 0 && f <= 3
}

// Kind identifies which of the four descriptor variants an ID resolves to.
type Kind int

const (
	// KindElement: atomic value, details in Table B.
	KindElement Kind = iota
	// KindReplication: meta-descriptor repeating the next X members Y
	// times (Y=0 means delayed replication).
	KindReplication
	// KindOperator: modifies subsequent decoding semantics, no children.
	KindOperator
	// KindSequence: named alias expanding to a Table D member list.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindReplication:
		return "replication"
	case KindOperator:
		return "operator"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// KindOf returns the descriptor kind for id's F field. The caller must
// check id.Valid() first; KindOf panics on an out-of-range F, mirroring
// the "malformed descriptor id" error the table layer raises for F >= 4.
func KindOf(id ID) Kind {
	switch id.F() {
	case 0:
		return KindElement
	case 1:
		return KindReplication
	case 2:
		return KindOperator
	case 3:
		return KindSequence
	default:
		panic(fmt.Sprintf("descriptor: %s: F=%d is not a valid descriptor kind", id, id.F()))
	}
}

// Element carries the Table B attributes resolved for an element
// descriptor.
type Element struct {
	ID     ID
	Name   string
	Unit   string
	Scale  int
	RefVal int
	NBits  int
}

func (e Element) String() string {
	return fmt.Sprintf("%s %s", e.ID, e.Name)
}

// Replication is a synthetic entry carrying a replication descriptor's id;
// it has no persistent table storage (spec.md §4.3's "synthetic R-entry").
type Replication struct {
	ID ID
}

// NMembers is the number of descriptors the replication repeats (X).
func (r Replication) NMembers() int { return r.ID.X() }

// NRepeats is the static repeat count (Y); 0 means delayed replication.
func (r Replication) NRepeats() int { return r.ID.Y() }

// Delayed reports whether the actual repeat count is read at decode time
// from the first following member (Y == 0).
func (r Replication) Delayed() bool { return r.NRepeats() == 0 }

func (r Replication) String() string {
	return r.ID.String()
}

// Operator carries Table C metadata for an operator descriptor.
type Operator struct {
	ID         ID
	Name       string
	Definition string
}

func (o Operator) String() string {
	return fmt.Sprintf("%s %s", o.ID, o.Name)
}

// Sequence carries Table D metadata for a sequence descriptor: its name
// and the ordered member ids it expands to.
type Sequence struct {
	ID      ID
	Name    string
	Members []ID
}

func (s Sequence) String() string {
	return fmt.Sprintf("%s %s", s.ID, s.Name)
}
