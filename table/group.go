// Package table loads and caches WMO BUFR table groups: Table B (element
// descriptors), Table C (operators), Table D (sequences), code/flag value
// tables, and the four Meta{A,B,C,D} human-readable lookup tables, per
// spec.md §3-4.
package table

import (
	"fmt"
	"strconv"

	"github.com/rob-gra/go-bufr/bufr"
	"github.com/rob-gra/go-bufr/descriptor"
)

// TableGroupID identifies one set of BUFR table definitions: a base
// directory on disk plus the (master table, originating centre,
// sub-centre, table version) tuple carried in BUFR section 1. Two ids
// with identical fields compare equal by value, satisfying spec.md §3's
// "must compare equal and hash equally" requirement directly via Go's
// struct equality and its use as a map key.
type TableGroupID struct {
	BaseDir           string
	MasterTableNumber int
	CentreNumber      int
	SubCentreNumber   int
	VersionNumber     int
}

func (id TableGroupID) String() string {
	return fmt.Sprintf("%s/master=%d/centre=%d_%d/v%d",
		id.BaseDir, id.MasterTableNumber, id.CentreNumber, id.SubCentreNumber, id.VersionNumber)
}

// TableGroup is one fully-loaded set of table definitions, immutable once
// built.
type TableGroup struct {
	id       TableGroupID
	b        map[int]BEntry
	d        map[int]DEntry
	c        map[string]CEntry
	codeFlag map[int]codeFlagEntry
	metaA    map[int]string
	metaB    map[string]string
	metaD    map[string]string
}

// Load resolves and parses all seven table definition files for id,
// applying the fallback chain documented on resolvePath for each.
func Load(id TableGroupID) (*TableGroup, error) {
	b, err := loadTableB(id)
	if err != nil {
		return nil, err
	}
	d, err := loadTableD(id)
	if err != nil {
		return nil, err
	}
	cf, err := loadCodeAndFlag(id)
	if err != nil {
		return nil, err
	}
	metaA, err := loadMetaA(id)
	if err != nil {
		return nil, err
	}
	metaB, err := loadMetaB(id)
	if err != nil {
		return nil, err
	}
	c, err := loadMetaC(id)
	if err != nil {
		return nil, err
	}
	metaD, err := loadMetaD(id)
	if err != nil {
		return nil, err
	}
	return &TableGroup{
		id:       id,
		b:        b,
		d:        d,
		c:        c,
		codeFlag: cf,
		metaA:    metaA,
		metaB:    metaB,
		metaD:    metaD,
	}, nil
}

// ID returns the identity this group was loaded for.
func (g *TableGroup) ID() TableGroupID { return g.id }

// Element resolves an element descriptor (F=0) to its Table B entry.
func (g *TableGroup) Element(id descriptor.ID) (descriptor.Element, error) {
	e, ok := g.b[int(id)]
	if !ok {
		return descriptor.Element{}, fmt.Errorf("%w: %s", bufr.ErrDescriptorNotFound, id)
	}
	return descriptor.Element{
		ID: id, Name: e.Name, Unit: e.Unit, Scale: e.Scale, RefVal: e.RefVal, NBits: e.NBits,
	}, nil
}

// Sequence resolves a sequence descriptor (F=3) to its Table D entry.
func (g *TableGroup) Sequence(id descriptor.ID) (descriptor.Sequence, error) {
	e, ok := g.d[int(id)]
	if !ok {
		return descriptor.Sequence{}, fmt.Errorf("%w: %s", bufr.ErrDescriptorNotFound, id)
	}
	members := make([]descriptor.ID, len(e.Members))
	for i, m := range e.Members {
		members[i] = descriptor.ID(m)
	}
	return descriptor.Sequence{ID: id, Name: e.Name, Members: members}, nil
}

// Operator resolves an operator descriptor (F=2) to its Table C entry,
// falling back to the wildcard "0XXYYY" form (Y held as literal "YYY")
// when no exact FXXYYY row exists, per spec.md §3.
func (g *TableGroup) Operator(id descriptor.ID) (descriptor.Operator, error) {
	if e, ok := g.c[fxyKey(id.F(), id.X(), strconv.Itoa(id.Y()))]; ok {
		return descriptor.Operator{ID: id, Name: e.Name, Definition: e.Definition}, nil
	}
	if e, ok := g.c[fxyKey(id.F(), id.X(), "YYY")]; ok {
		return descriptor.Operator{ID: id, Name: e.Name, Definition: e.Definition}, nil
	}
	return descriptor.Operator{}, fmt.Errorf("%w: %s", bufr.ErrDescriptorNotFound, id)
}

// Lookup resolves any descriptor id to its typed entry according to its
// kind (spec.md §4.3). Replication descriptors (F=1) have no persistent
// table entry; Lookup returns a synthetic descriptor.Replication{ID: id}
// for them. An id whose F is outside 0..3 yields ErrMalformedID.
func (g *TableGroup) Lookup(id descriptor.ID) (interface{}, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %s", bufr.ErrMalformedID, id)
	}
	switch descriptor.KindOf(id) {
	case descriptor.KindElement:
		return g.Element(id)
	case descriptor.KindReplication:
		return descriptor.Replication{ID: id}, nil
	case descriptor.KindOperator:
		return g.Operator(id)
	case descriptor.KindSequence:
		return g.Sequence(id)
	default:
		return nil, fmt.Errorf("%w: %s", bufr.ErrMalformedID, id)
	}
}

// LookupCodeFlag resolves the human label for one encoded value of a
// code-table or flag-table element, per spec.md §4.3's "lookup_code_flag".
func (g *TableGroup) LookupCodeFlag(id descriptor.ID, value int) (string, error) {
	entry, ok := g.codeFlag[int(id)]
	if !ok {
		return "", fmt.Errorf("%w: no code/flag table for %s", bufr.ErrDescriptorNotFound, id)
	}
	label, ok := entry[value]
	if !ok {
		return "", fmt.Errorf("%w: %s has no entry for value %d", bufr.ErrDescriptorNotFound, id, value)
	}
	return label, nil
}

// LookupMeta resolves the human-readable documentation text for a
// descriptor id from MetaB (F=0), MetaC (F=2), or MetaD (F=3), per
// spec.md §4.3 and the concrete forms in §8 scenario S4. MetaB's value is
// "name: description"; MetaC's is the bare operator name; MetaD's is its
// single text column.
func (g *TableGroup) LookupMeta(id descriptor.ID) (string, error) {
	switch id.F() {
	case 0:
		if v, ok := g.metaB[fxKey(id.F(), id.X())]; ok {
			return v, nil
		}
	case 2:
		if e, ok := g.c[fxyKey(id.F(), id.X(), strconv.Itoa(id.Y()))]; ok {
			return e.Name, nil
		}
		if e, ok := g.c[fxyKey(id.F(), id.X(), "YYY")]; ok {
			return e.Name, nil
		}
	case 3:
		if v, ok := g.metaD[fxKey(id.F(), id.X())]; ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: no metadata text for %s", bufr.ErrDescriptorNotFound, id)
}

// DataCategoryOf resolves a section-1 data category code to its
// human-readable name via MetaA, expanding the "lo - hi" ranges at load
// time (spec.md §4.3, §6.2).
func (g *TableGroup) DataCategoryOf(code int) (string, error) {
	name, ok := g.metaA[code]
	if !ok {
		return "", fmt.Errorf("%w: no data category %d", bufr.ErrDescriptorNotFound, code)
	}
	return name, nil
}
