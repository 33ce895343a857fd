package table

// BEntry is a Table B element descriptor entry: name, unit, decimal
// scale, reference value, bit width, plus CREX fields preserved as
// uninterpreted metadata (spec.md §3 "Table B entry").
type BEntry struct {
	Name       string `json:"name"`
	Unit       string `json:"unit"`
	Scale      int    `json:"scale"`
	RefVal     int    `json:"refval"`
	NBits      int    `json:"nbits"`
	UnitCREX   string `json:"unit_crex"`
	ScaleCREX  int    `json:"scale_crex"`
	NCharsCREX int    `json:"nchars_crex"`
}

// DEntry is a Table D sequence descriptor entry: name and ordered member
// descriptor ids.
type DEntry struct {
	Name    string
	Members []int
}

// CEntry is a Table C (operator) entry: human name and definition text,
// keyed both by full FXXYYY and by a wildcard "0XXYYY" form where Y is the
// literal string "YYY" (spec.md §3 "Table C entry").
type CEntry struct {
	Name       string
	Definition string
}

// codeFlagEntry maps encoded value to human label for one element id.
type codeFlagEntry map[int]string
