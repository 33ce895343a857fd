package decoder

import (
	"fmt"
	"math"
	"strings"

	"github.com/rob-gra/go-bufr/bitio"
	"github.com/rob-gra/go-bufr/bufr"
	"github.com/rob-gra/go-bufr/descriptor"
	"github.com/rob-gra/go-bufr/table"
	"github.com/rob-gra/go-bufr/template"
)

// buildPayload drives br through tpl, producing the structured Payload
// spec.md §9 Open Question 1 names as the "evident intent" reading of
// section 4: one SimpleData per element descriptor encountered, with
// replication bodies replayed according to their factor (delayed) or
// their static Y count. This does not exist in original_source's
// decoder.rs (its read_field_payload is an unimplemented stub), so the
// element/operator value semantics below are this repository's own
// resolution of that open question, not a teacher precedent.
func buildPayload(tpl *template.Template, br *bitio.Reader, tg *table.TableGroup) ([]bufr.SimpleData, error) {
	var out []bufr.SimpleData
	if err := walkPayload(tpl, tpl.Root(), br, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkPayload(tpl *template.Template, handle int, br *bitio.Reader, out *[]bufr.SimpleData) error {
	n := tpl.Node(handle)
	switch d := n.Descriptor.(type) {
	case descriptor.Element:
		v, err := readElementValue(br, d)
		if err != nil {
			return err
		}
		*out = append(*out, v)
		return nil

	case descriptor.Operator:
		// Operators modify subsequent decoding semantics (e.g. widen the
		// next element's bit width); that modification machinery is not
		// implemented here, so an operator node contributes no payload
		// value of its own.
		return nil

	case descriptor.Sequence:
		for _, c := range n.Children {
			if err := walkPayload(tpl, c, br, out); err != nil {
				return err
			}
		}
		return nil

	case descriptor.Replication:
		return walkReplication(tpl, handle, d, br, out)

	default:
		return fmt.Errorf("decoder: payload node %d has unrecognized descriptor type %T", handle, n.Descriptor)
	}
}

func walkReplication(tpl *template.Template, handle int, rep descriptor.Replication, br *bitio.Reader, out *[]bufr.SimpleData) error {
	n := tpl.Node(handle)
	body := n.Children
	count := rep.NRepeats()

	if rep.Delayed() {
		if len(body) == 0 {
			return fmt.Errorf("decoder: delayed replication %s has no factor member", rep.ID)
		}
		factorNode := tpl.Node(body[0])
		factorElem, ok := factorNode.Descriptor.(descriptor.Element)
		if !ok {
			return fmt.Errorf("decoder: delayed replication %s's first member is not an element descriptor", rep.ID)
		}
		// The replication factor is always read as a plain bit-width
		// count, regardless of the factor element's declared unit.
		rawCount, err := br.ReadUnsigned(factorElem.NBits)
		if err != nil {
			return err
		}
		factorValue := bufr.NewSimpleU32(rawCount)
		*out = append(*out, factorValue)
		count = int(rawCount)
		body = body[1:]
	}

	for i := 0; i < count; i++ {
		for _, c := range body {
			if err := walkPayload(tpl, c, br, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// readElementValue reads one element's nbits, applying spec.md §4.6's
// value transform: character units are read as bytes, code/flag units
// preserve the raw integer, everything else is scaled by
// (raw - refval) * 10^-scale.
func readElementValue(br *bitio.Reader, e descriptor.Element) (bufr.SimpleData, error) {
	unit := strings.ToLower(e.Unit)
	switch {
	case strings.Contains(unit, "ccitt ia5") || strings.Contains(unit, "character"):
		b := make([]byte, e.NBits/8)
		if err := br.ReadBytes(len(b), b); err != nil {
			return bufr.SimpleData{}, err
		}
		return bufr.NewSimpleBytes(b), nil

	case strings.Contains(unit, "code table") || strings.Contains(unit, "flag table"):
		v, err := br.ReadUnsigned(e.NBits)
		if err != nil {
			return bufr.SimpleData{}, err
		}
		return bufr.NewSimpleU32(v), nil

	default:
		raw, err := br.ReadUnsigned(e.NBits)
		if err != nil {
			return bufr.SimpleData{}, err
		}
		v := (float64(raw) - float64(e.RefVal)) * math.Pow(10, -float64(e.Scale))
		return bufr.NewSimpleF64(v), nil
	}
}
