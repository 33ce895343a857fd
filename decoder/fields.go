package decoder

import (
	"github.com/rob-gra/go-bufr/bufr"
	"github.com/rob-gra/go-bufr/descriptor"
)

// readFieldBytes reads nbytes as a character/byte-string field. Grounded
// on original_source/src/decoder.rs's FieldReader::read_field_bytes and
// the asdu package's small per-width field-decode helper style.
func (d *decoder) readFieldBytes(name string, nbytes int) (bufr.Field, error) {
	b := make([]byte, nbytes)
	if err := d.br.ReadBytes(nbytes, b); err != nil {
		return bufr.Field{}, err
	}
	return bufr.NewSimpleField(name, bufr.NewSimpleBytes(b)), nil
}

func (d *decoder) readFieldU32(name string, nbits int) (bufr.Field, error) {
	v, err := d.br.ReadUnsigned(nbits)
	if err != nil {
		return bufr.Field{}, err
	}
	return bufr.NewSimpleField(name, bufr.NewSimpleU32(v)), nil
}

func (d *decoder) readFieldBool(name string) (bufr.Field, error) {
	v, err := d.br.ReadBool()
	if err != nil {
		return bufr.Field{}, err
	}
	return bufr.NewSimpleField(name, bufr.NewSimpleBool(v)), nil
}

func (d *decoder) readFieldFlag(name string, nbits int) (bufr.Field, error) {
	v, err := d.br.ReadUnsigned(nbits)
	if err != nil {
		return bufr.Field{}, err
	}
	return bufr.NewSimpleField(name, bufr.NewSimpleFlag(v, nbits)), nil
}

func (d *decoder) readFieldRaw(name string, nbits int) (bufr.Field, error) {
	b, err := d.br.ReadRaw(nbits)
	if err != nil {
		return bufr.Field{}, err
	}
	return bufr.NewSimpleField(name, bufr.NewSimpleRaw(b, nbits)), nil
}

// readFieldUED reads n unexpanded descriptor ids, each F(2 bits)
// X(6 bits) Y(8 bits) combined as F*100000 + X*1000 + Y, per spec.md
// §4.6's section 3 layout.
func (d *decoder) readFieldUED(name string, n int) (bufr.Field, error) {
	ids := make([]descriptor.ID, n)
	for i := 0; i < n; i++ {
		f, err := d.br.ReadUnsigned(2)
		if err != nil {
			return bufr.Field{}, err
		}
		x, err := d.br.ReadUnsigned(6)
		if err != nil {
			return bufr.Field{}, err
		}
		y, err := d.br.ReadUnsigned(8)
		if err != nil {
			return bufr.Field{}, err
		}
		ids[i] = descriptor.ID(f*100000 + x*1000 + y)
	}
	return bufr.NewDescriptorListField(name, ids), nil
}
