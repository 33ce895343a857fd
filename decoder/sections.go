package decoder

import (
	"fmt"

	"github.com/rob-gra/go-bufr/bufr"
	"github.com/rob-gra/go-bufr/clog"
	"github.com/rob-gra/go-bufr/table"
	"github.com/rob-gra/go-bufr/template"
)

func (d *decoder) decodeSection0(msg *bufr.Message) error {
	sig, err := d.readFieldBytes("start_signature", 4)
	if err != nil {
		return err
	}
	length, err := d.readFieldU32("length", 24)
	if err != nil {
		return err
	}
	edition, err := d.readFieldU32("edition", 8)
	if err != nil {
		return err
	}

	if edition.Simple().GetU32() != 4 {
		return fmt.Errorf("%w: got edition %d", bufr.ErrUnsupportedEdition, edition.Simple().GetU32())
	}

	s := msg.Section(0)
	s.AddField(sig)
	s.AddField(length)
	s.AddField(edition)
	return nil
}

// decodeSection1 supports the section-1 layouts of editions 1-3 for
// forward parsing only (they differ field-by-field from edition 4's
// layout); edition is validated to equal 4 in decodeSection0, so those
// branches are reached only if that validation is ever relaxed. Kept
// per spec.md §4.6's explicit instruction to retain them.
func (d *decoder) decodeSection1(msg *bufr.Message) error {
	editionField, _ := msg.Section(0).Field("edition")
	edition := editionField.Simple().GetU32()

	var fields []bufr.Field
	read := func(f bufr.Field, err error) error {
		if err != nil {
			return err
		}
		fields = append(fields, f)
		return nil
	}

	switch edition {
	case 1:
		if err := read(d.readFieldU32("originating_centre", 16)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("update_sequence_number", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldBool("is_section2_present")); err != nil {
			return err
		}
		if err := read(d.readFieldFlag("reserved_bits", 7)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("data_category", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("local_subcategory", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("master_table_version", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("local_table_version", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("year", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("month", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("day", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("hour", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("minute", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("second", 8)); err != nil {
			return err
		}

	case 2, 3:
		if err := read(d.readFieldU32("section_length", 24)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("master_table_number", 8)); err != nil {
			return err
		}
		if edition == 3 {
			if err := read(d.readFieldU32("originating_subcentre", 8)); err != nil {
				return err
			}
			if err := read(d.readFieldU32("originating_centre", 8)); err != nil {
				return err
			}
		} else {
			if err := read(d.readFieldU32("originating_centre", 16)); err != nil {
				return err
			}
		}
		if err := read(d.readFieldU32("update_sequence_number", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldBool("is_section2_present")); err != nil {
			return err
		}
		if err := read(d.readFieldFlag("reserved_bits", 7)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("data_category", 8)); err != nil {
			return err
		}
		if edition == 3 {
			if err := read(d.readFieldU32("data_i18n_subcategory", 8)); err != nil {
				return err
			}
		}
		if err := read(d.readFieldU32("local_subcategory", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("master_table_version", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("local_table_version", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("year", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("month", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("day", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("hour", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("minute", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("second", 8)); err != nil {
			return err
		}

	case 4:
		if err := read(d.readFieldU32("section_length", 24)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("master_table_number", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("originating_centre", 16)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("originating_subcentre", 16)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("update_sequence_number", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldBool("is_section2_present")); err != nil {
			return err
		}
		if err := read(d.readFieldFlag("reserved_bits", 7)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("data_category", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("data_i18n_subcategory", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("local_subcategory", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("master_table_version", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("local_table_version", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("year", 16)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("month", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("day", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("hour", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("minute", 8)); err != nil {
			return err
		}
		if err := read(d.readFieldU32("second", 8)); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: section 1 edition %d", bufr.ErrUnsupportedEdition, edition)
	}

	s := msg.Section(1)
	for _, f := range fields {
		s.AddField(f)
	}
	return nil
}

func (d *decoder) decodeSection2(msg *bufr.Message) error {
	presentField, _ := msg.Section(1).Field("is_section2_present")
	s := msg.Section(2)
	if !presentField.Simple().GetBool() {
		return nil
	}

	lengthField, err := d.readFieldU32("section_length", 24)
	if err != nil {
		return err
	}
	reserved, err := d.readFieldFlag("reserved_bits", 8)
	if err != nil {
		return err
	}
	nLocalBits := int(lengthField.Simple().GetU32()-4) * 8
	local, err := d.readFieldRaw("local_bits", nLocalBits)
	if err != nil {
		return err
	}

	s.AddField(lengthField)
	s.AddField(reserved)
	s.AddField(local)
	return nil
}

func (d *decoder) decodeSection3(msg *bufr.Message) error {
	sectionStart := d.br.BitPos()
	lengthField, err := d.readFieldU32("section_length", 24)
	if err != nil {
		return err
	}
	sectionLength := int(lengthField.Simple().GetU32())
	nDescriptors := (sectionLength - 7) / 2

	reserved1, err := d.readFieldFlag("reserved_bits", 8)
	if err != nil {
		return err
	}
	nSubsets, err := d.readFieldU32("n_subsets", 16)
	if err != nil {
		return err
	}
	isObservation, err := d.readFieldBool("is_observation")
	if err != nil {
		return err
	}
	isCompressed, err := d.readFieldBool("is_compressed")
	if err != nil {
		return err
	}
	reserved2, err := d.readFieldFlag("reserved_bits", 6)
	if err != nil {
		return err
	}
	ued, err := d.readFieldUED("unexpanded_descriptors", nDescriptors)
	if err != nil {
		return err
	}

	// Section 3 is padded to its declared length with trailing
	// byte-alignment filler; discard it so section 4 starts aligned.
	if pad := (sectionStart + sectionLength*8) - d.br.BitPos(); pad > 0 {
		if err := d.br.Skip(pad); err != nil {
			return err
		}
	}

	s := msg.Section(3)
	s.AddField(lengthField)
	s.AddField(reserved1)
	s.AddField(nSubsets)
	s.AddField(isObservation)
	s.AddField(isCompressed)
	s.AddField(reserved2)
	s.AddField(ued)
	return nil
}

func (d *decoder) decodeSection4(msg *bufr.Message) error {
	lengthField, err := d.readFieldU32("section_length", 24)
	if err != nil {
		return err
	}
	nDataBits := int(lengthField.Simple().GetU32()-4) * 8
	reserved, err := d.readFieldFlag("reserved_bits", 8)
	if err != nil {
		return err
	}

	section1 := msg.Section(1)
	masterField, _ := section1.Field("master_table_number")
	centreField, _ := section1.Field("originating_centre")
	versionField, _ := section1.Field("master_table_version")
	subCentre := 0
	if f, ok := section1.Field("originating_subcentre"); ok {
		subCentre = int(f.Simple().GetU32())
	}

	tgID := table.TableGroupID{
		BaseDir:           d.baseDir,
		MasterTableNumber: int(masterField.Simple().GetU32()),
		CentreNumber:      int(centreField.Simple().GetU32()),
		SubCentreNumber:   subCentre,
		VersionNumber:     int(versionField.Simple().GetU32()),
	}
	tg, err := d.mgr.Get(tgID)
	if err != nil {
		return err
	}

	uedField, _ := msg.Section(3).Field("unexpanded_descriptors")
	ids := uedField.DescriptorList()

	tpl, err := template.Expand(tg, ids)
	if err != nil {
		return err
	}

	// Dual read of the payload bits (SPEC_FULL.md item 5, resolving
	// spec.md §9 Open Question 1): snapshot the cursor before consuming
	// the raw run so the structured payload can be built from the same
	// bits independently of the literal raw_bits field below.
	snapshot := d.br.Snapshot()

	rawField, err := d.readFieldRaw("raw_bits", nDataBits)
	if err != nil {
		return err
	}

	payloadValues, err := buildPayload(tpl, snapshot, tg)
	if err != nil {
		clog.Log.Warn("structured payload extraction failed: %v", err)
		payloadValues = nil
	}

	s := msg.Section(4)
	s.AddField(lengthField)
	s.AddField(reserved)
	s.AddField(rawField)
	s.AddField(bufr.NewPayloadField("payload", payloadValues))
	return nil
}

func (d *decoder) decodeSection5(msg *bufr.Message) error {
	stop, err := d.readFieldBytes("stop_signature", 4)
	if err != nil {
		return err
	}
	if string(stop.Simple().GetBytes()) != "7777" {
		return fmt.Errorf("%w: found %q", bufr.ErrMissingStopSignature, stop.Simple().GetBytes())
	}
	msg.Section(5).AddField(stop)
	return nil
}
