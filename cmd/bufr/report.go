package main

import (
	"fmt"

	"github.com/rob-gra/go-bufr/bufr"
)

// sectionReport and fieldReport give the decoded Message a JSON-printable
// shape for the decode subcommand; they are a reporting view only, not
// part of the bufr package's own model.
type sectionReport struct {
	Index  int           `json:"index"`
	Fields []fieldReport `json:"fields"`
}

type fieldReport struct {
	Name  string      `json:"name"`
	Kind  string      `json:"kind"`
	Value interface{} `json:"value"`
}

func summarizeMessage(msg *bufr.Message) []sectionReport {
	out := make([]sectionReport, 0, len(msg.Sections))
	for _, s := range msg.Sections {
		sr := sectionReport{Index: s.Index}
		for _, f := range s.Fields {
			sr.Fields = append(sr.Fields, summarizeField(f))
		}
		out = append(out, sr)
	}
	return out
}

func summarizeField(f bufr.Field) fieldReport {
	switch f.Kind {
	case bufr.FieldSimple:
		return fieldReport{Name: f.Name, Kind: "simple", Value: summarizeSimple(f.Simple())}

	case bufr.FieldDescriptorList:
		ids := f.DescriptorList()
		strs := make([]string, len(ids))
		for i, id := range ids {
			strs[i] = id.String()
		}
		return fieldReport{Name: f.Name, Kind: "descriptor_list", Value: strs}

	case bufr.FieldPayload:
		values := f.Payload()
		out := make([]interface{}, len(values))
		for i, v := range values {
			out[i] = summarizeSimple(v)
		}
		return fieldReport{Name: f.Name, Kind: "payload", Value: out}

	default:
		return fieldReport{Name: f.Name, Kind: "unknown"}
	}
}

func summarizeSimple(d bufr.SimpleData) interface{} {
	switch d.Kind {
	case bufr.SimpleU32:
		return d.GetU32()
	case bufr.SimpleF64:
		return d.GetF64()
	case bufr.SimpleBytes:
		return string(d.GetBytes())
	case bufr.SimpleBool:
		return d.GetBool()
	case bufr.SimpleFlag:
		v, n := d.GetFlag()
		return fmt.Sprintf("%d/%d bits", v, n)
	case bufr.SimpleRaw:
		_, n := d.GetRaw()
		return fmt.Sprintf("<%d raw bits>", n)
	default:
		return nil
	}
}
