package main

import (
	"testing"

	"github.com/rob-gra/go-bufr/bufr"
	"github.com/rob-gra/go-bufr/descriptor"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeSimpleKinds(t *testing.T) {
	assert.Equal(t, uint32(4), summarizeSimple(bufr.NewSimpleU32(4)))
	assert.Equal(t, 1.5, summarizeSimple(bufr.NewSimpleF64(1.5)))
	assert.Equal(t, "ab", summarizeSimple(bufr.NewSimpleBytes([]byte("ab"))))
	assert.Equal(t, true, summarizeSimple(bufr.NewSimpleBool(true)))
}

func TestSummarizeFieldDescriptorList(t *testing.T) {
	f := bufr.NewDescriptorListField("unexpanded_descriptors", []descriptor.ID{1001, 101000})
	r := summarizeField(f)
	assert.Equal(t, "descriptor_list", r.Kind)
	assert.Equal(t, []string{"001001", "101000"}, r.Value)
}

func TestSummarizeMessageSectionCount(t *testing.T) {
	msg := bufr.NewMessage()
	msg.Section(0).AddField(bufr.NewSimpleField("edition", bufr.NewSimpleU32(4)))
	reports := summarizeMessage(msg)
	assert.Len(t, reports, 6)
	assert.Equal(t, "edition", reports[0].Fields[0].Name)
}
