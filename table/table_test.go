package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rob-gra/go-bufr/bufr"
	"github.com/rob-gra/go-bufr/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture lays out one table group's seven JSON files under
// <dir>/<master>/<centre>_<subcentre>/<version>/ so TableGroupID's primary
// resolution path finds them without needing the common/ fallback.
func writeFixture(t *testing.T, dir string, id TableGroupID) {
	t.Helper()
	sub := filepath.Join(dir, itoa(id.MasterTableNumber),
		itoa(id.CentreNumber)+"_"+itoa(id.SubCentreNumber), itoa(id.VersionNumber))
	require.NoError(t, os.MkdirAll(sub, 0o755))

	files := map[string]string{
		"TableB.json": `{
			"001001": {"name": "WMO block number", "unit": "Numeric", "scale": 0, "refval": 0, "nbits": 7,
				"unit_crex": "Numeric", "scale_crex": 0, "nchars_crex": 2},
			"001003": {"name": "WMO Region number/geographical area", "unit": "Code table", "scale": 0, "refval": 0, "nbits": 3,
				"unit_crex": "Code table", "scale_crex": 0, "nchars_crex": 1}
		}`,
		"TableD.json": `{
			"301059": ["Location and identification sequences", ["001001", "001002"]]
		}`,
		"code_and_flag.json": `{
			"001003": [[0, "ANTARCTICA"], [5, "REGION V"]]
		}`,
		"MetaA.json": `{
			"description": "Data category",
			"header": ["category", "name"],
			"entries": [
				["5", "Single level upper - air data (satellite)"],
				["100", "Reserved"],
				["0 - 2", "Surface data"]
			]
		}`,
		"MetaB.json": `{
			"description": "Table B meta",
			"header": ["F", "X", "name", "description"],
			"entries": [
				["0", "01", "Identification", "Identifies origin and type of data"]
			]
		}`,
		"MetaC.json": `{
			"description": "Table C meta",
			"header": ["F", "X", "Y", "name", "description"],
			"entries": [
				["2", "01", "011", "Change data width", "Adds n bits to element width"],
				["2", "25", "YYY", "Difference statistical values", "Difference statistical values follow"]
			]
		}`,
		"MetaD.json": `{
			"description": "Table D meta",
			"header": ["F", "X", "description"],
			"entries": [
				["3", "01", "Location and identification sequences"]
			]
		}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(sub, name), []byte(content), 0o644))
	}
}

func testID(t *testing.T, dir string) TableGroupID {
	t.Helper()
	id := TableGroupID{BaseDir: dir, MasterTableNumber: 0, CentreNumber: 98, SubCentreNumber: 0, VersionNumber: 28}
	writeFixture(t, dir, id)
	return id
}

func TestLoadAndLookupKinds(t *testing.T) {
	dir := t.TempDir()
	id := testID(t, dir)

	g, err := Load(id)
	require.NoError(t, err)

	elem, err := g.Lookup(descriptor.ID(1001))
	require.NoError(t, err)
	assert.Equal(t, "WMO block number", elem.(descriptor.Element).Name)

	rep, err := g.Lookup(descriptor.ID(101000))
	require.NoError(t, err)
	assert.IsType(t, descriptor.Replication{}, rep)

	_, err = g.Lookup(descriptor.ID(201011))
	require.NoError(t, err)

	seq, err := g.Lookup(descriptor.ID(301059))
	require.NoError(t, err)
	assert.Equal(t, "Location and identification sequences", seq.(descriptor.Sequence).Name)
}

func TestLookupUnknownDescriptor(t *testing.T) {
	dir := t.TempDir()
	id := testID(t, dir)
	g, err := Load(id)
	require.NoError(t, err)

	_, err = g.Element(descriptor.ID(987654))
	assert.ErrorIs(t, err, bufr.ErrDescriptorNotFound)
}

func TestLookupCodeFlag(t *testing.T) {
	dir := t.TempDir()
	id := testID(t, dir)
	g, err := Load(id)
	require.NoError(t, err)

	label, err := g.LookupCodeFlag(descriptor.ID(1003), 5)
	require.NoError(t, err)
	assert.Equal(t, "REGION V", label)
}

func TestLookupMeta(t *testing.T) {
	dir := t.TempDir()
	id := testID(t, dir)
	g, err := Load(id)
	require.NoError(t, err)

	v, err := g.LookupMeta(descriptor.ID(1001))
	require.NoError(t, err)
	assert.Equal(t, "Identification: Identifies origin and type of data", v)

	v, err = g.LookupMeta(descriptor.ID(201011))
	require.NoError(t, err)
	assert.Equal(t, "Change data width", v)

	v, err = g.LookupMeta(descriptor.ID(225000))
	require.NoError(t, err)
	assert.Equal(t, "Difference statistical values", v)

	v, err = g.LookupMeta(descriptor.ID(301059))
	require.NoError(t, err)
	assert.Equal(t, "Location and identification sequences", v)
}

func TestDataCategoryOf(t *testing.T) {
	dir := t.TempDir()
	id := testID(t, dir)
	g, err := Load(id)
	require.NoError(t, err)

	name, err := g.DataCategoryOf(5)
	require.NoError(t, err)
	assert.Equal(t, "Single level upper - air data (satellite)", name)

	name, err = g.DataCategoryOf(100)
	require.NoError(t, err)
	assert.Equal(t, "Reserved", name)

	name, err = g.DataCategoryOf(1)
	require.NoError(t, err)
	assert.Equal(t, "Surface data", name)
}

func TestManagerCacheIdentity(t *testing.T) {
	dir := t.TempDir()
	id := testID(t, dir)
	m := NewManager()

	g1, err := m.Get(id)
	require.NoError(t, err)
	g2, err := m.Get(id)
	require.NoError(t, err)

	assert.Same(t, g1, g2)
	assert.Equal(t, 1, m.Size())
}

func TestManagerGetMissingFile(t *testing.T) {
	dir := t.TempDir()
	m := NewManager()
	_, err := m.Get(TableGroupID{BaseDir: dir, MasterTableNumber: 0, CentreNumber: 1, SubCentreNumber: 0, VersionNumber: 1})
	assert.ErrorIs(t, err, bufr.ErrTableFileNotFound)
}
