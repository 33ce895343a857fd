package table

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rob-gra/go-bufr/bufr"
)

// resolvePath implements spec.md §4.3's three-step fallback:
//  1. <base>/<master>/<centre>_<subcentre>/<version>/<file>
//  2. <base>/common/<file>
//  3. <base>/<master>/0_0/<version>/<file>
//
// The first of these that exists on disk is used; if none exists,
// ErrTableFileNotFound is returned.
func resolvePath(id TableGroupID, file string) (string, error) {
	candidates := []string{
		filepath.Join(id.BaseDir, itoa(id.MasterTableNumber),
			fmt.Sprintf("%d_%d", id.CentreNumber, id.SubCentreNumber),
			itoa(id.VersionNumber), file),
		filepath.Join(id.BaseDir, "common", file),
		filepath.Join(id.BaseDir, itoa(id.MasterTableNumber), "0_0",
			itoa(id.VersionNumber), file),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s (tried %s)", bufr.ErrTableFileNotFound, file, strings.Join(candidates, ", "))
}

func itoa(n int) string { return strconv.Itoa(n) }

func readJSON(path string, out interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return bufr.Wrap(fmt.Sprintf("table: reading %s", path), err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return bufr.Wrap(fmt.Sprintf("table: parsing %s", path), err)
	}
	return nil
}

// loadTableB loads TableB.json: object keyed by descriptor id string to
// {name, unit, scale, refval, nbits, unit_crex, scale_crex, nchars_crex}.
func loadTableB(id TableGroupID) (map[int]BEntry, error) {
	path, err := resolvePath(id, "TableB.json")
	if err != nil {
		return nil, err
	}
	var raw map[string]BEntry
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[int]BEntry, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad descriptor id key %q", path, k), err)
		}
		out[n] = v
	}
	return out, nil
}

// dEntryJSON mirrors TableD.json's per-id value shape: a two-element JSON
// array [name, [member_id_string, ...]].
type dEntryJSON struct {
	Name    string
	Members []string
}

func (e *dEntryJSON) UnmarshalJSON(b []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(b, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &e.Name); err != nil {
		return err
	}
	return json.Unmarshal(tuple[1], &e.Members)
}

// loadTableD loads TableD.json: object keyed by descriptor id string to
// [name, [member ids]].
func loadTableD(id TableGroupID) (map[int]DEntry, error) {
	path, err := resolvePath(id, "TableD.json")
	if err != nil {
		return nil, err
	}
	var raw map[string]dEntryJSON
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[int]DEntry, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad descriptor id key %q", path, k), err)
		}
		members := make([]int, len(v.Members))
		for i, m := range v.Members {
			mi, err := strconv.Atoi(m)
			if err != nil {
				return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad member id %q", path, m), err)
			}
			members[i] = mi
		}
		out[n] = DEntry{Name: v.Name, Members: members}
	}
	return out, nil
}

// codeFlagPairJSON is one [value, label] row of code_and_flag.json.
type codeFlagPairJSON struct {
	Value int
	Label string
}

func (p *codeFlagPairJSON) UnmarshalJSON(b []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(b, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &p.Value); err != nil {
		return err
	}
	return json.Unmarshal(tuple[1], &p.Label)
}

// loadCodeAndFlag loads code_and_flag.json: object keyed by element id to
// a list of [value, label] pairs.
func loadCodeAndFlag(id TableGroupID) (map[int]codeFlagEntry, error) {
	path, err := resolvePath(id, "code_and_flag.json")
	if err != nil {
		return nil, err
	}
	var raw map[string][]codeFlagPairJSON
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[int]codeFlagEntry, len(raw))
	for k, pairs := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad descriptor id key %q", path, k), err)
		}
		entry := make(codeFlagEntry, len(pairs))
		for _, p := range pairs {
			entry[p.Value] = p.Label
		}
		out[n] = entry
	}
	return out, nil
}

// metaFileJSON is the shape shared by MetaA/B/C/D.json: a description, a
// header (column names, unused beyond documentation) and a list of
// entries whose own shape varies by table.
type metaFileJSON struct {
	Description string            `json:"description"`
	Header      []string          `json:"header"`
	Entries     []json.RawMessage `json:"entries"`
}

// loadMetaA loads MetaA.json and expands "lo - hi" range keys into
// individual integer keys, per spec.md §6.2.
func loadMetaA(id TableGroupID) (map[int]string, error) {
	path, err := resolvePath(id, "MetaA.json")
	if err != nil {
		return nil, err
	}
	var file metaFileJSON
	if err := readJSON(path, &file); err != nil {
		return nil, err
	}
	out := make(map[int]string)
	for _, raw := range file.Entries {
		var row [2]string
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad entry %s", path, raw), err)
		}
		key, text := row[0], row[1]
		lo, hi, isRange := parseRange(key)
		if isRange {
			for k := lo; k <= hi; k++ {
				out[k] = text
			}
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad data category key %q", path, key), err)
		}
		out[n] = text
	}
	return out, nil
}

// parseRange parses a "lo - hi" string into its bounds. ok is false if key
// is not a range.
func parseRange(key string) (lo, hi int, ok bool) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	loS, hiS := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	loN, err1 := strconv.Atoi(loS)
	hiN, err2 := strconv.Atoi(hiS)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return loN, hiN, true
}

// fxKey normalizes an (F, X) pair parsed from metadata table text columns
// into the internal lookup key used for MetaB and MetaD.
func fxKey(f, x int) string {
	return fmt.Sprintf("%d.%d", f, x)
}

// fxyKey normalizes an (F, X, Y) triple into the internal lookup key used
// for MetaC, where Y may be the literal wildcard "YYY".
func fxyKey(f, x int, y string) string {
	return fmt.Sprintf("%d.%d.%s", f, x, y)
}

// loadMetaB loads MetaB.json: entries are [F_str, X_str, name,
// description]; the in-memory value concatenates name+": "+description,
// keyed by (F,X).
func loadMetaB(id TableGroupID) (map[string]string, error) {
	path, err := resolvePath(id, "MetaB.json")
	if err != nil {
		return nil, err
	}
	var file metaFileJSON
	if err := readJSON(path, &file); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(file.Entries))
	for _, raw := range file.Entries {
		var row [4]string
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad entry %s", path, raw), err)
		}
		f, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad F %q", path, row[0]), err)
		}
		x, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad X %q", path, row[1]), err)
		}
		out[fxKey(f, x)] = row[2] + ": " + row[3]
	}
	return out, nil
}

// loadMetaC loads MetaC.json: entries are [F_str, X_str, Y_str, name,
// description], keyed by (F,X,Y). Y may be the literal string "YYY" for a
// wildcard row.
func loadMetaC(id TableGroupID) (map[string]CEntry, error) {
	path, err := resolvePath(id, "MetaC.json")
	if err != nil {
		return nil, err
	}
	var file metaFileJSON
	if err := readJSON(path, &file); err != nil {
		return nil, err
	}
	out := make(map[string]CEntry, len(file.Entries))
	for _, raw := range file.Entries {
		var row [5]string
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad entry %s", path, raw), err)
		}
		f, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad F %q", path, row[0]), err)
		}
		x, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad X %q", path, row[1]), err)
		}
		out[fxyKey(f, x, normalizeYKey(row[2]))] = CEntry{Name: row[3], Definition: row[4]}
	}
	return out, nil
}

// normalizeYKey strips the zero-padding a Y_str column carries (e.g.
// "011") down to its bare integer form ("11"), so it agrees with the key
// Operator/LookupMeta build from a decoded id's Y field. The literal
// wildcard row "YYY" passes through unchanged.
func normalizeYKey(y string) string {
	if y == "YYY" {
		return y
	}
	n, err := strconv.Atoi(y)
	if err != nil {
		return y
	}
	return strconv.Itoa(n)
}

// loadMetaD loads MetaD.json: entries are [F_str, X_str, text], keyed by
// (F,X).
func loadMetaD(id TableGroupID) (map[string]string, error) {
	path, err := resolvePath(id, "MetaD.json")
	if err != nil {
		return nil, err
	}
	var file metaFileJSON
	if err := readJSON(path, &file); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(file.Entries))
	for _, raw := range file.Entries {
		var row [3]string
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad entry %s", path, raw), err)
		}
		f, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad F %q", path, row[0]), err)
		}
		x, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, bufr.Wrap(fmt.Sprintf("table: %s: bad X %q", path, row[1]), err)
		}
		out[fxKey(f, x)] = row[2]
	}
	return out, nil
}
