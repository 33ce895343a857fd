// Package decoder drives a BitReader through a BUFR edition-4 message's
// six fixed sections, resolving the table bundle the message names and
// building the template that governs section-4 payload extraction
// (spec.md §4.6).
package decoder

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rob-gra/go-bufr/bitio"
	"github.com/rob-gra/go-bufr/bufr"
	"github.com/rob-gra/go-bufr/clog"
	"github.com/rob-gra/go-bufr/table"
)

// Decode reads one BUFR message from r, scanning forward for the "BUFR"
// start signature, and returns the fully decoded Message. mgr supplies
// (and caches) the table bundle named by section 1; baseDir is the root
// of the table definition tree (spec.md §6.2).
func Decode(r io.Reader, mgr *table.Manager, baseDir string) (*bufr.Message, error) {
	buf, err := prepare(r)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		br:      bitio.New(buf),
		mgr:     mgr,
		baseDir: baseDir,
	}
	msg := bufr.NewMessage()

	if err := d.decodeSection0(msg); err != nil {
		return nil, err
	}
	if err := d.decodeSection1(msg); err != nil {
		return nil, err
	}
	if err := d.decodeSection2(msg); err != nil {
		return nil, err
	}
	if err := d.decodeSection3(msg); err != nil {
		return nil, err
	}
	if err := d.decodeSection4(msg); err != nil {
		return nil, err
	}
	if err := d.decodeSection5(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// decoder holds the shared state threaded through each decodeSectionN
// method: the bit cursor over the whole message buffer, the table cache,
// and the configured table-definitions root.
type decoder struct {
	br      *bitio.Reader
	mgr     *table.Manager
	baseDir string
}

// prepare scans r for the "BUFR" start signature, reads the section-0
// total length, and pre-reads the remainder of the message into one
// contiguous buffer, per spec.md §4.6's section 0 description and
// original_source/src/decoder.rs's prepare().
func prepare(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)

	offset, err := findSignature(br, "BUFR")
	if err != nil {
		return nil, err
	}
	clog.Log.Debug("BUFR signature found after %d framing bytes", offset)

	buf := []byte("BUFR")

	var lenBytes [3]byte
	if _, err := io.ReadFull(br, lenBytes[:]); err != nil {
		return nil, bufr.Wrap("decoder: reading section 0 length", err)
	}
	buf = append(buf, lenBytes[:]...)

	length, err := bitio.New(lenBytes[:]).ReadUnsigned(24)
	if err != nil {
		return nil, err
	}

	remaining := make([]byte, int(length)-7)
	if _, err := io.ReadFull(br, remaining); err != nil {
		return nil, bufr.Wrap(fmt.Sprintf("decoder: reading %d remaining message bytes", len(remaining)), err)
	}
	buf = append(buf, remaining...)

	return buf, nil
}

// findSignature scans r byte by byte for sig, returning the number of
// bytes consumed before the match started (spec.md §8 scenario S7).
// Mirrors original_source/src/decoder.rs's find_string exactly: a naive
// restart-from-zero scanner, not a KMP-style matcher.
func findSignature(r io.ByteReader, sig string) (int, error) {
	want := []byte(sig)
	matched := 0
	consumed := 0

	for matched < len(want) {
		b, err := r.ReadByte()
		if err != nil {
			return 0, bufr.Wrap(fmt.Sprintf("decoder: scanning for %q", sig), err)
		}
		consumed++
		if b == want[matched] {
			matched++
		} else {
			matched = 0
		}
	}
	return consumed - len(want), nil
}
