package ebook

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

// MobiBackend converts Mobipocket/MOBI e-books (spec §4.2.3): unpack the
// PalmDB container, PalmDOC-decompress the text records, strip any
// embedded HTML markup, and prepend a title heading derived from the
// PalmDB database name.
type MobiBackend struct{}

func (MobiBackend) Supports(f backend.InputFormat) bool { return f == backend.FormatMOBI }

func (MobiBackend) Detect(data []byte) (backend.InputFormat, bool) {
	if len(data) < 68 {
		return "", false
	}
	if bytes.Equal(data[60:68], []byte("BOOKMOBI")) {
		return backend.FormatMOBI, true
	}
	return "", false
}

const palmDBHeaderSize = 78

type palmRecord struct {
	offset uint32
}

func (MobiBackend) Convert(name string, data []byte, sink backend.Sink) error {
	title, text, err := parseMOBI(data)
	if err != nil {
		return fmt.Errorf("parse mobi %s: %w", name, err)
	}
	if title == "" {
		title = name
	}

	ref, b := sink.AppendHeading("#/body", title, 1, document.LayerBody)
	sink = b
	_ = ref

	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		_, b := sink.AppendText("#/body", document.TextParagraph, para, document.LayerBody)
		sink = b
	}
	return nil
}

// parseMOBI reads the PalmDB container, locates the PalmDOC header in
// record 0, and PalmDOC-decompresses the following text records into a
// single string (HTML-stripped when the records carry markup, as later
// Mobipocket revisions do).
func parseMOBI(data []byte) (string, string, error) {
	if len(data) < palmDBHeaderSize {
		return "", "", fmt.Errorf("file too small to be a PalmDB container")
	}

	title := strings.TrimRight(string(bytes.TrimRight(data[:32], "\x00")), " ")

	numRecords := int(binary.BigEndian.Uint16(data[76:78]))
	if numRecords == 0 {
		return title, "", nil
	}

	recInfoStart := palmDBHeaderSize
	records := make([]palmRecord, 0, numRecords)
	for i := 0; i < numRecords; i++ {
		base := recInfoStart + i*8
		if base+4 > len(data) {
			break
		}
		off := binary.BigEndian.Uint32(data[base : base+4])
		records = append(records, palmRecord{offset: off})
	}
	if len(records) == 0 {
		return title, "", nil
	}

	recordBytes := func(idx int) []byte {
		start := int(records[idx].offset)
		end := len(data)
		if idx+1 < len(records) {
			end = int(records[idx+1].offset)
		}
		if start < 0 || start > len(data) || end > len(data) || start > end {
			return nil
		}
		return data[start:end]
	}

	record0 := recordBytes(0)
	if len(record0) < 16 {
		return title, "", nil
	}
	compression := binary.BigEndian.Uint16(record0[0:2])
	textRecordCount := int(binary.BigEndian.Uint16(record0[8:10]))
	if textRecordCount == 0 || textRecordCount+1 > len(records) {
		textRecordCount = len(records) - 1
	}

	var sb strings.Builder
	for i := 1; i <= textRecordCount && i < len(records); i++ {
		raw := recordBytes(i)
		if raw == nil {
			continue
		}
		switch compression {
		case 1:
			sb.Write(raw)
		case 2:
			sb.Write(palmdocDecompress(raw))
		default:
			// HUFF/CDIC (17480) compression is not implemented; emit the
			// raw bytes so at least ASCII-range content survives.
			sb.Write(raw)
		}
	}

	text := sb.String()
	if looksLikeMarkup(text) {
		text = stripHTML(text)
	}
	return title, text, nil
}

func looksLikeMarkup(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<body") || strings.Contains(lower, "<p>") || strings.Contains(lower, "<p ")
}

// palmdocDecompress implements the PalmDOC LZ77 variant: literal bytes
// 0x09-0x7F pass through, 0x01-0x08 introduce a run of that many literal
// bytes, 0x80-0xBF introduce a back-reference (11-bit distance, 3-bit
// length+3), and 0xC0-0xFF expand to a space followed by the byte with its
// high bit cleared.
func palmdocDecompress(data []byte) []byte {
	var out []byte
	i := 0
	for i < len(data) {
		c := data[i]
		i++
		switch {
		case c == 0x00:
			out = append(out, c)
		case c >= 0x01 && c <= 0x08:
			n := int(c)
			end := i + n
			if end > len(data) {
				end = len(data)
			}
			out = append(out, data[i:end]...)
			i = end
		case c <= 0x7F:
			out = append(out, c)
		case c >= 0x80 && c <= 0xBF:
			if i >= len(data) {
				break
			}
			c2 := data[i]
			i++
			combined := (int(c&0x3F) << 8) | int(c2)
			distance := combined >> 3
			length := (combined & 0x7) + 3
			start := len(out) - distance
			for j := 0; j < length; j++ {
				if start+j < 0 || start+j >= len(out) {
					break
				}
				out = append(out, out[start+j])
			}
		default: // c >= 0xC0
			out = append(out, ' ', c^0x80)
		}
	}
	return out
}
