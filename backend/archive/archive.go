// Package archive converts container formats (ZIP, TAR and its compound
// compressed variants) by unpacking each member and re-dispatching it
// through the same registry used for standalone files (spec §6's compound
// extension entries). Grounded on the teacher's `archive/zip`/`encoding/xml`
// OOXML-container idiom (backend/ebook, backend/office), generalized from
// "one fixed container format" to "any member the registry can convert."
package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

// member is one decompressed entry pulled from an archive, ready for
// re-dispatch through Registry.ConvertFile.
type member struct {
	name string
	data []byte
}

// Backend unpacks ZIP and TAR(+gzip/bzip2) archives and converts every
// recognized member via Registry, folding each member's content into a
// named group under the archive's body. Registry must already have the
// member backends registered by the time Convert runs.
type Backend struct {
	Registry *backend.Registry
}

func (b Backend) Supports(f backend.InputFormat) bool {
	return f == backend.FormatZIP || f == backend.FormatTAR
}

func (b Backend) Detect(data []byte) (backend.InputFormat, bool) {
	if len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && (data[2] == 0x03 || data[2] == 0x05) {
		return backend.FormatZIP, true
	}
	if len(data) >= 262 && string(data[257:262]) == "ustar" {
		return backend.FormatTAR, true
	}
	return "", false
}

// Convert unpacks the archive and re-converts each member, emitting one
// named group per member that carried recognizable content. A member that
// fails to convert (unsupported format, corrupt content) is skipped rather
// than aborting the whole archive, mirroring the per-page failure tolerance
// elsewhere in the module (spec §4.3.3's "skip, don't abort" pattern).
func (b Backend) Convert(name string, data []byte, sink backend.Sink) error {
	if b.Registry == nil {
		return fmt.Errorf("archive backend %s: no registry configured for member dispatch", name)
	}

	members, err := unpack(name, data)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", name, err)
	}

	for _, m := range members {
		sub, err := b.Registry.ConvertFile(m.name, m.data)
		if err != nil {
			continue
		}
		groupRef, bb := sink.AppendGroup("#/body", document.GroupUnspecified, m.name, document.LayerBody)
		sink = bb
		sink = reemit(sub, groupRef, sink)
	}
	return nil
}

// unpack dispatches on the archive's own magic bytes rather than name, so a
// ZIP nested inside a .tar.gz member still unpacks correctly.
func unpack(name string, data []byte) ([]member, error) {
	if len(data) >= 2 && data[0] == 'P' && data[1] == 'K' {
		return unpackZip(data)
	}
	return unpackTar(name, data)
}

func unpackZip(data []byte) ([]member, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var out []member
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		out = append(out, member{name: f.Name, data: content})
	}
	return out, nil
}

func unpackTar(name string, data []byte) ([]member, error) {
	reader := io.Reader(bytes.NewReader(data))
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz"):
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	case strings.HasSuffix(lower, ".tar.bz2") || strings.HasSuffix(lower, ".tbz2") || strings.HasSuffix(lower, ".tbz"):
		reader = bzip2.NewReader(reader)
	}

	tr := tar.NewReader(reader)
	var out []member
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			continue
		}
		out = append(out, member{name: hdr.Name, data: content})
	}
	return out, nil
}

// reemit walks sub's flat node slices in append order (their document order,
// since Builder appends sequentially) and replays each as a fresh Append*
// call under parent, the way a single CanonicalDocument's nodes were first
// produced. Builder has no native tree-merge operation, so folding one
// document into another means re-emitting its content rather than splicing
// refs across documents.
func reemit(sub *document.CanonicalDocument, parent document.Ref, sink backend.Sink) backend.Sink {
	for _, t := range sub.Texts {
		var ref document.Ref
		switch t.Label {
		case document.TextSectionHeader:
			level := 2
			if t.Level != nil {
				level = *t.Level
			}
			ref, sink = sink.AppendHeading(parent, t.Text, level, document.LayerBody)
		case document.TextListItem:
			ref, sink = sink.AppendListItem(parent, t.Text, t.Marker, t.Enumerated, document.LayerBody)
		default:
			ref, sink = sink.AppendText(parent, t.Label, t.Text, document.LayerBody)
		}
		if t.CodeLanguage != "" {
			sink = sink.SetCodeLanguage(ref, t.CodeLanguage)
		}
		if t.Formatting != (document.Formatting{}) {
			sink = sink.SetFormatting(ref, t.Formatting)
		}
	}
	for _, tb := range sub.Tables {
		_, sink = sink.AppendTable(parent, tb.Data, document.LayerBody)
	}
	for _, p := range sub.Pictures {
		ref, b := sink.AppendPicture(parent, p.Label, document.LayerBody)
		sink = b
		if p.OCRText != "" {
			sink = sink.SetOCRText(ref, p.OCRText)
		}
	}
	return sink
}

