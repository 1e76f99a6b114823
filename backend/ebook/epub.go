package ebook

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

// EpubBackend converts EPUB e-books (spec §4.2.3): unpack, concatenate
// spine item HTML in reading order, strip tags while preserving block
// boundaries, and prepend a title/author heading, grounded on
// `97664cff_htol-fb2c__opf-toc.go.go`'s OPF manifest/spine parsing idiom.
type EpubBackend struct{}

func (EpubBackend) Supports(f backend.InputFormat) bool { return f == backend.FormatEPUB }

func (EpubBackend) Detect(data []byte) (backend.InputFormat, bool) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false
	}
	for _, f := range r.File {
		if f.Name == "mimetype" {
			if rc, err := f.Open(); err == nil {
				defer rc.Close()
				mt, _ := io.ReadAll(rc)
				if bytes.Contains(mt, []byte("application/epub+zip")) {
					return backend.FormatEPUB, true
				}
			}
		}
	}
	return "", false
}

type epubContainer struct {
	RootFiles []epubRootFile `xml:"rootfiles>rootfile"`
}

type epubRootFile struct {
	FullPath string `xml:"full-path,attr"`
}

type opfPackage struct {
	Metadata opfMetadata `xml:"metadata"`
	Manifest []opfItem   `xml:"manifest>item"`
	Spine    []opfItemRef `xml:"spine>itemref"`
}

type opfMetadata struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
}

type opfItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

func (EpubBackend) Convert(name string, data []byte, sink backend.Sink) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open epub %s as zip: %w", name, err)
	}

	containerBytes, err := readZipFile(zr, "META-INF/container.xml")
	if err != nil {
		return fmt.Errorf("read container.xml: %w", err)
	}
	var container epubContainer
	if err := xml.Unmarshal(containerBytes, &container); err != nil {
		return fmt.Errorf("parse container.xml: %w", err)
	}
	if len(container.RootFiles) == 0 {
		return fmt.Errorf("epub %s: no rootfile declared in container.xml", name)
	}
	opfPath := container.RootFiles[0].FullPath

	opfBytes, err := readZipFile(zr, opfPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", opfPath, err)
	}
	var pkg opfPackage
	if err := xml.Unmarshal(opfBytes, &pkg); err != nil {
		return fmt.Errorf("parse %s: %w", opfPath, err)
	}

	manifestByID := make(map[string]opfItem, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		manifestByID[item.ID] = item
	}

	opfDir := path.Dir(opfPath)

	title := strings.TrimSpace(pkg.Metadata.Title)
	if title == "" {
		title = name
	}
	ref, b := sink.AppendHeading("#/body", title, 1, document.LayerBody)
	sink = b
	_ = ref
	if author := strings.TrimSpace(pkg.Metadata.Creator); author != "" {
		_, b = sink.AppendText("#/body", document.TextParagraph, "by "+author, document.LayerBody)
		sink = b
	}

	for _, itemRef := range pkg.Spine {
		item, ok := manifestByID[itemRef.IDRef]
		if !ok {
			continue
		}
		itemPath := path.Join(opfDir, item.Href)
		itemBytes, err := readZipFile(zr, itemPath)
		if err != nil {
			continue
		}
		sink = emitXHTMLBody(string(itemBytes), sink)
	}
	return nil
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name || strings.TrimPrefix(f.Name, "/") == strings.TrimPrefix(name, "/") {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("zip entry not found: %s", name)
}

// emitXHTMLBody parses one spine item's XHTML and walks it the way the
// teacher's layout/html.go walkHTML dispatches on n.DataAtom, appending a
// heading or paragraph node per block element instead of drawing one.
func emitXHTMLBody(source string, sink backend.Sink) backend.Sink {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return sink
	}
	return walkEpubNode(doc, sink)
}

func walkEpubNode(n *html.Node, sink backend.Sink) backend.Sink {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head:
			return sink
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			text := strings.TrimSpace(extractFlatText(n))
			if text != "" {
				level := headingLevelFromAtom(n.DataAtom)
				_, b := sink.AppendHeading("#/body", text, level, document.LayerBody)
				sink = b
			}
			return sink
		case atom.P, atom.Li, atom.Blockquote:
			text := strings.TrimSpace(extractFlatText(n))
			if text != "" {
				_, b := sink.AppendText("#/body", document.TextParagraph, text, document.LayerBody)
				sink = b
			}
			return sink
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sink = walkEpubNode(c, sink)
	}
	return sink
}

func headingLevelFromAtom(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	default:
		return 6
	}
}

func extractFlatText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		} else if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
