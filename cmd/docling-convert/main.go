// Command docling-convert converts a single input file to its canonical
// document form, emitting either the JSON envelope or the rendered
// markdown projection (spec §4.1.3, §6).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/backend/archive"
	"github.com/docling-project/docling-go/backend/ebook"
	"github.com/docling-project/docling-go/backend/markdown"
	"github.com/docling-project/docling-go/backend/office"
	"github.com/docling-project/docling-go/document"
)

type options struct {
	inputPath string
	format    string // "json" or "markdown"
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docling-convert: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "docling-convert: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: docling-convert [flags] <input>\n")
		flag.PrintDefaults()
	}
	format := flag.String("format", "json", "Output format: json or markdown")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing input path")
	}
	opts.inputPath = flag.Arg(0)
	opts.format = *format
	if opts.format != "json" && opts.format != "markdown" {
		return options{}, fmt.Errorf("unsupported -format %q, want json or markdown", opts.format)
	}
	return opts, nil
}

func run(opts options) error {
	data, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	registry := newRegistry()
	doc, err := registry.ConvertFile(filepath.Base(opts.inputPath), data)
	if err != nil {
		return fmt.Errorf("convert %s: %w", opts.inputPath, err)
	}

	switch opts.format {
	case "markdown":
		fmt.Println(document.RenderMarkdown(doc))
	default:
		out, err := document.MarshalDocumentJSON(doc, 0, false)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		os.Stdout.Write(out)
		fmt.Println()
	}
	return nil
}

// newRegistry wires every format backend this module implements (spec §4.2,
// §6). archive.Backend is registered last and holds a reference back to the
// same registry so ZIP/TAR members dispatch through every backend above it.
func newRegistry() *backend.Registry {
	r := backend.NewRegistry()
	r.Register(office.DocxBackend{})
	r.Register(office.PptxBackend{})
	r.Register(office.XlsxBackend{})
	r.Register(office.OdpBackend{})
	r.Register(ebook.EpubBackend{})
	r.Register(ebook.Fb2Backend{})
	r.Register(ebook.MobiBackend{})
	r.Register(markdown.MarkdownBackend{})
	r.Register(archive.Backend{Registry: r})
	return r
}
