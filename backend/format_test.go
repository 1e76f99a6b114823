package backend

import "testing"

func TestInputFormatRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		parsed, ok := ParseInputFormat(f.String())
		if !ok {
			t.Fatalf("ParseInputFormat(%q) failed to parse", f.String())
		}
		if parsed != f {
			t.Fatalf("round-trip mismatch: %q -> %q", f, parsed)
		}
	}
}

func TestParseInputFormatCaseInsensitive(t *testing.T) {
	cases := []struct {
		in   string
		want InputFormat
	}{
		{"pdf", FormatPDF},
		{"PDF", FormatPDF},
		{"Docx", FormatDOCX},
		{"markdown", FormatMD},
		{"jpg", FormatJPEG},
		{"htm", FormatHTML},
	}
	for _, c := range cases {
		got, ok := ParseInputFormat(c.in)
		if !ok || got != c.want {
			t.Fatalf("ParseInputFormat(%q) = (%q, %v), want %q", c.in, got, ok, c.want)
		}
	}
}

func TestParseInputFormatUnknown(t *testing.T) {
	if _, ok := ParseInputFormat("not-a-format"); ok {
		t.Fatalf("expected unknown format to fail")
	}
}

func TestFromExtension(t *testing.T) {
	cases := []struct {
		filename string
		want     InputFormat
	}{
		{"report.pdf", FormatPDF},
		{"notes.DOCX", FormatDOCX},
		{"archive.tar.gz", FormatTAR},
		{"archive.tar.bz2", FormatTAR},
		{"photo.JPG", FormatJPEG},
		{"page.htm", FormatHTML},
		{"doc.markdown", FormatMD},
	}
	for _, c := range cases {
		got, ok := FromExtension(c.filename)
		if !ok || got != c.want {
			t.Fatalf("FromExtension(%q) = (%q, %v), want %q", c.filename, got, ok, c.want)
		}
	}
}

func TestFromExtensionNoExtension(t *testing.T) {
	if _, ok := FromExtension("README"); ok {
		t.Fatalf("expected no match for extensionless filename")
	}
}

func TestFormatClassification(t *testing.T) {
	if !FormatPNG.IsImage() {
		t.Fatalf("expected PNG to be an image format")
	}
	if !FormatEPUB.IsEbook() {
		t.Fatalf("expected EPUB to be an ebook format")
	}
	if !FormatZIP.IsArchive() {
		t.Fatalf("expected ZIP to be an archive format")
	}
	if !FormatDOCX.IsOfficeOpenXML() {
		t.Fatalf("expected DOCX to be OOXML")
	}
	if !FormatODP.IsOpenDocument() {
		t.Fatalf("expected ODP to be OpenDocument")
	}
	if FormatPDF.IsImage() {
		t.Fatalf("PDF must not classify as an image")
	}
}
