package ebook

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/docling-project/docling-go/backend"
	"github.com/docling-project/docling-go/document"
)

// Fb2Backend converts FictionBook2 e-books (spec §4.2.3), grounded on the
// spine/fragment/story-line traversal shape of `rupor-github-fb2cng`: a
// single XML document with a description/title-info block and a body made
// of nested section/title/p elements.
type Fb2Backend struct{}

func (Fb2Backend) Supports(f backend.InputFormat) bool { return f == backend.FormatFB2 }

func (Fb2Backend) Detect(data []byte) (backend.InputFormat, bool) {
	trimmed := bytes.TrimLeft(data, " \t\r\n﻿")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) {
		if idx := bytes.Index(trimmed, []byte("?>")); idx >= 0 {
			trimmed = bytes.TrimLeft(trimmed[idx+2:], " \t\r\n")
		}
	}
	if bytes.HasPrefix(trimmed, []byte("<FictionBook")) {
		return backend.FormatFB2, true
	}
	return "", false
}

type fb2Metadata struct {
	Title  string
	Author string
}

func (Fb2Backend) Convert(name string, data []byte, sink backend.Sink) error {
	meta, blocks, err := parseFB2(data)
	if err != nil {
		return fmt.Errorf("parse fb2 %s: %w", name, err)
	}

	title := meta.Title
	if title == "" {
		title = name
	}
	ref, b := sink.AppendHeading("#/body", title, 1, document.LayerBody)
	sink = b
	_ = ref
	if meta.Author != "" {
		_, b = sink.AppendText("#/body", document.TextParagraph, "by "+meta.Author, document.LayerBody)
		sink = b
	}

	for _, blk := range blocks {
		if blk.isTitle {
			_, b = sink.AppendHeading("#/body", blk.text, blk.level, document.LayerBody)
		} else {
			_, b = sink.AppendText("#/body", document.TextParagraph, blk.text, document.LayerBody)
		}
		sink = b
	}
	return nil
}

type fb2Block struct {
	isTitle bool
	level   int
	text    string
}

// elementKind classifies what a <p> or <title> start tag means in context,
// decided once when the tag opens rather than re-derived when it closes.
type elementKind int

const (
	kindIgnore elementKind = iota
	kindBodyParagraph
	kindSectionTitle
)

// parseFB2 walks the document token by token, tracking section nesting
// depth (clamped the way AppendHeading clamps levels) and the
// description/title-info metadata block, mirroring the title/author
// extraction shape used by docling-opendocument's metadata pass.
func parseFB2(data []byte) (fb2Metadata, []fb2Block, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var meta fb2Metadata
	var blocks []fb2Block

	var stack []string
	depth := 0
	var textBuf strings.Builder
	var captureKind elementKind
	capturingMeta := "" // "book-title" | "first-name" | "last-name" | ""
	var authorFirst, authorLast string

	contains := func(name string) bool {
		for _, s := range stack {
			if s == name {
				return true
			}
		}
		return false
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return meta, nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			switch t.Name.Local {
			case "section":
				depth++
			case "title":
				if contains("body") {
					captureKind = kindSectionTitle
					textBuf.Reset()
				}
			case "p":
				if captureKind == kindSectionTitle {
					// nested <p> inside a <title>; keep accumulating into
					// the same title text, don't switch kind
					break
				}
				if contains("body") {
					captureKind = kindBodyParagraph
					textBuf.Reset()
				}
			case "book-title", "first-name", "last-name":
				if contains("title-info") {
					capturingMeta = t.Name.Local
					textBuf.Reset()
				}
			}
		case xml.CharData:
			if captureKind != kindIgnore || capturingMeta != "" {
				textBuf.Write(t)
			}
		case xml.EndElement:
			name := t.Name.Local
			switch name {
			case "section":
				depth--
			case "title":
				if captureKind == kindSectionTitle {
					text := strings.TrimSpace(textBuf.String())
					if text != "" {
						level := depth
						if level < 1 {
							level = 1
						}
						blocks = append(blocks, fb2Block{isTitle: true, level: level, text: text})
					}
					captureKind = kindIgnore
				}
			case "p":
				if captureKind == kindBodyParagraph {
					text := strings.TrimSpace(textBuf.String())
					if text != "" {
						blocks = append(blocks, fb2Block{text: text})
					}
					captureKind = kindIgnore
				}
			case "book-title":
				if capturingMeta == "book-title" {
					meta.Title = strings.TrimSpace(textBuf.String())
					capturingMeta = ""
				}
			case "first-name":
				if capturingMeta == "first-name" {
					authorFirst = strings.TrimSpace(textBuf.String())
					capturingMeta = ""
				}
			case "last-name":
				if capturingMeta == "last-name" {
					authorLast = strings.TrimSpace(textBuf.String())
					capturingMeta = ""
				}
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	meta.Author = strings.TrimSpace(authorFirst + " " + authorLast)
	return meta, blocks, nil
}
