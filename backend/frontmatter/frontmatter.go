// Package frontmatter extracts YAML/TOML metadata fences from the start of
// a Markdown document (spec §4.2.3), grounded on sg-core's
// extract_frontmatter/format_frontmatter_header pair: detect the fence,
// parse flat key:value pairs with list values in `[a, b]` inline syntax,
// and recognize a small set of aliased keys.
package frontmatter

import (
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// Frontmatter holds the recognized metadata fields plus the body with the
// fence removed.
type Frontmatter struct {
	Title       string
	Description string
	Author      string
	Date        string
	Tags        []string
	Categories  []string
	Content     string
}

// IsEmpty reports that no recognized key was found, mirroring the original
// process_markdown_frontmatter's early-return check: callers should leave
// the content untouched in this case rather than emit an empty header.
func (fm Frontmatter) IsEmpty() bool {
	return fm.Title == "" && fm.Description == "" && fm.Author == "" && fm.Date == "" &&
		len(fm.Tags) == 0 && len(fm.Categories) == 0
}

// Extract detects a leading "---" (YAML) or "+++" (TOML) fence and parses
// it. With no recognized fence, Content carries the input unchanged
// (left-trimmed) and every other field is zero.
func Extract(content string) Frontmatter {
	trimmed := strings.TrimLeft(content, " \t\r\n")

	if strings.HasPrefix(trimmed, "---") {
		if fm, ok := parseFenced(trimmed, "---", parseYAMLBlock); ok {
			return fm
		}
	}
	if strings.HasPrefix(trimmed, "+++") {
		if fm, ok := parseFenced(trimmed, "+++", parseTOMLBlock); ok {
			return fm
		}
	}
	return Frontmatter{Content: trimmed}
}

// EmitHeader renders fm as a synthetic heading+metadata block the way
// sg-core's format_frontmatter_header does, for backends that want to
// prepend it ahead of the parsed body rather than build canonical nodes
// directly.
func EmitHeader(fm Frontmatter) string {
	var b strings.Builder
	if fm.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", fm.Title)
	}
	if fm.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", fm.Description)
	}
	if fm.Author != "" {
		fmt.Fprintf(&b, "**Author:** %s\n", fm.Author)
	}
	if fm.Date != "" {
		fmt.Fprintf(&b, "**Date:** %s\n", fm.Date)
	}
	if len(fm.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(fm.Tags, ", "))
	}
	if len(fm.Categories) > 0 {
		fmt.Fprintf(&b, "**Categories:** %s\n", strings.Join(fm.Categories, ", "))
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func parseFenced(trimmed, marker string, parse func(string) map[string]interface{}) (Frontmatter, bool) {
	afterFirst := trimmed[len(marker):]
	closing := "\n" + marker
	endPos := strings.Index(afterFirst, closing)
	if endPos < 0 {
		return Frontmatter{}, false
	}
	block := afterFirst[:endPos]
	body := strings.TrimLeft(afterFirst[endPos+len(closing):], " \t\r\n")

	values := parse(block)
	fm := Frontmatter{Content: body}
	fm.Title = firstString(values, "title")
	fm.Description = firstString(values, "description", "summary", "excerpt")
	fm.Author = firstString(values, "author", "authors")
	fm.Date = firstString(values, "date", "created", "published")
	fm.Tags = firstList(values, "tags")
	fm.Categories = firstList(values, "categories", "category")
	return fm, true
}

func parseYAMLBlock(block string) map[string]interface{} {
	var m map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &m); err != nil {
		return nil
	}
	return m
}

func parseTOMLBlock(block string) map[string]interface{} {
	tree, err := toml.Load(block)
	if err != nil {
		return nil
	}
	return tree.ToMap()
}

func firstString(values map[string]interface{}, keys ...string) string {
	return toStringValue(lookup(values, keys...))
}

func firstList(values map[string]interface{}, keys ...string) []string {
	return toStringList(lookup(values, keys...))
}

func lookup(values map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		for mk, mv := range values {
			if strings.EqualFold(mk, k) {
				return mv
			}
		}
	}
	return nil
}

func toStringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toStringList(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, toStringValue(item))
		}
		return out
	case []string:
		return t
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return nil
	}
}
