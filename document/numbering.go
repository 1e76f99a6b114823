package document

import (
	"fmt"
	"strings"
)

// NumFormat is a level's numbering format (spec §3.4).
type NumFormat string

const (
	FormatDecimal     NumFormat = "decimal"
	FormatLowerRoman  NumFormat = "lower_roman"
	FormatUpperRoman  NumFormat = "upper_roman"
	FormatLowerLetter NumFormat = "lower_letter"
	FormatUpperLetter NumFormat = "upper_letter"
	FormatDecimalZero NumFormat = "decimal_zero"
	FormatBullet      NumFormat = "bullet"
)

// IsNumbered reports whether the format produces a numbered marker as
// opposed to a plain bullet.
func (f NumFormat) IsNumbered() bool { return f != FormatBullet && f != "" }

// LevelDefinition is one <w:lvl> entry within an abstract numbering
// definition (spec §3.4, §6).
type LevelDefinition struct {
	Ilvl         int
	Format       NumFormat
	StartVal     int
	LvlTextPattern string // e.g. "%1.%2." for hierarchical numbering; empty if none
}

// NumberingRegistry maps numId -> abstractNumId -> {ilvl -> LevelDefinition},
// matching the two-level indirection of DOCX numbering.xml (spec §3.4, §6).
// An empty/missing registry is legal and resolves every (numId, ilvl) to a
// bullet default.
type NumberingRegistry struct {
	abstractNums map[int]map[int]LevelDefinition // abstractNumId -> ilvl -> def
	numToAbstract map[int]int                    // numId -> abstractNumId
}

// NewNumberingRegistry returns an empty registry.
func NewNumberingRegistry() *NumberingRegistry {
	return &NumberingRegistry{
		abstractNums:  make(map[int]map[int]LevelDefinition),
		numToAbstract: make(map[int]int),
	}
}

// DefineAbstractNum registers the level definitions for one abstractNumId.
func (r *NumberingRegistry) DefineAbstractNum(abstractNumID int, levels map[int]LevelDefinition) {
	r.abstractNums[abstractNumID] = levels
}

// DefineNum links a numId to an abstractNumId.
func (r *NumberingRegistry) DefineNum(numID, abstractNumID int) {
	r.numToAbstract[numID] = abstractNumID
}

// GetLevel resolves (numId, ilvl) to its LevelDefinition, if known.
func (r *NumberingRegistry) GetLevel(numID, ilvl int) (LevelDefinition, bool) {
	abstractID, ok := r.numToAbstract[numID]
	if !ok {
		return LevelDefinition{}, false
	}
	levels, ok := r.abstractNums[abstractID]
	if !ok {
		return LevelDefinition{}, false
	}
	def, ok := levels[ilvl]
	return def, ok
}

// ListCounters tracks the current counter for every (numId, ilvl) pair
// encountered so far (spec §3.4).
type ListCounters struct {
	counters map[[2]int]int
}

// NewListCounters returns a fresh, all-zero counter set.
func NewListCounters() *ListCounters {
	return &ListCounters{counters: make(map[[2]int]int)}
}

// ResetForSequence clears every counter for numID, used when a backend
// detects an explicit new list (spec §3.4 invariant).
func (c *ListCounters) ResetForSequence(numID int) {
	for k := range c.counters {
		if k[0] == numID {
			delete(c.counters, k)
		}
	}
}

// ResetDeeperLevels clears counters for ilvl strictly deeper than ilvl when
// the current observed ilvl becomes shallower than previously seen (spec
// §3.4 invariant).
func (c *ListCounters) ResetDeeperLevels(numID, ilvl int) {
	for k := range c.counters {
		if k[0] == numID && k[1] > ilvl {
			delete(c.counters, k)
		}
	}
}

// GetAndIncrement increments the counter at (numID, ilvl) and returns the
// post-increment value (spec §3.4: "requesting a counter increments it and
// returns the post-increment value").
func (c *ListCounters) GetAndIncrement(numID, ilvl int) int {
	key := [2]int{numID, ilvl}
	c.counters[key]++
	return c.counters[key]
}

// GetCurrent returns the counter at (numID, ilvl) without incrementing it;
// zero if never requested.
func (c *ListCounters) GetCurrent(numID, ilvl int) int {
	return c.counters[[2]int{numID, ilvl}]
}

// GenerateMarker implements spec §4.2.2's list marker generation algorithm,
// translated from original_source/docling_rs's docx_numbering.rs
// generate_marker/format_lvl_text. It returns the rendered marker string and
// whether the item is enumerated (vs. a bullet).
func GenerateMarker(numbering *NumberingRegistry, counters *ListCounters, numID, ilvl int) (marker string, enumerated bool) {
	def, ok := numbering.GetLevel(numID, ilvl)
	if !ok {
		return "", false
	}
	if !def.Format.IsNumbered() {
		return "", false
	}

	counters.ResetDeeperLevels(numID, ilvl)

	// Initialize skipped intermediate levels to 1 so hierarchical patterns
	// like "%1.%2.%3" yield "2.1.1" not "2.0.1" (spec §3.4 invariant).
	for intermediate := 0; intermediate < ilvl; intermediate++ {
		if counters.GetCurrent(numID, intermediate) == 0 {
			counters.GetAndIncrement(numID, intermediate)
		}
	}

	counter := counters.GetAndIncrement(numID, ilvl)

	if def.LvlTextPattern != "" {
		return formatLvlText(def.LvlTextPattern, numbering, counters, numID, ilvl, counter), true
	}

	return formatSimpleMarker(def.Format, counter) + ".", true
}

func formatSimpleMarker(format NumFormat, counter int) string {
	switch format {
	case FormatDecimal:
		return fmt.Sprintf("%d", counter)
	case FormatDecimalZero:
		return fmt.Sprintf("%02d", counter)
	case FormatLowerRoman:
		return strings.ToLower(toRoman(counter))
	case FormatUpperRoman:
		return toRoman(counter)
	case FormatLowerLetter:
		return toLetter(counter, 'a')
	case FormatUpperLetter:
		return toLetter(counter, 'A')
	default:
		return ""
	}
}

// formatLvlText expands %1, %2, ... tokens (1-indexed level) in pattern
// using each referenced level's current counter, formatted with that
// level's own format, keeping the pattern's literal punctuation.
func formatLvlText(pattern string, numbering *NumberingRegistry, counters *ListCounters, numID, currentIlvl, currentCounter int) string {
	result := pattern
	for level := 0; level <= currentIlvl; level++ {
		placeholder := fmt.Sprintf("%%%d", level+1)
		if !strings.Contains(result, placeholder) {
			continue
		}
		var counterVal int
		if level == currentIlvl {
			counterVal = currentCounter
		} else {
			counterVal = counters.GetCurrent(numID, level)
		}
		formatted := fmt.Sprintf("%d", counterVal)
		if def, ok := numbering.GetLevel(numID, level); ok {
			switch def.Format {
			case FormatLowerRoman:
				formatted = strings.ToLower(toRoman(counterVal))
			case FormatUpperRoman:
				formatted = toRoman(counterVal)
			case FormatLowerLetter:
				formatted = toLetter(counterVal, 'a')
			case FormatUpperLetter:
				formatted = toLetter(counterVal, 'A')
			case FormatDecimalZero:
				formatted = fmt.Sprintf("%02d", counterVal)
			}
		}
		result = strings.ReplaceAll(result, placeholder, formatted)
	}
	return result
}

// toRoman converts a positive integer to upper-case Roman numerals.
func toRoman(n int) string {
	if n <= 0 {
		return ""
	}
	values := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	numerals := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}
	var b strings.Builder
	for i, v := range values {
		for n >= v {
			b.WriteString(numerals[i])
			n -= v
		}
	}
	return b.String()
}

// toLetter converts a positive integer to a spreadsheet-style base-26
// sequence: 1->a, 26->z, 27->aa (spec §4.2.2).
func toLetter(n int, base byte) string {
	if n <= 0 {
		return ""
	}
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{base + byte(n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}
