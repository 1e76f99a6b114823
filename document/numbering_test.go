package document

import "testing"

func TestListCountersResetOnShallowerIlvl(t *testing.T) {
	reg := NewNumberingRegistry()
	reg.DefineAbstractNum(0, map[int]LevelDefinition{
		0: {Ilvl: 0, Format: FormatDecimal},
		1: {Ilvl: 1, Format: FormatDecimal},
	})
	reg.DefineNum(1, 0)

	counters := NewListCounters()

	m, _ := GenerateMarker(reg, counters, 1, 0)
	if m != "1." {
		t.Fatalf("level 0 first item: got %q, want \"1.\"", m)
	}
	m, _ = GenerateMarker(reg, counters, 1, 1)
	if m != "1." {
		t.Fatalf("level 1 first item: got %q, want \"1.\"", m)
	}
	m, _ = GenerateMarker(reg, counters, 1, 1)
	if m != "2." {
		t.Fatalf("level 1 second item: got %q, want \"2.\"", m)
	}
	// Returning to level 0 must reset the deeper level 1 counter.
	m, _ = GenerateMarker(reg, counters, 1, 0)
	if m != "2." {
		t.Fatalf("level 0 second item: got %q, want \"2.\"", m)
	}
	m, _ = GenerateMarker(reg, counters, 1, 1)
	if m != "1." {
		t.Fatalf("level 1 after reset: got %q, want \"1.\" (deeper counters reset when returning to a shallower level)", m)
	}
}

func TestHierarchicalPatternWithSkippedLevel(t *testing.T) {
	reg := NewNumberingRegistry()
	reg.DefineAbstractNum(0, map[int]LevelDefinition{
		0: {Ilvl: 0, Format: FormatDecimal},
		1: {Ilvl: 1, Format: FormatDecimal},
		2: {Ilvl: 2, Format: FormatDecimal, LvlTextPattern: "%1.%2.%3"},
	})
	reg.DefineNum(1, 0)

	counters := NewListCounters()

	// Jump straight to ilvl 2 without ever visiting ilvl 0 or 1 explicitly;
	// both intermediate levels initialize to 1.
	m, enumerated := GenerateMarker(reg, counters, 1, 2)
	if !enumerated {
		t.Fatalf("expected enumerated marker")
	}
	if m != "1.1.1" {
		t.Fatalf("got %q, want \"1.1.1\"", m)
	}

	m, _ = GenerateMarker(reg, counters, 1, 2)
	if m != "1.1.2" {
		t.Fatalf("got %q, want \"1.1.2\"", m)
	}
}

func TestRomanAndLetterFormats(t *testing.T) {
	reg := NewNumberingRegistry()
	reg.DefineAbstractNum(0, map[int]LevelDefinition{
		0: {Ilvl: 0, Format: FormatUpperRoman},
		1: {Ilvl: 1, Format: FormatLowerLetter},
	})
	reg.DefineNum(1, 0)

	counters := NewListCounters()

	for i, want := range []string{"I.", "II.", "III.", "IV."} {
		m, _ := GenerateMarker(reg, counters, 1, 0)
		if m != want {
			t.Fatalf("roman item %d: got %q, want %q", i, m, want)
		}
	}

	letterCounters := NewListCounters()
	for i, want := range []string{"a.", "b.", "c."} {
		m, _ := GenerateMarker(reg, letterCounters, 1, 1)
		if m != want {
			t.Fatalf("letter item %d: got %q, want %q", i, m, want)
		}
	}
}

func TestToLetterBase26Rollover(t *testing.T) {
	if got := toLetter(1, 'a'); got != "a" {
		t.Fatalf("toLetter(1) = %q, want \"a\"", got)
	}
	if got := toLetter(26, 'a'); got != "z" {
		t.Fatalf("toLetter(26) = %q, want \"z\"", got)
	}
	if got := toLetter(27, 'a'); got != "aa" {
		t.Fatalf("toLetter(27) = %q, want \"aa\"", got)
	}
}

func TestBulletFormatNotEnumerated(t *testing.T) {
	reg := NewNumberingRegistry()
	reg.DefineAbstractNum(0, map[int]LevelDefinition{
		0: {Ilvl: 0, Format: FormatBullet},
	})
	reg.DefineNum(1, 0)
	counters := NewListCounters()

	m, enumerated := GenerateMarker(reg, counters, 1, 0)
	if enumerated {
		t.Fatalf("bullet format must not be enumerated")
	}
	if m != "" {
		t.Fatalf("bullet format must produce no marker text, got %q", m)
	}
}

func TestUnknownNumIDProducesNoMarker(t *testing.T) {
	reg := NewNumberingRegistry()
	counters := NewListCounters()
	m, enumerated := GenerateMarker(reg, counters, 99, 0)
	if enumerated || m != "" {
		t.Fatalf("unknown numId should produce no marker, got (%q, %v)", m, enumerated)
	}
}
