package preprocessor

import (
	"reflect"
	"testing"
)

func TestStripsCommentsAndBlankLines(t *testing.T) {
	p := New()
	out, err := p.process([]string{
		"NOP ; do nothing",
		"   ",
		"; full line comment",
		"JMP start",
	}, ".")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	want := []string{"NOP", "JMP start"}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %v, want %v", out, want)
	}
}

// TestConditionalStackRecomputesConjunction exercises the S3 scenario
// from spec §8: a defined macro's .ifdef branch emits, and the matching
// .ifndef branch for the same macro does not, regardless of how the
// stack was pushed and popped to get there.
func TestConditionalStackRecomputesConjunction(t *testing.T) {
	p := New()
	lines := []string{
		".define DBG 1",
		".ifdef DBG",
		"NOP",
		".endif",
		".ifndef DBG",
		"NOP",
		"NOP",
		".endif",
	}
	out, err := p.process(lines, ".")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0] != "NOP" {
		t.Fatalf("expected exactly one NOP, got %v", out)
	}
}

func TestNestedConditionalsAndElse(t *testing.T) {
	p := New()
	lines := []string{
		".define OUTER 1",
		".ifdef OUTER",
		".ifdef MISSING",
		"NOP",
		".else",
		"JMP x",
		".endif",
		".endif",
	}
	out, err := p.process(lines, ".")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0] != "JMP x" {
		t.Fatalf("expected the .else branch only, got %v", out)
	}
}

func TestUnmatchedElseIsFatal(t *testing.T) {
	p := New()
	if _, err := p.process([]string{".else"}, "."); err == nil {
		t.Fatalf("expected error for unmatched .else")
	}
}

func TestUnmatchedEndifIsFatal(t *testing.T) {
	p := New()
	if _, err := p.process([]string{".endif"}, "."); err == nil {
		t.Fatalf("expected error for unmatched .endif")
	}
}

func TestDefineSubstitution(t *testing.T) {
	p := New()
	out, err := p.process([]string{
		".define BASE 0x10",
		"ADD %r1, BASE",
	}, ".")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(out) != 1 || out[0] != "ADD %r1, 0x10" {
		t.Fatalf("expected define substitution, got %v", out)
	}
}

// TestDefineSubstitutionPrefersLongestNameDeterministically covers a
// macro name that is a prefix of another: substitution must always
// expand the longer name first, and the result must be the same on
// every run regardless of map iteration order.
func TestDefineSubstitutionPrefersLongestNameDeterministically(t *testing.T) {
	for i := 0; i < 20; i++ {
		p := New()
		out, err := p.process([]string{
			".define BASE 1",
			".define BASE_ADDR 2",
			"LDI BASE_ADDR",
		}, ".")
		if err != nil {
			t.Fatalf("process: %v", err)
		}
		if len(out) != 1 || out[0] != "LDI 2" {
			t.Fatalf("run %d: expected longest-name substitution, got %v", i, out)
		}
	}
}

// TestIdempotentPreprocessing exercises P3: running the preprocessor
// again over its own (already-normalized) output must not change it.
func TestIdempotentPreprocessing(t *testing.T) {
	p1 := New()
	first, err := p1.process([]string{
		".define BASE 0x10",
		"ADD %r1, BASE ; add the base",
	}, ".")
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}

	p2 := New()
	second, err := p2.process(first, ".")
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("preprocessing is not idempotent: %v != %v", first, second)
	}
}
