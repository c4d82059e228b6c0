package lexer

import (
	"reflect"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := map[string]bool{
		"":        true,
		"\t":      true,
		"\n":      true,
		"// test": true,
		"x":       false,
	}
	for source, want := range cases {
		if got := IsEmpty(source); got != want {
			t.Errorf("IsEmpty(%q) = %v, want %v", source, got, want)
		}
	}
}

func TestIsUnquoted(t *testing.T) {
	cases := map[string]bool{
		"'":     true,
		"\"":    true,
		"''":    false,
		"\"\"":  false,
		"'\"'":  false,
		"\"'\"": false,
	}
	for source, want := range cases {
		if got := IsUnquoted(source); got != want {
			t.Errorf("IsUnquoted(%q) = %v, want %v", source, got, want)
		}
	}
}

func TestIsUnmatched(t *testing.T) {
	cases := map[string]bool{
		"(":        true,
		"[":        true,
		"{":        true,
		"([{)]}":   true,
		"()":       false,
		"[]":       false,
		"{}":       false,
		"([{}{}])": false,
	}
	for source, want := range cases {
		if got := IsUnmatched(source); got != want {
			t.Errorf("IsUnmatched(%q) = %v, want %v", source, got, want)
		}
	}
}

func TestNormaliseCollapsesComment(t *testing.T) {
	if got := Normalise("// test"); got != "\n" {
		t.Fatalf("Normalise(%q) = %q, want %q", "// test", got, "\n")
	}
}

func TestNormaliseFoldsFourSpaceIndent(t *testing.T) {
	if got := Normalise("    "); got != "\t" {
		t.Fatalf("Normalise(four spaces) = %q, want tab", got)
	}
}

func TestNormaliseAliasesShortTypeNames(t *testing.T) {
	got := Normalise("bool int num str")
	want := "boolean integer number string"
	if got != want {
		t.Fatalf("Normalise(%q) = %q, want %q", "bool int num str", got, want)
	}
}

func TestNormaliseNeverRewritesInsideStrings(t *testing.T) {
	source := "'bool' 'int' 'num' 'str'"
	if got := Normalise(source); got != source {
		t.Fatalf("Normalise(%q) = %q, want it unchanged", source, got)
	}
}

func TestSplitCollapsesLineContinuations(t *testing.T) {
	got := Split("function(\nargs\n),\nvalue")
	want := []string{"function(args),value"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split(...) = %#v, want %#v", got, want)
	}
}

func TestSplitOnPlainNewlines(t *testing.T) {
	got := Split("x\ny\nz")
	want := []string{"x", "y", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split(...) = %#v, want %#v", got, want)
	}
}

func TestSplitDropsEmptyLines(t *testing.T) {
	got := Split("x\n\ny")
	want := []string{"x", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split(...) = %#v, want %#v", got, want)
	}
}
