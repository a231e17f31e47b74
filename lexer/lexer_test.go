package lexer

import (
	"strings"
	"testing"

	"isapascal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

// TestS4Tokenization exercises the S4 scenario from spec §8.
func TestS4Tokenization(t *testing.T) {
	src := "PROGRAM T; VAR x: INTEGER; BEGIN x := 1 + 2 END."
	toks, err := New(src).Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := kinds(toks)
	if len(got) == 0 {
		t.Fatalf("expected tokens, got none")
	}
	if got[0] != token.Kind("PROGRAM") {
		t.Fatalf("first token kind = %v, want PROGRAM", got[0])
	}
	if got[len(got)-1] != token.EOF {
		t.Fatalf("last token kind = %v, want EOF", got[len(got)-1])
	}

	// INTEGER here is the identifier-typed type name "INTEGER", which is
	// not a reserved word in this grammar: it lexes as IDENTIFIER.
	var sawAssign, sawPlus bool
	for _, tok := range toks {
		if tok.Kind == token.ASSIGN {
			sawAssign = true
		}
		if tok.Kind == token.PLUS {
			sawPlus = true
		}
	}
	if !sawAssign {
		t.Fatalf("expected an ASSIGN token for ':='")
	}
	if !sawPlus {
		t.Fatalf("expected a PLUS token for '+'")
	}
}

func TestKeywordsAreCaseInsensitiveAndWholeWord(t *testing.T) {
	toks, err := New("begin BEGINNING end").Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if toks[0].Kind != token.Kind("BEGIN") {
		t.Fatalf("lowercase 'begin' should lex as keyword BEGIN, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.IDENTIFIER {
		t.Fatalf("'BEGINNING' must not match BEGIN as a prefix, got %v", toks[1].Kind)
	}
	if toks[2].Kind != token.Kind("END") {
		t.Fatalf("expected END keyword, got %v", toks[2].Kind)
	}
}

func TestRealBeforeIntegerPriority(t *testing.T) {
	toks, err := New("3.14 7 7.").Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if toks[0].Kind != token.REAL || toks[0].Value.(float64) != 3.14 {
		t.Fatalf("expected REAL 3.14, got %v", toks[0])
	}
	if toks[1].Kind != token.INTEGER || toks[1].Value.(int64) != 7 {
		t.Fatalf("expected INTEGER 7, got %v", toks[1])
	}
	// "7." is INTEGER 7 followed by a DOT, not a REAL: no digits follow the dot.
	if toks[2].Kind != token.INTEGER {
		t.Fatalf("expected INTEGER before trailing dot, got %v", toks[2])
	}
	if toks[3].Kind != token.DOT {
		t.Fatalf("expected trailing DOT token, got %v", toks[3])
	}
}

func TestCommentStyles(t *testing.T) {
	toks, err := New("{brace comment}\nBEGIN (* paren comment *) END").Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{token.Kind("BEGIN"), token.Kind("END"), token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestStringLiteralWithEscapedQuote(t *testing.T) {
	toks, err := New("'it''s' ").Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if toks[0].Kind != token.STRING || toks[0].Value.(string) != "it's" {
		t.Fatalf("expected STRING it's, got %v", toks[0])
	}
}

// TestUnterminatedStringReportsPosition exercises P4: lexing fails with
// a precise line/column rather than silently truncating.
func TestUnterminatedStringReportsPosition(t *testing.T) {
	_, err := New("BEGIN 'unterminated").Scan()
	if err == nil {
		t.Fatalf("expected an error for an unterminated string literal")
	}
	if !strings.Contains(err.Error(), "1:7") {
		t.Fatalf("error = %q, want it to report the opening quote at 1:7", err.Error())
	}
}

func TestComparisonOperatorsLongestMatchFirst(t *testing.T) {
	toks, err := New("<= >= <> < >").Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []token.Kind{token.LTE, token.GTE, token.NEQ, token.LT, token.GT, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
