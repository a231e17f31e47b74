package semantic

import (
	"strings"
	"testing"

	"isapascal/lexer"
	"isapascal/parser"
)

func analyze(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	prog, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return NewAnalyzer().Analyze(prog)
}

// TestS5TypeError exercises the S5 scenario from spec §8.
func TestS5TypeError(t *testing.T) {
	err := analyze(t, "PROGRAM T; VAR b: BOOLEAN; BEGIN b := 1 + 2 END.")
	if err == nil {
		t.Fatalf("expected a type error assigning INTEGER to BOOLEAN")
	}
	if !strings.Contains(err.Error(), "incompatible types") {
		t.Fatalf("error = %q, want it to mention incompatible types", err.Error())
	}
}

// TestS6DuplicateIdentifier exercises the S6 scenario from spec §8.
func TestS6DuplicateIdentifier(t *testing.T) {
	err := analyze(t, "PROGRAM T; VAR x: INTEGER; x: REAL; BEGIN END.")
	if err == nil {
		t.Fatalf("expected a duplicate identifier error")
	}
	if !strings.Contains(err.Error(), "Duplicate identifier 'x' found") {
		t.Fatalf("error = %q, want it to contain \"Duplicate identifier 'x' found\"", err.Error())
	}
}

func TestValidProgramHasNoError(t *testing.T) {
	err := analyze(t, "PROGRAM T; VAR x: INTEGER; BEGIN x := 1 + 2 END.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIntegerWidensToRealOnAssignment(t *testing.T) {
	err := analyze(t, "PROGRAM T; VAR r: REAL; BEGIN r := 1 END.")
	if err != nil {
		t.Fatalf("unexpected error widening INTEGER to REAL: %v", err)
	}
}

func TestUndefinedIdentifierIsFatal(t *testing.T) {
	err := analyze(t, "PROGRAM T; BEGIN y := 1 END.")
	if err == nil {
		t.Fatalf("expected an undefined identifier error")
	}
	if !strings.Contains(err.Error(), "undefined identifier 'y'") {
		t.Fatalf("error = %q, want it to mention undefined identifier 'y'", err.Error())
	}
}

func TestIfConditionMustBeBoolean(t *testing.T) {
	err := analyze(t, "PROGRAM T; VAR x: INTEGER; BEGIN IF x THEN x := 1 END.")
	if err == nil {
		t.Fatalf("expected an error for a non-BOOLEAN IF condition")
	}
}

func TestForLoopVariableMustBeInteger(t *testing.T) {
	err := analyze(t, "PROGRAM T; VAR x: REAL; BEGIN FOR x := 1 TO 10 DO x := x END.")
	if err == nil {
		t.Fatalf("expected an error for a non-INTEGER FOR loop variable")
	}
}

func TestArrayIndexTypeChecking(t *testing.T) {
	err := analyze(t, `PROGRAM T;
VAR a: ARRAY[0..9] OF INTEGER;
BEGIN
  a[0] := 1
END.`)
	if err != nil {
		t.Fatalf("unexpected error indexing array: %v", err)
	}

	err = analyze(t, `PROGRAM T;
VAR a: ARRAY[0..9] OF INTEGER; s: STRING;
BEGIN
  a[s] := 1
END.`)
	if err == nil {
		t.Fatalf("expected an error indexing with a non-INTEGER expression")
	}
}

// TestP6ScopeHygiene exercises P6: a name declared inside a Procedure
// is not visible once the Procedure's block finishes analysis, while
// the outer scope remains visible inside the Procedure.
func TestP6ScopeHygiene(t *testing.T) {
	err := analyze(t, `PROGRAM T;
VAR outer: INTEGER;
PROCEDURE P;
VAR inner: INTEGER;
BEGIN
  outer := 1;
  inner := 2
END;
BEGIN
  outer := 3;
  inner := 4
END.`)
	if err == nil {
		t.Fatalf("expected 'inner' to be undefined outside its Procedure")
	}
	if !strings.Contains(err.Error(), "undefined identifier 'inner'") {
		t.Fatalf("error = %q, want it to mention undefined identifier 'inner'", err.Error())
	}
}

func TestProcedureCallArityAndTypeChecking(t *testing.T) {
	err := analyze(t, `PROGRAM T;
PROCEDURE Greet(n: INTEGER);
BEGIN
END;
BEGIN
  Greet(1, 2)
END.`)
	if err == nil {
		t.Fatalf("expected an arity error")
	}
	if !strings.Contains(err.Error(), "expects 1 argument") {
		t.Fatalf("error = %q, want it to mention the expected arity", err.Error())
	}
}
