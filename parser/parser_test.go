package parser

import (
	"reflect"
	"testing"

	"isapascal/ast"
	"isapascal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	prog, err := New(toks).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return prog
}

// TestS4Parse exercises the S4 scenario from spec §8.
func TestS4Parse(t *testing.T) {
	prog := mustParse(t, "PROGRAM T; VAR x: INTEGER; BEGIN x := 1 + 2 END.")

	if prog.Name != "T" {
		t.Fatalf("program name = %q, want T", prog.Name)
	}
	if len(prog.Block.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(prog.Block.Declarations))
	}
	decl, ok := prog.Block.Declarations[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("declaration is %T, want *ast.VarDecl", prog.Block.Declarations[0])
	}
	if decl.Name != "x" {
		t.Fatalf("var name = %q, want x", decl.Name)
	}
	simple, ok := decl.Type.(*ast.SimpleType)
	if !ok || simple.Name != "INTEGER" {
		t.Fatalf("var type = %#v, want SimpleType INTEGER", decl.Type)
	}

	if len(prog.Block.Compound.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Block.Compound.Statements))
	}
	assign, ok := prog.Block.Compound.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("statement is %T, want *ast.Assign", prog.Block.Compound.Statements[0])
	}
	binop, ok := assign.Right.(*ast.BinOp)
	if !ok || binop.Op != ast.OpPlus {
		t.Fatalf("assign.Right = %#v, want BinOp(PLUS)", assign.Right)
	}
	left, ok := binop.Left.(*ast.Num)
	if !ok || left.Int != 1 {
		t.Fatalf("left operand = %#v, want Num(1)", binop.Left)
	}
	right, ok := binop.Right.(*ast.Num)
	if !ok || right.Int != 2 {
		t.Fatalf("right operand = %#v, want Num(2)", binop.Right)
	}
}

// TestP5Determinism exercises P5: parsing the same token stream twice
// yields structurally identical ASTs.
func TestP5Determinism(t *testing.T) {
	src := "PROGRAM T; VAR x: INTEGER; BEGIN x := 1 + 2 END."
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}

	first, err := New(toks).Parse()
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := New(toks).Parse()
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}

	if !reflect.DeepEqual(ast.ToJSON(first), ast.ToJSON(second)) {
		t.Fatalf("parsing is not deterministic")
	}
}

func TestProcedureAndArrayDeclarations(t *testing.T) {
	prog := mustParse(t, `PROGRAM T;
VAR a: ARRAY[0..9] OF INTEGER;
PROCEDURE Greet(n: INTEGER);
BEGIN
  a[0] := n
END;
BEGIN
  Greet(5)
END.`)

	arrDecl, ok := prog.Block.Declarations[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("declaration 0 is %T, want *ast.VarDecl", prog.Block.Declarations[0])
	}
	arr, ok := arrDecl.Type.(*ast.ArrayType)
	if !ok {
		t.Fatalf("var type is %T, want *ast.ArrayType", arrDecl.Type)
	}
	elem, ok := arr.Element.(*ast.SimpleType)
	if !ok || elem.Name != "INTEGER" {
		t.Fatalf("array element type = %#v, want SimpleType INTEGER", arr.Element)
	}

	proc, ok := prog.Block.Declarations[1].(*ast.Procedure)
	if !ok {
		t.Fatalf("declaration 1 is %T, want *ast.Procedure", prog.Block.Declarations[1])
	}
	if proc.Name != "Greet" || len(proc.Params) != 1 || proc.Params[0].Name != "n" {
		t.Fatalf("unexpected procedure shape: %#v", proc)
	}

	call, ok := prog.Block.Compound.Statements[0].(*ast.ProcedureCall)
	if !ok || call.Name != "Greet" || len(call.Args) != 1 {
		t.Fatalf("unexpected call shape: %#v", prog.Block.Compound.Statements[0])
	}
}

func TestIfWhileForCase(t *testing.T) {
	prog := mustParse(t, `PROGRAM T;
VAR x: INTEGER;
BEGIN
  IF x > 0 THEN x := 1 ELSE x := 2;
  WHILE x < 10 DO x := x + 1;
  FOR x := 1 TO 10 DO x := x;
  CASE x OF
    1: x := 1;
    2: x := 2;
  ELSE
    x := 0
  END
END.`)

	stmts := prog.Block.Compound.Statements
	if len(stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(stmts))
	}
	if _, ok := stmts[0].(*ast.If); !ok {
		t.Fatalf("statement 0 is %T, want *ast.If", stmts[0])
	}
	if _, ok := stmts[1].(*ast.While); !ok {
		t.Fatalf("statement 1 is %T, want *ast.While", stmts[1])
	}
	if _, ok := stmts[2].(*ast.For); !ok {
		t.Fatalf("statement 2 is %T, want *ast.For", stmts[2])
	}
	caseNode, ok := stmts[3].(*ast.Case)
	if !ok {
		t.Fatalf("statement 3 is %T, want *ast.Case", stmts[3])
	}
	if len(caseNode.Cases) != 2 || caseNode.Else == nil {
		t.Fatalf("unexpected case shape: %#v", caseNode)
	}
}

func TestUnexpectedTokenFailsImmediately(t *testing.T) {
	toks, err := lexer.New("PROGRAM T; BEGIN x := END.").Scan()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	_, err = New(toks).Parse()
	if err == nil {
		t.Fatalf("expected a syntax error for a missing right-hand side")
	}
	if _, ok := err.(*SyntaxError); !ok {
		t.Fatalf("error is %T, want *SyntaxError", err)
	}
}
