package semantic

import (
	"fmt"
	"strings"

	"isapascal/ast"
)

// Analyzer walks a Program's AST, maintaining the current scope as it
// descends into Procedure and Function bodies.
type Analyzer struct {
	current *ScopedSymbolTable
}

// NewAnalyzer constructs an Analyzer with no active scope; Analyze
// creates the global scope itself, per spec §4.7.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze runs the full semantic pass over prog, returning the first
// error encountered (spec §4.7 "Failure semantics": analysis aborts on
// the first error).
func (a *Analyzer) Analyze(prog *ast.Program) error {
	global := NewScope("global", nil)
	a.current = global
	return a.visitBlock(prog.Block)
}

func (a *Analyzer) visitBlock(b *ast.Block) error {
	for _, decl := range b.Declarations {
		if err := a.visitDeclaration(decl); err != nil {
			return err
		}
	}
	return a.visitCompound(b.Compound)
}

func (a *Analyzer) visitDeclaration(n ast.Node) error {
	switch d := n.(type) {
	case *ast.VarDecl:
		t, err := a.resolveTypeSpec(d.Type)
		if err != nil {
			return err
		}
		if !a.current.InsertLocal(VariableSymbol{Name: d.Name, Type: t}) {
			return &Error{Line: d.Tok.Line, Column: d.Tok.Column,
				Message: fmt.Sprintf("Duplicate identifier '%s' found", d.Name)}
		}
		return nil
	case *ast.ConstDecl:
		t, err := a.typeOf(d.Value)
		if err != nil {
			return err
		}
		if !a.current.InsertLocal(ConstantSymbol{Name: d.Name, Type: t}) {
			return &Error{Message: fmt.Sprintf("Duplicate identifier '%s' found", d.Name)}
		}
		return nil
	case *ast.TypeDecl:
		t, err := a.resolveTypeSpec(d.Type)
		if err != nil {
			return err
		}
		// The parser uppercases every type_spec name, so the declared name
		// is stored uppercased for resolveTypeSpec to find it.
		if !a.current.InsertLocal(TypeSymbol{Name: strings.ToUpper(d.Name), Type: t}) {
			return &Error{Message: fmt.Sprintf("Duplicate identifier '%s' found", d.Name)}
		}
		return nil
	case *ast.Procedure:
		return a.visitProcedure(d)
	case *ast.Function:
		return a.visitFunction(d)
	default:
		return fmt.Errorf("semantic: unhandled declaration node %T", n)
	}
}

func (a *Analyzer) visitProcedure(p *ast.Procedure) error {
	paramTypes, err := a.resolveParams(p.Params)
	if err != nil {
		return err
	}
	if !a.current.InsertLocal(ProcedureSymbol{Name: p.Name, Params: paramTypes}) {
		return &Error{Message: fmt.Sprintf("Duplicate identifier '%s' found", p.Name)}
	}
	return a.withChildScope(p.Name, p.Params, paramTypes, func() error {
		return a.visitBlock(p.Block)
	})
}

func (a *Analyzer) visitFunction(f *ast.Function) error {
	paramTypes, err := a.resolveParams(f.Params)
	if err != nil {
		return err
	}
	returnType, err := a.resolveTypeSpec(f.ReturnType)
	if err != nil {
		return err
	}
	if !a.current.InsertLocal(FunctionSymbol{Name: f.Name, Params: paramTypes, ReturnType: returnType}) {
		return &Error{Message: fmt.Sprintf("Duplicate identifier '%s' found", f.Name)}
	}
	return a.withChildScope(f.Name, f.Params, paramTypes, func() error {
		return a.visitBlock(f.Block)
	})
}

func (a *Analyzer) resolveParams(params []ast.Param) ([]Type, error) {
	types := make([]Type, len(params))
	for i, p := range params {
		t, err := a.resolveTypeSpec(p.Type)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// withChildScope pushes a new scope naming name, inserts params as
// VariableSymbols (spec §4.7: "each Procedure/Function ... inserts its
// parameters as VariableSymbols"), runs body, then pops back to the
// parent. The child table becomes unreachable once this returns,
// giving P6 scope hygiene for free.
func (a *Analyzer) withChildScope(name string, params []ast.Param, paramTypes []Type, body func() error) error {
	parent := a.current
	child := NewScope(name, parent)
	for i, p := range params {
		child.InsertLocal(VariableSymbol{Name: p.Name, Type: paramTypes[i]})
	}
	a.current = child
	err := body()
	a.current = parent
	return err
}

func (a *Analyzer) visitCompound(c *ast.Compound) error {
	for _, stmt := range c.Statements {
		if err := a.visitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) visitStatement(n ast.Node) error {
	switch s := n.(type) {
	case *ast.Compound:
		return a.visitCompound(s)
	case *ast.NoOp:
		return nil
	case *ast.Assign:
		return a.visitAssign(s)
	case *ast.If:
		return a.visitIf(s)
	case *ast.While:
		return a.visitWhile(s)
	case *ast.For:
		return a.visitFor(s)
	case *ast.Case:
		return a.visitCase(s)
	case *ast.ProcedureCall:
		_, err := a.visitCall(s)
		return err
	default:
		return fmt.Errorf("semantic: unhandled statement node %T", n)
	}
}

func (a *Analyzer) visitAssign(s *ast.Assign) error {
	rhs, err := a.typeOf(s.Right)
	if err != nil {
		return err
	}
	lhs, err := a.typeOf(s.Left)
	if err != nil {
		return err
	}
	if !compatible(lhs, rhs) {
		return &Error{Line: s.Tok.Line, Column: s.Tok.Column,
			Message: fmt.Sprintf("incompatible types in assignment: cannot assign %s to %s", rhs, lhs)}
	}
	return nil
}

func (a *Analyzer) visitIf(s *ast.If) error {
	cond, err := a.typeOf(s.Cond)
	if err != nil {
		return err
	}
	if !isBoolean(cond) {
		return &Error{Message: fmt.Sprintf("IF condition must be BOOLEAN, got %s", cond)}
	}
	if err := a.visitStatement(s.Then); err != nil {
		return err
	}
	if s.Else != nil {
		return a.visitStatement(s.Else)
	}
	return nil
}

func (a *Analyzer) visitWhile(s *ast.While) error {
	cond, err := a.typeOf(s.Cond)
	if err != nil {
		return err
	}
	if !isBoolean(cond) {
		return &Error{Message: fmt.Sprintf("WHILE condition must be BOOLEAN, got %s", cond)}
	}
	return a.visitStatement(s.Body)
}

func (a *Analyzer) visitFor(s *ast.For) error {
	sym, ok := a.current.Lookup(s.Var)
	if !ok {
		return &Error{Line: s.VarToken.Line, Column: s.VarToken.Column,
			Message: fmt.Sprintf("undefined identifier '%s'", s.Var)}
	}
	varSym, ok := sym.(VariableSymbol)
	if !ok || !isInteger(varSym.Type) {
		return &Error{Message: fmt.Sprintf("FOR loop variable '%s' must be INTEGER", s.Var)}
	}
	start, err := a.typeOf(s.Start)
	if err != nil {
		return err
	}
	end, err := a.typeOf(s.End)
	if err != nil {
		return err
	}
	if !isInteger(start) || !isInteger(end) {
		return &Error{Message: "FOR bounds must be INTEGER"}
	}
	return a.visitStatement(s.Body)
}

func (a *Analyzer) visitCase(s *ast.Case) error {
	scrutinee, err := a.typeOf(s.Expr)
	if err != nil {
		return err
	}
	for _, branch := range s.Cases {
		labelType, err := a.typeOf(branch.Label)
		if err != nil {
			return err
		}
		if !compatible(scrutinee, labelType) {
			return &Error{Message: fmt.Sprintf("CASE label type %s incompatible with %s", labelType, scrutinee)}
		}
		if err := a.visitStatement(branch.Body); err != nil {
			return err
		}
	}
	if s.Else != nil {
		return a.visitStatement(s.Else)
	}
	return nil
}

func (a *Analyzer) visitCall(c *ast.ProcedureCall) (Type, error) {
	sym, ok := a.current.Lookup(c.Name)
	if !ok {
		return nil, &Error{Line: c.Tok.Line, Column: c.Tok.Column,
			Message: fmt.Sprintf("undefined identifier '%s'", c.Name)}
	}

	var params []Type
	var returnType Type
	switch s := sym.(type) {
	case ProcedureSymbol:
		params = s.Params
	case FunctionSymbol:
		params = s.Params
		returnType = s.ReturnType
	default:
		return nil, &Error{Line: c.Tok.Line, Column: c.Tok.Column,
			Message: fmt.Sprintf("'%s' is not a procedure or function", c.Name)}
	}

	if len(c.Args) != len(params) {
		return nil, &Error{Line: c.Tok.Line, Column: c.Tok.Column,
			Message: fmt.Sprintf("'%s' expects %d argument(s), got %d", c.Name, len(params), len(c.Args))}
	}
	for i, argNode := range c.Args {
		argType, err := a.typeOf(argNode)
		if err != nil {
			return nil, err
		}
		if !compatible(argType, params[i]) {
			return nil, &Error{Line: c.Tok.Line, Column: c.Tok.Column,
				Message: fmt.Sprintf("'%s' argument %d: cannot use %s as %s", c.Name, i+1, argType, params[i])}
		}
	}
	return returnType, nil
}

var arithmeticOps = map[ast.BinOpKind]bool{
	ast.OpPlus: true, ast.OpMinus: true, ast.OpMul: true,
	ast.OpDiv: true, ast.OpSlash: true, ast.OpMod: true,
}

var comparisonOps = map[ast.BinOpKind]bool{
	ast.OpEq: true, ast.OpNeq: true, ast.OpLt: true,
	ast.OpLte: true, ast.OpGt: true, ast.OpGte: true,
}

var logicalOps = map[ast.BinOpKind]bool{
	ast.OpAnd: true, ast.OpOr: true,
}

// typeOf evaluates an expression node's type, applying the per-operator
// contracts of spec §4.7.
func (a *Analyzer) typeOf(n ast.Node) (Type, error) {
	switch e := n.(type) {
	case *ast.Num:
		if e.IsReal {
			return SimpleType{Name: Real}, nil
		}
		return SimpleType{Name: Integer}, nil
	case *ast.String:
		return SimpleType{Name: Str}, nil
	case *ast.Boolean:
		return SimpleType{Name: Bool}, nil
	case *ast.Var:
		sym, ok := a.current.Lookup(e.Name)
		if !ok {
			return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
				Message: fmt.Sprintf("undefined identifier '%s'", e.Name)}
		}
		switch s := sym.(type) {
		case VariableSymbol:
			return s.Type, nil
		case ConstantSymbol:
			return s.Type, nil
		default:
			return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
				Message: fmt.Sprintf("'%s' is not a variable", e.Name)}
		}
	case *ast.UnaryOp:
		operand, err := a.typeOf(e.Operand)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case ast.UnaryNot:
			if !isBoolean(operand) {
				return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
					Message: fmt.Sprintf("NOT requires a BOOLEAN operand, got %s", operand)}
			}
			return SimpleType{Name: Bool}, nil
		default: // PLUS, MINUS
			if !isNumeric(operand) {
				return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
					Message: fmt.Sprintf("unary %s requires a numeric operand, got %s", e.Op, operand)}
			}
			return operand, nil
		}
	case *ast.BinOp:
		return a.typeOfBinOp(e)
	case *ast.ProcedureCall:
		t, err := a.visitCall(e)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
				Message: fmt.Sprintf("'%s' is a procedure and has no value", e.Name)}
		}
		return t, nil
	default:
		return nil, fmt.Errorf("semantic: unhandled expression node %T", n)
	}
}

func (a *Analyzer) typeOfBinOp(e *ast.BinOp) (Type, error) {
	if e.Op == ast.OpIndex {
		left, err := a.typeOf(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := a.typeOf(e.Right)
		if err != nil {
			return nil, err
		}
		arr, ok := left.(ArrayType)
		if !ok {
			return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
				Message: fmt.Sprintf("cannot index non-array type %s", left)}
		}
		if !isInteger(right) {
			return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
				Message: fmt.Sprintf("array index must be INTEGER, got %s", right)}
		}
		return arr.Element, nil
	}

	left, err := a.typeOf(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.typeOf(e.Right)
	if err != nil {
		return nil, err
	}

	switch {
	case arithmeticOps[e.Op]:
		if !isNumeric(left) || !isNumeric(right) {
			return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
				Message: fmt.Sprintf("operator %s requires numeric operands, got %s and %s", e.Op, left, right)}
		}
		return arithmeticResult(left, right), nil
	case comparisonOps[e.Op]:
		if !compatible(left, right) {
			return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
				Message: fmt.Sprintf("operator %s requires comparable operands, got %s and %s", e.Op, left, right)}
		}
		return SimpleType{Name: Bool}, nil
	case logicalOps[e.Op]:
		if !isBoolean(left) || !isBoolean(right) {
			return nil, &Error{Line: e.Tok.Line, Column: e.Tok.Column,
				Message: fmt.Sprintf("operator %s requires BOOLEAN operands, got %s and %s", e.Op, left, right)}
		}
		return SimpleType{Name: Bool}, nil
	default:
		return nil, fmt.Errorf("semantic: unhandled operator %s", e.Op)
	}
}

func isInteger(t Type) bool {
	s, ok := t.(SimpleType)
	return ok && s.Name == Integer
}

// resolveTypeSpec turns an ast type-spec node into a semantic Type,
// resolving user-defined names through the current scope chain.
func (a *Analyzer) resolveTypeSpec(n ast.Node) (Type, error) {
	switch t := n.(type) {
	case *ast.SimpleType:
		switch t.Name {
		case Integer, Real, Str, Bool:
			return SimpleType{Name: t.Name}, nil
		}
		if sym, ok := a.current.Lookup(t.Name); ok {
			if ts, ok := sym.(TypeSymbol); ok {
				return ts.Type, nil
			}
		}
		return nil, &Error{Message: fmt.Sprintf("undefined type '%s'", t.Name)}
	case *ast.ArrayType:
		low, err := a.constInt(t.Low)
		if err != nil {
			return nil, err
		}
		high, err := a.constInt(t.High)
		if err != nil {
			return nil, err
		}
		elem, err := a.resolveTypeSpec(t.Element)
		if err != nil {
			return nil, err
		}
		return ArrayType{Low: low, High: high, Element: elem}, nil
	default:
		return nil, fmt.Errorf("semantic: unhandled type node %T", n)
	}
}

func (a *Analyzer) constInt(n ast.Node) (int64, error) {
	num, ok := n.(*ast.Num)
	if !ok || num.IsReal {
		return 0, &Error{Message: "array bounds must be integer literals"}
	}
	return num.Int, nil
}
