// Package parser implements the recursive-descent Pascal grammar of
// spec §4.6. Unlike the teacher's Nilan parser, which accumulates a
// slice of syntax errors and keeps going, this parser is strict: the
// first unexpected token aborts parsing immediately with its source
// position (spec §4.6 "Error policy").
package parser

import (
	"fmt"
	"strings"

	"isapascal/ast"
	"isapascal/token"
)

// Parser consumes a fixed token slice produced by the lexer.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New constructs a Parser over a complete token stream (EOF included).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole token stream as a Pascal program.
func (p *Parser) Parse() (*ast.Program, error) {
	if _, err := p.expect(token.Kind("PROGRAM")); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOT); err != nil {
		return nil, err
	}
	return &ast.Program{Name: nameTok.Lexeme, Block: block}, nil
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) check(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.check(k) {
		tok := p.peek()
		return token.Token{}, &SyntaxError{
			Line:   tok.Line,
			Column: tok.Column,
			Message: fmt.Sprintf("expected %s, found %s %q", k, tok.Kind, tok.Lexeme),
		}
	}
	return p.advance(), nil
}

// parseBlock parses declarations followed by the compound statement
// body (spec §4.6 "Block = declarations + compound_statement").
func (p *Parser) parseBlock() (*ast.Block, error) {
	var decls []ast.Node
	for {
		switch {
		case p.check(token.Kind("VAR")):
			vars, err := p.parseVarSection()
			if err != nil {
				return nil, err
			}
			decls = append(decls, vars...)
		case p.check(token.Kind("CONST")):
			consts, err := p.parseConstSection()
			if err != nil {
				return nil, err
			}
			decls = append(decls, consts...)
		case p.check(token.Kind("TYPE")):
			types, err := p.parseTypeSection()
			if err != nil {
				return nil, err
			}
			decls = append(decls, types...)
		case p.check(token.Kind("PROCEDURE")):
			proc, err := p.parseProcedure()
			if err != nil {
				return nil, err
			}
			decls = append(decls, proc)
		case p.check(token.Kind("FUNCTION")):
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			decls = append(decls, fn)
		default:
			compound, err := p.parseCompound()
			if err != nil {
				return nil, err
			}
			return &ast.Block{Declarations: decls, Compound: compound}, nil
		}
	}
}

// parseVarSection parses `VAR (id_list : type_spec ;)+`.
func (p *Parser) parseVarSection() ([]ast.Node, error) {
	if _, err := p.expect(token.Kind("VAR")); err != nil {
		return nil, err
	}
	var decls []ast.Node
	for p.check(token.IDENTIFIER) {
		names, err := p.parseIDList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		typeNode, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		for _, n := range names {
			decls = append(decls, &ast.VarDecl{Name: n.Lexeme, Type: typeNode, Tok: n})
		}
	}
	return decls, nil
}

// parseConstSection parses `CONST (id = literal ;)+`.
func (p *Parser) parseConstSection() ([]ast.Node, error) {
	if _, err := p.expect(token.Kind("CONST")); err != nil {
		return nil, err
	}
	var decls []ast.Node
	for p.check(token.IDENTIFIER) {
		nameTok, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EQ); err != nil {
			return nil, err
		}
		value, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		decls = append(decls, &ast.ConstDecl{Name: nameTok.Lexeme, Value: value})
	}
	return decls, nil
}

// parseTypeSection parses `TYPE (id = type_spec ;)+`.
func (p *Parser) parseTypeSection() ([]ast.Node, error) {
	if _, err := p.expect(token.Kind("TYPE")); err != nil {
		return nil, err
	}
	var decls []ast.Node
	for p.check(token.IDENTIFIER) {
		nameTok, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EQ); err != nil {
			return nil, err
		}
		typeNode, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		decls = append(decls, &ast.TypeDecl{Name: nameTok.Lexeme, Type: typeNode})
	}
	return decls, nil
}

func (p *Parser) parseIDList() ([]token.Token, error) {
	first, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	names := []token.Token{first}
	for p.check(token.COMMA) {
		p.advance()
		id, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		names = append(names, id)
	}
	return names, nil
}

// parseTypeSpec parses a SimpleType, an array_type, or a user-defined
// type name (spec §4.6). Built-in scalar names are not reserved words,
// so they arrive as IDENTIFIER tokens; the type name is normalized to
// uppercase to match spec §4.7's SimpleType vocabulary.
func (p *Parser) parseTypeSpec() (ast.Node, error) {
	if p.check(token.Kind("ARRAY")) {
		return p.parseArrayType()
	}
	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	return &ast.SimpleType{Name: strings.ToUpper(nameTok.Lexeme)}, nil
}

// parseArrayType parses `ARRAY [ expr .. expr ] OF type_spec`, where the
// `..` is recognized as two consecutive DOT tokens (spec §4.6).
func (p *Parser) parseArrayType() (ast.Node, error) {
	if _, err := p.expect(token.Kind("ARRAY")); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACK); err != nil {
		return nil, err
	}
	low, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOT); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOT); err != nil {
		return nil, err
	}
	high, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACK); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Kind("OF")); err != nil {
		return nil, err
	}
	elem, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	return &ast.ArrayType{Low: low, High: high, Element: elem}, nil
}

func (p *Parser) parseFormalParams() ([]ast.Param, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Param
	for {
		names, err := p.parseIDList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		typeNode, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			params = append(params, ast.Param{Name: n.Lexeme, Type: typeNode})
		}
		if p.check(token.SEMI) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// parseProcedure parses `PROCEDURE id [ ( formal_params ) ] ; block ;`.
func (p *Parser) parseProcedure() (ast.Node, error) {
	if _, err := p.expect(token.Kind("PROCEDURE")); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	var params []ast.Param
	if p.check(token.LPAREN) {
		params, err = p.parseFormalParams()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.Procedure{Name: nameTok.Lexeme, Params: params, Block: block}, nil
}

// parseFunction parses `FUNCTION id [ ( formal_params ) ] : type_spec ; block ;`.
func (p *Parser) parseFunction() (ast.Node, error) {
	if _, err := p.expect(token.Kind("FUNCTION")); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	var params []ast.Param
	if p.check(token.LPAREN) {
		params, err = p.parseFormalParams()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	returnType, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.Function{Name: nameTok.Lexeme, Params: params, ReturnType: returnType, Block: block}, nil
}

func (p *Parser) parseCompound() (*ast.Compound, error) {
	if _, err := p.expect(token.Kind("BEGIN")); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Kind("END")); err != nil {
		return nil, err
	}
	return &ast.Compound{Statements: stmts}, nil
}

func (p *Parser) parseStatementList() ([]ast.Node, error) {
	first, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmts := []ast.Node{first}
	for p.check(token.SEMI) {
		p.advance()
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch {
	case p.check(token.Kind("BEGIN")):
		return p.parseCompound()
	case p.check(token.Kind("IF")):
		return p.parseIf()
	case p.check(token.Kind("WHILE")):
		return p.parseWhile()
	case p.check(token.Kind("FOR")):
		return p.parseFor()
	case p.check(token.Kind("CASE")):
		return p.parseCase()
	case p.check(token.IDENTIFIER):
		return p.parseAssignOrCall()
	default:
		return &ast.NoOp{}, nil
	}
}

func (p *Parser) parseIf() (ast.Node, error) {
	if _, err := p.expect(token.Kind("IF")); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Kind("THEN")); err != nil {
		return nil, err
	}
	thenStmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Node
	if p.check(token.Kind("ELSE")) {
		p.advance()
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, Then: thenStmt, Else: elseStmt}, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	if _, err := p.expect(token.Kind("WHILE")); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Kind("DO")); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Node, error) {
	if _, err := p.expect(token.Kind("FOR")); err != nil {
		return nil, err
	}
	varTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	downto := false
	switch {
	case p.check(token.Kind("TO")):
		p.advance()
	case p.check(token.Kind("DOWNTO")):
		p.advance()
		downto = true
	default:
		tok := p.peek()
		return nil, &SyntaxError{Line: tok.Line, Column: tok.Column,
			Message: fmt.Sprintf("expected TO or DOWNTO, found %s %q", tok.Kind, tok.Lexeme)}
	}
	end, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Kind("DO")); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.For{Var: varTok.Lexeme, Start: start, End: end, Downto: downto, Body: body, VarToken: varTok}, nil
}

func (p *Parser) parseCase() (ast.Node, error) {
	caseTok, err := p.expect(token.Kind("CASE"))
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Kind("OF")); err != nil {
		return nil, err
	}
	var branches []ast.CaseBranch
	for !p.check(token.Kind("ELSE")) && !p.check(token.Kind("END")) {
		label, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		branches = append(branches, ast.CaseBranch{Label: label, Body: body})
	}
	var elseStmt ast.Node
	if p.check(token.Kind("ELSE")) {
		p.advance()
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
		if p.check(token.SEMI) {
			p.advance()
		}
	}
	if _, err := p.expect(token.Kind("END")); err != nil {
		return nil, err
	}
	return &ast.Case{Expr: expr, Cases: branches, Else: elseStmt, CaseOn: caseTok}, nil
}

// parseAssignOrCall handles the three identifier-led statement forms:
// assignment (optionally to an indexed variable) and procedure calls,
// with or without a parenthesized argument list.
func (p *Parser) parseAssignOrCall() (ast.Node, error) {
	idTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	var left ast.Node = &ast.Var{Name: idTok.Lexeme, Tok: idTok}
	if p.check(token.LBRACK) {
		p.advance()
		idx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACK); err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: ast.OpIndex, Right: idx, Tok: idTok}
	}

	if p.check(token.ASSIGN) {
		assignTok := p.advance()
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Left: left, Right: right, Tok: assignTok}, nil
	}

	var args []ast.Node
	if p.check(token.LPAREN) {
		p.advance()
		if !p.check(token.RPAREN) {
			args, err = p.parseArgList()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	return &ast.ProcedureCall{Name: idTok.Lexeme, Args: args, Tok: idTok}, nil
}

func (p *Parser) parseArgList() ([]ast.Node, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	args := []ast.Node{first}
	for p.check(token.COMMA) {
		p.advance()
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

var relationalOps = map[token.Kind]ast.BinOpKind{
	token.EQ:  ast.OpEq,
	token.NEQ: ast.OpNeq,
	token.LT:  ast.OpLt,
	token.LTE: ast.OpLte,
	token.GT:  ast.OpGt,
	token.GTE: ast.OpGte,
}

var additiveOps = map[token.Kind]ast.BinOpKind{
	token.PLUS:       ast.OpPlus,
	token.MINUS:      ast.OpMinus,
	token.Kind("OR"): ast.OpOr,
}

var multiplicativeOps = map[token.Kind]ast.BinOpKind{
	token.MUL:         ast.OpMul,
	token.SLASH:       ast.OpSlash,
	token.Kind("DIV"): ast.OpDiv,
	token.Kind("MOD"): ast.OpMod,
	token.Kind("AND"): ast.OpAnd,
}

// parseExpr is the grammar entry point; precedence layers from lowest
// (relational) to highest (primary), per spec §4.6.
func (p *Parser) parseExpr() (ast.Node, error) {
	return p.parseRelational()
}

// parseRelational handles a single, non-chaining comparison: Pascal
// relational operators are non-associative (`a = b = c` is not legal).
func (p *Parser) parseRelational() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if op, ok := relationalOps[p.peek().Kind]; ok {
		opTok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Left: left, Op: op, Right: right, Tok: opTok}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := additiveOps[p.peek().Kind]
		if !ok {
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: op, Right: right, Tok: opTok}
	}
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := multiplicativeOps[p.peek().Kind]
		if !ok {
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: op, Right: right, Tok: opTok}
	}
}

func (p *Parser) parseUnary() (ast.Node, error) {
	switch p.peek().Kind {
	case token.PLUS:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryPlus, Operand: operand, Tok: tok}, nil
	case token.MINUS:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryMinus, Operand: operand, Tok: tok}, nil
	case token.Kind("NOT"):
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.UnaryNot, Operand: operand, Tok: tok}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.INTEGER:
		p.advance()
		return &ast.Num{Int: tok.Value.(int64), Tok: tok}, nil
	case token.REAL:
		p.advance()
		return &ast.Num{IsReal: true, Real: tok.Value.(float64), Tok: tok}, nil
	case token.STRING:
		p.advance()
		return &ast.String{Value: tok.Value.(string), Tok: tok}, nil
	case token.Kind("TRUE"), token.Kind("FALSE"):
		p.advance()
		return &ast.Boolean{Value: tok.Value.(bool), Tok: tok}, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.IDENTIFIER:
		p.advance()
		var node ast.Node = &ast.Var{Name: tok.Lexeme, Tok: tok}
		switch {
		case p.check(token.LBRACK):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			node = &ast.BinOp{Left: node, Op: ast.OpIndex, Right: idx, Tok: tok}
		case p.check(token.LPAREN):
			p.advance()
			var args []ast.Node
			if !p.check(token.RPAREN) {
				var err error
				args, err = p.parseArgList()
				if err != nil {
					return nil, err
				}
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			node = &ast.ProcedureCall{Name: tok.Lexeme, Args: args, Tok: tok}
		}
		return node, nil
	default:
		return nil, &SyntaxError{Line: tok.Line, Column: tok.Column,
			Message: fmt.Sprintf("unexpected token %s %q in expression", tok.Kind, tok.Lexeme)}
	}
}
