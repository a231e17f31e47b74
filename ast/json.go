package ast

import (
	"encoding/json"
	"fmt"
	"strings"

	"isapascal/token"
)

// ToJSON recursively renders a Node into the wire format of spec §6:
// `{"type": "<NodeName>", <field>: <recursively serialized>}`. This
// replaces the teacher's astPrinter, which built the same shape of map
// by dispatching through ExpressionVisitor/StmtVisitor; here a single
// type switch suffices because Node is a closed sum type.
func ToJSON(n Node) map[string]any {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *Program:
		return obj("Program", "name", v.Name, "block", ToJSON(v.Block))
	case *Block:
		return obj("Block", "declarations", nodeList(v.Declarations), "compound", ToJSON(v.Compound))
	case *VarDecl:
		return obj("VarDecl", "name", v.Name, "var_type", ToJSON(v.Type))
	case *ConstDecl:
		return obj("ConstDecl", "name", v.Name, "value", ToJSON(v.Value))
	case *TypeDecl:
		return obj("TypeDecl", "name", v.Name, "type", ToJSON(v.Type))
	case *SimpleType:
		return obj("SimpleType", "name", v.Name)
	case *ArrayType:
		return obj("ArrayType", "low", ToJSON(v.Low), "high", ToJSON(v.High), "element", ToJSON(v.Element))
	case *Procedure:
		return obj("Procedure", "name", v.Name, "params", paramList(v.Params), "block", ToJSON(v.Block))
	case *Function:
		return obj("Function", "name", v.Name, "params", paramList(v.Params),
			"return_type", ToJSON(v.ReturnType), "block", ToJSON(v.Block))
	case *Compound:
		return obj("Compound", "statements", nodeList(v.Statements))
	case *Assign:
		return obj("Assign", "left", ToJSON(v.Left), "right", ToJSON(v.Right), "token", tokenJSON(v.Tok))
	case *If:
		return obj("If", "cond", ToJSON(v.Cond), "then", ToJSON(v.Then), "else", ToJSON(v.Else))
	case *While:
		return obj("While", "cond", ToJSON(v.Cond), "body", ToJSON(v.Body))
	case *For:
		return obj("For", "var", v.Var, "start", ToJSON(v.Start), "end", ToJSON(v.End),
			"downto", v.Downto, "body", ToJSON(v.Body))
	case *Case:
		branches := make([]any, len(v.Cases))
		for i, c := range v.Cases {
			branches[i] = map[string]any{"label": ToJSON(c.Label), "body": ToJSON(c.Body)}
		}
		return obj("Case", "expr", ToJSON(v.Expr), "cases", branches, "else", ToJSON(v.Else))
	case *ProcedureCall:
		return obj("ProcedureCall", "name", v.Name, "args", nodeList(v.Args), "token", tokenJSON(v.Tok))
	case *NoOp:
		return obj("NoOp")
	case *BinOp:
		return obj("BinOp", "left", ToJSON(v.Left), "op", string(v.Op), "right", ToJSON(v.Right))
	case *UnaryOp:
		return obj("UnaryOp", "op", string(v.Op), "operand", ToJSON(v.Operand))
	case *Var:
		return obj("Var", "name", v.Name, "token", tokenJSON(v.Tok))
	case *Num:
		if v.IsReal {
			return obj("Num", "is_real", true, "value", v.Real)
		}
		return obj("Num", "is_real", false, "value", v.Int)
	case *String:
		return obj("String", "value", v.Value)
	case *Boolean:
		return obj("Boolean", "value", v.Value)
	default:
		panic(fmt.Sprintf("ast.ToJSON: unhandled node type %T", v))
	}
}

func obj(nodeType string, kv ...any) map[string]any {
	m := map[string]any{"type": nodeType}
	for i := 0; i+1 < len(kv); i += 2 {
		key := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

func nodeList(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = ToJSON(n)
	}
	return out
}

func paramList(params []Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = map[string]any{"name": p.Name, "type": ToJSON(p.Type)}
	}
	return out
}

func tokenJSON(t token.Token) map[string]any {
	return map[string]any{"type": string(t.Kind), "value": t.Value}
}

// MarshalIndentJSON renders a Node as indented JSON text using a
// two-space indent, matching the teacher's PrintASTJSON convention
// (encoding/json.MarshalIndent over a built map rather than a custom
// encoder).
func MarshalIndentJSON(n Node) ([]byte, error) {
	return MarshalIndentJSONWidth(n, 2)
}

// MarshalIndentJSONWidth is MarshalIndentJSON with a caller-chosen
// indent width, for CLIs that expose it as a formatting preference
// (spec §6 leaves AST JSON indentation as an open formatting choice).
func MarshalIndentJSONWidth(n Node, width int) ([]byte, error) {
	if width < 0 {
		width = 0
	}
	return json.MarshalIndent(ToJSON(n), "", strings.Repeat(" ", width))
}
