// Package semantic implements the Pascal semantic analyzer of spec
// §4.7: a single AST walk that maintains a stack of scoped symbol
// tables and aborts on the first type or name error.
package semantic

import "fmt"

// Type is the semantic analyzer's own type representation, distinct
// from the ast package's syntax nodes for type specs.
type Type interface {
	typeNode()
	String() string
}

// SimpleType is a scalar type drawn from the builtin vocabulary or a
// user-defined TYPE alias that ultimately resolves to one.
type SimpleType struct {
	Name string // INTEGER, REAL, STRING, or BOOLEAN; user type names resolve to their underlying Type
}

func (SimpleType) typeNode()      {}
func (t SimpleType) String() string { return t.Name }

// ArrayType is structurally typed: two arrays are compatible only when
// their bounds match exactly and their element types are compatible
// (spec §4.7 "Type compatibility").
type ArrayType struct {
	Low, High int64
	Element   Type
}

func (ArrayType) typeNode() {}
func (t ArrayType) String() string {
	return fmt.Sprintf("ARRAY[%d..%d] OF %s", t.Low, t.High, t.Element)
}

const (
	Integer = "INTEGER"
	Real    = "REAL"
	Str     = "STRING"
	Bool    = "BOOLEAN"
)

func isNumeric(t Type) bool {
	s, ok := t.(SimpleType)
	return ok && (s.Name == Integer || s.Name == Real)
}

func isBoolean(t Type) bool {
	s, ok := t.(SimpleType)
	return ok && s.Name == Bool
}

// compatible implements spec §4.7's compatibility rule: reflexive on
// SimpleType values, structural on ArrayType, with INTEGER and REAL
// accepted interchangeably in either direction.
func compatible(a, b Type) bool {
	as, aok := a.(SimpleType)
	bs, bok := b.(SimpleType)
	if aok && bok {
		if as.Name == bs.Name {
			return true
		}
		return isNumeric(as) && isNumeric(bs)
	}
	aa, aok := a.(ArrayType)
	ba, bok := b.(ArrayType)
	if aok && bok {
		return aa.Low == ba.Low && aa.High == ba.High && compatible(aa.Element, ba.Element)
	}
	return false
}

// arithmeticResult implements spec §4.7's widening rule: REAL if either
// operand is REAL, otherwise INTEGER.
func arithmeticResult(a, b Type) Type {
	as, _ := a.(SimpleType)
	bs, _ := b.(SimpleType)
	if as.Name == Real || bs.Name == Real {
		return SimpleType{Name: Real}
	}
	return SimpleType{Name: Integer}
}
