// Package segment defines the address-space model shared by the
// assembler's two passes: labels, the four segment kinds, and the
// table holding the segment lists.
package segment

// Kind identifies one of the four segments an assembled program is laid
// out into.
type Kind int

const (
	Text Kind = iota
	Static
	Heap
	Stack
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Static:
		return "static"
	case Heap:
		return "heap"
	case Stack:
		return "stack"
	default:
		return "unknown"
	}
}

// Label is a closed sum type over the two shapes a label can take: a
// code label resolves to a bare address, a data label carries the
// literal it was declared with alongside its address. Keeping these as
// distinct variants (rather than a single map holding either an int or
// a tuple, as the source did) makes the ambiguity a compile-time
// concern instead of a runtime type assertion.
type Label interface {
	isLabel()
	Addr() uint32
}

// CodeLabel marks the address of a `name:` definition in the text
// segment.
type CodeLabel struct {
	Address uint32
}

func (CodeLabel) isLabel()       {}
func (l CodeLabel) Addr() uint32 { return l.Address }

// DataLabel marks the address and literal value of a db/dw/dd
// definition.
type DataLabel struct {
	Address uint32
	Literal string
}

func (DataLabel) isLabel()       {}
func (l DataLabel) Addr() uint32 { return l.Address }

// TextEntry is one encoded instruction: its 32-bit-wide bit-string and
// the address it was placed at.
type TextEntry struct {
	Bits    string
	Address uint32
}

// StaticEntry is one data-directive definition: its label, literal
// value, and address.
type StaticEntry struct {
	Label   string
	Literal string
	Address uint32
}

// Table holds the label table and the four segment lists built up
// across the assembler's two passes. A fresh Table is created per
// assembly run; nothing here is shared across runs.
type Table struct {
	Labels map[string]Label
	Text   []TextEntry
	Static []StaticEntry
	Heap   []StaticEntry
	Stack  []StaticEntry
}

// New returns an empty, ready-to-use Table.
func New() *Table {
	return &Table{
		Labels: make(map[string]Label),
	}
}

// Lookup resolves a label name to its address. It returns false if the
// label was never defined by the first pass.
func (t *Table) Lookup(name string) (uint32, bool) {
	l, ok := t.Labels[name]
	if !ok {
		return 0, false
	}
	return l.Addr(), true
}
