package semantic

import "fmt"

// Error reports the first semantic failure encountered, with the
// source position of the offending token when one is available (spec
// §4.7 "Failure semantics").
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	if e.Line == 0 && e.Column == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (at %d:%d)", e.Message, e.Line, e.Column)
}
