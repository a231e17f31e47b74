package parser

import "fmt"

// SyntaxError reports a parse failure at a precise source position,
// matching the teacher's parser/error.go shape minus its emoji prefix.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}
