package assembler

import "fmt"

// EncodeError reports a single line's encoding failure: the offending
// mnemonic and operand, plus the raw source line for context. Spec §4.3
// asks the second pass to accumulate as many of these as possible
// rather than stopping at the first.
type EncodeError struct {
	Line    string
	Message string
}

func (e EncodeError) Error() string {
	return fmt.Sprintf("%s: %q", e.Message, e.Line)
}
