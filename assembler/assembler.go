// Package assembler implements the two-pass, ISA-driven encoding
// pipeline described in spec §4: Assemble runs the preprocessor and
// then the two passes; this package owns label collection, operand
// encoding, and output writing.
package assembler

import (
	"fmt"

	"isapascal/isa"
	"isapascal/preprocessor"
	"isapascal/segment"
)

// Result is the outcome of a full assembly run: the populated segment
// table plus any second-pass encoding errors. A non-empty Errors means
// the run failed overall even though Table may hold partial output.
type Result struct {
	Table  *segment.Table
	Errors []error
}

// Assemble runs the full pipeline — preprocess, first pass, second
// pass — over sourcePath using descriptor, and returns the resulting
// segment table and any accumulated errors.
func Assemble(sourcePath string, descriptor *isa.Descriptor) (*Result, error) {
	pp := preprocessor.New()
	lines, err := pp.Run(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("preprocessing: %w", err)
	}

	table := FirstPass(lines, descriptor)
	errs := SecondPass(lines, descriptor, table)

	return &Result{Table: table, Errors: errs}, nil
}
