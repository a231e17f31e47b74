package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"isapascal/isa"
	"isapascal/segment"
)

// SecondPass encodes every instruction line into a 32-bit text-segment
// word, resolving label references against the table the first pass
// built. Errors are accumulated per line (spec §4.3/§7) so the caller
// gets the maximum diagnostic yield; the run is failed overall if the
// returned error slice is non-empty, even though table.Text may still
// hold successfully encoded entries for the lines that didn't fail.
func SecondPass(lines []string, descriptor *isa.Descriptor, table *segment.Table) []error {
	var errs []error
	var addr uint32

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if strings.HasSuffix(fields[0], ":") {
			continue
		}
		if fields[0] == ".org" {
			if len(fields) >= 2 {
				if v, err := strconv.ParseUint(fields[1], 16, 32); err == nil {
					addr = uint32(v)
				}
			}
			continue
		}
		if isDataDirective(fields[0]) {
			continue
		}

		entry, err := encodeLine(line, fields, descriptor, table, addr)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entry.Address = addr
		table.Text = append(table.Text, entry)
		addr += 4
	}

	return errs
}

// encodeLine encodes a single instruction line into a 32-bit
// TextEntry, per spec §4.3 steps 1-4.
func encodeLine(line string, fields []string, descriptor *isa.Descriptor, table *segment.Table, addr uint32) (segment.TextEntry, error) {
	mnemonic := fields[0]
	instr, ok := descriptor.Lookup(mnemonic)
	if !ok {
		return segment.TextEntry{}, EncodeError{Line: line, Message: fmt.Sprintf("unknown mnemonic %q", mnemonic)}
	}

	operands := stripTrailingCommas(fields[1:])
	if len(operands) != instr.OperandCount {
		return segment.TextEntry{}, EncodeError{
			Line:    line,
			Message: fmt.Sprintf("%s: wrong arity, want %d operand(s), got %d", mnemonic, instr.OperandCount, len(operands)),
		}
	}

	var bits strings.Builder
	bits.WriteString(instr.Bitwise.Opcode)

	for i, raw := range operands {
		kind := instr.OperandTypes[i]
		width := instr.FieldSizes[field(i+1)]
		encoded, err := encodeOperand(kind, raw, width, descriptor, table)
		if err != nil {
			return segment.TextEntry{}, EncodeError{
				Line:    line,
				Message: fmt.Sprintf("%s operand %d (%s): %v", mnemonic, i+1, kind, err),
			}
		}
		bits.WriteString(encoded)
	}

	word := bits.String()
	if len(word) > 32 {
		return segment.TextEntry{}, EncodeError{
			Line:    line,
			Message: fmt.Sprintf("%s: encoded width %d exceeds 32 bits", mnemonic, len(word)),
		}
	}
	word = strings.Repeat("0", 32-len(word)) + word

	return segment.TextEntry{Bits: word}, nil
}

func stripTrailingCommas(operands []string) []string {
	out := make([]string, len(operands))
	for i, op := range operands {
		out[i] = strings.TrimSuffix(op, ",")
	}
	return out
}
