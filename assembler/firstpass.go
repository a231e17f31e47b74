package assembler

import (
	"strconv"
	"strings"

	"isapascal/isa"
	"isapascal/segment"
)

// dataDirectiveWidths gives the byte width each data directive advances
// the address cursor by. The source always used 4 for every directive;
// spec §9's "Data directive widths" note calls that a defect and asks
// for the natural 1/2/4 widths instead, which is what this table
// encodes.
var dataDirectiveWidths = map[string]uint32{
	"db": 1,
	"dw": 2,
	"dd": 4,
}

// FirstPass walks preprocessed lines once, recording every label's
// address. An instruction line advances the address cursor by
// fieldWidthBits/8 bytes and a data directive by its 1/2/4-byte width;
// SecondPass places each encoded instruction 4 bytes after the previous
// one and does not advance for data directives, so a label that follows
// an instruction or a data directive can hold a different address than
// the next instruction SecondPass emits. Unknown mnemonics are silently
// skipped here — spec §4.2 leaves reporting them to the second pass.
func FirstPass(lines []string, descriptor *isa.Descriptor) *segment.Table {
	table := segment.New()
	var addr uint32

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		first := fields[0]

		switch {
		case strings.HasSuffix(first, ":"):
			name := strings.TrimSuffix(first, ":")
			table.Labels[name] = segment.CodeLabel{Address: addr}
			continue

		case first == ".org":
			if len(fields) >= 2 {
				if v, err := strconv.ParseUint(fields[1], 16, 32); err == nil {
					addr = uint32(v)
				}
			}
			continue

		case isDataDirective(first):
			if len(fields) >= 2 {
				value := fields[1]
				table.Labels[first] = segment.DataLabel{Address: addr, Literal: value}
				table.Static = append(table.Static, segment.StaticEntry{
					Label:   first,
					Literal: value,
					Address: addr,
				})
			}
			addr += dataDirectiveWidths[first]
			continue
		}

		if instr, ok := descriptor.Lookup(first); ok {
			addr += fieldWidthBits(instr) / 8
		}
	}

	return table
}

func isDataDirective(tok string) bool {
	_, ok := dataDirectiveWidths[tok]
	return ok
}

// fieldWidthBits sums the declared operand field widths for an
// instruction — the portion of the 32-bit word that isn't the opcode.
func fieldWidthBits(instr isa.Instruction) uint32 {
	var total uint32
	for i := 1; i <= instr.OperandCount; i++ {
		total += uint32(instr.FieldSizes[field(i)])
	}
	return total
}

func field(n int) string {
	return "r" + strconv.Itoa(n)
}
