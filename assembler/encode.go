package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"isapascal/isa"
	"isapascal/segment"
)

// encodeOperand encodes a single operand of the given kind into a
// zero-padded bit-string of the declared width, following the literal
// forms spec §4.3 and §6 list for each operand kind.
func encodeOperand(kind isa.OperandKind, raw string, width int, descriptor *isa.Descriptor, table *segment.Table) (string, error) {
	switch kind {
	case isa.Register:
		return encodeRegister(raw, descriptor)
	case isa.Immediate:
		return encodeImmediate(raw, width)
	case isa.Memory:
		return encodeMemoryOrAddress(raw, width, table, true)
	case isa.Address:
		return encodeMemoryOrAddress(raw, width, table, false)
	case isa.Port, isa.Interrupt:
		return encodeNumeric(raw, width)
	default:
		return "", fmt.Errorf("unsupported operand type %q", kind)
	}
}

// encodeRegister expects a '%'-prefixed register name and returns its
// literal bit-string from the register table, used verbatim (its width
// is whatever the ISA descriptor declares it to be).
func encodeRegister(raw string, descriptor *isa.Descriptor) (string, error) {
	if !strings.HasPrefix(raw, "%") {
		return "", fmt.Errorf("register operand %q must start with '%%'", raw)
	}
	name := strings.TrimPrefix(raw, "%")
	bits, ok := descriptor.Register(name)
	if !ok {
		return "", fmt.Errorf("unknown register %q", name)
	}
	return bits, nil
}

// encodeImmediate accepts a character literal ('c'), a hex literal
// (0x...), or a decimal literal, zero-padded to width bits.
func encodeImmediate(raw string, width int) (string, error) {
	if len(raw) == 3 && raw[0] == '\'' && raw[2] == '\'' {
		return padBits(uint64(raw[1]), width)
	}
	return encodeNumeric(raw, width)
}

// encodeMemoryOrAddress resolves a label to its recorded address, or
// (for memory operands only) accepts a bare decimal literal. Undefined
// labels are always fatal.
func encodeMemoryOrAddress(raw string, width int, table *segment.Table, allowLiteral bool) (string, error) {
	if addr, ok := table.Lookup(raw); ok {
		return padBits(uint64(addr), width)
	}
	if allowLiteral {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return padBits(n, width)
		}
	}
	return "", fmt.Errorf("undefined label %q", raw)
}

// encodeNumeric accepts 0x-prefixed hex or plain decimal.
func encodeNumeric(raw string, width int) (string, error) {
	var (
		n   uint64
		err error
	)
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		n, err = strconv.ParseUint(raw[2:], 16, 64)
	} else {
		n, err = strconv.ParseUint(raw, 10, 64)
	}
	if err != nil {
		return "", fmt.Errorf("invalid numeric operand %q: %w", raw, err)
	}
	return padBits(n, width)
}

// padBits renders n as a binary string left-padded with zeros to width
// characters, mirroring the source's `format(n, '0{width}b')`.
func padBits(n uint64, width int) (string, error) {
	bits := strconv.FormatUint(n, 2)
	if len(bits) > width {
		return "", fmt.Errorf("value %d does not fit in %d bits", n, width)
	}
	return strings.Repeat("0", width-len(bits)) + bits, nil
}

// bitsToHex converts a '0'/'1' bit-string to lowercase hex, zero-padded
// to len(bits)/4 digits.
func bitsToHex(bits string) (string, error) {
	n, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		return "", fmt.Errorf("malformed bit-string %q: %w", bits, err)
	}
	digits := len(bits) / 4
	hex := strconv.FormatUint(n, 16)
	if len(hex) > digits {
		return "", fmt.Errorf("value overflows %d hex digits", digits)
	}
	return strings.Repeat("0", digits-len(hex)) + hex, nil
}
