package assembler

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"isapascal/segment"
)

// WriteOutput renders the text and static segments to path in the
// `AAAAAAAA: DDDDDDDD` hex form spec §4.4 and §6 describe. uppercase
// selects uppercase hex digits; spec §6 requires consistency within a
// single run, not a fixed case across runs.
func WriteOutput(path string, table *segment.Table, uppercase bool) error {
	var sb strings.Builder

	for _, entry := range table.Text {
		hex, err := bitsToHex(entry.Bits)
		if err != nil {
			return fmt.Errorf("writing text segment: %w", err)
		}
		fmt.Fprintf(&sb, "%s: %s\n", applyCase(fmt.Sprintf("%08x", entry.Address), uppercase), applyCase(hex, uppercase))
	}

	for _, entry := range table.Static {
		value, err := staticLiteralHex(entry.Literal)
		if err != nil {
			return fmt.Errorf("writing static segment entry %q: %w", entry.Label, err)
		}
		fmt.Fprintf(&sb, "%s: %s\n", applyCase(fmt.Sprintf("%08x", entry.Address), uppercase), applyCase(value, uppercase))
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing output %q: %w", path, err)
	}
	return nil
}

func applyCase(hex string, uppercase bool) string {
	if uppercase {
		return strings.ToUpper(hex)
	}
	return hex
}

// staticLiteralHex renders a static-segment literal (decimal or
// 0x-prefixed hex, per the assembly source grammar in spec §6) as an
// 8-digit lowercase hex word.
func staticLiteralHex(literal string) (string, error) {
	var (
		n   uint64
		err error
	)
	switch {
	case strings.HasPrefix(literal, "0x"), strings.HasPrefix(literal, "0X"):
		n, err = strconv.ParseUint(literal[2:], 16, 64)
	default:
		n, err = strconv.ParseUint(literal, 10, 64)
	}
	if err != nil {
		return "", fmt.Errorf("invalid static literal %q: %w", literal, err)
	}
	return fmt.Sprintf("%08x", n), nil
}
