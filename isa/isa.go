// Package isa loads and validates the JSON instruction-set descriptor
// that drives the assembler's encoding passes. The wire format mirrors
// spec §6 exactly: a register table plus an ordered instruction list,
// each instruction carrying its operand shape and field widths.
package isa

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// OperandKind is one of the six operand shapes the encoder understands.
type OperandKind string

const (
	Register  OperandKind = "register"
	Immediate OperandKind = "immediate"
	Memory    OperandKind = "memory"
	Address   OperandKind = "address"
	Port      OperandKind = "port"
	Interrupt OperandKind = "interrupt"
)

// Instruction describes one mnemonic's encoding: its opcode bit-string,
// the ordered operand kinds it accepts, and the per-field bit widths
// used to pack each operand into the final 32-bit word.
type Instruction struct {
	Mnemonic     string            `json:"mnemonic"`
	Opcode       string            `json:"opcode"`
	OperandCount int               `json:"operand_count"`
	OperandTypes []OperandKind     `json:"operand_types"`
	FieldSizes   map[string]int    `json:"field_sizes"`
	Bitwise      BitwiseDescriptor `json:"bitwise_description"`
}

// BitwiseDescriptor carries the authoritative opcode bit-string; per
// spec §3 this, not Instruction.Opcode, is what the encoder consumes.
type BitwiseDescriptor struct {
	Opcode string `json:"opcode"`
}

// Descriptor is the root of the ISA JSON document.
type Descriptor struct {
	Registers    map[string]string `json:"registers"`
	Instructions []Instruction     `json:"instructions"`

	byMnemonic map[string]Instruction
}

// Load reads and parses an ISA descriptor from path, indexing its
// instructions by upper-cased mnemonic for case-insensitive lookup
// (spec §9, "mnemonic comparison is case-insensitive").
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ISA descriptor %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes an ISA descriptor from an in-memory JSON document,
// performing the same width validation and mnemonic indexing Load does.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing ISA descriptor: %w", err)
	}
	if err := d.index(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Descriptor) index() error {
	d.byMnemonic = make(map[string]Instruction, len(d.Instructions))
	for _, instr := range d.Instructions {
		width := len(instr.Bitwise.Opcode)
		for i := 1; i <= instr.OperandCount; i++ {
			width += instr.FieldSizes[fmt.Sprintf("r%d", i)]
		}
		// A zero-operand instruction's opcode is left-padded to 32 bits by
		// the encoder; an instruction with operands must fill exactly 32.
		if width > 32 || (instr.OperandCount > 0 && width != 32) {
			return fmt.Errorf("instruction %q: encoded width %d bits, want 32 (opcode %d + %d operand bits)",
				instr.Mnemonic, width, len(instr.Bitwise.Opcode), width-len(instr.Bitwise.Opcode))
		}
		d.byMnemonic[strings.ToUpper(instr.Mnemonic)] = instr
	}
	return nil
}

// Lookup resolves a mnemonic (case-insensitively) to its descriptor.
func (d *Descriptor) Lookup(mnemonic string) (Instruction, bool) {
	instr, ok := d.byMnemonic[strings.ToUpper(mnemonic)]
	return instr, ok
}

// Register resolves a register name (case-sensitively, per spec §9) to
// its encoded bit-string literal.
func (d *Descriptor) Register(name string) (string, bool) {
	bits, ok := d.Registers[name]
	return bits, ok
}
