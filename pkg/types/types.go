package types

import "fmt"

// ProgramElement is the word type shared by memory cells, registers and I/O queues.
type ProgramElement int64

// Address indexes a memory cell.
type Address uint64

func NewAddress(value ProgramElement) (Address, error) {
	if value < 0 {
		return 0, fmt.Errorf("invalid address value %d: must be non-negative", value)
	}
	return Address(value), nil
}

type ProgramCounter = Address

// RelativeBase is signed; only the effective address it produces must be non-negative.
type RelativeBase int64

func (rb RelativeBase) Offset(operand ProgramElement) ProgramElement {
	return ProgramElement(rb) + operand
}
