package vm

import (
	"fmt"

	"intcode/pkg/errors"
	"intcode/pkg/ram"
	"intcode/pkg/types"
)

type Opcode int

const (
	OpAdd                Opcode = 1
	OpMultiply           Opcode = 2
	OpReadInput          Opcode = 3
	OpWriteOutput        Opcode = 4
	OpJumpIfTrue         Opcode = 5
	OpJumpIfFalse        Opcode = 6
	OpLessThan           Opcode = 7
	OpEquals             Opcode = 8
	OpAdjustRelativeBase Opcode = 9
	OpTerminate          Opcode = 99
)

func (op Opcode) String() string {
	if info := lookup(op); info != nil {
		return info.Name
	}
	return fmt.Sprintf("opcode(%d)", int(op))
}

type Mode int

const (
	ModePosition Mode = iota
	ModeImmediate
	ModeRelative
)

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeImmediate:
		return "immediate"
	case ModeRelative:
		return "relative"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

const maxParams = 3

type Parameter struct {
	Mode    Mode
	Operand types.ProgramElement
}

// Instruction is decoded fresh for every step and never stored in memory.
type Instruction struct {
	PC        types.Address
	Opcode    Opcode
	NumParams int
	Params    [maxParams]Parameter
}

// Length is the number of words the instruction occupies, opcode included.
func (inst *Instruction) Length() types.Address {
	return types.Address(inst.NumParams + 1)
}

func (inst *Instruction) String() string {
	s := fmt.Sprintf("%d: %s", inst.PC, inst.Opcode)
	for i := 0; i < inst.NumParams; i++ {
		p := inst.Params[i]
		switch p.Mode {
		case ModeImmediate:
			s += fmt.Sprintf(" %d", p.Operand)
		case ModeRelative:
			s += fmt.Sprintf(" rb[%d]", p.Operand)
		default:
			s += fmt.Sprintf(" [%d]", p.Operand)
		}
	}
	return s
}

// decode reads the instruction word at pc plus its operands. The low two
// decimal digits select the opcode; each higher digit, least significant
// first, is the mode of the next parameter.
func decode(memory *ram.RAM, pc types.Address) (Instruction, error) {
	word := memory.Inspect(pc)
	opcode := Opcode(word % 100)
	info := lookup(opcode)
	if info == nil {
		return Instruction{}, errors.Faultf(errors.ErrUnrecognizedOpcode, "pc=%d word=%d", pc, word)
	}

	inst := Instruction{
		PC:        pc,
		Opcode:    opcode,
		NumParams: info.Params,
	}
	modes := word / 100
	for i := 0; i < info.Params; i++ {
		mode := Mode(modes % 10)
		modes /= 10
		if mode > ModeRelative {
			return Instruction{}, errors.Faultf(errors.ErrUnrecognizedMode, "pc=%d word=%d parameter %d has mode digit %d", pc, word, i+1, int(mode))
		}
		inst.Params[i] = Parameter{
			Mode:    mode,
			Operand: memory.Inspect(pc + types.Address(i+1)),
		}
	}
	return inst, nil
}
