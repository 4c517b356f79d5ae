package vm

import (
	"fmt"

	"intcode/pkg/errors"
	"intcode/pkg/types"
)

// Arithmetic wraps on int64 overflow.

func handleArithmetic(m *Machine, inst *Instruction) (ExitReason, error) {
	a, err := m.read(inst, 0)
	if err != nil {
		return ExitGo, err
	}
	b, err := m.read(inst, 1)
	if err != nil {
		return ExitGo, err
	}

	var result types.ProgramElement
	switch inst.Opcode {
	case OpAdd:
		result = a + b
	case OpMultiply:
		result = a * b
	default:
		panic(fmt.Sprintf("handleArithmetic: unexpected opcode %d", inst.Opcode))
	}
	if err := m.write(inst, 2, result); err != nil {
		return ExitGo, err
	}
	m.pc += inst.Length()
	return ExitGo, nil
}

func handleCompare(m *Machine, inst *Instruction) (ExitReason, error) {
	a, err := m.read(inst, 0)
	if err != nil {
		return ExitGo, err
	}
	b, err := m.read(inst, 1)
	if err != nil {
		return ExitGo, err
	}

	var cond bool
	switch inst.Opcode {
	case OpLessThan:
		cond = a < b
	case OpEquals:
		cond = a == b
	default:
		panic(fmt.Sprintf("handleCompare: unexpected opcode %d", inst.Opcode))
	}
	if err := m.write(inst, 2, boolToElement(cond)); err != nil {
		return ExitGo, err
	}
	m.pc += inst.Length()
	return ExitGo, nil
}

// handleReadInput leaves pc untouched when the queue is empty so that the
// same instruction is retried on resume.
func handleReadInput(m *Machine, inst *Instruction) (ExitReason, error) {
	addr, err := m.target(inst, 0)
	if err != nil {
		return ExitGo, err
	}
	if len(m.inputs) == 0 {
		m.state = AwaitingInput
		return ExitAwaitingInput, nil
	}
	value := m.inputs[0]
	m.inputs = m.inputs[1:]
	m.RAM.Mutate(addr, value)
	m.pc += inst.Length()
	return ExitGo, nil
}

func handleWriteOutput(m *Machine, inst *Instruction) (ExitReason, error) {
	value, err := m.read(inst, 0)
	if err != nil {
		return ExitGo, err
	}
	m.outputs = append(m.outputs, value)
	m.pc += inst.Length()
	return ExitGo, nil
}

func handleJump(m *Machine, inst *Instruction) (ExitReason, error) {
	test, err := m.read(inst, 0)
	if err != nil {
		return ExitGo, err
	}

	var cond bool
	switch inst.Opcode {
	case OpJumpIfTrue:
		cond = test != 0
	case OpJumpIfFalse:
		cond = test == 0
	default:
		panic(fmt.Sprintf("handleJump: unexpected opcode %d", inst.Opcode))
	}
	if !cond {
		m.pc += inst.Length()
		return ExitGo, nil
	}

	value, err := m.read(inst, 1)
	if err != nil {
		return ExitGo, err
	}
	target, err := types.NewAddress(value)
	if err != nil {
		return ExitGo, errors.Faultf(errors.ErrNegativeAddress, "pc=%d jump target %d", inst.PC, value)
	}
	m.pc = target
	return ExitGo, nil
}

func handleAdjustRelativeBase(m *Machine, inst *Instruction) (ExitReason, error) {
	delta, err := m.read(inst, 0)
	if err != nil {
		return ExitGo, err
	}
	m.relativeBase += types.RelativeBase(delta)
	m.pc += inst.Length()
	return ExitGo, nil
}

func handleTerminate(m *Machine, inst *Instruction) (ExitReason, error) {
	m.terminated = true
	m.state = Terminated
	return ExitHalt, nil
}

//
// Parameter resolution
//

// read resolves parameter i of inst to the value it denotes.
func (m *Machine) read(inst *Instruction, i int) (types.ProgramElement, error) {
	p := inst.Params[i]
	switch p.Mode {
	case ModeImmediate:
		return p.Operand, nil
	case ModePosition, ModeRelative:
		addr, err := m.address(inst, i)
		if err != nil {
			return 0, err
		}
		return m.RAM.Inspect(addr), nil
	default:
		return 0, errors.Faultf(errors.ErrUnrecognizedMode, "pc=%d parameter %d", inst.PC, i+1)
	}
}

// target resolves parameter i of inst to the address it writes.
func (m *Machine) target(inst *Instruction, i int) (types.Address, error) {
	if inst.Params[i].Mode == ModeImmediate {
		return 0, errors.Faultf(errors.ErrImmediateWrite, "pc=%d %s parameter %d", inst.PC, inst.Opcode, i+1)
	}
	return m.address(inst, i)
}

func (m *Machine) write(inst *Instruction, i int, value types.ProgramElement) error {
	addr, err := m.target(inst, i)
	if err != nil {
		return err
	}
	m.RAM.Mutate(addr, value)
	return nil
}

func (m *Machine) address(inst *Instruction, i int) (types.Address, error) {
	p := inst.Params[i]
	effective := p.Operand
	if p.Mode == ModeRelative {
		effective = m.relativeBase.Offset(p.Operand)
	}
	addr, err := types.NewAddress(effective)
	if err != nil {
		return 0, errors.Faultf(errors.ErrNegativeAddress, "pc=%d %s parameter %d resolves to %d", inst.PC, p.Mode, i+1, effective)
	}
	return addr, nil
}

func boolToElement(b bool) types.ProgramElement {
	if b {
		return 1
	}
	return 0
}
