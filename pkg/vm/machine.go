package vm

import (
	"fmt"
	"io"
	"slices"

	"intcode/pkg/ram"
	"intcode/pkg/source"
	"intcode/pkg/types"
)

// Machine is the complete execution state of one program instance. It owns
// its RAM and queues exclusively; use Clone to fork an independent copy.
type Machine struct {
	RAM          *ram.RAM
	pc           types.Address
	relativeBase types.RelativeBase
	inputs       []types.ProgramElement
	outputs      []types.ProgramElement
	terminated   bool
	state        State
	fault        error // first fatal fault; the machine refuses to step afterwards
}

// NewMachine loads words at address 0. The caller's slice is not retained.
func NewMachine(words []types.ProgramElement) *Machine {
	return newMachineWithRAM(ram.NewRAM(words))
}

func newMachineWithRAM(r *ram.RAM) *Machine {
	return &Machine{
		RAM:   r,
		state: Running,
	}
}

// Load parses a comma-separated program from r.
func Load(r io.Reader) (*Machine, error) {
	words, err := source.Parse(r)
	if err != nil {
		return nil, err
	}
	return NewMachine(words), nil
}

// LoadFile parses the comma-separated program stored at path.
func LoadFile(path string) (*Machine, error) {
	words, err := source.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewMachine(words), nil
}

// Clone returns a deep copy sharing no memory or queue storage with m.
func (m *Machine) Clone() *Machine {
	return &Machine{
		RAM:          m.RAM.Clone(),
		pc:           m.pc,
		relativeBase: m.relativeBase,
		inputs:       slices.Clone(m.inputs),
		outputs:      slices.Clone(m.outputs),
		terminated:   m.terminated,
		state:        m.state,
		fault:        m.fault,
	}
}

//
// Input queue
//

// PushInput appends values to the back of the input queue.
func (m *Machine) PushInput(values ...types.ProgramElement) {
	m.inputs = append(m.inputs, values...)
}

func (m *Machine) PendingInputs() int {
	return len(m.inputs)
}

//
// Output queue
//

// PopOutput removes and returns the oldest output.
func (m *Machine) PopOutput() (types.ProgramElement, bool) {
	if len(m.outputs) == 0 {
		return 0, false
	}
	value := m.outputs[0]
	m.outputs = m.outputs[1:]
	return value, true
}

// PeekOutput returns the oldest output without removing it.
func (m *Machine) PeekOutput() (types.ProgramElement, bool) {
	if len(m.outputs) == 0 {
		return 0, false
	}
	return m.outputs[0], true
}

// LastOutput returns the newest output without removing it.
func (m *Machine) LastOutput() (types.ProgramElement, bool) {
	if len(m.outputs) == 0 {
		return 0, false
	}
	return m.outputs[len(m.outputs)-1], true
}

// Outputs returns a copy of the pending outputs, oldest first.
func (m *Machine) Outputs() []types.ProgramElement {
	return slices.Clone(m.outputs)
}

// DrainOutputs removes and returns every pending output.
func (m *Machine) DrainOutputs() []types.ProgramElement {
	drained := m.outputs
	m.outputs = nil
	return drained
}

//
// Registers and memory
//

func (m *Machine) Terminated() bool {
	return m.terminated
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) ProgramCounter() types.Address {
	return m.pc
}

func (m *Machine) RelativeBase() types.RelativeBase {
	return m.relativeBase
}

// Fault returns the fatal fault that stopped the machine, if any.
func (m *Machine) Fault() error {
	return m.fault
}

func (m *Machine) ReadMemory(addr types.Address) types.ProgramElement {
	return m.RAM.Inspect(addr)
}

// WriteMemory overwrites a cell, typically to patch configuration words
// before a run.
func (m *Machine) WriteMemory(addr types.Address, value types.ProgramElement) {
	m.RAM.Mutate(addr, value)
}

// MemorySnapshot returns memory from address 0 through the highest written address.
func (m *Machine) MemorySnapshot() []types.ProgramElement {
	return m.RAM.Snapshot()
}

func (m *Machine) String() string {
	return fmt.Sprintf("pc=%d rb=%d state=%s inputs=%d outputs=%d", m.pc, m.relativeBase, m.state, len(m.inputs), len(m.outputs))
}
