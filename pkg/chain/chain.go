// Package chain wires several machines into a ring in which each machine's
// outputs become the next machine's inputs.
package chain

import (
	stderrors "errors"
	"fmt"

	"intcode/pkg/types"
	"intcode/pkg/vm"
)

var (
	ErrDeadlock = stderrors.New("every machine is waiting for input")
	ErrNoOutput = stderrors.New("last machine produced no output")
	ErrNoPhases = stderrors.New("chain needs at least one phase")
)

// Chain is a ring of machines started from one image, each primed with its
// phase setting as first input.
type Chain struct {
	machines []*vm.Machine
}

func New(img *vm.Image, phases []types.ProgramElement) (*Chain, error) {
	if len(phases) == 0 {
		return nil, ErrNoPhases
	}
	c := &Chain{machines: make([]*vm.Machine, len(phases))}
	for i, phase := range phases {
		c.machines[i] = img.NewMachine()
		c.machines[i].PushInput(phase)
	}
	return c, nil
}

func (c *Chain) Len() int {
	return len(c.machines)
}

// Machine returns the i-th machine of the ring.
func (c *Chain) Machine(i int) *vm.Machine {
	return c.machines[i]
}

// Run feeds signal to the first machine and round-robins the ring until the
// last machine halts, forwarding each machine's outputs to its successor.
// It returns the last value the final machine emitted.
func (c *Chain) Run(signal types.ProgramElement) (types.ProgramElement, error) {
	n := len(c.machines)
	last := c.machines[n-1]
	pending := []types.ProgramElement{signal}

	var result types.ProgramElement
	produced := false
	idle := 0
	for idx := 0; !last.Terminated(); idx = (idx + 1) % n {
		m := c.machines[idx]
		m.PushInput(pending...)
		if _, err := m.RunToNextInput(); err != nil {
			return 0, fmt.Errorf("machine %d: %w", idx, err)
		}

		pending = m.DrainOutputs()
		if len(pending) == 0 {
			idle++
			if idle >= n {
				return 0, ErrDeadlock
			}
			continue
		}
		idle = 0
		if idx == n-1 {
			result = pending[len(pending)-1]
			produced = true
		}
	}

	if !produced {
		return 0, ErrNoOutput
	}
	return result, nil
}

// Series runs each machine once, in order, to completion, passing every
// output of one machine as input to the next.
func (c *Chain) Series(signal types.ProgramElement) (types.ProgramElement, error) {
	pending := []types.ProgramElement{signal}
	for idx, m := range c.machines {
		m.PushInput(pending...)
		if err := m.RunToCompletion(); err != nil {
			return 0, fmt.Errorf("machine %d: %w", idx, err)
		}
		pending = m.DrainOutputs()
	}
	if len(pending) == 0 {
		return 0, ErrNoOutput
	}
	return pending[len(pending)-1], nil
}
