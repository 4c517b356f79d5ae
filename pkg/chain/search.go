package chain

import (
	"slices"

	"intcode/pkg/types"
	"intcode/pkg/vm"
)

// MaxSignal tries every ordering of phases and returns the largest final
// signal with the ordering that produced it. With feedback the ring is
// round-robined until the last machine halts; otherwise each machine runs once.
func MaxSignal(img *vm.Image, phases []types.ProgramElement, feedback bool) (types.ProgramElement, []types.ProgramElement, error) {
	if len(phases) == 0 {
		return 0, nil, ErrNoPhases
	}

	var (
		best      types.ProgramElement
		bestOrder []types.ProgramElement
	)
	err := permutations(slices.Clone(phases), func(order []types.ProgramElement) error {
		c, err := New(img, order)
		if err != nil {
			return err
		}
		var signal types.ProgramElement
		if feedback {
			signal, err = c.Run(0)
		} else {
			signal, err = c.Series(0)
		}
		if err != nil {
			return err
		}
		if bestOrder == nil || signal > best {
			best = signal
			bestOrder = slices.Clone(order)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return best, bestOrder, nil
}

// permutations calls visit once per ordering of items (Heap's algorithm).
// items is permuted in place; visit must not retain it.
func permutations[T any](items []T, visit func([]T) error) error {
	c := make([]int, len(items))
	if err := visit(items); err != nil {
		return err
	}
	for i := 1; i < len(items); {
		if c[i] < i {
			if i%2 == 0 {
				items[0], items[i] = items[i], items[0]
			} else {
				items[c[i]], items[i] = items[i], items[c[i]]
			}
			if err := visit(items); err != nil {
				return err
			}
			c[i]++
			i = 1
		} else {
			c[i] = 0
			i++
		}
	}
	return nil
}
