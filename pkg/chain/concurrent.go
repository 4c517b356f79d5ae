package chain

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"intcode/pkg/types"
	"intcode/pkg/vm"
)

var errRingDone = stderrors.New("last machine halted")

// ring holds the mailboxes between neighbouring machines. Every field is
// guarded by mu; wake[i] carries at most one pending token.
type ring struct {
	mu       sync.Mutex
	queues   [][]types.ProgramElement
	wake     []chan struct{}
	blocked  []bool
	exited   []bool
	live     int
	waiting  int
	stalled  bool
	finished bool
	deadlock chan struct{}
	done     chan struct{}
}

func newRing(n int) *ring {
	r := &ring{
		queues:   make([][]types.ProgramElement, n),
		wake:     make([]chan struct{}, n),
		blocked:  make([]bool, n),
		exited:   make([]bool, n),
		live:     n,
		deadlock: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for i := range r.wake {
		r.wake[i] = make(chan struct{}, 1)
	}
	return r
}

// send appends values to machine to's mailbox. Values for a machine that
// already exited are dropped.
func (r *ring) send(to int, values []types.ProgramElement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exited[to] {
		return
	}
	r.queues[to] = append(r.queues[to], values...)
	if r.blocked[to] {
		r.blocked[to] = false
		r.waiting--
		select {
		case r.wake[to] <- struct{}{}:
		default:
		}
	}
}

// receive takes every queued value for machine i, blocking while the
// mailbox is empty.
func (r *ring) receive(ctx context.Context, i int) ([]types.ProgramElement, error) {
	for {
		r.mu.Lock()
		if values := r.queues[i]; len(values) > 0 {
			r.queues[i] = nil
			r.mu.Unlock()
			return values, nil
		}
		r.blocked[i] = true
		r.waiting++
		r.checkStalled()
		r.mu.Unlock()

		select {
		case <-r.wake[i]:
		case <-r.done:
			return nil, errRingDone
		case <-r.deadlock:
			return nil, ErrDeadlock
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// finish marks the ring as complete once the last machine halted.
func (r *ring) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = true
	close(r.done)
}

func (r *ring) exit(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exited[i] = true
	r.queues[i] = nil
	if r.blocked[i] {
		r.blocked[i] = false
		r.waiting--
	}
	r.live--
	r.checkStalled()
}

// checkStalled must be called with mu held.
func (r *ring) checkStalled() {
	if r.stalled || r.finished || r.live == 0 || r.waiting != r.live {
		return
	}
	r.stalled = true
	close(r.deadlock)
}

// RunConcurrent realizes the same ring as Chain.Run with one goroutine per
// machine. It ends when the last machine halts and reports ErrDeadlock when
// every running machine waits on an empty mailbox. ctx bounds programs that
// never halt.
func RunConcurrent(ctx context.Context, img *vm.Image, phases []types.ProgramElement, signal types.ProgramElement) (types.ProgramElement, error) {
	n := len(phases)
	if n == 0 {
		return 0, ErrNoPhases
	}

	r := newRing(n)
	r.queues[0] = []types.ProgramElement{signal}

	var result types.ProgramElement
	produced := false

	g, ctx := errgroup.WithContext(ctx)
	for i, phase := range phases {
		i := i
		next := (i + 1) % n
		m := img.NewMachine()
		m.PushInput(phase)

		g.Go(func() error {
			defer r.exit(i)
			for {
				exitReason, err := m.RunToNextInput()
				if err != nil {
					return fmt.Errorf("machine %d: %w", i, err)
				}

				if outputs := m.DrainOutputs(); len(outputs) > 0 {
					if i == n-1 {
						result, produced = outputs[len(outputs)-1], true
					}
					r.send(next, outputs)
				}

				if exitReason == vm.ExitHalt {
					if i == n-1 {
						r.finish()
					}
					return nil
				}

				inputs, err := r.receive(ctx, i)
				if stderrors.Is(err, errRingDone) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("machine %d: %w", i, err)
				}
				m.PushInput(inputs...)
			}
		})
	}

	err := g.Wait()

	// The result is final once the last machine halted, whatever its peers
	// were doing at that moment.
	r.mu.Lock()
	finished := r.finished
	r.mu.Unlock()
	if !finished && err != nil {
		return 0, err
	}
	if !produced {
		return 0, ErrNoOutput
	}
	return result, nil
}
