package vm

type ExitReason int

const (
	ExitGo            ExitReason = iota // keep stepping
	ExitHalt                            // program executed Terminate
	ExitAwaitingInput                   // ReadInput found the input queue empty
)

func (er ExitReason) String() string {
	switch er {
	case ExitGo:
		return "go"
	case ExitHalt:
		return "halt"
	case ExitAwaitingInput:
		return "awaiting-input"
	default:
		return "unknown"
	}
}

// Suspended reports whether a run loop must hand control back to the caller.
func (er ExitReason) Suspended() bool {
	return er != ExitGo
}

type State int

const (
	Running State = iota
	AwaitingInput
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingInput:
		return "awaiting-input"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
