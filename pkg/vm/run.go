package vm

import (
	"log"
	"os"
	"sync"

	"intcode/pkg/errors"
)

// The trace sink is shared by every machine, so machines stepping on
// different goroutines go through logMu.
var (
	logMu      sync.Mutex
	fileLogger *log.Logger
	logFile    *os.File
)

// InitFileLogger traces every executed instruction to filename, truncating it.
func InitFileLogger(filename string) error {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	logMu.Lock()
	defer logMu.Unlock()
	closeFileLogger()
	logFile = file
	fileLogger = log.New(file, "", log.LstdFlags)
	return nil
}

func CloseFileLogger() {
	logMu.Lock()
	defer logMu.Unlock()
	closeFileLogger()
}

func closeFileLogger() {
	if logFile != nil {
		logFile.Close()
	}
	logFile = nil
	fileLogger = nil
}

func tracef(format string, args ...any) {
	logMu.Lock()
	defer logMu.Unlock()
	if fileLogger != nil {
		fileLogger.Printf(format, args...)
	}
}

// SingleStep decodes and executes one instruction. A terminated machine is
// inert and reports ExitHalt without touching its state.
func (m *Machine) SingleStep() (ExitReason, error) {
	if m.fault != nil {
		return ExitGo, m.fault
	}
	if m.terminated {
		return ExitHalt, nil
	}

	inst, err := decode(m.RAM, m.pc)
	if err != nil {
		return ExitGo, m.raise(err)
	}

	m.state = Running
	exitReason, err := dispatchTable[inst.Opcode].Handler(m, &inst)
	if err != nil {
		return ExitGo, m.raise(err)
	}

	tracef("%s exit=%s pc=%d rb=%d in=%d out=%d", &inst, exitReason, m.pc, m.relativeBase, len(m.inputs), len(m.outputs))
	return exitReason, nil
}

// RunToNextInput steps until the program halts or needs input it does not
// have. On ExitAwaitingInput the caller may push more input and call again;
// execution resumes with the same ReadInput.
func (m *Machine) RunToNextInput() (ExitReason, error) {
	for {
		exitReason, err := m.SingleStep()
		if err != nil {
			return exitReason, err
		}
		if exitReason.Suspended() {
			return exitReason, nil
		}
	}
}

// RunToCompletion steps until the program halts. Running out of input is a
// fault in this mode.
func (m *Machine) RunToCompletion() error {
	exitReason, err := m.RunToNextInput()
	if err != nil {
		return err
	}
	if exitReason == ExitAwaitingInput {
		return m.raise(errors.Faultf(errors.ErrInputExhausted, "pc=%d", m.pc))
	}
	return nil
}

func (m *Machine) raise(err error) error {
	if m.fault == nil {
		m.fault = err
	}
	tracef("fault pc=%d: %v", m.pc, err)
	return err
}
