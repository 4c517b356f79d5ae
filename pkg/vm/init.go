package vm

type InstructionHandler func(m *Machine, inst *Instruction) (ExitReason, error)

type instructionInfo struct {
	Name    string
	Params  int
	Handler InstructionHandler
}

var dispatchTable [100]*instructionInfo

func init() {
	dispatchTable[OpAdd] = &instructionInfo{Name: "add", Params: 3, Handler: handleArithmetic}
	dispatchTable[OpMultiply] = &instructionInfo{Name: "mul", Params: 3, Handler: handleArithmetic}
	dispatchTable[OpReadInput] = &instructionInfo{Name: "in", Params: 1, Handler: handleReadInput}
	dispatchTable[OpWriteOutput] = &instructionInfo{Name: "out", Params: 1, Handler: handleWriteOutput}
	dispatchTable[OpJumpIfTrue] = &instructionInfo{Name: "jnz", Params: 2, Handler: handleJump}
	dispatchTable[OpJumpIfFalse] = &instructionInfo{Name: "jz", Params: 2, Handler: handleJump}
	dispatchTable[OpLessThan] = &instructionInfo{Name: "lt", Params: 3, Handler: handleCompare}
	dispatchTable[OpEquals] = &instructionInfo{Name: "eq", Params: 3, Handler: handleCompare}
	dispatchTable[OpAdjustRelativeBase] = &instructionInfo{Name: "arb", Params: 1, Handler: handleAdjustRelativeBase}
	dispatchTable[OpTerminate] = &instructionInfo{Name: "halt", Params: 0, Handler: handleTerminate}
}

func lookup(op Opcode) *instructionInfo {
	if op < 0 || int(op) >= len(dispatchTable) {
		return nil
	}
	return dispatchTable[op]
}
