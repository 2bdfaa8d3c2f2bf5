package cfg

import "github.com/go-jvmtools/classgraph/vtype"

// EdgeKind classifies how control passes from one block to the next.
type EdgeKind uint8

const (
	// EdgeFallthrough is implicit: the source block's last instruction does
	// not transfer control, so execution falls into the next block in
	// layout order.
	EdgeFallthrough EdgeKind = iota
	// EdgeJump is an unconditional or conditional branch (goto, if<cond>).
	EdgeJump
	// EdgeRet is the edge a ret/ret_w instruction takes back to whichever
	// jsr invocation site resumes there. Its To is Opaque at disassembly
	// time, since which jsr a given ret belongs to depends on the
	// ReturnAddress value actually loaded, not on static structure; the
	// tracer retargets it once it has traced the local slot the ret reads.
	EdgeRet
	// EdgeSwitch is one arm (including the default) of a tableswitch or
	// lookupswitch.
	EdgeSwitch
	// EdgeCatch is an exception-handler edge derived from the method's
	// exception table.
	EdgeCatch
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeFallthrough:
		return "fallthrough"
	case EdgeJump:
		return "jump"
	case EdgeRet:
		return "ret"
	case EdgeSwitch:
		return "switch"
	case EdgeCatch:
		return "catch"
	default:
		return "unknown"
	}
}

// Edge is a directed control-flow transfer between two blocks, identified by
// BlockID rather than a pointer.
type Edge struct {
	Kind EdgeKind
	From BlockID
	To   BlockID

	// Insn is the offset of the instruction that produced this edge, or -1
	// for the synthetic entry fallthrough.
	Insn int

	// SwitchValue is set for EdgeSwitch edges that aren't the default arm.
	SwitchValue  int32
	SwitchIsDefault bool

	// CatchType and CatchIndex identify the exception-table entry an
	// EdgeCatch edge was derived from; CatchIndex breaks ties between
	// handlers that catch the same type at the same block, in table order.
	CatchType  *vtype.Class
	CatchIndex int

	// Malformed reports that this edge's To is Opaque because the jump it
	// came from computed a target outside the method's bytecode, rather
	// than an as-yet-unresolved ret. RawTarget is the offending raw offset.
	Malformed bool
	RawTarget int
}

// Precedence orders edges the way a handler search order or switch-arm order
// requires: catch edges by ascending CatchIndex, switch edges by ascending
// SwitchValue (default last), everything else stable by insertion.
func (e Edge) Precedence() int {
	switch e.Kind {
	case EdgeCatch:
		return e.CatchIndex
	case EdgeSwitch:
		if e.SwitchIsDefault {
			return 1 << 30
		}
		return int(e.SwitchValue)
	default:
		return 0
	}
}
