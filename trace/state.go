package trace

import "github.com/go-jvmtools/classgraph/cfg"

// Target is one outgoing edge of a traced block together with the frame
// that was live on that edge, recorded so the DFS driver in trace.go can
// decide which successors to visit and in what order.
type Target struct {
	Edge      cfg.Edge
	Successor cfg.BlockID
	Frame     *Frame
}

// State is one node of the trace's depth-first walk: the block being
// traced, the frame flowing into it, and the path of states traversed to
// reach it (used to detect and bound re-traces of a loop header).
type State struct {
	Block cfg.BlockID
	Frame *Frame

	Targets []Target

	// Traversed is the chain of states, in order, that led to this one.
	Traversed []*State

	// Pass is the fixed-point iteration on which this state was produced.
	Pass int
}

// NewState returns a root trace state for block with the given incoming
// frame.
func NewState(block cfg.BlockID, frame *Frame, pass int) *State {
	return &State{Block: block, Frame: frame, Pass: pass}
}

// Branch returns the state reached by following edge out of s into
// successor with frame.
func (s *State) Branch(edge cfg.Edge, successor cfg.BlockID, frame *Frame) *State {
	ns := NewState(successor, frame, s.Pass)
	ns.Traversed = append(append([]*State(nil), s.Traversed...), s)
	return ns
}

// Visited reports whether block appears anywhere in s's traversal chain,
// including s itself — the DFS driver uses this to stop following an edge
// back into a loop header it is already in the middle of tracing on this
// pass.
func (s *State) Visited(block cfg.BlockID) bool {
	if s.Block == block {
		return true
	}
	for _, prev := range s.Traversed {
		if prev.Block == block {
			return true
		}
	}
	return false
}
