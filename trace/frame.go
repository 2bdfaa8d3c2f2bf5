package trace

import "github.com/go-jvmtools/classgraph/vtype"

// Frame is the abstract operand stack and local variable array at one
// program point, plus the bookkeeping the liveness pass needs: which local
// slots this block read before writing (Uses) and which it wrote
// unconditionally (Defs).
type Frame struct {
	Stack  []*Entry
	Locals map[int]*Entry

	Thrown   *Entry
	Returned *Entry

	// RetSource is the Source of the ReturnAddress a ret instruction just
	// read out of its local slot, set by Step so the trace driver can
	// retarget the block's EdgeRet edge to the jsr that produced it.
	RetSource interface{}

	Uses map[int]bool
	Defs map[int]bool
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{
		Locals: map[int]*Entry{},
		Uses:   map[int]bool{},
		Defs:   map[int]bool{},
	}
}

func hiWord(parent *Entry) *Entry {
	return &Entry{Type: vtype.Top, HiWord: true, Parent: parent, Source: parent.Source}
}

// Push places e on top of the stack, following it with a synthetic top-half
// entry when e is two-word wide.
func (f *Frame) Push(e *Entry) {
	f.Stack = append(f.Stack, e)
	if e.Type.Wide() {
		f.Stack = append(f.Stack, hiWord(e))
	}
}

// Pop removes and returns the top stack entry, consuming its top-half
// companion first when present.
func (f *Frame) Pop() *Entry {
	n := len(f.Stack)
	if n == 0 {
		return NewEntry(vtype.Top, -1)
	}
	top := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	if top.HiWord {
		return f.Pop()
	}
	return top
}

// Top returns the top stack entry without removing it.
func (f *Frame) Top() *Entry {
	for i := len(f.Stack) - 1; i >= 0; i-- {
		if !f.Stack[i].HiWord {
			return f.Stack[i]
		}
	}
	return NewEntry(vtype.Top, -1)
}

// Depth reports the number of logical (non-hiword) stack slots.
func (f *Frame) Depth() int {
	n := 0
	for _, e := range f.Stack {
		if !e.HiWord {
			n++
		}
	}
	return n
}

// Store writes e into local slot index, following it with a synthetic
// top-half entry in index+1 when e is two-word wide.
func (f *Frame) Store(index int, e *Entry) {
	f.Locals[index] = e
	f.Defs[index] = true
	if e.Type.Wide() {
		f.Locals[index+1] = hiWord(e)
		f.Defs[index+1] = true
	}
}

// Load reads local slot index, recording a use if the slot has not yet been
// written by this block (used by the liveness pass).
func (f *Frame) Load(index int) *Entry {
	e, ok := f.Locals[index]
	if !ok {
		e = NewEntry(vtype.Top, -1)
	}
	if !f.Defs[index] {
		f.Uses[index] = true
	}
	return e
}

// Throw records the exception entry active on the way out of a block that
// ends in athrow or an uncaught runtime exception.
func (f *Frame) Throw(e *Entry) {
	f.Thrown = e
}

// Return records the value entry returned from a block ending in a return
// instruction.
func (f *Frame) Return(e *Entry) {
	f.Returned = e
}

// Copy returns an independent frame with the same stack and locals; entries
// themselves are shared (they are treated as immutable once produced).
func (f *Frame) Copy() *Frame {
	cp := &Frame{
		Stack:     append([]*Entry(nil), f.Stack...),
		Locals:    make(map[int]*Entry, len(f.Locals)),
		Uses:      make(map[int]bool, len(f.Uses)),
		Defs:      make(map[int]bool, len(f.Defs)),
		Thrown:    f.Thrown,
		Returned:  f.Returned,
		RetSource: f.RetSource,
	}
	for k, v := range f.Locals {
		cp.Locals[k] = v
	}
	for k := range f.Uses {
		cp.Uses[k] = true
	}
	for k := range f.Defs {
		cp.Defs[k] = true
	}
	return cp
}

// Generify returns a copy of f with every entry passed through
// Entry.Generify: initialized references are widened to Object and every
// other entry is copied unchanged in type, so that a frame can be merged
// against another frame reached by a different path without spurious
// narrow-type conflicts. The same original entry is
// only ever generified once: if it occupies more than one slot (a dup'd
// reference sitting on both the stack and in a local, say), every slot ends
// up holding the identical generified copy, so they stay aliased to each
// other as well as to the original.
func (f *Frame) Generify() *Frame {
	cp := f.Copy()
	generified := map[*Entry]*Entry{}
	get := func(e *Entry) *Entry {
		if g, ok := generified[e]; ok {
			return g
		}
		g := e.Generify()
		generified[e] = g
		return g
	}
	for i, e := range cp.Stack {
		cp.Stack[i] = get(e)
	}
	for k, e := range cp.Locals {
		cp.Locals[k] = get(e)
	}
	return cp
}

// ReplaceUninitialized substitutes replacement for every live stack and
// local entry that is either old or adjacent to old — the effect an
// invokespecial <init> call has on every alias of the object it
// initializes.
func (f *Frame) ReplaceUninitialized(old, replacement *Entry) {
	aliases := func(e *Entry) bool {
		if e == old {
			return true
		}
		for _, a := range old.Adjacent {
			if e == a {
				return true
			}
		}
		return false
	}
	for i, e := range f.Stack {
		if aliases(e) {
			f.Stack[i] = replacement
		}
	}
	for k, e := range f.Locals {
		if aliases(e) {
			f.Locals[k] = replacement
		}
	}
}

// Merge combines f with other — the frame reaching the same join block
// along a different edge — constraining each corresponding entry against
// the other's type. It reports whether the merge produced a frame that
// differs from f. The fixed-point driver in trace.go does not call it; it
// decides retraces with needsRetrace.
func (f *Frame) Merge(other *Frame, offset int) (merged *Frame, changed bool) {
	merged = f.Copy()
	if len(other.Stack) != len(f.Stack) {
		// Stack shape mismatch across a join point is a disassembly or
		// verifier bug in the input, not something the tracer can repair;
		// keep f's shape and let the caller's conflict reporting surface it.
		return merged, false
	}
	for i := range merged.Stack {
		a, b := merged.Stack[i], other.Stack[i]
		if a.HiWord {
			continue
		}
		c := a.Constrain(b.Type, offset)
		if c != a {
			merged.Stack[i] = c
			changed = true
		}
	}
	for k, a := range merged.Locals {
		if a.HiWord {
			continue
		}
		b, ok := other.Locals[k]
		if !ok {
			continue
		}
		c := a.Constrain(b.Type, offset)
		if c != a {
			merged.Locals[k] = c
			changed = true
		}
	}
	return merged, changed
}
