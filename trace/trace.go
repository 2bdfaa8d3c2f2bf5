package trace

import (
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/go-jvmtools/classgraph/cfg"
	"github.com/go-jvmtools/classgraph/classfile"
	"github.com/go-jvmtools/classgraph/jvmops"
	"github.com/go-jvmtools/classgraph/vtype"
)

// MaxPasses bounds the fixed-point iteration: a method whose liveness and
// stack shapes haven't settled after this many passes over its graph is
// reported as a failure rather than looped on forever.
const MaxPasses = 100

// intSet is a small int membership set, used for the liveness maps.
type intSet map[int]bool

func unionInto(dst, src intSet) bool {
	changed := false
	for k := range src {
		if !dst[k] {
			dst[k] = true
			changed = true
		}
	}
	return changed
}

func equalSets(a, b intSet) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func cloneSet(s intSet) intSet {
	cp := make(intSet, len(s))
	for k := range s {
		cp[k] = true
	}
	return cp
}

// Subroutine records one jsr/ret pair the tracer matched by ReturnAddress
// identity: the offset of the jsr instruction and the block its ret
// resumed control into (the jsr's own fallthrough successor).
type Subroutine struct {
	Jsr    int
	Return cfg.BlockID
}

// Result is the tracer's output for one method: the final frame recorded
// at every reachable block, the live-local sets at block entry (PreLive)
// and exit (PostLive), every conflict the trace recorded, and every
// jsr/ret pair it resolved.
type Result struct {
	Graph       *cfg.Graph
	Frames      map[cfg.BlockID]*Frame
	PreLive     map[cfg.BlockID]intSet
	PostLive    map[cfg.BlockID]intSet
	Passes      int
	Conflicts   []Conflict
	Subroutines []Subroutine
}

// InitialFrame builds the frame live at a method's entry block: `this` (or
// UninitializedThis, inside a constructor) in local 0 for an instance
// method, followed by the argument types parsed from descriptor.
func InitialFrame(this *vtype.Class, static bool, isInit bool, descriptor string) (*Frame, error) {
	f := NewFrame()
	index := 0
	if !static {
		recv := NewEntry(vtype.Type(this), -1)
		if isInit && this != nil {
			recv = NewEntry(vtype.UninitializedThis, -1)
		}
		f.Store(index, recv)
		index++
		if recv.Type.Wide() {
			index++
		}
	}
	args, _, err := vtype.ParseMethodDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		f.Store(index, NewEntry(a, -1))
		index++
		if a.Wide() {
			index++
		}
	}
	return f, nil
}

// tracer holds the state threaded through one Trace run that doesn't belong
// on State/Frame: the context toggles, the graph/code/pool every block
// steps against, and the conflicts and subroutines accumulated along the
// way.
type tracer struct {
	ctx  Context
	g    *cfg.Graph
	code *classfile.Code
	pool classfile.ConstantPool
	this *vtype.Class

	badJumps    map[int]bool
	conflicts   []Conflict
	subroutines map[int]Subroutine // keyed by jsr instruction offset
}

// recordConflict appends c to the accumulated Conflicts and, in strict
// mode, promotes it to a returned error instead.
func (t *tracer) recordConflict(c Conflict) error {
	t.conflicts = append(t.conflicts, c)
	if t.ctx.Strict {
		return ErrStrictConflict{RunID: t.ctx.RunID, Conflict: c}
	}
	return nil
}

// Trace runs the bounded fixed-point abstract interpretation over g,
// starting from initial at cfg.Entry. ctx's toggles govern constant and
// exception propagation and whether the first recorded Conflict is
// promoted to a returned error; its RunID is filled in with a fresh UUID
// when left zero.
func Trace(g *cfg.Graph, code *classfile.Code, pool classfile.ConstantPool, this *vtype.Class, initial *Frame, ctx Context) (*Result, error) {
	if ctx.RunID == uuid.Nil {
		ctx.RunID = uuid.New()
	}
	t := &tracer{
		ctx:         ctx,
		g:           g,
		code:        code,
		pool:        pool,
		this:        this,
		badJumps:    map[int]bool{},
		subroutines: map[int]Subroutine{},
	}

	states := map[cfg.BlockID][]*State{}
	preLive := map[cfg.BlockID]intSet{}
	postLive := map[cfg.BlockID]intSet{}
	uses := map[cfg.BlockID]intSet{}
	defs := map[cfg.BlockID]intSet{}

	dontTrace := map[cfg.BlockID]bool{cfg.Return: true, cfg.Rethrow: true, cfg.Opaque: true}

	root := NewState(cfg.Entry, initial, 0)
	allStates := []*State{root}
	stack := []*State{root}
	visited := map[*State]bool{}

	pass := 0
	for ; pass < MaxPasses; pass++ {
		var branches []*State
		traced, retraced := 0, 0

		for len(stack) > 0 {
			state := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			block := state.Block

			if prior := states[block]; len(prior) > 0 {
				if !needsRetrace(state, prior[len(prior)-1], preLive[block], false) {
					branches = append(branches, state)
					continue
				}
				retraced++
			}
			traced++

			if err := t.traceBlock(block, state); err != nil {
				return nil, Error{RunID: ctx.RunID, Block: block, Offset: g.At(block).Label, Err: err}
			}

			targets, err := t.buildTargets(block, state.Frame)
			if err != nil {
				return nil, err
			}
			state.Targets = targets

			states[block] = append(states[block], state)

			if uses[block] == nil {
				uses[block] = intSet{}
			}
			if defs[block] == nil {
				defs[block] = intSet{}
			}
			unionInto(uses[block], intSet(state.Frame.Uses))
			unionInto(defs[block], intSet(state.Frame.Defs))

			if preLive[block] == nil {
				preLive[block] = intSet{}
			}
			unionInto(preLive[block], uses[block])

			original := state.Frame.Copy()
			original.Thrown = nil
			original.Returned = nil

			multipleSuccessors := len(state.Targets) > 1

			for _, target := range state.Targets {
				if dontTrace[target.Successor] {
					continue
				}
				frame := target.Frame
				if frame == nil {
					frame = original
				}
				predecessors := g.In(target.Successor)
				switch {
				case len(predecessors) > 1:
					frame = frame.Generify()
				case multipleSuccessors && frame == original:
					frame = frame.Copy()
				}
				branched := state.Branch(target.Edge, target.Successor, frame)
				allStates = append(allStates, branched)
				stack = append(stack, branched)
			}
		}

		logger.Printf("pass %d: traced %d block(s), %d retraced", pass+1, traced, retraced)

		propagateLiveness(allStates, preLive, postLive, uses, defs, visited)

		stack = nil
		for _, state := range branches {
			if prior := states[state.Block]; len(prior) > 0 &&
				needsRetrace(state, prior[len(prior)-1], preLive[state.Block], true) {
				stack = append(stack, state)
			}
		}
		if len(stack) == 0 {
			break
		}
	}
	if pass >= MaxPasses {
		return nil, ErrPassLimitExceeded{Block: cfg.Entry, Attempts: MaxPasses}
	}

	frames := map[cfg.BlockID]*Frame{}
	for block, ss := range states {
		if len(ss) > 0 {
			frames[block] = ss[len(ss)-1].Frame
		}
	}

	subroutines := make([]Subroutine, 0, len(t.subroutines))
	for _, s := range t.subroutines {
		subroutines = append(subroutines, s)
	}
	slices.SortFunc(subroutines, func(a, b Subroutine) int { return a.Jsr - b.Jsr })

	return &Result{
		Graph:       g,
		Frames:      frames,
		PreLive:     preLive,
		PostLive:    postLive,
		Passes:      pass + 1,
		Conflicts:   t.conflicts,
		Subroutines: subroutines,
	}, nil
}

// needsRetrace reports whether state's frame differs, in any way the given
// set of live locals and the live stack can observe, from last — the prior
// trace of the same block. pedantic additionally checks every local in
// state's frame rather than only the ones already known live, used for the
// end-of-pass branch recheck.
func needsRetrace(state, last *State, live intSet, pedantic bool) bool {
	a, b := last.Frame, state.Frame
	if len(a.Stack) != len(b.Stack) {
		return true
	}
	for i := range a.Stack {
		if !vtype.Equal(a.Stack[i].Type, b.Stack[i].Type) {
			return true
		}
	}
	for idx := range live {
		av, aok := a.Locals[idx]
		bv, bok := b.Locals[idx]
		if aok != bok {
			return true
		}
		if aok && !vtype.Equal(av.Type, bv.Type) {
			return true
		}
	}
	if pedantic {
		for idx, bv := range b.Locals {
			av, ok := a.Locals[idx]
			if ok && !vtype.Equal(av.Type, bv.Type) {
				return true
			}
		}
	}
	return false
}

// buildTargets computes the outgoing edge targets for block, in precedence
// order, skipping catch edges that repeat an already-seen exception type
// (a finally block duplicated per try-range collapses to one handler edge)
// and, when the context disables exception propagation, skipping catch
// edges entirely.
func (t *tracer) buildTargets(block cfg.BlockID, frame *Frame) ([]Target, error) {
	out := append([]cfg.Edge(nil), t.g.Out(block)...)
	slices.SortFunc(out, func(a, b cfg.Edge) int { return a.Precedence() - b.Precedence() })

	var targets []Target
	seenCatch := map[*vtype.Class]bool{}
	for _, e := range out {
		if e.Kind == cfg.EdgeCatch {
			if !t.ctx.ExceptionPropagation {
				continue
			}
			if seenCatch[e.CatchType] {
				continue
			}
			seenCatch[e.CatchType] = true
		}
		target, err := t.deriveTarget(e, frame)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// deriveTarget computes the frame flowing along edge e out of the block
// that just finished tracing with frame. A Ret edge is retargeted from its
// static Opaque placeholder to the jsr that produced the ReturnAddress the
// block's ret instruction actually read; a jump edge marked Malformed
// records a ConflictBadJump the first time it's seen. Every other edge
// kind but Catch reuses the block's exit frame (reported as a nil Frame so
// the caller shares `original` instead of copying per edge); Catch edges
// start a fresh frame with only the caught exception on the stack.
func (t *tracer) deriveTarget(e cfg.Edge, frame *Frame) (Target, error) {
	if e.Kind == cfg.EdgeRet {
		if successor, ok := t.resolveRet(frame); ok {
			return Target{Edge: e, Successor: successor}, nil
		}
		return Target{Edge: e, Successor: cfg.Opaque}, nil
	}

	if e.Malformed && !t.badJumps[e.Insn] {
		t.badJumps[e.Insn] = true
		if err := t.recordConflict(Conflict{Kind: ConflictBadJump, Offset: e.Insn, Target: e.RawTarget}); err != nil {
			return Target{}, err
		}
	}

	if e.Kind != cfg.EdgeCatch {
		return Target{Edge: e, Successor: e.To}, nil
	}
	handler := NewFrame()
	for k, v := range frame.Locals {
		handler.Locals[k] = v
	}
	var excType vtype.Type = vtype.Object
	if e.CatchType != nil {
		excType = e.CatchType
	}
	handler.Push(NewEntry(excType, e.Insn))
	return Target{Edge: e, Successor: e.To, Frame: handler}, nil
}

// resolveRet matches frame.RetSource — the Source of the ReturnAddress the
// block's ret instruction just loaded — against the jsr instruction offset
// recorded on that jsr's fallthrough edge, returning the block the ret
// should transfer control back into.
func (t *tracer) resolveRet(frame *Frame) (cfg.BlockID, bool) {
	jsr, ok := frame.RetSource.(int)
	if !ok {
		return cfg.Opaque, false
	}
	for _, edge := range t.g.Edges {
		if edge.Kind == cfg.EdgeFallthrough && edge.Insn == jsr {
			t.subroutines[jsr] = Subroutine{Jsr: jsr, Return: edge.To}
			return edge.To, true
		}
	}
	return cfg.Opaque, false
}

// propagateLiveness walks every traversal chain recorded this pass,
// back-to-front, folding each block's post-liveness (locals live at its
// exit) and pre-liveness (locals live at its entry) towards a fixed point.
func propagateLiveness(allStates []*State, preLive, postLive, uses, defs map[cfg.BlockID]intSet, visited map[*State]bool) {
	for _, base := range allStates {
		successor := base.Block
		for i := len(base.Traversed) - 1; i >= 0; i-- {
			state := base.Traversed[i]
			block := state.Block

			oldPost := postLive[block]
			oldPre := preLive[block]

			newPost := cloneSet(oldPost)
			unionInto(newPost, preLive[successor])
			newPre := cloneSet(oldPre)
			unionInto(newPre, uses[block])

			var kind cfg.EdgeKind
			found := false
			for _, t := range state.Targets {
				if t.Successor == successor {
					kind = t.Edge.Kind
					found = true
					break
				}
			}
			if !found {
				continue
			}

			if kind == cfg.EdgeCatch {
				unionInto(newPre, preLive[successor])
			} else {
				for k := range newPost {
					if !defs[block][k] {
						newPre[k] = true
					}
				}
			}

			postChanged := !equalSets(oldPost, newPost)
			preChanged := !equalSets(oldPre, newPre)

			if postChanged {
				postLive[block] = newPost
			}
			if preChanged {
				preLive[block] = newPre
			}

			if postChanged || preChanged || !visited[state] {
				visited[state] = true
			} else {
				break
			}
			successor = block
		}
	}
}

// traceBlock applies Step to every instruction in block, in order, mutating
// state.Frame, then to the block's terminator (the goto/if<cond>/jsr/ret/
// switch/*return that actually transfers control, kept apart from Insns —
// see cfg.Block). Sentinel blocks carry neither and are a no-op. Uses and
// Defs start empty, so they describe this block alone.
func (t *tracer) traceBlock(block cfg.BlockID, state *State) error {
	b := t.g.At(block)
	state.Frame.Uses = map[int]bool{}
	state.Frame.Defs = map[int]bool{}
	for _, insn := range b.Insns {
		op, err := jvmops.New(insn.Opcode)
		if err != nil {
			return err
		}
		if err := Step(insn, op, t.pool, t.this, state.Frame, &t.ctx); err != nil {
			return err
		}
	}
	if b.Terminator != nil {
		op, err := jvmops.New(b.Terminator.Opcode)
		if err != nil {
			return err
		}
		if err := Step(*b.Terminator, op, t.pool, t.this, state.Frame, &t.ctx); err != nil {
			return err
		}
	}
	return nil
}

// TraceAll traces every method's graph concurrently, returning results in
// the same order as methods. A failure in one method does not prevent the
// others from completing; the first error encountered is returned after
// every goroutine has finished.
func TraceAll(graphs []*cfg.Graph, codes []*classfile.Code, pool classfile.ConstantPool, this *vtype.Class, initials []*Frame, ctx Context) ([]*Result, error) {
	results := make([]*Result, len(graphs))
	var g errgroup.Group
	for i := range graphs {
		i := i
		g.Go(func() error {
			r, err := Trace(graphs[i], codes[i], pool, this, initials[i], ctx)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
