// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trace implements the abstract-interpretation tracer: given a
// method's control flow graph it computes, for every program point, the
// verification-type shape of the operand stack and local variables, plus a
// fixed-point liveness analysis, by repeatedly walking the graph until
// nothing changes or a pass budget is exhausted.
package trace

import (
	"fmt"

	"github.com/go-jvmtools/classgraph/vtype"
)

// Constraint records one point where an Entry was required to be assignable
// to a particular type; kept around so a later conflict can be explained in
// terms of every constraint that led to it.
type Constraint struct {
	Type   vtype.Type
	Offset int
}

// ConflictKind distinguishes the few ways a trace can flag a problem it
// could not resolve on its own.
type ConflictKind int

const (
	// ConflictCast is an Entry's existing type failing to satisfy a new
	// constraint, forcing a cast entry instead of failing outright.
	ConflictCast ConflictKind = iota
	// ConflictBadJump is a jump instruction whose computed target landed
	// outside the method's bytecode and was resolved to the Opaque sink.
	ConflictBadJump
)

// Conflict records a point where the tracer's abstract interpretation
// diverged from what the bytecode asked for.
type Conflict struct {
	Kind ConflictKind

	// Expected/Actual/Offset are set for ConflictCast: the type an Entry was
	// constrained to, the type it actually carried, and the instruction
	// offset the constraint was recorded at.
	Expected vtype.Type
	Actual   vtype.Type
	Offset   int

	// Target is set for ConflictBadJump: the raw byte offset the jump at
	// Offset computed, which did not land on any known instruction.
	Target int
}

func (c Conflict) String() string {
	switch c.Kind {
	case ConflictBadJump:
		return fmt.Sprintf("offset %d: jump target %d is outside the method's bytecode", c.Offset, c.Target)
	default:
		return fmt.Sprintf("offset %d: expected %v, got %v", c.Offset, c.Expected, c.Actual)
	}
}

// Entry is one value tracked on the abstract stack or in a local slot: its
// verification type, the instruction offset that produced it, and the
// bookkeeping the tracer needs to detect type conflicts and replace
// uninitialized-object aliases after their <init> runs.
type Entry struct {
	Type vtype.Type

	// Source is the instruction offset that produced this entry, or -1 for
	// an entry synthesized before any instruction ran (an uninitialized
	// local slot, a merge placeholder).
	Source int

	// HiWord marks the synthetic top-half slot of a two-word value; it
	// carries vtype.Top and is never itself pushed or popped directly.
	HiWord bool

	// Split reports whether this entry is a Cast copy whose type differs
	// from the entry it was copied from. It is not set when a stack
	// manipulation separates the two halves of a two-word value.
	Split bool

	// Generified reports whether this entry has already been widened to
	// Object by Generify to merge cleanly across a join point with
	// multiple predecessors.
	Generified bool

	// Value holds a known constant, when constant propagation determined
	// one; nil otherwise.
	Value interface{}

	// Parent is the entry this one was copied/cast/generified from, or nil
	// for an entry produced directly by an instruction.
	Parent *Entry

	// Adjacent lists every other Entry known to alias the same value —
	// copy and Generify add the entry they started from, whatever its
	// type — so that an <init> call's replacement can propagate to every
	// alias.
	Adjacent []*Entry

	Constraints []Constraint
	Conflicts   []Conflict
}

// NewEntry returns a fresh Entry of type t produced at instruction offset
// source.
func NewEntry(t vtype.Type, source int) *Entry {
	return &Entry{Type: t, Source: source}
}

// copy returns a shallow copy of e with its own Constraints/Conflicts/
// Adjacent slices, Parent set to e, and e itself recorded as an alias in
// the copy's Adjacent list — so a later ReplaceUninitialized can still find
// the original entry through the copy.
func (e *Entry) copy() *Entry {
	cp := *e
	cp.Adjacent = append(append([]*Entry(nil), e.Adjacent...), e)
	cp.Constraints = append([]Constraint(nil), e.Constraints...)
	cp.Conflicts = append([]Conflict(nil), e.Conflicts...)
	cp.Parent = e
	return &cp
}

// Generify widens e for merging at a join point with multiple predecessors.
// Only an initialized Java reference (Class, Interface, Array, or Null) not
// already typed Object is actually widened, and it is widened all the way to
// Object rather than to some intermediate verification type, with e itself
// recorded in the new entry's Adjacent list. Uninitialized/UninitializedThis
// entries and every primitive are left exactly as they are, aside from the
// structural copy every non-widened entry gets.
func (e *Entry) Generify() *Entry {
	if e.Generified || e.Type == vtype.Object || !vtype.IsReference(e.Type) {
		cp := e.copy()
		cp.Value = nil
		return cp
	}
	g := &Entry{Type: vtype.Object, Source: e.Source, Generified: true, Parent: e}
	g.addAdjacent(e)
	return g
}

// Cast returns an entry with type t, copying e only if the type actually
// changes.
func (e *Entry) Cast(t vtype.Type) *Entry {
	if vtype.Equal(e.Type, t) {
		return e
	}
	c := e.copy()
	c.Type = t
	c.Split = true
	return c
}

// Constrain records that e was required to be assignable to t at offset.
// It returns e when t accepts e's type or e's type accepts t, and otherwise
// a cast entry carrying a recorded Conflict.
func (e *Entry) Constrain(t vtype.Type, offset int) *Entry {
	e.Constraints = append(e.Constraints, Constraint{Type: t, Offset: offset})
	if t.Assignable(e.Type) || e.Type.Assignable(t) {
		return e
	}
	cast := e.Cast(t)
	cast.Conflicts = append(cast.Conflicts, Conflict{Kind: ConflictCast, Expected: t, Actual: e.Type, Offset: offset})
	return cast
}

// addAdjacent records that other aliases the same allocation as e.
func (e *Entry) addAdjacent(other *Entry) {
	for _, a := range e.Adjacent {
		if a == other {
			return
		}
	}
	e.Adjacent = append(e.Adjacent, other)
}
