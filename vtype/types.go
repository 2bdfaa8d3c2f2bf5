// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vtype implements the verification-type lattice used by the
// bytecode tracer: primitives, references, the uninitialized and
// return-address kinds, and the assignability/merge rules between them.
//
// The lattice is:
//
//	top -> {oneWord, twoWord}
//	oneWord -> {int, float, reference}
//	twoWord -> {long, double}
//	reference -> {uninitialized, javaReference}
//	uninitialized -> {uninitializedThis, uninitialized(src)}
//	javaReference -> {class(name), interface(name), array(elem), null}
package vtype

import (
	"fmt"
	"sync"
)

// Kind classifies a Type without requiring a type assertion; useful for
// switch statements in the tracer that need to branch on shape rather than
// identity.
type Kind uint8

const (
	KindTop Kind = iota
	KindOneWord
	KindTwoWord
	KindInt
	KindFloat
	KindLong
	KindDouble
	KindVoid
	KindReturnAddress
	KindUninitializedThis
	KindUninitialized
	KindClass
	KindInterface
	KindArray
	KindNull
)

func (k Kind) String() string {
	names := [...]string{
		"top", "oneWord", "twoWord", "int", "float", "long", "double", "void",
		"returnAddress", "uninitializedThis", "uninitialized", "class",
		"interface", "array", "null",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("<unknown kind %d>", uint8(k))
}

// Type is a single node in the verification-type lattice.
//
// assignable never fails; it simply returns false. verification fails only
// for void (see Verification).
type Type interface {
	fmt.Stringer

	// Kind reports the lattice node this type occupies.
	Kind() Kind
	// Wide reports whether a value of this type occupies two stack slots /
	// two consecutive local indices.
	Wide() bool
	// Assignable reports whether a value of type other may be stored in a
	// slot declared as this type. The receiver acts as the l-value.
	Assignable(other Type) bool
	// Verification collapses byte/char/short/boolean to int and otherwise
	// returns the receiver unchanged. Every Type except Void has one.
	Verification() (Type, error)
}

// ErrNoVerificationType is returned by Verification for types that cannot
// appear on a verified stack or in a verified local slot (presently only
// Void).
var ErrNoVerificationType = fmt.Errorf("vtype: no verification type")

// -- top / oneWord / twoWord ------------------------------------------------

type topType struct{}

// Top is the supertype of both one-word and two-word verification types.
var Top Type = topType{}

func (topType) Kind() Kind            { return KindTop }
func (topType) Wide() bool            { return false }
func (topType) String() string        { return "top" }
func (topType) Assignable(o Type) bool {
	return true // top is the universal supertype; anything is assignable to it.
}
func (t topType) Verification() (Type, error) { return t, nil }

type oneWordType struct{}

// OneWord is the supertype of int, float and reference.
var OneWord Type = oneWordType{}

func (oneWordType) Kind() Kind     { return KindOneWord }
func (oneWordType) Wide() bool     { return false }
func (oneWordType) String() string { return "oneWord" }
func (oneWordType) Assignable(o Type) bool {
	switch o.Kind() {
	case KindOneWord, KindInt, KindFloat, KindReturnAddress, KindUninitializedThis,
		KindUninitialized, KindClass, KindInterface, KindArray, KindNull:
		return true
	default:
		return false
	}
}
func (t oneWordType) Verification() (Type, error) { return t, nil }

type twoWordType struct{}

// TwoWord is the supertype of long and double.
var TwoWord Type = twoWordType{}

func (twoWordType) Kind() Kind     { return KindTwoWord }
func (twoWordType) Wide() bool     { return true }
func (twoWordType) String() string { return "twoWord" }
func (twoWordType) Assignable(o Type) bool {
	switch o.Kind() {
	case KindTwoWord, KindLong, KindDouble:
		return true
	default:
		return false
	}
}
func (t twoWordType) Verification() (Type, error) { return t, nil }

// -- void --------------------------------------------------------------------

type voidType struct{}

// Void represents a method's absence of a return value. It is not a legal
// verification type: Verification() fails for it.
var Void Type = voidType{}

func (voidType) Kind() Kind                    { return KindVoid }
func (voidType) Wide() bool                    { return false }
func (voidType) String() string                { return "void" }
func (voidType) Assignable(Type) bool          { return false }
func (voidType) Verification() (Type, error)   { return nil, ErrNoVerificationType }

// -- integers ------------------------------------------------------------

// intWidth orders the integer subtypes so assignability reduces to a width
// comparison: a wider integral subsumes a narrower one. boolean gets a
// negative width so nothing, not even another boolean, widens into it.
type intWidth int8

const (
	widthBoolean intWidth = -1
	widthByte    intWidth = 1
	widthChar    intWidth = 2
	widthShort   intWidth = 2
	widthInt     intWidth = 4
)

type intType struct {
	name  string
	width intWidth
}

func (t *intType) Kind() Kind     { return KindInt }
func (t *intType) Wide() bool     { return false }
func (t *intType) String() string { return t.name }
func (t *intType) Assignable(o Type) bool {
	other, ok := o.(*intType)
	if !ok || other.width < 0 {
		return false
	}
	return t.width >= other.width
}
func (t *intType) Verification() (Type, error) { return Int, nil }

var (
	// Boolean, Byte, Char, Short, Int are the integral primitives. Int is
	// also the verification kind all of them collapse to.
	Boolean Type = &intType{"boolean", widthBoolean}
	Byte    Type = &intType{"byte", widthByte}
	Char    Type = &intType{"char", widthChar}
	Short   Type = &intType{"short", widthShort}
	Int     Type = &intType{"int", widthInt}
)

// -- long / float / double ------------------------------------------------

type longType struct{}

// Long is the 64-bit integer primitive.
var Long Type = longType{}

func (longType) Kind() Kind     { return KindLong }
func (longType) Wide() bool     { return true }
func (longType) String() string { return "long" }
func (longType) Assignable(o Type) bool {
	if i, ok := o.(*intType); ok {
		return i.width > 0
	}
	return o == Long
}
func (t longType) Verification() (Type, error) { return t, nil }

type floatType struct{}

// Float is the 32-bit floating point primitive.
var Float Type = floatType{}

func (floatType) Kind() Kind     { return KindFloat }
func (floatType) Wide() bool     { return false }
func (floatType) String() string { return "float" }
func (floatType) Assignable(o Type) bool {
	if i, ok := o.(*intType); ok {
		return i.width > 0
	}
	return o == Float || o == Long
}
func (t floatType) Verification() (Type, error) { return t, nil }

type doubleType struct{}

// Double is the 64-bit floating point primitive.
var Double Type = doubleType{}

func (doubleType) Kind() Kind     { return KindDouble }
func (doubleType) Wide() bool     { return true }
func (doubleType) String() string { return "double" }
func (doubleType) Assignable(o Type) bool {
	if i, ok := o.(*intType); ok {
		return i.width > 0
	}
	return o == Double || o == Float || o == Long
}
func (t doubleType) Verification() (Type, error) { return t, nil }

// -- return address ---------------------------------------------------------

// ReturnAddress is the (JLS-deprecated) value kind pushed by jsr and
// consumed by ret. Two ReturnAddress values are equal only when their
// sources match, or when either source is nil (the "any" wildcard used
// before a jsr/ret pair has been matched).
type ReturnAddress struct {
	// Source identifies the jsr instruction that produced this value.
	// Compared by identity, not value.
	Source interface{}
}

func (r ReturnAddress) Kind() Kind { return KindReturnAddress }
func (r ReturnAddress) Wide() bool { return false }
func (r ReturnAddress) String() string {
	if r.Source != nil {
		return fmt.Sprintf("returnAddress<%v>", r.Source)
	}
	return "returnAddress"
}
func (r ReturnAddress) Assignable(o Type) bool {
	other, ok := o.(ReturnAddress)
	if !ok {
		return false
	}
	return r.Source == nil || other.Source == nil || r.Source == other.Source
}
func (r ReturnAddress) Verification() (Type, error) { return r, nil }

// -- uninitialized references ------------------------------------------------

// uninitializedThisType is the sole instance representing the receiver of
// an <init> method prior to its delegating/super constructor call.
type uninitializedThisType struct{}

// UninitializedThis is pushed into local 0 of every non-static <init> on
// method entry, initial frame).
var UninitializedThis Type = uninitializedThisType{}

func (uninitializedThisType) Kind() Kind     { return KindUninitializedThis }
func (uninitializedThisType) Wide() bool     { return false }
func (uninitializedThisType) String() string { return "uninitializedThis" }
func (uninitializedThisType) Assignable(o Type) bool {
	_, ok := o.(uninitializedThisType)
	return ok
}
func (t uninitializedThisType) Verification() (Type, error) { return t, nil }

// Uninitialized is a reference to a newly-allocated object whose <init> has
// not yet run. Source records the instruction offset that produced it so
// that a later <init> call can find and replace every alias of it.
type Uninitialized struct {
	// Source is opaque to vtype; the tracer stores the allocating `new`
	// instruction's offset here.
	Source interface{}
}

func (u Uninitialized) Kind() Kind { return KindUninitialized }
func (u Uninitialized) Wide() bool { return false }
func (u Uninitialized) String() string {
	if u.Source != nil {
		return fmt.Sprintf("uninitialized<%v>", u.Source)
	}
	return "uninitialized"
}
func (u Uninitialized) Assignable(o Type) bool {
	other, ok := o.(Uninitialized)
	if !ok {
		return false
	}
	return u.Source == nil || other.Source == nil || u.Source == other.Source
}
func (u Uninitialized) Verification() (Type, error) { return u, nil }

// -- Java reference types (class / interface / array / null) ---------------

// classInterner, interfaceInterner and arrayInterner cache Class/Interface/Array instances by their
// defining key so that pointer equality is a legal identity test. These maps
// are append-only and safe for concurrent reads.
var (
	classInterner     sync.Map // string -> *Class
	interfaceInterner sync.Map // string -> *Interface
	arrayInterner     sync.Map // Type -> *Array
)

// Class is a named reference type. The core never walks the Java class
// hierarchy; assignability stops at name equality or null.
type Class struct {
	name string
}

// NewClass interns and returns the Class named name.
func NewClass(name string) *Class {
	if v, ok := classInterner.Load(name); ok {
		return v.(*Class)
	}
	c := &Class{name: name}
	actual, _ := classInterner.LoadOrStore(name, c)
	return actual.(*Class)
}

// Object is the well-known java/lang/Object type: every JavaReference is
// assignable to it.
var Object = NewClass("java/lang/Object")

func (c *Class) Name() string { return c.name }
func (c *Class) Kind() Kind   { return KindClass }
func (c *Class) Wide() bool   { return false }
func (c *Class) String() string { return c.name }
func (c *Class) Assignable(o Type) bool {
	if c == Object {
		return IsReference(o)
	}
	if name, ok := referenceName(o); ok {
		return c.name == name
	}
	_, isNull := o.(nullType)
	return isNull
}

// referenceName extracts the class/interface name carried by t, if any.
func referenceName(t Type) (string, bool) {
	switch v := t.(type) {
	case *Class:
		return v.name, true
	case *Interface:
		return v.name, true
	}
	return "", false
}
func (c *Class) Verification() (Type, error) { return c, nil }

// Interface creates the interface-typed view of this class name.
func (c *Class) Interface() *Interface { return NewInterface(c.name) }

// Interface is a named interface type. Distinguishing interfaces from
// classes requires a complete class hierarchy the core deliberately does
// not have, so Interface behaves like Class for assignability purposes.
type Interface struct {
	Class
}

// NewInterface interns and returns the Interface named name.
func NewInterface(name string) *Interface {
	if v, ok := interfaceInterner.Load(name); ok {
		return v.(*Interface)
	}
	i := &Interface{Class{name: name}}
	actual, _ := interfaceInterner.LoadOrStore(name, i)
	return actual.(*Interface)
}

func (i *Interface) Kind() Kind                 { return KindInterface }
func (i *Interface) String() string             { return i.name }
func (i *Interface) Interface() *Interface      { return i }
func (i *Interface) Verification() (Type, error) { return i, nil }
func (i *Interface) Assignable(o Type) bool {
	if name, ok := referenceName(o); ok {
		return i.name == name
	}
	_, isNull := o.(nullType)
	return isNull
}

// IsReference reports whether t is an initialized Java reference type
// (Class, Interface, Array, or Null) — the set of types a merge at a join
// point can safely widen to Object. Uninitialized/UninitializedThis are
// deliberately excluded: an object whose <init> hasn't run yet must keep
// its precise (or uninitialized) type across a merge, not be widened away.
func IsReference(t Type) bool {
	switch t.(type) {
	case *Class, *Interface, *Array, nullType:
		return true
	}
	return false
}

// Array is covariant in its element type for reference elements only;
// primitive-element arrays are invariant.
type Array struct {
	element Type
}

// NewArray interns and returns the Array type with the given element type.
func NewArray(element Type) *Array {
	if v, ok := arrayInterner.Load(element); ok {
		return v.(*Array)
	}
	a := &Array{element: element}
	actual, _ := arrayInterner.LoadOrStore(element, a)
	return actual.(*Array)
}

// NestedArray builds a multi-dimensional array type: NestedArray(Int, 3)
// is the type of `int[][][]`.
func NestedArray(element Type, dimension int) (*Array, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("vtype: invalid array dimension %d", dimension)
	}
	t := NewArray(element)
	for i := 1; i < dimension; i++ {
		t = NewArray(t)
	}
	return t, nil
}

func (a *Array) Element() Type { return a.element }
func (a *Array) Kind() Kind    { return KindArray }
func (a *Array) Wide() bool    { return false }
func (a *Array) String() string { return a.element.String() + "[]" }
func (a *Array) Assignable(o Type) bool {
	switch other := o.(type) {
	case *Array:
		if _, primitive := a.element.(*intType); primitive {
			return a.element == other.element
		}
		switch a.element.(type) {
		case longType, floatType, doubleType:
			return a.element == other.element
		}
		return a.element.Assignable(other.element)
	case nullType:
		return true
	default:
		return false
	}
}
func (a *Array) Verification() (Type, error) { return a, nil }

// Dimension reports how many array levels deep element nesting goes.
func (a *Array) Dimension() int {
	dim := 1
	e := a.element
	for {
		inner, ok := e.(*Array)
		if !ok {
			return dim
		}
		dim++
		e = inner.element
	}
}

type nullType struct{}

// Null is the type of the null reference; every reference type accepts it.
var Null Type = nullType{}

func (nullType) Kind() Kind     { return KindNull }
func (nullType) Wide() bool     { return false }
func (nullType) String() string { return "null" }
func (nullType) Assignable(o Type) bool {
	_, ok := o.(nullType)
	return ok
}
func (t nullType) Verification() (Type, error) { return t, nil }

// Equal reports whether a and b are the same lattice node. Reference types
// compare by interned identity; value types by Go equality.
func Equal(a, b Type) bool {
	return a == b
}
