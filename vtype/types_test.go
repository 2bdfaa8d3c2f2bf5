// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtype

import "testing"

func TestIntegerWidthAssignability(t *testing.T) {
	cases := []struct {
		to, from Type
		want     bool
	}{
		{Int, Byte, true},
		{Int, Short, true},
		{Int, Char, true},
		{Int, Boolean, false},
		{Byte, Int, false},
		{Short, Char, true},
		{Boolean, Boolean, false},
		{Int, Int, true},
	}
	for _, c := range cases {
		if got := c.to.Assignable(c.from); got != c.want {
			t.Errorf("%v.Assignable(%v) = %v, want %v", c.to, c.from, got, c.want)
		}
	}
}

func TestWideningToLongFloatDouble(t *testing.T) {
	if !Long.Assignable(Int) {
		t.Errorf("long should accept int")
	}
	if !Float.Assignable(Long) {
		t.Errorf("float should accept long")
	}
	if !Double.Assignable(Float) {
		t.Errorf("double should accept float")
	}
	if Long.Assignable(Float) {
		t.Errorf("long should not accept float")
	}
	if Int.Assignable(Long) {
		t.Errorf("int should not accept long")
	}
}

func TestTopOneWordTwoWord(t *testing.T) {
	if !Top.Assignable(Long) || !Top.Assignable(Int) || !Top.Assignable(NewClass("java/lang/Object")) {
		t.Errorf("Top should accept everything")
	}
	if !OneWord.Assignable(Int) || !OneWord.Assignable(Null) {
		t.Errorf("OneWord should accept int and null")
	}
	if OneWord.Assignable(Long) {
		t.Errorf("OneWord should not accept long")
	}
	if !TwoWord.Assignable(Long) || !TwoWord.Assignable(Double) {
		t.Errorf("TwoWord should accept long and double")
	}
	if TwoWord.Assignable(Int) {
		t.Errorf("TwoWord should not accept int")
	}
}

func TestVoidHasNoVerificationType(t *testing.T) {
	if _, err := Void.Verification(); err != ErrNoVerificationType {
		t.Errorf("Void.Verification() should fail with ErrNoVerificationType, got %v", err)
	}
	if v, err := Int.Verification(); err != nil || v != Int {
		t.Errorf("Int.Verification() = %v, %v; want Int, nil", v, err)
	}
	if v, err := Byte.Verification(); err != nil || v != Int {
		t.Errorf("Byte.Verification() = %v, %v; want Int, nil", v, err)
	}
}

func TestClassInterning(t *testing.T) {
	a := NewClass("java/lang/String")
	b := NewClass("java/lang/String")
	if a != b {
		t.Errorf("NewClass should intern: got distinct pointers for the same name")
	}
}

func TestClassAssignability(t *testing.T) {
	object := NewClass("java/lang/Object")
	str := NewClass("java/lang/String")
	iface := NewInterface("java/lang/Runnable")

	if !object.Assignable(str) {
		t.Errorf("Object should accept any class")
	}
	if !object.Assignable(iface) {
		t.Errorf("Object should accept any interface")
	}
	if str.Assignable(object) {
		t.Errorf("String should not (statically) accept Object")
	}
	if !str.Assignable(Null) {
		t.Errorf("String should accept null")
	}

	sameName := NewInterface("java/lang/String")
	if !str.Assignable(sameName) {
		t.Errorf("Class and Interface sharing a name should be name-equal for assignability")
	}
}

func TestInterfaceIdentityNotLostThroughEmbedding(t *testing.T) {
	iface := NewInterface("java/lang/Runnable")
	if iface.Kind() != KindInterface {
		t.Errorf("Interface.Kind() = %v, want KindInterface (method promotion must not leak through)", iface.Kind())
	}
	v, err := iface.Verification()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(*Interface); !ok {
		t.Errorf("Interface.Verification() returned %T, want *Interface", v)
	}
}

func TestArrayCovarianceAndDimension(t *testing.T) {
	object := NewClass("java/lang/Object")
	str := NewClass("java/lang/String")
	strArray := NewArray(str)
	objArray := NewArray(object)

	if !objArray.Assignable(strArray) {
		t.Errorf("Object[] should accept String[] (reference covariance)")
	}
	if strArray.Assignable(objArray) {
		t.Errorf("String[] should not accept Object[]")
	}

	intArray := NewArray(Int)
	shortArray := NewArray(Short)
	if intArray.Assignable(shortArray) {
		t.Errorf("primitive-element arrays must be invariant")
	}

	nested, err := NestedArray(Int, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nested.Dimension() != 3 {
		t.Errorf("Dimension() = %d, want 3", nested.Dimension())
	}

	if _, err := NestedArray(Int, 0); err == nil {
		t.Errorf("expected an error for a non-positive dimension")
	}
}

func TestUninitializedAndReturnAddressIdentity(t *testing.T) {
	u1 := Uninitialized{Source: 10}
	u2 := Uninitialized{Source: 10}
	u3 := Uninitialized{Source: 20}
	if !u1.Assignable(u2) {
		t.Errorf("Uninitialized with matching source should be assignable")
	}
	if u1.Assignable(u3) {
		t.Errorf("Uninitialized with mismatched source should not be assignable")
	}

	wild := Uninitialized{}
	if !wild.Assignable(u3) {
		t.Errorf("a nil source should act as a wildcard")
	}

	r1 := ReturnAddress{Source: 1}
	r2 := ReturnAddress{Source: 1}
	r3 := ReturnAddress{Source: 2}
	if !r1.Assignable(r2) {
		t.Errorf("ReturnAddress with matching source should be assignable")
	}
	if r1.Assignable(r3) {
		t.Errorf("ReturnAddress with mismatched source should not be assignable")
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Int, Int) {
		t.Errorf("Int should equal itself")
	}
	if Equal(Int, Long) {
		t.Errorf("Int should not equal Long")
	}
	a := NewClass("a/B")
	if !Equal(a, NewClass("a/B")) {
		t.Errorf("interned classes should be Equal")
	}
}
