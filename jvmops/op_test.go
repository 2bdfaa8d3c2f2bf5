// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jvmops

import "testing"

func TestNew(t *testing.T) {
	op, err := New(OpNop)
	if err != nil {
		t.Fatalf("unexpected error from New: %v", err)
	}
	if op.Mnemonic != "nop" {
		t.Fatalf("0x00: unexpected mnemonic. got=%s, want=nop", op.Mnemonic)
	}
	if !op.IsValid() {
		t.Fatalf("0x00: operator %v is invalid (should be valid)", op)
	}

	op2, err := New(0xca)
	if err == nil {
		t.Fatalf("0xca: expected error while getting Op value")
	}
	if op2.IsValid() {
		t.Fatalf("0xca: operator %v is valid (should be invalid)", op2)
	}
}

func TestInvokeSpecialIsInvokeInit(t *testing.T) {
	if !IsInvoke(OpInvokeSpecial) {
		t.Fatalf("invokespecial should report IsInvoke")
	}
	if !IsInvokeInit(OpInvokeSpecial) {
		t.Fatalf("invokespecial should report IsInvokeInit")
	}
	if IsInvokeInit(OpInvokeStatic) {
		t.Fatalf("invokestatic must not report IsInvokeInit")
	}
}

func TestLocalIndexImplicit(t *testing.T) {
	cases := []struct {
		opcode byte
		want   int
	}{
		{OpILoad0, 0}, {OpILoad3, 3},
		{OpAStore2, 2},
		{OpILoad, -1}, // explicit-operand form carries no implicit index
	}
	for _, c := range cases {
		if got := LocalIndex(c.opcode); got != c.want {
			t.Errorf("LocalIndex(0x%02x) = %d, want %d", c.opcode, got, c.want)
		}
	}
}

func TestWideMutation(t *testing.T) {
	op, ok := WideMutation(OpIInc)
	if !ok {
		t.Fatalf("expected a wide mutation for iinc")
	}
	if op.Mnemonic != "wide iinc" {
		t.Fatalf("unexpected wide mnemonic: %s", op.Mnemonic)
	}
	if _, ok := WideMutation(OpNop); ok {
		t.Fatalf("nop must not have a wide mutation")
	}
}

func TestOperandWidth(t *testing.T) {
	cases := []struct {
		opcode byte
		want   int
	}{
		{OpNop, 0},
		{OpBIPush, 1},
		{OpSIPush, 2},
		{OpMultiANewArray, 3},
		{OpInvokeInterface, 4},
		{OpTableSwitch, -1},
	}
	for _, c := range cases {
		if got := OperandWidth(c.opcode); got != c.want {
			t.Errorf("OperandWidth(0x%02x) = %d, want %d", c.opcode, got, c.want)
		}
	}
}

func TestBranchOffsetRoundTrip(t *testing.T) {
	want := int32(-12345)
	got := BranchOffset16(EncodeBranchOffset16(want))
	if got != want {
		t.Errorf("16-bit round trip: got=%d want=%d", got, want)
	}

	want32 := int32(-123456789)
	got32 := BranchOffset32(EncodeBranchOffset32(want32))
	if got32 != want32 {
		t.Errorf("32-bit round trip: got=%d want=%d", got32, want32)
	}
}
