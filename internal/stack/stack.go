// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stack implements a simple integer stack used by the CFG builder's
// split/target worklists.
package stack

// Stack is a LIFO stack of ints, backed by a grow-only slice.
type Stack struct {
	slice []int
}

// Push appends n to the top of the stack.
func (s *Stack) Push(n int) {
	s.slice = append(s.slice, n)
}

// Pop removes and returns the top of the stack.
func (s *Stack) Pop() int {
	v := s.slice[len(s.slice)-1]
	s.slice = s.slice[:len(s.slice)-1]
	return v
}

// Top returns the top of the stack without removing it.
func (s *Stack) Top() int {
	return s.slice[len(s.slice)-1]
}

// SetTop replaces the top of the stack.
func (s *Stack) SetTop(n int) {
	s.slice[len(s.slice)-1] = n
}

// Get returns the value at index i, 0 being the bottom of the stack.
func (s *Stack) Get(i int) int {
	return s.slice[i]
}

// Set replaces the value at index i.
func (s *Stack) Set(i, n int) {
	s.slice[i] = n
}

// Len reports the number of elements on the stack.
func (s *Stack) Len() int {
	return len(s.slice)
}

// Empty reports whether the stack holds no elements.
func (s *Stack) Empty() bool {
	return len(s.slice) == 0
}
