// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"flag"
	"os"
	"testing"
)

func TestProcess(t *testing.T) {
	opts := []string{"-h", "-d", "-x", "-t"}
	if err := flag.CommandLine.Parse(opts); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		name string
		want string
	}{
		{
			name: "testdata/add.json",
			want: "testdata/add.golden.txt",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := new(bytes.Buffer)
			if err := process(out, tc.name); err != nil {
				t.Fatal(err)
			}

			want, err := os.ReadFile(tc.want)
			if err != nil {
				t.Fatal(err)
			}

			if got := out.Bytes(); !bytes.Equal(got, want) {
				t.Fatalf("invalid output.\ngot:\n%s\nwant:\n%s\n", string(got), string(want))
			}
		})
	}
}
