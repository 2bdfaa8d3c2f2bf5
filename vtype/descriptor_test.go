package vtype

import "testing"

func TestParseFieldDescriptor(t *testing.T) {
	cases := []struct {
		descriptor string
		want       Type
	}{
		{"I", Int},
		{"Z", Boolean},
		{"[I", nil}, // checked structurally below
		{"Ljava/lang/String;", NewClass("java/lang/String")},
	}
	for _, c := range cases {
		got, err := ParseFieldDescriptor(c.descriptor)
		if err != nil {
			t.Fatalf("ParseFieldDescriptor(%q): %v", c.descriptor, err)
		}
		if c.descriptor == "[I" {
			arr, ok := got.(*Array)
			if !ok || arr.Element() != Int {
				t.Errorf("ParseFieldDescriptor(%q) = %v, want int[]", c.descriptor, got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("ParseFieldDescriptor(%q) = %v, want %v", c.descriptor, got, c.want)
		}
	}

	if _, err := ParseFieldDescriptor("V"); err == nil {
		t.Errorf("void should be rejected as a field descriptor")
	}
	if _, err := ParseFieldDescriptor(""); err == nil {
		t.Errorf("empty descriptor should error")
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	args, ret, err := ParseMethodDescriptor("(ILjava/lang/String;[D)V")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(args))
	}
	if args[0] != Int {
		t.Errorf("arg0 = %v, want Int", args[0])
	}
	if args[1] != NewClass("java/lang/String") {
		t.Errorf("arg1 = %v, want String", args[1])
	}
	if arr, ok := args[2].(*Array); !ok || arr.Element() != Double {
		t.Errorf("arg2 = %v, want double[]", args[2])
	}
	if ret != Void {
		t.Errorf("return type = %v, want Void", ret)
	}

	if _, _, err := ParseMethodDescriptor("()I"); err != nil {
		t.Errorf("no-arg method descriptor should parse: %v", err)
	}
	if _, _, err := ParseMethodDescriptor("I"); err == nil {
		t.Errorf("a descriptor without parens should error")
	}
}
