// Copyright (C) 2026 Sibuge. All Rights Reserved.

package ast_test

import (
	"math"
	"testing"

	"github.com/Sibuge/jfeed/ast"
	"github.com/google/go-cmp/cmp"
)

func TestValueJSON(t *testing.T) {
	tests := []struct {
		value ast.Value
		want  string
	}{
		{ast.Null{}, `null`},
		{ast.Bool(true), `true`},
		{ast.Bool(false), `false`},
		{ast.Number(0), `0`},
		{ast.Number(-25), `-25`},
		{ast.Number(2.5), `2.5`},
		{ast.String(""), `""`},
		{ast.String("a b"), `"a b"`},

		// Quotation marks and backslashes are escaped; other printable
		// bytes, including non-ASCII text, pass through as they are.
		{ast.String(`say "hey"`), `"say \"hey\""`},
		{ast.String(`C:\temp`), `"C:\\temp"`},
		{ast.String("héllo→\U0001f600"), `"héllo→😀"`},

		// Control characters take their short escapes where JSON defines
		// one, and \u00XX otherwise.
		{ast.String("\b\f\n\r\t"), `"\b\f\n\r\t"`},
		{ast.String("\x00\x01\x1f"), `"\u0000\u0001\u001f"`},
		{ast.String("\"\\\n\x01"), `"\"\\\n\u0001"`},
		{ast.String("line\nfeed\x7f"), `"line\nfeed` + "\x7f" + `"`},

		{ast.Array{}, `[]`},
		{ast.Array{ast.Number(1), ast.String("x"), ast.Null{}}, `[1,"x",null]`},
		{ast.Object{}, `{}`},
		{ast.Object{
			{Key: "a", Value: ast.Number(1)},
			{Key: "b c", Value: ast.Array{ast.Bool(true)}},
		}, `{"a":1,"b c":[true]}`},
		{&ast.Error{Message: `bad "input"`}, `"bad \"input\""`},
	}
	for _, test := range tests {
		if got := test.value.JSON(); got != test.want {
			t.Errorf("JSON %+v: got %#q, want %#q", test.value, got, test.want)
		}
	}
}

func TestNumberJSON(t *testing.T) {
	tests := []struct {
		value ast.Number
		want  string
	}{
		// Integral values inside the exactly-representable range render
		// without a point or exponent.
		{0, `0`},
		{-1, `-1`},
		{999999999999999, `999999999999999`},
		{-999999999999999, `-999999999999999`},
		{5e9, `5000000000`},

		// Everything else uses the shortest round-tripping form.
		{1e15, `1e+15`},
		{-0.00001, `-1e-05`},
		{ast.Number(math.Copysign(0, -1)), `-0`},
		{12.75, `12.75`},
		{1e100, `1e+100`},
	}
	for _, test := range tests {
		if got := test.value.JSON(); got != test.want {
			t.Errorf("JSON %v: got %q, want %q", float64(test.value), got, test.want)
		}
	}
}

func TestObject(t *testing.T) {
	o := ast.Object{}

	o = o.Set("a", ast.Number(1))
	o = o.Set("b", ast.String("two"))
	o = o.Set("a", ast.Number(3)) // replaces, stays in place

	want := ast.Object{
		{Key: "a", Value: ast.Number(3)},
		{Key: "b", Value: ast.String("two")},
	}
	if diff := cmp.Diff(want, o); diff != "" {
		t.Errorf("Object after Set: (-want, +got)\n%s", diff)
	}

	if m := o.Find("b"); m == nil {
		t.Error(`Find("b"): got nil, want member`)
	} else if got := m.Value.JSON(); got != `"two"` {
		t.Errorf(`Find("b"): got value %s, want "two"`, got)
	}
	if m := o.Find("nonesuch"); m != nil {
		t.Errorf(`Find("nonesuch"): got %+v, want nil`, m)
	}
}

func TestError(t *testing.T) {
	e := &ast.Error{Message: "at 3:7: unexpected '@'"}
	if got := e.Error(); got != e.Message {
		t.Errorf("Error: got %q, want %q", got, e.Message)
	}
	var v ast.Value = e // *Error doubles as a stream record
	if got, want := v.JSON(), `"at 3:7: unexpected '@'"`; got != want {
		t.Errorf("JSON: got %#q, want %#q", got, want)
	}
}
