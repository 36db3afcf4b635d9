/*
 * TCL  Test set for Value.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package tcl

import "testing"

func TestValueString(t *testing.T) {
	testCases := []struct {
		v    *Value
		want string
	}{
		{NewString("hello"), "hello"},
		{NewInt(42), "42"},
		{NewInt(-7), "-7"},
		{NewFloat(1.5), "1.5"},
		{NewBool(true), "1"},
		{NewBool(false), "0"},
		{NewList(NewString("a"), NewString("b c")), "a {b c}"},
		{Empty(), ""},
	}
	for _, test := range testCases {
		if got := test.v.String(); got != test.want {
			t.Errorf("String() = %q, want %q", got, test.want)
		}
	}
}

func TestValueInt(t *testing.T) {
	testCases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"-7", -7, false},
		{"0x1F", 31, false},
		{"0b101", 5, false},
		{"  12  ", 12, false},
		{"abc", 0, true},
		{"3.5", 0, true},
	}
	for _, test := range testCases {
		v := NewString(test.in)
		got, err := v.Int()
		if (err != nil) != test.wantErr {
			t.Errorf("Int(%q) error = %v, wantErr %v", test.in, err, test.wantErr)
			continue
		}
		if err == nil && got != test.want {
			t.Errorf("Int(%q) = %d, want %d", test.in, got, test.want)
		}
	}
}

func TestValueBool(t *testing.T) {
	testCases := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"YES", true, false},
		{"on", true, false},
		{"1", true, false},
		{"false", false, false},
		{"no", false, false},
		{"off", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}
	for _, test := range testCases {
		got, err := NewString(test.in).Bool()
		if (err != nil) != test.wantErr {
			t.Errorf("Bool(%q) error = %v, wantErr %v", test.in, err, test.wantErr)
			continue
		}
		if err == nil && got != test.want {
			t.Errorf("Bool(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestValueShimmerPreservesOriginalString(t *testing.T) {
	v := NewString("007")
	n, err := v.Int()
	if err != nil || n != 7 {
		t.Fatalf("Int() = %d, %v", n, err)
	}
	if got := v.String(); got != "007" {
		t.Errorf("String() after shimmer = %q, want %q", got, "007")
	}
}

func TestValueList(t *testing.T) {
	v := NewString("a b {c d}")
	items, err := v.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("List() len = %d, want 3", len(items))
	}
	if items[2].String() != "c d" {
		t.Errorf("items[2] = %q, want %q", items[2].String(), "c d")
	}
}

func TestValueListIndex(t *testing.T) {
	v := NewList(NewString("a"), NewString("b"), NewString("c"))
	testCases := []struct {
		idx  int
		want string
	}{
		{0, "a"},
		{2, "c"},
		{5, ""},
		{-1, ""},
	}
	for _, test := range testCases {
		got, err := v.ListIndex(test.idx)
		if err != nil {
			t.Errorf("ListIndex(%d) error: %v", test.idx, err)
			continue
		}
		if got.String() != test.want {
			t.Errorf("ListIndex(%d) = %q, want %q", test.idx, got.String(), test.want)
		}
	}
}

func TestValueListSet(t *testing.T) {
	v := NewList(NewString("a"), NewString("b"), NewString("c"))
	nv, err := v.ListSet(1, NewString("z"))
	if err != nil {
		t.Fatalf("ListSet() error: %v", err)
	}
	if nv.String() != "a z c" {
		t.Errorf("ListSet result = %q, want %q", nv.String(), "a z c")
	}
	if v.String() != "a b c" {
		t.Errorf("original mutated: %q", v.String())
	}
	if _, err := v.ListSet(10, NewString("z")); err == nil {
		t.Errorf("ListSet(10) expected error, got none")
	}
}

func TestValueDict(t *testing.T) {
	v := NewString("a 1 b 2")
	d, err := v.Dict()
	if err != nil {
		t.Fatalf("Dict() error: %v", err)
	}
	got, ok := d.Get("b")
	if !ok || got.String() != "2" {
		t.Errorf("Dict().Get(b) = %v, %v, want 2, true", got, ok)
	}
	if _, err := NewString("a 1 b").Dict(); err == nil {
		t.Errorf("Dict() with odd elements expected error, got none")
	}
}
