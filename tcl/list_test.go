/*
 * TCL  Test set for list syntax.
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

import (
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	testCases := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"", nil, false},
		{"a b c", []string{"a", "b", "c"}, false},
		{"a {b c} d", []string{"a", "b c", "d"}, false},
		{`a "b c" d`, []string{"a", "b c", "d"}, false},
		{"  a   b  ", []string{"a", "b"}, false},
		{`a\ b c`, []string{"a b", "c"}, false},
		{"{unterminated", nil, true},
		{`"unterminated`, nil, true},
	}
	for _, test := range testCases {
		got, err := ParseList(test.in)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseList(%q) error = %v, wantErr %v", test.in, err, test.wantErr)
			continue
		}
		if err == nil && !reflect.DeepEqual(got, test.want) {
			t.Errorf("ParseList(%q) = %#v, want %#v", test.in, got, test.want)
		}
	}
}

func TestFormatList(t *testing.T) {
	testCases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a", "b"}, "a b"},
		{[]string{"a b", "c"}, "{a b} c"},
		{[]string{""}, "{}"},
		{[]string{"a{b"}, `a\{b`},
	}
	for _, test := range testCases {
		if got := FormatList(test.in); got != test.want {
			t.Errorf("FormatList(%#v) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestListRoundTrip(t *testing.T) {
	testCases := [][]string{
		{"a", "b", "c"},
		{"hello world", "x"},
		{"with {braces}", "y"},
		{"trailing\\"},
		{},
	}
	for _, elems := range testCases {
		s := FormatList(elems)
		got, err := ParseList(s)
		if err != nil {
			t.Errorf("round trip ParseList(FormatList(%#v)) error: %v", elems, err)
			continue
		}
		if len(got) != len(elems) {
			t.Errorf("round trip %#v -> %q -> %#v, length mismatch", elems, s, got)
			continue
		}
		for i := range elems {
			if got[i] != elems[i] {
				t.Errorf("round trip %#v -> %q -> %#v", elems, s, got)
				break
			}
		}
	}
}

func TestDecodeEscape(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{`\n`, "\n"},
		{`\t`, "\t"},
		{`\\`, `\`},
		{`\x41`, "A"},
		{`\101`, "A"},
	}
	for _, test := range testCases {
		got, n := decodeEscape(test.in, 0)
		if got != test.want || n != len(test.in) {
			t.Errorf("decodeEscape(%q) = %q, %d, want %q, %d", test.in, got, n, test.want, len(test.in))
		}
	}
}
