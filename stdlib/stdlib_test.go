/*
 * Test set for the standard-library command set.
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

package stdlib

import (
	"strings"
	"testing"

	"github.com/opentcl/opentcl/tcl"
)

func newTestInterp() *tcl.Interp[int] {
	in := tcl.NewInterp[int](0)
	tcl.RegisterCore(in)
	Register(in)
	return in
}

func evalString(t *testing.T, in *tcl.Interp[int], src string) string {
	t.Helper()
	v, err := in.EvalString(src)
	if err != nil {
		t.Fatalf("EvalString(%q) error: %v", src, err)
	}
	return v.String()
}

func TestListCommands(t *testing.T) {
	testCases := []struct {
		src  string
		want string
	}{
		{"list a b c", "a b c"},
		{"llength {a b c}", "3"},
		{"lindex {a b c} 1", "b"},
		{"lindex {{a b} {c d}} 1 0", "c"},
		{"lindex {a b c} end", "c"},
		{"lrange {a b c d} 1 2", "b c"},
		{"linsert {a c} 1 b", "a b c"},
		{"lreplace {a b c d} 1 2 x", "a x d"},
		{"set l {a b c}; lset l 1 z; set l", "a z c"},
		{"lsort {c a b}", "a b c"},
		{"lsort -decreasing -integer {3 1 2}", "3 2 1"},
		{"lsearch {a b c} b", "1"},
		{"lsearch -inline {a b c} b", "b"},
		{"split a.b.c .", "a b c"},
		{"set out {}; foreach x {1 2 3} { lappend out [expr $x*2] }; set out", "2 4 6"},
	}
	for _, test := range testCases {
		in := newTestInterp()
		if got := evalString(t, in, test.src); got != test.want {
			t.Errorf("%q = %q, want %q", test.src, got, test.want)
		}
	}
}

func TestLAppend(t *testing.T) {
	in := newTestInterp()
	if got := evalString(t, in, "lappend l a b"); got != "a b" {
		t.Fatalf("lappend l a b = %q, want %q", got, "a b")
	}
	if got := evalString(t, in, "lappend l c"); got != "a b c" {
		t.Errorf("lappend l c = %q, want %q", got, "a b c")
	}
}

func TestStringCommands(t *testing.T) {
	testCases := []struct {
		src  string
		want string
	}{
		{`string length hello`, "5"},
		{`string index hello 1`, "e"},
		{`string range hello 1 3`, "ell"},
		{`string toupper hello`, "HELLO"},
		{`string tolower HELLO`, "hello"},
		{`string totitle hello`, "Hello"},
		{`string trim "  hi  "`, "hi"},
		{`string trimleft "  hi  "`, "hi  "},
		{`string first l hello`, "2"},
		{`string last l hello`, "3"},
		{`string compare abc abd`, "-1"},
		{`string equal abc abc`, "1"},
		{`string repeat ab 3`, "ababab"},
		{`string match a*c abc`, "1"},
		{`string match a*c abx`, "0"},
		{`string is digit 123`, "1"},
		{`string is digit 12a`, "0"},
		{`string is alpha ""`, "1"},
		{`string map {a X b Y} aabbcc`, "XXYYcc"},
		{`string replace hello 1 2 ZZ`, "hZZlo"},
	}
	for _, test := range testCases {
		in := newTestInterp()
		if got := evalString(t, in, test.src); got != test.want {
			t.Errorf("%q = %q, want %q", test.src, got, test.want)
		}
	}
}

func TestExprCommand(t *testing.T) {
	testCases := []struct {
		src  string
		want string
	}{
		{"expr 1 + 2", "3"},
		{"expr 2 + 3 * 4", "14"},
		{"expr (2 + 3) * 4", "20"},
		{"expr 2 ** 3 ** 2", "512"},
		{"expr 10 / 3", "3"},
		{"expr 10 % 3", "1"},
		{"expr 10.0 / 4", "2.5"},
		{"expr 1 == 1", "1"},
		{"expr 1 != 1", "0"},
		{"expr 3 > 2 && 1 < 2", "1"},
		{"expr !0", "1"},
		{"expr -5 + 2", "-3"},
		{"expr {1 << 4}", "16"},
		{"set x 5; expr {$x * 2}", "10"},
		{"expr {sqrt(16)}", "4"},
		{"expr {0x10 + 0b10}", "18"},
		{"expr {010}", "10"},
	}
	for _, test := range testCases {
		in := newTestInterp()
		if got := evalString(t, in, test.src); got != test.want {
			t.Errorf("%q = %q, want %q", test.src, got, test.want)
		}
	}
}

func TestExprDivideByZero(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString("expr 1 / 0"); err == nil {
		t.Errorf("expected divide by zero error, got none")
	}
}

func TestLoopCommands(t *testing.T) {
	testCases := []struct {
		src  string
		want string
	}{
		{"if {1} { set x yes } else { set x no }", "yes"},
		{"if {0} { set x yes } else { set x no }", "no"},
		{"set i 0; while {$i < 3} { incr i }; set i", "3"},
		{"set s 0; for {set i 0} {$i < 4} {incr i} { incr s $i }; set s", "6"},
		{"switch b { a { set r A } b { set r B } default { set r D } }; set r", "B"},
		{"switch x { a - b { set r AB } default { set r D } }; set r", "D"},
	}
	for _, test := range testCases {
		in := newTestInterp()
		if got := evalString(t, in, test.src); got != test.want {
			t.Errorf("%q = %q, want %q", test.src, got, test.want)
		}
	}
}

func TestMiscCommands(t *testing.T) {
	testCases := []struct {
		src  string
		want string
	}{
		{"set x 5; set x", "5"},
		{"set x 1; incr x 4", "5"},
		{"set x 5; decr x 2", "3"},
		{"concat a b {c d}", "a b c d"},
		{"join {a b c} -", "a-b-c"},
		{"set s hi; append s there", "hithere"},
		{"subst {1 + 1 = [expr 1+1]}", "1 + 1 = 2"},
		{"proc f {} { return ok }; rename f g; g", "ok"},
	}
	for _, test := range testCases {
		in := newTestInterp()
		if got := evalString(t, in, test.src); got != test.want {
			t.Errorf("%q = %q, want %q", test.src, got, test.want)
		}
	}
}

func TestInfoCommand(t *testing.T) {
	in := newTestInterp()
	evalString(t, in, "set x 1")
	if got := evalString(t, in, "info exists x"); got != "1" {
		t.Errorf("info exists x = %q, want 1", got)
	}
	if got := evalString(t, in, "info exists nope"); got != "0" {
		t.Errorf("info exists nope = %q, want 0", got)
	}
	if got := evalString(t, in, "info commands set"); got != "set" {
		t.Errorf("info commands set = %q, want set", got)
	}
}

func TestPutsWritesToOutput(t *testing.T) {
	in := newTestInterp()
	var buf strings.Builder
	in.Output = &buf
	if _, err := in.EvalString("puts hello"); err != nil {
		t.Fatalf("EvalString error: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("Output = %q, want %q", buf.String(), "hello\n")
	}
}
