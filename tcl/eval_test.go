/*
 * TCL  Test set for the evaluator.
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
	"strings"
	"testing"
)

func newTestInterp() *Interp[int] {
	in := NewInterp[int](0)
	RegisterCore(in)
	in.Register("add", 2, 2, func(in *Interp[int], args []*Value) Completion {
		a, err := args[1].Int()
		if err != nil {
			return Err(err)
		}
		b, err := args[2].Int()
		if err != nil {
			return Err(err)
		}
		return Ok(NewInt(a + b))
	})
	// "set" lives in stdlib, which this package cannot import.
	in.Register("set", 1, 2, func(in *Interp[int], args []*Value) Completion {
		if len(args) > 2 {
			if err := in.SetVar(args[1].String(), args[2]); err != nil {
				return Err(err)
			}
			return Ok(args[2])
		}
		v, err := in.GetVar(args[1].String())
		if err != nil {
			return Err(err)
		}
		return Ok(v)
	})
	return in
}

func TestEvalStringBasic(t *testing.T) {
	in := newTestInterp()
	testCases := []struct {
		src  string
		want string
	}{
		{"set x 5", "5"},
		{"set x 5; add $x 3", "8"},
		{"set y {hello world}; set y", "hello world"},
	}
	for _, test := range testCases {
		v, err := in.EvalString(test.src)
		if err != nil {
			t.Errorf("EvalString(%q) error: %v", test.src, err)
			continue
		}
		if v.String() != test.want {
			t.Errorf("EvalString(%q) = %q, want %q", test.src, v.String(), test.want)
		}
	}
}

func TestEvalStringInvalidCommand(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString("nosuchcommand 1 2"); err == nil {
		t.Errorf("expected error for unknown command, got none")
	}
}

func TestEvalStringBreakOutsideLoopIsError(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString("break"); err == nil {
		t.Errorf("expected error for break outside a loop, got none")
	}
}

func TestEvalProcDefinitionAndCall(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString("proc double {x} { return [add $x $x] }"); err != nil {
		t.Fatalf("proc definition error: %v", err)
	}
	v, err := in.EvalString("double 21")
	if err != nil {
		t.Fatalf("proc call error: %v", err)
	}
	if v.String() != "42" {
		t.Errorf("double 21 = %q, want 42", v.String())
	}
}

func TestEvalProcDefaultArg(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString("proc greet {{name world}} { return $name }"); err != nil {
		t.Fatalf("proc definition error: %v", err)
	}
	v, err := in.EvalString("greet")
	if err != nil || v.String() != "world" {
		t.Fatalf("greet (default) = %v, %v, want world, nil", v, err)
	}
	v, err = in.EvalString("greet there")
	if err != nil || v.String() != "there" {
		t.Fatalf("greet there = %v, %v, want there, nil", v, err)
	}
}

func TestEvalProcArgsCollector(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString(`proc count {args} { return [llength $args] }`); err != nil {
		t.Fatalf("proc definition error: %v", err)
	}
	in.Register("llength", 1, 1, func(in *Interp[int], args []*Value) Completion {
		n, err := args[1].ListLen()
		if err != nil {
			return Err(err)
		}
		return Ok(NewInt(int64(n)))
	})
	v, err := in.EvalString("count a b c d")
	if err != nil || v.String() != "4" {
		t.Fatalf("count a b c d = %v, %v, want 4, nil", v, err)
	}
}

func TestEvalCatch(t *testing.T) {
	in := newTestInterp()
	v, err := in.EvalString(`catch {error boom} msg`)
	if err != nil {
		t.Fatalf("catch error: %v", err)
	}
	if v.String() != "1" {
		t.Errorf("catch code = %q, want 1", v.String())
	}
	msg, err := in.GetVar("msg")
	if err != nil || msg.String() != "boom" {
		t.Errorf("msg = %v, %v, want boom, nil", msg, err)
	}
}

func TestEvalCatchOptionsVar(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString(`catch {error boom {} MYCODE} msg opts`); err != nil {
		t.Fatalf("catch error: %v", err)
	}
	optsVal, err := in.GetVar("opts")
	if err != nil {
		t.Fatalf("GetVar(opts) error: %v", err)
	}
	opts, err := optsVal.Dict()
	if err != nil {
		t.Fatalf("opts.Dict() error: %v", err)
	}
	if code, ok := opts.Get("-code"); !ok || code.String() != "1" {
		t.Errorf("opts -code = %v, %v, want 1, true", code, ok)
	}
	if errCode, ok := opts.Get("-errorcode"); !ok || errCode.String() != "MYCODE" {
		t.Errorf("opts -errorcode = %v, %v, want MYCODE, true", errCode, ok)
	}
}

func TestEvalUnsetMissingIsSilentByDefault(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString(`unset noSuchVar`); err != nil {
		t.Errorf("unset of missing variable returned error %v, want silent no-op", err)
	}
	if _, err := in.EvalString(`unset -nocomplain anotherMissingVar`); err != nil {
		t.Errorf("unset -nocomplain returned error %v, want silent no-op", err)
	}
}

func TestEvalUpvar(t *testing.T) {
	in := newTestInterp()
	script := `
set x 1
proc bump {} {
	upvar 1 x y
	set y [add $y 1]
}
bump
set x
`
	v, err := in.EvalString(script)
	if err != nil {
		t.Fatalf("EvalString error: %v", err)
	}
	if v.String() != "2" {
		t.Errorf("x after bump = %q, want 2", v.String())
	}
}

func TestEvalSubst(t *testing.T) {
	in := newTestInterp()
	if err := in.SetVar("name", NewString("world")); err != nil {
		t.Fatalf("SetVar error: %v", err)
	}
	v, c := in.Subst("hello $name, [add 1 2]")
	if c.Code != CodeOK {
		t.Fatalf("Subst completion = %v, want OK", c.Code)
	}
	if v.String() != "hello world, 3" {
		t.Errorf("Subst() = %q, want %q", v.String(), "hello world, 3")
	}
}

func TestEvalErrorTraceMentionsCommand(t *testing.T) {
	in := newTestInterp()
	_, err := in.EvalString("nosuch a b")
	if err == nil {
		t.Fatalf("expected error, got none")
	}
	if !strings.Contains(err.Error(), "invalid command name") {
		t.Errorf("error = %q, want it to mention invalid command name", err.Error())
	}
}
