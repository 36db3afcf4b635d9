/*
 * TCL  Test set for TCL.
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

package repl

import (
	"strings"
	"testing"

	"github.com/opentcl/opentcl/tcl"
)

type testHost struct {
	procs *Processes
}

func (h *testHost) Processes() *Processes { return h.procs }

func newTestInterp() *tcl.Interp[*testHost] {
	in := tcl.NewInterp[*testHost](&testHost{procs: NewProcesses()})
	tcl.RegisterCore(in)
	Register(in)
	return in
}

func TestSpawnEchoRoundTrip(t *testing.T) {
	in := newTestInterp()
	v, err := in.EvalString(`set id [spawn cat]`)
	if err != nil {
		t.Fatalf("spawn error: %v", err)
	}
	if !strings.HasPrefix(v.String(), "spawn") {
		t.Fatalf("spawn id = %q, want a spawnN identifier", v.String())
	}

	if _, err := in.EvalString(`send $id "hello\n"`); err != nil {
		t.Fatalf("send error: %v", err)
	}

	out, err := in.EvalString(`recv $id 2000`)
	if err != nil {
		t.Fatalf("recv error: %v", err)
	}
	if strings.TrimRight(out.String(), "\r\n") != "hello" {
		t.Errorf("recv = %q, want %q", out.String(), "hello")
	}

	if _, err := in.EvalString(`disconnect $id`); err != nil {
		t.Errorf("disconnect error: %v", err)
	}
}

func TestRecvTimesOutWithNoOutput(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString(`set id [spawn cat]`); err != nil {
		t.Fatalf("spawn error: %v", err)
	}
	v, err := in.EvalString(`recv $id 50`)
	if err != nil {
		t.Fatalf("recv error: %v", err)
	}
	if v.String() != "" {
		t.Errorf("recv with no input = %q, want empty", v.String())
	}
	in.EvalString(`disconnect $id`)
}

func TestSpawnUnknownIDIsError(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString(`send nosuchspawn hi`); err == nil {
		t.Errorf("expected error for unknown spawn id, got none")
	}
}

func TestWaitReturnsExitStatus(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString(`set id [spawn true]`); err != nil {
		t.Fatalf("spawn error: %v", err)
	}
	v, err := in.EvalString(`wait $id`)
	if err != nil {
		t.Fatalf("wait error: %v", err)
	}
	if v.String() != "0" {
		t.Errorf("wait exit status = %q, want 0", v.String())
	}
}
