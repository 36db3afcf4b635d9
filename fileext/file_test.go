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

package fileext

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/opentcl/opentcl/stdlib"
	"github.com/opentcl/opentcl/tcl"
)

type testHost struct {
	ch *Channels
}

func (h *testHost) FileChannels() *Channels { return h.ch }

func newTestInterp() *tcl.Interp[*testHost] {
	in := tcl.NewInterp[*testHost](&testHost{ch: NewChannels()})
	tcl.RegisterCore(in)
	stdlib.Register(in)
	Register(in)
	return in
}

type cases struct {
	test  string
	match string
	isErr bool
}

func writeTestFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "testing.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := range 50 {
		fmt.Fprintf(f, "%05d ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789\n", i)
	}
	f.Close()
	return path
}

func TestFileOps(t *testing.T) {
	tmp, err := os.MkdirTemp("/tmp", "")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmp)
	name := writeTestFile(t, tmp)
	base := filepath.Base(name)

	testCases := []cases{
		{"file exists " + name, "1", false},
		{"file size " + name, "3950", false},
		{"file type " + name, "file", false},
		{"file separator", string(filepath.Separator), false},
		{"file dirname " + name, tmp, false},
		{"file extension " + name, ".txt", false},
		{"file tail " + name, base, false},
		{"file join a b c", filepath.Join("a", "b", "c"), false},
		{"file cwd " + tmp + "; file pwd", tmp, false},
		{"file cwd " + tmp + "; file mkdir x; file copy " + base + " x; file cwd x; file dir", base, false},
		{"file cwd " + tmp + "; file type x", "directory", false},
		{"file cwd " + tmp + "; file type x/" + base, "file", false},
		{"file cwd " + tmp + "; file type y", "", true},
		{"file cwd " + tmp + "; file isdirectory x", "1", false},
		{"file cwd " + tmp + "; file isfile " + base, "1", false},
		{"file cwd " + tmp + "; file isdirectory " + base, "0", false},
		{"file cwd " + tmp + "; file isfile x", "0", false},
		{"file dir " + tmp, base + " x", false},
		{"file cwd " + tmp + "/x; file rename " + base + " " + base + "2; file dir", base + "2", false},
		{"file cwd " + tmp + "/x; file delete " + base + "2; file exists " + base + "2", "0", false},
	}

	for _, test := range testCases {
		in := newTestInterp()
		v, err := in.EvalString(test.test)
		if test.isErr {
			if err == nil {
				t.Errorf("%q: expected error, got none", test.test)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.test, err)
			continue
		}
		if v.String() != test.match {
			t.Errorf("%q = %q, want %q", test.test, v.String(), test.match)
		}
	}
}

func TestFileRead(t *testing.T) {
	tmp, err := os.MkdirTemp("/tmp", "")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmp)
	name := writeTestFile(t, tmp)

	testCases := []cases{
		{
			"set fd [open " + name + "]; gets $fd",
			"00000 ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
			false,
		},
		{
			"set fd [open " + name + "]; read $fd 78",
			"00000 ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
			false,
		},
		{"set fd [open " + name + "]; read $fd 78; tell $fd", "78", false},
		{"set fd [open " + name + "]; seek $fd 80; tell $fd", "80", false},
		{"set fd [open " + name + "]; seek $fd 80; seek $fd 80 current; tell $fd", "160", false},
		{
			"set fd [open " + name + "]; seek $fd 158; gets $fd",
			"00002 ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
			false,
		},
		{
			"set fd [open " + name + "]; seek $fd -79 end; gets $fd",
			"00049 ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
			false,
		},
	}

	for _, test := range testCases {
		in := newTestInterp()
		v, err := in.EvalString(test.test)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.test, err)
			continue
		}
		if v.String() != test.match {
			t.Errorf("%q = %q, want %q", test.test, v.String(), test.match)
		}
	}
}

func TestFileWrite(t *testing.T) {
	tmp, err := os.MkdirTemp("/tmp", "")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmp)
	path := filepath.Join(tmp, "out.txt")

	in := newTestInterp()
	script := fmt.Sprintf(`
set fd [open %s w]
puts $fd hello
puts -nonewline $fd there
close $fd
set fd [open %s]
set line [gets $fd]
close $fd
set line
`, path, path)
	v, err := in.EvalString(script)
	if err != nil {
		t.Fatalf("EvalString error: %v", err)
	}
	if v.String() != "hello" {
		t.Errorf("gets after write = %q, want %q", v.String(), "hello")
	}
}

func TestFileChannelsListsOpen(t *testing.T) {
	in := newTestInterp()
	if _, err := in.EvalString("open /dev/null"); err != nil {
		t.Fatalf("open error: %v", err)
	}
	v, err := in.EvalString("llength [file channels]")
	if err != nil {
		t.Fatalf("EvalString error: %v", err)
	}
	if v.String() != "4" {
		t.Errorf("llength [file channels] = %q, want 4 (stdin/stdout/stderr + the opened file)", v.String())
	}
}
