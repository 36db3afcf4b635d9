/*
 * TCL command registry: native Go commands and user-defined procedures,
 * dispatched under the same arity-checked lookup table.
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
	"fmt"
	"sort"
)

// CmdFunc is a native command implementation. args[0] is the command
// name as invoked; the remaining elements are its argument Values.
type CmdFunc[Ctx any] func(in *Interp[Ctx], args []*Value) Completion

// Proc is a user-defined procedure: named formal parameters (the last
// of which may be "args", collecting any remaining actuals as a list)
// and a script body, matching the teacher's "proc" semantics.
type Proc struct {
	Params  []ProcParam
	Body    string
	Body2   []Command // lazily parsed and cached on first call
}

// ProcParam is one formal parameter, optionally with a default value
// (present whenever a two-element {name default} pair was given).
type ProcParam struct {
	Name       string
	HasDefault bool
	Default    *Value
}

type cmdEntry[Ctx any] struct {
	name    string
	native  CmdFunc[Ctx]
	proc    *Proc
	minArgs int
	maxArgs int // -1 means unbounded
}

// registry holds every command known to an interpreter, native and
// user-defined alike, under a single namespace.
type registry[Ctx any] struct {
	cmds map[string]*cmdEntry[Ctx]
}

func newRegistry[Ctx any]() *registry[Ctx] {
	return &registry[Ctx]{cmds: make(map[string]*cmdEntry[Ctx])}
}

// Register installs a native command. minArgs/maxArgs count arguments
// after the command name; maxArgs < 0 means no upper bound.
func (r *registry[Ctx]) Register(name string, minArgs, maxArgs int, fn CmdFunc[Ctx]) {
	r.cmds[name] = &cmdEntry[Ctx]{name: name, native: fn, minArgs: minArgs, maxArgs: maxArgs}
}

// RegisterProc installs (or replaces) a user-defined procedure.
func (r *registry[Ctx]) RegisterProc(name string, p *Proc) {
	min, max := 0, 0
	for _, f := range p.Params {
		if f.Name == "args" {
			max = -1
			continue
		}
		if !f.HasDefault {
			min++
		}
		if max >= 0 {
			max++
		}
	}
	r.cmds[name] = &cmdEntry[Ctx]{name: name, proc: p, minArgs: min, maxArgs: max}
}

// Rename renames or (if newName == "") deletes a command.
func (r *registry[Ctx]) Rename(oldName, newName string) error {
	e, ok := r.cmds[oldName]
	if !ok {
		return fmt.Errorf("command %q doesn't exist", oldName)
	}
	delete(r.cmds, oldName)
	if newName != "" {
		r.cmds[newName] = e
	}
	return nil
}

func (r *registry[Ctx]) lookup(name string) (*cmdEntry[Ctx], bool) {
	e, ok := r.cmds[name]
	return e, ok
}

func (r *registry[Ctx]) checkArity(e *cmdEntry[Ctx], nargs int) error {
	if nargs < e.minArgs || (e.maxArgs >= 0 && nargs > e.maxArgs) {
		return fmt.Errorf("wrong # args: should be %q with %s", e.name, arityHint(e))
	}
	return nil
}

func arityHint[Ctx any](e *cmdEntry[Ctx]) string {
	switch {
	case e.maxArgs < 0:
		return fmt.Sprintf("at least %d argument(s)", e.minArgs)
	case e.minArgs == e.maxArgs:
		return fmt.Sprintf("exactly %d argument(s)", e.minArgs)
	default:
		return fmt.Sprintf("between %d and %d argument(s)", e.minArgs, e.maxArgs)
	}
}

// Names returns every registered command name, optionally filtered by a
// glob pattern ("" matches everything), sorted for deterministic output.
func (r *registry[Ctx]) Names(pattern string) []string {
	out := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		if pattern == "" || Match(pattern, name, false, len(name)+1) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Exists reports whether name is registered, and whether it is a
// procedure (as opposed to a native command).
func (r *registry[Ctx]) Exists(name string) (isProc, ok bool) {
	e, found := r.cmds[name]
	if !found {
		return false, false
	}
	return e.proc != nil, true
}
