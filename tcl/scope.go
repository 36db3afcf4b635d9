/*
 * TCL variable scopes: the call-frame stack, scalar and array cells, and
 * upvar/global aliasing between frames.
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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoSuchVariable is wrapped into UnsetVar's error when ref names no
// variable, so callers (cmdUnset's default -nocomplain-like behavior)
// can tell that apart from a real mismatch (e.g. unsetting an array
// element of a scalar).
var ErrNoSuchVariable = errors.New("no such variable")

// varCell is the storage behind one variable name in a scope: either a
// scalar value or an array of elements, never both. Two scopes can hold
// the very same *varCell under different names (upvar, global) — there
// is no separate "link" indirection, the cell itself is shared.
type varCell struct {
	isArray bool
	scalar  *Value
	array   map[string]*Value
	// arrayOrder preserves insertion order for "array names"/"array get".
	arrayOrder []string
}

func newScalarCell(v *Value) *varCell { return &varCell{scalar: v} }

func (c *varCell) arraySet(key string, v *Value) {
	if c.array == nil {
		c.array = make(map[string]*Value)
	}
	if _, exists := c.array[key]; !exists {
		c.arrayOrder = append(c.arrayOrder, key)
	}
	c.array[key] = v
	c.isArray = true
}

func (c *varCell) arrayUnset(key string) {
	if c.array == nil {
		return
	}
	delete(c.array, key)
	for i, k := range c.arrayOrder {
		if k == key {
			c.arrayOrder = append(c.arrayOrder[:i], c.arrayOrder[i+1:]...)
			break
		}
	}
}

// Scope is one call frame: a named set of variable cells plus the
// procedure name it belongs to (for error traces and "info level").
type Scope struct {
	vars  map[string]*varCell
	proc  string
	level int
}

func newScope(proc string, level int) *Scope {
	return &Scope{vars: make(map[string]*varCell), proc: proc, level: level}
}

// scopeStack is the evaluator's call stack. Index 0 is always the
// global scope; procedure calls push/pop frames above it.
type scopeStack struct {
	frames []*Scope
}

func newScopeStack() *scopeStack {
	s := &scopeStack{}
	s.frames = append(s.frames, newScope("", 0))
	return s
}

func (s *scopeStack) top() *Scope { return s.frames[len(s.frames)-1] }

func (s *scopeStack) global() *Scope { return s.frames[0] }

func (s *scopeStack) depth() int { return len(s.frames) }

func (s *scopeStack) push(sc *Scope) { s.frames = append(s.frames, sc) }

func (s *scopeStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// resolveLevel turns a TCL level spec ("#0", "2", "") into an absolute
// index into frames. An empty spec means "the caller of the current
// frame" (uplevel's and upvar's default of 1).
func (s *scopeStack) resolveLevel(spec string) (int, error) {
	cur := s.depth() - 1
	if spec == "" {
		spec = "1"
	}
	if strings.HasPrefix(spec, "#") {
		n, err := strconv.Atoi(spec[1:])
		if err != nil {
			return 0, fmt.Errorf("bad level %q", spec)
		}
		if n < 0 || n >= s.depth() {
			return 0, fmt.Errorf("bad level %q", spec)
		}
		return n, nil
	}
	n, err := strconv.Atoi(spec)
	if err != nil {
		return 0, fmt.Errorf("bad level %q", spec)
	}
	idx := cur - n
	if idx < 0 || idx >= s.depth() {
		return 0, fmt.Errorf("bad level %q", spec)
	}
	return idx, nil
}

// cell looks up (and optionally creates) the variable cell for name in
// scope sc. Array element references ("x(i)") are split by the caller
// before reaching here; this only ever deals with a bare variable name.
func (sc *Scope) cell(name string, create bool) *varCell {
	c, ok := sc.vars[name]
	if !ok {
		if !create {
			return nil
		}
		c = &varCell{}
		sc.vars[name] = c
	}
	return c
}

// link aliases name in sc to the same cell that backs otherName in
// other, creating the target cell if needed. This is the mechanism
// behind both "global" and "upvar".
func (sc *Scope) link(name string, other *Scope, otherName string) {
	c := other.cell(otherName, true)
	sc.vars[name] = c
}

// splitArrayRef splits "name" or "name(index)" into its base name and,
// if present, the index (without parens). ok is false for a bare scalar.
func splitArrayRef(ref string) (name, index string, ok bool) {
	i := strings.IndexByte(ref, '(')
	if i < 0 || ref[len(ref)-1] != ')' {
		return ref, "", false
	}
	return ref[:i], ref[i+1 : len(ref)-1], true
}

// GetVar reads a variable by its full reference ("x" or "x(i)") from the
// given scope.
func (sc *Scope) GetVar(ref string) (*Value, error) {
	name, idx, isElem := splitArrayRef(ref)
	c := sc.cell(name, false)
	if c == nil {
		return nil, fmt.Errorf("can't read %q: no such variable", ref)
	}
	if isElem {
		if !c.isArray {
			return nil, fmt.Errorf("can't read %q: variable isn't array", ref)
		}
		v, ok := c.array[idx]
		if !ok {
			return nil, fmt.Errorf("can't read %q: no such element in array", ref)
		}
		return v, nil
	}
	if c.isArray {
		return nil, fmt.Errorf("can't read %q: variable is array", ref)
	}
	if c.scalar == nil {
		return nil, fmt.Errorf("can't read %q: no such variable", ref)
	}
	return c.scalar, nil
}

// SetVar writes a variable by its full reference, creating it (and its
// enclosing cell) if necessary.
func (sc *Scope) SetVar(ref string, v *Value) error {
	name, idx, isElem := splitArrayRef(ref)
	c := sc.cell(name, true)
	if isElem {
		if c.scalar != nil {
			return fmt.Errorf("can't set %q: variable isn't array", ref)
		}
		c.arraySet(idx, v)
		return nil
	}
	if c.isArray {
		return fmt.Errorf("can't set %q: variable is array", ref)
	}
	c.scalar = v
	return nil
}

// UnsetVar removes a variable or array element by reference.
func (sc *Scope) UnsetVar(ref string) error {
	name, idx, isElem := splitArrayRef(ref)
	c := sc.cell(name, false)
	if c == nil {
		return fmt.Errorf("can't unset %q: %w", ref, ErrNoSuchVariable)
	}
	if isElem {
		if !c.isArray {
			return fmt.Errorf("can't unset %q: variable isn't array", ref)
		}
		c.arrayUnset(idx)
		return nil
	}
	delete(sc.vars, name)
	return nil
}

// ArrayNames returns the element keys of an array variable in insertion
// order, or nil if it is not an array (or does not exist).
func (sc *Scope) ArrayNames(name string) []string {
	c := sc.cell(name, false)
	if c == nil || !c.isArray {
		return nil
	}
	out := make([]string, len(c.arrayOrder))
	copy(out, c.arrayOrder)
	return out
}

// IsArray reports whether name is currently bound as an array in sc.
func (sc *Scope) IsArray(name string) bool {
	c := sc.cell(name, false)
	return c != nil && c.isArray
}

// Exists reports whether ref (scalar or array element) is currently bound.
func (sc *Scope) Exists(ref string) bool {
	name, idx, isElem := splitArrayRef(ref)
	c := sc.cell(name, false)
	if c == nil {
		return false
	}
	if isElem {
		if !c.isArray {
			return false
		}
		_, ok := c.array[idx]
		return ok
	}
	if c.isArray {
		return true
	}
	return c.scalar != nil
}

// Names returns every scalar and array variable name bound in sc, in no
// particular order.
func (sc *Scope) Names() []string {
	out := make([]string, 0, len(sc.vars))
	for name := range sc.vars {
		out = append(out, name)
	}
	return out
}
