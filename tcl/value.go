/*
 * TCL Value: the immutable, shimmering datum shared throughout the
 * interpreter.
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

// Package tcl implements the evaluator core of an embeddable TCL-dialect
// interpreter: values, parsing/substitution, scopes, the command registry
// and procedure plumbing, and the completion-based control flow.
package tcl

import "fmt"

// kind identifies which typed view, if any, a Value currently caches.
// A Value holds at most one: asking for a different view re-derives it
// from the canonical string and replaces the cache (shimmering).
type kind int

const (
	kindNone kind = iota
	kindInt
	kindFloat
	kindBool
	kindList
	kindDict
	kindExternal
)

// Value is the interpreter's universal datum. It is never mutated once
// observed from outside this package: every accessor either returns the
// existing cached view or computes and caches a new one in place (an
// additive cache update, not a change in the value's logical identity).
// "Modifying" a value (ListSet, Dict.Set, ...) always produces a new Value.
type Value struct {
	str    string
	hasStr bool
	kind   kind

	i    int64
	f    float64
	b    bool
	list []*Value
	dict *Dict
	ext  *External
}

// External is an opaque host-supplied tagged payload, shared by handle.
type External struct {
	TypeName string
	Data     any
}

// NewString builds a Value directly from its canonical string form.
func NewString(s string) *Value {
	return &Value{str: s, hasStr: true}
}

// NewInt builds a Value from a native integer; its string form is
// computed lazily on first use.
func NewInt(v int64) *Value {
	return &Value{kind: kindInt, i: v}
}

// NewFloat builds a Value from a native float.
func NewFloat(v float64) *Value {
	return &Value{kind: kindFloat, f: v}
}

// NewBool builds a Value from a native boolean. Its canonical string
// form is "1" or "0", matching TCL's own expr/boolean rendering.
func NewBool(v bool) *Value {
	return &Value{kind: kindBool, b: v}
}

// NewList builds a Value from a slice of elements, sharing the slice's
// Values by handle.
func NewList(items ...*Value) *Value {
	l := make([]*Value, len(items))
	copy(l, items)
	return &Value{kind: kindList, list: l}
}

// NewDictValue wraps an existing ordered Dict as a Value.
func NewDictValue(d *Dict) *Value {
	if d == nil {
		d = NewDict()
	}
	return &Value{kind: kindDict, dict: d}
}

// NewExternal builds a Value around a host-supplied opaque payload.
func NewExternal(typeName string, data any) *Value {
	return &Value{kind: kindExternal, ext: &External{TypeName: typeName, Data: data}}
}

// Empty is the canonical empty-string Value.
func Empty() *Value { return NewString("") }

func convErr(wantKind, got string) error {
	return fmt.Errorf("expected %s but got %q", wantKind, got)
}

// String returns the canonical string representation, computing and
// caching it from the typed view on first use.
func (v *Value) String() string {
	if v.hasStr {
		return v.str
	}
	switch v.kind {
	case kindInt:
		v.str = formatInt(v.i)
	case kindFloat:
		v.str = formatFloat(v.f)
	case kindBool:
		if v.b {
			v.str = "1"
		} else {
			v.str = "0"
		}
	case kindList:
		elems := make([]string, len(v.list))
		for i, e := range v.list {
			elems[i] = e.String()
		}
		v.str = FormatList(elems)
	case kindDict:
		elems := make([]string, 0, v.dict.Len()*2)
		for _, k := range v.dict.Keys() {
			val, _ := v.dict.Get(k)
			elems = append(elems, k, val.String())
		}
		v.str = FormatList(elems)
	case kindExternal:
		v.str = fmt.Sprintf("%s:%v", v.ext.TypeName, v.ext.Data)
	default:
		v.str = ""
	}
	v.hasStr = true
	return v.str
}

// Kind reports the native type name of whatever view is currently
// cached: "string" if nothing has shimmered into a typed view yet.
func (v *Value) Kind() string {
	switch v.kind {
	case kindInt:
		return "int"
	case kindFloat:
		return "double"
	case kindBool:
		return "boolean"
	case kindList:
		return "list"
	case kindDict:
		return "dict"
	case kindExternal:
		return v.ext.TypeName
	default:
		return "string"
	}
}

// IsEmpty reports whether this Value's canonical string form is "".
func (v *Value) IsEmpty() bool {
	return v.String() == ""
}

// Int returns the integer view, shimmering from the string if needed.
func (v *Value) Int() (int64, error) {
	if v.kind == kindInt {
		return v.i, nil
	}
	s := v.String()
	n, ok := parseInt(s)
	if !ok {
		return 0, convErr("integer", s)
	}
	v.kind, v.i = kindInt, n
	return n, nil
}

// Float returns the floating-point view, shimmering from the string.
func (v *Value) Float() (float64, error) {
	if v.kind == kindFloat {
		return v.f, nil
	}
	s := v.String()
	n, ok := parseFloat(s)
	if !ok {
		return 0, convErr("float", s)
	}
	v.kind, v.f = kindFloat, n
	return n, nil
}

// Bool returns the boolean view, accepting TCL's literal set
// case-insensitively: true/false/yes/no/on/off/1/0.
func (v *Value) Bool() (bool, error) {
	if v.kind == kindBool {
		return v.b, nil
	}
	s := v.String()
	b, ok := parseBool(s)
	if !ok {
		return false, convErr("boolean", s)
	}
	v.kind, v.b = kindBool, b
	return b, nil
}

// List returns the list view, parsing the canonical string as a TCL
// list if no list view is cached yet.
func (v *Value) List() ([]*Value, error) {
	if v.kind == kindList {
		return v.list, nil
	}
	s := v.String()
	elems, err := ParseList(s)
	if err != nil {
		return nil, err
	}
	items := make([]*Value, len(elems))
	for i, e := range elems {
		items[i] = NewString(e)
	}
	v.kind, v.list = kindList, items
	return items, nil
}

// Dict returns the dict view: the list view interpreted as a flat,
// even-length sequence of key/value pairs, keyed by string form.
func (v *Value) Dict() (*Dict, error) {
	if v.kind == kindDict {
		return v.dict, nil
	}
	items, err := v.List()
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("missing value to go with key")
	}
	d := NewDict()
	for i := 0; i < len(items); i += 2 {
		d = d.Set(items[i].String(), items[i+1])
	}
	v.kind, v.dict = kindDict, d
	return d, nil
}

// External returns the opaque host payload, if this Value carries one.
func (v *Value) External() (*External, error) {
	if v.kind == kindExternal {
		return v.ext, nil
	}
	return nil, convErr("external value", v.String())
}

// ListLen reports the number of elements without allocating a result
// slice when the list view is already cached.
func (v *Value) ListLen() (int, error) {
	items, err := v.List()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// ListIndex returns the element at position i, or Empty() if out of range
// (matching TCL's lindex semantics of a permissive out-of-range read).
func (v *Value) ListIndex(i int) (*Value, error) {
	items, err := v.List()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(items) {
		return Empty(), nil
	}
	return items[i], nil
}

// ListSet returns a new Value with element i replaced; it does not
// mutate the receiver. i must be within [0, len).
func (v *Value) ListSet(i int, nv *Value) (*Value, error) {
	items, err := v.List()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("list index out of range")
	}
	cp := make([]*Value, len(items))
	copy(cp, items)
	cp[i] = nv
	return NewList(cp...), nil
}
