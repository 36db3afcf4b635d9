/*
 * TCL ordered dictionary, the typed view backing Value.Dict.
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

// Dict is an ordered mapping from string keys to Values. It is treated
// as immutable: Set and Unset return a new Dict, leaving the receiver
// untouched, so a Value caching a Dict view never has it mutated out
// from under it.
type Dict struct {
	keys []string
	vals map[string]*Value
}

// NewDict returns an empty ordered dict.
func NewDict() *Dict {
	return &Dict{vals: make(map[string]*Value)}
}

// Len reports the number of key/value pairs.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Get looks up a key.
func (d *Dict) Get(key string) (*Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.vals[key]
	return v, ok
}

// Set returns a new Dict with key bound to val, preserving the existing
// position of key if it was already present, else appending it.
func (d *Dict) Set(key string, val *Value) *Dict {
	nd := &Dict{
		keys: make([]string, 0, d.Len()+1),
		vals: make(map[string]*Value, d.Len()+1),
	}
	if d != nil {
		nd.keys = append(nd.keys, d.keys...)
		for k, v := range d.vals {
			nd.vals[k] = v
		}
	}
	if _, exists := nd.vals[key]; !exists {
		nd.keys = append(nd.keys, key)
	}
	nd.vals[key] = val
	return nd
}

// Unset returns a new Dict with key removed, a no-op if key is absent.
func (d *Dict) Unset(key string) *Dict {
	if d == nil {
		return NewDict()
	}
	if _, ok := d.vals[key]; !ok {
		return d
	}
	nd := &Dict{
		keys: make([]string, 0, len(d.keys)-1),
		vals: make(map[string]*Value, len(d.vals)-1),
	}
	for _, k := range d.keys {
		if k == key {
			continue
		}
		nd.keys = append(nd.keys, k)
		nd.vals[k] = d.vals[k]
	}
	return nd
}
