/*
 * List commands: list, llength, lindex, lrange, lappend, linsert,
 * lreplace, lset, lsort, lsearch, split, foreach.
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
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/opentcl/opentcl/tcl"
)

func registerListCommands[Ctx any](in *tcl.Interp[Ctx]) {
	in.Register("list", 0, -1, cmdList[Ctx])
	in.Register("llength", 1, 1, cmdLLength[Ctx])
	in.Register("lindex", 1, -1, cmdLIndex[Ctx])
	in.Register("lrange", 3, 3, cmdLRange[Ctx])
	in.Register("lappend", 1, -1, cmdLAppend[Ctx])
	in.Register("linsert", 2, -1, cmdLInsert[Ctx])
	in.Register("lreplace", 3, -1, cmdLReplace[Ctx])
	in.Register("lset", 3, 3, cmdLSet[Ctx])
	in.Register("lsort", 1, -1, cmdLSort[Ctx])
	in.Register("lsearch", 2, -1, cmdLSearch[Ctx])
	in.Register("split", 1, 2, cmdSplit[Ctx])
	in.Register("foreach", 3, 3, cmdForEach[Ctx])
}

func cmdList[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	return tcl.Ok(tcl.NewList(args[1:]...))
}

func cmdLLength[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	n, err := args[1].ListLen()
	if err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.NewInt(int64(n)))
}

// convertListIndex parses a list index: a non-negative decimal, or
// "end"/"end-N", resolved against a list of length listLen.
func convertListIndex(str string, listLen int) (int, error) {
	str = strings.TrimSpace(str)
	if strings.HasPrefix(str, "end") {
		rest := str[3:]
		if rest == "" {
			return listLen - 1, nil
		}
		if !strings.HasPrefix(rest, "-") {
			return 0, fmt.Errorf("bad index %q", str)
		}
		n, ok := parseSimpleInt(rest[1:])
		if !ok {
			return 0, fmt.Errorf("bad index %q", str)
		}
		return listLen - 1 - n, nil
	}
	n, ok := parseSimpleInt(str)
	if !ok {
		return 0, fmt.Errorf("bad index %q", str)
	}
	return n, nil
}

func parseSimpleInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

func cmdLIndex[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	cur := args[1]
	for _, idxArg := range args[2:] {
		items, err := cur.List()
		if err != nil {
			return tcl.Err(err)
		}
		idx, err := convertListIndex(idxArg.String(), len(items))
		if err != nil {
			return tcl.Err(err)
		}
		if idx < 0 || idx >= len(items) {
			return tcl.Ok(tcl.Empty())
		}
		cur = items[idx]
	}
	return tcl.Ok(cur)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func cmdLRange[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	items, err := args[1].List()
	if err != nil {
		return tcl.Err(err)
	}
	first, err := convertListIndex(args[2].String(), len(items))
	if err != nil {
		return tcl.Err(err)
	}
	last, err := convertListIndex(args[3].String(), len(items))
	if err != nil {
		return tcl.Err(err)
	}
	first = clampIndex(first, len(items))
	last = clampIndex(last+1, len(items))
	if first >= last {
		return tcl.Ok(tcl.NewList())
	}
	return tcl.Ok(tcl.NewList(items[first:last]...))
}

func cmdLAppend[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	var items []*tcl.Value
	if cur, err := in.GetVar(name); err == nil {
		items, _ = cur.List()
	}
	items = append(items, args[2:]...)
	nv := tcl.NewList(items...)
	if err := in.SetVar(name, nv); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(nv)
}

func cmdLInsert[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	items, err := args[1].List()
	if err != nil {
		return tcl.Err(err)
	}
	idx, err := convertListIndex(args[2].String(), len(items)+1)
	if err != nil {
		return tcl.Err(err)
	}
	idx = clampIndex(idx, len(items))
	out := make([]*tcl.Value, 0, len(items)+len(args)-3)
	out = append(out, items[:idx]...)
	out = append(out, args[3:]...)
	out = append(out, items[idx:]...)
	return tcl.Ok(tcl.NewList(out...))
}

func cmdLReplace[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	items, err := args[1].List()
	if err != nil {
		return tcl.Err(err)
	}
	first, err := convertListIndex(args[2].String(), len(items))
	if err != nil {
		return tcl.Err(err)
	}
	last, err := convertListIndex(args[3].String(), len(items))
	if err != nil {
		return tcl.Err(err)
	}
	first = clampIndex(first, len(items))
	last = clampIndex(last, len(items)-1)
	out := make([]*tcl.Value, 0, len(items))
	out = append(out, items[:first]...)
	out = append(out, args[4:]...)
	if last+1 <= len(items) {
		out = append(out, items[last+1:]...)
	}
	return tcl.Ok(tcl.NewList(out...))
}

// cmdLSet implements "lset varname index newValue", replacing one
// element of the list stored in a variable and writing the result back.
func cmdLSet[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	cur, err := in.GetVar(name)
	if err != nil {
		return tcl.Err(err)
	}
	items, err := cur.List()
	if err != nil {
		return tcl.Err(err)
	}
	idx, err := convertListIndex(args[2].String(), len(items))
	if err != nil {
		return tcl.Err(err)
	}
	nv, err := cur.ListSet(idx, args[3])
	if err != nil {
		return tcl.Err(err)
	}
	if err := in.SetVar(name, nv); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(nv)
}

func cmdLSort[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	integer := false
	reverse := false
	command := ""
	i := 1
	for ; i < len(args); i++ {
		switch args[i].String() {
		case "-increasing":
			reverse = false
		case "-decreasing":
			reverse = true
		case "-ascii":
			integer = false
		case "-integer":
			integer = true
		case "-command":
			i++
			if i >= len(args) {
				return tcl.Err(fmt.Errorf("missing command argument"))
			}
			command = args[i].String()
		default:
			goto done
		}
	}
done:
	if i >= len(args) {
		return tcl.Err(fmt.Errorf("lsort ?options? list"))
	}
	items, err := args[i].List()
	if err != nil {
		return tcl.Err(err)
	}
	out := make([]*tcl.Value, len(items))
	copy(out, items)

	var sortErr error
	less := func(a, b *tcl.Value) bool {
		if command != "" {
			c := in.Eval(command + " " + tcl.FormatList([]string{a.String()}) + " " + tcl.FormatList([]string{b.String()}))
			if c.Code != tcl.CodeOK {
				sortErr = fmt.Errorf("%s", c.Result.String())
				return false
			}
			n, err := c.Result.Int()
			if err != nil {
				sortErr = err
				return false
			}
			if reverse {
				n = -n
			}
			return n < 0
		}
		if integer {
			ai, aerr := a.Int()
			bi, berr := b.Int()
			if aerr != nil || berr != nil {
				sortErr = fmt.Errorf("expected integer for -integer sort")
				return false
			}
			if reverse {
				return ai > bi
			}
			return ai < bi
		}
		if reverse {
			return a.String() > b.String()
		}
		return a.String() < b.String()
	}
	sort.SliceStable(out, func(a, b int) bool { return less(out[a], out[b]) })
	if sortErr != nil {
		return tcl.Err(sortErr)
	}
	return tcl.Ok(tcl.NewList(out...))
}

const (
	opGlob = iota
	opExact
	opInteger
	opRegExp
)

func cmdLSearch[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	op := opGlob
	all := false
	inline := false
	nocase := false
	not := false
	start := 0

	i := 1
	for ; i < len(args); i++ {
		switch args[i].String() {
		case "-integer":
			op = opInteger
		case "-glob":
			op = opGlob
		case "-exact":
			op = opExact
		case "-regexp":
			op = opRegExp
		case "-all":
			all = true
		case "-not":
			not = true
		case "-nocase":
			nocase = true
		case "-inline":
			inline = true
		case "-sorted":
			// Accepted for compatibility; search proceeds linearly regardless.
		case "-start":
			i++
			if i >= len(args) {
				return tcl.Err(fmt.Errorf("missing argument for start"))
			}
			n, err := args[i].Int()
			if err != nil {
				return tcl.Err(fmt.Errorf("start option not a number"))
			}
			start = int(n)
		default:
			goto done
		}
	}
done:
	if i+1 >= len(args) {
		return tcl.Err(fmt.Errorf("lsearch ?options? list pattern"))
	}
	items, err := args[i].List()
	if err != nil {
		return tcl.Err(err)
	}
	pattern := args[i+1].String()

	var matchIdx []int
	for idx := start; idx < len(items); idx++ {
		value := items[idx].String()
		match := false
		switch op {
		case opGlob:
			match = tcl.Match(pattern, value, nocase, len(value)+1)
		case opExact:
			if nocase {
				match = strings.EqualFold(pattern, value)
			} else {
				match = pattern == value
			}
		case opRegExp:
			m, rerr := regexp.MatchString(pattern, value)
			if rerr != nil {
				return tcl.Err(rerr)
			}
			match = m
		case opInteger:
			pv, perr := args[i+1].Int()
			vv, verr := items[idx].Int()
			match = perr == nil && verr == nil && pv == vv
		}
		if not {
			match = !match
		}
		if match {
			matchIdx = append(matchIdx, idx)
			if !all {
				break
			}
		}
	}

	if inline {
		out := make([]*tcl.Value, len(matchIdx))
		for k, idx := range matchIdx {
			out[k] = items[idx]
		}
		if !all {
			if len(out) == 0 {
				return tcl.Ok(tcl.Empty())
			}
			return tcl.Ok(out[0])
		}
		return tcl.Ok(tcl.NewList(out...))
	}

	out := make([]*tcl.Value, len(matchIdx))
	for k, idx := range matchIdx {
		out[k] = tcl.NewInt(int64(idx))
	}
	if !all {
		if len(out) == 0 {
			return tcl.Ok(tcl.NewInt(-1))
		}
		return tcl.Ok(out[0])
	}
	return tcl.Ok(tcl.NewList(out...))
}

func cmdSplit[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	str := args[1].String()
	chars := " \t\n\r"
	if len(args) > 2 {
		chars = args[2].String()
	}
	if chars == "" {
		items := make([]*tcl.Value, 0, len(str))
		for _, r := range str {
			items = append(items, tcl.NewString(string(r)))
		}
		return tcl.Ok(tcl.NewList(items...))
	}
	fields := strings.FieldsFunc(str, func(r rune) bool {
		return strings.ContainsRune(chars, r)
	})
	items := make([]*tcl.Value, len(fields))
	for i, f := range fields {
		items[i] = tcl.NewString(f)
	}
	return tcl.Ok(tcl.NewList(items...))
}

// cmdForEach: foreach var list body. Unlike full TCL, a single
// var/list pair is supported; multi-variable foreach is not, matching
// the reduced scope this interpreter targets.
func cmdForEach[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	varName := args[1].String()
	items, err := args[2].List()
	if err != nil {
		return tcl.Err(err)
	}
	body := args[3].String()
	for _, item := range items {
		if err := in.SetVar(varName, item); err != nil {
			return tcl.Err(err)
		}
		c := in.Eval(body)
		switch c.Code {
		case tcl.CodeOK:
		case tcl.CodeContinue:
		case tcl.CodeBreak:
			return tcl.Ok(tcl.Empty())
		default:
			return c
		}
	}
	return tcl.Ok(tcl.Empty())
}
