/*
 * The "string" command: subcommand dispatch over a funmap, exactly the
 * way the teacher's string.go routes "string <op> ..." calls.
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
	"strings"
	"unicode"

	"github.com/opentcl/opentcl/tcl"
)

func registerStringCommands[Ctx any](in *tcl.Interp[Ctx]) {
	in.Register("string", 2, -1, cmdString[Ctx])
}

type stringFn[Ctx any] func(in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion

func stringFuncs[Ctx any]() map[string]stringFn[Ctx] {
	return map[string]stringFn[Ctx]{
		"compare":   stringCompare[Ctx],
		"equal":     stringCompare[Ctx],
		"first":     stringFind[Ctx],
		"last":      stringFind[Ctx],
		"index":     stringIndex[Ctx],
		"is":        stringIs[Ctx],
		"length":    stringLength[Ctx],
		"map":       stringMap[Ctx],
		"match":     stringMatch[Ctx],
		"range":     stringRange[Ctx],
		"repeat":    stringRepeat[Ctx],
		"replace":   stringReplace[Ctx],
		"tolower":   stringToCase[Ctx],
		"totitle":   stringToCase[Ctx],
		"toupper":   stringToCase[Ctx],
		"trim":      stringTrim[Ctx],
		"trimleft":  stringTrim[Ctx],
		"trimright": stringTrim[Ctx],
	}
}

func cmdString[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	fn, ok := stringFuncs[Ctx]()[args[1].String()]
	if !ok {
		return tcl.Err(fmt.Errorf("unknown or ambiguous subcommand %q: must be one of the string subcommands", args[1].String()))
	}
	return fn(in, args)
}

func stringCompare[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	equal := args[1].String() == "equal"
	nocase := false
	length := -1
	i := 2
	for i < len(args) {
		switch args[i].String() {
		case "-nocase":
			nocase = true
			i++
		case "-length":
			i++
			if i >= len(args) {
				return tcl.Err(fmt.Errorf("missing length value"))
			}
			n, err := args[i].Int()
			if err != nil {
				return tcl.Err(fmt.Errorf("bad length value"))
			}
			length = int(n)
			i++
		default:
			goto done
		}
	}
done:
	if i+1 >= len(args) {
		return tcl.Err(fmt.Errorf("string compare string1 string2"))
	}
	s1, s2 := args[i].String(), args[i+1].String()
	if length >= 0 {
		s1 = truncate(s1, length)
		s2 = truncate(s2, length)
	}
	if nocase {
		s1, s2 = strings.ToLower(s1), strings.ToLower(s2)
	}
	res := strings.Compare(s1, s2)
	if equal {
		if res == 0 {
			res = 1
		} else {
			res = 0
		}
	}
	return tcl.Ok(tcl.NewInt(int64(res)))
}

func truncate(s string, n int) string {
	if n < len(s) {
		return s[:n]
	}
	return s
}

func stringFind[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	needle := args[2].String()
	hay := args[3].String()
	if args[1].String() == "last" {
		idx := strings.LastIndex(hay, needle)
		return tcl.Ok(tcl.NewInt(int64(idx)))
	}
	start := 0
	if len(args) > 4 {
		n, err := convertListIndex(args[4].String(), len(hay))
		if err != nil {
			return tcl.Err(err)
		}
		start = clampIndex(n, len(hay))
	}
	if start > len(hay) {
		return tcl.Ok(tcl.NewInt(-1))
	}
	idx := strings.Index(hay[start:], needle)
	if idx < 0 {
		return tcl.Ok(tcl.NewInt(-1))
	}
	return tcl.Ok(tcl.NewInt(int64(idx + start)))
}

func stringIndex[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	str := args[2].String()
	idx, err := convertListIndex(args[3].String(), len(str))
	if err != nil {
		return tcl.Err(err)
	}
	if idx < 0 || idx >= len(str) {
		return tcl.Ok(tcl.Empty())
	}
	return tcl.Ok(tcl.NewString(string(str[idx])))
}

func stringLength[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	return tcl.Ok(tcl.NewInt(int64(len(args[2].String()))))
}

func stringMap[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	nocase := false
	i := 2
	if args[i].String() == "-nocase" {
		nocase = true
		i++
	}
	mapping, err := args[i].List()
	if err != nil {
		return tcl.Err(err)
	}
	str := args[i+1].String()
	match := str
	if nocase {
		match = strings.ToLower(match)
	}

	var b strings.Builder
	index := 0
	for index < len(str) {
		replaced := false
		for k := 0; k+1 < len(mapping); k += 2 {
			from := mapping[k].String()
			if from == "" {
				continue
			}
			cand := from
			if nocase {
				cand = strings.ToLower(cand)
			}
			if strings.HasPrefix(match[index:], cand) {
				b.WriteString(mapping[k+1].String())
				index += len(from)
				replaced = true
				break
			}
		}
		if !replaced {
			b.WriteByte(str[index])
			index++
		}
	}
	return tcl.Ok(tcl.NewString(b.String()))
}

func stringMatch[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	nocase := false
	i := 2
	if args[i].String() == "-nocase" {
		nocase = true
		i++
	}
	if i+1 >= len(args) {
		return tcl.Err(fmt.Errorf("string match ?-nocase? pattern string"))
	}
	pattern, str := args[i].String(), args[i+1].String()
	m := tcl.Match(pattern, str, nocase, len(str)+1)
	if m {
		return tcl.Ok(tcl.NewInt(1))
	}
	return tcl.Ok(tcl.NewInt(0))
}

func stringRange[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	str := args[2].String()
	first, err := convertListIndex(args[3].String(), len(str))
	if err != nil {
		return tcl.Err(err)
	}
	last, err := convertListIndex(args[4].String(), len(str))
	if err != nil {
		return tcl.Err(err)
	}
	first = max(first, 0)
	last = min(last, len(str)-1)
	if last < 0 || first > last {
		return tcl.Ok(tcl.Empty())
	}
	return tcl.Ok(tcl.NewString(str[first : last+1]))
}

func stringRepeat[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	str := args[2].String()
	count, err := args[3].Int()
	if err != nil {
		return tcl.Err(fmt.Errorf("expected integer but got %q", args[3].String()))
	}
	if count <= 0 {
		return tcl.Ok(tcl.Empty())
	}
	return tcl.Ok(tcl.NewString(strings.Repeat(str, int(count))))
}

func stringReplace[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	str := args[2].String()
	newstr := ""
	if len(args) > 5 {
		newstr = args[5].String()
	}
	first, err := convertListIndex(args[3].String(), len(str))
	if err != nil {
		return tcl.Err(err)
	}
	last, err := convertListIndex(args[4].String(), len(str))
	if err != nil {
		return tcl.Err(err)
	}
	first = max(first, 0)
	last = min(last, len(str)-1)
	if last < 0 || first > last {
		return tcl.Ok(tcl.NewString(str))
	}
	return tcl.Ok(tcl.NewString(str[:first] + newstr + str[last+1:]))
}

func stringToCase[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	str := args[2].String()
	first, last := 0, len(str)
	switch len(args) {
	case 3:
	case 4:
		n, err := convertListIndex(args[3].String(), len(str))
		if err != nil {
			return tcl.Err(err)
		}
		first, last = n, n
	case 5:
		f, err := convertListIndex(args[3].String(), len(str))
		if err != nil {
			return tcl.Err(err)
		}
		l, err := convertListIndex(args[4].String(), len(str))
		if err != nil {
			return tcl.Err(err)
		}
		first, last = f, l
	default:
		return tcl.Err(fmt.Errorf("string %s string ?first ?last", args[1].String()))
	}
	last++
	first = clampIndex(first, len(str))
	last = clampIndex(last, len(str))
	if args[1].String() == "totitle" {
		last = min(first+1, len(str))
	}
	if first > last {
		first = last
	}
	out := str[:first]
	switch args[1].String() {
	case "tolower":
		out += strings.ToLower(str[first:last])
	case "toupper":
		out += strings.ToUpper(str[first:last])
	case "totitle":
		out += strings.ToTitle(str[first:last])
	}
	out += str[last:]
	return tcl.Ok(tcl.NewString(out))
}

func stringTrim[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	cut := " \t\n\r"
	if len(args) > 3 {
		cut = args[3].String()
	}
	str := args[2].String()
	switch args[1].String() {
	case "trimleft":
		return tcl.Ok(tcl.NewString(strings.TrimLeft(str, cut)))
	case "trimright":
		return tcl.Ok(tcl.NewString(strings.TrimRight(str, cut)))
	default:
		return tcl.Ok(tcl.NewString(strings.Trim(str, cut)))
	}
}

func stringIs[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) < 4 {
		return tcl.Err(fmt.Errorf("string is class ?-strict? ?-failindex varname? string"))
	}
	strict := false
	fail := ""
	class := args[2].String()
	i := 3
loop:
	for ; i < len(args); i++ {
		switch args[i].String() {
		case "-strict":
			strict = true
		case "-failindex":
			i++
			if i >= len(args) {
				return tcl.Err(fmt.Errorf("missing failindex variable"))
			}
			fail = args[i].String()
		default:
			break loop
		}
	}
	if i >= len(args) {
		return tcl.Err(fmt.Errorf("string is %s ?options? string", class))
	}
	str := args[i].String()

	if str == "" {
		if strict {
			return tcl.Ok(tcl.NewInt(0))
		}
		return tcl.Ok(tcl.NewInt(1))
	}

	switch class {
	case "boolean":
		_, ok := str, isBool(str)
		return boolResult(ok)
	case "true":
		v, ok := isBoolValue(str)
		return boolResult(ok && v)
	case "false":
		v, ok := isBoolValue(str)
		return boolResult(ok && !v)
	}

	failIdx := -1
	for idx, ch := range str {
		if !classMatches(class, ch) {
			failIdx = idx
			break
		}
	}
	if failIdx >= 0 {
		if fail != "" {
			if err := in.SetVar(fail, tcl.NewInt(int64(failIdx))); err != nil {
				return tcl.Err(err)
			}
		}
		return tcl.Ok(tcl.NewInt(0))
	}
	return tcl.Ok(tcl.NewInt(1))
}

func boolResult(b bool) tcl.Completion {
	if b {
		return tcl.Ok(tcl.NewInt(1))
	}
	return tcl.Ok(tcl.NewInt(0))
}

func isBool(s string) bool {
	_, ok := isBoolValue(s)
	return ok
}

func isBoolValue(s string) (bool, bool) {
	v := tcl.NewString(s)
	b, err := v.Bool()
	return b, err == nil
}

func classMatches(class string, ch rune) bool {
	switch class {
	case "alnum":
		return unicode.IsLetter(ch) || unicode.IsDigit(ch)
	case "alpha":
		return unicode.IsLetter(ch)
	case "ascii":
		return ch < 0x80
	case "control":
		return unicode.IsControl(ch)
	case "digit":
		return unicode.IsDigit(ch)
	case "graphic":
		return unicode.IsGraphic(ch)
	case "lower":
		return unicode.IsLower(ch)
	case "print":
		return unicode.IsPrint(ch)
	case "punct":
		return unicode.IsPunct(ch)
	case "space":
		return unicode.IsSpace(ch)
	case "upper":
		return unicode.IsUpper(ch)
	default:
		return true
	}
}
