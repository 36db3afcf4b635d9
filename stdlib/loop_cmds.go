/*
 * Control-structure commands that are ordinary command calls rather
 * than evaluator primitives: if, while, for, switch.
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

	"github.com/opentcl/opentcl/tcl"
)

func registerLoopCommands[Ctx any](in *tcl.Interp[Ctx]) {
	in.Register("if", 2, -1, cmdIf[Ctx])
	in.Register("while", 2, 2, cmdWhile[Ctx])
	in.Register("for", 4, 4, cmdFor[Ctx])
	in.Register("switch", 2, -1, cmdSwitch[Ctx])
}

func truthy[Ctx any](in *tcl.Interp[Ctx], cond string) (bool, tcl.Completion) {
	c := in.Eval("expr " + cond)
	if c.Code != tcl.CodeOK {
		return false, c
	}
	b, err := c.Result.Bool()
	if err != nil {
		return false, tcl.Err(err)
	}
	return b, tcl.Ok(nil)
}

func cmdIf[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	i := 1
	n := len(args)
	for i < n {
		cond := args[i].String()
		i++
		if i >= n {
			return tcl.Err(fmt.Errorf("if: missing body for condition %q", cond))
		}
		if args[i].String() == "then" {
			i++
			if i >= n {
				return tcl.Err(fmt.Errorf("if: missing body after then"))
			}
		}
		ok, c := truthy(in, cond)
		if c.Code != tcl.CodeOK {
			return c
		}
		body := args[i].String()
		i++
		if ok {
			return in.Eval(body)
		}
		if i >= n {
			return tcl.Ok(tcl.Empty())
		}
		switch args[i].String() {
		case "elseif":
			i++
			continue
		case "else":
			i++
			if i >= n {
				return tcl.Err(fmt.Errorf("if: missing body after else"))
			}
			return in.Eval(args[i].String())
		default:
			return tcl.Err(fmt.Errorf("if: expected \"elseif\" or \"else\""))
		}
	}
	return tcl.Ok(tcl.Empty())
}

func cmdWhile[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	cond := args[1].String()
	body := args[2].String()
	for {
		ok, c := truthy(in, cond)
		if c.Code != tcl.CodeOK {
			return c
		}
		if !ok {
			break
		}
		c = in.Eval(body)
		switch c.Code {
		case tcl.CodeOK, tcl.CodeContinue:
		case tcl.CodeBreak:
			return tcl.Ok(tcl.Empty())
		default:
			return c
		}
	}
	return tcl.Ok(tcl.Empty())
}

func cmdFor[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	init, cond, incr, body := args[1].String(), args[2].String(), args[3].String(), args[4].String()
	if c := in.Eval(init); c.Code != tcl.CodeOK {
		return c
	}
	for {
		ok, c := truthy(in, cond)
		if c.Code != tcl.CodeOK {
			return c
		}
		if !ok {
			break
		}
		c = in.Eval(body)
		switch c.Code {
		case tcl.CodeOK, tcl.CodeContinue:
		case tcl.CodeBreak:
			return tcl.Ok(tcl.Empty())
		default:
			return c
		}
		if c = in.Eval(incr); c.Code != tcl.CodeOK {
			return c
		}
	}
	return tcl.Ok(tcl.Empty())
}

func cmdSwitch[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	exact, glob, regexpr := true, false, false
	i := 1
loop:
	for ; i < len(args); i++ {
		switch args[i].String() {
		case "-exact":
			exact, glob, regexpr = true, false, false
		case "-glob":
			exact, glob, regexpr = false, true, false
		case "-regexp":
			exact, glob, regexpr = false, false, true
		case "--":
			i++
			break loop
		default:
			break loop
		}
	}
	if i >= len(args) {
		return tcl.Err(fmt.Errorf("switch: missing string to match"))
	}
	str := args[i].String()
	i++

	var pairs []*tcl.Value
	if len(args)-i == 1 {
		items, err := args[i].List()
		if err != nil {
			return tcl.Err(err)
		}
		pairs = items
	} else {
		pairs = args[i:]
	}

	for k := 0; k+1 < len(pairs); k += 2 {
		pattern := pairs[k].String()
		match := false
		if pattern == "default" {
			match = true
		} else {
			switch {
			case regexpr:
				m, err := regexp.MatchString(pattern, str)
				if err != nil {
					return tcl.Err(err)
				}
				match = m
			case exact:
				match = pattern == str
			case glob:
				match = tcl.Match(pattern, str, false, len(str)+1)
			}
		}
		if !match {
			continue
		}
		for pairs[k+1].String() == "-" {
			k += 2
			if k+1 >= len(pairs) {
				return tcl.Err(fmt.Errorf("switch: no body for pattern %q", pattern))
			}
		}
		return in.Eval(pairs[k+1].String())
	}
	return tcl.Ok(tcl.Empty())
}
