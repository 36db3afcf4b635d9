/*
 * Miscellaneous built-ins: set, puts, incr/decr, concat, join, eval,
 * append, subst, rename, and info's subcommand family.
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
	"io"
	"strings"

	"github.com/opentcl/opentcl/tcl"
)

func registerMiscCommands[Ctx any](in *tcl.Interp[Ctx]) {
	in.Register("set", 1, 2, cmdSet[Ctx])
	in.Register("puts", 1, 2, cmdPuts[Ctx])
	in.Register("incr", 1, 2, cmdIncr[Ctx])
	in.Register("decr", 1, 2, cmdDecr[Ctx])
	in.Register("concat", 0, -1, cmdConcat[Ctx])
	in.Register("join", 1, 2, cmdJoin[Ctx])
	in.Register("eval", 1, -1, cmdEval[Ctx])
	in.Register("append", 1, -1, cmdAppend[Ctx])
	in.Register("subst", 1, 4, cmdSubst[Ctx])
	in.Register("rename", 1, 2, cmdRename[Ctx])
	in.Register("info", 1, -1, cmdInfo[Ctx])
}

func cmdSet[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	if len(args) > 2 {
		if err := in.SetVar(name, args[2]); err != nil {
			return tcl.Err(err)
		}
		return tcl.Ok(args[2])
	}
	v, err := in.GetVar(name)
	if err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(v)
}

func cmdPuts[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	text := args[len(args)-1].String()
	nonewline := len(args) == 3 && args[1].String() == "-nonewline"
	if !nonewline {
		text += "\n"
	}
	if in.Output != nil {
		io.WriteString(in.Output, text)
	}
	return tcl.Ok(tcl.Empty())
}

func cmdIncr[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	return incrBy(in, args, 1)
}

func cmdDecr[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	return incrBy(in, args, -1)
}

func incrBy[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value, sign int64) tcl.Completion {
	name := args[1].String()
	cur, err := in.GetVar(name)
	var base int64
	if err == nil {
		base, err = cur.Int()
		if err != nil {
			return tcl.Err(fmt.Errorf("expected integer but got %q", cur.String()))
		}
	}
	step := sign
	if len(args) > 2 {
		n, err := args[2].Int()
		if err != nil {
			return tcl.Err(fmt.Errorf("expected integer increment"))
		}
		if sign < 0 {
			step = -n
		} else {
			step = n
		}
	}
	nv := tcl.NewInt(base + step)
	if err := in.SetVar(name, nv); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(nv)
}

func cmdConcat[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		s := strings.TrimSpace(a.String())
		if s != "" {
			parts = append(parts, s)
		}
	}
	return tcl.Ok(tcl.NewString(strings.Join(parts, " ")))
}

func cmdJoin[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	items, err := args[1].List()
	if err != nil {
		return tcl.Err(err)
	}
	sep := " "
	if len(args) > 2 {
		sep = args[2].String()
	}
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = v.String()
	}
	return tcl.Ok(tcl.NewString(strings.Join(parts, sep)))
}

func cmdEval[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	parts := make([]string, len(args)-1)
	for i, v := range args[1:] {
		parts[i] = v.String()
	}
	return in.Eval(strings.Join(parts, " "))
}

func cmdAppend[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	str := ""
	if cur, err := in.GetVar(name); err == nil {
		str = cur.String()
	}
	for _, a := range args[2:] {
		str += a.String()
	}
	nv := tcl.NewString(str)
	if err := in.SetVar(name, nv); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(nv)
}

// cmdSubst performs variable and command substitution on its argument
// without treating it as a runnable command.
func cmdSubst[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	str := args[len(args)-1].String()
	v, c := in.Subst(str)
	if c.Code != tcl.CodeOK {
		return c
	}
	return tcl.Ok(v)
}

func cmdRename[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	oldName := args[1].String()
	newName := ""
	if len(args) > 2 {
		newName = args[2].String()
	}
	if err := in.RenameCommand(oldName, newName); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.Empty())
}

func cmdInfo[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) < 2 {
		return tcl.Err(fmt.Errorf("info subcommand ?arg ...?"))
	}
	switch args[1].String() {
	case "commands":
		pattern := ""
		if len(args) > 2 {
			pattern = args[2].String()
		}
		return namesResult(in.CommandNames(pattern))
	case "exists":
		if len(args) != 3 {
			return tcl.Err(fmt.Errorf("info exists varName"))
		}
		_, err := in.GetVar(args[2].String())
		return boolResult(err == nil)
	case "level":
		if len(args) > 2 {
			return tcl.Err(fmt.Errorf("info level: numbered queries are not supported"))
		}
		return tcl.Ok(tcl.NewInt(int64(in.Depth() - 1)))
	case "vars", "locals":
		return namesResult(in.CurrentScope().Names())
	case "globals":
		return namesResult(in.GlobalScope().Names())
	case "body":
		return tcl.Err(fmt.Errorf("info body: not supported for native commands"))
	default:
		return tcl.Err(fmt.Errorf("unknown or ambiguous subcommand %q: must be one of the info subcommands", args[1].String()))
	}
}

func namesResult(names []string) tcl.Completion {
	items := make([]*tcl.Value, len(names))
	for i, n := range names {
		items[i] = tcl.NewString(n)
	}
	return tcl.Ok(tcl.NewList(items...))
}
