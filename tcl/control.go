/*
 * TCL core control-flow commands: the handful of commands that must be
 * implemented inside the evaluator itself because they manipulate scope
 * frames or completion codes directly, rather than just computing a value.
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
)

// RegisterCore installs every command that needs direct access to the
// evaluator's internals: control flow, scope aliasing, and proc
// definition. Host embedders call this once, then layer stdlib/fileext/
// repl commands on top as needed.
func RegisterCore[Ctx any](in *Interp[Ctx]) {
	in.Register("return", 0, -1, cmdReturn[Ctx])
	in.Register("break", 0, 0, cmdBreak[Ctx])
	in.Register("continue", 0, 0, cmdContinue[Ctx])
	in.Register("error", 1, 3, cmdError[Ctx])
	in.Register("catch", 1, 3, cmdCatch[Ctx])
	in.Register("uplevel", 1, -1, cmdUplevel[Ctx])
	in.Register("global", 1, -1, cmdGlobal[Ctx])
	in.Register("upvar", 2, -1, cmdUpvar[Ctx])
	in.Register("variable", 1, -1, cmdVariable[Ctx])
	in.Register("unset", 1, -1, cmdUnset[Ctx])
	in.Register("proc", 3, 3, cmdProc[Ctx])
}

func cmdReturn[Ctx any](in *Interp[Ctx], args []*Value) Completion {
	result := Empty()
	level := 0
	code := CodeReturn
	i := 1
	for i+1 < len(args) {
		switch args[i].String() {
		case "-code":
			switch args[i+1].String() {
			case "ok":
				code = CodeOK
			case "error":
				code = CodeError
			case "return":
				code = CodeReturn
			case "break":
				code = CodeBreak
			case "continue":
				code = CodeContinue
			default:
				n, err := args[i+1].Int()
				if err != nil {
					return Err(fmt.Errorf("bad completion code %q", args[i+1].String()))
				}
				if n >= int64(CodeOK) && n <= int64(CodeContinue) {
					code = Code(n)
				} else {
					level = int(n)
					code = CodeOther
				}
			}
			i += 2
			continue
		case "-level":
			n, err := args[i+1].Int()
			if err != nil {
				return Err(err)
			}
			level = int(n)
			i += 2
			continue
		}
		break
	}
	if i < len(args) {
		result = args[i]
	}
	if code == CodeError {
		return ErrorWithCode(result.String())
	}
	c := Completion{Code: code, Result: result, Level: level}
	return c
}

func cmdBreak[Ctx any](in *Interp[Ctx], args []*Value) Completion { return Break() }

func cmdContinue[Ctx any](in *Interp[Ctx], args []*Value) Completion { return Continue() }

func cmdError[Ctx any](in *Interp[Ctx], args []*Value) Completion {
	message := args[1].String()
	c := ErrorWithCode(message)
	if len(args) >= 3 && !args[2].IsEmpty() {
		c.ErrInfo = args[2].String()
	}
	if len(args) >= 4 {
		codeList, err := args[3].List()
		if err == nil {
			codes := make([]string, len(codeList))
			for i, v := range codeList {
				codes[i] = v.String()
			}
			c.ErrCode = codes
		}
	}
	return c
}

// cmdCatch implements "catch body ?varname? ?optionsVar?". varname
// receives the completion's result; optionsVar receives a dict with
// -code, -level, -errorinfo, and -errorcode, the same keys Standard
// TCL's [catch] populates.
func cmdCatch[Ctx any](in *Interp[Ctx], args []*Value) Completion {
	c := in.Eval(args[1].String())
	if len(args) >= 3 {
		if err := in.scopes.top().SetVar(args[2].String(), c.Result); err != nil {
			return Err(err)
		}
	}
	if len(args) >= 4 {
		opts := NewDict()
		opts = opts.Set("-code", NewInt(int64(catchCode(c.Code))))
		opts = opts.Set("-level", NewInt(int64(c.Level)))
		opts = opts.Set("-errorinfo", NewString(c.ErrInfo))
		codes := c.ErrCode
		if codes == nil {
			codes = []string{"NONE"}
		}
		codeValues := make([]*Value, len(codes))
		for i, s := range codes {
			codeValues[i] = NewString(s)
		}
		opts = opts.Set("-errorcode", NewList(codeValues...))
		if err := in.scopes.top().SetVar(args[3].String(), NewDictValue(opts)); err != nil {
			return Err(err)
		}
	}
	return Ok(NewInt(int64(catchCode(c.Code))))
}

func catchCode(c Code) int {
	switch c {
	case CodeOK:
		return 0
	case CodeError:
		return 1
	case CodeReturn:
		return 2
	case CodeBreak:
		return 3
	case CodeContinue:
		return 4
	default:
		return 5
	}
}

// cmdUplevel evaluates a script in an outer scope: args[1] is an
// optional level spec (defaulting to "1", the immediate caller).
func cmdUplevel[Ctx any](in *Interp[Ctx], args []*Value) Completion {
	spec := ""
	scriptArgs := args[1:]
	if len(scriptArgs) > 1 {
		if _, err := in.scopes.resolveLevel(scriptArgs[0].String()); err == nil {
			spec = scriptArgs[0].String()
			scriptArgs = scriptArgs[1:]
		}
	}
	idx, err := in.scopes.resolveLevel(spec)
	if err != nil {
		return Err(err)
	}

	parts := make([]string, len(scriptArgs))
	for i, v := range scriptArgs {
		parts[i] = v.String()
	}
	script := FormatList(parts)
	if len(scriptArgs) == 1 {
		script = scriptArgs[0].String()
	}

	saved := in.scopes.frames
	in.scopes.frames = saved[:idx+1]
	c := in.Eval(script)
	in.scopes.frames = saved
	return c
}

func cmdGlobal[Ctx any](in *Interp[Ctx], args []*Value) Completion {
	cur := in.scopes.top()
	if cur == in.scopes.global() {
		return Ok(Empty())
	}
	global := in.scopes.global()
	for _, a := range args[1:] {
		cur.link(a.String(), global, a.String())
	}
	return Ok(Empty())
}

// cmdUpvar aliases variables from an outer scope into the current one:
// upvar ?level? otherVar myVar ?otherVar myVar ...?
func cmdUpvar[Ctx any](in *Interp[Ctx], args []*Value) Completion {
	rest := args[1:]
	spec := ""
	if len(rest)%2 == 1 {
		spec = rest[0].String()
		rest = rest[1:]
	}
	idx, err := in.scopes.resolveLevel(spec)
	if err != nil {
		return Err(err)
	}
	other := in.scopes.frames[idx]
	cur := in.scopes.top()
	for i := 0; i+1 < len(rest); i += 2 {
		cur.link(rest[i+1].String(), other, rest[i].String())
	}
	return Ok(Empty())
}

func cmdVariable[Ctx any](in *Interp[Ctx], args []*Value) Completion {
	cur := in.scopes.top()
	global := in.scopes.global()
	rest := args[1:]
	for i := 0; i < len(rest); i += 2 {
		name := rest[i].String()
		if cur != global {
			cur.link(name, global, name)
		}
		if i+1 < len(rest) {
			if err := global.SetVar(name, rest[i+1]); err != nil {
				return Err(err)
			}
		}
	}
	return Ok(Empty())
}

// cmdUnset implements "unset ?-nocomplain? ?--? ?name ...?". Missing
// names are silently ignored by default (-nocomplain is this dialect's
// standing behavior, not an opt-in), matching every other command here
// that takes such a flag in Standard TCL; any other failure (e.g.
// unsetting an array element of a scalar) still errors.
func cmdUnset[Ctx any](in *Interp[Ctx], args []*Value) Completion {
	cur := in.scopes.top()
	rest := args[1:]
	for len(rest) > 0 && (rest[0].String() == "-nocomplain" || rest[0].String() == "--") {
		rest = rest[1:]
	}
	for _, a := range rest {
		if err := cur.UnsetVar(a.String()); err != nil && !errors.Is(err, ErrNoSuchVariable) {
			return Err(err)
		}
	}
	return Ok(Empty())
}

// cmdProc defines a procedure: proc name {formalList} body. A formal
// may itself be a two-element {name default} list, or the literal name
// "args" to collect any trailing actuals.
func cmdProc[Ctx any](in *Interp[Ctx], args []*Value) Completion {
	name := args[1].String()
	formals, err := args[2].List()
	if err != nil {
		return Err(err)
	}
	params := make([]ProcParam, 0, len(formals))
	for _, f := range formals {
		sub, err := f.List()
		if err == nil && len(sub) == 2 {
			params = append(params, ProcParam{Name: sub[0].String(), HasDefault: true, Default: sub[1]})
			continue
		}
		params = append(params, ProcParam{Name: f.String()})
	}
	in.RegisterProc(name, &Proc{Params: params, Body: args[3].String()})
	return Ok(Empty())
}
