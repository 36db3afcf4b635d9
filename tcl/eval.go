/*
 * TCL Evaluator: parses a script into commands, then substitutes each
 * command's words as it runs it, dispatches to
 * native commands and user procedures, and translates completions at
 * procedure and loop boundaries the way TCL's own eval loop does.
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
	"io"
	"os"
)

// ErrExit is a sentinel error named for the "exit" command. Nothing in
// this package returns it: EvalString reports a CodeOther completion
// (the form cmd/tinytcl's exit command uses) as an *Error.
var ErrExit = errors.New("exit")

const defaultMaxDepth = 1000

// Interp is one embeddable interpreter instance, generic over a
// host-supplied context datum Ctx threaded through every native command
// call (so a host command can reach host state without a global).
type Interp[Ctx any] struct {
	scopes   *scopeStack
	cmds     *registry[Ctx]
	ctx      Ctx
	maxDepth int
	Output   io.Writer

	// callNames tracks the call stack's procedure names, parallel to
	// scopes.frames, for "info level"/error traces.
	callNames []string
}

// NewInterp creates an interpreter around the given context datum and
// installs no commands beyond what the caller registers afterward.
func NewInterp[Ctx any](ctx Ctx) *Interp[Ctx] {
	in := &Interp[Ctx]{
		scopes:   newScopeStack(),
		cmds:     newRegistry[Ctx](),
		ctx:      ctx,
		maxDepth: defaultMaxDepth,
		Output:   os.Stdout,
	}
	in.callNames = []string{""}
	return in
}

// Ctx returns the host context datum.
func (in *Interp[Ctx]) Ctx() Ctx { return in.ctx }

// SetMaxDepth overrides the recursion ceiling (procedure call depth);
// the default is 1000.
func (in *Interp[Ctx]) SetMaxDepth(n int) { in.maxDepth = n }

// Depth reports the current scope stack depth (1 at the top level).
func (in *Interp[Ctx]) Depth() int { return in.scopes.depth() }

// Register installs a native command.
func (in *Interp[Ctx]) Register(name string, minArgs, maxArgs int, fn CmdFunc[Ctx]) {
	in.cmds.Register(name, minArgs, maxArgs, fn)
}

// RegisterProc installs a user-defined procedure.
func (in *Interp[Ctx]) RegisterProc(name string, p *Proc) { in.cmds.RegisterProc(name, p) }

// RenameCommand renames or, with newName == "", deletes a command.
func (in *Interp[Ctx]) RenameCommand(oldName, newName string) error {
	return in.cmds.Rename(oldName, newName)
}

// CommandNames lists registered command names, optionally glob-filtered.
func (in *Interp[Ctx]) CommandNames(pattern string) []string { return in.cmds.Names(pattern) }

// CurrentScope exposes the active call frame, e.g. for commands like
// "global"/"upvar" that must manipulate frame aliasing directly.
func (in *Interp[Ctx]) CurrentScope() *Scope { return in.scopes.top() }

// GlobalScope exposes the top-level frame.
func (in *Interp[Ctx]) GlobalScope() *Scope { return in.scopes.global() }

// ScopeAtLevel resolves a TCL level spec ("#0", "2", "") relative to the
// current frame, per uplevel/upvar rules.
func (in *Interp[Ctx]) ScopeAtLevel(spec string) (*Scope, error) {
	idx, err := in.scopes.resolveLevel(spec)
	if err != nil {
		return nil, err
	}
	return in.scopes.frames[idx], nil
}

// GetVar reads a variable from the current scope.
func (in *Interp[Ctx]) GetVar(ref string) (*Value, error) {
	return in.scopes.top().GetVar(ref)
}

// SetVar writes a variable in the current scope.
func (in *Interp[Ctx]) SetVar(ref string, v *Value) error {
	return in.scopes.top().SetVar(ref, v)
}

// UnsetVar removes a variable from the current scope.
func (in *Interp[Ctx]) UnsetVar(ref string) error {
	return in.scopes.top().UnsetVar(ref)
}

// EvalString parses and evaluates src as a full script, returning a Go
// error for any non-OK completion: CodeError carries the error message;
// CodeReturn/CodeBreak/CodeContinue escaping the top level are reported
// as errors, matching TCL's own "invoked ... outside of a proc/loop".
func (in *Interp[Ctx]) EvalString(src string) (*Value, error) {
	c := in.Eval(src)
	switch c.Code {
	case CodeOK:
		return c.Result, nil
	case CodeReturn:
		return nil, fmt.Errorf("invoked \"return\" outside of a proc")
	case CodeBreak:
		return nil, fmt.Errorf("invoked \"break\" outside of a loop")
	case CodeContinue:
		return nil, fmt.Errorf("invoked \"continue\" outside of a loop")
	default:
		return nil, &Error{Completion: c}
	}
}

// Error adapts a non-OK Completion to the standard Go error interface,
// so hosts that only want err != nil still get one from EvalString.
type Error struct{ Completion Completion }

func (e *Error) Error() string { return e.Completion.Result.String() }

// Eval parses src and evaluates it as a script (sequence of commands),
// returning the raw Completion of the last command executed, or CodeOK
// with an empty result for an empty script.
func (in *Interp[Ctx]) Eval(src string) Completion {
	cmds, err := ParseScript(src)
	if err != nil {
		return Err(err)
	}
	return in.evalCommands(cmds)
}

// Subst performs variable and command substitution on src without
// treating it as a command invocation: the mechanism behind "subst".
func (in *Interp[Ctx]) Subst(src string) (*Value, Completion) {
	w, err := ParseSubstWord(src)
	if err != nil {
		return nil, Err(err)
	}
	return in.substituteWord(w)
}

// EvalBody evaluates an already-parsed command list (such as a cached
// procedure body) by the same rules as Eval, without parsing again.
func (in *Interp[Ctx]) EvalBody(cmds []Command) Completion {
	return in.evalCommands(cmds)
}

func (in *Interp[Ctx]) evalCommands(cmds []Command) Completion {
	result := Ok(Empty())
	for _, cmd := range cmds {
		result = in.evalCommand(cmd)
		if result.Code != CodeOK {
			return result
		}
	}
	return result
}

func (in *Interp[Ctx]) evalCommand(cmd Command) Completion {
	if len(cmd.Words) == 0 {
		return Ok(Empty())
	}
	values := make([]*Value, len(cmd.Words))
	for i, w := range cmd.Words {
		v, c := in.substituteWord(w)
		if c.Code != CodeOK {
			return c
		}
		values[i] = v
	}

	name := values[0].String()
	entry, ok := in.cmds.lookup(name)
	if !ok {
		return Err(fmt.Errorf("invalid command name %q", name))
	}
	if err := in.cmds.checkArity(entry, len(values)-1); err != nil {
		return Err(err)
	}

	if entry.native != nil {
		c := entry.native(in, values)
		if c.Code == CodeError {
			c = c.addTrace(traceLine("executing", cmd.sourceText(name)))
		}
		return c
	}
	return in.callProc(name, entry.proc, values)
}

// sourceText reconstructs a readable approximation of the command for
// error traces; it need not be byte-exact with the original source.
func (cmd Command) sourceText(name string) string {
	out := name
	for _, w := range cmd.Words[1:] {
		out += " " + wordPreview(w)
	}
	return out
}

func wordPreview(w word) string {
	s := ""
	for _, p := range w.parts {
		switch p.kind {
		case partLiteral:
			s += p.lit
		case partVar:
			s += "$" + p.name
		case partCmd:
			s += "[" + p.script + "]"
		}
	}
	return s
}

// substituteWord evaluates one word's parts, returning a typed Value
// when the word is exactly one partVar/partCmd part (preserving
// shimmering), and a plain string concatenation otherwise.
func (in *Interp[Ctx]) substituteWord(w word) (*Value, Completion) {
	if len(w.parts) == 0 {
		return Empty(), Ok(nil)
	}
	if len(w.parts) == 1 {
		v, c := in.substitutePart(w.parts[0])
		if c.Code != CodeOK {
			return nil, c
		}
		return v, Ok(nil)
	}
	out := ""
	for _, p := range w.parts {
		v, c := in.substitutePart(p)
		if c.Code != CodeOK {
			return nil, c
		}
		out += v.String()
	}
	return NewString(out), Ok(nil)
}

func (in *Interp[Ctx]) substitutePart(p part) (*Value, Completion) {
	switch p.kind {
	case partLiteral:
		return NewString(p.lit), Ok(nil)
	case partVar:
		return in.substituteVarPart(p)
	case partCmd:
		return in.substituteCmdPart(p)
	default:
		return Empty(), Ok(nil)
	}
}

func (in *Interp[Ctx]) substituteVarPart(p part) (*Value, Completion) {
	ref := p.name
	if p.index != nil {
		idx := ""
		for _, ip := range p.index {
			v, c := in.substitutePart(ip)
			if c.Code != CodeOK {
				return nil, c
			}
			idx += v.String()
		}
		ref = p.name + "(" + idx + ")"
	}
	v, err := in.scopes.top().GetVar(ref)
	if err != nil {
		return nil, Err(err)
	}
	return v, Ok(nil)
}

func (in *Interp[Ctx]) substituteCmdPart(p part) (*Value, Completion) {
	c := in.Eval(p.script)
	if c.Code != CodeOK {
		return nil, c
	}
	return c.Result, Ok(nil)
}

// callProc invokes a user-defined procedure: binds actuals to formals
// in a fresh scope, pushes it, evaluates the cached body, and collapses
// a CodeReturn at level 0 into a normal result the way a real call
// return boundary always absorbs one level of "return".
func (in *Interp[Ctx]) callProc(name string, p *Proc, values []*Value) Completion {
	if in.scopes.depth() >= in.maxDepth {
		return Err(fmt.Errorf("too many nested evaluations (infinite loop?)"))
	}
	actuals := values[1:]

	frame := newScope(name, in.scopes.depth())
	ai := 0
	for _, fp := range p.Params {
		if fp.Name == "args" {
			rest := actuals[ai:]
			frame.vars[fp.Name] = newScalarCell(NewList(rest...))
			ai = len(actuals)
			break
		}
		if ai < len(actuals) {
			frame.vars[fp.Name] = newScalarCell(actuals[ai])
			ai++
		} else if fp.HasDefault {
			frame.vars[fp.Name] = newScalarCell(fp.Default)
		}
	}

	if p.Body2 == nil {
		cmds, err := ParseScript(p.Body)
		if err != nil {
			return Err(err)
		}
		p.Body2 = cmds
	}

	in.scopes.push(frame)
	in.callNames = append(in.callNames, name)
	c := in.EvalBody(p.Body2)
	in.scopes.pop()
	in.callNames = in.callNames[:len(in.callNames)-1]

	switch c.Code {
	case CodeReturn:
		if c.Level > 0 {
			c.Level--
			return c
		}
		return Ok(c.Result)
	case CodeError:
		return c.addTrace(traceLine("executing", name))
	case CodeBreak, CodeContinue:
		return Err(fmt.Errorf("invoked %q outside of a loop", c.Code))
	default:
		return c
	}
}

// CallLevelName returns the procedure name executing at absolute scope
// index level (0 is the top level, where the name is "").
func (in *Interp[Ctx]) CallLevelName(level int) string {
	if level < 0 || level >= len(in.callNames) {
		return ""
	}
	return in.callNames[level]
}
