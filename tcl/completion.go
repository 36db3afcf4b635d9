/*
 * TCL completion codes: how a command or script reports how it finished,
 * carrying return/break/continue/error out of nested evaluation without
 * Go panics.
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

import "strings"

// Code classifies how a command finished.
type Code int

const (
	CodeOK Code = iota
	CodeError
	CodeReturn
	CodeBreak
	CodeContinue
	// CodeOther covers "return -code N" for N outside the above, a
	// TCL extension point host commands may interpret themselves.
	CodeOther
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeError:
		return "error"
	case CodeReturn:
		return "return"
	case CodeBreak:
		return "break"
	case CodeContinue:
		return "continue"
	default:
		return "other"
	}
}

// Completion is the full result of evaluating a command or script: a
// code plus its payload. Native commands and procedure bodies both
// return one of these instead of a bare (Value, error) pair, so that
// break/continue/return can propagate through nested Eval calls exactly
// like a normal result until something catches them.
type Completion struct {
	Code    Code
	Result  *Value
	Level   int      // for CodeReturn/CodeOther: the -code/-level value
	ErrCode []string // errorcode, as a list; empty means "NONE"
	ErrInfo string   // errorinfo: accumulated human-readable trace
}

// Ok builds a normal, successful completion carrying result.
func Ok(result *Value) Completion {
	if result == nil {
		result = Empty()
	}
	return Completion{Code: CodeOK, Result: result}
}

// Err builds an error completion from a Go error, with no error-code
// classification (equivalent to TCL's "NONE").
func Err(err error) Completion {
	return Completion{
		Code:    CodeError,
		Result:  NewString(err.Error()),
		ErrCode: []string{"NONE"},
		ErrInfo: err.Error(),
	}
}

// ErrorWithCode builds an error completion carrying an explicit
// errorcode list (e.g. {ARITH DIVZERO "divide by zero"}).
func ErrorWithCode(message string, errCode ...string) Completion {
	if len(errCode) == 0 {
		errCode = []string{"NONE"}
	}
	return Completion{
		Code:    CodeError,
		Result:  NewString(message),
		ErrCode: errCode,
		ErrInfo: message,
	}
}

// Return builds a "return" completion, optionally with a non-zero
// -level (how many procedure returns it should unwind through).
func Return(result *Value, level int) Completion {
	if result == nil {
		result = Empty()
	}
	return Completion{Code: CodeReturn, Result: result, Level: level}
}

func Break() Completion    { return Completion{Code: CodeBreak, Result: Empty()} }
func Continue() Completion { return Completion{Code: CodeContinue, Result: Empty()} }

// IsOk reports whether c represents successful, non-control-flow completion.
func (c Completion) IsOk() bool { return c.Code == CodeOK }

// addTrace appends a frame description to the error-info trace, in the
// same "\n    while executing\n\"...\"" shape TCL's own errorinfo uses.
func (c Completion) addTrace(context string) Completion {
	if c.Code != CodeError {
		return c
	}
	if c.ErrInfo == "" {
		c.ErrInfo = c.Result.String()
	}
	c.ErrInfo += "\n    " + context
	return c
}

func traceLine(verb, cmdText string) string {
	if len(cmdText) > 80 {
		cmdText = cmdText[:80] + "..."
	}
	return "while " + verb + "\n\"" + cmdText + "\""
}

func joinErrCode(codes []string) string {
	if len(codes) == 0 {
		return "NONE"
	}
	return strings.Join(codes, " ")
}
