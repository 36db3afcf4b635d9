/*
 * Standard library registration: every command that computes a result
 * from its arguments without needing direct access to scope internals
 * (those live in the evaluator's own control.go instead).
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

// Package stdlib implements the built-in commands layered on top of the
// tcl evaluator core: lists, strings, expr, loops/conditionals, and the
// miscellaneous odds and ends (puts, info, rename, ...).
package stdlib

import "github.com/opentcl/opentcl/tcl"

// Register installs the full standard library into in. Host embedders
// call tcl.RegisterCore first, then this, then any domain-specific
// packages (fileext, repl) they want.
func Register[Ctx any](in *tcl.Interp[Ctx]) {
	registerListCommands(in)
	registerStringCommands(in)
	registerExprCommands(in)
	registerLoopCommands(in)
	registerMiscCommands(in)
}
