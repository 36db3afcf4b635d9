/*
 * TCL example interactive/script runner.
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

// Command tinytcl is the interactive shell and script runner built on
// top of the tcl/stdlib/fileext/repl packages: the one worked consumer
// of the interpreter library.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"

	"github.com/opentcl/opentcl/fileext"
	"github.com/opentcl/opentcl/repl"
	"github.com/opentcl/opentcl/stdlib"
	"github.com/opentcl/opentcl/tcl"
)

// shellHost is the host context threaded through every native command:
// it carries the open-file and spawned-process tables fileext and repl
// each require of their Ctx type parameter.
type shellHost struct {
	files *fileext.Channels
	procs *repl.Processes
}

func (h *shellHost) FileChannels() *fileext.Channels { return h.files }
func (h *shellHost) Processes() *repl.Processes      { return h.procs }

func newShell() *tcl.Interp[*shellHost] {
	in := tcl.NewInterp[*shellHost](&shellHost{
		files: fileext.NewChannels(),
		procs: repl.NewProcesses(),
	})
	tcl.RegisterCore(in)
	stdlib.Register(in)
	fileext.Register(in)
	repl.Register(in)
	in.Register("exit", 0, 1, cmdExit[*shellHost])
	return in
}

// cmdExit implements "exit ?status?" as a CodeOther completion carrying
// the exit status in Level, so it propagates out through nested proc
// calls the same way return/break/continue do, without a package-level
// sentinel error.
func cmdExit[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	status := int64(0)
	if len(args) == 2 {
		n, err := args[1].Int()
		if err != nil {
			return tcl.Err(err)
		}
		status = n
	}
	return tcl.Completion{Code: tcl.CodeOther, Result: tcl.NewInt(status), Level: int(status)}
}

func main() {
	in := newShell()
	in.SetVar("argv0", tcl.NewString(os.Args[0]))
	in.SetVar("argc", tcl.NewInt(0))
	in.SetVar("argv", tcl.Empty())

	if len(os.Args) > 1 {
		runScript(in, os.Args[1:])
		return
	}
	runREPL(in)
}

func runScript(in *tcl.Interp[*shellHost], args []string) {
	text, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	in.SetVar("argv0", tcl.NewString(args[0]))
	if len(args) > 1 {
		in.SetVar("argv", tcl.NewString(strings.Join(args[1:], " ")))
		in.SetVar("argc", tcl.NewInt(int64(len(args[1:]))))
	}

	c := in.Eval(string(text))
	switch c.Code {
	case tcl.CodeOK, tcl.CodeReturn:
		os.Exit(0)
	case tcl.CodeOther:
		os.Exit(c.Level)
	default:
		fmt.Fprintln(os.Stderr, "Error: "+c.Result.String())
		os.Exit(1)
	}
}

func runREPL(in *tcl.Interp[*shellHost]) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(false)
	line.SetMultiLineMode(true)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		line.Close()
		fmt.Println("^C abort")
		os.Exit(0)
	}()

outer:
	for {
		multi := true
		command := ""
		for multi {
			var (
				l   string
				err error
			)
			if command == "" {
				l, err = line.Prompt("tcl> ")
			} else {
				l, err = line.Prompt("tcl# ")
			}
			if err != nil {
				if err == liner.ErrPromptAborted {
					fmt.Println("^C")
				} else {
					fmt.Println(err.Error())
				}
				break outer
			}
			if l == "" {
				continue
			}
			if strings.HasSuffix(l, "\\") {
				command += l[:len(l)-1] + "\n"
			} else {
				command += l
				multi = false
			}
		}

		line.AppendHistory(command)
		c := in.Eval(command)
		switch c.Code {
		case tcl.CodeOK, tcl.CodeReturn:
			if !c.Result.IsEmpty() {
				fmt.Println("=> " + c.Result.String())
			}
		case tcl.CodeOther:
			return
		default:
			fmt.Println("Error: " + c.Result.String())
		}
	}
}
