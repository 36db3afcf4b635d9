/*
 * TCL  Expect command processing.
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

// Package repl adds a pty-backed "spawn" native command and its
// companions (send/recv/wait/disconnect) to an Interp: launch a
// subprocess attached to a pseudo-terminal and drive it interactively
// from script. Pattern-matching over the child's output (the teacher's
// "expect" blocks) and the telnet transport are out of scope here; this
// keeps only the process-spawning and cancelable-read half.
package repl

import (
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/muesli/cancelreader"

	"github.com/opentcl/opentcl/tcl"
)

type chunk struct {
	data []byte
	err  error
}

type process struct {
	cmd    *exec.Cmd
	pty    ptyFile
	rdr    cancelreader.CancelReader
	output chan chunk
	done   bool
	mu     sync.Mutex
}

// ptyFile narrows the pty package's return type down to the Read/Write/
// Close surface this package actually uses, so tests can substitute one.
type ptyFile = fileReadWriteCloser

type fileReadWriteCloser interface {
	Read([]byte) (int, error)
	Write([]byte) (int, error)
	Close() error
}

// Processes is the spawn table shared by every command in this package,
// kept on the host context the same way fileext keeps its channel table.
type Processes struct {
	procs map[string]*process
	next  int
}

// NewProcesses builds an empty spawn table.
func NewProcesses() *Processes {
	return &Processes{procs: make(map[string]*process)}
}

// Host is the constraint a context type must satisfy to use this package.
type Host interface {
	Processes() *Processes
}

// Register installs spawn/send/recv/wait/disconnect.
func Register[Ctx Host](in *tcl.Interp[Ctx]) {
	in.Register("spawn", 1, -1, cmdSpawn[Ctx])
	in.Register("send", 2, 2, cmdSend[Ctx])
	in.Register("recv", 1, 2, cmdRecv[Ctx])
	in.Register("wait", 1, 1, cmdWait[Ctx])
	in.Register("disconnect", 1, 1, cmdDisconnect[Ctx])
}

// cmdSpawn implements "spawn program ?arg ...?", starting program
// attached to a new pty and returning a spawn identifier.
func cmdSpawn[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	argv := make([]string, len(args)-2)
	for i, a := range args[2:] {
		argv[i] = a.String()
	}
	cmd := exec.Command(name, argv...)
	f, err := pty.Start(cmd)
	if err != nil {
		return tcl.Err(fmt.Errorf("unable to spawn %q: %w", name, err))
	}
	rdr, err := cancelreader.NewReader(f)
	if err != nil {
		f.Close()
		return tcl.Err(fmt.Errorf("unable to attach reader to %q: %w", name, err))
	}

	procs := in.Ctx().Processes()
	procs.next++
	id := "spawn" + strconv.Itoa(procs.next)
	p := &process{cmd: cmd, pty: f, rdr: rdr, output: make(chan chunk, 64)}
	procs.procs[id] = p
	go p.readLoop()

	return tcl.Ok(tcl.NewString(id))
}

func (p *process) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := p.rdr.Read(buf)
		if n > 0 {
			out := make([]byte, n)
			copy(out, buf[:n])
			p.output <- chunk{data: out}
		}
		if err != nil {
			p.output <- chunk{err: err}
			return
		}
	}
}

func lookupProcess(procs *Processes, id string) (*process, error) {
	pr, ok := procs.procs[id]
	if !ok {
		return nil, fmt.Errorf("no spawned process named %q", id)
	}
	return pr, nil
}

// cmdSend implements "send spawnId string", writing directly to the
// child's pty.
func cmdSend[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	procs := in.Ctx().Processes()
	p, err := lookupProcess(procs, args[1].String())
	if err != nil {
		return tcl.Err(err)
	}
	if _, err := p.pty.Write([]byte(args[2].String())); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.Empty())
}

// cmdRecv implements "recv spawnId ?timeoutMs?", draining whatever
// output has buffered since the last call, waiting up to timeoutMs
// (default 1000) for at least one chunk to arrive.
func cmdRecv[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	procs := in.Ctx().Processes()
	p, err := lookupProcess(procs, args[1].String())
	if err != nil {
		return tcl.Err(err)
	}
	timeoutMs := int64(1000)
	if len(args) == 3 {
		ms, err := args[2].Int()
		if err != nil {
			return tcl.Err(fmt.Errorf("expected integer but got %q", args[2].String()))
		}
		timeoutMs = ms
	}

	timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer timer.Stop()

	var out []byte
	select {
	case c := <-p.output:
		if c.err != nil {
			p.mu.Lock()
			p.done = true
			p.mu.Unlock()
			return tcl.Ok(tcl.NewString(string(out)))
		}
		out = append(out, c.data...)
	case <-timer.C:
		return tcl.Ok(tcl.Empty())
	}

	// Drain anything else already queued without blocking further.
	for {
		select {
		case c := <-p.output:
			if c.err != nil {
				p.mu.Lock()
				p.done = true
				p.mu.Unlock()
				return tcl.Ok(tcl.NewString(string(out)))
			}
			out = append(out, c.data...)
		default:
			return tcl.Ok(tcl.NewString(string(out)))
		}
	}
}

// cmdWait implements "wait spawnId", blocking until the child exits and
// returning its exit status.
func cmdWait[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	procs := in.Ctx().Processes()
	id := args[1].String()
	p, err := lookupProcess(procs, id)
	if err != nil {
		return tcl.Err(err)
	}
	delete(procs.procs, id)
	waitErr := p.cmd.Wait()
	p.rdr.Cancel()
	p.pty.Close()
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			return tcl.Ok(tcl.NewInt(int64(exitErr.ExitCode())))
		}
		return tcl.Err(waitErr)
	}
	return tcl.Ok(tcl.NewInt(0))
}

// cmdDisconnect implements "disconnect spawnId", terminating the read
// loop and closing the pty without waiting for the child to exit
// (named distinctly from "close" to avoid colliding with fileext's
// channel-close command, same constraint the teacher noted).
func cmdDisconnect[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	procs := in.Ctx().Processes()
	id := args[1].String()
	p, err := lookupProcess(procs, id)
	if err != nil {
		return tcl.Err(err)
	}
	delete(procs.procs, id)
	p.rdr.Cancel()
	p.pty.Close()
	return tcl.Ok(tcl.Empty())
}
