/*
 * TCL  file command.
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

// Package fileext adds filesystem and channel-oriented native commands
// ("file", "open", "close", "gets", "read", "puts", "seek", "tell",
// "flush", "eof") to an Interp. The channel table that a host's "file"
// and I/O commands share is kept on the host context rather than inside
// the interpreter itself, so Register requires Ctx to expose one.
package fileext

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/opentcl/opentcl/tcl"
)

// Channels is the open-file table shared by every channel command.
// A host embeds one (directly or via a pointer field) and exposes it
// through Host.
type Channels struct {
	files map[string]*os.File
	eof   map[string]bool
}

// NewChannels builds a channel table preseeded with the three standard
// channels, matching the teacher's FileInit seeding.
func NewChannels() *Channels {
	c := &Channels{
		files: make(map[string]*os.File),
		eof:   make(map[string]bool),
	}
	c.files["stdin"] = os.Stdin
	c.files["stdout"] = os.Stdout
	c.files["stderr"] = os.Stderr
	c.eof["stdin"] = false
	c.eof["stdout"] = false
	c.eof["stderr"] = false
	return c
}

// Host is the constraint a context type must satisfy to use this
// package: a place to keep the open-channel table across calls.
type Host interface {
	FileChannels() *Channels
}

var openModes = map[string]int{
	"r":      os.O_RDONLY,
	"r+":     os.O_RDWR | os.O_CREATE,
	"w":      os.O_WRONLY | os.O_TRUNC | os.O_CREATE,
	"w+":     os.O_RDWR | os.O_TRUNC | os.O_CREATE,
	"a":      os.O_WRONLY | os.O_APPEND | os.O_CREATE,
	"a+":     os.O_RDWR | os.O_APPEND | os.O_CREATE,
	"RDONLY": os.O_RDONLY,
	"WRONLY": os.O_WRONLY,
	"RDWR":   os.O_RDWR,
	"APPEND": os.O_APPEND,
	"CREAT":  os.O_CREATE,
	"TRUNC":  os.O_TRUNC,
}

// Register installs the file and channel commands. It replaces any
// "puts" registered earlier (e.g. stdlib's bare version) with one that
// understands an explicit channel argument.
func Register[Ctx Host](in *tcl.Interp[Ctx]) {
	in.Register("file", 1, -1, cmdFile[Ctx])
	in.Register("eof", 1, 1, cmdEOF[Ctx])
	in.Register("open", 1, 3, cmdOpen[Ctx])
	in.Register("close", 1, 1, cmdClose[Ctx])
	in.Register("gets", 1, 2, cmdGets[Ctx])
	in.Register("read", 1, 2, cmdRead[Ctx])
	in.Register("puts", 0, 3, cmdPuts[Ctx])
	in.Register("seek", 2, 3, cmdSeek[Ctx])
	in.Register("tell", 1, 1, cmdTell[Ctx])
	in.Register("flush", 1, 1, cmdFlush[Ctx])
}

func fileFuncs[Ctx Host]() map[string]func(*tcl.Interp[Ctx], []*tcl.Value) tcl.Completion {
	return map[string]func(*tcl.Interp[Ctx], []*tcl.Value) tcl.Completion{
		"atime":       fileStat[Ctx],
		"channels":    fileChannels[Ctx],
		"copy":        fileCopy[Ctx],
		"cwd":         fileCwd[Ctx],
		"delete":      fileDelete[Ctx],
		"dir":         fileDir[Ctx],
		"dirname":     filePath[Ctx],
		"executable":  fileStat[Ctx],
		"exists":      fileStat[Ctx],
		"extension":   filePath[Ctx],
		"isdirectory": fileStat[Ctx],
		"isfile":      fileStat[Ctx],
		"join":        fileJoin[Ctx],
		"mkdir":       fileMkdir[Ctx],
		"mtime":       fileStat[Ctx],
		"readable":    fileAccess[Ctx],
		"rename":      fileRename[Ctx],
		"rootname":    filePath[Ctx],
		"pwd":         filePwd[Ctx],
		"separator":   fileSeparator[Ctx],
		"size":        fileStat[Ctx],
		"split":       filePath[Ctx],
		"tail":        filePath[Ctx],
		"type":        fileStat[Ctx],
		"writable":    fileAccess[Ctx],
	}
}

// cmdFile dispatches "file <subcommand> ..." through fileFuncs.
func cmdFile[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	sub := args[1].String()
	fn, ok := fileFuncs[Ctx]()[sub]
	if !ok {
		return tcl.Err(fmt.Errorf("unknown or ambiguous subcommand %q: must be one of the \"file\" subcommands", sub))
	}
	return fn(in, args)
}

// fileChannels returns the names of open channels, optionally filtered
// by a glob pattern.
func fileChannels[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) > 3 {
		return tcl.Err(fmt.Errorf("file channels ?pattern?"))
	}
	ch := in.Ctx().FileChannels()
	pattern := ""
	if len(args) == 3 {
		pattern = args[2].String()
	}
	res := []string{}
	for name := range ch.files {
		if pattern != "" && !tcl.Match(pattern, name, false, len(name)+1) {
			continue
		}
		res = append(res, name)
	}
	return tcl.Ok(tcl.NewList(stringValues(res)...))
}

func stringValues(ss []string) []*tcl.Value {
	vs := make([]*tcl.Value, len(ss))
	for i, s := range ss {
		vs[i] = tcl.NewString(s)
	}
	return vs
}

// fileCopy implements "file copy ?-force? source ?source ...? target".
func fileCopy[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	i := 2
	force := false
	if i < len(args) && args[i].String() == "-force" {
		force = true
		i++
	}
	if len(args) < i+2 {
		return tcl.Err(fmt.Errorf("file copy ?-force? source ?source ...? target"))
	}
	target := args[len(args)-1].String()
	dir := false
	if stat, err := os.Stat(target); err == nil {
		if stat.IsDir() {
			dir = true
		} else if !force {
			return tcl.Err(fmt.Errorf("file %q exists and is not a directory", target))
		}
	}
	for ; i < len(args)-1; i++ {
		if err := copyFile(args[i].String(), target, dir, force); err != nil {
			return tcl.Err(err)
		}
	}
	return tcl.Ok(tcl.Empty())
}

func copyFile(src, dst string, dir, force bool) error {
	source, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !source.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()
	if dir {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if _, err := os.Stat(dst); err == nil && !force {
		return fmt.Errorf("file %q exists", dst)
	}
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()
	_, err = io.Copy(destFile, sourceFile)
	return err
}

// fileDelete implements "file delete ?-force? path ?path ...?".
func fileDelete[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	i := 2
	if i < len(args) && args[i].String() == "-force" {
		i++
	}
	if i >= len(args) {
		return tcl.Err(fmt.Errorf("file delete ?-force? path ?path ...?"))
	}
	for ; i < len(args); i++ {
		if err := os.Remove(args[i].String()); err != nil && !os.IsNotExist(err) {
			return tcl.Err(err)
		}
	}
	return tcl.Ok(tcl.Empty())
}

// filePath implements the purely lexical "file dirname/extension/
// rootname/split/tail name" subcommands.
func filePath[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) != 3 {
		return tcl.Err(fmt.Errorf("file %s name", args[1].String()))
	}
	name := args[2].String()
	switch args[1].String() {
	case "dirname":
		return tcl.Ok(tcl.NewString(filepath.Dir(name)))
	case "extension":
		return tcl.Ok(tcl.NewString(filepath.Ext(name)))
	case "rootname":
		ext := filepath.Ext(name)
		return tcl.Ok(tcl.NewString(strings.TrimSuffix(name, ext)))
	case "split":
		parts := strings.Split(filepath.ToSlash(name), "/")
		return tcl.Ok(tcl.NewList(stringValues(parts)...))
	case "tail":
		return tcl.Ok(tcl.NewString(filepath.Base(name)))
	}
	return tcl.Err(fmt.Errorf("unsupported file subcommand %q", args[1].String()))
}

// fileStat implements the "file <predicate|attribute> name" subcommands
// that all boil down to one os.Lstat call. "atime" reports the same
// modification time as "mtime"; access times are not read.
func fileStat[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) != 3 {
		return tcl.Err(fmt.Errorf("file %s name", args[1].String()))
	}
	sub := args[1].String()
	name := args[2].String()
	info, err := os.Lstat(name)
	exists := true
	if err != nil {
		if os.IsNotExist(err) {
			exists = false
		} else if sub != "exists" {
			return tcl.Err(err)
		}
	}
	switch sub {
	case "atime", "mtime":
		if !exists {
			return tcl.Err(fmt.Errorf("could not read %q: no such file or directory", name))
		}
		return tcl.Ok(tcl.NewInt(info.ModTime().Unix()))
	case "exists":
		return tcl.Ok(tcl.NewBool(exists))
	case "isdirectory":
		return tcl.Ok(tcl.NewBool(exists && info.IsDir()))
	case "isfile":
		return tcl.Ok(tcl.NewBool(exists && info.Mode().IsRegular()))
	case "size":
		if !exists {
			return tcl.Err(fmt.Errorf("could not read %q: no such file or directory", name))
		}
		return tcl.Ok(tcl.NewInt(info.Size()))
	case "type":
		if !exists {
			return tcl.Err(fmt.Errorf("could not read %q: no such file or directory", name))
		}
		return tcl.Ok(tcl.NewString(fileTypeName(info.Mode())))
	case "executable":
		return tcl.Ok(tcl.NewBool(exists && info.Mode().IsRegular() && info.Mode()&0o111 != 0))
	}
	return tcl.Err(fmt.Errorf("unsupported file subcommand %q", sub))
}

func fileTypeName(mode fs.FileMode) string {
	switch {
	case mode.IsRegular():
		return "file"
	case mode.IsDir():
		return "directory"
	case mode&fs.ModeSymlink != 0:
		return "link"
	case mode&fs.ModeNamedPipe != 0:
		return "fifo"
	case mode&fs.ModeCharDevice != 0:
		return "characterSpecial"
	case mode&fs.ModeDevice != 0:
		return "blockSpecial"
	default:
		return "unknown"
	}
}

// fileJoin joins path components, discarding everything before the
// last absolute component the way filepath.Join's callers expect.
func fileJoin[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) < 3 {
		return tcl.Err(fmt.Errorf("file join name ?name ...?"))
	}
	parts := []string{}
	for _, a := range args[2:] {
		s := a.String()
		if s != "" && s[0] == filepath.Separator {
			parts = []string{}
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return tcl.Ok(tcl.Empty())
	}
	return tcl.Ok(tcl.NewString(filepath.Join(parts...)))
}

func fileCwd[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) != 3 {
		return tcl.Err(fmt.Errorf("file cwd dir"))
	}
	if err := os.Chdir(args[2].String()); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.Empty())
}

func filePwd[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) != 2 {
		return tcl.Err(fmt.Errorf("file pwd"))
	}
	dir, err := os.Getwd()
	if err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.NewString(dir))
}

func fileMkdir[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) < 3 {
		return tcl.Err(fmt.Errorf("file mkdir dir ?dir ...?"))
	}
	for _, a := range args[2:] {
		if err := os.MkdirAll(a.String(), 0o750); err != nil {
			return tcl.Err(err)
		}
	}
	return tcl.Ok(tcl.Empty())
}

// fileDir implements "file dir ?-all? ?dir?" (the teacher's reduced
// form of "glob"): a plain directory listing, dot-files hidden unless
// -all is given.
func fileDir[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	i := 2
	all := false
	if i < len(args) && args[i].String() == "-all" {
		all = true
		i++
	}
	dir := "."
	if i < len(args) {
		dir = args[i].String()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return tcl.Err(err)
	}
	res := []string{}
	for _, e := range entries {
		if all || e.Name()[0] != '.' {
			res = append(res, e.Name())
		}
	}
	return tcl.Ok(tcl.NewList(stringValues(res)...))
}

// fileRename implements "file rename ?-force? source ?source ...? target".
func fileRename[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	i := 2
	force := false
	if i < len(args) && args[i].String() == "-force" {
		force = true
		i++
	}
	if len(args) < i+2 {
		return tcl.Err(fmt.Errorf("file rename ?-force? source ?source ...? target"))
	}
	target := args[len(args)-1].String()
	dir := false
	if stat, err := os.Stat(target); err == nil {
		if stat.IsDir() {
			dir = true
		} else if !force {
			return tcl.Err(fmt.Errorf("file %q exists and is not a directory", target))
		}
	}
	for ; i < len(args)-1; i++ {
		src := args[i].String()
		dst := target
		if dir {
			dst = filepath.Join(target, filepath.Base(src))
		}
		if err := os.Rename(src, dst); err != nil {
			return tcl.Err(err)
		}
	}
	return tcl.Ok(tcl.Empty())
}

func fileSeparator[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) != 2 {
		return tcl.Err(fmt.Errorf("file separator"))
	}
	return tcl.Ok(tcl.NewString(string(filepath.Separator)))
}

func fileAccess[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	if len(args) != 3 {
		return tcl.Err(fmt.Errorf("file %s name", args[1].String()))
	}
	name := args[2].String()
	mode := os.O_RDONLY
	if args[1].String() == "writable" {
		mode = os.O_WRONLY
	}
	f, err := os.OpenFile(name, mode, 0o666)
	if err != nil {
		return tcl.Ok(tcl.NewBool(false))
	}
	f.Close()
	return tcl.Ok(tcl.NewBool(true))
}

// cmdOpen implements "open name ?access ?permissions??", returning a
// fresh channel identifier.
func cmdOpen[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	access := "r"
	perms := "0666"
	if len(args) > 2 {
		access = args[2].String()
	}
	if len(args) > 3 {
		perms = args[3].String()
	}
	mode, ok := openModes[access]
	if !ok {
		return tcl.Err(fmt.Errorf("invalid access mode %q", access))
	}
	perm, err := strconv.ParseInt(perms, 0, 32)
	if err != nil {
		return tcl.Err(fmt.Errorf("invalid permissions %q", perms))
	}
	file, err := os.OpenFile(name, mode, os.FileMode(perm))
	if err != nil {
		return tcl.Err(fmt.Errorf("unable to open file %q: %w", name, err))
	}
	ch := in.Ctx().FileChannels()
	channel := "file" + strconv.FormatInt(int64(file.Fd()), 10)
	ch.files[channel] = file
	ch.eof[channel] = false
	return tcl.Ok(tcl.NewString(channel))
}

func cmdClose[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	ch := in.Ctx().FileChannels()
	file, ok := ch.files[name]
	if !ok {
		return tcl.Err(fmt.Errorf("can not find channel named %q", name))
	}
	if err := file.Close(); err != nil {
		return tcl.Err(fmt.Errorf("unable to close %q: %w", name, err))
	}
	delete(ch.files, name)
	delete(ch.eof, name)
	return tcl.Ok(tcl.Empty())
}

func cmdEOF[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	ch := in.Ctx().FileChannels()
	eof, ok := ch.eof[name]
	if !ok {
		return tcl.Err(fmt.Errorf("can not find channel named %q", name))
	}
	return tcl.Ok(tcl.NewBool(eof))
}

// cmdRead implements "read ?-nonewline? channel ?numChars?", defaulting
// to reading the remainder of the file from the current position.
func cmdRead[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	i := 1
	nonewline := false
	if args[i].String() == "-nonewline" {
		nonewline = true
		i++
	}
	if i >= len(args) {
		return tcl.Err(fmt.Errorf("read ?-nonewline? channel ?numChars?"))
	}
	name := args[i].String()
	ch := in.Ctx().FileChannels()
	file, ok := ch.files[name]
	if !ok {
		return tcl.Err(fmt.Errorf("can not find channel named %q", name))
	}

	var n int
	if i+1 < len(args) {
		count, err := args[i+1].Int()
		if err != nil {
			return tcl.Err(fmt.Errorf("expected integer but got %q", args[i+1].String()))
		}
		n = int(count)
	} else {
		info, err := file.Stat()
		if err != nil {
			return tcl.Err(err)
		}
		pos, err := file.Seek(0, io.SeekCurrent)
		if err != nil {
			return tcl.Err(err)
		}
		n = int(info.Size() - pos)
	}

	buffer := make([]byte, n)
	read, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return tcl.Err(err)
	}
	if read == 0 {
		ch.eof[name] = true
		return tcl.Ok(tcl.Empty())
	}
	buffer = buffer[:read]
	if nonewline && len(buffer) > 0 && buffer[len(buffer)-1] == '\n' {
		buffer = buffer[:len(buffer)-1]
	}
	return tcl.Ok(tcl.NewString(string(buffer)))
}

// cmdGets reads one line (without its trailing newline) from channel,
// optionally storing it into varName and returning its length instead.
func cmdGets[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	ch := in.Ctx().FileChannels()
	file, ok := ch.files[name]
	if !ok {
		return tcl.Err(fmt.Errorf("can not find channel named %q", name))
	}

	var line strings.Builder
	input := make([]byte, 1)
	for {
		n, err := file.Read(input)
		if err != nil || n == 0 {
			ch.eof[name] = true
			break
		}
		if input[0] == '\n' {
			break
		}
		line.WriteByte(input[0])
	}

	if len(args) < 3 {
		return tcl.Ok(tcl.NewString(line.String()))
	}
	if err := in.SetVar(args[2].String(), tcl.NewString(line.String())); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.NewInt(int64(line.Len())))
}

// cmdPuts implements "puts ?-nonewline? ?channel? string", writing to
// stdout's channel by default.
func cmdPuts[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	ch := in.Ctx().FileChannels()
	i := 1
	nonewline := false
	if i < len(args) && args[i].String() == "-nonewline" {
		nonewline = true
		i++
	}
	name := "stdout"
	if i < len(args)-1 {
		name = args[i].String()
		i++
	}
	if i >= len(args) {
		return tcl.Err(fmt.Errorf("puts ?-nonewline? ?channel? string"))
	}
	text := args[i].String()
	if !nonewline {
		text += "\n"
	}
	file, ok := ch.files[name]
	if !ok {
		return tcl.Err(fmt.Errorf("can not find channel named %q", name))
	}
	if _, err := file.WriteString(text); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.Empty())
}

// cmdSeek implements "seek channel offset ?origin?".
func cmdSeek[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	ch := in.Ctx().FileChannels()
	file, ok := ch.files[name]
	if !ok {
		return tcl.Err(fmt.Errorf("can not find channel named %q", name))
	}
	offset, err := args[2].Int()
	if err != nil {
		return tcl.Err(fmt.Errorf("expected integer but got %q", args[2].String()))
	}
	origin := io.SeekStart
	if len(args) == 4 {
		switch args[3].String() {
		case "start":
			origin = io.SeekStart
		case "current":
			origin = io.SeekCurrent
		case "end":
			origin = io.SeekEnd
		default:
			return tcl.Err(fmt.Errorf("bad origin %q: must be start, current, or end", args[3].String()))
		}
	}
	if _, err := file.Seek(offset, origin); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.Empty())
}

// cmdTell implements "tell channel".
func cmdTell[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	ch := in.Ctx().FileChannels()
	file, ok := ch.files[name]
	if !ok {
		return tcl.Err(fmt.Errorf("can not find channel named %q", name))
	}
	pos, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.NewInt(pos))
}

func cmdFlush[Ctx Host](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	name := args[1].String()
	ch := in.Ctx().FileChannels()
	file, ok := ch.files[name]
	if !ok {
		return tcl.Err(fmt.Errorf("can not find channel named %q", name))
	}
	if err := file.Sync(); err != nil {
		return tcl.Err(err)
	}
	return tcl.Ok(tcl.Empty())
}
