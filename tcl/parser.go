/*
 * TCL Parser
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

import "fmt"

// partKind identifies one constituent of a word: a literal run of text,
// a variable reference, or an embedded command to substitute.
type partKind int

const (
	partLiteral partKind = iota
	partVar
	partCmd
)

// part is one piece of a word. Words with exactly one part whose value
// is itself the whole word (a bare "$x" or a bare "[cmd]") substitute to
// a typed Value rather than a string; anything else concatenates as text.
type part struct {
	kind partKind

	lit string // partLiteral

	name    string // partVar: scalar name, or array name when index != nil
	index   []part // partVar: array index sub-word, nil for scalar
	script  string // partCmd: raw script text between [ and ]
}

// word is one argument of a command, made of one or more concatenated parts.
type word struct {
	parts []part
}

// Command is one parsed TCL command: a sequence of words, plus the
// source line it started on.
type Command struct {
	Words []word
	Line  int
}

// ParseScript splits src into successive commands, the way a TCL script
// is parsed: one command per logical line, where ';' and unescaped
// newlines terminate a command, "#" at command-start begins a comment
// that runs to end of line, and newlines inside unbalanced braces or
// brackets do not terminate anything.
func ParseScript(src string) ([]Command, error) {
	p := &scriptParser{src: src, line: 1}
	var cmds []Command
	for {
		p.skipCommandSeparators()
		if p.atEnd() {
			break
		}
		if p.peek() == '#' {
			p.skipComment()
			continue
		}
		startLine := p.line
		words, err := p.parseWords()
		if err != nil {
			return nil, err
		}
		if len(words) > 0 {
			cmds = append(cmds, Command{Words: words, Line: startLine})
		}
	}
	return cmds, nil
}

type scriptParser struct {
	src string
	pos int
	line int
}

func (p *scriptParser) atEnd() bool { return p.pos >= len(p.src) }

func (p *scriptParser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *scriptParser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *scriptParser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func isInterWordSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

func (p *scriptParser) skipCommandSeparators() {
	for !p.atEnd() {
		c := p.peek()
		switch {
		case isInterWordSpace(c), c == '\n', c == ';':
			p.advance()
		default:
			return
		}
	}
}

func (p *scriptParser) skipComment() {
	for !p.atEnd() && p.peek() != '\n' {
		if p.peek() == '\\' && p.peekAt(1) == '\n' {
			p.advance()
			p.advance()
			continue
		}
		p.advance()
	}
}

// parseWords reads the words of a single command, stopping at an
// unescaped newline, ';', or '#'-as-comment is never reached here since
// comments only start a command, not continue one.
func (p *scriptParser) parseWords() ([]word, error) {
	var words []word
	for {
		p.skipInWordSpace()
		if p.atEnd() || p.peek() == '\n' || p.peek() == ';' {
			break
		}
		w, err := p.parseWord()
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

func (p *scriptParser) skipInWordSpace() {
	for !p.atEnd() {
		c := p.peek()
		if c == '\\' && p.peekAt(1) == '\n' {
			p.advance()
			p.advance()
			for !p.atEnd() && isInterWordSpace(p.peek()) {
				p.advance()
			}
			continue
		}
		if isInterWordSpace(c) {
			p.advance()
			continue
		}
		return
	}
}

func (p *scriptParser) parseWord() (word, error) {
	switch p.peek() {
	case '{':
		lit, err := p.parseBracedWord()
		if err != nil {
			return word{}, err
		}
		return word{parts: []part{{kind: partLiteral, lit: lit}}}, nil
	case '"':
		return p.parseQuotedWord()
	default:
		return p.parseBareWord()
	}
}

// parseBracedWord reads a {...}-quoted word. Its contents are taken
// literally (no substitution) except that a backslash-newline sequence
// collapses to a single space, matching TCL's line-continuation rule
// even inside braces.
func (p *scriptParser) parseBracedWord() (string, error) {
	p.advance() // '{'
	start := p.pos
	var out []byte
	level := 1
	for !p.atEnd() {
		c := p.peek()
		switch c {
		case '\\':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n' {
				out = append(out, p.src[start:p.pos]...)
				out = append(out, ' ')
				p.advance()
				p.advance()
				for !p.atEnd() && (p.peek() == ' ' || p.peek() == '\t') {
					p.advance()
				}
				start = p.pos
				continue
			}
			p.advance()
			if !p.atEnd() {
				p.advance()
			}
			continue
		case '{':
			level++
			p.advance()
		case '}':
			level--
			if level == 0 {
				text := string(append(out, p.src[start:p.pos]...))
				p.advance()
				return text, nil
			}
			p.advance()
		default:
			p.advance()
		}
	}
	return "", fmt.Errorf("unmatched open brace in script")
}

// ParseSubstWord parses src the way a "..."-quoted word's contents are
// parsed: variable and command substitution throughout, whitespace
// treated as literal text, running to end of input rather than a
// closing quote. It backs the "subst" command.
func ParseSubstWord(src string) (word, error) {
	p := &scriptParser{src: src, line: 1}
	w := word{}
	var lit []byte
	flush := func() {
		if len(lit) > 0 {
			w.parts = append(w.parts, part{kind: partLiteral, lit: string(lit)})
			lit = nil
		}
	}
	for !p.atEnd() {
		c := p.peek()
		switch c {
		case '\\':
			txt, np := decodeEscape(p.src, p.pos)
			p.pos = np
			lit = append(lit, txt...)
		case '$':
			flush()
			pt, ok, err := p.tryParseVarPart()
			if err != nil {
				return word{}, err
			}
			if !ok {
				lit = append(lit, '$')
				p.advance()
				continue
			}
			w.parts = append(w.parts, pt)
		case '[':
			flush()
			pt, err := p.parseCmdPart()
			if err != nil {
				return word{}, err
			}
			w.parts = append(w.parts, pt)
		default:
			lit = append(lit, c)
			p.advance()
		}
	}
	flush()
	return w, nil
}

// parseQuotedWord reads a "..."-quoted word, performing variable and
// command substitution but treating whitespace as ordinary text.
func (p *scriptParser) parseQuotedWord() (word, error) {
	p.advance() // '"'
	w := word{}
	var lit []byte
	flush := func() {
		if len(lit) > 0 {
			w.parts = append(w.parts, part{kind: partLiteral, lit: string(lit)})
			lit = nil
		}
	}
	for {
		if p.atEnd() {
			return word{}, fmt.Errorf("unmatched open quote in script")
		}
		c := p.peek()
		switch c {
		case '"':
			p.advance()
			flush()
			return w, nil
		case '\\':
			txt, np := decodeEscape(p.src, p.pos)
			p.pos = np
			lit = append(lit, txt...)
		case '$':
			flush()
			pt, ok, err := p.tryParseVarPart()
			if err != nil {
				return word{}, err
			}
			if !ok {
				lit = append(lit, '$')
				p.advance()
				continue
			}
			w.parts = append(w.parts, pt)
		case '[':
			flush()
			pt, err := p.parseCmdPart()
			if err != nil {
				return word{}, err
			}
			w.parts = append(w.parts, pt)
		default:
			lit = append(lit, c)
			p.advance()
		}
	}
}

// parseBareWord reads an unquoted word, terminated by whitespace, ';',
// newline, or end of input.
func (p *scriptParser) parseBareWord() (word, error) {
	w := word{}
	var lit []byte
	flush := func() {
		if len(lit) > 0 {
			w.parts = append(w.parts, part{kind: partLiteral, lit: string(lit)})
			lit = nil
		}
	}
	for !p.atEnd() {
		c := p.peek()
		if c == '\n' || c == ';' || isInterWordSpace(c) {
			break
		}
		switch c {
		case '\\':
			if p.peekAt(1) == '\n' {
				flush()
				return w, nil
			}
			txt, np := decodeEscape(p.src, p.pos)
			p.pos = np
			lit = append(lit, txt...)
		case '$':
			flush()
			pt, ok, err := p.tryParseVarPart()
			if err != nil {
				return word{}, err
			}
			if !ok {
				lit = append(lit, '$')
				p.advance()
				continue
			}
			w.parts = append(w.parts, pt)
		case '[':
			flush()
			pt, err := p.parseCmdPart()
			if err != nil {
				return word{}, err
			}
			w.parts = append(w.parts, pt)
		default:
			lit = append(lit, c)
			p.advance()
		}
	}
	flush()
	return w, nil
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// tryParseVarPart parses a "$name", "$name(index)" or "${braced name}"
// reference starting at the '$'. Returns ok=false (leaving the parser
// position untouched) if '$' is not followed by a valid variable name,
// in which case the caller treats '$' as a literal character.
func (p *scriptParser) tryParseVarPart() (part, bool, error) {
	start := p.pos
	p.advance() // '$'
	if p.peek() == '{' {
		p.advance()
		nstart := p.pos
		for !p.atEnd() && p.peek() != '}' {
			p.advance()
		}
		if p.atEnd() {
			p.pos = start
			return part{}, false, nil
		}
		name := p.src[nstart:p.pos]
		p.advance() // '}'
		return part{kind: partVar, name: name}, true, nil
	}

	nstart := p.pos
	for !p.atEnd() && isNameByte(p.peek()) {
		p.advance()
	}
	if p.pos == nstart {
		p.pos = start
		return part{}, false, nil
	}
	name := p.src[nstart:p.pos]

	if p.peek() == '(' {
		p.advance()
		idxWord, err := p.parseParenIndex()
		if err != nil {
			return part{}, false, err
		}
		return part{kind: partVar, name: name, index: idxWord}, true, nil
	}
	return part{kind: partVar, name: name}, true, nil
}

// parseParenIndex parses the "index)" tail of "$name(index)", itself
// subject to variable and command substitution, terminated by the
// first unescaped ')'.
func (p *scriptParser) parseParenIndex() ([]part, error) {
	var parts []part
	var lit []byte
	flush := func() {
		if len(lit) > 0 {
			parts = append(parts, part{kind: partLiteral, lit: string(lit)})
			lit = nil
		}
	}
	for {
		if p.atEnd() {
			return nil, fmt.Errorf("unmatched open paren in variable reference")
		}
		c := p.peek()
		switch c {
		case ')':
			p.advance()
			flush()
			return parts, nil
		case '\\':
			txt, np := decodeEscape(p.src, p.pos)
			p.pos = np
			lit = append(lit, txt...)
		case '$':
			flush()
			pt, ok, err := p.tryParseVarPart()
			if err != nil {
				return nil, err
			}
			if !ok {
				lit = append(lit, '$')
				p.advance()
				continue
			}
			parts = append(parts, pt)
		case '[':
			flush()
			pt, err := p.parseCmdPart()
			if err != nil {
				return nil, err
			}
			parts = append(parts, pt)
		default:
			lit = append(lit, c)
			p.advance()
		}
	}
}

// parseCmdPart reads a "[...]" command substitution starting on '[',
// balancing nested brackets while respecting brace quoting, so that a
// literal ']' inside a braced word does not end the substitution early.
func (p *scriptParser) parseCmdPart() (part, error) {
	p.advance() // '['
	start := p.pos
	depth := 1
	braceLevel := 0
	for !p.atEnd() {
		c := p.peek()
		switch c {
		case '\\':
			p.advance()
			if !p.atEnd() {
				p.advance()
			}
			continue
		case '{':
			braceLevel++
		case '}':
			if braceLevel > 0 {
				braceLevel--
			}
		case '[':
			if braceLevel == 0 {
				depth++
			}
		case ']':
			if braceLevel == 0 {
				depth--
				if depth == 0 {
					script := p.src[start:p.pos]
					p.advance()
					return part{kind: partCmd, script: script}, nil
				}
			}
		}
		p.advance()
	}
	return part{}, fmt.Errorf("unmatched open bracket in script")
}
