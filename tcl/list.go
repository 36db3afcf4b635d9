/*
 * TCL list syntax: an independent parser/formatter for the list string
 * format, sharing backslash/quoting rules with the script parser but
 * never invoking variable or command substitution.
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
	"fmt"
	"strings"
)

func isListSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// ParseList splits a TCL list string into its elements.
func ParseList(s string) ([]string, error) {
	var out []string
	i, n := 0, len(s)
	for i < n {
		for i < n && isListSpace(s[i]) {
			i++
		}
		if i >= n {
			break
		}
		var elem string
		var err error
		switch s[i] {
		case '{':
			elem, i, err = scanBraceElem(s, i)
		case '"':
			elem, i, err = scanQuoteElem(s, i)
		default:
			elem, i, err = scanBareElem(s, i)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
	return out, nil
}

// scanBraceElem parses a {...} list element, starting on '{'. Contents
// are literal; a backslash always protects the character that follows
// it from affecting brace nesting, but is otherwise left untouched.
func scanBraceElem(s string, i int) (string, int, error) {
	start := i + 1
	pos := start
	level := 1
	for pos < len(s) {
		switch s[pos] {
		case '\\':
			pos += 2
			continue
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return s[start:pos], pos + 1, nil
			}
		}
		pos++
	}
	return "", pos, fmt.Errorf("unmatched open brace in list")
}

// scanQuoteElem parses a "..." list element, starting on '"'.
func scanQuoteElem(s string, i int) (string, int, error) {
	var b strings.Builder
	pos := i + 1
	for pos < len(s) {
		c := s[pos]
		switch c {
		case '"':
			return b.String(), pos + 1, nil
		case '\\':
			txt, np := decodeEscape(s, pos)
			b.WriteString(txt)
			pos = np
		default:
			b.WriteByte(c)
			pos++
		}
	}
	return "", pos, fmt.Errorf("unmatched open quote in list")
}

// scanBareElem parses an unquoted list element up to the next whitespace.
func scanBareElem(s string, i int) (string, int, error) {
	var b strings.Builder
	pos := i
	for pos < len(s) && !isListSpace(s[pos]) {
		if s[pos] == '\\' {
			txt, np := decodeEscape(s, pos)
			b.WriteString(txt)
			pos = np
			continue
		}
		b.WriteByte(s[pos])
		pos++
	}
	return b.String(), pos, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// decodeEscape decodes one backslash escape starting at s[pos] == '\\',
// returning its replacement text and the position just past it. Shared
// by the list parser and the script parser's bare/quoted word scanning.
func decodeEscape(s string, pos int) (string, int) {
	if pos+1 >= len(s) {
		return "\\", pos + 1
	}
	c := s[pos+1]
	switch c {
	case '\n':
		j := pos + 2
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		return " ", j
	case 'a':
		return "\a", pos + 2
	case 'b':
		return "\b", pos + 2
	case 'e':
		return "\x1b", pos + 2
	case 'f':
		return "\f", pos + 2
	case 'n':
		return "\n", pos + 2
	case 'r':
		return "\r", pos + 2
	case 't':
		return "\t", pos + 2
	case 'v':
		return "\v", pos + 2
	case '\\':
		return "\\", pos + 2
	case 'x':
		j, val, digits := pos+2, 0, 0
		for j < len(s) && digits < 2 && isHexDigit(s[j]) {
			val = val*16 + hexVal(s[j])
			j++
			digits++
		}
		if digits == 0 {
			return "x", pos + 2
		}
		return string(rune(val)), j
	case 'u':
		j, val, digits := pos+2, 0, 0
		for j < len(s) && digits < 4 && isHexDigit(s[j]) {
			val = val*16 + hexVal(s[j])
			j++
			digits++
		}
		if digits == 0 {
			return "u", pos + 2
		}
		return string(rune(val)), j
	case '0', '1', '2', '3', '4', '5', '6', '7':
		j, val, digits := pos+1, 0, 0
		for j < len(s) && digits < 3 && s[j] >= '0' && s[j] <= '7' {
			val = val*8 + int(s[j]-'0')
			j++
			digits++
		}
		return string(rune(val)), j
	default:
		return string(c), pos + 2
	}
}

// FormatList renders elements as a canonical TCL list string.
func FormatList(elems []string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = formatElement(e)
	}
	return strings.Join(parts, " ")
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v', '{', '}', '[', ']', '$', '"', ';', '\\':
			return true
		}
	}
	return s[0] == '#'
}

func bracesBalanced(s string) bool {
	level := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			level++
		case '}':
			level--
			if level < 0 {
				return false
			}
		}
	}
	return level == 0
}

func endsWithOddBackslashes(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// formatElement renders a single element the way TCL's list formatter
// does: bare if safe, brace-quoted if its braces balance, otherwise
// backslash-escaped. parseList(formatList(xs)) always recovers xs.
func formatElement(s string) string {
	if !needsQuoting(s) {
		return s
	}
	if bracesBalanced(s) && !endsWithOddBackslashes(s) {
		return "{" + s + "}"
	}
	var b strings.Builder
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '\r', '\f', '\v', '{', '}', '[', ']', '$', '"', ';', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
