/*
 * TCL glob-style pattern matching, shared by switch -glob, string match,
 * lsearch -glob and info *'s pattern filters.
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

// Match reports whether target matches the glob pattern pat (supporting
// '*', '?' and '[...]' character classes). ignoreCase folds ASCII case.
// depth bounds recursion through '*' so a pathological pattern cannot
// blow the Go stack; callers pass len(target)+1 (with 0, even "*"
// fails to match "").
func Match(pat, target string, ignoreCase bool, depth int) bool {
	for {
		if pat == "" {
			return target == ""
		}
		if depth <= 0 {
			return false
		}

		switch pat[0] {
		case '*':
			rest := pat[1:]
			if rest == "" {
				return true
			}
			for k := 0; k <= len(target); k++ {
				if Match(rest, target[k:], ignoreCase, depth-1) {
					return true
				}
			}
			return false

		case '?':
			if target == "" {
				return false
			}
			pat, target = pat[1:], target[1:]

		case '[':
			if target == "" {
				return false
			}
			end := strings.IndexByte(pat, ']')
			if end < 0 {
				return matchLiteral(pat[0], target[0], ignoreCase) && Match(pat[1:], target[1:], ignoreCase, depth-1)
			}
			if !matchClass(pat[1:end], target[0], ignoreCase) {
				return false
			}
			pat, target = pat[end+1:], target[1:]

		case '\\':
			if len(pat) < 2 || target == "" {
				return false
			}
			if !matchLiteral(pat[1], target[0], ignoreCase) {
				return false
			}
			pat, target = pat[2:], target[1:]

		default:
			if target == "" || !matchLiteral(pat[0], target[0], ignoreCase) {
				return false
			}
			pat, target = pat[1:], target[1:]
		}
	}
}

func matchLiteral(a, b byte, ignoreCase bool) bool {
	if ignoreCase {
		return strings.EqualFold(string(a), string(b))
	}
	return a == b
}

// matchClass tests c against a "[...]" class body (without the brackets),
// supporting ranges ("a-z") and a leading '^' negation.
func matchClass(class string, c byte, ignoreCase bool) bool {
	negate := false
	if strings.HasPrefix(class, "^") {
		negate = true
		class = class[1:]
	}
	hit := false
	for i := 0; i < len(class); i++ {
		lo := class[i]
		hi := lo
		if i+2 < len(class) && class[i+1] == '-' {
			hi = class[i+2]
			i += 2
		}
		cc, lo2, hi2 := c, lo, hi
		if ignoreCase {
			cc = lowerByte(cc)
			lo2 = lowerByte(lo2)
			hi2 = lowerByte(hi2)
		}
		if cc >= lo2 && cc <= hi2 {
			hit = true
		}
	}
	return hit != negate
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
