/*
 * TCL  Test set for the script parser.
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

import "testing"

func TestParseScriptWordCounts(t *testing.T) {
	testCases := []struct {
		src  string
		want []int // words per command
	}{
		{"", nil},
		{"set x 1", []int{3}},
		{"set x 1; set y 2", []int{3, 3}},
		{"set x 1\nset y 2", []int{3, 3}},
		{"# just a comment\nset x 1", []int{3}},
		{"set x {a b c}", []int{3}},
		{"", nil},
	}
	for _, test := range testCases {
		cmds, err := ParseScript(test.src)
		if err != nil {
			t.Errorf("ParseScript(%q) error: %v", test.src, err)
			continue
		}
		if len(cmds) != len(test.want) {
			t.Errorf("ParseScript(%q) got %d commands, want %d", test.src, len(cmds), len(test.want))
			continue
		}
		for i, c := range cmds {
			if len(c.Words) != test.want[i] {
				t.Errorf("ParseScript(%q) cmd %d has %d words, want %d", test.src, i, len(c.Words), test.want[i])
			}
		}
	}
}

func TestParseScriptBracedWordIsLiteral(t *testing.T) {
	cmds, err := ParseScript(`set x {$y [z]}`)
	if err != nil {
		t.Fatalf("ParseScript error: %v", err)
	}
	if len(cmds) != 1 || len(cmds[0].Words) != 3 {
		t.Fatalf("unexpected parse: %#v", cmds)
	}
	w := cmds[0].Words[2]
	if len(w.parts) != 1 || w.parts[0].kind != partLiteral || w.parts[0].lit != "$y [z]" {
		t.Errorf("braced word = %#v, want single literal part %q", w, "$y [z]")
	}
}

func TestParseScriptVarPart(t *testing.T) {
	cmds, err := ParseScript("set x $y")
	if err != nil {
		t.Fatalf("ParseScript error: %v", err)
	}
	w := cmds[0].Words[2]
	if len(w.parts) != 1 || w.parts[0].kind != partVar || w.parts[0].name != "y" {
		t.Errorf("word parts = %#v, want single partVar named y", w.parts)
	}
}

func TestParseScriptVarArrayIndex(t *testing.T) {
	cmds, err := ParseScript("set x $arr(idx)")
	if err != nil {
		t.Fatalf("ParseScript error: %v", err)
	}
	w := cmds[0].Words[2]
	if len(w.parts) != 1 || w.parts[0].kind != partVar || w.parts[0].name != "arr" {
		t.Fatalf("word parts = %#v", w.parts)
	}
	if len(w.parts[0].index) != 1 || w.parts[0].index[0].lit != "idx" {
		t.Errorf("index = %#v, want literal idx", w.parts[0].index)
	}
}

func TestParseScriptCmdSubst(t *testing.T) {
	cmds, err := ParseScript("set x [foo bar]")
	if err != nil {
		t.Fatalf("ParseScript error: %v", err)
	}
	w := cmds[0].Words[2]
	if len(w.parts) != 1 || w.parts[0].kind != partCmd || w.parts[0].script != "foo bar" {
		t.Errorf("word parts = %#v, want single partCmd %q", w.parts, "foo bar")
	}
}

func TestParseScriptMixedWordConcatenates(t *testing.T) {
	cmds, err := ParseScript("set x a$y-b")
	if err != nil {
		t.Fatalf("ParseScript error: %v", err)
	}
	w := cmds[0].Words[2]
	if len(w.parts) != 3 {
		t.Fatalf("parts = %#v, want 3", w.parts)
	}
	if w.parts[0].kind != partLiteral || w.parts[0].lit != "a" {
		t.Errorf("parts[0] = %#v", w.parts[0])
	}
	if w.parts[1].kind != partVar || w.parts[1].name != "y" {
		t.Errorf("parts[1] = %#v", w.parts[1])
	}
	if w.parts[2].kind != partLiteral || w.parts[2].lit != "-b" {
		t.Errorf("parts[2] = %#v", w.parts[2])
	}
}

func TestParseScriptUnmatchedBrace(t *testing.T) {
	if _, err := ParseScript("set x {unterminated"); err == nil {
		t.Errorf("expected error for unmatched brace, got none")
	}
}

func TestParseScriptUnmatchedBracket(t *testing.T) {
	if _, err := ParseScript("set x [unterminated"); err == nil {
		t.Errorf("expected error for unmatched bracket, got none")
	}
}

func TestParseSubstWord(t *testing.T) {
	w, err := ParseSubstWord("a$y b")
	if err != nil {
		t.Fatalf("ParseSubstWord error: %v", err)
	}
	if len(w.parts) != 3 {
		t.Fatalf("parts = %#v, want 3", w.parts)
	}
	if w.parts[1].kind != partVar || w.parts[1].name != "y" {
		t.Errorf("parts[1] = %#v", w.parts[1])
	}
	if w.parts[2].kind != partLiteral || w.parts[2].lit != " b" {
		t.Errorf("parts[2] = %#v, whitespace should be literal", w.parts[2])
	}
}
