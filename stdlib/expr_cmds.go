/*
 * The "expr" command: a recursive-descent, precedence-climbing
 * expression evaluator, standing in for the teacher's single-operator
 * cmdMath now that the grammar needs normal operator precedence.
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

package stdlib

import (
	"fmt"
	"math"
	"strings"

	"github.com/opentcl/opentcl/tcl"
)

func registerExprCommands[Ctx any](in *tcl.Interp[Ctx]) {
	in.Register("expr", 1, -1, cmdExpr[Ctx])
}

func cmdExpr[Ctx any](in *tcl.Interp[Ctx], args []*tcl.Value) tcl.Completion {
	parts := make([]string, len(args)-1)
	for i, v := range args[1:] {
		parts[i] = v.String()
	}
	src := strings.Join(parts, " ")

	ep := &exprParser[Ctx]{in: in, src: src}
	ep.skipSpace()
	v, err := ep.parseExpr(0)
	if err != nil {
		return tcl.Err(err)
	}
	ep.skipSpace()
	if !ep.atEnd() {
		return tcl.Err(fmt.Errorf("syntax error in expression %q", src))
	}
	return tcl.Ok(v)
}

type exprParser[Ctx any] struct {
	in  *tcl.Interp[Ctx]
	src string
	pos int
}

func (p *exprParser[Ctx]) atEnd() bool { return p.pos >= len(p.src) }

func (p *exprParser[Ctx]) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser[Ctx]) skipSpace() {
	for !p.atEnd() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// binOp describes one binary operator: its source text, left-binding
// precedence (higher binds tighter), and whether it associates right
// (only "**" does here, matching normal math convention).
type binOp struct {
	text  string
	prec  int
	right bool
}

var binOps = []binOp{
	{"**", 7, true},
	{"*", 6, false}, {"/", 6, false}, {"%", 6, false},
	{"+", 5, false}, {"-", 5, false},
	{"<<", 4, false}, {">>", 4, false},
	{"<=", 3, false}, {">=", 3, false}, {"<", 3, false}, {">", 3, false},
	{"==", 2, false}, {"!=", 2, false},
	{"&&", 0, false}, {"||", 0, false},
	{"&", 1, false}, {"^", 1, false}, {"|", 1, false},
}

func (p *exprParser[Ctx]) matchOp() (binOp, bool) {
	for _, op := range binOps {
		if strings.HasPrefix(p.src[p.pos:], op.text) {
			// Don't let "<" steal a character from "<=" etc: ops are
			// tried longest-first via the table order above.
			return op, true
		}
	}
	return binOp{}, false
}

// parseExpr implements precedence climbing: parse a unary term, then
// repeatedly fold in binary operators whose precedence is >= minPrec.
func (p *exprParser[Ctx]) parseExpr(minPrec int) (*tcl.Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.atEnd() {
			break
		}
		op, ok := p.matchOp()
		if !ok || op.prec < minPrec {
			break
		}
		p.pos += len(op.text)
		p.skipSpace()
		nextMin := op.prec + 1
		if op.right {
			nextMin = op.prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left, err = applyBinOp(op.text, left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *exprParser[Ctx]) parseUnary() (*tcl.Value, error) {
	p.skipSpace()
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negate(v)
	case '+':
		p.pos++
		return p.parseUnary()
	case '!':
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return boolValue(!b), nil
	case '~':
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n, err := v.Int()
		if err != nil {
			return nil, err
		}
		return tcl.NewInt(^n), nil
	}
	return p.parsePrimary()
}

func negate(v *tcl.Value) (*tcl.Value, error) {
	if v.Kind() == "double" {
		f, _ := v.Float()
		return tcl.NewFloat(-f), nil
	}
	n, err := v.Int()
	if err != nil {
		f, ferr := v.Float()
		if ferr != nil {
			return nil, err
		}
		return tcl.NewFloat(-f), nil
	}
	return tcl.NewInt(-n), nil
}

func boolValue(b bool) *tcl.Value {
	if b {
		return tcl.NewInt(1)
	}
	return tcl.NewInt(0)
}

func (p *exprParser[Ctx]) parsePrimary() (*tcl.Value, error) {
	p.skipSpace()
	if p.atEnd() {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing close paren in expression")
		}
		p.pos++
		return v, nil
	case c == '"':
		return p.parseQuoted()
	case c == '$':
		return p.parseVarRef()
	case c == '[':
		return p.parseCmdSubst()
	case isDigitByte(c):
		return p.parseNumber()
	case isAlphaByte(c) || c == '_':
		return p.parseWordLike()
	default:
		return nil, fmt.Errorf("unexpected character %q in expression", string(c))
	}
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }
func isAlphaByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isAlnumByte(c byte) bool { return isAlphaByte(c) || isDigitByte(c) || c == '_' }

func (p *exprParser[Ctx]) parseNumber() (*tcl.Value, error) {
	start := p.pos
	isFloat := false
	if strings.HasPrefix(p.src[p.pos:], "0x") || strings.HasPrefix(p.src[p.pos:], "0X") {
		p.pos += 2
		for !p.atEnd() && isHexDigitByte(p.peek()) {
			p.pos++
		}
		return intLiteral(p.src[start:p.pos]), nil
	}
	if strings.HasPrefix(p.src[p.pos:], "0b") || strings.HasPrefix(p.src[p.pos:], "0B") {
		p.pos += 2
		for !p.atEnd() && isBinDigitByte(p.peek()) {
			p.pos++
		}
		return intLiteral(p.src[start:p.pos]), nil
	}
	for !p.atEnd() && isDigitByte(p.peek()) {
		p.pos++
	}
	if !p.atEnd() && p.peek() == '.' {
		isFloat = true
		p.pos++
		for !p.atEnd() && isDigitByte(p.peek()) {
			p.pos++
		}
	}
	if !p.atEnd() && (p.peek() == 'e' || p.peek() == 'E') {
		isFloat = true
		p.pos++
		if !p.atEnd() && (p.peek() == '+' || p.peek() == '-') {
			p.pos++
		}
		for !p.atEnd() && isDigitByte(p.peek()) {
			p.pos++
		}
	}
	text := p.src[start:p.pos]
	if isFloat {
		v := tcl.NewString(text)
		if _, err := v.Float(); err != nil {
			return nil, err
		}
		return v, nil
	}
	return intLiteral(text), nil
}

// intLiteral gives an integer literal its canonical decimal form (so
// "010" and "0x10" evaluate to 10 and 16); text that does not fit an
// int64 is kept as written.
func intLiteral(text string) *tcl.Value {
	v := tcl.NewString(text)
	if n, err := v.Int(); err == nil {
		return tcl.NewInt(n)
	}
	return v
}

func isHexDigitByte(c byte) bool {
	return isDigitByte(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isBinDigitByte(c byte) bool { return c == '0' || c == '1' }

func (p *exprParser[Ctx]) parseQuoted() (*tcl.Value, error) {
	p.pos++ // '"'
	start := p.pos
	for !p.atEnd() && p.peek() != '"' {
		p.pos++
	}
	if p.atEnd() {
		return nil, fmt.Errorf("unmatched quote in expression")
	}
	text := p.src[start:p.pos]
	p.pos++
	return tcl.NewString(text), nil
}

func (p *exprParser[Ctx]) parseVarRef() (*tcl.Value, error) {
	p.pos++ // '$'
	if p.peek() == '{' {
		p.pos++
		start := p.pos
		for !p.atEnd() && p.peek() != '}' {
			p.pos++
		}
		name := p.src[start:p.pos]
		p.pos++
		return p.in.GetVar(name)
	}
	start := p.pos
	for !p.atEnd() && isAlnumByte(p.peek()) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, fmt.Errorf("expected variable name after $")
	}
	if !p.atEnd() && p.peek() == '(' {
		p.pos++
		istart := p.pos
		for !p.atEnd() && p.peek() != ')' {
			p.pos++
		}
		idx := p.src[istart:p.pos]
		p.pos++
		return p.in.GetVar(name + "(" + idx + ")")
	}
	return p.in.GetVar(name)
}

func (p *exprParser[Ctx]) parseCmdSubst() (*tcl.Value, error) {
	p.pos++ // '['
	start := p.pos
	depth := 1
	for !p.atEnd() && depth > 0 {
		switch p.peek() {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				script := p.src[start:p.pos]
				p.pos++
				c := p.in.Eval(script)
				if c.Code != tcl.CodeOK {
					return nil, fmt.Errorf("%s", c.Result.String())
				}
				return c.Result, nil
			}
		}
		p.pos++
	}
	return nil, fmt.Errorf("unmatched bracket in expression")
}

var exprFuncs = map[string]func(float64) float64{
	"sqrt": math.Sqrt, "sin": math.Sin, "cos": math.Cos, "tan": math.Tan,
	"abs": math.Abs, "floor": math.Floor, "ceil": math.Ceil,
	"log": math.Log, "exp": math.Exp,
}

// parseWordLike handles bareword function calls ("sqrt(2)") and the
// literal constants true/false/yes/no/on/off.
func (p *exprParser[Ctx]) parseWordLike() (*tcl.Value, error) {
	start := p.pos
	for !p.atEnd() && isAlnumByte(p.peek()) {
		p.pos++
	}
	name := p.src[start:p.pos]

	p.skipSpace()
	if !p.atEnd() && p.peek() == '(' {
		fn, ok := exprFuncs[name]
		if !ok {
			return nil, fmt.Errorf("unknown math function %q", name)
		}
		p.pos++
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing close paren in function call")
		}
		p.pos++
		f, err := arg.Float()
		if err != nil {
			return nil, err
		}
		return tcl.NewFloat(fn(f)), nil
	}

	v := tcl.NewString(name)
	if b, err := v.Bool(); err == nil {
		return boolValue(b), nil
	}
	return nil, fmt.Errorf("invalid bareword %q in expression", name)
}

func applyBinOp(op string, a, b *tcl.Value) (*tcl.Value, error) {
	switch op {
	case "&&":
		av, err := a.Bool()
		if err != nil {
			return nil, err
		}
		bv, err := b.Bool()
		if err != nil {
			return nil, err
		}
		return boolValue(av && bv), nil
	case "||":
		av, err := a.Bool()
		if err != nil {
			return nil, err
		}
		bv, err := b.Bool()
		if err != nil {
			return nil, err
		}
		return boolValue(av || bv), nil
	}

	if a.Kind() == "double" || b.Kind() == "double" || op == "/" && isFloaty(a, b) {
		af, err := a.Float()
		if err != nil {
			return nil, err
		}
		bf, err := b.Float()
		if err != nil {
			return nil, err
		}
		return applyFloatOp(op, af, bf)
	}

	ai, aerr := a.Int()
	bi, berr := b.Int()
	if aerr != nil || berr != nil {
		af, err := a.Float()
		if err != nil {
			return nil, aerr
		}
		bf, err := b.Float()
		if err != nil {
			return nil, berr
		}
		return applyFloatOp(op, af, bf)
	}
	return applyIntOp(op, ai, bi)
}

func isFloaty(a, b *tcl.Value) bool {
	_, aerr := a.Int()
	_, berr := b.Int()
	return aerr != nil || berr != nil
}

func applyIntOp(op string, a, b int64) (*tcl.Value, error) {
	switch op {
	case "+":
		return tcl.NewInt(a + b), nil
	case "-":
		return tcl.NewInt(a - b), nil
	case "*":
		return tcl.NewInt(a * b), nil
	case "/":
		if b == 0 {
			return nil, fmt.Errorf("divide by zero")
		}
		return tcl.NewInt(a / b), nil
	case "%":
		if b == 0 {
			return nil, fmt.Errorf("divide by zero")
		}
		return tcl.NewInt(a % b), nil
	case "**":
		return tcl.NewInt(int64(math.Pow(float64(a), float64(b)))), nil
	case "<<":
		return tcl.NewInt(a << uint(b)), nil
	case ">>":
		return tcl.NewInt(a >> uint(b)), nil
	case "&":
		return tcl.NewInt(a & b), nil
	case "|":
		return tcl.NewInt(a | b), nil
	case "^":
		return tcl.NewInt(a ^ b), nil
	case "<":
		return boolValue(a < b), nil
	case "<=":
		return boolValue(a <= b), nil
	case ">":
		return boolValue(a > b), nil
	case ">=":
		return boolValue(a >= b), nil
	case "==":
		return boolValue(a == b), nil
	case "!=":
		return boolValue(a != b), nil
	default:
		return nil, fmt.Errorf("unsupported operator %q", op)
	}
}

func applyFloatOp(op string, a, b float64) (*tcl.Value, error) {
	switch op {
	case "+":
		return tcl.NewFloat(a + b), nil
	case "-":
		return tcl.NewFloat(a - b), nil
	case "*":
		return tcl.NewFloat(a * b), nil
	case "/":
		return tcl.NewFloat(a / b), nil
	case "**":
		return tcl.NewFloat(math.Pow(a, b)), nil
	case "<":
		return boolValue(a < b), nil
	case "<=":
		return boolValue(a <= b), nil
	case ">":
		return boolValue(a > b), nil
	case ">=":
		return boolValue(a >= b), nil
	case "==":
		return boolValue(a == b), nil
	case "!=":
		return boolValue(a != b), nil
	default:
		return nil, fmt.Errorf("unsupported operator %q for floating point", op)
	}
}
