// Copyright (C) 2026 Sibuge. All Rights Reserved.

package jfeed

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/Sibuge/jfeed/ast"
	"github.com/Sibuge/jfeed/internal/escape"
	"go4.org/mem"
)

// state enumerates the positions of the parser between input bytes.
type state byte

const (
	stateValue     state = iota // expecting the first byte of a value
	stateFirstElem              // after "[": a value or "]"
	stateFirstKey               // after "{": a key string or "}"
	stateKey                    // after "," in an object: a key string
	stateColon                  // after an object key: ":"
	stateNext                   // after a value in a container: "," or close
	stateKeyword                // inside an alphabetic keyword token
	stateNumber                 // inside a number token
	stateString                 // inside a string body
	stateEscape                 // after "\" in a string
	stateHex                    // inside the digits of a \uXXXX escape
	stateDone                   // top-level value complete
	stateFailed                 // error latched
)

// A frame records one partially built container value.
type frame struct {
	kind byte // '{' or '['
	obj  ast.Object
	arr  ast.Array
	key  string // pending member key, objects only
}

// A Parser is an incremental parser for a single JSON document. Input
// arrives in chunks of any size and alignment via Feed; the decoded value or
// the error describing why there is none is recovered with Finish. The zero
// value is not ready for use; call NewParser.
//
// The parser is an explicit state machine: Feed never retains a call stack
// across chunks, only the container frames of the value under construction,
// so it can stop after any byte and resume at the next.
type Parser struct {
	st  state
	ctx state   // structural state that opened the current scalar token
	stk []frame // open containers, innermost last

	buf  []byte // text of the current number or keyword, or decoded string
	hex  rune   // accumulated value of the pending \uXXXX escape
	nhex int    // hex digits still expected
	hi   rune   // pending high surrogate half, or 0

	maxDepth int
	result   ast.Value
	err      *SyntaxError
	finished bool

	off  int // bytes consumed
	line int // 0-based line of the next byte
	col  int // 0-based column of the next byte
}

// NewParser constructs a parser positioned to accept the start of one
// top-level value.
func NewParser() *Parser { return &Parser{} }

// SetMaxDepth bounds container nesting to n levels; n <= 0 means no limit.
// Input nested more deeply is reported as a syntax error.
func (p *Parser) SetMaxDepth(n int) { p.maxDepth = n }

// Done reports whether the parser is finished with its document, either
// because a top-level value completed or because an error latched. A done
// parser consumes no further input.
func (p *Parser) Done() bool { return p.st == stateDone || p.st == stateFailed }

// Feed advances the parser over a prefix of data and returns the number of
// bytes consumed. Fewer bytes than len(data) are consumed exactly when the
// document is done: the remaining bytes belong to whatever follows in the
// stream. A closing bracket or brace that completes the value is consumed; a
// byte that merely terminates a top-level number or keyword is not.
//
// Malformed input latches the parser into an error state. The byte on which
// the error was detected is consumed, and every later call consumes nothing.
// Call Finish to retrieve the error.
func (p *Parser) Feed(data []byte) int {
	if p.finished {
		return 0
	}
	var n int
	for n < len(data) && p.st != stateDone && p.st != stateFailed {
		k := p.step(data[n:])
		p.mark(data[n : n+k])
		n += k
	}
	return n
}

// Finish completes parsing and returns the decoded value, or an error of
// concrete type *SyntaxError describing why there is none. Finishing a
// parser that was fed no value bytes reports an empty input stream. After
// Finish the parser must not be fed again; further input is ignored.
func (p *Parser) Finish() (ast.Value, error) {
	p.finished = true
	switch p.st {
	case stateDone:
		return p.result, nil
	case stateFailed:
		return nil, p.err
	case stateKeyword:
		p.endKeyword()
	case stateNumber:
		p.endNumber()
	case stateValue:
		if len(p.stk) == 0 {
			p.failf("empty input stream")
		}
	}
	switch p.st {
	case stateDone:
		return p.result, nil
	case stateFailed:
		return nil, p.err
	}
	p.failf("unexpected end of input")
	return nil, p.err
}

// mark accounts for consumed bytes in the offset and line/column counters.
func (p *Parser) mark(data []byte) {
	p.off += len(data)
	for _, b := range data {
		if b == '\n' {
			p.line++
			p.col = 0
		} else {
			p.col++
		}
	}
}

// step consumes input from the front of data and returns the number of
// bytes taken. It may return zero when a byte outside a scalar token ends
// that token: the state advances and the byte is left for the next step.
// Bulk states (string bodies, digit runs, whitespace) consume runs up to the
// next byte needing individual attention, so that errors are always raised
// on the first byte of a step and carry an accurate location.
func (p *Parser) step(data []byte) int {
	switch p.st {
	case stateKeyword:
		return p.stepKeyword(data)
	case stateNumber:
		return p.stepNumber(data)
	case stateString:
		return p.stepString(data)
	case stateEscape:
		return p.stepEscape(data[0])
	case stateHex:
		return p.stepHex(data[0])
	}
	if isSpace(data[0]) {
		i := 1
		for i < len(data) && isSpace(data[i]) {
			i++
		}
		return i
	}
	return p.stepStructural(data[0])
}

// stepStructural dispatches one non-whitespace byte in a position between
// tokens.
func (p *Parser) stepStructural(b byte) int {
	switch p.st {
	case stateValue, stateFirstElem:
		return p.stepValue(b)

	case stateFirstKey, stateKey:
		switch {
		case b == '}' && p.st == stateFirstKey:
			p.pop()
		case b == '"':
			p.beginToken(stateString)
		case isAlpha(b) || isDigit(b) || b == '-':
			// Lex a misplaced scalar as usual; endKeyword and endNumber
			// report it against the key context.
			p.beginScalar(b)
		default:
			p.failf("unexpected %q, expected object key", b)
		}

	case stateColon:
		if b != ':' {
			p.failf("unexpected %q, expected %q", b, ':')
		} else {
			p.st = stateValue
		}

	case stateNext:
		top := p.stk[len(p.stk)-1]
		switch {
		case b == ',':
			if top.kind == '{' {
				p.st = stateKey
			} else {
				p.st = stateValue
			}
		case b == '}' && top.kind == '{', b == ']' && top.kind == '[':
			p.pop()
		default:
			p.failf("unexpected %q in %s", b, kindName(top.kind))
		}
	}
	return 1
}

// stepValue dispatches the first byte of a value.
func (p *Parser) stepValue(b byte) int {
	switch {
	case b == ']' && p.st == stateFirstElem:
		p.pop()
	case b == '{':
		p.push('{', stateFirstKey)
	case b == '[':
		p.push('[', stateFirstElem)
	case b == '"':
		p.beginToken(stateString)
	case isDigit(b) || b == '-', isAlpha(b):
		p.beginScalar(b)
	default:
		p.failf("unexpected %q", b)
	}
	return 1
}

// beginScalar starts a number or keyword token whose first byte is b.
func (p *Parser) beginScalar(b byte) {
	if isAlpha(b) {
		p.beginToken(stateKeyword)
	} else {
		p.beginToken(stateNumber)
	}
	p.buf = append(p.buf, b)
}

// beginToken records the structural context for a scalar token and resets
// the token scratch buffer.
func (p *Parser) beginToken(st state) {
	p.ctx = p.st
	p.st = st
	p.buf = p.buf[:0]
}

func (p *Parser) stepKeyword(data []byte) int {
	i := 0
	for i < len(data) && isAlpha(data[i]) {
		i++
	}
	if i > 0 {
		p.buf = append(p.buf, data[:i]...)
		return i
	}
	// data[0] terminates the keyword. A valid keyword leaves its terminator
	// unconsumed; an invalid one consumes the byte that exposed it.
	if p.endKeyword() {
		return 0
	}
	return 1
}

// endKeyword validates the accumulated keyword token and completes its
// value. It reports false if the parser failed.
func (p *Parser) endKeyword() bool {
	if p.ctx == stateFirstKey || p.ctx == stateKey {
		return p.failf("expected object key, got %q", p.buf)
	}
	got := mem.B(p.buf)
	var v ast.Value
	switch {
	case got.Equal(mem.S("true")):
		v = ast.Bool(true)
	case got.Equal(mem.S("false")):
		v = ast.Bool(false)
	case got.Equal(mem.S("null")):
		v = ast.Null{}
	default:
		return p.failf("invalid keyword %q", p.buf)
	}
	p.complete(v)
	return true
}

func (p *Parser) stepNumber(data []byte) int {
	i := 0
	for i < len(data) && isNumByte(data[i]) {
		i++
	}
	if i > 0 {
		p.buf = append(p.buf, data[:i]...)
		return i
	}
	if p.endNumber() {
		return 0
	}
	return 1
}

// endNumber validates the accumulated number token against the JSON number
// grammar and completes its value. It reports false if the parser failed.
func (p *Parser) endNumber() bool {
	if p.ctx == stateFirstKey || p.ctx == stateKey {
		return p.failf("expected object key, got %q", p.buf)
	}
	if err := checkNumber(p.buf); err != nil {
		return p.failf("invalid number %q: %v", p.buf, err)
	}
	v, err := strconv.ParseFloat(string(p.buf), 64)
	if err != nil {
		// checkNumber passed, so the only remaining failure is range.
		return p.failf("number %q out of range", p.buf)
	}
	p.complete(ast.Number(v))
	return true
}

func (p *Parser) stepString(data []byte) int {
	i := 0
	for i < len(data) {
		if b := data[i]; b == '"' || b == '\\' || b < ' ' {
			break
		}
		i++
	}
	if i > 0 {
		p.flushSurrogate()
		p.buf = append(p.buf, data[:i]...)
		return i
	}
	switch b := data[0]; {
	case b == '"':
		p.flushSurrogate()
		p.endString(string(p.buf))
	case b == '\\':
		p.st = stateEscape
	default:
		p.failf("unescaped control %q in string", b)
	}
	return 1
}

// endString completes the string token, as a member key or a value
// depending on the context that opened it.
func (p *Parser) endString(s string) {
	if p.ctx == stateFirstKey || p.ctx == stateKey {
		p.stk[len(p.stk)-1].key = s
		p.st = stateColon
		return
	}
	p.complete(ast.String(s))
}

func (p *Parser) stepEscape(b byte) int {
	switch b {
	case 'u':
		p.st = stateHex
		p.hex, p.nhex = 0, 4
		return 1
	case '"', '\\', '/':
		p.flushSurrogate()
		p.buf = append(p.buf, b)
	case 'b':
		p.flushSurrogate()
		p.buf = append(p.buf, '\b')
	case 'f':
		p.flushSurrogate()
		p.buf = append(p.buf, '\f')
	case 'n':
		p.flushSurrogate()
		p.buf = append(p.buf, '\n')
	case 'r':
		p.flushSurrogate()
		p.buf = append(p.buf, '\r')
	case 't':
		p.flushSurrogate()
		p.buf = append(p.buf, '\t')
	default:
		p.failf("invalid %q after escape", b)
		return 1
	}
	p.st = stateString
	return 1
}

func (p *Parser) stepHex(b byte) int {
	d, ok := escape.HexValue(b)
	if !ok {
		p.failf("invalid hex digit %q in Unicode escape", b)
		return 1
	}
	p.hex = p.hex<<4 | rune(d)
	if p.nhex--; p.nhex > 0 {
		return 1
	}

	p.st = stateString
	r := p.hex
	if p.hi != 0 {
		if c := utf16.DecodeRune(p.hi, r); c != utf8.RuneError {
			p.buf = utf8.AppendRune(p.buf, c)
			p.hi = 0
			return 1
		}
		p.flushSurrogate()
	}
	switch {
	case r >= 0xD800 && r < 0xDC00:
		// High surrogate half: hold it until the next escape.
		p.hi = r
	case utf16.IsSurrogate(r):
		p.buf = utf8.AppendRune(p.buf, utf8.RuneError)
	default:
		p.buf = utf8.AppendRune(p.buf, r)
	}
	return 1
}

// flushSurrogate converts a pending unpaired high surrogate to the Unicode
// replacement rune.
func (p *Parser) flushSurrogate() {
	if p.hi != 0 {
		p.buf = utf8.AppendRune(p.buf, utf8.RuneError)
		p.hi = 0
	}
}

// push opens a container frame.
func (p *Parser) push(kind byte, st state) {
	if p.maxDepth > 0 && len(p.stk) >= p.maxDepth {
		p.failf("input exceeds maximum nesting depth %d", p.maxDepth)
		return
	}
	p.stk = append(p.stk, frame{kind: kind})
	p.st = st
}

// pop closes the innermost container frame and completes its value.
func (p *Parser) pop() {
	fr := p.stk[len(p.stk)-1]
	p.stk = p.stk[:len(p.stk)-1]
	if fr.kind == '{' {
		p.complete(fr.obj)
	} else {
		p.complete(fr.arr)
	}
}

// complete attaches a finished value to the innermost open container, or
// records it as the document result at top level.
func (p *Parser) complete(v ast.Value) {
	if len(p.stk) == 0 {
		p.result = v
		p.st = stateDone
		return
	}
	top := &p.stk[len(p.stk)-1]
	if top.kind == '{' {
		top.obj = top.obj.Set(top.key, v)
	} else {
		top.arr = append(top.arr, v)
	}
	p.st = stateNext
}

// failf latches the parser in the error state. It always reports false so
// token finishers can return its result directly.
func (p *Parser) failf(msg string, args ...any) bool {
	p.err = &SyntaxError{
		Location: LineCol{Line: p.line + 1, Column: p.col},
		Offset:   p.off,
		Message:  fmt.Sprintf(msg, args...),
	}
	p.st = stateFailed
	return false
}

// SyntaxError is the concrete type of errors reported for malformed input.
// Offsets and locations are relative to the start of the document's first
// byte as fed to its parser.
type SyntaxError struct {
	Location LineCol // position of the offending byte
	Offset   int     // byte offset of the offending byte
	Message  string
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", e.Location, e.Message)
}

// checkNumber validates buf against the JSON number grammar:
// an optional sign, an integer part without redundant leading zeroes, an
// optional fraction, and an optional exponent.
func checkNumber(buf []byte) error {
	i, n := 0, len(buf)
	if i < n && buf[i] == '-' {
		i++
	}
	switch {
	case i >= n || !isDigit(buf[i]):
		return errors.New("missing integer digits")
	case buf[i] == '0':
		i++
	default:
		for i < n && isDigit(buf[i]) {
			i++
		}
	}
	if i < n && buf[i] == '.' {
		i++
		if i >= n || !isDigit(buf[i]) {
			return errors.New("missing fraction digits")
		}
		for i < n && isDigit(buf[i]) {
			i++
		}
	}
	if i < n && (buf[i] == 'e' || buf[i] == 'E') {
		i++
		if i < n && (buf[i] == '+' || buf[i] == '-') {
			i++
		}
		if i >= n || !isDigit(buf[i]) {
			return errors.New("missing exponent digits")
		}
		for i < n && isDigit(buf[i]) {
			i++
		}
	}
	if i != n {
		return fmt.Errorf("unexpected %q", buf[i])
	}
	return nil
}

func kindName(kind byte) string {
	if kind == '{' {
		return "object"
	}
	return "array"
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' }

// isNumByte reports whether b may appear in a number token. The character
// class is deliberately loose; checkNumber validates the complete token.
func isNumByte(b byte) bool {
	return isDigit(b) || b == '+' || b == '-' || b == '.' || b == 'e' || b == 'E'
}
