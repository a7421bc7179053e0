// Copyright (C) 2026 Sibuge. All Rights Reserved.

package ast

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/Sibuge/jfeed/internal/escape"
	"go4.org/mem"
)

// A Formatter carries the settings for rendering values as JSON text.
// The zero value is ready for use and produces the most compact form.
type Formatter struct {
	// Pretty emits multi-line output with two-space indentation and a space
	// after each colon. The default is the most compact form, with no
	// insignificant whitespace.
	Pretty bool

	// SortKeys renders object members in ascending order of key, regardless
	// of their order in the object. The object itself is not modified.
	SortKeys bool

	// Colors, if set, selects ANSI color codes painted around tokens of the
	// output. Leave nil for plain text.
	Colors *Colors
}

const indentUnit = "  "

// Append appends the rendering of v to dst and returns the extended slice.
// Append panics if v contains a concrete type that is not defined by this
// package.
func (f Formatter) Append(dst []byte, v Value) []byte {
	return f.appendValue(dst, v, "")
}

// String renders v as a string.
func (f Formatter) String(v Value) string { return string(f.Append(nil, v)) }

// Format writes the rendering of v to w.
func (f Formatter) Format(w io.Writer, v Value) error {
	_, err := w.Write(f.Append(nil, v))
	return err
}

func (f Formatter) appendValue(dst []byte, v Value, indent string) []byte {
	switch t := v.(type) {
	case Null:
		return f.paint(dst, f.Colors.literal(), "null")
	case Bool:
		return f.paint(dst, f.Colors.literal(), t.JSON())
	case Number:
		dst = f.begin(dst, f.Colors.number())
		dst = appendNumber(dst, t)
		return f.end(dst, f.Colors.number())
	case String:
		return f.appendString(dst, string(t), f.Colors.str())
	case Array:
		return f.appendArray(dst, t, indent)
	case Object:
		return f.appendObject(dst, t, indent)
	case *Error:
		return f.appendString(dst, t.Message, f.Colors.errText())
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

func (f Formatter) appendArray(dst []byte, a Array, indent string) []byte {
	if len(a) == 0 {
		return append(dst, "[]"...)
	}
	dst = append(dst, '[')
	sub := indent + indentUnit
	for i, el := range a {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = f.appendBreak(dst, sub)
		dst = f.appendValue(dst, el, sub)
	}
	dst = f.appendBreak(dst, indent)
	return append(dst, ']')
}

func (f Formatter) appendObject(dst []byte, o Object, indent string) []byte {
	if len(o) == 0 {
		return append(dst, "{}"...)
	}
	members := o
	if f.SortKeys {
		members = slices.Clone(o)
		slices.SortStableFunc(members, func(a, b *Member) int {
			return cmp.Compare(a.Key, b.Key)
		})
	}
	dst = append(dst, '{')
	sub := indent + indentUnit
	for i, m := range members {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = f.appendBreak(dst, sub)
		dst = f.appendString(dst, m.Key, f.Colors.key())
		dst = append(dst, ':')
		if f.Pretty {
			dst = append(dst, ' ')
		}
		dst = f.appendValue(dst, m.Value, sub)
	}
	dst = f.appendBreak(dst, indent)
	return append(dst, '}')
}

// appendBreak starts an indented line in pretty mode.
func (f Formatter) appendBreak(dst []byte, indent string) []byte {
	if !f.Pretty {
		return dst
	}
	dst = append(dst, '\n')
	return append(dst, indent...)
}

func (f Formatter) appendString(dst []byte, s, color string) []byte {
	dst = f.begin(dst, color)
	dst = appendQuoted(dst, s)
	return f.end(dst, color)
}

func (f Formatter) paint(dst []byte, color, text string) []byte {
	dst = f.begin(dst, color)
	dst = append(dst, text...)
	return f.end(dst, color)
}

func (f Formatter) begin(dst []byte, color string) []byte {
	if color != "" {
		dst = append(dst, color...)
	}
	return dst
}

func (f Formatter) end(dst []byte, color string) []byte {
	if color != "" {
		dst = append(dst, colorReset...)
	}
	return dst
}

// appendQuoted appends the escaped, quoted JSON encoding of s to dst.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	dst = escape.Quote(dst, mem.S(s))
	return append(dst, '"')
}

// appendNumber renders n in the shortest form that parses back to the same
// value. Integral values within the exactly-representable range print
// without a decimal point or exponent; negative zero keeps its sign.
func appendNumber(dst []byte, n Number) []byte {
	v := float64(n)
	if v == math.Trunc(v) && math.Abs(v) < 1e15 && !(v == 0 && math.Signbit(v)) {
		return strconv.AppendInt(dst, int64(v), 10)
	}
	return strconv.AppendFloat(dst, v, 'g', -1, 64)
}

// Colors selects the ANSI escape sequences painted around rendered tokens.
// An empty field leaves that token class unpainted.
type Colors struct {
	Key     string // object member keys
	String  string // string values
	Number  string // number values
	Literal string // true, false, null
	Error   string // parse-error records
}

const colorReset = "\x1b[0m"

func (c *Colors) key() string {
	if c == nil {
		return ""
	}
	return c.Key
}

func (c *Colors) str() string {
	if c == nil {
		return ""
	}
	return c.String
}

func (c *Colors) number() string {
	if c == nil {
		return ""
	}
	return c.Number
}

func (c *Colors) literal() string {
	if c == nil {
		return ""
	}
	return c.Literal
}

func (c *Colors) errText() string {
	if c == nil {
		return ""
	}
	return c.Error
}
