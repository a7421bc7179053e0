// Copyright (C) 2026 Sibuge. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON string contents.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

var shortEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote appends the JSON encoding of the string contents src to dst and
// returns the extended slice. Enclosing quotation marks are not added.
//
// Backslash and double quote are escaped with a backslash. Control bytes
// below 0x20 use the short escapes \b \f \n \r \t where defined, and \u00XX
// otherwise. All other bytes, including the non-ASCII range, pass through
// unmodified.
func Quote(dst []byte, src mem.RO) []byte {
	for src.Len() != 0 {
		i := 0
		for i < src.Len() {
			if b := src.At(i); b < ' ' || b == '"' || b == '\\' {
				break
			}
			i++
		}
		dst = mem.Append(dst, src.SliceTo(i))
		if i == src.Len() {
			break
		}
		b := src.At(i)
		src = src.SliceFrom(i + 1)
		if b >= ' ' {
			dst = append(dst, '\\', b) // '"' or '\\'
		} else if e := shortEsc[b]; e != 0 {
			dst = append(dst, '\\', e)
		} else {
			dst = append(dst, '\\', 'u', '0', '0', hexDigit[b>>4], hexDigit[b&15])
		}
	}
	return dst
}

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. Surrogate
// pairs written as consecutive \uXXXX escapes are combined; an unpaired
// surrogate half decodes to the Unicode replacement rune. Unquote reports an
// error for an incomplete escape sequence or a malformed \uXXXX escape.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		b := src.At(0)
		src = src.SliceFrom(1)
		switch b {
		case '"', '\\', '/':
			dec = append(dec, b)
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			r, rest, err := unhex(src)
			if err != nil {
				return nil, err
			}
			src = rest
			if utf16.IsSurrogate(r) {
				if c, rest, err := pairSurrogate(r, src); err == nil {
					r, src = c, rest
				} else {
					r = utf8.RuneError
				}
			}
			dec = utf8.AppendRune(dec, r)
		default:
			return nil, fmt.Errorf("invalid %q after escape", b)
		}
	}
}

// unhex decodes four hexadecimal digits from the front of src and returns
// the remainder of the input.
func unhex(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, errors.New("incomplete Unicode escape")
	}
	var v rune
	for i := 0; i < 4; i++ {
		d, ok := HexValue(src.At(i))
		if !ok {
			return 0, src, fmt.Errorf("invalid hex digit %q", src.At(i))
		}
		v = v<<4 | rune(d)
	}
	return v, src.SliceFrom(4), nil
}

// pairSurrogate attempts to combine hi with a low surrogate written as a
// \uXXXX escape at the front of src. On success it returns the combined rune
// and the remainder of the input; otherwise src is returned unconsumed.
func pairSurrogate(hi rune, src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, src, errors.New("unpaired surrogate")
	}
	lo, rest, err := unhex(src.SliceFrom(2))
	if err != nil {
		return 0, src, err
	}
	r := utf16.DecodeRune(hi, lo)
	if r == utf8.RuneError {
		return 0, src, errors.New("invalid surrogate pair")
	}
	return r, rest, nil
}

// HexValue reports the numeric value of the hexadecimal digit b.
func HexValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
