// Copyright (C) 2026 Sibuge. All Rights Reserved.

package jfeed

import (
	"errors"
	"strings"

	"github.com/Sibuge/jfeed/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	buf := make([]byte, 0, len(src)+2)
	buf = append(buf, '"')
	buf = escape.Quote(buf, mem.S(src))
	return string(append(buf, '"'))
}

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Surrogate pairs are combined; an unpaired surrogate half decodes to the
// Unicode replacement rune. Unquote reports an error for an incomplete or
// malformed escape sequence.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.S(src[1 : len(src)-1]))
}
