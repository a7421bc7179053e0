// Copyright (C) 2026 Sibuge. All Rights Reserved.

package escape_test

import (
	"strings"
	"testing"

	"github.com/Sibuge/jfeed/internal/escape"
	"go4.org/mem"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{`"`, `\"`},
		{`\`, `\\`},
		{`a"b\c`, `a\"b\\c`},
		{"\b\f\n\r\t", `\b\f\n\r\t`},
		{"\x00\x01\x1f", `\u0000\u0001\u001f`},
		{"mixed\n\"text\"\x02", `mixed\n\"text\"\u0002`},

		// Forward slash and all bytes from 0x20 up are left alone.
		{"a/b", "a/b"},
		{"h\xc3\xa9llo \xf0\x9f\x98\x80 \x7f\xff", "h\xc3\xa9llo \xf0\x9f\x98\x80 \x7f\xff"},
	}
	for _, test := range tests {
		got := escape.Quote(nil, mem.S(test.input))
		if string(got) != test.want {
			t.Errorf("Quote %q: got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{`\"\\\/`, `"\/`},
		{`\b\f\n\r\t`, "\b\f\n\r\t"},
		{`tab\there`, "tab\there"},
		{`\u0041\u00e9\u4e16`, "Aé世"},
		{`\uD83D\uDE00`, "\U0001f600"},

		// An unpaired surrogate half becomes the replacement rune.
		{`\ud800`, "�"},
		{`\ud800x`, "�x"},
		{`\udc00A`, "�A"},
		{`\ud800\ud800`, "��"},

		// Raw non-ASCII bytes pass through undecoded.
		{"h\xc3\xa9llo", "h\xc3\xa9llo"},
	}
	for _, test := range tests {
		got, err := escape.Unquote(mem.S(test.input))
		if err != nil {
			t.Errorf("Unquote %q: unexpected error: %v", test.input, err)
			continue
		}
		if string(got) != test.want {
			t.Errorf("Unquote %q: got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestUnquote_errors(t *testing.T) {
	tests := []struct {
		input string
		etext string
	}{
		{`\`, "incomplete escape"},
		{`\q`, "invalid 'q' after escape"},
		{`\u12`, "incomplete Unicode escape"},
		{`\u12g4`, "invalid hex digit"},
		{`ok \x1`, "invalid 'x' after escape"},
	}
	for _, test := range tests {
		got, err := escape.Unquote(mem.S(test.input))
		if err == nil {
			t.Errorf("Unquote %q: got %q, want error", test.input, got)
			continue
		}
		if !strings.Contains(err.Error(), test.etext) {
			t.Errorf("Unquote %q: got error %q, want %q", test.input, err, test.etext)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"with \"quotes\" and \\slashes\\",
		"\x00\x01\x1f\b\f\n\r\t",
		"h\xc3\xa9llo \xf0\x9f\x98\x80",
	}
	for _, input := range inputs {
		quoted := escape.Quote(nil, mem.S(input))
		got, err := escape.Unquote(mem.B(quoted))
		if err != nil {
			t.Errorf("Unquote %q: unexpected error: %v", quoted, err)
		} else if string(got) != input {
			t.Errorf("Round trip %q: got %q", input, got)
		}
	}
}

func TestHexValue(t *testing.T) {
	for b, want := range map[byte]byte{
		'0': 0, '9': 9, 'a': 10, 'f': 15, 'A': 10, 'F': 15,
	} {
		got, ok := escape.HexValue(b)
		if !ok || got != want {
			t.Errorf("HexValue(%q): got %d, %v; want %d, true", b, got, ok, want)
		}
	}
	for _, b := range []byte{'g', 'G', ' ', '-', 0xff} {
		if v, ok := escape.HexValue(b); ok {
			t.Errorf("HexValue(%q): got %d, true; want false", b, v)
		}
	}
}
