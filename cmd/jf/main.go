// Copyright (C) 2026 Sibuge. All Rights Reserved.

// Program jf reads JSON documents and prints them back in a canonical form,
// with sorted object keys and either compact or pretty formatting.
//
// By default the input must contain exactly one document. With -multiple,
// the input is an unbounded whitespace-separated sequence of documents, and
// each is printed on its own line as soon as it has been read completely; a
// malformed document prints an "error:" record and processing continues.
//
// The exit status is 0 only if every document decoded without error.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Sibuge/jfeed"
	"github.com/Sibuge/jfeed/ast"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/tailscale/hujson"
)

var (
	pretty   = flag.Bool("pretty", false, "pretty-print output instead of the most compact form")
	multiple = flag.Bool("multiple", false, "input is a sequence of whitespace-separated documents")
	maxDepth = flag.Int("max-depth", 0, "maximum container nesting depth (0 = unlimited)")
	colorize = flag.String("color", "auto", `colorize output: "auto", "always", or "never"`)
	stripCom = flag.Bool("strip-comments", false, "standardize JWCC input (strip comments and trailing commas) before parsing")
)

var defaultColors = ast.Colors{
	Key:     "\x1b[34;1m",
	String:  "\x1b[32m",
	Number:  "\x1b[36m",
	Literal: "\x1b[33m",
	Error:   "\x1b[31;1m",
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: %[1]s [options] [input-path]

Read JSON from input-path ("-" or empty for stdin) and print each document
back in canonical form with sorted object keys.

Options:
`, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		if !errors.Is(err, jfeed.ErrInvalidDocument) {
			fmt.Fprintf(os.Stderr, "jf: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(path string) error {
	in := os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	fmtr := ast.Formatter{Pretty: *pretty, SortKeys: true}
	var out io.Writer = os.Stdout
	switch *colorize {
	case "always":
		fmtr.Colors = &defaultColors
		out = colorable.NewColorableStdout()
	case "auto":
		if isatty.IsTerminal(os.Stdout.Fd()) {
			fmtr.Colors = &defaultColors
			out = colorable.NewColorableStdout()
		}
	case "never":
	default:
		return fmt.Errorf("invalid -color mode %q", *colorize)
	}
	w := bufio.NewWriter(out)

	var err error
	if *multiple {
		if *stripCom {
			return errors.New("-strip-comments applies only to single-document input")
		}
		err = parseMultiple(in, w, fmtr)
	} else {
		err = parseSingle(in, w, fmtr)
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

// parseSingle decodes exactly one document from in and prints it. A parse
// failure prints an error record and reports ErrInvalidDocument.
func parseSingle(in io.Reader, w *bufio.Writer, fmtr ast.Formatter) error {
	var r io.Reader = in
	if *stripCom {
		data, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		std, err := hujson.Standardize(data)
		if err != nil {
			return err
		}
		r = bytes.NewReader(std)
	}

	s := jfeed.NewStream(r)
	s.SetMaxDepth(*maxDepth)
	v, err := s.ParseOne()
	if err != nil {
		var serr *jfeed.SyntaxError
		if !errors.As(err, &serr) {
			return err // I/O failure
		}
		printDocument(w, fmtr, &ast.Error{Message: err.Error()})
		return fmt.Errorf("%w: %v", jfeed.ErrInvalidDocument, err)
	}
	printDocument(w, fmtr, v)
	return nil
}

// parseMultiple streams documents from in, printing each as it completes.
func parseMultiple(in io.Reader, w *bufio.Writer, fmtr ast.Formatter) error {
	s := jfeed.NewStream(in)
	s.SetMaxDepth(*maxDepth)
	return s.Parse(jfeed.HandlerFunc(func(v ast.Value) error {
		printDocument(w, fmtr, v)
		return w.Flush()
	}))
}

func printDocument(w *bufio.Writer, fmtr ast.Formatter, v ast.Value) {
	if e, ok := v.(*ast.Error); ok {
		if c := fmtr.Colors; c != nil && c.Error != "" {
			fmt.Fprintf(w, "%serror: %s\x1b[0m\n", c.Error, e.Message)
		} else {
			fmt.Fprintf(w, "error: %s\n", e.Message)
		}
		return
	}
	fmtr.Format(w, v)
	w.WriteByte('\n')
}
