// Copyright (C) 2026 Sibuge. All Rights Reserved.

// Package jfeed implements an incremental JSON parser and a chunked stream
// driver built on it.
//
// # Parsing
//
// The Parser type is a resumable state machine for a single JSON document.
// Input is handed to it in byte chunks of any size and alignment; chunk
// boundaries never have to coincide with token boundaries. Feed reports how
// many bytes it consumed, and consumes less than it was offered exactly when
// the document is done:
//
//	p := jfeed.NewParser()
//	n := p.Feed(data)
//	if p.Done() {
//	   v, err := p.Finish()
//	   ...
//	}
//
// Finish returns the decoded ast.Value, or an error of concrete type
// [SyntaxError] if the input was malformed or incomplete.
//
// # Streaming
//
// The Stream type drives parsers from an io.Reader through a fixed-size
// chunk buffer. ParseOne decodes exactly one document. Parse decodes an
// unbounded whitespace-separated sequence of documents, delivering each to a
// Handler as soon as its terminating byte is recognized:
//
//	s := jfeed.NewStream(input)
//	err := s.Parse(jfeed.HandlerFunc(func(v ast.Value) error {
//	   fmt.Println(v.JSON())
//	   return nil
//	}))
//
// A malformed document does not abort the stream: it is delivered to the
// handler as an *ast.Error value, scanning resumes with the next document,
// and Parse reports the aggregate failure by wrapping [ErrInvalidDocument].
package jfeed
