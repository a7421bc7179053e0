// Copyright (C) 2026 Sibuge. All Rights Reserved.

package jfeed

import (
	"errors"
	"fmt"
	"io"

	"github.com/Sibuge/jfeed/ast"
)

// chunkBytes is the size of the reused input buffer. One chunk of raw bytes
// and one decoded document are the only buffering a Stream performs.
const chunkBytes = 4096

// ErrInvalidDocument is reported (wrapped) by Parse when at least one
// document in the stream failed to decode. The failed documents themselves
// are still delivered to the handler, as *ast.Error values.
var ErrInvalidDocument = errors.New("invalid document")

// A Handler receives decoded documents from a Stream, one at a time in
// stream order. A document that failed to parse is delivered as an
// *ast.Error value. If the handler reports an error, parsing stops and that
// error is returned to the caller.
type Handler interface {
	Value(v ast.Value) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(v ast.Value) error

// Value satisfies the Handler interface.
func (f HandlerFunc) Value(v ast.Value) error { return f(v) }

// A Stream reads JSON text from an input source in fixed-size chunks and
// feeds it incrementally to parsers, without ever buffering the whole input.
// ParseOne decodes a single document; Parse decodes an unbounded sequence of
// whitespace-separated documents.
type Stream struct {
	r   io.Reader
	buf []byte
	n   int // fill level of buf
	pos int // offset of the first unconsumed byte, pos <= n
	err error

	maxDepth int
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream {
	return &Stream{r: r, buf: make([]byte, chunkBytes)}
}

// SetMaxDepth bounds container nesting for documents parsed from s; n <= 0
// means no limit.
func (s *Stream) SetMaxDepth(n int) { s.maxDepth = n }

func (s *Stream) newParser() *Parser {
	p := NewParser()
	p.SetMaxDepth(s.maxDepth)
	return p
}

// refill replaces the consumed contents of the chunk buffer with fresh
// bytes from the source. It reports false at end of input; a read failure
// is fatal to the stream.
func (s *Stream) refill() (bool, error) {
	s.pos, s.n = 0, 0
	if s.err != nil {
		if s.err == io.EOF {
			return false, nil
		}
		return false, s.err
	}
	n, err := s.r.Read(s.buf)
	s.n, s.err = n, err
	if n > 0 {
		return true, nil
	}
	if err == nil || err == io.EOF {
		return false, nil
	}
	return false, err
}

// ParseOne parses a single document from the stream: the input is read
// until either it is exhausted or the document's terminating byte is seen.
// Any input after the completed document is left unread. An input with no
// document at all reports an empty input stream via *SyntaxError.
func (s *Stream) ParseOne() (ast.Value, error) {
	p := s.newParser()
	for !p.Done() {
		if s.pos >= s.n {
			ok, err := s.refill()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
		}
		s.pos += p.Feed(s.buf[s.pos:s.n])
	}
	return p.Finish()
}

// Parse parses whitespace-separated documents from the stream until the
// input is exhausted, delivering each result to h in stream order as soon
// as its terminating byte is recognized. A document that fails to parse is
// delivered as an *ast.Error and scanning resumes where its parser halted;
// the stream is not abandoned.
//
// Parse returns nil only if every document decoded. If any document failed,
// the returned error wraps ErrInvalidDocument. An input read failure or a
// handler error stops the run immediately and is returned as is.
func (s *Stream) Parse(h Handler) error {
	var p *Parser
	var ndoc, bad int

	emit := func() error {
		v, err := p.Finish()
		p = nil
		ndoc++
		if err != nil {
			bad++
			v = &ast.Error{Message: err.Error()}
		}
		return h.Value(v)
	}

	for {
		if s.pos >= s.n {
			ok, err := s.refill()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		if p == nil && isSpace(s.buf[s.pos]) {
			// Skip whitespace between documents.
			s.pos++
			continue
		}
		if p == nil {
			p = s.newParser()
		}
		s.pos += p.Feed(s.buf[s.pos:s.n])
		if s.pos < s.n {
			// The parser stopped short of the available input, so the
			// document is done. The unconsumed remainder is re-examined as
			// whitespace or the start of the next document.
			if err := emit(); err != nil {
				return err
			}
		}
	}
	if p != nil {
		// End of input with a document still in progress, for example a
		// final document with no trailing newline.
		if err := emit(); err != nil {
			return err
		}
	}
	if bad > 0 {
		return fmt.Errorf("%w: %d of %d failed to decode", ErrInvalidDocument, bad, ndoc)
	}
	return nil
}
