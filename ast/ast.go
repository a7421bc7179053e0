// Copyright (C) 2026 Sibuge. All Rights Reserved.

// Package ast defines the model for decoded JSON values, and a Formatter
// that renders values back to JSON text.
package ast

// A Value is a decoded JSON value. The concrete type of a Value is one of
// Null, Bool, Number, String, Array, Object, or *Error.
type Value interface {
	// JSON renders the value as JSON text in its most compact form.
	JSON() string
}

// Null represents the JSON null constant.
type Null struct{}

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }

// A Bool is a JSON Boolean constant.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// A Number is a JSON number. The integer-vs-float distinction of the source
// text is not preserved.
type Number float64

// JSON satisfies the Value interface.
func (n Number) JSON() string { return string(appendNumber(nil, n)) }

// A String is a JSON string value. It holds the decoded text, with escape
// sequences already replaced.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return string(appendQuoted(nil, string(s))) }

// An Array is an ordered sequence of values.
type Array []Value

// JSON satisfies the Value interface.
func (a Array) JSON() string { return Formatter{}.String(a) }

// An Object is a collection of key-value members, ordered by insertion.
// Keys are unique within an object.
type Object []*Member

// JSON satisfies the Value interface.
func (o Object) JSON() string { return Formatter{}.String(o) }

// Find returns the member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Set updates the member of o having the given key to v, or appends a new
// member, and returns the updated object. The parser applies Set for each
// member it decodes, so the last of several duplicate keys in a document
// wins.
func (o Object) Set(key string, v Value) Object {
	if m := o.Find(key); m != nil {
		m.Value = v
		return o
	}
	return append(o, &Member{Key: key, Value: v})
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// An Error records a document that failed to parse. It takes the place of a
// decoded value in the results of a run, so that one malformed document does
// not discard the rest of a stream.
type Error struct {
	Message string
}

// JSON satisfies the Value interface. The message is rendered as a JSON
// string.
func (e *Error) JSON() string { return string(appendQuoted(nil, e.Message)) }

// Error satisfies the error interface.
func (e *Error) Error() string { return e.Message }
