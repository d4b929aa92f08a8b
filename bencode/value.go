package bencode

import (
	"bytes"
	"fmt"
)

// Kind identifies which variant a Value holds
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindString
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	default:
		return "invalid"
	}
}

// Span is a half-open [Start, End) range of offsets into the decoded buffer
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Value is a single decoded bencode value.
//
// Exactly one of the variant fields is meaningful, selected by Kind. Every
// value remembers the span of the source buffer it was decoded from so the
// original bytes can be recovered with Raw.
type Value struct {
	kind Kind
	num  int64
	str  []byte
	list []Value
	dict *Dict
	span Span
}

// TypeError is returned by the Value accessors when the value holds a
// different variant than the one requested
type TypeError struct {
	Want Kind
	Got  Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("bencode: expected %s, got %s", e.Want, e.Got)
}

// Kind reports which of the four bencode types v holds
func (v Value) Kind() Kind { return v.kind }

// Span returns the location of the value in the buffer it was decoded from
func (v Value) Span() Span { return v.span }

// Raw slices the exact original encoding of v out of src, which must be the
// buffer v was decoded from
func (v Value) Raw(src []byte) ([]byte, error) {
	if v.span.Start < 0 || v.span.End > len(src) || v.span.Start > v.span.End {
		return nil, fmt.Errorf("bencode: span [%d,%d) outside buffer of %d bytes", v.span.Start, v.span.End, len(src))
	}
	return src[v.span.Start:v.span.End], nil
}

// Int returns the value of an integer, or *TypeError for any other kind
func (v Value) Int() (int64, error) {
	if v.kind != KindInteger {
		return 0, &TypeError{Want: KindInteger, Got: v.kind}
	}
	return v.num, nil
}

// Bytes returns the raw contents of a byte string. The slice aliases the
// decoded buffer and must not be modified.
func (v Value) Bytes() ([]byte, error) {
	if v.kind != KindString {
		return nil, &TypeError{Want: KindString, Got: v.kind}
	}
	return v.str, nil
}

// List returns the elements of a list in source order
func (v Value) List() ([]Value, error) {
	if v.kind != KindList {
		return nil, &TypeError{Want: KindList, Got: v.kind}
	}
	return v.list, nil
}

// Dict returns the dictionary v holds, or *TypeError for any other kind
func (v Value) Dict() (*Dict, error) {
	if v.kind != KindDict {
		return nil, &TypeError{Want: KindDict, Got: v.kind}
	}
	return v.dict, nil
}

// Entry is one key/value pair of a dictionary, in source order
type Entry struct {
	Key   []byte
	Value Value
}

// Dict is a bencode dictionary keyed by raw bytes.
// Entries keep the order they appeared in; Get returns the last entry for a
// key when a producer repeated it.
type Dict struct {
	entries []Entry
}

// Len counts entries, repeated keys included; a nil Dict is empty
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns the dictionary entries in source order
func (d *Dict) Entries() []Entry {
	if d == nil {
		return nil
	}
	return d.entries
}

// GetBytes looks a key up by raw bytes
func (d *Dict) GetBytes(key []byte) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	for i := len(d.entries) - 1; i >= 0; i-- {
		if bytes.Equal(d.entries[i].Key, key) {
			return d.entries[i].Value, true
		}
	}
	return Value{}, false
}

// Get looks a key up by its ASCII spelling
func (d *Dict) Get(key string) (Value, bool) {
	return d.GetBytes([]byte(key))
}

func (d *Dict) add(key []byte, v Value) {
	d.entries = append(d.entries, Entry{Key: key, Value: v})
}
