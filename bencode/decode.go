// Package bencode decodes the BitTorrent bencode format into Values that
// remember where in the source buffer they came from.
package bencode

import (
	"bytes"
	"fmt"
	"strconv"
)

// DefaultMaxDepth bounds list/dictionary nesting when Decoder.MaxDepth is unset
const DefaultMaxDepth = 1000

// ParseError reports input that is not well-formed bencode. Decoding stops at
// the first error; no partial value is returned.
type ParseError struct {
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bencode: %s (offset %d)", e.Reason, e.Offset)
}

// Decoder holds decoding limits. The zero value is ready to use.
type Decoder struct {
	// MaxDepth is the deepest list/dictionary nesting accepted.
	// Zero or negative means DefaultMaxDepth.
	MaxDepth int
}

// Decode decodes a single bencoded value that must span all of data
func Decode(data []byte) (Value, error) {
	return Decoder{}.Decode(data)
}

func (d Decoder) Decode(data []byte) (Value, error) {
	maxDepth := d.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{data: data, maxDepth: maxDepth}

	if len(data) == 0 {
		return Value{}, p.errorf("empty input")
	}
	v, err := p.value()
	if err != nil {
		return Value{}, err
	}
	if p.pos != len(data) {
		return Value{}, p.errorf("%d bytes of trailing data after value", len(data)-p.pos)
	}
	return v, nil
}

// parser is a single forward scan over data; pos never moves backwards
type parser struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Offset: p.pos, Reason: fmt.Sprintf(format, args...)}
}

func errorAt(offset int, format string, args ...any) error {
	return &ParseError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) value() (Value, error) {
	if p.pos >= len(p.data) {
		return Value{}, p.errorf("unexpected end of data")
	}
	switch c := p.data[p.pos]; {
	case c == 'i':
		return p.integer()
	case c == 'l':
		return p.list()
	case c == 'd':
		return p.dict()
	case isDigit(c):
		start := p.pos
		s, err := p.byteString()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindString, str: s, span: Span{start, p.pos}}, nil
	default:
		return Value{}, p.errorf("unexpected byte %q", c)
	}
}

// byteString reads <length>:<bytes> and returns the bytes, aliasing data
func (p *parser) byteString() ([]byte, error) {
	start := p.pos
	n := 0
	for {
		if p.pos >= len(p.data) {
			return nil, errorAt(start, "unterminated string length")
		}
		c := p.data[p.pos]
		if c == ':' {
			break
		}
		if !isDigit(c) {
			return nil, p.errorf("invalid byte %q in string length", c)
		}
		n = n*10 + int(c-'0')
		// anything longer than the whole buffer is truncated anyway
		if n > len(p.data) {
			return nil, errorAt(start, "string length exceeds input size")
		}
		p.pos++
	}
	if p.pos-start > 1 && p.data[start] == '0' {
		return nil, errorAt(start, "string length has leading zero")
	}
	p.pos++ // ':'

	if remaining := len(p.data) - p.pos; n > remaining {
		return nil, errorAt(start, "string declares %d bytes but only %d remain", n, remaining)
	}
	s := p.data[p.pos : p.pos+n : p.pos+n]
	p.pos += n
	return s, nil
}

func (p *parser) integer() (Value, error) {
	start := p.pos
	p.pos++ // 'i'

	end := bytes.IndexByte(p.data[p.pos:], 'e')
	if end < 0 {
		return Value{}, errorAt(start, "unterminated integer")
	}
	n, err := parseInteger(p.data[p.pos : p.pos+end])
	if err != nil {
		return Value{}, p.errorf("%s", err)
	}
	p.pos += end + 1
	return Value{kind: KindInteger, num: n, span: Span{start, p.pos}}, nil
}

// parseInteger validates the text between 'i' and 'e'
func parseInteger(lit []byte) (int64, error) {
	digits := lit
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return 0, fmt.Errorf("integer %q has no digits", lit)
	}
	for _, c := range digits {
		if !isDigit(c) {
			return 0, fmt.Errorf("invalid byte %q in integer", c)
		}
	}
	if digits[0] == '0' {
		if len(digits) > 1 {
			return 0, fmt.Errorf("integer %q has leading zero", lit)
		}
		if len(lit) != len(digits) {
			return 0, fmt.Errorf("negative zero is not a valid integer")
		}
	}
	n, err := strconv.ParseInt(string(lit), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("integer %q out of 64-bit range", lit)
	}
	return n, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf("nesting deeper than %d levels", p.maxDepth)
	}
	return nil
}

func (p *parser) list() (Value, error) {
	start := p.pos
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	p.pos++ // 'l'

	items := []Value{}
	for {
		if p.pos >= len(p.data) {
			return Value{}, errorAt(start, "unterminated list")
		}
		if p.data[p.pos] == 'e' {
			p.pos++
			break
		}
		v, err := p.value()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}

	p.depth--
	return Value{kind: KindList, list: items, span: Span{start, p.pos}}, nil
}

func (p *parser) dict() (Value, error) {
	start := p.pos
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	p.pos++ // 'd'

	d := &Dict{}
	for {
		if p.pos >= len(p.data) {
			return Value{}, errorAt(start, "unterminated dictionary")
		}
		c := p.data[p.pos]
		if c == 'e' {
			p.pos++
			break
		}
		if !isDigit(c) {
			return Value{}, p.errorf("dictionary key must be a byte string, found %q", c)
		}
		key, err := p.byteString()
		if err != nil {
			return Value{}, err
		}
		if p.pos >= len(p.data) || p.data[p.pos] == 'e' {
			return Value{}, p.errorf("dictionary key %q has no value", key)
		}
		// the value's span is the cursor right before and after decoding it
		v, err := p.value()
		if err != nil {
			return Value{}, err
		}
		d.add(key, v)
	}

	p.depth--
	return Value{kind: KindDict, dict: d, span: Span{start, p.pos}}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
