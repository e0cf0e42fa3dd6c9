package bencode

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/torrent-meta/cursor"
)

// MaxDepth bounds how deeply lists and dictionaries may nest.
const MaxDepth = 2048

const (
	tokenDict    = 'd'
	tokenList    = 'l'
	tokenInteger = 'i'
	tokenEnd     = 'e'
	tokenColon   = ':'
)

// Decode decodes exactly one value from data. Byte strings in the result
// alias data, so data must not be modified afterwards.
func Decode(data []byte) (Value, error) {
	c := cursor.New(data)
	v, err := DecodeFrom(c)
	if err != nil {
		return Value{}, err
	}
	if c.Len() > 0 {
		return Value{}, &Error{Kind: MalformedInput, Offset: c.Pos(), Err: errTrailingData}
	}
	return v, nil
}

// DecodeFrom decodes the next value at the cursor position.
func DecodeFrom(c *cursor.Cursor) (Value, error) {
	d := decoder{c: c}
	return d.decode(0)
}

type decoder struct {
	c *cursor.Cursor
}

func (d *decoder) fail(kind ErrorKind, err error) error {
	return &Error{Kind: kind, Offset: d.c.Pos(), Err: err}
}

// cursorErr maps a cursor failure onto the decode error taxonomy.
func (d *decoder) cursorErr(err error) error {
	if errors.Is(err, cursor.ErrOutOfData) {
		return d.fail(OutOfData, err)
	}
	return d.fail(MalformedInput, err)
}

func (d *decoder) decode(depth int) (Value, error) {
	if depth > MaxDepth {
		return Value{}, d.fail(MalformedInput, errTooDeep)
	}
	start := d.c.Pos()
	b, err := d.c.NextByte()
	if err != nil {
		return Value{}, d.cursorErr(err)
	}

	var v Value
	switch {
	case b == tokenDict:
		v, err = d.decodeDict(depth)
	case b == tokenList:
		v, err = d.decodeList(depth)
	case b == tokenInteger:
		v, err = d.decodeInteger()
	case isDigit(b):
		if err := d.c.UnreadByte(); err != nil {
			return Value{}, d.cursorErr(err)
		}
		v, err = d.decodeString()
	default:
		return Value{}, &Error{Kind: InvalidControlCharacter, Offset: start, Err: fmt.Errorf("unexpected byte %q", b)}
	}
	if err != nil {
		return Value{}, err
	}
	v.raw = d.c.Since(start)
	return v, nil
}

// e.g. i-42e
func (d *decoder) decodeInteger() (Value, error) {
	start := d.c.Pos()
	span, err := d.c.TakeUntil(tokenEnd)
	if err != nil {
		return Value{}, d.cursorErr(err)
	}
	n, err := parseInteger(span)
	if err != nil {
		return Value{}, &Error{Kind: MalformedInteger, Offset: start, Err: err}
	}
	return Int(n), nil
}

// e.g. 4:spam
func (d *decoder) decodeString() (Value, error) {
	start := d.c.Pos()
	span, err := d.c.TakeUntil(tokenColon)
	if err != nil {
		return Value{}, d.cursorErr(err)
	}
	if len(span) > 0 && span[0] == '-' {
		return Value{}, &Error{Kind: MalformedInteger, Offset: start, Err: errNegativeLen}
	}
	n, err := parseInteger(span)
	if err != nil {
		return Value{}, &Error{Kind: MalformedInteger, Offset: start, Err: err}
	}
	if n > int64(d.c.Len()) {
		return Value{}, d.fail(OutOfData, fmt.Errorf("string of length %d, %d bytes left", n, d.c.Len()))
	}
	b, err := d.c.TakeBytes(int(n))
	if err != nil {
		return Value{}, d.cursorErr(err)
	}
	return Bytes(b), nil
}

// e.g. l4:spami3ee
func (d *decoder) decodeList(depth int) (Value, error) {
	items := []Value{}
	for {
		b, err := d.c.PeekByte()
		if err != nil {
			return Value{}, d.cursorErr(err)
		}
		if b == tokenEnd {
			_, _ = d.c.NextByte()
			return NewList(items...), nil
		}
		item, err := d.decode(depth + 1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
}

// e.g. d3:cow3:mooe
func (d *decoder) decodeDict(depth int) (Value, error) {
	dict := NewDict()
	for {
		b, err := d.c.PeekByte()
		if err != nil {
			return Value{}, d.cursorErr(err)
		}
		if b == tokenEnd {
			_, _ = d.c.NextByte()
			return DictValue(dict), nil
		}
		if !isDigit(b) {
			return Value{}, d.fail(MalformedInput, errKeyNotString)
		}
		key, err := d.decodeString()
		if err != nil {
			return Value{}, err
		}
		val, err := d.decode(depth + 1)
		if err != nil {
			return Value{}, err
		}
		dict.add(string(key.s), val)
	}
}

// parseInteger accepts only the canonical form: an optional '-', no
// leading zeros and no negative zero.
func parseInteger(b []byte) (int64, error) {
	digits := b
	neg := len(digits) > 0 && digits[0] == '-'
	if neg {
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return 0, errEmptyInteger
	}
	for _, c := range digits {
		if !isDigit(c) {
			return 0, errNotDigit
		}
	}
	if digits[0] == '0' {
		if neg {
			return 0, errNegativeZero
		}
		if len(digits) > 1 {
			return 0, errLeadingZero
		}
	}
	return strconv.ParseInt(string(b), 10, 64)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
