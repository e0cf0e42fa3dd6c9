// Package cursor provides a forward-only reader over an in-memory buffer.
package cursor

import (
	"bytes"
	"errors"
)

var (
	ErrOutOfData         = errors.New("out of data")
	ErrDelimiterNotFound = errors.New("delimiter not found")
	ErrInvalidLength     = errors.New("invalid length")
	ErrNothingToUnread   = errors.New("nothing to unread")
)

// Cursor tracks a read position over buf. Slices it returns alias buf.
type Cursor struct {
	buf       []byte
	pos       int
	canUnread bool
}

func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) PeekByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, ErrOutOfData
	}
	return c.buf[c.pos], nil
}

func (c *Cursor) NextByte() (byte, error) {
	b, err := c.PeekByte()
	if err != nil {
		return 0, err
	}
	c.pos++
	c.canUnread = true
	return b, nil
}

// UnreadByte steps back over the byte returned by the last NextByte.
// Only one step back is allowed.
func (c *Cursor) UnreadByte() error {
	if !c.canUnread {
		return ErrNothingToUnread
	}
	c.pos--
	c.canUnread = false
	return nil
}

func (c *Cursor) TakeBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrInvalidLength
	}
	if n > c.Len() {
		return nil, ErrOutOfData
	}
	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	c.canUnread = false
	return b, nil
}

// TakeUntil returns the bytes before the next delim and moves past delim.
func (c *Cursor) TakeUntil(delim byte) ([]byte, error) {
	i := bytes.IndexByte(c.buf[c.pos:], delim)
	if i < 0 {
		return nil, ErrDelimiterNotFound
	}
	b := c.buf[c.pos : c.pos+i : c.pos+i]
	c.pos += i + 1
	c.canUnread = false
	return b, nil
}

// Since returns the bytes between start and the current position.
func (c *Cursor) Since(start int) []byte {
	if start < 0 || start > c.pos {
		return nil
	}
	return c.buf[start:c.pos:c.pos]
}
