// Package bencode implements the bencode serialization format used by
// BitTorrent metainfo files and tracker responses.
//
// Decoded values keep dictionary keys in the order they were read and
// remember the exact bytes they were decoded from, so Encode(Decode(b))
// reproduces b byte for byte.
package bencode

// Kind identifies which of the four bencode productions a Value holds.
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
		return "byte string"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	}
	return "invalid"
}

// Value is a decoded bencode value. The zero Value is invalid.
// Values are treated as immutable; slices returned by accessors must not
// be modified.
type Value struct {
	kind Kind
	i    int64
	s    []byte
	l    []Value
	d    *Dict
	raw  []byte
}

func Int(i int64) Value {
	return Value{kind: KindInteger, i: i}
}

func Bytes(b []byte) Value {
	return Value{kind: KindString, s: b}
}

func String(s string) Value {
	return Value{kind: KindString, s: []byte(s)}
}

func NewList(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, l: items}
}

func DictValue(d *Dict) Value {
	if d == nil {
		d = NewDict()
	}
	return Value{kind: KindDict, d: d}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInteger
}

func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindString {
		return nil, false
	}
	return v.s[:len(v.s):len(v.s)], true
}

// Text returns a byte string as a Go string. The bytes are not checked
// for valid UTF-8.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return string(v.s), true
}

func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.l[:len(v.l):len(v.l)], true
}

func (v Value) Dict() (*Dict, bool) {
	if v.kind != KindDict {
		return nil, false
	}
	return v.d, true
}

// Raw returns the exact input bytes v was decoded from, or nil for
// values built in code.
func (v Value) Raw() []byte {
	return v.raw
}

// Interface converts v into plain Go values: int64, string, []any and
// map[string]any. Duplicate dictionary keys collapse to the last value.
func (v Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindString:
		return string(v.s)
	case KindList:
		out := make([]any, len(v.l))
		for i, item := range v.l {
			out[i] = item.Interface()
		}
		return out
	case KindDict:
		out := make(map[string]any, v.d.Len())
		for _, e := range v.d.entries {
			out[e.Key] = e.Value.Interface()
		}
		return out
	}
	return nil
}
