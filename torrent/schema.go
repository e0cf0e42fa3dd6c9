package torrent

import (
	"errors"
	"fmt"

	"github.com/torrent-meta/bencode"
)

// SchemaErrorKind classifies why a well-formed bencode tree is not a
// valid torrent.
type SchemaErrorKind uint8

const (
	RootNotDictionary SchemaErrorKind = iota + 1
	MissingKey
	TypeMismatch
	InvalidPieceData
	InvalidValue
)

func (k SchemaErrorKind) String() string {
	switch k {
	case RootNotDictionary:
		return "root is not a dictionary"
	case MissingKey:
		return "missing required key"
	case TypeMismatch:
		return "type mismatch"
	case InvalidPieceData:
		return "invalid piece data"
	case InvalidValue:
		return "invalid value"
	}
	return fmt.Sprintf("SchemaErrorKind(%d)", uint8(k))
}

// SchemaError reports a metainfo field that does not fit the torrent
// schema. Path locates the enclosing dictionary, e.g. "info.files[2]".
type SchemaError struct {
	Kind     SchemaErrorKind
	Key      string
	Path     string
	Expected bencode.Kind
	Actual   bencode.Kind
	Detail   string
}

// Field returns the dotted location of the offending key.
func (e *SchemaError) Field() string {
	if e.Path == "" {
		return e.Key
	}
	if e.Key == "" {
		return e.Path
	}
	return e.Path + "." + e.Key
}

func (e *SchemaError) Error() string {
	msg := "torrent: " + e.Kind.String()
	if f := e.Field(); f != "" {
		msg += fmt.Sprintf(" %q", f)
	}
	if e.Kind == TypeMismatch {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is reports whether target is a *SchemaError of the same kind.
func (e *SchemaError) Is(target error) bool {
	t, ok := target.(*SchemaError)
	return ok && t.Kind == e.Kind
}

var (
	ErrRootNotDictionary = &SchemaError{Kind: RootNotDictionary}
	ErrMissingKey        = &SchemaError{Kind: MissingKey}
	ErrTypeMismatch      = &SchemaError{Kind: TypeMismatch}
	ErrInvalidPieceData  = &SchemaError{Kind: InvalidPieceData}
	ErrInvalidValue      = &SchemaError{Kind: InvalidValue}
)

// converter stores a raw value into its typed destination.
type converter func(bencode.Value) error

// rule describes how one dictionary key is resolved.
type rule struct {
	key      string
	required bool
	convert  converter
}

// resolve applies rules in order to d and stops at the first failure.
func resolve(d *bencode.Dict, path string, rules []rule) error {
	for _, r := range rules {
		v, ok := d.Get(r.key)
		if !ok {
			if r.required {
				return &SchemaError{Kind: MissingKey, Key: r.key, Path: path}
			}
			continue
		}
		if err := r.convert(v); err != nil {
			var se *SchemaError
			if errors.As(err, &se) && se.Key == "" && se.Path == "" {
				se.Key, se.Path = r.key, path
			}
			return err
		}
	}
	return nil
}

func mismatch(expected bencode.Kind, v bencode.Value) *SchemaError {
	return &SchemaError{Kind: TypeMismatch, Expected: expected, Actual: v.Kind()}
}

func invalid(format string, args ...any) *SchemaError {
	return &SchemaError{Kind: InvalidValue, Detail: fmt.Sprintf(format, args...)}
}

func text(dst *string) converter {
	return func(v bencode.Value) error {
		s, ok := v.Text()
		if !ok {
			return mismatch(bencode.KindString, v)
		}
		*dst = s
		return nil
	}
}

func integer(dst *int64) converter {
	return func(v bencode.Value) error {
		n, ok := v.Int()
		if !ok {
			return mismatch(bencode.KindInteger, v)
		}
		*dst = n
		return nil
	}
}

func positive(dst *int64) converter {
	return func(v bencode.Value) error {
		var n int64
		if err := integer(&n)(v); err != nil {
			return err
		}
		if n <= 0 {
			return invalid("must be positive, got %d", n)
		}
		*dst = n
		return nil
	}
}

func nonNegative(dst *int64) converter {
	return func(v bencode.Value) error {
		var n int64
		if err := integer(&n)(v); err != nil {
			return err
		}
		if n < 0 {
			return invalid("must not be negative, got %d", n)
		}
		*dst = n
		return nil
	}
}

func ofKind(kind bencode.Kind, dst *bencode.Value) converter {
	return func(v bencode.Value) error {
		if v.Kind() != kind {
			return mismatch(kind, v)
		}
		*dst = v
		return nil
	}
}

// textList converts a list of byte strings, keeping order.
func textList(dst *[]string) converter {
	return func(v bencode.Value) error {
		items, ok := v.List()
		if !ok {
			return mismatch(bencode.KindList, v)
		}
		out := make([]string, len(items))
		for i, item := range items {
			s, ok := item.Text()
			if !ok {
				se := mismatch(bencode.KindString, item)
				se.Detail = fmt.Sprintf("element %d", i)
				return se
			}
			out[i] = s
		}
		*dst = out
		return nil
	}
}
