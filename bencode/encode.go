package bencode

import (
	"io"
	"strconv"
)

// Encode returns the bencoding of v. Dictionaries are written in stored
// order, never re-sorted.
func Encode(v Value) ([]byte, error) {
	return appendValue(nil, v)
}

func EncodeTo(w io.Writer, v Value) error {
	b, err := Encode(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func appendValue(dst []byte, v Value) ([]byte, error) {
	var err error
	switch v.kind {
	case KindInteger:
		dst = append(dst, tokenInteger)
		dst = strconv.AppendInt(dst, v.i, 10)
		dst = append(dst, tokenEnd)
	case KindString:
		dst = appendString(dst, v.s)
	case KindList:
		dst = append(dst, tokenList)
		for _, item := range v.l {
			if dst, err = appendValue(dst, item); err != nil {
				return nil, err
			}
		}
		dst = append(dst, tokenEnd)
	case KindDict:
		dst = append(dst, tokenDict)
		for _, e := range v.d.Entries() {
			dst = appendString(dst, []byte(e.Key))
			if dst, err = appendValue(dst, e.Value); err != nil {
				return nil, err
			}
		}
		dst = append(dst, tokenEnd)
	default:
		return nil, ErrInvalidValue
	}
	return dst, nil
}

func appendString(dst, s []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, tokenColon)
	return append(dst, s...)
}
