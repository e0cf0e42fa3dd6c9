package bencode

import (
	zeebo "github.com/zeebo/bencode"
)

var (
	_ zeebo.Marshaler   = Value{}
	_ zeebo.Unmarshaler = (*Value)(nil)
)

// MarshalBencode lets a Value be embedded in structs encoded with
// github.com/zeebo/bencode.
func (v Value) MarshalBencode() ([]byte, error) {
	return Encode(v)
}

func (v *Value) UnmarshalBencode(b []byte) error {
	decoded, err := Decode(append([]byte(nil), b...))
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
