package bencode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	zeebo "github.com/zeebo/bencode"
)

func TestAccessorsReportKind(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"integer", Int(1), KindInteger},
		{"string", String("a"), KindString},
		{"list", NewList(), KindList},
		{"dict", DictValue(NewDict()), KindDict},
		{"zero", Value{}, KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.v.Kind())
			assert.Equal(t, tt.kind != KindInvalid, tt.v.IsValid())

			_, isInt := tt.v.Int()
			_, isBytes := tt.v.Bytes()
			_, isText := tt.v.Text()
			_, isList := tt.v.List()
			_, isDict := tt.v.Dict()
			assert.Equal(t, tt.kind == KindInteger, isInt)
			assert.Equal(t, tt.kind == KindString, isBytes)
			assert.Equal(t, tt.kind == KindString, isText)
			assert.Equal(t, tt.kind == KindList, isList)
			assert.Equal(t, tt.kind == KindDict, isDict)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "integer", KindInteger.String())
	assert.Equal(t, "byte string", KindString.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "dictionary", KindDict.String())
	assert.Equal(t, "invalid", KindInvalid.String())
}

func TestNilDictIsEmpty(t *testing.T) {
	var d *Dict
	assert.Equal(t, 0, d.Len())
	assert.False(t, d.Has("a"))
	assert.Empty(t, d.Keys())
	assert.Nil(t, d.Entries())
}

func TestConstructedValuesHaveNoRaw(t *testing.T) {
	assert.Nil(t, Int(1).Raw())
	assert.Nil(t, DictValue(NewDict().Set("a", Int(1))).Raw())
}

func TestErrorMessages(t *testing.T) {
	_, err := Decode([]byte("i01e"))
	require.Error(t, err)
	assert.Equal(t, "bencode: malformed integer at offset 1: leading zero", err.Error())
	assert.Equal(t, "bencode: out of data at offset 0", ErrOutOfData.Error())
}

type wrapped struct {
	Info Value  `bencode:"info"`
	Name string `bencode:"name"`
}

func TestZeeboMarshalsValue(t *testing.T) {
	w := wrapped{
		Info: DictValue(NewDict().Set("a", Int(1)).Set("b", String("x"))),
		Name: "n",
	}
	got, err := zeebo.EncodeBytes(w)
	require.NoError(t, err)
	assert.Equal(t, "d4:infod1:ai1e1:b1:xe4:name1:ne", string(got))
}

func TestZeeboUnmarshalsValue(t *testing.T) {
	var w wrapped
	err := zeebo.DecodeBytes([]byte("d4:infod1:ai1e1:bl1:xee4:name1:ne"), &w)
	require.NoError(t, err)

	assert.Equal(t, "n", w.Name)
	assert.Equal(t, "d1:ai1e1:bl1:xee", string(w.Info.Raw()))
	assert.Equal(t, map[string]any{"a": int64(1), "b": []any{"x"}}, w.Info.Interface())
}
