package cache

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the kind of a scalar value.
type Kind int

const (
	// KindNone is the kind of the zero Value.
	KindNone Kind = iota
	// KindString is a UTF-8 text value.
	KindString
	// KindBytes is a binary value.
	KindBytes
	// KindInt is a signed 64-bit integer value.
	KindInt
	// KindFloat is a 64-bit floating point value.
	KindFloat
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	}
	return "none"
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "string", "str", "text":
		return KindString, nil
	case "bytes", "binary":
		return KindBytes, nil
	case "int", "integer":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	}
	return KindNone, fmt.Errorf("invalid kind '%s'", s)
}

// Transform returns the transform decoding raw store data to the kind.
func (k Kind) Transform() Transform {
	switch k {
	case KindString:
		return AsString
	case KindInt:
		return AsInt
	case KindFloat:
		return AsFloat
	case KindBytes:
		return AsBytes
	}
	return nil
}

// Value is a scalar value tagged with its kind.
type Value struct {
	kind Kind
	s    string
	b    []byte
	i    int64
	f    float64
}

// String returns a text value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Bytes returns a binary value.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, b: b}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a floating point value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the zero Value.
func (v Value) IsZero() bool {
	return v.kind == KindNone
}

// Text returns the text of a KindString value.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

// Binary returns the data of a KindBytes value.
func (v Value) Binary() ([]byte, bool) {
	return v.b, v.kind == KindBytes
}

// Int64 returns the integer of a KindInt value.
func (v Value) Int64() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Float64 returns the number of a KindFloat value.
func (v Value) Float64() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Encode returns the store representation of the value.
func (v Value) Encode() []byte {
	switch v.kind {
	case KindString:
		return []byte(v.s)
	case KindBytes:
		return v.b
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10)
	case KindFloat:
		return strconv.AppendFloat(nil, v.f, 'f', -1, 64)
	}
	return nil
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindBytes:
		return bytes.Equal(v.b, o.b)
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	}
	return true
}

// String returns a printable form of the value.
func (v Value) String() string {
	switch v.kind {
	case KindBytes:
		if utf8.Valid(v.b) {
			return string(v.b)
		}
		return fmt.Sprintf("%x", v.b)
	case KindNone:
		return "<none>"
	}
	return string(v.Encode())
}
