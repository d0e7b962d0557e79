package cache

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PaesslerAG/jsonpath"
)

// Transform converts raw store data to a value. It reports false when the
// data cannot be converted.
type Transform func(raw []byte) (Value, bool)

// AsBytes returns the raw data as a binary value.
func AsBytes(raw []byte) (Value, bool) {
	return Bytes(raw), true
}

// AsString decodes the raw data as UTF-8 text.
func AsString(raw []byte) (Value, bool) {
	if !utf8.Valid(raw) {
		return Value{}, false
	}
	return String(string(raw)), true
}

// AsInt parses the raw data as a decimal integer. Floating point text is
// truncated toward zero.
func AsInt(raw []byte) (Value, bool) {
	s := strings.TrimSpace(string(raw))
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, false
	}
	f = math.Trunc(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return Value{}, false
	}
	return Int(int64(f)), true
}

// AsFloat parses the raw data as a floating point number.
func AsFloat(raw []byte) (Value, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return Value{}, false
	}
	return Float(f), true
}

// JSONPath returns a transform evaluating the JSONPath expression over the
// raw data decoded as a JSON document.
//
// Strings and numbers are returned as KindString and KindFloat values, other
// results are returned as their JSON encoding.
func JSONPath(expr string) Transform {
	return func(raw []byte) (Value, bool) {
		var doc interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Value{}, false
		}
		result, err := jsonpath.Get(expr, doc)
		if err != nil {
			return Value{}, false
		}
		switch r := result.(type) {
		case string:
			return String(r), true
		case float64:
			return Float(r), true
		case nil:
			return Value{}, false
		}
		data, err := json.Marshal(result)
		if err != nil {
			return Value{}, false
		}
		return String(string(data)), true
	}
}
