// Package payload reads loosely shaped JSON from the backend. Numbers are
// kept as json.Number so price parsing sees the source representation.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Fields = map[string]any

func DecodeLoose(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}

// DecodeList accepts a bare array or an object wrapping one under a common
// envelope key. Non-object elements are dropped.
func DecodeList(data []byte) ([]Fields, error) {
	v, err := DecodeLoose(data)
	if err != nil {
		return nil, err
	}
	var arr []any
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		arr = x
	case Fields:
		for _, k := range []string{"items", "content", "data", "results"} {
			if a, ok := x[k].([]any); ok {
				arr = a
				break
			}
		}
		if arr == nil {
			return nil, fmt.Errorf("decode response: object without a list")
		}
	default:
		return nil, fmt.Errorf("decode response: unexpected %T", v)
	}

	out := make([]Fields, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(Fields); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func DecodeObject(data []byte) (Fields, error) {
	v, err := DecodeLoose(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(Fields)
	if !ok {
		return nil, fmt.Errorf("decode response: expected object, got %T", v)
	}
	return m, nil
}

func Nested(m Fields, key string) Fields {
	n, _ := m[key].(Fields)
	return n
}

// First returns the first non-nil value under keys.
func First(m Fields, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func Int64Field(m Fields, keys ...string) (int64, bool) {
	return ToInt64(First(m, keys...))
}

func ToInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		f, err := x.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int64(x), true
	case int:
		return int64(x), true
	case int64:
		return x, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func StringField(m Fields, keys ...string) string {
	switch x := First(m, keys...).(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	}
	return ""
}

func Bool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(x))
		return b
	case json.Number:
		n, _ := x.Int64()
		return n != 0
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05.000+00:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time reads RFC 3339 style strings and epoch milliseconds.
func Time(v any) time.Time {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	case json.Number:
		if ms, err := x.Int64(); err == nil && ms > 0 {
			return time.UnixMilli(ms).UTC()
		}
	}
	return time.Time{}
}
