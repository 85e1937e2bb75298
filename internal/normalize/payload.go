package normalize

import (
	"math"
	"strconv"
	"strings"
)

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// Dig walks nested objects by key and returns nil on the first miss.
func Dig(v any, path ...string) any {
	cur := v
	for _, key := range path {
		m := asMap(cur)
		if m == nil {
			return nil
		}
		cur = m[key]
	}
	return cur
}

// DigMap and DigSlice are typed variants of Dig.
func DigMap(v any, path ...string) map[string]any {
	return asMap(Dig(v, path...))
}

func DigSlice(v any, path ...string) []any {
	return asSlice(Dig(v, path...))
}

// String returns the first non-empty string among keys. Numbers are
// formatted, so ids arriving as 57 and "57" read the same.
func String(v any, keys ...string) string {
	m := asMap(v)
	if m == nil {
		return ""
	}
	for _, key := range keys {
		if s := scalarString(m[key]); s != "" {
			return s
		}
	}
	return ""
}

// StringAt reads a string at a nested path.
func StringAt(v any, path ...string) string {
	return scalarString(Dig(v, path...))
}

func scalarString(v any) string {
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}

// Number coerces v to a finite float. Strings are parsed after trimming
// spaces and a trailing percent sign.
func Number(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, isFinite(typed)
	case float32:
		f := float64(typed)
		return f, isFinite(f)
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(typed), "%")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, isFinite(f)
	default:
		return 0, false
	}
}

// Int reads an integer at key, zero when absent or non-numeric.
func Int(v any, keys ...string) int {
	m := asMap(v)
	for _, key := range keys {
		if f, ok := Number(m[key]); ok {
			return int(f)
		}
	}
	return 0
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// LastPathSegment returns the final path element of a URL, ignoring any
// query string or fragment. Core API references end in the entity id.
func LastPathSegment(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.TrimRight(ref, "/")
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
