package decode

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// rule resolves one logical value from a JSON object.
type rule[T any] struct {
	name    string
	resolve func(obj map[string]any) (T, bool)
}

// field is an ordered list of alias rules; earlier rules take priority.
type field[T any] []rule[T]

func (f field[T]) resolve(obj map[string]any) (T, bool) {
	for _, r := range f {
		if v, ok := r.resolve(obj); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// names lists the rule names in priority order, for error messages.
func (f field[T]) names() []string {
	out := make([]string, len(f))
	for i, r := range f {
		out[i] = r.name
	}
	return out
}

func stringField(keys ...string) field[string] {
	f := make(field[string], len(keys))
	for i, k := range keys {
		f[i] = stringKey(k)
	}
	return f
}

func intField(keys ...string) field[int] {
	f := make(field[int], len(keys))
	for i, k := range keys {
		f[i] = intKey(k)
	}
	return f
}

func idField(keys ...string) field[string] {
	f := make(field[string], len(keys))
	for i, k := range keys {
		f[i] = idKey(k)
	}
	return f
}

func caloriesField(keys ...string) field[int] {
	f := make(field[int], len(keys))
	for i, k := range keys {
		f[i] = caloriesKey(k)
	}
	return f
}

func listField(commaOnly bool, keys ...string) field[[]string] {
	f := make(field[[]string], len(keys))
	for i, k := range keys {
		f[i] = listKey(k, commaOnly)
	}
	return f
}

// stringKey yields the trimmed string under key when it is not blank.
func stringKey(key string) rule[string] {
	return rule[string]{name: key, resolve: func(obj map[string]any) (string, bool) {
		s, ok := obj[key].(string)
		if !ok {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	}}
}

// intKey yields an integral number, or a string holding one.
func intKey(key string) rule[int] {
	return rule[int]{name: key, resolve: func(obj map[string]any) (int, bool) {
		switch v := obj[key].(type) {
		case json.Number:
			n, err := strconv.Atoi(v.String())
			return n, err == nil
		case float64:
			if v != math.Trunc(v) {
				return 0, false
			}
			return int(v), true
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			return n, err == nil
		}
		return 0, false
	}}
}

// idKey yields a record identifier from either a string or a number.
func idKey(key string) rule[string] {
	return rule[string]{name: key, resolve: func(obj map[string]any) (string, bool) {
		switch v := obj[key].(type) {
		case json.Number:
			return v.String(), true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case string:
			v = strings.TrimSpace(v)
			return v, v != ""
		}
		return "", false
	}}
}

// caloriesKey accepts a number or a numeric string, rounded to the nearest kcal.
func caloriesKey(key string) rule[int] {
	return rule[int]{name: key, resolve: func(obj map[string]any) (int, bool) {
		var raw string
		switch v := obj[key].(type) {
		case json.Number:
			raw = v.String()
		case float64:
			return int(math.Round(v)), true
		case string:
			raw = strings.TrimSpace(v)
		default:
			return 0, false
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(math.Round(f)), true
	}}
}

// listKey splits a comma-delimited string into trimmed, non-empty parts.
// Unless commaOnly is set, an array of strings is accepted as well.
// An empty result counts as absent.
func listKey(key string, commaOnly bool) rule[[]string] {
	return rule[[]string]{name: key, resolve: func(obj map[string]any) ([]string, bool) {
		var parts []string
		switch v := obj[key].(type) {
		case string:
			parts = strings.Split(v, ",")
		case []any:
			if commaOnly {
				return nil, false
			}
			for _, el := range v {
				if s, ok := el.(string); ok {
					parts = append(parts, s)
				}
			}
		default:
			return nil, false
		}

		var out []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, len(out) > 0
	}}
}
