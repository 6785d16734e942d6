package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sort"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// parse decodes a single JSON value into a generic tree.
// Numbers are kept as json.Number so integer ids survive untouched.
func parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return root, nil
}

// walkArrayObjects visits, depth first, every object that is an element of an
// array anywhere in the tree. Object keys are visited in sorted order so the
// traversal is deterministic.
func walkArrayObjects(node any, visit func(obj map[string]any)) {
	switch v := node.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			walkArrayObjects(v[key], visit)
		}
	case []any:
		for _, el := range v {
			if obj, ok := el.(map[string]any); ok {
				visit(obj)
			}
			walkArrayObjects(el, visit)
		}
	}
}

// walkStrings calls visit for every string leaf of the tree, depth first, until
// visit returns true.
func walkStrings(node any, visit func(s string) bool) bool {
	switch v := node.(type) {
	case string:
		return visit(v)
	case map[string]any:
		for _, key := range sortedKeys(v) {
			if walkStrings(v[key], visit) {
				return true
			}
		}
	case []any:
		for _, el := range v {
			if walkStrings(el, visit) {
				return true
			}
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
