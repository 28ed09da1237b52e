package change

import (
	"encoding/json"
	"fmt"
)

// Change values arrive either as decoded JSON (string, []any, map[string]any)
// or as typed Go values from in-process callers. These helpers coerce both.

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool, int, int32, int64, float32, float64, uint, uint32, uint64:
		return fmt.Sprint(x)
	case fmt.Stringer:
		return x.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// asStringList returns v as a fresh list of strings. Non-list values give an
// empty list; nil entries are dropped. dropEmpty also drops empty strings;
// whitespace-only entries are kept as given.
func asStringList(v any, dropEmpty bool) []string {
	var items []any
	switch x := v.(type) {
	case []string:
		items = make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
	case []any:
		items = x
	default:
		if !isList(v) {
			return []string{}
		}
		if err := roundTrip(v, &items); err != nil {
			return []string{}
		}
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		s := asString(it)
		if dropEmpty && s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// asRows returns v as a list of objects; anything that is not one is skipped.
func asRows(v any) []map[string]any {
	var items []any
	if x, ok := v.([]any); ok {
		items = x
	} else if !isList(v) || roundTrip(v, &items) != nil {
		return nil
	}

	rows := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if obj, ok := asObject(it); ok {
			rows = append(rows, obj)
		}
	}
	return rows
}

func asObject(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return x, true
	}
	var obj map[string]any
	if err := roundTrip(v, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	b, err := json.Marshal(v)
	return err == nil && len(b) > 0 && b[0] == '['
}

func roundTrip(v any, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
