package intake

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Values is the single map of field values of a draft, keyed by field name.
type Values map[string]any

// String returns the trimmed text form of a value.
func (v Values) String(name string) string {
	switch x := v[name].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// Float parses a numeric value. Numeric strings are accepted.
func (v Values) Float(name string) (float64, bool) {
	switch x := v[name].(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", ""), 64)
		return f, err == nil
	}
	return 0, false
}

// Int truncates a numeric value.
func (v Values) Int(name string) (int, bool) {
	f, ok := v.Float(name)
	return int(f), ok
}

// Bool reads checkbox values. "true", "on", "yes" and "1" count as checked.
func (v Values) Bool(name string) bool {
	switch x := v[name].(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "on", "yes", "1":
			return true
		}
	case float64:
		return x != 0
	}
	return false
}

// List splits a comma or newline separated value, or flattens a JSON array.
func (v Values) List(name string) []string {
	var raw []string
	switch x := v[name].(type) {
	case []any:
		for _, item := range x {
			raw = append(raw, fmt.Sprint(item))
		}
	case []string:
		raw = x
	case string:
		raw = strings.FieldsFunc(x, func(r rune) bool { return r == ',' || r == '\n' })
	}
	var out []string
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
