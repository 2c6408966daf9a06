// Package convert provides loose conversions for JSON values whose type varies
// between control-panel releases (numbers sent as strings and vice versa).
package convert

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToFloat64 converts various numeric types to float64.
// Returns 0 for unsupported types or parse failures.
func ToFloat64(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case uint64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(t), "%")
		f, _ := strconv.ParseFloat(s, 64)
		return f
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ToInt truncates ToFloat64 toward zero.
func ToInt(v any) int {
	f := ToFloat64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// ToString renders scalars as text; whole numbers lose their fraction.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// ToBool accepts booleans, "true"/"1" strings and non-zero numbers.
func ToBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	default:
		return ToFloat64(v) != 0
	}
}
