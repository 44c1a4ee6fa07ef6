package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// NormalizeValue reduces v to a scalar every backend can persist:
// string, bool, int64, float64, time.Time or nil. Composite values are kept
// as their JSON text.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int64, float64, time.Time:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Normalize returns a copy of p with every value normalised.
func Normalize(p Properties) Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = NormalizeValue(v)
	}
	return out
}

// String returns the property as a string, or "" when absent or not a string.
func (p Properties) String(name string) string {
	s, _ := p[name].(string)
	return s
}

func (p Properties) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}
