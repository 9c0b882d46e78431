package recordsapi

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// object is one decoded JSON object. Upstream payloads mix camelCase and
// snake_case keys and send numbers as either numbers or strings.
type object map[string]any

// str returns the first non-empty value among keys as a string.
func (o object) str(keys ...string) string {
	for _, k := range keys {
		v, ok := o[k]
		if !ok || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err == nil && s != "" {
			return s
		}
	}
	return ""
}

// num returns the first parseable value among keys, or 0.
func (o object) num(keys ...string) float64 {
	for _, k := range keys {
		v, ok := o[k]
		if !ok || v == nil {
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		return f
	}
	return 0
}

func (o object) has(key string) bool {
	_, ok := o[key]
	return ok
}

func (o object) list(key string) ([]object, bool) {
	raw, ok := o[key].([]any)
	if !ok {
		return nil, false
	}
	return toObjects(raw), true
}

func toObjects(raw []any) []object {
	out := make([]object, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, object(m))
		}
	}
	return out
}

// decodeList accepts a bare JSON array or an object wrapping it under
// "data", "records" or "items".
func decodeList(body []byte) ([]object, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("failed to decode records api response: %w", err)
	}
	switch t := v.(type) {
	case []any:
		return toObjects(t), nil
	case map[string]any:
		for _, key := range []string{"data", "records", "items"} {
			if inner, ok := t[key].([]any); ok {
				return toObjects(inner), nil
			}
		}
		return nil, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected records api response shape %T", v)
}

// decodeObject accepts a JSON object, optionally wrapped under "data".
func decodeObject(body []byte) (object, error) {
	var v map[string]any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("failed to decode records api response: %w", err)
	}
	if inner, ok := v["data"].(map[string]any); ok {
		return object(inner), nil
	}
	return object(v), nil
}
