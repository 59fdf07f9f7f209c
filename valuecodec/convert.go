package valuecodec

import "fmt"

// FromGo converts an idiomatic Go value into a [Value] tree.
//
// Accepted dynamic types: bool, int, int8, int16, int32, int64, uint, uint8,
// uint16 and uint32 (widened to [Int]; uint64 and uintptr are not accepted), float32/float64 (widened to [Float]), string, []any (each
// element converted recursively), and map[string]any (each value converted
// recursively). Anything else returns [ErrUnsupported].
//
// []byte is deliberately not accepted here - callers that want the raw-bytes
// frame path pass []byte straight to [blobcache.Cache.Set], bypassing this
// package entirely.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []any:
		items := make(List, len(val))

		for i, item := range val {
			converted, err := FromGo(item)
			if err != nil {
				return nil, err
			}

			items[i] = converted
		}

		return items, nil
	case map[string]any:
		out := make(Map, len(val))

		for k, item := range val {
			converted, err := FromGo(item)
			if err != nil {
				return nil, err
			}

			out[k] = converted
		}

		return out, nil
	case Value:
		return val, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}

// ToGo converts a [Value] tree back into plain Go values (bool, int64,
// float64, string, []any, map[string]any) suitable for callers that do not
// want to type-switch over [Value] themselves.
func ToGo(v Value) any {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case String:
		return string(val)
	case List:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ToGo(item)
		}

		return out
	case Map:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = ToGo(item)
		}

		return out
	default:
		return nil
	}
}
