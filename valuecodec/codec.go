package valuecodec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tailscale/hujson"
)

// ErrUnsupported is returned by FromGo when a Go value's dynamic type has no
// Value counterpart, and by Decode when the decoded JSON contains something
// the model cannot represent (for example null).
var ErrUnsupported = errors.New("valuecodec: unsupported value")

// DecodeMode controls how Decode represents a JSON object.
type DecodeMode int

const (
	// DecodeAsMap decodes a JSON object into a [Map] (default). Field order
	// is not preserved since Go map iteration is unordered.
	DecodeAsMap DecodeMode = iota

	// DecodeAsOrderedPairs decodes a JSON object into a [List] of two-element
	// [List] values ([String(key), value]), sorted by key. Use this when the
	// caller wants deterministic iteration order instead of a Go map's
	// randomized one (the corresponding [Options.DecodeMapping] knob). The
	// original wire order is not recoverable - encoding/json's map decoding
	// already discards it - so "ordered" here means key-sorted, not
	// as-written.
	DecodeAsOrderedPairs
)

// Encode renders v as the canonical textual encoding (JSON) used on the wire.
//
// Encode never returns [ErrUnsupported]; it fails only where encoding/json
// does, for example on a non-finite [Float].
func Encode(v Value) ([]byte, error) {
	data, err := json.Marshal(toAny(v))
	if err != nil {
		return nil, fmt.Errorf("valuecodec: encode: %w", err)
	}

	return data, nil
}

// Decode parses data (JSON, or JWCC-relaxed JSON - trailing commas and
// comments - for hand-edited fixtures) into a Value tree.
//
// mode controls how JSON objects are represented; see [DecodeAsMap] and
// [DecodeAsOrderedPairs].
func Decode(data []byte, mode DecodeMode) (Value, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("valuecodec: decode: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.UseNumber()

	var raw any

	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("valuecodec: decode: %w", err)
	}

	return fromAny(raw, mode)
}

func toAny(v Value) any {
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
			out[i] = toAny(item)
		}

		return out
	case Map:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toAny(item)
		}

		return out
	default:
		return nil
	}
}

func fromAny(raw any, mode DecodeMode) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return nil, fmt.Errorf("%w: null", ErrUnsupported)
	case bool:
		return Bool(val), nil
	case json.Number:
		return numberToValue(val)
	case string:
		return String(val), nil
	case []any:
		items := make(List, len(val))

		for i, item := range val {
			converted, err := fromAny(item, mode)
			if err != nil {
				return nil, err
			}

			items[i] = converted
		}

		return items, nil
	case map[string]any:
		return objectToValue(val, mode)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, raw)
	}
}

func numberToValue(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}

	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("valuecodec: decode number %q: %w", n.String(), err)
	}

	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("%w: non-finite number %q", ErrUnsupported, n.String())
	}

	return Float(f), nil
}

func objectToValue(obj map[string]any, mode DecodeMode) (Value, error) {
	if mode == DecodeAsOrderedPairs {
		// encoding/json does not preserve key order in map[string]any, so
		// ordered-pairs mode can only offer a deterministic (sorted) order,
		// not the original wire order. Documented on DecodeAsOrderedPairs.
		return orderedPairsFrom(obj)
	}

	out := make(Map, len(obj))

	for k, item := range obj {
		converted, err := fromAny(item, mode)
		if err != nil {
			return nil, err
		}

		out[k] = converted
	}

	return out, nil
}

func orderedPairsFrom(obj map[string]any) (Value, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make(List, 0, len(keys))

	for _, k := range keys {
		converted, err := fromAny(obj[k], DecodeAsOrderedPairs)
		if err != nil {
			return nil, err
		}

		pairs = append(pairs, List{String(k), converted})
	}

	return pairs, nil
}
