package valuecodec_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ddofborg/blobcache/valuecodec"
)

// Contract: every value built from the exported constructors survives an
// Encode/Decode round trip unchanged.
func Test_Decode_ReturnsOriginalValue_When_RoundTripped(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		v    valuecodec.Value
	}{
		{"bool true", valuecodec.Bool(true)},
		{"bool false", valuecodec.Bool(false)},
		{"int", valuecodec.Int(1)},
		{"negative int", valuecodec.Int(-42)},
		{"float", valuecodec.Float(1.1)},
		{"empty string", valuecodec.String("")},
		{"mb string", valuecodec.String("漢字はユニコード")},
		{"list", valuecodec.List{valuecodec.Int(1), valuecodec.Int(2), valuecodec.Int(3)}},
		{"heterogeneous list", valuecodec.List{valuecodec.String("a"), valuecodec.Bool(true), valuecodec.Float(2.5)}},
		{"map", valuecodec.Map{"a": valuecodec.Int(1), "b": valuecodec.Int(2)}},
		{"nested", valuecodec.Map{"list": valuecodec.List{valuecodec.Int(1), valuecodec.Map{"x": valuecodec.Bool(true)}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			data, err := valuecodec.Encode(tc.v)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			got, err := valuecodec.Decode(data, valuecodec.DecodeAsMap)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			if diff := cmp.Diff(tc.v, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Decode_AcceptsRelaxedJSON_When_HuJSONHasComments(t *testing.T) {
	t.Parallel()

	relaxed := []byte(`{
		// comment
		"a": 1,
		"b": 2, // trailing comma below
	}`)

	got, err := valuecodec.Decode(relaxed, valuecodec.DecodeAsMap)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := valuecodec.Map{"a": valuecodec.Int(1), "b": valuecodec.Int(2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func Test_Decode_SortsKeys_When_ModeIsOrderedPairs(t *testing.T) {
	t.Parallel()

	data := []byte(`{"z": 1, "a": 2}`)

	got, err := valuecodec.Decode(data, valuecodec.DecodeAsOrderedPairs)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := valuecodec.List{
		valuecodec.List{valuecodec.String("a"), valuecodec.Int(2)},
		valuecodec.List{valuecodec.String("z"), valuecodec.Int(1)},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func Test_FromGo_ToGo_RoundTrips_PlainGoValues(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"a": int64(1),
		"b": "two",
		"c": []any{int64(1), int64(2), true},
	}

	v, err := valuecodec.FromGo(in)
	if err != nil {
		t.Fatalf("FromGo: %v", err)
	}

	out := valuecodec.ToGo(v)

	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func Test_Decode_ReturnsErrUnsupported_When_ValueIsNull(t *testing.T) {
	t.Parallel()

	_, err := valuecodec.Decode([]byte(`null`), valuecodec.DecodeAsMap)
	if !errors.Is(err, valuecodec.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for null, got %v", err)
	}
}
