package blobcache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ZlibCompressor_RoundTrips_When_GivenArbitraryBytes(t *testing.T) {
	t.Parallel()

	cases := map[string][]byte{
		"empty":     {},
		"short":     []byte("hello"),
		"repeating": repeatByte(1024, 'a'),
	}

	compressor := newZlibCompressor(6)

	for name, plain := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			compressed, err := compressor.Compress(plain)
			require.NoError(t, err, "Compress should succeed")

			got, err := compressor.Decompress(compressed)
			require.NoError(t, err, "Decompress should succeed")

			require.Equal(t, plain, got)
		})
	}
}

func Test_ZlibCompressor_FailsWithErrCorrupt_When_InputIsNotZlib(t *testing.T) {
	t.Parallel()

	compressor := newZlibCompressor(6)

	_, err := compressor.Decompress([]byte("not zlib data"))
	require.ErrorIs(t, err, ErrCorrupt)
}

func repeatByte(n int, b byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b
	}

	return buf
}
