package polyline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEmpty(t *testing.T) {
	require.Empty(t, Decode("", 5))
	require.Empty(t, Decode("", DefaultPrecision))
}

func TestDecodeKnownVector(t *testing.T) {
	// Standard polyline5 sample from the original encoding reference.
	coords := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@", 5)
	require.Len(t, coords, 3)

	want := [][2]float64{
		{38.5, -120.2},
		{40.7, -120.95},
		{43.252, -126.453},
	}
	for i, w := range want {
		require.InDelta(t, w[0], coords[i].Lat, 1e-3, "lat of point %d", i)
		require.InDelta(t, w[1], coords[i].Lon, 1e-3, "lon of point %d", i)
	}
}

func TestDecodeDeterministic(t *testing.T) {
	const encoded = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	first := Decode(encoded, 5)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Decode(encoded, 5))
	}
}

func TestDecodeTruncatedTail(t *testing.T) {
	const encoded = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	full := Decode(encoded, 5)
	require.Len(t, full, 3)

	// Chop mid-value: the fully resolved prefix survives, nothing panics.
	truncated := Decode(encoded[:len(encoded)-2], 5)
	require.Len(t, truncated, 2)
	require.Equal(t, full[:2], truncated)

	// A lone dangling continuation byte resolves nothing.
	require.Empty(t, Decode("_", 5))
}

func TestDecodeDanglingLatitudeOnly(t *testing.T) {
	// First point fully decodes, second has a latitude delta but no
	// longitude; only the complete pair is kept.
	full := Decode("_p~iF~ps|U_ulL", 5)
	require.Len(t, full, 1)
	require.InDelta(t, 38.5, full[0].Lat, 1e-3)
	require.InDelta(t, -120.2, full[0].Lon, 1e-3)
}

func TestDecodePrecisionIsExplicit(t *testing.T) {
	const encoded = "_p~iF~ps|U"

	p5 := Decode(encoded, 5)
	p6 := Decode(encoded, 6)
	require.Len(t, p5, 1)
	require.Len(t, p6, 1)

	// Same deltas, different scale: precision 6 values are a tenth of the
	// precision 5 values.
	require.InDelta(t, p5[0].Lat/10, p6[0].Lat, 1e-9)
	require.InDelta(t, p5[0].Lon/10, p6[0].Lon, 1e-9)
}
