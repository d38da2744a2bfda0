// Package polyline decodes the compact route-geometry wire format used by
// routing providers: zig-zag encoded signed deltas packed into 5-bit groups
// with a continuation bit, alternating latitude then longitude.
package polyline

import (
	"math"

	"route-session-service/internal/domain"
)

// DefaultPrecision matches the backend encoder (polyline6, 1e-6 degrees).
// Precision stays an explicit parameter so callers matching a different
// encoder still work correctly.
const DefaultPrecision = 6

// Decode converts an encoded polyline into an ordered coordinate sequence.
//
// Empty input decodes to an empty sequence. A truncated tail (a dangling
// continuation bit with no terminator) yields whatever coordinates were
// fully resolved before the truncation; Decode never fails.
func Decode(encoded string, precision int) []domain.Coordinate {
	if precision < 1 {
		precision = DefaultPrecision
	}
	factor := math.Pow10(precision)

	coords := make([]domain.Coordinate, 0, len(encoded)/4)
	var lat, lon int64
	index := 0

	for index < len(encoded) {
		dLat, next, ok := decodeDelta(encoded, index)
		if !ok {
			break
		}
		dLon, after, ok := decodeDelta(encoded, next)
		if !ok {
			break
		}

		lat += dLat
		lon += dLon
		index = after

		coords = append(coords, domain.Coordinate{
			Lat: float64(lat) / factor,
			Lon: float64(lon) / factor,
		})
	}

	return coords
}

// decodeDelta reads one zig-zag encoded value starting at index. ok is false
// when the value is cut off before its terminating group.
func decodeDelta(encoded string, index int) (int64, int, bool) {
	var result int64
	var shift uint

	for {
		if index >= len(encoded) {
			return 0, index, false
		}
		b := int64(encoded[index]) - 63
		index++

		result |= (b & 0x1f) << shift
		shift += 5

		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index, true
	}
	return result >> 1, index, true
}
