// Package geo provides small planar helpers for proximity checks on route
// paths. All distances use an equirectangular approximation, which is
// accurate enough at city scale.
package geo

import (
	"math"

	"route-session-service/internal/domain"
)

const (
	metersPerDegreeLat = 111132.0
	metersPerDegreeLon = 111319.0
)

// PointSegmentDistance returns the minimum distance in meters from point p
// to the segment a-b.
func PointSegmentDistance(p, a, b domain.Coordinate) float64 {
	px, py := toMeters(p)
	ax, ay := toMeters(a)
	bx, by := toMeters(b)

	dx := bx - ax
	dy := by - ay

	if dx == 0 && dy == 0 {
		return math.Hypot(px-ax, py-ay)
	}

	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	cx := ax + t*dx
	cy := ay + t*dy

	return math.Hypot(px-cx, py-cy)
}

// MinDistanceToPath returns the minimum distance in meters from p to any
// segment of path, and the index of the closest segment. A path with fewer
// than two points has no segments; the distance is +Inf and the index -1.
func MinDistanceToPath(path []domain.Coordinate, p domain.Coordinate) (float64, int) {
	minDist := math.Inf(1)
	closest := -1

	for i := 0; i+1 < len(path); i++ {
		d := PointSegmentDistance(p, path[i], path[i+1])
		if d < minDist {
			minDist = d
			closest = i
		}
	}

	return minDist, closest
}

// IsLocationOnPath reports whether p lies within radiusMeters of path.
func IsLocationOnPath(path []domain.Coordinate, p domain.Coordinate, radiusMeters float64) bool {
	d, _ := MinDistanceToPath(path, p)
	return d <= radiusMeters
}

func toMeters(c domain.Coordinate) (float64, float64) {
	y := c.Lat * metersPerDegreeLat
	x := c.Lon * metersPerDegreeLon * math.Cos(c.Lat*math.Pi/180)
	return x, y
}
