package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// RingLength is the total planar length of the ring's segments.
func RingLength(ring orb.Ring) float64 {
	var length float64
	for i := 1; i < len(ring); i++ {
		length += planar.Distance(ring[i-1], ring[i])
	}
	return length
}

func closestPointOnSegment(a, b, p orb.Point) orb.Point {
	abX := b[0] - a[0]
	abY := b[1] - a[1]

	lenSq := abX*abX + abY*abY
	if lenSq == 0 {
		return a
	}

	t := ((p[0]-a[0])*abX + (p[1]-a[1])*abY) / lenSq
	t = math.Max(0, math.Min(1, t))

	return orb.Point{a[0] + t*abX, a[1] + t*abY}
}

// ProjectToRing finds the boundary point nearest to p and its
// arc-length position measured from the ring's first vertex. Ties go
// to the earliest segment, keeping projection deterministic.
func ProjectToRing(ring orb.Ring, p orb.Point) (orb.Point, float64) {
	if len(ring) == 0 {
		return orb.Point{}, 0
	}

	closest := ring[0]
	closestArc := 0.0
	bestDist := planar.Distance(ring[0], p)

	var walked float64
	for i := 1; i < len(ring); i++ {
		a, b := ring[i-1], ring[i]
		candidate := closestPointOnSegment(a, b, p)
		if dist := planar.Distance(candidate, p); dist < bestDist {
			bestDist = dist
			closest = candidate
			closestArc = walked + planar.Distance(a, candidate)
		}
		walked += planar.Distance(a, b)
	}

	return closest, closestArc
}

// RingPointAt walks the ring to the point at arc length d from the
// first vertex. d is clamped to [0, ring length], so samples taken
// just past either end land on the end vertex.
func RingPointAt(ring orb.Ring, d float64) orb.Point {
	if len(ring) == 0 {
		return orb.Point{}
	}
	if d <= 0 {
		return ring[0]
	}

	var walked float64
	for i := 1; i < len(ring); i++ {
		a, b := ring[i-1], ring[i]
		segLen := planar.Distance(a, b)
		if walked+segLen >= d {
			if segLen == 0 {
				return a
			}
			t := (d - walked) / segLen
			return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
		}
		walked += segLen
	}

	return ring[len(ring)-1]
}
