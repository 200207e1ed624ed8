package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"
)

type ringSegment struct {
	a orb.Point
	b orb.Point
}

func (s ringSegment) bound() orb.Bound {
	bound := orb.Bound{Min: s.a, Max: s.a}
	return bound.Extend(s.b)
}

// RingIndex answers containment queries for one polygon. Boundary
// segments sit in an r-tree so a bounding-box check only has to look
// at the few segments near the box instead of the whole ring.
// Built once per polygon, read-only afterwards.
type RingIndex struct {
	polygon orb.Polygon
	tree    rtree.RTreeG[ringSegment]
}

func NewRingIndex(polygon orb.Polygon) *RingIndex {
	idx := &RingIndex{
		polygon: polygon,
	}
	for _, ring := range polygon {
		for i := 1; i < len(ring); i++ {
			seg := ringSegment{a: ring[i-1], b: ring[i]}
			bound := seg.bound()
			idx.tree.Insert(bound.Min, bound.Max, seg)
		}
	}
	return idx
}

func (idx *RingIndex) Polygon() orb.Polygon {
	return idx.polygon
}

func (idx *RingIndex) ContainsPoint(p orb.Point) bool {
	return planar.PolygonContains(idx.polygon, p)
}

// ContainsBound reports whether the axis-aligned box lies fully
// inside the polygon: all four corners are contained and no boundary
// segment cuts through the box. Holes count as boundary, so a box
// straddling a hole fails.
func (idx *RingIndex) ContainsBound(b orb.Bound) bool {
	corners := [4]orb.Point{
		b.Min,
		{b.Max[0], b.Min[1]},
		b.Max,
		{b.Min[0], b.Max[1]},
	}
	for _, corner := range corners {
		if !idx.ContainsPoint(corner) {
			return false
		}
	}

	crossed := false
	idx.tree.Search(b.Min, b.Max, func(min, max [2]float64, seg ringSegment) bool {
		if segmentIntersectsBound(seg.a, seg.b, b) {
			crossed = true
			return false
		}
		return true
	})

	return !crossed
}

func segmentIntersectsBound(a, b orb.Point, bound orb.Bound) bool {
	if bound.Contains(a) || bound.Contains(b) {
		return true
	}

	corners := [4]orb.Point{
		bound.Min,
		{bound.Max[0], bound.Min[1]},
		bound.Max,
		{bound.Min[0], bound.Max[1]},
	}
	for i := 0; i < 4; i++ {
		if segmentsIntersect(a, b, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}

// orientation of the triplet (p, q, r): 0 collinear, 1 clockwise,
// -1 counterclockwise.
func orientation(p, q, r orb.Point) int {
	val := (q[1]-p[1])*(r[0]-q[0]) - (q[0]-p[0])*(r[1]-q[1])
	switch {
	case val > 0:
		return 1
	case val < 0:
		return -1
	}
	return 0
}

// onSegment assumes p, q, r are collinear and reports whether q lies
// within the extent of segment pr.
func onSegment(p, q, r orb.Point) bool {
	return q[0] <= max(p[0], r[0]) && q[0] >= min(p[0], r[0]) &&
		q[1] <= max(p[1], r[1]) && q[1] >= min(p[1], r[1])
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	o1 := orientation(p1, p2, q1)
	o2 := orientation(p1, p2, q2)
	o3 := orientation(q1, q2, p1)
	o4 := orientation(q1, q2, p2)

	if o1 != o2 && o3 != o4 {
		return true
	}

	if o1 == 0 && onSegment(p1, q1, p2) {
		return true
	}
	if o2 == 0 && onSegment(p1, q2, p2) {
		return true
	}
	if o3 == 0 && onSegment(q1, p1, q2) {
		return true
	}
	if o4 == 0 && onSegment(q1, p2, q2) {
		return true
	}

	return false
}
