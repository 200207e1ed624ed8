package geo

import (
	"errors"
	"math"

	venise_geo "github.com/dernise/venise/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrEmptyGeometry is returned when a polygon set has no members to
// select from.
var ErrEmptyGeometry = errors.New("geometry is empty")

const polylabelPrecision = 0.000001

func GeometrySupported(geometry orb.Geometry) bool {
	switch geometry.GeoJSONType() {
	case "Polygon":
	case "MultiPolygon":
	default:
		return false
	}
	return true
}

func convertToVenisePolygon(orbPolygon orb.Polygon) venise_geo.Polygon {
	polygon := venise_geo.Polygon{
		Rings: make([][]venise_geo.Point, len(orbPolygon)),
	}
	for ringIdx, ring := range orbPolygon {
		ringPoints := make([]venise_geo.Point, len(ring))
		for ptsIdx, coord := range ring {
			ringPoints[ptsIdx] = venise_geo.Point(coord)
		}
		polygon.Rings[ringIdx] = ringPoints
	}
	return polygon
}

// PolygonArea is the unsigned planar area, indifferent to ring
// winding. Parsed input does not promise an orientation.
func PolygonArea(poly orb.Polygon) float64 {
	return math.Abs(planar.Area(poly))
}

// LargestPolygon picks the dominant member of a multi-polygon by
// planar area. A water body split into disconnected parts gets its
// label on the biggest part only.
func LargestPolygon(mp orb.MultiPolygon) (orb.Polygon, error) {
	switch len(mp) {
	case 0:
		return nil, ErrEmptyGeometry
	case 1:
		return mp[0], nil
	}

	bestPoly := mp[0]
	maxArea := PolygonArea(bestPoly)

	for _, poly := range mp[1:] {
		area := PolygonArea(poly)
		if area > maxArea {
			maxArea = area
			bestPoly = poly
		}
	}

	return bestPoly, nil
}

// PolygonLabelPoint returns an interior anchor candidate: the
// centroid when it falls inside the shape, otherwise the pole of
// inaccessibility. Concave shapes (a bent river arm) are the case
// where the centroid escapes.
func PolygonLabelPoint(geometry orb.Geometry) orb.Point {
	center, _ := planar.CentroidArea(geometry)
	switch typedGeometry := geometry.(type) {
	case orb.Polygon:
		if !planar.PolygonContains(typedGeometry, center) {
			point := venise_geo.Polylabel(convertToVenisePolygon(typedGeometry), polylabelPrecision, false)
			return orb.Point(point)
		}
	case orb.MultiPolygon:
		if !planar.MultiPolygonContains(typedGeometry, center) {
			if len(typedGeometry) < 1 {
				break
			}
			bestPoly, err := LargestPolygon(typedGeometry)
			if err != nil {
				break
			}
			point := venise_geo.Polylabel(convertToVenisePolygon(bestPoly), polylabelPrecision, false)
			return orb.Point(point)
		}
	}
	return center
}
