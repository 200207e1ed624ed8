package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func square(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{minX, minY},
			{maxX, minY},
			{maxX, maxY},
			{minX, maxY},
			{minX, minY},
		},
	}
}

// uShape is a 10x10 square with a 4-wide notch cut from the top down
// to y=2. Its centroid lands inside the notch, i.e. outside the
// polygon.
func uShape() orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{0, 0},
			{10, 0},
			{10, 10},
			{7, 10},
			{7, 2},
			{3, 2},
			{3, 10},
			{0, 10},
			{0, 0},
		},
	}
}

func TestLargestPolygonEmpty(t *testing.T) {
	_, err := LargestPolygon(orb.MultiPolygon{})
	if !errors.Is(err, ErrEmptyGeometry) {
		t.Fatalf("expected ErrEmptyGeometry, got %v", err)
	}
}

func TestLargestPolygon(t *testing.T) {
	small := square(0, 0, 2, 2)
	big := square(10, 10, 30, 30)
	medium := square(-5, -5, 0, 0)

	tests := []struct {
		name string
		mp   orb.MultiPolygon
		want orb.Polygon
	}{
		{"single", orb.MultiPolygon{small}, small},
		{"biggest-first", orb.MultiPolygon{big, small, medium}, big},
		{"biggest-last", orb.MultiPolygon{small, medium, big}, big},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LargestPolygon(tt.mp)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonLabelPointConvex(t *testing.T) {
	poly := square(0, 0, 10, 10)

	got := PolygonLabelPoint(poly)

	if math.Abs(got[0]-5) > 1e-9 || math.Abs(got[1]-5) > 1e-9 {
		t.Errorf("convex polygon anchor should be the centroid, got %v", got)
	}
}

func TestPolygonLabelPointConcaveFallback(t *testing.T) {
	poly := uShape()

	centroid, _ := planar.CentroidArea(poly)
	if planar.PolygonContains(poly, centroid) {
		t.Fatalf("test shape is broken: centroid %v should fall outside", centroid)
	}

	got := PolygonLabelPoint(poly)

	if !planar.PolygonContains(poly, got) {
		t.Errorf("fallback anchor %v is not inside the polygon", got)
	}
}

func TestPolygonLabelPointMultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{square(0, 0, 4, 4), square(10, 0, 30, 20)}

	got := PolygonLabelPoint(mp)

	if !planar.MultiPolygonContains(mp, got) {
		t.Errorf("anchor %v is not inside the multipolygon", got)
	}
}

func TestGeometrySupported(t *testing.T) {
	if !GeometrySupported(square(0, 0, 1, 1)) {
		t.Error("polygon should be supported")
	}
	if !GeometrySupported(orb.MultiPolygon{square(0, 0, 1, 1)}) {
		t.Error("multipolygon should be supported")
	}
	if GeometrySupported(orb.Point{1, 1}) {
		t.Error("point should not be supported")
	}
	if GeometrySupported(orb.LineString{{0, 0}, {1, 1}}) {
		t.Error("linestring should not be supported")
	}
}
