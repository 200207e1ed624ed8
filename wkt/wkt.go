// Package wkt turns raw well-known-text input into polygon sets. The
// upstream extracts ship one or more POLYGON / MULTIPOLYGON records
// concatenated in a single file, which is not valid WKT as a whole,
// so records are split out first and parsed one by one.
package wkt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	orb_wkt "github.com/paulmach/orb/encoding/wkt"

	"github.com/cartolab/riverlabel/geo"
)

const fragmentDisplayLimit = 64

// MalformedGeometryError reports a record that could not be parsed,
// keeping the offending fragment for the caller's error message.
type MalformedGeometryError struct {
	Fragment string
	Err      error
}

func (e *MalformedGeometryError) Error() string {
	return fmt.Sprintf("malformed geometry %q: %v", e.Fragment, e.Err)
}

func (e *MalformedGeometryError) Unwrap() error {
	return e.Err
}

func malformed(fragment string, err error) *MalformedGeometryError {
	fragment = strings.Join(strings.Fields(fragment), " ")
	if len(fragment) > fragmentDisplayLimit {
		fragment = fragment[:fragmentDisplayLimit] + "..."
	}
	return &MalformedGeometryError{Fragment: fragment, Err: err}
}

// recordStarts finds the offsets of top-level WKT keywords. A
// MULTIPOLYGON contains POLYGON as a substring, so a match preceded
// by MULTI claims the whole keyword instead of splitting it in two.
// POINT and LINESTRING records are picked up as well so they reject
// as non-polygonal instead of disappearing as empty input.
func recordStarts(upper string) []int {
	var starts []int
	for _, keyword := range []string{"POLYGON", "POINT", "LINESTRING"} {
		for i := 0; ; {
			j := strings.Index(upper[i:], keyword)
			if j < 0 {
				break
			}
			at := i + j
			start := at
			if at >= 5 && upper[at-5:at] == "MULTI" {
				start = at - 5
			}
			starts = append(starts, start)
			i = at + len(keyword)
		}
	}
	sort.Ints(starts)
	return starts
}

// Parse reads every polygon record from raw and flattens them into
// one multipolygon. Input with no geometry records at all yields
// geo.ErrEmptyGeometry; a record that will not parse, or parses to
// something other than polygons, yields a *MalformedGeometryError
// carrying the fragment.
func Parse(raw string) (orb.MultiPolygon, error) {
	upper := strings.ToUpper(raw)

	starts := recordStarts(upper)
	if len(starts) == 0 {
		return nil, geo.ErrEmptyGeometry
	}

	var mp orb.MultiPolygon
	for idx, start := range starts {
		end := len(upper)
		if idx+1 < len(starts) {
			end = starts[idx+1]
		}

		record := strings.TrimSpace(upper[start:end])

		geometry, err := orb_wkt.Unmarshal(record)
		if err != nil {
			return nil, malformed(record, err)
		}

		switch typed := geometry.(type) {
		case orb.Polygon:
			if len(typed) > 0 {
				mp = append(mp, typed)
			}
		case orb.MultiPolygon:
			mp = append(mp, typed...)
		default:
			return nil, malformed(record, fmt.Errorf("unsupported geometry type %s", geometry.GeoJSONType()))
		}
	}

	if len(mp) == 0 {
		return nil, geo.ErrEmptyGeometry
	}

	return mp, nil
}
