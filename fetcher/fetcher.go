// Package fetcher pulls named water bodies from overpass and writes
// them out as WKT files, one river per file, ready for labeling.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	orb_wkt "github.com/paulmach/orb/encoding/wkt"
	orb_geo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/osm/osmgeojson"
	"github.com/sirupsen/logrus"

	"github.com/cartolab/riverlabel/overpass"
)

// River is one named water body: every fetched polygon carrying the
// same name merged into a single geometry.
type River struct {
	Name     string
	Geometry orb.MultiPolygon
	AreaM2   float64
}

type Fetcher struct {
	logger *logrus.Logger
	config Config
	cli    *overpass.Client
}

func NewFetcher(logger *logrus.Logger, config Config, cli *overpass.Client) (*Fetcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if cli == nil {
		return nil, errors.New("no overpass client given")
	}
	return &Fetcher{
		logger: logger,
		config: config,
		cli:    cli,
	}, nil
}

// FetchArea pulls water geometry within the area's bound, keeps named
// rivers whose center lies inside the area, and merges same-named
// pieces.
func (f *Fetcher) FetchArea(ctx context.Context, area *geojson.Feature) ([]River, error) {
	osm_data, err := f.cli.GetWaterBodies(ctx, area.Geometry.Bound())
	if err != nil {
		return nil, fmt.Errorf("failed to query overpass: %w", err)
	}

	fc, err := osmgeojson.Convert(osm_data)
	if err != nil {
		return nil, fmt.Errorf("error converting osm to geojson: %w", err)
	}

	return f.collectRivers(fc, areaContains(area)), nil
}

func areaContains(area *geojson.Feature) func(orb.Point) bool {
	switch geometry := area.Geometry.(type) {
	case orb.Polygon:
		return func(p orb.Point) bool {
			return planar.PolygonContains(geometry, p)
		}
	case orb.MultiPolygon:
		return func(p orb.Point) bool {
			return planar.MultiPolygonContains(geometry, p)
		}
	}
	return func(orb.Point) bool { return true }
}

func (f *Fetcher) collectRivers(fc *geojson.FeatureCollection, contains func(orb.Point) bool) []River {
	grouped := map[string]orb.MultiPolygon{}

	for _, feature := range fc.Features {
		overpass.AdjustFeatureProperties(feature)

		name, _ := feature.Properties["name"].(string)
		if name == "" {
			f.logger.Debugf("skipping unnamed water feature")
			continue
		}
		if !f.config.WantName(name) {
			f.logger.Debugf("skipping water feature '%s': not in name filter", name)
			continue
		}

		var polygons orb.MultiPolygon
		switch geometry := feature.Geometry.(type) {
		case orb.Polygon:
			polygons = orb.MultiPolygon{geometry}
		case orb.MultiPolygon:
			polygons = geometry
		default:
			// unclosed ways convert to linestrings. Not a body.
			continue
		}

		center, _ := planar.CentroidArea(polygons)
		if !contains(center) {
			f.logger.Debugf("skipping water feature '%s': outside area", name)
			continue
		}

		grouped[name] = append(grouped[name], polygons...)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	rivers := make([]River, 0, len(names))
	for _, name := range names {
		geometry := grouped[name]

		areaM2 := orb_geo.Area(geometry)
		if areaM2 < f.config.MinAreaM2 {
			f.logger.Debugf("skipping river '%s': area %.0f m2 below minimum", name, areaM2)
			continue
		}
		if f.config.MaxAreaM2 > 0 && areaM2 > f.config.MaxAreaM2 {
			f.logger.Debugf("skipping river '%s': area %.0f m2 above maximum", name, areaM2)
			continue
		}

		rivers = append(rivers, River{
			Name:     name,
			Geometry: geometry,
			AreaM2:   areaM2,
		})
	}

	return rivers
}

// WriteRivers writes one WKT file per river into the output dir.
// Returns the number of files written.
func (f *Fetcher) WriteRivers(rivers []River) (int, error) {
	if err := os.MkdirAll(f.config.OutputDir, 0o755); err != nil {
		return 0, fmt.Errorf("cannot create output dir: %w", err)
	}

	seen := map[string]int{}
	written := 0

	for _, river := range rivers {
		slug := slugify(river.Name)
		seen[slug]++
		if n := seen[slug]; n > 1 {
			slug = fmt.Sprintf("%s_%d", slug, n)
		}

		path := filepath.Join(f.config.OutputDir, slug+".wkt")
		record := orb_wkt.MarshalString(river.Geometry)

		if err := os.WriteFile(path, []byte(record+"\n"), 0o644); err != nil {
			return written, fmt.Errorf("cannot write '%s': %w", path, err)
		}

		f.logger.Infof("FETCHER: wrote %s (%.0f m2)", path, river.AreaM2)
		written++
	}

	return written, nil
}

func slugify(name string) string {
	var b strings.Builder

	lastUnderscore := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	s := strings.TrimSuffix(b.String(), "_")
	if s == "" {
		return "river"
	}
	return s
}
