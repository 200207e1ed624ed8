package geo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeofencesFileEntry is one named region in a fences file: a json
// array of {"name": ..., "path": [[lon, lat], ...]} objects.
type GeofencesFileEntry struct {
	Name string         `json:"name"`
	Path orb.LineString `json:"path"`
}

// LoadGeofencesFile reads named regions that scope a fetch. An open
// path is closed implicitly.
func LoadGeofencesFile(filename string) ([]*geojson.Feature, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open geofences file: %w", err)
	}
	defer f.Close()

	var geofences []GeofencesFileEntry

	decoder := json.NewDecoder(f)
	if err := decoder.Decode(&geofences); err != nil {
		return nil, fmt.Errorf("'%s' cannot be loaded: bad json: %v", filename, err)
	}

	features := make([]*geojson.Feature, 0, len(geofences))

	for _, geofence := range geofences {
		if geofence.Name == "" {
			return nil, fmt.Errorf("geofence in '%s' is missing name", filename)
		}

		l := len(geofence.Path)
		if l < 2 {
			return nil, fmt.Errorf("geofence '%s' in '%s' has bad path", geofence.Name, filename)
		}

		if geofence.Path[0] != geofence.Path[l-1] {
			geofence.Path = append(geofence.Path, geofence.Path[0])
		}

		feature := geojson.NewFeature(
			orb.Polygon(
				[]orb.Ring{
					orb.Ring(geofence.Path),
				},
			),
		)
		feature.Properties["name"] = geofence.Name
		features = append(features, feature)
	}

	return features, nil
}
