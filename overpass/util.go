package overpass

import (
	"strconv"

	"github.com/paulmach/orb/geojson"
)

// AdjustFeatureProperties flattens the tag map osmgeojson leaves on a
// feature into top-level properties, promotes the name tag, and
// normalizes the id to an int64. Existing top-level properties win over
// tags of the same key.
func AdjustFeatureProperties(feature *geojson.Feature) {
	props := feature.Properties

	tags := tagMap(props["tags"])

	name, _ := props["name"].(string)
	if name == "" {
		name, _ = tags["name"].(string)
	}
	if name != "" {
		props["name"] = name
	}

	id, validId := normalizeId(props["id"])

	// meta and relations arrive as empty object and array. tags get
	// flattened below instead.
	delete(props, "meta")
	delete(props, "relations")
	delete(props, "tags")

	for k, v := range tags {
		if _, ok := props[k]; ok {
			continue
		}
		props[k] = v
	}

	if validId {
		props["id"] = id
	}
}

func tagMap(v any) map[string]any {
	switch tags := v.(type) {
	case map[string]any:
		return tags
	case map[string]string:
		m := make(map[string]any, len(tags))
		for k, s := range tags {
			m[k] = s
		}
		return m
	}
	return nil
}

func normalizeId(v any) (int64, bool) {
	switch id := v.(type) {
	case string:
		idInt, err := strconv.ParseInt(id, 10, 64)
		return idInt, err == nil
	case int:
		return int64(id), true
	case uint:
		return int64(id), true
	case int64:
		return id, true
	case uint64:
		return int64(id), true
	case float64:
		return int64(id), true
	}
	return 0, false
}
