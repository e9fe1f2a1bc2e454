// Package frame provides a tabular view of a GeoJSON FeatureCollection: one row per feature, one column per
// property name in the order that property names are first encountered.
package frame

import (
	"context"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
	"github.com/whosonfirst/go-reader/v2"
)

// DEFAULT_COLUMN is the name of the column used to colour administrative units (Vietnamese communes and wards).
const DEFAULT_COLUMN string = "TEN_XA"

// Frame is a tabular view of a GeoJSON FeatureCollection.
type Frame struct {
	// The original (encoded) FeatureCollection.
	Body []byte
	// The decoded FeatureCollection.
	Collection *geojson.FeatureCollection
	// Property names in order of first appearance.
	Columns []string
	rows    []gjson.Result
}

// ReadFrame reads the GeoJSON FeatureCollection stored at 'path' in 'r'.
func ReadFrame(ctx context.Context, r reader.Reader, path string) (*Frame, error) {

	fh, err := r.Read(ctx, path)

	if err != nil {
		return nil, fmt.Errorf("Failed to open %s, %w", path, err)
	}

	defer fh.Close()

	body, err := io.ReadAll(fh)

	if err != nil {
		return nil, fmt.Errorf("Failed to read %s, %w", path, err)
	}

	f, err := LoadFrame(body)

	if err != nil {
		return nil, fmt.Errorf("Failed to load %s, %w", path, err)
	}

	return f, nil
}

// LoadFrame parses 'body' as a GeoJSON FeatureCollection.
func LoadFrame(body []byte) (*Frame, error) {

	fc, err := geojson.UnmarshalFeatureCollection(body)

	if err != nil {
		return nil, fmt.Errorf("Failed to unmarshal feature collection, %w", err)
	}

	rows := gjson.GetBytes(body, "features").Array()

	if len(rows) != len(fc.Features) {
		return nil, fmt.Errorf("Feature count mismatch, expected %d but found %d", len(fc.Features), len(rows))
	}

	columns := make([]string, 0)
	seen := make(map[string]bool)

	for _, row := range rows {

		row.Get("properties").ForEach(func(k gjson.Result, _ gjson.Result) bool {

			name := k.String()

			if !seen[name] {
				columns = append(columns, name)
				seen[name] = true
			}

			return true
		})
	}

	f := &Frame{
		Body:       body,
		Collection: fc,
		Columns:    columns,
		rows:       rows,
	}

	return f, nil
}

// Len returns the number of features (rows) in 'f'.
func (f *Frame) Len() int {
	return len(f.Collection.Features)
}

// HasColumn reports whether any feature in 'f' has a property named 'name'.
func (f *Frame) HasColumn(name string) bool {

	for _, c := range f.Columns {
		if c == name {
			return true
		}
	}

	return false
}

// ChooseColumn returns 'preferred' if it is a column in 'f', otherwise the first column. If 'f' has no
// columns at all the empty string is returned.
func (f *Frame) ChooseColumn(preferred string) string {

	if preferred != "" && f.HasColumn(preferred) {
		return preferred
	}

	if len(f.Columns) == 0 {
		return ""
	}

	return f.Columns[0]
}

// Values returns the raw value of property 'name' for each feature in 'f'. Features without the property
// yield a zero-value `gjson.Result` (for which Exists() is false).
func (f *Frame) Values(name string) []gjson.Result {

	values := make([]gjson.Result, len(f.rows))

	for i, row := range f.rows {

		row.Get("properties").ForEach(func(k gjson.Result, v gjson.Result) bool {

			if k.String() == name {
				values[i] = v
				return false
			}

			return true
		})
	}

	return values
}

// Geometries returns the geometry of each feature in 'f'; features without a geometry yield nil.
func (f *Frame) Geometries() []orb.Geometry {

	geoms := make([]orb.Geometry, len(f.Collection.Features))

	for i, feature := range f.Collection.Features {
		geoms[i] = feature.Geometry
	}

	return geoms
}
