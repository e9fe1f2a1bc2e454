package choropleth

import (
	"fmt"

	"github.com/sfomuseum/go-sfomuseum-spots/colormap"
	"github.com/sfomuseum/go-sfomuseum-spots/frame"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// COLOR_INDEX is the property used to record the palette index assigned to a feature.
const COLOR_INDEX string = "__colorIndex"

// FILL is the property used to record the fill colour assigned to a feature, as a "#rrggbb" string.
const FILL string = "choropleth:fill"

// Annotate returns a copy of the FeatureCollection in 'f' with COLOR_INDEX and FILL properties assigned
// to each feature that has a colour in 'a'. All other properties, and their order, are left untouched.
func Annotate(f *frame.Frame, a *Assignment) ([]byte, error) {

	if len(a.Indices) != f.Len() {
		return nil, fmt.Errorf("Assignment does not match frame, expected %d features but got %d", f.Len(), len(a.Indices))
	}

	body := f.Body

	for i, idx := range a.Indices {

		if idx == -1 {
			continue
		}

		props_path := fmt.Sprintf("features.%d.properties", i)

		var err error

		if !gjson.GetBytes(body, props_path).IsObject() {

			body, err = sjson.SetRawBytes(body, props_path, []byte("{}"))

			if err != nil {
				return nil, fmt.Errorf("Failed to assign properties for feature %d, %w", i, err)
			}
		}

		body, err = sjson.SetBytes(body, props_path+"."+COLOR_INDEX, idx)

		if err != nil {
			return nil, fmt.Errorf("Failed to assign %s for feature %d, %w", COLOR_INDEX, i, err)
		}

		body, err = sjson.SetBytes(body, props_path+"."+FILL, colormap.Hex(a.Colors[i]))

		if err != nil {
			return nil, fmt.Errorf("Failed to assign %s for feature %d, %w", FILL, i, err)
		}
	}

	return body, nil
}
