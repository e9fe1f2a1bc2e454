// Package seed loads cleaned spot records in to a SQLite database, or a SQL script for one, used by the
// travel website's API.
package seed

import (
	"github.com/sfomuseum/go-sfomuseum-spots/spot"
	"github.com/tidwall/gjson"
)

// Row is a single spot record flattened to the columns of the "spots" table.
type Row struct {
	Id          string
	Name        string
	Category    string
	Type        string
	Lat         gjson.Result
	Lng         gjson.Result
	Address     string
	Hours       string
	Description string
	Thumbnail   string
	Media       []MediaRow
}

// MediaRow is a single media entry flattened to the columns of the "media" table.
type MediaRow struct {
	Type string
	URL  string
}

// NewRow derives a `Row` from the raw spot record 'body'. Missing or "empty" string values are assigned
// the empty string.
func NewRow(body []byte) *Row {

	r := &Row{
		Id:          text(gjson.GetBytes(body, "id")),
		Name:        text(gjson.GetBytes(body, spot.NAME)),
		Category:    text(gjson.GetBytes(body, "category")),
		Type:        text(gjson.GetBytes(body, "type")),
		Lat:         gjson.GetBytes(body, "lat"),
		Lng:         gjson.GetBytes(body, "lng"),
		Address:     text(gjson.GetBytes(body, "address")),
		Hours:       text(gjson.GetBytes(body, "hours")),
		Description: text(gjson.GetBytes(body, "desc")),
		Thumbnail:   text(spot.Thumbnail(body)),
		Media:       make([]MediaRow, 0),
	}

	media := spot.Media(body)

	if media.IsArray() {

		for _, m := range media.Array() {

			r.Media = append(r.Media, MediaRow{
				Type: text(m.Get("type")),
				URL:  text(m.Get(spot.MEDIA_URL)),
			})
		}
	}

	return r
}

// Coordinate returns the numeric value of 'r' and a boolean value indicating whether it is a number.
func Coordinate(r gjson.Result) (float64, bool) {

	if r.Type != gjson.Number {
		return 0, false
	}

	return r.Float(), true
}

func text(r gjson.Result) string {

	if spot.IsFalsy(r) {
		return ""
	}

	return r.String()
}
