// Package spot provides methods for reading and updating properties of raw (JSON-encoded) spot records.
package spot

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const NAME string = "name"

const THUMBNAIL string = "thumb"

const MEDIA string = "media"

const MEDIA_URL string = "url"

// UNNAMED is the label used for spots without a (string) name.
const UNNAMED string = "Unnamed"

// Name returns the display name of 'body' or UNNAMED.
func Name(body []byte) string {

	rsp := gjson.GetBytes(body, NAME)

	if rsp.Type != gjson.String || rsp.String() == "" {
		return UNNAMED
	}

	return rsp.String()
}

// Id returns the string value of the "id" property of 'body', which may be encoded as a string or a number.
func Id(body []byte) string {

	rsp := gjson.GetBytes(body, "id")

	if !rsp.Exists() || rsp.Type == gjson.Null {
		return ""
	}

	return rsp.String()
}

// Thumbnail returns the raw "thumb" property of 'body'.
func Thumbnail(body []byte) gjson.Result {
	return gjson.GetBytes(body, THUMBNAIL)
}

// Media returns the raw "media" property of 'body'.
func Media(body []byte) gjson.Result {
	return gjson.GetBytes(body, MEDIA)
}

// MediaURL returns the "url" property of a single media entry and a boolean value indicating whether
// it is a non-empty string.
func MediaURL(m gjson.Result) (string, bool) {

	if !m.IsObject() {
		return "", false
	}

	rsp := m.Get(MEDIA_URL)

	if rsp.Type != gjson.String || rsp.String() == "" {
		return "", false
	}

	return rsp.String(), true
}

// IsFalsy reports whether 'r' is absent or an "empty" JSON value: null, false, 0, "", [] or {}.
func IsFalsy(r gjson.Result) bool {

	if !r.Exists() {
		return true
	}

	switch r.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return r.Float() == 0
	case gjson.String:
		return r.String() == ""
	case gjson.JSON:

		empty := true

		r.ForEach(func(k gjson.Result, v gjson.Result) bool {
			empty = false
			return false
		})

		return empty
	default:
		return false
	}
}

// SetMedia replaces the "media" property of 'body' with 'media', preserving the order of 'media'.
func SetMedia(body []byte, media []gjson.Result) ([]byte, error) {

	raw := make([]string, len(media))

	for i, m := range media {
		raw[i] = m.Raw
	}

	enc_media := fmt.Sprintf("[%s]", strings.Join(raw, ","))

	new_body, err := sjson.SetRawBytes(body, MEDIA, []byte(enc_media))

	if err != nil {
		return nil, fmt.Errorf("Failed to assign media property, %w", err)
	}

	return new_body, nil
}
