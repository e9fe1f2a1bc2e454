package clean

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/whosonfirst/go-reader/v2"
	"github.com/whosonfirst/go-writer/v3"
)

// INDENT is the string used to indent each level of the encoded spot records.
const INDENT string = "  "

// LoadSpots parses 'body' as a JSON array of spot records (objects) and returns the raw bytes for each record.
// The body must be valid UTF-8 and may not contain unpaired surrogate escapes. Objects with repeated keys are
// collapsed so that each key appears once, at the position of its first occurrence, with its last value.
func LoadSpots(body []byte) ([][]byte, error) {

	if !utf8.Valid(body) {
		return nil, fmt.Errorf("Failed to parse spots, invalid UTF-8")
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("Failed to parse spots, invalid JSON")
	}

	rsp := gjson.ParseBytes(body)

	if !rsp.IsArray() {
		return nil, fmt.Errorf("Failed to parse spots, expected a list of records")
	}

	spots := make([][]byte, 0)

	var err error

	rsp.ForEach(func(_ gjson.Result, r gjson.Result) bool {

		if !r.IsObject() {
			err = fmt.Errorf("Invalid spot record at offset %d, expected an object", len(spots))
			return false
		}

		err = validateStrings(r)

		if err != nil {
			err = fmt.Errorf("Invalid spot record at offset %d, %w", len(spots), err)
			return false
		}

		raw, _ := collapseKeys(r)

		spots = append(spots, []byte(raw))
		return true
	})

	if err != nil {
		return nil, err
	}

	return spots, nil
}

// ReadSpots reads and parses the list of spot records stored at 'path' in 'r'.
func ReadSpots(ctx context.Context, r reader.Reader, path string) ([][]byte, error) {

	fh, err := r.Read(ctx, path)

	if err != nil {
		return nil, fmt.Errorf("Failed to open %s, %w", path, err)
	}

	defer fh.Close()

	body, err := io.ReadAll(fh)

	if err != nil {
		return nil, fmt.Errorf("Failed to read %s, %w", path, err)
	}

	spots, err := LoadSpots(body)

	if err != nil {
		return nil, fmt.Errorf("Failed to load %s, %w", path, err)
	}

	return spots, nil
}

// MarshalSpots encodes 'spots' as a UTF-8 JSON array, one indented line per value. Non-ASCII characters
// are written literally (escape sequences in the source records are decoded), object keys retain their
// original order and numbers are copied verbatim. There is no trailing newline.
func MarshalSpots(spots [][]byte) ([]byte, error) {

	var buf bytes.Buffer

	if len(spots) == 0 {
		buf.WriteString("[]")
		return buf.Bytes(), nil
	}

	buf.WriteString("[")

	for i, body := range spots {

		if !utf8.Valid(body) || !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("Failed to encode spot at offset %d, invalid JSON", i)
		}

		r := gjson.ParseBytes(body)

		err := validateStrings(r)

		if err != nil {
			return nil, fmt.Errorf("Failed to encode spot at offset %d, %w", i, err)
		}

		if i > 0 {
			buf.WriteString(",")
		}

		buf.WriteString("\n")
		buf.WriteString(INDENT)

		appendIndented(&buf, r, 1)
	}

	buf.WriteString("\n]")
	return buf.Bytes(), nil
}

// WriteSpots encodes 'spots' and writes them to 'key' using 'wr'.
func WriteSpots(ctx context.Context, wr writer.Writer, key string, spots [][]byte) (int64, error) {

	body, err := MarshalSpots(spots)

	if err != nil {
		return 0, err
	}

	n, err := wr.Write(ctx, key, bytes.NewReader(body))

	if err != nil {
		return n, fmt.Errorf("Failed to write %s, %w", key, err)
	}

	return n, nil
}

func appendIndented(buf *bytes.Buffer, r gjson.Result, depth int) {

	switch {
	case r.IsObject(), r.IsArray():

		start, end := "[", "]"

		if r.IsObject() {
			start, end = "{", "}"
		}

		prefix := strings.Repeat(INDENT, depth+1)
		count := 0

		buf.WriteString(start)

		r.ForEach(func(k gjson.Result, v gjson.Result) bool {

			if count > 0 {
				buf.WriteString(",")
			}

			buf.WriteString("\n")
			buf.WriteString(prefix)

			if r.IsObject() {
				appendString(buf, k.String())
				buf.WriteString(": ")
			}

			appendIndented(buf, v, depth+1)

			count += 1
			return true
		})

		if count > 0 {
			buf.WriteString("\n")
			buf.WriteString(strings.Repeat(INDENT, depth))
		}

		buf.WriteString(end)

	case r.Type == gjson.String:
		appendString(buf, r.String())
	default:
		buf.WriteString(r.Raw)
	}
}

func appendString(buf *bytes.Buffer, s string) {

	buf.WriteByte('"')

	for _, c := range s {

		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:

			if c < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, c)
				continue
			}

			buf.WriteRune(c)
		}
	}

	buf.WriteByte('"')
}

// validateStrings returns an error if any key or string value in 'r' contains a \u escape for an
// unpaired UTF-16 surrogate.
func validateStrings(r gjson.Result) error {

	var err error

	switch {
	case r.IsObject():

		r.ForEach(func(k gjson.Result, v gjson.Result) bool {

			err = checkEscapes(k.Raw)

			if err == nil {
				err = validateStrings(v)
			}

			return err == nil
		})

	case r.IsArray():

		r.ForEach(func(_ gjson.Result, v gjson.Result) bool {
			err = validateStrings(v)
			return err == nil
		})

	case r.Type == gjson.String:
		err = checkEscapes(r.Raw)
	}

	return err
}

func checkEscapes(raw string) error {

	// Returns the surrogate encoded by the \u escape at offset i, or -1
	surrogate := func(i int) int {

		if i+6 > len(raw) || raw[i] != '\\' || raw[i+1] != 'u' {
			return -1
		}

		v, err := strconv.ParseUint(raw[i+2:i+6], 16, 16)

		if err != nil || v < 0xD800 || v > 0xDFFF {
			return -1
		}

		return int(v)
	}

	for i := 0; i < len(raw); i++ {

		if raw[i] != '\\' {
			continue
		}

		if i+1 < len(raw) && raw[i+1] != 'u' {
			i += 1
			continue
		}

		high := surrogate(i)

		if high == -1 {
			i += 5
			continue
		}

		if high > 0xDBFF {
			return fmt.Errorf("Unpaired surrogate escape %s", raw[i:i+6])
		}

		low := surrogate(i + 6)

		if low < 0xDC00 {
			return fmt.Errorf("Unpaired surrogate escape %s", raw[i:i+6])
		}

		i += 11
	}

	return nil
}

// collapseKeys returns the raw JSON for 'r' with repeated object keys reduced to a single entry, at the
// position of the first occurrence, holding the last value. The boolean is false if 'r' was left unchanged.
func collapseKeys(r gjson.Result) (string, bool) {

	switch {
	case r.IsObject():

		keys := make([]string, 0)
		values := make(map[string]string)
		changed := false

		r.ForEach(func(k gjson.Result, v gjson.Result) bool {

			key := k.String()
			raw, child_changed := collapseKeys(v)

			if child_changed {
				changed = true
			}

			_, exists := values[key]

			if exists {
				changed = true
			} else {
				keys = append(keys, key)
			}

			values[key] = raw
			return true
		})

		if !changed {
			return r.Raw, false
		}

		var buf bytes.Buffer
		buf.WriteString("{")

		for i, key := range keys {

			if i > 0 {
				buf.WriteString(",")
			}

			appendString(&buf, key)
			buf.WriteString(":")
			buf.WriteString(values[key])
		}

		buf.WriteString("}")
		return buf.String(), true

	case r.IsArray():

		items := make([]string, 0)
		changed := false

		r.ForEach(func(_ gjson.Result, v gjson.Result) bool {

			raw, child_changed := collapseKeys(v)

			if child_changed {
				changed = true
			}

			items = append(items, raw)
			return true
		})

		if !changed {
			return r.Raw, false
		}

		return "[" + strings.Join(items, ",") + "]", true

	default:
		return r.Raw, false
	}
}
