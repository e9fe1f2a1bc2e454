package seed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/tidwall/gjson"
	"github.com/whosonfirst/go-writer/v3"
)

// WriteSQLOptions defines configuration options for generating a SQL seed script.
type WriteSQLOptions struct {
	// An optional `clockwork.Clock` used to stamp the script. Defaults to the real clock.
	Clock clockwork.Clock
	// A label describing where the spot records came from. Defaults to "spots.json".
	Source string
}

// WriteSQL writes a SQL script which inserts 'spots', and then all of their media entries, to 'wr'.
func WriteSQL(wr io.Writer, spots [][]byte, opts *WriteSQLOptions) (*Counts, error) {

	clock := opts.Clock

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	source := opts.Source

	if source == "" {
		source = "spots.json"
	}

	spot_statements := make([]string, 0)
	media_statements := make([]string, 0)

	for _, body := range spots {

		r := NewRow(body)

		stmt := fmt.Sprintf("INSERT OR IGNORE INTO spots (id, name, category, type, lat, lng, address, hours, description, thumbnail) \nVALUES ('%s', '%s', '%s', '%s', %s, %s, '%s', '%s', '%s', '%s');",
			quote(r.Id), quote(r.Name), quote(r.Category), quote(r.Type),
			number(r.Lat), number(r.Lng),
			quote(r.Address), quote(r.Hours), quote(r.Description), quote(r.Thumbnail))

		spot_statements = append(spot_statements, stmt)

		for _, m := range r.Media {
			stmt := fmt.Sprintf("INSERT INTO media (type, url, spot_id) VALUES ('%s', '%s', '%s');", quote(m.Type), quote(m.URL), quote(r.Id))
			media_statements = append(media_statements, stmt)
		}
	}

	lines := []string{
		fmt.Sprintf("-- Seed data from %s", source),
		fmt.Sprintf("-- Generated at: %s", clock.Now().UTC().Format("2006-01-02T15:04:05.000Z")),
		"",
	}

	lines = append(lines, spot_statements...)
	lines = append(lines, "", "-- Media")
	lines = append(lines, media_statements...)

	buf := bufio.NewWriter(wr)

	_, err := buf.WriteString(strings.Join(lines, "\n"))

	if err != nil {
		return nil, fmt.Errorf("Failed to write SQL, %w", err)
	}

	err = buf.Flush()

	if err != nil {
		return nil, fmt.Errorf("Failed to flush SQL, %w", err)
	}

	counts := &Counts{
		Spots: len(spot_statements),
		Media: len(media_statements),
	}

	return counts, nil
}

// PublishSQL writes the SQL script for 'spots' to 'key' using 'wr'.
func PublishSQL(ctx context.Context, wr writer.Writer, key string, spots [][]byte, opts *WriteSQLOptions) (*Counts, error) {

	var sb strings.Builder

	counts, err := WriteSQL(&sb, spots, opts)

	if err != nil {
		return nil, err
	}

	_, err = wr.Write(ctx, key, strings.NewReader(sb.String()))

	if err != nil {
		return nil, fmt.Errorf("Failed to write %s, %w", key, err)
	}

	return counts, nil
}

func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func number(r gjson.Result) string {

	if r.Type != gjson.Number {
		return "NULL"
	}

	return r.Raw
}
