package clean

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sfomuseum/go-sfomuseum-spots/liveness"
	"github.com/sfomuseum/go-sfomuseum-spots/spot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func alwaysAlive() liveness.Checker {
	return liveness.CheckerFunc(func(ctx context.Context, uri string) bool {
		return true
	})
}

// deadChecker reports every URL containing "dead" as unreachable and records each probe.
type deadChecker struct {
	probed []string
}

func (c *deadChecker) IsAlive(ctx context.Context, uri string) bool {
	c.probed = append(c.probed, uri)
	return !strings.Contains(uri, "dead")
}

func filterOptions(c liveness.Checker) *FilterOptions {
	return &FilterOptions{
		Checker: c,
		Logger:  quietLogger(),
	}
}

func mustLoad(t *testing.T, body string) [][]byte {
	t.Helper()

	spots, err := LoadSpots([]byte(body))
	require.NoError(t, err)

	return spots
}

func TestFilterSpotNoThumbnail(t *testing.T) {

	ctx := context.Background()

	bodies := []string{
		`{"name":"A","media":[{"url":"http://x/a.jpg"}]}`,
		`{"name":"A","thumb":"","media":[{"url":"http://x/a.jpg"}]}`,
		`{"name":"A","thumb":null,"media":[{"url":"http://x/a.jpg"}]}`,
	}

	for _, body := range bodies {

		c := new(deadChecker)

		new_body, reason, probes, err := FilterSpot(ctx, c, []byte(body))
		require.NoError(t, err)

		assert.Nil(t, new_body)
		assert.Equal(t, NO_THUMBNAIL, reason)
		assert.Equal(t, 0, probes.Total)
		assert.Empty(t, c.probed, "thumbnail checks should never reach the network")
	}
}

func TestFilterSpotBadThumbnail(t *testing.T) {

	ctx := context.Background()

	bodies := []string{
		`{"name":"A","thumb":"http://x/dead.jpg","media":[{"url":"http://x/a.jpg"}]}`,
		`{"name":"A","thumb":42,"media":[{"url":"http://x/a.jpg"}]}`,
	}

	for _, body := range bodies {

		c := new(deadChecker)

		_, reason, _, err := FilterSpot(ctx, c, []byte(body))
		require.NoError(t, err)

		assert.Equal(t, BAD_THUMBNAIL, reason, body)

		for _, uri := range c.probed {
			assert.NotEqual(t, "http://x/a.jpg", uri, "media should not be probed after a bad thumbnail")
		}
	}
}

func TestFilterSpotUnsupportedSchemes(t *testing.T) {

	ctx := context.Background()

	body := `{"name":"A","thumb":"ftp://x/a.jpg","media":[{"url":"http://x/a.jpg"}]}`

	_, reason, probes, err := FilterSpot(ctx, liveness.NewHTTPChecker(&liveness.HTTPCheckerOptions{}), []byte(body))
	require.NoError(t, err)

	assert.Equal(t, BAD_THUMBNAIL, reason)
	assert.Equal(t, 0, probes.Total)
	assert.Equal(t, 0, probes.Dead)

	body = `{"name":"A","thumb":"http://x/a.jpg","media":[{"url":"file:///tmp/a.jpg"},{"url":"http://x/b.jpg"},{"url":"x/dead.jpg"}]}`

	c := new(deadChecker)

	new_body, reason, probes, err := FilterSpot(ctx, c, []byte(body))
	require.NoError(t, err)

	assert.Equal(t, KEPT, reason)
	assert.Equal(t, 2, probes.Total)
	assert.Equal(t, 2, probes.Alive)
	assert.Equal(t, 0, probes.Dead)

	// The checker still decides; only requests that would reach the network are tallied
	assert.Len(t, spot.Media(new_body).Array(), 2)
}

func TestFilterSpotNoMedia(t *testing.T) {

	ctx := context.Background()

	bodies := []string{
		`{"name":"A","thumb":"http://x/a.jpg"}`,
		`{"name":"A","thumb":"http://x/a.jpg","media":[]}`,
		`{"name":"A","thumb":"http://x/a.jpg","media":null}`,
		`{"name":"A","thumb":"http://x/a.jpg","media":{"url":"http://x/a.jpg"}}`,
		`{"name":"A","thumb":"http://x/a.jpg","media":"http://x/a.jpg"}`,
	}

	for _, body := range bodies {

		_, reason, _, err := FilterSpot(ctx, new(deadChecker), []byte(body))
		require.NoError(t, err)

		assert.Equal(t, NO_MEDIA, reason, body)
	}
}

func TestFilterSpotNoWorkingMedia(t *testing.T) {

	ctx := context.Background()

	body := `{"name":"A","thumb":"http://x/a.jpg","media":[{"url":"http://x/dead1.jpg"},{"type":"video"},{"url":""},"http://x/b.jpg",{"url":"http://x/dead2.jpg"}]}`

	c := new(deadChecker)

	new_body, reason, probes, err := FilterSpot(ctx, c, []byte(body))
	require.NoError(t, err)

	assert.Nil(t, new_body)
	assert.Equal(t, NO_WORKING_MEDIA, reason)

	// Entries without a usable "url" property are never probed
	assert.Equal(t, []string{"http://x/a.jpg", "http://x/dead1.jpg", "http://x/dead2.jpg"}, c.probed)
	assert.Equal(t, 3, probes.Total)
	assert.Equal(t, 1, probes.Alive)
	assert.Equal(t, 2, probes.Dead)
}

func TestFilterSpotPrunesMedia(t *testing.T) {

	ctx := context.Background()

	body := `{"id":"s1","name":"A","thumb":"http://x/a.jpg","media":[{"type":"image","url":"http://x/1.jpg"},{"type":"image","url":"http://x/dead.jpg"},{"type":"video","url":"http://x/3.mp4"}],"lat":20.95,"lng":107.07}`

	new_body, reason, _, err := FilterSpot(ctx, new(deadChecker), []byte(body))
	require.NoError(t, err)

	assert.Equal(t, KEPT, reason)

	media := spot.Media(new_body).Array()
	require.Len(t, media, 2)

	assert.Equal(t, "http://x/1.jpg", media[0].Get("url").String())
	assert.Equal(t, "image", media[0].Get("type").String())
	assert.Equal(t, "http://x/3.mp4", media[1].Get("url").String())
	assert.Equal(t, "video", media[1].Get("type").String())

	assert.Equal(t, "s1", gjson.GetBytes(new_body, "id").String())
	assert.Equal(t, 107.07, gjson.GetBytes(new_body, "lng").Float())
}

func TestFilterSpotUnchanged(t *testing.T) {

	body := []byte(`{"name":"A","thumb":"http://x/a.jpg","media":[{"url":"http://x/a.jpg"},{"url":"http://x/b.jpg"}]}`)

	new_body, reason, _, err := FilterSpot(context.Background(), alwaysAlive(), body)
	require.NoError(t, err)

	assert.Equal(t, KEPT, reason)
	assert.Equal(t, body, new_body)
}

func TestFilterSpotsCounts(t *testing.T) {

	ctx := context.Background()

	spots := mustLoad(t, `[
		{"name":"no thumb","media":[{"url":"http://x/a.jpg"}]},
		{"name":"empty thumb","thumb":"","media":[{"url":"http://x/a.jpg"}]},
		{"name":"bad thumb","thumb":"http://x/dead.jpg","media":[{"url":"http://x/a.jpg"}]},
		{"name":"relative thumb","thumb":"/img/a.jpg","media":[{"url":"http://x/a.jpg"}]},
		{"name":"no media","thumb":"http://x/a.jpg"},
		{"name":"dead media","thumb":"http://x/a.jpg","media":[{"url":"http://x/dead.jpg"}]},
		{"name":"kept","thumb":"http://x/a.jpg","media":[{"url":"http://x/dead.jpg"},{"url":"http://x/b.jpg"}]},
		{"thumb":"http://x/a.jpg","media":[{"url":"http://x/c.jpg"}]}
	]`)

	c := liveness.CheckerFunc(func(ctx context.Context, uri string) bool {
		return liveness.HasSupportedScheme(uri) && !strings.Contains(uri, "dead")
	})

	results, err := FilterSpots(ctx, filterOptions(c), spots)
	require.NoError(t, err)

	expected := &Counts{
		Total:          8,
		Kept:           2,
		Removed:        6,
		NoThumbnail:    2,
		BadThumbnail:   2,
		NoMedia:        1,
		NoWorkingMedia: 1,
	}

	assert.Equal(t, expected, results.Counts)

	require.Len(t, results.Spots, 2)
	assert.Equal(t, "kept", spot.Name(results.Spots[0]))
	assert.Equal(t, spot.UNNAMED, spot.Name(results.Spots[1]))

	media := spot.Media(results.Spots[0]).Array()
	require.Len(t, media, 1)
	assert.Equal(t, "http://x/b.jpg", media[0].Get("url").String())
}

func TestFilterSpotsSingleReason(t *testing.T) {

	ctx := context.Background()

	tests := []struct {
		body     string
		expected Counts
	}{
		{
			body:     `[{"name":"A","media":[{"url":"http://x/a.jpg"}]}]`,
			expected: Counts{Total: 1, Removed: 1, NoThumbnail: 1},
		},
		{
			body:     `[{"name":"A","thumb":"http://x/dead.jpg","media":[{"url":"http://x/a.jpg"}]}]`,
			expected: Counts{Total: 1, Removed: 1, BadThumbnail: 1},
		},
		{
			body:     `[{"name":"A","thumb":"http://x/a.jpg","media":[{"url":"http://x/dead.jpg"}]}]`,
			expected: Counts{Total: 1, Removed: 1, NoWorkingMedia: 1},
		},
	}

	for _, test := range tests {

		results, err := FilterSpots(ctx, filterOptions(new(deadChecker)), mustLoad(t, test.body))
		require.NoError(t, err)

		assert.Equal(t, test.expected, *results.Counts, test.body)
		assert.Empty(t, results.Spots)
	}
}

func TestFilterSpotsEndToEnd(t *testing.T) {

	ctx := context.Background()

	input := `[{"name":"A","thumb":"http://x/a.jpg","media":[{"url":"http://x/a.jpg"}]}]`

	results, err := FilterSpots(ctx, filterOptions(alwaysAlive()), mustLoad(t, input))
	require.NoError(t, err)

	body, err := MarshalSpots(results.Spots)
	require.NoError(t, err)

	assert.JSONEq(t, input, string(body))
	assert.Len(t, gjson.GetBytes(body, "0.media").Array(), 1)

	assert.Equal(t, 0, results.Counts.Removed)
	assert.Equal(t, 0, results.Counts.NoThumbnail)
	assert.Equal(t, 0, results.Counts.BadThumbnail)
	assert.Equal(t, 0, results.Counts.NoMedia)
	assert.Equal(t, 0, results.Counts.NoWorkingMedia)
}

func TestFilterSpotsEmptyThumbnail(t *testing.T) {

	ctx := context.Background()

	input := `[{"name":"A","thumb":"","media":[{"url":"http://x/a.jpg"}]},{"name":"B","thumb":"http://x/b.jpg","media":[{"url":"http://x/b.jpg"}]}]`

	results, err := FilterSpots(ctx, filterOptions(alwaysAlive()), mustLoad(t, input))
	require.NoError(t, err)

	assert.Equal(t, 1, results.Counts.NoThumbnail)
	assert.Equal(t, 1, results.Counts.Removed)

	body, err := MarshalSpots(results.Spots)
	require.NoError(t, err)

	names := gjson.GetBytes(body, "#.name").Array()
	require.Len(t, names, 1)
	assert.Equal(t, "B", names[0].String())
}

func TestFilterSpotsDuplicateKeys(t *testing.T) {

	ctx := context.Background()

	spots := mustLoad(t, `[{"name":"A","thumb":"","media":[{"url":"http://x/a.jpg"}],"thumb":"http://x/a.jpg"}]`)

	results, err := FilterSpots(ctx, filterOptions(alwaysAlive()), spots)
	require.NoError(t, err)

	assert.Equal(t, 1, results.Counts.Kept)
	assert.Equal(t, 0, results.Counts.NoThumbnail)
}

func TestFilterSpotsIdempotent(t *testing.T) {

	ctx := context.Background()

	input := `[
		{"name":"Vịnh Hạ Long","thumb":"http://x/a.jpg","media":[{"type":"image","url":"http://x/1.jpg"},{"type":"image","url":"http://x/dead.jpg"}],"lat":20.91,"lng":107.18},
		{"name":"Yên Tử","thumb":"http://x/dead.jpg","media":[{"url":"http://x/2.jpg"}]},
		{"name":"Cô Tô","thumb":"http://x/b.jpg","media":[{"url":"http://x/3.jpg","caption":"Bãi biển Cô Tô"}]}
	]`

	first, err := FilterSpots(ctx, filterOptions(new(deadChecker)), mustLoad(t, input))
	require.NoError(t, err)

	first_body, err := MarshalSpots(first.Spots)
	require.NoError(t, err)

	second, err := FilterSpots(ctx, filterOptions(alwaysAlive()), mustLoad(t, string(first_body)))
	require.NoError(t, err)

	second_body, err := MarshalSpots(second.Spots)
	require.NoError(t, err)

	assert.Equal(t, len(first.Spots), len(second.Spots))
	assert.Equal(t, 0, second.Counts.Removed)
	assert.Equal(t, string(first_body), string(second_body))
}

func TestFilterSpotsElapsed(t *testing.T) {

	clock := clockwork.NewFakeClock()

	c := liveness.CheckerFunc(func(ctx context.Context, uri string) bool {
		clock.Advance(3 * time.Second)
		return true
	})

	opts := &FilterOptions{
		Checker: c,
		Clock:   clock,
		Logger:  quietLogger(),
	}

	spots := mustLoad(t, `[{"name":"A","thumb":"http://x/a.jpg","media":[{"url":"http://x/1.jpg"},{"url":"http://x/2.jpg"}]}]`)

	results, err := FilterSpots(context.Background(), opts, spots)
	require.NoError(t, err)

	assert.Equal(t, 9*time.Second, results.Elapsed)
	assert.Equal(t, 3, results.Probes.Total)
	assert.Equal(t, 3, results.Probes.Alive)
}
