package clean

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/sfomuseum/go-sfomuseum-spots/liveness"
	"github.com/sfomuseum/go-sfomuseum-spots/spot"
	"github.com/tidwall/gjson"
)

// Reason is a label describing why a spot record was removed.
type Reason string

// KEPT signals that a spot record was retained.
const KEPT Reason = ""

// NO_THUMBNAIL signals that a spot record has no (or an empty) "thumb" property.
const NO_THUMBNAIL Reason = "no thumbnail"

// BAD_THUMBNAIL signals that a spot record's "thumb" URL failed its liveness check.
const BAD_THUMBNAIL Reason = "bad thumbnail"

// NO_MEDIA signals that a spot record has no (or an empty, or a non-list) "media" property.
const NO_MEDIA Reason = "no media"

// NO_WORKING_MEDIA signals that none of a spot record's media URLs passed their liveness checks.
const NO_WORKING_MEDIA Reason = "no working media"

// FilterOptions defines configuration options for filtering spot records.
type FilterOptions struct {
	// A valid `liveness.Checker` instance used to test thumbnail and media URLs.
	Checker liveness.Checker
	// An optional `clockwork.Clock` used to time the filtering process. Defaults to the real clock.
	Clock clockwork.Clock
	// An optional `slog.Logger` instance. Defaults to `slog.Default()`.
	Logger *slog.Logger
}

// FilterSpot decides whether 'body' should be retained. If it is retained the (possibly updated) record
// is returned with its "media" property limited to entries whose URLs passed their liveness checks, in
// their original order. Otherwise the return value is nil and the reason for removal is returned.
func FilterSpot(ctx context.Context, checker liveness.Checker, body []byte) ([]byte, Reason, *Probes, error) {

	probes := new(Probes)

	thumb := spot.Thumbnail(body)

	if spot.IsFalsy(thumb) {
		return nil, NO_THUMBNAIL, probes, nil
	}

	// A thumbnail that isn't a string can never pass
	thumb_ok := false

	if thumb.Type == gjson.String {
		thumb_uri := thumb.String()
		thumb_ok = checker.IsAlive(ctx, thumb_uri)
		recordProbe(probes, thumb_uri, thumb_ok)
	}

	if !thumb_ok {
		return nil, BAD_THUMBNAIL, probes, nil
	}

	media := spot.Media(body)

	if spot.IsFalsy(media) || !media.IsArray() {
		return nil, NO_MEDIA, probes, nil
	}

	entries := media.Array()
	valid := make([]gjson.Result, 0)

	for _, m := range entries {

		uri, ok := spot.MediaURL(m)

		if !ok {
			continue
		}

		alive := checker.IsAlive(ctx, uri)
		recordProbe(probes, uri, alive)

		if alive {
			valid = append(valid, m)
		}
	}

	if len(valid) == 0 {
		return nil, NO_WORKING_MEDIA, probes, nil
	}

	if len(valid) == len(entries) {
		return body, KEPT, probes, nil
	}

	new_body, err := spot.SetMedia(body, valid)

	if err != nil {
		return nil, KEPT, probes, fmt.Errorf("Failed to update media for %s, %w", spot.Name(body), err)
	}

	return new_body, KEPT, probes, nil
}

// recordProbe tallies the outcome for 'uri' only if it would have been requested over the network.
func recordProbe(probes *Probes, uri string, alive bool) {

	if !liveness.HasSupportedScheme(uri) {
		return
	}

	probes.Record(alive)
}

// FilterSpots applies `FilterSpot` to each record in 'spots', in order, logging the outcome for each record
// and returning the retained records along with summary counts.
func FilterSpots(ctx context.Context, opts *FilterOptions, spots [][]byte) (*Results, error) {

	clock := opts.Clock

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logger := opts.Logger

	if logger == nil {
		logger = slog.Default()
	}

	started := clock.Now()

	results := &Results{
		Spots:  make([][]byte, 0),
		Counts: new(Counts),
		Probes: new(Probes),
	}

	for _, body := range spots {

		name := spot.Name(body)
		spot_logger := logger.With("name", name)

		new_body, reason, probes, err := FilterSpot(ctx, opts.Checker, body)

		if err != nil {
			return nil, err
		}

		results.Probes.Add(probes)
		results.Counts.Increment(reason)

		if reason != KEPT {
			spot_logger.Info("Remove spot", "reason", string(reason))
			continue
		}

		media_count := len(spot.Media(new_body).Array())
		spot_logger.Info("Keep spot", "media", media_count)

		results.Spots = append(results.Spots, new_body)
	}

	results.Elapsed = clock.Since(started)
	return results, nil
}
