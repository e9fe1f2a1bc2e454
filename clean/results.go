package clean

import (
	"log/slog"
	"time"
)

// Counts tallies the outcome of filtering a list of spot records.
type Counts struct {
	Total          int `json:"total"`
	Kept           int `json:"kept"`
	Removed        int `json:"removed"`
	NoThumbnail    int `json:"no_thumbnail"`
	BadThumbnail   int `json:"bad_thumbnail"`
	NoMedia        int `json:"no_media"`
	NoWorkingMedia int `json:"no_working_media"`
}

// Increment updates 'c' for a single record filtered for 'reason'.
func (c *Counts) Increment(reason Reason) {

	c.Total += 1

	switch reason {
	case KEPT:
		c.Kept += 1
		return
	case NO_THUMBNAIL:
		c.NoThumbnail += 1
	case BAD_THUMBNAIL:
		c.BadThumbnail += 1
	case NO_MEDIA:
		c.NoMedia += 1
	case NO_WORKING_MEDIA:
		c.NoWorkingMedia += 1
	}

	c.Removed += 1
}

// Probes tallies the liveness checks performed while filtering spot records. Only http(s) URLs, which
// result in a network request, are counted.
type Probes struct {
	Total int `json:"total"`
	Alive int `json:"alive"`
	Dead  int `json:"dead"`
}

// Record updates 'p' with the outcome of a single liveness check.
func (p *Probes) Record(alive bool) {

	p.Total += 1

	if alive {
		p.Alive += 1
	} else {
		p.Dead += 1
	}
}

// Add adds the totals in 'other' to 'p'.
func (p *Probes) Add(other *Probes) {
	p.Total += other.Total
	p.Alive += other.Alive
	p.Dead += other.Dead
}

// Results is the outcome of filtering a list of spot records.
type Results struct {
	// The retained spot records, in their original order.
	Spots [][]byte
	// Summary counts by outcome.
	Counts *Counts
	// Summary counts of liveness checks.
	Probes *Probes
	// The amount of time spent filtering.
	Elapsed time.Duration
}

// LogSummary emits the summary counts for 'r' to 'logger'.
func (r *Results) LogSummary(logger *slog.Logger) {

	c := r.Counts

	logger.Info("Finished filtering spots",
		"kept", c.Kept,
		"total", c.Total,
		"removed", c.Removed,
		"no thumbnail", c.NoThumbnail,
		"bad thumbnail", c.BadThumbnail,
		"no media", c.NoMedia,
		"no working media", c.NoWorkingMedia,
		"probes", r.Probes.Total,
		"elapsed", r.Elapsed,
	)
}
