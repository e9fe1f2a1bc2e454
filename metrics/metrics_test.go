package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sfomuseum/go-sfomuseum-spots/clean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResults() *clean.Results {

	return &clean.Results{
		Counts: &clean.Counts{
			Total:          7,
			Kept:           2,
			Removed:        5,
			NoThumbnail:    1,
			BadThumbnail:   2,
			NoMedia:        1,
			NoWorkingMedia: 1,
		},
		Probes: &clean.Probes{
			Total: 9,
			Alive: 6,
			Dead:  3,
		},
		Elapsed: 1500 * time.Millisecond,
	}
}

func TestObserve(t *testing.T) {

	m := NewMetrics()
	m.Observe(testResults())

	assert.Equal(t, 7.0, testutil.ToFloat64(m.SpotsProcessed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SpotsKept))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpotsRemoved.WithLabelValues("no_thumbnail")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SpotsRemoved.WithLabelValues("bad_thumbnail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpotsRemoved.WithLabelValues("no_media")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpotsRemoved.WithLabelValues("no_working_media")))

	assert.Equal(t, 6.0, testutil.ToFloat64(m.Probes.WithLabelValues("alive")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Probes.WithLabelValues("dead")))

	assert.Equal(t, 1.5, testutil.ToFloat64(m.RunDuration))
	assert.Greater(t, testutil.ToFloat64(m.LastRun), 0.0)
}

func TestNewMetricsIsolated(t *testing.T) {

	// Each instance has its own registry so repeated runs never collide.
	a := NewMetrics()
	b := NewMetrics()

	a.Observe(testResults())

	assert.Equal(t, 0.0, testutil.ToFloat64(b.SpotsProcessed))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestWriteTextfile(t *testing.T) {

	m := NewMetrics()
	m.Observe(testResults())

	path := filepath.Join(t.TempDir(), "spots.prom")

	err := m.WriteTextfile(path)
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := `
# HELP spots_kept_total Total spot records written to the output list.
# TYPE spots_kept_total counter
spots_kept_total 2
`

	err = testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "spots_kept_total")
	require.NoError(t, err)

	assert.Contains(t, string(body), `spots_removed_total{reason="bad_thumbnail"} 2`)
	assert.Contains(t, string(body), `spots_probes_total{outcome="dead"} 3`)
}
