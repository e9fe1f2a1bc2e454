package cleaner

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sfomuseum/go-flags/flagset"
	"github.com/sfomuseum/go-sfomuseum-spots"
	"github.com/sfomuseum/go-sfomuseum-spots/liveness"
)

type RunOptions struct {
	Mode                 string
	Verbose              bool
	ReaderURI            string
	Input                string
	WriterURI            string
	Output               string
	Timeout              time.Duration
	RateLimit            float64
	UserAgent            string
	MetricsTextfile      string
	GitHubAccessTokenURI string
	Author               string
	// An optional `liveness.Checker` to use instead of one derived from Timeout, RateLimit and UserAgent.
	Checker liveness.Checker
	// An optional `clockwork.Clock` used to time each run.
	Clock clockwork.Clock
}

func RunOptionsFromFlagSet(ctx context.Context, fs *flag.FlagSet) (*RunOptions, error) {

	flagset.Parse(fs)

	err := flagset.SetFlagsFromEnvVars(fs, spots.ENV_PREFIX)

	if err != nil {
		return nil, fmt.Errorf("Failed to set flags from environment variables, %w", err)
	}

	opts := &RunOptions{
		Mode:                 mode,
		Verbose:              verbose,
		ReaderURI:            reader_uri,
		Input:                input,
		WriterURI:            writer_uri,
		Output:               output,
		Timeout:              time.Duration(timeout) * time.Second,
		RateLimit:            rate_limit,
		UserAgent:            user_agent,
		MetricsTextfile:      metrics_textfile,
		GitHubAccessTokenURI: access_token_uri,
		Author:               author,
	}

	return opts, nil
}
