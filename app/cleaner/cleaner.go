package cleaner

/*

> ./bin/clean-spots -reader-uri fs:///usr/local/data/travel-website/data -writer-uri stdout:// -output spots_cleaned.json
2026/03/07 09:30:15 INFO Keep spot name="Vịnh Hạ Long" media=3
2026/03/07 09:30:18 INFO Remove spot name="Chợ Hạ Long I" reason="bad thumbnail"
...
2026/03/07 09:31:02 INFO Finished filtering spots kept=41 total=57 removed=16 "no thumbnail"=2 "bad thumbnail"=9 "no media"=1 "no working media"=4 probes=212 elapsed=46.8s

*/

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/sfomuseum/go-sfomuseum-spots/clean"
	"github.com/sfomuseum/go-sfomuseum-spots/github"
	"github.com/sfomuseum/go-sfomuseum-spots/liveness"
	"github.com/sfomuseum/go-sfomuseum-spots/metrics"
	"github.com/sfomuseum/go-sfomuseum-spots/writers"
	"github.com/whosonfirst/go-reader/v2"
	gh_writer "github.com/whosonfirst/go-writer-github/v3"
)

// Run executes the "clean-spots" application with a default `flag.FlagSet` instance.
func Run(ctx context.Context) error {
	fs := DefaultFlagSet(ctx)
	return RunWithFlagSet(ctx, fs)
}

// RunWithFlagSet executes the "clean-spots" application with a `flag.FlagSet` instance defined by 'fs'.
func RunWithFlagSet(ctx context.Context, fs *flag.FlagSet) error {

	opts, err := RunOptionsFromFlagSet(ctx, fs)

	if err != nil {
		return err
	}

	return RunWithOptions(ctx, opts)
}

// RunWithOptions executes the "clean-spots" application with 'opts'.
func RunWithOptions(ctx context.Context, opts *RunOptions) error {

	if opts.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}

	var err error

	opts.WriterURI, err = gh_writer.EnsureGitHubAccessToken(ctx, opts.WriterURI, opts.GitHubAccessTokenURI)

	if err != nil {
		return fmt.Errorf("Failed to ensure access token for writer URI, %w", err)
	}

	r, err := reader.NewReader(ctx, opts.ReaderURI)

	if err != nil {
		return fmt.Errorf("Failed to create reader, %w", err)
	}

	checker := opts.Checker

	if checker == nil {

		checker_opts := &liveness.HTTPCheckerOptions{
			Timeout:   opts.Timeout,
			RateLimit: opts.RateLimit,
			UserAgent: opts.UserAgent,
		}

		checker = liveness.NewHTTPChecker(checker_opts)
	}

	clock := opts.Clock

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	cleaner := &Cleaner{
		Reader:          r,
		WriterURI:       opts.WriterURI,
		Checker:         checker,
		Clock:           clock,
		MetricsTextfile: opts.MetricsTextfile,
	}

	if opts.Author != "" {

		cleaner.GitHubWriterOptions = &github.UpdateWriterURIOptions{
			Author: opts.Author,
			Action: "cleaned spots",
			Label:  "spots-cleaned",
		}
	}

	switch opts.Mode {
	case "cli":
		return runCommandLine(ctx, cleaner, opts)
	case "lambda":
		return runLambda(ctx, cleaner, opts)
	default:
		return fmt.Errorf("Invalid or unsupported mode")
	}
}

// Cleaner reads, filters and writes lists of spots.
type Cleaner struct {
	Reader              reader.Reader
	WriterURI           string
	GitHubWriterOptions *github.UpdateWriterURIOptions
	Checker             liveness.Checker
	Clock               clockwork.Clock
	MetricsTextfile     string
}

// CleanResponse describes the outcome of cleaning a single list of spots.
type CleanResponse struct {
	Input   string        `json:"input"`
	Output  string        `json:"output"`
	Counts  *clean.Counts `json:"counts"`
	Probes  *clean.Probes `json:"probes"`
	Elapsed string        `json:"elapsed"`
	// The cleaned list of spots exactly as it was written.
	Body []byte `json:"-"`
}

// Clean reads the list of spots at 'input', removes those without a working thumbnail or any working media
// and writes the remainder to 'output'.
func (c *Cleaner) Clean(ctx context.Context, input string, output string) (*CleanResponse, error) {

	logger := slog.Default()
	logger = logger.With("input", input)
	logger = logger.With("output", output)

	logger.Debug("Clean spots")

	records, err := clean.ReadSpots(ctx, c.Reader, input)

	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded spots", "count", len(records))

	filter_opts := &clean.FilterOptions{
		Checker: c.Checker,
		Clock:   c.Clock,
		Logger:  logger,
	}

	results, err := clean.FilterSpots(ctx, filter_opts, records)

	if err != nil {
		return nil, fmt.Errorf("Failed to filter spots, %w", err)
	}

	// Writers are created for each run so that the local copy only ever contains this run's output

	writers_opts := &writers.CreateWritersOptions{
		WriterURI:           c.WriterURI,
		GithubWriterOptions: c.GitHubWriterOptions,
	}

	wrs, err := writers.CreateWriters(ctx, writers_opts)

	if err != nil {
		return nil, fmt.Errorf("Failed to create writers, %w", err)
	}

	_, err = clean.WriteSpots(ctx, wrs.MultiWriter, output, results.Spots)

	if err != nil {
		return nil, err
	}

	err = wrs.Close(ctx)

	if err != nil {
		return nil, fmt.Errorf("Failed to close writer, %w", err)
	}

	body, err := wrs.Bytes()

	if err != nil {
		return nil, fmt.Errorf("Failed to retrieve cleaned spots, %w", err)
	}

	results.LogSummary(logger)

	if c.MetricsTextfile != "" {

		m := metrics.NewMetrics()
		m.Observe(results)

		err := m.WriteTextfile(c.MetricsTextfile)

		if err != nil {
			return nil, err
		}

		logger.Debug("Wrote metrics", "path", c.MetricsTextfile)
	}

	rsp := &CleanResponse{
		Input:   input,
		Output:  output,
		Counts:  results.Counts,
		Probes:  results.Probes,
		Elapsed: results.Elapsed.String(),
		Body:    body,
	}

	return rsp, nil
}
