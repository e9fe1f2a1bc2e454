package seeder

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/sfomuseum/go-flags/flagset"
	"github.com/sfomuseum/go-sfomuseum-spots"
	"github.com/sfomuseum/go-sfomuseum-spots/clean"
	"github.com/sfomuseum/go-sfomuseum-spots/github"
	"github.com/sfomuseum/go-sfomuseum-spots/seed"
	"github.com/whosonfirst/go-reader/v2"
	"github.com/whosonfirst/go-writer/v3"
	gh_writer "github.com/whosonfirst/go-writer-github/v3"
)

type RunOptions struct {
	Verbose              bool
	ReaderURI            string
	Input                string
	Database             string
	SQLWriterURI         string
	SQLOutput            string
	GitHubAccessTokenURI string
	Author               string
	// An optional `clockwork.Clock` used to stamp the SQL seed script.
	Clock clockwork.Clock
}

func RunOptionsFromFlagSet(ctx context.Context, fs *flag.FlagSet) (*RunOptions, error) {

	flagset.Parse(fs)

	err := flagset.SetFlagsFromEnvVars(fs, spots.ENV_PREFIX)

	if err != nil {
		return nil, fmt.Errorf("Failed to set flags from environment variables, %w", err)
	}

	opts := &RunOptions{
		Verbose:              verbose,
		ReaderURI:            reader_uri,
		Input:                input,
		Database:             database,
		SQLWriterURI:         sql_writer_uri,
		SQLOutput:            sql_output,
		GitHubAccessTokenURI: access_token_uri,
		Author:               author,
	}

	return opts, nil
}

// Run executes the "seed-spots" application with a default `flag.FlagSet` instance.
func Run(ctx context.Context) error {
	fs := DefaultFlagSet(ctx)
	return RunWithFlagSet(ctx, fs)
}

// RunWithFlagSet executes the "seed-spots" application with a `flag.FlagSet` instance defined by 'fs'.
func RunWithFlagSet(ctx context.Context, fs *flag.FlagSet) error {

	opts, err := RunOptionsFromFlagSet(ctx, fs)

	if err != nil {
		return err
	}

	return RunWithOptions(ctx, opts)
}

// RunWithOptions executes the "seed-spots" application with 'opts'.
func RunWithOptions(ctx context.Context, opts *RunOptions) error {

	if opts.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}

	if opts.Database == "" && opts.SQLOutput == "" {
		return fmt.Errorf("Nothing to do, one or both of -database and -sql-output must be set")
	}

	r, err := reader.NewReader(ctx, opts.ReaderURI)

	if err != nil {
		return fmt.Errorf("Failed to create reader, %w", err)
	}

	logger := slog.Default()
	logger = logger.With("input", opts.Input)

	records, err := clean.ReadSpots(ctx, r, opts.Input)

	if err != nil {
		return err
	}

	logger.Debug("Loaded spots", "count", len(records))

	if opts.Database != "" {

		err := loadDatabase(ctx, opts.Database, records)

		if err != nil {
			return err
		}
	}

	if opts.SQLOutput != "" {

		err := publishSQL(ctx, opts, records)

		if err != nil {
			return err
		}
	}

	return nil
}

func loadDatabase(ctx context.Context, path string, records [][]byte) error {

	db, err := seed.OpenDatabase(ctx, path)

	if err != nil {
		return err
	}

	defer db.Close()

	counts, err := db.LoadSpots(ctx, records)

	if err != nil {
		return fmt.Errorf("Failed to load spots into %s, %w", path, err)
	}

	slog.Info("Loaded database", "database", path, "spots", counts.Spots, "media", counts.Media, "ignored", counts.Ignored)
	return nil
}

func publishSQL(ctx context.Context, opts *RunOptions, records [][]byte) error {

	writer_uri, err := gh_writer.EnsureGitHubAccessToken(ctx, opts.SQLWriterURI, opts.GitHubAccessTokenURI)

	if err != nil {
		return fmt.Errorf("Failed to ensure access token for SQL writer URI, %w", err)
	}

	if opts.Author != "" {

		gh_opts := &github.UpdateWriterURIOptions{
			Author: opts.Author,
			Action: "seeded spots",
			Label:  "spots-seeded",
		}

		writer_uri, err = github.UpdateWriterURI(ctx, gh_opts, writer_uri)

		if err != nil {
			return fmt.Errorf("Failed to update SQL writer URI, %w", err)
		}
	}

	wr, err := writer.NewWriter(ctx, writer_uri)

	if err != nil {
		return fmt.Errorf("Failed to create new SQL writer, %w", err)
	}

	sql_opts := &seed.WriteSQLOptions{
		Clock:  opts.Clock,
		Source: opts.Input,
	}

	counts, err := seed.PublishSQL(ctx, wr, opts.SQLOutput, records, sql_opts)

	if err != nil {
		return err
	}

	err = wr.Close(ctx)

	if err != nil {
		return fmt.Errorf("Failed to close SQL writer, %w", err)
	}

	slog.Info("Wrote SQL seed script", "output", opts.SQLOutput, "spots", counts.Spots, "media", counts.Media)
	return nil
}
