package renderer

/*

> ./bin/render-map -reader-uri fs:///usr/local/data/travel-website/data -writer-uri fs:///usr/local/data/travel-website -geojson-output quangninh_colored.geojson
2026/03/07 10:02:41 INFO Loaded features input=quangninh.geojson count=171 columns="[MA_XA TEN_XA MA_HUYEN TEN_HUYEN]"
2026/03/07 10:02:41 INFO Assigned colours column=TEN_XA colouring=categorical palette=tab20 categories=171 filled=171
2026/03/07 10:02:44 INFO Wrote map output=quangninh_map_colored.png width=2473 height=1906 bytes=1529340
2026/03/07 10:02:44 INFO Wrote annotated features output=quangninh_colored.geojson bytes=4311187

*/

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/sfomuseum/go-sfomuseum-spots/choropleth"
	"github.com/sfomuseum/go-sfomuseum-spots/colormap"
	"github.com/sfomuseum/go-sfomuseum-spots/frame"
	"github.com/sfomuseum/go-sfomuseum-spots/github"
	"github.com/whosonfirst/go-reader/v2"
	"github.com/whosonfirst/go-writer/v3"
	gh_writer "github.com/whosonfirst/go-writer-github/v3"
)

// The number of features whose colouring values are logged at the debug level.
const preview_count int = 5

// Run executes the "render-map" application with a default `flag.FlagSet` instance.
func Run(ctx context.Context) error {
	fs := DefaultFlagSet(ctx)
	return RunWithFlagSet(ctx, fs)
}

// RunWithFlagSet executes the "render-map" application with a `flag.FlagSet` instance defined by 'fs'.
func RunWithFlagSet(ctx context.Context, fs *flag.FlagSet) error {

	opts, err := RunOptionsFromFlagSet(ctx, fs)

	if err != nil {
		return err
	}

	return RunWithOptions(ctx, opts)
}

// RunWithOptions executes the "render-map" application with 'opts'.
func RunWithOptions(ctx context.Context, opts *RunOptions) error {

	if opts.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}

	render_opts := opts.RenderOptions

	if render_opts == nil {
		render_opts = choropleth.DefaultRenderOptions()
	}

	cm, err := colormap.NewColormap(opts.Palette)

	if err != nil {
		return fmt.Errorf("Failed to create colormap, %w", err)
	}

	writer_uri, err := gh_writer.EnsureGitHubAccessToken(ctx, opts.WriterURI, opts.GitHubAccessTokenURI)

	if err != nil {
		return fmt.Errorf("Failed to ensure access token for writer URI, %w", err)
	}

	if opts.Author != "" {

		gh_opts := &github.UpdateWriterURIOptions{
			Author: opts.Author,
			Action: "rendered map",
			Label:  "map-rendered",
		}

		writer_uri, err = github.UpdateWriterURI(ctx, gh_opts, writer_uri)

		if err != nil {
			return fmt.Errorf("Failed to update writer URI, %w", err)
		}
	}

	r, err := reader.NewReader(ctx, opts.ReaderURI)

	if err != nil {
		return fmt.Errorf("Failed to create reader, %w", err)
	}

	logger := slog.Default()
	logger = logger.With("input", opts.Input)

	f, err := frame.ReadFrame(ctx, r, opts.Input)

	if err != nil {
		return err
	}

	logger.Info("Loaded features", "count", f.Len(), "columns", f.Columns)

	assign_opts := &choropleth.AssignOptions{
		Column:    opts.Column,
		Colouring: opts.Colouring,
		Colormap:  cm,
	}

	a, err := choropleth.Assign(ctx, f, assign_opts)

	if err != nil {
		return fmt.Errorf("Failed to assign colours, %w", err)
	}

	logAssignment(logger, f, a, opts, cm)

	img, err := choropleth.Render(ctx, f, a, render_opts)

	if err != nil {
		return fmt.Errorf("Failed to render map, %w", err)
	}

	wr, err := writer.NewWriter(ctx, writer_uri)

	if err != nil {
		return fmt.Errorf("Failed to create new writer, %w", err)
	}

	n, err := choropleth.WritePNG(ctx, wr, opts.Output, img)

	if err != nil {
		return err
	}

	bounds := img.Bounds()
	logger.Info("Wrote map", "output", opts.Output, "width", bounds.Dx(), "height", bounds.Dy(), "bytes", n)

	if opts.GeoJSONOutput != "" {

		body, err := choropleth.Annotate(f, a)

		if err != nil {
			return fmt.Errorf("Failed to annotate features, %w", err)
		}

		n, err := wr.Write(ctx, opts.GeoJSONOutput, bytes.NewReader(body))

		if err != nil {
			return fmt.Errorf("Failed to write %s, %w", opts.GeoJSONOutput, err)
		}

		logger.Info("Wrote annotated features", "output", opts.GeoJSONOutput, "bytes", n)
	}

	err = wr.Close(ctx)

	if err != nil {
		return fmt.Errorf("Failed to close writer, %w", err)
	}

	return nil
}

func logAssignment(logger *slog.Logger, f *frame.Frame, a *choropleth.Assignment, opts *RunOptions, cm *colormap.Colormap) {

	filled := 0

	for _, ok := range a.Filled {
		if ok {
			filled += 1
		}
	}

	logger.Info("Assigned colours",
		"column", a.Column,
		"colouring", opts.Colouring,
		"palette", cm.Name,
		"categories", len(a.Categories),
		"filled", filled,
	)

	values := f.Values(a.Column)

	for i := 0; i < len(values) && i < preview_count; i++ {

		if !a.Filled[i] {
			logger.Debug("Feature", "offset", i, "value", values[i].String(), "fill", "none")
			continue
		}

		logger.Debug("Feature", "offset", i, "value", values[i].String(), "fill", colormap.Hex(a.Colors[i]))
	}
}
