package renderer

import (
	"context"
	"flag"
	"fmt"

	"github.com/sfomuseum/go-flags/flagset"
	"github.com/sfomuseum/go-sfomuseum-spots"
	"github.com/sfomuseum/go-sfomuseum-spots/choropleth"
)

type RunOptions struct {
	Verbose              bool
	ReaderURI            string
	Input                string
	WriterURI            string
	Output               string
	GeoJSONOutput        string
	Column               string
	Palette              string
	Colouring            string
	RenderOptions        *choropleth.RenderOptions
	GitHubAccessTokenURI string
	Author               string
}

func RunOptionsFromFlagSet(ctx context.Context, fs *flag.FlagSet) (*RunOptions, error) {

	flagset.Parse(fs)

	err := flagset.SetFlagsFromEnvVars(fs, spots.ENV_PREFIX)

	if err != nil {
		return nil, fmt.Errorf("Failed to set flags from environment variables, %w", err)
	}

	render_opts := &choropleth.RenderOptions{
		Width:     width,
		Height:    height,
		DPI:       dpi,
		LineWidth: line_width,
		Title:     title,
		TitleSize: title_size,
	}

	opts := &RunOptions{
		Verbose:              verbose,
		ReaderURI:            reader_uri,
		Input:                input,
		WriterURI:            writer_uri,
		Output:               output,
		GeoJSONOutput:        geojson_output,
		Column:               column,
		Palette:              palette,
		Colouring:            colouring,
		RenderOptions:        render_opts,
		GitHubAccessTokenURI: access_token_uri,
		Author:               author,
	}

	return opts, nil
}
