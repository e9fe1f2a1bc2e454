package renderer

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sfomuseum/go-flags/flagset"
	"github.com/sfomuseum/go-sfomuseum-spots"
	"github.com/sfomuseum/go-sfomuseum-spots/choropleth"
	"github.com/sfomuseum/go-sfomuseum-spots/colormap"
	"github.com/sfomuseum/go-sfomuseum-spots/frame"
)

var reader_uri string
var input string

var writer_uri string
var output string
var geojson_output string

var column string
var palette string
var colouring string

var title string
var title_size float64
var width float64
var height float64
var dpi float64
var line_width float64

var access_token_uri string
var author string

var verbose bool

func DefaultFlagSet(ctx context.Context) *flag.FlagSet {

	fs := flagset.NewFlagSet("render")

	fs.StringVar(&reader_uri, "reader-uri", spots.DEFAULT_DATA_READER_URI, "A valid whosonfirst/go-reader URI for reading GeoJSON boundaries.")
	fs.StringVar(&input, "input", spots.DEFAULT_BOUNDARIES_INPUT, "The path (relative to -reader-uri) of a GeoJSON FeatureCollection of administrative boundaries.")

	fs.StringVar(&writer_uri, "writer-uri", spots.DEFAULT_IMAGE_WRITER_URI, "A valid whosonfirst/go-writer URI for writing the rendered map.")
	fs.StringVar(&output, "output", spots.DEFAULT_MAP_OUTPUT, "The path (relative to -writer-uri) of the rendered PNG map.")
	fs.StringVar(&geojson_output, "geojson-output", "", "If not empty, also write the input FeatureCollection, annotated with each feature's colour, to this path (relative to -writer-uri).")

	fs.StringVar(&column, "column", frame.DEFAULT_COLUMN, "The property to colour features by. If absent the first property is used.")
	fs.StringVar(&palette, "palette", colormap.DEFAULT_PALETTE, fmt.Sprintf("The palette to colour features with. Valid options are: %s.", strings.Join(colormap.Names(), ", ")))
	fs.StringVar(&colouring, "colouring", choropleth.COLOURING_CATEGORICAL, fmt.Sprintf("The colouring strategy. Valid options are: %s, %s.", choropleth.COLOURING_CATEGORICAL, choropleth.COLOURING_ADJACENT))

	fs.StringVar(&title, "title", choropleth.DEFAULT_TITLE, "The title to draw above the map. If empty no title is drawn.")
	fs.Float64Var(&title_size, "title-size", choropleth.DEFAULT_TITLE_SIZE, "The size of the title, in points.")
	fs.Float64Var(&width, "width", choropleth.DEFAULT_WIDTH, "The width of the figure, in inches.")
	fs.Float64Var(&height, "height", choropleth.DEFAULT_HEIGHT, "The height of the figure, in inches.")
	fs.Float64Var(&dpi, "dpi", choropleth.DEFAULT_DPI, "The number of pixels per inch.")
	fs.Float64Var(&line_width, "line-width", choropleth.DEFAULT_LINE_WIDTH, "The width of feature boundaries, in points.")

	fs.StringVar(&access_token_uri, "access-token", "", "A valid gocloud.dev/runtimevar URI containing a GitHub API access token, used by githubapi:// writers.")
	fs.StringVar(&author, "author", "", "If not empty, the name used to label commits and pull requests created by githubapi:// writers.")

	fs.BoolVar(&verbose, "verbose", false, "Enable verbose (debug) logging.")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "render-map draws a GeoJSON FeatureCollection of administrative boundaries as a colour-filled PNG map.\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Valid options are:\n")
		fs.PrintDefaults()
	}

	return fs
}
