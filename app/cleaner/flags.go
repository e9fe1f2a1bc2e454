package cleaner

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sfomuseum/go-flags/flagset"
	"github.com/sfomuseum/go-sfomuseum-spots"
	"github.com/sfomuseum/go-sfomuseum-spots/liveness"
)

var mode string

var reader_uri string
var input string

var writer_uri string
var output string

var timeout int
var rate_limit float64
var user_agent string

var metrics_textfile string

var access_token_uri string
var author string

var verbose bool

func DefaultFlagSet(ctx context.Context) *flag.FlagSet {

	fs := flagset.NewFlagSet("clean")

	fs.StringVar(&mode, "mode", "cli", "Valid options are: cli, lambda.")

	fs.StringVar(&reader_uri, "reader-uri", spots.DEFAULT_DATA_READER_URI, "A valid whosonfirst/go-reader URI for reading the list of spots.")
	fs.StringVar(&input, "input", spots.DEFAULT_SPOTS_INPUT, "The path (relative to -reader-uri) of the list of spots to clean.")

	fs.StringVar(&writer_uri, "writer-uri", spots.DEFAULT_DATA_WRITER_URI, "A valid whosonfirst/go-writer URI for writing the cleaned list of spots.")
	fs.StringVar(&output, "output", spots.DEFAULT_SPOTS_OUTPUT, "The path (relative to -writer-uri) of the cleaned list of spots.")

	fs.IntVar(&timeout, "timeout", int(liveness.DEFAULT_TIMEOUT.Seconds()), "The maximum number of seconds to wait for a single URL to respond.")
	fs.Float64Var(&rate_limit, "rate-limit", 0, "The maximum number of URLs to check per second. Zero means no limit.")
	fs.StringVar(&user_agent, "user-agent", liveness.DEFAULT_USER_AGENT, "The User-Agent header to send when checking URLs.")

	fs.StringVar(&metrics_textfile, "metrics-textfile", "", "If not empty, write Prometheus metrics for the run to this path (for the node_exporter textfile collector).")

	fs.StringVar(&access_token_uri, "access-token", "", "A valid gocloud.dev/runtimevar URI containing a GitHub API access token, used by githubapi:// writers.")
	fs.StringVar(&author, "author", "", "If not empty, the name used to label commits and pull requests created by githubapi:// writers.")

	fs.BoolVar(&verbose, "verbose", false, "Enable verbose (debug) logging.")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "clean-spots removes spots without a working thumbnail or any working media from a list of spots.\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Valid options are:\n")
		fs.PrintDefaults()
	}

	return fs
}
