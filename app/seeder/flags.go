package seeder

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sfomuseum/go-flags/flagset"
	"github.com/sfomuseum/go-sfomuseum-spots"
)

var reader_uri string
var input string

var database string

var sql_writer_uri string
var sql_output string

var access_token_uri string
var author string

var verbose bool

func DefaultFlagSet(ctx context.Context) *flag.FlagSet {

	fs := flagset.NewFlagSet("seed")

	fs.StringVar(&reader_uri, "reader-uri", spots.DEFAULT_DATA_READER_URI, "A valid whosonfirst/go-reader URI for reading the cleaned list of spots.")
	fs.StringVar(&input, "input", spots.DEFAULT_SPOTS_OUTPUT, "The path (relative to -reader-uri) of the cleaned list of spots.")

	fs.StringVar(&database, "database", "", "If not empty, the path of a SQLite database to load spots and media into. The database is created if it does not exist.")

	fs.StringVar(&sql_writer_uri, "sql-writer-uri", spots.DEFAULT_SQL_WRITER_URI, "A valid whosonfirst/go-writer URI for writing the SQL seed script.")
	fs.StringVar(&sql_output, "sql-output", spots.DEFAULT_SQL_OUTPUT, "The path (relative to -sql-writer-uri) of the SQL seed script. If empty no script is written.")

	fs.StringVar(&access_token_uri, "access-token", "", "A valid gocloud.dev/runtimevar URI containing a GitHub API access token, used by githubapi:// writers.")
	fs.StringVar(&author, "author", "", "If not empty, the name used to label commits and pull requests created by githubapi:// writers.")

	fs.BoolVar(&verbose, "verbose", false, "Enable verbose (debug) logging.")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "seed-spots loads a cleaned list of spots into a SQLite database and/or writes them out as a SQL seed script.\n")
		fmt.Fprintf(os.Stderr, "Usage:\n\t %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Valid options are:\n")
		fs.PrintDefaults()
	}

	return fs
}
