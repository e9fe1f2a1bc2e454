package writers

import (
	"bufio"
	"bytes"
	"context"
	"fmt"

	"github.com/sfomuseum/go-sfomuseum-spots/github"
	"github.com/whosonfirst/go-writer/v3"
)

// Writers pairs a `writer.Writer` with an in-memory copy of everything written to it.
type Writers struct {
	// The writer.Writer instance derived from the writer URI.
	Writer writer.Writer
	// A writer.Writer instance that dispatches to Writer and the local buffer.
	MultiWriter writer.Writer

	buf       *bytes.Buffer
	bufWriter *bufio.Writer
}

type CreateWritersOptions struct {
	WriterURI           string
	GithubWriterOptions *github.UpdateWriterURIOptions
}

func CreateWriters(ctx context.Context, opts *CreateWritersOptions) (*Writers, error) {

	writer_uri := opts.WriterURI

	if opts.GithubWriterOptions != nil {

		var err error

		writer_uri, err = github.UpdateWriterURI(ctx, opts.GithubWriterOptions, writer_uri)

		if err != nil {
			return nil, fmt.Errorf("Failed to update writer URI, %w", err)
		}
	}

	wr, err := writer.NewWriter(ctx, writer_uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to create new writer for '%s', %w", writer_uri, err)
	}

	// Keep a local copy of whatever gets written so it can be returned in (Lambda) responses
	// regardless of where the writer sends it.

	var local_buf bytes.Buffer
	local_buf_writer := bufio.NewWriter(&local_buf)

	local_writer, err := writer.NewIOWriterWithWriter(ctx, local_buf_writer)

	if err != nil {
		return nil, fmt.Errorf("Failed to create IOWriter, %w", err)
	}

	mw, err := writer.NewMultiWriter(ctx, wr, local_writer)

	if err != nil {
		return nil, fmt.Errorf("Failed to create multi writer, %w", err)
	}

	all_writers := &Writers{
		Writer:      wr,
		MultiWriter: mw,
		buf:         &local_buf,
		bufWriter:   local_buf_writer,
	}

	return all_writers, nil
}

// Bytes returns a copy of everything written to the MultiWriter so far.
func (writers *Writers) Bytes() ([]byte, error) {

	err := writers.bufWriter.Flush()

	if err != nil {
		return nil, fmt.Errorf("Failed to flush local buffer, %w", err)
	}

	body := make([]byte, writers.buf.Len())
	copy(body, writers.buf.Bytes())

	return body, nil
}

// Close closes the underlying writer.
func (writers *Writers) Close(ctx context.Context) error {
	return writers.Writer.Close(ctx)
}
