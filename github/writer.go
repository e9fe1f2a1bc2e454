package github

import (
	"context"
	"fmt"
	"net/url"
)

// UpdateWriterURIOptions defines the author and description used to annotate commits and pull requests
// created by "githubapi" and "githubapi-pr" writers.
type UpdateWriterURIOptions struct {
	// The name of the person or process responsible for the update.
	Author string
	// A short description of the update, for example "cleaned spots".
	Action string
	// A label identifying the data being updated. This is used to derive pull request branch names.
	Label string
}

// UpdateWriterURI assigns commit messages (githubapi) or pull request details (githubapi-pr) derived
// from 'opts' to 'writer_uri'. URIs with any other scheme are returned unchanged.
func UpdateWriterURI(ctx context.Context, opts *UpdateWriterURIOptions, writer_uri string) (string, error) {

	wr_u, err := url.Parse(writer_uri)

	if err != nil {
		return "", fmt.Errorf("Failed to parse URI, %w", err)
	}

	switch wr_u.Scheme {

	case "githubapi":

		// The writer replaces the trailing %s with the path of the file being written
		update_msg := fmt.Sprintf("[%s] %s ", opts.Author, opts.Action) + "%s"

		wr_q := wr_u.Query()

		wr_q.Set("new", update_msg)
		wr_q.Set("update", update_msg)

		wr_u.RawQuery = wr_q.Encode()

	case "githubapi-pr":

		title := fmt.Sprintf("[%s] %s (%s)", opts.Author, opts.Action, opts.Label)
		description := title

		branch := fmt.Sprintf("%s-%s", opts.Author, opts.Label)

		wr_q := wr_u.Query()

		wr_q.Set("pr-branch", branch)
		wr_q.Set("pr-title", title)
		wr_q.Set("pr-description", description)

		wr_u.RawQuery = wr_q.Encode()

	default:
		return writer_uri, nil
	}

	return wr_u.String(), nil
}
