package github

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateWriterURI(t *testing.T) {

	ctx := context.Background()

	opts := &UpdateWriterURIOptions{
		Author: "sfomuseum",
		Action: "cleaned spots",
		Label:  "spots-cleaned",
	}

	uri, err := UpdateWriterURI(ctx, opts, "githubapi://sfomuseum/travel-website?branch=main&access_token=s33kret&update=old")
	require.NoError(t, err)

	u, err := url.Parse(uri)
	require.NoError(t, err)

	q := u.Query()

	assert.Equal(t, "githubapi", u.Scheme)
	assert.Equal(t, "main", q.Get("branch"))
	assert.Equal(t, "s33kret", q.Get("access_token"))
	assert.Equal(t, "[sfomuseum] cleaned spots %s", q.Get("new"))
	assert.Equal(t, "[sfomuseum] cleaned spots %s", q.Get("update"))

	uri, err = UpdateWriterURI(ctx, opts, "githubapi-pr://sfomuseum/travel-website?pr-branch=old")
	require.NoError(t, err)

	u, err = url.Parse(uri)
	require.NoError(t, err)

	q = u.Query()

	assert.Equal(t, "sfomuseum-spots-cleaned", q.Get("pr-branch"))
	assert.Equal(t, "[sfomuseum] cleaned spots (spots-cleaned)", q.Get("pr-title"))
	assert.Equal(t, q.Get("pr-title"), q.Get("pr-description"))
}

func TestUpdateWriterURIUnchanged(t *testing.T) {

	ctx := context.Background()

	uris := []string{
		"fs:///usr/local/data/travel-website/data",
		"stdout://",
	}

	for _, uri := range uris {

		new_uri, err := UpdateWriterURI(ctx, &UpdateWriterURIOptions{Author: "a"}, uri)
		require.NoError(t, err)

		assert.Equal(t, uri, new_uri)
	}
}

func TestUpdateWriterURIInvalid(t *testing.T) {

	_, err := UpdateWriterURI(context.Background(), &UpdateWriterURIOptions{}, "githubapi://%zz")
	assert.Error(t, err)
}
