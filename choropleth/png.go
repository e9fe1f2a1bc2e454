package choropleth

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/whosonfirst/go-writer/v3"
)

// EncodePNG returns 'img' encoded as a PNG image.
func EncodePNG(img image.Image) ([]byte, error) {

	var buf bytes.Buffer

	err := png.Encode(&buf, img)

	if err != nil {
		return nil, fmt.Errorf("Failed to encode PNG, %w", err)
	}

	return buf.Bytes(), nil
}

// WritePNG encodes 'img' as a PNG image and writes it to 'key' using 'wr'.
func WritePNG(ctx context.Context, wr writer.Writer, key string, img image.Image) (int64, error) {

	body, err := EncodePNG(img)

	if err != nil {
		return 0, err
	}

	n, err := wr.Write(ctx, key, bytes.NewReader(body))

	if err != nil {
		return n, fmt.Errorf("Failed to write %s, %w", key, err)
	}

	return n, nil
}
