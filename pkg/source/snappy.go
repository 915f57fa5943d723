package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
)

// streamMagic opens every snappy framing-format stream
var streamMagic = []byte("\xff\x06\x00\x00sNaPpY")

// Decompressing wraps a Source and inflates URIs ending in .snappy or .sz.
// Both the block and the framing format are accepted.
type Decompressing struct {
	Next Source
}

// IsCompressed reports whether uri names a snappy-compressed file
func IsCompressed(uri string) bool {
	return strings.HasSuffix(uri, ".snappy") || strings.HasSuffix(uri, ".sz")
}

func (d Decompressing) Fetch(ctx context.Context, uri string) ([]byte, error) {
	data, err := d.Next.Fetch(ctx, uri)
	if err != nil || !IsCompressed(uri) {
		return data, err
	}

	if bytes.HasPrefix(data, streamMagic) {
		out, err := io.ReadAll(snappy.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, uri, err)
		}
		return out, nil
	}

	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, uri, err)
	}
	return out, nil
}
