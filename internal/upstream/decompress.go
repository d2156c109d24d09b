package upstream

import (
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// decodeBody unwraps the response body according to Content-Encoding.
// The default stdlib transport only handles gzip it negotiated itself;
// advertising zstd means decoding both here.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "zstd":
		dec, err := zstd.NewReader(resp.Body, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return &zstdBody{decoder: dec, body: resp.Body}, nil
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}

type zstdBody struct {
	decoder *zstd.Decoder
	body    io.Closer
}

func (z *zstdBody) Read(p []byte) (int, error) {
	return z.decoder.Read(p)
}

func (z *zstdBody) Close() error {
	z.decoder.Close()
	return nil
}
