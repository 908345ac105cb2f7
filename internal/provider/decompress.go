package provider

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
)

// DecompressMiddleware decodes brotli bodies, which neither net/http nor
// resty handle on their own.
func DecompressMiddleware(c *resty.Client, resp *resty.Response) error {
	if resp.Header().Get("Content-Encoding") != "br" {
		return nil
	}

	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(resp.Body())))
	if err != nil {
		return err
	}
	resp.SetBody(decompressed)
	return nil
}
