// Package netx fetches objects through presigned URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DownloadFromPresignedURL GETs url with client and returns the body.
// A nil client means http.DefaultClient.
func DownloadFromPresignedURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	return io.ReadAll(resp.Body)
}
