// Package telemetry delivers the station payload. Every send is a single
// attempt: failures are returned to the caller and never retried here.
package telemetry

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrNotConnected = errors.New("not connected")

// maxResponse caps how much of the server reply is kept for logging.
const maxResponse = 4096

type Response struct {
	StatusCode int
	Body       string
}

type Uploader struct {
	URL    string
	client *http.Client
}

// NewUploader builds an HTTPS client. insecure skips certificate checks and
// is only meant for test servers.
func NewUploader(url string, insecure bool, timeout time.Duration) *Uploader {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return &Uploader{
		URL: url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Post sends body once. Any HTTP status is a Response; only transport
// failures are errors.
func (u *Uploader) Post(ctx context.Context, body []byte) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.URL, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("post %v: %w", u.URL, err)
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return Response{StatusCode: resp.StatusCode}, fmt.Errorf("read response: %w", err)
	}
	return Response{StatusCode: resp.StatusCode, Body: string(reply)}, nil
}
