// Package ocrclient calls the formula recognition upstream which
// turns images of mathematical notation into LaTeX.
package ocrclient

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Result is one recognition outcome.
type Result struct {
	Content    string
	Confidence float64
}

type ocrResponse struct {
	Status bool `json:"status"`
	Res    struct {
		LaTeX      string  `json:"latex"`
		Confidence float64 `json:"conf"`
	} `json:"res"`
}

// Client calls the OCR upstream. Authentication uses a bare token
// header rather than a bearer scheme.
type Client struct {
	http *resty.Client
}

func New(endpoint, token string) *Client {
	client := resty.New().
		SetBaseURL(endpoint).
		SetHeader("token", token).
		SetTimeout(60 * time.Second)
	return &Client{http: client}
}

// Recognize runs standard recognition.
func (c *Client) Recognize(ctx context.Context, image []byte) (Result, error) {
	return c.post(ctx, "/latex_ocr", image)
}

// RecognizeTurbo runs the faster, lower accuracy variant.
func (c *Client) RecognizeTurbo(ctx context.Context, image []byte) (Result, error) {
	return c.post(ctx, "/latex_ocr_turbo", image)
}

func (c *Client) post(ctx context.Context, path string, image []byte) (Result, error) {
	var parsed ocrResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", "image", bytes.NewReader(image)).
		SetResult(&parsed).
		Post(path)
	if err != nil {
		return Result{}, fmt.Errorf("ocrclient: request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return Result{}, fmt.Errorf("ocrclient: upstream returned status %d", resp.StatusCode())
	}
	if !parsed.Status {
		return Result{}, fmt.Errorf("ocrclient: recognition failed")
	}
	return Result{Content: parsed.Res.LaTeX, Confidence: parsed.Res.Confidence}, nil
}
