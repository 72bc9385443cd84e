// Package session keeps an admin console's view of the remote product store
// truthful about who is logged in and what the store holds.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// ProductInput is the full field set sent on create and update. Price is
// passed through as typed; the store validates it.
type ProductInput struct {
	Name        string
	Price       string
	Description string
	Category    string

	// Image is optional. ImageName is the file name reported to the store.
	Image     io.Reader
	ImageName string
}

// StatusError is a non-2xx answer other than 401.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("remote store returned %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("remote store returned %d", e.Code)
}

// client speaks the store's HTTP contract. Credentials live only in the
// cookie jar.
type client struct {
	base string
	http *http.Client
}

func newClient(baseURL string, hc *http.Client) (*client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	var c http.Client
	if hc != nil {
		c = *hc
	}
	if c.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.Jar = jar
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	return &client{base: strings.TrimRight(baseURL, "/"), http: &c}, nil
}

func (c *client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func (c *client) postJSON(ctx context.Context, path string, v any) (*http.Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(b))
}

func (c *client) sendProduct(ctx context.Context, method, path string, in ProductInput) (*http.Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", in.Name},
		{"price", in.Price},
		{"description", in.Description},
		{"category", in.Category},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if in.Image != nil {
		name := in.ImageName
		if name == "" {
			name = "image"
		}
		fw, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, in.Image); err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, w.FormDataContentType(), &buf)
}

// drain discards the rest of a response so the connection can be reused.
func drain(res *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
	_ = res.Body.Close()
}

// errorDetail pulls a human-readable reason out of an error body.
func errorDetail(res *http.Response) string {
	defer drain(res)
	var body struct {
		Message string            `json:"message"`
		Detail  string            `json:"detail"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&body); err != nil {
		return ""
	}
	switch {
	case body.Message != "":
		return body.Message
	case body.Detail != "":
		return body.Detail
	case len(body.Errors) > 0:
		keys := make([]string, 0, len(body.Errors))
		for k := range body.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := make([]string, 0, len(keys))
		for _, k := range keys {
			msgs = append(msgs, body.Errors[k])
		}
		return strings.Join(msgs, " ")
	}
	return ""
}
