// Package backend is the authenticated HTTP client for the care-home REST API.
//
// Every request reads the current bearer token at send time through a TokenSource,
// so a Client built once at startup always carries the freshest credentials.
// Responses use the {success, data, message, pagination} envelope; failures are
// returned as typed errors from internal/errors.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"

	apperrors "github.com/carehaven/carehome-admin/internal/errors"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:9091/api"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 16 << 20

// TokenSource returns the bearer token to attach to a request, or "" for none.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) string

// Token implements TokenSource.
func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (s StaticToken) Token(context.Context) string { return string(s) }

type anonymousKey struct{}

// Anonymous marks ctx so requests made with it carry no Authorization header.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

// BearerTransport sets Authorization: Bearer <token> when the source yields a token.
type BearerTransport struct {
	Base   http.RoundTripper
	Source TokenSource
}

// RoundTrip implements http.RoundTripper. The caller's request is never modified.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Source == nil || isAnonymous(req.Context()) {
		return base.RoundTrip(req)
	}
	tok := t.Source.Token(req.Context())
	if tok == "" {
		return base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(clone)
	return base.RoundTrip(clone)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	// CookieJar keeps backend cookies between calls. Enable only for single-user
	// processes such as the CLI; the server shares one Client across browsers.
	CookieJar bool
	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client issues requests against the backend.
type Client struct {
	baseURL *url.URL
	hc      *http.Client
	logger  *slog.Logger
}

// NewClient builds a Client. An empty BaseURL falls back to DefaultBaseURL.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http or https, got %q", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hc := &http.Client{
		Timeout:   timeout,
		Transport: &BearerTransport{Base: cfg.Transport, Source: cfg.Tokens},
	}
	if cfg.CookieJar {
		jar, jarErr := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if jarErr != nil {
			return nil, fmt.Errorf("create cookie jar: %w", jarErr)
		}
		hc.Jar = jar
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{baseURL: base, hc: hc, logger: logger.With("component", "backend")}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Endpoint resolves path (and optional query) against the base URL.
// path is already escaped; segments built from ids use url.PathEscape.
func (c *Client) Endpoint(path string, query url.Values) string {
	u := *c.baseURL
	rel := strings.TrimLeft(path, "/")
	unescaped, err := url.PathUnescape(rel)
	if err != nil {
		unescaped = rel
	}
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + unescaped
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + rel
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Request describes one backend call.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
	Header      http.Header
}

// Response is a decoded envelope.
type Response struct {
	Status int
	// Data is the raw "data" member.
	Data json.RawMessage
	// Document is the whole body decoded into generic JSON, for normalizers.
	Document any
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// Do sends req and decodes the envelope. Non-2xx statuses, success=false, transport
// failures and undecodable bodies all come back as *errors.AppError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	op := req.Method + " " + req.Path
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.Endpoint(req.Path, req.Query), req.Body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "build request %s", op)
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		c.logger.DebugContext(ctx, "backend request failed", "op", op, "error", err)
		return nil, apperrors.FromTransport(err, op)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.FromTransport(err, "read "+op)
	}
	c.logger.DebugContext(ctx, "backend request",
		"op", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appErr := apperrors.FromStatus(resp.StatusCode, env.text())
		return nil, appErr
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &Response{Status: resp.StatusCode}, nil
	}
	if decodeErr != nil {
		return nil, apperrors.Wrapf(decodeErr, apperrors.ErrCodeDecode, "decode %s", op)
	}
	if env.Success != nil && !*env.Success {
		return nil, apperrors.Rejected(env.text())
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeDecode, "decode %s", op)
	}
	return &Response{Status: resp.StatusCode, Data: env.Data, Document: doc}, nil
}

// decodeData unmarshals the envelope data member into T.
func decodeData[T any](resp *Response, op string) (T, error) {
	var out T
	if resp == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return out, apperrors.Wrap(errors.New("empty data"), apperrors.ErrCodeDecode, op)
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, apperrors.Wrapf(err, apperrors.ErrCodeDecode, "decode %s", op)
	}
	return out, nil
}

// getJSON fetches a single record.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData[T](resp, "GET "+path)
}

// sendJSON encodes payload as the request body and decodes the returned record.
func sendJSON[T any](ctx context.Context, c *Client, method, path string, payload any) (T, error) {
	var zero T
	body, err := json.Marshal(payload)
	if err != nil {
		return zero, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode %s %s", method, path)
	}
	resp, err := c.Do(ctx, Request{
		Method:      method,
		Path:        path,
		Body:        bytes.NewReader(body),
		ContentType: "application/json",
	})
	if err != nil {
		return zero, err
	}
	return decodeData[T](resp, method+" "+path)
}

// sendMultipart encodes form as the request body and decodes the returned record.
func sendMultipart[T any](ctx context.Context, c *Client, method, path string, form *Multipart) (T, error) {
	var zero T
	body, contentType, err := form.Encode()
	if err != nil {
		return zero, err
	}
	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: body, ContentType: contentType})
	if err != nil {
		return zero, err
	}
	return decodeData[T](resp, method+" "+path)
}
