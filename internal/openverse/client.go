// Package openverse is an authenticated client for the Openverse media API.
// Responses are passed through as untyped JSON documents.
package openverse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public Openverse v1 API.
const DefaultBaseURL = "https://api.openverse.org/v1/"

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// Document is an upstream JSON object returned verbatim.
type Document = map[string]interface{}

// Config configures a Client.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	// ReauthOnUnauthorized re-authenticates and replays a request once when upstream answers 401.
	ReauthOnUnauthorized bool
}

func (c Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/") + "/"
}

// ImageSearch holds the parameters of an image search. Empty filters are not sent.
type ImageSearch struct {
	Query       string
	Page        int
	PageSize    int
	LicenseType string
	Creator     string
	Tags        []string
}

// AudioSearch holds the parameters of an audio search. Empty filters are not sent.
type AudioSearch struct {
	Query       string
	Page        int
	PageSize    int
	LicenseType string
}

// Client performs authenticated calls against the Openverse API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials *Credentials
	reauth      bool
}

// NewClient creates a Client. It is meant to be built once per process and shared.
func NewClient(cfg Config) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &Client{
		baseURL:     cfg.baseURL(),
		httpClient:  httpClient,
		credentials: NewCredentials(cfg, httpClient),
		reauth:      cfg.ReauthOnUnauthorized,
	}
}

// Credentials exposes the client's credential manager.
func (c *Client) Credentials() *Credentials {
	return c.credentials
}

// FetchToken forces a fresh credential exchange.
func (c *Client) FetchToken(ctx context.Context) (*Token, error) {
	return c.credentials.Authenticate(ctx)
}

// SearchImages calls GET images/.
func (c *Client) SearchImages(ctx context.Context, s ImageSearch) (Document, error) {
	params := pageParams(s.Query, s.Page, s.PageSize)
	setIf(params, "license_type", s.LicenseType)
	setIf(params, "creator", s.Creator)
	if len(s.Tags) > 0 {
		params.Set("tags", strings.Join(s.Tags, ","))
	}

	var doc Document
	if err := c.get(ctx, "images/", params, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SearchAudio calls GET audio/.
func (c *Client) SearchAudio(ctx context.Context, s AudioSearch) (Document, error) {
	params := pageParams(s.Query, s.Page, s.PageSize)
	setIf(params, "license_type", s.LicenseType)

	var doc Document
	if err := c.get(ctx, "audio/", params, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ImageDetail calls GET images/{id}/.
func (c *Client) ImageDetail(ctx context.Context, id string) (Document, error) {
	return c.getDocument(ctx, "images/"+url.PathEscape(id)+"/")
}

// AudioDetail calls GET audio/{id}/.
func (c *Client) AudioDetail(ctx context.Context, id string) (Document, error) {
	return c.getDocument(ctx, "audio/"+url.PathEscape(id)+"/")
}

// ImageStats calls GET images/stats/, which answers with a list of sources.
func (c *Client) ImageStats(ctx context.Context) ([]Document, error) {
	return c.getList(ctx, "images/stats/")
}

// AudioStats calls GET audio/stats/.
func (c *Client) AudioStats(ctx context.Context) ([]Document, error) {
	return c.getList(ctx, "audio/stats/")
}

// RateLimit calls GET rate_limit/.
func (c *Client) RateLimit(ctx context.Context) (Document, error) {
	return c.getDocument(ctx, "rate_limit/")
}

// RegisterApplication registers a new API application. The response carries
// the client id and secret to put in the configuration.
func (c *Client) RegisterApplication(ctx context.Context, name, description, email string) (Document, error) {
	body, err := json.Marshal(map[string]string{
		"name":        name,
		"description": description,
		"email":       email,
	})
	if err != nil {
		return nil, fmt.Errorf("encode registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"auth_tokens/register/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: auth_tokens/register/: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: readBody(resp)}
	}
	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: auth_tokens/register/: decode: %w", ErrTransport, err)
	}
	return doc, nil
}

func (c *Client) getDocument(ctx context.Context, path string) (Document, error) {
	var doc Document
	if err := c.get(ctx, path, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) getList(ctx context.Context, path string) ([]Document, error) {
	var docs []Document
	if err := c.get(ctx, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// get performs an authenticated GET and decodes a 200 body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	resp, err := c.do(ctx, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %s: decode: %w", ErrTransport, path, err)
		}
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimitExceeded, readBody(resp))
	default:
		return &UpstreamError{StatusCode: resp.StatusCode, Body: readBody(resp)}
	}
}

func (c *Client) do(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	for attempt := 0; ; attempt++ {
		token, err := c.credentials.Token(ctx)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request %s: %w", path, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTransport, path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && c.reauth && attempt == 0 {
			drain(resp)
			c.credentials.Invalidate(token)
			continue
		}
		return resp, nil
	}
}

func pageParams(query string, page, pageSize int) url.Values {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return url.Values{
		"q":         {query},
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
}

func setIf(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

// readBody returns the decoded JSON body, or the raw text when it is not JSON.
func readBody(resp *http.Response) interface{} {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Sprintf("unreadable body: %v", err)
	}
	var body interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return body
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
}

