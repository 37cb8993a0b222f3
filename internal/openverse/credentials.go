package openverse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Token is the credential returned by the client-credentials exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Credentials obtains and holds the bearer token used for every upstream call.
// Expiry is not tracked locally; callers Invalidate the token when upstream rejects it.
type Credentials struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu    sync.Mutex
	token string
}

// NewCredentials creates a credential manager. No network call is made until a token is needed.
func NewCredentials(cfg Config, httpClient *http.Client) *Credentials {
	return &Credentials{
		baseURL:      cfg.baseURL(),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
	}
}

// Authenticate exchanges the client id and secret for a new bearer token and holds it.
func (c *Credentials) Authenticate(ctx context.Context) (*Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

// Token returns the held bearer token, authenticating first if none is held.
func (c *Credentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}
	tok, err := c.authenticateLocked(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Invalidate drops the held token if it is still stale. A token refreshed by
// another caller in the meantime is kept.
func (c *Credentials) Invalidate(stale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == stale {
		c.token = ""
	}
}

func (c *Credentials) authenticateLocked(ctx context.Context) (*Token, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"auth_tokens/token/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: auth_tokens/token/: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: readBody(resp)}
	}

	var tok Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("%w: auth_tokens/token/: decode: %w", ErrTransport, err)
	}
	if tok.AccessToken == "" {
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: "response carried no access_token"}
	}
	c.token = tok.AccessToken
	return &tok, nil
}
