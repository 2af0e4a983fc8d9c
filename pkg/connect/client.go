package connect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bwconnect/bwconnect-go/pkg/common"
	"github.com/bwconnect/bwconnect-go/pkg/log"
)

const (
	// Application identity registered with the Ayla platform for the
	// Bradford White Connect mobile app.
	appID     = "BW-Bw-id"
	appSecret = "BW-1rzhJw2BsALGBW2PVLTqaJIn-yE"

	defaultDeviceURL = "https://ads-field.aylanetworks.com"
	defaultUserURL   = "https://user-field.aylanetworks.com"

	signInPath = "/users/sign_in.json"

	defaultRetryAttempts = 6
	defaultRetryWait     = 10 * time.Second
)

// Client is a single-session client for the Bradford White Connect cloud.
// It signs in with the account credentials on demand and re-authenticates
// transparently when the platform rejects the current token.
type Client struct {
	client    *http.Client
	deviceURL string
	userURL   string
	email     string
	password  string

	retryAttempts int
	retryWait     time.Duration
	retryPosts    bool

	// mu guards token and serializes re-authentication so concurrent 401s
	// don't race each other into duplicate sign-ins.
	mu    sync.Mutex
	token string
}

// NewClient returns a Client for the given account. If client is nil a
// pooled client with a one minute timeout is used.
func NewClient(email, password string, client *http.Client) *Client {
	if client == nil {
		client = common.HTTPClient(time.Minute)
	}
	return &Client{
		client:        client,
		deviceURL:     defaultDeviceURL,
		userURL:       defaultUserURL,
		email:         email,
		password:      password,
		retryAttempts: defaultRetryAttempts,
		retryWait:     defaultRetryWait,
	}
}

// generateHeaders returns the fixed identity headers merged with any per-call
// additions. Additions win on conflict.
func (c *Client) generateHeaders(additional map[string]string) map[string]string {
	headers := map[string]string{
		"accept":          "*/*",
		"accept-language": "en;q=1, am-US;q=0.9",
	}
	for k, v := range additional {
		headers[k] = v
	}
	return headers
}

// Authenticate exchanges the account credentials for a fresh bearer token,
// replacing any prior token. It performs a bare POST rather than going
// through the retrying request layer so an expired token can never trigger a
// sign-in loop.
func (c *Client) Authenticate(ctx context.Context) error {
	payload := map[string]interface{}{
		"user": map[string]interface{}{
			"email": c.email,
			"application": map[string]string{
				"app_id":     appID,
				"app_secret": appSecret,
			},
			"password": c.password,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.userURL+signInPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	for k, v := range c.generateHeaders(map[string]string{"content-type": "application/json"}) {
		req.Header.Set(k, v)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Anything without an access token means the platform rejected the
	// credentials; the prior token is left untouched.
	var res signInResult
	if err := json.Unmarshal(respBody, &res); err != nil || res.AccessToken == "" {
		log.Ctx(ctx).WarnContext(ctx, "sign-in did not grant a token",
			slog.Int("status", resp.StatusCode))
		return &AuthenticationError{Message: "authentication failed"}
	}

	log.Ctx(ctx).DebugContext(ctx, "sign-in success", slog.String("email", c.email))
	c.token = res.AccessToken
	return nil
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// getJSON sends a GET and decodes the JSON response into dest. Unknown
// errors are retried by the outer bounded policy.
func (c *Client) getJSON(ctx context.Context, uri string, headers map[string]string, params url.Values, dest interface{}) error {
	return c.withRetry(ctx, true, func() error {
		return c.doJSON(ctx, "GET", uri, headers, params, nil, dest)
	})
}

// postJSON sends a POST with the given body and decodes the JSON response
// into dest. The outer retry policy only applies when the client was
// configured to retry POSTs.
func (c *Client) postJSON(ctx context.Context, uri string, headers map[string]string, body []byte, dest interface{}) error {
	return c.withRetry(ctx, c.retryPosts, func() error {
		return c.doJSON(ctx, "POST", uri, headers, nil, body, dest)
	})
}

// withRetry runs fn up to retryAttempts times, waiting retryWait between
// attempts, retrying only the distinguished unknown errors. Authentication
// and HTTP errors surface immediately.
func (c *Client) withRetry(ctx context.Context, retry bool, fn func() error) error {
	attempts := c.retryAttempts
	if !retry || attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			log.Ctx(ctx).DebugContext(ctx, "retrying after unknown error",
				slog.Int("attempt", i+1), slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryWait):
			}
		}
		err = fn()
		var unknown *UnknownError
		if err == nil || !errors.As(err, &unknown) {
			return err
		}
	}
	return err
}

// doJSON issues a single request with at most one re-authentication when the
// platform rejects the current token. The two-phase loop is deliberately
// independent of the outer retry policy.
func (c *Client) doJSON(ctx context.Context, method, uri string, headers map[string]string, params url.Values, body []byte, dest interface{}) error {
	retriedAfterLogin := false
	for {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, uri, reader)
		if err != nil {
			return err
		}
		if params != nil {
			// merge rather than replace so pagination cursors already on
			// the URL survive
			q := req.URL.Query()
			for k, vs := range params {
				for _, v := range vs {
					q.Set(k, v)
				}
			}
			req.URL.RawQuery = q.Encode()
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		if token := c.currentToken(); token != "" {
			req.Header.Set("authorization", "auth_token "+token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusUnauthorized {
			if retriedAfterLogin {
				return &UnknownError{Status: "received status code 401 after logging in"}
			}
			log.Ctx(ctx).DebugContext(ctx, "token may be expired, signing in again",
				slog.String("uri", uri))
			if err := c.Authenticate(ctx); err != nil {
				return err
			}
			retriedAfterLogin = true
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &HTTPError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       string(respBody),
			}
		}

		if dest != nil {
			if err := json.Unmarshal(respBody, dest); err != nil {
				log.Ctx(ctx).ErrorContext(ctx, "failed to decode response",
					slog.Any("error", err), slog.String("uri", uri))
				return err
			}
		}
		return nil
	}
}
