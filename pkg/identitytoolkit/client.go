// Package identitytoolkit is a small client for the Firebase Identity Toolkit
// REST API, which handles email and password accounts. The Admin SDK does not
// sign users in, so this fills that gap.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mykitchen/kitchen/pkg/logger"
)

// Client represents an Identity Toolkit API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// SignUp creates an email/password account and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.passwordCall(ctx, "accounts:signUp", email, password)
}

// SignInWithPassword exchanges credentials for an ID token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.passwordCall(ctx, "accounts:signInWithPassword", email, password)
}

func (c *Client) passwordCall(ctx context.Context, endpoint, email, password string) (*AuthResponse, error) {
	body, err := c.doRequest(ctx, endpoint, PasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
	}
	if resp.IDToken == "" || resp.LocalID == "" {
		return nil, fmt.Errorf("%w: %s returned no token", ErrRequestFailed, endpoint)
	}
	return &resp, nil
}

// doRequest performs a POST against endpoint and returns the raw success body.
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	u := fmt.Sprintf("%s/%s?key=%s", strings.TrimRight(c.config.BaseURL, "/"), endpoint, url.QueryEscape(c.config.APIKey))

	logger.Debug("Identity toolkit request", map[string]interface{}{
		"endpoint": endpoint,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
			return nil, fmt.Errorf("%w: unexpected status code %d", ErrRequestFailed, resp.StatusCode)
		}

		logger.Warn("Identity toolkit rejected request", map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
			"message":  errResp.Error.Message,
		})
		return nil, fmt.Errorf("%w: %s", errorFor(errResp.Error.Message), errResp.Error.Message)
	}

	return body, nil
}
