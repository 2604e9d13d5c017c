package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httpclient"
)

// AuthClient talks to the remote auth service that issues and revokes
// session tokens. Token validation itself happens locally (see
// TokenVerifier); this client only covers issuance and revocation.
type AuthClient struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
}

// NewAuthClient creates a client for the auth service at baseURL.
func NewAuthClient(baseURL string, client *httpclient.CircuitBreakerClient) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		http:    client,
	}
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// Token exchanges credentials for a signed session token.
func (c *AuthClient) Token(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(tokenRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/token", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("auth token request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", httpclient.ParseResponseError(resp, "auth")
	}
	defer func() { _ = resp.Body.Close() }()

	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if out.Data.Token == "" {
		return "", fmt.Errorf("auth returned empty token")
	}

	return out.Data.Token, nil
}

type revokeRequest struct {
	Token string `json:"token"`
}

// Revoke invalidates a token server-side. Callers treat this as
// fire-and-forget; the local session is already gone by the time it runs.
func (c *AuthClient) Revoke(ctx context.Context, token string) error {
	body, err := json.Marshal(revokeRequest{Token: token})
	if err != nil {
		return fmt.Errorf("marshal revoke request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/revoke", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("auth revoke request: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "auth")
	}
	_ = resp.Body.Close()

	return nil
}
