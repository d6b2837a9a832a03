package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/school-portal/admin-api/pkg/config"
)

// Client talks to the authentication provider's account admin endpoint.
// All calls are best effort: profile deletion proceeds regardless of outcome.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// New builds a client from configuration. A client with an empty endpoint is
// valid and reports Enabled() == false.
func New(cfg config.AuthProviderConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != ""
}

// DeleteAccount asks the provider to remove the account record for a user.
func (c *Client) DeleteAccount(ctx context.Context, userID string) error {
	if !c.Enabled() {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return fmt.Errorf("marshal delete account payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build delete account request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", userID, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("delete account %s: provider responded %d", userID, resp.StatusCode)
	}

	c.logger.Debug("auth provider account deleted", zap.String("user_id", userID))
	return nil
}
