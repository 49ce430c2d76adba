package ulip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/internal/domain/repository"
	"github.com/dockervision/ulip-vehicle-management/pkg/logger"

	"golang.org/x/oauth2"
)

// Client calls the ULIP container trail API (LDB/01). Credentials come in
// through configuration; nothing is hardcoded here.
type Client struct {
	baseURL string
	tokens  oauth2.TokenSource
	client  *http.Client
	logger  logger.Logger
}

// NewClient creates a ULIP client with cached bearer tokens
func NewClient(baseURL, username, password string, logger logger.Logger) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	source := &loginTokenSource{
		baseURL:  baseURL,
		username: username,
		password: password,
		client:   httpClient,
		logger:   logger,
	}

	return &Client{
		baseURL: baseURL,
		tokens:  oauth2.ReuseTokenSource(nil, source),
		client:  httpClient,
		logger:  logger,
	}
}

// FetchTrail fetches the raw container trail payload. Auth failures wrap
// entity.ErrProviderAuth; network and non-200 failures wrap
// entity.ErrProviderUnavailable.
func (c *Client) FetchTrail(ctx context.Context, containerNumber string) ([]byte, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{"containerNumber": containerNumber})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal trail request: %v", entity.ErrProviderUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/LDB/01", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", token.TokenType+" "+token.AccessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: trail fetch returned status %d", entity.ErrProviderUnavailable, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read trail response: %v", entity.ErrProviderUnavailable, err)
	}

	c.logger.Debug("Fetched container trail", "container", containerNumber, "bytes", len(payload))
	return payload, nil
}

var _ repository.TrackingProvider = (*Client)(nil)
