package ulip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/pkg/logger"

	"golang.org/x/oauth2"
)

// ULIP does not report token lifetime on login; staging tokens last an hour,
// so refresh comfortably before that.
const tokenLifetime = 30 * time.Minute

// loginTimeout bounds the login round trip. oauth2.TokenSource carries no
// context, so the call runs under its own deadline.
const loginTimeout = 30 * time.Second

// loginTokenSource obtains a ULIP bearer token through the user/login
// endpoint. NewClient wraps it in oauth2.ReuseTokenSource so a token is
// fetched once and reused until it expires.
type loginTokenSource struct {
	baseURL  string
	username string
	password string
	client   *http.Client
	logger   logger.Logger
}

// Token performs the login call. Failures wrap entity.ErrProviderAuth.
func (s *loginTokenSource) Token() (*oauth2.Token, error) {
	body, err := json.Marshal(map[string]string{
		"username": s.username,
		"password": s.password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal login payload: %v", entity.ErrProviderAuth, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/user/login", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderAuth, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: login returned status %d", entity.ErrProviderAuth, resp.StatusCode)
	}

	var loginResp struct {
		Error    string `json:"error"`
		Code     string `json:"code"`
		Response struct {
			ID string `json:"id"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %v", entity.ErrProviderAuth, err)
	}
	if loginResp.Error != "false" || loginResp.Code != "200" {
		return nil, fmt.Errorf("%w: error=%s code=%s", entity.ErrProviderAuth, loginResp.Error, loginResp.Code)
	}

	s.logger.Debug("Obtained ULIP token")
	return &oauth2.Token{
		AccessToken: loginResp.Response.ID,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(tokenLifetime),
	}, nil
}
