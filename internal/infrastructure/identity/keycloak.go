// Package identity implements the identity provider gateway against
// Keycloak. The realm owns usernames, emails and passwords; this
// service only ever stores the subject (Keycloak user id).
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/finbridge/walletcore/internal/application/ports"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
)

var _ ports.IdentityGateway = (*KeycloakGateway)(nil)

// Config holds the realm and client credentials. The client must be
// confidential with a service account allowed to manage realm users.
type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:  "http://localhost:8081",
		Realm:    "walletcore",
		ClientID: "walletcore-api",
		Timeout:  10 * time.Second,
	}
}

// KeycloakGateway talks to the realm's token endpoint and admin API.
// The admin token is obtained via client_credentials and cached until
// shortly before expiry.
type KeycloakGateway struct {
	config Config
	client *http.Client
	logger *slog.Logger

	mu          sync.Mutex
	adminToken  string
	adminExpiry time.Time
}

func NewKeycloakGateway(config Config, logger *slog.Logger) *KeycloakGateway {
	return &KeycloakGateway{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

func (g *KeycloakGateway) tokenURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", g.config.BaseURL, g.config.Realm)
}

func (g *KeycloakGateway) logoutURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/logout", g.config.BaseURL, g.config.Realm)
}

func (g *KeycloakGateway) adminUsersURL() string {
	return fmt.Sprintf("%s/admin/realms/%s/users", g.config.BaseURL, g.config.Realm)
}

// CreateUser registers the user through the admin API and returns the
// subject Keycloak assigned.
func (g *KeycloakGateway) CreateUser(ctx context.Context, username, email, password string) (string, error) {
	token, err := g.ensureAdminToken(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]interface{}{
		"username":      username,
		"email":         email,
		"enabled":       true,
		"emailVerified": false,
		"credentials": []map[string]interface{}{
			{"type": "password", "value": password, "temporary": false},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal user representation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.adminUsersURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build create user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		// Keycloak returns the new user id only in the Location header.
		location := resp.Header.Get("Location")
		subject := location[strings.LastIndex(location, "/")+1:]
		if subject == "" {
			return "", fmt.Errorf("create user response missing Location header")
		}
		return subject, nil
	case http.StatusConflict:
		return "", domainErrors.ErrEntityAlreadyExists
	default:
		return "", unexpectedStatus("create user", resp)
	}
}

// PasswordGrant exchanges username/password for a token pair.
func (g *KeycloakGateway) PasswordGrant(ctx context.Context, username, password string) (*ports.TokenPair, error) {
	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {g.config.ClientID},
		"username":   {username},
		"password":   {password},
	}
	if g.config.ClientSecret != "" {
		form.Set("client_secret", g.config.ClientSecret)
	}
	return g.requestTokens(ctx, form)
}

// Refresh exchanges a refresh token for a fresh pair.
func (g *KeycloakGateway) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {g.config.ClientID},
		"refresh_token": {refreshToken},
	}
	if g.config.ClientSecret != "" {
		form.Set("client_secret", g.config.ClientSecret)
	}
	return g.requestTokens(ctx, form)
}

// Revoke invalidates the refresh token at the provider.
func (g *KeycloakGateway) Revoke(ctx context.Context, refreshToken string) error {
	form := url.Values{
		"client_id":     {g.config.ClientID},
		"refresh_token": {refreshToken},
	}
	if g.config.ClientSecret != "" {
		form.Set("client_secret", g.config.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.logoutURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return unexpectedStatus("revoke", resp)
}

// ResolveSubject looks up the subject for a username via the admin API.
func (g *KeycloakGateway) ResolveSubject(ctx context.Context, username string) (string, error) {
	token, err := g.ensureAdminToken(ctx)
	if err != nil {
		return "", err
	}

	lookup := fmt.Sprintf("%s?username=%s&exact=true", g.adminUsersURL(), url.QueryEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookup, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build user lookup request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", unexpectedStatus("user lookup", resp)
	}

	var users []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return "", fmt.Errorf("failed to decode user lookup response: %w", err)
	}
	if len(users) == 0 {
		return "", domainErrors.ErrEntityNotFound
	}
	return users[0].ID, nil
}

// requestTokens posts to the token endpoint. 400/401 mean the grant was
// rejected and surface as ErrUnauthorized.
func (g *KeycloakGateway) requestTokens(ctx context.Context, form url.Values) (*ports.TokenPair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var tokens ports.TokenPair
		if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
			return nil, fmt.Errorf("failed to decode token response: %w", err)
		}
		return &tokens, nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, domainErrors.ErrUnauthorized
	default:
		return nil, unexpectedStatus("token grant", resp)
	}
}

// ensureAdminToken returns a cached service-account token, refreshing
// it via client_credentials when it is within a minute of expiry.
func (g *KeycloakGateway) ensureAdminToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.adminToken != "" && time.Now().Before(g.adminExpiry.Add(-time.Minute)) {
		return g.adminToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {g.config.ClientID},
		"client_secret": {g.config.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build admin token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", unexpectedStatus("admin token grant", resp)
	}

	var tokens ports.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return "", fmt.Errorf("failed to decode admin token response: %w", err)
	}

	g.adminToken = tokens.AccessToken
	g.adminExpiry = time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	g.logger.Debug("refreshed identity admin token", "expires_in", tokens.ExpiresIn)
	return g.adminToken, nil
}

func unexpectedStatus(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("identity provider %s failed: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}
