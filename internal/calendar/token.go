package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"main/internal/database"
)

const defaultTokenURL = "https://www.googleapis.com/oauth2/v4/token"

// refreshSkew is how close to expiry a token may get before it is
// refreshed ahead of use.
const refreshSkew = 60 * time.Second

// TokenState is the explicit state of the Google token lifecycle for one
// user: Linked -> Refreshing -> {Active, Revoked}.
type TokenState int

const (
	// StateLinked is the entry state: a google account row exists.
	StateLinked TokenState = iota
	// StateRefreshing means the stored access token was expired or about
	// to expire and a refresh exchange is in flight.
	StateRefreshing
	// StateActive means the access token is usable as-is.
	StateActive
	// StateRevoked means the refresh token no longer works; the account
	// row was deleted and the user's google linkage cleared.
	StateRevoked
)

func (s TokenState) String() string {
	switch s {
	case StateLinked:
		return "linked"
	case StateRefreshing:
		return "refreshing"
	case StateActive:
		return "active"
	case StateRevoked:
		return "revoked"
	}
	return "unknown"
}

// TokenManager resolves a usable Google access token for a user,
// refreshing and persisting it when stale, and cleaning up the account
// linkage when the refresh token turns out to be revoked.
type TokenManager struct {
	users        database.UserStore
	accounts     database.AccountStore
	clientID     string
	clientSecret string
	tokenURL     string
	http         *http.Client
	now          func() time.Time
	logger       *zap.Logger
}

// NewTokenManager builds a TokenManager against the Google token endpoint.
func NewTokenManager(users database.UserStore, accounts database.AccountStore, clientID, clientSecret string, logger *zap.Logger) *TokenManager {
	return &TokenManager{
		users:        users,
		accounts:     accounts,
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		http:         &http.Client{Timeout: 10 * time.Second},
		now:          time.Now,
		logger:       logger,
	}
}

// SetTokenURL overrides the token endpoint. Used by tests.
func (m *TokenManager) SetTokenURL(u string) { m.tokenURL = u }

// AccessToken returns a usable access token for the user's google account
// and the terminal state it reached. A Revoked outcome is not an error:
// the stored account row has been deleted and the user's googleUserId
// cleared, and callers are expected to no-op.
func (m *TokenManager) AccessToken(ctx context.Context, userID string) (string, TokenState, error) {
	account, err := m.accounts.FindGoogleAccount(userID)
	if err != nil {
		return "", StateLinked, err
	}
	if account == nil || account.AccessToken == nil || account.RefreshToken == nil || account.ExpiresAt == nil {
		return "", StateRevoked, nil
	}

	if *account.ExpiresAt >= m.now().Add(refreshSkew).Unix() {
		return *account.AccessToken, StateActive, nil
	}

	state := StateRefreshing
	m.logger.Info("refreshing google access token", zap.String("user_id", userID), zap.String("state", state.String()))

	token, expiresAt, ok, err := m.refresh(ctx, *account.RefreshToken)
	if err != nil {
		return "", state, err
	}
	if !ok {
		// The refresh token was revoked. Drop the account row and clear
		// the linkage id; the sync entry points treat this as a no-op.
		if err := m.accounts.DeleteGoogleAccount(userID); err != nil {
			return "", state, err
		}
		if err := m.users.ClearGoogleUserID(userID); err != nil {
			return "", state, err
		}
		m.logger.Warn("google refresh token revoked, unlinked account", zap.String("user_id", userID))
		return "", StateRevoked, nil
	}

	if err := m.accounts.UpdateGoogleToken(userID, token, expiresAt); err != nil {
		return "", state, err
	}
	return token, StateActive, nil
}

// refresh exchanges the refresh token at the token endpoint. ok is false
// when the endpoint rejects the grant, meaning the token is revoked.
func (m *TokenManager) refresh(ctx context.Context, refreshToken string) (token string, expiresAt int64, ok bool, err error) {
	form := url.Values{
		"client_id":     {m.clientID},
		"client_secret": {m.clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.http.Do(req)
	if err != nil {
		return "", 0, false, err
	}
	defer resp.Body.Close()

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode != http.StatusOK || decodeErr != nil || payload.AccessToken == "" || payload.ExpiresIn == 0 {
		return "", 0, false, nil
	}

	return payload.AccessToken, m.now().Unix() + payload.ExpiresIn, true, nil
}
