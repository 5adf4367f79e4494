package firebase

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

	"github.com/TWRT/savvystudy/internal/client"
	"github.com/TWRT/savvystudy/internal/models"
)

const (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	secureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// AuthClient signs users in against the Identity Toolkit REST API and
// renews their ID tokens through the Secure Token API.
type AuthClient struct {
	baseUrl    string
	tokenUrl   string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

func NewAuthClient(apiKey string) *AuthClient {
	return &AuthClient{
		baseUrl:    identityToolkitURL,
		tokenUrl:   secureTokenURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// WithBaseURL points the client at another endpoint, such as the auth
// emulator. The emulator serves both APIs, so token refresh moves with it.
func (c *AuthClient) WithBaseURL(baseUrl string) *AuthClient {
	c.baseUrl = strings.TrimRight(baseUrl, "/")
	c.tokenUrl = c.baseUrl
	return c
}

func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	return c.call(ctx, "accounts:signInWithPassword", email, password)
}

func (c *AuthClient) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	return c.call(ctx, "accounts:signUp", email, password)
}

func (c *AuthClient) call(ctx context.Context, method, email, password string) (*models.User, error) {
	payload, err := json.Marshal(authRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request (firebase auth): %w", err)
	}

	endpoint := c.baseUrl + "/" + method + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request (firebase auth): %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, method)
	if err != nil {
		return nil, err
	}

	var authResp authResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("parse response (firebase auth): %w", err)
	}

	return &models.User{
		LocalID:      authResp.LocalID,
		Email:        authResp.Email,
		IDToken:      authResp.IDToken,
		RefreshToken: authResp.RefreshToken,
		TokenExpiry:  c.expiry(authResp.ExpiresIn),
	}, nil
}

// Refresh exchanges the user's refresh token for a new ID token.
func (c *AuthClient) Refresh(ctx context.Context, user *models.User) (*models.User, error) {
	if user.RefreshToken == "" {
		return nil, fmt.Errorf("%w: MISSING_REFRESH_TOKEN", client.ErrAuth)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {user.RefreshToken},
	}
	endpoint := c.tokenUrl + "/token?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request (firebase auth): %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, "token")
	if err != nil {
		return nil, err
	}

	var tokenResp refreshResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("parse response (firebase auth): %w", err)
	}

	refreshed := *user
	refreshed.IDToken = tokenResp.IDToken
	refreshed.RefreshToken = tokenResp.RefreshToken
	refreshed.TokenExpiry = c.expiry(tokenResp.ExpiresIn)
	return &refreshed, nil
}

func (c *AuthClient) do(req *http.Request, method string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s (firebase auth): %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body (firebase auth): %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var fbErr firebaseErrors
		if err := json.Unmarshal(body, &fbErr); err != nil || fbErr.Error.Message == "" {
			return nil, fmt.Errorf("error status (firebase auth): %d", resp.StatusCode)
		}
		if isCredentialError(fbErr.Error.Message) {
			return nil, fmt.Errorf("%w: %s", client.ErrAuth, fbErr.Error.Message)
		}
		return nil, fmt.Errorf("Firebase auth error: %s", fbErr.Error.Message)
	}
	return body, nil
}

// expiry turns an expiresIn value in seconds into a deadline. An unusable
// value yields the zero time.
func (c *AuthClient) expiry(expiresIn string) time.Time {
	seconds, err := strconv.Atoi(expiresIn)
	if err != nil || seconds <= 0 {
		return time.Time{}
	}
	return c.now().Add(time.Duration(seconds) * time.Second)
}

// Identity Toolkit reports some messages with a detail suffix, as in
// "WEAK_PASSWORD : Password should be at least 6 characters".
func isCredentialError(message string) bool {
	code, _, _ := strings.Cut(message, " ")
	switch code {
	case "EMAIL_NOT_FOUND",
		"INVALID_PASSWORD",
		"INVALID_LOGIN_CREDENTIALS",
		"INVALID_EMAIL",
		"MISSING_PASSWORD",
		"USER_DISABLED",
		"USER_NOT_FOUND",
		"EMAIL_EXISTS",
		"WEAK_PASSWORD",
		"TOKEN_EXPIRED",
		"INVALID_REFRESH_TOKEN",
		"TOO_MANY_ATTEMPTS_TRY_LATER":
		return true
	}
	return false
}
