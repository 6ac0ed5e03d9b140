package fcm

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/okurimukae/dispatch/internal/domain"
)

const (
	defaultTokenEndpoint = "https://oauth2.googleapis.com/token"
	defaultSendBaseURL   = "https://fcm.googleapis.com"

	messagingScope = "https://www.googleapis.com/auth/firebase.messaging"
	jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	assertionLifetime = time.Hour
	// Refresh the cached bearer token a minute before it expires.
	tokenExpirySkew = time.Minute
)

// assertionClaims is the JWT-bearer assertion payload. Google's token
// endpoint reads scope as a claim rather than a form field.
type assertionClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Gateway delivers rendered messages through FCM's HTTP v1 API. Each send
// is authenticated with a short-lived OAuth2 bearer token obtained via the
// jwt-bearer grant; the token is cached for the warm process only.
type Gateway struct {
	account *ServiceAccount
	key     *rsa.PrivateKey
	client  *http.Client
	logger  *zap.Logger

	tokenEndpoint string
	sendBaseURL   string

	mu          sync.Mutex
	bearerToken string
	tokenExpiry time.Time
}

// NewGateway builds a Gateway from a pre-parsed service account.
func NewGateway(account *ServiceAccount, key *rsa.PrivateKey, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		account:       account,
		key:           key,
		client:        &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
		tokenEndpoint: defaultTokenEndpoint,
		sendBaseURL:   defaultSendBaseURL,
	}
}

// fcmMessage is the messages:send request body.
type fcmMessage struct {
	Message struct {
		Token        string            `json:"token"`
		Notification fcmNotification   `json:"notification"`
		Data         map[string]string `json:"data,omitempty"`
	} `json:"message"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Deliver sends one message to one device token. Fire-and-forget: every
// failure path (signing, token exchange, transport, non-2xx) is logged
// and collapses to false; nothing propagates to the caller.
func (g *Gateway) Deliver(ctx context.Context, token string, msg domain.RenderedMessage) bool {
	bearer, err := g.accessToken(ctx)
	if err != nil {
		g.logger.Error("fcm access token", zap.Error(err))
		return false
	}

	payload := fcmMessage{}
	payload.Message.Token = token
	payload.Message.Notification = fcmNotification{Title: msg.Title, Body: msg.Body}
	payload.Message.Data = msg.Data

	body, err := json.Marshal(payload)
	if err != nil {
		g.logger.Error("fcm marshal message", zap.Error(err))
		return false
	}

	sendURL := fmt.Sprintf("%s/v1/projects/%s/messages:send", g.sendBaseURL, g.account.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
	if err != nil {
		g.logger.Error("fcm build request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("fcm send", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		g.logger.Warn("fcm rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)))
		return false
	}
	return true
}

// accessToken returns a valid bearer token, reusing the cached one while
// it has more than tokenExpirySkew of life left.
func (g *Gateway) accessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.bearerToken != "" && time.Now().Before(g.tokenExpiry.Add(-tokenExpirySkew)) {
		return g.bearerToken, nil
	}

	assertion, err := g.signAssertion()
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, string(respBody))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access_token")
	}

	g.bearerToken = tokenResp.AccessToken
	g.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return g.bearerToken, nil
}

// signAssertion builds the RS256 jwt-bearer assertion with the claims
// contract the token endpoint expects: iss/sub = client_email, aud =
// token endpoint, scope = messaging, one hour of validity.
func (g *Gateway) signAssertion() (string, error) {
	now := time.Now()
	claims := assertionClaims{
		Scope: messagingScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.account.ClientEmail,
			Subject:   g.account.ClientEmail,
			Audience:  jwt.ClaimStrings{g.tokenEndpoint},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(assertionLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(g.key)
}
