package sheets

import (
	"context"
	"crypto/rsa"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// Scope required for reading and writing spreadsheet values.
	spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"

	jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// Assertion lifetime; also the upper bound of the cached token.
	assertionTTL = time.Hour

	// Refresh slightly early so an in-flight call never carries an
	// almost-expired token.
	expirySlack = 30 * time.Second
)

// tokenSource exchanges a signed service-account assertion for a bearer
// token and caches it until shortly before expiry. Safe for concurrent use.
type tokenSource struct {
	http        *resty.Client
	tokenURL    string
	clientEmail string
	key         *rsa.PrivateKey
	now         func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func newTokenSource(http *resty.Client, tokenURL, clientEmail, privateKeyPEM string) (*tokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return &tokenSource{
		http:        http,
		tokenURL:    tokenURL,
		clientEmail: clientEmail,
		key:         key,
		now:         time.Now,
	}, nil
}

// Token returns a valid bearer token, fetching a fresh one when the
// cached token is missing or about to expire.
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.now().Add(expirySlack).Before(t.expiry) {
		return t.token, nil
	}

	assertion, err := t.signAssertion()
	if err != nil {
		return "", err
	}

	var tok tokenResponse
	resp, err := t.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": jwtBearerGrant,
			"assertion":  assertion,
		}).
		SetResult(&tok).
		Post(t.tokenURL)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("token exchange: unexpected status %d", resp.StatusCode())
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token exchange: empty access token")
	}

	t.token = tok.AccessToken
	t.expiry = t.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return t.token, nil
}

func (t *tokenSource) signAssertion() (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"iss":   t.clientEmail,
		"scope": spreadsheetScope,
		"aud":   t.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	return signed, nil
}
