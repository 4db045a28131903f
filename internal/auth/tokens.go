package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"task-manager/internal/apperr"
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const signingMethod = "HS256"

// Config defines how tokens are signed and how long they live.
type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// Claims is the JWT payload for both token types.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username,omitempty"`
}

// Identity returns the caller the token was issued for.
func (c Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Username: c.Username}
}

// ExpiresAtTime returns the exp claim, zero when absent.
func (c Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Token is a signed token plus the claims it carries.
type Token struct {
	Raw    string
	Claims Claims
}

// Pair is an access/refresh token pair issued together.
type Pair struct {
	Access  Token
	Refresh Token
}

// Manager issues and parses tokens.
type Manager struct {
	cfg   Config
	newID func() string
}

// NewManager validates cfg and returns a token manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		cfg:   cfg,
		newID: func() string { return uuid.NewString() },
	}, nil
}

// IssuePair signs a refresh token and an access token for id.
func (m *Manager) IssuePair(id Identity) (Pair, error) {
	refresh, err := m.issue(id, RefreshToken, m.cfg.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}
	access, err := m.issue(id, AccessToken, m.cfg.AccessTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// IssueAccess signs a fresh access token for id.
func (m *Manager) IssueAccess(id Identity) (Token, error) {
	return m.issue(id, AccessToken, m.cfg.AccessTTL)
}

func (m *Manager) issue(id Identity, typ TokenType, ttl time.Duration) (Token, error) {
	if id.IsZero() {
		return Token{}, errors.New("issue token: user id is required")
	}
	now := m.cfg.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   fmt.Sprintf("%d", id.UserID),
			ID:        m.newID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
		UserID:    id.UserID,
		Username:  id.Username,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return Token{Raw: signed, Claims: claims}, nil
}

// Parse verifies signature, issuer and expiry. When want is non-empty the
// token must also be of that type.
func (m *Manager) Parse(raw string, want TokenType) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, apperr.Authentication(apperr.ReasonTokenNotValid, "token is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithTimeFunc(m.cfg.Now),
		jwt.WithExpirationRequired(),
	}
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}
	if claims.ID == "" || claims.UserID == 0 {
		return Claims{}, apperr.Authentication(apperr.ReasonTokenNotValid, "token contained no recognizable user identification")
	}
	if claims.TokenType != AccessToken && claims.TokenType != RefreshToken {
		return Claims{}, apperr.Authentication(apperr.ReasonTokenNotValid, "token has no type")
	}
	if want != "" && claims.TokenType != want {
		return Claims{}, apperr.Authentication(apperr.ReasonTokenNotValid, "token has wrong type")
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to authentication errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return tokenError("token is expired", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return tokenError("token signature is invalid", err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return tokenError("token is malformed", err)
	default:
		return tokenError("token is invalid or expired", err)
	}
}

func tokenError(message string, cause error) *apperr.Error {
	e := apperr.Wrap(apperr.CodeAuthentication, message, cause)
	e.Reason = apperr.ReasonTokenNotValid
	return e
}
