package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"repairorder/internal/entity"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window of an issued token.
const DefaultTokenTTL = 24 * time.Hour

// TokenStatus is the outcome of verifying a bearer token.
type TokenStatus int

const (
	TokenInvalid TokenStatus = iota
	TokenValid
	TokenExpired
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// Claims represents JWT claims for authenticated requests.
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the request identity carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Username: c.Username, Role: c.Role}
}

// Manager encapsulates JWT generation and validation.
type Manager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewManager creates a new JWT manager. An empty secret is rejected; there is
// no fallback key.
func NewManager(secret, issuer string, expiry time.Duration) (*Manager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if expiry <= 0 {
		expiry = DefaultTokenTTL
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "repair-order-system"
	}
	return &Manager{
		secret: []byte(trimmed),
		issuer: issuer,
		expiry: expiry,
		now:    time.Now,
	}, nil
}

// GenerateToken issues a signed JWT for the provided user.
func (m *Manager) GenerateToken(user *entity.DbUser) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, errors.New("jwt manager is nil")
	}
	if user == nil || user.ID == 0 {
		return "", time.Time{}, errors.New("invalid user for token generation")
	}
	now := m.now().UTC()
	expiry := now.Add(m.expiry)

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// Verify validates the token and reports whether it is valid, expired or
// otherwise unusable. Claims are returned only for TokenValid.
func (m *Manager) Verify(tokenString string) (*Claims, TokenStatus, error) {
	if m == nil {
		return nil, TokenInvalid, errors.New("jwt manager is nil")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, TokenExpired, err
		}
		return nil, TokenInvalid, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, TokenInvalid, errors.New("invalid token claims")
	}
	return claims, TokenValid, nil
}
