package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingClaims = errors.New("token is missing required claims")
)

// Claims mirrors the access-token payload: subject is the username,
// "id" carries the stable user id and "role" the authorization role.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

func (c *Claims) Username() string {
	return c.Subject
}

type Manager struct {
	secret    []byte
	accessTTL time.Duration

	// injectable for expiry tests; defaults to UTC wall clock
	now func() time.Time
}

func NewManager(secret string, accessTTL time.Duration) *Manager {
	return &Manager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the manager's clock. Both issuance and expiry
// validation use the replacement.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) GenerateAccessToken(username, userID, role string) (string, error) {
	now := m.now()

	claims := Claims{
		UserID: userID,
		Role:   role,
		JTI:    uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

// ParseAndValidate checks the signature and the expiry. The expiry is a
// hard boundary: a token presented at exactly its expiration instant is
// already expired (now >= exp fails).
func (m *Manager) ParseAndValidate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Explicit boundary check, independent of library leeway defaults.
	if exp := claims.ExpiresAt; exp != nil && !m.now().Before(exp.Time) {
		return nil, jwt.ErrTokenExpired
	}

	return claims, nil
}

// VerifyAccessToken adds the claim-shape checks on top of signature and
// expiry validation: subject, user id and role must all be present.
func (m *Manager) VerifyAccessToken(tokenStr string) (*Claims, error) {
	claims, err := m.ParseAndValidate(tokenStr)
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" || claims.UserID == "" || claims.Role == "" {
		return nil, ErrMissingClaims
	}

	return claims, nil
}
