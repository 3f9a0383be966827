package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the access scope a token was issued for.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongRole    = errors.New("token role mismatch")
)

// Claims binds an identity and a role to a signed token. No server-side
// session state is kept; the signature is the only source of truth.
type Claims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret      string
	ExpiryHours int
}

// Service issues and verifies HMAC-signed bearer tokens. The signing key
// is fixed at construction and never mutated afterwards.
type Service struct {
	secret []byte
	expiry time.Duration
}

func NewService(cfg Config) *Service {
	expiry := time.Duration(cfg.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Service{
		secret: []byte(cfg.Secret),
		expiry: expiry,
	}
}

// Issue signs a token binding email to role.
func (s *Service) Issue(email string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate reports whether tokenStr is well formed, unexpired, and was
// issued for the required role.
func (s *Service) Validate(tokenStr string, required Role) bool {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return false
	}
	return claims.Role == required
}

// ExtractEmail returns the identity embedded in the token, or an error
// when the token is malformed or expired.
func (s *Service) ExtractEmail(tokenStr string) (string, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

func (s *Service) parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
