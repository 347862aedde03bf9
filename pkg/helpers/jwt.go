package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthErrorKind classifies why a bearer token was rejected.
type AuthErrorKind string

const (
	AuthMissing          AuthErrorKind = "missing"
	AuthMalformed        AuthErrorKind = "malformed"
	AuthSignatureInvalid AuthErrorKind = "signature_invalid"
	AuthExpired          AuthErrorKind = "expired"
)

// AuthError is returned by TokenService.Verify and by the auth middleware.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return "auth: " + string(e.Kind) + ": " + e.Err.Error()
	}
	return "auth: " + string(e.Kind)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthKind reports whether err is an *AuthError of the given kind.
func IsAuthKind(err error, kind AuthErrorKind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == kind
}

// Claims is the identity carried by a bearer token.
type Claims struct {
	UserID string `json:"uid"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens with a single process-wide key.
// Rotating the key invalidates every outstanding token.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs a token carrying userID/name that expires ttl from now.
func (s *TokenService) Issue(userID, name string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	return signed, exp, err
}

// Verify parses tokenStr and returns its claims or an *AuthError.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, &AuthError{Kind: AuthMissing}
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, classify(err)
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, &AuthError{Kind: AuthMalformed, Err: errors.New("invalid token")}
	}
	return claims, nil
}

func classify(err error) *AuthError {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return &AuthError{Kind: AuthSignatureInvalid, Err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &AuthError{Kind: AuthExpired, Err: err}
	default:
		return &AuthError{Kind: AuthMalformed, Err: err}
	}
}
