package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenInvalid     = errors.New("token invalid")
)

// UserClaims is the payload carried by both access and refresh tokens.
type UserClaims struct {
	UserID    uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}

type Signer struct {
	Secret []byte
	Method jwt.SigningMethod
}

func NewSigner(secret []byte, alg string) (*Signer, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("unknown jwt algorithm %q", alg)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("jwt algorithm %q is not symmetric", alg)
	}
	return &Signer{Secret: secret, Method: method}, nil
}

func (s *Signer) IssueAccess(claims UserClaims, ttl time.Duration) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	t := jwt.NewWithClaims(s.Method, claims)
	return t.SignedString(s.Secret)
}

// IssueRefresh signs the same claim set with no expiry.
func (s *Signer) IssueRefresh(claims UserClaims) (string, error) {
	claims.ExpiresAt = nil
	t := jwt.NewWithClaims(s.Method, claims)
	return t.SignedString(s.Secret)
}

// Verify checks signature and, when present, expiry. Failures collapse to
// one of the sentinel errors above so callers never see jwt internals.
func (s *Signer) Verify(raw string) (*UserClaims, error) {
	var claims UserClaims
	t, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{s.Method.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !t.Valid {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
