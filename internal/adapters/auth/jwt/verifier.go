// Package jwt verifica tokens HS256 firmados con un secreto compartido.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"

	"pet-tracker/internal/ports/auth"
)

var (
	ErrSecretRequired = errors.New("jwt secret required")
	ErrTokenEmpty     = errors.New("token is empty")
)

type Config struct {
	Secret string
	Issuer string // opcional
}

type Verifier struct {
	secret []byte
	opts   []gojwt.ParserOption
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrSecretRequired
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Name}),
		gojwt.WithExpirationRequired(),
	}
	if iss := strings.TrimSpace(cfg.Issuer); iss != "" {
		opts = append(opts, gojwt.WithIssuer(iss))
	}

	return &Verifier{secret: []byte(cfg.Secret), opts: opts}, nil
}

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	gojwt.RegisteredClaims
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var tc tokenClaims
	parsed, err := gojwt.ParseWithClaims(token, &tc, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, auth.ErrUnauthorized
	}

	uid := strings.TrimSpace(tc.Subject)
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", auth.ErrUnauthorized)
	}

	return auth.Claims{
		UserID: uid,
		Email:  strings.TrimSpace(tc.Email),
	}, nil
}

var _ auth.AuthVerifier = (*Verifier)(nil)
