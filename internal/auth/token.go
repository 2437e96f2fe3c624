package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenParser validates HS256 bearer tokens. The subject must be a UUID.
type TokenParser struct {
	secret []byte
	issuer string
}

func NewTokenParser(secret, issuer string) *TokenParser {
	return &TokenParser{secret: []byte(secret), issuer: issuer}
}

func (p *TokenParser) Parse(token string) (*Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	sub, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", ErrUnauthenticated)
	}

	return &Actor{ID: sub.String(), Email: c.Email}, nil
}

// Issue signs a token for actor. Used by tooling and tests; production
// tokens come from the identity provider sharing the secret.
func (p *TokenParser) Issue(actor *Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: actor.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return t.SignedString(p.secret)
}
