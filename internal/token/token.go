package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind discriminates the two token flavors. Each kind signs with its own
// secret, so a leaked refresh secret cannot mint access tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// ErrInvalidToken covers every decode failure: bad signature, expired,
// malformed, wrong kind. Callers outside this package get no more detail.
var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies the claim sets carried by bearer tokens (HS256).
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (c *Codec) secretFor(kind Kind) []byte {
	if kind == KindRefresh {
		return c.refreshSecret
	}
	return c.accessSecret
}

func (c *Codec) ttlFor(kind Kind) time.Duration {
	if kind == KindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue builds and signs a claim set for sub/role of the given kind.
func (c *Codec) Issue(sub, role string, kind Kind) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		Role:      role,
		TokenType: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttlFor(kind))),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return tok.SignedString(c.secretFor(kind))
}

// Decode verifies the signature with the kind's secret, checks expiry, and
// rejects tokens whose embedded type does not match the requested kind even
// when the signature verifies (defense against secret misconfiguration).
func (c *Codec) Decode(raw string, kind Kind) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HMAC; an attacker-chosen alg header must not be honored.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secretFor(kind), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)

	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != string(kind) {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
