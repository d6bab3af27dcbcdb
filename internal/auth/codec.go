package auth

import (
	"crypto/rsa"
	"errors"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fusion-kit/auth-service/internal/domain"
)

// Claims is the signed token payload.
type Claims struct {
	Role      string           `json:"role"`
	TokenType domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// PrincipalID parses the subject claim back into a numeric principal id.
func (c *Claims) PrincipalID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrMalformedToken
	}
	return id, nil
}

// Codec transforms structured claims into compact RS256-signed tokens and
// back. It performs no I/O; session state is the token service's concern.
type Codec struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	audience   string
}

// NewCodec parses the PEM-encoded RSA key pair. Keys delivered through the
// environment carry literal \n sequences, which are unescaped here.
func NewCodec(privatePEM, publicPEM, issuer, audience string) (*Codec, error) {
	priv, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(unescapePEM(privatePEM)))
	if err != nil {
		return nil, err
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(unescapePEM(publicPEM)))
	if err != nil {
		return nil, err
	}
	return &Codec{privateKey: priv, publicKey: pub, issuer: issuer, audience: audience}, nil
}

func unescapePEM(pem string) string {
	return strings.ReplaceAll(pem, `\n`, "\n")
}

// Encode builds a claim set for the principal and signs it. The token id is
// freshly generated on every call and never reused; timestamps are
// whole-second Unix epoch values.
func (c *Codec) Encode(principalID int64, role string, tokenType domain.TokenType, ttl time.Duration) (string, *Claims, error) {
	now := time.Now().Truncate(time.Second)
	claims := &Claims{
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(principalID, 10),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.privateKey)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// DecodeAndVerify checks the signature, expiry, issuer and audience of a
// token string and returns its claims. Expiry wins over trust checks when
// both fail, matching issuance-side semantics.
func (c *Codec) DecodeAndVerify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrMalformedToken
		}
		return c.publicKey, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, ErrUntrustedToken
		default:
			return nil, ErrMalformedToken
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
