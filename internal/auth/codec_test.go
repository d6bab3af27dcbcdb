package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusion-kit/auth-service/internal/domain"
)

var testKeys struct {
	once sync.Once
	priv string
	pub  string
}

// testKeyPEMs generates one RSA pair for the whole package's tests.
func testKeyPEMs(t *testing.T) (string, string) {
	t.Helper()
	testKeys.once.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKeys.priv = string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(key),
		}))
		pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
		if err != nil {
			panic(err)
		}
		testKeys.pub = string(pem.EncodeToMemory(&pem.Block{
			Type:  "PUBLIC KEY",
			Bytes: pubDER,
		}))
	})
	return testKeys.priv, testKeys.pub
}

func newTestCodec(t *testing.T, issuer, audience string) *Codec {
	t.Helper()
	priv, pub := testKeyPEMs(t)
	codec, err := NewCodec(priv, pub, issuer, audience)
	require.NoError(t, err)
	return codec
}

func TestCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t, "auth-service", "api")

	token, issued, err := codec.Encode(42, domain.RoleUser, domain.TokenTypeAccess, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.DecodeAndVerify(token)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, domain.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, issued.IssuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, issued.IssuedAt.Add(15*time.Minute).Unix(), issued.ExpiresAt.Unix())

	id, err := claims.PrincipalID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestCodecFreshTokenIDPerEncode(t *testing.T) {
	codec := newTestCodec(t, "auth-service", "api")

	_, first, err := codec.Encode(42, domain.RoleUser, domain.TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	_, second, err := codec.Encode(42, domain.RoleUser, domain.TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestCodecExpiredToken(t *testing.T) {
	codec := newTestCodec(t, "auth-service", "api")

	token, _, err := codec.Encode(42, domain.RoleUser, domain.TokenTypeAccess, -time.Second)
	require.NoError(t, err)

	_, err = codec.DecodeAndVerify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestCodecIssuerMismatch(t *testing.T) {
	issuing := newTestCodec(t, "auth-service", "api")
	verifying := newTestCodec(t, "other-service", "api")

	token, _, err := issuing.Encode(42, domain.RoleUser, domain.TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = verifying.DecodeAndVerify(token)
	assert.ErrorIs(t, err, ErrUntrustedToken)
}

func TestCodecAudienceMismatch(t *testing.T) {
	issuing := newTestCodec(t, "auth-service", "api")
	verifying := newTestCodec(t, "auth-service", "internal")

	token, _, err := issuing.Encode(42, domain.RoleUser, domain.TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = verifying.DecodeAndVerify(token)
	assert.ErrorIs(t, err, ErrUntrustedToken)
}

func TestCodecMalformedToken(t *testing.T) {
	codec := newTestCodec(t, "auth-service", "api")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.DecodeAndVerify(token)
		assert.ErrorIs(t, err, ErrMalformedToken)
	}
}

func TestCodecForeignSignature(t *testing.T) {
	codec := newTestCodec(t, "auth-service", "api")

	foreignKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	foreignPriv := string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(foreignKey),
	}))
	foreignPubDER, err := x509.MarshalPKIXPublicKey(&foreignKey.PublicKey)
	require.NoError(t, err)
	foreignPub := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: foreignPubDER}))

	foreign, err := NewCodec(foreignPriv, foreignPub, "auth-service", "api")
	require.NoError(t, err)

	token, _, err := foreign.Encode(42, domain.RoleUser, domain.TokenTypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = codec.DecodeAndVerify(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestCodecUnescapesKeyPEMs(t *testing.T) {
	priv, pub := testKeyPEMs(t)
	escaped := func(s string) string {
		out := ""
		for _, r := range s {
			if r == '\n' {
				out += `\n`
				continue
			}
			out += string(r)
		}
		return out
	}

	codec, err := NewCodec(escaped(priv), escaped(pub), "auth-service", "api")
	require.NoError(t, err)

	token, _, err := codec.Encode(1, domain.RoleAdmin, domain.TokenTypeRefresh, time.Minute)
	require.NoError(t, err)
	claims, err := codec.DecodeAndVerify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeRefresh, claims.TokenType)
}
