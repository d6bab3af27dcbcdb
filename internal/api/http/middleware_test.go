package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fusion-kit/auth-service/internal/auth"
	apperrors "github.com/fusion-kit/auth-service/pkg/util"
)

func TestTranslateErrorTokenTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{auth.ErrMalformedToken, "MALFORMED_TOKEN", http.StatusUnauthorized},
		{auth.ErrExpiredToken, "TOKEN_EXPIRED", http.StatusUnauthorized},
		{auth.ErrUntrustedToken, "UNTRUSTED_TOKEN", http.StatusUnauthorized},
		{auth.ErrTokenTypeMismatch, "TOKEN_TYPE_MISMATCH", http.StatusUnauthorized},
		{auth.ErrSessionRevoked, "SESSION_REVOKED", http.StatusUnauthorized},
		{auth.ErrPrincipalNotFound, "PRINCIPAL_NOT_FOUND", http.StatusUnauthorized},
		{auth.ErrStoreUnavailable, "STORE_UNAVAILABLE", http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			domainErr := translateError(tc.err)
			assert.Equal(t, tc.code, domainErr.Code)
			assert.Equal(t, tc.status, domainErr.HTTPStatus)

			// wrapped variants map identically
			wrapped := translateError(fmt.Errorf("%w: redis: connection refused", tc.err))
			assert.Equal(t, tc.code, wrapped.Code)
		})
	}
}

func TestTranslateErrorPassesThroughDomainErrors(t *testing.T) {
	err := apperrors.NewConflict("username already registered", nil)
	domainErr := translateError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
}

func TestTranslateErrorDefaultsToInternal(t *testing.T) {
	domainErr := translateError(errors.New("unexpected"))
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
}
