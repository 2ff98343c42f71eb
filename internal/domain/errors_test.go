package domain_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/storefront-api/internal/domain"
)

func TestKind_CodeYStatus(t *testing.T) {
	cases := []struct {
		kind   domain.Kind
		code   string
		status int
	}{
		{domain.KindValidation, "validation_error", http.StatusBadRequest},
		{domain.KindUnauthorized, "unauthorized", http.StatusUnauthorized},
		{domain.KindForbidden, "forbidden", http.StatusForbidden},
		{domain.KindNotFound, "not_found", http.StatusNotFound},
		{domain.KindServer, "server_error", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.kind.Code())
		assert.Equal(t, tc.status, tc.kind.Status())
	}
}

func TestError_IsPorKind(t *testing.T) {
	err := domain.NewValidation("producto P-1 no encontrado")

	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "producto P-1 no encontrado", err.Error())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", domain.ErrUnauthorized)

	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(wrapped))
	assert.Equal(t, domain.KindServer, domain.KindOf(errors.New("boom")))
	assert.True(t, domain.IsClassified(wrapped))
	assert.False(t, domain.IsClassified(domain.ErrDuplicate))
}
