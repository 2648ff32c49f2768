package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MatchesKind(t *testing.T) {
	err := fmt.Errorf("create user: %w", Conflict("email em uso"))

	assert.True(t, errors.Is(err, ErrorConflict))
	assert.False(t, errors.Is(err, ErrorValidation))
	assert.Equal(t, "create user: email em uso", err.Error())
}

func TestError_EmptyDetailFallsBackToKind(t *testing.T) {
	err := NewError(ErrorNotFound, "")
	assert.Equal(t, "not found", err.Error())
}

func TestDetail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"service error", Validation("Email inválido"), "Email inválido"},
		{"wrapped service error", fmt.Errorf("x: %w", NotFound("Vacina não encontrada")), "Vacina não encontrada"},
		{"plain error", errors.New("pq: relation does not exist"), "erro interno"},
		{"empty detail", NewError(ErrorConflict, ""), "erro interno"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detail(tt.err, "erro interno"))
		})
	}
}
