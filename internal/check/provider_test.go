package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeForMatch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Situação Cadastral", "situacao cadastral"},
		{"  ATIVA  ", "ativa"},
		{"Inscrição", "inscricao"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeForMatch(tt.in))
	}
}

func TestIsActiveStatus(t *testing.T) {
	assert.True(t, isActiveStatus("ATIVA"))
	assert.True(t, isActiveStatus("Ativa"))
	assert.True(t, isActiveStatus(" ATIVA desde 2001 "))

	assert.False(t, isActiveStatus(""))
	assert.False(t, isActiveStatus("BAIXADA"))
	assert.False(t, isActiveStatus("INAPTA"))
	assert.False(t, isActiveStatus("INATIVA"))
}

func TestCollapseSpaces(t *testing.T) {
	assert.Equal(t, "BANCO DO BRASIL SA", collapseSpaces("  BANCO \n DO\tBRASIL   SA "))
	assert.Equal(t, "", collapseSpaces("  \n\t "))
}
