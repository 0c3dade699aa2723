package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	t.Parallel()

	code, err := GenerateOTP(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	// Только цифры
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "OTP должен состоять из цифр: %q", code)
	}

	// Невалидная длина откатывается к 6
	code, err = GenerateOTP(0)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestGenerateResetToken(t *testing.T) {
	t.Parallel()

	token, hash, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Хеш детерминирован и совпадает с повторным вычислением
	assert.Equal(t, hash, HashResetToken(token))
	assert.Len(t, hash, 64) // sha256 hex

	// Токены не повторяются
	token2, hash2, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
	assert.NotEqual(t, hash, hash2)
}
