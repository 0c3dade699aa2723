package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	// Правильный пароль проходит, неправильный нет
	assert.True(t, CheckPasswordHash("Secret123", hash))
	assert.False(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("", hash))

	// Одинаковые пароли дают разные хеши (случайная соль)
	hash2, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"валидный пароль", "Password1", false},
		{"слишком короткий", "Pa1", true},
		{"без цифры", "Passwordd", true},
		{"без заглавной", "password1", true},
		{"без строчной", "PASSWORD1", true},
		{"ровно 8 символов", "Abcdefg1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
