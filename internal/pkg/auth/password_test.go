// internal/pkg/auth/password_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	m := NewPasswordManager(testConfig())

	hash, err := m.HashPassword("Sup3rSecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", hash)

	assert.NoError(t, m.VerifyPassword("Sup3rSecret", hash))
	assert.Error(t, m.VerifyPassword("WrongPass1", hash))
}

func TestValidatePassword(t *testing.T) {
	m := NewPasswordManager(testConfig())

	assert.NoError(t, m.ValidatePassword("Abcdefg1"))

	cases := map[string]string{
		"too short":    "Ab1",
		"no uppercase": "abcdefg1",
		"no lowercase": "ABCDEFG1",
		"no number":    "Abcdefgh",
	}
	for name, password := range cases {
		assert.Error(t, m.ValidatePassword(password), name)
	}
}

func TestHashPasswordRejectsWeakPassword(t *testing.T) {
	m := NewPasswordManager(testConfig())

	_, err := m.HashPassword("weak")
	assert.Error(t, err)
}

func TestGenerateRecoveryToken(t *testing.T) {
	m := NewPasswordManager(testConfig())

	a := m.GenerateRecoveryToken()
	b := m.GenerateRecoveryToken()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
