package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	user, err := CreateUser("Maria Santos", "maria@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, ROLE_USER, user.Role)
	assert.Equal(t, STATUS_ACTIVE, user.Status)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	if _, err := CreateUser("Maria Santos", "not-an-email", "secret123"); err == nil {
		t.Fatal("expected invalid email to be rejected")
	}
	if _, err := CreateUser("Maria Santos", "maria@example.com", "short"); err == nil {
		t.Fatal("expected short password to be rejected")
	}
	if _, err := CreateUser("ab", "maria@example.com", "secret123"); err == nil {
		t.Fatal("expected too-short name to be rejected")
	}
}

func TestSetPassword(t *testing.T) {
	user, err := CreateUser("Maria Santos", "maria@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, user.SetPassword("newsecret"))
	assert.False(t, user.CheckPassword("secret123"))
	assert.True(t, user.CheckPassword("newsecret"))
}

func TestGenerateAPIKey(t *testing.T) {
	user := &User{}

	key, err := user.GenerateAPIKey()
	require.NoError(t, err)

	// Only the hash is stored; the middleware looks users up by it.
	assert.True(t, strings.HasPrefix(key, "hb_"))
	assert.NotContains(t, user.APIKeyHash, key)
	assert.Equal(t, HashAPIKey(key), user.APIKeyHash)

	// Issuing again rotates the key: the old plaintext no longer matches.
	second, err := user.GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, second)
	assert.NotEqual(t, HashAPIKey(key), user.APIKeyHash)
	assert.Equal(t, HashAPIKey(second), user.APIKeyHash)
}
