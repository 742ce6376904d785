package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("MySuperPassword$1234")
	require.NoError(t, err)
	assert.NotEqual(t, "MySuperPassword$1234", hash)

	assert.NoError(t, ComparePassword(hash, "MySuperPassword$1234"))
	assert.Error(t, ComparePassword(hash, "WrongPassword123!"))
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("MySuperPassword$1234")
	require.NoError(t, err)
	h2, err := HashPassword("MySuperPassword$1234")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestValidatePassword(t *testing.T) {
	valid := []string{
		"MySuperPassword$1234",
		"StrongPass123!",
		"sS#fdasrongPassword123!",
	}
	for _, p := range valid {
		assert.NoError(t, ValidatePassword(p), "password %q should be valid", p)
	}

	invalid := []string{
		"weak",            // too short
		"abc123",          // too short, no uppercase or special
		"nouppercase123!", // no uppercase
		"NOLOWERCASE123!", // no lowercase
		"NoDigitsHere!",   // no digits
		"NoSpecial1234",   // no special character
		"Password123!",    // common password variant
	}
	for _, p := range invalid {
		assert.Error(t, ValidatePassword(p), "password %q should be invalid", p)
	}
}
