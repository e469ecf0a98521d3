package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(4) // min cost keeps the test fast

	hash, err := h.Hash("Abcdef12")
	require.NoError(t, err)
	require.NotEqual(t, "Abcdef12", hash)

	assert.True(t, h.Verify("Abcdef12", hash))
	assert.False(t, h.Verify("Abcdef13", hash))
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(4)

	assert.False(t, h.Verify("Abcdef12", ""))
	assert.False(t, h.Verify("Abcdef12", "not-a-bcrypt-hash"))
}

func TestPasswordHasher_HashesDiffer(t *testing.T) {
	h := NewPasswordHasher(4)

	first, err := h.Hash("Abcdef12")
	require.NoError(t, err)
	second, err := h.Hash("Abcdef12")
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, first, second)
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	h := NewPasswordHasher(99)

	hash, err := h.Hash("Abcdef12")
	require.NoError(t, err)
	assert.True(t, h.Verify("Abcdef12", hash))
}

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Abcdef12", wantErr: false},
		{name: "too short", password: "Ab1", wantErr: true},
		{name: "no uppercase", password: "abcdef12", wantErr: true},
		{name: "no lowercase", password: "ABCDEF12", wantErr: true},
		{name: "no digit", password: "Abcdefgh", wantErr: true},
		{name: "short with digit", password: "short1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordPolicy(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
