package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attempt  string
		match    bool
	}{
		{"same password", "correct horse", "correct horse", true},
		{"special chars", "p@ssw0rd!@#$%^&*()", "p@ssw0rd!@#$%^&*()", true},
		{"wrong password", "correct horse", "battery staple", false},
		{"empty attempt", "correct horse", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)

			err = CompareHash(hash, tt.attempt)
			if tt.match {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword)
			}
		})
	}
}

func TestGetHash_Salted(t *testing.T) {
	h1, err := GetHash("password1")
	require.NoError(t, err)
	h2, err := GetHash("password1")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
