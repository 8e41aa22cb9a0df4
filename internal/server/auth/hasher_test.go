package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsmirnov/authd/internal/common"
)

func TestArgon2idHasher_HashAndVerify(t *testing.T) {
	h := NewArgon2idHasher()

	encoded, err := h.Hash("p@ss1234")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := h.Verify("p@ss1234", encoded)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("wrong", encoded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestArgon2idHasher_SaltUniqueness(t *testing.T) {
	h := NewArgon2idHasher()

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "two hashes of the same password must use distinct salts")
}

func TestArgon2idHasher_VerifyMalformedHash(t *testing.T) {
	h := NewArgon2idHasher()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"plaintext", "hunter2"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$AAAA$BBBB"},
		{"bad version", "$argon2id$vX$m=65536,t=1,p=4$AAAA$BBBB"},
		{"bad params", "$argon2id$v=19$mem=hi$AAAA$BBBB"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=1,p=4$!!!$BBBB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Verify("anything", tt.hash)
			require.Error(t, err)
			require.True(t, errors.Is(err, common.ErrPasswordHash), "got %v", err)
		})
	}
}
