package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("pa55word!")
	require.NoError(t, err)
	assert.NotEqual(t, "pa55word!", hash)

	assert.NoError(t, h.Verify(hash, "pa55word!"))
	assert.ErrorIs(t, h.Verify(hash, "wrong"), ErrMismatch)
}

func TestNewHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
}
