package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher("pepper")

	digest, err := h.Hash("Aa1aaaaa")
	require.NoError(t, err)
	require.NotContains(t, digest, "Aa1aaaaa")
	require.True(t, strings.HasPrefix(digest, "$argon2id$"))

	require.True(t, h.Verify("Aa1aaaaa", digest))
	require.False(t, h.Verify("wrong", digest))
}

func TestHashIsSaltedPerCall(t *testing.T) {
	h := NewHasher("pepper")
	d1, err := h.Hash("Aa1aaaaa")
	require.NoError(t, err)
	d2, err := h.Hash("Aa1aaaaa")
	require.NoError(t, err)
	require.NotEqual(t, d1, d2)
}

func TestPepperIsPartOfTheDigest(t *testing.T) {
	digest, err := NewHasher("one").Hash("Aa1aaaaa")
	require.NoError(t, err)
	require.False(t, NewHasher("two").Verify("Aa1aaaaa", digest))
}

func TestMalformedDigestVerifiesFalse(t *testing.T) {
	h := NewHasher("pepper")
	require.False(t, h.Verify("Aa1aaaaa", "not-a-digest"))
	require.False(t, h.Verify("Aa1aaaaa", ""))
}
