package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/mpetrovs/trove/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_LengthAndAlphabet(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)
	require.Len(t, token, TokenLength)

	for _, r := range token {
		assert.True(t, strings.ContainsRune(TokenCharset, r), "unexpected character %q in token %q", r, token)
	}
}

func TestGenerateToken_NoDuplicates(t *testing.T) {
	const n = 10000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		token, err := GenerateToken()
		require.NoError(t, err)
		require.Len(t, token, TokenLength)

		if _, ok := seen[token]; ok {
			t.Fatalf("duplicate token after %d generations: %s", i, token)
		}
		seen[token] = struct{}{}
	}
}

func TestGenerateToken_CoversAlphabet(t *testing.T) {
	// Over 200 tokens (6000 draws) every one of the 62 characters should
	// appear; a missing character points at a selection bug.
	counts := make(map[rune]int)
	for i := 0; i < 200; i++ {
		token, err := GenerateToken()
		require.NoError(t, err)
		for _, r := range token {
			counts[r]++
		}
	}

	for _, r := range TokenCharset {
		assert.Greater(t, counts[r], 0, "character %q never drawn", r)
	}
}

func TestEncodeDecodeBearer_Roundtrip(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)

	decoded, err := DecodeBearer(EncodeBearer(token))
	require.NoError(t, err)
	assert.Equal(t, token, decoded)
}

func TestDecodeBearer_Malformed(t *testing.T) {
	credentials := []string{
		"",
		"   ",
		"%%%not-base64%%%",
		base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}), // not UTF-8
		base64.StdEncoding.EncodeToString(nil),                      // empty payload
	}

	for _, c := range credentials {
		_, err := DecodeBearer(c)
		assert.True(t, errors.Is(err, common.ErrTokenMalformed), "credential %q: want ErrTokenMalformed, got %v", c, err)
	}
}
