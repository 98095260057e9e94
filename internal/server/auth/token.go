package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mpetrovs/trove/internal/common"
)

// TokenCharset is the alphabet API token values are drawn from.
const TokenCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TokenLength is the length of every generated token value.
const TokenLength = 30

// GenerateToken returns a new opaque token value: TokenLength characters
// drawn uniformly from TokenCharset using the system CSPRNG. Uniformity is
// kept by rejection sampling instead of reducing bytes modulo the charset
// size, which would bias the low indices.
func GenerateToken() (string, error) {
	// Largest multiple of len(TokenCharset) that fits in a byte.
	const limit = byte(256 / len(TokenCharset) * len(TokenCharset))

	out := make([]byte, 0, TokenLength)
	buf := make([]byte, 2*TokenLength)

	for len(out) < TokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("token generation: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, TokenCharset[int(b)%len(TokenCharset)])
			if len(out) == TokenLength {
				break
			}
		}
	}

	return string(out), nil
}

// EncodeBearer converts a raw token value into its wire form, the base64
// string clients present in the Authorization header.
func EncodeBearer(token string) string {
	return base64.StdEncoding.EncodeToString([]byte(token))
}

// DecodeBearer converts a presented bearer credential back into the raw
// token value. Anything that is not base64-encoded UTF-8 yields
// common.ErrTokenMalformed; a malformed credential is an authentication
// failure, never a crash.
func DecodeBearer(credential string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", common.ErrTokenMalformed
	}

	raw, err := base64.StdEncoding.DecodeString(credential)
	if err != nil {
		return "", common.ErrTokenMalformed
	}
	if len(raw) == 0 || !utf8.Valid(raw) {
		return "", common.ErrTokenMalformed
	}

	return string(raw), nil
}
