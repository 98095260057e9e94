// Package auth implements the credential primitives of the trove server:
// one-way password hashing, opaque API token generation, and decoding of
// bearer credentials presented on the wire.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mpetrovs/trove/internal/common"
	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters. Changing them only affects new hashes: each
// stored record carries its own parameters, so old records keep verifying.
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16
)

// Hasher derives and verifies password hash records. An optional server
// secret is mixed into the derivation, so records only verify on a server
// holding the same secret.
type Hasher struct {
	secret []byte
}

func NewHasher(secret string) *Hasher {
	return &Hasher{secret: []byte(secret)}
}

// Hash derives an argon2id key from the password under a fresh random salt
// and returns a self-describing record in PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<b64 salt>$<b64 key>
//
// The record embeds algorithm, parameters, and salt, so verification needs
// nothing beyond the record and the candidate password.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt generation: %w", err)
	}

	key := argon2.IDKey(h.material(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	record := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	return record, nil
}

// Verify recomputes the key using the salt and parameters embedded in the
// record and compares it to the stored key in constant time. A mismatched
// password yields (false, nil). An unparseable record yields
// common.ErrHashFormat, which callers must treat as corrupted storage,
// not as a wrong password.
func (h *Hasher) Verify(record, password string) (bool, error) {
	salt, key, time, memory, threads, err := parseRecord(record)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(h.material(password), salt, time, memory, threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

// material prepends the server secret to the password bytes before
// derivation.
func (h *Hasher) material(password string) []byte {
	if len(h.secret) == 0 {
		return []byte(password)
	}
	m := make([]byte, 0, len(h.secret)+len(password))
	m = append(m, h.secret...)
	m = append(m, password...)
	return m
}

func parseRecord(record string) (salt, key []byte, time, memory uint32, threads uint8, err error) {
	parts := strings.Split(record, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, common.ErrHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, common.ErrHashFormat
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, common.ErrHashFormat
	}
	if memory == 0 || time == 0 || threads == 0 {
		return nil, nil, 0, 0, 0, common.ErrHashFormat
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, common.ErrHashFormat
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, nil, 0, 0, 0, common.ErrHashFormat
	}

	return salt, key, time, memory, threads, nil
}
