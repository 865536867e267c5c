package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Token size constants (in bytes before encoding).
const (
	// MinTokenSize is the smallest accepted size: 128 bits, 32 hex chars.
	MinTokenSize = 16
	// TokenSize256 provides 256 bits of entropy (64 hex chars). This is the
	// size every link token is minted with.
	TokenSize256 = 32
	// TokenSize512 provides 512 bits of entropy (128 hex chars).
	TokenSize512 = 64
)

// ErrGenerationFailure is returned when the secure random source cannot be
// read. Callers must not fall back to a weaker source.
var ErrGenerationFailure = errors.New("cryptox: secure random source unavailable")

// randReader is swapped in tests to simulate a broken entropy source.
var randReader = rand.Reader

// GenerateToken creates a cryptographically secure random token of the given
// byte length, encoded as lowercase hex so every token of a size has the same
// width and survives any URL path segment untouched.
func GenerateToken(size int) (string, error) {
	if size < MinTokenSize {
		return "", fmt.Errorf("token size must be at least %d bytes, got %d", MinTokenSize, size)
	}

	buf := make([]byte, size)
	if _, err := randReader.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}

	return hex.EncodeToString(buf), nil
}

// MustGenerateToken is like GenerateToken but panics on error.
func MustGenerateToken(size int) string {
	token, err := GenerateToken(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}

// WellFormedToken reports whether s could have come out of GenerateToken.
// It lets lookups reject garbage without touching the database.
func WellFormedToken(s string) bool {
	if len(s) < 2*MinTokenSize || len(s) > 2*TokenSize512 || len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Fingerprinter derives the value we persist in place of a raw token. It is a
// keyed BLAKE2b-256, so a leaked database alone can neither be replayed nor
// brute forced offline without the server secret.
type Fingerprinter struct {
	key []byte
}

// NewFingerprinter returns a Fingerprinter keyed with secret. BLAKE2b accepts
// keys up to 64 bytes; an empty key is refused.
func NewFingerprinter(secret []byte) (*Fingerprinter, error) {
	if len(secret) == 0 {
		return nil, errors.New("cryptox: fingerprint key must not be empty")
	}
	if len(secret) > blake2b.Size {
		return nil, fmt.Errorf("cryptox: fingerprint key longer than %d bytes", blake2b.Size)
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Fingerprinter{key: key}, nil
}

// Fingerprint returns the deterministic base64url fingerprint of token (43 chars).
func (f *Fingerprinter) Fingerprint(token string) string {
	h, err := blake2b.New256(f.key)
	if err != nil {
		// key length is checked in NewFingerprinter
		panic(err)
	}
	_, _ = h.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
