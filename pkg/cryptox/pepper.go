package cryptox

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SecretSize is the length of a generated server secret in bytes.
const SecretSize = 32

// LoadOrCreateSecret reads the base64url secret stored at path. When the file
// does not exist a fresh secret is generated and written with 0600 perms so
// fingerprints stay stable across restarts.
func LoadOrCreateSecret(path string) ([]byte, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		secret := make([]byte, SecretSize)
		if _, err := randReader.Read(secret); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
		}
		encoded := base64.RawURLEncoding.EncodeToString(secret)
		if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
			return nil, err
		}
		return secret, nil
	}
	if err != nil {
		return nil, err
	}

	secret, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("cryptox: secret file %s is not base64url: %w", path, err)
	}
	if len(secret) < MinTokenSize {
		return nil, fmt.Errorf("cryptox: secret in %s is shorter than %d bytes", path, MinTokenSize)
	}
	return secret, nil
}
