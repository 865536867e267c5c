package cryptox

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"128-bit token", MinTokenSize, 32},
		{"256-bit token", TokenSize256, 64},
		{"512-bit token", TokenSize512, 128},
		{"custom size", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, token, tt.wantLen)
			require.True(t, WellFormedToken(token))

			token2, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, token, token2, "tokens should be unique")
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{-1, 0, 8, MinTokenSize - 1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("entropy pool gone") }

func TestGenerateToken_RandomSourceFailure(t *testing.T) {
	orig := randReader
	randReader = brokenReader{}
	t.Cleanup(func() { randReader = orig })

	token, err := GenerateToken(TokenSize256)
	require.ErrorIs(t, err, ErrGenerationFailure)
	require.Empty(t, token)

	require.Panics(t, func() { MustGenerateToken(TokenSize256) })
}

func TestMustGenerateToken_Panics(t *testing.T) {
	require.Panics(t, func() {
		MustGenerateToken(0)
	})
}

// Two successive tokens must never collide. The full million-draw run is
// skipped with -short.
func TestGenerateToken_NoCollisions(t *testing.T) {
	count := 1_000_000
	if testing.Short() {
		count = 10_000
	}

	seen := make(map[string]struct{}, count)
	for range count {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token generated after %d draws", len(seen))
		}
		seen[token] = struct{}{}
	}
}

func TestWellFormedToken(t *testing.T) {
	require.False(t, WellFormedToken(""))
	require.False(t, WellFormedToken("abc"))
	require.False(t, WellFormedToken("ABCDEF0123456789ABCDEF0123456789"), "uppercase is never produced")
	require.False(t, WellFormedToken("../../../../etc/passwd/../../../../etc/pass"))
	require.True(t, WellFormedToken("0123456789abcdef0123456789abcdef"))
}

func TestFingerprinter(t *testing.T) {
	f, err := NewFingerprinter([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	fp1a := f.Fingerprint("test-token-1")
	fp1b := f.Fingerprint("test-token-1")
	fp2 := f.Fingerprint("test-token-2")

	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 43, "BLAKE2b-256 base64url should be 43 chars")

	other, err := NewFingerprinter([]byte("another-secret-another-secret-xx"))
	require.NoError(t, err)
	require.NotEqual(t, fp1a, other.Fingerprint("test-token-1"), "key must change the fingerprint")
}

func TestNewFingerprinter_RejectsBadKeys(t *testing.T) {
	_, err := NewFingerprinter(nil)
	require.Error(t, err)

	_, err = NewFingerprinter(make([]byte, 65))
	require.Error(t, err)
}

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	require.Len(t, first, SecretSize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "secret must survive a reload")

	require.NoError(t, os.WriteFile(path, []byte("not base64 !!"), 0o600))
	_, err = LoadOrCreateSecret(path)
	require.Error(t, err)
}
