//go:build e2e

package access_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/linkgate/pkg/accesssdk"
	"github.com/aussiebroadwan/linkgate/pkg/cryptox"
	"github.com/aussiebroadwan/linkgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and helpers for the linkgate end-to-end tests. Owner
 * tokens are signed with a key generated here whose JWKS is copied into
 * the container, standing in for the host's identity provider.
 */

const (
	testImageName = "linkgate-test:latest"
	testIssuer    = "https://idp.e2e.test"
	publicBaseURL = "https://speeches.e2e.test"
)

var (
	ownerSigner *jwtx.EdDSASigner
	jwksFile    string
)

// TestMain builds the image and the identity provider key once.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building linkgate Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	dir, err := os.MkdirTemp("", "linkgate-e2e")
	if err != nil {
		fmt.Fprintf(os.Stderr, "temp dir: %v\n", err)
		os.Exit(1)
	}
	if err := setupIdentityProvider(dir); err != nil {
		fmt.Fprintf(os.Stderr, "identity provider key: %v\n", err)
		os.Exit(1)
	}

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up linkgate Docker image...")
	cleanupDockerImage()
	_ = os.RemoveAll(dir)
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/linkgate/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

func setupIdentityProvider(dir string) error {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return err
	}
	ownerSigner, err = jwtx.NewSignerEdDSA("e2e-idp", pemKey)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(jwtx.JWKS{Keys: []jwtx.JWK{ownerSigner.PublicJWK()}})
	if err != nil {
		return err
	}
	jwksFile = filepath.Join(dir, "jwks.json")
	return os.WriteFile(jwksFile, raw, 0o644)
}

// setupContainer starts linkgate and returns its base URL. extraEnv
// overrides the defaults.
func setupContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"ENV":             "test",
		"LOG_LEVEL":       "info",
		"LOG_FORMAT":      "json",
		"PUBLIC_BASE_URL": publicBaseURL,
		"AUTH_JWKS_FILE":  "/data/jwks.json",
		"AUTH_ISSUER":     testIssuer,
		// Tests fire requests back to back; the production limits would trip.
		"RATE_LIMIT_OWNER_PER_MINUTE":        "1000",
		"RATE_LIMIT_OWNER_BURST":             "1000",
		"RATE_LIMIT_GUEST_OPEN_PER_MINUTE":   "1000",
		"RATE_LIMIT_GUEST_OPEN_BURST":        "1000",
		"RATE_LIMIT_GUEST_SUBMIT_PER_MINUTE": "1000",
		"RATE_LIMIT_GUEST_SUBMIT_BURST":      "1000",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		Files: []testcontainers.ContainerFile{{
			HostFilePath:      jwksFile,
			ContainerFilePath: "/data/jwks.json",
			FileMode:          0o644,
		}},
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port()), cleanup
}

// ownerToken signs an access token the container trusts.
func ownerToken(t *testing.T, subject, email string, scopes ...string) string {
	t.Helper()
	claims := jwtx.NewClaims(subject, email, scopes, time.Hour, testIssuer, nil, time.Now())
	tok, err := ownerSigner.Sign(claims)
	require.NoError(t, err)
	return tok
}

// ownerClient returns an SDK client authenticated as subject.
func ownerClient(t *testing.T, baseURL, subject, email string) *accesssdk.Client {
	t.Helper()
	return accesssdk.NewClient(baseURL).WithToken(ownerToken(t, subject, email))
}

// requireLinkInvalid asserts the single guest-facing rejection.
func requireLinkInvalid(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, accesssdk.ErrLinkInvalid)
}
