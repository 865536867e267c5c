package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCommand.SetOut(&out)
	rootCommand.SetArgs(args)
	require.NoError(t, rootCommand.Execute(), out.String())
	return out.String()
}

func TestCLI_TokenLifecycle(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LINKGATE_DATABASE_FILE", filepath.Join(dir, "linkgate.db"))
	t.Setenv("LINKGATE_PEPPER_FILE", filepath.Join(dir, "pepper"))
	t.Setenv("AUTH_DEV_SIGNING_KEY", filepath.Join(dir, "dev.pem"))
	t.Setenv("PUBLIC_BASE_URL", "https://speeches.example")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENV", "dev")

	out := runCLI(t, "migrate", "up")
	require.Contains(t, out, "schema version 1")

	out = runCLI(t, "project", "create", "--owner", "owner-1", "--title", "Toast")
	m := regexp.MustCompile(`project (\S+) created`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	projectID := m[1]

	out = runCLI(t, "token", "issue", "--purpose", "questionnaire", "--resource-id", projectID)
	m = regexp.MustCompile(`token:\s+([0-9a-f]+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	token := m[1]
	require.Contains(t, out, "https://speeches.example/questionnaire/"+token)
	require.Contains(t, out, "expires: never")

	out = runCLI(t, "token", "check", "--purpose", "questionnaire", token)
	require.Contains(t, out, "status: valid")

	out = runCLI(t, "token", "check", "--purpose", "invite", token)
	require.Contains(t, out, "reason: purpose_mismatch")

	out = runCLI(t, "token", "revoke", token)
	require.Contains(t, out, "revoked")

	// Moving the expiry forward does not bring a revoked token back.
	runCLI(t, "token", "extend", "--ttl", "24h", token)
	out = runCLI(t, "token", "check", "--purpose", "questionnaire", token)
	require.Contains(t, out, "reason: revoked")

	out = runCLI(t, "token", "dev-jwt", "--jwks")
	require.Contains(t, out, `"kty": "OKP"`)
}
