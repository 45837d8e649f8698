package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	ddns "github.com/Travis-Britz/cfddns"
	"github.com/Travis-Britz/cfddns/internal/models"
	"github.com/qdm12/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears the given variables for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

var settingKeys = []string{
	"CLOUDFLARE_EMAIL", "CLOUDFLARE_API_TOKEN", "CLOUDFLARE_API_TOKEN_FILE",
	"ZONE_ID", "RECORD_ID", "IP_LOOKUP_URL", "IP_LOOKUP_STRICT", "LOG_LEVEL", "LOG_CALLER",
}

func Test_main_version(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"version", "-version", "--version"} {
		var stdout bytes.Buffer
		buildInfo := models.BuildInformation{Version: "v1.0.0", Commit: "abcdef0", Date: "2024-01-01"}

		err := _main(context.Background(), []string{"ddnscf", arg}, &stdout, log.New(), buildInfo)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "v1.0.0", arg)
	}
}

func Test_main_unknownCommand(t *testing.T) {
	t.Parallel()

	err := _main(context.Background(), []string{"ddnscf", "daemon"}, &bytes.Buffer{}, log.New(), models.BuildInformation{})

	assert.ErrorIs(t, err, errUnknownCommand)
}

func Test_main_runMissingCredentials(t *testing.T) {
	unsetEnv(t, settingKeys...)

	dir := t.TempDir()
	envFile := filepath.Join(dir, "settings.env")
	require.NoError(t, os.WriteFile(envFile, []byte("ZONE_ID=zone\n"), 0600))

	err := _main(context.Background(), []string{"ddnscf", "run", "-env", envFile}, &bytes.Buffer{}, log.New(), models.BuildInformation{})

	require.ErrorIs(t, err, ddns.ErrMissingCredentials)
	var configErr *ddns.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, []string{"API token", "record identifier"}, configErr.Missing)
}

func Test_main_runMissingEnvFile(t *testing.T) {
	unsetEnv(t, settingKeys...)

	missing := filepath.Join(t.TempDir(), "missing.env")
	err := _main(context.Background(), []string{"ddnscf", "-env", missing}, &bytes.Buffer{}, log.New(), models.BuildInformation{})

	assert.ErrorContains(t, err, "loading settings file")
}

func Test_main_runBadTokenFilePermissions(t *testing.T) {
	unsetEnv(t, settingKeys...)
	t.Setenv("ZONE_ID", "zone")
	t.Setenv("RECORD_ID", "record")

	keyFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(keyFile, []byte("token\n"), 0600))
	require.NoError(t, os.Chmod(keyFile, 0644))

	err := _main(context.Background(), []string{"ddnscf", "-env", "", "-k", keyFile}, &bytes.Buffer{}, log.New(), models.BuildInformation{})

	assert.ErrorContains(t, err, "invalid permissions for")
}

func Test_main_recordsMissingZone(t *testing.T) {
	unsetEnv(t, settingKeys...)
	t.Setenv("CLOUDFLARE_API_TOKEN", "token")

	err := _main(context.Background(), []string{"ddnscf", "records", "-env", ""}, &bytes.Buffer{}, log.New(), models.BuildInformation{})

	var configErr *ddns.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, []string{"zone identifier"}, configErr.Missing)
}
