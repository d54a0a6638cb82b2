package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sdpower/mite-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func testOptions(t *testing.T) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	return Options{
		EnvFile:    filepath.Join(dir, ".env"),
		ConfigFile: filepath.Join(dir, "config.json"),
	}, dir
}

func TestLoadPriority(t *testing.T) {
	opts, _ := testOptions(t)
	t.Setenv("MITE_ACCOUNT", "from-env")
	t.Setenv("MITE_API_KEY", "env-key")

	creds, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Account: "from-env", APIKey: "env-key"}, creds)

	writeFile(t, opts.ConfigFile, `{"account": "from-file", "api_key": "file-key"}`)
	creds, err = Load(opts)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Account: "from-file", APIKey: "file-key"}, creds)

	writeFile(t, opts.EnvFile, "MITE_ACCOUNT=from-dotenv\nMITE_API_KEY=dotenv-key\n")
	creds, err = Load(opts)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Account: "from-dotenv", APIKey: "dotenv-key"}, creds)
}

func TestLoadMergesFieldsAcrossSources(t *testing.T) {
	opts, _ := testOptions(t)
	t.Setenv("MITE_ACCOUNT", "")
	t.Setenv("MITE_API_KEY", "env-key")
	writeFile(t, opts.EnvFile, "MITE_ACCOUNT=acme\nOTHER=ignored\n")

	creds, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Account: "acme", APIKey: "env-key"}, creds)
}

func TestLoadMissing(t *testing.T) {
	opts, _ := testOptions(t)
	opts.SkipEnvironment = true
	writeFile(t, opts.ConfigFile, `{"account": "acme"}`)

	_, err := Load(opts)
	require.ErrorIs(t, err, types.ErrConfigurationMissing)

	var cerr types.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []string{"api_key"}, cerr.Missing)
}

func TestLoadInvalidConfigFile(t *testing.T) {
	opts, _ := testOptions(t)
	opts.SkipEnvironment = true
	writeFile(t, opts.ConfigFile, "{not: [valid")

	_, err := Load(opts)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrConfigurationMissing)
}

func TestSave(t *testing.T) {
	opts, dir := testOptions(t)
	opts.SkipEnvironment = true
	path := filepath.Join(dir, "saved.json")

	// existing file with loose permissions is tightened
	writeFile(t, path, "{}")
	require.NoError(t, os.Chmod(path, 0o644))

	want := Credentials{Account: "acme", APIKey: "secret"}
	require.NoError(t, Save(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	opts.ConfigFile = path
	got, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveRejectsEmpty(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "c.json"), Credentials{Account: "acme"})
	assert.ErrorIs(t, err, types.ErrInvalidFormat)
}
