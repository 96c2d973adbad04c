package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the deathnote variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDB, EnvRules, EnvFormat} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Config{DBPath: DefaultDBPath, Format: DefaultFormat}, cfg)
}

func TestLoad_ExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "deathnote.env",
		"DEATHNOTE_DB=/tmp/notes.db\nDEATHNOTE_RULES=rules.cue\nDEATHNOTE_FORMAT=json\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{DBPath: "/tmp/notes.db", RulesPath: "rules.cue", Format: "json"}, cfg)

	_, set := os.LookupEnv(EnvDB)
	assert.False(t, set, "Load must not modify the process environment")
}

func TestLoad_DefaultEnvFileInWorkingDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "DEATHNOTE_FORMAT=json\n")
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "x.env", "DEATHNOTE_DB=file.db\n")
	t.Setenv(EnvDB, "env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DBPath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
