package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`
	Store struct {
		Driver string `koanf:"driver"`
	} `koanf:"store"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("invalid port")
	}
	return nil
}

var testDefaults = map[string]any{
	"server.port":  8000,
	"store.driver": "memory",
	"log.level":    "info",
}

// inTempDir runs the test from an empty working directory so no config.yaml or .env leaks in.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func Test_Load_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load[testConfig]("catalogtest", testDefaults)

	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func Test_Load_Precedence(t *testing.T) {
	// given
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("server:\n  port: 9000\nstore:\n  driver: postgres\nlog:\n  level: warn\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("CATALOGTEST_LOG_LEVEL=debug\nUNRELATED_KEY=x\n"), 0o600))
	t.Setenv("CATALOGTEST_SERVER_PORT", "9100")

	// when
	cfg, err := Load[testConfig]("catalogtest", testDefaults)

	// then
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port, "env var wins over yaml")
	assert.Equal(t, "postgres", cfg.Store.Driver, "yaml wins over defaults")
	assert.Equal(t, "debug", cfg.Log.Level, ".env wins over yaml")
}

func Test_Load_ConfigFileOverride(t *testing.T) {
	dir := inTempDir(t)
	custom := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("server:\n  port: 7000\n"), 0o600))
	t.Setenv("CATALOGTEST_CONFIG_FILE", custom)

	cfg, err := Load[testConfig]("catalogtest", testDefaults)

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func Test_Load_ValidationError(t *testing.T) {
	inTempDir(t)

	cfg, err := Load[testConfig]("catalogtest", nil)

	assert.ErrorContains(t, err, "config validation failed: invalid port")
	assert.Nil(t, cfg)
}
