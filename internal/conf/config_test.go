package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate resets viper and points every search path at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, s.Server.Port)
	assert.Equal(t, ":8080", s.Server.Addr())
	assert.Equal(t, DefaultCatalogBaseURL, s.Catalog.BaseURL)
	assert.Equal(t, 15*time.Second, s.Catalog.Timeout)
	assert.Equal(t, 5*time.Minute, s.Catalog.ProvidersTTL)
	assert.True(t, s.Storage.Enabled)
	assert.Equal(t, DefaultBucket, s.Storage.Bucket)
	assert.Equal(t, 8, s.Storage.Concurrency)
	assert.Equal(t, 15*time.Minute, s.Listing.VisitTTL)
	assert.False(t, s.Sentry.Enabled)
	assert.Equal(t, "/metrics", s.Metrics.Path)
	require.NotNil(t, s.Logging.FileOutput)
	assert.Equal(t, "logs/mrferreira.log", s.Logging.FileOutput.Path)
	assert.Contains(t, s.Logging.ModuleOutputs, "access")
	assert.Empty(t, ConfigFileUsed())
	assert.Same(t, s, GetSettings())
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
server:
  port: "9090"
  read_timeout: 5s
catalog:
  base_url: https://catalog.example.com/api
  providers_ttl: 1m
storage:
  bucket: my-bucket.appspot.com
  rate_limit: 0
logging:
  default_level: debug
`)

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", s.Server.Port)
	assert.Equal(t, 5*time.Second, s.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, s.Server.WriteTimeout, "default kept")
	assert.Equal(t, "https://catalog.example.com/api", s.Catalog.BaseURL)
	assert.Equal(t, time.Minute, s.Catalog.ProvidersTTL)
	assert.Equal(t, "my-bucket.appspot.com", s.Storage.Bucket)
	assert.Zero(t, s.Storage.RateLimit)
	assert.Equal(t, "debug", s.Logging.DefaultLevel)
	assert.NotEmpty(t, ConfigFileUsed())
}

func TestLoadExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"7070\"\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", s.Server.Port)

	viper.Reset()
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err, "an explicit config file must exist")
}

func TestEnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "server:\n  port: \"9090\"\n")
	t.Setenv("MRFERREIRA_SERVER_PORT", "9191")
	t.Setenv("MRFERREIRA_CATALOG_BASE_URL", "http://localhost:3000/api")
	t.Setenv("MRFERREIRA_STORAGE_ENABLED", "false")
	t.Setenv("MRFERREIRA_LISTING_VISIT_TTL", "2m")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9191", s.Server.Port)
	assert.Equal(t, "http://localhost:3000/api", s.Catalog.BaseURL)
	assert.False(t, s.Storage.Enabled)
	assert.Equal(t, 2*time.Minute, s.Listing.VisitTTL)
}

func TestInvalidEnvFailsLoad(t *testing.T) {
	isolate(t)
	t.Setenv("MRFERREIRA_SERVER_PORT", "http")
	t.Setenv("MRFERREIRA_STORAGE_CONCURRENCY", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MRFERREIRA_SERVER_PORT")
	assert.Contains(t, err.Error(), "MRFERREIRA_STORAGE_CONCURRENCY")
}

func TestMalformedConfigFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "server: [port\n")

	_, err := Load("")
	require.Error(t, err)
}
