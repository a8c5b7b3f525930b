package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	data := `
server:
  port: 9090
site:
  baseurl: https://www.example-seo.com/
  contentfile: content.yaml
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://www.example-seo.com", cfg.BaseURL())
	assert.Equal(t, "content.yaml", cfg.Site.ContentFile)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SITE_SERVER_PORT", "7000")
	t.Setenv("SITE_SITE_BASEURL", "https://seo.example.org")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "https://seo.example.org", cfg.BaseURL())
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Server.GinMode = "release"
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 80
	cfg.Site.BaseURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg.Site.BaseURL = ""
	assert.NoError(t, cfg.Validate())

	cfg.Server.GinMode = "loud"
	assert.Error(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
