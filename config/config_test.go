package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jira-worklog/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "JIRA_URL", "JIRA_TOKEN", "WORKLOG_USERNAME", "DATA_DIR", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Jira.Timeout)
	assert.Equal(t, []string{"data", ".", "backend/data"}, cfg.Data.SearchDirs)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worklog.yaml")
	yml := `
server:
  addr: ":9000"
jira:
  url: https://jira.example.com
  token: secret
  timeout: 3s
  concurrency: 2
worklog:
  username: alice
data:
  base_dir: /srv/worklog
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
	clearEnv(t)
	t.Setenv("WORKLOG_USERNAME", "bob")
	t.Setenv("PORT", "7070")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "https://jira.example.com", cfg.Jira.URL)
	assert.Equal(t, "secret", cfg.Jira.Token)
	assert.Equal(t, 3*time.Second, cfg.Jira.Timeout)
	assert.Equal(t, 2, cfg.Jira.Concurrency)
	assert.Equal(t, 5, cfg.Jira.Burst, "unset keys keep defaults")
	assert.Equal(t, "bob", cfg.Worklog.Username)
	assert.Equal(t, "/srv/worklog", cfg.Data.BaseDir)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Jira.URL = "jira.example.com"
	cfg.Jira.Concurrency = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jira.url")
	assert.Contains(t, err.Error(), "jira.concurrency")
}

func TestRedacted(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "(empty)", cfg.Redacted().Jira.Token)
	cfg.Jira.Token = "secret"
	assert.Equal(t, "(set)", cfg.Redacted().Jira.Token)
	assert.Equal(t, "secret", cfg.Jira.Token)
}

func TestLocatorResolve(t *testing.T) {
	base := t.TempDir()
	loc := config.Locator{BaseDir: base, SearchDirs: []string{"data", ".", "backend/data"}}

	// Nothing exists: primary candidate.
	assert.Equal(t, filepath.Join(base, "data", "favorites.csv"), loc.Resolve("favorites.csv"))

	// Only the lower-priority location exists.
	require.NoError(t, os.MkdirAll(filepath.Join(base, "backend", "data"), 0755))
	fallback := filepath.Join(base, "backend", "data", "favorites.csv")
	require.NoError(t, os.WriteFile(fallback, nil, 0644))
	assert.Equal(t, fallback, loc.Resolve("favorites.csv"))

	// A higher-priority file takes over.
	root := filepath.Join(base, "favorites.csv")
	require.NoError(t, os.WriteFile(root, nil, 0644))
	assert.Equal(t, root, loc.Resolve("favorites.csv"))
}

func TestLocatorDirs(t *testing.T) {
	loc := config.Locator{BaseDir: "/x", SearchDirs: []string{"data", ".", "data"}}
	assert.Equal(t, []string{"/x/data", "/x"}, loc.Dirs())
}
