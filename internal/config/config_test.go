package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "session_key: secret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3003", cfg.Listen)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 172800, cfg.SessionMaxAge)
	assert.Equal(t, PasswordHashSHA256, cfg.Auth.PasswordHash)
	assert.Equal(t, CatalogDriverSQLite, cfg.Catalog.Driver)
	assert.Equal(t, "./data/cards.db", cfg.Catalog.Path)
	assert.Equal(t, "English", cfg.Catalog.Language)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, 6*time.Hour, cfg.Cache.GetCacheTTL())
	assert.Equal(t, 200, cfg.GetMaxResults())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
listen: " 127.0.0.1:8080 "
session_key: secret
data_dir: /var/lib/decksmith/
auth:
  password_hash: BCRYPT
  bcrypt_cost: 12
catalog:
  driver: postgres
  dsn: postgres://postgres@localhost/mtgbase
cache:
  type: redis
  redis_url: localhost:6379
  ttl: 15m
search:
  max_results: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "/var/lib/decksmith", cfg.DataDir)
	assert.Equal(t, PasswordHashBcrypt, cfg.Auth.PasswordHash)
	assert.Equal(t, 12, cfg.Auth.GetBcryptCost())
	assert.Equal(t, CatalogDriverPostgres, cfg.Catalog.Driver)
	assert.Equal(t, "postgres://postgres@localhost/mtgbase", cfg.Catalog.DSN)
	assert.Equal(t, CacheTypeRedis, cfg.Cache.Type)
	assert.Equal(t, 15*time.Minute, cfg.Cache.GetCacheTTL())
	assert.Equal(t, 50, cfg.GetMaxResults())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "session_key: from-file\n")
	t.Setenv("DECKSMITH_SESSION_KEY", "from-env")
	t.Setenv("DECKSMITH_CATALOG_DRIVER", "postgres")
	t.Setenv("DECKSMITH_CATALOG_DSN", "postgres://env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SessionKey)
	assert.Equal(t, CatalogDriverPostgres, cfg.Catalog.Driver)
	assert.Equal(t, "postgres://env", cfg.Catalog.DSN)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing session key",
			content: "listen: :3003\n",
			wantErr: "session key is required",
		},
		{
			name:    "unknown hash",
			content: "session_key: s\nauth:\n  password_hash: md5\n",
			wantErr: "unsupported password hash",
		},
		{
			name:    "postgres without dsn",
			content: "session_key: s\ncatalog:\n  driver: postgres\n",
			wantErr: "catalog DSN is required",
		},
		{
			name:    "unknown driver",
			content: "session_key: s\ncatalog:\n  driver: mysql\n",
			wantErr: "unsupported catalog driver",
		},
		{
			name:    "bad cron",
			content: "session_key: s\ncatalog:\n  refresh_schedule: \"* *\"\n",
			wantErr: "5 fields",
		},
		{
			name:    "redis without url",
			content: "session_key: s\ncache:\n  type: redis\n",
			wantErr: "Redis URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
