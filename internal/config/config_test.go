package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	yaml := `env: dev
storage_driver: mysql
error_log: /var/log/pas/errors.log
http_server:
  address: 0.0.0.0:8080
db_user: ledger
db_password: secret
db_host: db
db_name: production
lookup_timeout: 750ms
allowed_origins:
  - https://mes.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverMySQL, cfg.StorageDriver)
	assert.Equal(t, "/var/log/pas/errors.log", cfg.ErrorLog)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address)
	assert.Equal(t, 750*time.Millisecond, cfg.LookupTimeout)
	assert.Equal(t, []string{"https://mes.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 3306, cfg.DBPort)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "ledger:secret@tcp(db:3306)/production")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: local\nstorage_driver: memory\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, 2*time.Second, cfg.LookupTimeout)
	assert.Equal(t, "localhost:4001", cfg.Address)
	assert.Empty(t, cfg.ErrorLog)
}
