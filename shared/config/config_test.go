package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigs(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

func TestMustLoad(t *testing.T) {
	public := `backend: pg
pg:
  host: localhost
  port: 5432
  user: moyim
  password: pass
  dbname: moyim
viewer_addr: ":8090"
log_level: debug
jwt_ttl: 3600000000000
`
	dir := writeConfigs(t, public, "jwt_key: 'secret'\n")

	cfg := MustLoad(dir)

	assert.Equal(t, "pg", cfg.Public.Backend)
	assert.Equal(t, "localhost", cfg.Public.Pg.Host)
	assert.Equal(t, 5432, cfg.Public.Pg.Port)
	assert.Equal(t, "moyim", cfg.Public.Pg.Dbname)
	assert.Equal(t, ":8090", cfg.Public.ViewerAddr)
	assert.Equal(t, "debug", cfg.Public.LogLevel)
	assert.Equal(t, time.Hour, cfg.JwtTTL())
	assert.Equal(t, "secret", cfg.JwtKey())
}

func TestMustLoadRestBackend(t *testing.T) {
	public := `backend: rest
rest:
  base_url: http://localhost:3000
  stream_url: ws://localhost:3000/stream
`
	dir := writeConfigs(t, public, "jwt_key: 'k'\n")

	cfg := MustLoad(dir)
	assert.Equal(t, "http://localhost:3000", cfg.Public.Rest.BaseURL)
	assert.Equal(t, "ws://localhost:3000/stream", cfg.Public.Rest.StreamURL)
}

func TestMustLoadRejectsUnknownBackend(t *testing.T) {
	dir := writeConfigs(t, "backend: mongo\n", "jwt_key: 'k'\n")

	assert.Panics(t, func() { MustLoad(dir) })
}

func TestMustLoadMissingFile(t *testing.T) {
	assert.Panics(t, func() { MustLoad(t.TempDir()) })
}
