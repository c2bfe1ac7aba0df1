package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
database:
  host: db
  user: app
  password: secret
  database: tabletap
rabbitmq:
  host: mq
  user: guest
  password: guest
auth:
  secret: s3cret
`))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5672, cfg.Rabbit.Port)
	assert.Equal(t, "/", cfg.Rabbit.VHost)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TTL())
}

func TestLoadRejectsIncomplete(t *testing.T) {
	_, err := Load(writeConfig(t, `
database:
  host: db
rabbitmq:
  host: mq
  user: guest
auth:
  secret: s
`))
	assert.ErrorContains(t, err, "database config incomplete")

	_, err = Load(writeConfig(t, `
database:
  host: db
  user: app
  database: tabletap
rabbitmq:
  host: mq
  user: guest
`))
	assert.ErrorContains(t, err, "auth secret missing")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
