package main

import (
	"os"
	"path/filepath"
	"testing"

	"bookshelf/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsDir_EnvOverride(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")

	assert.Equal(t, "/custom/migrations", migrationsDir(store.Postgres))
}

func TestMigrationsDir_Default(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "")

	assert.Equal(t, filepath.Join("internal", "store", "migrations", "sqlite"), migrationsDir(store.SQLite))
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MIGRATIONS_DIR", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "catalog.db")

	cfg, err := loadConfig([]string{"--command", "status"})
	require.NoError(t, err)
	assert.Equal(t, "status", cfg.Command)
	assert.Equal(t, store.SQLite, cfg.DBDriver)
	assert.Equal(t, "catalog.db", cfg.DBDSN)

	_, err = loadConfig([]string{"-c", "create"})
	assert.Error(t, err, "create without a name")

	t.Setenv("DB_DRIVER", "mysql")
	_, err = loadConfig(nil)
	assert.Error(t, err)
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\n"), 0o644))
	t.Setenv("DB_DSN", "from_env")
	t.Chdir(tmp)

	loadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
}
