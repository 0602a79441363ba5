package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesSQLiteFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"init-db", "--env-file", ""})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Database tables created successfully")

	_, err := os.Stat(filepath.Join(dir, "app.db"))
	assert.NoError(t, err)

	// Running it again is a no-op.
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"init-db", "--env-file", ""})
	require.NoError(t, root.Execute())
}

func TestInitDB_BadConfig(t *testing.T) {
	t.Setenv("APP_ENV", "bogus")

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"init-db", "--env-file", ""})
	assert.Error(t, root.Execute())
}

func TestNewLogger_Levels(t *testing.T) {
	assert.NotNil(t, newLogger("debug"))
	assert.NotNil(t, newLogger("not-a-level"))
}
