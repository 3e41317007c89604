package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", `
# database settings
DB_HOST=localhost
export DB_PORT=5432
GREETING="hello\nworld"
LITERAL='keep \n as is'
TRAILING=value # comment
EMPTY=
`)

	vars, err := LoadDotEnv(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"DB_HOST", "DB_PORT", "GREETING", "LITERAL", "TRAILING", "EMPTY"}, vars.Keys())
	expected := map[string]string{
		"DB_HOST":  "localhost",
		"DB_PORT":  "5432",
		"GREETING": "hello\nworld",
		"LITERAL":  `keep \n as is`,
		"TRAILING": "value",
		"EMPTY":    "",
	}
	for k, want := range expected {
		got, _ := vars.Get(k)
		assert.Equal(t, want, got, k)
	}
}

func TestLoadDotEnv_Errors(t *testing.T) {
	_, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "cannot open env file")

	_, err = LoadDotEnv(writeFile(t, ".env", "VALID=1\nnot an assignment\n"))
	assert.ErrorContains(t, err, ":2: expected KEY=value")

	_, err = LoadDotEnv(writeFile(t, ".env", "=value\n"))
	assert.ErrorContains(t, err, "empty key")
}
