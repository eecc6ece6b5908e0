package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjourdan1/scaffctl/internal/exitcode"
)

func TestSchemaExport_Stdout(t *testing.T) {
	for _, name := range []string{"frontmatter", "settings"} {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := executeCommandWithProcessIO(t, "schema", "export", name)
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
			assert.Contains(t, doc, "properties")
		})
	}
}

func TestSchemaExport_File(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "settings.schema.json")
	_, stderr, err := executeCommandWithProcessIO(t, "schema", "export", "settings", "--file", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Schema written to")
	assert.Contains(t, readFile(t, out), "hook_timeout")
}

func TestSchemaExport_Unknown(t *testing.T) {
	_, _, err := executeCommandWithProcessIO(t, "schema", "export", "journal")
	require.Error(t, err)
	assert.Equal(t, exitcode.Validation, exitcode.Of(err))
}
