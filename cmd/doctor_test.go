package cmd

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjourdan1/scaffctl/internal/doctor"
)

func TestDoctorCmd_JSON(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	templates, out := newProject(t)

	stdout, _, err := executeCommandWithProcessIO(t, "doctor", templates, "--out", out, "--json")
	require.NoError(t, err)

	var envelope struct {
		Status string         `json:"status"`
		Data   doctor.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &envelope))
	assert.Equal(t, "ok", envelope.Status)
	assert.False(t, envelope.Data.HasFailure)
	assert.Equal(t, 4, envelope.Data.TotalPass)
}

func TestDoctorCmd_MissingTemplates(t *testing.T) {
	stdout, _, err := executeCommandWithProcessIO(t, "doctor", filepath.Join(t.TempDir(), "missing"), "--out", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, stdout, "cannot read templates")
}
