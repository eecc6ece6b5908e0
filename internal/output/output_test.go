package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	require.NoError(t, w.Close())
	os.Stdout = old
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func TestInit(t *testing.T) {
	Init(false, false)
	assert.False(t, Verbose)
	assert.False(t, JSONMode)

	Init(true, true)
	assert.True(t, Verbose)
	assert.True(t, JSONMode)

	Init(false, false)
}

func TestNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.True(t, NoColor()) // any value, even empty, means no color

	require.NoError(t, os.Unsetenv("NO_COLOR"))
	assert.False(t, NoColor())
}

func TestLogger_TextAndJSONModes(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	Init(false, false)
	Success("written")
	Fail("broken")
	Step("rendering")
	Debug("hidden")
	out := buf.String()
	assert.Contains(t, out, "[OK] written")
	assert.Contains(t, out, "[FAIL] broken")
	assert.Contains(t, out, ">> rendering")
	assert.NotContains(t, out, "hidden")

	buf.Reset()
	Init(true, false)
	Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	Init(false, true)
	Info("suppressed")
	Warn("suppressed")
	assert.Empty(t, buf.String())
	Init(false, false)
}

func TestJSONEnvelopes(t *testing.T) {
	Init(false, true)
	defer Init(false, false)
	assert.False(t, JSONWritten())

	out := captureStdout(t, func() { JSON(map[string]string{"key": "value"}) })
	assert.True(t, JSONWritten())
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "ok", decoded["status"])
	assert.Contains(t, decoded, "data")
	assert.NotContains(t, decoded, "error")

	out = captureStdout(t, func() { JSONError(errors.New("something failed")) })
	decoded = nil
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "error", decoded["status"])
	assert.Equal(t, "something failed", decoded["error"])

	out = captureStdout(t, func() { JSONFailure([]int{1}, "1 template failed") })
	decoded = nil
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "error", decoded["status"])
	assert.Equal(t, []interface{}{float64(1)}, decoded["data"])
}

func TestCLIError(t *testing.T) {
	t.Run("error with fix", func(t *testing.T) {
		err := NewErrorWithFix("templates dir not found", "Pass the directory as an argument")
		assert.Equal(t, "templates dir not found", err.Error())
		assert.Nil(t, err.Unwrap())
		assert.Equal(t, "Pass the directory as an argument", err.Fix)
	})

	t.Run("wrapped error", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := WrapError(cause, "reading vars file")
		assert.Equal(t, "reading vars file: permission denied", err.Error())
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("wrapped error with fix", func(t *testing.T) {
		cause := errors.New("yaml: line 2")
		err := WrapErrorWithFix(cause, "invalid config", "Check scaffctl.yaml")
		assert.Equal(t, "invalid config: yaml: line 2", err.Error())
		assert.Equal(t, "Check scaffctl.yaml", err.Fix)
		assert.ErrorIs(t, err, cause)
	})
}

func TestPrintError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	Init(false, false)

	PrintError(fmtWrap(NewErrorWithFix("bad pattern", "Quote the glob")))
	assert.Contains(t, buf.String(), "bad pattern")
	assert.Contains(t, buf.String(), "Fix: Quote the glob")

	buf.Reset()
	PrintError(errors.New("plain"))
	assert.Contains(t, buf.String(), "plain")

	buf.Reset()
	PrintError(nil)
	assert.Empty(t, buf.String())
}

func fmtWrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "outer: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

func TestStyled(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "x", Styled(lipgloss.NewStyle().Bold(true), "x"))
}

func TestSpinner(t *testing.T) {
	t.Run("stop is idempotent", func(t *testing.T) {
		sp := NewSpinner("test")
		sp.Start()
		sp.Stop()
		sp.Stop()
	})

	t.Run("start is idempotent", func(t *testing.T) {
		sp := NewSpinner("test")
		sp.Start()
		sp.Start()
		sp.Stop()
	})

	t.Run("stop before start", func(t *testing.T) {
		sp := NewSpinner("test")
		sp.Stop()
	})
}

func TestWithSpinner(t *testing.T) {
	Init(false, true)
	defer Init(false, false)

	assert.NoError(t, WithSpinner("testing", func() error { return nil }))

	expectedErr := errors.New("boom")
	assert.Equal(t, expectedErr, WithSpinner("testing", func() error { return expectedErr }))
}
