package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	out, err := engine.Render("component", "export * from './{{ pascal .name }}';", map[string]any{"name": "user card"})
	require.NoError(t, err)
	assert.Equal(t, "export * from './UserCard';", out)
}

func TestRender_PlainTextUnchanged(t *testing.T) {
	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	out, err := engine.Render("plain", "no actions here\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "no actions here\n", out)
}

func TestRender_NestedContext(t *testing.T) {
	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	data := map[string]any{"app": map[string]any{"name": "billing"}}
	out, err := engine.Render("to", "src/{{ .app.name }}/{{ kebab .app.name }}.ts", data)
	require.NoError(t, err)
	assert.Equal(t, "src/billing/billing.ts", out)
}

func TestRender_MissingKey(t *testing.T) {
	lenient, err := NewEngine(Options{})
	require.NoError(t, err)
	out, err := lenient.Render("t", "[{{ .missing }}]", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "[<no value>]", out)

	strict, err := NewEngine(Options{Strict: true})
	require.NoError(t, err)
	_, err = strict.Render("t", "[{{ .missing }}]", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering t")
}

func TestRender_SproutFuncs(t *testing.T) {
	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	out, err := engine.Render("t", `{{ .name | default "anon" }}`, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "anon", out)
}

func TestRender_ParseError(t *testing.T) {
	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	_, err = engine.Render("broken", "{{ .name ", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing template broken")
}

func TestFuncs_IsCopy(t *testing.T) {
	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	funcs := engine.Funcs()
	assert.Contains(t, funcs, "slugify")
	delete(funcs, "slugify")
	assert.Contains(t, engine.Funcs(), "slugify")
}
