package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmbeddedFragments(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	out, err := r.Render("select-option", map[string]string{"Value": "Odisha", "Label": "Odisha"})
	require.NoError(t, err)
	assert.Contains(t, out, `<option value="Odisha">Odisha</option>`)
}

func TestRender_EscapesUserData(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	out, err := r.Render("empty-state", map[string]string{
		"Title":   "<script>alert(1)</script>",
		"Message": "plain",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestDefine_RuntimeTemplate(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	// Later Define wins; html/template locks the set on first execution, so
	// all definitions land before any render (as server startup does).
	require.NoError(t, r.Define("filter-form", `v1`))
	require.NoError(t, r.Define("filter-form", `<label>{{.}}</label>`))

	out, err := r.Render("filter-form", "State")
	require.NoError(t, err)
	assert.Equal(t, `<label>State</label>`, out)
}

func TestDefine_BadTemplateErrors(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Error(t, r.Define("broken", `{{.Unclosed`))
}

func TestRender_UnknownTemplateErrors(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	_, err = r.Render("no-such-fragment", nil)
	assert.Error(t, err)
}
