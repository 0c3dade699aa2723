package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTemplatesRender(t *testing.T) {
	t.Parallel()

	tm, err := NewTemplateManager()
	require.NoError(t, err)

	body, err := tm.Render(TemplateVerification, TemplateData{"Username": "alice", "Code": "123456"})
	require.NoError(t, err)
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "123456")

	body, err = tm.Render(TemplateLoginOTP, TemplateData{"Username": "bob", "Code": "654321"})
	require.NoError(t, err)
	assert.Contains(t, body, "654321")

	body, err = tm.Render(TemplatePasswordReset, TemplateData{"Username": "carol", "Token": "tok-abc"})
	require.NoError(t, err)
	assert.Contains(t, body, "tok-abc")
}

func TestRender_UnknownTemplate(t *testing.T) {
	t.Parallel()

	tm, err := NewTemplateManager()
	require.NoError(t, err)

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}

func TestRender_EscapesHTML(t *testing.T) {
	t.Parallel()

	tm, err := NewTemplateManager()
	require.NoError(t, err)

	body, err := tm.Render(TemplateVerification, TemplateData{
		"Username": "<script>alert(1)</script>",
		"Code":     "123456",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}
