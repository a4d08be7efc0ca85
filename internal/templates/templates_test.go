package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodejsTemplateFiles(t *testing.T) {
	files := Files("nodejs", 7)
	require.Len(t, files, 2)

	for _, f := range files {
		assert.Equal(t, 7, f.ProjectID)
		assert.Equal(t, "file", f.Type)
	}
	assert.Equal(t, "index.js", files[0].Name)
	assert.Contains(t, files[1].Content, `"name"`)
}

func TestReactTemplateFiles(t *testing.T) {
	files := Files("react", 1)
	require.Len(t, files, 2)
	assert.Equal(t, "index.html", files[0].Name)
}

func TestUnknownTemplateIsEmpty(t *testing.T) {
	assert.Empty(t, Files("blank", 1))
	assert.Empty(t, Files("", 1))
}
