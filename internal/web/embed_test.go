package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	assets, err := Static()
	require.NoError(t, err)

	index, err := fs.ReadFile(assets, IndexFile)
	require.NoError(t, err)
	for _, placeholder := range []string{"%(Configs)", "%(HeadContent)", "%(BodyContent)"} {
		assert.Contains(t, string(index), placeholder)
	}

	for _, name := range []string{"app.js", "style.css"} {
		_, err := fs.Stat(assets, name)
		assert.NoError(t, err, name)
	}
}
