package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant-client/internal/formatter"
)

func TestSaveAndLoadResult(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "results"))

	result := NewResult("reading", "raw text", "<div>ok</div>")
	result.Summary = &formatter.StructuredSummary{Title: "T", Source: formatter.SourceTable}

	htmlPath, err := store.SaveResult(result)
	require.NoError(t, err)

	page, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<div>ok</div>")

	loaded, err := store.LoadResult(result.ID)
	require.NoError(t, err)
	assert.Equal(t, result, loaded)

	ids, err := store.ListResults()
	require.NoError(t, err)
	assert.Equal(t, []string{result.ID}, ids)
}

func TestListResults_MissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"))

	ids, err := store.ListResults()

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLoadResult_Missing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.LoadResult("unknown")

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveResult_RequiresID(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.SaveResult(&RenderedResult{})

	assert.Error(t, err)
}
