package docx

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadFile(t *testing.T) {
	t.Run("round trips a script through a document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "script.docx")

		err := WriteFile(path, Script{
			Title:       "History of Rome",
			GeneratedAt: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
			Body:        "Opening hook.\n\nAct one covers the founding.\n\nCall to action.",
		})
		require.NoError(t, err)

		paragraphs, err := ReadFile(path)
		require.NoError(t, err)

		assert.Contains(t, paragraphs, "History of Rome")
		assert.Contains(t, paragraphs, "Opening hook.")
		assert.Contains(t, paragraphs, "Act one covers the founding.")
		assert.Contains(t, paragraphs, "Call to action.")
	})

	t.Run("read text joins paragraphs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "script.docx")

		err := WriteFile(path, Script{Title: "Title", Body: "First.\n\nSecond."})
		require.NoError(t, err)

		text, err := ReadText(path)
		require.NoError(t, err)
		assert.Contains(t, text, "First.")
		assert.Contains(t, text, "Second.")
	})

	t.Run("escapes markup in the body", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "script.docx")

		err := WriteFile(path, Script{Title: "T", Body: "a < b & c > d"})
		require.NoError(t, err)

		paragraphs, err := ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, paragraphs, "a < b & c > d")
	})

	t.Run("read of a missing file fails", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "absent.docx"))
		assert.Error(t, err)
	})
}
