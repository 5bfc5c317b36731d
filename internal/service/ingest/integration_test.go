package ingest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/store"
)

// Runs the full ingestion path against a real on-disk store, with only
// the backend mocked.
func TestIngest_EndToEnd(t *testing.T) {
	t.Parallel()

	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	reply := `[{
	  "word": "ephemeral",
	  "word_normal_form": "ephemeral",
	  "context_sentence": "Fame is ephemeral.",
	  "definition": "lasting a very short time",
	  "translation": "mimolotny"
	}]`
	mockBackend := &extractorMock{
		ExtractWordsFunc: func(ctx context.Context, req backend.ExtractRequest) (string, error) {
			return reply, nil
		},
	}

	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), mockBackend, st)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, IngestInput{Text: "Fame is ephemeral.", LanguageCode: "en"})
	require.NoError(t, err)
	require.Len(t, first.Entries, 1)
	assert.Equal(t, "ephemeral", first.Entries[0].WordNormalForm)
	assert.Equal(t, []string{"Fame is ephemeral."}, first.Entries[0].ExampleSentences)

	// Same text again: the word is now known and must not be re-added.
	second, err := svc.Ingest(ctx, IngestInput{Text: "Fame is ephemeral.", LanguageCode: "en"})
	require.NoError(t, err)
	assert.Empty(t, second.Entries)
	assert.Equal(t, 1, second.SkippedKnown)

	stored, err := st.Lookup(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, "lasting a very short time", stored.Definition)
	assert.Len(t, stored.ExampleSentences, 1)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
