package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aivoc/vocbuilder/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample(word, sentence string) domain.WordSample {
	return domain.WordSample{
		Word:            word,
		WordNormalForm:  domain.NormalizeWord(word),
		ContextSentence: sentence,
		Definition:      "definition of " + word,
		Translation:     "translation of " + word,
		TargetLanguage:  domain.LanguageEnglish,
	}
}

func TestStore_UpsertNewWord(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	entry, err := s.Upsert(ctx, sample("Ephemeral", "Fame is ephemeral."))
	require.NoError(t, err)

	assert.Equal(t, "ephemeral", entry.WordNormalForm)
	assert.Equal(t, "Ephemeral", entry.Word)
	assert.Equal(t, "definition of Ephemeral", entry.Definition)
	assert.Equal(t, []string{"Fame is ephemeral."}, entry.ExampleSentences)
	assert.Zero(t, entry.ReviewCount)
	assert.Nil(t, entry.LastReviewedAt)
	assert.False(t, entry.CreatedAt.IsZero())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_UpsertAppendsNewSentence(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, sample("ephemeral", "Fame is ephemeral."))
	require.NoError(t, err)

	second := sample("ephemeral", "Ephemeral joys fade fast.")
	entry, err := s.Upsert(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, []string{"Fame is ephemeral.", "Ephemeral joys fade fast."}, entry.ExampleSentences)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "re-upsert must not create a second entry")
}

func TestStore_UpsertIdenticalSentenceIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	sm := sample("ephemeral", "Fame is ephemeral.")
	_, err := s.Upsert(ctx, sm)
	require.NoError(t, err)

	entry, err := s.Upsert(ctx, sm)
	require.NoError(t, err)

	assert.Equal(t, []string{"Fame is ephemeral."}, entry.ExampleSentences)
}

func TestStore_UpsertNeverOverwritesDefinition(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first := sample("ephemeral", "Fame is ephemeral.")
	_, err := s.Upsert(ctx, first)
	require.NoError(t, err)

	second := sample("ephemeral", "Ephemeral joys fade fast.")
	second.Definition = "a different definition"
	second.Translation = "a different translation"

	entry, err := s.Upsert(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, first.Definition, entry.Definition)
	assert.Equal(t, first.Translation, entry.Translation)
}

func TestStore_UpsertFillsEmptyDefinition(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first := sample("ephemeral", "Fame is ephemeral.")
	first.Definition = ""
	first.Translation = ""
	_, err := s.Upsert(ctx, first)
	require.NoError(t, err)

	second := sample("ephemeral", "Ephemeral joys fade fast.")
	entry, err := s.Upsert(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, second.Definition, entry.Definition)
	assert.Equal(t, second.Translation, entry.Translation)
}

func TestStore_UpsertRequiresNormalForm(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.Upsert(context.Background(), domain.WordSample{Word: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStore_LookupNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_AllPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for _, w := range []string{"zephyr", "alcove", "mire"} {
		_, err := s.Upsert(ctx, sample(w, "A sentence with "+w+"."))
		require.NoError(t, err)
	}

	entries, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "zephyr", entries[0].WordNormalForm)
	assert.Equal(t, "alcove", entries[1].WordNormalForm)
	assert.Equal(t, "mire", entries[2].WordNormalForm)
	assert.Equal(t, []string{"A sentence with zephyr."}, entries[0].ExampleSentences)
}

func TestStore_ReviewCandidatesOrdering(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for _, w := range []string{"first", "second", "third"} {
		_, err := s.Upsert(ctx, sample(w, "Sentence with "+w+"."))
		require.NoError(t, err)
	}

	// "second" is reviewed once, then "first" twice; "third" never.
	// Whether the second-resolution timestamps tie or not, "second"
	// sorts before "first": earlier review time and lower count.
	require.NoError(t, s.RecordReview(ctx, "second", false))
	require.NoError(t, s.RecordReview(ctx, "first", true))
	require.NoError(t, s.RecordReview(ctx, "first", true))

	candidates, err := s.ReviewCandidates(ctx, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "third", candidates[0].WordNormalForm, "never-reviewed words come first")
	assert.Equal(t, "second", candidates[1].WordNormalForm)
	assert.Equal(t, "first", candidates[2].WordNormalForm)
}

func TestStore_ReviewCandidatesLimit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for _, w := range []string{"a", "b", "c"} {
		_, err := s.Upsert(ctx, sample(w, "Sentence with "+w+"."))
		require.NoError(t, err)
	}

	candidates, err := s.ReviewCandidates(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)

	none, err := s.ReviewCandidates(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_RecordReview(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, sample("ephemeral", "Fame is ephemeral."))
	require.NoError(t, err)

	require.NoError(t, s.RecordReview(ctx, "ephemeral", true))
	require.NoError(t, s.RecordReview(ctx, "ephemeral", false))

	entry, err := s.Lookup(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, 2, entry.ReviewCount)
	assert.Equal(t, 1, entry.Lapses)
	require.NotNil(t, entry.LastReviewedAt)
}

func TestStore_RecordReviewUnknownWord(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	err := s.RecordReview(context.Background(), "missing", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, sample("ephemeral", "Fame is ephemeral."))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "ephemeral"))
	require.NoError(t, s.Delete(ctx, "ephemeral"))

	_, err = s.Lookup(ctx, "ephemeral")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_KnownWordsUnionsMastered(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Upsert(ctx, sample("zephyr", "A zephyr stirred the leaves."))
	require.NoError(t, err)

	require.NoError(t, s.MasterWord(ctx, "alcove"))
	require.NoError(t, s.MasterWord(ctx, "alcove")) // duplicate mark is a no-op
	require.NoError(t, s.MasterWord(ctx, "zephyr")) // overlap with the notebook

	known, err := s.KnownWords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alcove", "zephyr"}, known)
}

func TestStore_UnmasterWord(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.MasterWord(ctx, "alcove"))
	require.NoError(t, s.UnmasterWord(ctx, "alcove"))
	require.NoError(t, s.UnmasterWord(ctx, "alcove"))

	mastered, err := s.MasteredWords(ctx)
	require.NoError(t, err)
	assert.Empty(t, mastered)
}
