package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStory_AllWordsPresent(t *testing.T) {
	t.Parallel()

	raw := "Once upon a time, a cat sat on an *ephemeral* *throne* made of mist."

	result, err := Story(raw, []string{"ephemeral", "throne"})
	require.NoError(t, err)
	assert.Empty(t, result.Missing)
	assert.Equal(t, raw, result.Text)
}

func TestStory_MissingWordFlaggedButReturned(t *testing.T) {
	t.Parallel()

	result, err := Story("The king's seat vanished at dawn.", []string{"ephemeral", "dawn"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ephemeral"}, result.Missing)
	assert.NotEmpty(t, result.Text)
}

func TestStory_InflectedFormCounts(t *testing.T) {
	t.Parallel()

	result, err := Story("Two thrones stood side by side.", []string{"throne"})
	require.NoError(t, err)
	assert.Empty(t, result.Missing)
}

func TestStory_FencesStripped(t *testing.T) {
	t.Parallel()

	result, err := Story("```text\nA tale of a throne.\n```", []string{"throne"})
	require.NoError(t, err)
	assert.Equal(t, "A tale of a throne.", result.Text)
}

func TestStory_EmptyResponse(t *testing.T) {
	t.Parallel()

	_, err := Story("   ", []string{"throne"})
	require.Error(t, err)
}
