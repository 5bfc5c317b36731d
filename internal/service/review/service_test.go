package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/domain"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type generatorMock struct {
	GenerateStoryFunc func(ctx context.Context, req backend.StoryRequest) (string, error)
	GenerateQuizFunc  func(ctx context.Context, req backend.QuizRequest) (string, error)
}

func (m *generatorMock) GenerateStory(ctx context.Context, req backend.StoryRequest) (string, error) {
	return m.GenerateStoryFunc(ctx, req)
}

func (m *generatorMock) GenerateQuiz(ctx context.Context, req backend.QuizRequest) (string, error) {
	return m.GenerateQuizFunc(ctx, req)
}

type wordStoreMock struct {
	ReviewCandidatesFunc func(ctx context.Context, limit int) ([]domain.VocabularyEntry, error)
	RecordReviewFunc     func(ctx context.Context, wordNormalForm string, correct bool) error
}

func (m *wordStoreMock) ReviewCandidates(ctx context.Context, limit int) ([]domain.VocabularyEntry, error) {
	return m.ReviewCandidatesFunc(ctx, limit)
}

func (m *wordStoreMock) RecordReview(ctx context.Context, wordNormalForm string, correct bool) error {
	return m.RecordReviewFunc(ctx, wordNormalForm, correct)
}

func newTestService(backend generator, words wordStore) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), backend, words, Config{})
}

func entry(word string) domain.VocabularyEntry {
	return domain.VocabularyEntry{
		WordNormalForm:   word,
		Word:             word,
		TargetLanguage:   domain.LanguageEnglish,
		ExampleSentences: []string{"A sentence with " + word + "."},
	}
}

func candidatesOf(words ...string) func(ctx context.Context, limit int) ([]domain.VocabularyEntry, error) {
	return func(ctx context.Context, limit int) ([]domain.VocabularyEntry, error) {
		entries := make([]domain.VocabularyEntry, 0, len(words))
		for _, w := range words {
			entries = append(entries, entry(w))
		}
		if len(entries) > limit {
			entries = entries[:limit]
		}
		return entries, nil
	}
}

func quizReply(word string) string {
	return fmt.Sprintf(`{"prompt": "Which word means %s?", "answer": %q, "distractors": []}`, word, word)
}

// ---------------------------------------------------------------------------
// BuildStory tests
// ---------------------------------------------------------------------------

func TestService_BuildStory_AllWordsCovered(t *testing.T) {
	t.Parallel()

	mockBackend := &generatorMock{
		GenerateStoryFunc: func(ctx context.Context, req backend.StoryRequest) (string, error) {
			assert.Equal(t, []string{"ephemeral", "zephyr"}, req.Words)
			assert.Empty(t, req.MustInclude)
			return "An ephemeral zephyr drifted by.", nil
		},
	}
	mockWords := &wordStoreMock{ReviewCandidatesFunc: candidatesOf("ephemeral", "zephyr")}

	svc := newTestService(mockBackend, mockWords)
	story, err := svc.BuildStory(context.Background(), StoryInput{WordCount: 2})
	require.NoError(t, err)

	assert.Equal(t, "An ephemeral zephyr drifted by.", story.GeneratedText)
	assert.Equal(t, []string{"ephemeral", "zephyr"}, story.TargetWords)
	assert.Empty(t, story.MissingWords)
	assert.NotEqual(t, uuid.Nil, story.ID)
}

func TestService_BuildStory_RetriesOnMissingWords(t *testing.T) {
	t.Parallel()

	var calls int
	mockBackend := &generatorMock{
		GenerateStoryFunc: func(ctx context.Context, req backend.StoryRequest) (string, error) {
			calls++
			if calls == 1 {
				return "Just an ephemeral moment.", nil
			}
			assert.Equal(t, []string{"zephyr"}, req.MustInclude)
			return "An ephemeral zephyr drifted by.", nil
		},
	}
	mockWords := &wordStoreMock{ReviewCandidatesFunc: candidatesOf("ephemeral", "zephyr")}

	svc := newTestService(mockBackend, mockWords)
	story, err := svc.BuildStory(context.Background(), StoryInput{WordCount: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Empty(t, story.MissingWords)
}

func TestService_BuildStory_KeepsBestAttempt(t *testing.T) {
	t.Parallel()

	var calls int
	mockBackend := &generatorMock{
		GenerateStoryFunc: func(ctx context.Context, req backend.StoryRequest) (string, error) {
			calls++
			if calls == 1 {
				return "Just an ephemeral moment.", nil
			}
			// The retry is worse: it drops both words.
			return "A story about nothing in particular.", nil
		},
	}
	mockWords := &wordStoreMock{ReviewCandidatesFunc: candidatesOf("ephemeral", "zephyr")}

	svc := newTestService(mockBackend, mockWords)
	story, err := svc.BuildStory(context.Background(), StoryInput{WordCount: 2})
	require.NoError(t, err)

	assert.Equal(t, "Just an ephemeral moment.", story.GeneratedText)
	assert.Equal(t, []string{"zephyr"}, story.MissingWords)
}

func TestService_BuildStory_EmptyNotebook(t *testing.T) {
	t.Parallel()

	mockWords := &wordStoreMock{ReviewCandidatesFunc: candidatesOf()}

	svc := newTestService(nil, mockWords)
	_, err := svc.BuildStory(context.Background(), StoryInput{WordCount: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_BuildStory_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil)
	_, err := svc.BuildStory(context.Background(), StoryInput{WordCount: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// StartQuiz / SubmitAnswers tests
// ---------------------------------------------------------------------------

func TestService_StartQuiz_PreservesCandidateOrder(t *testing.T) {
	t.Parallel()

	mockBackend := &generatorMock{
		GenerateQuizFunc: func(ctx context.Context, req backend.QuizRequest) (string, error) {
			assert.Equal(t, 3, req.DistractorCount)
			return quizReply(req.Word), nil
		},
	}
	mockWords := &wordStoreMock{ReviewCandidatesFunc: candidatesOf("alpha", "bravo", "charlie")}

	svc := newTestService(mockBackend, mockWords)
	session, err := svc.StartQuiz(context.Background(), QuizInput{WordCount: 3})
	require.NoError(t, err)

	require.Len(t, session.Items, 3)
	assert.Equal(t, "alpha", session.Items[0].Word)
	assert.Equal(t, "bravo", session.Items[1].Word)
	assert.Equal(t, "charlie", session.Items[2].Word)
	// Distractors were padded from the other candidates.
	assert.NotContains(t, session.Items[0].Distractors, "alpha")
	assert.Len(t, session.Items[0].Distractors, 2)
}

func TestService_StartQuiz_DropsFailedQuestions(t *testing.T) {
	t.Parallel()

	mockBackend := &generatorMock{
		GenerateQuizFunc: func(ctx context.Context, req backend.QuizRequest) (string, error) {
			if req.Word == "bravo" {
				return "", errors.New("backend hiccup")
			}
			return quizReply(req.Word), nil
		},
	}
	mockWords := &wordStoreMock{ReviewCandidatesFunc: candidatesOf("alpha", "bravo", "charlie")}

	svc := newTestService(mockBackend, mockWords)
	session, err := svc.StartQuiz(context.Background(), QuizInput{WordCount: 3})
	require.NoError(t, err)

	require.Len(t, session.Items, 2)
	assert.Equal(t, "alpha", session.Items[0].Word)
	assert.Equal(t, "charlie", session.Items[1].Word)
	// The word without a question is reported, not silently dropped.
	assert.Equal(t, []string{"bravo"}, session.Failed)
}

func TestService_StartQuiz_AllQuestionsFail(t *testing.T) {
	t.Parallel()

	mockBackend := &generatorMock{
		GenerateQuizFunc: func(ctx context.Context, req backend.QuizRequest) (string, error) {
			return "", errors.New("backend down")
		},
	}
	mockWords := &wordStoreMock{ReviewCandidatesFunc: candidatesOf("alpha", "bravo")}

	svc := newTestService(mockBackend, mockWords)
	_, err := svc.StartQuiz(context.Background(), QuizInput{WordCount: 2})
	require.Error(t, err)
}

func TestService_SubmitAnswers_GradesAndRecords(t *testing.T) {
	t.Parallel()

	mockBackend := &generatorMock{
		GenerateQuizFunc: func(ctx context.Context, req backend.QuizRequest) (string, error) {
			return quizReply(req.Word), nil
		},
	}
	var (
		mu       sync.Mutex
		recorded = map[string]bool{}
	)
	mockWords := &wordStoreMock{
		ReviewCandidatesFunc: candidatesOf("alpha", "bravo", "charlie"),
		RecordReviewFunc: func(ctx context.Context, word string, correct bool) error {
			mu.Lock()
			defer mu.Unlock()
			recorded[word] = correct
			return nil
		},
	}

	svc := newTestService(mockBackend, mockWords)
	session, err := svc.StartQuiz(context.Background(), QuizInput{WordCount: 3})
	require.NoError(t, err)

	result, err := svc.SubmitAnswers(context.Background(), SubmitInput{
		SessionID: session.ID,
		Answers: map[string]string{
			"alpha": "  ALPHA ", // case and whitespace must not matter
			"bravo": "wrong",
			// charlie left unanswered
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, map[string]bool{"alpha": true, "bravo": false, "charlie": false}, recorded)

	require.True(t, result.Items[0].Graded())
	assert.True(t, *result.Items[0].IsCorrect)
	assert.False(t, *result.Items[1].IsCorrect)
	assert.Nil(t, result.Items[2].UserAnswer)
	require.NotNil(t, result.Items[2].IsCorrect)
	assert.False(t, *result.Items[2].IsCorrect)
}

func TestService_SubmitAnswers_SessionClaimedOnce(t *testing.T) {
	t.Parallel()

	mockBackend := &generatorMock{
		GenerateQuizFunc: func(ctx context.Context, req backend.QuizRequest) (string, error) {
			return quizReply(req.Word), nil
		},
	}
	mockWords := &wordStoreMock{
		ReviewCandidatesFunc: candidatesOf("alpha"),
		RecordReviewFunc: func(ctx context.Context, word string, correct bool) error {
			return nil
		},
	}

	svc := newTestService(mockBackend, mockWords)
	session, err := svc.StartQuiz(context.Background(), QuizInput{WordCount: 1})
	require.NoError(t, err)

	input := SubmitInput{SessionID: session.ID, Answers: map[string]string{"alpha": "alpha"}}
	_, err = svc.SubmitAnswers(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.SubmitAnswers(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_SubmitAnswers_RecordFailureKeepsGrades(t *testing.T) {
	t.Parallel()

	mockBackend := &generatorMock{
		GenerateQuizFunc: func(ctx context.Context, req backend.QuizRequest) (string, error) {
			return quizReply(req.Word), nil
		},
	}
	storeErr := errors.New("disk full")
	var (
		mu       sync.Mutex
		recorded []string
	)
	mockWords := &wordStoreMock{
		ReviewCandidatesFunc: candidatesOf("alpha", "bravo", "charlie"),
		RecordReviewFunc: func(ctx context.Context, word string, correct bool) error {
			if word == "bravo" {
				return storeErr
			}
			mu.Lock()
			defer mu.Unlock()
			recorded = append(recorded, word)
			return nil
		},
	}

	svc := newTestService(mockBackend, mockWords)
	session, err := svc.StartQuiz(context.Background(), QuizInput{WordCount: 3})
	require.NoError(t, err)

	result, err := svc.SubmitAnswers(context.Background(), SubmitInput{
		SessionID: session.ID,
		Answers: map[string]string{
			"alpha":   "alpha",
			"bravo":   "bravo",
			"charlie": "charlie",
		},
	})

	// The session was already claimed, so every item is still graded and
	// the failure comes back alongside the result.
	require.ErrorIs(t, err, storeErr)
	assert.ErrorContains(t, err, `"bravo"`)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.Correct)
	assert.Equal(t, []string{"alpha", "charlie"}, recorded)
}

func TestService_SubmitAnswers_UnknownSession(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil)
	_, err := svc.SubmitAnswers(context.Background(), SubmitInput{SessionID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionManager_ExpiredSessionNotClaimable(t *testing.T) {
	t.Parallel()

	current := time.Now()
	m := newSessionManager(time.Minute, func() time.Time { return current })

	session := m.create([]domain.QuizItem{{Word: "alpha"}}, nil)

	current = current.Add(2 * time.Minute)
	_, err := m.claim(session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
