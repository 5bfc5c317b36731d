// Package review implements the retention side of the notebook: picking
// words due for practice, weaving them into generated stories, and
// running gradeable quiz sessions whose outcomes feed back into the
// review counters.
package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type generator interface {
	GenerateStory(ctx context.Context, req backend.StoryRequest) (string, error)
	GenerateQuiz(ctx context.Context, req backend.QuizRequest) (string, error)
}

type wordStore interface {
	ReviewCandidates(ctx context.Context, limit int) ([]domain.VocabularyEntry, error)
	RecordReview(ctx context.Context, wordNormalForm string, correct bool) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config tunes the retention engine.
type Config struct {
	// DistractorCount is the number of wrong options per quiz question.
	DistractorCount int
	// QuizParallelism bounds concurrent quiz-generation calls.
	QuizParallelism int
	// SessionTTL is how long an unanswered quiz session stays claimable.
	SessionTTL time.Duration
}

// Service implements the retention business logic.
type Service struct {
	backend  generator
	words    wordStore
	sessions *sessionManager
	cfg      Config
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new review service.
func NewService(log *slog.Logger, backend generator, words wordStore, cfg Config) *Service {
	if cfg.DistractorCount <= 0 {
		cfg.DistractorCount = 3
	}
	if cfg.QuizParallelism <= 0 {
		cfg.QuizParallelism = 4
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	now := time.Now
	return &Service{
		backend:  backend,
		words:    words,
		sessions: newSessionManager(cfg.SessionTTL, now),
		cfg:      cfg,
		log:      log,
		now:      now,
	}
}

// Candidates returns up to limit entries most in need of review.
func (s *Service) Candidates(ctx context.Context, input CandidatesInput) ([]domain.VocabularyEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.words.ReviewCandidates(ctx, input.Limit)
}
