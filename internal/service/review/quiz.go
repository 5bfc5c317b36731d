package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/domain"
	"github.com/aivoc/vocbuilder/internal/parse"
)

// StartQuiz builds one quiz question per candidate word and opens a
// session holding them. Questions are generated concurrently but the
// session preserves candidate order. A word whose question cannot be
// generated is left out of the questions and named in Session.Failed;
// the call fails only when no question survives.
func (s *Service) StartQuiz(ctx context.Context, input QuizInput) (*Session, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.words.ReviewCandidates(ctx, input.WordCount)
	if err != nil {
		return nil, fmt.Errorf("pick quiz words: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no words to review: %w", domain.ErrNotFound)
	}

	lang, err := s.resolveLanguage(input.LanguageCode, candidates)
	if err != nil {
		return nil, err
	}

	pool := make([]string, len(candidates))
	for i, c := range candidates {
		pool[i] = c.WordNormalForm
	}

	type outcome struct {
		item domain.QuizItem
		err  error
	}
	outcomes := make([]outcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.QuizParallelism)
	for i, entry := range candidates {
		g.Go(func() error {
			item, err := s.generateQuiz(gctx, entry, lang, distractorPool(pool, i))
			outcomes[i] = outcome{item: item, err: err}
			return nil
		})
	}
	_ = g.Wait()

	items := make([]domain.QuizItem, 0, len(candidates))
	var failed []string
	for i, o := range outcomes {
		if o.err != nil {
			s.log.WarnContext(ctx, "quiz question dropped",
				"word", candidates[i].WordNormalForm, "error", o.err)
			failed = append(failed, candidates[i].WordNormalForm)
			continue
		}
		items = append(items, o.item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("quiz generation failed for all %d words: %w", len(candidates), outcomes[0].err)
	}

	session := s.sessions.create(items, failed)
	s.log.InfoContext(ctx, "quiz session started",
		"session_id", session.ID, "questions", len(items), "failed", len(failed))
	return session, nil
}

func (s *Service) generateQuiz(ctx context.Context, entry domain.VocabularyEntry, lang domain.Language, pool []string) (domain.QuizItem, error) {
	sentence := ""
	if n := len(entry.ExampleSentences); n > 0 {
		sentence = entry.ExampleSentences[n-1]
	}

	raw, err := s.backend.GenerateQuiz(ctx, backend.QuizRequest{
		Word:            entry.WordNormalForm,
		ContextSentence: sentence,
		TargetLanguage:  lang,
		DistractorCount: s.cfg.DistractorCount,
	})
	if err != nil {
		return domain.QuizItem{}, fmt.Errorf("generate quiz: %w", err)
	}
	return parse.Quiz(raw, entry.WordNormalForm, pool, s.cfg.DistractorCount)
}

// SubmitAnswers grades the session's items, records the outcomes, and
// closes the session. Grading ignores case and surrounding whitespace;
// an unanswered item counts as incorrect. The session is claimed up
// front and cannot be resubmitted, so a failure to record one review
// never discards the rest: every item is still graded and recorded, and
// the graded result comes back alongside the joined error.
func (s *Service) SubmitAnswers(ctx context.Context, input SubmitInput) (*SessionResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessions.claim(input.SessionID)
	if err != nil {
		return nil, err
	}

	result := &SessionResult{SessionID: session.ID, Total: len(session.Items)}
	var recordErrs []error
	for i := range session.Items {
		item := &session.Items[i]

		answer, answered := input.Answers[item.Word]
		correct := answered && answersEqual(answer, item.Answer)
		if answered {
			item.UserAnswer = &answer
		}
		item.IsCorrect = &correct
		if correct {
			result.Correct++
		}

		if err := s.words.RecordReview(ctx, item.Word, correct); err != nil {
			recordErrs = append(recordErrs, fmt.Errorf("record review %q: %w", item.Word, err))
		}
	}
	result.Items = session.Items

	s.log.InfoContext(ctx, "quiz session graded",
		"session_id", session.ID, "correct", result.Correct, "total", result.Total)
	return result, errors.Join(recordErrs...)
}

// SessionResult is the graded outcome of a quiz session.
type SessionResult struct {
	SessionID uuid.UUID
	Items     []domain.QuizItem
	Correct   int
	Total     int
}

func answersEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// distractorPool is every candidate word except the quizzed one.
func distractorPool(pool []string, exclude int) []string {
	out := make([]string, 0, len(pool)-1)
	for i, w := range pool {
		if i == exclude {
			continue
		}
		out = append(out, w)
	}
	return out
}
