// Package app wires configuration, storage, the selected backend
// variant, and the services into one object the command layer drives.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/backend/anthropic"
	"github.com/aivoc/vocbuilder/internal/backend/gemini"
	"github.com/aivoc/vocbuilder/internal/backend/openai"
	"github.com/aivoc/vocbuilder/internal/config"
	"github.com/aivoc/vocbuilder/internal/domain"
	"github.com/aivoc/vocbuilder/internal/service/export"
	"github.com/aivoc/vocbuilder/internal/service/ingest"
	"github.com/aivoc/vocbuilder/internal/service/review"
	"github.com/aivoc/vocbuilder/internal/store"
)

// App is the assembled application: one notebook, one backend, and the
// services operating on them.
type App struct {
	cfg *config.Config
	log *slog.Logger

	store        *store.Store
	ingest       *ingest.Service
	review       *review.Service
	export       *export.Service
	closeBackend func() error
}

// New opens the notebook, builds the configured backend variant, and
// assembles the services.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	st, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client, closeBackend, err := buildBackend(ctx, cfg.Backend, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	// Order matters: the deadline applies to the whole call including
	// any rate-limit wait.
	client = backend.NewTimed(backend.NewLimited(client, cfg.Backend.RPS, cfg.Backend.Burst), cfg.Backend.Timeout)

	log.InfoContext(ctx, "application assembled",
		"version", BuildVersion(),
		"provider", client.Provider(),
		"notebook", st.Path(),
	)

	return &App{
		cfg:    cfg,
		log:    log,
		store:  st,
		ingest: ingest.NewService(log, client, st),
		review: review.NewService(log, client, st, review.Config{
			DistractorCount: cfg.Review.QuizDistractors,
			QuizParallelism: cfg.Review.QuizParallelism,
			SessionTTL:      cfg.Review.SessionTTL,
		}),
		export:       export.NewService(st),
		closeBackend: closeBackend,
	}, nil
}

// Close releases the notebook and the backend connection.
func (a *App) Close() error {
	var firstErr error
	if a.closeBackend != nil {
		firstErr = a.closeBackend()
	}
	if err := a.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func buildBackend(ctx context.Context, cfg config.BackendConfig, log *slog.Logger) (backend.Client, func() error, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		client := openai.New(openai.Config{
			BaseURL: cfg.OpenAI.APIBase,
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
		}, log)
		return client, nil, nil
	case config.ProviderGemini:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	case config.ProviderAnthropic:
		client := anthropic.New(anthropic.Config{
			APIKey: cfg.Anthropic.APIKey,
			Model:  cfg.Anthropic.Model,
		}, log)
		return client, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// ---------------------------------------------------------------------------
// Facade
// ---------------------------------------------------------------------------

// Ingest extracts unfamiliar words from text and stores them. An empty
// language code falls back to the configured default.
func (a *App) Ingest(ctx context.Context, text, languageCode string) (*ingest.Result, error) {
	if languageCode == "" {
		languageCode = a.cfg.Storage.DefaultTargetLanguage
	}
	return a.ingest.Ingest(ctx, ingest.IngestInput{Text: text, LanguageCode: languageCode})
}

// AddWord saves one user-named word, asking the backend to explain it.
// An empty language code falls back to the configured default.
func (a *App) AddWord(ctx context.Context, word, sentence, languageCode string) (*domain.VocabularyEntry, error) {
	if languageCode == "" {
		languageCode = a.cfg.Storage.DefaultTargetLanguage
	}
	return a.ingest.AddWord(ctx, ingest.AddWordInput{
		Word:            word,
		ContextSentence: sentence,
		LanguageCode:    languageCode,
	})
}

// Words lists every notebook entry in insertion order.
func (a *App) Words(ctx context.Context) ([]domain.VocabularyEntry, error) {
	return a.store.All(ctx)
}

// ReviewCandidates lists the entries most in need of practice.
func (a *App) ReviewCandidates(ctx context.Context, limit int) ([]domain.VocabularyEntry, error) {
	return a.review.Candidates(ctx, review.CandidatesInput{Limit: limit})
}

// BuildStory generates a review story over the words most in need of
// practice.
func (a *App) BuildStory(ctx context.Context, wordCount int) (*domain.StoryItem, error) {
	return a.review.BuildStory(ctx, review.StoryInput{WordCount: wordCount})
}

// StartQuiz opens a quiz session over the words most in need of practice.
func (a *App) StartQuiz(ctx context.Context, wordCount int) (*review.Session, error) {
	return a.review.StartQuiz(ctx, review.QuizInput{WordCount: wordCount})
}

// SubmitAnswers grades a quiz session and records the outcomes.
func (a *App) SubmitAnswers(ctx context.Context, sessionID uuid.UUID, answers map[string]string) (*review.SessionResult, error) {
	return a.review.SubmitAnswers(ctx, review.SubmitInput{SessionID: sessionID, Answers: answers})
}

// DeleteWord removes a word from the notebook. With markMastered it is
// also remembered as known, so future extraction skips it.
func (a *App) DeleteWord(ctx context.Context, word string, markMastered bool) error {
	if markMastered {
		if err := a.store.MasterWord(ctx, word); err != nil {
			return err
		}
	}
	return a.store.Delete(ctx, word)
}

// MasteredWords lists every word marked as already known.
func (a *App) MasteredWords(ctx context.Context) ([]string, error) {
	return a.store.MasteredWords(ctx)
}

// UnmasterWord forgets a mastered mark.
func (a *App) UnmasterWord(ctx context.Context, word string) error {
	return a.store.UnmasterWord(ctx, word)
}

// ExportCSV streams the notebook as CSV to w and returns the number of
// exported entries.
func (a *App) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	return a.export.WriteCSV(ctx, w)
}

// ExportFilename returns the conventional timestamped export file name.
func (a *App) ExportFilename() string {
	return a.export.Filename()
}
