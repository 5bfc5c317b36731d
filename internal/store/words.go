package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/aivoc/vocbuilder/internal/domain"
)

var wordColumns = []string{
	"id", "word_normalized", "word", "definition", "translation",
	"target_language", "created_at", "last_reviewed_at", "review_count", "lapses",
}

// wordRow is the raw database shape of a words row.
type wordRow struct {
	id             int64
	normalized     string
	word           string
	definition     string
	translation    string
	targetLanguage string
	createdAt      int64
	lastReviewedAt sql.NullInt64
	reviewCount    int
	lapses         int
}

func (r wordRow) toEntry() domain.VocabularyEntry {
	entry := domain.VocabularyEntry{
		WordNormalForm: r.normalized,
		Word:           r.word,
		Definition:     r.definition,
		Translation:    r.translation,
		TargetLanguage: domain.Language(r.targetLanguage),
		CreatedAt:      time.Unix(r.createdAt, 0).UTC(),
		ReviewCount:    r.reviewCount,
		Lapses:         r.lapses,
	}
	if r.lastReviewedAt.Valid {
		t := time.Unix(r.lastReviewedAt.Int64, 0).UTC()
		entry.LastReviewedAt = &t
	}
	return entry
}

func scanWordRow(row sq.RowScanner) (wordRow, error) {
	var r wordRow
	err := row.Scan(&r.id, &r.normalized, &r.word, &r.definition, &r.translation,
		&r.targetLanguage, &r.createdAt, &r.lastReviewedAt, &r.reviewCount, &r.lapses)
	return r, err
}

// Lookup returns the entry for an exact normalized key, or ErrNotFound.
func (s *Store) Lookup(ctx context.Context, wordNormalForm string) (*domain.VocabularyEntry, error) {
	key := domain.NormalizeWord(wordNormalForm)

	row := builder.Select(wordColumns...).
		From("words").
		Where(sq.Eq{"word_normalized": key}).
		RunWith(s.db).
		QueryRowContext(ctx)

	r, err := scanWordRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", key, err)
	}

	entry := r.toEntry()
	entry.ExampleSentences, err = s.sentencesFor(ctx, r.id)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", key, err)
	}
	return &entry, nil
}

// Upsert merges a word sample into the notebook. A new word creates an
// entry; a known word appends its context sentence (skipped when the
// byte-identical sentence is already present) and fills definition and
// translation only if the stored ones are empty. The existing definition
// is never overwritten. Returns the post-mutation entry.
func (s *Store) Upsert(ctx context.Context, sample domain.WordSample) (*domain.VocabularyEntry, error) {
	key := domain.NormalizeWord(sample.WordNormalForm)
	if key == "" {
		return nil, domain.NewValidationError("word_normal_form", "required")
	}

	lock := s.locks.lock(key)
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("upsert %q: begin: %w", key, err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	row := builder.Select("id", "definition", "translation").
		From("words").
		Where(sq.Eq{"word_normalized": key}).
		RunWith(tx).
		QueryRowContext(ctx)

	var (
		wordID      int64
		definition  string
		translation string
	)
	err = row.Scan(&wordID, &definition, &translation)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := builder.Insert("words").
			Columns("word_normalized", "word", "definition", "translation", "target_language", "created_at").
			Values(key, sample.Word, sample.Definition, sample.Translation, string(sample.TargetLanguage), now).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("upsert %q: insert word: %w", key, err)
		}
		wordID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("upsert %q: last insert id: %w", key, err)
		}
	case err != nil:
		return nil, fmt.Errorf("upsert %q: select: %w", key, err)
	default:
		update := builder.Update("words").Where(sq.Eq{"id": wordID})
		changed := false
		if definition == "" && sample.Definition != "" {
			update = update.Set("definition", sample.Definition)
			changed = true
		}
		if translation == "" && sample.Translation != "" {
			update = update.Set("translation", sample.Translation)
			changed = true
		}
		if changed {
			if _, err := update.RunWith(tx).ExecContext(ctx); err != nil {
				return nil, fmt.Errorf("upsert %q: fill empty fields: %w", key, err)
			}
		}
	}

	if sample.ContextSentence != "" {
		// The UNIQUE(word_id, sentence) constraint makes the append
		// idempotent for byte-identical sentences.
		_, err := builder.Insert("sentences").
			Options("OR IGNORE").
			Columns("word_id", "sentence", "created_at").
			Values(wordID, sample.ContextSentence, now).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("upsert %q: append sentence: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("upsert %q: commit: %w", key, err)
	}

	return s.Lookup(ctx, key)
}

// All returns every entry in insertion order, sentences included.
func (s *Store) All(ctx context.Context) ([]domain.VocabularyEntry, error) {
	rows, err := builder.Select(wordColumns...).
		From("words").
		OrderBy("id ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	return s.collectEntries(ctx, rows)
}

// ReviewCandidates returns up to limit entries most in need of review:
// never-reviewed first, then least recently reviewed, ties broken by
// lowest review count, then oldest entry. The ordering is policy, not
// contract; it lives in one query so it can be swapped out.
func (s *Store) ReviewCandidates(ctx context.Context, limit int) ([]domain.VocabularyEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := builder.Select(wordColumns...).
		From("words").
		OrderBy("last_reviewed_at ASC NULLS FIRST", "review_count ASC", "created_at ASC", "id ASC").
		Limit(uint64(limit)).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("review candidates: %w", err)
	}
	defer rows.Close()

	return s.collectEntries(ctx, rows)
}

// RecordReview increments the review counter and stamps the review time.
// An incorrect answer also counts as a lapse.
func (s *Store) RecordReview(ctx context.Context, wordNormalForm string, correct bool) error {
	key := domain.NormalizeWord(wordNormalForm)

	lock := s.locks.lock(key)
	defer lock.Unlock()

	update := builder.Update("words").
		Set("review_count", sq.Expr("review_count + 1")).
		Set("last_reviewed_at", time.Now().Unix()).
		Where(sq.Eq{"word_normalized": key})
	if !correct {
		update = update.Set("lapses", sq.Expr("lapses + 1"))
	}

	res, err := update.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("record review %q: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record review %q: %w", key, err)
	}
	if affected == 0 {
		return fmt.Errorf("record review %q: %w", key, domain.ErrNotFound)
	}
	return nil
}

// Delete removes an entry and its sentences. Deleting an absent word is
// a no-op.
func (s *Store) Delete(ctx context.Context, wordNormalForm string) error {
	key := domain.NormalizeWord(wordNormalForm)

	lock := s.locks.lock(key)
	defer lock.Unlock()

	_, err := builder.Delete("words").
		Where(sq.Eq{"word_normalized": key}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Count returns the number of entries in the notebook.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := builder.Select("count(*)").
		From("words").
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

// KnownWords returns the normalized forms the learner already knows:
// everything stored plus everything marked mastered, sorted for a
// deterministic prompt.
func (s *Store) KnownWords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT word_normalized FROM words
UNION
SELECT word_normalized FROM mastered_words
ORDER BY word_normalized`)
	if err != nil {
		return nil, fmt.Errorf("known words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("known words: scan: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// collectEntries materializes word rows and attaches their sentences,
// preserving row order.
func (s *Store) collectEntries(ctx context.Context, rows *sql.Rows) ([]domain.VocabularyEntry, error) {
	var (
		entries []domain.VocabularyEntry
		ids     []int64
	)
	for rows.Next() {
		r, err := scanWordRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		entries = append(entries, r.toEntry())
		ids = append(ids, r.id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	sentences, err := s.sentencesByWordID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		entries[i].ExampleSentences = sentences[id]
	}
	return entries, nil
}

// sentencesFor returns one word's sentences, oldest first.
func (s *Store) sentencesFor(ctx context.Context, wordID int64) ([]string, error) {
	byID, err := s.sentencesByWordID(ctx, []int64{wordID})
	if err != nil {
		return nil, err
	}
	return byID[wordID], nil
}

func (s *Store) sentencesByWordID(ctx context.Context, wordIDs []int64) (map[int64][]string, error) {
	rows, err := builder.Select("word_id", "sentence").
		From("sentences").
		Where(sq.Eq{"word_id": wordIDs}).
		OrderBy("word_id ASC", "id ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sentences: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64][]string, len(wordIDs))
	for rows.Next() {
		var (
			id       int64
			sentence string
		)
		if err := rows.Scan(&id, &sentence); err != nil {
			return nil, fmt.Errorf("load sentences: scan: %w", err)
		}
		byID[id] = append(byID[id], sentence)
	}
	return byID, rows.Err()
}
