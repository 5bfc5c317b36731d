package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// MasterWord marks a normalized form as already known so extraction
// skips it from now on. Marking a word twice is a no-op.
func (s *Store) MasterWord(ctx context.Context, wordNormalForm string) error {
	key := domain.NormalizeWord(wordNormalForm)
	if key == "" {
		return domain.NewValidationError("word_normal_form", "required")
	}

	_, err := builder.Insert("mastered_words").
		Options("OR IGNORE").
		Columns("word_normalized", "created_at").
		Values(key, time.Now().Unix()).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("master %q: %w", key, err)
	}
	return nil
}

// UnmasterWord removes the mastered mark. Unmarking an absent word is a
// no-op.
func (s *Store) UnmasterWord(ctx context.Context, wordNormalForm string) error {
	key := domain.NormalizeWord(wordNormalForm)

	_, err := builder.Delete("mastered_words").
		Where(sq.Eq{"word_normalized": key}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("unmaster %q: %w", key, err)
	}
	return nil
}

// MasteredWords returns every mastered normal form, sorted.
func (s *Store) MasteredWords(ctx context.Context) ([]string, error) {
	rows, err := builder.Select("word_normalized").
		From("mastered_words").
		OrderBy("word_normalized ASC").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mastered: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("list mastered: scan: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}
