package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aivoc/vocbuilder/internal/backend"
	"github.com/aivoc/vocbuilder/internal/domain"
	"github.com/aivoc/vocbuilder/internal/parse"
)

// BuildStory picks the words most in need of review and asks the backend
// to weave them into a short story. When the first attempt leaves words
// out, one retry names the missing ones explicitly; the attempt covering
// more words wins. A story with leftover missing words is still returned,
// flagged, rather than discarded.
func (s *Service) BuildStory(ctx context.Context, input StoryInput) (*domain.StoryItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.words.ReviewCandidates(ctx, input.WordCount)
	if err != nil {
		return nil, fmt.Errorf("pick story words: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no words to review: %w", domain.ErrNotFound)
	}

	lang, err := s.resolveLanguage(input.LanguageCode, candidates)
	if err != nil {
		return nil, err
	}

	targetWords := make([]string, len(candidates))
	for i, c := range candidates {
		targetWords[i] = c.WordNormalForm
	}

	best, err := s.generateStory(ctx, backend.StoryRequest{
		Words:          targetWords,
		TargetLanguage: lang,
	}, targetWords)
	if err != nil {
		return nil, err
	}

	if len(best.Missing) > 0 {
		s.log.WarnContext(ctx, "story left words out, retrying", "missing", best.Missing)

		retry, retryErr := s.generateStory(ctx, backend.StoryRequest{
			Words:          targetWords,
			TargetLanguage: lang,
			MustInclude:    best.Missing,
		}, targetWords)
		if retryErr == nil && len(retry.Missing) < len(best.Missing) {
			best = retry
		}
	}

	return &domain.StoryItem{
		ID:            uuid.New(),
		GeneratedText: best.Text,
		TargetWords:   targetWords,
		MissingWords:  best.Missing,
		CreatedAt:     s.now(),
	}, nil
}

func (s *Service) generateStory(ctx context.Context, req backend.StoryRequest, targetWords []string) (parse.StoryResult, error) {
	raw, err := s.backend.GenerateStory(ctx, req)
	if err != nil {
		return parse.StoryResult{}, fmt.Errorf("generate story: %w", err)
	}
	res, err := parse.Story(raw, targetWords)
	if err != nil {
		return parse.StoryResult{}, err
	}
	return res, nil
}

// resolveLanguage prefers an explicit code and otherwise follows the
// language the candidate entries were ingested with.
func (s *Service) resolveLanguage(code string, candidates []domain.VocabularyEntry) (domain.Language, error) {
	if code != "" {
		return domain.ParseLanguage(code)
	}
	return candidates[0].TargetLanguage, nil
}
