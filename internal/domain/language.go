package domain

import (
	"strings"
)

// Language is the target language a learner translates words into.
// The set is fixed: prompts name the language explicitly, so adding a
// new one means adding it here and nowhere else.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageChinese    Language = "zh"
	LanguageJapanese   Language = "ja"
	LanguageKorean     Language = "ko"
	LanguageSpanish    Language = "es"
	LanguageFrench     Language = "fr"
	LanguageGerman     Language = "de"
	LanguageItalian    Language = "it"
	LanguagePortuguese Language = "pt"
	LanguageRussian    Language = "ru"
	LanguageUkrainian  Language = "uk"
	LanguageArabic     Language = "ar"
	LanguageHindi      Language = "hi"
	LanguageDutch      Language = "nl"
	LanguagePolish     Language = "pl"
	LanguageTurkish    Language = "tr"
)

var languageNames = map[Language]string{
	LanguageEnglish:    "English",
	LanguageChinese:    "Simplified Chinese",
	LanguageJapanese:   "Japanese",
	LanguageKorean:     "Korean",
	LanguageSpanish:    "Spanish",
	LanguageFrench:     "French",
	LanguageGerman:     "German",
	LanguageItalian:    "Italian",
	LanguagePortuguese: "Portuguese",
	LanguageRussian:    "Russian",
	LanguageUkrainian:  "Ukrainian",
	LanguageArabic:     "Arabic",
	LanguageHindi:      "Hindi",
	LanguageDutch:      "Dutch",
	LanguagePolish:     "Polish",
	LanguageTurkish:    "Turkish",
}

func (l Language) String() string { return string(l) }

// Name returns the human-readable language name used inside prompts.
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return string(l)
}

func (l Language) IsValid() bool {
	_, ok := languageNames[l]
	return ok
}

// ParseLanguage converts a user-supplied code ("zh", "ZH", " zh ") into a
// Language, or returns a ValidationError for unsupported codes.
func ParseLanguage(code string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(code)))
	if !l.IsValid() {
		return "", NewValidationError("target_language", "unsupported language code: "+code)
	}
	return l, nil
}
