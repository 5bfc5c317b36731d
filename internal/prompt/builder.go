// Package prompt renders the task prompts sent to the generative-AI
// backend. Every builder is a pure function: the same inputs always
// produce the same prompt, and each prompt pins down the exact output
// shape so the parse package has a tractable job.
package prompt

import (
	"fmt"
	"strings"

	"github.com/aivoc/vocbuilder/internal/domain"
)

// Prompt is one system/user message pair ready to send to a provider.
type Prompt struct {
	System string
	User   string
}

const extractionSystem = `You are an assistant helping a language learner build a personal vocabulary notebook. You identify words in a text that an intermediate learner is unlikely to know and explain them. You always answer with valid JSON and nothing else.`

const extractionShape = `[
  {
    "word": "<the word exactly as it appears in the text>",
    "word_normal_form": "<lowercase lemma / dictionary base form>",
    "context_sentence": "<the full sentence from the text containing the word, verbatim>",
    "definition": "<concise definition in simple English>",
    "translation": "<translation of the word into %s>"
  }
]`

// Extraction builds the prompt identifying unfamiliar words in text.
// Words in known are named so the model skips them. strict re-states the
// output constraints for a retry after an unparsable response.
func Extraction(text string, lang domain.Language, known []string, strict bool) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Identify every uncommon or difficult word in the text below that an intermediate learner may not know. For each one, produce a JSON record. Answer with a single JSON array matching this exact shape:\n\n")
	fmt.Fprintf(&b, extractionShape, lang.Name())
	b.WriteString("\n\nRules:\n")
	b.WriteString("- context_sentence must be copied from the text verbatim, including punctuation\n")
	b.WriteString("- word_normal_form must be the lowercase dictionary form (lemma)\n")
	fmt.Fprintf(&b, "- translation must be written in %s\n", lang.Name())
	b.WriteString("- if no word qualifies, answer with an empty JSON array: []\n")
	if len(known) > 0 {
		fmt.Fprintf(&b, "- SKIP these words, the learner already knows them: %s\n", strings.Join(known, ", "))
	}
	if strict {
		b.WriteString("- output ONLY the JSON array. No markdown fences, no commentary, no trailing text. The previous answer could not be parsed.\n")
	} else {
		b.WriteString("- output ONLY the JSON array, no markdown, no explanations\n")
	}
	fmt.Fprintf(&b, "\nText:\n%s", text)

	return Prompt{System: extractionSystem, User: b.String()}
}

const explainShape = `{
  "word": "<the word exactly as given>",
  "word_normal_form": "<lowercase lemma / dictionary base form>",
  "context_sentence": "<a natural example sentence using the word>",
  "definition": "<concise definition in simple English>",
  "translation": "<translation of the word into %s>"
}`

// Explain builds the prompt explaining a single user-named word so it
// can be saved manually. sentence, when present, is the sentence the
// learner saw the word in and is reused as the example.
func Explain(word, sentence string, lang domain.Language) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Explain the word %q for a language learner's vocabulary notebook. Answer with a single JSON object matching this exact shape:\n\n", word)
	fmt.Fprintf(&b, explainShape, lang.Name())
	b.WriteString("\n\nRules:\n")
	b.WriteString("- word_normal_form must be the lowercase dictionary form (lemma)\n")
	fmt.Fprintf(&b, "- translation must be written in %s\n", lang.Name())
	if sentence != "" {
		fmt.Fprintf(&b, "- use this sentence as context_sentence, verbatim: %s\n", sentence)
	}
	b.WriteString("- output ONLY the JSON object, no markdown, no explanations")

	return Prompt{System: extractionSystem, User: b.String()}
}

const storySystem = `You are an assistant helping a language learner retain vocabulary. You write short, vivid stories that naturally use the learner's saved words. You answer with the story text only.`

// Story builds the prompt generating a short story that embeds every
// word in words at least once. mustInclude is set on retry and names the
// words a previous attempt left out.
func Story(words []string, lang domain.Language, mustInclude []string) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short story in English (%d-%d words) that naturally includes each of these words at least once: %s.\n",
		len(words)*15, len(words)*25, strings.Join(words, ", "))
	b.WriteString("Keep the language simple enough for an intermediate learner. Mark each target word in the story by surrounding it with asterisks, like *word*.\n")
	if len(mustInclude) > 0 {
		fmt.Fprintf(&b, "Your previous story left out these words; this time every one of them MUST appear: %s.\n", strings.Join(mustInclude, ", "))
	}
	b.WriteString("Answer with the story text only, no title, no explanations.")

	return Prompt{System: storySystem, User: b.String()}
}

const quizSystem = `You are an assistant generating vocabulary quiz questions for a language learner. You always answer with valid JSON and nothing else.`

const quizShape = `{
  "prompt": "<the sentence with the target word replaced by ____>",
  "answer": "<the target word>",
  "distractors": ["<wrong option 1>", "<wrong option 2>", "..."]
}`

// Quiz builds the prompt generating a fill-in-the-blank question for
// word, preferring the stored sentence as the question body.
func Quiz(word, sentence string, lang domain.Language, distractors int) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Create one fill-in-the-blank quiz question for the word %q.\n", word)
	if sentence != "" {
		fmt.Fprintf(&b, "Base the question on this sentence, masking the word with ____: %s\n", sentence)
	} else {
		b.WriteString("Invent a natural example sentence and mask the word with ____.\n")
	}
	fmt.Fprintf(&b, "Provide exactly %d plausible but wrong answer options of the same part of speech.\n", distractors)
	fmt.Fprintf(&b, "The learner's native language is %s; keep the question and all options in English.\n", lang.Name())
	fmt.Fprintf(&b, "Answer with a single JSON object matching this exact shape:\n\n%s\n\nOutput ONLY the JSON, no markdown, no explanations.", quizShape)

	return Prompt{System: quizSystem, User: b.String()}
}
