// Command vocbuilder is an AI-assisted vocabulary notebook. It extracts
// unfamiliar words from text with a generative-AI backend, keeps them in
// a local notebook, and drills them with generated stories and quizzes.
//
// Usage:
//
//	vocbuilder ingest [-lang code] [file]   extract words from a file or stdin
//	vocbuilder add [-lang code] [-sentence text] word
//	                                        save one word the model explains
//	vocbuilder words                        list the notebook
//	vocbuilder review [-n 10]               show words most in need of practice
//	vocbuilder story [-n 5]                 generate a review story
//	vocbuilder quiz [-n 5]                  run an interactive quiz
//	vocbuilder delete [-master] word...     remove words, optionally marking them known
//	vocbuilder mastered                     list words marked as known
//	vocbuilder export [-o file]             export the notebook as CSV
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/aivoc/vocbuilder/internal/app"
	"github.com/aivoc/vocbuilder/internal/config"
	"github.com/aivoc/vocbuilder/internal/domain"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "vocbuilder:", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vocbuilder:", err)
		os.Exit(1)
	}
	defer a.Close()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := run(ctx, a, cmd, args); err != nil {
		fmt.Fprintln(os.Stderr, "vocbuilder:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, cmd string, args []string) error {
	switch cmd {
	case "ingest":
		return runIngest(ctx, a, args)
	case "add":
		return runAdd(ctx, a, args)
	case "words":
		return runWords(ctx, a)
	case "review":
		return runReview(ctx, a, args)
	case "story":
		return runStory(ctx, a, args)
	case "quiz":
		return runQuiz(ctx, a, args)
	case "delete":
		return runDelete(ctx, a, args)
	case "mastered":
		return runMastered(ctx, a)
	case "export":
		return runExport(ctx, a, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: vocbuilder <command> [flags]

commands:
  ingest [-lang code] [file]   extract words from a file or stdin
  add [-lang code] [-sentence text] word
                               save one word the model explains
  words                        list the notebook
  review [-n 10]               show words most in need of practice
  story [-n 5]                 generate a review story
  quiz [-n 5]                  run an interactive quiz
  delete [-master] word...     remove words, optionally marking them known
  mastered                     list words marked as known
  export [-o file]             export the notebook as CSV`)
}

func runIngest(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	lang := fs.String("lang", "", "target language code (default from config)")
	_ = fs.Parse(args)

	var (
		text []byte
		err  error
	)
	if fs.NArg() > 0 && fs.Arg(0) != "-" {
		text, err = os.ReadFile(fs.Arg(0))
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read text: %w", err)
	}

	result, err := a.Ingest(ctx, string(text), *lang)
	if err != nil {
		return err
	}

	for _, e := range result.Entries {
		fmt.Printf("+ %-20s %s\n", e.WordNormalForm, firstNonEmpty(e.Definition, e.Translation))
	}
	fmt.Printf("added %d, skipped %d known, dropped %d malformed\n",
		len(result.Entries), result.SkippedKnown, result.DroppedRecords)
	return nil
}

func runAdd(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	lang := fs.String("lang", "", "target language code (default from config)")
	sentence := fs.String("sentence", "", "sentence the word was seen in")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("add: exactly one word required")
	}

	entry, err := a.AddWord(ctx, fs.Arg(0), *sentence, *lang)
	if err != nil {
		return err
	}
	fmt.Printf("+ %-20s %s\n", entry.WordNormalForm, firstNonEmpty(entry.Definition, entry.Translation))
	return nil
}

func runWords(ctx context.Context, a *app.App) error {
	entries, err := a.Words(ctx)
	if err != nil {
		return err
	}
	printEntries(entries)
	return nil
}

func runReview(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	n := fs.Int("n", 10, "number of words")
	_ = fs.Parse(args)

	entries, err := a.ReviewCandidates(ctx, *n)
	if err != nil {
		return err
	}
	printEntries(entries)
	return nil
}

func runStory(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("story", flag.ExitOnError)
	n := fs.Int("n", 5, "number of words to weave in")
	_ = fs.Parse(args)

	story, err := a.BuildStory(ctx, *n)
	if err != nil {
		return err
	}

	fmt.Println(story.GeneratedText)
	fmt.Println()
	fmt.Println("words:", strings.Join(story.TargetWords, ", "))
	if len(story.MissingWords) > 0 {
		fmt.Println("not woven in:", strings.Join(story.MissingWords, ", "))
	}
	return nil
}

func runQuiz(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("quiz", flag.ExitOnError)
	n := fs.Int("n", 5, "number of questions")
	_ = fs.Parse(args)

	session, err := a.StartQuiz(ctx, *n)
	if err != nil {
		return err
	}
	if len(session.Failed) > 0 {
		fmt.Fprintln(os.Stderr, "no question generated for:", strings.Join(session.Failed, ", "))
	}

	in := bufio.NewScanner(os.Stdin)
	answers := make(map[string]string, len(session.Items))
	for i, item := range session.Items {
		options := shuffledOptions(item.Answer, item.Distractors)
		fmt.Printf("\n%d/%d  %s\n", i+1, len(session.Items), item.PromptText)
		for j, opt := range options {
			fmt.Printf("  %d) %s\n", j+1, opt)
		}
		fmt.Print("> ")
		if !in.Scan() {
			break
		}
		answers[item.Word] = pickOption(in.Text(), options)
	}

	result, submitErr := a.SubmitAnswers(ctx, session.ID, answers)
	if result == nil {
		return submitErr
	}

	fmt.Printf("\nscore: %d/%d\n", result.Correct, result.Total)
	for _, item := range result.Items {
		mark := "✗"
		if item.IsCorrect != nil && *item.IsCorrect {
			mark = "✓"
		}
		fmt.Printf("  %s %-20s answer: %s\n", mark, item.Word, item.Answer)
	}
	// A recording failure does not discard the grades already shown.
	return submitErr
}

// shuffledOptions mixes the answer in with the distractors so its
// position gives nothing away.
func shuffledOptions(answer string, distractors []string) []string {
	options := append([]string{answer}, distractors...)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// pickOption resolves a numeric choice to its option text; any other
// input is graded as a literal answer.
func pickOption(input string, options []string) string {
	input = strings.TrimSpace(input)
	if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(options) {
		return options[idx-1]
	}
	return input
}

func runDelete(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	master := fs.Bool("master", false, "also mark the words as already known")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("delete: at least one word required")
	}
	for _, w := range fs.Args() {
		if err := a.DeleteWord(ctx, w, *master); err != nil {
			return err
		}
	}
	return nil
}

func runMastered(ctx context.Context, a *app.App) error {
	words, err := a.MasteredWords(ctx)
	if err != nil {
		return err
	}
	for _, w := range words {
		fmt.Println(w)
	}
	return nil
}

func runExport(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output file (default a timestamped name)")
	_ = fs.Parse(args)

	path := *out
	if path == "" {
		path = a.ExportFilename()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := a.ExportCSV(ctx, f)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d words to %s\n", n, path)
	return nil
}

func printEntries(entries []domain.VocabularyEntry) {
	for _, e := range entries {
		fmt.Printf("%-20s %-6s reviews=%d  %s\n",
			e.WordNormalForm, e.TargetLanguage, e.ReviewCount,
			firstNonEmpty(e.Definition, e.Translation))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
