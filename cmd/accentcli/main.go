// Command accentcli annotates Japanese text with pitch accent patterns. It
// composes the pipeline packages: pkg/tokenize for morphological analysis,
// pkg/rules for the F-rule table, pkg/accent for the annotation itself, and,
// for batch runs against a URL, pkg/corpus for fetch/sentence-splitting,
// pkg/ingest for concurrent annotation, pkg/store for result caching,
// pkg/dictionary for gloss enrichment, and pkg/cards for Anki export.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/japaniel/pitchaccent/pkg/accent"
	"github.com/japaniel/pitchaccent/pkg/cards"
	"github.com/japaniel/pitchaccent/pkg/constituent"
	"github.com/japaniel/pitchaccent/pkg/corpus"
	"github.com/japaniel/pitchaccent/pkg/dictionary"
	"github.com/japaniel/pitchaccent/pkg/ingest"
	"github.com/japaniel/pitchaccent/pkg/rules"
	"github.com/japaniel/pitchaccent/pkg/store"
	"github.com/japaniel/pitchaccent/pkg/tokenize"
)

func main() {
	textFlag := flag.String("text", "", "Japanese text to annotate directly")
	urlFlag := flag.String("url", "", "Article URL to fetch, split into sentences, and annotate")
	dbFlag := flag.String("db", "accentcli.db", "Path to the SQLite result cache (used with -url)")
	rulesFlag := flag.String("rules", "", "Path to a custom rules.json (default: the embedded table)")
	dictFlag := flag.String("dict", "", "Path to a JMdict-simplified JSON file; attaches glosses to cached words")
	exportFlag := flag.String("export-tsv", "", "Path to write an Anki-importable TSV deck (used with -url)")
	workersFlag := flag.Int("workers", 4, "Concurrent annotation workers for -url batch processing")
	logLevelFlag := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevelFlag)
	corpus.SetLogger(logger)
	rules.SetLogger(logger)
	dictionary.SetLogger(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	table, err := loadRules(*rulesFlag)
	if err != nil {
		log.Fatalf("failed to load rule table: %v", err)
	}

	tokenizer, err := tokenize.New()
	if err != nil {
		log.Fatalf("failed to build tokenizer: %v", err)
	}

	onUnknownSuffix := func(u constituent.UnclassifiedSuffix) {
		logger.Warn().Str("surface", u.Surface).Str("pos2", u.POS2).
			Msg("unclassified suffix, treated as a new constituent")
	}

	switch {
	case *textFlag != "":
		runText(ctx, *textFlag, tokenizer, table, onUnknownSuffix)
	case *urlFlag != "":
		runURL(ctx, urlOptions{
			url:        *urlFlag,
			dbPath:     *dbFlag,
			dictPath:   *dictFlag,
			exportPath: *exportFlag,
			workers:    *workersFlag,
		}, tokenizer, table, onUnknownSuffix, logger)
	default:
		log.Fatal("provide either -text or -url")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()
}

func loadRules(path string) (*rules.Table, error) {
	if path == "" {
		return rules.LoadDefault()
	}
	return rules.Load(path)
}

// runText annotates a single piece of text and prints one line per content
// word: surface, reading, accent type, and H/L pattern.
func runText(ctx context.Context, text string, tokenizer *tokenize.Tokenizer, table *rules.Table, onUnknownSuffix accent.UnknownSuffixFunc) {
	results, errs := accent.Annotate(ctx, text, tokenizer, table, onUnknownSuffix)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	for _, r := range results {
		printWordResult(r)
	}
}

func printWordResult(r accent.WordResult) {
	marker := ""
	if r.Unannotated {
		marker = "\t(unannotated)"
	}
	fmt.Printf("%s\t%s\t[%d]\t%s%s\n", r.Surface, r.Reading, r.AccentType, r.Pattern, marker)
}

type urlOptions struct {
	url        string
	dbPath     string
	dictPath   string
	exportPath string
	workers    int
}

// runURL fetches an article, annotates every sentence concurrently through
// pkg/ingest, caches the results in a Store, and optionally enriches the
// cache with dictionary glosses and exports an Anki deck.
func runURL(ctx context.Context, opts urlOptions, tokenizer *tokenize.Tokenizer, table *rules.Table, onUnknownSuffix accent.UnknownSuffixFunc, logger zerolog.Logger) {
	article, err := corpus.Fetch(ctx, opts.url)
	if err != nil {
		log.Fatalf("failed to fetch %s: %v", opts.url, err)
	}
	sentences := corpus.SplitSentences(article.Text)
	logger.Info().Int("sentences", len(sentences)).Str("title", article.Title).Msg("extracted article")

	st, err := store.Open(opts.dbPath)
	if err != nil {
		log.Fatalf("failed to open store at %s: %v", opts.dbPath, err)
	}
	defer st.Close()

	proc := ingest.NewProcessor(tokenizer, table, st)
	proc.Workers = opts.workers
	proc.OnUnknownSuffix = onUnknownSuffix
	proc.OnSentenceErrors = func(sentence string, errs []error) {
		for _, err := range errs {
			logger.Warn().Str("sentence", sentence).Err(err).Msg("partial annotation failure")
		}
	}
	proc.OnProgress = func(done, total int) {
		if done%20 == 0 || done == total {
			logger.Info().Int("done", done).Int("total", total).Msg("annotating")
		}
	}

	count, err := proc.ProcessSentences(ctx, sentences)
	if err != nil {
		log.Fatalf("batch annotation failed: %v", err)
	}
	fmt.Printf("persisted %d word occurrences to %s\n", count, opts.dbPath)

	if opts.dictPath != "" {
		attachGlosses(opts.dictPath, st, logger)
	}

	if opts.exportPath != "" {
		if err := exportCards(ctx, sentences, tokenizer, table, opts.exportPath); err != nil {
			log.Fatalf("failed to export cards: %v", err)
		}
	}
}

func attachGlosses(dictPath string, st *store.Store, logger zerolog.Logger) {
	entries, err := dictionary.LoadJMdictSimplified(dictPath)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load dictionary, skipping gloss import")
		return
	}
	importer := dictionary.NewImporter(entries)
	updated, err := importer.ProcessUpdates(st)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to attach glosses")
		return
	}
	fmt.Printf("attached glosses to %d cached words\n", updated)
}

// exportCards re-annotates every sentence sequentially to build one card per
// sentence (a card's Back lists all of that sentence's content words), and
// writes the deck as TSV. It re-runs annotation rather than reading back
// from the Store because the Store indexes by surface, discarding the
// per-sentence word grouping a card needs.
func exportCards(ctx context.Context, sentences []string, tokenizer *tokenize.Tokenizer, table *rules.Table, path string) error {
	var deck []cards.Card
	for _, s := range sentences {
		words, _ := accent.Annotate(ctx, s, tokenizer, table, nil)
		if len(words) == 0 {
			continue
		}
		deck = append(deck, cards.BuildCard(s, words))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := cards.ExportTSV(f, deck); err != nil {
		return err
	}
	fmt.Printf("exported %d cards to %s\n", len(deck), path)
	return nil
}
