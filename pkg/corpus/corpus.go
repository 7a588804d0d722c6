// Package corpus fetches a web article and splits it into sentences for
// annotation. It is an external collaborator for building example text to
// feed the accent pipeline, never imported by the core pipeline itself.
package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"
)

const (
	maxBodySize = 10 * 1024 * 1024
	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var logger zerolog.Logger

// SetLogger installs the package-level logger used for download diagnostics.
func SetLogger(l zerolog.Logger) { logger = l }

// Article is the extracted text of a downloaded page.
type Article struct {
	Title   string
	Text    string
	SiteURL string
}

// Fetch downloads rawURL, strips ruby annotations, and extracts clean
// article text via go-readability.
func Fetch(ctx context.Context, rawURL string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("corpus: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ja;q=0.8")

	client := &http.Client{Timeout: 30 * time.Second}
	logger.Info().Str("url", rawURL).Msg("fetching corpus source")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("corpus: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corpus: %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("corpus: read body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("corpus: %s: response exceeds %d bytes", rawURL, maxBodySize)
	}

	body = SanitizeRuby(body)

	parsed, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return nil, fmt.Errorf("corpus: extract article: %w", err)
	}

	logger.Info().Str("title", article.Title).Int("chars", len(article.TextContent)).Msg("extracted article text")
	return &Article{Title: article.Title, Text: article.TextContent, SiteURL: rawURL}, nil
}

var (
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses
// (<rp>...</rp>) so readability's text extraction doesn't duplicate
// kanji+furigana as "漢字かんじ".
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	cleaned = reRP.ReplaceAll(cleaned, []byte{})
	return cleaned
}

// SplitSentences splits text on Japanese sentence-final punctuation
// (。！？) and newlines.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '。' || r == '！' || r == '？' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
