// Package normalize turns raw lyric text into a clean, stemmed token stream.
//
// The pipeline is deterministic and side-effect free:
//  1. Strip every character outside [a-zA-Z\s] (numbers, punctuation, emoji)
//  2. Lowercase
//  3. Tokenize on word boundaries
//  4. Remove English stopwords
//  5. Stem each remaining token (Porter-family, via snowball)
//
// Usage Example:
//
//	tokens := normalize.Normalize("Running through the rain!")
//	// ["run", "rain"]
//
// Lyrics with no alphabetic content normalize to an empty token stream;
// that is graceful degradation, not an error.
package normalize

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball"
)

// nonLetter matches everything outside ASCII letters and whitespace;
// compiled once at package initialization
var nonLetter = regexp.MustCompile(`[^a-zA-Z\s]`)

// Normalize converts raw lyric text into an ordered sequence of stemmed,
// lowercase tokens with stopwords removed.
//
// Parameters:
//   - text: raw lyric text (may be empty; absent lyrics are the empty string)
//
// Returns a nil slice when the input contains no usable tokens.
func Normalize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// strip non-letters, then case-fold
	cleaned := strings.ToLower(nonLetter.ReplaceAllString(text, ""))

	tokens := tokenize(cleaned)
	if len(tokens) == 0 {
		return nil
	}

	var out []string
	for _, token := range tokens {
		if _, stop := englishStopwords[token]; stop {
			continue
		}

		// stem the token using English stemmer
		stemmed, err := snowball.Stem(token, "english", true)
		if err != nil {
			// if stemming fails, use the original token
			stemmed = token
		}

		if stemmed != "" {
			out = append(out, stemmed)
		}
	}

	slog.Debug("Normalized lyrics", "inputLength", len(text), "tokenCount", len(out))
	return out
}

// NormalizeString normalizes text and joins the tokens with single spaces.
// This is the document format used by the persisted corpus artifact and
// expected by the vectorizer.
func NormalizeString(text string) string {
	return strings.Join(Normalize(text), " ")
}

// tokenize splits cleaned text into word tokens using the prose tokenizer.
// Sentence segmentation, tagging, and entity extraction are disabled; only
// the tokenizer runs. Falls back to whitespace splitting if prose fails.
func tokenize(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		slog.Debug("Tokenizer failed, falling back to whitespace split", "error", err)
		return strings.Fields(text)
	}

	var tokens []string
	for _, tok := range doc.Tokens() {
		if t := strings.TrimSpace(tok.Text); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
