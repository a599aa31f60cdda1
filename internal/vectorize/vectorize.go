// Package vectorize builds a fixed vocabulary and document-term count matrix
// over a corpus of normalized documents.
//
// The vectorizer applies document-frequency bounds (terms appearing in more
// than MaxDF of documents or fewer than MinDF documents are pruned) and a
// stopword set combining the standard English list with a curated list of
// lyric-specific noise tokens.
//
// Usage Example:
//
//	vocab, counts, err := vectorize.Fit(corpus, vectorize.DefaultOptions())
//	queryVec := vocab.Transform(queryDoc)
//
// Vocabulary column order is lexicographic over terms, which makes Fit fully
// deterministic: the same corpus and bounds always produce an identical
// vocabulary and matrix.
package vectorize

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/chriscorrea/cadence/internal/normalize"
)

// Options controls vocabulary pruning during Fit.
type Options struct {
	// MaxDF prunes terms appearing in more than this fraction of documents.
	MaxDF float64
	// MinDF prunes terms appearing in fewer than this many documents.
	MinDF int
	// ExtraStopwords are additional terms to exclude, on top of the standard
	// English set and the built-in lyric noise list.
	ExtraStopwords []string
}

// DefaultOptions returns the standard pruning bounds: terms in more than 95%
// of documents or fewer than 2 documents are dropped.
func DefaultOptions() Options {
	return Options{MaxDF: 0.95, MinDF: 2}
}

// lyricNoise lists stemmed filler interjections and recurring collaborator
// names that dominate topic signal in lyric corpora without carrying meaning.
var lyricNoise = []string{
	"hmmmmm", "ah", "someth", "caus", "kany", "ill", "wan",
	"ive", "want", "id", "ayo", "arent", "laci", "steve", "na",
	"daniel", "caesar", "mayb", "em", "oh", "song", "lyrics",
	"chorus", "kendrick", "lamar", "choru", "ye", "ooh",
	"dont", "kanye", "vincent", "aah", "vers", "like", "intro",
	"hello", "aaliyah", "skit", "aint", "im", "yeah",
	"yo", "brent", "faiyaz", "mm",
}

// Vocabulary maps normalized terms to column indices in the count matrix.
type Vocabulary struct {
	index map[string]int
	terms []string // column -> term, lexicographic order
}

// Fit builds a Vocabulary and document-term count matrix from a corpus of
// normalized documents (space-joined token strings).
//
// Parameters:
//   - corpus: ordered sequence of normalized documents; row order is preserved
//   - opts: pruning bounds; zero values fall back to DefaultOptions
//
// Returns the vocabulary, a len(corpus) x vocabulary-size count matrix, and
// an error if the corpus is empty or pruning leaves no vocabulary at all.
func Fit(corpus []string, opts Options) (*Vocabulary, *mat.Dense, error) {
	if len(corpus) == 0 {
		return nil, nil, fmt.Errorf("cannot fit vectorizer on empty corpus")
	}

	if opts.MaxDF <= 0 {
		opts.MaxDF = DefaultOptions().MaxDF
	}
	if opts.MinDF <= 0 {
		opts.MinDF = DefaultOptions().MinDF
	}

	stop := buildStopwordSet(opts.ExtraStopwords)

	// document frequency per term
	docFreq := make(map[string]int)
	docTokens := make([][]string, len(corpus))
	for i, doc := range corpus {
		tokens := strings.Fields(doc)
		docTokens[i] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			docFreq[tok]++
		}
	}

	// prune by stopwords and document-frequency bounds
	maxDocs := int(opts.MaxDF * float64(len(corpus)))
	var terms []string
	for term, df := range docFreq {
		if _, isStop := stop[term]; isStop || normalize.IsStopword(term) {
			continue
		}
		if df < opts.MinDF || df > maxDocs {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return nil, nil, fmt.Errorf("vocabulary is empty after pruning (corpus size %d, maxDF %.2f, minDF %d)",
			len(corpus), opts.MaxDF, opts.MinDF)
	}

	// lexicographic column order keeps Fit deterministic across runs
	sort.Strings(terms)

	vocab := &Vocabulary{
		index: make(map[string]int, len(terms)),
		terms: terms,
	}
	for col, term := range terms {
		vocab.index[term] = col
	}

	// count matrix: rows follow corpus order, columns follow vocabulary order
	counts := mat.NewDense(len(corpus), len(terms), nil)
	for row, tokens := range docTokens {
		for _, tok := range tokens {
			if col, ok := vocab.index[tok]; ok {
				counts.Set(row, col, counts.At(row, col)+1)
			}
		}
	}

	slog.Debug("Fitted vectorizer", "documents", len(corpus), "vocabulary", len(terms),
		"maxDF", opts.MaxDF, "minDF", opts.MinDF)
	return vocab, counts, nil
}

// Transform converts a normalized document into a term-count vector aligned
// with the vocabulary's column order. Out-of-vocabulary terms are silently
// dropped; Transform never errors.
func (v *Vocabulary) Transform(doc string) *mat.VecDense {
	vec := mat.NewVecDense(len(v.terms), nil)
	for _, tok := range strings.Fields(doc) {
		if col, ok := v.index[tok]; ok {
			vec.SetVec(col, vec.AtVec(col)+1)
		}
	}
	return vec
}

// Len returns the vocabulary size (number of matrix columns).
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns the vocabulary terms in column order. The returned slice is
// shared; callers must not modify it.
func (v *Vocabulary) Terms() []string {
	return v.terms
}

// Index returns the column index for a term and whether it is in the
// vocabulary.
func (v *Vocabulary) Index(term string) (int, bool) {
	col, ok := v.index[term]
	return col, ok
}

// buildStopwordSet unions the built-in lyric noise list with any
// caller-supplied extras. Standard English stopwords are checked through
// the normalize package rather than copied here.
func buildStopwordSet(extra []string) map[string]struct{} {
	stop := make(map[string]struct{}, len(lyricNoise)+len(extra))
	for _, w := range lyricNoise {
		stop[w] = struct{}{}
	}
	for _, w := range extra {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return stop
}
