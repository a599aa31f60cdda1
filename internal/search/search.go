// Package search provides lexical keyword search over catalog lyrics.
//
// It complements the topic pipeline: where topic ranking finds songs that
// are *about* the same things, search finds songs whose lyrics literally
// contain the query terms. Scoring uses BM25 ranking over the raw lyric
// text.
package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/chriscorrea/bm25md"

	"github.com/chriscorrea/cadence/internal/catalog"
)

// Result is one search hit.
type Result struct {
	Song  catalog.Song
	Score float64 // BM25 score (higher = more relevant)
}

// Index is a BM25 index over the lyrics of a fixed set of songs.
type Index struct {
	songs  []catalog.Song
	corpus *bm25md.Corpus
}

// NewIndex builds a search index over the given songs. Songs without lyrics
// are kept in the index but can never score above zero.
func NewIndex(songs []catalog.Song) *Index {
	corpus := bm25md.NewCorpus()
	parser := bm25md.NewMarkdownFieldParser()

	for i, song := range songs {
		fields := parser.ParseDocument(song.Lyrics)
		corpus.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   fields,
			Original: song.Lyrics,
		})
	}

	slog.Debug("Built lyrics search index", "songs", len(songs))
	return &Index{songs: songs, corpus: corpus}
}

// Search scores every indexed song against the query and returns up to
// limit results sorted by descending score. Zero-score songs are omitted;
// an empty query returns no results.
//
// BM25's inverse document frequency is clamped at zero, so a term
// appearing in at least half of the indexed lyrics contributes nothing to
// any score. In a tiny index a common word can therefore match no songs
// at all; that is the intended reading of "no result": the term does not
// discriminate between songs.
func (idx *Index) Search(query string, limit int) []Result {
	query = strings.TrimSpace(query)
	if query == "" || len(idx.songs) == 0 {
		return nil
	}

	var results []Result
	for i, song := range idx.songs {
		score := idx.corpus.Score(query, i)
		if score > 0 {
			results = append(results, Result{Song: song, Score: score})
		}
	}

	// sort by score (highest first); ties keep catalog order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	slog.Debug("Lyrics search completed", "query", query, "hits", len(results))
	return results
}
