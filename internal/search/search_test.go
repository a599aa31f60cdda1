package search

import (
	"testing"

	"github.com/chriscorrea/cadence/internal/catalog"
)

// testSongs is sized so that queried terms stay in fewer than half the
// lyrics; BM25's clamped IDF zeroes out any more common term.
func testSongs() []catalog.Song {
	return []catalog.Song{
		{ID: "s1", Title: "Golden Hour", ArtistID: "ar1", Genre: "Pop",
			Lyrics: "love love glow in the golden light"},
		{ID: "s2", Title: "Iron Sky", ArtistID: "ar2", Genre: "Rock",
			Lyrics: "war drums under an iron sky"},
		{ID: "s3", Title: "Blue Veil", ArtistID: "ar2", Genre: "Jazz",
			Lyrics: "love behind a blue veil"},
		{ID: "s4", Title: "Static", ArtistID: "ar2", Genre: "Rock"},
		{ID: "s5", Title: "Ember", ArtistID: "ar1", Genre: "Folk",
			Lyrics: "ember and ash on the river stone"},
		{ID: "s6", Title: "Drift", ArtistID: "ar1", Genre: "Pop",
			Lyrics: "drifting through the quiet morning"},
	}
}

func TestSearch(t *testing.T) {
	idx := NewIndex(testSongs())

	results := idx.Search("love", 10)
	if len(results) != 2 {
		t.Fatalf("Search(love) returned %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Song.ID != "s1" && r.Song.ID != "s3" {
			t.Errorf("Search(love) hit unexpected song %s", r.Song.ID)
		}
		if r.Score <= 0 {
			t.Errorf("Search(love) score for %s = %v, want > 0", r.Song.ID, r.Score)
		}
	}
}

func TestSearchRanksByRelevance(t *testing.T) {
	idx := NewIndex(testSongs())

	// "love" appears twice in s1 and once in s3; s1 also matches "glow"
	results := idx.Search("love glow", 10)
	if len(results) == 0 {
		t.Fatal("Search(love glow) returned no results")
	}
	if results[0].Song.ID != "s1" {
		t.Errorf("Search(love glow) top result = %s, want s1", results[0].Song.ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("Search() results not sorted: score[%d]=%v > score[%d]=%v",
				i, results[i].Score, i-1, results[i-1].Score)
		}
	}
}

func TestSearchLimit(t *testing.T) {
	idx := NewIndex(testSongs())

	results := idx.Search("love", 1)
	if len(results) != 1 {
		t.Errorf("Search() with limit 1 returned %d results", len(results))
	}
}

func TestSearchNoHits(t *testing.T) {
	idx := NewIndex(testSongs())

	tests := []struct {
		name  string
		query string
	}{
		{name: "term absent from every lyric", query: "xylophone"},
		{name: "empty query", query: ""},
		{name: "whitespace query", query: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if results := idx.Search(tt.query, 10); results != nil {
				t.Errorf("Search(%q) = %v, want nil", tt.query, results)
			}
		})
	}
}

func TestSearchCommonTermScoresZero(t *testing.T) {
	// a term in half of a small index has zero IDF under BM25's clamp and
	// cannot match anything; it no longer discriminates between songs
	idx := NewIndex([]catalog.Song{
		{ID: "s1", Title: "Golden Hour", Genre: "Pop", Lyrics: "moon over the love light"},
		{ID: "s2", Title: "Iron Sky", Genre: "Rock", Lyrics: "moon behind the war drums"},
		{ID: "s3", Title: "Blue Veil", Genre: "Jazz", Lyrics: "a blue veil at dawn"},
		{ID: "s4", Title: "Ember", Genre: "Folk", Lyrics: "ember and ash remain"},
	})

	if results := idx.Search("moon", 10); results != nil {
		t.Errorf("Search(moon) with df half the index = %v, want nil", results)
	}

	// a rarer term in the same index still matches
	results := idx.Search("war", 10)
	if len(results) != 1 || results[0].Song.ID != "s2" {
		t.Errorf("Search(war) = %v, want [s2]", results)
	}
}
