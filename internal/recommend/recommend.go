// Package recommend wires the lyric-topic pipeline together: it exposes
// topic prediction for a single set of lyrics and the per-user
// recommendation update that fans prediction out over a user's liked songs.
//
// Pipeline for one document:
//
//	lyrics -> normalize -> vectorize (corpus fit + query transform)
//	       -> topic inference -> corpus ranking
//
// The per-user update runs the corpus fit and model load once and reuses
// them for every liked song, then merges, deduplicates, and genre-filters
// the ranked results before resolving them back to catalog records.
package recommend

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/chriscorrea/cadence/internal/catalog"
	"github.com/chriscorrea/cadence/internal/normalize"
	"github.com/chriscorrea/cadence/internal/plsa"
	"github.com/chriscorrea/cadence/internal/session"
	"github.com/chriscorrea/cadence/internal/vectorize"
)

// User-visible notices for the terminal states of an update. Failures
// surface as informational messages, never as a broken page.
const (
	NoticeNoLikedSongs = "No liked songs found. Add songs to your favorites to see recommendations."
	NoticeNoMatches    = "No recommendations found matching your liked genres."
	NoticeUnavailable  = "Recommendations are temporarily unavailable."
)

// Recommender runs the lyric-topic pipeline against one artifact store,
// catalog, and session store.
type Recommender struct {
	Artifacts *plsa.Store
	Catalog   catalog.SongSource
	Session   session.Store

	// TopN is the ranking depth per liked song; <= 0 uses plsa.DefaultTopN.
	TopN int
	// Vectorize overrides the vocabulary pruning bounds; the zero value
	// uses the defaults.
	Vectorize vectorize.Options
}

// PredictTopic infers the dominant topic for a set of lyrics and returns the
// corpus songs most affine to that topic.
//
// Parameters:
//   - lyrics: raw lyric text; empty or non-alphabetic lyrics are fine and
//     produce the NoTopic sentinel
//   - topN: ranking depth; <= 0 uses plsa.DefaultTopN
//
// Errors wrap plsa.ErrModelLoad, plsa.ErrCorpusLoad, or
// plsa.ErrIndexMismatch when the persisted artifacts are unusable.
func (r *Recommender) PredictTopic(lyrics string, topN int) (plsa.Assignment, []plsa.RankedSong, error) {
	model, corpus, index, err := r.Artifacts.Dataset()
	if err != nil {
		return plsa.Assignment{}, nil, err
	}

	vocab, counts, err := vectorize.Fit(corpus, r.Vectorize)
	if err != nil {
		return plsa.Assignment{}, nil, fmt.Errorf("%w: %v", plsa.ErrCorpusLoad, err)
	}

	query := vocab.Transform(normalize.NormalizeString(lyrics))
	assignment, err := plsa.Infer(query, model)
	if err != nil {
		return plsa.Assignment{}, nil, fmt.Errorf("%w: %v", plsa.ErrModelLoad, err)
	}
	if assignment.Topic == plsa.NoTopic {
		// no vocabulary overlap; there is nothing to rank against
		return assignment, nil, nil
	}

	ranked, err := plsa.Rank(counts, model, assignment.Topic, topN, index)
	if err != nil {
		return plsa.Assignment{}, nil, err
	}
	return assignment, ranked, nil
}

// Update recomputes the stored recommendation list for a user from their
// liked songs.
//
// Terminal states:
//   - no liked songs: informational notice, stored list cleared
//   - no liked song has lyrics, or nothing survives the genre filter:
//     informational notice, stored list cleared
//   - artifacts unavailable: informational notice, stored list cleared
//
// Otherwise each liked song with lyrics is predicted independently against
// a single shared corpus fit, results are merged, deduplicated by
// (name, genre) keeping the highest probability, filtered to the genres of
// the user's liked songs, resolved through the catalog, and stored.
func (r *Recommender) Update(user string) error {
	liked, err := r.Catalog.LikedSongs(user)
	if err != nil {
		return fmt.Errorf("failed to load liked songs for %q: %w", user, err)
	}

	if len(liked) == 0 {
		r.terminate(user, NoticeNoLikedSongs)
		return nil
	}

	likedGenres := make(map[string]struct{})
	var withLyrics []catalog.Song
	for _, song := range liked {
		likedGenres[song.Genre] = struct{}{}
		if strings.TrimSpace(song.Lyrics) != "" {
			withLyrics = append(withLyrics, song)
		}
	}
	if len(withLyrics) == 0 {
		r.terminate(user, NoticeNoMatches)
		return nil
	}

	// one model load and one corpus fit, shared across all liked songs
	model, corpus, index, err := r.Artifacts.Dataset()
	if err != nil {
		slog.Debug("Artifacts unavailable during update", "user", user, "error", err)
		r.terminate(user, NoticeUnavailable)
		return nil
	}
	vocab, counts, err := vectorize.Fit(corpus, r.Vectorize)
	if err != nil {
		slog.Debug("Vectorizer fit failed during update", "user", user, "error", err)
		r.terminate(user, NoticeUnavailable)
		return nil
	}

	// merged ranked results, deduplicated by (name, genre); float drift in
	// probabilities must not produce duplicate logical entries, so the key
	// excludes the probability and the highest one wins
	type key struct{ name, genre string }
	best := make(map[key]plsa.RankedSong)

	for _, song := range withLyrics {
		query := vocab.Transform(normalize.NormalizeString(song.Lyrics))
		assignment, err := plsa.Infer(query, model)
		if err != nil {
			slog.Debug("Inference failed for liked song", "song", song.ID, "error", err)
			r.terminate(user, NoticeUnavailable)
			return nil
		}
		if assignment.Topic == plsa.NoTopic {
			slog.Debug("Liked song has no topic signal", "song", song.ID)
			continue
		}

		ranked, err := plsa.Rank(counts, model, assignment.Topic, r.TopN, index)
		if err != nil {
			slog.Debug("Ranking failed for liked song", "song", song.ID, "error", err)
			r.terminate(user, NoticeUnavailable)
			return nil
		}

		for _, rs := range ranked {
			k := key{rs.Name, rs.Genre}
			if cur, ok := best[k]; !ok || rs.Probability > cur.Probability {
				best[k] = rs
			}
		}
	}

	// retain only songs whose genre appears among the liked songs
	var filtered []plsa.RankedSong
	for _, rs := range best {
		if _, ok := likedGenres[rs.Genre]; ok {
			filtered = append(filtered, rs)
		}
	}
	if len(filtered) == 0 {
		r.terminate(user, NoticeNoMatches)
		return nil
	}

	// deterministic presentation order: probability descending, then name
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Probability != filtered[j].Probability {
			return filtered[i].Probability > filtered[j].Probability
		}
		return filtered[i].Name < filtered[j].Name
	})

	// resolve surviving (name, genre) pairs back to catalog records
	var records []catalog.Record
	for _, rs := range filtered {
		for _, song := range r.Catalog.Resolve(rs.Name, rs.Genre) {
			records = append(records, r.Catalog.DisplayRecord(song))
		}
	}
	if len(records) == 0 {
		r.terminate(user, NoticeNoMatches)
		return nil
	}

	r.Session.SetRecommendations(user, records)
	slog.Debug("Updated recommendations", "user", user, "likedSongs", len(liked), "records", len(records))
	return nil
}

// terminate applies a terminal state: queue the notice and clear any
// previously stored recommendation list.
func (r *Recommender) terminate(user, notice string) {
	r.Session.Notify(user, notice)
	r.Session.ClearRecommendations(user)
}

// IsArtifactError reports whether an error from PredictTopic stems from
// missing or malformed persisted artifacts rather than caller input.
func IsArtifactError(err error) bool {
	return errors.Is(err, plsa.ErrModelLoad) ||
		errors.Is(err, plsa.ErrCorpusLoad) ||
		errors.Is(err, plsa.ErrIndexMismatch)
}
