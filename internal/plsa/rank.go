package plsa

import (
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// DefaultTopN is the ranking depth used when the caller does not override it.
const DefaultTopN = 20

// rowSumEpsilon replaces a zero row sum before normalization so that a
// corpus document with no vocabulary overlap ranks at zero instead of
// producing NaN.
const rowSumEpsilon = 1e-10

// RankedSong is one corpus document scored against a topic.
type RankedSong struct {
	Name        string
	Genre       string
	Probability float64
}

// Rank scores every corpus document against a topic and returns the top-N.
//
// Parameters:
//   - counts: corpus document-term count matrix, rows in song-index order
//   - model: the loaded topic model
//   - topic: 1-indexed topic id (from Infer); NoTopic is rejected
//   - topN: ranking depth; <= 0 uses DefaultTopN, larger than the corpus
//     clamps to the corpus size
//   - index: row identity table, positionally aligned with counts
//
// Each corpus row is projected into topic space, row-normalized (zero sums
// clamped to a small epsilon), and the documents are sorted descending by
// the selected topic's column. Ties keep corpus row order. A counts/index
// length mismatch is a configuration error and returns ErrIndexMismatch.
func Rank(counts *mat.Dense, model *Model, topic, topN int, index []IndexEntry) ([]RankedSong, error) {
	if topic == NoTopic {
		return nil, fmt.Errorf("cannot rank against the no-match sentinel topic")
	}
	if topic < 1 || topic > model.Topics() {
		return nil, fmt.Errorf("topic %d out of range [1,%d]", topic, model.Topics())
	}

	docs, _ := counts.Dims()
	if docs != len(index) {
		return nil, fmt.Errorf("%w: count matrix has %d rows, index has %d entries",
			ErrIndexMismatch, docs, len(index))
	}

	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > docs {
		topN = docs
	}

	// project the whole corpus into topic space in one multiplication
	var projection mat.Dense
	projection.Mul(counts, model.WordTopic)

	// row-normalize; the topic column then holds P(topic|doc) per document
	col := topic - 1
	probs := make([]float64, docs)
	for row := 0; row < docs; row++ {
		var sum float64
		for k := 0; k < model.Topics(); k++ {
			sum += projection.At(row, k)
		}
		if sum == 0 {
			sum = rowSumEpsilon
		}
		probs[row] = projection.At(row, col) / sum
	}

	// sort row indices descending by topic probability; stable so ties keep
	// corpus order
	order := make([]int, docs)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return probs[order[i]] > probs[order[j]]
	})

	ranked := make([]RankedSong, 0, topN)
	for _, row := range order[:topN] {
		ranked = append(ranked, RankedSong{
			Name:        index[row].Name,
			Genre:       index[row].Genre,
			Probability: probs[row],
		})
	}

	slog.Debug("Ranked corpus against topic", "topic", topic, "returned", len(ranked), "corpusSize", docs)
	return ranked, nil
}
