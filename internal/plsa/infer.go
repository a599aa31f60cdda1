package plsa

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// NoTopic is the sentinel topic id returned when a query shares no
// vocabulary with the corpus. Real topic ids are 1-indexed.
const NoTopic = 0

// Assignment is the dominant topic for a single document.
type Assignment struct {
	// Topic is the 1-indexed dominant topic id, or NoTopic when the query
	// produced no signal.
	Topic int
	// Probability is the normalized weight of the dominant topic, in [0,1].
	Probability float64
}

// Infer projects a document's term-count vector into topic space and selects
// its dominant topic.
//
// The raw topic scores are the dot product of the query vector with each
// column of P(word|topic); they are then normalized into a probability
// distribution. A query with no vocabulary overlap yields a zero score sum;
// that degenerate case returns Assignment{Topic: NoTopic, Probability: 0}
// rather than propagating NaN. Argmax ties break toward the lowest index.
//
// The query length must equal the model's vocabulary row count; a mismatch
// means the vectorizer and model were built on different vocabularies and is
// reported as an error.
func Infer(query *mat.VecDense, model *Model) (Assignment, error) {
	rows, topics := model.WordTopic.Dims()
	if query.Len() != rows {
		return Assignment{}, fmt.Errorf("query vector has %d terms, model vocabulary has %d", query.Len(), rows)
	}

	// scores = query · P(word|topic), one score per topic
	scores := mat.NewVecDense(topics, nil)
	scores.MulVec(model.WordTopic.T(), query)

	var sum float64
	for k := 0; k < topics; k++ {
		sum += scores.AtVec(k)
	}
	if sum == 0 {
		slog.Debug("Query shares no vocabulary with corpus")
		return Assignment{Topic: NoTopic, Probability: 0}, nil
	}

	// normalize and take the argmax; first maximum wins on ties
	best, bestProb := 0, scores.AtVec(0)/sum
	for k := 1; k < topics; k++ {
		if p := scores.AtVec(k) / sum; p > bestProb {
			best, bestProb = k, p
		}
	}

	slog.Debug("Inferred dominant topic", "topic", best+1, "probability", bestProb)
	return Assignment{Topic: best + 1, Probability: bestProb}, nil
}
