// Package plsa loads a pretrained probabilistic topic model and projects
// documents into its topic space.
//
// The model is a pLSA-style factorization persisted offline as three
// matrices: P(doc|topic), P(word|topic), and the topic priors P(topic).
// This package owns loading and validating those artifacts, inferring the
// dominant topic for a query document, and ranking corpus documents by
// affinity to a topic. Training is out of scope and happens elsewhere.
package plsa

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Well-known artifact file names inside the data directory. The corpus and
// song index are index-aligned: row i of the corpus belongs to entry i of
// the song index.
const (
	ModelFile  = "plsa_model.json"
	CorpusFile = "corpus.json"
	IndexFile  = "song_index.json"
)

var (
	// ErrModelLoad indicates a missing, unreadable, or malformed topic
	// model artifact. Callers degrade to "no prediction" rather than crash.
	ErrModelLoad = errors.New("topic model artifact unavailable")

	// ErrCorpusLoad indicates a missing, unreadable, or malformed corpus or
	// song index artifact. Fatal to the current call.
	ErrCorpusLoad = errors.New("corpus artifact unavailable")

	// ErrIndexMismatch indicates the song index and corpus disagree on
	// length. This is a configuration error, never silently truncated.
	ErrIndexMismatch = errors.New("song index does not align with corpus")
)

// Model holds the loaded pLSA parameters.
//
// Only WordTopic participates in inference today; DocTopic and TopicPrior
// are loaded and validated so a future scoring refinement (e.g. prior
// smoothing) has them available without an artifact format change.
type Model struct {
	// DocTopic is P(doc|topic): rows are training documents, columns topics.
	DocTopic *mat.Dense
	// WordTopic is P(word|topic): rows are training vocabulary terms,
	// columns topics.
	WordTopic *mat.Dense
	// TopicPrior is P(topic), one entry per topic.
	TopicPrior []float64
}

// Topics returns the number of topics K.
func (m *Model) Topics() int {
	_, k := m.WordTopic.Dims()
	return k
}

// IndexEntry identifies one corpus row: the song's name and genre.
type IndexEntry struct {
	Name  string
	Genre string
}

// modelArtifact is the on-disk JSON shape of the model file.
type modelArtifact struct {
	PDocTopic  [][]float64 `json:"p_doc_topic"`
	PWordTopic [][]float64 `json:"p_word_topic"`
	PTopic     []float64   `json:"p_topic"`
}

// cacheEntry pairs a parsed artifact with the file mtime it was read at.
type cacheEntry[T any] struct {
	value   T
	modTime time.Time
}

// Store provides read-through cached access to the persisted artifacts in a
// single data directory. Artifacts are immutable for the lifetime of a call;
// the cache is invalidated when the file's mtime changes, so an updated
// artifact is picked up on the next load without restarting the process.
// Store is safe for concurrent use.
type Store struct {
	dir string

	mu     sync.Mutex
	model  *cacheEntry[*Model]
	corpus *cacheEntry[[]string]
	index  *cacheEntry[[]IndexEntry]
}

// NewStore creates a Store rooted at the given data directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Model loads the topic model, reusing the cached copy while the artifact
// file is unchanged. Errors wrap ErrModelLoad.
func (s *Store) Model() (*Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, ModelFile)
	mtime, err := fileModTime(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	if s.model != nil && s.model.modTime.Equal(mtime) {
		return s.model.value, nil
	}

	model, err := loadModel(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}

	s.model = &cacheEntry[*Model]{value: model, modTime: mtime}
	slog.Debug("Loaded topic model", "path", path, "topics", model.Topics())
	return model, nil
}

// Corpus loads the normalized corpus documents in their fixed row order.
// Errors wrap ErrCorpusLoad.
func (s *Store) Corpus() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, CorpusFile)
	mtime, err := fileModTime(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusLoad, err)
	}
	if s.corpus != nil && s.corpus.modTime.Equal(mtime) {
		return s.corpus.value, nil
	}

	var docs []string
	if err := decodeJSONFile(path, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusLoad, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: corpus file %s is empty", ErrCorpusLoad, path)
	}

	s.corpus = &cacheEntry[[]string]{value: docs, modTime: mtime}
	slog.Debug("Loaded corpus", "path", path, "documents", len(docs))
	return docs, nil
}

// SongIndex loads the (name, genre) row identity table for the corpus.
// Errors wrap ErrCorpusLoad.
func (s *Store) SongIndex() ([]IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, IndexFile)
	mtime, err := fileModTime(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusLoad, err)
	}
	if s.index != nil && s.index.modTime.Equal(mtime) {
		return s.index.value, nil
	}

	// the artifact is an array of [name, genre] pairs
	var pairs [][]string
	if err := decodeJSONFile(path, &pairs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusLoad, err)
	}

	entries := make([]IndexEntry, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: song index entry %d has %d fields, want 2", ErrCorpusLoad, i, len(pair))
		}
		entries[i] = IndexEntry{Name: pair[0], Genre: pair[1]}
	}

	s.index = &cacheEntry[[]IndexEntry]{value: entries, modTime: mtime}
	slog.Debug("Loaded song index", "path", path, "entries", len(entries))
	return entries, nil
}

// Dataset loads the model, corpus, and song index together and verifies the
// corpus and index are row-aligned. A length mismatch returns
// ErrIndexMismatch.
func (s *Store) Dataset() (*Model, []string, []IndexEntry, error) {
	model, err := s.Model()
	if err != nil {
		return nil, nil, nil, err
	}
	corpus, err := s.Corpus()
	if err != nil {
		return nil, nil, nil, err
	}
	index, err := s.SongIndex()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(corpus) != len(index) {
		return nil, nil, nil, fmt.Errorf("%w: corpus has %d documents, index has %d entries",
			ErrIndexMismatch, len(corpus), len(index))
	}
	return model, corpus, index, nil
}

// loadModel reads and validates the three-matrix model artifact.
func loadModel(path string) (*Model, error) {
	var artifact modelArtifact
	if err := decodeJSONFile(path, &artifact); err != nil {
		return nil, err
	}

	wordTopic, err := toDense(artifact.PWordTopic)
	if err != nil {
		return nil, fmt.Errorf("p_word_topic: %v", err)
	}
	docTopic, err := toDense(artifact.PDocTopic)
	if err != nil {
		return nil, fmt.Errorf("p_doc_topic: %v", err)
	}

	_, topics := wordTopic.Dims()
	if _, dtTopics := docTopic.Dims(); dtTopics != topics {
		return nil, fmt.Errorf("p_doc_topic has %d topics, p_word_topic has %d", dtTopics, topics)
	}
	if len(artifact.PTopic) != topics {
		return nil, fmt.Errorf("p_topic has %d entries, want %d", len(artifact.PTopic), topics)
	}

	return &Model{
		DocTopic:   docTopic,
		WordTopic:  wordTopic,
		TopicPrior: artifact.PTopic,
	}, nil
}

// toDense converts a rectangular [][]float64 into a gonum matrix.
func toDense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("matrix is empty")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

func decodeJSONFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %v", filepath.Base(path), err)
	}
	return nil
}

func fileModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
