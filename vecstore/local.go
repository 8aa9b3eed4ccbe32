package vecstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/campusqa/advisor-rag/loader"
)

const recordsFile = "records.json"

// LocalBackend persists stores as flat files under a root directory, one
// subdirectory per store name. Search is brute-force cosine similarity over
// all records, which is fine at corpus sizes of a few dozen documents.
type LocalBackend struct {
	root     string
	embedder Embedder
}

func NewLocalBackend(root string, embedder Embedder) *LocalBackend {
	return &LocalBackend{root: root, embedder: embedder}
}

func (b *LocalBackend) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(b.root, name, recordsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (b *LocalBackend) Open(ctx context.Context, name string) (Store, error) {
	buf, err := os.ReadFile(filepath.Join(b.root, name, recordsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no persisted store %q: %w", name, ErrStoreNotFound)
		}
		return nil, fmt.Errorf("failed to open store %q: %w", name, err)
	}

	var records []Record
	if err := json.Unmarshal(buf, &records); err != nil {
		return nil, fmt.Errorf("failed to decode store %q: %w", name, err)
	}

	return &localStore{records: records, embedder: b.embedder}, nil
}

// Build embeds all documents first and only then touches disk. Records are
// written to a temporary directory and moved into place with a single rename,
// so a failed build never leaves a directory the gating check would mistake
// for a finished store.
func (b *LocalBackend) Build(ctx context.Context, name string, docs []loader.Document) (Store, error) {
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		texts = append(texts, d.Text)
	}

	records := make([]Record, 0, len(docs))
	if len(docs) > 0 {
		vectors, err := b.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBuild, err)
		}
		if len(vectors) != len(docs) {
			return nil, fmt.Errorf("%w: embedder returned %d vectors for %d documents", ErrBuild, len(vectors), len(docs))
		}

		for i, d := range docs {
			records = append(records, Record{
				ID:        uuid.NewString(),
				Embedding: normalize(vectors[i]),
				Text:      d.Text,
				Metadata:  d.Metadata,
			})
		}
	}

	if err := b.persist(name, records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuild, err)
	}

	return &localStore{records: records, embedder: b.embedder}, nil
}

func (b *LocalBackend) persist(name string, records []Record) error {
	tmp, err := os.MkdirTemp(b.root, ".build-"+name+"-")
	if err != nil {
		if mkErr := os.MkdirAll(b.root, 0o755); mkErr != nil {
			return mkErr
		}
		tmp, err = os.MkdirTemp(b.root, ".build-"+name+"-")
		if err != nil {
			return err
		}
	}
	defer os.RemoveAll(tmp)

	buf, err := json.Marshal(records)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(tmp, recordsFile), buf, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, filepath.Join(b.root, name))
}

type localStore struct {
	records  []Record
	embedder Embedder
}

func (s *localStore) Search(ctx context.Context, query string, k int) ([]Record, error) {
	if len(s.records) == 0 {
		return nil, ErrEmptyStore
	}
	if k <= 0 {
		return []Record{}, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	qv := normalize(vectors[0])

	type scored struct {
		idx   int
		score float32
	}
	scores := make([]scored, len(s.records))
	for i, r := range s.records {
		scores[i] = scored{idx: i, score: dot(r.Embedding, qv)}
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if k > len(scores) {
		k = len(scores)
	}
	res := make([]Record, 0, k)
	for _, sc := range scores[:k] {
		res = append(res, s.records[sc.idx])
	}

	return res, nil
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}

	return sum
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}

	return out
}
