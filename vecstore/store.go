// Package vecstore provides named, persisted vector index stores with
// similarity search over embedded corpus documents.
package vecstore

import (
	"context"
	"errors"

	"github.com/campusqa/advisor-rag/loader"
)

var (
	// ErrStoreNotFound signals that no persisted store exists under the requested name.
	ErrStoreNotFound = errors.New("store not found")
	// ErrEmptyStore signals a search against a store holding zero records.
	ErrEmptyStore = errors.New("store is empty")
	// ErrBuild signals a failed store build; no partial state is left behind.
	ErrBuild = errors.New("store build failed")
)

// Record is a stored, searchable unit. Records are created at build time and
// never mutated; the embedding dimension is fixed per store.
type Record struct {
	ID        string            `json:"id"`
	Embedding []float32         `json:"embedding"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata"`
}

// Store is the read path of a built index. Search embeds the query with the
// same embedder used at build time and returns at most k records ordered by
// descending similarity, ties broken by insertion order.
type Store interface {
	Search(ctx context.Context, query string, k int) ([]Record, error)
}

// Backend creates and opens named stores. Implementations persist one store
// per name; a store is either absent or fully built, never partial.
type Backend interface {
	// Exists reports whether persisted data is present under name.
	Exists(ctx context.Context, name string) (bool, error)
	// Open loads a previously built store. Returns ErrStoreNotFound if no
	// persisted data exists under name.
	Open(ctx context.Context, name string) (Store, error)
	// Build embeds one record per document and persists the store under name.
	// On failure any partially written state is discarded and the error wraps
	// ErrBuild.
	Build(ctx context.Context, name string, docs []loader.Document) (Store, error)
}

// Embedder converts text chunks into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
