package vecstore

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/campusqa/advisor-rag/loader"
)

const sourceAttr = "source"

// chromaAPI is the slice of the Chroma client this backend uses.
type chromaAPI interface {
	listCollections(ctx context.Context) ([]chroma.Collection, error)
	getCollection(ctx context.Context, name string) (chroma.Collection, error)
	getOrCreateCollection(ctx context.Context, name string) (chroma.Collection, error)
	deleteCollection(ctx context.Context, name string) error
}

type chromaHTTP struct {
	client chroma.Client
	ef     embeddings.EmbeddingFunction
}

func (c *chromaHTTP) listCollections(ctx context.Context) ([]chroma.Collection, error) {
	return c.client.ListCollections(ctx)
}

func (c *chromaHTTP) getCollection(ctx context.Context, name string) (chroma.Collection, error) {
	return c.client.GetCollection(ctx, name, chroma.WithEmbeddingFunctionGet(c.ef))
}

func (c *chromaHTTP) getOrCreateCollection(ctx context.Context, name string) (chroma.Collection, error) {
	return c.client.GetOrCreateCollection(ctx, name, chroma.WithEmbeddingFunctionCreate(c.ef))
}

func (c *chromaHTTP) deleteCollection(ctx context.Context, name string) error {
	return c.client.DeleteCollection(ctx, name)
}

// ChromaBackend keeps one Chroma collection per store name. Embedding happens
// server-side through the collection's embedding function, so build and search
// are guaranteed to use the same embedding space.
type ChromaBackend struct {
	api chromaAPI
}

func NewChromaBackend(baseURL string, ef embeddings.EmbeddingFunction) (*ChromaBackend, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	return &ChromaBackend{api: &chromaHTTP{client: client, ef: ef}}, nil
}

// Exists checks the collection listing rather than probing GetCollection, so
// a server outage reports as a check failure instead of "not built" and
// cannot trigger a doomed rebuild.
func (b *ChromaBackend) Exists(ctx context.Context, name string) (bool, error) {
	cols, err := b.api.listCollections(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}

	for _, col := range cols {
		if col.Name() != name {
			continue
		}

		count, err := col.Count(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to count collection %q: %w", name, err)
		}

		return count > 0, nil
	}

	return false, nil
}

func (b *ChromaBackend) Open(ctx context.Context, name string) (Store, error) {
	col, err := b.api.getCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("no collection %q: %w", name, ErrStoreNotFound)
	}

	return &chromaStore{col: col}, nil
}

// Build adds all documents to a fresh collection. A failed add deletes the
// collection again so the gating check never sees a half-written store.
func (b *ChromaBackend) Build(ctx context.Context, name string, docs []loader.Document) (Store, error) {
	col, err := b.api.getOrCreateCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuild, err)
	}

	if len(docs) > 0 {
		texts := make([]string, 0, len(docs))
		metadatas := make([]chroma.DocumentMetadata, 0, len(docs))
		for _, d := range docs {
			texts = append(texts, d.Text)
			metadatas = append(metadatas, chroma.NewDocumentMetadata(
				chroma.NewStringAttribute(sourceAttr, d.Source),
			))
		}

		err = col.Add(ctx,
			chroma.WithTexts(texts...),
			chroma.WithIDGenerator(chroma.NewULIDGenerator()),
			chroma.WithMetadatas(metadatas...),
		)
		if err != nil {
			if delErr := b.api.deleteCollection(ctx, name); delErr != nil {
				return nil, fmt.Errorf("%w: %v (cleanup failed: %v)", ErrBuild, err, delErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrBuild, err)
		}
	}

	return &chromaStore{col: col}, nil
}

type chromaStore struct {
	col chroma.Collection
}

func (s *chromaStore) Search(ctx context.Context, query string, k int) ([]Record, error) {
	count, err := s.col.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	if count == 0 {
		return nil, ErrEmptyStore
	}
	if k <= 0 {
		return []Record{}, nil
	}

	r, err := s.col.Query(ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	docs := r.GetDocumentsGroups()[0]
	metadatas := r.GetMetadatasGroups()[0]

	res := make([]Record, 0, len(docs))
	for i := range docs {
		source, _ := metadatas[i].GetString(sourceAttr)
		res = append(res, Record{
			Text:     docs[i].ContentString(),
			Metadata: map[string]string{sourceAttr: source},
		})
	}

	return res, nil
}
