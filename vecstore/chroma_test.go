package vecstore

import (
	"context"
	"errors"
	"testing"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusqa/advisor-rag/loader"
)

// Fakes embed the chroma-go interfaces so only the methods the backend calls
// need an implementation; anything else panics with a nil dereference.

type fakeCollection struct {
	chroma.Collection
	name     string
	count    int
	addErr   error
	addCalls int
	queryRes chroma.QueryResult
	queryErr error
}

func (c *fakeCollection) Name() string { return c.name }

func (c *fakeCollection) Count(ctx context.Context) (int, error) { return c.count, nil }

func (c *fakeCollection) Add(ctx context.Context, opts ...chroma.CollectionAddOption) error {
	c.addCalls++
	return c.addErr
}

func (c *fakeCollection) Query(ctx context.Context, opts ...chroma.CollectionQueryOption) (chroma.QueryResult, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}

	return c.queryRes, nil
}

type fakeChromaAPI struct {
	collections map[string]*fakeCollection
	listErr     error
	deleted     []string
}

func newFakeChromaAPI() *fakeChromaAPI {
	return &fakeChromaAPI{collections: make(map[string]*fakeCollection)}
}

func (a *fakeChromaAPI) listCollections(ctx context.Context) ([]chroma.Collection, error) {
	if a.listErr != nil {
		return nil, a.listErr
	}

	cols := make([]chroma.Collection, 0, len(a.collections))
	for _, c := range a.collections {
		cols = append(cols, c)
	}

	return cols, nil
}

func (a *fakeChromaAPI) getCollection(ctx context.Context, name string) (chroma.Collection, error) {
	c, ok := a.collections[name]
	if !ok {
		return nil, errors.New("collection not found")
	}

	return c, nil
}

func (a *fakeChromaAPI) getOrCreateCollection(ctx context.Context, name string) (chroma.Collection, error) {
	c, ok := a.collections[name]
	if !ok {
		c = &fakeCollection{name: name}
		a.collections[name] = c
	}

	return c, nil
}

func (a *fakeChromaAPI) deleteCollection(ctx context.Context, name string) error {
	delete(a.collections, name)
	a.deleted = append(a.deleted, name)
	return nil
}

type fakeDocument struct {
	chroma.Document
	text string
}

func (d fakeDocument) ContentString() string { return d.text }

type fakeMetadata struct {
	chroma.DocumentMetadata
	source string
}

func (m fakeMetadata) GetString(key string) (string, bool) {
	if key == sourceAttr {
		return m.source, true
	}

	return "", false
}

type fakeQueryResult struct {
	chroma.QueryResult
	texts   []string
	sources []string
}

func (r *fakeQueryResult) GetDocumentsGroups() []chroma.Documents {
	docs := make(chroma.Documents, 0, len(r.texts))
	for _, t := range r.texts {
		docs = append(docs, fakeDocument{text: t})
	}

	return []chroma.Documents{docs}
}

func (r *fakeQueryResult) GetMetadatasGroups() []chroma.DocumentMetadatas {
	metas := make(chroma.DocumentMetadatas, 0, len(r.sources))
	for _, s := range r.sources {
		metas = append(metas, fakeMetadata{source: s})
	}

	return []chroma.DocumentMetadatas{metas}
}

func Test_ChromaExists(t *testing.T) {
	api := newFakeChromaAPI()
	b := &ChromaBackend{api: api}

	exists, err := b.Exists(context.Background(), "docs")
	require.NoError(t, err)
	assert.False(t, exists)

	api.collections["docs"] = &fakeCollection{name: "docs", count: 0}
	exists, err = b.Exists(context.Background(), "docs")
	require.NoError(t, err)
	assert.False(t, exists)

	api.collections["docs"].count = 3
	exists, err = b.Exists(context.Background(), "docs")
	require.NoError(t, err)
	assert.True(t, exists)
}

func Test_ChromaExists_ServerError(t *testing.T) {
	api := newFakeChromaAPI()
	api.listErr = errors.New("connection refused")
	b := &ChromaBackend{api: api}

	_, err := b.Exists(context.Background(), "docs")
	assert.ErrorContains(t, err, "connection refused")
}

func Test_ChromaOpen_NotFound(t *testing.T) {
	b := &ChromaBackend{api: newFakeChromaAPI()}

	_, err := b.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func Test_ChromaBuild(t *testing.T) {
	api := newFakeChromaAPI()
	b := &ChromaBackend{api: api}

	docs := []loader.Document{
		{Source: "a.docx", Text: "alpha"},
		{Source: "b.docx", Text: "beta"},
	}
	_, err := b.Build(context.Background(), "docs", docs)
	require.NoError(t, err)
	assert.Equal(t, 1, api.collections["docs"].addCalls)
}

func Test_ChromaBuild_CleansUpOnFailure(t *testing.T) {
	api := newFakeChromaAPI()
	api.collections["docs"] = &fakeCollection{name: "docs", addErr: errors.New("embedding quota exceeded")}
	b := &ChromaBackend{api: api}

	_, err := b.Build(context.Background(), "docs", []loader.Document{{Source: "a.docx", Text: "alpha"}})
	assert.ErrorIs(t, err, ErrBuild)
	assert.Equal(t, []string{"docs"}, api.deleted)

	exists, err := b.Exists(context.Background(), "docs")
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_ChromaSearch(t *testing.T) {
	col := &fakeCollection{
		name:  "urls",
		count: 2,
		queryRes: &fakeQueryResult{
			texts:   []string{"Scholarships open in March.", "Awards are announced in May."},
			sources: []string{"https://example.edu/scholarships", "https://example.edu/awards"},
		},
	}
	store := &chromaStore{col: col}

	res, err := store.Search(context.Background(), "when do scholarships open", 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Scholarships open in March.", res[0].Text)
	assert.Equal(t, "https://example.edu/scholarships", res[0].Metadata[sourceAttr])
	assert.Equal(t, "Awards are announced in May.", res[1].Text)
}

func Test_ChromaSearch_EmptyStore(t *testing.T) {
	store := &chromaStore{col: &fakeCollection{name: "urls", count: 0}}

	_, err := store.Search(context.Background(), "anything", 3)
	assert.ErrorIs(t, err, ErrEmptyStore)
}

func Test_ChromaSearch_NonPositiveK(t *testing.T) {
	col := &fakeCollection{name: "urls", count: 2}
	store := &chromaStore{col: col}

	res, err := store.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, res)
}
