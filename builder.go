package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/campusqa/advisor-rag/loader"
	"github.com/campusqa/advisor-rag/vecstore"
)

type docLoader interface {
	CanRead(path string) bool
	Load(path string) (loader.Document, error)
}

type urlLoader interface {
	Load(ctx context.Context, url string) (loader.Document, error)
}

// BuildReport summarizes one index build run.
type BuildReport struct {
	Loaded  int
	Failed  int
	Skipped bool
}

// IndexBuilder populates each index store at most once. A build is skipped
// entirely when persisted data already exists under the store name, so the
// second process start performs no embedding calls at all. The check is
// presence-only: if the corpus changes without clearing the persisted store,
// the index silently goes stale.
type IndexBuilder struct {
	log     *slog.Logger
	backend vecstore.Backend
	docs    docLoader
	web     urlLoader
}

func NewIndexBuilder(log *slog.Logger, backend vecstore.Backend, docs docLoader, web urlLoader) *IndexBuilder {
	return &IndexBuilder{log: log, backend: backend, docs: docs, web: web}
}

// BuildDocsIndex ingests every recognized file in folder. A file that fails
// to load is reported and skipped; the remaining files still make it into the
// store. With zero loadable files the store is left unbuilt, to be retried on
// the next start.
func (b *IndexBuilder) BuildDocsIndex(ctx context.Context, name string, folder string) (BuildReport, error) {
	exists, err := b.backend.Exists(ctx, name)
	if err != nil {
		return BuildReport{}, fmt.Errorf("failed to check store %q: %w", name, err)
	}
	if exists {
		b.log.Info("store already built, skipping", "store", name)
		return BuildReport{Skipped: true}, nil
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return BuildReport{}, fmt.Errorf("failed to list documents folder: %w", err)
	}

	var report BuildReport
	var docs []loader.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(folder, entry.Name())
		if !b.docs.CanRead(path) {
			continue
		}

		doc, err := b.docs.Load(path)
		if err != nil {
			b.log.Warn("failed to load document", "path", path, "error", err)
			report.Failed++
			continue
		}

		b.log.Info("loaded document", "path", path)
		docs = append(docs, doc)
	}

	return b.build(ctx, name, docs, report)
}

// BuildURLIndex ingests the configured page list with the same per-item
// failure tolerance as BuildDocsIndex.
func (b *IndexBuilder) BuildURLIndex(ctx context.Context, name string, urls []string) (BuildReport, error) {
	exists, err := b.backend.Exists(ctx, name)
	if err != nil {
		return BuildReport{}, fmt.Errorf("failed to check store %q: %w", name, err)
	}
	if exists {
		b.log.Info("store already built, skipping", "store", name)
		return BuildReport{Skipped: true}, nil
	}

	var report BuildReport
	var docs []loader.Document
	for _, url := range urls {
		doc, err := b.web.Load(ctx, url)
		if err != nil {
			b.log.Warn("failed to load page", "url", url, "error", err)
			report.Failed++
			continue
		}

		b.log.Info("loaded page", "url", url)
		docs = append(docs, doc)
	}

	return b.build(ctx, name, docs, report)
}

func (b *IndexBuilder) build(ctx context.Context, name string, docs []loader.Document, report BuildReport) (BuildReport, error) {
	if len(docs) == 0 {
		b.log.Warn("no documents loaded, store left unbuilt", "store", name)
		return report, nil
	}

	if _, err := b.backend.Build(ctx, name, docs); err != nil {
		return report, fmt.Errorf("failed to build store %q: %w", name, err)
	}

	report.Loaded = len(docs)
	b.log.Info("store built", "store", name, "documents", report.Loaded, "failures", report.Failed)
	return report, nil
}
