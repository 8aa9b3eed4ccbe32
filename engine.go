package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/campusqa/advisor-rag/vecstore"
)

// ErrEmptyQuery signals a blank question. It is recoverable: the caller shows
// a prompt-for-input message and nothing is sent over the network.
var ErrEmptyQuery = errors.New("empty query")

const answerTemplate = `Answer the question using only the following context.

Context:
%s

Question: %s`

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// QueryEngine answers a question against a chosen index store by retrieving
// the top matching passages and handing them to the completion service as a
// bounded prompt context.
type QueryEngine struct {
	log       *slog.Logger
	completer completer
	results   int
}

func NewQueryEngine(log *slog.Logger, completer completer, results int) *QueryEngine {
	return &QueryEngine{log: log, completer: completer, results: results}
}

func (e *QueryEngine) Answer(ctx context.Context, query string, store vecstore.Store) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	records, err := store.Search(ctx, query, e.results)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}

	passages := make([]string, 0, len(records))
	for _, r := range records {
		passages = append(passages, r.Text)
	}

	prompt := fmt.Sprintf(answerTemplate, strings.Join(passages, "\n\n"), query)
	answer, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	e.log.Info("answered query", "passages", len(records))
	return answer, nil
}
