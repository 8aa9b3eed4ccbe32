package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/campusqa/advisor-rag/vecstore"
)

type answerer interface {
	Answer(ctx context.Context, query string, store vecstore.Store) (string, error)
}

type storeOpener interface {
	Open(ctx context.Context, name string) (vecstore.Store, error)
}

// NewAdvisorServer exposes the query engine to external callers. Free-text
// questions go to the document index, predefined topics go to the web-page
// index. Every failure comes back as a tool error result; nothing crashes the
// serving loop.
func NewAdvisorServer(log *slog.Logger, engine answerer, stores storeOpener, docsName string, urlsName string) *server.MCPServer {
	srv := server.NewMCPServer("advisor-rag", "0.1.0", server.WithToolCapabilities(false))

	askTool := mcp.NewTool("ask",
		mcp.WithDescription("Ask a free-text question answered from the document corpus"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		))
	srv.AddTool(askTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := request.RequireString("question")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return answerWith(ctx, log, engine, stores, docsName, q)
	})

	topicTool := mcp.NewTool("topic",
		mcp.WithDescription("Get information about a predefined topic from the university web pages"),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("One of the predefined topics"),
			mcp.Enum("scholarships", "career", "electives"),
		))
	srv.AddTool(topicTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := request.RequireString("topic")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		q, err := resolveTopic(key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return answerWith(ctx, log, engine, stores, urlsName, q)
	})

	return srv
}

func answerWith(ctx context.Context, log *slog.Logger, engine answerer, stores storeOpener, name string, query string) (*mcp.CallToolResult, error) {
	store, err := stores.Open(ctx, name)
	if err != nil {
		log.Error("failed to open store", "store", name, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	answer, err := engine.Answer(ctx, query, store)
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			return mcp.NewToolResultError("Please enter a question."), nil
		}

		log.Error("query failed", "store", name, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(answer), nil
}
