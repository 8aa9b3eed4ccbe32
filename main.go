package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	openaief "github.com/amikos-tech/chroma-go/pkg/embeddings/openai"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/campusqa/advisor-rag/llm"
	"github.com/campusqa/advisor-rag/loader"
	"github.com/campusqa/advisor-rag/vecstore"
)

func createBackend(cfg *Config, client *llm.Client) (vecstore.Backend, error) {
	switch cfg.Store.Backend {
	case "local":
		return vecstore.NewLocalBackend(cfg.Store.LocalDir, client), nil
	case "chroma":
		ef, err := openaief.NewOpenAIEmbeddingFunction(
			cfg.OpenAI.ApiKey,
			openaief.WithModel(openaief.EmbeddingModel(cfg.OpenAI.EmbedModel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding function: %w", err)
		}

		return vecstore.NewChromaBackend(cfg.Store.ChromaAddr, ef)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

// buildIndexes never aborts the process: a failed build leaves that store
// unbuilt and queries against it report the missing store per request, while
// the other store keeps serving. The next start retries since the gating
// check still sees nothing persisted.
func buildIndexes(ctx context.Context, log *slog.Logger, cfg *Config, builder *IndexBuilder) {
	if _, err := builder.BuildDocsIndex(ctx, cfg.Store.DocsName, cfg.DocsFolder); err != nil {
		log.Error("failed to build document index, serving without it", "error", err)
	}

	if _, err := builder.BuildURLIndex(ctx, cfg.Store.URLsName, cfg.URLs); err != nil {
		log.Error("failed to build page index, serving without it", "error", err)
	}
}

func main() {
	cfgPath := flag.String("config", "cfg/config.yaml", "Configuration file for the advisor server")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := readConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %s", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, nil))

	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	client, err := llm.NewClient(llm.Config{
		APIKey:      cfg.OpenAI.ApiKey,
		EmbedModel:  cfg.OpenAI.EmbedModel,
		ChatModel:   cfg.OpenAI.ChatModel,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     timeout,
	})
	if err != nil {
		log.Fatal(err)
	}

	backend, err := createBackend(cfg, client)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	builder := NewIndexBuilder(logger, backend, &loader.DocxLoader{}, loader.NewWebLoader(timeout))
	buildIndexes(ctx, logger, cfg, builder)

	engine := NewQueryEngine(logger, client, cfg.Results)
	srv := NewAdvisorServer(logger, engine, backend, cfg.Store.DocsName, cfg.Store.URLsName)
	sse := server.NewSSEServer(srv, server.WithBaseURL(fmt.Sprintf("http://%s", cfg.ServerAddr)))
	log.Println(sse.Start(cfg.ServerAddr))
}
