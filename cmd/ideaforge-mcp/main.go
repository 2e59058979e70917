package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/ideaforge/ideaforge/internal/common"
	"github.com/ideaforge/ideaforge/internal/services/embeddings"
	"github.com/ideaforge/ideaforge/internal/services/gate"
	"github.com/ideaforge/ideaforge/internal/services/generator"
	"github.com/ideaforge/ideaforge/internal/services/llm"
	"github.com/ideaforge/ideaforge/internal/services/vectors"
	"github.com/ideaforge/ideaforge/internal/storage/badger"
)

func main() {
	// Load configuration
	configPath := os.Getenv("IDEAFORGE_CONFIG")
	if configPath == "" {
		configPath = "ideaforge.toml"
	}
	if _, err := os.Stat(configPath); err != nil {
		// Fall back to defaults plus env vars when no config file exists
		configPath = ""
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logger for MCP server (console only, no file output)
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn") // Minimal logging to avoid cluttering MCP stdio

	// Initialize storage
	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	// Initialize completion client and the services built on it
	completion, err := llm.NewCompletionService(context.Background(), config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize completion service")
	}
	defer completion.Close()

	augmenter := embeddings.NewService(completion, storageManager.EmbeddingStorage(),
		config.Search.SimilarityThreshold, config.Search.MaxResults, logger)
	uploadService := vectors.NewUploadService(augmenter, storageManager.EmbeddingStorage(), logger)

	gen := generator.New(completion, augmenter, storageManager, gate.New(), logger)
	gen.StartSession("mcp")

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"ideaforge",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register generation tools
	mcpServer.AddTool(createAnalyzeIdeaTool(), handleAnalyzeIdea(gen, logger))
	mcpServer.AddTool(createGenerateDocumentTool(), handleGenerateDocument(gen, storageManager, logger))
	mcpServer.AddTool(createDocumentStatusTool(), handleDocumentStatus(gen))

	// Register library tools
	mcpServer.AddTool(createListIdeasTool(), handleListIdeas(storageManager, logger))
	mcpServer.AddTool(createGetDocumentTool(), handleGetDocument(storageManager, logger))
	mcpServer.AddTool(createUploadReferenceTool(), handleUploadReference(uploadService, storageManager, logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
