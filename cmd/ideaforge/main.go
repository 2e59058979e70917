package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ternarybob/arbor"

	"github.com/ideaforge/ideaforge/internal/common"
	"github.com/ideaforge/ideaforge/internal/interfaces"
	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/services/embeddings"
	"github.com/ideaforge/ideaforge/internal/services/export"
	"github.com/ideaforge/ideaforge/internal/services/gate"
	"github.com/ideaforge/ideaforge/internal/services/generator"
	"github.com/ideaforge/ideaforge/internal/services/llm"
	"github.com/ideaforge/ideaforge/internal/services/processing"
	"github.com/ideaforge/ideaforge/internal/services/vectors"
	"github.com/ideaforge/ideaforge/internal/storage/badger"
)

var (
	configFile   = flag.String("config", "", "Configuration file path")
	configFileC  = flag.String("c", "", "Configuration file path (shorthand)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
	userID       = flag.String("user", "local", "User identifier for this session")
	runIngest    = flag.Bool("ingest", false, "Ingest the reference directory and exit")
	exportIdea   = flag.String("export", "", "Export all documents of an idea ID to HTML and exit")
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("IdeaForge version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	configPath := *configFile
	if configPath == "" {
		configPath = *configFileC
	}
	if configPath == "" {
		if _, err := os.Stat("ideaforge.toml"); err == nil {
			configPath = "ideaforge.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer storageManager.Close()

	completion, err := llm.NewCompletionService(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize completion service")
	}
	defer completion.Close()

	augmenter := embeddings.NewService(completion, storageManager.EmbeddingStorage(),
		config.Search.SimilarityThreshold, config.Search.MaxResults, logger)
	uploadService := vectors.NewUploadService(augmenter, storageManager.EmbeddingStorage(), logger)
	loader := vectors.NewLoader(config.Processing.ReferenceDir, uploadService, logger)
	exporter := export.NewExporter(config.Export.Dir, logger)

	if *runIngest {
		stats, err := loader.Run(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("Reference ingestion failed")
		}
		fmt.Printf("Ingested %d of %d reference documents (%d failed, %d skipped)\n",
			stats.Uploaded, stats.Scanned, stats.Failed, stats.Skipped)
		return
	}

	if *exportIdea != "" {
		runExport(storageManager, exporter, *exportIdea, logger)
		return
	}

	if config.Processing.Enabled {
		scheduler := processing.NewScheduler(loader, logger)
		if err := scheduler.Start(config.Processing.Schedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start ingestion scheduler")
		}
		defer scheduler.Stop()
	}

	gen := generator.New(completion, augmenter, storageManager, gate.New(), logger)
	gen.StartSession(*userID)

	runInteractive(ctx, gen, storageManager, exporter, logger)
}

func runExport(storage interfaces.StorageManager, exporter *export.Exporter, ideaID string, logger arbor.ILogger) {
	idea, err := storage.IdeaStorage().GetIdea(ideaID)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to fetch idea")
	}
	if idea == nil {
		fmt.Fprintf(os.Stderr, "Idea not found: %s\n", ideaID)
		os.Exit(1)
	}

	docs, err := storage.DocumentStorage().GetDocuments(ideaID)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to fetch documents")
	}

	paths, err := exporter.ExportIdea(idea, docs)
	if err != nil {
		logger.Fatal().Err(err).Msg("Export failed")
	}
	for _, path := range paths {
		fmt.Println(path)
	}
}

func runInteractive(ctx context.Context, gen *generator.Generator, storage interfaces.StorageManager, exporter *export.Exporter, logger arbor.ILogger) {
	fmt.Println()
	fmt.Println("Describe your product idea, or use a command:")
	fmt.Println("  /enhance <text>    improve the wording of idea text")
	fmt.Println("  /generate <type>   generate a document (e.g. /generate PRD)")
	fmt.Println("  /docs              show document progress")
	fmt.Println("  /export            export this idea's documents to HTML")
	fmt.Println("  /quit              exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		switch {
		case line == "/quit" || line == "/exit":
			return

		case line == "/docs":
			printProgress(gen)

		case line == "/export":
			idea := gen.CurrentIdea()
			if idea == nil {
				fmt.Println("No idea in this session yet. Describe your idea first.")
				continue
			}
			runExport(storage, exporter, idea.ID, logger)

		case strings.HasPrefix(line, "/enhance "):
			streamToStdout(gen.Enhance(ctx, strings.TrimPrefix(line, "/enhance ")))

		case strings.HasPrefix(line, "/generate "):
			documentType := strings.TrimSpace(strings.TrimPrefix(line, "/generate "))
			streamToStdout(gen.Generate(ctx, generator.IdeaInput(gen.CurrentIdea()), documentType))
			printProgress(gen)

		default:
			// Plain text is an idea submission or a quoted revision
			streamToStdout(gen.Analyze(ctx, line))
			printProgress(gen)
		}
	}
}

// streamToStdout renders a fragment stream live, handling restart notices
// and terminal errors
func streamToStdout(seq func(yield func(string, error) bool)) {
	seq(func(fragment string, err error) bool {
		if errors.Is(err, interfaces.ErrStreamRestarted) {
			fmt.Print("\n[connection interrupted, restarting]\n\n")
			return true
		}
		if err != nil {
			fmt.Printf("\n%v\n", err)
			return false
		}
		fmt.Print(fragment)
		return true
	})
	fmt.Println()
}

func printProgress(gen *generator.Generator) {
	g := gen.Gate()
	fmt.Println()
	for _, cfg := range models.DocumentTypeConfigs {
		var marker string
		switch g.StateOf(cfg.Title) {
		case gate.StateCompleted:
			marker = "[done]"
		case gate.StateAvailable:
			marker = "[open]"
		default:
			marker = "[locked: requires " + strings.Join(g.MissingPrerequisites(cfg.Title), ", ") + "]"
		}
		fmt.Printf("  %-20s %s\n", cfg.Title, marker)
	}
	fmt.Println()
}
