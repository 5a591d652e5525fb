package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aquaflow/copilot/internal/agents"
	"github.com/aquaflow/copilot/internal/core/config"
	"github.com/aquaflow/copilot/internal/core/db"
	"github.com/aquaflow/copilot/internal/core/server"
	"github.com/aquaflow/copilot/internal/core/tts"
	"github.com/aquaflow/copilot/internal/pipeline"
	"github.com/aquaflow/copilot/internal/rules"
)

const Version = "1.1.0"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis API service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	serveCmd.Flags().Int("port", 8000, "HTTP server port")
	serveCmd.Flags().String("rules-dir", "", "directory containing process rulesets")
	serveCmd.Flags().String("provider", "", "generative backend (gemini, openai)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := logrus.StandardLogger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Port = port
	}
	if cmd.Flags().Changed("rules-dir") {
		dir, _ := cmd.Flags().GetString("rules-dir")
		cfg.RulesDir = dir
	}
	if cmd.Flags().Changed("provider") {
		provider, _ := cmd.Flags().GetString("provider")
		cfg.Provider = provider
	}
	if dbURL != "" {
		cfg.DBURL = dbURL
	}

	var audit *db.AuditStore
	if cfg.DBURL != "" {
		database, err := db.Open(cfg.DBURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		var migrationID string
		checkQuery := `SELECT migration_id FROM migrations WHERE migration_id = '001_analysis_log.sql'`
		if err := database.Get(&migrationID, database.Rebind(checkQuery)); err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("migration 001_analysis_log not applied - run 'copilot migrate' first")
			}
			return fmt.Errorf("failed to check migrations: %w", err)
		}

		queries, err := db.LoadQueries(database)
		if err != nil {
			return fmt.Errorf("failed to load queries: %w", err)
		}
		audit = db.NewAuditStore(queries)
	} else {
		log.Warn("no database configured, analysis history disabled")
	}

	classifierModel, specialistModel, err := buildModels(cfg)
	if err != nil {
		return err
	}

	loader := rules.NewLoader(cfg.RulesDir)

	processes, err := loader.Processes()
	if err != nil {
		return fmt.Errorf("failed to scan rulesets: %w", err)
	}

	// One specialist per process that ships a policy manual
	specialists := make(map[string]pipeline.Specialist, len(processes))
	for _, p := range processes {
		if !p.HasPolicy {
			log.WithField("process", p.Name).Warn("no policy manual, specialist not registered")
			continue
		}
		specialist, err := agents.NewPolicySpecialist(p.Name, loader.PolicyPath(p.Name), specialistModel, cfg.CallTimeout, log)
		if err != nil {
			return fmt.Errorf("failed to create specialist for %s: %w", p.Name, err)
		}
		specialists[p.Name] = specialist
	}

	router := agents.NewRouter(classifierModel, cfg.CallTimeout, log)

	orchestrator, err := pipeline.NewOrchestrator(router, loader, specialists, log)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	speech := tts.NewClient(config.ElevenLabsAPIKey(), cfg.CallTimeout)

	handler := server.NewHandler(orchestrator, loader, audit, speech, log)
	httpServer, err := server.NewHTTPServer(cfg, handler)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.WithFields(logrus.Fields{
		"version":  Version,
		"host":     cfg.Host,
		"port":     cfg.Port,
		"provider": cfg.Provider,
	}).Info("starting copilot API")

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		log.Info("shutting down gracefully")
		return httpServer.Shutdown(ctx)
	}
}

// buildModels selects the generative backend for the classifier and the
// specialists from configuration.
func buildModels(cfg *config.ServerConfig) (agents.ChatModel, agents.ChatModel, error) {
	switch cfg.Provider {
	case "gemini":
		key := config.GeminiAPIKey()
		if key == "" {
			return nil, nil, fmt.Errorf("GOOGLE_API_KEY not set")
		}
		return agents.NewGeminiModel(key, cfg.ClassifierModel), agents.NewGeminiModel(key, cfg.SpecialistModel), nil
	case "openai":
		key := config.OpenAIAPIKey()
		if key == "" {
			return nil, nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return agents.NewOpenAIModel(key, cfg.ClassifierModel), agents.NewOpenAIModel(key, cfg.SpecialistModel), nil
	default:
		return nil, nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
