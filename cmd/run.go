package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shortlister/internal/ai/gemini"
	"shortlister/internal/airtable"
	"shortlister/internal/batch"
	"shortlister/internal/eligibility"
	"shortlister/internal/enrich"
	"shortlister/internal/logger"
	"shortlister/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var prompt = promptui.Select{
	Label: "Process the batch and write results back?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the shortlisting batch across all applicants",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before processing the batch")
	runCmd.Flags().Bool("dump-report", false, "dump the batch report to a temporary json file")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the shortlister", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Airtable == nil || config.Airtable.BaseID == "" {
		logger.Fatal("airtable base id is required under airtable.base-id")
	}

	token, err := secrets.AirtableToken(firstNonEmpty(config.Airtable.TokenFile, viper.GetString("airtable.token-file")))
	if err != nil {
		logger.Fatal(
			"loading airtable token",
			zap.Error(err),
			zap.String("hint", "set AIRTABLE_TOKEN_FILE environment variable or the 'airtable.token-file' key in the configuration file"),
		)
	}

	client := airtable.New(token, config.Airtable.BaseID, logger)
	store := airtable.NewStore(client, resolveTables(config.Airtable.Tables), logger)

	enricher, err := prepareEnricher(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the enrichment orchestrator", zap.Error(err))
	}

	coordinator, err := batch.New(store, buildCriteria(config.Criteria), enricher, logger)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ids, err := store.ApplicantIDs(ctx)
	if err != nil {
		logger.Fatal("listing applicants", zap.Error(err))
	}

	if len(ids) == 0 {
		logger.Info("exiting", zap.String("reason", "no applicants found"))
		return
	}

	logger.Info("found applicants", zap.Int("count", len(ids)))

	if cmd.Flag("auto-approve").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	report := coordinator.Run(ctx, ids)

	if cmd.Flag("dump-report").Value.String() == "true" {
		filename, err := report.DumpToTmpFile()
		if err != nil {
			logger.Fatal("dumping report to file", zap.Error(err))
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
	}
}

// buildCriteria overlays the configured criteria on top of the defaults.
func buildCriteria(cfg *CriteriaConfig) *eligibility.Criteria {
	criteria := eligibility.Default()
	if cfg == nil {
		return criteria
	}

	if cfg.MaxRate != 0 {
		criteria.MaxRate = cfg.MaxRate
	}
	if cfg.MinHours != 0 {
		criteria.MinHours = cfg.MinHours
	}
	if cfg.MinExperienceYears != 0 {
		criteria.MinExperienceYears = cfg.MinExperienceYears
	}
	if len(cfg.Tier1Companies) > 0 {
		criteria.Tier1Companies = cfg.Tier1Companies
	}
	if len(cfg.AllowedLocations) > 0 {
		criteria.AllowedLocations = cfg.AllowedLocations
	}

	return criteria
}

func resolveTables(cfg *TablesConfig) airtable.Tables {
	tables := airtable.DefaultTables()
	if cfg == nil {
		return tables
	}

	if cfg.Applicants != "" {
		tables.Applicants = cfg.Applicants
	}
	if cfg.Personal != "" {
		tables.Personal = cfg.Personal
	}
	if cfg.Experience != "" {
		tables.Experience = cfg.Experience
	}
	if cfg.Preferences != "" {
		tables.Preferences = cfg.Preferences
	}
	if cfg.Shortlisted != "" {
		tables.Shortlisted = cfg.Shortlisted
	}

	return tables
}

func prepareEnricher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (batch.Enricher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai enrichment is enabled")
	}

	apiKey, err := secrets.GeminiAPIKey(cfg.Gemini.APIKeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	scorerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	scorer := gemini.NewScorer(generator, cfg.Gemini.MaxLogLength, scorerLogger)

	return enrich.New(scorer, enrich.Config{
		MaxRetries: cfg.Gemini.MaxRetries,
		Timeout:    time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
	}, logger), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
