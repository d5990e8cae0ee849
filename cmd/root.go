package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "shortlister"
)

type Config struct {
	Airtable *AirtableConfig `mapstructure:"airtable"`
	AI       *AIConfig       `mapstructure:"ai"`
	Criteria *CriteriaConfig `mapstructure:"criteria"`
}

type AirtableConfig struct {
	BaseID    string        `mapstructure:"base-id"`
	TokenFile string        `mapstructure:"token-file"`
	Tables    *TablesConfig `mapstructure:"tables"`
}

type TablesConfig struct {
	Applicants  string `mapstructure:"applicants"`
	Personal    string `mapstructure:"personal"`
	Experience  string `mapstructure:"experience"`
	Preferences string `mapstructure:"preferences"`
	Shortlisted string `mapstructure:"shortlisted"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	MaxRetries     int    `mapstructure:"max-retries"`
	TimeoutSeconds int    `mapstructure:"timeout-seconds"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
}

type CriteriaConfig struct {
	MaxRate            float64  `mapstructure:"max-rate"`
	MinHours           float64  `mapstructure:"min-hours"`
	MinExperienceYears float64  `mapstructure:"min-experience-years"`
	Tier1Companies     []string `mapstructure:"tier1-companies"`
	AllowedLocations   []string `mapstructure:"allowed-locations"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "shortlister consolidates contractor applicants from normalized tables and shortlists the qualified ones",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("airtable.token-file", "AIRTABLE_TOKEN_FILE"); err != nil {
		log.Fatalf("binding AIRTABLE_TOKEN_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is shortlister.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
