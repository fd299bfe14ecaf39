package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ssbmax/olq-assessor/internal/logger"
	"github.com/ssbmax/olq-assessor/internal/olq"
	"github.com/ssbmax/olq-assessor/internal/screening"
	"github.com/ssbmax/olq-assessor/internal/validation"
)

const (
	app = "olq-assessor"

	outputText = "text"
	outputJSON = "json"
)

type Config struct {
	EntryType    string        `mapstructure:"entry-type"`
	Output       string        `mapstructure:"output"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Screen       *ScreenConfig `mapstructure:"screen"`
}

type ScreenConfig struct {
	MinimumOutcome    string   `mapstructure:"minimum-outcome"`
	RequireComplete   bool     `mapstructure:"require-complete"`
	ExcludeCandidates []string `mapstructure:"exclude-candidates"`
	Workers           int      `mapstructure:"workers"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "olq-assessor checks SSB Officer-Like Quality scores against selection doctrine",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("entry-type", "OLQ_ENTRY_TYPE"); err != nil {
		log.Fatalf("binding OLQ_ENTRY_TYPE environment variable: %v", err)
	}

	viper.SetDefault("output", outputText)
	viper.SetDefault("max-log-length", 200)
	viper.SetDefault("screen.minimum-outcome", strings.ToLower(validation.Borderline.String()))
	viper.SetDefault("screen.require-complete", false)
	viper.SetDefault("screen.workers", 0)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is olq-assessor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("entry-type", "e", "", "entry type for sheets that do not name one: nda, ota or graduate")
	rootCmd.PersistentFlags().StringP("output", "o", outputText, "report format: text or json")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("entry-type", rootCmd.PersistentFlags().Lookup("entry-type"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The default config file is optional, an explicitly given one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	if config.Screen == nil {
		config.Screen = &ScreenConfig{}
	}

	switch config.Output {
	case outputText, outputJSON:
	default:
		return nil, fmt.Errorf("unsupported output %q, expected %s or %s", config.Output, outputText, outputJSON)
	}

	return config, nil
}

// DefaultEntryType parses the configured entry type. Zero means none was configured.
func (c *Config) DefaultEntryType() (olq.EntryType, error) {
	if strings.TrimSpace(c.EntryType) == "" {
		return 0, nil
	}
	return olq.ParseEntryType(c.EntryType)
}

// ScreeningConfig converts the screen section for the screening pipeline.
func (c *Config) ScreeningConfig() (*screening.Config, error) {
	sc := c.Screen
	if sc == nil {
		sc = &ScreenConfig{}
	}

	minimum := validation.NotRecommended
	if strings.TrimSpace(sc.MinimumOutcome) != "" {
		var err error
		if minimum, err = validation.ParseOutcome(sc.MinimumOutcome); err != nil {
			return nil, fmt.Errorf("screen.minimum-outcome: %w", err)
		}
	}

	return &screening.Config{
		MinimumOutcome:    minimum,
		RequireComplete:   sc.RequireComplete,
		ExcludeCandidates: append([]string(nil), sc.ExcludeCandidates...),
		Workers:           sc.Workers,
	}, nil
}

// setup builds the logger and reads the config, exiting on failure.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting", zap.String("app", app), zap.String("version", version), zap.Any("config", config))
	return logger, config
}
