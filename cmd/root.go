package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/rfp-evaluator/internal/evaluation"
	"github.com/spigell/rfp-evaluator/internal/llm"
	"github.com/spigell/rfp-evaluator/internal/llm/gemini"
	"github.com/spigell/rfp-evaluator/internal/llm/openai"
	applog "github.com/spigell/rfp-evaluator/internal/logger"
	"github.com/spigell/rfp-evaluator/internal/matrix"
	"github.com/spigell/rfp-evaluator/internal/secrets"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "rfp-evaluator"

	defaultMatrixFile = "evaluation_matrix.csv"
)

type Config struct {
	MatrixFile string     `mapstructure:"matrix-file"`
	LLM        *LLMConfig `mapstructure:"llm"`
}

type LLMConfig struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Sentinel     string        `mapstructure:"sentinel"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Project    string `mapstructure:"project"`
	Location   string `mapstructure:"location"`
}

type OpenAIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "rfp-evaluator extracts requirements from RFP documents and scores vendor proposals against them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// The original deployment keeps credentials in a .env file next to the
	// binary. A missing file is fine.
	_ = godotenv.Load()

	for key, env := range map[string]string{
		"matrix-file":         "RFP_EVALUATOR_MATRIX_FILE",
		"llm.model":           "RFP_EVALUATOR_MODEL",
		"llm.gemini.location": "GOOGLE_CLOUD_LOCATION",
		"llm.gemini.project":  "GOOGLE_CLOUD_PROJECT",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("matrix-file", defaultMatrixFile)
	viper.SetDefault("llm.provider", "gemini")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is rfp-evaluator.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("matrix-file", "m", "", "path to the evaluation matrix csv")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("matrix-file", rootCmd.PersistentFlags().Lookup("matrix-file"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// An explicitly requested config file must parse.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")
	viper.SetConfigType("yaml")

	// Without --config the file is optional: env vars and defaults are
	// enough to run.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func newLogger() *zap.Logger {
	logger, err := applog.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.MatrixFile == "" {
		config.MatrixFile = defaultMatrixFile
	}
	if config.LLM == nil {
		config.LLM = &LLMConfig{}
	}

	return config, nil
}

func newStore(config *Config) *matrix.Store {
	return &matrix.Store{Path: config.MatrixFile}
}

// newInvoker builds the configured model provider.
func newInvoker(ctx context.Context, config *LLMConfig) (llm.Invoker, error) {
	provider := strings.TrimSpace(strings.ToLower(config.Provider))

	switch provider {
	case "", "gemini":
		cfg := gemini.Config{Model: config.Model}
		if config.Gemini != nil {
			cfg.Project = config.Gemini.Project
			cfg.Location = config.Gemini.Location
		}

		// The Vertex backend authenticates through application default
		// credentials; an API key is only needed for the Gemini API.
		if cfg.Project == "" || cfg.Location == "" {
			src := secrets.Source{Name: "gemini api key", Env: "GEMINI_API_KEY"}
			if config.Gemini != nil {
				src.File = config.Gemini.APIKeyFile
			}
			apiKey, err := secrets.Load(src)
			if err != nil {
				return nil, fmt.Errorf("%w (set llm.gemini.api-key-file or GEMINI_API_KEY)", err)
			}
			cfg.APIKey = apiKey
		}

		return gemini.New(ctx, cfg)
	case "openai":
		src := secrets.Source{Name: "openai api key", Env: "OPENAI_API_KEY"}
		cfg := openai.Config{Model: config.Model}
		if config.OpenAI != nil {
			src.File = config.OpenAI.APIKeyFile
			cfg.BaseURL = config.OpenAI.BaseURL
		}

		apiKey, err := secrets.Load(src)
		if err != nil {
			return nil, fmt.Errorf("%w (set llm.openai.api-key-file or OPENAI_API_KEY)", err)
		}
		cfg.APIKey = apiKey

		return openai.New(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", config.Provider)
	}
}

func newPipeline(ctx context.Context, config *Config, logger *zap.Logger) (*evaluation.Pipeline, error) {
	invoker, err := newInvoker(ctx, config.LLM)
	if err != nil {
		return nil, fmt.Errorf("building model provider: %w", err)
	}

	opts := []evaluation.Option{}
	if config.LLM.MaxLogLength > 0 {
		opts = append(opts, evaluation.WithMaxLogLength(config.LLM.MaxLogLength))
	}
	if config.LLM.Sentinel != "" {
		opts = append(opts, evaluation.WithSentinel(config.LLM.Sentinel))
	}

	pipelineLogger := applog.WithCommonFields(logger, providerName(config.LLM), invoker.Model())

	return evaluation.NewPipeline(invoker, pipelineLogger, opts...), nil
}

func providerName(config *LLMConfig) string {
	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider == "" {
		return "gemini"
	}
	return provider
}
