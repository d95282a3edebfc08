package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/ats-scorer/internal/corpus"
	"github.com/spigell/ats-scorer/internal/extract"
	"github.com/spigell/ats-scorer/internal/report"
)

const (
	app = "ats-scorer"
)

type Config struct {
	ResumesDir   string           `mapstructure:"resumes-dir"`
	JDsDir       string           `mapstructure:"jds-dir"`
	JDExtensions []string         `mapstructure:"jd-extensions"`
	Extractor    *ExtractorConfig `mapstructure:"extractor"`
	Report       *ReportConfig    `mapstructure:"report"`
}

type ExtractorConfig struct {
	Kind          extract.Kind  `mapstructure:"kind"`
	MaxTerms      int           `mapstructure:"max-terms"`
	MinTermLength int           `mapstructure:"min-term-length"`
	Cache         bool          `mapstructure:"cache"`
	Gemini        *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ReportConfig struct {
	Format report.Format `mapstructure:"format"`
	Color  bool          `mapstructure:"color"`
	Rank   bool          `mapstructure:"rank"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ats-scorer compares résumés with job descriptions by keyword overlap",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("resumes-dir", "resumes")
	v.SetDefault("jds-dir", "jds")
	v.SetDefault("jd-extensions", corpus.DefaultJobExtensions)
	v.SetDefault("extractor.kind", string(extract.KindFrequency))
	v.SetDefault("extractor.max-terms", extract.DefaultMaxTerms)
	v.SetDefault("extractor.min-term-length", 2)
	v.SetDefault("extractor.cache", true)
	v.SetDefault("report.format", string(report.FormatTable))
	v.SetDefault("report.color", true)
}

func initConfig() {
	// Config needed only for run command. Version works without it.
	if runCmd.CalledAs() == "" {
		return
	}

	// A .env file is optional; it usually carries GEMINI_API_KEY.
	_ = godotenv.Load()

	if err := viper.BindEnv("extractor.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig loads the config file. The default file is optional, an
// explicitly requested one is not.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(app)
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}

	return err
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return config, err
	}

	if config.Extractor == nil {
		config.Extractor = &ExtractorConfig{}
	}
	if config.Extractor.Gemini == nil {
		config.Extractor.Gemini = &GeminiConfig{}
	}
	if config.Report == nil {
		config.Report = &ReportConfig{}
	}

	return config, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.ResumesDir) == "" {
		return errors.New("resumes-dir is required")
	}
	if strings.TrimSpace(c.JDsDir) == "" {
		return errors.New("jds-dir is required")
	}
	if c.Extractor.MaxTerms < 0 {
		return fmt.Errorf("extractor.max-terms must not be negative, got %d", c.Extractor.MaxTerms)
	}
	return nil
}

// redacted returns a copy safe for logging.
func (c *Config) redacted() Config {
	out := *c
	extractor := *c.Extractor
	gemini := *c.Extractor.Gemini
	if gemini.APIKey != "" {
		gemini.APIKey = "***"
	}
	extractor.Gemini = &gemini
	out.Extractor = &extractor
	return out
}
