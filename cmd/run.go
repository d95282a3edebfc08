package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/ai/gemini"
	"github.com/spigell/ats-scorer/internal/batch"
	"github.com/spigell/ats-scorer/internal/corpus"
	"github.com/spigell/ats-scorer/internal/document"
	"github.com/spigell/ats-scorer/internal/extract"
	"github.com/spigell/ats-scorer/internal/logger"
	"github.com/spigell/ats-scorer/internal/report"
	"github.com/spigell/ats-scorer/internal/secrets"
)

const (
	PromptRank    = "Rank resumes by job description"
	PromptDetails = "Show pair details"
	PromptExit    = "Exit"
	PromptBack    = "back"

	geminiAPIKeyEnv = "GEMINI_API_KEY"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptRank, PromptDetails, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score every resume against every job description",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("resumes", "", "directory with resumes (.docx, .doc, .pdf)")
	runCmd.Flags().String("jds", "", "directory with job descriptions")
	runCmd.Flags().String("extractor", "", "term extractor: frequency or gemini")
	runCmd.Flags().Int("max-terms", 0, "maximum number of terms extracted per document")
	runCmd.Flags().String("format", "", "summary format: table, json or yaml")
	runCmd.Flags().Bool("no-color", false, "disable colored output")
	runCmd.Flags().Bool("rank", false, "print resumes ranked per job description")
	runCmd.Flags().BoolP("interactive", "i", false, "open a menu after the batch")

	viper.BindPFlag("resumes-dir", runCmd.Flags().Lookup("resumes"))
	viper.BindPFlag("jds-dir", runCmd.Flags().Lookup("jds"))
	viper.BindPFlag("extractor.kind", runCmd.Flags().Lookup("extractor"))
	viper.BindPFlag("extractor.max-terms", runCmd.Flags().Lookup("max-terms"))
	viper.BindPFlag("report.format", runCmd.Flags().Lookup("format"))
	viper.BindPFlag("report.rank", runCmd.Flags().Lookup("rank"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		viper.Set("report.color", false)
	}

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer base.Sync() //nolint:errcheck

	config, err := getConfig(viper.GetViper())
	if err != nil {
		base.Fatal("getting a config", zap.Error(err))
	}

	if err := config.validate(); err != nil {
		base.Fatal("validating a config", zap.Error(err))
	}

	runLogger := logger.WithRun(base, uuid.NewString(), string(config.Extractor.Kind), modelName(config.Extractor))
	runLogger.Info("starting the ats-scorer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config.redacted(), "", "  ")
	runLogger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	enumerator := corpus.New(runLogger, config.JDExtensions)

	resumes, err := enumerator.Resumes(config.ResumesDir)
	if err != nil {
		runLogger.Fatal("listing resumes", zap.Error(err))
	}

	jobs, err := enumerator.JobDescriptions(config.JDsDir)
	if err != nil {
		runLogger.Fatal("listing job descriptions", zap.Error(err))
	}

	if len(resumes) == 0 {
		runLogger.Info("exiting", zap.String("reason", "no resumes found"), zap.String("dir", config.ResumesDir))
		return
	}

	if len(jobs) == 0 {
		runLogger.Info("exiting", zap.String("reason", "no job descriptions found"), zap.String("dir", config.JDsDir))
		return
	}

	extractor, err := newExtractor(ctx, config.Extractor, runLogger)
	if err != nil {
		runLogger.Fatal("building a term extractor", zap.Error(err))
	}

	reporter := report.New(os.Stdout, config.Report.Format, config.Report.Color)
	driver := batch.New(document.NewReader(), extractor, runLogger, batch.WithObserver(reporter.Pair))

	rows, err := driver.Run(ctx, resumes, jobs)
	if err != nil {
		runLogger.Warn("batch interrupted", zap.Error(err), zap.Int("pairs", len(rows)))
	}

	if err := reporter.Summary(rows); err != nil {
		runLogger.Fatal("printing a summary", zap.Error(err))
	}

	if config.Report.Rank {
		reporter.Ranking(rows)
	}

	if failed := rows.Failed(); failed > 0 {
		runLogger.Warn("some pairs were not scored", zap.Int("failed", failed), zap.Error(rows.Err()))
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive || ctx.Err() != nil {
		return
	}

	if reporter.Format() != report.FormatTable {
		runLogger.Warn("interactive menu needs table format", zap.String("format", string(reporter.Format())))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			runLogger.Info("exiting", zap.Error(err))
			return
		}

		if err := handleAction(action, reporter, rows, runLogger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			runLogger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, reporter *report.Reporter, rows batch.Rows, logger *zap.Logger) error {
	switch action {
	case PromptRank:
		reporter.Ranking(rows)
		return nil
	case PromptDetails:
		return showDetails(reporter, rows)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showDetails(reporter *report.Reporter, rows batch.Rows) error {
	if len(rows) == 0 {
		return nil
	}

	for {
		pairPrompt := promptui.Select{
			Label: "Choose a pair and press ENTER",
			Items: append(pairLabels(rows), PromptBack),
			Size:  10,
		}

		_, selected, err := pairPrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		row, err := rowByLabel(rows, selected)
		if err != nil {
			return err
		}

		reporter.Detail(row)
	}
}

// pairLabels returns one menu entry per row, prefixed with its 1-based index.
func pairLabels(rows batch.Rows) []string {
	labels := make([]string, 0, len(rows))
	for i, row := range rows {
		score := "error"
		if !row.Failed() {
			score = strconv.Itoa(row.Result.Rounded()) + "%"
		}
		labels = append(labels, fmt.Sprintf("%d %s / %s / %s", i+1, row.ResumeName(), row.JobName(), score))
	}
	return labels
}

func rowByLabel(rows batch.Rows, label string) (batch.Row, error) {
	n, err := strconv.Atoi(strings.Split(label, " ")[0])
	if err != nil || n < 1 || n > len(rows) {
		return batch.Row{}, fmt.Errorf("there is no such pair %q", label)
	}
	return rows[n-1], nil
}

func modelName(cfg *ExtractorConfig) string {
	if cfg.Kind != extract.KindGemini {
		return ""
	}
	if cfg.Gemini.Model != "" {
		return cfg.Gemini.Model
	}
	return gemini.DefaultModel
}

// newExtractor builds the configured extractor. The Gemini client is created
// once here and shared by every extraction of the run.
func newExtractor(ctx context.Context, cfg *ExtractorConfig, logger *zap.Logger) (extract.Extractor, error) {
	var extractor extract.Extractor

	switch cfg.Kind {
	case extract.KindGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  cfg.Gemini.APIKeyFile,
			Value: cfg.Gemini.APIKey,
			Env:   geminiAPIKeyEnv,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set extractor.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
		if err != nil {
			return nil, err
		}

		extractor = gemini.NewKeyphrases(generator, cfg.MaxTerms, cfg.Gemini.MaxLogLength, logger)
	case extract.KindFrequency, "":
		extractor = extract.NewFrequency(cfg.MaxTerms, cfg.MinTermLength)
	default:
		return nil, fmt.Errorf("unsupported extractor: %s", cfg.Kind)
	}

	if cfg.Cache {
		extractor = extract.NewCached(extractor, logger)
	}

	return extractor, nil
}
