package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/cvkit/resume-parser/internal/ai"
	"github.com/cvkit/resume-parser/internal/ai/gemini"
	"github.com/cvkit/resume-parser/internal/document"
	"github.com/cvkit/resume-parser/internal/logger"
	"github.com/cvkit/resume-parser/internal/pipeline"
	"github.com/cvkit/resume-parser/internal/resume"
	"github.com/cvkit/resume-parser/internal/secrets"
	"github.com/cvkit/resume-parser/internal/verify"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	modeCombined = "combined"
	modePerField = "per-field"

	// exitInterrupted is the conventional exit code for SIGINT.
	exitInterrupted = 130
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a resume file (.pdf, .docx) and extract name, email, and skills",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parse(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// parse is the main command for the cli.
func parse(_ *cobra.Command, path string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("verbose"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-parser",
		zap.String("version", version),
		zap.String("file", path),
	)

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		File:  config.AI.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		fail(logger, "loading gemini api key", err)
	}

	extractor, err := buildExtractor(ctx, config.AI, apiKey, logger)
	if err != nil {
		fail(logger, "building field extractor", err)
	}

	pipe := pipeline.New(
		document.NewRegistry(),
		verify.NewVerifier(logger),
		extractor,
		logger,
	)

	record, err := pipe.Parse(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted by user")
			os.Exit(exitInterrupted)
		}
		fail(logger, "parsing resume", err)
	}

	logger.Info("resume parsed successfully", zap.String("file", path))
	fmt.Println(record.String())
}

// fail logs the error together with remediation hints and exits with code 1.
func fail(logger *zap.Logger, step string, err error) {
	fields := []zap.Field{zap.Error(err)}
	if hints := remediation(err); len(hints) > 0 {
		fields = append(fields, zap.String("hint", strings.Join(hints, "; ")))
	}

	logger.Error(step, fields...)
	os.Exit(1)
}

// buildExtractor wires the Gemini generator into either the combined or the
// per-field extraction mode.
func buildExtractor(ctx context.Context, cfg *AIConfig, apiKey string, logger *zap.Logger) (ai.Extractor, error) {
	generator, err := gemini.NewGenerator(ctx, gemini.GeneratorConfig{
		APIKey:       apiKey,
		Model:        cfg.Gemini.Model,
		MaxRetries:   cfg.Gemini.MaxRetries,
		InitialDelay: cfg.Gemini.InitialDelay,
	}, logger)
	if err != nil {
		return nil, err
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	mode := strings.TrimSpace(strings.ToLower(cfg.Mode))
	switch mode {
	case "", modeCombined:
		return gemini.NewCombinedExtractor(generator, genLogger, cfg.Gemini.MaxLogLength), nil
	case modePerField:
		extractors := make(map[string]ai.Extractor)
		for _, field := range []string{ai.FieldName, ai.FieldEmail, ai.FieldSkills} {
			extractor, err := gemini.NewFieldExtractor(generator, field, genLogger, cfg.Gemini.MaxLogLength)
			if err != nil {
				return nil, err
			}
			extractors[field] = extractor
		}
		multi, err := resume.NewMultiExtractor(extractors, logger)
		if err != nil {
			return nil, err
		}
		return multi, nil
	default:
		return nil, fmt.Errorf("unsupported extraction mode: %q (use %s or %s)", cfg.Mode, modeCombined, modePerField)
	}
}

// remediation maps an error to human-actionable hints shown next to it.
func remediation(err error) []string {
	var partial *resume.PartialExtractionError

	switch {
	case errors.Is(err, secrets.ErrNotConfigured):
		return []string{
			"run 'resume-parser configure' to create a config file",
			"or export GEMINI_API_KEY=your_key_here",
			"get a key at https://aistudio.google.com/apikey",
		}
	case errors.Is(err, document.ErrNotFound):
		return []string{
			"check the file path for typos",
			"use a relative or absolute path to the resume file",
		}
	case errors.Is(err, document.ErrUnsupportedFormat):
		return []string{"supported formats: .pdf, .docx"}
	case errors.Is(err, document.ErrAccessDenied):
		return []string{
			"if the PDF is password-protected, unlock it first",
			"check file permissions with: ls -la <file>",
		}
	case errors.Is(err, document.ErrCorruptFile):
		return []string{
			"the file may be corrupt - try re-exporting it",
			"for PDFs: re-save with a tool like Preview or Adobe",
			"for .docx: re-save from Word or Google Docs",
		}
	case errors.Is(err, verify.ErrFailed):
		return []string{
			"the file may be a scanned image (not machine-readable text)",
			"try re-exporting the resume as a text-based PDF",
			"password-protected or image-only PDFs cannot be parsed",
		}
	case errors.Is(err, ai.ErrMalformedResponse),
		errors.Is(err, ai.ErrIncompleteResponse),
		errors.Is(err, ai.ErrEmptyResponse):
		return []string{"the AI returned an unexpected format - try again"}
	case errors.Is(err, ai.ErrNetwork):
		return []string{"check your internet connection and try again"}
	case errors.Is(err, ai.ErrServiceUnavailable):
		return []string{"the Gemini API may be temporarily down - retry shortly"}
	case errors.Is(err, ai.ErrService):
		return []string{"verify your GEMINI_API_KEY is valid"}
	case errors.As(err, &partial):
		return []string{
			fmt.Sprintf("fields that failed: %s", strings.Join(partial.Fields, ", ")),
			"retry, or switch ai.mode to combined",
		}
	default:
		return nil
	}
}
