package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"assistant-client/internal/api"
	"assistant-client/internal/assistant"
	"assistant-client/internal/config"
	"assistant-client/internal/metrics"
	"assistant-client/internal/output"
	"assistant-client/internal/storage"
	"assistant-client/internal/view"
)

var (
	configFile string
	verbose    bool

	appCfg  *config.AppConfig
	cfg     *config.Config
	logger  zerolog.Logger
	printer *output.Printer
	store   *storage.Store
	svc     *assistant.Service
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "AI agent assistant client",
	Long: `assistant talks to the assistant backend: interview preparation from a CV
and a job description, reading summaries from PDF files, and voice input/output.

Example usage:
  assistant interview --default-job      # Prepare for an interview with the default job description
  assistant summarize paper.pdf          # Summarize a reading into a table
  assistant format --mode reading < out  # Render a saved backend response
  assistant speak "Hello"                # Synthesize speech into an mp3 file`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config/assistant.yaml", "assistant config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newInterviewCmd(),
		newSummarizeCmd(),
		newFormatCmd(),
		newCVCmd(),
		newVoiceStatusCmd(),
		newSpeakCmd(),
		newTranscribeCmd(),
		newResultsCmd(),
		newHealthCmd(),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "❌ Ошибка: "+err.Error())
		os.Exit(1)
	}
}

// initApp загружает окружение и конфигурацию и собирает сервисы
func initApp() error {
	// .env необязателен: переменные могут прийти из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка загрузки .env файла: %w", err)
	}

	appCfg = config.LoadAppConfig()
	if err := appCfg.Validate(); err != nil {
		return err
	}

	logger = newLogger(appCfg.Log.Level)

	var err error
	cfg, err = config.LoadOrDefault(configFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации ассистента: %w", err)
	}

	printer = output.NewPrinter(output.ResolveColors(appCfg.Output.Colors))
	store = storage.NewStore(appCfg.Output.ResultsDir)

	client := api.NewClient(appCfg.Backend.BaseURL, appCfg.Backend.Timeout)
	page := view.NewPage(printer)
	svc = assistant.New(client, cfg, page, store, metrics.NewMetrics(), logger, assistant.Options{
		Voice:       appCfg.Voice.Voice,
		SaveResults: appCfg.Output.Save,
	})

	logger.Debug().
		Str("backend", appCfg.Backend.BaseURL).
		Dur("timeout", appCfg.Backend.Timeout).
		Str("owner", cfg.Owner).
		Msg("Конфигурация загружена")

	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
