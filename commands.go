package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"assistant-client/internal/api"
	"assistant-client/internal/assistant"
	"assistant-client/internal/formatter"
	"assistant-client/internal/output"
	"assistant-client/internal/session"
	"assistant-client/internal/storage"
)

func newInterviewCmd() *cobra.Command {
	var (
		cvFile     string
		job        string
		defaultJob bool
		speak      bool
	)

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Prepare for an interview from a CV and a job description",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fmt.Println("🎤 Подготовка к интервью...")

			if cvFile != "" {
				if err := svc.LoadCVFile(cvFile); err != nil {
					return err
				}
			}
			svc.ShowInterviewForm(ctx)

			switch {
			case job != "":
				svc.Page().SetJobDescription(job)
			case defaultJob:
				svc.UseDefaultJobDescription()
			}

			result, err := svc.SubmitInterview(ctx, svc.Page().CVText(), svc.Page().JobDescription())
			if err != nil {
				return err
			}

			if err := printResult(result); err != nil {
				return err
			}
			if speak {
				return speakText(cmd, result.Raw)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cvFile, "cv", "", "CV JSON file (default: backend CV or the sample CV)")
	cmd.Flags().StringVar(&job, "job", "", "job description")
	cmd.Flags().BoolVar(&defaultJob, "default-job", false, "use the default job description")
	cmd.Flags().BoolVar(&speak, "speak", false, "read the result aloud into an mp3 file")
	return cmd
}

func newSummarizeCmd() *cobra.Command {
	var download bool

	cmd := &cobra.Command{
		Use:   "summarize <file.pdf>",
		Short: "Summarize a PDF reading into a concepts/relevance table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fmt.Println("📚 Конспектирование PDF...")

			svc.ShowReadingForm()
			if err := svc.SelectPDF(args[0]); err != nil {
				return err
			}

			result, err := svc.SubmitReading(ctx)
			if err != nil {
				return err
			}

			if err := output.NewSummaryTable(printer.Out()).Render(result.Summary, cfg.FormatterOptions()); err != nil {
				return fmt.Errorf("ошибка вывода таблицы: %w", err)
			}

			if result.ExcelFile == "" {
				return nil
			}
			if !download {
				printer.Info("Excel file: %s", svc.Page().State().DownloadURL)
				return nil
			}

			path, err := svc.DownloadExcel(ctx, result.ExcelFile, appCfg.Output.DownloadsDir)
			if err != nil {
				printer.Error("%s", assistant.ErrorMessage(err))
				return err
			}
			printer.Success("Excel file saved to %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&download, "download", false, "download the generated Excel file")
	return cmd
}

func newFormatCmd() *cobra.Command {
	var (
		mode string
		html bool
	)

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Render a raw backend response without calling the backend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("ошибка чтения ответа: %w", err)
			}

			f := formatter.New(cfg.FormatterOptions())
			text := string(data)

			switch mode {
			case "reading":
				summary := f.ParseReading(text)
				if html {
					printer.Print("%s", f.RenderSummary(summary))
					return nil
				}
				return output.NewSummaryTable(printer.Out()).Render(summary, cfg.FormatterOptions())
			case "interview":
				markup := f.FormatResult(text)
				if html {
					printer.Print("%s", markup)
					return nil
				}
				plain, err := output.PlainText(markup)
				if err != nil {
					return err
				}
				printer.Print("%s", plain)
				return nil
			default:
				return fmt.Errorf("неизвестный режим %q: ожидается reading или interview", mode)
			}
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "reading", "formatting mode: reading or interview")
	cmd.Flags().BoolVar(&html, "html", false, "print HTML instead of terminal output")
	return cmd
}

func newCVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cv",
		Short: "Show the CV that will be sent with interview requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc.ShowInterviewForm(cmd.Context())
			printer.Print("%s", svc.Page().CVText())
			return nil
		},
	}
}

func newVoiceStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voice-status",
		Short: "Check which voice features the backend supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			avail, err := svc.CheckVoiceStatus(cmd.Context())
			if err != nil {
				printer.Warning("Voice features disabled: %s", assistant.ErrorMessage(err))
				return nil
			}

			report := func(name string, ok bool) {
				if ok {
					printer.Success("%s available", name)
				} else {
					printer.Warning("%s unavailable", name)
				}
			}
			report("Speech-to-text", avail.Transcription)
			report("Text-to-speech", avail.Speech)
			return nil
		},
	}
}

func newSpeakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize speech into an mp3 file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return speakText(cmd, strings.Join(args, " "))
		},
	}
}

func speakText(cmd *cobra.Command, text string) error {
	if len([]rune(text)) > api.MaxSpeechText {
		printer.Warning("Text is longer than %d characters and will be truncated", api.MaxSpeechText)
	}

	player := &session.FilePlayer{Dir: appCfg.Voice.AudioDir}
	if err := svc.Speak(cmd.Context(), text, player); err != nil {
		return err
	}
	printer.Success("Speech saved to %s", player.LastPath())
	return nil
}

func newTranscribeCmd() *cobra.Command {
	var (
		target string
		live   bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe [audio-file]",
		Short: "Transcribe a recording, or lines typed on stdin with --live",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			field := assistant.Field(target)
			if field != assistant.FieldCV && field != assistant.FieldJobDescription {
				return fmt.Errorf("неизвестное поле %q", target)
			}

			var (
				text string
				err  error
			)
			if live {
				recognizer := &session.LineRecognizer{Reader: cmd.InOrStdin()}
				if _, err = svc.ToggleRealtime(ctx, recognizer, field); err != nil {
					printer.Error("%s", session.StatusMessage(err))
					return err
				}
				printer.Info("%s", svc.Session().Status().Message)
				recognizer.Wait()
				text, err = svc.ToggleRealtime(ctx, recognizer, field)
			} else {
				if len(args) == 0 {
					return errors.New("нужен файл записи или флаг --live")
				}
				capture := &session.FileCapture{Path: args[0]}
				if _, err = svc.ToggleVoiceInput(ctx, capture, field); err != nil {
					printer.Error("%s", session.StatusMessage(err))
					return err
				}
				text, err = svc.ToggleVoiceInput(ctx, capture, field)
			}
			if err != nil {
				return err
			}

			printer.Print("%s", text)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", string(assistant.FieldJobDescription), "field to append text to: cv or job_description")
	cmd.Flags().BoolVar(&live, "live", false, "treat stdin lines as live recognition results")
	return cmd
}

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results [id]",
		Short: "List saved results or show one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				result, err := store.LoadResult(args[0])
				if err != nil {
					return err
				}
				return printResult(result)
			}

			ids, err := store.ListResults()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printer.Info("No saved results in %s", store.Dir())
				return nil
			}

			printer.Header(fmt.Sprintf("Saved results (%d)", len(ids)))
			for _, id := range ids {
				result, err := store.LoadResult(id)
				if err != nil {
					logger.Warn().Err(err).Str("id", id).Msg("Не удалось прочитать результат")
					continue
				}
				printer.Print("%s  %-9s  %s", result.ID, result.Mode, result.Timestamp)
			}
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(appCfg.Backend.BaseURL, appCfg.Backend.Timeout)
			health, err := client.Health(cmd.Context())
			if err != nil {
				printer.Error("%s", assistant.ErrorMessage(err))
				return err
			}
			printer.Success("%s: %s", health.Status, health.Message)
			return nil
		},
	}
}

// printResult печатает сохраненный или только что полученный результат в терминал
func printResult(result *storage.RenderedResult) error {
	if result.Summary != nil {
		return output.NewSummaryTable(printer.Out()).Render(result.Summary, cfg.FormatterOptions())
	}

	plain, err := output.PlainText(result.HTML)
	if err != nil {
		return fmt.Errorf("ошибка разбора результата: %w", err)
	}
	printer.Header("Interview preparation")
	printer.Print("%s", plain)
	return nil
}
