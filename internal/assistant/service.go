// Package assistant связывает формы страницы с бэкендом: интервью, конспект PDF и голосовые функции.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"assistant-client/internal/api"
	"assistant-client/internal/config"
	"assistant-client/internal/formatter"
	"assistant-client/internal/metrics"
	"assistant-client/internal/session"
	"assistant-client/internal/storage"
	"assistant-client/internal/view"
)

// Service представляет сервис ассистента
type Service struct {
	backend   Backend
	config    *config.Config
	formatter *formatter.Formatter
	page      *view.Page
	session   *session.Session
	store     *storage.Store
	metrics   *metrics.Metrics
	log       zerolog.Logger
	opts      Options

	voiceMu sync.RWMutex
	voice   VoiceAvailability
}

// New создает сервис ассистента. store может быть nil - тогда результаты не сохраняются.
func New(backend Backend, cfg *config.Config, page *view.Page, store *storage.Store, m *metrics.Metrics, logger zerolog.Logger, opts Options) *Service {
	if opts.Voice == "" {
		opts.Voice = api.DefaultVoice
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &Service{
		backend:   backend,
		config:    cfg,
		formatter: formatter.New(cfg.FormatterOptions()),
		page:      page,
		session:   session.New(),
		store:     store,
		metrics:   m,
		log:       logger.With().Str("component", "assistant").Logger(),
		opts:      opts,
		voice:     VoiceAvailability{Transcription: true, Speech: true},
	}
}

// Session возвращает состояние сессии
func (s *Service) Session() *session.Session {
	return s.session
}

// Page возвращает страницу
func (s *Service) Page() *view.Page {
	return s.page
}

// Metrics возвращает счетчики
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// ShowInterviewForm открывает форму интервью и подгружает CV, если поле пустое
func (s *Service) ShowInterviewForm(ctx context.Context) {
	s.HideForms()
	s.session.SetForm(session.FormInterview)

	if strings.TrimSpace(s.page.CVText()) == "" {
		s.LoadCV(ctx)
	}
}

// ShowReadingForm открывает форму конспекта
func (s *Service) ShowReadingForm() {
	s.HideForms()
	s.session.SetForm(session.FormReading)
}

// HideForms закрывает формы и панель результата
func (s *Service) HideForms() {
	s.session.SetForm(session.FormNone)
	s.page.HideResults()
}

// LoadCV загружает CV с бэкенда. При любой ошибке подставляется пример CV.
func (s *Service) LoadCV(ctx context.Context) {
	raw, err := s.backend.GetCV(ctx)
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("CV недоступно, используем пример")
		s.loadSampleCV()
		return
	}

	pretty, err := indentJSON(raw)
	if err != nil {
		s.log.Debug().Err(err).Msg("CV не разобрано, используем пример")
		s.loadSampleCV()
		return
	}

	s.page.SetCVText(pretty)
	s.page.Notify(view.NotifySuccess, "Your CV data loaded successfully!")
}

func (s *Service) loadSampleCV() {
	s.page.SetCVText(s.config.GetSampleCV())
	s.page.Notify(view.NotifyInfo, "Sample CV data loaded. Upload your own CV JSON file for personalized results.")
}

// LoadCVFile загружает CV из JSON файла
func (s *Service) LoadCVFile(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		s.page.Notify(view.NotifyError, "Please select a valid JSON file.")
		return ErrNotJSON
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.page.Notify(view.NotifyError, "Please select a valid JSON file.")
		return fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	pretty, err := indentJSON(data)
	if err != nil {
		s.page.Notify(view.NotifyError, "Invalid JSON file. Please check the format.")
		return fmt.Errorf("ошибка разбора JSON %s: %w", path, err)
	}

	s.page.SetCVText(pretty)
	s.page.Notify(view.NotifySuccess, "CV file loaded successfully!")
	return nil
}

// SelectPDF выбирает PDF для конспекта. Подходит файл с расширением .pdf или сигнатурой %PDF.
func (s *Service) SelectPDF(path string) error {
	ok, err := isPDF(path)
	if err != nil {
		s.page.Notify(view.NotifyError, "Please select a PDF file.")
		return err
	}
	if !ok {
		s.page.Notify(view.NotifyError, "Please select a PDF file.")
		return ErrNotPDF
	}

	s.page.SetPDFPath(path)
	s.page.Notify(view.NotifySuccess, "PDF file selected successfully!")
	return nil
}

// UseDefaultJobDescription подставляет описание вакансии по умолчанию
func (s *Service) UseDefaultJobDescription() {
	s.page.SetJobDescription(s.config.GetDefaultJobDescription())
	s.page.Notify(view.NotifySuccess, "Default job description loaded!")
}

// ClearJobDescription очищает описание вакансии
func (s *Service) ClearJobDescription() {
	s.page.SetJobDescription("")
	s.page.Notify(view.NotifyInfo, "Job description cleared!")
}

// SubmitInterview запрашивает подготовку к интервью. Пустые поля - ошибка без запроса.
func (s *Service) SubmitInterview(ctx context.Context, cvText, jobDescription string) (*storage.RenderedResult, error) {
	if strings.TrimSpace(cvText) == "" || strings.TrimSpace(jobDescription) == "" {
		s.page.Notify(view.NotifyError, "Please fill in all required fields")
		return nil, ErrEmptyFields
	}

	s.metrics.IncrementInterviewsRequested()
	s.page.ShowResults()
	s.page.ShowLoading()
	defer s.page.HideLoading()

	s.log.Info().Int("cv_len", len(cvText)).Msg("Запрос подготовки к интервью")

	resp, err := s.backend.Interview(ctx, cvText, jobDescription)
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return nil, s.fail(err)
	}

	html, summary := s.DisplayResult(resp.Result)
	return s.finish(string(session.FormInterview), resp.Result, html, summary, ""), nil
}

// SubmitReading отправляет выбранный PDF на конспектирование
func (s *Service) SubmitReading(ctx context.Context) (*storage.RenderedResult, error) {
	path := s.page.PDFPath()
	if path == "" {
		s.page.Notify(view.NotifyError, "Please select a PDF file")
		return nil, ErrNoPDF
	}

	file, err := os.Open(path)
	if err != nil {
		s.page.Notify(view.NotifyError, "Please select a PDF file")
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", path, err)
	}
	defer file.Close()

	s.metrics.IncrementReadingsSummarized()
	s.page.ShowResults()
	s.page.ShowLoading()
	defer s.page.HideLoading()

	s.log.Info().Str("file", filepath.Base(path)).Msg("Запрос конспекта")

	resp, err := s.backend.Summarize(ctx, filepath.Base(path), file)
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return nil, s.fail(err)
	}

	var summary *formatter.StructuredSummary
	if resp.StructuredData != nil {
		summary = s.formatter.FromStructuredData(*resp.StructuredData)
	} else {
		summary = s.formatter.ParseReading(resp.Result)
	}
	html := s.page.SetResult(s.formatter.RenderSummary(summary))

	if resp.ExcelFile != "" {
		s.page.ShowDownloadLink(resp.ExcelFile)
	}

	return s.finish(string(session.FormReading), resp.Result, html, summary, resp.ExcelFile), nil
}

// DownloadExcel скачивает сгенерированную таблицу в dir и возвращает путь к файлу
func (s *Service) DownloadExcel(ctx context.Context, filename, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("ошибка создания файла %s: %w", path, err)
	}
	defer file.Close()

	n, err := s.backend.Download(ctx, filename, file)
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}

	s.log.Info().Str("path", path).Int64("bytes", n).Msg("Таблица скачана")
	return path, nil
}

// DisplayResult отрисовывает ответ по текущей форме: конспект для формы чтения, иначе разметка интервью
func (s *Service) DisplayResult(raw string) (string, *formatter.StructuredSummary) {
	var (
		markup  string
		summary *formatter.StructuredSummary
	)
	if s.session.Form() == session.FormReading {
		summary = s.formatter.ParseReading(raw)
		markup = s.formatter.RenderSummary(summary)
	} else {
		markup = s.formatter.FormatResult(raw)
	}

	html := s.page.SetResult(markup)
	s.page.HideLoading()
	return html, summary
}

// DisplayError показывает блок ошибки в панели результата
func (s *Service) DisplayError(message string) string {
	html := s.page.SetResult(formatter.FormatError(message))
	s.page.HideLoading()
	return html
}

// ErrorMessage возвращает текст для пользователя по ошибке бэкенда
func ErrorMessage(err error) string {
	var backendErr *api.BackendError
	switch {
	case errors.Is(err, api.ErrNetwork):
		return NetworkErrorMessage
	case errors.As(err, &backendErr) && backendErr.Message != "":
		return backendErr.Message
	default:
		return DefaultErrorMessage
	}
}

func (s *Service) fail(err error) error {
	if errors.Is(err, api.ErrNetwork) {
		s.metrics.IncrementNetworkErrors()
	}
	s.log.Error().Err(err).Msg("Ошибка запроса к бэкенду")
	s.DisplayError(ErrorMessage(err))
	return err
}

func (s *Service) finish(mode, raw, html string, summary *formatter.StructuredSummary, excel string) *storage.RenderedResult {
	source := mode
	if summary != nil {
		source = string(summary.Source)
	}
	s.metrics.IncrementResultsRendered(source)

	result := storage.NewResult(mode, raw, html)
	result.Summary = summary
	result.ExcelFile = excel

	if s.opts.SaveResults && s.store != nil {
		path, err := s.store.SaveResult(result)
		if err != nil {
			s.log.Warn().Err(err).Msg("Не удалось сохранить результат")
		} else {
			s.log.Debug().Str("path", path).Msg("Результат сохранен")
		}
	}
	return result
}

func indentJSON(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func isPDF(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("ошибка открытия файла %s: %w", path, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return true, nil
	}

	magic := make([]byte, 4)
	if _, err := io.ReadFull(file, magic); err != nil {
		return false, nil
	}
	return string(magic) == "%PDF", nil
}
