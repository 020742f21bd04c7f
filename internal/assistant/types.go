package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"assistant-client/internal/api"
)

// Тексты уведомлений об ошибках
const (
	NetworkErrorMessage = "Network error. Please try again."
	DefaultErrorMessage = "An error occurred"
)

// Ошибки валидации форм
var (
	ErrEmptyFields = errors.New("please fill in both CV and job description")
	ErrNoPDF       = errors.New("please select a PDF file")
	ErrNotPDF      = errors.New("please select a valid PDF file")
	ErrNotJSON     = errors.New("please select a valid JSON file")
	ErrVoiceOff    = errors.New("voice feature is unavailable")
)

// Backend - операции бэкенда, которые использует ассистент. Реализуется *api.Client.
type Backend interface {
	GetCV(ctx context.Context) (json.RawMessage, error)
	Interview(ctx context.Context, cvText, jobDescription string) (*api.InterviewResponse, error)
	Summarize(ctx context.Context, filename string, pdf io.Reader) (*api.SummarizeResponse, error)
	Download(ctx context.Context, filename string, w io.Writer) (int64, error)
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
	VoiceStatus(ctx context.Context) (*api.VoiceStatus, error)
	TextToSpeech(ctx context.Context, text, voice string) ([]byte, error)
}

// Field - поле формы, в которое дописывается распознанный текст
type Field string

const (
	FieldCV             Field = "cv"
	FieldJobDescription Field = "job_description"
)

// Options - настройки сервиса
type Options struct {
	Voice       string
	SaveResults bool
}

// VoiceAvailability - какие голосовые функции доступны
type VoiceAvailability struct {
	Transcription bool `json:"transcription"`
	Speech        bool `json:"speech"`
}
