package session

import (
	"context"
	"errors"
	"time"
)

// Form - какая форма сейчас открыта
type Form string

const (
	FormNone      Form = ""
	FormInterview Form = "interview"
	FormReading   Form = "reading"
)

// StatusKind определяет тип баннера статуса
type StatusKind string

const (
	StatusInfo      StatusKind = "info"
	StatusRecording StatusKind = "recording"
	StatusSuccess   StatusKind = "success"
	StatusError     StatusKind = "error"
)

// Status представляет баннер статуса голосового ввода
type Status struct {
	Visible bool       `json:"visible"`
	Kind    StatusKind `json:"kind,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Capture - источник записи звука (микрофон)
type Capture interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
}

// Recognizer - распознавание речи в реальном времени.
// onResult вызывается для промежуточных (final=false) и окончательных результатов.
type Recognizer interface {
	Start(ctx context.Context, onResult func(text string, final bool)) error
	Stop() error
}

// Player - воспроизведение синтезированной речи
type Player interface {
	Play(ctx context.Context, audio []byte) error
	Stop() error
}

// Ошибки медиа-устройств, по которым выбирается текст баннера
var (
	ErrPermissionDenied = errors.New("microphone permission denied")
	ErrNoDevice         = errors.New("no audio input device")
	ErrNotSupported     = errors.New("voice feature not supported")
	ErrBusy             = errors.New("another voice session is active")
)

// Snapshot - копия состояния сессии для чтения без блокировок
type Snapshot struct {
	ID                   string    `json:"id"`
	Form                 Form      `json:"form"`
	Recording            bool      `json:"recording"`
	RealtimeTranscribing bool      `json:"realtime_transcribing"`
	AccumulatedText      string    `json:"accumulated_text"`
	InterimText          string    `json:"interim_text,omitempty"`
	Playing              bool      `json:"playing"`
	Status               Status    `json:"status"`
	LastActivity         time.Time `json:"last_activity"`
}

// StatusMessage возвращает текст баннера для ошибки медиа
func StatusMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "Microphone access denied. Please allow microphone access and try again."
	case errors.Is(err, ErrNoDevice):
		return "No microphone found. Please connect a microphone and try again."
	case errors.Is(err, ErrNotSupported):
		return "Voice input is not supported in this environment."
	case errors.Is(err, ErrBusy):
		return "Another voice session is already active."
	default:
		return "Voice error: " + err.Error()
	}
}
