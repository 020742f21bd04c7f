package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session хранит состояние страницы: открытую форму, запись, транскрипт, воспроизведение и баннер.
// Одновременно активна только одна запись или распознавание.
type Session struct {
	mu sync.Mutex

	id           string
	form         Form
	recording    bool
	realtime     bool
	accumulated  strings.Builder
	interim      string
	capture      Capture
	recognizer   Recognizer
	player       Player
	status       Status
	lastActivity time.Time
}

// New создает новую сессию
func New() *Session {
	return &Session{
		id:           uuid.New().String(),
		lastActivity: time.Now(),
	}
}

// ID возвращает идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// SetForm переключает открытую форму
func (s *Session) SetForm(form Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
	s.touch()
}

// Form возвращает открытую форму
func (s *Session) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// StartRecording запускает запись. При ошибке устройство освобождается и показывается баннер.
func (s *Session) StartRecording(ctx context.Context, capture Capture) error {
	s.mu.Lock()
	if s.recording || s.realtime {
		s.mu.Unlock()
		return ErrBusy
	}
	s.recording = true
	s.capture = capture
	s.touch()
	s.mu.Unlock()

	if err := capture.Start(ctx); err != nil {
		_, _ = capture.Stop()

		s.mu.Lock()
		s.recording = false
		s.capture = nil
		s.setStatus(StatusError, StatusMessage(err))
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.setStatus(StatusRecording, "Recording... toggle again to stop.")
	s.mu.Unlock()
	return nil
}

// StopRecording останавливает запись и возвращает записанный звук.
// Если запись не идет - ничего не делает, кроме скрытия баннера.
func (s *Session) StopRecording() ([]byte, error) {
	s.mu.Lock()
	capture := s.capture
	wasRecording := s.recording
	s.recording = false
	s.capture = nil
	s.hideStatus()
	s.touch()
	s.mu.Unlock()

	if !wasRecording || capture == nil {
		return nil, nil
	}
	return capture.Stop()
}

// IsRecording показывает, идет ли запись
func (s *Session) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// StartRealtime запускает распознавание речи с накоплением текста
func (s *Session) StartRealtime(ctx context.Context, recognizer Recognizer) error {
	s.mu.Lock()
	if s.recording || s.realtime {
		s.mu.Unlock()
		return ErrBusy
	}
	s.realtime = true
	s.recognizer = recognizer
	s.accumulated.Reset()
	s.interim = ""
	s.touch()
	s.mu.Unlock()

	if err := recognizer.Start(ctx, s.AppendTranscript); err != nil {
		_ = recognizer.Stop()

		s.mu.Lock()
		s.realtime = false
		s.recognizer = nil
		s.setStatus(StatusError, StatusMessage(err))
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.setStatus(StatusRecording, "Listening... toggle again to stop.")
	s.mu.Unlock()
	return nil
}

// AppendTranscript принимает результат распознавания. Поздние результаты после остановки игнорируются.
func (s *Session) AppendTranscript(text string, final bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.realtime {
		return
	}
	if final {
		if t := strings.TrimSpace(text); t != "" {
			s.accumulated.WriteString(t)
			s.accumulated.WriteString(" ")
		}
		s.interim = ""
	} else {
		s.interim = text
	}
	s.touch()
}

// StopRealtime останавливает распознавание и возвращает накопленный текст.
// Текст читается после остановки распознавателя, чтобы не потерять последний финальный результат.
func (s *Session) StopRealtime() (string, error) {
	s.mu.Lock()
	recognizer := s.recognizer
	s.recognizer = nil
	if !s.realtime || recognizer == nil {
		s.mu.Unlock()
		return "", nil
	}
	s.mu.Unlock()

	stopErr := recognizer.Stop()

	s.mu.Lock()
	text := strings.TrimSpace(s.accumulated.String())
	s.realtime = false
	s.accumulated.Reset()
	s.interim = ""
	s.hideStatus()
	s.touch()
	s.mu.Unlock()

	return text, stopErr
}

// IsRealtimeTranscribing показывает, идет ли распознавание
func (s *Session) IsRealtimeTranscribing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.realtime
}

// StartPlayback воспроизводит звук; предыдущее воспроизведение останавливается
func (s *Session) StartPlayback(ctx context.Context, player Player, audio []byte) error {
	s.mu.Lock()
	previous := s.player
	s.player = player
	s.touch()
	s.mu.Unlock()

	if previous != nil {
		_ = previous.Stop()
	}

	err := player.Play(ctx, audio)

	s.mu.Lock()
	if s.player == player {
		s.player = nil
	}
	s.mu.Unlock()

	if err != nil {
		_ = player.Stop()
		return err
	}
	return nil
}

// StopPlayback останавливает текущее воспроизведение, если оно есть
func (s *Session) StopPlayback() error {
	s.mu.Lock()
	player := s.player
	s.player = nil
	s.mu.Unlock()

	if player == nil {
		return nil
	}
	return player.Stop()
}

// ShowStatus показывает баннер статуса
func (s *Session) ShowStatus(kind StatusKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatus(kind, message)
}

// HideStatus скрывает баннер
func (s *Session) HideStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideStatus()
}

// Status возвращает текущий баннер
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot возвращает копию состояния
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:                   s.id,
		Form:                 s.form,
		Recording:            s.recording,
		RealtimeTranscribing: s.realtime,
		AccumulatedText:      strings.TrimSpace(s.accumulated.String()),
		InterimText:          s.interim,
		Playing:              s.player != nil,
		Status:               s.status,
		LastActivity:         s.lastActivity,
	}
}

func (s *Session) setStatus(kind StatusKind, message string) {
	s.status = Status{Visible: true, Kind: kind, Message: message}
}

func (s *Session) hideStatus() {
	s.status = Status{}
}

func (s *Session) touch() {
	s.lastActivity = time.Now()
}
