package assistant

import (
	"context"
	"errors"
	"strings"

	"assistant-client/internal/api"
	"assistant-client/internal/session"
	"assistant-client/internal/view"
)

// ToggleVoiceInput запускает запись или останавливает ее, распознает речь и дописывает текст в поле
func (s *Service) ToggleVoiceInput(ctx context.Context, capture session.Capture, target Field) (string, error) {
	if !s.session.IsRecording() {
		// доступность проверяется только при запуске: начатую запись всегда можно остановить
		if !s.VoiceAvailability().Transcription {
			s.page.Notify(view.NotifyError, "Voice input is not available.")
			return "", ErrVoiceOff
		}
		return "", s.session.StartRecording(ctx, capture)
	}

	audio, err := s.session.StopRecording()
	if err != nil {
		s.session.ShowStatus(session.StatusError, session.StatusMessage(err))
		return "", err
	}
	if len(audio) == 0 {
		return "", nil
	}

	s.session.ShowStatus(session.StatusInfo, "Transcribing...")
	text, err := s.backend.Transcribe(ctx, "recording.webm", audio)
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		if errors.Is(err, api.ErrNetwork) {
			s.metrics.IncrementNetworkErrors()
		}
		s.log.Error().Err(err).Msg("Ошибка распознавания речи")
		s.session.ShowStatus(session.StatusError, ErrorMessage(err))
		return "", err
	}
	s.session.HideStatus()
	s.metrics.IncrementTranscriptions()

	if text != "" {
		s.appendToField(target, text)
		s.page.Notify(view.NotifySuccess, "Voice input added!")
	}
	return text, nil
}

// ToggleRealtime запускает распознавание в реальном времени или останавливает его и дописывает накопленный текст
func (s *Service) ToggleRealtime(ctx context.Context, recognizer session.Recognizer, target Field) (string, error) {
	if !s.session.IsRealtimeTranscribing() {
		return "", s.session.StartRealtime(ctx, recognizer)
	}

	text, err := s.session.StopRealtime()
	if text != "" {
		s.metrics.IncrementTranscriptions()
		s.appendToField(target, text)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Ошибка остановки распознавания")
	}
	return text, err
}

// Speak синтезирует речь и воспроизводит ее, останавливая предыдущее воспроизведение
func (s *Service) Speak(ctx context.Context, text string, player session.Player) error {
	if !s.VoiceAvailability().Speech {
		s.page.Notify(view.NotifyError, "Text-to-speech is not available.")
		return ErrVoiceOff
	}

	audio, err := s.backend.TextToSpeech(ctx, text, s.opts.Voice)
	if errors.Is(err, api.ErrEmptyText) {
		s.page.Notify(view.NotifyError, "No text to speak.")
		return err
	}
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		if errors.Is(err, api.ErrNetwork) {
			s.metrics.IncrementNetworkErrors()
		}
		s.log.Error().Err(err).Msg("Ошибка синтеза речи")
		s.page.Notify(view.NotifyError, ErrorMessage(err))
		return err
	}
	s.metrics.IncrementSpeechSynthesized()

	return s.session.StartPlayback(ctx, player, audio)
}

// StopSpeaking останавливает воспроизведение
func (s *Service) StopSpeaking() error {
	return s.session.StopPlayback()
}

// CheckVoiceStatus спрашивает бэкенд о доступности голосовых функций.
// Если бэкенд не ответил, обе функции отключаются.
func (s *Service) CheckVoiceStatus(ctx context.Context) (VoiceAvailability, error) {
	status, err := s.backend.VoiceStatus(ctx)
	s.metrics.IncrementAPICall(err == nil)

	avail := VoiceAvailability{}
	if err == nil {
		avail.Transcription = status.WhisperAvailable
		avail.Speech = status.TTSAvailable
		if status.Error != "" {
			s.log.Warn().Str("error", status.Error).Msg("Бэкенд сообщил о проблеме с голосом")
		}
	} else {
		s.log.Warn().Err(err).Msg("Статус голосовых функций недоступен")
	}

	s.voiceMu.Lock()
	s.voice = avail
	s.voiceMu.Unlock()

	return avail, err
}

// VoiceAvailability возвращает последний известный статус голосовых функций
func (s *Service) VoiceAvailability() VoiceAvailability {
	s.voiceMu.RLock()
	defer s.voiceMu.RUnlock()
	return s.voice
}

func (s *Service) appendToField(target Field, text string) {
	get, set := s.page.JobDescription, s.page.SetJobDescription
	if target == FieldCV {
		get, set = s.page.CVText, s.page.SetCVText
	}

	current := get()
	if current != "" && !strings.HasSuffix(current, " ") && !strings.HasSuffix(current, "\n") {
		current += " "
	}
	set(current + text)
}
