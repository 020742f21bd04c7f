package api

import (
	"errors"
	"fmt"

	"assistant-client/internal/formatter"
)

// ErrNetwork оборачивает все транспортные ошибки (нет соединения, таймаут, битый ответ)
var ErrNetwork = errors.New("network error")

// BackendError - ошибка, о которой сообщил сам бэкенд
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// InterviewRequest - тело POST /api/interview
type InterviewRequest struct {
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description"`
}

// InterviewResponse - ответ /api/interview
type InterviewResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
	Error   string `json:"error,omitempty"`
}

// SummarizeResponse - ответ /api/summarize
type SummarizeResponse struct {
	Success        bool                      `json:"success"`
	Result         string                    `json:"result,omitempty"`
	StructuredData *formatter.StructuredData `json:"structured_data,omitempty"`
	ExcelFile      string                    `json:"excel_file,omitempty"`
	Error          string                    `json:"error,omitempty"`
}

// TranscribeResponse - ответ /api/transcribe
type TranscribeResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}

// VoiceStatus - ответ /api/voice-status
type VoiceStatus struct {
	WhisperAvailable bool   `json:"whisper_available"`
	TTSAvailable     bool   `json:"tts_available"`
	Error            string `json:"error,omitempty"`
}

// TextToSpeechRequest - тело POST /api/text-to-speech
type TextToSpeechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// TextToSpeechResponse - ответ /api/text-to-speech
type TextToSpeechResponse struct {
	Success   bool   `json:"success"`
	AudioData string `json:"audio_data"`
	Error     string `json:"error,omitempty"`
}

// HealthResponse - ответ /api/health
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Голоса синтеза речи
var Voices = map[string]string{
	"nova":    "Female, warm and friendly",
	"alloy":   "Neutral, clear and professional",
	"echo":    "Male, warm and expressive",
	"fable":   "Male, deep and authoritative",
	"onyx":    "Male, deep and smooth",
	"shimmer": "Female, soft and gentle",
}

const (
	DefaultVoice  = "nova"
	MaxSpeechText = 4000
)
