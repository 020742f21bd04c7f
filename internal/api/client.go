package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const defaultErrorMessage = "An error occurred"

// ErrEmptyText возвращается при попытке озвучить пустой текст
var ErrEmptyText = errors.New("no text provided for speech")

// Client - HTTP клиент бэкенда ассистента
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient создает клиент бэкенда
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetCV загружает CV с бэкенда (GET /api/cv)
func (c *Client) GetCV(ctx context.Context) (json.RawMessage, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/cv", nil, "")
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, backendError(status, body, "CV is not available")
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: CV не является корректным JSON", ErrNetwork)
	}

	return json.RawMessage(body), nil
}

// Interview запрашивает подготовку к интервью (POST /api/interview)
func (c *Client) Interview(ctx context.Context, cvText, jobDescription string) (*InterviewResponse, error) {
	jsonBody, err := json.Marshal(InterviewRequest{
		CVText:         cvText,
		JobDescription: jobDescription,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/interview", bytes.NewReader(jsonBody), "application/json")
	if err != nil {
		return nil, err
	}

	var resp InterviewResponse
	if err := decode(status, body, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &BackendError{StatusCode: status, Message: messageOrDefault(resp.Error)}
	}

	return &resp, nil
}

// Summarize отправляет PDF на саммаризацию (POST /api/summarize, поле pdfFile)
func (c *Client) Summarize(ctx context.Context, filename string, pdf io.Reader) (*SummarizeResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreatePart(filePartHeader("pdfFile", filename, "application/pdf"))
	if err != nil {
		return nil, fmt.Errorf("error creating multipart: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return nil, fmt.Errorf("error reading pdf: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/summarize", &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var resp SummarizeResponse
	if err := decode(status, body, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &BackendError{StatusCode: status, Message: messageOrDefault(resp.Error)}
	}

	return &resp, nil
}

// Download скачивает сгенерированный файл (GET /api/download/:filename)
func (c *Client) Download(ctx context.Context, filename string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/download/"+url.PathEscape(filename), nil)
	if err != nil {
		return 0, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: error making request: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, backendError(resp.StatusCode, body, "File not found")
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: error reading file: %w", ErrNetwork, err)
	}
	return n, nil
}

// Transcribe отправляет запись на распознавание (POST /api/transcribe, поле audio)
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if filename == "" {
		filename = "recording.webm"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreatePart(filePartHeader("audio", filename, "audio/webm"))
	if err != nil {
		return "", fmt.Errorf("error creating multipart: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("error writing audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("error closing multipart: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/transcribe", &buf, writer.FormDataContentType())
	if err != nil {
		return "", err
	}

	var resp TranscribeResponse
	if err := decode(status, body, &resp); err != nil {
		return "", err
	}

	if !resp.Success {
		return "", &BackendError{StatusCode: status, Message: messageOrDefault(resp.Error)}
	}

	return strings.TrimSpace(resp.Text), nil
}

// VoiceStatus проверяет доступность распознавания и синтеза речи (GET /api/voice-status)
func (c *Client) VoiceStatus(ctx context.Context) (*VoiceStatus, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/voice-status", nil, "")
	if err != nil {
		return nil, err
	}

	var resp VoiceStatus
	if err := decode(status, body, &resp); err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, &BackendError{StatusCode: status, Message: messageOrDefault(resp.Error)}
	}

	return &resp, nil
}

// TextToSpeech синтезирует речь (POST /api/text-to-speech) и возвращает mp3.
// Текст длиннее MaxSpeechText символов обрезается.
func (c *Client) TextToSpeech(ctx context.Context, text, voice string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if voice == "" {
		voice = DefaultVoice
	}

	jsonBody, err := json.Marshal(TextToSpeechRequest{
		Text:  TruncateSpeech(text),
		Voice: voice,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/text-to-speech", bytes.NewReader(jsonBody), "application/json")
	if err != nil {
		return nil, err
	}

	var resp TextToSpeechResponse
	if err := decode(status, body, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, &BackendError{StatusCode: status, Message: messageOrDefault(resp.Error)}
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioData)
	if err != nil {
		return nil, fmt.Errorf("error decoding audio: %w", err)
	}

	return audio, nil
}

// Health проверяет, что бэкенд запущен (GET /api/health)
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/health", nil, "")
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, backendError(status, body, "Backend is unhealthy")
	}

	var resp HealthResponse
	if err := decode(status, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TruncateSpeech обрезает текст до лимита синтеза речи
func TruncateSpeech(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxSpeechText {
		return text
	}
	return string(runes[:MaxSpeechText]) + "..."
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: error making request: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: error reading response: %w", ErrNetwork, err)
	}

	return resp.StatusCode, data, nil
}

// decode разбирает JSON ответ; нераспознаваемое тело при ошибочном статусе - ошибка бэкенда
func decode(status int, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		if status != http.StatusOK {
			return backendError(status, body, defaultErrorMessage)
		}
		return fmt.Errorf("%w: error unmarshaling response: %w", ErrNetwork, err)
	}
	return nil
}

func backendError(status int, body []byte, fallback string) *BackendError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &BackendError{StatusCode: status, Message: payload.Error}
	}
	return &BackendError{StatusCode: status, Message: fallback}
}

func messageOrDefault(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return defaultErrorMessage
	}
	return msg
}

func filePartHeader(field, filename, contentType string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	return h
}
