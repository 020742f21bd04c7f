package storage

import "assistant-client/internal/formatter"

// RenderedResult представляет отрисованный ответ бэкенда
type RenderedResult struct {
	ID        string                       `json:"id"`
	Timestamp string                       `json:"timestamp"`
	Mode      string                       `json:"mode"`
	Raw       string                       `json:"raw"`
	HTML      string                       `json:"html"`
	Summary   *formatter.StructuredSummary `json:"summary,omitempty"`
	ExcelFile string                       `json:"excel_file,omitempty"`
}
