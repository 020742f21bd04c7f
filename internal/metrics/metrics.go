package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                  sync.RWMutex
	InterviewsRequested int64
	ReadingsSummarized  int64
	ResultsRendered     map[string]int64
	TranscriptionsTotal int64
	SpeechSynthesized   int64
	APICallsTotal       int64
	APICallsSuccessful  int64
	NetworkErrors       int64
	LastUpdateTime      time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		ResultsRendered: make(map[string]int64),
		LastUpdateTime:  time.Now(),
	}
}

func (m *Metrics) IncrementInterviewsRequested() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InterviewsRequested++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementReadingsSummarized() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadingsSummarized++
	m.LastUpdateTime = time.Now()
}

// IncrementResultsRendered считает отрисованные результаты по источнику (json, table, text, interview...)
func (m *Metrics) IncrementResultsRendered(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResultsRendered[source]++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementTranscriptions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranscriptionsTotal++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSpeechSynthesized() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SpeechSynthesized++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAPICall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICallsTotal++
	if success {
		m.APICallsSuccessful++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementNetworkErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NetworkErrors++
	m.LastUpdateTime = time.Now()
}

// Snapshot - копия счетчиков без мьютекса
type Snapshot struct {
	InterviewsRequested int64            `json:"interviews_requested"`
	ReadingsSummarized  int64            `json:"readings_summarized"`
	ResultsRendered     map[string]int64 `json:"results_rendered"`
	TranscriptionsTotal int64            `json:"transcriptions_total"`
	SpeechSynthesized   int64            `json:"speech_synthesized"`
	APICallsTotal       int64            `json:"api_calls_total"`
	APICallsSuccessful  int64            `json:"api_calls_successful"`
	NetworkErrors       int64            `json:"network_errors"`
	LastUpdateTime      time.Time        `json:"last_update_time"`
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rendered := make(map[string]int64, len(m.ResultsRendered))
	for k, v := range m.ResultsRendered {
		rendered[k] = v
	}

	return Snapshot{
		InterviewsRequested: m.InterviewsRequested,
		ReadingsSummarized:  m.ReadingsSummarized,
		ResultsRendered:     rendered,
		TranscriptionsTotal: m.TranscriptionsTotal,
		SpeechSynthesized:   m.SpeechSynthesized,
		APICallsTotal:       m.APICallsTotal,
		APICallsSuccessful:  m.APICallsSuccessful,
		NetworkErrors:       m.NetworkErrors,
		LastUpdateTime:      m.LastUpdateTime,
	}
}
