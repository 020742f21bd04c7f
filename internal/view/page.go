// Package view моделирует страницу ассистента: панель результата, индикатор загрузки,
// ссылку на скачивание и уведомления.
package view

import (
	"net/url"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// NotificationType - тип уведомления
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
)

// Notification - всплывающее уведомление
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
	At      time.Time        `json:"at"`
}

// Notifier получает уведомления сразу после появления
type Notifier interface {
	Notify(n Notification)
}

// Page - состояние страницы. Безопасна для конкурентного использования.
type Page struct {
	mu sync.Mutex

	policy   *bluemonday.Policy
	notifier Notifier

	resultsVisible bool
	loading        bool
	resultHTML     string
	downloadURL    string
	notifications  []Notification

	cvText         string
	jobDescription string
	pdfPath        string
}

// NewPage создает страницу; notifier может быть nil
func NewPage(notifier Notifier) *Page {
	return &Page{
		policy:   NewPolicy(),
		notifier: notifier,
	}
}

// NewPolicy разрешает только разметку, которую строит форматтер
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("div", "p", "br", "h1", "h2", "h3", "h4", "strong", "em", "ul", "li",
		"table", "thead", "tbody", "tr", "th", "td", "i", "span")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	return p
}

// ShowResults показывает панель результата
func (p *Page) ShowResults() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resultsVisible = true
}

// HideResults скрывает панель и очищает ее содержимое
func (p *Page) HideResults() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resultsVisible = false
	p.resultHTML = ""
	p.downloadURL = ""
}

// ShowLoading включает индикатор и очищает прошлый результат
func (p *Page) ShowLoading() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = true
	p.resultHTML = ""
	p.downloadURL = ""
}

// HideLoading выключает индикатор
func (p *Page) HideLoading() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
}

// SetResult вставляет разметку в панель результата после санитизации
func (p *Page) SetResult(html string) string {
	clean := p.policy.Sanitize(html)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.resultHTML = clean
	p.loading = false
	return clean
}

// ShowDownloadLink показывает ссылку на сгенерированный файл
func (p *Page) ShowDownloadLink(filename string) string {
	link := "/api/download/" + url.PathEscape(filename)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.downloadURL = link
	return link
}

// Notify добавляет уведомление
func (p *Page) Notify(kind NotificationType, message string) {
	n := Notification{Type: kind, Message: message, At: time.Now()}

	p.mu.Lock()
	p.notifications = append(p.notifications, n)
	notifier := p.notifier
	p.mu.Unlock()

	if notifier != nil {
		notifier.Notify(n)
	}
}

// Notifications возвращает копию уведомлений
func (p *Page) Notifications() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Notification, len(p.notifications))
	copy(out, p.notifications)
	return out
}

// LastNotification возвращает последнее уведомление
func (p *Page) LastNotification() (Notification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.notifications) == 0 {
		return Notification{}, false
	}
	return p.notifications[len(p.notifications)-1], true
}

// SetCVText заполняет поле CV
func (p *Page) SetCVText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cvText = text
}

// CVText возвращает содержимое поля CV
func (p *Page) CVText() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cvText
}

// SetJobDescription заполняет поле описания вакансии
func (p *Page) SetJobDescription(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobDescription = text
}

// JobDescription возвращает описание вакансии
func (p *Page) JobDescription() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jobDescription
}

// SetPDFPath запоминает выбранный PDF
func (p *Page) SetPDFPath(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pdfPath = path
}

// PDFPath возвращает выбранный PDF
func (p *Page) PDFPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pdfPath
}

// State - снимок страницы
type State struct {
	ResultsVisible bool   `json:"results_visible"`
	Loading        bool   `json:"loading"`
	ResultHTML     string `json:"result_html"`
	DownloadURL    string `json:"download_url,omitempty"`
}

// State возвращает снимок видимого состояния
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		ResultsVisible: p.resultsVisible,
		Loading:        p.loading,
		ResultHTML:     p.resultHTML,
		DownloadURL:    p.downloadURL,
	}
}
