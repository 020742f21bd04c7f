// Package output печатает уведомления, таблицы конспектов и результаты в терминал
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"assistant-client/internal/view"
)

// Printer печатает сообщения с цветом или с текстовыми метками
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter создает принтер для stdout/stderr
func NewPrinter(useColors bool) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, useColors)
}

// NewPrinterWithWriters создает принтер с заданными потоками
func NewPrinterWithWriters(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// ResolveColors учитывает NO_COLOR и TERM=dumb
func ResolveColors(configColors bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return configColors
}

// Out возвращает поток вывода
func (p *Printer) Out() io.Writer {
	return p.out
}

// Info печатает информационное сообщение
func (p *Printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[INFO] "+format+"\n", args...)
	}
}

// Success печатает сообщение об успехе
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
	}
}

// Warning печатает предупреждение в stderr
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
	}
}

// Error печатает ошибку в stderr
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
	}
}

// Print печатает строку без оформления
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header печатает заголовок секции
func (p *Printer) Header(title string) {
	line := make([]rune, len([]rune(title)))
	for i := range line {
		line[i] = '-'
	}
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		fmt.Fprintf(p.out, "%s\n", string(line))
	} else {
		fmt.Fprintf(p.out, "\n%s\n%s\n", title, string(line))
	}
}

// Notify печатает уведомление страницы
func (p *Printer) Notify(n view.Notification) {
	switch n.Type {
	case view.NotifySuccess:
		p.Success("%s", n.Message)
	case view.NotifyError:
		p.Error("%s", n.Message)
	default:
		p.Info("%s", n.Message)
	}
}
