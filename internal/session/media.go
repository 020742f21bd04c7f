package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FileCapture отдает содержимое заранее записанного файла как запись с микрофона
type FileCapture struct {
	Path string

	started bool
}

// Start проверяет, что файл доступен
func (c *FileCapture) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(c.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNoDevice, c.Path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, c.Path)
	case err != nil:
		return fmt.Errorf("ошибка доступа к %s: %w", c.Path, err)
	case info.IsDir():
		return fmt.Errorf("%w: %s является директорией", ErrNotSupported, c.Path)
	}

	c.started = true
	return nil
}

// Stop возвращает записанные данные; повторный вызов ничего не возвращает
func (c *FileCapture) Stop() ([]byte, error) {
	if !c.started {
		return nil, nil
	}
	c.started = false

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения записи %s: %w", c.Path, err)
	}
	return data, nil
}

// FilePlayer сохраняет синтезированную речь в файл вместо динамиков
type FilePlayer struct {
	Dir string

	mu       sync.Mutex
	lastPath string
}

// Play записывает звук в файл speech_<uuid>.mp3
func (p *FilePlayer) Play(ctx context.Context, audio []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(audio) == 0 {
		return errors.New("пустые аудиоданные")
	}

	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", p.Dir, err)
	}

	path := filepath.Join(p.Dir, fmt.Sprintf("speech_%s.mp3", uuid.New().String()))
	if err := os.WriteFile(path, audio, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	p.mu.Lock()
	p.lastPath = path
	p.mu.Unlock()
	return nil
}

// Stop для файлового плеера ничего не освобождает
func (p *FilePlayer) Stop() error {
	return nil
}

// LastPath возвращает путь последнего сохраненного файла
func (p *FilePlayer) LastPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPath
}

// LineRecognizer считает каждую прочитанную строку окончательным результатом распознавания
type LineRecognizer struct {
	Reader io.Reader

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start запускает чтение строк в отдельной горутине
func (r *LineRecognizer) Start(ctx context.Context, onResult func(text string, final bool)) error {
	if r.Reader == nil {
		return ErrNotSupported
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return ErrBusy
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.Reader)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	go func(done chan struct{}) {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					return
				}
				onResult(line, true)
			}
		}
	}(r.done)

	return nil
}

// Stop прекращает распознавание и ждет завершения обработчика
func (r *LineRecognizer) Stop() error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// Wait блокируется, пока источник строк не закончится или распознавание не остановят
func (r *LineRecognizer) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done != nil {
		<-done
	}
}
