package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	filePrefix = "result_"
	htmlPage   = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body><div id="resultText">%s</div></body>
</html>
`
)

// Store хранит результаты в директории на диске
type Store struct {
	dir string
}

// NewStore создает хранилище результатов
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir возвращает директорию хранилища
func (s *Store) Dir() string {
	return s.dir
}

// NewResult создает результат с новым ID и текущим временем
func NewResult(mode, raw, html string) *RenderedResult {
	return &RenderedResult{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Mode:      mode,
		Raw:       raw,
		HTML:      html,
	}
}

// SaveResult сохраняет результат в JSON файл и HTML страницу рядом с ним
func (s *Store) SaveResult(result *RenderedResult) (string, error) {
	if result.ID == "" {
		return "", errors.New("у результата нет ID")
	}

	// Создаем директорию если её нет
	err := os.MkdirAll(s.dir, 0755)
	if err != nil {
		return "", fmt.Errorf("ошибка создания директории %s: %w", s.dir, err)
	}

	// Сериализуем результат в JSON с отступами
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	jsonPath := filepath.Join(s.dir, filePrefix+result.ID+".json")
	err = os.WriteFile(jsonPath, jsonData, 0644)
	if err != nil {
		return "", fmt.Errorf("ошибка записи файла %s: %w", jsonPath, err)
	}

	htmlPath := filepath.Join(s.dir, filePrefix+result.ID+".html")
	page := fmt.Sprintf(htmlPage, result.Mode, result.HTML)
	err = os.WriteFile(htmlPath, []byte(page), 0644)
	if err != nil {
		return "", fmt.Errorf("ошибка записи файла %s: %w", htmlPath, err)
	}

	return htmlPath, nil
}

// LoadResult загружает результат из JSON файла
func (s *Store) LoadResult(id string) (*RenderedResult, error) {
	path := filepath.Join(s.dir, filePrefix+filepath.Base(id)+".json")

	// Читаем файл
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	// Десериализуем JSON
	var result RenderedResult
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	return &result, nil
}

// ListResults возвращает ID всех сохраненных результатов
func (s *Store) ListResults() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", s.dir, err)
	}

	results := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		results = append(results, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ".json"))
	}

	sort.Strings(results)
	return results, nil
}
