package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
owner: Sam
interview:
  default_job_description: Data engineer
reading:
  relevance_placeholder: Relevant to Sam
  interests: [pipelines]
sample_cv: '{"name": "Sam"}'
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Sam", cfg.Owner)
	assert.Equal(t, "Data engineer", cfg.GetDefaultJobDescription())
	assert.Equal(t, []string{"pipelines"}, cfg.Reading.Interests)
	assert.Equal(t, "Relevant to Sam", cfg.FormatterOptions().RelevancePlaceholder)
	assert.Empty(t, cfg.FormatterOptions().ConceptsPlaceholder)
}

func TestFormatterOptions_RelevanceFromInterests(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "explicit placeholder wins",
			cfg:  Config{Owner: "Sam", Reading: ReadingConfig{RelevancePlaceholder: "Ties to my work", Interests: []string{"pipelines"}}},
			want: "Ties to my work",
		},
		{
			name: "single interest",
			cfg:  Config{Owner: "Sam", Reading: ReadingConfig{Interests: []string{"pipelines"}}},
			want: "Relevant to Sam's interests in pipelines",
		},
		{
			name: "first two interests",
			cfg:  Config{Owner: "Livia", Reading: ReadingConfig{Interests: []string{"AI in education", "learning design", "K-12"}}},
			want: "Relevant to Livia's interests in AI in education and learning design",
		},
		{
			name: "no interests keeps formatter default",
			cfg:  Config{Owner: "Sam"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.FormatterOptions().RelevancePlaceholder)
		})
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "assistant.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "Livia", cfg.Owner)
	assert.NotEmpty(t, cfg.GetSampleCV())
}

func TestLoad_InvalidSampleCV(t *testing.T) {
	path := writeFile(t, "sample_cv: 'not json'\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SampleCV")
}

func TestLoad_BrokenYAML(t *testing.T) {
	path := writeFile(t, "owner: [unclosed\n")

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadAppConfig(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:9000")
	t.Setenv("BACKEND_TIMEOUT", "30s")
	t.Setenv("TTS_VOICE", "onyx")
	t.Setenv("SAVE_RESULTS", "true")

	cfg := LoadAppConfig()

	assert.Equal(t, "http://backend:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "onyx", cfg.Voice.Voice)
	assert.True(t, cfg.Output.Save)
	assert.NoError(t, cfg.Validate())
}

func TestAppConfigValidate_UnknownVoice(t *testing.T) {
	t.Setenv("TTS_VOICE", "robot")

	err := LoadAppConfig().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Voice")
}
