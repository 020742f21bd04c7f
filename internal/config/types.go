package config

import (
	"fmt"
	"strings"

	"assistant-client/internal/formatter"
)

// Config представляет настройки ассистента из YAML файла
type Config struct {
	Owner     string          `yaml:"owner" validate:"required"`
	Interview InterviewConfig `yaml:"interview"`
	Reading   ReadingConfig   `yaml:"reading"`
	SampleCV  string          `yaml:"sample_cv" validate:"required,json"`
}

// InterviewConfig содержит настройки подготовки к интервью
type InterviewConfig struct {
	DefaultJobDescription string `yaml:"default_job_description" validate:"required"`
}

// ReadingConfig содержит тексты для таблицы саммари
type ReadingConfig struct {
	DefaultTitle         string   `yaml:"default_title"`
	ConceptsPlaceholder  string   `yaml:"concepts_placeholder"`
	RelevancePlaceholder string   `yaml:"relevance_placeholder"`
	Interests            []string `yaml:"interests" validate:"dive,required"`
}

const defaultJobDescription = "Researcher position focused on AI in education with emphasis on marginalized communities and learning design"

const defaultSampleCV = `{
  "name": "Livia Fares",
  "title": "AI Education Researcher",
  "education": "MIT Graduate Student",
  "experience": [
    "Research in AI applications for education",
    "Focus on marginalized communities",
    "Experience with learning design and EdTech"
  ],
  "skills": [
    "AI/ML",
    "Educational Technology",
    "Research Methods",
    "Data Analysis"
  ]
}`

// Default возвращает конфигурацию, если YAML файла нет
func Default() *Config {
	return &Config{
		Owner: "Livia",
		Interview: InterviewConfig{
			DefaultJobDescription: defaultJobDescription,
		},
		Reading: ReadingConfig{
			Interests: []string{
				"leveraging AI in education",
				"marginalized communities",
				"edtechs",
				"learning design",
				"career readiness",
				"K-12",
				"soft skill development",
			},
		},
		SampleCV: defaultSampleCV,
	}
}

// сколько интересов попадает в заглушку релевантности
const placeholderInterests = 2

// FormatterOptions переводит настройки чтения в опции форматтера.
// Без relevance_placeholder заглушка собирается из owner и первых интересов.
func (c *Config) FormatterOptions() formatter.Options {
	return formatter.Options{
		DefaultTitle:         c.Reading.DefaultTitle,
		ConceptsPlaceholder:  c.Reading.ConceptsPlaceholder,
		RelevancePlaceholder: c.relevancePlaceholder(),
	}
}

func (c *Config) relevancePlaceholder() string {
	if c.Reading.RelevancePlaceholder != "" || len(c.Reading.Interests) == 0 || c.Owner == "" {
		return c.Reading.RelevancePlaceholder
	}

	interests := c.Reading.Interests
	if len(interests) > placeholderInterests {
		interests = interests[:placeholderInterests]
	}
	return fmt.Sprintf("Relevant to %s's interests in %s", c.Owner, strings.Join(interests, " and "))
}

func (c *Config) GetDefaultJobDescription() string {
	return c.Interview.DefaultJobDescription
}

func (c *Config) GetSampleCV() string {
	return c.SampleCV
}
