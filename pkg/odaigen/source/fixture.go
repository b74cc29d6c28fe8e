package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/model"
)

// Fixture serves hand-authored themes from a bundled YAML file.
type Fixture struct {
	name string
	path string
}

// NewFixture creates a fixture adapter reading path.
func NewFixture(name, path string) *Fixture {
	return &Fixture{name: name, path: path}
}

func (f *Fixture) Name() string           { return f.name }
func (f *Fixture) Capability() Capability { return CapThemes }

type fixtureFile struct {
	Themes []fixtureTheme `yaml:"themes"`
}

type fixtureTheme struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Category      string   `yaml:"category"`
	CategoryTitle string   `yaml:"category_title"`
	Answers       []string `yaml:"answers"`
}

// FetchThemes loads and decodes the fixture file in author order.
func (f *Fixture) FetchThemes(ctx context.Context) ([]model.Theme, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.name, err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("fixture %s: parse: %w", f.name, err)
	}

	themes := make([]model.Theme, 0, len(file.Themes))
	for _, t := range file.Themes {
		themes = append(themes, model.Theme{
			ID:            t.ID,
			Title:         t.Title,
			CategoryID:    t.Category,
			CategoryTitle: t.CategoryTitle,
			Answers:       t.Answers,
		})
	}
	return themes, nil
}
