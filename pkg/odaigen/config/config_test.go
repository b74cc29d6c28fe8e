package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/internalerr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "odaigen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
output:
  themes_dir: out/themes
  datasets_dir: out/datasets
sources:
  - name: bundled
    type: fixture
    path: data/themes.yaml
`))
	require.NoError(t, err)
	require.Equal(t, DefaultMinAnswers, cfg.MinAnswers)
	require.Equal(t, DefaultFetchTimeout, cfg.Timeout())
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
output:
  themes_dir: out/themes
  datasets_dir: out/datasets
min_answers: 5
fetch_timeout_seconds: 10
sources:
  - name: bundled
    type: fixture
    path: data/themes.yaml
  - name: locale
    type: localedb
    path: data/locale.db
  - name: world
    type: directory
    url: https://example.com/countries.json
`))
	require.NoError(t, err)
	require.Equal(t, 5, cfg.MinAnswers)
	require.Equal(t, 10*time.Second, cfg.Timeout())
	require.Len(t, cfg.Sources, 3)
}

func TestValidateRejections(t *testing.T) {
	cases := map[string]string{
		"missing output": `
sources:
  - {name: a, type: fixture, path: p}
`,
		"shared output location": `
output: {themes_dir: out, datasets_dir: out}
sources:
  - {name: a, type: fixture, path: p}
`,
		"no sources": `
output: {themes_dir: out/a, datasets_dir: out/b}
`,
		"unknown source type": `
output: {themes_dir: out/a, datasets_dir: out/b}
sources:
  - {name: a, type: carrier_pigeon}
`,
		"directory without url": `
output: {themes_dir: out/a, datasets_dir: out/b}
sources:
  - {name: a, type: directory}
`,
		"fixture without path": `
output: {themes_dir: out/a, datasets_dir: out/b}
sources:
  - {name: a, type: fixture}
`,
	}
	for name, body := range cases {
		_, err := Load(writeConfig(t, body))
		require.Error(t, err, name)
		require.True(t, errors.Is(err, internalerr.ErrInvalidConfig), name)
	}
}
