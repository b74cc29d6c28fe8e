package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureYAML = `themes:
  - id: membership_asean
    title: ASEANに加盟している国
    category: membership
    category_title: 国際組織
    answers:
      - タイ
      - ベトナム
  - id: membership_g20
    title: G20に参加している国
    category: membership
    category_title: 国際組織
    answers:
      - 日本
`

func TestFixtureFetchThemes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0644))

	f := NewFixture("bundled", path)
	require.Equal(t, CapThemes, f.Capability())

	themes, err := f.FetchThemes(context.Background())
	require.NoError(t, err)
	require.Len(t, themes, 2)
	require.Equal(t, "membership_asean", themes[0].ID, "author order is preserved")
	require.Equal(t, "国際組織", themes[0].CategoryTitle)
	require.Equal(t, []string{"タイ", "ベトナム"}, themes[0].Answers)
}

func TestFixtureMissingFile(t *testing.T) {
	f := NewFixture("bundled", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := f.FetchThemes(context.Background())
	require.Error(t, err)
}

func TestFixtureMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("themes: {"), 0644))

	f := NewFixture("bundled", path)
	_, err := f.FetchThemes(context.Background())
	require.Error(t, err)
}
