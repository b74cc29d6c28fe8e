package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const seedSQL = `
CREATE TABLE countries (
    code       TEXT PRIMARY KEY,
    label_en   TEXT NOT NULL,
    label_ja   TEXT,
    region     TEXT,
    subregion  TEXT,
    landlocked INTEGER,
    un_member  INTEGER,
    capital    TEXT
);
INSERT INTO countries VALUES
    ('JP', 'Japan', '日本', 'Asia', 'Eastern Asia', 0, 1, '東京'),
    ('CH', 'Switzerland', 'スイス', 'Europe', 'Western Europe', 1, 1, 'ベルン'),
    ('EH', 'Western Sahara', NULL, 'Africa', 'Northern Africa', 0, NULL, NULL);
`

func TestLocaleDBFetchEntities(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "locale.db")
	require.NoError(t, Seed(ctx, path, seedSQL))

	l := NewLocaleDB("locale", path)
	require.Equal(t, CapEntities, l.Capability())

	entities, err := l.FetchEntities(ctx)
	require.NoError(t, err)
	require.Len(t, entities, 3)

	// Rows come back in code order.
	require.Equal(t, "CH", entities[0].Code)
	require.Equal(t, "EH", entities[1].Code)
	require.Equal(t, "JP", entities[2].Code)

	ch := entities[0]
	require.Equal(t, "Switzerland", ch.Label)
	require.NotNil(t, ch.LabelJA)
	require.Equal(t, "スイス", *ch.LabelJA)
	require.NotNil(t, ch.Landlocked)
	require.True(t, *ch.Landlocked)
	require.NotNil(t, ch.Member)
	require.True(t, *ch.Member)

	// SQL NULLs become absent markers, not zero values.
	eh := entities[1]
	require.Nil(t, eh.LabelJA)
	require.Nil(t, eh.Member)
	require.Nil(t, eh.Capital)
	require.NotNil(t, eh.Landlocked)
	require.False(t, *eh.Landlocked)
}

func TestLocaleDBMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	require.NoError(t, Seed(context.Background(), path, "CREATE TABLE unrelated (x);"))

	l := NewLocaleDB("locale", path)
	_, err := l.FetchEntities(context.Background())
	require.Error(t, err)
}
