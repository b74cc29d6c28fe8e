package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/model"
)

// LocaleDB reads canonical dictionary candidates from the locale-data
// table, a sqlite database of per-country display names and facts.
// SQL NULLs arrive as absent markers, never as zero values.
type LocaleDB struct {
	name string
	path string
}

// NewLocaleDB creates a locale-table adapter reading the database at
// path.
func NewLocaleDB(name, path string) *LocaleDB {
	return &LocaleDB{name: name, path: path}
}

func (l *LocaleDB) Name() string           { return l.name }
func (l *LocaleDB) Capability() Capability { return CapEntities }

// FetchEntities loads every row of the countries table in code order.
func (l *LocaleDB) FetchEntities(ctx context.Context) ([]model.Entity, error) {
	db, err := sql.Open("sqlite", l.path)
	if err != nil {
		return nil, fmt.Errorf("locale db %s: %w", l.name, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT code, label_en, label_ja, region, subregion, landlocked, un_member, capital
		FROM countries
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("locale db %s: query: %w", l.name, err)
	}
	defer rows.Close()

	var entities []model.Entity
	for rows.Next() {
		var (
			code, label                   string
			labelJA, region, sub, capital sql.NullString
			landlocked, member            sql.NullBool
		)
		if err := rows.Scan(&code, &label, &labelJA, &region, &sub, &landlocked, &member, &capital); err != nil {
			return nil, fmt.Errorf("locale db %s: scan: %w", l.name, err)
		}

		e := model.Entity{
			Code:   code,
			Label:  label,
			Region: region.String,
		}
		e.Subregion = sub.String
		if labelJA.Valid {
			e.LabelJA = model.String(labelJA.String)
		}
		if landlocked.Valid {
			e.Landlocked = model.Bool(landlocked.Bool)
		}
		if member.Valid {
			e.Member = model.Bool(member.Bool)
		}
		if capital.Valid {
			e.Capital = model.String(capital.String)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("locale db %s: rows: %w", l.name, err)
	}
	return entities, nil
}

// Seed creates the countries table in the database at path by executing
// the given SQL script. Used by the seed command to turn the checked-in
// data/locale.sql into the binary database adapters read.
func Seed(ctx context.Context, path, script string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("seed locale db: %w", err)
	}
	return nil
}
