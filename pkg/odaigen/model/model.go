// Package model defines the records flowing through the generation
// pipeline and the JSON artifact schema consumed by the quiz app.
package model

// SchemaVersion tags the canonical dictionary artifact. Bump only on
// incompatible schema changes; the app refuses unknown versions.
const SchemaVersion = "countries_v1"

// Entity is one canonical dictionary row: a country keyed by its
// two-letter uppercase code. Optional attributes use pointers so that
// "unknown" survives as JSON null instead of being coerced to a zero
// value and misclassifying the entity downstream.
type Entity struct {
	Code       string  `json:"id"`
	Label      string  `json:"label"`
	LabelJA    *string `json:"label_ja"`
	Region     string  `json:"region"`
	Subregion  string  `json:"subregion"`
	Landlocked *bool   `json:"trait"`
	Member     *bool   `json:"member"`
	Capital    *string `json:"capital"`
}

// DisplayLabel returns the Japanese label when known, falling back to
// the required English label.
func (e Entity) DisplayLabel() string {
	if e.LabelJA != nil && *e.LabelJA != "" {
		return *e.LabelJA
	}
	return e.Label
}

// Theme is one quiz-ready answer set with its display metadata.
type Theme struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	CategoryID    string   `json:"categoryId"`
	CategoryTitle string   `json:"categoryTitle"`
	Answers       []string `json:"answers"`
}

// Dictionary is the canonical dictionary artifact: the merged,
// validated source of truth for country facts, independent of any quiz.
type Dictionary struct {
	ID       string   `json:"id"`
	Schema   string   `json:"schema"`
	Entities []Entity `json:"entities"`
}

// Bool and String build pointer values for optional attributes.
// Mostly a convenience for adapters and tests.
func Bool(v bool) *bool { return &v }

func String(v string) *string { return &v }
