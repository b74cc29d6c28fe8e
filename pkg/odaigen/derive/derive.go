// Package derive synthesizes quiz themes from the canonical dictionary
// along four independent grouping axes: region, subregion, terrain and
// initial letter (exact character and kana row).
package derive

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/kana"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/model"
)

// Engine derives themes from a merged dictionary. Answer lists are
// collated with the Japanese locale so run output is stable and reads
// naturally in the quiz UI.
type Engine struct {
	log        *zap.Logger
	minAnswers int
	collator   *collate.Collator
}

// New creates an engine that discards groups with fewer than minAnswers
// distinct answers.
func New(log *zap.Logger, minAnswers int) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		log:        log,
		minAnswers: minAnswers,
		collator:   collate.New(language.Japanese),
	}
}

// Derive produces every theme the dictionary supports, sorted by
// identifier. Only entities whose membership flag is present and true
// participate; an absent flag excludes the entity from every axis
// rather than assuming membership.
func (e *Engine) Derive(dict model.Dictionary) []model.Theme {
	var eligible []model.Entity
	for _, ent := range dict.Entities {
		if ent.Member != nil && *ent.Member {
			eligible = append(eligible, ent)
		}
	}

	var themes []model.Theme
	themes = append(themes, e.regionAxis(eligible)...)
	themes = append(themes, e.subregionAxis(eligible)...)
	themes = append(themes, e.terrainAxis(eligible)...)
	themes = append(themes, e.initialAxes(eligible)...)

	sort.Slice(themes, func(i, j int) bool { return themes[i].ID < themes[j].ID })
	return themes
}

func (e *Engine) regionAxis(entities []model.Entity) []model.Theme {
	groups := make(map[string][]string)
	for _, ent := range entities {
		if ent.Region == "" {
			continue
		}
		groups[ent.Region] = append(groups[ent.Region], ent.DisplayLabel())
	}

	var themes []model.Theme
	for _, region := range sortedKeys(groups) {
		answers, ok := e.finishGroup("region_"+Slug(region), groups[region])
		if !ok {
			continue
		}
		themes = append(themes, model.Theme{
			ID:            "region_" + Slug(region),
			Title:         localizeRegion(region) + "の国",
			CategoryID:    "region",
			CategoryTitle: "地域",
			Answers:       answers,
		})
	}
	return themes
}

func (e *Engine) subregionAxis(entities []model.Entity) []model.Theme {
	groups := make(map[string][]string)
	for _, ent := range entities {
		if ent.Subregion == "" {
			continue
		}
		groups[ent.Subregion] = append(groups[ent.Subregion], ent.DisplayLabel())
	}

	var themes []model.Theme
	for _, sub := range sortedKeys(groups) {
		answers, ok := e.finishGroup("subregion_"+Slug(sub), groups[sub])
		if !ok {
			continue
		}
		themes = append(themes, model.Theme{
			ID:            "subregion_" + Slug(sub),
			Title:         localizeSubregion(sub) + "の国",
			CategoryID:    "subregion",
			CategoryTitle: "地域（詳細）",
			Answers:       answers,
		})
	}
	return themes
}

// terrainAxis builds exactly two groups from the landlocked flag.
// Entities with an unknown flag belong to neither group; unknown is not
// the same as false.
func (e *Engine) terrainAxis(entities []model.Entity) []model.Theme {
	var landlocked, coastal []string
	for _, ent := range entities {
		if ent.Landlocked == nil {
			continue
		}
		if *ent.Landlocked {
			landlocked = append(landlocked, ent.DisplayLabel())
		} else {
			coastal = append(coastal, ent.DisplayLabel())
		}
	}

	var themes []model.Theme
	if answers, ok := e.finishGroup("terrain_landlocked", landlocked); ok {
		themes = append(themes, model.Theme{
			ID:            "terrain_landlocked",
			Title:         "内陸国",
			CategoryID:    "terrain",
			CategoryTitle: "地形",
			Answers:       answers,
		})
	}
	if answers, ok := e.finishGroup("terrain_coastal", coastal); ok {
		themes = append(themes, model.Theme{
			ID:            "terrain_coastal",
			Title:         "海に面している国",
			CategoryID:    "terrain",
			CategoryTitle: "地形",
			Answers:       answers,
		})
	}
	return themes
}

// initialAxes groups by the display label's initial character, both by
// the exact character and by its kana row.
func (e *Engine) initialAxes(entities []model.Entity) []model.Theme {
	byInitial := make(map[string][]string)
	byRow := make(map[string][]string)
	for _, ent := range entities {
		label := ent.DisplayLabel()
		initial := kana.Initial(label)
		if initial == "" {
			continue
		}
		byInitial[initial] = append(byInitial[initial], label)
		if row := kana.Row(firstRune(initial)); row != "" {
			byRow[row] = append(byRow[row], label)
		}
	}

	var themes []model.Theme
	for _, initial := range sortedKeys(byInitial) {
		id := "initial_" + initialSlug(initial)
		answers, ok := e.finishGroup(id, byInitial[initial])
		if !ok {
			continue
		}
		themes = append(themes, model.Theme{
			ID:            id,
			Title:         fmt.Sprintf("「%s」から始まる国", initial),
			CategoryID:    "initial",
			CategoryTitle: "頭文字",
			Answers:       answers,
		})
	}
	for _, row := range sortedKeys(byRow) {
		id := "row_" + row
		answers, ok := e.finishGroup(id, byRow[row])
		if !ok {
			continue
		}
		themes = append(themes, model.Theme{
			ID:            id,
			Title:         fmt.Sprintf("「%s」から始まる国", kana.RowTitle(row)),
			CategoryID:    "row",
			CategoryTitle: "五十音",
			Answers:       answers,
		})
	}
	return themes
}

// finishGroup deduplicates and collates a group's answers and applies
// the size threshold. Too-small groups are suppressed with a note; that
// is a design threshold, not a validation failure.
func (e *Engine) finishGroup(id string, raw []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(raw))
	answers := make([]string, 0, len(raw))
	for _, a := range raw {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		answers = append(answers, a)
	}
	if len(answers) < len(raw) {
		e.log.Info("distinct display labels collided within a group",
			zap.String("theme", id), zap.Int("merged", len(raw)-len(answers)))
	}
	if len(answers) < e.minAnswers {
		e.log.Info("group below answer threshold, suppressed",
			zap.String("theme", id), zap.Int("answers", len(answers)))
		return nil, false
	}
	e.collator.SortStrings(answers)
	return answers, true
}

// Slug folds a grouping key into an identifier-safe token: lower-cased,
// with every run of non-alphanumeric characters collapsed to a single
// underscore.
func Slug(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// initialSlug produces a collision-free identifier token for any
// initial character: the lower-cased letter itself for ASCII, otherwise
// the character's code point as fixed-width hex (x30a2 for ア), which
// stays filesystem- and identifier-safe in every script.
func initialSlug(initial string) string {
	r := firstRune(initial)
	if r >= 'A' && r <= 'Z' {
		r = unicode.ToLower(r)
	}
	if r >= 'a' && r <= 'z' {
		return string(r)
	}
	return fmt.Sprintf("x%04x", r)
}

// localizeRegion maps the fixed set of known region names to their
// Japanese labels. Unknown names render unchanged rather than guessed.
var regionLabels = map[string]string{
	"Africa":    "アフリカ",
	"Americas":  "アメリカ大陸",
	"Antarctic": "南極",
	"Asia":      "アジア",
	"Europe":    "ヨーロッパ",
	"Oceania":   "オセアニア",
}

var subregionLabels = map[string]string{
	"Northern Africa":           "北アフリカ",
	"Sub-Saharan Africa":        "サブサハラアフリカ",
	"Caribbean":                 "カリブ海地域",
	"Central America":           "中央アメリカ",
	"North America":             "北アメリカ",
	"South America":             "南アメリカ",
	"Central Asia":              "中央アジア",
	"Eastern Asia":              "東アジア",
	"South-Eastern Asia":        "東南アジア",
	"Southern Asia":             "南アジア",
	"Western Asia":              "西アジア",
	"Eastern Europe":            "東ヨーロッパ",
	"Northern Europe":           "北ヨーロッパ",
	"Southern Europe":           "南ヨーロッパ",
	"Western Europe":            "西ヨーロッパ",
	"Australia and New Zealand": "オーストラリアとニュージーランド",
	"Melanesia":                 "メラネシア",
	"Micronesia":                "ミクロネシア",
	"Polynesia":                 "ポリネシア",
}

func localizeRegion(name string) string {
	if label, ok := regionLabels[name]; ok {
		return label
	}
	return name
}

func localizeSubregion(name string) string {
	if label, ok := subregionLabels[name]; ok {
		return label
	}
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
