// Package ingest merges canonical-candidate batches from the source
// adapters into the single country dictionary, validating and
// normalizing each record on the way in.
package ingest

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/gate"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/internalerr"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/model"
)

// DictionaryID is the identifier of the canonical dictionary artifact.
// It lives in the same namespace as theme identifiers.
const DictionaryID = "countries"

// codePattern is the fixed-width entity key shape.
var codePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// Merger accumulates candidate records keyed by code. A second record
// for a code already seen is a fatal duplicate; incomplete upstream
// records are skipped with a note, which is common and not a failure.
type Merger struct {
	log     *zap.Logger
	reg     *gate.Registry
	byCode  map[string]model.Entity
	skipped int
}

// NewMerger creates an empty merger reporting violations to reg.
func NewMerger(log *zap.Logger, reg *gate.Registry) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{
		log:    log,
		reg:    reg,
		byCode: make(map[string]model.Entity),
	}
}

// Add merges one source's batch. Records are normalized once here and
// frozen afterwards; optional attributes pass through verbatim with
// absence preserved as nil, never defaulted.
func (m *Merger) Add(sourceName string, batch []model.Entity) {
	for _, e := range batch {
		if !codePattern.MatchString(e.Code) {
			m.reg.Fail("malformed entity code",
				zap.String("code", e.Code), zap.String("source", sourceName),
				zap.Error(internalerr.ErrInvalidInput))
			continue
		}

		e.Label = strings.TrimSpace(e.Label)
		if e.Label == "" {
			m.skipped++
			m.log.Info("skipping record without a display name",
				zap.String("code", e.Code), zap.String("source", sourceName))
			continue
		}
		if e.LabelJA != nil {
			ja := strings.TrimSpace(*e.LabelJA)
			if ja == "" {
				e.LabelJA = nil
			} else {
				e.LabelJA = &ja
			}
		}

		if _, ok := m.byCode[e.Code]; ok {
			m.reg.Fail("duplicate entity code",
				zap.String("code", e.Code), zap.String("source", sourceName),
				zap.Error(internalerr.ErrDuplicate))
			continue
		}
		m.byCode[e.Code] = e
	}
}

// Dictionary returns the merged dictionary, entities sorted by code
// ascending for deterministic byte order, tagged with the schema
// version.
func (m *Merger) Dictionary() model.Dictionary {
	entities := make([]model.Entity, 0, len(m.byCode))
	for _, e := range m.byCode {
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].Code < entities[j].Code })

	return model.Dictionary{
		ID:       DictionaryID,
		Schema:   model.SchemaVersion,
		Entities: entities,
	}
}

// LogSummary emits the operator summary: how many records merged and
// how many carry a localized name.
func (m *Merger) LogSummary() {
	localized := 0
	for _, e := range m.byCode {
		if e.LabelJA != nil {
			localized++
		}
	}
	m.log.Info("canonical dictionary merged",
		zap.Int("entities", len(m.byCode)),
		zap.Int("localized", localized),
		zap.Int("skipped", m.skipped))
}
