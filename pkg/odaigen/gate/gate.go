// Package gate implements the validation rules applied to every theme
// and to the canonical dictionary before anything is written. A single
// Registry accumulates cross-record state (identifier namespace,
// category titles) and the run-level failure flag; validation never
// stops early so one pass surfaces every problem.
package gate

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// idPattern is the shape required of theme, category and dictionary
// identifiers: lowercase snake-case tokens.
var idPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// ValidID reports whether id is a well-formed identifier.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Registry tracks validation state across one generation run. It is an
// explicit accumulator passed through each validation step rather than
// package-level state, so runs stay re-entrant and testable.
type Registry struct {
	log        *zap.Logger
	ids        map[string]string // identifier → owner, combined theme+dictionary namespace
	categories map[string]string // category id → title seen first
	failed     bool
}

// NewRegistry creates an empty registry logging through log.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:        log,
		ids:        make(map[string]string),
		categories: make(map[string]string),
	}
}

// Failed reports whether any violation was recorded. Once set, the
// pipeline must not write any artifact.
func (r *Registry) Failed() bool { return r.failed }

// Fail records a violation from outside the registry's own rules, such
// as a duplicate entity code during ingestion or a source exposing no
// capability.
func (r *Registry) Fail(msg string, fields ...zap.Field) {
	r.failed = true
	r.log.Error(msg, fields...)
}

// RegisterID validates id's shape and claims it in the combined
// namespace shared by themes and the canonical dictionary. A theme must
// not shadow the dictionary identifier or vice versa.
func (r *Registry) RegisterID(id, owner string) {
	if !ValidID(id) {
		r.Fail("malformed identifier",
			zap.String("id", id), zap.String("owner", owner))
		return
	}
	if prev, ok := r.ids[id]; ok {
		r.Fail("identifier already registered",
			zap.String("id", id), zap.String("owner", owner), zap.String("first_owner", prev))
		return
	}
	r.ids[id] = owner
}

// RegisterCategory validates a category identifier and enforces one
// title per identifier across the whole run. A second, differently
// spelled title is an inconsistency, never silently reconciled.
func (r *Registry) RegisterCategory(id, title, owner string) {
	if !ValidID(id) {
		r.Fail("malformed category identifier",
			zap.String("category", id), zap.String("owner", owner))
		return
	}
	if prev, ok := r.categories[id]; ok {
		if prev != title {
			r.Fail("conflicting category title",
				zap.String("category", id),
				zap.String("title", title),
				zap.String("first_title", prev),
				zap.String("owner", owner))
		}
		return
	}
	r.categories[id] = title
}

// CleanAnswers trims every answer, drops blanks and duplicates while
// preserving order, and returns the survivors. An empty result is a
// violation: a theme with nothing to answer is unusable.
func (r *Registry) CleanAnswers(owner string, answers []string) []string {
	seen := make(map[string]struct{}, len(answers))
	cleaned := make([]string, 0, len(answers))
	for _, a := range answers {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		cleaned = append(cleaned, a)
	}
	if len(cleaned) == 0 {
		r.Fail("no answers survived cleaning", zap.String("owner", owner))
	}
	if dropped := len(answers) - len(cleaned); dropped > 0 {
		r.log.Info("answers dropped during cleaning",
			zap.String("owner", owner), zap.Int("dropped", dropped))
	}
	return cleaned
}
