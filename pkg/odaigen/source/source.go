// Package source contains the adapters that feed the pipeline: each
// one reads a single external origin and produces either theme
// candidates or canonical dictionary candidates, never both. Adapters
// only read; all writes happen in the persistence layer.
package source

import (
	"context"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/model"
)

// Capability declares which of the two operations an adapter
// implements. The pipeline checks this tag explicitly instead of
// probing for methods.
type Capability int

const (
	CapNone Capability = iota
	CapThemes
	CapEntities
)

// Adapter is the common surface of every source.
type Adapter interface {
	Name() string
	Capability() Capability
}

// ThemeProducer is implemented by adapters tagged CapThemes.
type ThemeProducer interface {
	Adapter
	FetchThemes(ctx context.Context) ([]model.Theme, error)
}

// EntityProducer is implemented by adapters tagged CapEntities.
type EntityProducer interface {
	Adapter
	FetchEntities(ctx context.Context) ([]model.Entity, error)
}
