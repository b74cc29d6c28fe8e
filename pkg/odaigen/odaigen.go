// Package odaigen is the dataset-synthesis pipeline facade: it collects
// source output, merges the canonical country dictionary, derives quiz
// themes, runs every quality gate, and only then writes artifacts.
package odaigen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mitsuba-lab/odaigen/pkg/odaigen/artifact"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/config"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/derive"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/gate"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/ingest"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/internalerr"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/model"
	"github.com/mitsuba-lab/odaigen/pkg/odaigen/source"
)

// Pipeline runs one generation pass. It is single-threaded by design:
// sources are processed in config order and every output is emitted in
// sorted order, so two runs over the same inputs are byte-identical.
type Pipeline struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates a pipeline for the given configuration.
func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, log: log}
}

// Run validates everything and, only if no gate failed, writes the
// canonical dictionary and every theme artifact. Partial, inconsistent
// output is strictly worse than no output, so a set failure flag blocks
// every write and the previous artifacts stay on disk.
func (p *Pipeline) Run(ctx context.Context) error {
	adapters, err := p.buildAdapters()
	if err != nil {
		return err
	}
	return p.RunWith(ctx, adapters)
}

// RunWith runs the pipeline over an explicit adapter set instead of the
// configured sources.
func (p *Pipeline) RunWith(ctx context.Context, adapters []source.Adapter) error {
	dict, themes, err := p.collectAndValidate(ctx, adapters)
	if err != nil {
		return err
	}

	writer := artifact.NewWriter(p.log)
	report := &artifact.Report{}

	outcome, err := writer.WriteJSON(p.dictionaryPath(dict.ID), dict)
	if err != nil {
		return err
	}
	report.Add(outcome)

	written := make(map[string]struct{}, len(themes))
	for _, t := range themes {
		path := p.themePath(t.ID)
		outcome, err := writer.WriteJSON(path, t)
		if err != nil {
			return err
		}
		written[path] = struct{}{}
		report.Add(outcome)
	}

	p.reportStale(written)
	report.Log(p.log, writer.RunID())
	return nil
}

// Validate runs the full pipeline without writing anything.
func (p *Pipeline) Validate(ctx context.Context) error {
	adapters, err := p.buildAdapters()
	if err != nil {
		return err
	}
	_, _, err = p.collectAndValidate(ctx, adapters)
	return err
}

func (p *Pipeline) collectAndValidate(ctx context.Context, adapters []source.Adapter) (model.Dictionary, []model.Theme, error) {
	reg := gate.NewRegistry(p.log)
	merger := ingest.NewMerger(p.log, reg)
	var sourceThemes []model.Theme

	for _, src := range adapters {
		switch src.Capability() {
		case source.CapThemes:
			producer, ok := src.(source.ThemeProducer)
			if !ok {
				reg.Fail("source declares themes but cannot produce them",
					zap.String("source", src.Name()))
				continue
			}
			themes, err := producer.FetchThemes(ctx)
			if err != nil {
				reg.Fail("theme collection failed",
					zap.String("source", src.Name()), zap.Error(err))
				continue
			}
			sourceThemes = append(sourceThemes, themes...)
			p.log.Info("source collected",
				zap.String("source", src.Name()), zap.Int("themes", len(themes)))

		case source.CapEntities:
			producer, ok := src.(source.EntityProducer)
			if !ok {
				reg.Fail("source declares entities but cannot produce them",
					zap.String("source", src.Name()))
				continue
			}
			entities, err := producer.FetchEntities(ctx)
			if err != nil {
				reg.Fail("entity collection failed",
					zap.String("source", src.Name()), zap.Error(err))
				continue
			}
			merger.Add(src.Name(), entities)
			p.log.Info("source collected",
				zap.String("source", src.Name()), zap.Int("entities", len(entities)))

		default:
			reg.Fail("source exposes neither operation",
				zap.String("source", src.Name()),
				zap.Error(internalerr.ErrNoCapability))
		}
	}

	merger.LogSummary()
	dict := merger.Dictionary()
	reg.RegisterID(dict.ID, "canonical dictionary")

	engine := derive.New(p.log, p.cfg.MinAnswers)
	derived := engine.Derive(dict)

	all := make([]model.Theme, 0, len(sourceThemes)+len(derived))
	all = append(all, sourceThemes...)
	all = append(all, derived...)

	var themes []model.Theme
	for _, t := range all {
		reg.RegisterID(t.ID, "theme "+t.ID)
		reg.RegisterCategory(t.CategoryID, t.CategoryTitle, t.ID)
		t.Answers = reg.CleanAnswers(t.ID, t.Answers)
		if len(t.Answers) == 0 {
			continue
		}
		if len(t.Answers) < p.cfg.MinAnswers {
			p.log.Info("theme below answer threshold, suppressed",
				zap.String("theme", t.ID), zap.Int("answers", len(t.Answers)))
			continue
		}
		themes = append(themes, t)
	}

	if reg.Failed() {
		return model.Dictionary{}, nil, fmt.Errorf("%w: not writing any artifact", internalerr.ErrGateFailed)
	}

	sort.Slice(themes, func(i, j int) bool { return themes[i].ID < themes[j].ID })
	return dict, themes, nil
}

func (p *Pipeline) buildAdapters() ([]source.Adapter, error) {
	adapters := make([]source.Adapter, 0, len(p.cfg.Sources))
	for _, s := range p.cfg.Sources {
		switch s.Type {
		case config.TypeFixture:
			adapters = append(adapters, source.NewFixture(s.Name, s.Path))
		case config.TypeLocaleDB:
			adapters = append(adapters, source.NewLocaleDB(s.Name, s.Path))
		case config.TypeDirectory:
			adapters = append(adapters, source.NewDirectory(s.Name, s.URL, p.cfg.Timeout()))
		default:
			return nil, fmt.Errorf("%w: unknown source type %q", internalerr.ErrInvalidConfig, s.Type)
		}
	}
	return adapters, nil
}

// reportStale surfaces theme artifacts sitting in the output directory
// that this run did not produce, typically a group that dropped below
// the answer threshold. They are reported, never deleted: removal is an
// operator decision.
func (p *Pipeline) reportStale(written map[string]struct{}) {
	entries, err := os.ReadDir(p.cfg.Output.ThemesDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(p.cfg.Output.ThemesDir, e.Name())
		if _, ok := written[path]; ok {
			continue
		}
		p.log.Warn("stale artifact from a previous run", zap.String("path", path))
	}
}

func (p *Pipeline) themePath(id string) string {
	return filepath.Join(p.cfg.Output.ThemesDir, id+".json")
}

func (p *Pipeline) dictionaryPath(id string) string {
	return filepath.Join(p.cfg.Output.DatasetsDir, id+".json")
}
