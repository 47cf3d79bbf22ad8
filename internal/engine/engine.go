// Package engine assembles the full location page from the section renderers
// and publishes it to a sink.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/tatianab/wikigen/internal/logger"
	"github.com/tatianab/wikigen/internal/lookup"
	"github.com/tatianab/wikigen/internal/models"
	"github.com/tatianab/wikigen/internal/observe"
	"github.com/tatianab/wikigen/internal/render"
)

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency bounds the encounter lookups in flight during one render.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithMetrics sets the instruments used to record render durations and
// passes. The default is observe.DefaultMetrics.
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

type Engine struct {
	encounters  *render.EncounterRenderer
	concurrency int
	metrics     *observe.Metrics
}

// New returns an engine that resolves creature types with client.
func New(client lookup.Client, opts ...Option) *Engine {
	e := &Engine{}
	for _, o := range opts {
		o(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	e.encounters = render.NewEncounterRenderer(client, render.WithConcurrency(e.concurrency))
	return e
}

// ContextFrom builds the render context of one pass from a field snapshot.
func ContextFrom(f models.Fields) render.Context {
	return render.Context{
		LocationName: f.Get(models.FieldLocationName),
		North:        f.Get(models.FieldNorth),
		South:        f.Get(models.FieldSouth),
		East:         f.Get(models.FieldEast),
		West:         f.Get(models.FieldWest),
		Description:  f.Get(models.FieldDescription),
		Encounters:   f.Get(models.FieldEncounters),
		LandType:     f.Get(models.FieldLandType),
		Trainers:     f.Get(models.FieldTrainers),
		Story:        f.Get(models.FieldStory),
		Items:        f.Get(models.FieldItems),
		Gimmighoul:   f.Get(models.FieldGimmighoul),
		Quest:        f.Get(models.FieldQuest),
		Achievements: f.Get(models.FieldAchievements),
	}
}

// Render produces the whole page for rc. Sections appear in page order and
// empty fragments are dropped. Render never fails: lookup problems are
// already folded into the encounter fragment.
func (e *Engine) Render(ctx context.Context, rc render.Context) string {
	start := time.Now()

	sections := []func() string{
		func() string { return render.Locality(rc) },
		func() string { return render.Description(rc) },
		func() string { return e.encounters.Render(ctx, rc) },
		func() string { return render.Trainers(rc) },
		func() string { return render.Story(rc) },
		func() string { return render.Items(rc) },
		func() string { return render.Gimmighoul(rc) },
		func() string { return render.Quest(rc) },
		func() string { return render.Achievements(rc) },
	}

	var b strings.Builder
	for _, section := range sections {
		if frag := section(); frag != "" {
			b.WriteString(frag)
		}
	}

	elapsed := time.Since(start)
	e.metrics.RenderDuration.Record(ctx, elapsed.Seconds())
	logger.Debug("page rendered", "location", rc.Location(), "bytes", b.Len(), "elapsed", elapsed)
	return b.String()
}
