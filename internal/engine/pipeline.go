package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tatianab/wikigen/internal/logger"
	"github.com/tatianab/wikigen/internal/models"
)

// Sink receives rendered pages. Replace swaps the whole content.
type Sink interface {
	Replace(text string) error
}

// Pass is the outcome of one Pipeline.Run.
type Pass struct {
	// ID increases with every pass started on the pipeline.
	ID     uint64
	Output string
	// Committed reports whether Output was written to the sink. A pass that
	// finishes after a newer one started is not committed.
	Committed bool
}

// Pipeline re-renders the page from a store and publishes it. Run may be
// called concurrently; the sink only ever holds the output of the most
// recently started pass that has finished.
type Pipeline struct {
	engine *Engine
	store  models.Store
	sink   Sink

	latest atomic.Uint64
	mu     sync.Mutex
}

// NewPipeline wires e to read fields from store and publish to sink.
func NewPipeline(e *Engine, store models.Store, sink Sink) *Pipeline {
	return &Pipeline{engine: e, store: store, sink: sink}
}

// Begin reserves the next pass id. Callers that render on their own use it
// together with RunPass; Run does both.
func (p *Pipeline) Begin() uint64 {
	return p.latest.Add(1)
}

// Latest returns the id of the most recently started pass.
func (p *Pipeline) Latest() uint64 {
	return p.latest.Load()
}

// Run starts a pass, renders the current fields and commits the result if no
// newer pass started in the meantime.
func (p *Pipeline) Run(ctx context.Context) (Pass, error) {
	return p.RunPass(ctx, p.Begin())
}

// RunPass renders under the given pass id, obtained from Begin.
func (p *Pipeline) RunPass(ctx context.Context, id uint64) (Pass, error) {
	fields, err := models.LoadFields(p.store)
	if err != nil {
		return Pass{ID: id}, fmt.Errorf("pass %d: %w", id, err)
	}

	pass := Pass{ID: id, Output: p.engine.Render(ctx, ContextFrom(fields))}

	p.mu.Lock()
	if id == p.latest.Load() {
		if err := p.sink.Replace(pass.Output); err != nil {
			p.mu.Unlock()
			return pass, fmt.Errorf("pass %d: publish: %w", id, err)
		}
		pass.Committed = true
	}
	p.mu.Unlock()

	p.engine.metrics.RenderPasses.Add(ctx, 1,
		metric.WithAttributes(attribute.String("committed", strconv.FormatBool(pass.Committed))))
	if !pass.Committed {
		logger.Debug("render pass superseded", "pass", id, "latest", p.latest.Load())
	}
	return pass, nil
}

// FileSink replaces a file's content atomically.
type FileSink struct {
	Path string
}

func (s FileSink) Replace(text string) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path)
}

// WriterSink writes each page to W, followed by a newline.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Replace(text string) error {
	_, err := io.WriteString(s.W, text+"\n")
	return err
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(text string) error

func (f SinkFunc) Replace(text string) error { return f(text) }
