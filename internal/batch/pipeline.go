// Package batch composes every record of a roster into front/back card pairs.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"iter"
	"log/slog"
	"runtime"
	"time"

	imagepkg "github.com/youruser/badgeapp/internal/image"
	"github.com/youruser/badgeapp/internal/layout"
	"github.com/youruser/badgeapp/internal/metrics"
	"github.com/youruser/badgeapp/internal/roster"
)

var (
	// ErrMissingInput gates a run that has no records or lacks a template.
	ErrMissingInput = errors.New("missing input")
	// ErrAborted is returned when the caller declines a dimension mismatch.
	ErrAborted = errors.New("batch aborted")
)

type Templates struct {
	Front *imagepkg.Template
	Back  *imagepkg.Template
}

// DimensionMismatch warns that front and back templates differ in size.
// Cards can still be generated but may misregister when printed double-sided.
type DimensionMismatch struct {
	Front image.Point `json:"front"`
	Back  image.Point `json:"back"`
}

func (m DimensionMismatch) Error() string {
	return fmt.Sprintf("front template is %dx%d but back template is %dx%d",
		m.Front.X, m.Front.Y, m.Back.X, m.Back.Y)
}

// ConfirmFunc decides whether to continue despite a mismatch.
type ConfirmFunc func(DimensionMismatch) bool

type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// CardPair is the composed front and back of one record.
type CardPair struct {
	Seq    int // 1-based position in the roster
	Record roster.Record
	Front  *imagepkg.RenderedFace
	Back   *imagepkg.RenderedFace
}

// Warnings lists the degraded layers of both faces.
func (c CardPair) Warnings() []string {
	var out []string
	for _, f := range []*imagepkg.RenderedFace{c.Front, c.Back} {
		if f != nil {
			out = append(out, f.Warnings...)
		}
	}
	return out
}

type Pipeline struct {
	composer *imagepkg.Composer
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func New(composer *imagepkg.Composer, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{composer: composer, logger: logger, metrics: m}
}

// Run is a validated batch ready to be composed.
type Run struct {
	p        *Pipeline
	records  []roster.Record
	tpl      Templates
	cfg      layout.Config
	canvas   image.Point
	Mismatch *DimensionMismatch
}

// Start checks the inputs of a batch. Missing records or templates fail with
// ErrMissingInput. Differently sized templates are passed to confirm; a nil
// confirm proceeds with a logged warning.
func (p *Pipeline) Start(records []roster.Record, tpl Templates, cfg layout.Config, confirm ConfirmFunc) (*Run, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrMissingInput)
	}
	if tpl.Front == nil || tpl.Back == nil {
		return nil, fmt.Errorf("%w: front and back templates are required", ErrMissingInput)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Run{
		p:       p,
		records: append([]roster.Record(nil), records...),
		tpl:     tpl,
		cfg:     cfg.Clone(),
		canvas:  imagepkg.CanvasSize(tpl.Front, tpl.Back),
	}
	if !cfg.Canvas.IsZero() {
		r.canvas = cfg.Canvas.Point()
	}

	if fs, bs := tpl.Front.Size(), tpl.Back.Size(); fs != bs {
		m := DimensionMismatch{Front: fs, Back: bs}
		if confirm != nil && !confirm(m) {
			return nil, fmt.Errorf("%w: %w", ErrAborted, m)
		}
		p.logger.Warn("template sizes differ, continuing", "front", fs, "back", bs, "canvas", r.canvas)
		r.Mismatch = &m
	}
	return r, nil
}

// Total is the number of records in the run.
func (r *Run) Total() int { return len(r.records) }

// Canvas is the shared output size of both faces.
func (r *Run) Canvas() image.Point { return r.canvas }

// Cards composes one record per step, in input order, reporting progress after
// each. Every call starts over from the first record. Iteration stops early
// once ctx is done; nothing needs releasing when a run is abandoned.
func (r *Run) Cards(ctx context.Context, progress func(Progress)) iter.Seq2[CardPair, error] {
	return func(yield func(CardPair, error) bool) {
		start := time.Now()
		total := len(r.records)
		r.p.metrics.IncBatchStarted()
		r.p.logger.Info("batch started", "records", total, "canvas", r.canvas)

		for i, rec := range r.records {
			if err := ctx.Err(); err != nil {
				r.p.logger.Info("batch abandoned", "completed", i, "total", total)
				return
			}
			pair, err := r.compose(i, rec)
			if err != nil {
				yield(CardPair{}, err)
				return
			}
			if progress != nil {
				progress(Progress{Completed: i + 1, Total: total})
			}
			if !yield(pair, nil) {
				return
			}
			runtime.Gosched()
		}

		r.p.metrics.ObserveBatch(start)
		r.p.logger.Info("batch finished", "records", total, "elapsed", time.Since(start))
	}
}

// Collect runs the whole batch and returns the pairs composed so far, with
// ctx's error if the run was abandoned.
func (r *Run) Collect(ctx context.Context, progress func(Progress)) ([]CardPair, error) {
	pairs := make([]CardPair, 0, len(r.records))
	for pair, err := range r.Cards(ctx, progress) {
		if err != nil {
			return pairs, err
		}
		pairs = append(pairs, pair)
	}
	if len(pairs) < len(r.records) {
		return pairs, ctx.Err()
	}
	return pairs, nil
}

func (r *Run) compose(i int, rec roster.Record) (CardPair, error) {
	front, err := r.p.composer.ComposeFace(imagepkg.Front, rec, r.tpl.Front, r.cfg, r.canvas, imagepkg.Options{})
	if err != nil {
		return CardPair{}, fmt.Errorf("record %d: %w", i+1, err)
	}
	back, err := r.p.composer.ComposeFace(imagepkg.Back, rec, r.tpl.Back, r.cfg, r.canvas, imagepkg.Options{})
	if err != nil {
		return CardPair{}, fmt.Errorf("record %d: %w", i+1, err)
	}
	return CardPair{Seq: i + 1, Record: rec, Front: front, Back: back}, nil
}
