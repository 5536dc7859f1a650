package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/f1rdf/internal/logging"
	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/section"
	"github.com/handiism/f1rdf/internal/session"
)

var (
	// ErrNothingSelected is returned when a batch is started with no sections.
	ErrNothingSelected = errors.New("no data sections selected")

	// ErrUnknownSection is returned when a batch names an unregistered section.
	ErrUnknownSection = errors.New("unknown section")
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent is a human-readable batch log line.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Progress is reported after each section of a batch completes.
type Progress struct {
	// Completed counts finished sections, including this one.
	Completed int

	// Total is the number of sections in the batch.
	Total int

	// SectionID and Status describe the section that just finished.
	SectionID string
	Status    model.Status
}

// Fraction returns Completed/Total in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// ProgressFunc receives batch progress.
type ProgressFunc func(Progress)

// Orchestrator coordinates batch fetches over a section registry.
type Orchestrator struct {
	registry    *section.Registry
	provider    Provider
	concurrency int
	onEvent     func(ProgressEvent)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrency sets how many sections may be fetched at once.
// Values below two mean strictly sequential fetching.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

// WithEvents registers a sink for human-readable progress events.
func WithEvents(fn func(ProgressEvent)) Option {
	return func(o *Orchestrator) {
		o.onEvent = fn
	}
}

// NewOrchestrator creates an Orchestrator fetching from provider. A nil
// registry means section.Default().
func NewOrchestrator(registry *section.Registry, provider Provider, opts ...Option) *Orchestrator {
	if registry == nil {
		registry = section.Default()
	}
	o := &Orchestrator{
		registry:    registry,
		provider:    provider,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry returns the catalog the orchestrator fetches from.
func (o *Orchestrator) Registry() *section.Registry {
	return o.registry
}

// RunBatch fetches every section in ids for key and returns one outcome
// per section.
//
// The only errors RunBatch returns are validation errors, reported before
// any provider call: ErrNothingSelected and ErrUnknownSection. Provider
// errors are recorded as Failure outcomes in the returned cache.
// onProgress may be nil.
func (o *Orchestrator) RunBatch(ctx context.Context, ids []string, key model.SelectionKey, onProgress ProgressFunc) (*session.Cache, error) {
	if len(ids) == 0 {
		return nil, ErrNothingSelected
	}
	ordered, unknown := o.registry.Ordered(ids)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSection, unknown)
	}

	batchID := uuid.NewString()
	logger := logging.WithFields(ctx, "batch_id", batchID, "season", key.Season, "round", key.Round)
	logger.Info("batch started", "sections", len(ordered), "concurrency", o.concurrency)
	o.progress(ProgressEvent{Message: fmt.Sprintf("Fetching %d section(s) for %s", len(ordered), key), Level: LevelInfo})

	start := time.Now()
	tracker := &tracker{total: len(ordered), onProgress: onProgress}
	outcomes := make([]model.Outcome, len(ordered))

	if o.concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.concurrency)
		for i, id := range ordered {
			g.Go(func() error {
				outcomes[i] = o.fetchOne(gctx, logger, id, key)
				tracker.done(id, outcomes[i].Status)
				return nil // Failures are data, never group errors
			})
		}
		_ = g.Wait()
	} else {
		for i, id := range ordered {
			outcomes[i] = o.fetchOne(ctx, logger, id, key)
			tracker.done(id, outcomes[i].Status)
		}
	}

	cache := session.NewCache(key)
	for i, id := range ordered {
		cache.Set(id, outcomes[i])
	}

	failed := cache.Count(model.StatusFailure)
	logger.Info("batch finished",
		"fetched", cache.Count(model.StatusSuccess),
		"empty", cache.Count(model.StatusEmpty),
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if failed == 0 {
		o.progress(ProgressEvent{Message: fmt.Sprintf("Fetched all %d section(s)", len(ordered)), Level: LevelSuccess})
	} else {
		o.progress(ProgressEvent{Message: fmt.Sprintf("Finished with %d failed section(s)", failed), Level: LevelWarning})
	}

	return cache, nil
}

// fetchOne calls the provider for one section and converts whatever comes
// back, including a panic, into an Outcome.
func (o *Orchestrator) fetchOne(ctx context.Context, logger *slog.Logger, id string, key model.SelectionKey) (out model.Outcome) {
	desc, _ := o.registry.Get(id)
	o.progress(ProgressEvent{Message: fmt.Sprintf("Fetching %s", desc.Label), Level: LevelVerbose})

	defer func() {
		if r := recover(); r != nil {
			out = model.Failure(fmt.Sprintf("provider panic: %v", r))
			logger.Error("section panicked", "section", id, "panic", r)
			o.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching %s: %s", desc.Label, out.Message), Level: LevelError})
		}
	}()

	payload, err := o.provider.Fetch(ctx, id, key)
	switch {
	case errors.Is(err, ErrNoData):
		out = model.Empty()
	case err != nil:
		out = model.Failure(err.Error())
	case payload.IsEmpty():
		out = model.Empty()
	case payload.Shape != desc.Shape:
		out = model.Failure(fmt.Sprintf("provider returned %s data for a %s section", payload.Shape, desc.Shape))
	default:
		out = model.Success(payload)
	}

	switch out.Status {
	case model.StatusFailure:
		logger.Warn("section failed", "section", id, "error", out.Message)
		o.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching %s: %s", desc.Label, out.Message), Level: LevelError})
	case model.StatusEmpty:
		logger.Info("section empty", "section", id)
		o.progress(ProgressEvent{Message: fmt.Sprintf("No data available for %s", desc.Label), Level: LevelWarning})
	default:
		logger.Debug("section fetched", "section", id, "shape", payload.Shape.String())
		o.progress(ProgressEvent{Message: fmt.Sprintf("Fetched %s", describe(desc, payload)), Level: LevelVerbose})
	}
	return out
}

func (o *Orchestrator) progress(event ProgressEvent) {
	if o.onEvent != nil {
		o.onEvent(event)
	}
}

func describe(desc section.Descriptor, p model.Payload) string {
	if p.Shape == model.Tabular {
		return fmt.Sprintf("%s (%d rows)", desc.Label, p.Table.Len())
	}
	return fmt.Sprintf("%s (%d fields)", desc.Label, p.Record.Len())
}

// tracker serializes progress callbacks so counts stay strictly increasing
// even when sections finish concurrently.
type tracker struct {
	mu         sync.Mutex
	completed  int
	total      int
	onProgress ProgressFunc
}

func (t *tracker) done(id string, status model.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed++
	if t.onProgress != nil {
		t.onProgress(Progress{Completed: t.completed, Total: t.total, SectionID: id, Status: status})
	}
}

// Run fetches the session's current selection and stores the result in
// the session. The scope and selection are read once at the start, and the
// result is stored only if that scope is still active when the batch ends.
func Run(ctx context.Context, o *Orchestrator, sess *session.Session, onProgress ProgressFunc) (*session.Cache, error) {
	key := sess.Key()
	cache, err := o.RunBatch(ctx, sess.Selected(), key, onProgress)
	if err != nil {
		return nil, err
	}
	if err := sess.Store(cache); err != nil {
		return nil, err
	}
	return cache, nil
}
