package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stats counts what a Composer has done so far.
type Stats struct {
	Passes        int64
	Updates       int64
	ScopesCreated int64
	ScopesDropped int64
	LiveScopes    int
}

type options struct {
	updater Updater
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*options)

// WithUpdater selects the update policy. The default is a QueueUpdater
// flushed after every pass.
func WithUpdater(u Updater) Option {
	return func(o *options) { o.updater = u }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// Composer owns a root composable and its scope and drives passes over it.
// A Composer is not safe for concurrent use.
type Composer struct {
	id      uuid.UUID
	content Composable
	root    *ScopeState
	rt      *Runtime
	logger  *slog.Logger
	tracer  trace.Tracer

	live   mapset.Set[*ScopeState]
	stats  Stats
	closed bool
}

// New returns a Composer for content. Nothing is composed until Compose.
func New(content Composable, opts ...Option) *Composer {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer("compose")
	}

	rt := NewRuntime(o.updater)
	c := &Composer{
		id:      rt.ID(),
		content: content,
		rt:      rt,
		tracer:  o.tracer,
		live:    mapset.NewThreadUnsafeSet[*ScopeState](),
	}
	c.logger = o.logger.With(
		slog.String("component", "compose"),
		slog.String("composer", c.id.String()),
	)
	rt.observer = c

	c.root = NewScopeState()
	rt.Attach(c.root)
	c.root.flags |= fParentChanged
	c.scopeCreated(c.root)
	return c
}

func (c *Composer) ID() uuid.UUID     { return c.id }
func (c *Composer) Runtime() *Runtime { return c.rt }

// Root returns the root scope.
func (c *Composer) Root() *ScopeState { return c.root }

// Compose applies updates requested since the last pass, runs one pass from
// the root, then flushes the updates the pass requested. The returned error
// joins every update that failed to apply.
func (c *Composer) Compose(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}

	c.stats.Passes++
	pass := c.stats.Passes
	ctx, span := c.tracer.Start(ctx, "compose.Pass",
		trace.WithAttributes(
			attribute.String("composer", c.id.String()),
			attribute.Int64("pass", pass),
		),
	)
	defer span.End()

	exit := c.rt.Enter()
	defer exit()

	// Updates requested between passes, such as from event handlers, must be
	// visible to this pass.
	early := c.pending()
	earlyErr := c.flush(ctx)

	start := time.Now()
	composeNode(c.content, c.root)
	c.root.flags &^= fParentChanged
	composed := time.Since(start)

	queued := early + c.pending()
	if err := errors.Join(earlyErr, c.flush(ctx)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "flush failed")
		c.logger.Warn("updates failed", slog.Int64("pass", pass), slog.String("error", err.Error()))
		return fmt.Errorf("pass %d: %w", pass, err)
	}

	c.stats.Updates = c.rt.Updates()
	span.SetAttributes(
		attribute.Int("live_scopes", c.live.Cardinality()),
		attribute.Int("updates_flushed", queued),
		attribute.Int64("root_generation", int64(c.root.generation)),
	)
	c.logger.Debug("pass composed",
		slog.Int64("pass", pass),
		slog.Duration("compose", composed),
		slog.Int("live_scopes", c.live.Cardinality()),
		slog.Int("updates_flushed", queued),
	)
	return nil
}

func (c *Composer) pending() int {
	if q, ok := c.rt.updater.(*QueueUpdater); ok {
		return q.Len()
	}
	return 0
}

func (c *Composer) flush(ctx context.Context) error {
	if _, ok := c.rt.updater.(Flusher); !ok {
		return nil
	}
	_, span := c.tracer.Start(ctx, "compose.Flush")
	defer span.End()

	if err := c.rt.Flush(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "apply failed")
		return err
	}
	return nil
}

// Close drops the root scope, running every teardown hook in the tree.
func (c *Composer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.root.Drop()
	c.logger.Debug("composer closed",
		slog.Int64("passes", c.stats.Passes),
		slog.Int64("scopes_dropped", c.stats.ScopesDropped),
	)
	return nil
}

func (c *Composer) Stats() Stats {
	s := c.stats
	s.Updates = c.rt.Updates()
	s.LiveScopes = c.live.Cardinality()
	return s
}

func (c *Composer) scopeCreated(s *ScopeState) {
	c.stats.ScopesCreated++
	c.live.Add(s)
}

func (c *Composer) scopeDropped(s *ScopeState) {
	c.stats.ScopesDropped++
	c.live.Remove(s)
}
