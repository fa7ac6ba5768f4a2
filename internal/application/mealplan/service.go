// Package mealplan provides the application layer for the diet planner
// This implements the use cases defined in the inbound ports
package mealplan

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/dietplanner/internal/application/validation"
	"github.com/alchemorsel/dietplanner/internal/domain/diet"
	"github.com/alchemorsel/dietplanner/internal/domain/plan"
	"github.com/alchemorsel/dietplanner/internal/domain/shared"
	"github.com/alchemorsel/dietplanner/internal/domain/units"
	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

var _ inbound.MealPlanService = (*Service)(nil)

// Grading holds the display bounds on a restricted fraction
type Grading struct {
	Warning float64
	Severe  float64
}

// DefaultGrading grades above 20% as warning and above 40% as severe
func DefaultGrading() Grading {
	return Grading{Warning: diet.DefaultWarningThreshold, Severe: diet.DefaultSevereThreshold}
}

// Service implements the meal plan use cases. One mutex serialises every
// operation. Mutations run on a copy of the plan, persist, and only then
// replace the current plan.
type Service struct {
	mu sync.Mutex

	store      outbound.Store
	checker    *diet.Checker
	conv       *units.Converter
	validator  *validation.Validator
	metrics    outbound.MetricsRecorder
	tracer     trace.Tracer
	dispatcher shared.EventDispatcher
	grading    Grading
	logger     *zap.Logger

	plan *plan.Plan
}

// NewService creates a new meal plan service with an empty plan; call Load
// to read the store.
func NewService(
	store outbound.Store,
	checker *diet.Checker,
	validator *validation.Validator,
	metrics outbound.MetricsRecorder,
	tracer trace.Tracer,
	dispatcher shared.EventDispatcher,
	grading Grading,
	logger *zap.Logger,
) *Service {
	if metrics == nil {
		metrics = outbound.NoopMetrics{}
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("mealplan")
	}
	if dispatcher == nil {
		dispatcher = shared.NewDispatcher()
	}
	if validator == nil {
		validator = validation.New(checker.Converter())
	}

	s := &Service{
		store:      store,
		checker:    checker,
		conv:       checker.Converter(),
		validator:  validator,
		metrics:    metrics,
		tracer:     tracer,
		dispatcher: dispatcher,
		grading:    grading,
		logger:     logger.Named("mealplan-service"),
		plan:       plan.New(checker, nil),
	}
	dispatcher.Register(shared.Wildcard, s.onEvent)
	return s
}

// Load reads the whole plan from the store
func (s *Service) Load(ctx context.Context) (*inbound.LoadReport, error) {
	var report *inbound.LoadReport
	err := s.run(ctx, "load", func(ctx context.Context) error {
		var err error
		report, err = s.load(ctx)
		return err
	})
	return report, err
}

// Reload discards the in-memory plan and reads the store again
func (s *Service) Reload(ctx context.Context) (*inbound.LoadReport, error) {
	var report *inbound.LoadReport
	err := s.run(ctx, "reload", func(ctx context.Context) error {
		var err error
		report, err = s.load(ctx)
		return err
	})
	return report, err
}

// run wraps an operation in the lock, a span and an operation metric
func (s *Service) run(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "mealplan."+operation,
		trace.WithAttributes(attribute.String("mealplan.operation", operation)),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := fn(ctx)

	outcome := outbound.OutcomeSuccess
	if err != nil {
		outcome = outbound.OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.code", string(apperrors.GetCode(err))))
	}
	s.metrics.RecordOperation(operation, outcome, time.Since(start))
	return err
}

// write is one persistence step of a mutation
type write struct {
	what string
	fn   func(ctx context.Context) error
}

// commit persists the writes and then swaps next in. On a failed write the
// current plan is kept and a PERSISTENCE_ERROR returned.
func (s *Service) commit(ctx context.Context, next *plan.Plan, writes ...write) error {
	for _, w := range writes {
		if err := w.fn(ctx); err != nil {
			s.logger.Error("Failed to persist change",
				zap.String("write", w.what),
				zap.Error(err),
			)
			return apperrors.NewPersistenceError(w.what, err)
		}
	}

	events := next.Events()
	s.plan = next
	s.metrics.SetPlanSize(len(next.Recipes()), len(next.AllMeals()))

	for _, event := range events {
		if err := s.dispatcher.Dispatch(event); err != nil {
			s.logger.Error("Failed to dispatch event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) onEvent(event shared.DomainEvent) error {
	s.logger.Debug("Domain event",
		zap.String("event", event.EventName()),
		zap.String("event_id", event.EventID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	s.metrics.RecordEvent(event.EventName())
	return nil
}

func (s *Service) saveMeals(p *plan.Plan) write {
	return write{what: "save meal index", fn: func(ctx context.Context) error {
		return s.store.Meals().Save(ctx, mealRecords(p))
	}}
}

func (s *Service) saveDiet(p *plan.Plan) write {
	return write{what: "save diet policy", fn: func(ctx context.Context) error {
		return s.store.Diet().Save(ctx, dietRecord(p.Policy()))
	}}
}
