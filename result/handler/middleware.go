package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/goccy/go-reflect"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/x-research-team/dtx-result/result"
)

const (
	instrumentationName    = "github.com/x-research-team/dtx-result/result/handler"
	instrumentationVersion = "0.1.0"
	metricKeyPrefix        = "results."
)

// Значения атрибута outcome в метриках.
const (
	outcomeHandled   = "handled"
	outcomeUnhandled = "unhandled"
	outcomeError     = "error"
)

// Middleware определяет интерфейс для middleware обработчика результатов.
type Middleware[T, R any] interface {
	Wrap(next Provider[T, R]) Provider[T, R]
}

// MiddlewareFunc является адаптером, позволяющим использовать обычные функции как middleware.
type MiddlewareFunc[T, R any] func(next Provider[T, R]) Provider[T, R]

// Wrap реализует интерфейс Middleware.
func (f MiddlewareFunc[T, R]) Wrap(next Provider[T, R]) Provider[T, R] {
	return f(next)
}

// HandleOutcome классифицирует результат вызова Handle для логов и метрик.
func HandleOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeHandled
	case errors.Is(err, ErrUnhandledOutcome):
		return outcomeUnhandled
	default:
		return outcomeError
	}
}

// loggingMiddleware реализует Middleware для логирования.
type loggingMiddleware[T, R any] struct {
	logger *slog.Logger
}

// NewLoggingMiddleware создает новое middleware для логирования.
// Если логгер не предоставлен (nil), возвращается no-op middleware.
func NewLoggingMiddleware[T, R any](logger *slog.Logger) Middleware[T, R] {
	if logger == nil {
		return &noopMiddleware[T, R]{}
	}
	return &loggingMiddleware[T, R]{
		logger: logger,
	}
}

// Wrap оборачивает провайдер для добавления логирования.
func (m *loggingMiddleware[T, R]) Wrap(next Provider[T, R]) Provider[T, R] {
	return &loggingProvider[T, R]{
		next:   next,
		logger: m.logger,
	}
}

// loggingProvider - это обертка над провайдером, которая добавляет логирование.
type loggingProvider[T, R any] struct {
	next   Provider[T, R]
	logger *slog.Logger
}

// Register логирует регистрацию и предупреждает, если ни один статус,
// принимаемый новой регистрацией, до нее не дойдет.
func (p *loggingProvider[T, R]) Register(reg Registration[T, R]) {
	if unreachable(p.next.Registrations(), reg.Match) {
		p.logger.Warn("повторная регистрация недостижима: выигрывает первая",
			slog.String("registration", reg.Name),
		)
	}

	p.logger.Debug("регистрация обработчика результата",
		slog.String("registration", reg.Name),
		slog.String("producer", getProducerName(reg.Produce)),
	)
	p.next.Register(reg)
}

// unreachable сообщает, перехвачен ли каждый статус, принимаемый match,
// одной из более ранних регистраций.
func unreachable[T, R any](earlier []Registration[T, R], match Predicate) bool {
	for _, status := range result.Statuses() {
		if !match(status) {
			continue
		}
		covered := false
		for _, existing := range earlier {
			if existing.Match(status) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

// Fallback логирует установку резервного производителя.
func (p *loggingProvider[T, R]) Fallback(producer Producer[T, R]) {
	p.logger.Debug("установка резервного обработчика результата",
		slog.String("producer", getProducerName(producer)),
	)
	p.next.Fallback(producer)
}

// Handle логирует обработку результата.
func (p *loggingProvider[T, R]) Handle(ctx context.Context, o result.Outcome[T]) (resp R, err error) {
	payloadType := getPayloadType[T]()
	p.logger.Info("обработка результата",
		slog.String("outcome_id", o.ID().String()),
		slog.String("status", o.Status().String()),
		slog.String("payload_type", payloadType),
	)

	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime)
		if err != nil {
			p.logger.Error("ошибка обработки результата",
				slog.String("outcome_id", o.ID().String()),
				slog.String("status", o.Status().String()),
				slog.String("outcome", HandleOutcome(err)),
				slog.Any("error", err),
				slog.Duration("duration", duration),
			)
		}
	}()

	return p.next.Handle(ctx, o)
}

func (p *loggingProvider[T, R]) Registrations() []Registration[T, R] {
	return p.next.Registrations()
}

// metricsMiddleware реализует Middleware для сбора метрик OpenTelemetry.
type metricsMiddleware[T, R any] struct {
	handleCounter metric.Int64Counter
	durationHist  metric.Float64Histogram
}

// NewMetricsMiddleware создает новое middleware для сбора метрик.
func NewMetricsMiddleware[T, R any](provider metric.MeterProvider) Middleware[T, R] {
	if provider == nil {
		return &noopMiddleware[T, R]{}
	}

	meter := provider.Meter(instrumentationName, metric.WithInstrumentationVersion(instrumentationVersion))

	handleCounter, err := meter.Int64Counter(
		metricKeyPrefix+"handle.count",
		metric.WithDescription("Количество обработанных результатов"),
		metric.WithUnit("{outcomes}"),
	)
	if err != nil {
		panic(fmt.Sprintf("не удалось создать счетчик handle.count: %v", err))
	}

	durationHist, err := meter.Float64Histogram(
		metricKeyPrefix+"handle.duration",
		metric.WithDescription("Длительность обработки результата"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic(fmt.Sprintf("не удалось создать гистограмму handle.duration: %v", err))
	}

	return &metricsMiddleware[T, R]{
		handleCounter: handleCounter,
		durationHist:  durationHist,
	}
}

// Wrap оборачивает провайдер для добавления сбора метрик.
func (m *metricsMiddleware[T, R]) Wrap(next Provider[T, R]) Provider[T, R] {
	return &metricsProvider[T, R]{
		next:          next,
		handleCounter: m.handleCounter,
		durationHist:  m.durationHist,
	}
}

// metricsProvider - это обертка над провайдером, которая собирает метрики.
type metricsProvider[T, R any] struct {
	next          Provider[T, R]
	handleCounter metric.Int64Counter
	durationHist  metric.Float64Histogram
}

func (p *metricsProvider[T, R]) Register(reg Registration[T, R]) { p.next.Register(reg) }

func (p *metricsProvider[T, R]) Fallback(producer Producer[T, R]) { p.next.Fallback(producer) }

// Handle собирает метрики и обрабатывает результат.
func (p *metricsProvider[T, R]) Handle(ctx context.Context, o result.Outcome[T]) (resp R, err error) {
	startTime := time.Now()
	resp, err = p.next.Handle(ctx, o)
	duration := float64(time.Since(startTime).Microseconds()) / 1000

	attrs := metric.WithAttributes(
		attribute.String("status", o.Status().String()),
		attribute.String("category", o.Category().String()),
		attribute.String("outcome", HandleOutcome(err)),
	)
	p.handleCounter.Add(ctx, 1, attrs)
	p.durationHist.Record(ctx, duration, attrs)

	return resp, err
}

func (p *metricsProvider[T, R]) Registrations() []Registration[T, R] {
	return p.next.Registrations()
}

// tracingMiddleware реализует Middleware для трассировки OpenTelemetry.
type tracingMiddleware[T, R any] struct {
	tracer trace.Tracer
}

// NewTracingMiddleware создает новое middleware для трассировки.
func NewTracingMiddleware[T, R any](tp trace.TracerProvider) Middleware[T, R] {
	if tp == nil {
		return &noopMiddleware[T, R]{}
	}

	return &tracingMiddleware[T, R]{
		tracer: tp.Tracer(
			instrumentationName,
			trace.WithInstrumentationVersion(instrumentationVersion),
		),
	}
}

// Wrap оборачивает провайдер для добавления логики трассировки.
func (m *tracingMiddleware[T, R]) Wrap(next Provider[T, R]) Provider[T, R] {
	return &tracingProvider[T, R]{
		next:   next,
		tracer: m.tracer,
	}
}

// tracingProvider - это обертка над провайдером, которая управляет спанами.
type tracingProvider[T, R any] struct {
	next   Provider[T, R]
	tracer trace.Tracer
}

// Register оборачивает производитель в дочерний спан.
func (p *tracingProvider[T, R]) Register(reg Registration[T, R]) {
	reg.Produce = p.traceProducer(reg.Name, reg.Produce)
	p.next.Register(reg)
}

// Fallback оборачивает резервный производитель в дочерний спан.
func (p *tracingProvider[T, R]) Fallback(producer Producer[T, R]) {
	p.next.Fallback(p.traceProducer(NameUnmatched, producer))
}

// Handle создает спан для обработки результата.
func (p *tracingProvider[T, R]) Handle(ctx context.Context, o result.Outcome[T]) (resp R, err error) {
	spanName := fmt.Sprintf("%s handle", o.Status())

	ctx, span := p.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("result.outcome_id", o.ID().String()),
			attribute.String("result.status", o.Status().String()),
			attribute.String("result.category", o.Category().String()),
		),
	)
	defer func() {
		span.SetAttributes(attribute.String("result.outcome", HandleOutcome(err)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return p.next.Handle(ctx, o)
}

func (p *tracingProvider[T, R]) Registrations() []Registration[T, R] {
	return p.next.Registrations()
}

func (p *tracingProvider[T, R]) traceProducer(name string, producer Producer[T, R]) Producer[T, R] {
	return func(ctx context.Context, o result.Outcome[T]) (R, error) {
		ctx, span := p.tracer.Start(ctx, fmt.Sprintf("%s produce", name))
		defer span.End()

		resp, err := producer(ctx, o)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return resp, err
	}
}

// applyMiddlewares применяет цепочку middleware к базовому провайдеру.
// Первый middleware в списке становится внешним.
func applyMiddlewares[T, R any](provider Provider[T, R], middlewares ...Middleware[T, R]) Provider[T, R] {
	p := provider
	for i := len(middlewares) - 1; i >= 0; i-- {
		p = middlewares[i].Wrap(p)
	}
	return p
}

// noopMiddleware представляет собой пустое middleware.
type noopMiddleware[T, R any] struct{}

// Wrap просто возвращает следующий провайдер без изменений.
func (m *noopMiddleware[T, R]) Wrap(next Provider[T, R]) Provider[T, R] {
	return next
}

// getPayloadType возвращает имя типа полезной нагрузки.
func getPayloadType[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// getProducerName извлекает имя функции производителя.
func getProducerName(producer any) string {
	v := reflect.ValueOf(producer)
	if v.Kind() == reflect.Func {
		if pc := v.Pointer(); pc != 0 {
			if f := runtime.FuncForPC(pc); f != nil {
				return f.Name()
			}
		}
	}
	return reflect.TypeOf(producer).String()
}
