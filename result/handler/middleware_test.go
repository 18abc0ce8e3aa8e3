package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/x-research-team/dtx-result/result"
	"github.com/x-research-team/dtx-result/result/handler"
)

func constProducer(resp string) handler.Producer[string, string] {
	return func(ctx context.Context, o result.Outcome[string]) (string, error) {
		return resp, nil
	}
}

func TestHandler_Tracing(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	h := handler.New(
		handler.WithLogger[string, string](nil),
		handler.WithTracerProvider[string, string](tp),
	).OnClientError(constProducer("client"))

	_, err := h.Handle(context.Background(), result.Failure[string](result.StatusNotFound, "NotFound"))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2, "ожидается спан обработки и дочерний спан производителя")

	names := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range spans {
		names[s.Name()] = s
	}
	handleSpan, ok := names["NotFound handle"]
	require.True(t, ok)
	produceSpan, ok := names["client_error produce"]
	require.True(t, ok)

	assert.Equal(t, handleSpan.SpanContext().SpanID(), produceSpan.Parent().SpanID(), "спан производителя должен быть дочерним")
	assert.Contains(t, handleSpan.Attributes(), attribute.String("result.outcome", "handled"))
}

func TestHandler_TracingRecordsUnhandled(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	h := handler.New(
		handler.WithLogger[string, string](nil),
		handler.WithTracerProvider[string, string](tp),
	)

	_, err := h.Handle(context.Background(), result.New[string](result.StatusConflict))
	require.ErrorIs(t, err, handler.ErrUnhandledOutcome)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("result.outcome", "unhandled"))
}

func TestHandler_Metrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	h := handler.New(
		handler.WithLogger[string, string](nil),
		handler.WithMeterProvider[string, string](mp),
	).OnClientError(constProducer("client"))

	ctx := context.Background()
	_, err := h.Handle(ctx, result.New[string](result.StatusBadRequest))
	require.NoError(t, err)
	_, err = h.Handle(ctx, result.New[string](result.StatusBadRequest))
	require.NoError(t, err)
	_, err = h.Handle(ctx, result.New[string](result.StatusInternalServerError))
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[string]int64{}
	foundHistogram := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "results.handle.count":
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				for _, dp := range sum.DataPoints {
					outcome, _ := dp.Attributes.Value("outcome")
					counts[outcome.AsString()] += dp.Value
				}
			case "results.handle.duration":
				foundHistogram = true
			}
		}
	}

	assert.Equal(t, int64(2), counts["handled"])
	assert.Equal(t, int64(1), counts["unhandled"])
	assert.True(t, foundHistogram, "гистограмма длительности должна быть записана")
}

func TestHandler_LoggingWarnsOnDeadRegistration(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := handler.New(handler.WithLogger[string, string](logger)).
		OnClientError(constProducer("first")).
		OnClientError(constProducer("second"))

	_, err := h.Handle(context.Background(), result.New[string](result.StatusInternalServerError))
	require.Error(t, err)

	logs := buf.String()
	assert.Equal(t, 1, strings.Count(logs, "повторная регистрация недостижима"))
	assert.Contains(t, logs, "регистрация обработчика результата")
	assert.Contains(t, logs, "ошибка обработки результата")
	assert.Contains(t, logs, "outcome=unhandled")
}

// Предупреждение выдается по достижимости статусов, а не по имени регистрации.
func TestHandler_LoggingWarnsByReachability(t *testing.T) {
	t.Parallel()

	newLogger := func(buf *bytes.Buffer) *slog.Logger {
		return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	t.Run("перекрыта более широкой категорией", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler.New(handler.WithLogger[string, string](newLogger(&buf))).
			OnError(constProducer("any")).
			OnClientError(constProducer("client"))

		assert.Equal(t, 1, strings.Count(buf.String(), "повторная регистрация недостижима"))
	})

	t.Run("одно имя, разные статусы", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := handler.New(handler.WithLogger[string, string](newLogger(&buf))).
			On("x", handler.StatusIs(result.StatusNotFound), constProducer("a")).
			On("x", handler.StatusIs(result.StatusConflict), constProducer("b"))

		resp, err := h.Handle(context.Background(), result.New[string](result.StatusConflict))
		require.NoError(t, err)
		assert.Equal(t, "b", resp)
		assert.NotContains(t, buf.String(), "повторная регистрация недостижима")
	})

	t.Run("частично перекрытая регистрация достижима", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler.New(handler.WithLogger[string, string](newLogger(&buf))).
			OnStatus(result.StatusNotFound, constProducer("nf")).
			OnClientError(constProducer("client"))

		assert.NotContains(t, buf.String(), "повторная регистрация недостижима")
	})
}

// Handle безопасен для параллельных вызовов после завершения настройки.
func TestHandler_ConcurrentHandle(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := handler.New(
		handler.WithLogger[string, string](logger),
		handler.WithTracerProvider[string, string](tp),
		handler.WithMeterProvider[string, string](mp),
	).
		OnSuccess(constProducer("ok")).
		OnClientError(constProducer("client")).
		OnServerError(constProducer("server"))

	goroutines := 50
	statuses := result.Statuses()
	var wg sync.WaitGroup
	wg.Add(goroutines)

	resps := make([]string, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			resps[i], errs[i] = h.Handle(context.Background(), result.New[string](statuses[i%len(statuses)]))
		}(i)
	}

	wg.Wait()

	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		switch status := statuses[i%len(statuses)]; {
		case result.IsSuccess(status):
			assert.Equal(t, "ok", resps[i])
		case result.IsClientError(status):
			assert.Equal(t, "client", resps[i])
		default:
			assert.Equal(t, "server", resps[i])
		}
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	assert.Len(t, recorder.Ended(), goroutines*2, "на каждый вызов приходится спан обработки и спан производителя")
	assert.Len(t, h.Registrations(), 3)
}

// Пользовательские middleware выполняются после встроенных в порядке добавления.
func TestHandler_CustomMiddleware(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) handler.Middleware[string, string] {
		return handler.MiddlewareFunc[string, string](func(next handler.Provider[string, string]) handler.Provider[string, string] {
			return &taggingProvider{Provider: next, onHandle: func() { order = append(order, name) }}
		})
	}

	h := handler.New(
		handler.WithLogger[string, string](nil),
		handler.WithMiddleware(tag("first"), tag("second")),
	).OnSuccess(constProducer("ok"))

	resp, err := h.Handle(context.Background(), result.Success("x"))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, []string{"first", "second"}, order)
}

// Middleware может заменить ответ, но ошибка производителя проходит насквозь.
func TestHandler_MiddlewareSeesProducerError(t *testing.T) {
	t.Parallel()

	producerErr := errors.New("сбой")
	var seen error

	observe := handler.MiddlewareFunc[string, string](func(next handler.Provider[string, string]) handler.Provider[string, string] {
		return &observingProvider{Provider: next, observe: func(err error) { seen = err }}
	})

	h := handler.New(
		handler.WithLogger[string, string](nil),
		handler.WithMiddleware[string, string](observe),
	).OnServerError(func(ctx context.Context, o result.Outcome[string]) (string, error) {
		return "", producerErr
	})

	_, err := h.Handle(context.Background(), result.New[string](result.StatusInternalServerError))
	assert.Same(t, producerErr, err)
	assert.Same(t, producerErr, seen)
	assert.Equal(t, "error", handler.HandleOutcome(err))
}

type taggingProvider struct {
	handler.Provider[string, string]
	onHandle func()
}

func (p *taggingProvider) Handle(ctx context.Context, o result.Outcome[string]) (string, error) {
	p.onHandle()
	return p.Provider.Handle(ctx, o)
}

type observingProvider struct {
	handler.Provider[string, string]
	observe func(error)
}

func (p *observingProvider) Handle(ctx context.Context, o result.Outcome[string]) (string, error) {
	resp, err := p.Provider.Handle(ctx, o)
	p.observe(err)
	return resp, err
}
