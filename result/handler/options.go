package handler

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// config содержит неэкспортируемую конфигурацию обработчика результатов.
type config[T, R any] struct {
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	middlewares    []Middleware[T, R]
	setup          func(IHandler[T, R])
}

// Option определяет тип для функциональных опций, которые изменяют конфигурацию обработчика.
type Option[T, R any] func(*config[T, R])

// WithLogger устанавливает логгер. Значение nil отключает логирование.
func WithLogger[T, R any](logger *slog.Logger) Option[T, R] {
	return func(c *config[T, R]) {
		c.logger = logger
	}
}

// WithTracerProvider устанавливает провайдер трассировки.
func WithTracerProvider[T, R any](provider trace.TracerProvider) Option[T, R] {
	return func(c *config[T, R]) {
		c.tracerProvider = provider
	}
}

// WithMeterProvider устанавливает провайдер метрик.
func WithMeterProvider[T, R any](provider metric.MeterProvider) Option[T, R] {
	return func(c *config[T, R]) {
		c.meterProvider = provider
	}
}

// WithMiddleware добавляет один или несколько middleware в конец цепочки.
func WithMiddleware[T, R any](mw ...Middleware[T, R]) Option[T, R] {
	return func(c *config[T, R]) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

// WithSetup задает функцию настройки, которая выполняется один раз сразу
// после создания обработчика, до того как он станет доступен вызывающему коду.
// Используется вместе с Registry, чтобы регистрации завершались до первого Handle.
func WithSetup[T, R any](setup func(IHandler[T, R])) Option[T, R] {
	return func(c *config[T, R]) {
		c.setup = setup
	}
}
