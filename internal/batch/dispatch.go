package batch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Provider performs the actual image operations. Each call loads and
// transforms a single source and is free to take as long as it needs; the
// engine never inspects the returned payload.
type Provider interface {
	Analyze(ctx context.Context, source string, opts Options) (any, error)
	Compress(ctx context.Context, source string, opts Options) (any, error)
	Convert(ctx context.Context, source, format string, opts Options) (any, error)
	ExtractColors(ctx context.Context, source string, opts Options) (any, error)
}

// Dispatcher routes one WorkItem to the provider, times the call, and
// normalizes every failure mode into a Failure outcome.
type Dispatcher struct {
	provider Provider
	logger   *zap.Logger
}

func NewDispatcher(provider Provider, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		provider: provider,
		logger:   logger.With(zap.String("component", "dispatcher")),
	}
}

// Dispatch settles a single item. It never returns an error: validation
// problems, unsupported operations, provider errors, and provider panics
// all become Failure outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, item WorkItem) Outcome {
	if item.Operation == OpConvert {
		if _, ok := item.Options.TargetFormat(); !ok {
			return FailedWith(item.Source, "targetFormat is required for convert operation")
		}
	}

	call, ok := d.route(item)
	if !ok {
		return FailedWith(item.Source, fmt.Sprintf("Unsupported operation: %s", item.Operation))
	}

	started := time.Now()
	payload, err := d.invoke(ctx, call, item)
	elapsed := time.Since(started)

	if err != nil {
		d.logger.Warn("operation failed",
			zap.String("source", item.Source),
			zap.String("operation", string(item.Operation)),
			zap.Error(err),
		)
		return FailedWith(item.Source, err.Error())
	}

	d.logger.Debug("operation settled",
		zap.String("source", item.Source),
		zap.String("operation", string(item.Operation)),
		zap.Duration("elapsed", elapsed),
	)
	return Succeeded(item.Source, payload, uint64(elapsed.Milliseconds()))
}

type providerCall func(ctx context.Context, item WorkItem) (any, error)

func (d *Dispatcher) route(item WorkItem) (providerCall, bool) {
	switch item.Operation {
	case OpAnalyze:
		return func(ctx context.Context, item WorkItem) (any, error) {
			return d.provider.Analyze(ctx, item.Source, item.Options)
		}, true
	case OpCompress:
		return func(ctx context.Context, item WorkItem) (any, error) {
			return d.provider.Compress(ctx, item.Source, item.Options)
		}, true
	case OpConvert:
		return func(ctx context.Context, item WorkItem) (any, error) {
			format, _ := item.Options.TargetFormat()
			return d.provider.Convert(ctx, item.Source, format, item.Options)
		}, true
	case OpExtractColors:
		return func(ctx context.Context, item WorkItem) (any, error) {
			return d.provider.ExtractColors(ctx, item.Source, item.Options)
		}, true
	default:
		return nil, false
	}
}

// invoke shields the batch from provider panics; a panicking provider
// settles the item as a failure instead of tearing down the whole run.
func (d *Dispatcher) invoke(ctx context.Context, call providerCall, item WorkItem) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	return call(ctx, item)
}
