package batch

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Strategy selects how the engine bounds concurrent dispatches.
type Strategy string

const (
	// StrategyWindow runs consecutive windows of Concurrency items; a
	// window fully settles before the next one is issued, with an
	// unconditional pause in between to shed burst load on downstream
	// endpoints and codecs.
	StrategyWindow Strategy = "window"
	// StrategyPool keeps at most Concurrency dispatches in flight and
	// refills a freed slot immediately, avoiding the window scheme's
	// head-of-line blocking.
	StrategyPool Strategy = "pool"
)

// DefaultWindowDelay is the pause between windows. The value matches the
// rate shaping the tool has always applied; it is configurable but the
// pause itself is unconditional in window mode.
const DefaultWindowDelay = 100 * time.Millisecond

// Config bounds a batch run.
type Config struct {
	Concurrency int
	Strategy    Strategy
	WindowDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		Concurrency: 3,
		Strategy:    StrategyWindow,
		WindowDelay: DefaultWindowDelay,
	}
}

// Engine runs batches of image operations through a Dispatcher. Results are
// always reported in input order, whatever order items settle in. The
// engine itself implements no retries, cancellation, or timeouts; those are
// provider concerns.
type Engine struct {
	dispatcher *Dispatcher
	cfg        Config
	logger     *zap.Logger
}

func NewEngine(dispatcher *Dispatcher, cfg Config, logger *zap.Logger) *Engine {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger.With(zap.String("component", "engine")),
	}
}

// Run processes every source and returns the aggregate summary. Individual
// failures are recorded in the summary, never surfaced as errors.
func (e *Engine) Run(ctx context.Context, sources []string, op Operation, opts Options) Summary {
	return e.RunWithProgress(ctx, sources, op, opts, nil)
}

// RunWithProgress is Run plus one ProgressEvent per settled item, delivered
// with a completed count that increases by exactly 1 per event.
func (e *Engine) RunWithProgress(ctx context.Context, sources []string, op Operation, opts Options, onProgress ProgressFunc) Summary {
	started := time.Now()

	e.logger.Info("batch starting",
		zap.Int("sources", len(sources)),
		zap.String("operation", string(op)),
		zap.String("strategy", string(e.cfg.Strategy)),
		zap.Int("concurrency", e.cfg.Concurrency),
	)

	var outcomes []Outcome
	if e.cfg.Strategy == StrategyPool {
		outcomes = e.runPool(ctx, sources, op, opts, onProgress)
	} else {
		outcomes = e.runWindows(ctx, sources, op, opts, onProgress)
	}

	summary := summarize(outcomes, time.Since(started))

	e.logger.Info("batch finished",
		zap.Uint("processed", summary.TotalProcessed),
		zap.Uint("successful", summary.Successful),
		zap.Uint("failed", summary.Failed),
		zap.Uint64("total_ms", summary.TotalTimeMs),
	)
	return summary
}

type settled struct {
	index   int
	outcome Outcome
}

// runWindows dispatches sources window by window. Every item of a window
// settles before the next window is issued.
func (e *Engine) runWindows(ctx context.Context, sources []string, op Operation, opts Options, onProgress ProgressFunc) []Outcome {
	outcomes := make([]Outcome, len(sources))
	completed := 0

	for start := 0; start < len(sources); start += e.cfg.Concurrency {
		end := start + e.cfg.Concurrency
		if end > len(sources) {
			end = len(sources)
		}

		results := make(chan settled, end-start)
		for i := start; i < end; i++ {
			item := WorkItem{Source: sources[i], Operation: op, Options: opts}
			go func(i int, item WorkItem) {
				results <- settled{index: i, outcome: e.dispatcher.Dispatch(ctx, item)}
			}(i, item)
		}

		// Collect the whole window; items settle in any order but land
		// at their input index.
		for n := start; n < end; n++ {
			s := <-results
			outcomes[s.index] = s.outcome
			completed++
			notify(onProgress, completed, len(sources))
		}

		if end < len(sources) && e.cfg.WindowDelay > 0 {
			time.Sleep(e.cfg.WindowDelay)
		}
	}

	return outcomes
}

// runPool keeps at most Concurrency dispatches in flight, refilling freed
// slots from the remaining queue immediately.
func (e *Engine) runPool(ctx context.Context, sources []string, op Operation, opts Options, onProgress ProgressFunc) []Outcome {
	outcomes := make([]Outcome, len(sources))
	sem := semaphore.NewWeighted(int64(e.cfg.Concurrency))
	results := make(chan settled, len(sources))

	go func() {
		for i, source := range sources {
			// Acquire against Background: once a run starts it settles
			// every item, so slot acquisition is not cancellable.
			if err := sem.Acquire(context.Background(), 1); err != nil {
				results <- settled{index: i, outcome: FailedWith(source, err.Error())}
				continue
			}
			item := WorkItem{Source: source, Operation: op, Options: opts}
			go func(i int, item WorkItem) {
				defer sem.Release(1)
				results <- settled{index: i, outcome: e.dispatcher.Dispatch(ctx, item)}
			}(i, item)
		}
	}()

	for completed := 1; completed <= len(sources); completed++ {
		s := <-results
		outcomes[s.index] = s.outcome
		notify(onProgress, completed, len(sources))
	}

	return outcomes
}

func notify(onProgress ProgressFunc, completed, total int) {
	if onProgress == nil {
		return
	}
	onProgress(ProgressEvent{
		Completed:  uint(completed),
		Total:      uint(total),
		Percentage: roundPercent(completed, total),
	})
}
