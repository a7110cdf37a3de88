// Package diagnostics delivers captured render failures to their sinks:
// the SQLite failure store, the structured log, and the running UI.
//
// Architecture:
//
//	Loader → Recorder.Report (non-blocking) → buffer → flushLoop → Store
//
// The recorder batches writes, committing every FlushInterval or BatchSize
// failures (whichever comes first). When the buffer is full new failures
// are dropped and counted rather than stalling the render path.
package diagnostics

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mr-Dark-debug/crmdesk/internal/database"
	"github.com/Mr-Dark-debug/crmdesk/internal/loader"
	"go.uber.org/zap"
)

// Metrics tracks recorder throughput and loss.
type Metrics struct {
	Received         int64 `json:"received"`
	Dropped          int64 `json:"dropped"`
	Persisted        int64 `json:"persisted"`
	ErrorCount       int64 `json:"error_count"`
	BatchesCommitted int64 `json:"batches_committed"`
}

// Config holds recorder tuning.
type Config struct {
	// SessionID tags every failure written by this process.
	SessionID string

	// BufferSize is the capacity of the in-memory queue.
	BufferSize int

	// BatchSize is the maximum number of failures per transaction.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration
}

// DefaultConfig returns sensible defaults for the recorder.
func DefaultConfig() Config {
	return Config{
		BufferSize:    256,
		BatchSize:     32,
		FlushInterval: 500 * time.Millisecond,
	}
}

// Recorder is a loader.Sink that persists failures in batches.
type Recorder struct {
	config  Config
	store   database.Store
	logger  *zap.Logger
	metrics Metrics

	queue chan loader.CapturedFailure

	// mu guards stopped against Report racing with Stop's close.
	mu      sync.RWMutex
	stopped bool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewRecorder creates a recorder writing to store. A nil logger is
// replaced by a no-op logger.
func NewRecorder(config Config, store database.Store, logger *zap.Logger) *Recorder {
	def := DefaultConfig()
	if config.BufferSize <= 0 {
		config.BufferSize = def.BufferSize
	}
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = def.FlushInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		config: config,
		store:  store,
		logger: logger.Named("recorder"),
		queue:  make(chan loader.CapturedFailure, config.BufferSize),
	}
}

// Start launches the flush goroutine.
func (r *Recorder) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.flushLoop(ctx)
}

// Report enqueues f without blocking. It satisfies loader.Sink.
func (r *Recorder) Report(f loader.CapturedFailure) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		atomic.AddInt64(&r.metrics.Dropped, 1)
		return
	}

	select {
	case r.queue <- f:
		atomic.AddInt64(&r.metrics.Received, 1)
	default:
		atomic.AddInt64(&r.metrics.Dropped, 1)
		r.logger.Warn("failure buffer full, dropping", zap.String("failure_id", f.ID))
	}
}

// Stop closes the queue and waits for the remaining failures to flush.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.stopped = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

// Metrics returns a snapshot of the current counters.
func (r *Recorder) Metrics() Metrics {
	return Metrics{
		Received:         atomic.LoadInt64(&r.metrics.Received),
		Dropped:          atomic.LoadInt64(&r.metrics.Dropped),
		Persisted:        atomic.LoadInt64(&r.metrics.Persisted),
		ErrorCount:       atomic.LoadInt64(&r.metrics.ErrorCount),
		BatchesCommitted: atomic.LoadInt64(&r.metrics.BatchesCommitted),
	}
}

// flushLoop periodically flushes buffered failures to the store.
func (r *Recorder) flushLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.FlushInterval)
	defer ticker.Stop()

	buf := make([]*database.Failure, 0, r.config.BatchSize)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if err := r.store.BatchInsertFailures(buf); err != nil {
			r.logger.Error("flushing failure batch", zap.Int("size", len(buf)), zap.Error(err))
			atomic.AddInt64(&r.metrics.ErrorCount, 1)
		} else {
			atomic.AddInt64(&r.metrics.BatchesCommitted, 1)
			atomic.AddInt64(&r.metrics.Persisted, int64(len(buf)))
		}
		buf = buf[:0]
	}

	for {
		select {
		case <-ctx.Done():
			// Drain whatever is already queued before leaving.
			for {
				select {
				case f, ok := <-r.queue:
					if !ok {
						flush()
						return
					}
					buf = append(buf, r.toRecord(f))
				default:
					flush()
					return
				}
			}

		case f, ok := <-r.queue:
			if !ok {
				flush()
				return
			}
			buf = append(buf, r.toRecord(f))
			if len(buf) >= r.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

func (r *Recorder) toRecord(f loader.CapturedFailure) *database.Failure {
	rec := &database.Failure{
		FailureID:  f.ID,
		SessionID:  r.config.SessionID,
		View:       f.View,
		Message:    f.Message(),
		OccurredAt: f.OccurredAt.UnixNano(),
	}
	if f.Err != nil {
		rec.Panicked = f.Err.Panicked
		if f.Err.Stack != "" {
			stack := f.Err.Stack
			rec.Stack = &stack
		}
	}
	return rec
}
