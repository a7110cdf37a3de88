package diagnostics

import (
	"github.com/Mr-Dark-debug/crmdesk/internal/loader"
	"go.uber.org/zap"
)

// ZapSink writes one structured log entry per failure. Stack traces are
// logged at debug level only.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink returns a sink logging through l.
func NewZapSink(l *zap.Logger) *ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapSink{logger: l.Named("render")}
}

func (s *ZapSink) Report(f loader.CapturedFailure) {
	fields := []zap.Field{
		zap.String("failure_id", f.ID),
		zap.String("view", f.View),
		zap.Time("occurred_at", f.OccurredAt),
	}
	if f.Err != nil {
		fields = append(fields, zap.Bool("panicked", f.Err.Panicked), zap.Error(f.Err.Cause))
	}
	s.logger.Error("view render failed", fields...)

	if f.Err != nil && f.Err.Stack != "" {
		s.logger.Debug("render failure stack", zap.String("failure_id", f.ID), zap.String("stack", f.Err.Stack))
	}
}

// Multi fans a failure out to every sink. One sink panicking does not
// stop the others.
func Multi(sinks ...loader.Sink) loader.Sink {
	return loader.SinkFunc(func(f loader.CapturedFailure) {
		for _, s := range sinks {
			if s == nil {
				continue
			}
			func() {
				defer func() { _ = recover() }()
				s.Report(f)
			}()
		}
	})
}

// Chan delivers failures into ch without blocking; if ch is full the
// failure is skipped. The UI listens on ch to learn about failures.
func Chan(ch chan<- loader.CapturedFailure) loader.Sink {
	return loader.SinkFunc(func(f loader.CapturedFailure) {
		select {
		case ch <- f:
		default:
		}
	})
}
