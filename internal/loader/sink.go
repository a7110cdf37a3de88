package loader

// Sink receives captured failures. Implementations should return quickly;
// the loader calls Report on its own goroutine and ignores whatever happens
// inside it.
type Sink interface {
	Report(f CapturedFailure)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(f CapturedFailure)

func (fn SinkFunc) Report(f CapturedFailure) { fn(f) }

type discardSink struct{}

func (discardSink) Report(CapturedFailure) {}

// emit delivers f to sink without blocking the caller. A panicking sink is
// swallowed.
func emit(sink Sink, f CapturedFailure) {
	go func() {
		defer func() { _ = recover() }()
		sink.Report(f)
	}()
}
