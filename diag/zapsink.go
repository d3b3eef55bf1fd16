package diag

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ZapSink delivers diagnostics to a zap.Logger from a single worker
// goroutine, so a slow or contended logger never stalls a walk.
// Report is fire-and-forget: when the buffer is full the diagnostic
// is counted as dropped instead of blocking.
//
// A sink instance is identified by a unique id attached to every log
// entry, which keeps interleaved output from concurrent extractions
// attributable.
type ZapSink struct {
	sinkID  string
	logger  *zap.Logger
	ch      chan Diagnostic
	done    chan struct{}
	dropped atomic.Uint64
	closing sync.Once
}

// NewZapSink starts the worker. bufferSize bounds the number of
// pending diagnostics; values below 1 are treated as 1.
func NewZapSink(logger *zap.Logger, bufferSize int) *ZapSink {
	if bufferSize < 1 {
		bufferSize = 1
	}
	s := &ZapSink{
		sinkID: uuid.New().String(),
		logger: logger,
		ch:     make(chan Diagnostic, bufferSize),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *ZapSink) run() {
	defer close(s.done)
	for d := range s.ch {
		s.logger.Warn("unresolvable code reference, dropped from hash",
			zap.String("sinkId", s.sinkID),
			zap.String("func", d.Func),
			zap.String("file", d.File),
			zap.Int("line", d.Line),
			zap.Error(d.Err),
		)
	}
}

func (s *ZapSink) Report(d Diagnostic) {
	defer func() {
		// Reporting after Close is a caller bug, but diagnostics are
		// best-effort and must never take the walk down with them.
		if r := recover(); r != nil {
			s.dropped.Add(1)
		}
	}()
	select {
	case s.ch <- d:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns how many diagnostics were discarded because the
// buffer was full or the sink was closed.
func (s *ZapSink) Dropped() uint64 {
	return s.dropped.Load()
}

// Close drains pending diagnostics, stops the worker and syncs the
// logger. Safe to call more than once.
func (s *ZapSink) Close() {
	s.closing.Do(func() {
		close(s.ch)
		<-s.done
		if err := s.logger.Sync(); err != nil {
			s.logger.Warn("failed to sync logger", zap.Error(err))
		}
	})
}
