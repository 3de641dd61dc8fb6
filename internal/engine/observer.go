package engine

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/piwi3910/shapepack/internal/model"
)

// Snapshot is the immutable per-generation report handed to observers.
// Best is a fresh decode of the best-ever chromosome; observers may keep
// it without copying.
type Snapshot struct {
	RunID          string
	Generation     int
	BestFitness    float64
	AverageFitness float64
	StdDevFitness  float64
	Best           model.PackingResult
}

// Observer receives generation snapshots. Delivery happens on a separate
// goroutine through a latest-wins queue, so a slow observer drops
// intermediate snapshots instead of stalling the search. A panicking
// observer is recovered and logged; the search continues.
type Observer interface {
	OnGeneration(Snapshot)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnGeneration(s Snapshot) {
	f(s)
}

// snapshotQueue decouples snapshot production from observer delivery.
// Capacity is one; offering while full replaces the pending snapshot
// (latest wins), so the engine never blocks on delivery.
type snapshotQueue struct {
	ch     chan Snapshot
	done   chan struct{}
	logger *zap.Logger
}

func newSnapshotQueue(observers []Observer, logger *zap.Logger) *snapshotQueue {
	q := &snapshotQueue{
		ch:     make(chan Snapshot, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
	go func() {
		defer close(q.done)
		for s := range q.ch {
			for _, obs := range observers {
				q.deliver(obs, s)
			}
		}
	}()
	return q
}

func (q *snapshotQueue) deliver(obs Observer, s Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("observer panicked",
				zap.Int("generation", s.Generation),
				zap.Any("panic", r))
		}
	}()
	obs.OnGeneration(s)
}

// offer enqueues a snapshot without ever blocking. If the consumer has
// not drained the previous snapshot it is discarded in favor of this one.
func (q *snapshotQueue) offer(s Snapshot) {
	for {
		select {
		case q.ch <- s:
			return
		default:
			select {
			case <-q.ch:
			default:
			}
		}
	}
}

// close stops the consumer after the pending snapshot, if any, has been
// delivered. Called once the search has terminated, so waiting here never
// delays a generation.
func (q *snapshotQueue) close() {
	close(q.ch)
	<-q.done
}

// ProgressLogger is a stock observer that logs search progress. Emission
// is throttled with a token bucket so chatty runs (small catalogs iterate
// thousands of generations per second) do not flood the log.
type ProgressLogger struct {
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewProgressLogger logs at most maxPerSecond progress lines per second.
func NewProgressLogger(logger *zap.Logger, maxPerSecond float64) *ProgressLogger {
	return &ProgressLogger{
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(maxPerSecond), 1),
	}
}

func (p *ProgressLogger) OnGeneration(s Snapshot) {
	if !p.limiter.Allow() {
		return
	}
	p.logger.Info("generation completed",
		zap.String("run_id", s.RunID),
		zap.Int("generation", s.Generation),
		zap.Float64("best_fitness", s.BestFitness),
		zap.Float64("avg_fitness", s.AverageFitness),
		zap.Int("unplaced", len(s.Best.UnplacedItems)))
}
