// Package worker implements the background processes that drive operation
// progress, block aggregation and metrics recomputation for the platform.
package worker

import (
	"sync"
	"time"

	"github.com/beanapologist/productive-mining/foundation/platform/state"
)

// Default intervals for the tick loops.
const (
	defaultProgressInterval  = time.Second
	defaultAggregateInterval = 10 * time.Second
	defaultMetricsInterval   = 15 * time.Second
)

// LogFunc defines a function the worker uses to report its lifecycle.
type LogFunc func(v string, args ...any)

// Config holds the optional settings for the worker.
type Config struct {
	ProgressInterval  time.Duration
	AggregateInterval time.Duration
	MetricsInterval   time.Duration
}

// Worker manages the tick driving workflows for the platform.
type Worker struct {
	state          *state.State
	wg             sync.WaitGroup
	shut           chan struct{}
	startOperation chan bool
	log            LogFunc

	progressTicker  *time.Ticker
	aggregateTicker *time.Ticker
	metricsTicker   *time.Ticker
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config, log LogFunc) *Worker {
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = defaultProgressInterval
	}
	if cfg.AggregateInterval <= 0 {
		cfg.AggregateInterval = defaultAggregateInterval
	}
	if cfg.MetricsInterval <= 0 {
		cfg.MetricsInterval = defaultMetricsInterval
	}

	w := Worker{
		state:          st,
		shut:           make(chan struct{}),
		startOperation: make(chan bool, 1),
		log:            log,

		progressTicker:  time.NewTicker(cfg.ProgressInterval),
		aggregateTicker: time.NewTicker(cfg.AggregateInterval),
		metricsTicker:   time.NewTicker(cfg.MetricsInterval),
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.progressOperations,
		w.aggregateOperations,
		w.metricsOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.log("worker: shutdown: started")
	defer w.log("worker: shutdown: completed")

	w.log("worker: shutdown: stop tickers")
	w.progressTicker.Stop()
	w.aggregateTicker.Stop()
	w.metricsTicker.Stop()

	w.log("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartOperation wakes the progress loop so a freshly created
// operation takes its first tick without waiting a full interval. If a
// signal is already pending, just return.
func (w *Worker) SignalStartOperation() {
	select {
	case w.startOperation <- true:
	default:
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
