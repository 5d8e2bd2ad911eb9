package worker

import (
	"errors"
	"time"

	"github.com/beanapologist/productive-mining/foundation/platform/state"
)

// progressOperations advances every active mining operation on each tick.
func (w *Worker) progressOperations() {
	w.log("worker: progressOperations: G started")
	defer w.log("worker: progressOperations: G completed")

	for {
		select {
		case <-w.progressTicker.C:
			if !w.isShutdown() {
				w.runProgressTick()
			}
		case <-w.startOperation:
			if !w.isShutdown() {
				w.runProgressTick()
			}
		case <-w.shut:
			w.log("worker: progressOperations: received shut signal")
			return
		}
	}
}

// runProgressTick performs a single advancement pass.
func (w *Worker) runProgressTick() {
	if err := w.state.Tick(time.Now()); err != nil {
		w.log("worker: runProgressTick: ERROR: %s", err)
	}
}

// aggregateOperations bundles completed work into blocks on each tick.
func (w *Worker) aggregateOperations() {
	w.log("worker: aggregateOperations: G started")
	defer w.log("worker: aggregateOperations: G completed")

	for {
		select {
		case <-w.aggregateTicker.C:
			if !w.isShutdown() {
				w.runAggregateTick()
			}
		case <-w.shut:
			w.log("worker: aggregateOperations: received shut signal")
			return
		}
	}
}

// runAggregateTick performs a single aggregation pass.
func (w *Worker) runAggregateTick() {
	block, err := w.state.AggregateTick(time.Now())
	if err != nil {
		if errors.Is(err, state.ErrNoWork) {
			return
		}
		w.log("worker: runAggregateTick: ERROR: %s", err)
		return
	}

	w.log("worker: runAggregateTick: AGGREGATED: block[%d] works[%d] value[%f]", block.Header.Index, len(block.WorkIDs), block.TotalScientificValue)
}

// metricsOperations recomputes the network metrics snapshot on each tick.
func (w *Worker) metricsOperations() {
	w.log("worker: metricsOperations: G started")
	defer w.log("worker: metricsOperations: G completed")

	for {
		select {
		case <-w.metricsTicker.C:
			if !w.isShutdown() {
				if _, err := w.state.MetricsTick(time.Now()); err != nil {
					w.log("worker: metricsOperations: ERROR: %s", err)
				}
			}
		case <-w.shut:
			w.log("worker: metricsOperations: received shut signal")
			return
		}
	}
}
