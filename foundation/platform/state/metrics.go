package state

import (
	"time"

	"github.com/beanapologist/productive-mining/foundation/events"
	"github.com/beanapologist/productive-mining/foundation/platform/database"
)

// co2PerKWH is the cosmetic kilograms of CO2 the platform claims to save
// per unit of redirected energy. Like the rest of the valuation numbers it
// is a fabrication.
const co2PerKWH = 0.233

// MetricsTick recomputes the network metrics snapshot from storage and the
// active set, replacing the previous snapshot.
func (s *State) MetricsTick(now time.Time) (database.NetworkMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	miners := make(map[string]bool)
	var totalValue float64
	var totalEfficiency float64
	var totalEnergy float64
	var workCount int

	iter := s.storage.ForEachWork()
	for record, err := iter.Next(); !iter.Done(); record, err = iter.Next() {
		if err != nil {
			return database.NetworkMetrics{}, err
		}

		miners[record.WorkerID] = true
		totalValue += record.ScientificValue
		totalEfficiency += record.EnergyEfficiency
		totalEnergy += record.ComputationalCost / 1000
		workCount++
	}

	for _, o := range s.active {
		miners[o.op.MinerID] = true
	}

	var blocksLastHour int
	cutoff := uint64(now.Add(-time.Hour).UTC().Unix())

	bIter := s.storage.ForEachBlock()
	for block, err := bIter.Next(); !bIter.Done(); block, err = bIter.Next() {
		if err != nil {
			return database.NetworkMetrics{}, err
		}

		if block.Header.Timestamp >= cutoff {
			blocksLastHour++
		}
	}

	var avgEfficiency float64
	if workCount > 0 {
		avgEfficiency = totalEfficiency / float64(workCount)
	}

	health := 100.0
	if s.completedOps+s.failedOps > 0 {
		health = 100 * float64(s.completedOps) / float64(s.completedOps+s.failedOps)
	}

	s.metrics = database.NetworkMetrics{
		TotalMiners:          len(miners),
		BlocksPerHour:        float64(blocksLastHour),
		EnergyEfficiency:     avgEfficiency,
		TotalScientificValue: totalValue,
		CO2Saved:             totalEnergy * co2PerKWH,
		NetworkHealth:        health,
		ComputedAt:           now.UTC(),
	}

	s.evHandler(events.TypeMetricsUpdate, s.metrics)

	return s.metrics, nil
}

// Metrics returns the last computed metrics snapshot.
func (s *State) Metrics() database.NetworkMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.metrics
}
