package database

import "time"

// NetworkMetrics is a periodically recomputed snapshot of platform
// activity. It is derived data, each recompute replaces the previous one.
type NetworkMetrics struct {
	TotalMiners          int       `json:"totalMiners"`
	BlocksPerHour        float64   `json:"blocksPerHour"`
	EnergyEfficiency     float64   `json:"energyEfficiency"`
	TotalScientificValue float64   `json:"totalScientificValue"`
	CO2Saved             float64   `json:"co2Saved"`
	NetworkHealth        float64   `json:"networkHealth"`
	ComputedAt           time.Time `json:"computedAt"`
}

// Validation records a single simulated validation of a discovery by an
// institution.
type Validation struct {
	ID          string    `json:"id"`
	DiscoveryID uint64    `json:"discoveryId"`
	ValidatorID string    `json:"validatorId"`
	Outcome     string    `json:"outcome"`
	Timestamp   time.Time `json:"timestamp"`
}

// Validation outcomes.
const (
	ValidationApproved = "approved"
	ValidationRejected = "rejected"
)
