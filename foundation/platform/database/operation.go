package database

import (
	"time"

	"github.com/beanapologist/productive-mining/foundation/platform/work"
)

// Status values for a mining operation.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// MiningOperation represents an in-flight synthetic computation. The
// operation lives in the engine's active set only, it is dropped once it
// completes or fails.
type MiningOperation struct {
	ID                  string       `json:"id"`
	OperationType       work.Type    `json:"operationType"`
	MinerID             string       `json:"minerId"`
	StartTime           time.Time    `json:"startTime"`
	EstimatedCompletion time.Time    `json:"estimatedCompletion"`
	Progress            float64      `json:"progress"`
	CurrentResult       *work.Result `json:"currentResult,omitempty"`
	Difficulty          uint         `json:"difficulty"`
	Status              string       `json:"status"`
}
