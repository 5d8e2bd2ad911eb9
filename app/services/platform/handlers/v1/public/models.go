package public

import (
	"github.com/beanapologist/productive-mining/foundation/platform/database"
)

// startOperationRequest is the payload to begin a new mining operation.
// The field names match what the dashboard sends.
type startOperationRequest struct {
	OperationType string `json:"operationType" validate:"required"`
	Difficulty    uint   `json:"difficulty" validate:"required,gte=1"`
	MinerID       string `json:"minerId" validate:"required"`
}

// submitValidationRequest is the payload to record a discovery validation.
type submitValidationRequest struct {
	DiscoveryID uint64 `json:"discoveryId" validate:"required"`
	ValidatorID string `json:"validatorId" validate:"required"`
}

// initialData is the snapshot pushed to a websocket client right after it
// connects. Everything after this message is live events only.
type initialData struct {
	Blocks      []database.ProductiveBlock  `json:"blocks"`
	Discoveries []database.MathematicalWork `json:"discoveries"`
	Operations  []database.MiningOperation  `json:"operations"`
	Metrics     database.NetworkMetrics     `json:"metrics"`
}
