package database

import (
	"crypto/sha256"
	"encoding/json"
	"time"

	"github.com/beanapologist/productive-mining/foundation/platform/work"
)

// MathematicalWork represents a discovery, the finished product of a mining
// operation. Records are immutable once created.
type MathematicalWork struct {
	ID                uint64      `json:"id"`
	WorkType          work.Type   `json:"workType"`
	Difficulty        uint        `json:"difficulty"`
	Result            work.Result `json:"result"`
	VerificationData  string      `json:"verificationData"`
	ComputationalCost float64     `json:"computationalCost"`
	EnergyEfficiency  float64     `json:"energyEfficiency"`
	ScientificValue   float64     `json:"scientificValue"`
	WorkerID          string      `json:"workerId"`
	Signature         string      `json:"signature"`
	Timestamp         uint64      `json:"timestamp"`
}

// NewMathematicalWork constructs a work record from a computed outcome.
func NewMathematicalWork(id uint64, typ work.Type, difficulty uint, workerID string, outcome work.Outcome, verification string, sig string, now time.Time) MathematicalWork {
	return MathematicalWork{
		ID:                id,
		WorkType:          typ,
		Difficulty:        difficulty,
		Result:            outcome.Result,
		VerificationData:  verification,
		ComputationalCost: outcome.ComputationalCost,
		EnergyEfficiency:  outcome.EnergyEfficiency,
		ScientificValue:   outcome.ScientificValue,
		WorkerID:          workerID,
		Signature:         sig,
		Timestamp:         uint64(now.UTC().Unix()),
	}
}

// Hash implements the merkle Hashable interface for providing a hash of
// a work record.
func (mw MathematicalWork) Hash() ([]byte, error) {
	data, err := json.Marshal(mw)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(data)
	return hash[:], nil
}

// Equals implements the merkle Hashable interface for comparing two work
// records. Record ids are unique and monotonic.
func (mw MathematicalWork) Equals(other MathematicalWork) bool {
	return mw.ID == other.ID
}
