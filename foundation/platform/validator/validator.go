// Package validator maintains the set of institutions that validate
// discoveries and their reputation scores. No real stake slashing takes
// place, reputation moves by simulated validation outcomes.
package validator

import (
	"fmt"
	"sync"
)

// Validator represents information about an institution in the network.
type Validator struct {
	ID              string  `json:"id"`
	Institution     string  `json:"institution"`
	Reputation      float64 `json:"reputation"`
	ValidationCount int     `json:"validationCount"`
	StakeAmount     uint64  `json:"stakeAmount"`
}

// New constructs a new validator with a neutral starting reputation.
func New(id string, institution string, stake uint64) Validator {
	return Validator{
		ID:          id,
		Institution: institution,
		Reputation:  50,
		StakeAmount: stake,
	}
}

// =============================================================================

// Set represents the data representation to maintain the set of known
// validators.
type Set struct {
	mu  sync.RWMutex
	set map[string]Validator
}

// NewSet constructs a new set to manage validator information.
func NewSet() *Set {
	return &Set{
		set: make(map[string]Validator),
	}
}

// Add adds a new validator to the set.
func (vs *Set) Add(v Validator) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	_, exists := vs.set[v.ID]
	if !exists {
		vs.set[v.ID] = v
		return true
	}

	return false
}

// Lookup returns the specified validator from the set.
func (vs *Set) Lookup(id string) (Validator, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	v, exists := vs.set[id]
	if !exists {
		return Validator{}, fmt.Errorf("validator %q does not exist", id)
	}

	return v, nil
}

// ApplyOutcome adjusts a validator's reputation for a validation it
// performed and returns the updated record. Reputation stays in [0,100].
func (vs *Set) ApplyOutcome(id string, delta float64) (Validator, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	v, exists := vs.set[id]
	if !exists {
		return Validator{}, fmt.Errorf("validator %q does not exist", id)
	}

	v.Reputation += delta
	if v.Reputation < 0 {
		v.Reputation = 0
	}
	if v.Reputation > 100 {
		v.Reputation = 100
	}
	v.ValidationCount++

	vs.set[id] = v
	return v, nil
}

// Copy returns a list of the known validators.
func (vs *Set) Copy() []Validator {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	validators := make([]Validator, 0, len(vs.set))
	for _, v := range vs.set {
		validators = append(validators, v)
	}

	return validators
}

// Count returns the number of known validators.
func (vs *Set) Count() int {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	return len(vs.set)
}
