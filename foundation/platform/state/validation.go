package state

import (
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/beanapologist/productive-mining/foundation/events"
	"github.com/beanapologist/productive-mining/foundation/platform/database"
	"github.com/beanapologist/productive-mining/foundation/platform/validator"
	"github.com/google/uuid"
)

// Reputation movement per validation outcome.
const (
	approvedDelta = 0.5
	rejectedDelta = -1.0
)

// Sentinel errors reported by SubmitValidation.
var (
	ErrDiscoveryNotFound = errors.New("discovery does not exist")
	ErrValidatorNotFound = errors.New("validator does not exist")
)

// SubmitValidation records a simulated validation of a discovery by an
// institution. The outcome is deterministic on the discovery and validator
// ids, no real verification takes place.
func (s *State) SubmitValidation(discoveryID uint64, validatorID string) (database.Validation, error) {
	if _, err := s.storage.GetWork(discoveryID); err != nil {
		return database.Validation{}, fmt.Errorf("discovery %d: %w", discoveryID, ErrDiscoveryNotFound)
	}

	// Derive the outcome from the pair of ids. Roughly four out of five
	// validations approve.
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%s", discoveryID, validatorID)

	outcome := database.ValidationApproved
	delta := approvedDelta
	if h.Sum64()%5 == 0 {
		outcome = database.ValidationRejected
		delta = rejectedDelta
	}

	if _, err := s.validators.ApplyOutcome(validatorID, delta); err != nil {
		return database.Validation{}, fmt.Errorf("validator %q: %w", validatorID, ErrValidatorNotFound)
	}

	validation := database.Validation{
		ID:          uuid.NewString(),
		DiscoveryID: discoveryID,
		ValidatorID: validatorID,
		Outcome:     outcome,
		Timestamp:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.validations = append(s.validations, validation)
	s.mu.Unlock()

	s.evHandler(events.TypeValidationRecorded, validation)

	return validation, nil
}

// Validations returns a copy of the recorded validations.
func (s *State) Validations() []database.Validation {
	s.mu.Lock()
	defer s.mu.Unlock()

	validations := make([]database.Validation, len(s.validations))
	copy(validations, s.validations)

	return validations
}

// Validators returns the current validator set.
func (s *State) Validators() []validator.Validator {
	return s.validators.Copy()
}
