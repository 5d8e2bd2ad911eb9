package state

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/beanapologist/productive-mining/foundation/events"
	"github.com/beanapologist/productive-mining/foundation/platform/database"
	"github.com/beanapologist/productive-mining/foundation/platform/signature"
	"github.com/beanapologist/productive-mining/foundation/platform/work"
	"github.com/google/uuid"
)

// operation wraps a mining operation with the tick bookkeeping the engine
// needs. Each operation carries its own seeded source so progress is
// reproducible for a given operation id.
type operation struct {
	op    database.MiningOperation
	rng   *rand.Rand
	ticks int
}

// StartOperation validates the request and adds a new mining operation to
// the active set with zero progress. The worker is signaled so the tick
// driver starts advancing it.
func (s *State) StartOperation(typ work.Type, difficulty uint, minerID string) (database.MiningOperation, error) {
	if _, err := work.Parse(string(typ)); err != nil {
		return database.MiningOperation{}, err
	}

	if difficulty < s.genesis.MinDifficulty || difficulty > s.genesis.MaxDifficulty {
		return database.MiningOperation{}, fmt.Errorf("difficulty %d outside bounds [%d,%d]", difficulty, s.genesis.MinDifficulty, s.genesis.MaxDifficulty)
	}

	if minerID == "" {
		return database.MiningOperation{}, fmt.Errorf("miner id is required")
	}

	now := time.Now().UTC()
	estTicks := s.estimateTicks(difficulty)

	op := database.MiningOperation{
		ID:                  uuid.NewString(),
		OperationType:       typ,
		MinerID:             minerID,
		StartTime:           now,
		EstimatedCompletion: now.Add(time.Duration(estTicks) * time.Second),
		Progress:            0,
		Difficulty:          difficulty,
		Status:              database.StatusActive,
	}

	s.mu.Lock()
	s.active[op.ID] = &operation{
		op:  op,
		rng: rand.New(rand.NewSource(seed(op.ID))),
	}
	s.mu.Unlock()

	s.evHandler(events.TypeMiningProgress, op)

	if s.Worker != nil {
		s.Worker.SignalStartOperation()
	}

	return op, nil
}

// CancelOperation moves an active operation to failed and drops it from the
// active set.
func (s *State) CancelOperation(id string) (database.MiningOperation, error) {
	s.mu.Lock()

	o, exists := s.active[id]
	if !exists {
		s.mu.Unlock()
		return database.MiningOperation{}, fmt.Errorf("operation %q does not exist", id)
	}

	delete(s.active, id)
	s.failedOps++

	op := o.op
	op.Status = database.StatusFailed
	s.mu.Unlock()

	s.evHandler(events.TypeMiningProgress, op)

	return op, nil
}

// Tick performs a single deterministic advancement pass over every active
// operation. Operations reaching 100 percent produce exactly one work
// record and leave the active set. The function exists so tests and the
// worker share the same code path without wall-clock waiting.
func (s *State) Tick(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, o := range s.active {
		o.ticks++
		o.op.Progress += increment(s.genesis.TickIncrementBase, o.op.Difficulty, o.rng)

		if o.op.Progress >= 100 {
			o.op.Progress = 100

			if err := s.completeOperation(o, now); err != nil {
				delete(s.active, id)
				s.failedOps++
				o.op.Status = database.StatusFailed
				s.evHandler(events.TypeSecurityAlert, fmt.Sprintf("operation %s failed: %v", id, err))
				continue
			}

			delete(s.active, id)
			continue
		}

		if o.ticks > s.genesis.StallTicks {
			delete(s.active, id)
			s.failedOps++
			o.op.Status = database.StatusFailed
			s.evHandler(events.TypeMiningProgress, o.op)
			continue
		}

		s.evHandler(events.TypeMiningProgress, o.op)
	}

	return nil
}

// completeOperation synthesizes the result for a finished operation and
// writes the work record. The caller must hold the state lock.
func (s *State) completeOperation(o *operation, now time.Time) error {
	outcome, err := work.Compute(o.op.OperationType, o.op.Difficulty, s.genesis.BaseValues)
	if err != nil {
		return err
	}

	verification := signature.Hash(outcome.Result)
	sig, err := signature.Sign(outcome.Result, s.privateKey)
	if err != nil {
		return err
	}

	record := database.NewMathematicalWork(s.workCounter+1, o.op.OperationType, o.op.Difficulty, o.op.MinerID, outcome, verification, sig, now)
	if err := s.storage.WriteWork(record); err != nil {
		return err
	}
	s.workCounter++
	s.completedOps++

	o.op.Status = database.StatusCompleted
	o.op.CurrentResult = &record.Result

	s.evHandler(events.TypeMiningProgress, o.op)
	s.evHandler(events.TypeDiscoveryMade, record)

	return nil
}

// estimateTicks returns the expected number of ticks an operation at the
// specified difficulty needs to complete.
func (s *State) estimateTicks(difficulty uint) int {
	avg := increment(s.genesis.TickIncrementBase, difficulty, nil)
	return int(100/avg) + 1
}

// increment returns the progress gained in one tick. Progress scales
// inversely with difficulty and carries a small jitter so concurrent
// operations don't advance in lockstep. A nil source yields the jitter
// midpoint. The value is always positive, so a bounded number of ticks
// drives any operation to completion.
func increment(base float64, difficulty uint, rng *rand.Rand) float64 {
	if base <= 0 {
		base = 12
	}

	jitter := 1.0
	if rng != nil {
		jitter = 0.8 + 0.4*rng.Float64()
	}

	return base / (1 + float64(difficulty)/25) * jitter
}

// seed derives a deterministic source seed from an operation id.
func seed(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int64(h.Sum64())
}
