package state

import (
	"errors"
	"time"

	"github.com/beanapologist/productive-mining/foundation/events"
	"github.com/beanapologist/productive-mining/foundation/platform/database"
)

// ErrNoWork is returned from AggregateTick when no unlinked work records
// exist to aggregate.
var ErrNoWork = errors.New("no unlinked work records to aggregate")

// AggregateTick bundles up to a batch of unlinked work records into the
// next productive block. The select strategy decides which records make
// the cut when more than a batch is waiting.
func (s *State) AggregateTick(now time.Time) (database.ProductiveBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlinked, err := s.unlinkedWorks()
	if err != nil {
		return database.ProductiveBlock{}, err
	}
	if len(unlinked) == 0 {
		return database.ProductiveBlock{}, ErrNoWork
	}

	batch := s.selectFn(unlinked, int(s.genesis.BatchSize))

	block, err := database.NewProductiveBlock(s.latestBlock, batch, s.minerID, s.rng.Uint64(), now)
	if err != nil {
		return database.ProductiveBlock{}, err
	}

	if err := s.storage.WriteBlock(block); err != nil {
		return database.ProductiveBlock{}, err
	}

	for _, id := range block.WorkIDs {
		s.linked[id] = true
	}
	s.latestBlock = block

	s.evHandler(events.TypeBlockMined, block)

	return block, nil
}

// LatestBlock returns a copy of the current chain head.
func (s *State) LatestBlock() database.ProductiveBlock {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latestBlock
}

// unlinkedWorks returns the work records not yet aggregated into a block.
// The caller must hold the state lock.
func (s *State) unlinkedWorks() ([]database.MathematicalWork, error) {
	var works []database.MathematicalWork

	iter := s.storage.ForEachWork()
	for record, err := iter.Next(); !iter.Done(); record, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if s.linked[record.ID] {
			continue
		}
		works = append(works, record)
	}

	return works, nil
}
