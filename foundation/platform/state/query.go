package state

import (
	"sort"

	"github.com/beanapologist/productive-mining/foundation/platform/database"
	"github.com/beanapologist/productive-mining/foundation/platform/work"
)

// Operations returns a copy of the active mining operations ordered by
// start time.
func (s *State) Operations() []database.MiningOperation {
	s.mu.Lock()
	defer s.mu.Unlock()

	ops := make([]database.MiningOperation, 0, len(s.active))
	for _, o := range s.active {
		ops = append(ops, o.op)
	}

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].StartTime.Equal(ops[j].StartTime) {
			return ops[i].ID < ops[j].ID
		}
		return ops[i].StartTime.Before(ops[j].StartTime)
	})

	return ops
}

// Operation returns the specified active operation.
func (s *State) Operation(id string) (database.MiningOperation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, exists := s.active[id]
	if !exists {
		return database.MiningOperation{}, false
	}

	return o.op, true
}

// Discoveries returns a page of work records, newest first, optionally
// filtered by work type. An empty type applies no filter.
func (s *State) Discoveries(limit int, offset int, typ work.Type) ([]database.MathematicalWork, error) {
	var records []database.MathematicalWork

	iter := s.storage.ForEachWork()
	for record, err := iter.Next(); !iter.Done(); record, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if typ != "" && record.WorkType != typ {
			continue
		}
		records = append(records, record)
	}

	// Newest first.
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})

	return page(records, limit, offset), nil
}

// DiscoveryByID returns the specified work record.
func (s *State) DiscoveryByID(id uint64) (database.MathematicalWork, error) {
	return s.storage.GetWork(id)
}

// Blocks returns a page of blocks, newest first.
func (s *State) Blocks(limit int, offset int) ([]database.ProductiveBlock, error) {
	var blocks []database.ProductiveBlock

	iter := s.storage.ForEachBlock()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Header.Index > blocks[j].Header.Index
	})

	return page(blocks, limit, offset), nil
}

// BlockByIndex returns the specified block.
func (s *State) BlockByIndex(index uint64) (database.ProductiveBlock, error) {
	return s.storage.GetBlock(index)
}

// BlockWork resolves the work records aggregated into the specified block.
func (s *State) BlockWork(index uint64) ([]database.MathematicalWork, error) {
	block, err := s.storage.GetBlock(index)
	if err != nil {
		return nil, err
	}

	records := make([]database.MathematicalWork, 0, len(block.WorkIDs))
	for _, id := range block.WorkIDs {
		record, err := s.storage.GetWork(id)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Statistics is an aggregate view of platform activity.
type Statistics struct {
	TotalDiscoveries     uint64  `json:"totalDiscoveries"`
	TotalBlocks          uint64  `json:"totalBlocks"`
	TotalScientificValue float64 `json:"totalScientificValue"`
	ActiveOperations     int     `json:"activeOperations"`
	CompletedOperations  uint64  `json:"completedOperations"`
	FailedOperations     uint64  `json:"failedOperations"`
	Validators           int     `json:"validators"`
	Validations          int     `json:"validations"`
	ChainID              uint16  `json:"chainId"`
}

// Statistics returns aggregate counts across the platform.
func (s *State) Statistics() (Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var totalValue float64

	iter := s.storage.ForEachWork()
	for record, err := iter.Next(); !iter.Done(); record, err = iter.Next() {
		if err != nil {
			return Statistics{}, err
		}
		totalValue += record.ScientificValue
	}

	return Statistics{
		TotalDiscoveries:     s.storage.WorkCount(),
		TotalBlocks:          s.storage.BlockCount(),
		TotalScientificValue: totalValue,
		ActiveOperations:     len(s.active),
		CompletedOperations:  s.completedOps,
		FailedOperations:     s.failedOps,
		Validators:           s.validators.Count(),
		Validations:          len(s.validations),
		ChainID:              s.genesis.ChainID,
	}, nil
}

// page applies limit/offset to a slice.
func page[T any](items []T, limit int, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}

	items = items[offset:]
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}

	return items
}
