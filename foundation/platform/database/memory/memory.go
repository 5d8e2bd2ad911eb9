// Package memory implements the ability to read and write platform records
// to memory using slices. This is the only storage the simulated platform
// carries, there is no durable variant.
package memory

import (
	"errors"
	"sync"

	"github.com/beanapologist/productive-mining/foundation/platform/database"
)

// Memory represents the storage implementation for reading and storing
// work records and blocks in memory. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	works  []database.MathematicalWork
	blocks []database.ProductiveBlock
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// WriteWork takes the specified work record and stores it in memory. Work
// ids are monotonic, out of order writes are rejected.
func (m *Memory) WriteWork(work database.MathematicalWork) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := len(m.works)
	if l+1 != int(work.ID) {
		return errors.New("work record is out of order")
	}

	m.works = append(m.works, work)

	return nil
}

// GetWork searches the store to locate and return the specified work
// record by id.
func (m *Memory) GetWork(id uint64) (database.MathematicalWork, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l := uint64(len(m.works))
	if id == 0 || id > l {
		return database.MathematicalWork{}, errors.New("work record does not exist")
	}

	return m.works[id-1], nil
}

// WorkCount returns the number of work records written.
func (m *Memory) WorkCount() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return uint64(len(m.works))
}

// ForEachWork returns an iterator to walk through all the work records
// starting with record id 1.
func (m *Memory) ForEachWork() database.WorkIterator {
	return &workIterator{storage: m, current: 1}
}

// WriteBlock takes the specified block and stores it in memory. Blocks must
// be written in index order.
func (m *Memory) WriteBlock(block database.ProductiveBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := len(m.blocks)
	if l+1 != int(block.Header.Index) {
		return errors.New("block is out of order")
	}

	m.blocks = append(m.blocks, block)

	return nil
}

// GetBlock searches the store to locate and return the specified block
// by index.
func (m *Memory) GetBlock(index uint64) (database.ProductiveBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l := uint64(len(m.blocks))
	if index == 0 || index > l {
		return database.ProductiveBlock{}, errors.New("block does not exist")
	}

	return m.blocks[index-1], nil
}

// BlockCount returns the number of blocks written.
func (m *Memory) BlockCount() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return uint64(len(m.blocks))
}

// ForEachBlock returns an iterator to walk through all the blocks
// starting with block index 1.
func (m *Memory) ForEachBlock() database.BlockIterator {
	return &blockIterator{storage: m, current: 1}
}

// Reset clears out all stored records.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.works = []database.MathematicalWork{}
	m.blocks = []database.ProductiveBlock{}
	return nil
}

// =============================================================================

// workIterator represents the iteration implementation for walking through
// the work records. This implements the database WorkIterator interface.
type workIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current record id being iterated over.
	eoc     bool    // Represents the iterator is at the end of the set.
}

// Next retrieves the next work record.
func (wi *workIterator) Next() (database.MathematicalWork, error) {
	if wi.eoc {
		return database.MathematicalWork{}, errors.New("end of work records")
	}

	work, err := wi.storage.GetWork(wi.current)
	if err != nil {
		wi.eoc = true
	}

	wi.current++

	return work, err
}

// Done returns the end of set value.
func (wi *workIterator) Done() bool {
	return wi.eoc
}

// blockIterator represents the iteration implementation for walking through
// the blocks. This implements the database BlockIterator interface.
type blockIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current block index being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block.
func (bi *blockIterator) Next() (database.ProductiveBlock, error) {
	if bi.eoc {
		return database.ProductiveBlock{}, errors.New("end of chain")
	}

	block, err := bi.storage.GetBlock(bi.current)
	if err != nil {
		bi.eoc = true
	}

	bi.current++

	return block, err
}

// Done returns the end of chain value.
func (bi *blockIterator) Done() bool {
	return bi.eoc
}
