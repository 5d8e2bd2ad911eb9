// Package database defines the records the platform produces and the
// storage behavior required to hold them. The store is single-process and
// in-memory, no durability is promised.
package database

// Storage interface represents the behavior required to be implemented by
// any package providing support for storing and reading the platform records.
type Storage interface {
	WriteWork(work MathematicalWork) error
	GetWork(id uint64) (MathematicalWork, error)
	WorkCount() uint64
	ForEachWork() WorkIterator

	WriteBlock(block ProductiveBlock) error
	GetBlock(index uint64) (ProductiveBlock, error)
	BlockCount() uint64
	ForEachBlock() BlockIterator

	Reset() error
	Close() error
}

// WorkIterator interface represents the behavior required to be implemented
// by any package providing support to iterate over the work records.
type WorkIterator interface {
	Next() (MathematicalWork, error)
	Done() bool
}

// BlockIterator interface represents the behavior required to be implemented
// by any package providing support to iterate over the blocks.
type BlockIterator interface {
	Next() (ProductiveBlock, error)
	Done() bool
}
