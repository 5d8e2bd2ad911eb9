// Package state is the core API for the platform and implements all the
// business rules and processing.
package state

import (
	"crypto/ecdsa"
	"fmt"
	"math/rand"
	"sync"

	"github.com/beanapologist/productive-mining/foundation/platform/database"
	"github.com/beanapologist/productive-mining/foundation/platform/genesis"
	"github.com/beanapologist/productive-mining/foundation/platform/selector"
	"github.com/beanapologist/productive-mining/foundation/platform/validator"
)

// EventHandler defines a function that is called when events occur in the
// processing of operations, discoveries and blocks. The handler receives
// the event type tag and the payload to broadcast.
type EventHandler func(typ string, data any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for driving the operation, aggregation and
// metrics ticks.
type Worker interface {
	Shutdown()
	SignalStartOperation()
}

// =============================================================================

// Config represents the configuration required to start the platform engine.
type Config struct {
	MinerID        string
	Genesis        genesis.Genesis
	Storage        database.Storage
	SelectStrategy string
	PrivateKey     *ecdsa.PrivateKey
	EvHandler      EventHandler
}

// State manages the platform: the active mining operations, the work records
// and blocks in storage, and the validator set.
type State struct {
	mu sync.Mutex

	minerID    string
	genesis    genesis.Genesis
	storage    database.Storage
	privateKey *ecdsa.PrivateKey
	evHandler  EventHandler
	selectFn   selector.Func

	active       map[string]*operation
	latestBlock  database.ProductiveBlock
	linked       map[uint64]bool
	workCounter  uint64
	completedOps uint64
	failedOps    uint64

	validators  *validator.Set
	validations []database.Validation

	metrics database.NetworkMetrics
	rng     *rand.Rand

	// Worker is set by the worker package at run time. The engine never
	// drives its own clock.
	Worker Worker
}

// New constructs a new engine for managing the platform.
func New(cfg Config) (*State, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.PrivateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}

	// Build a safe event handler function for use.
	ev := func(typ string, data any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(typ, data)
		}
	}

	// Construct the select strategy for block aggregation.
	selectFn, err := selector.Retrieve(cfg.SelectStrategy)
	if err != nil {
		return nil, err
	}

	// Load any existing blocks so the chain head and the set of linked work
	// records can be rebuilt. This won't work with a chain that doesn't fit
	// in memory, which this platform never produces.
	var latestBlock database.ProductiveBlock
	linked := make(map[uint64]bool)

	iter := cfg.Storage.ForEachBlock()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		for _, id := range block.WorkIDs {
			linked[id] = true
		}
		latestBlock = block
	}

	// Seed the validator set from genesis.
	validators := validator.NewSet()
	for _, seed := range cfg.Genesis.Validators {
		validators.Add(validator.New(seed.ID, seed.Institution, seed.StakeAmount))
	}

	state := State{
		minerID:    cfg.MinerID,
		genesis:    cfg.Genesis,
		storage:    cfg.Storage,
		privateKey: cfg.PrivateKey,
		evHandler:  ev,
		selectFn:   selectFn,

		active:      make(map[string]*operation),
		latestBlock: latestBlock,
		linked:      linked,
		workCounter: cfg.Storage.WorkCount(),

		validators: validators,
		rng:        rand.New(rand.NewSource(int64(cfg.Genesis.ChainID))),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the platform.

	return &state, nil
}

// Shutdown cleanly brings the engine down.
func (s *State) Shutdown() error {

	// Make sure the storage is properly closed.
	defer func() {
		s.storage.Close()
	}()

	// Stop all tick driving activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Genesis returns a copy of the genesis configuration.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// Restart resets the chain, the active operations and the counters. This
// exists for the dev-only restart endpoint.
func (s *State) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Reset(); err != nil {
		return err
	}

	s.active = make(map[string]*operation)
	s.latestBlock = database.ProductiveBlock{}
	s.linked = make(map[uint64]bool)
	s.workCounter = 0
	s.completedOps = 0
	s.failedOps = 0
	s.validations = nil
	s.metrics = database.NetworkMetrics{}

	return nil
}
