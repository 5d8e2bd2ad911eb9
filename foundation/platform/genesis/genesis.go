// Package genesis maintains access to the genesis configuration for the
// platform.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/beanapologist/productive-mining/foundation/platform/work"
)

// ValidatorSeed declares an institution that participates in discovery
// validation from the start of the chain.
type ValidatorSeed struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	StakeAmount uint64 `json:"stake_amount"`
}

// Genesis represents the genesis configuration.
type Genesis struct {
	Date              time.Time             `json:"date"`
	ChainID           uint16                `json:"chain_id"`
	BatchSize         uint16                `json:"batch_size"`          // The maximum number of work records aggregated into a block.
	MinDifficulty     uint                  `json:"min_difficulty"`      // Lowest difficulty accepted for a mining operation.
	MaxDifficulty     uint                  `json:"max_difficulty"`      // Highest difficulty accepted for a mining operation.
	StallTicks        int                   `json:"stall_ticks"`         // Ticks an operation may run before it is failed.
	TickIncrementBase float64               `json:"tick_increment_base"` // Base progress gained per tick before difficulty scaling.
	BaseValues        map[work.Type]float64 `json:"base_values"`         // Base scientific value per work type.
	Validators        []ValidatorSeed       `json:"validators"`
}

// Default returns the compiled-in genesis configuration used when no
// genesis file is provided.
func Default() Genesis {
	baseValues := make(map[work.Type]float64)
	for i, typ := range work.Types() {
		baseValues[typ] = 1200 + float64(i)*150
	}

	return Genesis{
		Date:              time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:           73,
		BatchSize:         5,
		MinDifficulty:     1,
		MaxDifficulty:     200,
		StallTicks:        500,
		TickIncrementBase: 12,
		BaseValues:        baseValues,
		Validators: []ValidatorSeed{
			{ID: "mit-dci", Institution: "MIT Digital Currency Initiative", StakeAmount: 100_000},
			{ID: "stanford-crypto", Institution: "Stanford Applied Crypto Group", StakeAmount: 85_000},
			{ID: "cern-theory", Institution: "CERN Theoretical Physics", StakeAmount: 120_000},
			{ID: "clay-institute", Institution: "Clay Mathematics Institute", StakeAmount: 95_000},
		},
	}
}

// Load opens and consumes the genesis file. An empty path falls back to
// the default configuration.
func Load(path string) (Genesis, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis file: %w", err)
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("parsing genesis file: %w", err)
	}

	if genesis.MinDifficulty == 0 || genesis.MaxDifficulty < genesis.MinDifficulty {
		return Genesis{}, fmt.Errorf("genesis difficulty bounds invalid: [%d,%d]", genesis.MinDifficulty, genesis.MaxDifficulty)
	}

	return genesis, nil
}
