package state

import (
	"fmt"
	"time"

	"github.com/beanapologist/productive-mining/foundation/events"
	"github.com/beanapologist/productive-mining/foundation/platform/database"
	"github.com/beanapologist/productive-mining/foundation/platform/merkle"
	"github.com/beanapologist/productive-mining/foundation/platform/signature"
)

// IntegrityReport is the result of an on-demand chain walk. The hot path
// never performs these checks.
type IntegrityReport struct {
	BlocksChecked uint64    `json:"blocksChecked"`
	Valid         bool      `json:"valid"`
	Problems      []string  `json:"problems,omitempty"`
	CheckedAt     time.Time `json:"checkedAt"`
}

// CheckIntegrity walks the full chain verifying index continuity, previous
// hash linkage, the block hash and the merkle root of every block.
func (s *State) CheckIntegrity() (IntegrityReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := IntegrityReport{
		Valid:     true,
		CheckedAt: time.Now().UTC(),
	}

	prevHash := signature.ZeroHash
	var prevIndex uint64

	iter := s.storage.ForEachBlock()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return IntegrityReport{}, err
		}

		if block.Header.Index != prevIndex+1 {
			report.Problems = append(report.Problems, fmt.Sprintf("block %d: index not continuous with %d", block.Header.Index, prevIndex))
		}

		if block.Header.PreviousHash != prevHash {
			report.Problems = append(report.Problems, fmt.Sprintf("block %d: previous hash mismatch", block.Header.Index))
		}

		if block.Hash() != block.BlockHash {
			report.Problems = append(report.Problems, fmt.Sprintf("block %d: block hash mismatch", block.Header.Index))
		}

		if err := s.checkMerkleRoot(block, &report); err != nil {
			return IntegrityReport{}, err
		}

		prevHash = block.BlockHash
		prevIndex = block.Header.Index
		report.BlocksChecked++
	}

	if len(report.Problems) > 0 {
		report.Valid = false
	}

	s.evHandler(events.TypeIntegrityUpdate, report)
	if !report.Valid {
		s.evHandler(events.TypeSecurityAlert, fmt.Sprintf("chain integrity check failed: %d problems", len(report.Problems)))
	}

	return report, nil
}

// checkMerkleRoot rebuilds the merkle tree for a block from its linked work
// records and compares the root.
func (s *State) checkMerkleRoot(block database.ProductiveBlock, report *IntegrityReport) error {
	batch := make([]database.MathematicalWork, 0, len(block.WorkIDs))
	for _, id := range block.WorkIDs {
		record, err := s.storage.GetWork(id)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("block %d: work record %d missing", block.Header.Index, id))
			return nil
		}
		batch = append(batch, record)
	}

	tree, err := merkle.NewTree(batch)
	if err != nil {
		return err
	}

	if tree.RootHex() != block.Header.MerkleRoot {
		report.Problems = append(report.Problems, fmt.Sprintf("block %d: merkle root mismatch", block.Header.Index))
	}

	return nil
}
