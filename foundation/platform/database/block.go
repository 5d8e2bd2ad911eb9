package database

import (
	"time"

	"github.com/beanapologist/productive-mining/foundation/platform/merkle"
	"github.com/beanapologist/productive-mining/foundation/platform/signature"
)

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Index        uint64 `json:"index"`        // Block number in the chain, unique and monotonic.
	Timestamp    uint64 `json:"timestamp"`    // Time the block was aggregated.
	PreviousHash string `json:"previousHash"` // Hash of the previous block in the chain.
	MerkleRoot   string `json:"merkleRoot"`   // Merkle tree root hash for the work records in this block.
	Difficulty   uint   `json:"difficulty"`   // Highest difficulty among the aggregated work records.
	Nonce        uint64 `json:"nonce"`        // Cosmetic only, no puzzle is solved to find it.
	MinerID      string `json:"minerId"`      // The worker credited with the block.
}

// ProductiveBlock represents a group of work records batched together.
// The chain linkage is never checked on the read path, only the on-demand
// integrity check walks it.
type ProductiveBlock struct {
	Header               BlockHeader `json:"header"`
	BlockHash            string      `json:"blockHash"`
	TotalScientificValue float64     `json:"totalScientificValue"`
	EnergyConsumed       float64     `json:"energyConsumed"`
	KnowledgeCreated     uint        `json:"knowledgeCreated"`
	WorkIDs              []uint64    `json:"workIds"`
}

// NewProductiveBlock aggregates a batch of work records into the next block
// in the chain.
func NewProductiveBlock(prevBlock ProductiveBlock, batch []MathematicalWork, minerID string, nonce uint64, now time.Time) (ProductiveBlock, error) {

	// When aggregating the first block, the previous block's hash will
	// be zero.
	prevHash := signature.ZeroHash
	if prevBlock.Header.Index > 0 {
		prevHash = prevBlock.BlockHash
	}

	tree, err := merkle.NewTree(batch)
	if err != nil {
		return ProductiveBlock{}, err
	}

	var totalValue float64
	var energy float64
	var difficulty uint
	workIDs := make([]uint64, len(batch))
	for i, mw := range batch {
		totalValue += mw.ScientificValue
		energy += mw.ComputationalCost / 1000
		if mw.Difficulty > difficulty {
			difficulty = mw.Difficulty
		}
		workIDs[i] = mw.ID
	}

	nb := ProductiveBlock{
		Header: BlockHeader{
			Index:        prevBlock.Header.Index + 1,
			Timestamp:    uint64(now.UTC().Unix()),
			PreviousHash: prevHash,
			MerkleRoot:   tree.RootHex(),
			Difficulty:   difficulty,
			Nonce:        nonce,
			MinerID:      minerID,
		},
		TotalScientificValue: totalValue,
		EnergyConsumed:       energy,
		KnowledgeCreated:     uint(len(batch)),
		WorkIDs:              workIDs,
	}
	nb.BlockHash = nb.Hash()

	return nb, nil
}

// Hash returns the unique hash for the block. Only the header is hashed so
// the chain can be walked with headers alone.
func (b ProductiveBlock) Hash() string {
	if b.Header.Index == 0 {
		return signature.ZeroHash
	}

	return signature.Hash(b.Header)
}
