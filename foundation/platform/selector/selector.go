// Package selector provides different algorithms for choosing which
// unlinked work records are aggregated into the next block.
package selector

import (
	"fmt"

	"github.com/beanapologist/productive-mining/foundation/platform/database"
)

// List of different select strategies.
const (
	StrategyFifo  = "fifo"
	StrategyValue = "value"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyFifo:  fifoSelect,
	StrategyValue: valueSelect,
}

// Func defines a function that takes the set of unlinked work records and
// selects howMany of them in an order based on the function's strategy.
// Receiving -1 for howMany must return all the records in the strategy's
// ordering.
type Func func(works []database.MathematicalWork, howMany int) []database.MathematicalWork

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// byID provides sorting support by the work record id value.
type byID []database.MathematicalWork

// Len returns the number of work records in the list.
func (bi byID) Len() int {
	return len(bi)
}

// Less helps to sort the list by id in ascending order to keep the records
// in the order they were produced.
func (bi byID) Less(i, j int) bool {
	return bi[i].ID < bi[j].ID
}

// Swap moves work records in the order of the id value.
func (bi byID) Swap(i, j int) {
	bi[i], bi[j] = bi[j], bi[i]
}

// =============================================================================

// byValue provides sorting support by the scientific value.
type byValue []database.MathematicalWork

// Len returns the number of work records in the list.
func (bv byValue) Len() int {
	return len(bv)
}

// Less helps to sort the list by scientific value in descending order to
// pick the records that make the most valuable block.
func (bv byValue) Less(i, j int) bool {
	return bv[i].ScientificValue > bv[j].ScientificValue
}

// Swap moves work records in the order of the scientific value.
func (bv byValue) Swap(i, j int) {
	bv[i], bv[j] = bv[j], bv[i]
}
