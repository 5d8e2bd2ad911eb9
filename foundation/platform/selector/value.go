package selector

import (
	"sort"

	"github.com/beanapologist/productive-mining/foundation/platform/database"
)

// valueSelect returns the work records carrying the highest scientific
// value. Ties keep the record production order since the sort is applied
// after an id sort.
var valueSelect = func(works []database.MathematicalWork, howMany int) []database.MathematicalWork {
	selected := make([]database.MathematicalWork, len(works))
	copy(selected, works)
	sort.Sort(byID(selected))
	sort.Stable(byValue(selected))

	if howMany >= 0 && len(selected) > howMany {
		selected = selected[:howMany]
	}

	return selected
}
