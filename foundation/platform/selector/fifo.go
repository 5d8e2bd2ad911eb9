package selector

import (
	"sort"

	"github.com/beanapologist/productive-mining/foundation/platform/database"
)

// fifoSelect returns work records in the order they were produced.
var fifoSelect = func(works []database.MathematicalWork, howMany int) []database.MathematicalWork {
	selected := make([]database.MathematicalWork, len(works))
	copy(selected, works)
	sort.Sort(byID(selected))

	if howMany >= 0 && len(selected) > howMany {
		selected = selected[:howMany]
	}

	return selected
}
