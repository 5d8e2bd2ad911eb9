package selector_test

import (
	"testing"

	"github.com/beanapologist/productive-mining/foundation/platform/database"
	"github.com/beanapologist/productive-mining/foundation/platform/selector"
)

// records come in shuffled so the strategies have something to order.
func records() []database.MathematicalWork {
	return []database.MathematicalWork{
		{ID: 3, ScientificValue: 900},
		{ID: 1, ScientificValue: 400},
		{ID: 5, ScientificValue: 100},
		{ID: 2, ScientificValue: 1600},
		{ID: 4, ScientificValue: 400},
	}
}

func Test_Retrieve(t *testing.T) {
	if _, err := selector.Retrieve(selector.StrategyFifo); err != nil {
		t.Fatalf("expected the fifo strategy to exist: %v", err)
	}
	if _, err := selector.Retrieve(selector.StrategyValue); err != nil {
		t.Fatalf("expected the value strategy to exist: %v", err)
	}
	if _, err := selector.Retrieve("lifo"); err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
}

func Test_FifoSelect(t *testing.T) {
	fn, err := selector.Retrieve(selector.StrategyFifo)
	if err != nil {
		t.Fatal(err)
	}

	got := fn(records(), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}

	exp := []uint64{1, 2, 3}
	for i, record := range got {
		if record.ID != exp[i] {
			t.Fatalf("expected id %d at position %d, got %d", exp[i], i, record.ID)
		}
	}

	if got := fn(records(), -1); len(got) != 5 {
		t.Fatalf("expected all 5 records for -1, got %d", len(got))
	}
}

func Test_ValueSelect(t *testing.T) {
	fn, err := selector.Retrieve(selector.StrategyValue)
	if err != nil {
		t.Fatal(err)
	}

	got := fn(records(), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}

	exp := []uint64{2, 3, 1}
	for i, record := range got {
		if record.ID != exp[i] {
			t.Fatalf("expected id %d at position %d, got %d", exp[i], i, record.ID)
		}
	}
}

func Test_ValueSelectStableTies(t *testing.T) {
	fn, err := selector.Retrieve(selector.StrategyValue)
	if err != nil {
		t.Fatal(err)
	}

	// Records 1 and 4 carry the same value, the earlier id must win.
	got := fn(records(), 5)

	var pos1, pos4 int
	for i, record := range got {
		switch record.ID {
		case 1:
			pos1 = i
		case 4:
			pos4 = i
		}
	}
	if pos1 > pos4 {
		t.Fatal("expected the earlier id first on a value tie")
	}
}

func Test_SelectFewerThanRequested(t *testing.T) {
	fn, err := selector.Retrieve(selector.StrategyFifo)
	if err != nil {
		t.Fatal(err)
	}

	got := fn(records()[:2], 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}
