package memory_test

import (
	"testing"
	"time"

	"github.com/beanapologist/productive-mining/foundation/platform/database"
	"github.com/beanapologist/productive-mining/foundation/platform/database/memory"
	"github.com/beanapologist/productive-mining/foundation/platform/work"
)

func newWork(t *testing.T, id uint64) database.MathematicalWork {
	t.Helper()

	outcome, err := work.Compute(work.TypeRiemannZero, 10, nil)
	if err != nil {
		t.Fatal(err)
	}

	return database.NewMathematicalWork(id, work.TypeRiemannZero, 10, "miner-test", outcome, "0x00", "0x00", time.Now())
}

func Test_WorkOrdering(t *testing.T) {
	storage, err := memory.New()
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close()

	if err := storage.WriteWork(newWork(t, 1)); err != nil {
		t.Fatalf("unable to write first record: %v", err)
	}

	if err := storage.WriteWork(newWork(t, 3)); err == nil {
		t.Fatal("expected an out of order write to fail")
	}

	if err := storage.WriteWork(newWork(t, 2)); err != nil {
		t.Fatalf("unable to write second record: %v", err)
	}

	if storage.WorkCount() != 2 {
		t.Fatalf("expected 2 records, got %d", storage.WorkCount())
	}
}

func Test_WorkLookup(t *testing.T) {
	storage, err := memory.New()
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close()

	if err := storage.WriteWork(newWork(t, 1)); err != nil {
		t.Fatal(err)
	}

	record, err := storage.GetWork(1)
	if err != nil {
		t.Fatalf("unable to read record: %v", err)
	}
	if record.ID != 1 {
		t.Fatalf("expected record id 1, got %d", record.ID)
	}

	if _, err := storage.GetWork(0); err == nil {
		t.Fatal("expected an error for id 0")
	}
	if _, err := storage.GetWork(2); err == nil {
		t.Fatal("expected an error for a missing record")
	}
}

func Test_WorkIteration(t *testing.T) {
	storage, err := memory.New()
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close()

	for id := uint64(1); id <= 5; id++ {
		if err := storage.WriteWork(newWork(t, id)); err != nil {
			t.Fatal(err)
		}
	}

	var ids []uint64
	iter := storage.ForEachWork()
	for record, err := iter.Next(); !iter.Done(); record, err = iter.Next() {
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, record.ID)
	}

	if len(ids) != 5 {
		t.Fatalf("expected 5 records, got %d", len(ids))
	}
	for i, id := range ids {
		if id != uint64(i+1) {
			t.Fatalf("expected id %d at position %d, got %d", i+1, i, id)
		}
	}
}

func Test_Reset(t *testing.T) {
	storage, err := memory.New()
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close()

	if err := storage.WriteWork(newWork(t, 1)); err != nil {
		t.Fatal(err)
	}

	block, err := database.NewProductiveBlock(database.ProductiveBlock{}, []database.MathematicalWork{newWork(t, 1)}, "miner-test", 42, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := storage.WriteBlock(block); err != nil {
		t.Fatal(err)
	}

	if err := storage.Reset(); err != nil {
		t.Fatal(err)
	}

	if storage.WorkCount() != 0 || storage.BlockCount() != 0 {
		t.Fatal("expected empty storage after reset")
	}

	// Writes must start over at the beginning.
	if err := storage.WriteWork(newWork(t, 1)); err != nil {
		t.Fatalf("unable to write after reset: %v", err)
	}
}

func Test_BlockOrdering(t *testing.T) {
	storage, err := memory.New()
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close()

	if err := storage.WriteWork(newWork(t, 1)); err != nil {
		t.Fatal(err)
	}

	block1, err := database.NewProductiveBlock(database.ProductiveBlock{}, []database.MathematicalWork{newWork(t, 1)}, "miner-test", 1, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	if err := storage.WriteBlock(block1); err != nil {
		t.Fatalf("unable to write first block: %v", err)
	}
	if err := storage.WriteBlock(block1); err == nil {
		t.Fatal("expected a duplicate index write to fail")
	}

	got, err := storage.GetBlock(1)
	if err != nil {
		t.Fatal(err)
	}
	if got.BlockHash != block1.BlockHash {
		t.Fatal("expected the stored block back")
	}
}
