package state_test

import (
	"errors"
	"testing"
	"time"

	"github.com/beanapologist/productive-mining/foundation/platform/database"
	"github.com/beanapologist/productive-mining/foundation/platform/database/memory"
	"github.com/beanapologist/productive-mining/foundation/platform/genesis"
	"github.com/beanapologist/productive-mining/foundation/platform/state"
	"github.com/beanapologist/productive-mining/foundation/platform/work"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	MINER_ECDSA = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

// newState constructs a fully wired engine against in-memory storage with
// the default genesis. The returned events slice collects every event tag
// the engine emits.
func newState(t *testing.T) (*state.State, *[]string) {
	storage, err := memory.New()
	ifErrFailNow(t, err)

	key, err := crypto.HexToECDSA(MINER_ECDSA)
	ifErrFailNow(t, err)

	var eventTags []string
	ev := func(typ string, data any) {
		eventTags = append(eventTags, typ)
	}

	st, err := state.New(state.Config{
		MinerID:        "miner-test",
		Genesis:        genesis.Default(),
		Storage:        storage,
		SelectStrategy: "fifo",
		PrivateKey:     key,
		EvHandler:      ev,
	})
	ifErrFailNow(t, err)

	return st, &eventTags
}

// runToCompletion ticks the engine until no operations remain active. The
// tick increment is always positive so the bound is generous, not load
// bearing.
func runToCompletion(t *testing.T, st *state.State) {
	now := time.Now()
	for i := 0; i < 2_000; i++ {
		ifErrFailNow(t, st.Tick(now))
		if len(st.Operations()) == 0 {
			return
		}
		now = now.Add(time.Second)
	}
	t.Fatal("operations never completed")
}

func Test_OperationLifecycle(t *testing.T) {
	st, _ := newState(t)
	defer st.Shutdown()

	op, err := st.StartOperation(work.TypeRiemannZero, 10, "alice")
	ifErrFailNow(t, err)

	if op.Status != database.StatusActive {
		t.Fatalf("expected status %q, got %q", database.StatusActive, op.Status)
	}
	if op.Progress != 0 {
		t.Fatalf("expected zero progress, got %f", op.Progress)
	}

	got, exists := st.Operation(op.ID)
	if !exists {
		t.Fatal("expected operation in the active set")
	}
	if got.ID != op.ID {
		t.Fatalf("expected operation %q, got %q", op.ID, got.ID)
	}

	runToCompletion(t, st)

	// Completion must produce exactly one work record.
	records, err := st.Discoveries(-1, 0, "")
	ifErrFailNow(t, err)
	if len(records) != 1 {
		t.Fatalf("expected 1 work record, got %d", len(records))
	}

	record := records[0]
	if record.ID != 1 {
		t.Fatalf("expected record id 1, got %d", record.ID)
	}
	if record.WorkType != work.TypeRiemannZero {
		t.Fatalf("expected work type %q, got %q", work.TypeRiemannZero, record.WorkType)
	}
	if record.WorkerID != "alice" {
		t.Fatalf("expected worker id alice, got %q", record.WorkerID)
	}
	if record.ScientificValue <= 0 {
		t.Fatalf("expected positive scientific value, got %f", record.ScientificValue)
	}
	if record.Signature == "" {
		t.Fatal("expected a signature on the record")
	}

	// The valuation must match the pure computation for the same inputs.
	outcome, err := work.Compute(work.TypeRiemannZero, 10, st.Genesis().BaseValues)
	ifErrFailNow(t, err)
	if record.ScientificValue != outcome.ScientificValue {
		t.Fatalf("expected scientific value %f, got %f", outcome.ScientificValue, record.ScientificValue)
	}
}

func Test_StartOperationValidation(t *testing.T) {
	st, _ := newState(t)
	defer st.Shutdown()

	if _, err := st.StartOperation("alchemy", 10, "alice"); err == nil {
		t.Fatal("expected an error for an unknown work type")
	}

	if _, err := st.StartOperation(work.TypeGoldbach, 500, "alice"); err == nil {
		t.Fatal("expected an error for difficulty above the bound")
	}

	if _, err := st.StartOperation(work.TypeGoldbach, 10, ""); err == nil {
		t.Fatal("expected an error for a missing miner id")
	}
}

func Test_CancelOperation(t *testing.T) {
	st, _ := newState(t)
	defer st.Shutdown()

	op, err := st.StartOperation(work.TypePrimePattern, 25, "bob")
	ifErrFailNow(t, err)

	canceled, err := st.CancelOperation(op.ID)
	ifErrFailNow(t, err)

	if canceled.Status != database.StatusFailed {
		t.Fatalf("expected status %q, got %q", database.StatusFailed, canceled.Status)
	}
	if len(st.Operations()) != 0 {
		t.Fatal("expected the active set to be empty")
	}

	stats, err := st.Statistics()
	ifErrFailNow(t, err)
	if stats.FailedOperations != 1 {
		t.Fatalf("expected 1 failed operation, got %d", stats.FailedOperations)
	}

	if _, err := st.CancelOperation(op.ID); err == nil {
		t.Fatal("expected an error canceling an unknown operation")
	}
}

func Test_StallDeadline(t *testing.T) {
	storage, err := memory.New()
	ifErrFailNow(t, err)

	key, err := crypto.HexToECDSA(MINER_ECDSA)
	ifErrFailNow(t, err)

	// A tiny increment base against the highest difficulty keeps progress
	// far from 100 inside the deadline.
	gen := genesis.Default()
	gen.StallTicks = 3
	gen.TickIncrementBase = 1

	st, err := state.New(state.Config{
		MinerID:        "miner-test",
		Genesis:        gen,
		Storage:        storage,
		SelectStrategy: "fifo",
		PrivateKey:     key,
	})
	ifErrFailNow(t, err)
	defer st.Shutdown()

	op, err := st.StartOperation(work.TypeBirchSwinnertonDyer, 200, "ivan")
	ifErrFailNow(t, err)

	now := time.Now()
	for i := 0; i < 10; i++ {
		ifErrFailNow(t, st.Tick(now))
		now = now.Add(time.Second)
	}

	if _, exists := st.Operation(op.ID); exists {
		t.Fatal("expected the stalled operation to leave the active set")
	}

	records, err := st.Discoveries(-1, 0, "")
	ifErrFailNow(t, err)
	if len(records) != 0 {
		t.Fatalf("expected no work records from a stalled operation, got %d", len(records))
	}

	stats, err := st.Statistics()
	ifErrFailNow(t, err)
	if stats.FailedOperations != 1 {
		t.Fatalf("expected 1 failed operation, got %d", stats.FailedOperations)
	}
	if stats.CompletedOperations != 0 {
		t.Fatalf("expected no completed operations, got %d", stats.CompletedOperations)
	}
}

func Test_Aggregation(t *testing.T) {
	st, _ := newState(t)
	defer st.Shutdown()

	types := work.Types()
	for i := 0; i < 7; i++ {
		_, err := st.StartOperation(types[i%len(types)], uint(5+i), "carol")
		ifErrFailNow(t, err)
	}
	runToCompletion(t, st)

	// Seven unlinked records and a batch size of five must produce two
	// blocks and then run dry.
	block1, err := st.AggregateTick(time.Now())
	ifErrFailNow(t, err)
	if block1.Header.Index != 1 {
		t.Fatalf("expected block index 1, got %d", block1.Header.Index)
	}
	if len(block1.WorkIDs) != 5 {
		t.Fatalf("expected 5 work records in block, got %d", len(block1.WorkIDs))
	}

	block2, err := st.AggregateTick(time.Now())
	ifErrFailNow(t, err)
	if block2.Header.Index != 2 {
		t.Fatalf("expected block index 2, got %d", block2.Header.Index)
	}
	if len(block2.WorkIDs) != 2 {
		t.Fatalf("expected 2 work records in block, got %d", len(block2.WorkIDs))
	}

	if block2.Header.PreviousHash != block1.BlockHash {
		t.Fatal("expected block 2 to link to block 1")
	}
	if block1.BlockHash == block2.BlockHash {
		t.Fatal("expected distinct block hashes")
	}

	if _, err := st.AggregateTick(time.Now()); !errors.Is(err, state.ErrNoWork) {
		t.Fatalf("expected ErrNoWork, got %v", err)
	}

	// The block value must equal the sum of its records.
	records, err := st.BlockWork(1)
	ifErrFailNow(t, err)

	var sum float64
	for _, record := range records {
		sum += record.ScientificValue
	}
	if block1.TotalScientificValue != sum {
		t.Fatalf("expected block value %f, got %f", sum, block1.TotalScientificValue)
	}

	if st.LatestBlock().Header.Index != 2 {
		t.Fatalf("expected chain head at index 2, got %d", st.LatestBlock().Header.Index)
	}
}

func Test_Integrity(t *testing.T) {
	st, _ := newState(t)
	defer st.Shutdown()

	for i := 0; i < 6; i++ {
		_, err := st.StartOperation(work.TypeYangMills, uint(10+i), "dave")
		ifErrFailNow(t, err)
	}
	runToCompletion(t, st)

	for {
		if _, err := st.AggregateTick(time.Now()); err != nil {
			if errors.Is(err, state.ErrNoWork) {
				break
			}
			ifErrFailNow(t, err)
		}
	}

	report, err := st.CheckIntegrity()
	ifErrFailNow(t, err)

	if !report.Valid {
		t.Fatalf("expected a valid chain, problems: %v", report.Problems)
	}
	if report.BlocksChecked != st.LatestBlock().Header.Index {
		t.Fatalf("expected %d blocks checked, got %d", st.LatestBlock().Header.Index, report.BlocksChecked)
	}
}

func Test_Validation(t *testing.T) {
	st, _ := newState(t)
	defer st.Shutdown()

	_, err := st.StartOperation(work.TypeGoldbach, 15, "erin")
	ifErrFailNow(t, err)
	runToCompletion(t, st)

	validation, err := st.SubmitValidation(1, "mit-dci")
	ifErrFailNow(t, err)

	if validation.DiscoveryID != 1 {
		t.Fatalf("expected discovery id 1, got %d", validation.DiscoveryID)
	}
	if validation.Outcome != database.ValidationApproved && validation.Outcome != database.ValidationRejected {
		t.Fatalf("unexpected outcome %q", validation.Outcome)
	}
	if len(st.Validations()) != 1 {
		t.Fatalf("expected 1 recorded validation, got %d", len(st.Validations()))
	}

	// The outcome is deterministic on the id pair.
	again, err := st.SubmitValidation(1, "mit-dci")
	ifErrFailNow(t, err)
	if again.Outcome != validation.Outcome {
		t.Fatal("expected a repeatable outcome for the same id pair")
	}

	if _, err := st.SubmitValidation(99, "mit-dci"); !errors.Is(err, state.ErrDiscoveryNotFound) {
		t.Fatalf("expected ErrDiscoveryNotFound, got %v", err)
	}
	if _, err := st.SubmitValidation(1, "unknown"); !errors.Is(err, state.ErrValidatorNotFound) {
		t.Fatalf("expected ErrValidatorNotFound, got %v", err)
	}

	// Validation participation must move the validator's counters.
	for _, v := range st.Validators() {
		if v.ID == "mit-dci" && v.ValidationCount != 2 {
			t.Fatalf("expected validation count 2, got %d", v.ValidationCount)
		}
	}
}

func Test_Metrics(t *testing.T) {
	st, _ := newState(t)
	defer st.Shutdown()

	_, err := st.StartOperation(work.TypeNavierStokes, 20, "frank")
	ifErrFailNow(t, err)
	runToCompletion(t, st)

	_, err = st.AggregateTick(time.Now())
	ifErrFailNow(t, err)

	metrics, err := st.MetricsTick(time.Now())
	ifErrFailNow(t, err)

	if metrics.TotalMiners != 1 {
		t.Fatalf("expected 1 miner, got %d", metrics.TotalMiners)
	}
	if metrics.BlocksPerHour != 1 {
		t.Fatalf("expected 1 block in the last hour, got %f", metrics.BlocksPerHour)
	}
	if metrics.TotalScientificValue <= 0 {
		t.Fatalf("expected positive total value, got %f", metrics.TotalScientificValue)
	}
	if metrics.NetworkHealth != 100 {
		t.Fatalf("expected full network health, got %f", metrics.NetworkHealth)
	}

	if st.Metrics().ComputedAt.IsZero() {
		t.Fatal("expected the snapshot to be retained")
	}
}

func Test_Restart(t *testing.T) {
	st, _ := newState(t)
	defer st.Shutdown()

	_, err := st.StartOperation(work.TypePoincare, 30, "grace")
	ifErrFailNow(t, err)
	runToCompletion(t, st)

	_, err = st.AggregateTick(time.Now())
	ifErrFailNow(t, err)

	ifErrFailNow(t, st.Restart())

	stats, err := st.Statistics()
	ifErrFailNow(t, err)

	if stats.TotalDiscoveries != 0 || stats.TotalBlocks != 0 {
		t.Fatalf("expected an empty chain, got %d discoveries and %d blocks", stats.TotalDiscoveries, stats.TotalBlocks)
	}
	if st.LatestBlock().Header.Index != 0 {
		t.Fatal("expected the chain head to reset")
	}

	// The engine must accept new work after a restart.
	_, err = st.StartOperation(work.TypePoincare, 30, "grace")
	ifErrFailNow(t, err)
	runToCompletion(t, st)

	block, err := st.AggregateTick(time.Now())
	ifErrFailNow(t, err)
	if block.Header.Index != 1 {
		t.Fatalf("expected the chain to restart at index 1, got %d", block.Header.Index)
	}
}

func Test_Events(t *testing.T) {
	st, tags := newState(t)
	defer st.Shutdown()

	_, err := st.StartOperation(work.TypeEllipticCurveCrypto, 12, "heidi")
	ifErrFailNow(t, err)
	runToCompletion(t, st)

	_, err = st.AggregateTick(time.Now())
	ifErrFailNow(t, err)

	var discoveries, blocks int
	for _, tag := range *tags {
		switch tag {
		case "discovery_made":
			discoveries++
		case "block_mined":
			blocks++
		}
	}

	if discoveries != 1 {
		t.Fatalf("expected 1 discovery event, got %d", discoveries)
	}
	if blocks != 1 {
		t.Fatalf("expected 1 block event, got %d", blocks)
	}
}
