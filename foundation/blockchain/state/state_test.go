package state_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const owner = genesis.DefaultOwner

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newState(t *testing.T, strg database.Storage) *state.State {
	if strg == nil {
		m, err := memory.New()
		ifErrFailNow(t, err)
		strg = m
	}

	ev := func(v string, args ...any) {
		t.Logf(v, args...)
	}

	st, err := state.New(state.Config{
		Genesis:   genesis.Default(),
		Storage:   strg,
		EvHandler: ev,
	})
	ifErrFailNow(t, err)

	return st
}

func amount(v float64) *float64 {
	return &v
}

// =============================================================================

func Test_Scenarios(t *testing.T) {
	t.Log("Given the need to run the ledger through its lifecycle.")
	{
		st := newState(t, nil)

		testID := 0
		t.Logf("\tTest %d:\tWhen the ledger only holds the genesis block.", testID)
		{
			if bal := st.Balance(owner); bal != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould have a zero owner balance, got %v.", failed, testID, bal)
			}
			t.Logf("\t%s\tTest %d:\tShould have a zero owner balance.", success, testID)

			if err := st.VerifyChain(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the owner sends without a balance.", testID)
		{
			err := st.SubmitTransaction(st.NewTx(owner, "Max", amount(5)))
			if !errors.Is(err, database.ErrInsufficientBalance) {
				t.Fatalf("\t%s\tTest %d:\tShould be rejected for insufficient balance, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be rejected for insufficient balance.", success, testID)

			if n := st.QueryPendingLength(); n != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not change the pending transactions, got %d.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould not change the pending transactions.", success, testID)

			if !reflect.DeepEqual(st.QueryParticipants(), []string{owner}) {
				t.Fatalf("\t%s\tTest %d:\tShould not change the participants: %v", failed, testID, st.QueryParticipants())
			}
			t.Logf("\t%s\tTest %d:\tShould not change the participants.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining with no pending transactions.", testID)
		{
			block, err := st.MineNewBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine.", success, testID)

			blocks := st.QueryBlocks()
			if len(blocks) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould have 2 blocks, got %d.", failed, testID, len(blocks))
			}
			t.Logf("\t%s\tTest %d:\tShould have 2 blocks.", success, testID)

			exp := []database.Tx{database.NewRewardTx(owner, 10)}
			if !reflect.DeepEqual(block.Transactions, exp) || !reflect.DeepEqual(blocks[1].Transactions, exp) {
				t.Fatalf("\t%s\tTest %d:\tShould only hold the reward: %v", failed, testID, blocks[1].Transactions)
			}
			t.Logf("\t%s\tTest %d:\tShould only hold the reward.", success, testID)

			if bal := st.Balance(owner); bal != 10 {
				t.Fatalf("\t%s\tTest %d:\tShould have an owner balance of 10, got %v.", failed, testID, bal)
			}
			t.Logf("\t%s\tTest %d:\tShould have an owner balance of 10.", success, testID)

			if err := st.VerifyChain(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the owner sends to Max and mines.", testID)
		{
			if err := st.SubmitTransaction(st.NewTx(owner, "Max", amount(5))); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept the transaction: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept the transaction.", success, testID)

			if bal := st.Balance(owner); bal != 5 {
				t.Fatalf("\t%s\tTest %d:\tShould count the pending send, got %v.", failed, testID, bal)
			}
			if bal := st.Balance("Max"); bal != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not count the pending receipt, got %v.", failed, testID, bal)
			}
			t.Logf("\t%s\tTest %d:\tShould count pending sends but not pending receipts.", success, testID)

			if err := st.VerifyPending(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould have valid pending transactions: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have valid pending transactions.", success, testID)

			if _, err := st.MineNewBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine.", success, testID)

			blocks := st.QueryBlocks()
			exp := []database.Tx{
				database.NewTx(owner, "Max", 5),
				database.NewRewardTx(owner, 10),
			}
			if len(blocks) != 3 || !reflect.DeepEqual(blocks[2].Transactions, exp) {
				t.Fatalf("\t%s\tTest %d:\tShould hold the send and the reward: %v", failed, testID, blocks[len(blocks)-1].Transactions)
			}
			t.Logf("\t%s\tTest %d:\tShould hold the send and the reward.", success, testID)

			if n := st.QueryPendingLength(); n != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould clear the pending transactions, got %d.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould clear the pending transactions.", success, testID)

			if bal := st.Balance(owner); bal != 15 {
				t.Fatalf("\t%s\tTest %d:\tShould have an owner balance of 15, got %v.", failed, testID, bal)
			}
			if bal := st.Balance("Max"); bal != 5 {
				t.Fatalf("\t%s\tTest %d:\tShould have a Max balance of 5, got %v.", failed, testID, bal)
			}
			t.Logf("\t%s\tTest %d:\tShould have the right balances.", success, testID)

			exp2 := []string{database.RewardSender, "Max", owner}
			if !reflect.DeepEqual(st.QueryParticipants(), exp2) {
				t.Fatalf("\t%s\tTest %d:\tShould have the right participants: %v", failed, testID, st.QueryParticipants())
			}
			t.Logf("\t%s\tTest %d:\tShould have the right participants.", success, testID)

			if err := st.VerifyChain(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the genesis block is manipulated.", testID)
		{
			st.Tamper(database.NewTx("Chris", "Max", 100))

			err := st.VerifyChain()

			var ce *database.ChainError
			if !errors.As(err, &ce) || ce.Index != 1 || !errors.Is(err, database.ErrInvalidLinkage) {
				t.Fatalf("\t%s\tTest %d:\tShould report block 1 has an invalid link, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould report block 1 has an invalid link.", success, testID)
		}
	}
}

func Test_Defaults(t *testing.T) {
	t.Log("Given the need to apply transaction defaults.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the sender and amount are omitted.", testID)
		{
			st := newState(t, nil)

			tx := st.NewTx("", "Max", nil)
			if tx.Sender != owner || tx.Amount != genesis.DefaultAmount {
				t.Fatalf("\t%s\tTest %d:\tShould use the owner and default amount: %s", failed, testID, tx)
			}
			t.Logf("\t%s\tTest %d:\tShould use the owner and default amount.", success, testID)
		}
	}
}

func Test_Rejections(t *testing.T) {
	type table struct {
		name string
		tx   database.Tx
		err  error
	}

	tt := []table{
		{name: "norecipient", tx: database.NewTx(owner, "", 1), err: database.ErrInvalidTx},
		{name: "negative", tx: database.NewTx(owner, "Max", -1), err: database.ErrInvalidTx},
		{name: "nan", tx: database.NewTx(owner, "Max", math.NaN()), err: database.ErrInvalidTx},
		{name: "infinite", tx: database.NewTx(owner, "Max", math.Inf(1)), err: database.ErrInvalidTx},
		{name: "reward", tx: database.NewTx(database.RewardSender, "Max", 0), err: database.ErrInvalidTx},
		{name: "overspend", tx: database.NewTx(owner, "Max", 10.5), err: database.ErrInsufficientBalance},
	}

	t.Log("Given the need to reject bad transactions.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen submitting the %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					st := newState(t, nil)
					_, err := st.MineNewBlock(context.Background())
					ifErrFailNow(t, err)

					if err := st.SubmitTransaction(tst.tx); !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould get %v, got %v.", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get %v.", success, testID, tst.err)

					if n := st.QueryPendingLength(); n != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould not change the pending transactions.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not change the pending transactions.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_DoubleSpend(t *testing.T) {
	t.Log("Given the need to stop spending the same balance twice.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the pending sends use up the balance.", testID)
		{
			st := newState(t, nil)
			_, err := st.MineNewBlock(context.Background())
			ifErrFailNow(t, err)

			ifErrFailNow(t, st.SubmitTransaction(st.NewTx(owner, "Max", amount(6))))
			ifErrFailNow(t, st.SubmitTransaction(st.NewTx(owner, "Anna", amount(4))))

			if err := st.SubmitTransaction(st.NewTx(owner, "Max", amount(1))); !errors.Is(err, database.ErrInsufficientBalance) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the third send, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the third send.", success, testID)

			if err := st.SubmitTransaction(st.NewTx("Max", "Anna", amount(1))); !errors.Is(err, database.ErrInsufficientBalance) {
				t.Fatalf("\t%s\tTest %d:\tShould not let Max spend an unconfirmed receipt, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not let Max spend an unconfirmed receipt.", success, testID)

			if err := st.VerifyPending(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould have valid pending transactions: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have valid pending transactions.", success, testID)

			bals := st.Balances()
			if bals[owner] != 0 || bals["Max"] != 0 || bals["Anna"] != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould have the right balances: %v", failed, testID, bals)
			}
			t.Logf("\t%s\tTest %d:\tShould have the right balances.", success, testID)
		}
	}
}

func Test_MiningLimits(t *testing.T) {
	t.Log("Given the need to stop mining without changing the ledger.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the max attempts is reached.", testID)
		{
			gen := genesis.Default()
			gen.Difficulty = 64
			gen.MaxAttempts = 10

			m, err := memory.New()
			ifErrFailNow(t, err)

			st, err := state.New(state.Config{Genesis: gen, Storage: m})
			ifErrFailNow(t, err)

			if _, err := st.MineNewBlock(context.Background()); !errors.Is(err, database.ErrProofNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrProofNotFound, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrProofNotFound.", success, testID)

			if n := len(st.QueryBlocks()); n != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not change the chain, got %d blocks.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould not change the chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the context is cancelled.", testID)
		{
			st := newState(t, nil)
			_, err := st.MineNewBlock(context.Background())
			ifErrFailNow(t, err)
			ifErrFailNow(t, st.SubmitTransaction(st.NewTx(owner, "Max", amount(5))))

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := st.MineNewBlock(ctx); !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest %d:\tShould get context.Canceled, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get context.Canceled.", success, testID)

			if len(st.QueryBlocks()) != 2 || st.QueryPendingLength() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not change the chain or pending transactions.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not change the chain or pending transactions.", success, testID)
		}
	}
}

func Test_Persistence(t *testing.T) {
	t.Log("Given the need to keep the ledger across restarts.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the ledger is reloaded from disk.", testID)
		{
			path := filepath.Join(t.TempDir(), "ledger.txt")

			d, err := disk.New(path)
			ifErrFailNow(t, err)

			st := newState(t, d)
			_, err = st.MineNewBlock(context.Background())
			ifErrFailNow(t, err)
			ifErrFailNow(t, st.SubmitTransaction(st.NewTx(owner, "Max", amount(2.5))))
			ifErrFailNow(t, st.Shutdown())

			d2, err := disk.New(path)
			ifErrFailNow(t, err)
			st2 := newState(t, d2)

			if !reflect.DeepEqual(st2.QueryBlocks(), st.QueryBlocks()) {
				t.Fatalf("\t%s\tTest %d:\tShould reload the same chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reload the same chain.", success, testID)

			if !reflect.DeepEqual(st2.QueryPending(), st.QueryPending()) {
				t.Fatalf("\t%s\tTest %d:\tShould reload the same pending transactions.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reload the same pending transactions.", success, testID)

			if !reflect.DeepEqual(st2.QueryParticipants(), st.QueryParticipants()) {
				t.Fatalf("\t%s\tTest %d:\tShould rebuild the same participants: %v", failed, testID, st2.QueryParticipants())
			}
			t.Logf("\t%s\tTest %d:\tShould rebuild the same participants.", success, testID)

			if err := st2.VerifyChain(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould reload a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reload a valid chain.", success, testID)

			if _, err := st2.MineNewBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to keep mining: %v", failed, testID, err)
			}
			if bal := st2.Balance("Max"); bal != 2.5 {
				t.Fatalf("\t%s\tTest %d:\tShould confirm the reloaded transaction, got %v.", failed, testID, bal)
			}
			t.Logf("\t%s\tTest %d:\tShould confirm the reloaded transaction.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen an amount that can't be stored is submitted.", testID)
		{
			d, err := disk.New(filepath.Join(t.TempDir(), "ledger.txt"))
			ifErrFailNow(t, err)

			st := newState(t, d)
			_, err = st.MineNewBlock(context.Background())
			ifErrFailNow(t, err)

			if err := st.SubmitTransaction(database.NewTx(owner, "Max", math.NaN())); !errors.Is(err, database.ErrInvalidTx) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the amount, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the amount.", success, testID)

			if err := st.SubmitTransaction(st.NewTx(owner, "Anna", amount(1))); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould still persist valid transactions: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould still persist valid transactions.", success, testID)

			if _, err := st.MineNewBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould still be able to mine: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould still be able to mine.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen storage fails to write.", testID)
		{
			fs := &failStorage{}
			st := newState(t, fs)

			fs.fail = true
			block, err := st.MineNewBlock(context.Background())
			if !errors.Is(err, database.ErrPersistenceWrite) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrPersistenceWrite, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrPersistenceWrite.", success, testID)

			if block.Index != 1 || len(st.QueryBlocks()) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould keep the block in memory.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the block in memory.", success, testID)

			if err := st.VerifyChain(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould still have a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould still have a valid chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen storage fails to read.", testID)
		{
			st := newState(t, &failStorage{fail: true})

			if n := len(st.QueryBlocks()); n != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould start from genesis, got %d blocks.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould start from genesis.", success, testID)
		}
	}
}

// =============================================================================

// failStorage is a storage that fails on demand.
type failStorage struct {
	fail bool
}

func (fs *failStorage) Write(database.Snapshot) error {
	if fs.fail {
		return errors.New("disk full")
	}
	return nil
}

func (fs *failStorage) Read() (database.Snapshot, error) {
	if fs.fail {
		return database.Snapshot{}, errors.New("permission denied")
	}
	return database.Snapshot{}, database.ErrMalformed
}

func (fs *failStorage) Reset() error { return nil }
func (fs *failStorage) Close() error { return nil }
