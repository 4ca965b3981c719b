package disk_test

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/disk"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestReadWrite(t *testing.T) {
	genesis := database.Genesis()
	chain := []database.Block{
		genesis,
		database.NewBlock(1, genesis.Hash(), []database.Tx{database.NewRewardTx("Sender name", 10)}, 17, 1_700_000_000),
	}

	type table struct {
		name     string
		snapshot database.Snapshot
	}

	tt := []table{
		{
			name:     "nopending",
			snapshot: database.NewSnapshot(chain, nil),
		},
		{
			name: "pending",
			snapshot: database.NewSnapshot(chain, []database.Tx{
				database.NewTx("Sender name", "Max", 5),
				database.NewTx("Sender name", "Anna", 2.5),
			}),
		},
	}

	t.Log("Given the need to persist the ledger to disk.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling the %s snapshot.", testID, tst.name)
			{
				f := func(t *testing.T) {
					path := filepath.Join(t.TempDir(), "zblock", "ledger.txt")

					d, err := disk.New(path)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct storage: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to construct storage.", success, testID)

					if err := d.Write(tst.snapshot); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the snapshot: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to write the snapshot.", success, testID)

					data, err := os.ReadFile(path)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to read the file: %v", failed, testID, err)
					}
					if n := bytes.Count(data, []byte("\n")); n != 2 {
						t.Fatalf("\t%s\tTest %d:\tShould have two lines in the file, got %d.", failed, testID, n)
					}
					t.Logf("\t%s\tTest %d:\tShould have two lines in the file.", success, testID)

					got, err := d.Read()
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to read the snapshot: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to read the snapshot.", success, testID)

					if !reflect.DeepEqual(got, tst.snapshot) {
						t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, got)
						t.Logf("\t%s\tTest %d:\texp: %+v", failed, testID, tst.snapshot)
						t.Fatalf("\t%s\tTest %d:\tShould get back the same snapshot.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the same snapshot.", success, testID)

					if got.Chain[1].Hash() != tst.snapshot.Chain[1].Hash() {
						t.Fatalf("\t%s\tTest %d:\tShould get back the same block hash.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the same block hash.", success, testID)

					if err := d.Reset(); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to reset: %v", failed, testID, err)
					}
					if _, err := d.Read(); !errors.Is(err, fs.ErrNotExist) {
						t.Fatalf("\t%s\tTest %d:\tShould not find the file after a reset: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould not find the file after a reset.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestReadFailures(t *testing.T) {
	type table struct {
		name    string
		content string
		err     error
	}

	tt := []table{
		{name: "oneline", content: `[{"index":0,"previous_hash":"","transactions":[],"proof":100,"timestamp":0}]` + "\n", err: database.ErrMalformed},
		{name: "garbage", content: "not json\n[]\n", err: database.ErrMalformed},
		{name: "emptychain", content: "[]\n[]\n", err: database.ErrMalformed},
		{name: "badpending", content: `[{"index":0,"previous_hash":"","transactions":[],"proof":100,"timestamp":0}]` + "\n{}\n", err: database.ErrMalformed},
	}

	t.Log("Given the need to detect a bad ledger file.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen reading the %s file.", testID, tst.name)
			{
				f := func(t *testing.T) {
					path := filepath.Join(t.TempDir(), "ledger.txt")
					if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
					}

					d, err := disk.New(path)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct storage: %v", failed, testID, err)
					}

					if _, err := d.Read(); !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould get %v, got %v.", failed, testID, tst.err, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get %v.", success, testID, tst.err)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestWriteFailure(t *testing.T) {
	t.Log("Given the need to report a failed write.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the directory is gone.", testID)
		{
			dir := filepath.Join(t.TempDir(), "zblock")
			path := filepath.Join(dir, "ledger.txt")

			d, err := disk.New(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct storage: %v", failed, testID, err)
			}

			if err := os.RemoveAll(dir); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to remove the directory: %v", failed, testID, err)
			}

			if err := d.Write(database.NewSnapshot([]database.Block{database.Genesis()}, nil)); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould get an error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get an error.", success, testID)
		}
	}
}
