// This program performs administrative tasks against a persisted ledger
// without a running node.
package main

import (
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/app/tooling/admin/commands"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/sqlite"
	"github.com/ardanlabs/ledger/foundation/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

var (
	dbPath      string
	storageKind string
	genesisPath string
)

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN", "stderr")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Administrative tasks against a persisted ledger",
		Version:       build,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "zblock/ledger.txt", "Path to the persisted ledger.")
	rootCmd.PersistentFlags().StringVarP(&storageKind, "storage", "s", "disk", "Kind of storage: disk or sqlite.")
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", "zblock/genesis.json", "Path to the genesis file.")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "bals [participant]",
		Short: "Print the balances of the participants.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, gen, err := load(log)
			if err != nil {
				return err
			}

			var participant string
			if len(args) == 1 {
				participant = args[0]
			}

			if err := commands.Balances(os.Stdout, snapshot, gen.Owner, participant); err != nil {
				return fmt.Errorf("getting balances: %w", err)
			}
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "trans [participant]",
		Short: "Print the transactions of the chain and the pending pool.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, _, err := load(log)
			if err != nil {
				return err
			}

			var participant string
			if len(args) == 1 {
				participant = args[0]
			}

			if err := commands.Transactions(os.Stdout, snapshot, participant); err != nil {
				return fmt.Errorf("getting transactions: %w", err)
			}
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Verify the chain and the pending transactions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, gen, err := load(log)
			if err != nil {
				return err
			}

			return commands.Verify(os.Stdout, gen.Difficulty, snapshot)
		},
	})

	return rootCmd.Execute()
}

// load reads the persisted ledger and the genesis file.
func load(log *zap.SugaredLogger) (database.Snapshot, genesis.Genesis, error) {
	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return database.Snapshot{}, genesis.Genesis{}, fmt.Errorf("loading genesis: %w", err)
	}

	var strg database.Storage
	switch storageKind {
	case "disk":
		strg, err = disk.New(dbPath)
	case "sqlite":
		strg, err = sqlite.New(dbPath)
	default:
		err = fmt.Errorf("unknown storage %q, must be disk or sqlite", storageKind)
	}
	if err != nil {
		return database.Snapshot{}, genesis.Genesis{}, err
	}
	defer strg.Close()

	snapshot, err := strg.Read()
	if err != nil {
		return database.Snapshot{}, genesis.Genesis{}, fmt.Errorf("reading ledger: %w", err)
	}

	log.Infow("load", "db", dbPath, "storage", storageKind, "blocks", len(snapshot.Chain), "pending", len(snapshot.Pending))

	return snapshot, gen, nil
}
