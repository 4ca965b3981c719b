package cmd

import (
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a block with the pending transactions.",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	spinner, _ := pterm.DefaultSpinner.Start("mining")

	var blk block
	if err := call(http.MethodPost, "/v1/mining/mine", nil, &blk); err != nil {
		spinner.Fail("mining failed")
		return err
	}

	spinner.Success("block mined")

	if err := renderBlocks([]block{blk}); err != nil {
		return err
	}

	return printBalance("")
}
