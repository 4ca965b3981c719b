package cmd

import (
	"fmt"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [participant]",
	Short: "Print the balance of a participant, the owner when not specified.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  balanceRun,
}

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Print the balance of every participant.",
	RunE:  balancesRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(balancesCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	var participant string
	if len(args) == 1 {
		participant = args[0]
	}

	return printBalance(participant)
}

func balancesRun(cmd *cobra.Command, args []string) error {
	var bals balances
	if err := call(http.MethodGet, "/v1/balances/list", nil, &bals); err != nil {
		return err
	}

	return renderBalances(bals)
}

// printBalance prints the balance of the participant. The owner's balance
// is printed when the participant is empty.
func printBalance(participant string) error {
	if participant == "" {
		var gen genesis
		if err := call(http.MethodGet, "/v1/genesis/list", nil, &gen); err != nil {
			return err
		}
		participant = gen.Owner
	}

	var bals balances
	if err := call(http.MethodGet, participantPath("/v1/balances/list", participant), nil, &bals); err != nil {
		return err
	}

	return renderBalances(bals)
}

func renderBalances(bals balances) error {
	data := pterm.TableData{{"Participant", "Balance"}}
	for _, bal := range bals.Balances {
		data = append(data, []string{bal.Participant, fmt.Sprintf("%v", bal.Balance)})
	}

	pterm.Info.Printfln("latest block[%s] pending[%d]", bals.LatestBlock, bals.Pending)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
