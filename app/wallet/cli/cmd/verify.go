package cmd

import (
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the chain and the pending transactions.",
	RunE:  verifyRun,
}

var tamperCmd = &cobra.Command{
	Use:   "tamper",
	Short: "Replace the genesis transactions, only on nodes that allow it.",
	RunE:  tamperRun,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(tamperCmd)
	tamperCmd.Flags().StringVarP(&sender, "from", "f", "", "Sender of the transaction, the owner when empty.")
	tamperCmd.Flags().StringVarP(&recipient, "to", "t", "", "Recipient of the transaction.")
	tamperCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount of the transaction.")
	tamperCmd.MarkFlagRequired("to")
}

func verifyRun(cmd *cobra.Command, args []string) error {
	var chain verify
	if err := call(http.MethodGet, "/v1/chain/verify", nil, &chain); err != nil {
		if isStatus(err, http.StatusConflict) {
			pterm.Error.Println("chain is invalid")
		}
		return err
	}
	pterm.Success.Printfln("chain is valid: blocks[%d]", chain.Blocks)

	var pending verify
	if err := call(http.MethodGet, "/v1/tx/pending/verify", nil, &pending); err != nil {
		if isStatus(err, http.StatusConflict) {
			pterm.Error.Println("pending transactions are invalid")
		}
		return err
	}
	pterm.Success.Printfln("pending transactions are valid: pending[%d]", pending.Pending)

	return nil
}

func tamperRun(cmd *cobra.Command, args []string) error {
	ntx := struct {
		Sender    string  `json:"sender,omitempty"`
		Recipient string  `json:"recipient"`
		Amount    float64 `json:"amount"`
	}{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}

	var resp struct {
		Genesis block `json:"genesis"`
	}
	if err := call(http.MethodPost, "/v1/chain/tamper", ntx, &resp); err != nil {
		return err
	}

	pterm.Warning.Println("genesis block replaced")
	return renderBlocks([]block{resp.Genesis})
}
