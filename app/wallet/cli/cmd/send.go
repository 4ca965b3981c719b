package cmd

import (
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	amount    float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a transaction to the pending pool.",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "from", "f", "", "Sender of the transaction, the owner when empty.")
	sendCmd.Flags().StringVarP(&recipient, "to", "t", "", "Recipient of the transaction.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send, the default amount when not set.")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	ntx := struct {
		Sender    string   `json:"sender,omitempty"`
		Recipient string   `json:"recipient"`
		Amount    *float64 `json:"amount,omitempty"`
	}{
		Sender:    sender,
		Recipient: recipient,
	}
	if cmd.Flags().Changed("amount") {
		ntx.Amount = &amount
	}

	var resp struct {
		Status  string `json:"status"`
		Pending int    `json:"pending"`
	}
	if err := call(http.MethodPost, "/v1/tx/submit", ntx, &resp); err != nil {
		return err
	}

	pterm.Success.Printfln("%s: pending[%d]", resp.Status, resp.Pending)

	return printBalance(sender)
}
