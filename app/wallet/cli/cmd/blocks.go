package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks [participant]",
	Short: "Print the blocks in the chain, only those holding the participant's transactions when specified.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  blocksRun,
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the pending transactions.",
	RunE:  pendingRun,
}

var participantsCmd = &cobra.Command{
	Use:   "participants",
	Short: "Print the known participants.",
	RunE:  participantsRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(participantsCmd)
}

func blocksRun(cmd *cobra.Command, args []string) error {
	var participant string
	if len(args) == 1 {
		participant = args[0]
	}

	var blocks []block
	if err := call(http.MethodGet, participantPath("/v1/blocks/list", participant), nil, &blocks); err != nil {
		return err
	}

	if len(blocks) == 0 {
		pterm.Info.Println("no blocks")
		return nil
	}

	return renderBlocks(blocks)
}

func pendingRun(cmd *cobra.Command, args []string) error {
	var trans []tx
	if err := call(http.MethodGet, "/v1/tx/pending/list", nil, &trans); err != nil {
		return err
	}

	data := pterm.TableData{{"#", "Sender", "Recipient", "Amount"}}
	for i, t := range trans {
		data = append(data, []string{fmt.Sprint(i), t.Sender, t.Recipient, fmt.Sprintf("%v", t.Amount)})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func participantsRun(cmd *cobra.Command, args []string) error {
	var names []string
	if err := call(http.MethodGet, "/v1/participants/list", nil, &names); err != nil {
		return err
	}

	items := make([]pterm.BulletListItem, len(names))
	for i, name := range names {
		items[i] = pterm.BulletListItem{Level: 0, Text: name}
	}

	return pterm.DefaultBulletList.WithItems(items).Render()
}

func renderBlocks(blocks []block) error {
	data := pterm.TableData{{"Index", "Hash", "Previous", "Proof", "Transactions"}}
	for _, blk := range blocks {
		trans := make([]string, len(blk.Transactions))
		for i, t := range blk.Transactions {
			trans[i] = fmt.Sprintf("%s->%s:%v", t.Sender, t.Recipient, t.Amount)
		}

		data = append(data, []string{
			fmt.Sprint(blk.Index),
			short(blk.Hash),
			short(blk.PreviousHash),
			fmt.Sprint(blk.Proof),
			strings.Join(trans, "\n"),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithRowSeparator("-").WithData(data).Render()
}

func short(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}
