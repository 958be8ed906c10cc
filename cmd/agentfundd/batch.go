package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tigurius/agentfund-protocol/core"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Settle batches of already-Paid invoices",
}

var batchSettleCmd = &cobra.Command{
	Use:   "settle <settler-hex> <batch-id-hex> <recipient-hex> <total> <invoice-id-hex>...",
	Short: "Settle a batch of invoices naming recipient",
	Args:  cobra.MinimumNArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		settler, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		batchID, err := parseID(args[1])
		if err != nil {
			return err
		}
		recipient, err := parsePrincipal(args[2])
		if err != nil {
			return err
		}
		total, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return err
		}
		ids := make([][32]byte, 0, len(args)-4)
		for _, a := range args[4:] {
			id, err := parseID(a)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		b, err := core.SettleBatch(s, nowContext(settler), settler, batchID, recipient, ids, total)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", b)
		return nil
	},
}

func init() {
	batchCmd.AddCommand(batchSettleCmd)
}
