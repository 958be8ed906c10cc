package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tigurius/agentfund-protocol/core"
)

var treasuryCmd = &cobra.Command{
	Use:   "treasury",
	Short: "Manage per-principal Treasury records",
}

var treasuryInitCmd = &cobra.Command{
	Use:   "init <owner-hex>",
	Short: "Initialize owner's treasury",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		owner, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		t, err := core.InitializeTreasury(s, nowContext(owner), owner)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", t)
		return nil
	},
}

var treasuryGetCmd = &cobra.Command{
	Use:   "get <owner-hex>",
	Short: "Show owner's treasury",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		owner, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		t, _, err := core.GetTreasury(s, owner)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", t)
		return nil
	},
}

func init() {
	treasuryCmd.AddCommand(treasuryInitCmd, treasuryGetCmd)
}
