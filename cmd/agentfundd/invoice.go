package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tigurius/agentfund-protocol/core"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Manage Invoices",
}

var invoiceCreateCmd = &cobra.Command{
	Use:   "create <recipient-hex> <id-hex> <amount> <memo> <expires-at-unix>",
	Short: "Create a Pending invoice",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		recipient, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return err
		}
		expiresAt, err := strconv.ParseInt(args[4], 10, 64)
		if err != nil {
			return err
		}
		inv, err := core.CreateInvoice(s, nowContext(recipient), recipient, id, amount, args[3], expiresAt)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", inv)
		return nil
	},
}

var invoicePayCmd = &cobra.Command{
	Use:   "pay <payer-hex> <id-hex>",
	Short: "Pay a Pending invoice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		payer, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		inv, err := core.PayInvoice(s, nowContext(payer), payer, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", inv)
		return nil
	},
}

var invoiceCancelCmd = &cobra.Command{
	Use:   "cancel <recipient-hex> <id-hex>",
	Short: "Cancel a Pending invoice",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		recipient, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		inv, err := core.CancelInvoice(s, nowContext(recipient), recipient, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", inv)
		return nil
	},
}

var invoiceGetCmd = &cobra.Command{
	Use:   "get <id-hex>",
	Short: "Show an invoice, applying lazy expiry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		inv, err := core.GetInvoice(s, nowContext(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", inv)
		return nil
	},
}

func init() {
	invoiceCmd.AddCommand(invoiceCreateCmd, invoicePayCmd, invoiceCancelCmd, invoiceGetCmd)
}
