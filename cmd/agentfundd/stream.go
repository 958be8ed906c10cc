package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tigurius/agentfund-protocol/core"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Manage linear-release Payment Streams",
}

var streamCreateCmd = &cobra.Command{
	Use:   "create <sender-hex> <id-hex> <recipient-hex> <total> <start-unix> <end-unix>",
	Short: "Open a payment stream, escrowing total from sender",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		sender, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
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
		start, err := strconv.ParseInt(args[4], 10, 64)
		if err != nil {
			return err
		}
		end, err := strconv.ParseInt(args[5], 10, 64)
		if err != nil {
			return err
		}
		p, err := core.CreateStream(s, nowContext(sender), sender, id, recipient, total, start, end)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", p)
		return nil
	},
}

var streamWithdrawCmd = &cobra.Command{
	Use:   "withdraw <recipient-hex> <id-hex>",
	Short: "Withdraw the currently available balance",
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
		p, amount, err := core.WithdrawStream(s, nowContext(recipient), recipient, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "withdrew %d, stream: %+v\n", amount, p)
		return nil
	},
}

var streamPauseCmd = &cobra.Command{
	Use:   "pause <sender-hex> <id-hex>",
	Short: "Pause accrual",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		sender, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		p, err := core.PauseStream(s, nowContext(sender), sender, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", p)
		return nil
	},
}

var streamResumeCmd = &cobra.Command{
	Use:   "resume <sender-hex> <id-hex>",
	Short: "Resume accrual",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		sender, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		p, err := core.ResumeStream(s, nowContext(sender), sender, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", p)
		return nil
	},
}

var streamCancelCmd = &cobra.Command{
	Use:   "cancel <sender-hex> <id-hex>",
	Short: "Cancel a stream, refunding the unaccrued remainder to sender",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		sender, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		p, err := core.CancelStream(s, nowContext(sender), sender, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", p)
		return nil
	},
}

func init() {
	streamCmd.AddCommand(streamCreateCmd, streamWithdrawCmd, streamPauseCmd, streamResumeCmd, streamCancelCmd)
}
