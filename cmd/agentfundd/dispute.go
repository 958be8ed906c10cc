package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tigurius/agentfund-protocol/core"
)

var disputeCmd = &cobra.Command{
	Use:   "dispute",
	Short: "Open and resolve Disputes over Service Requests",
}

var disputeInitiateCmd = &cobra.Command{
	Use:   "initiate <initiator-hex> <request-id-hex>",
	Short: "Open a dispute over a Pending/InProgress request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		initiator, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		requestID, err := parseID(args[1])
		if err != nil {
			return err
		}
		d, err := core.InitiateDispute(s, nowContext(initiator), initiator, requestID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", d)
		return nil
	},
}

var disputeResolveCmd = &cobra.Command{
	Use:   "resolve <arbiter-hex> <request-id-hex> <refund|pay|split> [ratio-num] [ratio-den]",
	Short: "Resolve an open dispute",
	Args:  cobra.RangeArgs(3, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		arbiter, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		requestID, err := parseID(args[1])
		if err != nil {
			return err
		}
		var res core.Resolution
		switch args[2] {
		case "refund":
			res.Kind = core.ResolutionRefundRequester
		case "pay":
			res.Kind = core.ResolutionPayProvider
		case "split":
			if len(args) != 5 {
				return fmt.Errorf("split requires <ratio-num> <ratio-den>")
			}
			num, err := strconv.ParseUint(args[3], 10, 64)
			if err != nil {
				return err
			}
			den, err := strconv.ParseUint(args[4], 10, 64)
			if err != nil {
				return err
			}
			res.Kind = core.ResolutionSplit
			res.RatioNum, res.RatioDen = num, den
		default:
			return fmt.Errorf("unknown resolution %q: want refund, pay, or split", args[2])
		}
		req, d, err := core.ResolveDispute(s, nowContext(arbiter), arbiter, requestID, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "request: %+v\ndispute: %+v\n", req, d)
		return nil
	},
}

func init() {
	disputeCmd.AddCommand(disputeInitiateCmd, disputeResolveCmd)
}
