package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tigurius/agentfund-protocol/core"
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Open and complete Service Requests",
}

var requestOpenCmd = &cobra.Command{
	Use:   "open <requester-hex> <id-hex> <provider-hex> <capability> <amount> [arbiter-hex]",
	Short: "Open a Service Request, escrowing amount from requester",
	Args:  cobra.RangeArgs(5, 6),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		requester, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		provider, err := parsePrincipal(args[2])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[4], 10, 64)
		if err != nil {
			return err
		}
		var arbiter *core.Principal
		if len(args) == 6 {
			a, err := parsePrincipal(args[5])
			if err != nil {
				return err
			}
			arbiter = &a
		}
		req, err := core.RequestService(s, nowContext(requester), requester, id, provider, args[3], amount, arbiter)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", req)
		return nil
	},
}

var requestCompleteCmd = &cobra.Command{
	Use:   "complete <provider-hex> <id-hex> <result-hash-hex>",
	Short: "Complete a Service Request, draining its escrow to the provider",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		provider, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		resultHash, err := parseHash(args[2])
		if err != nil {
			return err
		}
		req, err := core.CompleteService(s, nowContext(provider), provider, id, resultHash)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", req)
		return nil
	},
}

func init() {
	requestCmd.AddCommand(requestOpenCmd, requestCompleteCmd)
}
