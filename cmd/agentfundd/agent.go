package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tigurius/agentfund-protocol/core"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Manage Agent Profiles",
}

var agentRegisterCmd = &cobra.Command{
	Use:   "register <owner-hex> <name> <description> <base-price> <capability,capability,...>",
	Short: "Register owner's agent profile",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		owner, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		basePrice, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return err
		}
		var caps []string
		if args[4] != "" {
			caps = strings.Split(args[4], ",")
		}
		p, err := core.RegisterAgent(s, nowContext(owner), owner, args[1], args[2], caps, basePrice)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", p)
		return nil
	},
}

var agentSetPriceCmd = &cobra.Command{
	Use:   "set-price <owner-hex> <base-price>",
	Short: "Update owner's base price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		owner, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		price, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return err
		}
		p, err := core.UpdateProfile(s, nowContext(owner), owner, core.ProfileUpdate{BasePrice: &price})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", p)
		return nil
	},
}

var agentSetActiveCmd = &cobra.Command{
	Use:   "set-active <owner-hex> <true|false>",
	Short: "Activate or deactivate owner's profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		owner, err := parsePrincipal(args[0])
		if err != nil {
			return err
		}
		active, err := strconv.ParseBool(args[1])
		if err != nil {
			return err
		}
		p, err := core.UpdateProfile(s, nowContext(owner), owner, core.ProfileUpdate{IsActive: &active})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", p)
		return nil
	},
}

var agentGetCmd = &cobra.Command{
	Use:   "get <owner-hex>",
	Short: "Show owner's agent profile",
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
		p, err := core.GetAgentProfile(s, owner)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", p)
		return nil
	},
}

func init() {
	agentCmd.AddCommand(agentRegisterCmd, agentSetPriceCmd, agentSetActiveCmd, agentGetCmd)
}
