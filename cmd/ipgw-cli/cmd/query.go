// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ipcore/ipgateway/client"
)

var infoCmd = &cobra.Command{
	Use:   "info [options] <asset>",
	Short: "Prints a registered asset's record",
	RunE:  infoFunc,
}

func infoFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly 1 argument, got %d", len(args))
	}
	cli := client.New(uri, requestTimeout)
	a, owner, exists, err := cli.Asset(common.HexToAddress(args[0]))
	if err != nil {
		return err
	}
	if !exists {
		color.Yellow("asset %s not registered", args[0])
		return nil
	}
	color.Cyan(
		"token=%s tokenId=%d owner=%s parents=%d",
		a.Token.Hex(), a.TokenID, owner.Hex(), len(a.Parents),
	)
	for _, p := range a.Parents {
		color.Cyan("  parent %s", p.Hex())
	}
	return nil
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [options] <asset> <key>",
	Short: "Prints an asset's stored attribute value",
	RunE:  resolveFunc,
}

func resolveFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected exactly 2 arguments, got %d", len(args))
	}
	cli := client.New(uri, requestTimeout)
	exists, value, err := cli.Resolve(common.HexToAddress(args[0]), args[1])
	if err != nil {
		return err
	}
	if !exists {
		color.Yellow("%s has no value for %q", args[0], args[1])
		return nil
	}
	color.Cyan("%s", value)
	return nil
}

var ownerCmd = &cobra.Command{
	Use:   "owner [options] <collection> <tokenId>",
	Short: "Prints a token's current owner",
	RunE:  ownerFunc,
}

func ownerFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected exactly 2 arguments, got %d", len(args))
	}
	tokenID, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return err
	}
	cli := client.New(uri, requestTimeout)
	owner, err := cli.OwnerOf(common.HexToAddress(args[0]), tokenID)
	if err != nil {
		return err
	}
	color.Cyan("owner=%s", owner.Hex())
	return nil
}
