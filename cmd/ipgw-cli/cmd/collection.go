// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ipcore/ipgateway/client"
	"github.com/ipcore/ipgateway/gateway"
)

var (
	maxSupply uint64
	mintStart uint64
	mintEnd   uint64
)

func init() {
	createCollectionCmd.Flags().Uint64Var(&maxSupply, "max-supply", 0, "maximum supply (0 for unlimited)")
	createCollectionCmd.Flags().Uint64Var(&mintStart, "start", 0, "mint start unix time (0 for now)")
	createCollectionCmd.Flags().Uint64Var(&mintEnd, "end", 0, "mint end unix time (0 for no end)")
	configureMintCmd.Flags().Uint64Var(&mintStart, "start", 0, "mint start unix time (0 for now)")
	configureMintCmd.Flags().Uint64Var(&mintEnd, "end", 0, "mint end unix time (0 for no end)")
}

var createCollectionCmd = &cobra.Command{
	Use:   "create-collection [options] <name> <symbol>",
	Short: "Creates a new collection with a minting window",
	Long: `
Creates a new collection owned by the key holder.

$ ipgw-cli create-collection "My Art" ART --max-supply=100 --end=1893456000

`,
	RunE: createCollectionFunc,
}

func createCollectionFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected exactly 2 arguments, got %d", len(args))
	}
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return err
	}
	cli := client.New(uri, requestTimeout)

	op := &gateway.CreateCollectionOp{
		Kind: gateway.KindBasic,
		Collection: gateway.CollectionSettings{
			Name:      args[0],
			Symbol:    args[1],
			MaxSupply: maxSupply,
		},
		Settings: gateway.MintSettings{Start: mintStart, End: mintEnd},
	}
	res, err := client.SignIssue(cli, op, priv)
	if err != nil {
		return err
	}
	color.Cyan("collection %s created", res.Collection.Hex())
	return nil
}

var configureMintCmd = &cobra.Command{
	Use:   "configure-mint [options] <collection>",
	Short: "Replaces a collection's minting window",
	RunE:  configureMintFunc,
}

func configureMintFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly 1 argument, got %d", len(args))
	}
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return err
	}
	cli := client.New(uri, requestTimeout)

	op := &gateway.ConfigureMintSettingsOp{
		Collection: common.HexToAddress(args[0]),
		Settings:   gateway.MintSettings{Start: mintStart, End: mintEnd},
	}
	res, err := client.SignIssue(cli, op, priv)
	if err != nil {
		return err
	}
	color.Cyan("collection %s reconfigured", res.Collection.Hex())
	return nil
}

var mintSettingsCmd = &cobra.Command{
	Use:   "mint-settings [options] <collection>",
	Short: "Prints a collection's minting window",
	RunE:  mintSettingsFunc,
}

func mintSettingsFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly 1 argument, got %d", len(args))
	}
	cli := client.New(uri, requestTimeout)
	s, err := cli.MintSettings(common.HexToAddress(args[0]))
	if err != nil {
		return err
	}
	color.Cyan("start=%d end=%d", s.Start, s.End)
	return nil
}
