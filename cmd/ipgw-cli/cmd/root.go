// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "ipgw-cli" implements the gateway client operation interface.
package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

const requestTimeout = 30 * time.Second

var (
	privateKeyFile string
	uri            string

	rootCmd = &cobra.Command{
		Use:        "ipgw-cli",
		Short:      "IP Gateway CLI",
		SuggestFor: []string{"ipgw-cli", "ipgwcli", "ipgwctl"},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		createCmd,
		createCollectionCmd,
		configureMintCmd,
		mintSettingsCmd,
		createPolicyCmd,
		mintLicenseCmd,
		registerCmd,
		mintRegisterCmd,
		registerDerivativeCmd,
		mintRegisterDerivativeCmd,
		delegateCmd,
		infoCmd,
		resolveCmd,
		ownerCmd,
	)

	rootCmd.PersistentFlags().StringVar(
		&privateKeyFile,
		"private-key-file",
		".ipgw-cli-pk",
		"private key file path",
	)
	rootCmd.PersistentFlags().StringVar(
		&uri,
		"endpoint",
		"http://127.0.0.1:9650",
		"RPC endpoint for the gateway",
	)
}

func Execute() error {
	return rootCmd.Execute()
}
