// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ipcore/ipgateway/client"
	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/licensing"
)

var (
	attribution        bool
	commercialUse      bool
	derivativesAllowed bool
	policyURI          string

	licenseAmount   uint64
	licenseReceiver string
)

func init() {
	createPolicyCmd.Flags().BoolVar(&attribution, "attribution", false, "require attribution")
	createPolicyCmd.Flags().BoolVar(&commercialUse, "commercial", false, "allow commercial use")
	createPolicyCmd.Flags().BoolVar(&derivativesAllowed, "derivatives", false, "allow derivatives")
	createPolicyCmd.Flags().StringVar(&policyURI, "uri", "", "policy terms URI")

	mintLicenseCmd.Flags().Uint64Var(&licenseAmount, "amount", 1, "license amount")
	mintLicenseCmd.Flags().StringVar(&licenseReceiver, "receiver", "", "license receiver (defaults to the key holder)")
}

var createPolicyCmd = &cobra.Command{
	Use:   "create-policy [options]",
	Short: "Creates a new license policy",
	Long: `
Creates a new license policy. Policies are immutable; the returned id is
referenced by registrations and license mints.

$ ipgw-cli create-policy --attribution --derivatives --uri=ipfs://terms

`,
	RunE: createPolicyFunc,
}

func createPolicyFunc(cmd *cobra.Command, args []string) error {
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return err
	}
	cli := client.New(uri, requestTimeout)

	op := &gateway.CreatePolicyOp{
		Policy: licensing.Policy{
			Attribution:        attribution,
			CommercialUse:      commercialUse,
			DerivativesAllowed: derivativesAllowed,
			URI:                policyURI,
		},
	}
	res, err := client.SignIssue(cli, op, priv)
	if err != nil {
		return err
	}
	color.Cyan("policy %d created", res.PolicyID)
	return nil
}

var mintLicenseCmd = &cobra.Command{
	Use:   "mint-license [options] <policyId> <licensor>",
	Short: "Mints license tokens against a policy attached to a licensor asset",
	RunE:  mintLicenseFunc,
}

func mintLicenseFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected exactly 2 arguments, got %d", len(args))
	}
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return err
	}
	policyID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return err
	}
	receiver := crypto.PubkeyToAddress(priv.PublicKey)
	if licenseReceiver != "" {
		receiver = common.HexToAddress(licenseReceiver)
	}
	cli := client.New(uri, requestTimeout)

	op := &gateway.MintLicenseOp{
		PolicyID: policyID,
		Licensor: common.HexToAddress(args[1]),
		Amount:   licenseAmount,
		Receiver: receiver,
	}
	res, err := client.SignIssue(cli, op, priv)
	if err != nil {
		return err
	}
	color.Cyan("license %d minted to %s", res.LicenseID, receiver.Hex())
	return nil
}
