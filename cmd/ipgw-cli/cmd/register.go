// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ipcore/ipgateway/client"
	"github.com/ipcore/ipgateway/gateway"
)

const fsModeWrite = 0o600

var (
	policyID    uint64
	ipName      string
	ipURL       string
	contentHash string
	attrs       []string
	licenses    []string
	authFile    string

	delegateDeadline uint64
	delegateOut      string
)

func registerFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().StringVar(&ipName, "name", "", "asset name")
		c.Flags().StringVar(&ipURL, "url", "", "asset URL")
		c.Flags().StringVar(&contentHash, "content-hash", "", "asset content hash (hex)")
		c.Flags().StringArrayVar(&attrs, "attr", nil, "custom attribute key=value (repeatable)")
		c.Flags().StringVar(&authFile, "auth-file", "", "authorization file for relayed submission")
	}
}

func init() {
	registerFlags(registerCmd, mintRegisterCmd, registerDerivativeCmd, mintRegisterDerivativeCmd)
	registerCmd.Flags().Uint64Var(&policyID, "policy", 0, "policy to attach (0 for none)")
	mintRegisterCmd.Flags().Uint64Var(&policyID, "policy", 0, "policy to attach (0 for none)")
	registerDerivativeCmd.Flags().StringSliceVar(&licenses, "license", nil, "license ids to consume")
	mintRegisterDerivativeCmd.Flags().StringSliceVar(&licenses, "license", nil, "license ids to consume")

	delegateCmd.Flags().Uint64Var(&delegateDeadline, "deadline", 0, "authorization deadline unix time (default now+1h)")
	delegateCmd.Flags().StringVar(&delegateOut, "out", ".ipgw-auth.json", "authorization output file")
}

func buildMetadata() gateway.IPMetadata {
	md := gateway.IPMetadata{
		Name: ipName,
		URL:  ipURL,
	}
	if contentHash != "" {
		md.ContentHash = common.HexToHash(contentHash)
	}
	for _, a := range attrs {
		k, v, _ := strings.Cut(a, "=")
		md.Attributes = append(md.Attributes, gateway.Attribute{Key: k, Value: v})
	}
	return md
}

func loadAuth() (*gateway.Authorization, error) {
	if authFile == "" {
		return nil, nil
	}
	b, err := os.ReadFile(authFile)
	if err != nil {
		return nil, err
	}
	auth := new(gateway.Authorization)
	if err := json.Unmarshal(b, auth); err != nil {
		return nil, err
	}
	return auth, nil
}

func parseLicenses() ([]uint64, error) {
	ids := make([]uint64, 0, len(licenses))
	for _, l := range licenses {
		id, err := strconv.ParseUint(l, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var registerCmd = &cobra.Command{
	Use:   "register [options] <tokenContract> <tokenId>",
	Short: "Registers an existing token as an IP asset",
	Long: `
Registers an existing token as an IP asset. With --auth-file, the operation is
submitted as a relayed registration on behalf of the authorization's signer.

$ ipgw-cli register 0xab..cd 7 --name="My Work" --policy=1 --attr=genre=ambient

`,
	RunE: registerFunc,
}

func registerFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected exactly 2 arguments, got %d", len(args))
	}
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return err
	}
	tokenID, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return err
	}
	auth, err := loadAuth()
	if err != nil {
		return err
	}
	cli := client.New(uri, requestTimeout)

	op := &gateway.RegisterOp{
		PolicyID:      policyID,
		TokenContract: common.HexToAddress(args[0]),
		TokenID:       tokenID,
		Metadata:      buildMetadata(),
		Auth:          auth,
	}
	res, err := client.SignIssue(cli, op, priv)
	if err != nil {
		return err
	}
	color.Cyan("asset %s registered", res.Asset.Hex())
	return nil
}

var mintRegisterCmd = &cobra.Command{
	Use:   "mint-register [options] <collection>",
	Short: "Mints a token and registers it as an IP asset",
	RunE:  mintRegisterFunc,
}

func mintRegisterFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly 1 argument, got %d", len(args))
	}
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return err
	}
	auth, err := loadAuth()
	if err != nil {
		return err
	}
	cli := client.New(uri, requestTimeout)

	op := &gateway.MintAndRegisterOp{
		PolicyID:   policyID,
		Collection: common.HexToAddress(args[0]),
		Metadata:   buildMetadata(),
		Auth:       auth,
	}
	res, err := client.SignIssue(cli, op, priv)
	if err != nil {
		return err
	}
	color.Cyan("token %d minted, asset %s registered", res.TokenID, res.Asset.Hex())
	return nil
}

var registerDerivativeCmd = &cobra.Command{
	Use:   "register-derivative [options] <tokenContract> <tokenId>",
	Short: "Registers an existing token as a derivative asset",
	RunE:  registerDerivativeFunc,
}

func registerDerivativeFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected exactly 2 arguments, got %d", len(args))
	}
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return err
	}
	tokenID, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return err
	}
	licenseIDs, err := parseLicenses()
	if err != nil {
		return err
	}
	auth, err := loadAuth()
	if err != nil {
		return err
	}
	cli := client.New(uri, requestTimeout)

	op := &gateway.RegisterDerivativeOp{
		LicenseIDs:    licenseIDs,
		TokenContract: common.HexToAddress(args[0]),
		TokenID:       tokenID,
		Metadata:      buildMetadata(),
		Auth:          auth,
	}
	res, err := client.SignIssue(cli, op, priv)
	if err != nil {
		return err
	}
	color.Cyan("derivative asset %s registered", res.Asset.Hex())
	return nil
}

var mintRegisterDerivativeCmd = &cobra.Command{
	Use:   "mint-register-derivative [options] <collection>",
	Short: "Mints a token and registers it as a derivative asset",
	RunE:  mintRegisterDerivativeFunc,
}

func mintRegisterDerivativeFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly 1 argument, got %d", len(args))
	}
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return err
	}
	licenseIDs, err := parseLicenses()
	if err != nil {
		return err
	}
	auth, err := loadAuth()
	if err != nil {
		return err
	}
	cli := client.New(uri, requestTimeout)

	op := &gateway.MintAndRegisterDerivativeOp{
		LicenseIDs: licenseIDs,
		Collection: common.HexToAddress(args[0]),
		Metadata:   buildMetadata(),
		Auth:       auth,
	}
	res, err := client.SignIssue(cli, op, priv)
	if err != nil {
		return err
	}
	color.Cyan("token %d minted, derivative asset %s registered", res.TokenID, res.Asset.Hex())
	return nil
}

var delegateCmd = &cobra.Command{
	Use:   "delegate [options] <tokenContract> <tokenId>",
	Short: "Signs a permission delegation for relayed registration",
	Long: `
Signs an authorization that lets a relayer register the token on the key
holder's behalf. The output file is passed to a register command with
--auth-file by the relayer.

$ ipgw-cli delegate 0xab..cd 7 --out=auth.json

`,
	RunE: delegateFunc,
}

func delegateFunc(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected exactly 2 arguments, got %d", len(args))
	}
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return err
	}
	tokenID, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return err
	}
	deadline := delegateDeadline
	if deadline == 0 {
		deadline = uint64(time.Now().Add(time.Hour).Unix())
	}
	cli := client.New(uri, requestTimeout)

	auth, err := client.SignDelegation(cli, priv, common.HexToAddress(args[0]), tokenID, deadline)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(auth, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(delegateOut, b, fsModeWrite); err != nil {
		return err
	}
	color.Green("authorization for %s written to %s", auth.Signer.Hex(), delegateOut)
	return nil
}
