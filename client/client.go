// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package client implements the gateway client SDK.
package client

import (
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/licensing"
	"github.com/ipcore/ipgateway/registry"
	"github.com/ipcore/ipgateway/service"
	"github.com/ipcore/ipgateway/token"
)

// Client defines gateway client operations.
type Client interface {
	// Pings the service.
	Ping() (bool, error)
	// Params returns the service's protocol parameters.
	Params() (*gateway.Params, error)

	// Issue submits a signed operation and returns its result.
	Issue(op gateway.Op, sig []byte) (*gateway.Result, error)

	// MintSettings returns a collection's minting window.
	MintSettings(collection common.Address) (gateway.MintSettings, error)
	// Collection returns a collection record.
	Collection(collection common.Address) (*token.Collection, bool, error)
	// AssetID returns the canonical identifier for a token.
	AssetID(tokenContract common.Address, tokenID uint64) (common.Address, error)
	// Registered reports whether an asset identifier is registered.
	Registered(asset common.Address) (bool, error)
	// Asset returns a registered asset record and its current owner.
	Asset(asset common.Address) (*registry.Asset, common.Address, bool, error)
	// Resolve returns the attribute value stored for an asset key.
	Resolve(asset common.Address, key string) (bool, []byte, error)
	// Policy returns a policy record.
	Policy(policyID uint64) (*licensing.Policy, bool, error)
	// License returns a license record.
	License(licenseID uint64) (*licensing.License, bool, error)
	// AccountNonce returns an asset account's address and current nonce.
	AccountNonce(tokenContract common.Address, tokenID uint64) (common.Address, uint64, error)
	// OwnerOf returns the current owner of a token.
	OwnerOf(collection common.Address, tokenID uint64) (common.Address, error)
}

// New creates a new client object.
func New(uri string, reqTimeout time.Duration) Client {
	req := rpc.NewEndpointRequester(
		uri,
		service.Endpoint,
		service.Name,
		reqTimeout,
	)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) Ping() (bool, error) {
	resp := new(service.PingReply)
	err := cli.req.SendRequest(
		"ping",
		nil,
		resp,
	)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (cli *client) Params() (*gateway.Params, error) {
	resp := new(service.ParamsReply)
	err := cli.req.SendRequest(
		"params",
		nil,
		resp,
	)
	return resp.Params, err
}

func (cli *client) Issue(op gateway.Op, sig []byte) (*gateway.Result, error) {
	var (
		method string
		args   interface{}
	)
	switch t := op.(type) {
	case *gateway.CreateCollectionOp:
		method, args = "createCollection", &service.IssueCreateCollectionArgs{Op: *t, Signature: sig}
	case *gateway.ConfigureMintSettingsOp:
		method, args = "configureMintSettings", &service.IssueConfigureMintSettingsArgs{Op: *t, Signature: sig}
	case *gateway.RegisterOp:
		method, args = "register", &service.IssueRegisterArgs{Op: *t, Signature: sig}
	case *gateway.MintAndRegisterOp:
		method, args = "mintAndRegister", &service.IssueMintAndRegisterArgs{Op: *t, Signature: sig}
	case *gateway.RegisterDerivativeOp:
		method, args = "registerDerivative", &service.IssueRegisterDerivativeArgs{Op: *t, Signature: sig}
	case *gateway.MintAndRegisterDerivativeOp:
		method, args = "mintAndRegisterDerivative", &service.IssueMintAndRegisterDerivativeArgs{Op: *t, Signature: sig}
	case *gateway.CreatePolicyOp:
		method, args = "createPolicy", &service.IssueCreatePolicyArgs{Op: *t, Signature: sig}
	case *gateway.MintLicenseOp:
		method, args = "mintLicense", &service.IssueMintLicenseArgs{Op: *t, Signature: sig}
	default:
		return nil, fmt.Errorf("unknown operation %q", op.Type())
	}
	resp := new(service.IssueReply)
	if err := cli.req.SendRequest(method, args, resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (cli *client) MintSettings(collection common.Address) (gateway.MintSettings, error) {
	resp := new(service.MintSettingsReply)
	if err := cli.req.SendRequest(
		"mintSettings",
		&service.MintSettingsArgs{Collection: collection},
		resp,
	); err != nil {
		return gateway.MintSettings{}, err
	}
	return resp.Settings, nil
}

func (cli *client) Collection(collection common.Address) (*token.Collection, bool, error) {
	resp := new(service.CollectionReply)
	if err := cli.req.SendRequest(
		"collection",
		&service.CollectionArgs{Collection: collection},
		resp,
	); err != nil {
		return nil, false, err
	}
	return resp.Collection, resp.Exists, nil
}

func (cli *client) AssetID(tokenContract common.Address, tokenID uint64) (common.Address, error) {
	resp := new(service.AssetIDReply)
	if err := cli.req.SendRequest(
		"assetID",
		&service.AssetIDArgs{TokenContract: tokenContract, TokenID: tokenID},
		resp,
	); err != nil {
		return common.Address{}, err
	}
	return resp.Asset, nil
}

func (cli *client) Registered(asset common.Address) (bool, error) {
	resp := new(service.RegisteredReply)
	if err := cli.req.SendRequest(
		"registered",
		&service.RegisteredArgs{Asset: asset},
		resp,
	); err != nil {
		return false, err
	}
	return resp.Registered, nil
}

func (cli *client) Asset(asset common.Address) (*registry.Asset, common.Address, bool, error) {
	resp := new(service.AssetReply)
	if err := cli.req.SendRequest(
		"asset",
		&service.AssetArgs{Asset: asset},
		resp,
	); err != nil {
		return nil, common.Address{}, false, err
	}
	return resp.Asset, resp.Owner, resp.Exists, nil
}

func (cli *client) Resolve(asset common.Address, key string) (bool, []byte, error) {
	resp := new(service.ResolveReply)
	if err := cli.req.SendRequest(
		"resolve",
		&service.ResolveArgs{Asset: asset, Key: key},
		resp,
	); err != nil {
		return false, nil, err
	}
	return resp.Exists, resp.Value, nil
}

func (cli *client) Policy(policyID uint64) (*licensing.Policy, bool, error) {
	resp := new(service.PolicyReply)
	if err := cli.req.SendRequest(
		"policy",
		&service.PolicyArgs{PolicyID: policyID},
		resp,
	); err != nil {
		return nil, false, err
	}
	return resp.Policy, resp.Exists, nil
}

func (cli *client) License(licenseID uint64) (*licensing.License, bool, error) {
	resp := new(service.LicenseReply)
	if err := cli.req.SendRequest(
		"license",
		&service.LicenseArgs{LicenseID: licenseID},
		resp,
	); err != nil {
		return nil, false, err
	}
	return resp.License, resp.Exists, nil
}

func (cli *client) AccountNonce(tokenContract common.Address, tokenID uint64) (common.Address, uint64, error) {
	resp := new(service.AccountNonceReply)
	if err := cli.req.SendRequest(
		"accountNonce",
		&service.AccountNonceArgs{TokenContract: tokenContract, TokenID: tokenID},
		resp,
	); err != nil {
		return common.Address{}, 0, err
	}
	return resp.Asset, resp.Nonce, nil
}

func (cli *client) OwnerOf(collection common.Address, tokenID uint64) (common.Address, error) {
	resp := new(service.OwnerOfReply)
	if err := cli.req.SendRequest(
		"ownerOf",
		&service.OwnerOfArgs{Collection: collection, TokenID: tokenID},
		resp,
	); err != nil {
		return common.Address{}, err
	}
	return resp.Owner, nil
}
