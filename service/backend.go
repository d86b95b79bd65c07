// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package service exposes the gateway and its collaborators over JSON-RPC.
package service

import (
	"github.com/ava-labs/avalanchego/database"

	"github.com/ipcore/ipgateway/access"
	"github.com/ipcore/ipgateway/account"
	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/licensing"
	"github.com/ipcore/ipgateway/registry"
	"github.com/ipcore/ipgateway/resolver"
	"github.com/ipcore/ipgateway/token"
)

// Backend wires the gateway to concrete collaborator implementations over a
// single database. Collaborator handles stay exported through fields so the
// query surface can read their state directly.
type Backend struct {
	Gateway   *gateway.Gateway
	Registry  *registry.Registry
	Licensing *licensing.Module
	Resolver  *resolver.Resolver
	Tokens    *token.Ledger
	Access    *access.Controller
	Accounts  *account.Executor
}

func NewBackend(db database.Database, params *gateway.Params, opts ...gateway.Option) *Backend {
	tokens := &token.Ledger{}
	reg := &registry.Registry{
		ChainID: params.ChainID,
		Tokens:  tokens,
	}
	ctl := &access.Controller{Owners: reg}
	lic := &licensing.Module{
		Addr:   params.LicensingModule,
		Access: ctl,
	}
	reg.Burner = lic
	res := &resolver.Resolver{
		Addr:   params.MetadataResolver,
		Access: ctl,
	}
	accts := account.NewExecutor(params.ChainID, tokens)
	accts.RegisterHandler(params.AccessController, ctl)

	gw := gateway.New(db, params, &gateway.Externals{
		Registry:  reg,
		Licensing: lic,
		Resolver:  res,
		Tokens:    tokens,
		Accounts:  accts,
	}, opts...)

	return &Backend{
		Gateway:   gw,
		Registry:  reg,
		Licensing: lic,
		Resolver:  res,
		Tokens:    tokens,
		Access:    ctl,
		Accounts:  accts,
	}
}
