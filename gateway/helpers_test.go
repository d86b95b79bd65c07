// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway_test

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/service"
)

// newBackend wires a gateway over a fresh memdb with a controllable clock.
func newBackend(now *uint64) *service.Backend {
	return service.NewBackend(
		memdb.New(),
		gateway.DefaultParams(),
		gateway.WithClock(func() uint64 { return *now }),
	)
}

func newKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return priv, crypto.PubkeyToAddress(priv.PublicKey)
}

// createCollection executes a basic collection creation and returns the
// collection address.
func createCollection(t *testing.T, b *service.Backend, owner common.Address, maxSupply uint64, s gateway.MintSettings) common.Address {
	t.Helper()
	res, err := b.Gateway.Execute(&gateway.CreateCollectionOp{
		Kind: gateway.KindBasic,
		Collection: gateway.CollectionSettings{
			Name:      "Test Collection",
			Symbol:    "TEST",
			MaxSupply: maxSupply,
		},
		Settings: s,
	}, owner)
	if err != nil {
		t.Fatalf("create collection errored %v", err)
	}
	return res.Collection
}
