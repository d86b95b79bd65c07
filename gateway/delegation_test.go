// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway_test

import (
	"errors"
	"testing"

	"github.com/ipcore/ipgateway/account"
	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/registry"
)

func TestRegisterWithSig(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	p := b.Gateway.Params()
	ownerPriv, owner := newKey(t)
	_, relayer := newKey(t)
	db := b.Gateway.View()

	collection, err := b.Tokens.Create(db, owner, "External", "EXT", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	tokenID, err := b.Tokens.Mint(db, collection, owner, nil)
	if err != nil {
		t.Fatal(err)
	}

	auth, err := gateway.SignDelegation(ownerPriv, p, collection, tokenID, 0, 1000)
	if err != nil {
		t.Fatal(err)
	}

	res, err := b.Gateway.Execute(&gateway.RegisterOp{
		TokenContract: collection,
		TokenID:       tokenID,
		Metadata: gateway.IPMetadata{
			Name:       "relayed",
			Attributes: []gateway.Attribute{{Key: "via", Value: "relay"}},
		},
		Auth: auth,
	}, relayer)
	if err != nil {
		t.Fatalf("relayed registration errored %v", err)
	}

	// the signer, not the relayer, is the registrant
	a, _, err := b.Registry.GetAsset(db, res.Asset)
	if err != nil {
		t.Fatal(err)
	}
	md, err := gateway.DecodeCanonicalMetadata(a.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	if md.Registrant != owner {
		t.Fatalf("registrant expected %s, got %s", owner, md.Registrant)
	}

	// delegated grants let the gateway write attributes
	v, exists, err := b.Resolver.GetValue(db, res.Asset, "via")
	if err != nil {
		t.Fatal(err)
	}
	if !exists || string(v) != "relay" {
		t.Fatalf("attribute via expected %q, got %q (exists %v)", "relay", v, exists)
	}

	// the nonce advanced with the delegation, so the signature is spent
	rec, err := account.GetAccount(db, res.Asset)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Nonce != 1 {
		t.Fatalf("nonce expected 1, got %d", rec.Nonce)
	}
	if _, err := b.Gateway.Execute(&gateway.RegisterOp{
		TokenContract: collection,
		TokenID:       tokenID,
		Metadata:      gateway.IPMetadata{Name: "replayed"},
		Auth:          auth,
	}, relayer); !errors.Is(err, account.ErrSignerMismatch) {
		t.Fatalf("replay err expected %v, got %v", account.ErrSignerMismatch, err)
	}
}

func TestRegisterWithSigRejections(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	p := b.Gateway.Params()
	ownerPriv, owner := newKey(t)
	strangerPriv, _ := newKey(t)
	_, relayer := newKey(t)
	db := b.Gateway.View()

	collection, err := b.Tokens.Create(db, owner, "External", "EXT", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	tokenID, err := b.Tokens.Mint(db, collection, owner, nil)
	if err != nil {
		t.Fatal(err)
	}

	expired, err := gateway.SignDelegation(ownerPriv, p, collection, tokenID, 0, 99)
	if err != nil {
		t.Fatal(err)
	}
	notOwner, err := gateway.SignDelegation(strangerPriv, p, collection, tokenID, 0, 1000)
	if err != nil {
		t.Fatal(err)
	}
	badNonce, err := gateway.SignDelegation(ownerPriv, p, collection, tokenID, 7, 1000)
	if err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		auth *gateway.Authorization
		err  error
	}{
		{auth: expired, err: account.ErrDeadlineExpired},
		{auth: notOwner, err: account.ErrUnauthorized},
		{auth: badNonce, err: account.ErrSignerMismatch},
	}
	for i, tv := range tt {
		_, err := b.Gateway.Execute(&gateway.RegisterOp{
			TokenContract: collection,
			TokenID:       tokenID,
			Metadata:      gateway.IPMetadata{Name: "relayed"},
			Auth:          tv.auth,
		}, relayer)
		if !errors.Is(err, tv.err) {
			t.Fatalf("#%d: Execute err expected %v, got %v", i, tv.err, err)
		}
	}

	// nothing was registered
	registered, err := b.Registry.IsRegistered(db, b.Registry.AssetID(collection, tokenID))
	if err != nil {
		t.Fatal(err)
	}
	if registered {
		t.Fatal("asset registered despite rejected authorizations")
	}
}

func TestMintAndRegisterWithSig(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	p := b.Gateway.Params()
	ownerPriv, owner := newKey(t)
	_, relayer := newKey(t)
	_, creator := newKey(t)
	db := b.Gateway.View()

	collection := createCollection(t, b, creator, 0, gateway.MintSettings{})

	// the next token id in a fresh collection is 0; the delegation is signed
	// against its counterfactual account
	auth, err := gateway.SignDelegation(ownerPriv, p, collection, 0, 0, 1000)
	if err != nil {
		t.Fatal(err)
	}

	res, err := b.Gateway.Execute(&gateway.MintAndRegisterOp{
		Collection: collection,
		Metadata:   gateway.IPMetadata{Name: "relayed mint"},
		Auth:       auth,
	}, relayer)
	if err != nil {
		t.Fatalf("relayed mint and register errored %v", err)
	}

	// minted to the signer, not the relayer
	minted, err := b.Tokens.OwnerOf(db, collection, res.TokenID)
	if err != nil {
		t.Fatal(err)
	}
	if minted != owner {
		t.Fatalf("token owner expected %s, got %s", owner, minted)
	}

	a, _, err := b.Registry.GetAsset(db, res.Asset)
	if err != nil {
		t.Fatal(err)
	}
	md, err := gateway.DecodeCanonicalMetadata(a.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	if md.Registrant != owner {
		t.Fatalf("registrant expected %s, got %s", owner, md.Registrant)
	}
}

func TestWithSigAtomicity(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	p := b.Gateway.Params()
	ownerPriv, owner := newKey(t)
	_, relayer := newKey(t)
	db := b.Gateway.View()

	collection, err := b.Tokens.Create(db, owner, "External", "EXT", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	tokenID, err := b.Tokens.Mint(db, collection, owner, nil)
	if err != nil {
		t.Fatal(err)
	}

	auth, err := gateway.SignDelegation(ownerPriv, p, collection, tokenID, 0, 1000)
	if err != nil {
		t.Fatal(err)
	}

	// valid delegation, but the registration itself fails downstream
	if _, err := b.Gateway.Execute(&gateway.RegisterDerivativeOp{
		TokenContract: collection,
		TokenID:       tokenID,
		Metadata:      gateway.IPMetadata{Name: "relayed"},
		Auth:          auth,
	}, relayer); !errors.Is(err, registry.ErrNoLicenses) {
		t.Fatalf("Execute err expected %v, got %v", registry.ErrNoLicenses, err)
	}

	// the nonce advance rolled back with everything else, so the same
	// authorization still works
	if _, err := b.Gateway.Execute(&gateway.RegisterOp{
		TokenContract: collection,
		TokenID:       tokenID,
		Metadata:      gateway.IPMetadata{Name: "relayed"},
		Auth:          auth,
	}, relayer); err != nil {
		t.Fatalf("reuse after rollback errored %v", err)
	}
}
