// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/licensing"
	"github.com/ipcore/ipgateway/parser"
	"github.com/ipcore/ipgateway/registry"
	"github.com/ipcore/ipgateway/token"
)

func TestMintAndRegister(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	_, creator := newKey(t)
	db := b.Gateway.View()

	collection := createCollection(t, b, creator, 0, gateway.MintSettings{})

	res, err := b.Gateway.Execute(&gateway.CreatePolicyOp{
		Policy: licensing.Policy{Attribution: true, DerivativesAllowed: true},
	}, creator)
	if err != nil {
		t.Fatal(err)
	}
	policyID := res.PolicyID
	if policyID == 0 {
		t.Fatal("policy id expected nonzero")
	}

	now = 150
	res, err = b.Gateway.Execute(&gateway.MintAndRegisterOp{
		PolicyID:   policyID,
		Collection: collection,
		Metadata: gateway.IPMetadata{
			Name:        "First Work",
			ContentHash: common.HexToHash("0xbeef"),
			URL:         "ipfs://work",
			Attributes: []gateway.Attribute{
				{Key: "genre", Value: "ambient"},
				{Key: "format", Value: "flac"},
			},
		},
	}, creator)
	if err != nil {
		t.Fatalf("mint and register errored %v", err)
	}
	if res.Collection != collection {
		t.Fatalf("collection expected %s, got %s", collection, res.Collection)
	}

	owner, err := b.Tokens.OwnerOf(db, collection, res.TokenID)
	if err != nil {
		t.Fatal(err)
	}
	if owner != creator {
		t.Fatalf("token owner expected %s, got %s", creator, owner)
	}

	a, has, err := b.Registry.GetAsset(db, res.Asset)
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Fatal("asset not registered")
	}
	md, err := gateway.DecodeCanonicalMetadata(a.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	if md.Name != "First Work" || md.URL != "ipfs://work" {
		t.Fatalf("unexpected canonical metadata %+v", md)
	}
	if md.Registrant != creator {
		t.Fatalf("registrant expected %s, got %s", creator, md.Registrant)
	}
	if md.RegistrationDate != 150 {
		t.Fatalf("registration date expected 150, got %d", md.RegistrationDate)
	}

	attached, err := b.Licensing.HasPolicy(db, res.Asset, policyID)
	if err != nil {
		t.Fatal(err)
	}
	if !attached {
		t.Fatal("policy not attached to asset")
	}

	v, exists, err := b.Resolver.GetValue(db, res.Asset, "genre")
	if err != nil {
		t.Fatal(err)
	}
	if !exists || string(v) != "ambient" {
		t.Fatalf("attribute genre expected %q, got %q (exists %v)", "ambient", v, exists)
	}
}

func TestRegisterExistingToken(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	_, owner := newKey(t)
	_, operator := newKey(t)
	_, stranger := newKey(t)
	db := b.Gateway.View()

	// token minted outside the gateway
	collection, err := b.Tokens.Create(db, owner, "External", "EXT", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	tokenID, err := b.Tokens.Mint(db, collection, owner, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Tokens.SetApprovalForAll(db, collection, owner, operator, true); err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		sender common.Address
		err    error
	}{
		{sender: stranger, err: gateway.ErrInvalidOwner},
		{sender: operator, err: nil}, // approved operators may register
		{sender: owner, err: registry.ErrAlreadyRegistered},
	}
	for i, tv := range tt {
		_, err := b.Gateway.Execute(&gateway.RegisterOp{
			TokenContract: collection,
			TokenID:       tokenID,
			Metadata:      gateway.IPMetadata{Name: "ext"},
		}, tv.sender)
		if !errors.Is(err, tv.err) {
			t.Fatalf("#%d: Execute err expected %v, got %v", i, tv.err, err)
		}
	}
}

func TestRegisterMetadataLimits(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	p := b.Gateway.Params()
	_, owner := newKey(t)

	collection := createCollection(t, b, owner, 0, gateway.MintSettings{})

	tooMany := make([]gateway.Attribute, p.MaxAttributes+1)
	for i := range tooMany {
		tooMany[i] = gateway.Attribute{Key: "k", Value: "v"}
	}

	tt := []struct {
		md  gateway.IPMetadata
		err error
	}{
		{md: gateway.IPMetadata{Name: strings.Repeat("n", int(p.MaxNameSize)+1)}, err: gateway.ErrNameTooBig},
		{md: gateway.IPMetadata{URL: strings.Repeat("u", int(p.MaxURLSize)+1)}, err: gateway.ErrURLTooBig},
		{md: gateway.IPMetadata{Attributes: tooMany}, err: gateway.ErrTooManyAttributes},
	}
	for i, tv := range tt {
		_, err := b.Gateway.Execute(&gateway.MintAndRegisterOp{
			Collection: collection,
			Metadata:   tv.md,
		}, owner)
		if !errors.Is(err, tv.err) {
			t.Fatalf("#%d: Execute err expected %v, got %v", i, tv.err, err)
		}
	}
}

func TestRegisterRollback(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	_, owner := newKey(t)
	db := b.Gateway.View()

	collection := createCollection(t, b, owner, 0, gateway.MintSettings{})

	// The second attribute fails deep in the sequence, after the mint, the
	// registration, and the first attribute write.
	_, err := b.Gateway.Execute(&gateway.MintAndRegisterOp{
		Collection: collection,
		Metadata: gateway.IPMetadata{
			Name: "doomed",
			Attributes: []gateway.Attribute{
				{Key: "ok", Value: "fine"},
				{Key: "bad/key", Value: "nope"},
			},
		},
	}, owner)
	if !errors.Is(err, parser.ErrKeyDelimiter) {
		t.Fatalf("Execute err expected %v, got %v", parser.ErrKeyDelimiter, err)
	}

	// nothing survived: no token, no asset, no attribute
	if _, err := b.Tokens.OwnerOf(db, collection, 0); !errors.Is(err, token.ErrTokenMissing) {
		t.Fatalf("OwnerOf err expected %v, got %v", token.ErrTokenMissing, err)
	}
	asset := b.Registry.AssetID(collection, 0)
	registered, err := b.Registry.IsRegistered(db, asset)
	if err != nil {
		t.Fatal(err)
	}
	if registered {
		t.Fatal("asset registered despite failed operation")
	}
	if _, exists, err := b.Resolver.GetValue(db, asset, "ok"); err != nil || exists {
		t.Fatalf("attribute survived failed operation (exists %v, err %v)", exists, err)
	}
}

func TestRegisterDerivative(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	_, creator := newKey(t)
	_, author := newKey(t)
	db := b.Gateway.View()

	collection := createCollection(t, b, creator, 0, gateway.MintSettings{})

	res, err := b.Gateway.Execute(&gateway.CreatePolicyOp{
		Policy: licensing.Policy{DerivativesAllowed: true},
	}, creator)
	if err != nil {
		t.Fatal(err)
	}
	policyID := res.PolicyID

	res, err = b.Gateway.Execute(&gateway.MintAndRegisterOp{
		PolicyID:   policyID,
		Collection: collection,
		Metadata:   gateway.IPMetadata{Name: "original"},
	}, creator)
	if err != nil {
		t.Fatal(err)
	}
	original := res.Asset

	// derivative without licenses is rejected
	if _, err := b.Gateway.Execute(&gateway.MintAndRegisterDerivativeOp{
		Collection: collection,
		Metadata:   gateway.IPMetadata{Name: "derivative"},
	}, author); !errors.Is(err, registry.ErrNoLicenses) {
		t.Fatalf("Execute err expected %v, got %v", registry.ErrNoLicenses, err)
	}

	res, err = b.Gateway.Execute(&gateway.MintLicenseOp{
		PolicyID: policyID,
		Licensor: original,
		Amount:   1,
		Receiver: author,
	}, author)
	if err != nil {
		t.Fatal(err)
	}
	licenseID := res.LicenseID

	// someone else's license cannot be spent
	if _, err := b.Gateway.Execute(&gateway.MintAndRegisterDerivativeOp{
		LicenseIDs: []uint64{licenseID},
		Collection: collection,
		Metadata:   gateway.IPMetadata{Name: "derivative"},
	}, creator); !errors.Is(err, licensing.ErrUnauthorized) {
		t.Fatalf("Execute err expected %v, got %v", licensing.ErrUnauthorized, err)
	}

	res, err = b.Gateway.Execute(&gateway.MintAndRegisterDerivativeOp{
		LicenseIDs: []uint64{licenseID},
		Collection: collection,
		Metadata:   gateway.IPMetadata{Name: "derivative"},
	}, author)
	if err != nil {
		t.Fatalf("derivative registration errored %v", err)
	}

	a, has, err := b.Registry.GetAsset(db, res.Asset)
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Fatal("derivative not registered")
	}
	if len(a.Parents) != 1 || a.Parents[0] != original {
		t.Fatalf("parents expected [%s], got %v", original, a.Parents)
	}

	// single-use license is gone
	if _, has, err := b.Licensing.GetLicense(db, licenseID); err != nil || has {
		t.Fatalf("license survived consumption (has %v, err %v)", has, err)
	}
}
