// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry implements the asset registry: it allocates canonical
// asset identifiers derived from (chain id, token contract, token id),
// rejects duplicate registrations, records derivative parentage after
// consuming the presented licenses, and deploys the per-asset account.
package registry

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/account"
)

var (
	ErrAlreadyRegistered = errors.New("asset already registered")
	ErrAssetMissing      = errors.New("asset not registered")
	ErrNoLicenses        = errors.New("derivative registration requires licenses")
)

// Asset is the stored record for a registered asset.
type Asset struct {
	ChainID      uint64           `serialize:"true" json:"chainId"`
	Token        common.Address   `serialize:"true" json:"token"`
	TokenID      uint64           `serialize:"true" json:"tokenId"`
	Resolver     common.Address   `serialize:"true" json:"resolver"`
	AllowUpdates bool             `serialize:"true" json:"allowUpdates"`
	Metadata     []byte           `serialize:"true" json:"metadata"`
	Parents      []common.Address `serialize:"true" json:"parents"`

	// RoyaltyContext is recorded verbatim for derivative assets; royalty
	// accounting itself is externally owned.
	RoyaltyContext []byte `serialize:"true" json:"royaltyContext"`
}

// TokenOwner resolves current token ownership.
type TokenOwner interface {
	OwnerOf(db database.Database, collection common.Address, tokenID uint64) (common.Address, error)
}

// LicenseBurner consumes license tokens on behalf of a registrant and
// returns the licensor (parent) assets.
type LicenseBurner interface {
	Burn(db database.Database, actor common.Address, licenseIDs []uint64) ([]common.Address, error)
}

// Registry is the asset registry.
type Registry struct {
	ChainID uint64
	Tokens  TokenOwner
	Burner  LicenseBurner
}

// AssetID returns the canonical identifier for a token. It matches the
// account address derivation, so the identifier doubles as the asset's
// execution account.
func (r *Registry) AssetID(token common.Address, tokenID uint64) common.Address {
	return account.Derive(r.ChainID, token, tokenID)
}

// Register allocates the canonical identifier, stores the encoded metadata
// blob, and deploys the asset account. Registering the same
// (chain, contract, tokenId) twice fails.
func (r *Registry) Register(db database.Database, token common.Address, tokenID uint64, resolverAddr common.Address, allowUpdates bool, metadata []byte) (common.Address, error) {
	return r.register(db, &Asset{
		ChainID:      r.ChainID,
		Token:        token,
		TokenID:      tokenID,
		Resolver:     resolverAddr,
		AllowUpdates: allowUpdates,
		Metadata:     metadata,
	})
}

// RegisterDerivative registers an asset that consumes the given licenses.
// The licenses are burned on behalf of the registrant before the record is
// written; the licensors become the new asset's parents.
func (r *Registry) RegisterDerivative(db database.Database, registrant common.Address, licenseIDs []uint64, royaltyContext []byte, token common.Address, tokenID uint64, resolverAddr common.Address, allowUpdates bool, metadata []byte) (common.Address, error) {
	if len(licenseIDs) == 0 {
		return common.Address{}, ErrNoLicenses
	}
	parents, err := r.Burner.Burn(db, registrant, licenseIDs)
	if err != nil {
		return common.Address{}, err
	}
	return r.register(db, &Asset{
		ChainID:        r.ChainID,
		Token:          token,
		TokenID:        tokenID,
		Resolver:       resolverAddr,
		AllowUpdates:   allowUpdates,
		Metadata:       metadata,
		Parents:        parents,
		RoyaltyContext: royaltyContext,
	})
}

func (r *Registry) register(db database.Database, a *Asset) (common.Address, error) {
	id := r.AssetID(a.Token, a.TokenID)
	registered, err := r.IsRegistered(db, id)
	if err != nil {
		return common.Address{}, err
	}
	if registered {
		return common.Address{}, ErrAlreadyRegistered
	}
	if err := putAsset(db, id, a); err != nil {
		return common.Address{}, err
	}
	if err := account.Deploy(db, id); err != nil {
		return common.Address{}, err
	}
	return id, nil
}

// IsRegistered reports whether an asset identifier has been allocated.
func (r *Registry) IsRegistered(db database.Database, asset common.Address) (bool, error) {
	return db.Has(assetKey(asset))
}

// GetAsset returns the stored asset record.
func (r *Registry) GetAsset(db database.Database, asset common.Address) (*Asset, bool, error) {
	return getAsset(db, asset)
}

// OwnerOf resolves the current owner of a registered asset through its
// underlying token. Satisfies the access controller's owner resolver.
func (r *Registry) OwnerOf(db database.Database, asset common.Address) (common.Address, error) {
	a, has, err := getAsset(db, asset)
	if err != nil {
		return common.Address{}, err
	}
	if !has {
		return common.Address{}, ErrAssetMissing
	}
	return r.Tokens.OwnerOf(db, a.Token, a.TokenID)
}
