// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/licensing"
)

// TxContext is the execution context for a single atomic operation. The
// database is a staged view; nothing written through it is visible to other
// callers until the whole operation commits.
type TxContext struct {
	Params   *Params
	Database database.Database
	Time     uint64
	Sender   common.Address

	X *Externals
}

// Externals bundles the external collaborators the gateway composes. Every
// method takes the database view it should operate on so staged execution
// covers collaborator state too.
type Externals struct {
	Registry  AssetRegistry
	Licensing LicensingModule
	Resolver  MetadataResolver
	Tokens    TokenLedger
	Accounts  AccountExecutor
}

// AssetRegistry allocates canonical asset identifiers and deploys per-asset
// accounts.
type AssetRegistry interface {
	Register(db database.Database, token common.Address, tokenID uint64, resolverAddr common.Address, allowUpdates bool, metadata []byte) (common.Address, error)
	RegisterDerivative(db database.Database, registrant common.Address, licenseIDs []uint64, royaltyContext []byte, token common.Address, tokenID uint64, resolverAddr common.Address, allowUpdates bool, metadata []byte) (common.Address, error)
	IsRegistered(db database.Database, asset common.Address) (bool, error)
}

// LicensingModule manages policies and license tokens.
type LicensingModule interface {
	CreatePolicy(db database.Database, creator common.Address, pol licensing.Policy) (uint64, error)
	AddPolicyToIP(db database.Database, caller common.Address, asset common.Address, policyID uint64) (uint64, error)
	MintLicense(db database.Database, caller common.Address, policyID uint64, licensor common.Address, amount uint64, receiver common.Address, royaltyContext []byte) (uint64, error)
}

// MetadataResolver persists custom attributes for registered assets.
type MetadataResolver interface {
	SetValue(db database.Database, caller common.Address, asset common.Address, key string, value []byte) error
}

// TokenLedger is the collection/token collaborator.
type TokenLedger interface {
	Create(db database.Database, owner common.Address, name string, symbol string, maxSupply uint64, metadata []byte) (common.Address, error)
	Mint(db database.Database, collection common.Address, to common.Address, metadata []byte) (uint64, error)
	OwnerOf(db database.Database, collection common.Address, tokenID uint64) (common.Address, error)
	IsApprovedForAll(db database.Database, collection common.Address, owner common.Address, operator common.Address) (bool, error)
	CollectionOwner(db database.Database, collection common.Address) (common.Address, bool, error)
}

// AccountExecutor submits signed meta-transactions to asset accounts.
type AccountExecutor interface {
	ExecuteWithSig(db database.Database, now uint64, token common.Address, tokenID uint64, target common.Address, value uint64, data []byte, signer common.Address, deadline uint64, sig []byte) error
}
