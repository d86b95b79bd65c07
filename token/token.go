// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements a minimal ERC-721-style collection ledger.
// Collections are keyed records; token ids are assigned sequentially from 0.
package token

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Collection is the stored record for a deployed collection.
type Collection struct {
	Owner     common.Address `serialize:"true" json:"owner"`
	Name      string         `serialize:"true" json:"name"`
	Symbol    string         `serialize:"true" json:"symbol"`
	MaxSupply uint64         `serialize:"true" json:"maxSupply"` // 0 means unlimited
	Minted    uint64         `serialize:"true" json:"minted"`
	Metadata  []byte         `serialize:"true" json:"metadata"`
}

// Ledger owns collection and token bookkeeping. All methods operate on the
// database view they are handed so callers control staging.
type Ledger struct{}

// Create deploys a new collection record and returns its address. Addresses
// are derived from a monotonically increasing deployment sequence so repeat
// creations by the same owner never collide.
func (l *Ledger) Create(db database.Database, owner common.Address, name string, symbol string, maxSupply uint64, metadata []byte) (common.Address, error) {
	seq, err := nextCollectionSeq(db)
	if err != nil {
		return common.Address{}, err
	}
	seqb := make([]byte, 8)
	binary.BigEndian.PutUint64(seqb, seq)
	h := crypto.Keccak256([]byte("ipgw-collection"), owner[:], seqb)
	addr := common.BytesToAddress(h[12:])

	c := &Collection{
		Owner:     owner,
		Name:      name,
		Symbol:    symbol,
		MaxSupply: maxSupply,
		Metadata:  metadata,
	}
	return addr, PutCollection(db, addr, c)
}

// Mint assigns the next token id in the collection to the recipient.
func (l *Ledger) Mint(db database.Database, collection common.Address, to common.Address, metadata []byte) (uint64, error) {
	c, has, err := GetCollection(db, collection)
	if err != nil {
		return 0, err
	}
	if !has {
		return 0, ErrCollectionMissing
	}
	if c.MaxSupply != 0 && c.Minted >= c.MaxSupply {
		return 0, ErrSupplyExhausted
	}
	tokenID := c.Minted
	c.Minted++
	if err := PutCollection(db, collection, c); err != nil {
		return 0, err
	}
	if err := putTokenOwner(db, collection, tokenID, to); err != nil {
		return 0, err
	}
	if len(metadata) > 0 {
		if err := db.Put(tokenKey(metadataPrefix, collection, tokenID), metadata); err != nil {
			return 0, err
		}
	}
	return tokenID, nil
}

// CollectionOwner returns the owner of a collection record, if it exists.
func (l *Ledger) CollectionOwner(db database.Database, collection common.Address) (common.Address, bool, error) {
	c, has, err := GetCollection(db, collection)
	if err != nil || !has {
		return common.Address{}, false, err
	}
	return c.Owner, true, nil
}

func (l *Ledger) OwnerOf(db database.Database, collection common.Address, tokenID uint64) (common.Address, error) {
	owner, has, err := getTokenOwner(db, collection, tokenID)
	if err != nil {
		return common.Address{}, err
	}
	if !has {
		return common.Address{}, ErrTokenMissing
	}
	return owner, nil
}

func (l *Ledger) SetApprovalForAll(db database.Database, collection common.Address, owner common.Address, operator common.Address, approved bool) error {
	k := approvalKey(collection, owner, operator)
	if !approved {
		return db.Delete(k)
	}
	return db.Put(k, []byte{0x1})
}

func (l *Ledger) IsApprovedForAll(db database.Database, collection common.Address, owner common.Address, operator common.Address) (bool, error) {
	return db.Has(approvalKey(collection, owner, operator))
}

// TransferFrom moves a token between owners. The caller must be the current
// owner or an approved operator for the owner.
func (l *Ledger) TransferFrom(db database.Database, collection common.Address, caller common.Address, from common.Address, to common.Address, tokenID uint64) error {
	owner, err := l.OwnerOf(db, collection, tokenID)
	if err != nil {
		return err
	}
	if owner != from {
		return ErrNotTokenOwner
	}
	if caller != owner {
		approved, err := l.IsApprovedForAll(db, collection, owner, caller)
		if err != nil {
			return err
		}
		if !approved {
			return ErrUnauthorized
		}
	}
	return putTokenOwner(db, collection, tokenID, to)
}
