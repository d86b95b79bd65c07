// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/parser"
)

// 0x0/ (collection records)
//   -> [collection address]
// 0x1/ (token owners)
//   -> [collection address + token id]
// 0x2/ (token metadata)
//   -> [collection address + token id]
// 0x3/ (operator approvals)
//   -> [collection address + owner + operator]

const (
	collectionPrefix = 0x0
	ownerPrefix      = 0x1
	metadataPrefix   = 0x2
	approvalPrefix   = 0x3
)

var collectionCount = []byte("collection_count")

func collectionKey(collection common.Address) []byte {
	return append([]byte{collectionPrefix, parser.ByteDelimiter}, collection[:]...)
}

func tokenKey(prefix byte, collection common.Address, tokenID uint64) []byte {
	b := make([]byte, 2+common.AddressLength+8)
	b[0] = prefix
	b[1] = parser.ByteDelimiter
	copy(b[2:], collection[:])
	binary.BigEndian.PutUint64(b[2+common.AddressLength:], tokenID)
	return b
}

func approvalKey(collection, owner, operator common.Address) []byte {
	b := make([]byte, 2+3*common.AddressLength)
	b[0] = approvalPrefix
	b[1] = parser.ByteDelimiter
	copy(b[2:], collection[:])
	copy(b[2+common.AddressLength:], owner[:])
	copy(b[2+2*common.AddressLength:], operator[:])
	return b
}

func GetCollection(db database.Database, collection common.Address) (*Collection, bool, error) {
	k := collectionKey(collection)
	has, err := db.Has(k)
	if err != nil {
		return nil, false, err
	}
	if !has {
		return nil, false, nil
	}
	v, err := db.Get(k)
	if err != nil {
		return nil, false, err
	}
	var c Collection
	if _, err := Unmarshal(v, &c); err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

func PutCollection(db database.Database, collection common.Address, c *Collection) error {
	v, err := Marshal(c)
	if err != nil {
		return err
	}
	return db.Put(collectionKey(collection), v)
}

func getTokenOwner(db database.Database, collection common.Address, tokenID uint64) (common.Address, bool, error) {
	k := tokenKey(ownerPrefix, collection, tokenID)
	has, err := db.Has(k)
	if err != nil {
		return common.Address{}, false, err
	}
	if !has {
		return common.Address{}, false, nil
	}
	v, err := db.Get(k)
	if err != nil {
		return common.Address{}, false, err
	}
	return common.BytesToAddress(v), true, nil
}

func putTokenOwner(db database.Database, collection common.Address, tokenID uint64, owner common.Address) error {
	return db.Put(tokenKey(ownerPrefix, collection, tokenID), owner[:])
}

// GetTokenMetadata returns the encoded metadata supplied at mint time.
func GetTokenMetadata(db database.Database, collection common.Address, tokenID uint64) ([]byte, bool, error) {
	k := tokenKey(metadataPrefix, collection, tokenID)
	has, err := db.Has(k)
	if err != nil {
		return nil, false, err
	}
	if !has {
		return nil, false, nil
	}
	v, err := db.Get(k)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func nextCollectionSeq(db database.Database) (uint64, error) {
	var seq uint64
	has, err := db.Has(collectionCount)
	if err != nil {
		return 0, err
	}
	if has {
		v, err := db.Get(collectionCount)
		if err != nil {
			return 0, err
		}
		seq = binary.BigEndian.Uint64(v)
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq+1)
	if err := db.Put(collectionCount, b); err != nil {
		return 0, err
	}
	return seq, nil
}
