// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/parser"
)

// 0x0/ (asset records)
//   -> [asset address]

const assetPrefix = 0x0

func assetKey(asset common.Address) []byte {
	return append([]byte{assetPrefix, parser.ByteDelimiter}, asset[:]...)
}

func putAsset(db database.Database, asset common.Address, a *Asset) error {
	v, err := Marshal(a)
	if err != nil {
		return err
	}
	return db.Put(assetKey(asset), v)
}

func getAsset(db database.Database, asset common.Address) (*Asset, bool, error) {
	k := assetKey(asset)
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
	var a Asset
	if _, err := Unmarshal(v, &a); err != nil {
		return nil, false, err
	}
	return &a, true, nil
}
