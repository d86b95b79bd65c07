// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/parser"
)

// 0x0/ (mint settings)
//   -> [collection address]

const settingsPrefix = 0x0

func mintSettingsKey(collection common.Address) []byte {
	return append([]byte{settingsPrefix, parser.ByteDelimiter}, collection[:]...)
}

// GetMintSettings returns the stored settings for a collection, or the zero
// value if the collection was never configured (Start == 0 is the "never
// configured" sentinel: creation always stores a nonzero start).
func GetMintSettings(db database.Database, collection common.Address) (MintSettings, error) {
	k := mintSettingsKey(collection)
	has, err := db.Has(k)
	if err != nil {
		return MintSettings{}, err
	}
	if !has {
		return MintSettings{}, nil
	}
	v, err := db.Get(k)
	if err != nil {
		return MintSettings{}, err
	}
	var s MintSettings
	if _, err := Unmarshal(v, &s); err != nil {
		return MintSettings{}, err
	}
	return s, nil
}

func PutMintSettings(db database.Database, collection common.Address, s *MintSettings) error {
	v, err := Marshal(s)
	if err != nil {
		return err
	}
	return db.Put(mintSettingsKey(collection), v)
}
