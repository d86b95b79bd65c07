// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/ethereum/go-ethereum/common"
)

// mintToken gates a mint request on the collection's minting window and
// delegates the actual mint to the collection. A failed mint aborts the
// enclosing operation; there are no retries.
func mintToken(c *TxContext, collection common.Address, encodedMetadata []byte, recipient common.Address) (uint64, error) {
	s, err := GetMintSettings(c.Database, collection)
	if err != nil {
		return 0, err
	}
	if c.Time < s.Start {
		return 0, ErrMintingNotYetStarted
	}
	if s.End != 0 && c.Time > s.End {
		return 0, ErrMintingAlreadyEnded
	}
	return c.X.Tokens.Mint(c.Database, collection, recipient, encodedMetadata)
}
