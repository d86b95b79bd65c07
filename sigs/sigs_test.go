// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigs

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestSignRecover(t *testing.T) {
	t.Parallel()

	priv, err := crypto.GenerateKey()
	assert.NoError(t, err)
	addr := crypto.PubkeyToAddress(priv.PublicKey)

	dh := crypto.Keccak256([]byte("digest"))
	sig, err := Sign(dh, priv)
	assert.NoError(t, err)

	recovered, err := DeriveAddress(dh, sig)
	assert.NoError(t, err)
	assert.Equal(t, addr, recovered)

	// a different digest recovers a different address
	other, err := DeriveAddress(crypto.Keccak256([]byte("other")), sig)
	assert.NoError(t, err)
	assert.NotEqual(t, addr, other)

	_, err = DeriveAddress(dh, sig[:10])
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
