// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sigs implements secp256k1 signing and sender recovery over
// EIP-712 digest hashes.
package sigs

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	vOffset      = 64
	legacySigAdj = 27
)

var ErrInvalidSignature = errors.New("invalid signature")

func Sign(dh []byte, priv *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(dh, priv)
	if err != nil {
		return nil, err
	}
	sig[vOffset] += legacySigAdj
	return sig, nil
}

func DeriveSender(dh []byte, sig []byte) (*ecdsa.PublicKey, error) {
	if len(sig) != crypto.SignatureLength {
		return nil, ErrInvalidSignature
	}
	// Avoid modifying the signature in place in case it is used elsewhere
	sigcpy := make([]byte, crypto.SignatureLength)
	copy(sigcpy, sig)

	// Support signers that don't apply offset (ex: ledger)
	if sigcpy[vOffset] >= legacySigAdj {
		sigcpy[vOffset] -= legacySigAdj
	}
	return crypto.SigToPub(dh, sigcpy)
}

// DeriveAddress recovers the signing address from a digest hash and a
// signature.
func DeriveAddress(dh []byte, sig []byte) (common.Address, error) {
	pk, err := DeriveSender(dh, sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pk), nil
}
