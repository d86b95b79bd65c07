// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ipcore/ipgateway/access"
	"github.com/ipcore/ipgateway/account"
	"github.com/ipcore/ipgateway/sigs"
)

// Authorization is an off-chain-signed permission delegation. It is consumed
// exactly once: verification is bound to the asset account's current nonce,
// which advances with the wrapped call.
type Authorization struct {
	Signer    common.Address `serialize:"true" json:"signer"`
	Deadline  uint64         `serialize:"true" json:"deadline"`
	Signature []byte         `serialize:"true" json:"signature"`
}

// DelegationPermissions is the grant list an authorization carries: ALLOW
// for the gateway on the licensing module and the metadata resolver, all
// selectors, scoped to the asset account.
func DelegationPermissions(p *Params, asset common.Address) []access.Permission {
	return []access.Permission{
		{
			Account:  asset,
			Signer:   p.GatewayAddress,
			Target:   p.LicensingModule,
			Selector: access.SelectorAll,
			Effect:   access.Allow,
		},
		{
			Account:  asset,
			Signer:   p.GatewayAddress,
			Target:   p.MetadataResolver,
			Selector: access.SelectorAll,
			Effect:   access.Allow,
		},
	}
}

// DelegationCalldata encodes the grant list as a single batched
// setBatchPermissions call.
func DelegationCalldata(p *Params, asset common.Address) ([]byte, error) {
	return access.MarshalBatch(DelegationPermissions(p, asset))
}

// delegatePermissions submits the signed grant to the asset account. On
// success the gateway is authorized, for the remainder of the enclosing
// operation, to call the licensing module and metadata resolver as the
// account. It must run before any call that relies on the grant.
func delegatePermissions(c *TxContext, token common.Address, tokenID uint64, auth *Authorization) error {
	asset := account.Derive(c.Params.ChainID, token, tokenID)
	data, err := DelegationCalldata(c.Params, asset)
	if err != nil {
		return err
	}
	return c.X.Accounts.ExecuteWithSig(
		c.Database, c.Time,
		token, tokenID,
		c.Params.AccessController, 0, data,
		auth.Signer, auth.Deadline, auth.Signature,
	)
}

// SignDelegation produces the authorization a token owner signs off-chain so
// a relayer can submit a WithSig registration on their behalf. The nonce must
// be the asset account's current nonce.
func SignDelegation(priv *ecdsa.PrivateKey, p *Params, token common.Address, tokenID uint64, nonce uint64, deadline uint64) (*Authorization, error) {
	asset := account.Derive(p.ChainID, token, tokenID)
	data, err := DelegationCalldata(p, asset)
	if err != nil {
		return nil, err
	}
	dh, err := account.ExecuteDigest(p.ChainID, asset, p.AccessController, 0, data, nonce, deadline)
	if err != nil {
		return nil, err
	}
	sig, err := sigs.Sign(dh, priv)
	if err != nil {
		return nil, err
	}
	return &Authorization{
		Signer:    crypto.PubkeyToAddress(priv.PublicKey),
		Deadline:  deadline,
		Signature: sig,
	}, nil
}
