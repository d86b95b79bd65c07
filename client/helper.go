// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"

	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/sigs"
)

// SignIssue signs the operation envelope with the private key and submits it.
func SignIssue(cli Client, op gateway.Op, priv *ecdsa.PrivateKey) (*gateway.Result, error) {
	p, err := cli.Params()
	if err != nil {
		return nil, err
	}
	dh, err := gateway.DigestHash(op, p)
	if err != nil {
		return nil, err
	}
	sig, err := sigs.Sign(dh, priv)
	if err != nil {
		return nil, err
	}

	color.Yellow("issuing %s", op.Type())
	res, err := cli.Issue(op, sig)
	if err != nil {
		color.Red("%s failed: %v", op.Type(), err)
		return nil, err
	}
	color.Green("%s executed", op.Type())
	return res, nil
}

// SignDelegation builds the authorization a token owner signs so a relayer can
// submit a WithSig registration on their behalf. The account nonce is fetched
// from the service.
func SignDelegation(cli Client, priv *ecdsa.PrivateKey, token common.Address, tokenID uint64, deadline uint64) (*gateway.Authorization, error) {
	p, err := cli.Params()
	if err != nil {
		return nil, err
	}
	_, nonce, err := cli.AccountNonce(token, tokenID)
	if err != nil {
		return nil, err
	}
	return gateway.SignDelegation(priv, p, token, tokenID, nonce, deadline)
}
