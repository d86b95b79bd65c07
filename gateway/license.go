// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/ipcore/ipgateway/licensing"
)

var _ Op = &CreatePolicyOp{}

// CreatePolicyOp registers a new license policy. Policies are immutable once
// created; a changed term is a new policy with a new ID.
type CreatePolicyOp struct {
	Policy licensing.Policy `serialize:"true" json:"policy"`
}

func (op *CreatePolicyOp) Type() string { return CreatePolicy }

func (op *CreatePolicyOp) Execute(c *TxContext) (*Result, error) {
	id, err := c.X.Licensing.CreatePolicy(c.Database, c.Sender, op.Policy)
	if err != nil {
		return nil, err
	}
	return &Result{PolicyID: id}, nil
}

func (op *CreatePolicyOp) TypedData(p *Params) *apitypes.TypedData {
	return opTypedData(p, CreatePolicy,
		[]apitypes.Type{
			{Name: "attribution", Type: tdBool},
			{Name: "commercialUse", Type: tdBool},
			{Name: "derivativesAllowed", Type: tdBool},
			{Name: "uri", Type: tdString},
		},
		apitypes.TypedDataMessage{
			"attribution":        op.Policy.Attribution,
			"commercialUse":      op.Policy.CommercialUse,
			"derivativesAllowed": op.Policy.DerivativesAllowed,
			"uri":                op.Policy.URI,
		},
	)
}

var _ Op = &MintLicenseOp{}

// MintLicenseOp mints license tokens against a policy attached to a licensor
// asset. The receiver spends them later in a derivative registration.
type MintLicenseOp struct {
	PolicyID       uint64         `serialize:"true" json:"policyId"`
	Licensor       common.Address `serialize:"true" json:"licensor"`
	Amount         uint64         `serialize:"true" json:"amount"`
	Receiver       common.Address `serialize:"true" json:"receiver"`
	RoyaltyContext []byte         `serialize:"true" json:"royaltyContext"`
}

func (op *MintLicenseOp) Type() string { return MintLicense }

func (op *MintLicenseOp) Execute(c *TxContext) (*Result, error) {
	id, err := c.X.Licensing.MintLicense(
		c.Database, c.Sender,
		op.PolicyID, op.Licensor, op.Amount, op.Receiver, op.RoyaltyContext,
	)
	if err != nil {
		return nil, err
	}
	return &Result{PolicyID: op.PolicyID, LicenseID: id}, nil
}

func (op *MintLicenseOp) TypedData(p *Params) *apitypes.TypedData {
	return opTypedData(p, MintLicense,
		[]apitypes.Type{
			{Name: "policyId", Type: tdUint64},
			{Name: "licensor", Type: tdAddress},
			{Name: "amount", Type: tdUint64},
			{Name: "receiver", Type: tdAddress},
			{Name: "royaltyContextHash", Type: tdBytes32},
		},
		apitypes.TypedDataMessage{
			"policyId":           tdUint(op.PolicyID),
			"licensor":           op.Licensor.Hex(),
			"amount":             tdUint(op.Amount),
			"receiver":           op.Receiver.Hex(),
			"royaltyContextHash": crypto.Keccak256Hash(op.RoyaltyContext).Hex(),
		},
	)
}
