// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// registration is the shared shape of the four public workflows.
type registration struct {
	policyID       uint64
	licenseIDs     []uint64
	royaltyContext []byte
	derivative     bool

	token   common.Address
	tokenID uint64
	minted  bool // token was minted by this operation; ownership is implied

	meta *IPMetadata
	auth *Authorization
}

// registerAsset runs the fixed registration sequence: [delegate] →
// ownership check → registry register → policy / license step → attribute
// write-back. Each step writes through the staged view, so a failure
// anywhere discards everything.
func registerAsset(c *TxContext, reg *registration) (*Result, error) {
	if err := reg.meta.verify(c.Params); err != nil {
		return nil, err
	}

	actor := c.Sender
	if reg.auth != nil {
		// The account verifies the signature, checks the signer's
		// ownership, and advances its nonce before the grant lands.
		actor = reg.auth.Signer
		if err := delegatePermissions(c, reg.token, reg.tokenID, reg.auth); err != nil {
			return nil, err
		}
	} else if !reg.minted {
		owner, err := c.X.Tokens.OwnerOf(c.Database, reg.token, reg.tokenID)
		if err != nil {
			return nil, err
		}
		if owner != actor {
			approved, err := c.X.Tokens.IsApprovedForAll(c.Database, reg.token, owner, actor)
			if err != nil {
				return nil, err
			}
			if !approved {
				return nil, ErrInvalidOwner
			}
		}
	}

	// Built fresh on every call, never cached.
	enc, err := EncodeCanonicalMetadata(&CanonicalMetadata{
		Name:             reg.meta.Name,
		ContentHash:      reg.meta.ContentHash,
		Registrant:       actor,
		RegistrationDate: c.Time,
		URL:              reg.meta.URL,
	})
	if err != nil {
		return nil, err
	}

	var asset common.Address
	if reg.derivative {
		asset, err = c.X.Registry.RegisterDerivative(
			c.Database, actor, reg.licenseIDs, reg.royaltyContext,
			reg.token, reg.tokenID, c.Params.MetadataResolver, false, enc,
		)
	} else {
		asset, err = c.X.Registry.Register(
			c.Database, reg.token, reg.tokenID, c.Params.MetadataResolver, false, enc,
		)
	}
	if err != nil {
		return nil, err
	}

	caller := actor
	if reg.auth != nil {
		caller = c.Params.GatewayAddress
	}
	if !reg.derivative && reg.policyID != 0 {
		if _, err := c.X.Licensing.AddPolicyToIP(c.Database, caller, asset, reg.policyID); err != nil {
			return nil, err
		}
	}
	for _, attr := range reg.meta.Attributes {
		if err := c.X.Resolver.SetValue(c.Database, caller, asset, attr.Key, []byte(attr.Value)); err != nil {
			return nil, err
		}
	}

	return &Result{
		TokenID:  reg.tokenID,
		Asset:    asset,
		PolicyID: reg.policyID,
	}, nil
}

// mintRecipient resolves who a mint-and-register variant mints to: the
// envelope sender, or the delegation signer for relayed flows.
func mintRecipient(c *TxContext, auth *Authorization) common.Address {
	if auth != nil {
		return auth.Signer
	}
	return c.Sender
}

var _ Op = &RegisterOp{}

// RegisterOp registers a pre-existing token as an IP asset.
type RegisterOp struct {
	PolicyID      uint64         `serialize:"true" json:"policyId"`
	TokenContract common.Address `serialize:"true" json:"tokenContract"`
	TokenID       uint64         `serialize:"true" json:"tokenId"`
	Metadata      IPMetadata     `serialize:"true" json:"metadata"`
	Auth          *Authorization `serialize:"true" json:"auth,omitempty"`
}

func (op *RegisterOp) Type() string { return Register }

func (op *RegisterOp) Execute(c *TxContext) (*Result, error) {
	return registerAsset(c, &registration{
		policyID: op.PolicyID,
		token:    op.TokenContract,
		tokenID:  op.TokenID,
		meta:     &op.Metadata,
		auth:     op.Auth,
	})
}

func (op *RegisterOp) TypedData(p *Params) *apitypes.TypedData {
	return opTypedData(p, Register,
		[]apitypes.Type{
			{Name: "policyId", Type: tdUint64},
			{Name: "tokenContract", Type: tdAddress},
			{Name: "tokenId", Type: tdUint64},
			{Name: "metadataHash", Type: tdBytes32},
		},
		apitypes.TypedDataMessage{
			"policyId":      tdUint(op.PolicyID),
			"tokenContract": op.TokenContract.Hex(),
			"tokenId":       tdUint(op.TokenID),
			"metadataHash":  op.Metadata.Hash().Hex(),
		},
	)
}

var _ Op = &MintAndRegisterOp{}

// MintAndRegisterOp mints a new token from a collection and registers it in
// the same operation.
type MintAndRegisterOp struct {
	PolicyID      uint64         `serialize:"true" json:"policyId"`
	Collection    common.Address `serialize:"true" json:"collection"`
	TokenMetadata []byte         `serialize:"true" json:"tokenMetadata"`
	Metadata      IPMetadata     `serialize:"true" json:"metadata"`
	Auth          *Authorization `serialize:"true" json:"auth,omitempty"`
}

func (op *MintAndRegisterOp) Type() string { return MintAndRegister }

func (op *MintAndRegisterOp) Execute(c *TxContext) (*Result, error) {
	tokenID, err := mintToken(c, op.Collection, op.TokenMetadata, mintRecipient(c, op.Auth))
	if err != nil {
		return nil, err
	}
	res, err := registerAsset(c, &registration{
		policyID: op.PolicyID,
		token:    op.Collection,
		tokenID:  tokenID,
		minted:   true,
		meta:     &op.Metadata,
		auth:     op.Auth,
	})
	if err != nil {
		return nil, err
	}
	res.Collection = op.Collection
	return res, nil
}

func (op *MintAndRegisterOp) TypedData(p *Params) *apitypes.TypedData {
	return opTypedData(p, MintAndRegister,
		[]apitypes.Type{
			{Name: "policyId", Type: tdUint64},
			{Name: "collection", Type: tdAddress},
			{Name: "tokenMetadataHash", Type: tdBytes32},
			{Name: "metadataHash", Type: tdBytes32},
		},
		apitypes.TypedDataMessage{
			"policyId":          tdUint(op.PolicyID),
			"collection":        op.Collection.Hex(),
			"tokenMetadataHash": crypto.Keccak256Hash(op.TokenMetadata).Hex(),
			"metadataHash":      op.Metadata.Hash().Hex(),
		},
	)
}

var _ Op = &RegisterDerivativeOp{}

// RegisterDerivativeOp registers a pre-existing token as a derivative asset,
// consuming the presented licenses. The license list and royalty context are
// forwarded to the registry unmodified.
type RegisterDerivativeOp struct {
	LicenseIDs     []uint64       `serialize:"true" json:"licenseIds"`
	RoyaltyContext []byte         `serialize:"true" json:"royaltyContext"`
	TokenContract  common.Address `serialize:"true" json:"tokenContract"`
	TokenID        uint64         `serialize:"true" json:"tokenId"`
	Metadata       IPMetadata     `serialize:"true" json:"metadata"`
	Auth           *Authorization `serialize:"true" json:"auth,omitempty"`
}

func (op *RegisterDerivativeOp) Type() string { return RegisterDerivative }

func (op *RegisterDerivativeOp) Execute(c *TxContext) (*Result, error) {
	return registerAsset(c, &registration{
		licenseIDs:     op.LicenseIDs,
		royaltyContext: op.RoyaltyContext,
		derivative:     true,
		token:          op.TokenContract,
		tokenID:        op.TokenID,
		meta:           &op.Metadata,
		auth:           op.Auth,
	})
}

func (op *RegisterDerivativeOp) TypedData(p *Params) *apitypes.TypedData {
	return opTypedData(p, RegisterDerivative,
		[]apitypes.Type{
			{Name: "licenseIds", Type: "uint64[]"},
			{Name: "royaltyContextHash", Type: tdBytes32},
			{Name: "tokenContract", Type: tdAddress},
			{Name: "tokenId", Type: tdUint64},
			{Name: "metadataHash", Type: tdBytes32},
		},
		apitypes.TypedDataMessage{
			"licenseIds":         tdUints(op.LicenseIDs),
			"royaltyContextHash": crypto.Keccak256Hash(op.RoyaltyContext).Hex(),
			"tokenContract":      op.TokenContract.Hex(),
			"tokenId":            tdUint(op.TokenID),
			"metadataHash":       op.Metadata.Hash().Hex(),
		},
	)
}

var _ Op = &MintAndRegisterDerivativeOp{}

// MintAndRegisterDerivativeOp mints a new token and registers it as a
// derivative in the same operation.
type MintAndRegisterDerivativeOp struct {
	LicenseIDs     []uint64       `serialize:"true" json:"licenseIds"`
	RoyaltyContext []byte         `serialize:"true" json:"royaltyContext"`
	Collection     common.Address `serialize:"true" json:"collection"`
	TokenMetadata  []byte         `serialize:"true" json:"tokenMetadata"`
	Metadata       IPMetadata     `serialize:"true" json:"metadata"`
	Auth           *Authorization `serialize:"true" json:"auth,omitempty"`
}

func (op *MintAndRegisterDerivativeOp) Type() string { return MintAndRegisterDerivative }

func (op *MintAndRegisterDerivativeOp) Execute(c *TxContext) (*Result, error) {
	tokenID, err := mintToken(c, op.Collection, op.TokenMetadata, mintRecipient(c, op.Auth))
	if err != nil {
		return nil, err
	}
	res, err := registerAsset(c, &registration{
		licenseIDs:     op.LicenseIDs,
		royaltyContext: op.RoyaltyContext,
		derivative:     true,
		token:          op.Collection,
		tokenID:        tokenID,
		minted:         true,
		meta:           &op.Metadata,
		auth:           op.Auth,
	})
	if err != nil {
		return nil, err
	}
	res.Collection = op.Collection
	return res, nil
}

func (op *MintAndRegisterDerivativeOp) TypedData(p *Params) *apitypes.TypedData {
	return opTypedData(p, MintAndRegisterDerivative,
		[]apitypes.Type{
			{Name: "licenseIds", Type: "uint64[]"},
			{Name: "royaltyContextHash", Type: tdBytes32},
			{Name: "collection", Type: tdAddress},
			{Name: "tokenMetadataHash", Type: tdBytes32},
			{Name: "metadataHash", Type: tdBytes32},
		},
		apitypes.TypedDataMessage{
			"licenseIds":         tdUints(op.LicenseIDs),
			"royaltyContextHash": crypto.Keccak256Hash(op.RoyaltyContext).Hex(),
			"collection":         op.Collection.Hex(),
			"tokenMetadataHash":  crypto.Keccak256Hash(op.TokenMetadata).Hex(),
			"metadataHash":       op.Metadata.Hash().Hex(),
		},
	)
}
