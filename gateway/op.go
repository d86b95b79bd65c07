// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	CreateCollection          = "createCollection"
	ConfigureMint             = "configureMintSettings"
	Register                  = "register"
	MintAndRegister           = "mintAndRegister"
	RegisterDerivative        = "registerDerivative"
	MintAndRegisterDerivative = "mintAndRegisterDerivative"
	CreatePolicy              = "createPolicy"
	MintLicense               = "mintLicense"
)

const (
	tdAddress = "address"
	tdBool    = "bool"
	tdBytes32 = "bytes32"
	tdString  = "string"
	tdUint64  = "uint64"
	tdUint8   = "uint8"
)

// Op is a single atomic gateway operation. Execute runs against a staged
// database view; TypedData is the EIP-712 payload a caller signs to submit
// the operation through the service layer.
type Op interface {
	Type() string
	Execute(c *TxContext) (*Result, error)
	TypedData(p *Params) *apitypes.TypedData
}

// Result carries the identifiers produced by an operation. Fields not
// relevant to the executed operation are zero.
type Result struct {
	Collection common.Address `json:"collection,omitempty"`
	TokenID    uint64         `json:"tokenId"`
	Asset      common.Address `json:"asset,omitempty"`
	PolicyID   uint64         `json:"policyId,omitempty"`
	LicenseID  uint64         `json:"licenseId,omitempty"`
}

// DigestHash computes the envelope digest a sender signs for an operation.
func DigestHash(op Op, p *Params) ([]byte, error) {
	dh, _, err := apitypes.TypedDataAndHash(*op.TypedData(p))
	return dh, err
}

func opTypedData(p *Params, opType string, fields []apitypes.Type, msg apitypes.TypedDataMessage) *apitypes.TypedData {
	return &apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
			},
			opType: fields,
		},
		PrimaryType: opType,
		Domain: apitypes.TypedDataDomain{
			Name:    domainName,
			Version: domainVersion,
			ChainId: math.NewHexOrDecimal256(int64(p.ChainID)),
		},
		Message: msg,
	}
}

func tdUint(v uint64) string { return strconv.FormatUint(v, 10) }

func tdUints(vs []uint64) []interface{} {
	out := make([]interface{}, len(vs))
	for i, v := range vs {
		out[i] = tdUint(v)
	}
	return out
}
