// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// domainName/domainVersion identify the gateway's EIP-712 envelope
	// domain. The account execution domain is separate (see package
	// account).
	domainName    = "IPGateway"
	domainVersion = "1"
)

// Params carries protocol parameters and the well-known module addresses
// used as permission targets.
type Params struct {
	ChainID uint64 `serialize:"true" json:"chainId"`

	GatewayAddress   common.Address `serialize:"true" json:"gatewayAddress"`
	AccessController common.Address `serialize:"true" json:"accessController"`
	LicensingModule  common.Address `serialize:"true" json:"licensingModule"`
	MetadataResolver common.Address `serialize:"true" json:"metadataResolver"`

	MaxNameSize   uint64 `serialize:"true" json:"maxNameSize"`
	MaxURLSize    uint64 `serialize:"true" json:"maxUrlSize"`
	MaxAttributes uint64 `serialize:"true" json:"maxAttributes"`
}

func DefaultParams() *Params {
	return &Params{
		ChainID: 43210,

		GatewayAddress:   common.HexToAddress("0x0000000000000000000000000000000000000901"),
		AccessController: common.HexToAddress("0x0000000000000000000000000000000000000902"),
		LicensingModule:  common.HexToAddress("0x0000000000000000000000000000000000000903"),
		MetadataResolver: common.HexToAddress("0x0000000000000000000000000000000000000904"),

		MaxNameSize:   256,
		MaxURLSize:    1024,
		MaxAttributes: 64,
	}
}
