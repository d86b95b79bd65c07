// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/ipcore/ipgateway/parser"
)

// CollectionKind tags the supported collection variants. Only the basic kind
// exists today; the registry dispatches over the tag so new kinds are a new
// case, not a new subtype.
type CollectionKind uint8

const (
	KindUnknown CollectionKind = iota
	KindBasic
)

// MintSettings is the per-collection minting window. Start == 0 on input
// means "effective immediately" and is rewritten to the current time before
// storage; End == 0 means "no end".
type MintSettings struct {
	Start uint64 `serialize:"true" json:"start"`
	End   uint64 `serialize:"true" json:"end"`
}

// CollectionSettings configures a new collection instance.
type CollectionSettings struct {
	Name      string `serialize:"true" json:"name"`
	Symbol    string `serialize:"true" json:"symbol"`
	MaxSupply uint64 `serialize:"true" json:"maxSupply"`
	Metadata  []byte `serialize:"true" json:"metadata"`
}

var _ Op = &CreateCollectionOp{}

// CreateCollectionOp deploys a new collection owned by the sender and
// records its mint settings.
type CreateCollectionOp struct {
	Kind       CollectionKind     `serialize:"true" json:"kind"`
	Collection CollectionSettings `serialize:"true" json:"collection"`
	Settings   MintSettings       `serialize:"true" json:"settings"`
}

func (op *CreateCollectionOp) Type() string { return CreateCollection }

func (op *CreateCollectionOp) Execute(c *TxContext) (*Result, error) {
	switch op.Kind {
	case KindBasic:
	default:
		return nil, ErrCollectionTypeUnsupported
	}
	if err := parser.CheckSymbol(op.Collection.Symbol); err != nil {
		return nil, err
	}
	addr, err := c.X.Tokens.Create(c.Database, c.Sender, op.Collection.Name, op.Collection.Symbol, op.Collection.MaxSupply, op.Collection.Metadata)
	if err != nil {
		return nil, err
	}
	s, err := normalizeSettings(op.Settings, c.Time)
	if err != nil {
		return nil, err
	}
	if err := PutMintSettings(c.Database, addr, &s); err != nil {
		return nil, err
	}
	return &Result{Collection: addr}, nil
}

func (op *CreateCollectionOp) TypedData(p *Params) *apitypes.TypedData {
	return opTypedData(p, CreateCollection,
		[]apitypes.Type{
			{Name: "kind", Type: tdUint8},
			{Name: "name", Type: tdString},
			{Name: "symbol", Type: tdString},
			{Name: "maxSupply", Type: tdUint64},
			{Name: "metadataHash", Type: tdBytes32},
			{Name: "start", Type: tdUint64},
			{Name: "end", Type: tdUint64},
		},
		apitypes.TypedDataMessage{
			"kind":         tdUint(uint64(op.Kind)),
			"name":         op.Collection.Name,
			"symbol":       op.Collection.Symbol,
			"maxSupply":    tdUint(op.Collection.MaxSupply),
			"metadataHash": crypto.Keccak256Hash(op.Collection.Metadata).Hex(),
			"start":        tdUint(op.Settings.Start),
			"end":          tdUint(op.Settings.End),
		},
	)
}

var _ Op = &ConfigureMintSettingsOp{}

// ConfigureMintSettingsOp replaces a collection's mint settings. Only the
// collection itself (through its owner) may reconfigure; anyone else is not
// a recognized collection and fails the capability check.
type ConfigureMintSettingsOp struct {
	Collection common.Address `serialize:"true" json:"collection"`
	Settings   MintSettings   `serialize:"true" json:"settings"`
}

func (op *ConfigureMintSettingsOp) Type() string { return ConfigureMint }

func (op *ConfigureMintSettingsOp) Execute(c *TxContext) (*Result, error) {
	owner, has, err := c.X.Tokens.CollectionOwner(c.Database, op.Collection)
	if err != nil {
		return nil, err
	}
	if !has || owner != c.Sender {
		return nil, ErrCollectionTypeUnsupported
	}
	cur, err := GetMintSettings(c.Database, op.Collection)
	if err != nil {
		return nil, err
	}
	if cur.Start == 0 {
		return nil, ErrCollectionNotInitialized
	}
	s, err := normalizeSettings(op.Settings, c.Time)
	if err != nil {
		return nil, err
	}
	if err := PutMintSettings(c.Database, op.Collection, &s); err != nil {
		return nil, err
	}
	return &Result{Collection: op.Collection}, nil
}

func (op *ConfigureMintSettingsOp) TypedData(p *Params) *apitypes.TypedData {
	return opTypedData(p, ConfigureMint,
		[]apitypes.Type{
			{Name: "collection", Type: tdAddress},
			{Name: "start", Type: tdUint64},
			{Name: "end", Type: tdUint64},
		},
		apitypes.TypedDataMessage{
			"collection": op.Collection.Hex(),
			"start":      tdUint(op.Settings.Start),
			"end":        tdUint(op.Settings.End),
		},
	)
}

// normalizeSettings applies the zero-start convention: 0 always means
// "starts now", never "started at epoch".
func normalizeSettings(s MintSettings, now uint64) (MintSettings, error) {
	if s.Start == 0 {
		s.Start = now
	}
	if s.End != 0 && s.End < s.Start {
		return MintSettings{}, ErrInvalidEndTime
	}
	return s, nil
}
