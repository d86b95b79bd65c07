// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package resolver implements the metadata resolver: a per-asset key-value
// store for custom attributes.
package resolver

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/access"
	"github.com/ipcore/ipgateway/parser"
)

const maxValueSize = 4096

var (
	ErrUnauthorized = errors.New("caller is not authorized")
	ErrValueTooBig  = errors.New("value too big")
)

// Authorizer answers whether a caller may act on behalf of an asset account.
type Authorizer interface {
	IsAllowed(db database.Database, account common.Address, signer common.Address, target common.Address, sel access.Selector) (bool, error)
}

// Resolver is the metadata resolver module.
type Resolver struct {
	// Addr is the module's well-known address, used as the permission
	// target for delegated calls.
	Addr   common.Address
	Access Authorizer
}

// SetValue persists one attribute for the asset. The caller must be the asset
// owner or hold an ALLOW permission on this module for the asset.
func (r *Resolver) SetValue(db database.Database, caller common.Address, asset common.Address, key string, value []byte) error {
	if err := parser.CheckKey(key); err != nil {
		return err
	}
	if len(value) > maxValueSize {
		return ErrValueTooBig
	}
	allowed, err := r.Access.IsAllowed(db, asset, caller, r.Addr, access.SelectorAll)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}
	return db.Put(valueKey(asset, key), value)
}

// GetValue returns the stored attribute value, if any.
func (r *Resolver) GetValue(db database.Database, asset common.Address, key string) ([]byte, bool, error) {
	k := valueKey(asset, key)
	has, err := db.Has(k)
	if err != nil {
		return nil, false, err
	}
	if !has {
		return nil, false, nil
	}
	v, err := db.Get(k)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// 0x0/ (attribute values)
//   -> [asset]
//     -> [key]

const valuePrefix = 0x0

func valueKey(asset common.Address, key string) []byte {
	b := append([]byte{valuePrefix, parser.ByteDelimiter}, asset[:]...)
	b = append(b, parser.ByteDelimiter)
	return append(b, key...)
}
