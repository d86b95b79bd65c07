// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package access implements the access controller: a keyed permission table
// over (account, signer, target, selector) tuples. Accounts may only manage
// their own permissions; checks fall back from an exact selector match to the
// wildcard selector.
package access

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ipcore/ipgateway/parser"
)

// Selector identifies a target operation. The zero selector is the wildcard
// and matches every operation on the target.
type Selector [4]byte

// SelectorAll is the wildcard selector.
var SelectorAll = Selector{}

// Effect is the outcome recorded for a permission tuple.
type Effect uint8

const (
	Unset Effect = iota
	Allow
	Deny
)

var (
	ErrAccountMismatch = errors.New("permission account does not match executing account")
	ErrEmptyBatch      = errors.New("empty permission batch")
)

// Permission is a single access grant.
type Permission struct {
	Account  common.Address
	Signer   common.Address
	Target   common.Address
	Selector Selector
	Effect   Effect
}

// MarshalBatch encodes a permission batch as the calldata format used for
// delegated setBatchPermissions calls.
func MarshalBatch(perms []Permission) ([]byte, error) {
	if len(perms) == 0 {
		return nil, ErrEmptyBatch
	}
	return rlp.EncodeToBytes(perms)
}

// UnmarshalBatch decodes calldata produced by MarshalBatch.
func UnmarshalBatch(data []byte) ([]Permission, error) {
	var perms []Permission
	if err := rlp.DecodeBytes(data, &perms); err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, ErrEmptyBatch
	}
	return perms, nil
}

// OwnerResolver reports the owning address of a registered asset account.
type OwnerResolver interface {
	OwnerOf(db database.Database, account common.Address) (common.Address, error)
}

// Controller enforces permission checks for module calls made on behalf of
// asset accounts.
type Controller struct {
	Owners OwnerResolver
}

// HandleCall applies a delegated setBatchPermissions call executed by an
// asset account. Every entry must name the executing account.
func (ctl *Controller) HandleCall(db database.Database, account common.Address, data []byte) error {
	perms, err := UnmarshalBatch(data)
	if err != nil {
		return err
	}
	return ctl.SetBatchPermissions(db, account, perms)
}

// SetBatchPermissions records a batch of permissions. The caller must be the
// account each permission is scoped to.
func (ctl *Controller) SetBatchPermissions(db database.Database, caller common.Address, perms []Permission) error {
	for _, p := range perms {
		if p.Account != caller {
			return ErrAccountMismatch
		}
		if err := putPermission(db, p); err != nil {
			return err
		}
	}
	return nil
}

// IsAllowed reports whether signer may invoke the selector on target as the
// given account. The account owner is always allowed; everyone else needs an
// ALLOW record, exact selector first, wildcard second.
func (ctl *Controller) IsAllowed(db database.Database, account common.Address, signer common.Address, target common.Address, sel Selector) (bool, error) {
	owner, err := ctl.Owners.OwnerOf(db, account)
	if err != nil {
		return false, err
	}
	if owner == signer {
		return true, nil
	}
	eff, err := getPermission(db, account, signer, target, sel)
	if err != nil {
		return false, err
	}
	if eff == Unset && sel != SelectorAll {
		eff, err = getPermission(db, account, signer, target, SelectorAll)
		if err != nil {
			return false, err
		}
	}
	return eff == Allow, nil
}

// 0x0/ (permission records)
//   -> [account + signer + target + selector]

const permissionPrefix = 0x0

func permissionKey(account, signer, target common.Address, sel Selector) []byte {
	b := make([]byte, 2+3*common.AddressLength+len(sel))
	b[0] = permissionPrefix
	b[1] = parser.ByteDelimiter
	copy(b[2:], account[:])
	copy(b[2+common.AddressLength:], signer[:])
	copy(b[2+2*common.AddressLength:], target[:])
	copy(b[2+3*common.AddressLength:], sel[:])
	return b
}

func putPermission(db database.Database, p Permission) error {
	return db.Put(permissionKey(p.Account, p.Signer, p.Target, p.Selector), []byte{byte(p.Effect)})
}

func getPermission(db database.Database, account, signer, target common.Address, sel Selector) (Effect, error) {
	k := permissionKey(account, signer, target, sel)
	has, err := db.Has(k)
	if err != nil {
		return Unset, err
	}
	if !has {
		return Unset, nil
	}
	v, err := db.Get(k)
	if err != nil {
		return Unset, err
	}
	if len(v) != 1 {
		return Unset, nil
	}
	return Effect(v[0]), nil
}
