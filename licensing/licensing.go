// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package licensing implements the licensing module: policy records, policy
// attachment to registered assets, and license tokens minted against attached
// policies and consumed by derivative registrations.
package licensing

import (
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/access"
)

var (
	ErrPolicyMissing     = errors.New("policy missing")
	ErrPolicyAttached    = errors.New("policy already attached to asset")
	ErrPolicyNotAttached = errors.New("policy not attached to licensor asset")
	ErrLicenseMissing    = errors.New("license missing")
	ErrLicenseExhausted  = errors.New("license has no remaining amount")
	ErrUnauthorized      = errors.New("caller is not authorized")
	ErrZeroAmount        = errors.New("license amount must be positive")
)

// Policy is a licensing-terms record.
type Policy struct {
	Attribution        bool   `serialize:"true" json:"attribution"`
	CommercialUse      bool   `serialize:"true" json:"commercialUse"`
	DerivativesAllowed bool   `serialize:"true" json:"derivativesAllowed"`
	URI                string `serialize:"true" json:"uri"`
}

// License is a consumable license token minted against a policy attached to
// a licensor asset.
type License struct {
	PolicyID       uint64         `serialize:"true" json:"policyId"`
	Licensor       common.Address `serialize:"true" json:"licensor"`
	Owner          common.Address `serialize:"true" json:"owner"`
	Amount         uint64         `serialize:"true" json:"amount"`
	RoyaltyContext []byte         `serialize:"true" json:"royaltyContext"`
}

// Authorizer answers whether a caller may act on behalf of an asset account.
type Authorizer interface {
	IsAllowed(db database.Database, account common.Address, signer common.Address, target common.Address, sel access.Selector) (bool, error)
}

// Module is the licensing module.
type Module struct {
	// Addr is the module's well-known address, used as the permission
	// target for delegated calls.
	Addr   common.Address
	Access Authorizer
}

// CreatePolicy records a new policy and returns its id. Ids start at 1 so 0
// stays the documented "no policy" sentinel.
func (m *Module) CreatePolicy(db database.Database, creator common.Address, pol Policy) (uint64, error) {
	id, err := nextPolicyID(db)
	if err != nil {
		return 0, err
	}
	if err := putPolicy(db, id, &pol); err != nil {
		return 0, err
	}
	return id, nil
}

// GetPolicy returns a policy record.
func (m *Module) GetPolicy(db database.Database, policyID uint64) (*Policy, bool, error) {
	return getPolicy(db, policyID)
}

// AddPolicyToIP attaches a policy to a registered asset and returns the
// attachment index. The caller must be the asset owner or hold an ALLOW
// permission on this module for the asset.
func (m *Module) AddPolicyToIP(db database.Database, caller common.Address, asset common.Address, policyID uint64) (uint64, error) {
	_, has, err := getPolicy(db, policyID)
	if err != nil {
		return 0, err
	}
	if !has {
		return 0, ErrPolicyMissing
	}
	allowed, err := m.Access.IsAllowed(db, asset, caller, m.Addr, access.SelectorAll)
	if err != nil {
		return 0, err
	}
	if !allowed {
		return 0, ErrUnauthorized
	}
	attached, err := hasAttachment(db, asset, policyID)
	if err != nil {
		return 0, err
	}
	if attached {
		return 0, ErrPolicyAttached
	}
	return putAttachment(db, asset, policyID)
}

// HasPolicy reports whether the policy is attached to the asset.
func (m *Module) HasPolicy(db database.Database, asset common.Address, policyID uint64) (bool, error) {
	return hasAttachment(db, asset, policyID)
}

// MintLicense mints a consumable license against a policy attached to the
// licensor asset. Anyone may mint; policy terms gate nothing here beyond
// attachment (royalty accounting is externally owned).
func (m *Module) MintLicense(db database.Database, caller common.Address, policyID uint64, licensor common.Address, amount uint64, receiver common.Address, royaltyContext []byte) (uint64, error) {
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	attached, err := hasAttachment(db, licensor, policyID)
	if err != nil {
		return 0, err
	}
	if !attached {
		return 0, ErrPolicyNotAttached
	}
	id, err := nextLicenseID(db)
	if err != nil {
		return 0, err
	}
	lic := &License{
		PolicyID:       policyID,
		Licensor:       licensor,
		Owner:          receiver,
		Amount:         amount,
		RoyaltyContext: royaltyContext,
	}
	if err := putLicense(db, id, lic); err != nil {
		return 0, err
	}
	return id, nil
}

// GetLicense returns a license record.
func (m *Module) GetLicense(db database.Database, licenseID uint64) (*License, bool, error) {
	return getLicense(db, licenseID)
}

// Burn consumes one unit of each license, in order, on behalf of the actor
// and returns the licensor (parent) assets. Every license must exist, be
// owned by the actor, and have remaining amount; any failure aborts the
// whole consumption.
func (m *Module) Burn(db database.Database, actor common.Address, licenseIDs []uint64) ([]common.Address, error) {
	parents := make([]common.Address, 0, len(licenseIDs))
	for _, id := range licenseIDs {
		lic, has, err := getLicense(db, id)
		if err != nil {
			return nil, err
		}
		if !has {
			return nil, ErrLicenseMissing
		}
		if lic.Owner != actor {
			return nil, ErrUnauthorized
		}
		if lic.Amount == 0 {
			return nil, ErrLicenseExhausted
		}
		lic.Amount--
		if lic.Amount == 0 {
			if err := deleteLicense(db, id); err != nil {
				return nil, err
			}
		} else if err := putLicense(db, id, lic); err != nil {
			return nil, err
		}
		parents = append(parents, lic.Licensor)
	}
	return parents, nil
}
