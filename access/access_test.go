// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package access

import (
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

type staticOwners map[common.Address]common.Address

func (o staticOwners) OwnerOf(_ database.Database, account common.Address) (common.Address, error) {
	return o[account], nil
}

func TestIsAllowed(t *testing.T) {
	t.Parallel()

	db := memdb.New()
	defer db.Close()

	acct := common.HexToAddress("0xaa")
	owner := common.HexToAddress("0xbb")
	delegate := common.HexToAddress("0xcc")
	target := common.HexToAddress("0xdd")
	sel := Selector{0xde, 0xad, 0xbe, 0xef}

	ctl := &Controller{Owners: staticOwners{acct: owner}}

	// owner fast path needs no records
	ok, err := ctl.IsAllowed(db, acct, owner, target, sel)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = ctl.IsAllowed(db, acct, delegate, target, sel)
	assert.NoError(t, err)
	assert.False(t, ok)

	// wildcard grant covers every selector
	assert.NoError(t, ctl.SetBatchPermissions(db, acct, []Permission{
		{Account: acct, Signer: delegate, Target: target, Selector: SelectorAll, Effect: Allow},
	}))
	ok, err = ctl.IsAllowed(db, acct, delegate, target, sel)
	assert.NoError(t, err)
	assert.True(t, ok)

	// exact selector record wins over the wildcard
	assert.NoError(t, ctl.SetBatchPermissions(db, acct, []Permission{
		{Account: acct, Signer: delegate, Target: target, Selector: sel, Effect: Deny},
	}))
	ok, err = ctl.IsAllowed(db, acct, delegate, target, sel)
	assert.NoError(t, err)
	assert.False(t, ok)

	// other selectors still fall through to the wildcard
	ok, err = ctl.IsAllowed(db, acct, delegate, target, Selector{0x01})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestSetBatchPermissionsScope(t *testing.T) {
	t.Parallel()

	db := memdb.New()
	defer db.Close()

	acct := common.HexToAddress("0xaa")
	other := common.HexToAddress("0xee")
	ctl := &Controller{Owners: staticOwners{}}

	err := ctl.SetBatchPermissions(db, acct, []Permission{
		{Account: other, Signer: acct, Target: acct, Effect: Allow},
	})
	assert.ErrorIs(t, err, ErrAccountMismatch)
}

func TestBatchRoundTrip(t *testing.T) {
	t.Parallel()

	perms := []Permission{
		{
			Account:  common.HexToAddress("0x01"),
			Signer:   common.HexToAddress("0x02"),
			Target:   common.HexToAddress("0x03"),
			Selector: Selector{0xde, 0xad, 0xbe, 0xef},
			Effect:   Allow,
		},
		{
			Account: common.HexToAddress("0x01"),
			Signer:  common.HexToAddress("0x02"),
			Target:  common.HexToAddress("0x04"),
			Effect:  Deny,
		},
	}
	data, err := MarshalBatch(perms)
	assert.NoError(t, err)

	got, err := UnmarshalBatch(data)
	assert.NoError(t, err)
	assert.Equal(t, perms, got)

	_, err = MarshalBatch(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}
