// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package licensing

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ipcore/ipgateway/parser"
)

// 0x0/ (policy records)
//   -> [policy id]
// 0x1/ (policy attachments)
//   -> [asset + policy id]
// 0x2/ (license records)
//   -> [license id]

const (
	policyPrefix     = 0x0
	attachmentPrefix = 0x1
	licensePrefix    = 0x2
)

var (
	policyCount  = []byte("policy_count")
	licenseCount = []byte("license_count")
)

func policyKey(policyID uint64) []byte {
	b := make([]byte, 10)
	b[0] = policyPrefix
	b[1] = parser.ByteDelimiter
	binary.BigEndian.PutUint64(b[2:], policyID)
	return b
}

func attachmentKey(asset common.Address, policyID uint64) []byte {
	b := make([]byte, 2+common.AddressLength+8)
	b[0] = attachmentPrefix
	b[1] = parser.ByteDelimiter
	copy(b[2:], asset[:])
	binary.BigEndian.PutUint64(b[2+common.AddressLength:], policyID)
	return b
}

func licenseKey(licenseID uint64) []byte {
	b := make([]byte, 10)
	b[0] = licensePrefix
	b[1] = parser.ByteDelimiter
	binary.BigEndian.PutUint64(b[2:], licenseID)
	return b
}

func nextID(db database.Database, counter []byte) (uint64, error) {
	var seq uint64
	has, err := db.Has(counter)
	if err != nil {
		return 0, err
	}
	if has {
		v, err := db.Get(counter)
		if err != nil {
			return 0, err
		}
		seq = binary.BigEndian.Uint64(v)
	}
	seq++
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	if err := db.Put(counter, b); err != nil {
		return 0, err
	}
	return seq, nil
}

func nextPolicyID(db database.Database) (uint64, error)  { return nextID(db, policyCount) }
func nextLicenseID(db database.Database) (uint64, error) { return nextID(db, licenseCount) }

func putPolicy(db database.Database, policyID uint64, p *Policy) error {
	v, err := Marshal(p)
	if err != nil {
		return err
	}
	return db.Put(policyKey(policyID), v)
}

func getPolicy(db database.Database, policyID uint64) (*Policy, bool, error) {
	k := policyKey(policyID)
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
	var p Policy
	if _, err := Unmarshal(v, &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

// putAttachment records the attachment and returns its index in the asset's
// attachment sequence.
func putAttachment(db database.Database, asset common.Address, policyID uint64) (uint64, error) {
	countKey := append([]byte("attachment_count"), asset[:]...)
	idx, err := nextID(db, countKey)
	if err != nil {
		return 0, err
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, idx-1)
	return idx - 1, db.Put(attachmentKey(asset, policyID), b)
}

func hasAttachment(db database.Database, asset common.Address, policyID uint64) (bool, error) {
	return db.Has(attachmentKey(asset, policyID))
}

func putLicense(db database.Database, licenseID uint64, l *License) error {
	v, err := Marshal(l)
	if err != nil {
		return err
	}
	return db.Put(licenseKey(licenseID), v)
}

func getLicense(db database.Database, licenseID uint64) (*License, bool, error) {
	k := licenseKey(licenseID)
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
	var l License
	if _, err := Unmarshal(v, &l); err != nil {
		return nil, false, err
	}
	return &l, true, nil
}

func deleteLicense(db database.Database, licenseID uint64) error {
	return db.Delete(licenseKey(licenseID))
}
