// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package account implements per-asset execution accounts. An account is a
// counterfactual record keyed by a deterministic address derived from
// (chain id, token contract, token id): it can verify signed meta-transactions
// and execute the wrapped call before it is ever persisted, and its nonce
// advances atomically with each executed call.
package account

import (
	"encoding/binary"
	"errors"
	"strconv"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/ipcore/ipgateway/parser"
	"github.com/ipcore/ipgateway/sigs"
)

const (
	domainName    = "IPGateway Account"
	domainVersion = "1"

	primaryType = "Execute"
)

var (
	ErrDeadlineExpired = errors.New("authorization deadline expired")
	ErrSignerMismatch  = errors.New("recovered signer does not match declared signer")
	ErrUnauthorized    = errors.New("signer is not authorized for account")
	ErrUnknownTarget   = errors.New("no handler registered for target")
)

// Record is the persisted account state.
type Record struct {
	Nonce uint64 `serialize:"true" json:"nonce"`
}

// Derive computes the canonical account address for a token. The same
// derivation yields the canonical asset identifier used by the registry.
func Derive(chainID uint64, token common.Address, tokenID uint64) common.Address {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], chainID)
	binary.BigEndian.PutUint64(b[8:], tokenID)
	h := crypto.Keccak256([]byte("ipgw-asset"), b[:8], token[:], b[8:])
	return common.BytesToAddress(h[12:])
}

// TokenOwner resolves token ownership for signer authorization.
type TokenOwner interface {
	OwnerOf(db database.Database, collection common.Address, tokenID uint64) (common.Address, error)
	IsApprovedForAll(db database.Database, collection common.Address, owner common.Address, operator common.Address) (bool, error)
}

// Handler executes a wrapped call dispatched by an account.
type Handler interface {
	HandleCall(db database.Database, account common.Address, data []byte) error
}

// Executor verifies and executes signed meta-transactions against asset
// accounts.
type Executor struct {
	ChainID  uint64
	Tokens   TokenOwner
	handlers map[common.Address]Handler
}

func NewExecutor(chainID uint64, tokens TokenOwner) *Executor {
	return &Executor{
		ChainID:  chainID,
		Tokens:   tokens,
		handlers: make(map[common.Address]Handler),
	}
}

// RegisterHandler binds a target address to its call handler.
func (e *Executor) RegisterHandler(target common.Address, h Handler) {
	e.handlers[target] = h
}

// ExecuteWithSig verifies the signed authorization for the account of
// (token, tokenID) and, if valid, executes the wrapped call. Verification is
// free of side effects; the nonce advance and the wrapped call land on the
// same database view, so both apply or neither does.
func (e *Executor) ExecuteWithSig(
	db database.Database,
	now uint64,
	token common.Address,
	tokenID uint64,
	target common.Address,
	value uint64,
	data []byte,
	signer common.Address,
	deadline uint64,
	sig []byte,
) error {
	if deadline < now {
		return ErrDeadlineExpired
	}
	addr := Derive(e.ChainID, token, tokenID)
	rec, err := GetAccount(db, addr)
	if err != nil {
		return err
	}
	dh, err := ExecuteDigest(e.ChainID, addr, target, value, data, rec.Nonce, deadline)
	if err != nil {
		return err
	}
	recovered, err := sigs.DeriveAddress(dh, sig)
	if err != nil {
		return err
	}
	if recovered != signer {
		return ErrSignerMismatch
	}
	owner, err := e.Tokens.OwnerOf(db, token, tokenID)
	if err != nil {
		return err
	}
	if signer != owner {
		approved, err := e.Tokens.IsApprovedForAll(db, token, owner, signer)
		if err != nil {
			return err
		}
		if !approved {
			return ErrUnauthorized
		}
	}
	h, ok := e.handlers[target]
	if !ok {
		return ErrUnknownTarget
	}

	rec.Nonce++
	if err := PutAccount(db, addr, rec); err != nil {
		return err
	}
	return h.HandleCall(db, addr, data)
}

// ExecuteTypedData builds the EIP-712 payload an account owner signs to
// authorize a wrapped call.
func ExecuteTypedData(chainID uint64, account common.Address, target common.Address, value uint64, data []byte, nonce uint64, deadline uint64) *apitypes.TypedData {
	return &apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			primaryType: {
				{Name: "to", Type: "address"},
				{Name: "value", Type: "uint64"},
				{Name: "data", Type: "bytes"},
				{Name: "nonce", Type: "uint64"},
				{Name: "deadline", Type: "uint64"},
			},
		},
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              domainName,
			Version:           domainVersion,
			ChainId:           math.NewHexOrDecimal256(int64(chainID)),
			VerifyingContract: account.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"to":       target.Hex(),
			"value":    strconv.FormatUint(value, 10),
			"data":     data,
			"nonce":    strconv.FormatUint(nonce, 10),
			"deadline": strconv.FormatUint(deadline, 10),
		},
	}
}

// ExecuteDigest computes the digest hash for ExecuteTypedData.
func ExecuteDigest(chainID uint64, account common.Address, target common.Address, value uint64, data []byte, nonce uint64, deadline uint64) ([]byte, error) {
	td := ExecuteTypedData(chainID, account, target, value, data, nonce, deadline)
	dh, _, err := apitypes.TypedDataAndHash(*td)
	return dh, err
}

// 0x0/ (account records)
//   -> [account address]

const accountPrefix = 0x0

func accountKey(account common.Address) []byte {
	return append([]byte{accountPrefix, parser.ByteDelimiter}, account[:]...)
}

// GetAccount returns the account record, defaulting to the zero record for
// counterfactual accounts that have never executed.
func GetAccount(db database.Database, account common.Address) (*Record, error) {
	k := accountKey(account)
	has, err := db.Has(k)
	if err != nil {
		return nil, err
	}
	if !has {
		return &Record{}, nil
	}
	v, err := db.Get(k)
	if err != nil {
		return nil, err
	}
	var r Record
	if _, err := Unmarshal(v, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func PutAccount(db database.Database, account common.Address, r *Record) error {
	v, err := Marshal(r)
	if err != nil {
		return err
	}
	return db.Put(accountKey(account), v)
}

// Deploy materializes the account record without touching an existing one.
// The registry calls this when an asset is registered.
func Deploy(db database.Database, account common.Address) error {
	has, err := db.Has(accountKey(account))
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	return PutAccount(db, account, &Record{})
}
