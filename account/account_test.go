// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package account

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ipcore/ipgateway/sigs"
)

const testChainID = 1337

type staticTokens struct {
	owner common.Address
}

func (s *staticTokens) OwnerOf(database.Database, common.Address, uint64) (common.Address, error) {
	return s.owner, nil
}

func (s *staticTokens) IsApprovedForAll(database.Database, common.Address, common.Address, common.Address) (bool, error) {
	return false, nil
}

type recordingHandler struct {
	account common.Address
	data    []byte
}

func (h *recordingHandler) HandleCall(_ database.Database, account common.Address, data []byte) error {
	h.account = account
	h.data = data
	return nil
}

func TestDerive(t *testing.T) {
	t.Parallel()

	token := common.HexToAddress("0xab")
	a := Derive(testChainID, token, 7)
	if a != Derive(testChainID, token, 7) {
		t.Fatal("derivation is not deterministic")
	}
	if a == Derive(testChainID, token, 8) {
		t.Fatal("token id does not affect derivation")
	}
	if a == Derive(testChainID+1, token, 7) {
		t.Fatal("chain id does not affect derivation")
	}
}

func TestExecuteWithSig(t *testing.T) {
	t.Parallel()

	db := memdb.New()
	defer db.Close()

	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	owner := crypto.PubkeyToAddress(priv.PublicKey)

	strangerPriv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	stranger := crypto.PubkeyToAddress(strangerPriv.PublicKey)

	token := common.HexToAddress("0xab")
	target := common.HexToAddress("0xcd")
	data := []byte("calldata")
	addr := Derive(testChainID, token, 7)

	h := &recordingHandler{}
	e := NewExecutor(testChainID, &staticTokens{owner: owner})
	e.RegisterHandler(target, h)

	digest := func(nonce, deadline uint64) []byte {
		t.Helper()
		dh, err := ExecuteDigest(testChainID, addr, target, 0, data, nonce, deadline)
		if err != nil {
			t.Fatal(err)
		}
		return dh
	}

	ownerSig := func(nonce, deadline uint64) []byte {
		t.Helper()
		sig, err := sigs.Sign(digest(nonce, deadline), priv)
		if err != nil {
			t.Fatal(err)
		}
		return sig
	}

	// expired deadline
	err = e.ExecuteWithSig(db, 100, token, 7, target, 0, data, owner, 99, ownerSig(0, 99))
	if !errors.Is(err, ErrDeadlineExpired) {
		t.Fatalf("err expected %v, got %v", ErrDeadlineExpired, err)
	}

	// signature bound to the wrong nonce
	err = e.ExecuteWithSig(db, 100, token, 7, target, 0, data, owner, 500, ownerSig(3, 500))
	if !errors.Is(err, ErrSignerMismatch) {
		t.Fatalf("err expected %v, got %v", ErrSignerMismatch, err)
	}

	// declared signer differs from the recovered one
	err = e.ExecuteWithSig(db, 100, token, 7, target, 0, data, stranger, 500, ownerSig(0, 500))
	if !errors.Is(err, ErrSignerMismatch) {
		t.Fatalf("err expected %v, got %v", ErrSignerMismatch, err)
	}

	// signer is not the token owner
	strangerSig, err := sigs.Sign(digest(0, 500), strangerPriv)
	if err != nil {
		t.Fatal(err)
	}
	err = e.ExecuteWithSig(db, 100, token, 7, target, 0, data, stranger, 500, strangerSig)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err expected %v, got %v", ErrUnauthorized, err)
	}

	// unknown target
	unknownDigest, err := ExecuteDigest(testChainID, addr, common.HexToAddress("0xff"), 0, data, 0, 500)
	if err != nil {
		t.Fatal(err)
	}
	unknownSig, err := sigs.Sign(unknownDigest, priv)
	if err != nil {
		t.Fatal(err)
	}
	err = e.ExecuteWithSig(db, 100, token, 7, common.HexToAddress("0xff"), 0, data, owner, 500, unknownSig)
	if !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("err expected %v, got %v", ErrUnknownTarget, err)
	}

	// valid execution advances the nonce and dispatches the call
	if err := e.ExecuteWithSig(db, 100, token, 7, target, 0, data, owner, 500, ownerSig(0, 500)); err != nil {
		t.Fatalf("execute errored %v", err)
	}
	if h.account != addr {
		t.Fatalf("handler account expected %s, got %s", addr, h.account)
	}
	if !bytes.Equal(h.data, data) {
		t.Fatalf("handler data expected %q, got %q", data, h.data)
	}
	rec, err := GetAccount(db, addr)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Nonce != 1 {
		t.Fatalf("nonce expected 1, got %d", rec.Nonce)
	}

	// the old signature is spent
	err = e.ExecuteWithSig(db, 100, token, 7, target, 0, data, owner, 500, ownerSig(0, 500))
	if !errors.Is(err, ErrSignerMismatch) {
		t.Fatalf("err expected %v, got %v", ErrSignerMismatch, err)
	}

	// signing against the advanced nonce works again
	if err := e.ExecuteWithSig(db, 100, token, 7, target, 0, data, owner, 500, ownerSig(1, 500)); err != nil {
		t.Fatalf("execute errored %v", err)
	}
}

func TestDeploy(t *testing.T) {
	t.Parallel()

	db := memdb.New()
	defer db.Close()

	addr := Derive(testChainID, common.HexToAddress("0xab"), 7)
	if err := Deploy(db, addr); err != nil {
		t.Fatal(err)
	}
	rec, err := GetAccount(db, addr)
	if err != nil {
		t.Fatal(err)
	}
	rec.Nonce = 5
	if err := PutAccount(db, addr, rec); err != nil {
		t.Fatal(err)
	}

	// deploy never resets an existing record
	if err := Deploy(db, addr); err != nil {
		t.Fatal(err)
	}
	rec, err = GetAccount(db, addr)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Nonce != 5 {
		t.Fatalf("nonce expected 5, got %d", rec.Nonce)
	}
}
