// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway_test

import (
	"errors"
	"testing"

	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/token"
)

func TestMintingWindow(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	_, owner := newKey(t)

	collection := createCollection(t, b, owner, 2, gateway.MintSettings{Start: 200, End: 300})

	mint := func() error {
		_, err := b.Gateway.Execute(&gateway.MintAndRegisterOp{
			Collection: collection,
			Metadata:   gateway.IPMetadata{Name: "work"},
		}, owner)
		return err
	}

	tt := []struct {
		time uint64
		err  error
	}{
		{time: 100, err: gateway.ErrMintingNotYetStarted},
		{time: 199, err: gateway.ErrMintingNotYetStarted},
		{time: 200, err: nil}, // window boundaries are inclusive
		{time: 300, err: nil},
		{time: 301, err: gateway.ErrMintingAlreadyEnded},
	}
	for i, tv := range tt {
		now = tv.time
		if err := mint(); !errors.Is(err, tv.err) {
			t.Fatalf("#%d: mint err expected %v, got %v", i, tv.err, err)
		}
	}

	// both in-window mints landed; supply of 2 is exhausted
	now = 250
	if err := mint(); !errors.Is(err, token.ErrSupplyExhausted) {
		t.Fatalf("mint err expected %v, got %v", token.ErrSupplyExhausted, err)
	}
}

func TestMintingWindowPerCollection(t *testing.T) {
	t.Parallel()

	now := uint64(100)
	b := newBackend(&now)
	_, owner := newKey(t)

	open := createCollection(t, b, owner, 0, gateway.MintSettings{})
	closed := createCollection(t, b, owner, 0, gateway.MintSettings{Start: 500})

	if _, err := b.Gateway.Execute(&gateway.MintAndRegisterOp{
		Collection: open,
		Metadata:   gateway.IPMetadata{Name: "a"},
	}, owner); err != nil {
		t.Fatalf("open collection mint errored %v", err)
	}
	if _, err := b.Gateway.Execute(&gateway.MintAndRegisterOp{
		Collection: closed,
		Metadata:   gateway.IPMetadata{Name: "b"},
	}, owner); !errors.Is(err, gateway.ErrMintingNotYetStarted) {
		t.Fatalf("closed collection err expected %v, got %v", gateway.ErrMintingNotYetStarted, err)
	}

	// one collection's window never affects another's
	now = 500
	if _, err := b.Gateway.Execute(&gateway.MintAndRegisterOp{
		Collection: closed,
		Metadata:   gateway.IPMetadata{Name: "b"},
	}, owner); err != nil {
		t.Fatalf("closed collection mint errored after start %v", err)
	}
}
