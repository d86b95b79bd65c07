// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/inconshreveable/log15"
)

// Gateway executes operations atomically against the backing database. Each
// operation runs on a versioned view that is committed only if every step
// succeeded; on any error the view is abandoned and the base database is
// untouched.
type Gateway struct {
	mu sync.Mutex

	db     database.Database
	params *Params
	x      *Externals

	clock func() uint64
}

type Option func(*Gateway)

// WithClock overrides the gateway's time source (tests).
func WithClock(clock func() uint64) Option {
	return func(g *Gateway) { g.clock = clock }
}

func New(db database.Database, params *Params, x *Externals, opts ...Option) *Gateway {
	g := &Gateway{
		db:     db,
		params: params,
		x:      x,
		clock:  func() uint64 { return uint64(time.Now().Unix()) },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Params() *Params { return g.params }

// View returns the committed database. Reads through it observe only fully
// executed operations.
func (g *Gateway) View() database.Database { return g.db }

// Execute runs op as sender. All writes happen on a staged view; the view is
// committed iff op.Execute returns nil.
func (g *Gateway) Execute(op Op, sender common.Address) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	vdb := versiondb.New(g.db)
	defer vdb.Abort()

	c := &TxContext{
		Params:   g.params,
		Database: vdb,
		Time:     g.clock(),
		Sender:   sender,
		X:        g.x,
	}
	res, err := op.Execute(c)
	if err != nil {
		log.Debug("operation failed", "type", op.Type(), "sender", sender.Hex(), "error", err)
		return nil, err
	}
	if err := vdb.Commit(); err != nil {
		return nil, err
	}
	log.Debug("operation executed", "type", op.Type(), "sender", sender.Hex())
	return res, nil
}

// MintSettingsOf reads a collection's current minting window from committed
// state.
func (g *Gateway) MintSettingsOf(collection common.Address) (MintSettings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GetMintSettings(g.db, collection)
}
