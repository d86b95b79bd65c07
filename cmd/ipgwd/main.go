// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "ipgwd" runs the gateway JSON-RPC daemon over an in-memory store.
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/ava-labs/avalanchego/database/memdb"
	log "github.com/inconshreveable/log15"

	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/service"
	"github.com/ipcore/ipgateway/version"
)

func main() {
	var (
		listenAddr  = flag.String("listen", ":9650", "listen address")
		chainID     = flag.Uint64("chain-id", 0, "chain id override")
		logLevel    = flag.String("log-level", "info", "log level")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		os.Stdout.WriteString(version.Version.String() + "\n")
		return
	}

	lvl, err := log.LvlFromString(*logLevel)
	if err != nil {
		log.Error("invalid log level", "level", *logLevel, "error", err)
		os.Exit(1)
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat())))

	params := gateway.DefaultParams()
	if *chainID != 0 {
		params.ChainID = *chainID
	}

	b := service.NewBackend(memdb.New(), params)
	handler, err := service.NewHandler(b)
	if err != nil {
		log.Error("could not create handler", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle(service.Endpoint, handler)

	log.Info("serving", "addr", *listenAddr, "endpoint", service.Endpoint, "chainId", params.ChainID, "version", version.Version)
	if err := http.ListenAndServe(*listenAddr, mux); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
