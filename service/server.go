// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package service

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"
)

const (
	// Name is the JSON-RPC namespace the public service registers under.
	Name = "ipgw"

	// Endpoint is the HTTP path the handler is expected to be mounted at.
	Endpoint = "/rpc"
)

// NewHandler returns the JSON-RPC handler for a backend.
func NewHandler(b *Backend) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	server.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")
	if err := server.RegisterService(NewPublicService(b), Name); err != nil {
		return nil, err
	}
	return server, nil
}
