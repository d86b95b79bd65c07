// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "ipgw-cli" implements the gateway client operation interface.
package main

import (
	"fmt"
	"os"

	"github.com/ipcore/ipgateway/cmd/ipgw-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ipgw-cli failed %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
