// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"errors"
)

var (
	// Authorization
	ErrInvalidOwner              = errors.New("caller is neither token owner nor approved operator")
	ErrCollectionTypeUnsupported = errors.New("collection type unsupported")

	// Configuration
	ErrCollectionNotInitialized = errors.New("collection mint settings not initialized")

	// Timing
	ErrMintingNotYetStarted = errors.New("minting not yet started")
	ErrMintingAlreadyEnded  = errors.New("minting already ended")

	// Input
	ErrNameTooBig        = errors.New("metadata name too big")
	ErrURLTooBig         = errors.New("metadata url too big")
	ErrTooManyAttributes = errors.New("too many metadata attributes")
	ErrInvalidEndTime    = errors.New("mint end precedes mint start")
)
