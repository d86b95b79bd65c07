// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"errors"
)

var (
	ErrCollectionMissing = errors.New("collection missing")
	ErrSupplyExhausted   = errors.New("collection supply exhausted")
	ErrTokenMissing      = errors.New("token missing")
	ErrUnauthorized      = errors.New("sender is not authorized")
	ErrNotTokenOwner     = errors.New("from is not the token owner")
)
