// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package parser defines identifier validation for metadata keys and
// collection symbols.
package parser

import (
	"errors"
	"regexp"
)

const (
	MaxKeySize         = 256
	Delimiter          = "/"
	ByteDelimiter byte = '/'
)

var (
	ErrKeyEmpty      = errors.New("key cannot be empty")
	ErrKeyTooBig     = errors.New("key too big")
	ErrKeyDelimiter  = errors.New("key contains delimiter")
	ErrKeyNotPrint   = errors.New("key contains non-printable characters")
	ErrInvalidSymbol = errors.New("symbols must be ^[A-Z0-9]{1,16}$")

	symbolReg = regexp.MustCompile("^[A-Z0-9]{1,16}$")
)

// CheckKey returns an error if a metadata attribute key is not usable as a
// storage identifier.
func CheckKey(key string) error {
	switch {
	case len(key) == 0:
		return ErrKeyEmpty
	case len(key) > MaxKeySize:
		return ErrKeyTooBig
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == ByteDelimiter {
			return ErrKeyDelimiter
		}
		if c < 0x20 || c > 0x7e {
			return ErrKeyNotPrint
		}
	}
	return nil
}

// CheckSymbol returns an error if the collection symbol format is invalid.
func CheckSymbol(symbol string) error {
	if !symbolReg.MatchString(symbol) {
		return ErrInvalidSymbol
	}
	return nil
}
