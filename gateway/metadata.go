// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Attribute is one custom metadata key/value pair. Keys are intended unique
// but not required to be; entries are written in input order.
type Attribute struct {
	Key   string `serialize:"true" json:"key"`
	Value string `serialize:"true" json:"value"`
}

// IPMetadata is the caller-supplied metadata for a registration. It is
// immutable once submitted: the canonical portion is frozen into the
// registry record and the attributes are written through the resolver.
type IPMetadata struct {
	Name        string      `serialize:"true" json:"name"`
	ContentHash common.Hash `serialize:"true" json:"contentHash"`
	URL         string      `serialize:"true" json:"url"`
	Attributes  []Attribute `serialize:"true" json:"attributes"`
}

// Hash commits to every metadata field. It is the value signed in operation
// envelopes.
func (m *IPMetadata) Hash() common.Hash {
	parts := make([][]byte, 0, 3+2*len(m.Attributes))
	parts = append(parts, crypto.Keccak256([]byte(m.Name)), m.ContentHash[:], crypto.Keccak256([]byte(m.URL)))
	for _, a := range m.Attributes {
		parts = append(parts, crypto.Keccak256([]byte(a.Key)), crypto.Keccak256([]byte(a.Value)))
	}
	return crypto.Keccak256Hash(parts...)
}

func (m *IPMetadata) verify(p *Params) error {
	switch {
	case uint64(len(m.Name)) > p.MaxNameSize:
		return ErrNameTooBig
	case uint64(len(m.URL)) > p.MaxURLSize:
		return ErrURLTooBig
	case uint64(len(m.Attributes)) > p.MaxAttributes:
		return ErrTooManyAttributes
	}
	return nil
}

// CanonicalMetadata is the fixed-shape record frozen into the registry on
// every registration. It is built fresh per call and never reused.
type CanonicalMetadata struct {
	Name             string         `serialize:"true" json:"name"`
	ContentHash      common.Hash    `serialize:"true" json:"contentHash"`
	Registrant       common.Address `serialize:"true" json:"registrant"`
	RegistrationDate uint64         `serialize:"true" json:"registrationDate"`
	URL              string         `serialize:"true" json:"url"`
}

// EncodeCanonicalMetadata serializes the canonical record into the opaque
// blob handed to the registry.
func EncodeCanonicalMetadata(m *CanonicalMetadata) ([]byte, error) {
	return Marshal(m)
}

// DecodeCanonicalMetadata reverses EncodeCanonicalMetadata.
func DecodeCanonicalMetadata(b []byte) (*CanonicalMetadata, error) {
	var m CanonicalMetadata
	if _, err := Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
