// Copyright (C) 2023-2024, IPCore, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package service

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	log "github.com/inconshreveable/log15"

	"github.com/ipcore/ipgateway/account"
	"github.com/ipcore/ipgateway/gateway"
	"github.com/ipcore/ipgateway/licensing"
	"github.com/ipcore/ipgateway/registry"
	"github.com/ipcore/ipgateway/sigs"
	"github.com/ipcore/ipgateway/token"
)

type PublicService struct {
	b *Backend
}

func NewPublicService(b *Backend) *PublicService {
	return &PublicService{b: b}
}

// issue recovers the envelope sender from the signature over the operation's
// typed data and executes the operation.
func (svc *PublicService) issue(op gateway.Op, sig []byte, reply *IssueReply) error {
	dh, err := gateway.DigestHash(op, svc.b.Gateway.Params())
	if err != nil {
		return err
	}
	sender, err := sigs.DeriveAddress(dh, sig)
	if err != nil {
		return err
	}
	res, err := svc.b.Gateway.Execute(op, sender)
	if err != nil {
		return err
	}
	reply.Result = res
	reply.Success = true
	return nil
}

type PingReply struct {
	Success bool `serialize:"true" json:"success"`
}

func (svc *PublicService) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	log.Info("ping")
	reply.Success = true
	return nil
}

type ParamsReply struct {
	Params *gateway.Params `serialize:"true" json:"params"`
}

func (svc *PublicService) Params(_ *http.Request, _ *struct{}, reply *ParamsReply) (err error) {
	reply.Params = svc.b.Gateway.Params()
	return nil
}

type IssueReply struct {
	Result  *gateway.Result `serialize:"true" json:"result"`
	Success bool            `serialize:"true" json:"success"`
}

type IssueCreateCollectionArgs struct {
	Op        gateway.CreateCollectionOp `serialize:"true" json:"op"`
	Signature hexutil.Bytes              `serialize:"true" json:"signature"`
}

func (svc *PublicService) CreateCollection(_ *http.Request, args *IssueCreateCollectionArgs, reply *IssueReply) error {
	return svc.issue(&args.Op, args.Signature, reply)
}

type IssueConfigureMintSettingsArgs struct {
	Op        gateway.ConfigureMintSettingsOp `serialize:"true" json:"op"`
	Signature hexutil.Bytes                   `serialize:"true" json:"signature"`
}

func (svc *PublicService) ConfigureMintSettings(_ *http.Request, args *IssueConfigureMintSettingsArgs, reply *IssueReply) error {
	return svc.issue(&args.Op, args.Signature, reply)
}

type IssueRegisterArgs struct {
	Op        gateway.RegisterOp `serialize:"true" json:"op"`
	Signature hexutil.Bytes      `serialize:"true" json:"signature"`
}

func (svc *PublicService) Register(_ *http.Request, args *IssueRegisterArgs, reply *IssueReply) error {
	return svc.issue(&args.Op, args.Signature, reply)
}

type IssueMintAndRegisterArgs struct {
	Op        gateway.MintAndRegisterOp `serialize:"true" json:"op"`
	Signature hexutil.Bytes             `serialize:"true" json:"signature"`
}

func (svc *PublicService) MintAndRegister(_ *http.Request, args *IssueMintAndRegisterArgs, reply *IssueReply) error {
	return svc.issue(&args.Op, args.Signature, reply)
}

type IssueRegisterDerivativeArgs struct {
	Op        gateway.RegisterDerivativeOp `serialize:"true" json:"op"`
	Signature hexutil.Bytes                `serialize:"true" json:"signature"`
}

func (svc *PublicService) RegisterDerivative(_ *http.Request, args *IssueRegisterDerivativeArgs, reply *IssueReply) error {
	return svc.issue(&args.Op, args.Signature, reply)
}

type IssueMintAndRegisterDerivativeArgs struct {
	Op        gateway.MintAndRegisterDerivativeOp `serialize:"true" json:"op"`
	Signature hexutil.Bytes                       `serialize:"true" json:"signature"`
}

func (svc *PublicService) MintAndRegisterDerivative(_ *http.Request, args *IssueMintAndRegisterDerivativeArgs, reply *IssueReply) error {
	return svc.issue(&args.Op, args.Signature, reply)
}

type IssueCreatePolicyArgs struct {
	Op        gateway.CreatePolicyOp `serialize:"true" json:"op"`
	Signature hexutil.Bytes          `serialize:"true" json:"signature"`
}

func (svc *PublicService) CreatePolicy(_ *http.Request, args *IssueCreatePolicyArgs, reply *IssueReply) error {
	return svc.issue(&args.Op, args.Signature, reply)
}

type IssueMintLicenseArgs struct {
	Op        gateway.MintLicenseOp `serialize:"true" json:"op"`
	Signature hexutil.Bytes         `serialize:"true" json:"signature"`
}

func (svc *PublicService) MintLicense(_ *http.Request, args *IssueMintLicenseArgs, reply *IssueReply) error {
	return svc.issue(&args.Op, args.Signature, reply)
}

type MintSettingsArgs struct {
	Collection common.Address `serialize:"true" json:"collection"`
}

type MintSettingsReply struct {
	Settings gateway.MintSettings `serialize:"true" json:"settings"`
}

func (svc *PublicService) MintSettings(_ *http.Request, args *MintSettingsArgs, reply *MintSettingsReply) error {
	s, err := svc.b.Gateway.MintSettingsOf(args.Collection)
	if err != nil {
		return err
	}
	reply.Settings = s
	return nil
}

type CollectionArgs struct {
	Collection common.Address `serialize:"true" json:"collection"`
}

type CollectionReply struct {
	Exists     bool              `serialize:"true" json:"exists"`
	Collection *token.Collection `serialize:"true" json:"collection"`
}

func (svc *PublicService) Collection(_ *http.Request, args *CollectionArgs, reply *CollectionReply) error {
	c, has, err := token.GetCollection(svc.b.Gateway.View(), args.Collection)
	if err != nil {
		return err
	}
	reply.Exists = has
	reply.Collection = c
	return nil
}

type AssetIDArgs struct {
	TokenContract common.Address `serialize:"true" json:"tokenContract"`
	TokenID       uint64         `serialize:"true" json:"tokenId"`
}

type AssetIDReply struct {
	Asset common.Address `serialize:"true" json:"asset"`
}

func (svc *PublicService) AssetID(_ *http.Request, args *AssetIDArgs, reply *AssetIDReply) error {
	reply.Asset = svc.b.Registry.AssetID(args.TokenContract, args.TokenID)
	return nil
}

type RegisteredArgs struct {
	Asset common.Address `serialize:"true" json:"asset"`
}

type RegisteredReply struct {
	Registered bool `serialize:"true" json:"registered"`
}

func (svc *PublicService) Registered(_ *http.Request, args *RegisteredArgs, reply *RegisteredReply) error {
	has, err := svc.b.Registry.IsRegistered(svc.b.Gateway.View(), args.Asset)
	if err != nil {
		return err
	}
	reply.Registered = has
	return nil
}

type AssetArgs struct {
	Asset common.Address `serialize:"true" json:"asset"`
}

type AssetReply struct {
	Exists bool            `serialize:"true" json:"exists"`
	Asset  *registry.Asset `serialize:"true" json:"asset"`
	Owner  common.Address  `serialize:"true" json:"owner"`
}

func (svc *PublicService) Asset(_ *http.Request, args *AssetArgs, reply *AssetReply) error {
	db := svc.b.Gateway.View()
	a, has, err := svc.b.Registry.GetAsset(db, args.Asset)
	if err != nil {
		return err
	}
	reply.Exists = has
	if !has {
		return nil
	}
	reply.Asset = a
	owner, err := svc.b.Registry.OwnerOf(db, args.Asset)
	if err != nil {
		return err
	}
	reply.Owner = owner
	return nil
}

type ResolveArgs struct {
	Asset common.Address `serialize:"true" json:"asset"`
	Key   string         `serialize:"true" json:"key"`
}

type ResolveReply struct {
	Exists bool   `serialize:"true" json:"exists"`
	Value  []byte `serialize:"true" json:"value"`
}

func (svc *PublicService) Resolve(_ *http.Request, args *ResolveArgs, reply *ResolveReply) error {
	v, exists, err := svc.b.Resolver.GetValue(svc.b.Gateway.View(), args.Asset, args.Key)
	reply.Exists = exists
	reply.Value = v
	return err
}

type PolicyArgs struct {
	PolicyID uint64 `serialize:"true" json:"policyId"`
}

type PolicyReply struct {
	Exists bool              `serialize:"true" json:"exists"`
	Policy *licensing.Policy `serialize:"true" json:"policy"`
}

func (svc *PublicService) Policy(_ *http.Request, args *PolicyArgs, reply *PolicyReply) error {
	pol, has, err := svc.b.Licensing.GetPolicy(svc.b.Gateway.View(), args.PolicyID)
	if err != nil {
		return err
	}
	reply.Exists = has
	reply.Policy = pol
	return nil
}

type LicenseArgs struct {
	LicenseID uint64 `serialize:"true" json:"licenseId"`
}

type LicenseReply struct {
	Exists  bool               `serialize:"true" json:"exists"`
	License *licensing.License `serialize:"true" json:"license"`
}

func (svc *PublicService) License(_ *http.Request, args *LicenseArgs, reply *LicenseReply) error {
	lic, has, err := svc.b.Licensing.GetLicense(svc.b.Gateway.View(), args.LicenseID)
	if err != nil {
		return err
	}
	reply.Exists = has
	reply.License = lic
	return nil
}

type AccountNonceArgs struct {
	TokenContract common.Address `serialize:"true" json:"tokenContract"`
	TokenID       uint64         `serialize:"true" json:"tokenId"`
}

type AccountNonceReply struct {
	Asset common.Address `serialize:"true" json:"asset"`
	Nonce uint64         `serialize:"true" json:"nonce"`
}

// AccountNonce returns the asset account's current nonce, which a delegation
// signature must be bound to.
func (svc *PublicService) AccountNonce(_ *http.Request, args *AccountNonceArgs, reply *AccountNonceReply) error {
	p := svc.b.Gateway.Params()
	addr := account.Derive(p.ChainID, args.TokenContract, args.TokenID)
	rec, err := account.GetAccount(svc.b.Gateway.View(), addr)
	if err != nil {
		return err
	}
	reply.Asset = addr
	reply.Nonce = rec.Nonce
	return nil
}

type OwnerOfArgs struct {
	Collection common.Address `serialize:"true" json:"collection"`
	TokenID    uint64         `serialize:"true" json:"tokenId"`
}

type OwnerOfReply struct {
	Owner common.Address `serialize:"true" json:"owner"`
}

func (svc *PublicService) OwnerOf(_ *http.Request, args *OwnerOfArgs, reply *OwnerOfReply) error {
	owner, err := svc.b.Tokens.OwnerOf(svc.b.Gateway.View(), args.Collection, args.TokenID)
	if err != nil {
		return err
	}
	reply.Owner = owner
	return nil
}
