// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	smath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ethereum/go-ethereum/common"
)

// MaxMetadataSize bounds the metadata stored with a single parcel.
const MaxMetadataSize = 1024

type RegistryInfo struct {
	Name   string         `serialize:"true" json:"name"`
	Symbol string         `serialize:"true" json:"symbol"`
	Ledger common.Address `serialize:"true" json:"ledger"`

	// UnitPrice is the credit cost of one parcel bought from the pool.
	UnitPrice uint64 `serialize:"true" json:"unitPrice"`

	NextAssetID uint64 `serialize:"true" json:"nextAssetId"`
	NextAddonID uint64 `serialize:"true" json:"nextAddonId"`
	Unsold      uint64 `serialize:"true" json:"unsold"`

	// When FeeSink is set, PurchaseFeePercent of every pool sale goes to it
	// instead of the registry fee account.
	FeeSink            common.Address `serialize:"true" json:"feeSink"`
	PurchaseFeePercent uint64         `serialize:"true" json:"purchaseFeePercent"`
}

type Parcel struct {
	Owner    common.Address `serialize:"true" json:"owner"`
	Metadata []byte         `serialize:"true" json:"metadata"`
	Addons   []uint64       `serialize:"true" json:"addons"`
}

type AddonDefinition struct {
	Price       uint64 `serialize:"true" json:"price"`
	Purchasable bool   `serialize:"true" json:"purchasable"`
}

func GetRegistryInfo(db database.KeyValueReader, registry common.Address) (*RegistryInfo, bool, error) {
	i := new(RegistryInfo)
	has, err := getRecord(db, RegistryKey(registry), i)
	if err != nil || !has {
		return nil, has, err
	}
	return i, true, nil
}

func PutRegistryInfo(db database.KeyValueWriter, registry common.Address, i *RegistryInfo) error {
	return putRecord(db, RegistryKey(registry), i)
}

// DeployRegistry creates an empty registry that sells parcels for credits
// held on i.Ledger.
func DeployRegistry(db database.Database, registry common.Address, admin common.Address, i *RegistryInfo) error {
	if i.PurchaseFeePercent > 100 {
		return ErrValueTooBig
	}
	if err := deployContract(db, registry, KindRegistry, admin); err != nil {
		return err
	}
	return PutRegistryInfo(db, registry, i)
}

func GetParcel(db database.KeyValueReader, registry common.Address, assetID uint64) (*Parcel, bool, error) {
	p := new(Parcel)
	has, err := getRecord(db, ParcelKey(registry, assetID), p)
	if err != nil || !has {
		return nil, has, err
	}
	return p, true, nil
}

func PutParcel(db database.KeyValueWriter, registry common.Address, assetID uint64, p *Parcel) error {
	return putRecord(db, ParcelKey(registry, assetID), p)
}

// OwnerOf returns the owner of [assetID], or ErrInvalidAsset if it was never
// created.
func OwnerOf(db database.KeyValueReader, registry common.Address, assetID uint64) (common.Address, error) {
	p, has, err := GetParcel(db, registry, assetID)
	if err != nil {
		return zeroAddress, err
	}
	if !has {
		return zeroAddress, fmt.Errorf("%w: asset %d", ErrInvalidAsset, assetID)
	}
	return p.Owner, nil
}

// OwnedParcels lists the asset ids [owner] holds in [registry] in ascending
// order. The registry's own address lists the unsold pool.
func OwnedParcels(db database.Iteratee, registry common.Address, owner common.Address) ([]uint64, error) {
	pfx := OwnedPrefixKey(registry, owner)
	iter := db.NewIteratorWithPrefix(pfx)
	defer iter.Release()

	ids := []uint64{}
	for iter.Next() {
		k := iter.Key()
		if len(k) != len(pfx)+idLen {
			return nil, errors.New("malformed owner index key")
		}
		ids = append(ids, binary.BigEndian.Uint64(k[len(pfx):]))
	}
	return ids, iter.Error()
}

func GetApproved(db database.KeyValueReader, registry common.Address, assetID uint64) (common.Address, error) {
	v, err := db.Get(ApprovalKey(registry, assetID))
	if errors.Is(err, database.ErrNotFound) {
		return zeroAddress, nil
	}
	if err != nil {
		return zeroAddress, err
	}
	return common.BytesToAddress(v), nil
}

func IsApprovedForAll(db database.KeyValueReader, registry common.Address, owner common.Address, operator common.Address) (bool, error) {
	return db.Has(OperatorKey(registry, owner, operator))
}

func GetAddon(db database.KeyValueReader, registry common.Address, addonID uint64) (*AddonDefinition, bool, error) {
	a := new(AddonDefinition)
	has, err := getRecord(db, AddonKey(registry, addonID), a)
	if err != nil || !has {
		return nil, has, err
	}
	return a, true, nil
}

// isApprovedOrOwner reports whether [spender] may move a parcel held by
// [owner].
func isApprovedOrOwner(db database.KeyValueReader, registry common.Address, spender common.Address, owner common.Address, assetID uint64) (bool, error) {
	if spender == owner {
		return true, nil
	}
	approved, err := GetApproved(db, registry, assetID)
	if err != nil {
		return false, err
	}
	if approved == spender {
		return true, nil
	}
	return IsApprovedForAll(db, registry, owner, spender)
}

// setOwner rewrites the owner of [p], keeping the owner index in sync and
// clearing any per-asset approval.
func setOwner(db database.Database, registry common.Address, assetID uint64, p *Parcel, to common.Address) error {
	if err := db.Delete(OwnedKey(registry, p.Owner, assetID)); err != nil {
		return err
	}
	if err := db.Delete(ApprovalKey(registry, assetID)); err != nil {
		return err
	}
	p.Owner = to
	if err := db.Put(OwnedKey(registry, to, assetID), approvedFlag); err != nil {
		return err
	}
	return PutParcel(db, registry, assetID, p)
}

// transferParcel moves [assetID] from [from] to [to] on behalf of [caller].
func transferParcel(
	c *TransactionContext,
	registry common.Address,
	caller common.Address,
	from common.Address,
	to common.Address,
	assetID uint64,
) error {
	if _, err := activeContract(c.Database, registry, KindRegistry); err != nil {
		return err
	}
	if to == zeroAddress {
		return ErrZeroAddress
	}
	p, has, err := GetParcel(c.Database, registry, assetID)
	if err != nil {
		return err
	}
	if !has {
		return ErrInvalidAsset
	}
	if p.Owner != from {
		return ErrNotOwner
	}
	ok, err := isApprovedOrOwner(c.Database, registry, caller, from, assetID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	if err := setOwner(c.Database, registry, assetID, p, to); err != nil {
		return err
	}
	c.emit(&ParcelTransfer{Registry: registry, From: from, To: to, AssetID: assetID})
	return nil
}

// createParcels appends one parcel per metadata entry to the unsold pool.
func createParcels(c *TransactionContext, registry common.Address, i *RegistryInfo, metadata [][]byte) error {
	for _, m := range metadata {
		if len(m) > MaxMetadataSize {
			return ErrValueTooBig
		}
		id := i.NextAssetID
		p := &Parcel{Owner: registry, Metadata: m, Addons: []uint64{}}
		if err := PutParcel(c.Database, registry, id, p); err != nil {
			return err
		}
		if err := c.Database.Put(OwnedKey(registry, registry, id), approvedFlag); err != nil {
			return err
		}
		c.emit(&ParcelTransfer{Registry: registry, To: registry, AssetID: id})

		next, err := smath.Add64(id, 1)
		if err != nil {
			return ErrOverflow
		}
		i.NextAssetID = next
		i.Unsold++
	}
	return nil
}

// allocate hands [count] parcels from the unsold pool to [recipient].
func allocate(c *TransactionContext, registry common.Address, i *RegistryInfo, count uint64, recipient common.Address) ([]uint64, error) {
	if recipient == zeroAddress {
		return nil, ErrZeroAddress
	}
	if count == 0 {
		return nil, ErrNonActionable
	}
	if i.Unsold < count {
		return nil, ErrNotEnoughParcels
	}
	pool, err := OwnedParcels(c.Database, registry, registry)
	if err != nil {
		return nil, err
	}
	picked, err := c.selector().Select(pool, count, c.TxID)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint64]struct{}, len(picked))
	for _, id := range picked {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateSelection
		}
		seen[id] = struct{}{}

		p, has, err := GetParcel(c.Database, registry, id)
		if err != nil {
			return nil, err
		}
		if !has || p.Owner != registry {
			return nil, ErrInvalidAsset
		}
		if err := setOwner(c.Database, registry, id, p, recipient); err != nil {
			return nil, err
		}
		c.emit(&ParcelTransfer{Registry: registry, From: registry, To: recipient, AssetID: id})
	}
	if uint64(len(picked)) != count {
		return nil, ErrNotEnoughParcels
	}
	i.Unsold -= count
	return picked, nil
}
