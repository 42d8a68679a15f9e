// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ethereum/go-ethereum/common"
)

// 0x0/ (contract info)
//   -> [contract]
// 0x1/ (ledger info)
//   -> [ledger]
// 0x2/ (balances)
//   -> [ledger]
//     -> [account]
// 0x3/ (allowances)
//   -> [ledger]
//     -> [owner]
//       -> [spender]
// 0x4/ (registry info)
//   -> [registry]
// 0x5/ (parcels)
//   -> [registry]
//     -> [assetID]
// 0x6/ (owned parcels)
//   -> [registry]
//     -> [owner]
//       -> [assetID]
// 0x7/ (per-asset approvals)
//   -> [registry]
//     -> [assetID]
// 0x8/ (operator approvals)
//   -> [registry]
//     -> [owner]
//       -> [operator]
// 0x9/ (add-on definitions)
//   -> [registry]
//     -> [addonID]
// 0xa/ (marketplace info)
//   -> [market]
// 0xb/ (orders)
//   -> [market]
//     -> [registry]
//       -> [assetID]
// 0xc/ (tx hashes)
// 0xd/ (event log)
//   -> [seq]

const (
	contractPrefix = 0x0
	ledgerPrefix   = 0x1
	balancePrefix  = 0x2
	allowPrefix    = 0x3
	registryPrefix = 0x4
	parcelPrefix   = 0x5
	ownedPrefix    = 0x6
	approvalPrefix = 0x7
	operatorPrefix = 0x8
	addonPrefix    = 0x9
	marketPrefix   = 0xa
	orderPrefix    = 0xb
	txPrefix       = 0xc
	eventPrefix    = 0xd

	delimiter = byte(0x2f) // '/'

	idLen = 8
)

var (
	eventCountKey = []byte("event_count")
	approvedFlag  = []byte{0x1}
)

func prefixed(p byte, size int) []byte {
	k := make([]byte, 2, 2+size)
	k[0] = p
	k[1] = delimiter
	return k
}

func packID(id uint64) []byte {
	b := make([]byte, idLen)
	binary.BigEndian.PutUint64(b, id)
	return b
}

func ContractKey(contract common.Address) []byte {
	return append(prefixed(contractPrefix, common.AddressLength), contract[:]...)
}

func LedgerKey(ledger common.Address) []byte {
	return append(prefixed(ledgerPrefix, common.AddressLength), ledger[:]...)
}

func BalanceKey(ledger common.Address, account common.Address) []byte {
	k := append(prefixed(balancePrefix, 2*common.AddressLength), ledger[:]...)
	return append(k, account[:]...)
}

func AllowanceKey(ledger common.Address, owner common.Address, spender common.Address) []byte {
	k := append(prefixed(allowPrefix, 3*common.AddressLength), ledger[:]...)
	k = append(k, owner[:]...)
	return append(k, spender[:]...)
}

func RegistryKey(registry common.Address) []byte {
	return append(prefixed(registryPrefix, common.AddressLength), registry[:]...)
}

func ParcelKey(registry common.Address, assetID uint64) []byte {
	k := append(prefixed(parcelPrefix, common.AddressLength+idLen), registry[:]...)
	return append(k, packID(assetID)...)
}

// OwnedPrefixKey is the iteration prefix for all parcels [owner] holds in
// [registry].
func OwnedPrefixKey(registry common.Address, owner common.Address) []byte {
	k := append(prefixed(ownedPrefix, 2*common.AddressLength+idLen), registry[:]...)
	return append(k, owner[:]...)
}

func OwnedKey(registry common.Address, owner common.Address, assetID uint64) []byte {
	return append(OwnedPrefixKey(registry, owner), packID(assetID)...)
}

func ApprovalKey(registry common.Address, assetID uint64) []byte {
	k := append(prefixed(approvalPrefix, common.AddressLength+idLen), registry[:]...)
	return append(k, packID(assetID)...)
}

func OperatorKey(registry common.Address, owner common.Address, operator common.Address) []byte {
	k := append(prefixed(operatorPrefix, 3*common.AddressLength), registry[:]...)
	k = append(k, owner[:]...)
	return append(k, operator[:]...)
}

func AddonKey(registry common.Address, addonID uint64) []byte {
	k := append(prefixed(addonPrefix, common.AddressLength+idLen), registry[:]...)
	return append(k, packID(addonID)...)
}

func MarketKey(market common.Address) []byte {
	return append(prefixed(marketPrefix, common.AddressLength), market[:]...)
}

func OrderKey(market common.Address, registry common.Address, assetID uint64) []byte {
	k := append(prefixed(orderPrefix, 2*common.AddressLength+idLen), market[:]...)
	k = append(k, registry[:]...)
	return append(k, packID(assetID)...)
}

func PrefixTxKey(txID ids.ID) []byte {
	return append(prefixed(txPrefix, len(txID)), txID[:]...)
}

func EventKey(seq uint64) []byte {
	return append(prefixed(eventPrefix, idLen), packID(seq)...)
}

// getRecord loads and decodes the value stored at [k] into [dst].
func getRecord(db database.KeyValueReader, k []byte, dst interface{}) (bool, error) {
	v, err := db.Get(k)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := Unmarshal(v, dst); err != nil {
		return false, err
	}
	return true, nil
}

func putRecord(db database.KeyValueWriter, k []byte, src interface{}) error {
	b, err := Marshal(src)
	if err != nil {
		return err
	}
	return db.Put(k, b)
}

func getUint64(db database.KeyValueReader, k []byte) (uint64, error) {
	v, err := db.Get(k)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != idLen {
		return 0, ErrValueTooBig
	}
	return binary.BigEndian.Uint64(v), nil
}

// putUint64 deletes the key when [v] is zero so empty accounts do not
// accumulate.
func putUint64(db database.Database, k []byte, v uint64) error {
	if v == 0 {
		return db.Delete(k)
	}
	return db.Put(k, packID(v))
}

func HasTransaction(db database.KeyValueReader, txID ids.ID) (bool, error) {
	return db.Has(PrefixTxKey(txID))
}

func SetTransaction(db database.KeyValueWriter, txID ids.ID) error {
	return db.Put(PrefixTxKey(txID), approvedFlag)
}

// EventCount returns the number of events in the log.
func EventCount(db database.KeyValueReader) (uint64, error) {
	return getUint64(db, eventCountKey)
}

// PutEvents appends [events] to the event log.
func PutEvents(db database.Database, txID ids.ID, events []Event) error {
	seq, err := EventCount(db)
	if err != nil {
		return err
	}
	for _, e := range events {
		if err := putRecord(db, EventKey(seq), &EventRecord{Seq: seq, TxID: txID, Event: e}); err != nil {
			return err
		}
		seq++
	}
	return putUint64(db, eventCountKey, seq)
}

// GetEvents returns up to [limit] events starting at sequence [start].
func GetEvents(db database.Database, start uint64, limit int) ([]*EventRecord, error) {
	iter := db.NewIteratorWithStartAndPrefix(EventKey(start), prefixed(eventPrefix, 0))
	defer iter.Release()

	records := []*EventRecord{}
	for len(records) < limit && iter.Next() {
		r := new(EventRecord)
		if _, err := Unmarshal(iter.Value(), r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, iter.Error()
}
