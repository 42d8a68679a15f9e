// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signatures carry a legacy recovery id (27/28) in their last byte so wallet
// tooling can verify them.
const (
	recoveryIDOffset = crypto.SignatureLength - 1
	legacyRecoveryID = 27
)

// SignDigest produces a recoverable secp256k1 signature over [digest].
func SignDigest(digest []byte, priv *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(digest, priv)
	if err != nil {
		return nil, err
	}
	sig[recoveryIDOffset] += legacyRecoveryID
	return sig, nil
}

// RecoverAddress returns the account that signed [digest]. Only the
// encoding SignDigest produces is accepted: a legacy recovery id and a
// low-s value, so every signed message has exactly one valid signature.
func RecoverAddress(digest []byte, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSignature
	}
	v := sig[recoveryIDOffset]
	if v < legacyRecoveryID {
		return common.Address{}, ErrInvalidSignature
	}
	v -= legacyRecoveryID
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return common.Address{}, ErrInvalidSignature
	}

	raw := make([]byte, crypto.SignatureLength)
	copy(raw, sig)
	raw[recoveryIDOffset] = v
	pk, err := crypto.SigToPub(digest, raw)
	if err != nil {
		return common.Address{}, ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*pk), nil
}
