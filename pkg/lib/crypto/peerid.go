// Package crypto 提供 secp256k1 密码学原语
package crypto

import (
	sha256 "github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"

	"github.com/dep2p/go-secure/pkg/types"
)

// ============================================================================
//                              PeerID 派生
// ============================================================================

// PeerIDFromPublicKey 从公钥派生 PeerID
//
// 派生算法：Base58(SHA256(压缩公钥))
func PeerIDFromPublicKey(pub *PublicKey) (types.PeerID, error) {
	if pub == nil {
		return types.EmptyPeerID, ErrNilPublicKey
	}

	hash := sha256.Sum256(pub.Serialize())
	return types.PeerID(base58.Encode(hash[:])), nil
}

// PeerIDFromPrivateKey 从私钥派生 PeerID
func PeerIDFromPrivateKey(priv *PrivateKey) (types.PeerID, error) {
	if priv == nil {
		return types.EmptyPeerID, ErrNilPrivateKey
	}
	return PeerIDFromPublicKey(priv.PublicKey())
}

// VerifyPeerID 验证公钥是否对应给定的 PeerID
func VerifyPeerID(pub *PublicKey, id types.PeerID) (bool, error) {
	derived, err := PeerIDFromPublicKey(pub)
	if err != nil {
		return false, err
	}
	return derived == id, nil
}
