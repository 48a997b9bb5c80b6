// Package crypto 提供 secp256k1 密码学原语
package crypto

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// SignatureSize 可恢复签名大小
//
// 布局：r（32 字节）+ s（32 字节）+ recovery id（1 字节），共 65 字节。
const SignatureSize = 2*PrivateKeySize + 1

// compactRecoveryCodeOffset 紧凑格式 recovery code 的基准偏移
//
// 紧凑格式 [recovery code ‖ r ‖ s] 中 code = 27 + recovery id + 4（压缩公钥）。
const compactRecoveryCodeOffset = 27 + 4

// ============================================================================
//                              Signature
// ============================================================================

// Signature secp256k1 可恢复签名
//
// 签名针对消息的 SHA-256 摘要；recovery id 始终落在 [0, 3]，
// 允许从签名和摘要直接恢复签名者公钥。
type Signature struct {
	data [SignatureSize]byte
}

// ParseSignature 从序列化字节解析签名
//
// 输入必须恰好 65 字节，且末尾的 recovery id 落在 [0, 3]。
func ParseSignature(data []byte) (*Signature, error) {
	if len(data) != SignatureSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrInvalidKeyFormat, SignatureSize, len(data))
	}
	if recID := data[SignatureSize-1]; recID > 3 {
		return nil, fmt.Errorf("%w: recovery id %d out of range", ErrInvalidKeyFormat, recID)
	}

	var sig Signature
	copy(sig.data[:], data)
	return &sig, nil
}

// ParseSignatureHex 从十六进制文本解析签名
func ParseSignatureHex(text string) (*Signature, error) {
	data, err := decodeHex(text)
	if err != nil {
		return nil, err
	}
	return ParseSignature(data)
}

// Serialize 返回 65 字节序列化形式（r ‖ s ‖ recovery id）
func (s *Signature) Serialize() []byte {
	out := make([]byte, SignatureSize)
	copy(out, s.data[:])
	return out
}

// Hex 返回序列化字节的十六进制文本
func (s *Signature) Hex() string {
	return hex.EncodeToString(s.data[:])
}

// RecoveryID 返回 recovery id
func (s *Signature) RecoveryID() byte {
	return s.data[SignatureSize-1]
}

// Equals 比较两个签名是否相等
//
// 比较基于规范序列化形式。
func (s *Signature) Equals(other *Signature) bool {
	if other == nil {
		return false
	}
	return subtle.ConstantTimeCompare(s.data[:], other.data[:]) == 1
}

// Zero 安全擦除签名字节
func (s *Signature) Zero() {
	for i := range s.data {
		s.data[i] = 0
	}
}

// compact 返回引擎使用的紧凑格式 [recovery code ‖ r ‖ s]
func (s *Signature) compact() []byte {
	out := make([]byte, SignatureSize)
	out[0] = compactRecoveryCodeOffset + s.RecoveryID()
	copy(out[1:], s.data[:SignatureSize-1])
	return out
}

// signatureFromCompact 从紧凑格式构造签名
func signatureFromCompact(compact []byte) (*Signature, error) {
	if len(compact) != SignatureSize {
		return nil, fmt.Errorf("%w: compact signature has %d bytes", ErrEngine, len(compact))
	}

	var sig Signature
	copy(sig.data[:SignatureSize-1], compact[1:])
	sig.data[SignatureSize-1] = (compact[0] - 27) & 3
	return &sig, nil
}
