// Package crypto 提供 secp256k1 密码学原语
package crypto

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// 密钥大小常量
const (
	// PrivateKeySize 私钥大小（32 字节原始标量）
	PrivateKeySize = 32
	// PublicKeySize 压缩公钥大小（33 字节）
	PublicKeySize = 33
	// UncompressedPublicKeySize 未压缩公钥大小（65 字节）
	UncompressedPublicKeySize = 65
)

// 公钥编码的前缀标签
const (
	pubKeyTagCompressedEven = 0x02
	pubKeyTagCompressedOdd  = 0x03
	pubKeyTagUncompressed   = 0x04
	pubKeyTagHybridEven     = 0x06
	pubKeyTagHybridOdd      = 0x07
)

// ============================================================================
//                              PrivateKey
// ============================================================================

// PrivateKey secp256k1 私钥
//
// 构造时必须通过曲线阶校验。私钥绝不写入日志，
// 使用完毕后由持有者调用 Zero 显式擦除。
type PrivateKey struct {
	k *secp256k1.PrivateKey
}

// ParsePrivateKey 从原始字节解析私钥
//
// 输入必须恰好 32 字节，且标量落在 [1, n-1] 范围内。
func ParsePrivateKey(data []byte) (*PrivateKey, error) {
	if len(data) != PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrInvalidKeyFormat, PrivateKeySize, len(data))
	}

	var s secp256k1.ModNScalar
	overflow := s.SetByteSlice(data)
	if overflow || s.IsZero() {
		return nil, fmt.Errorf("%w: scalar out of curve order range", ErrInvalidKeyFormat)
	}

	return &PrivateKey{k: secp256k1.NewPrivateKey(&s)}, nil
}

// ParsePrivateKeyHex 从十六进制文本解析私钥
//
// 大小写不敏感，内嵌空白字符在解码前被剥离。
func ParsePrivateKeyHex(text string) (*PrivateKey, error) {
	data, err := decodeHex(text)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(data)
}

// Serialize 返回 32 字节原始标量
func (k *PrivateKey) Serialize() []byte {
	return k.k.Serialize()
}

// Hex 返回序列化字节的十六进制文本
func (k *PrivateKey) Hex() string {
	return hex.EncodeToString(k.Serialize())
}

// PublicKey 返回对应的公钥
//
// 派生是纯函数：同一私钥的多次调用结果一致。
func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{k: k.k.PubKey()}
}

// Equals 使用常量时间比较两个私钥是否相等
//
// 比较基于规范序列化形式，防止时序攻击。
func (k *PrivateKey) Equals(other *PrivateKey) bool {
	if other == nil {
		return false
	}
	return subtle.ConstantTimeCompare(k.Serialize(), other.Serialize()) == 1
}

// Zero 安全擦除私钥材料
//
// 擦除后私钥不可再使用。
func (k *PrivateKey) Zero() {
	k.k.Zero()
}

// ============================================================================
//                              PublicKey
// ============================================================================

// PublicKey secp256k1 公钥
//
// 构造后不可变。相等性定义在规范序列化形式（33 字节压缩点）上，
// 同一个点的不同编码解析后比较相等。
type PublicKey struct {
	k *secp256k1.PublicKey
}

// ParsePublicKey 从外部编码解析公钥
//
// 支持的编码：
//   - 压缩格式：0x02/0x03 前缀，33 字节
//   - 未压缩格式：0x04 前缀，65 字节
//   - 混合格式：0x06/0x07 前缀，65 字节
func ParsePublicKey(data []byte) (*PublicKey, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidKeyFormat)
	}

	var want int
	switch data[0] {
	case pubKeyTagCompressedEven, pubKeyTagCompressedOdd:
		want = PublicKeySize
	case pubKeyTagUncompressed, pubKeyTagHybridEven, pubKeyTagHybridOdd:
		want = UncompressedPublicKeySize
	default:
		return nil, fmt.Errorf("%w: unrecognized prefix tag 0x%02x", ErrInvalidKeyFormat, data[0])
	}
	if len(data) != want {
		return nil, fmt.Errorf("%w: tag 0x%02x expects %d bytes, got %d",
			ErrInvalidKeyFormat, data[0], want, len(data))
	}

	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}

	return &PublicKey{k: pub}, nil
}

// ParsePublicKeyHex 从十六进制文本解析公钥
func ParsePublicKeyHex(text string) (*PublicKey, error) {
	data, err := decodeHex(text)
	if err != nil {
		return nil, err
	}
	return ParsePublicKey(data)
}

// Serialize 返回 33 字节压缩点（规范形式）
func (k *PublicKey) Serialize() []byte {
	return k.k.SerializeCompressed()
}

// SerializeUncompressed 返回 65 字节未压缩点
func (k *PublicKey) SerializeUncompressed() []byte {
	return k.k.SerializeUncompressed()
}

// Hex 返回规范形式的十六进制文本
func (k *PublicKey) Hex() string {
	return hex.EncodeToString(k.Serialize())
}

// Equals 比较两个公钥是否相等
//
// 比较规范序列化形式，与输入时的编码方式无关。
func (k *PublicKey) Equals(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return k.k.IsEqual(other.k)
}

// Zero 擦除公钥材料
//
// 公钥不是机密，但每种密钥与签名类型都提供统一的擦除操作，
// 便于持有者在释放时一律清理。擦除后公钥退化为零点，
// 不再与任何有效公钥相等。
func (k *PublicKey) Zero() {
	k.k = &secp256k1.PublicKey{}
}

// ============================================================================
//                              辅助函数
// ============================================================================

// decodeHex 解码十六进制文本
//
// 先剥离所有内嵌空白字符，再按大小写不敏感规则解码。
func decodeHex(text string) ([]byte, error) {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	data, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}
	return data, nil
}
