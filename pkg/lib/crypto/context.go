// Package crypto 提供 secp256k1 密码学原语
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	sha256 "github.com/minio/sha256-simd"
)

// errContextClosed 引擎句柄已关闭
var errContextClosed = errors.New("context closed")

// ============================================================================
//                              Context
// ============================================================================

// Context 执行上下文本地的引擎句柄
//
// 每个执行上下文（goroutine）持有自己的 Context，绝不并发共享；
// 跨 goroutine 共享属于使用错误，不是受支持的模式，
// 因此内部不设任何同步原语。
//
// 错误槽是单槽的：操作失败时错误被记入槽中并立即返回；
// 持有者可通过 Err 读取并清空。未被读取的挂起错误会在
// 下一次操作开始时以 ErrEngine 形式抛出并清空，不会渗漏到
// 再下一次操作。
type Context struct {
	rand    io.Reader
	pending error
	closed  bool
}

// NewContext 创建引擎句柄
//
// 使用系统的加密安全随机源。句柄归调用方 goroutine 所有，
// 上下文结束时由持有者调用 Close 释放。
func NewContext() *Context {
	return &Context{rand: rand.Reader}
}

// NewContextWithReader 使用指定随机源创建引擎句柄
//
// 用于测试时的确定性生成。
func NewContextWithReader(r io.Reader) *Context {
	return &Context{rand: r}
}

// Err 读取并清空挂起错误
func (c *Context) Err() error {
	err := c.pending
	c.pending = nil
	return err
}

// Close 释放引擎句柄
//
// 关闭后所有操作返回 ErrEngine。
func (c *Context) Close() {
	c.closed = true
	c.pending = nil
}

// begin 进入一次引擎操作
//
// 先排空上一次操作遗留的挂起错误，再检查句柄是否可用。
func (c *Context) begin() error {
	if prev := c.Err(); prev != nil {
		return fmt.Errorf("%w: pending: %v", ErrEngine, prev)
	}
	if c.closed {
		return fmt.Errorf("%w: %v", ErrEngine, errContextClosed)
	}
	return nil
}

// fail 记录引擎故障并返回包装后的错误
func (c *Context) fail(cause error) error {
	c.pending = cause
	return fmt.Errorf("%w: %v", ErrEngine, cause)
}

// ============================================================================
//                              引擎操作
// ============================================================================

// GeneratePrivateKey 生成随机私钥
//
// 拒绝采样：反复抽取 32 个加密安全随机字节，直到通过曲线阶校验。
// 给定曲线参数，预期一到两次尝试即成功。
func (c *Context) GeneratePrivateKey() (*PrivateKey, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}

	buf := make([]byte, PrivateKeySize)
	defer wipe(buf)

	for {
		if _, err := io.ReadFull(c.rand, buf); err != nil {
			return nil, c.fail(fmt.Errorf("read random source: %w", err))
		}

		var s secp256k1.ModNScalar
		overflow := s.SetByteSlice(buf)
		if overflow || s.IsZero() {
			continue
		}

		return &PrivateKey{k: secp256k1.NewPrivateKey(&s)}, nil
	}
}

// Sign 使用私钥对消息签名
//
// 先计算消息的 SHA-256 摘要，再对摘要做可恢复签名。
func (c *Context) Sign(key *PrivateKey, message []byte) (*Signature, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrNilPrivateKey
	}

	digest := sha256.Sum256(message)
	compact := ecdsa.SignCompact(key.k, digest[:], true)

	sig, err := signatureFromCompact(compact)
	if err != nil {
		return nil, c.fail(err)
	}
	return sig, nil
}

// Verify 使用公钥验证签名
//
// 从签名和摘要恢复候选公钥，按规范形式与给定公钥比较。
// 签名与消息不匹配时返回 false 而非错误；
// 错误仅在引擎级故障时返回。
func (c *Context) Verify(sig *Signature, message []byte, key *PublicKey) (bool, error) {
	if err := c.begin(); err != nil {
		return false, err
	}
	if sig == nil {
		return false, ErrNilSignature
	}
	if key == nil {
		return false, ErrNilPublicKey
	}

	digest := sha256.Sum256(message)
	recovered, _, err := ecdsa.RecoverCompact(sig.compact(), digest[:])
	if err != nil {
		// 无法恢复出合法公钥等价于验证失败
		return false, nil
	}

	return recovered.IsEqual(key.k), nil
}

// DerivePublicKey 从私钥派生公钥
//
// 纯确定性操作，正常运行中不会失败。
func (c *Context) DerivePublicKey(key *PrivateKey) (*PublicKey, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrNilPrivateKey
	}
	return key.PublicKey(), nil
}

// wipe 清零字节切片
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
