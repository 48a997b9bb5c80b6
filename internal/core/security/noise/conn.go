// Package noise 实现基于 Noise 协议的安全通道变体
package noise

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/flynn/noise"

	"github.com/dep2p/go-secure/pkg/interfaces"
	"github.com/dep2p/go-secure/pkg/lib/crypto"
)

const (
	// frameHeaderSize 帧长度前缀大小
	frameHeaderSize = 2

	// maxFrameSize 单帧密文上限（2 字节长度前缀所能表达的最大值）
	maxFrameSize = 65535

	// maxPlaintextSize 单帧明文上限（密文上限扣除认证标签）
	maxPlaintextSize = maxFrameSize - 16
)

// 确保实现了接口
var _ interfaces.SecureConn = (*secureConn)(nil)

// secureConn Noise 加密连接
//
// 握手成功后构造，接管原始流的所有权；
// 读写方向各持一把锁，消息独立分帧加解密。
type secureConn struct {
	raw interfaces.Stream

	sendCS *noise.CipherState
	recvCS *noise.CipherState

	localKey  *crypto.PublicKey
	remoteKey *crypto.PublicKey

	readMu  sync.Mutex
	writeMu sync.Mutex

	readBuf []byte
}

// newSecureConn 从握手产物构造加密连接
func newSecureConn(raw interfaces.Stream, sendCS, recvCS *noise.CipherState, localKey, remoteKey *crypto.PublicKey) *secureConn {
	return &secureConn{
		raw:       raw,
		sendCS:    sendCS,
		recvCS:    recvCS,
		localKey:  localKey,
		remoteKey: remoteKey,
	}
}

// ============================================================================
//                              消息读写
// ============================================================================

// ReadMessage 读取并解密一条完整消息
func (c *secureConn) ReadMessage() ([]byte, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()
	return c.readMessageLocked()
}

func (c *secureConn) readMessageLocked() ([]byte, error) {
	enc, err := readFrame(c.raw)
	if err != nil {
		return nil, err
	}

	plain, err := c.recvCS.Decrypt(nil, nil, enc)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plain, nil
}

// WriteMessage 加密并写出一条完整消息
func (c *secureConn) WriteMessage(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.writeMessageLocked(msg)
}

func (c *secureConn) writeMessageLocked(msg []byte) error {
	if len(msg) > maxPlaintextSize {
		return fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(msg))
	}

	enc, err := c.sendCS.Encrypt(nil, nil, msg)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	return writeFrame(c.raw, enc)
}

// ============================================================================
//                              字节流视图
// ============================================================================

// Read 读取解密后的字节
//
// 先返还上一条消息的剩余字节，耗尽后再解密下一条消息。
func (c *secureConn) Read(p []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if len(c.readBuf) > 0 {
		n := copy(p, c.readBuf)
		c.readBuf = c.readBuf[n:]
		return n, nil
	}

	plain, err := c.readMessageLocked()
	if err != nil {
		return 0, err
	}

	n := copy(p, plain)
	if n < len(plain) {
		c.readBuf = plain[n:]
	}
	return n, nil
}

// ReadFull 精确读取 len(buf) 字节的解密数据
func (c *secureConn) ReadFull(buf []byte) error {
	_, err := io.ReadFull(c, buf)
	return err
}

// Write 加密写入全部字节
//
// 超出单帧明文上限的载荷被切分为多条消息。
func (c *secureConn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	written := 0
	for written < len(p) {
		end := written + maxPlaintextSize
		if end > len(p) {
			end = len(p)
		}
		if err := c.writeMessageLocked(p[written:end]); err != nil {
			return written, err
		}
		written = end
	}
	return written, nil
}

// ============================================================================
//                              生命周期与身份
// ============================================================================

// Close 关闭连接（级联关闭原始流，幂等）
func (c *secureConn) Close() error {
	return c.raw.Close()
}

// IsClosed 检查连接是否已关闭
func (c *secureConn) IsClosed() bool {
	return c.raw.IsClosed()
}

// CloseNotify 返回一次性关闭通知通道
func (c *secureConn) CloseNotify() <-chan struct{} {
	return c.raw.CloseNotify()
}

// RemoteAddr 返回远端地址（仅用于诊断）
func (c *secureConn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// LocalPublicKey 返回本地身份公钥
func (c *secureConn) LocalPublicKey() *crypto.PublicKey {
	return c.localKey
}

// RemotePublicKey 返回已验证的远端身份公钥
func (c *secureConn) RemotePublicKey() *crypto.PublicKey {
	return c.remoteKey
}
