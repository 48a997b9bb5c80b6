// Package upgrader 实现安全通道升级器
package upgrader

import (
	"context"
	"encoding/binary"
	"errors"
	"net"

	"github.com/dep2p/go-secure/internal/core/stream"
	"github.com/dep2p/go-secure/pkg/interfaces"
	"github.com/dep2p/go-secure/pkg/lib/crypto"
	"github.com/dep2p/go-secure/pkg/types"
)

// errForcedFailure 测试强制的握手失败
var errForcedFailure = errors.New("forced handshake failure")

// testKey 生成测试用私钥
func testKey() (*crypto.PrivateKey, error) {
	cctx := crypto.NewContext()
	defer cctx.Close()
	return cctx.GeneratePrivateKey()
}

// pipeStreams 创建一对内存互联的字节流
func pipeStreams() (interfaces.Stream, interfaces.Stream) {
	a, b := net.Pipe()
	return stream.New(a), stream.New(b)
}

// ============================================================================
//                              明文测试通道
// ============================================================================

// plainChannel 明文测试握手变体
//
// 双方交换 33 字节压缩公钥作为"握手"，之后按 2 字节大端长度
// 分帧明文传输。仅用于驱动升级器状态机的测试。
type plainChannel struct {
	key  *crypto.PrivateKey
	fail bool
}

var _ interfaces.SecureChannel = (*plainChannel)(nil)

func newPlainChannel(key *crypto.PrivateKey) *plainChannel {
	return &plainChannel{key: key}
}

func (c *plainChannel) ID() types.ProtocolID {
	return types.ProtocolID("/plaintext/1.0.0")
}

func (c *plainChannel) Secure(_ context.Context, raw interfaces.Stream, initiator bool) (interfaces.SecureConn, error) {
	if c.fail {
		return nil, errForcedFailure
	}

	local := c.key.PublicKey()
	remoteBuf := make([]byte, crypto.PublicKeySize)

	// 发起方先写后读，响应方先读后写
	if initiator {
		if _, err := raw.Write(local.Serialize()); err != nil {
			return nil, err
		}
		if err := raw.ReadFull(remoteBuf); err != nil {
			return nil, err
		}
	} else {
		if err := raw.ReadFull(remoteBuf); err != nil {
			return nil, err
		}
		if _, err := raw.Write(local.Serialize()); err != nil {
			return nil, err
		}
	}

	remote, err := crypto.ParsePublicKey(remoteBuf)
	if err != nil {
		return nil, err
	}

	return &plainConn{Stream: raw, local: local, remote: remote}, nil
}

// plainConn 明文"安全"连接
type plainConn struct {
	interfaces.Stream

	local  *crypto.PublicKey
	remote *crypto.PublicKey
}

var _ interfaces.SecureConn = (*plainConn)(nil)

func (c *plainConn) ReadMessage() ([]byte, error) {
	lenBuf := make([]byte, 2)
	if err := c.ReadFull(lenBuf); err != nil {
		return nil, err
	}

	msg := make([]byte, binary.BigEndian.Uint16(lenBuf))
	if err := c.ReadFull(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (c *plainConn) WriteMessage(msg []byte) error {
	frame := make([]byte, 2+len(msg))
	binary.BigEndian.PutUint16(frame, uint16(len(msg)))
	copy(frame[2:], msg)

	_, err := c.Write(frame)
	return err
}

func (c *plainConn) LocalPublicKey() *crypto.PublicKey {
	return c.local
}

func (c *plainConn) RemotePublicKey() *crypto.PublicKey {
	return c.remote
}
