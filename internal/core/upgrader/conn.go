// Package upgrader 实现安全通道升级器
package upgrader

import (
	"sync"

	"github.com/dep2p/go-secure/pkg/interfaces"
	"github.com/dep2p/go-secure/pkg/lib/crypto"
	"github.com/dep2p/go-secure/pkg/types"
)

// 确保实现了接口
var _ interfaces.Connection = (*Conn)(nil)

// Conn 升级后的逻辑连接
//
// 包装安全连接的加密读写对。对端身份在构造时从安全连接的
// 已验证公钥派生，此前没有任何状态暴露未验证的身份。
//
// 关闭级联是确定性的所有权关系：Conn --> SecureConn --> 原始流，
// 整条链只关闭一次，关闭通知恰好触发一次。
type Conn struct {
	sc interfaces.SecureConn

	localPeer  types.PeerID
	remotePeer types.PeerID

	readMu  sync.Mutex
	readBuf []byte

	closeOnce sync.Once
	closeErr  error
}

// newConn 从握手产物构造逻辑连接
//
// 仅在握手成功后调用；安全连接缺少远端公钥属于协议违例。
func newConn(sc interfaces.SecureConn) (*Conn, error) {
	remoteKey := sc.RemotePublicKey()
	if remoteKey == nil {
		return nil, ErrNoRemoteIdentity
	}

	remotePeer, err := crypto.PeerIDFromPublicKey(remoteKey)
	if err != nil {
		return nil, err
	}

	localPeer, err := crypto.PeerIDFromPublicKey(sc.LocalPublicKey())
	if err != nil {
		return nil, err
	}

	return &Conn{
		sc:         sc,
		localPeer:  localPeer,
		remotePeer: remotePeer,
	}, nil
}

// ============================================================================
//                              读写
// ============================================================================

// Read 读取解密后的字节
//
// 先返还上一条消息的剩余字节，耗尽后再读取下一条加密消息。
// 任何读取故障都会级联关闭整条连接：故障后的连接不可恢复，
// 不存在"半开"状态。
func (c *Conn) Read(p []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if len(c.readBuf) > 0 {
		n := copy(p, c.readBuf)
		c.readBuf = c.readBuf[n:]
		return n, nil
	}

	msg, err := c.sc.ReadMessage()
	if err != nil {
		c.Close()
		return 0, err
	}

	n := copy(p, msg)
	if n < len(msg) {
		c.readBuf = msg[n:]
	}
	return n, nil
}

// Write 把载荷作为一条独立消息加密写出
//
// 写入故障与读取故障同样级联关闭整条连接。
func (c *Conn) Write(p []byte) (int, error) {
	if err := c.sc.WriteMessage(p); err != nil {
		c.Close()
		return 0, err
	}
	return len(p), nil
}

// ============================================================================
//                              关闭
// ============================================================================

// Close 关闭连接
//
// 级联关闭安全连接及其持有的原始流；幂等。
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.sc.Close()
	})
	return c.closeErr
}

// IsClosed 检查连接是否已关闭
func (c *Conn) IsClosed() bool {
	return c.sc.IsClosed()
}

// CloseNotify 返回一次性关闭通知通道
func (c *Conn) CloseNotify() <-chan struct{} {
	return c.sc.CloseNotify()
}

// ============================================================================
//                              身份
// ============================================================================

// LocalPeer 返回本地节点 ID
func (c *Conn) LocalPeer() types.PeerID {
	return c.localPeer
}

// RemotePeer 返回已验证的远端节点 ID
func (c *Conn) RemotePeer() types.PeerID {
	return c.remotePeer
}

// RemotePublicKey 返回已验证的远端公钥
func (c *Conn) RemotePublicKey() *crypto.PublicKey {
	return c.sc.RemotePublicKey()
}
