// Package interfaces 定义安全通道升级层的公共接口
//
// 本文件定义 Connection 接口，抽象暴露给上层的逻辑连接。
package interfaces

import (
	"io"

	"github.com/dep2p/go-secure/pkg/lib/crypto"
	"github.com/dep2p/go-secure/pkg/types"
)

// Connection 逻辑连接接口
//
// Connection 包装安全连接的加密读写对，持有对端身份。
// 读写以不透明字节载荷为单位，透明地加解密。
//
// 对端身份字段仅在握手完整结束后填充，
// 任何中间状态都不会暴露未验证的身份。
type Connection interface {
	io.ReadWriteCloser

	// IsClosed 检查连接是否已关闭
	IsClosed() bool

	// CloseNotify 返回一次性关闭通知通道
	CloseNotify() <-chan struct{}

	// LocalPeer 返回本地节点 ID
	LocalPeer() types.PeerID

	// RemotePeer 返回已验证的远端节点 ID
	RemotePeer() types.PeerID

	// RemotePublicKey 返回已验证的远端公钥
	RemotePublicKey() *crypto.PublicKey
}

// ConnHandler 连接处理回调
//
// 响应方握手成功后，升级完成的连接交由该回调处理。
type ConnHandler func(Connection)
