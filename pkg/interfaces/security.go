// Package interfaces 定义安全通道升级层的公共接口
//
// 本文件定义 SecureChannel 接口，抽象具体握手算法。
package interfaces

import (
	"context"

	"github.com/dep2p/go-secure/pkg/lib/crypto"
	"github.com/dep2p/go-secure/pkg/types"
)

// SecureChannel 安全通道接口
//
// SecureChannel 是可插拔的握手能力：给定原始流和发起者标志，
// 执行握手并产出加密连接。变体对应具体握手算法
// （如 Noise 类或签名认证类协议），完整性由接口机制在
// 编译期保证，不存在可实例化的"基类"。
type SecureChannel interface {
	// Secure 在原始流上执行握手
	//
	// 参数：
	//   - ctx: 上下文
	//   - raw: 原始字节流
	//   - initiator: true = 发起方（拨号端），false = 响应方（接受端）
	//
	// 返回：
	//   - SecureConn: 握手成功产出的加密连接，原始流所有权随之转移
	//   - error: 握手失败时的错误；失败时原始流所有权仍归调用方
	Secure(ctx context.Context, raw Stream, initiator bool) (SecureConn, error)

	// ID 返回安全协议标识
	ID() types.ProtocolID
}

// SecureConn 安全连接接口
//
// SecureConn 是 Stream 的特化：通用字节流视图之下额外暴露
// 按消息分帧的加密读写。仅在握手成功后构造，
// 并始终绑定已验证的远端公钥。
type SecureConn interface {
	Stream

	// ReadMessage 读取并解密一条完整消息
	ReadMessage() ([]byte, error)

	// WriteMessage 加密并写出一条完整消息
	WriteMessage(msg []byte) error

	// LocalPublicKey 返回本地身份公钥
	LocalPublicKey() *crypto.PublicKey

	// RemotePublicKey 返回已验证的远端身份公钥
	RemotePublicKey() *crypto.PublicKey
}
