// Package types 定义跨模块共享的基础类型
package types

// EmptyPeerID 空 PeerID
const EmptyPeerID = PeerID("")

// PeerID 节点标识
//
// 由节点公钥派生：Base58(SHA256(压缩公钥))。
// 派生逻辑见 pkg/lib/crypto.PeerIDFromPublicKey。
type PeerID string

// String 返回 PeerID 字符串形式
func (id PeerID) String() string {
	return string(id)
}

// Empty 检查 PeerID 是否为空
func (id PeerID) Empty() bool {
	return id == EmptyPeerID
}

// Short 返回截断的 PeerID（用于日志显示）
func (id PeerID) Short() string {
	const maxLen = 8
	if len(id) <= maxLen {
		return string(id)
	}
	return string(id[:maxLen])
}
