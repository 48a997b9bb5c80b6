// Package upgrader 实现安全通道升级器
package upgrader

import "errors"

var (
	// ErrNilChannel 安全通道为空
	ErrNilChannel = errors.New("upgrader: secure channel is nil")

	// ErrHandshakeFailed 握手协议未能完成
	ErrHandshakeFailed = errors.New("upgrader: handshake failed")

	// ErrHandshakeTimeout 握手超时
	ErrHandshakeTimeout = errors.New("upgrader: handshake timed out")

	// ErrNoRemoteIdentity 握手完成但缺少远端身份
	ErrNoRemoteIdentity = errors.New("upgrader: secure conn has no remote identity")
)
