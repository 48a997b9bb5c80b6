// Package noise 实现基于 Noise 协议的安全通道变体
package noise

import "errors"

var (
	// ErrNilIdentity 身份私钥为空
	ErrNilIdentity = errors.New("noise: identity key is nil")

	// ErrInvalidPayload 身份载荷格式无效
	ErrInvalidPayload = errors.New("noise: malformed identity payload")

	// ErrPayloadSignature 身份载荷签名无效
	ErrPayloadSignature = errors.New("noise: static key not bound to identity key")

	// ErrInvalidStaticKey 对端 Noise 静态公钥无效
	ErrInvalidStaticKey = errors.New("noise: invalid remote static key")

	// ErrMessageTooLarge 明文消息超出单帧上限
	ErrMessageTooLarge = errors.New("noise: message exceeds maximum frame size")
)
