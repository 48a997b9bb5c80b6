// Package crypto 提供 secp256k1 密码学原语
package crypto

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrInvalidKeyFormat 解析操作的输入格式无效
	ErrInvalidKeyFormat = errors.New("crypto: invalid key format")

	// ErrEngine 底层引擎故障或存在未处理的挂起错误
	ErrEngine = errors.New("crypto: engine failure")

	// ErrNilPrivateKey 私钥为空
	ErrNilPrivateKey = errors.New("crypto: nil private key")

	// ErrNilPublicKey 公钥为空
	ErrNilPublicKey = errors.New("crypto: nil public key")

	// ErrNilSignature 签名为空
	ErrNilSignature = errors.New("crypto: nil signature")
)
