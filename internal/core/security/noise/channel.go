// Package noise 实现基于 Noise 协议的安全通道变体
package noise

import (
	"context"

	"github.com/dep2p/go-secure/pkg/interfaces"
	"github.com/dep2p/go-secure/pkg/lib/crypto"
	"github.com/dep2p/go-secure/pkg/lib/log"
	"github.com/dep2p/go-secure/pkg/types"
)

var logger = log.Logger("core/security/noise")

// ProtocolID Noise 安全协议标识
const ProtocolID = types.ProtocolID("/noise/1.0.0")

// 确保实现了接口
var _ interfaces.SecureChannel = (*Channel)(nil)

// Channel Noise 安全通道
type Channel struct {
	identity *crypto.PrivateKey
}

// New 创建 Noise 安全通道
//
// identity 是节点的 secp256k1 身份私钥，用于在握手中
// 签名绑定 Noise 静态密钥。
func New(identity *crypto.PrivateKey) (*Channel, error) {
	if identity == nil {
		return nil, ErrNilIdentity
	}
	return &Channel{identity: identity}, nil
}

// ID 返回安全协议标识
func (c *Channel) ID() types.ProtocolID {
	return ProtocolID
}

// Secure 在原始流上执行 Noise XX 握手
//
// 成功时返回加密连接，原始流所有权转移给它；
// 失败时所有权仍归调用方（由升级器负责关闭）。
func (c *Channel) Secure(_ context.Context, raw interfaces.Stream, initiator bool) (interfaces.SecureConn, error) {
	sc, err := performHandshake(raw, c.identity, initiator)
	if err != nil {
		logger.Debug("Noise 握手失败", "initiator", initiator, "error", err)
		return nil, err
	}
	return sc, nil
}
