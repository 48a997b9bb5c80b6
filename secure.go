package secure

import (
	"net"

	"github.com/dep2p/go-secure/internal/core/security/noise"
	"github.com/dep2p/go-secure/internal/core/stream"
	"github.com/dep2p/go-secure/internal/core/upgrader"
	"github.com/dep2p/go-secure/pkg/interfaces"
	"github.com/dep2p/go-secure/pkg/lib/crypto"
	"github.com/dep2p/go-secure/pkg/types"
)

// NoiseProtocolID Noise 安全协议标识
const NoiseProtocolID = noise.ProtocolID

// Upgrader 安全通道升级器
type Upgrader = upgrader.Upgrader

// Config 升级器配置
type Config = upgrader.Config

// DefaultConfig 返回默认升级器配置
func DefaultConfig() Config {
	return upgrader.DefaultConfig()
}

// NewUpgrader 创建安全通道升级器
func NewUpgrader(channel interfaces.SecureChannel, cfg Config) (*Upgrader, error) {
	return upgrader.New(channel, cfg)
}

// NewNoiseChannel 创建基于 Noise XX 的安全通道
//
// identity 是节点的 secp256k1 身份私钥。
func NewNoiseChannel(identity *crypto.PrivateKey) (interfaces.SecureChannel, error) {
	return noise.New(identity)
}

// StreamOption 字节流适配器配置选项
type StreamOption = stream.Option

// WithReadLimit 设置字节流单次读取的大小上界
func WithReadLimit(limit int) StreamOption {
	return stream.WithReadLimit(limit)
}

// NewStream 把传输连接适配为字节流
func NewStream(conn net.Conn, opts ...StreamOption) interfaces.Stream {
	return stream.New(conn, opts...)
}

// PeerIDFromPublicKey 从身份公钥派生节点 ID
func PeerIDFromPublicKey(pub *crypto.PublicKey) (types.PeerID, error) {
	return crypto.PeerIDFromPublicKey(pub)
}
