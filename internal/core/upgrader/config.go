// Package upgrader 实现安全通道升级器
package upgrader

import (
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultHandshakeTimeout 默认握手超时时间
const DefaultHandshakeTimeout = 30 * time.Second

// Config 升级器配置
type Config struct {
	// HandshakeTimeout 握手超时时间（默认 30s）
	//
	// 超时后原始流被关闭，使挂起的握手读写迅速失败。
	HandshakeTimeout time.Duration

	// Clock 时钟源（默认真实时钟）
	//
	// 测试时可注入 mock 时钟。
	Clock clock.Clock
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: DefaultHandshakeTimeout,
		Clock:            clock.New(),
	}
}

// withDefaults 填充未设置的配置项
func (c Config) withDefaults() Config {
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	return c
}
