// Package interfaces 定义安全通道升级层的公共接口
//
// 本文件定义 Stream 接口，抽象有序可靠的双向字节通道。
package interfaces

import (
	"io"
	"net"
)

// Stream 字节流接口
//
// Stream 是对底层传输连接的统一抽象：读写方向互相独立，
// 关闭是幂等的，关闭通知恰好触发一次。
//
// 错误契约（见 internal/core/stream 的错误分类）：
//   - 流已结束时读取失败为 EOF 类错误
//   - 连接在请求字节到齐前关闭为 Incomplete 类错误
//   - 读取超出大小上界为 Limit 类错误
//
// 关闭后所有读取返回 EOF 类错误，所有写入被拒绝。
type Stream interface {
	// Read 读取部分数据
	//
	// 至少有一个字节可读时即返回，短读是正常情况而非错误。
	io.Reader

	// ReadFull 精确读取 len(buf) 字节
	//
	// 阻塞直到读满，或以分类错误失败。
	ReadFull(buf []byte) error

	// Write 写入全部字节
	//
	// 空输入为 no-op；内部循环处理底层短写，直到整个载荷刷出。
	io.Writer

	// IsClosed 检查流是否已关闭
	IsClosed() bool

	// Close 关闭流
	//
	// 幂等：已关闭时为 no-op。首次关闭触发一次关闭通知。
	io.Closer

	// CloseNotify 返回一次性关闭通知通道
	//
	// 通道在流关闭时被关闭，可安全注册多个观察者。
	CloseNotify() <-chan struct{}

	// RemoteAddr 返回远端地址（仅用于诊断）
	RemoteAddr() net.Addr
}
