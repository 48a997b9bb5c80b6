// Package stream 实现字节流适配器
package stream

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-secure/pkg/interfaces"
)

// DefaultReadLimit 默认单次读取大小上界（1 MiB）
const DefaultReadLimit = 1 << 20

// 确保实现了接口
var _ interfaces.Stream = (*Conn)(nil)

// Option 适配器配置选项
type Option func(*Conn)

// WithReadLimit 设置单次读取的大小上界
func WithReadLimit(limit int) Option {
	return func(c *Conn) {
		if limit > 0 {
			c.readLimit = limit
		}
	}
}

// Conn 字节流适配器
//
// 包装一个具体传输连接，持有关闭标志和一次性关闭通知。
// 正确性依赖单持有者访问约定：拥有它的任务是唯一的修改者，
// 读写路径不加锁；关闭路径是唯一的跨任务信号。
type Conn struct {
	conn      net.Conn
	readLimit int

	closed    atomic.Bool
	closeOnce sync.Once
	closeCh   chan struct{}
	closeErr  error
}

// New 创建字节流适配器
//
// 适配器接管 conn 的生命周期：之后只应通过适配器操作该连接。
func New(conn net.Conn, opts ...Option) *Conn {
	c := &Conn{
		conn:      conn,
		readLimit: DefaultReadLimit,
		closeCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================================================
//                              读取
// ============================================================================

// Read 读取部分数据
//
// 至少有一个字节可读时即返回，短读是正常情况而非错误。
// 流已关闭时立即返回 ErrEOF，不做任何等待。
func (c *Conn) Read(p []byte) (int, error) {
	if len(p) > c.readLimit {
		return 0, fmt.Errorf("%w: requested %d bytes, limit %d", ErrReadLimit, len(p), c.readLimit)
	}
	if c.closed.Load() {
		return 0, ErrEOF
	}

	n, err := c.conn.Read(p)
	if err != nil {
		return n, c.mapReadError(err, n)
	}
	return n, nil
}

// ReadFull 精确读取 len(buf) 字节
//
// 阻塞直到读满。流在首字节前结束返回 ErrEOF，
// 中途关闭返回 ErrIncomplete，超出上界返回 ErrReadLimit。
func (c *Conn) ReadFull(buf []byte) error {
	if len(buf) > c.readLimit {
		return fmt.Errorf("%w: requested %d bytes, limit %d", ErrReadLimit, len(buf), c.readLimit)
	}
	if c.closed.Load() {
		return ErrEOF
	}

	n, err := io.ReadFull(c.conn, buf)
	if err != nil {
		return c.mapReadError(err, n)
	}
	return nil
}

// mapReadError 将传输层读取故障映射到错误分类
//
// 首字节前的 EOF/关闭视为流结束；已有进展后的中断视为不完整读取。
func (c *Conn) mapReadError(err error, n int) error {
	switch {
	case errors.Is(err, io.EOF):
		if n > 0 {
			return fmt.Errorf("%w: got %d bytes", ErrIncomplete, n)
		}
		return ErrEOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: got %d bytes", ErrIncomplete, n)
	case isClosedConnError(err):
		if n > 0 {
			return fmt.Errorf("%w: got %d bytes", ErrIncomplete, n)
		}
		return ErrEOF
	default:
		return fmt.Errorf("%w: %v", ErrStream, err)
	}
}

// ============================================================================
//                              写入
// ============================================================================

// Write 写入全部字节
//
// 空输入为 no-op。单次底层写调用不保证消费整个缓冲区，
// 因此循环发出部分写，直到整个载荷刷出或失败。
func (c *Conn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if c.closed.Load() {
		return 0, fmt.Errorf("%w: write on closed stream", ErrStream)
	}

	written := 0
	for written < len(p) {
		n, err := c.conn.Write(p[written:])
		written += n
		if err != nil {
			return written, c.mapWriteError(err)
		}
		if n == 0 {
			return written, fmt.Errorf("%w: write made no progress", ErrStream)
		}
	}
	return written, nil
}

// mapWriteError 将传输层写入故障映射到错误分类
func (c *Conn) mapWriteError(err error) error {
	if isClosedConnError(err) {
		return fmt.Errorf("%w: write on closed stream", ErrStream)
	}
	return fmt.Errorf("%w: %v", ErrStream, err)
}

// ============================================================================
//                              关闭
// ============================================================================

// IsClosed 检查流是否已关闭
func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

// Close 关闭流
//
// 幂等：已关闭时为 no-op。否则关闭底层传输连接，
// 并恰好触发一次关闭通知。
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if err := c.conn.Close(); err != nil && !isClosedConnError(err) {
			c.closeErr = fmt.Errorf("%w: %v", ErrStream, err)
		}
		close(c.closeCh)
	})
	return c.closeErr
}

// CloseNotify 返回一次性关闭通知通道
func (c *Conn) CloseNotify() <-chan struct{} {
	return c.closeCh
}

// RemoteAddr 返回远端地址（仅用于诊断）
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// isClosedConnError 识别传输层的"连接已关闭"类故障
func isClosedConnError(err error) bool {
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	// 部分传输实现只在错误文本中携带该信息
	return err != nil && strings.Contains(err.Error(), "use of closed")
}
