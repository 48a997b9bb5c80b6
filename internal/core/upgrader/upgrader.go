// Package upgrader 实现安全通道升级器
package upgrader

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/benbjohnson/clock"
	tec "github.com/jbenet/go-temp-err-catcher"
	"go.uber.org/multierr"

	"github.com/dep2p/go-secure/internal/core/stream"
	"github.com/dep2p/go-secure/pkg/interfaces"
	"github.com/dep2p/go-secure/pkg/lib/log"
)

var logger = log.Logger("core/upgrader")

// Upgrader 安全通道升级器
//
// 在一个可插拔的 SecureChannel 之上驱动握手，
// 把原始流升级为绑定对端身份的逻辑连接。
type Upgrader struct {
	channel interfaces.SecureChannel
	timeout time.Duration
	clk     clock.Clock
}

// New 创建升级器
func New(channel interfaces.SecureChannel, cfg Config) (*Upgrader, error) {
	if channel == nil {
		return nil, ErrNilChannel
	}

	cfg = cfg.withDefaults()
	return &Upgrader{
		channel: channel,
		timeout: cfg.HandshakeTimeout,
		clk:     cfg.Clock,
	}, nil
}

// ============================================================================
//                              发起方路径
// ============================================================================

// Secure 升级出站连接（发起方）
//
// 在原始流上以发起者角色执行握手。成功返回已升级连接；
// 失败先关闭原始连接，再把错误传播给调用方。
func (u *Upgrader) Secure(ctx context.Context, raw interfaces.Stream) (interfaces.Connection, error) {
	logger.Debug("发起安全握手", "protocol", u.channel.ID(), "remoteAddr", remoteAddr(raw))

	sc, err := u.handshake(ctx, raw, true)
	if err != nil {
		return nil, multierr.Append(
			fmt.Errorf("%w: %w", ErrHandshakeFailed, err),
			raw.Close(),
		)
	}

	conn, err := newConn(sc)
	if err != nil {
		return nil, multierr.Append(err, sc.Close())
	}

	logger.Debug("安全握手成功", "remotePeer", conn.RemotePeer().Short())
	return conn, nil
}

// ============================================================================
//                              响应方路径
// ============================================================================

// HandleConn 升级入站连接（响应方）
//
// 按新接受的原始连接逐个调用。握手成功后，已升级连接
// 交由 handler 处理；握手失败只记录日志并关闭该连接，
// 不向接受循环传播（逐连接隔离）。
func (u *Upgrader) HandleConn(ctx context.Context, raw interfaces.Stream, handler interfaces.ConnHandler) {
	sc, err := u.handshake(ctx, raw, false)
	if err != nil {
		logger.Warn("入站握手失败，关闭连接", "remoteAddr", remoteAddr(raw), "error", err)
		raw.Close()
		return
	}

	conn, err := newConn(sc)
	if err != nil {
		logger.Warn("入站连接缺少远端身份，关闭连接", "remoteAddr", remoteAddr(raw), "error", err)
		sc.Close()
		return
	}

	logger.Debug("入站握手成功", "remotePeer", conn.RemotePeer().Short())
	handler(conn)
}

// Serve 运行接受循环
//
// 对每条新接受的连接启动独立任务执行 HandleConn。
// 临时性的接受错误被容忍并继续循环；监听器关闭或
// ctx 取消时返回。单个对端的握手失败不会中止循环。
func (u *Upgrader) Serve(ctx context.Context, l net.Listener, handler interfaces.ConnHandler) error {
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			l.Close()
		case <-stopped:
		}
	}()

	var catcher tec.TempErrCatcher
	for {
		conn, err := l.Accept()
		if err != nil {
			if catcher.IsTemporary(err) {
				logger.Warn("接受连接出现临时错误", "error", err)
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("accept: %w", err)
		}

		go u.HandleConn(ctx, stream.New(conn), handler)
	}
}

// ============================================================================
//                              握手驱动
// ============================================================================

// handshakeResult 握手任务的结果
type handshakeResult struct {
	sc  interfaces.SecureConn
	err error
}

// handshake 在超时约束下执行握手
//
// 超时或 ctx 取消时关闭原始流：这是唤醒挂起握手读写的
// 唯一取消机制，没有独立的取消令牌。
func (u *Upgrader) handshake(ctx context.Context, raw interfaces.Stream, initiator bool) (interfaces.SecureConn, error) {
	resCh := make(chan handshakeResult, 1)
	go func() {
		sc, err := u.channel.Secure(ctx, raw, initiator)
		resCh <- handshakeResult{sc: sc, err: err}
	}()

	timer := u.clk.Timer(u.timeout)
	defer timer.Stop()

	select {
	case res := <-resCh:
		return res.sc, res.err
	case <-timer.C:
		u.abortHandshake(raw, resCh)
		return nil, ErrHandshakeTimeout
	case <-ctx.Done():
		u.abortHandshake(raw, resCh)
		return nil, ctx.Err()
	}
}

// abortHandshake 中止进行中的握手并回收其结果
func (u *Upgrader) abortHandshake(raw interfaces.Stream, resCh <-chan handshakeResult) {
	raw.Close()
	if res := <-resCh; res.err == nil && res.sc != nil {
		res.sc.Close()
	}
}

// remoteAddr 返回用于日志的远端地址文本
func remoteAddr(s interfaces.Stream) string {
	if addr := s.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "<unknown>"
}
