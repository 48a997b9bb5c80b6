// Package upgrader 实现安全通道升级器
//
// # 概述
//
// upgrader 驱动可插拔的握手算法（pkg/interfaces.SecureChannel），
// 把原始字节流升级为绑定对端身份的加密逻辑连接。
//
// # 状态机
//
// 每条连接经历以下状态：
//
//	Initial --upgrade--> Handshaking --成功--> Secured
//	                          |
//	                          +--失败--> Closing --> Closed
//
// Secured 状态下，Connection 的读写被转发到安全连接的
// ReadMessage/WriteMessage，每条逻辑消息独立分帧和加解密。
// 任何读写故障或显式关闭都进入 Closing：原始流被关闭（幂等），
// 关闭通知恰好触发一次，挂起操作观察到流错误而非无限等待。
//
// # 发起方与响应方
//
// 发起方路径（Secure）由拨号端调用，失败先关闭原始连接，
// 再把错误传播给调用方。
//
// 响应方路径（HandleConn）按新接受的原始连接逐个调用，
// 握手失败只记录日志并关闭该连接，绝不传播给接受循环：
// 单个对端的握手失败不会中止监听器（逐连接隔离）。
//
// # 使用示例
//
//	channel, _ := noise.New(identityKey)
//	up, _ := upgrader.New(channel, upgrader.DefaultConfig())
//
//	// 拨号端
//	conn, err := up.Secure(ctx, stream.New(rawConn))
//
//	// 监听端
//	err := up.Serve(ctx, listener, func(c interfaces.Connection) {
//	    // 处理已升级连接
//	})
package upgrader
