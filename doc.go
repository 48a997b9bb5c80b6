// Package secure 提供安全通道升级能力
//
// 在任意可靠字节流（通常是 TCP 连接）上执行认证握手，
// 把明文连接升级为绑定对端身份的加密连接。
//
// 三个层次：
//
//   - 字节流适配器: 把 net.Conn 适配为带关闭通知的字节流
//   - 升级器: 在可插拔的安全通道上驱动握手（超时、逐连接隔离）
//   - Noise 变体: 基于 Noise XX 的内置安全通道实现
//
// # 使用示例
//
//	cctx := crypto.NewContext()
//	key, _ := cctx.GeneratePrivateKey()
//	cctx.Close()
//
//	channel, _ := secure.NewNoiseChannel(key)
//	up, _ := secure.NewUpgrader(channel, secure.DefaultConfig())
//
//	// 出站：拨号后升级
//	raw, _ := net.Dial("tcp", addr)
//	conn, _ := up.Secure(ctx, secure.NewStream(raw))
//
//	// 入站：接受循环
//	l, _ := net.Listen("tcp", addr)
//	up.Serve(ctx, l, handleConn)
package secure
