// Package interfaces 定义安全通道升级层的公共接口
//
// 接口按关注点拆分到不同文件：
//
//   - stream.go：字节流契约（Stream）
//   - security.go：安全通道与安全连接契约（SecureChannel、SecureConn）
//   - connection.go：暴露给上层的逻辑连接契约（Connection）
//
// 具体实现位于 internal/core 下的各模块。
package interfaces
