// Package crypto 提供 secp256k1 密码学原语
//
// # 概述
//
// crypto 实现安全通道所依赖的密钥、签名和引擎原语：
//
//   - PrivateKey / PublicKey：secp256k1 密钥对，固定字节布局序列化
//   - Signature：可恢复签名（r ‖ s ‖ recovery id，共 65 字节）
//   - Context：执行上下文本地的引擎句柄
//
// # 字节布局
//
// 所有序列化布局是比特精确的：
//
//	私钥：32 字节原始标量
//	公钥：33 字节压缩点（0x02/0x03 前缀 + 32 字节 x 坐标）
//	签名：65 字节（r 32 字节 + s 32 字节 + recovery id 1 字节）
//
// 十六进制文本是上述布局的 hex 编码，大小写不敏感，
// 解码前会剥离内嵌空白字符。
//
// # 相等性
//
// 三种类型的相等性均定义在规范序列化形式上，而非内部表示。
// 同一个点的压缩编码与未压缩编码解析后比较相等。
//
// # Context 使用约定
//
// Context 严格归创建它的 goroutine 所有，绝不跨 goroutine 共享。
// 并发场景下每个 goroutine 创建自己的 Context。
package crypto
